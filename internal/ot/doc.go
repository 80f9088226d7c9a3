// Package ot implements the operational-transform core: the operation
// tagged union, the transform matrix that rewrites one operation in light
// of a concurrent one, and the applier that folds operations into document
// state.
//
// # Totality
//
// Nothing in this package errors or panics on malformed input. Operations
// with unrecognized wire types decode as Raw, pass through the transform
// matrix unchanged, and are ignored by the applier. Out-of-range positions
// and wrong-shaped targets degrade to no-ops. The only failure mode is a
// silently wrong merge, never an exception - callers wanting validation
// put it in front of the engine.
//
// # Annihilation
//
// A nil Op is the annihilated operation: a transform outcome where one
// operation's effect is fully negated by another (an insert landing inside
// a deleted range). The applier treats nil as "return state unchanged".
package ot
