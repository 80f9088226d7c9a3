package ot

import (
	"github.com/loomsync/loom/internal/doctree"
)

// Apply folds a single already-transformed operation into state and
// returns the resulting state. The input tree is never mutated: the state
// is deep-cloned first, so concurrent readers of the old state stay valid.
//
// Nil and unrecognized operations return the input state unchanged.
// Wrong-shaped targets and out-of-range positions are silent no-ops.
func Apply(state doctree.Value, op Op) doctree.Value {
	switch o := op.(type) {
	case Insert:
		return applyInsert(state, o)
	case Delete:
		return applyDelete(state, o)
	case Update:
		return applySet(state, o.Path, o.Position, o.Value)
	case Replace:
		return applySet(state, o.Path, o.Position, o.Value)
	default:
		// nil (annihilated) and Raw (unrecognized type)
		return state
	}
}

func applyInsert(state doctree.Value, op Insert) doctree.Value {
	target, ok := doctree.Get(state, op.Path)
	if !ok {
		return state
	}

	switch t := target.(type) {
	case doctree.Array:
		next := doctree.Clone(state)
		// Re-resolve inside the clone; the outer lookup only shape-checked.
		cloned, _ := doctree.Get(next, op.Path)
		arr := cloned.(doctree.Array)
		pos := clamp(op.Position, len(arr))

		spliced := make(doctree.Array, 0, len(arr)+1)
		spliced = append(spliced, arr[:pos]...)
		spliced = append(spliced, op.Value)
		spliced = append(spliced, arr[pos:]...)
		return doctree.Set(next, op.Path, spliced)

	case doctree.String:
		ins, ok := op.Value.(doctree.String)
		if !ok {
			return state
		}
		runes := []rune(string(t))
		pos := clamp(op.Position, len(runes))
		out := string(runes[:pos]) + string(ins) + string(runes[pos:])

		next := doctree.Clone(state)
		return doctree.Set(next, op.Path, doctree.String(out))

	default:
		return state
	}
}

func applyDelete(state doctree.Value, op Delete) doctree.Value {
	if op.Length <= 0 {
		return state
	}
	target, ok := doctree.Get(state, op.Path)
	if !ok {
		return state
	}

	switch t := target.(type) {
	case doctree.Array:
		next := doctree.Clone(state)
		cloned, _ := doctree.Get(next, op.Path)
		arr := cloned.(doctree.Array)
		start := clamp(op.Position, len(arr))
		end := clamp(op.Position+op.Length, len(arr))

		spliced := make(doctree.Array, 0, len(arr)-(end-start))
		spliced = append(spliced, arr[:start]...)
		spliced = append(spliced, arr[end:]...)
		return doctree.Set(next, op.Path, spliced)

	case doctree.String:
		runes := []rune(string(t))
		start := clamp(op.Position, len(runes))
		end := clamp(op.Position+op.Length, len(runes))
		out := string(runes[:start]) + string(runes[end:])

		next := doctree.Clone(state)
		return doctree.Set(next, op.Path, doctree.String(out))

	default:
		return state
	}
}

// applySet writes value at path. A position addressing an array element
// replaces that element in place; out-of-range positions are dropped.
// Positions against non-array targets are meaningless and fall back to a
// plain path set.
func applySet(state doctree.Value, path string, pos *int, value doctree.Value) doctree.Value {
	if pos != nil {
		target, ok := doctree.Get(state, path)
		if arr, isArr := target.(doctree.Array); ok && isArr {
			if *pos < 0 || *pos >= len(arr) {
				return state
			}
			next := doctree.Clone(state)
			cloned, _ := doctree.Get(next, path)
			cloned.(doctree.Array)[*pos] = value
			return next
		}
	}

	next := doctree.Clone(state)
	return doctree.Set(next, path, value)
}

func clamp(n, limit int) int {
	if n < 0 {
		return 0
	}
	if n > limit {
		return limit
	}
	return n
}
