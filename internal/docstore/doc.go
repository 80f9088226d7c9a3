// Package docstore is the merge engine's façade. A Store owns, per
// document ID, the current state, the full ordered operation log, and the
// vector clock, and exposes ApplyOperation as the single entry point for
// reconciling concurrent edits.
//
// # Concurrency model
//
// The engine has no internal goroutines and performs no I/O; every call
// completes synchronously and deterministically given its inputs and the
// document's current log. Calls touching the same document must be
// serialized by the caller (one worker per document). Calls on different
// documents share no mutable state and may run in parallel.
//
// Memory is unbounded unless the caller periodically invokes
// ClearOldOperations; trimming is an externalized concern, not a
// background task.
package docstore
