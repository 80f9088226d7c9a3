// Package vclock implements per-document vector clocks: a map from user
// identity to a monotonically increasing counter, the only notion of time
// the merge engine has.
package vclock
