package vclock

import (
	"fmt"
	"sort"
	"strings"
)

// Clock is a vector clock mapping user IDs to counters.
// Callers serialize access; the map itself is not synchronized.
type Clock map[string]int64

// New creates an empty clock.
func New() Clock {
	return make(Clock)
}

// Increment bumps the counter for userID and returns the new value.
// Unseen users start at 0, so their first increment yields 1.
func (c Clock) Increment(userID string) int64 {
	c[userID]++
	return c[userID]
}

// Get returns the counter for userID, or 0 if never seen.
func (c Clock) Get(userID string) int64 {
	return c[userID]
}

// Copy returns an independent copy of the clock.
// Operation records snapshot the clock at append time; the snapshot must
// not alias the live map.
func (c Clock) Copy() Clock {
	out := make(Clock, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

// Merge folds another clock into this one, keeping the maximum counter
// per user.
func (c Clock) Merge(other Clock) {
	for userID, counter := range other {
		if c[userID] < counter {
			c[userID] = counter
		}
	}
}

// Ordering is the result of comparing two clocks under the component-wise
// partial order.
type Ordering int

const (
	// Before means this clock causally precedes the other.
	Before Ordering = iota
	// After means this clock causally follows the other.
	After
	// Concurrent means neither clock dominates the other.
	Concurrent
	// Equal means every counter matches.
	Equal
)

// Compare evaluates the textbook causal relationship between two clocks.
//
// The engine's own concurrency rule is NOT this comparison - it uses the
// literal per-author snapshot check (see docstore). Compare exists for
// diagnostics and for tests that document how the two rules diverge.
func (c Clock) Compare(other Clock) Ordering {
	if c.Equal(other) {
		return Equal
	}

	users := make(map[string]struct{}, len(c)+len(other))
	for u := range c {
		users[u] = struct{}{}
	}
	for u := range other {
		users[u] = struct{}{}
	}

	var less, greater bool
	for u := range users {
		switch {
		case c[u] < other[u]:
			less = true
		case c[u] > other[u]:
			greater = true
		}
	}

	switch {
	case less && !greater:
		return Before
	case greater && !less:
		return After
	default:
		return Concurrent
	}
}

// Equal reports whether every counter matches.
func (c Clock) Equal(other Clock) bool {
	if len(c) != len(other) {
		return false
	}
	for u, counter := range c {
		if other[u] != counter {
			return false
		}
	}
	return true
}

// String renders the clock with sorted users for deterministic output.
func (c Clock) String() string {
	if len(c) == 0 {
		return "{}"
	}

	users := make([]string, 0, len(c))
	for u := range c {
		users = append(users, u)
	}
	sort.Strings(users)

	parts := make([]string, 0, len(users))
	for _, u := range users {
		parts = append(parts, fmt.Sprintf("%s:%d", u, c[u]))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
