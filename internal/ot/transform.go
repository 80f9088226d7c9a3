package ot

import (
	"unicode/utf8"

	"github.com/loomsync/loom/internal/doctree"
)

// Transform rewrites operation a so that applying it after concurrent,
// already-applied operation b still expresses a's original intent.
// Returns nil when b has made a meaningless (annihilation).
//
// Operations on different paths never interact: disjoint subtrees commute.
// Pairings the matrix does not recognize pass through unchanged rather
// than erroring.
//
// Two rules are deliberately literal rather than textbook-canonical:
//
//   - insert/insert ties at the same position shift a right, so b is
//     deemed to have landed first. The tie-break is argument order, not a
//     replica-independent rule such as comparing user IDs.
//   - delete/delete adjusts position only. Partial overlap is not trimmed
//     from a's length.
func Transform(a, b Op) Op {
	if a == nil {
		return nil
	}
	if b == nil {
		return a
	}
	if PathOf(a) != PathOf(b) {
		return a
	}

	switch av := a.(type) {
	case Insert:
		return transformInsert(av, b)
	case Delete:
		return transformDelete(av, b)
	case Update:
		pos, annihilated := transformSetPosition(av.Position, b)
		if annihilated {
			return nil
		}
		av.Position = pos
		return av
	case Replace:
		pos, annihilated := transformSetPosition(av.Position, b)
		if annihilated {
			return nil
		}
		av.Position = pos
		return av
	default:
		return a
	}
}

func transformInsert(a Insert, b Op) Op {
	switch bv := b.(type) {
	case Insert:
		// Equal positions also shift: b's insert is deemed to have
		// landed first.
		if a.Position >= bv.Position {
			a.Position += insertLength(bv.Value)
		}
		return a

	case Delete:
		end := bv.Position + bv.Length
		switch {
		case a.Position > bv.Position && a.Position < end:
			// Insert lands strictly inside the deleted range.
			return nil
		case a.Position >= end:
			a.Position -= bv.Length
		}
		return a

	default:
		return a
	}
}

func transformDelete(a Delete, b Op) Op {
	switch bv := b.(type) {
	case Delete:
		if a.Position > bv.Position {
			a.Position -= bv.Length
			if a.Position < 0 {
				a.Position = 0
			}
		}
		return a

	case Insert:
		if a.Position >= bv.Position {
			a.Position += insertLength(bv.Value)
		}
		return a

	default:
		return a
	}
}

// transformSetPosition adjusts the optional position of an update/replace
// against b. Position-less updates are pure path sets and never move;
// concurrent updates to the same path are left alone because the later
// submission wins at apply time anyway.
func transformSetPosition(pos *int, b Op) (*int, bool) {
	if pos == nil {
		return nil, false
	}

	switch bv := b.(type) {
	case Insert:
		if *pos >= bv.Position {
			shifted := *pos + insertLength(bv.Value)
			return &shifted, false
		}
		return pos, false

	case Delete:
		end := bv.Position + bv.Length
		switch {
		case *pos >= bv.Position && *pos < end:
			// The addressed element was deleted.
			return nil, true
		case *pos >= end:
			shifted := *pos - bv.Length
			return &shifted, false
		}
		return pos, false

	default:
		return pos, false
	}
}

// insertLength is how far an insert displaces later positions: the rune
// count for string splices, 1 for any value spliced into an array.
func insertLength(v doctree.Value) int {
	if s, ok := v.(doctree.String); ok {
		return utf8.RuneCountInString(string(s))
	}
	return 1
}
