package docstore

import (
	"log/slog"

	"github.com/loomsync/loom/internal/ot"
)

// ApplyOperation reconciles one incoming operation with the document's
// history and folds it into the current state.
//
// The sequence is fixed:
//  1. Look up or lazily create the document.
//  2. Bump the vector clock for userID.
//  3. Collect previously logged operations concurrent with this one.
//  4. Fold op through Transform against each concurrent operation in log
//     order, short-circuiting to nil the moment any step annihilates it.
//  5. Apply the (possibly nil) transformed operation to the state.
//  6. Append a record carrying the transformed op and a full clock
//     snapshot.
//
// Total: a nil or unrecognized op still bumps the clock and appends a
// record; only the state is left untouched.
func (s *Store) ApplyOperation(docID string, op ot.Op, userID string) ApplyResult {
	doc := s.document(docID)
	counter := doc.Clock.Increment(userID)

	concurrent := s.concurrentWith(doc, userID)

	transformed := op
	for _, rec := range concurrent {
		transformed = ot.Transform(transformed, rec.Op)
		if transformed == nil {
			slog.Debug("operation annihilated during transform",
				"document", docID,
				"user", userID,
				"against", rec.ID,
			)
			break
		}
	}

	doc.State = ot.Apply(doc.State, transformed)

	rec := OperationRecord{
		ID:        s.idGen.Generate(),
		Op:        transformed,
		UserID:    userID,
		Timestamp: s.now(),
		Snapshot:  doc.Clock.Copy(),
	}
	doc.Log = append(doc.Log, rec)

	slog.Debug("operation applied",
		"document", docID,
		"user", userID,
		"record", rec.ID,
		"kind", ot.Kind(transformed),
		"counter", counter,
		"transformed_against", len(concurrent),
	)

	return ApplyResult{
		Record:      rec,
		NewState:    doc.State,
		Transformed: transformed,
	}
}

// concurrentWith returns the logged operations that must be treated as
// concurrent with a new submission from userID, in log order.
//
// The rule is literal: a record is concurrent iff its author differs from
// the incoming author AND the record's snapshot counter for its own author
// is >= the live clock's counter for that author. Because a submission
// from one user never advances another user's live counter, this holds
// for essentially every cross-author record in history - each new
// submission is folded through nearly the whole cross-author log. That
// behavior is a preserved contract, not an accident; the textbook
// incomparable-under-componentwise-order test (vclock.Compare) would
// select a different set and change merge outcomes.
func (s *Store) concurrentWith(doc *Document, userID string) []OperationRecord {
	var concurrent []OperationRecord
	for _, rec := range doc.Log {
		if rec.UserID == userID {
			continue
		}
		if rec.Snapshot.Get(rec.UserID) >= doc.Clock.Get(rec.UserID) {
			concurrent = append(concurrent, rec)
		}
	}
	return concurrent
}
