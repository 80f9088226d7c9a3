package docstore

import (
	"log/slog"
	"time"

	"github.com/loomsync/loom/internal/doctree"
	"github.com/loomsync/loom/internal/ot"
	"github.com/loomsync/loom/internal/vclock"
)

// State returns the current state of a document, or nil for an unknown id.
// Callers must treat the returned tree as read-only; the applier never
// mutates a published state, so the same tree may be shared with later
// readers.
func (s *Store) State(docID string) doctree.Value {
	doc, ok := s.docs[docID]
	if !ok {
		return nil
	}
	return doc.State
}

// Operations returns the document's log in append order. A non-zero since
// keeps only records with a timestamp strictly after it.
// Returns an empty slice, not nil, for unknown documents.
//
// Clock snapshots are copied on the way out, so mutating a returned
// snapshot cannot rewrite history. Op values still share their trees with
// the log and must be treated as read-only.
func (s *Store) Operations(docID string, since time.Time) []OperationRecord {
	doc, ok := s.docs[docID]
	if !ok {
		return []OperationRecord{}
	}

	out := []OperationRecord{}
	for _, rec := range doc.Log {
		if !since.IsZero() && !rec.Timestamp.After(since) {
			continue
		}
		rec.Snapshot = rec.Snapshot.Copy()
		out = append(out, rec)
	}
	return out
}

// Clock returns a copy of the document's vector clock.
// Unknown documents yield an empty clock.
func (s *Store) Clock(docID string) vclock.Clock {
	doc, ok := s.docs[docID]
	if !ok {
		return vclock.New()
	}
	return doc.Clock.Copy()
}

// ClearOldOperations drops records older than maxAge from the log and
// returns how many were removed. Purely log hygiene: the document state
// is not recomputed, so trimming never changes State.
func (s *Store) ClearOldOperations(docID string, maxAge time.Duration) int {
	doc, ok := s.docs[docID]
	if !ok {
		return 0
	}

	cutoff := s.now().Add(-maxAge)
	kept := doc.Log[:0:0]
	for _, rec := range doc.Log {
		if !rec.Timestamp.Before(cutoff) {
			kept = append(kept, rec)
		}
	}

	dropped := len(doc.Log) - len(kept)
	doc.Log = kept
	if dropped > 0 {
		slog.Debug("trimmed operation log",
			"document", docID,
			"dropped", dropped,
			"remaining", len(kept),
		)
	}
	return dropped
}

// Reset drops all state for a document: state tree, log, and clock.
// Unknown ids are a no-op.
func (s *Store) Reset(docID string) {
	delete(s.docs, docID)
}

// Stats summarizes a document's log for the monitoring surface.
type Stats struct {
	Total       int              `json:"total"`
	ByKind      map[string]int   `json:"by_kind"`
	ByUser      map[string]int   `json:"by_user"`
	Clock       map[string]int64 `json:"clock"`
	StateDigest string           `json:"state_digest"`
}

// KindAnnihilated is the Stats bucket for records whose operation was
// annihilated during transformation.
const KindAnnihilated = "annihilated"

// Stats computes per-kind and per-user operation counts, the current
// vector clock as a plain map, and the canonical digest of the current
// state. Unknown documents yield zeroed stats with empty maps.
func (s *Store) Stats(docID string) Stats {
	stats := Stats{
		ByKind: map[string]int{},
		ByUser: map[string]int{},
		Clock:  map[string]int64{},
	}

	doc, ok := s.docs[docID]
	if !ok {
		return stats
	}

	stats.Total = len(doc.Log)
	for _, rec := range doc.Log {
		kind := ot.Kind(rec.Op)
		if rec.Op == nil {
			kind = KindAnnihilated
		}
		stats.ByKind[kind]++
		stats.ByUser[rec.UserID]++
	}
	for user, counter := range doc.Clock {
		stats.Clock[user] = counter
	}

	if digest, err := doctree.Digest(doc.State); err == nil {
		stats.StateDigest = digest
	}
	return stats
}
