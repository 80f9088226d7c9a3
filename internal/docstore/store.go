package docstore

import (
	"time"

	"github.com/loomsync/loom/internal/doctree"
	"github.com/loomsync/loom/internal/ot"
	"github.com/loomsync/loom/internal/vclock"
)

// Document is the unit of collaboration: one state tree, one append-only
// operation log, one vector clock. Documents are independent - there are
// no cross-document invariants.
type Document struct {
	State doctree.Value
	Log   []OperationRecord
	Clock vclock.Clock
}

// OperationRecord is one entry in a document's log. Immutable once
// appended; history is never rewritten, only optionally trimmed by age.
type OperationRecord struct {
	// ID is an opaque unique identifier for the record.
	ID string

	// Op is the operation as it was applied, after transformation.
	// Nil when the operation was annihilated; annihilated submissions
	// still occupy a log slot.
	Op ot.Op

	// UserID attributes the operation to its author.
	UserID string

	// Timestamp is the wall time the record was appended.
	Timestamp time.Time

	// Snapshot is a copy of the document's entire vector clock taken at
	// the moment this record was created.
	Snapshot vclock.Clock
}

// ApplyResult is what ApplyOperation hands back to the caller.
type ApplyResult struct {
	Record      OperationRecord
	NewState    doctree.Value
	Transformed ot.Op
}

// Store owns all documents. Construct with New and pass by reference;
// there is no package-level state.
type Store struct {
	docs  map[string]*Document
	idGen IDGenerator
	now   func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithIDGenerator overrides the record ID generator.
// Production uses UUIDv7; tests use a fixed sequence for golden comparison.
func WithIDGenerator(g IDGenerator) Option {
	return func(s *Store) {
		s.idGen = g
	}
}

// WithNow overrides the wall-clock source used for record timestamps.
// Record timestamps feed only the query surface (Operations since-filter,
// ClearOldOperations); merge semantics never read them.
func WithNow(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// New creates an empty Store.
func New(opts ...Option) *Store {
	s := &Store{
		docs:  make(map[string]*Document),
		idGen: UUIDv7Generator{},
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// document returns the Document for id, creating it lazily on first use.
// New documents start from the empty object state.
func (s *Store) document(id string) *Document {
	doc, ok := s.docs[id]
	if !ok {
		doc = &Document{
			State: doctree.Object{},
			Clock: vclock.New(),
		}
		s.docs[id] = doc
	}
	return doc
}
