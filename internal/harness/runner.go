package harness

import (
	"fmt"
	"time"

	"github.com/loomsync/loom/internal/docstore"
	"github.com/loomsync/loom/internal/doctree"
	"github.com/loomsync/loom/internal/ot"
	"github.com/loomsync/loom/internal/testutil"
)

// TraceEvent records what became of one step: the operation kind as
// submitted, what it was transformed into, and the state digest after it
// was folded in.
type TraceEvent struct {
	RecordID    string
	User        string
	Kind        string
	Transformed string
	Annihilated bool
	Digest      string
}

// Result is the outcome of running a scenario.
type Result struct {
	// Setup is the record of the Initial seed submission, nil when the
	// scenario declares no initial state. Journaling must include it or
	// a replayed session starts from an empty document.
	Setup *docstore.OperationRecord

	Trace      []TraceEvent
	FinalState doctree.Value
	Store      *docstore.Store
}

// scenarioEpoch anchors record timestamps so traces are reproducible.
var scenarioEpoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// Run executes a scenario against a fresh engine with deterministic IDs
// and timestamps: the same scenario always yields the same trace.
func Run(s *Scenario) (*Result, error) {
	store := docstore.New(
		docstore.WithIDGenerator(docstore.NewSequenceGenerator("op")),
		docstore.WithNow(testutil.NewWallClock(scenarioEpoch, time.Second).Now),
	)

	result := &Result{Store: store}

	if len(s.Initial) > 0 {
		res := store.ApplyOperation(s.Document, ot.Update{Value: doctree.FromGo(s.Initial)}, SetupUser)
		rec := res.Record
		result.Setup = &rec
	}
	for i, step := range s.Steps {
		op := ot.DecodeMap(step.Op)
		res := store.ApplyOperation(s.Document, op, step.User)

		digest, err := doctree.Digest(res.NewState)
		if err != nil {
			return nil, fmt.Errorf("step %d: digest: %w", i, err)
		}

		result.Trace = append(result.Trace, TraceEvent{
			RecordID:    res.Record.ID,
			User:        step.User,
			Kind:        ot.Kind(op),
			Transformed: ot.Kind(res.Transformed),
			Annihilated: res.Transformed == nil,
			Digest:      digest,
		})
	}

	result.FinalState = store.State(s.Document)
	return result, nil
}

// Verify checks a result against the scenario's expected final state.
// Scenarios without expect_state always verify.
func Verify(s *Scenario, result *Result) error {
	if s.ExpectState == nil {
		return nil
	}

	want := doctree.FromGo(s.ExpectState)
	if !doctree.Equal(want, result.FinalState) {
		wantJSON, _ := doctree.Marshal(want)
		gotJSON, _ := doctree.Marshal(result.FinalState)
		return fmt.Errorf("final state mismatch:\n  want %s\n  got  %s", wantJSON, gotJSON)
	}
	return nil
}
