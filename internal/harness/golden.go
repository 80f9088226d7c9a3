package harness

import (
	"fmt"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/loomsync/loom/internal/doctree"
)

// RunWithGolden executes a scenario, verifies its expected state, and
// compares the canonical trace snapshot against a golden file stored in
// testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario) error {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return err
	}
	if err := Verify(scenario, result); err != nil {
		return err
	}

	snapshot, err := snapshotJSON(scenario.Name, result)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenario.Name, snapshot)

	return nil
}

// snapshotJSON renders a result as canonical JSON so golden comparison is
// byte-stable across runs and platforms.
func snapshotJSON(name string, result *Result) ([]byte, error) {
	trace := make(doctree.Array, len(result.Trace))
	for i, ev := range result.Trace {
		trace[i] = doctree.Object{
			"record_id":   doctree.String(ev.RecordID),
			"user":        doctree.String(ev.User),
			"kind":        doctree.String(ev.Kind),
			"transformed": doctree.String(ev.Transformed),
			"annihilated": doctree.Bool(ev.Annihilated),
			"digest":      doctree.String(ev.Digest),
		}
	}

	finalState := result.FinalState
	if finalState == nil {
		finalState = doctree.Null{}
	}

	snapshot := doctree.Object{
		"scenario":    doctree.String(name),
		"trace":       trace,
		"final_state": finalState,
	}

	b, err := doctree.MarshalCanonical(snapshot)
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}
	return b, nil
}
