package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/loomsync/loom/internal/doctree"
	"github.com/loomsync/loom/internal/harness"
	"github.com/loomsync/loom/internal/journal"
	"github.com/loomsync/loom/internal/ot"
)

// ApplyResultOutput is the JSON payload for a successful apply.
type ApplyResultOutput struct {
	Document   string          `json:"document"`
	Steps      int             `json:"steps"`
	FinalState json.RawMessage `json:"final_state"`
	Digest     string          `json:"digest"`
}

// NewApplyCommand creates the apply command.
func NewApplyCommand(rootOpts *RootOptions) *cobra.Command {
	var journalPath string

	cmd := &cobra.Command{
		Use:   "apply <script.yaml>",
		Short: "Run a merge script and print the resulting document state",
		Long: `Run a merge script through a fresh engine.

The script lists operations attributed to users, in arrival order. Each
operation is transformed against the concurrent history before being
applied, exactly as a live collaboration session would merge them.

With --journal, every submission is also recorded to a SQLite journal
for later replay.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApply(rootOpts, args[0], journalPath, cmd)
		},
	}

	cmd.Flags().StringVar(&journalPath, "journal", "", "record submissions to a SQLite journal at this path")

	return cmd
}

func runApply(opts *RootOptions, scriptPath, journalPath string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	scenario, result, err := runScript(formatter, scriptPath)
	if err != nil {
		return err
	}

	if journalPath != "" {
		n, err := journalScript(cmd.Context(), journalPath, scenario, result)
		if err != nil {
			_ = formatter.Error(ErrCodeJournal, err.Error(), nil)
			return WrapExitError(ExitCommandError, "journal submissions", err)
		}
		formatter.VerboseLog("journaled %d submission(s) to %s", n, journalPath)
	}

	stateJSON, err := doctree.Marshal(result.FinalState)
	if err != nil {
		_ = formatter.Error(ErrCodeScriptRun, err.Error(), nil)
		return WrapExitError(ExitFailure, "marshal final state", err)
	}
	digest, err := doctree.Digest(result.FinalState)
	if err != nil {
		_ = formatter.Error(ErrCodeScriptRun, err.Error(), nil)
		return WrapExitError(ExitFailure, "digest final state", err)
	}

	if formatter.Format == "json" {
		return formatter.Success(ApplyResultOutput{
			Document:   scenario.Document,
			Steps:      len(scenario.Steps),
			FinalState: stateJSON,
			Digest:     digest,
		})
	}

	fmt.Fprintf(formatter.Writer, "document %s: %d step(s) applied\n", scenario.Document, len(scenario.Steps))
	fmt.Fprintf(formatter.Writer, "state:  %s\n", stateJSON)
	fmt.Fprintf(formatter.Writer, "digest: %s\n", digest)
	return nil
}

// journalScript records the script's submissions, pairing each step with
// the record ID the engine assigned to it. The journal stores operations
// as submitted, before transformation, so replay re-derives the merge.
// Returns how many submissions were journaled.
func journalScript(ctx context.Context, path string, scenario *harness.Scenario, result *harness.Result) (int, error) {
	j, err := journal.Open(path)
	if err != nil {
		return 0, err
	}
	defer j.Close()

	now := time.Now()
	entries := make([]journal.Entry, 0, len(scenario.Steps)+1)

	// The initial seed is a submission like any other; it must replay
	// first or the steps land on an empty document.
	if result.Setup != nil {
		entries = append(entries, journal.Entry{
			ID:          result.Setup.ID,
			DocumentID:  scenario.Document,
			UserID:      result.Setup.UserID,
			Op:          result.Setup.Op,
			SubmittedAt: now,
		})
	}

	for i, step := range scenario.Steps {
		entries = append(entries, journal.Entry{
			ID:          result.Trace[i].RecordID,
			DocumentID:  scenario.Document,
			UserID:      step.User,
			Op:          ot.DecodeMap(step.Op),
			SubmittedAt: now.Add(time.Duration(i+1) * time.Millisecond),
		})
	}

	for _, entry := range entries {
		if err := j.Append(ctx, entry); err != nil {
			return 0, err
		}
	}
	return len(entries), nil
}
