package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/loomsync/loom/internal/docstore"
	"github.com/loomsync/loom/internal/doctree"
	"github.com/loomsync/loom/internal/journal"
)

// ReplayOutput is the JSON payload for the replay command.
type ReplayOutput struct {
	Document      string          `json:"document"`
	Submissions   int             `json:"submissions"`
	FinalState    json.RawMessage `json:"final_state"`
	Digest        string          `json:"digest"`
	Deterministic bool            `json:"deterministic"`
}

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	var journalPath string

	cmd := &cobra.Command{
		Use:   "replay <document-id>",
		Short: "Re-feed a journaled session through a fresh engine",
		Long: `Replay the journaled submissions for a document in recorded order
through a fresh engine and print the reconstructed state.

The fold is run twice and the two state digests compared; a mismatch
means the merge was not deterministic and is reported as a failure.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(rootOpts, journalPath, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&journalPath, "journal", "", "path to the SQLite journal (required)")
	_ = cmd.MarkFlagRequired("journal")

	return cmd
}

func runReplay(opts *RootOptions, journalPath, documentID string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	j, err := journal.Open(journalPath)
	if err != nil {
		_ = formatter.Error(ErrCodeJournal, err.Error(), nil)
		return WrapExitError(ExitCommandError, "open journal", err)
	}
	defer j.Close()

	entries, err := j.Entries(cmd.Context(), documentID)
	if err != nil {
		_ = formatter.Error(ErrCodeJournal, err.Error(), nil)
		return WrapExitError(ExitCommandError, "read journal", err)
	}
	if len(entries) == 0 {
		_ = formatter.Error(ErrCodeJournal, fmt.Sprintf("no journaled submissions for document %q", documentID), nil)
		return NewExitError(ExitCommandError, "empty journal for document")
	}

	formatter.VerboseLog("replaying %d submission(s) for document %q", len(entries), documentID)

	first, err := replayFold(cmd.Context(), documentID, entries)
	if err != nil {
		_ = formatter.Error(ErrCodeScriptRun, err.Error(), nil)
		return WrapExitError(ExitFailure, "replay", err)
	}
	second, err := replayFold(cmd.Context(), documentID, entries)
	if err != nil {
		_ = formatter.Error(ErrCodeScriptRun, err.Error(), nil)
		return WrapExitError(ExitFailure, "replay", err)
	}

	deterministic := first.digest == second.digest
	if !deterministic {
		_ = formatter.Error(ErrCodeScriptRun,
			fmt.Sprintf("replay diverged: %s vs %s", first.digest, second.digest), nil)
		return NewExitError(ExitFailure, "non-deterministic replay")
	}

	if formatter.Format == "json" {
		return formatter.Success(ReplayOutput{
			Document:      documentID,
			Submissions:   len(entries),
			FinalState:    first.stateJSON,
			Digest:        first.digest,
			Deterministic: deterministic,
		})
	}

	fmt.Fprintf(formatter.Writer, "document %s: %d submission(s) replayed\n", documentID, len(entries))
	fmt.Fprintf(formatter.Writer, "state:  %s\n", first.stateJSON)
	fmt.Fprintf(formatter.Writer, "digest: %s\n", first.digest)
	return nil
}

type replayResult struct {
	stateJSON json.RawMessage
	digest    string
}

// replayFold feeds journal entries through a fresh engine in seq order.
func replayFold(_ context.Context, documentID string, entries []journal.Entry) (replayResult, error) {
	store := docstore.New(docstore.WithIDGenerator(docstore.NewSequenceGenerator("replay")))

	for _, e := range entries {
		store.ApplyOperation(documentID, e.Op, e.UserID)
	}

	state := store.State(documentID)
	stateJSON, err := doctree.Marshal(state)
	if err != nil {
		return replayResult{}, fmt.Errorf("marshal replayed state: %w", err)
	}
	digest, err := doctree.Digest(state)
	if err != nil {
		return replayResult{}, fmt.Errorf("digest replayed state: %w", err)
	}
	return replayResult{stateJSON: stateJSON, digest: digest}, nil
}
