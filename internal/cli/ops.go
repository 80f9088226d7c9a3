package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// OpEvent is one log entry in the ops listing.
type OpEvent struct {
	RecordID    string `json:"record_id"`
	User        string `json:"user"`
	Kind        string `json:"kind"`
	Transformed string `json:"transformed,omitempty"`
	Annihilated bool   `json:"annihilated"`
	Digest      string `json:"digest"`
}

// OpsOutput is the JSON payload for the ops command.
type OpsOutput struct {
	Document   string    `json:"document"`
	Operations []OpEvent `json:"operations"`
}

// NewOpsCommand creates the ops command.
func NewOpsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ops <script.yaml>",
		Short: "Run a merge script and list the transformed operation log",
		Long: `Run a merge script and show what each submission became.

For every step, the listing shows the operation as submitted, what the
transform matrix turned it into, and the state digest after it was
folded in. Annihilated operations (for example an insert landing inside
a concurrently deleted range) are marked explicitly.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOps(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runOps(opts *RootOptions, scriptPath string, cmd *cobra.Command) error {
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

	events := make([]OpEvent, len(result.Trace))
	for i, ev := range result.Trace {
		events[i] = OpEvent{
			RecordID:    ev.RecordID,
			User:        ev.User,
			Kind:        ev.Kind,
			Transformed: ev.Transformed,
			Annihilated: ev.Annihilated,
			Digest:      ev.Digest,
		}
	}

	if formatter.Format == "json" {
		return formatter.Success(OpsOutput{Document: scenario.Document, Operations: events})
	}

	fmt.Fprintf(formatter.Writer, "document %s: %d operation(s)\n", scenario.Document, len(events))
	for _, ev := range events {
		outcome := ev.Transformed
		if ev.Annihilated {
			outcome = "annihilated"
		}
		fmt.Fprintf(formatter.Writer, "  %-8s %-10s %-8s -> %s\n", ev.RecordID, ev.User, ev.Kind, outcome)
	}
	return nil
}
