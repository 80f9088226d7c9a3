package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/loomsync/loom/internal/docstore"
)

// StatsOutput is the JSON payload for the stats command.
type StatsOutput struct {
	Document string         `json:"document"`
	Stats    docstore.Stats `json:"stats"`
}

// NewStatsCommand creates the stats command.
func NewStatsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats <script.yaml>",
		Short: "Run a merge script and summarize the resulting log",
		Long: `Run a merge script and print operation counts by kind and by user,
the final vector clock, and the canonical state digest.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runStats(opts *RootOptions, scriptPath string, cmd *cobra.Command) error {
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

	stats := result.Store.Stats(scenario.Document)

	if formatter.Format == "json" {
		return formatter.Success(StatsOutput{Document: scenario.Document, Stats: stats})
	}

	fmt.Fprintf(formatter.Writer, "document %s: %d operation(s)\n", scenario.Document, stats.Total)
	fmt.Fprintln(formatter.Writer, "by kind:")
	for _, kind := range sortedKeys(stats.ByKind) {
		fmt.Fprintf(formatter.Writer, "  %-12s %d\n", kind, stats.ByKind[kind])
	}
	fmt.Fprintln(formatter.Writer, "by user:")
	for _, user := range sortedKeys(stats.ByUser) {
		fmt.Fprintf(formatter.Writer, "  %-12s %d\n", user, stats.ByUser[user])
	}
	fmt.Fprintf(formatter.Writer, "clock:  %s\n", result.Store.Clock(scenario.Document))
	fmt.Fprintf(formatter.Writer, "digest: %s\n", stats.StateDigest)
	return nil
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
