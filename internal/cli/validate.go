package cli

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

//go:embed schema.cue
var scriptSchemaCUE string

// ValidationError is one schema violation in a merge script.
type ValidationError struct {
	Path    string `json:"path,omitempty"`
	Message string `json:"message"`
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <script.yaml>",
		Short: "Validate a merge script against the operation schema",
		Long: `Validate a merge script without running it.

Checks the script against a CUE schema: known operation types, non-empty
user and document identities, well-formed positions and lengths. The
engine itself never rejects input - this command is the validation layer
for callers that want malformed scripts caught up front.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, scriptPath string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	data, err := os.ReadFile(scriptPath)
	if err != nil {
		_ = formatter.Error(ErrCodeScriptLoad, err.Error(), nil)
		return WrapExitError(ExitCommandError, "read script", err)
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		_ = formatter.Error(ErrCodeScriptLoad, err.Error(), nil)
		return WrapExitError(ExitCommandError, "parse script yaml", err)
	}

	validationErrors, err := validateScript(raw)
	if err != nil {
		_ = formatter.Error(ErrCodeSchema, err.Error(), nil)
		return WrapExitError(ExitCommandError, "compile schema", err)
	}

	if len(validationErrors) > 0 {
		return outputValidationErrors(formatter, validationErrors)
	}

	if formatter.Format == "json" {
		return formatter.Success(ValidationResult{Valid: true})
	}
	fmt.Fprintln(formatter.Writer, "script valid")
	return nil
}

// validateScript unifies the decoded script with the embedded CUE schema
// and collects every violation.
func validateScript(raw map[string]any) ([]ValidationError, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileString(scriptSchemaCUE, cue.Filename("schema.cue"))
	if schema.Err() != nil {
		return nil, fmt.Errorf("compile embedded schema: %w", schema.Err())
	}

	def := schema.LookupPath(cue.ParsePath("#Scenario"))
	if !def.Exists() {
		return nil, fmt.Errorf("embedded schema missing #Scenario definition")
	}

	value := ctx.Encode(raw)
	if value.Err() != nil {
		return []ValidationError{{Message: value.Err().Error()}}, nil
	}

	unified := def.Unify(value)
	if err := unified.Validate(cue.Concrete(false)); err != nil {
		var out []ValidationError
		for _, e := range cueerrors.Errors(err) {
			out = append(out, ValidationError{
				Path:    strings.Join(e.Path(), "."),
				Message: e.Error(),
			})
		}
		return out, nil
	}

	return nil, nil
}

func outputValidationErrors(formatter *OutputFormatter, errs []ValidationError) error {
	if formatter.Format == "json" {
		_ = formatter.Error(ErrCodeSchema, "script validation failed", ValidationResult{
			Valid:  false,
			Errors: errs,
		})
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
	}

	fmt.Fprintln(formatter.Writer, "script invalid")
	for _, e := range errs {
		if e.Path != "" {
			fmt.Fprintf(formatter.Writer, "  %s: %s\n", e.Path, e.Message)
		} else {
			fmt.Fprintf(formatter.Writer, "  %s\n", e.Message)
		}
	}
	return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
}
