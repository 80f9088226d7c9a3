package cli

import (
	"github.com/loomsync/loom/internal/harness"
)

// Error codes shared across commands.
const (
	ErrCodeScriptLoad  = "E101" // script unreadable or malformed
	ErrCodeScriptRun   = "E102" // script execution failed
	ErrCodeExpectation = "E103" // expect_state mismatch
	ErrCodeJournal     = "E201" // journal unreadable or unwritable
	ErrCodeSchema      = "E301" // schema validation failure
)

// runScript loads a scenario file and runs it through a fresh engine.
// Load problems are command errors (exit 2); execution problems and
// expectation mismatches are failures (exit 1).
func runScript(formatter *OutputFormatter, path string) (*harness.Scenario, *harness.Result, error) {
	scenario, err := harness.LoadScenario(path)
	if err != nil {
		_ = formatter.Error(ErrCodeScriptLoad, err.Error(), nil)
		return nil, nil, WrapExitError(ExitCommandError, "load script", err)
	}

	formatter.VerboseLog("running %d step(s) against document %q", len(scenario.Steps), scenario.Document)

	result, err := harness.Run(scenario)
	if err != nil {
		_ = formatter.Error(ErrCodeScriptRun, err.Error(), nil)
		return nil, nil, WrapExitError(ExitFailure, "run script", err)
	}

	if err := harness.Verify(scenario, result); err != nil {
		_ = formatter.Error(ErrCodeExpectation, err.Error(), nil)
		return nil, nil, WrapExitError(ExitFailure, "verify script", err)
	}

	return scenario, result, nil
}
