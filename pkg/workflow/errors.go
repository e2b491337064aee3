package workflow

import (
	"fmt"

	"github.com/upshift-dev/upshift/pkg/types"
)

// ConfigurationError reports a problem detected before any step is spawned:
// an unknown mode, a missing required parameter, a bad workflow file, or a
// failed precondition.
type ConfigurationError struct {
	Reason string
}

func NewConfigurationError(format string, args ...any) *ConfigurationError {
	return &ConfigurationError{Reason: fmt.Sprintf(format, args...)}
}

func (e *ConfigurationError) Error() string {
	return "configuration error: " + e.Reason
}

// StepFailureError reports a mandatory step exiting non-zero (or failing to
// spawn). It carries the step's full execution result so callers can surface
// the captured output and exit code verbatim.
type StepFailureError struct {
	Result types.ExecutionResult
	Cause  error
}

func (e *StepFailureError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("step %q (index %d) failed: %v", e.Result.StepID, e.Result.StepIndex, e.Cause)
	}
	return fmt.Sprintf("step %q (index %d) exited with code %d", e.Result.StepID, e.Result.StepIndex, e.Result.ExitCode)
}

func (e *StepFailureError) Unwrap() error {
	return e.Cause
}

// ExitStatus maps the failing step's exit code onto a code this process can
// exit with. Codes outside 1..125 collapse to 1 so shells and CI systems see
// a conventional failure.
func (e *StepFailureError) ExitStatus() int {
	code := e.Result.ExitCode
	if code >= 1 && code <= 125 {
		return code
	}
	return 1
}
