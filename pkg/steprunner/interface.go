package steprunner

import (
	"context"

	"github.com/upshift-dev/upshift/pkg/types"
)

// StepRunner executes a single resolved step. Run blocks until the spawned
// process has exited and its stdio has been fully consumed. A non-zero exit
// code is reported in the result, not as an error; errors are reserved for
// failures to spawn or observe the process at all.
type StepRunner interface {
	Validate() error
	Run(ctx context.Context) (*types.ExecutionResult, error)
}
