package steprunner

import (
	"fmt"

	"github.com/upshift-dev/upshift/pkg/types"
)

type RunnerFactory func(ctx types.ExecutionContext) (StepRunner, error)

// registry stores each type of step runner's factory function. GetRunner calls the appropriate StepRunner
// factory function to yield a new instance of that StepRunner
var registry = map[string]RunnerFactory{}

// This is called in each step runner's init() function to register its factory function with the registry.
func RegisterRunnerFactory(stepType string, factory RunnerFactory) {
	registry[stepType] = factory
}

// GetRunner returns an instance of the appropriate StepRunner based on the step's 'uses' field,
// calling the corresponding runner's factory function from the registry. Steps that do not
// declare a type default to plain process execution.
func GetRunner(ctx types.ExecutionContext) (StepRunner, error) {
	stepType := ctx.Step.Uses
	if stepType == "" {
		stepType = "exec"
	}
	factory, ok := registry[stepType]
	if !ok {
		return nil, fmt.Errorf("no runner registered for type: %s", stepType)
	}

	return factory(ctx)
}
