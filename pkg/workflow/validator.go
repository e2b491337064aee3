package workflow

import (
	"fmt"

	"github.com/upshift-dev/upshift/pkg/steprunner"
	"github.com/upshift-dev/upshift/pkg/types"
)

// ValidateWorkflowStructure checks fields at the workflow level, validating workflow name,
// input types/uniqueness, and step uniqueness.
func ValidateWorkflowStructure(wf *types.Workflow) error {
	if wf.Name == "" {
		return fmt.Errorf("workflow is missing 'name'")
	}

	validInputTypes := map[string]bool{
		"string":  true,
		"file":    true,
		"number":  true,
		"boolean": true,
	}

	inputNames := make(map[string]bool)
	for i, input := range wf.Inputs {
		if input.Name == "" {
			return fmt.Errorf("input %d is missing 'name'", i)
		}
		if inputNames[input.Name] {
			return fmt.Errorf("duplicate input name: %q", input.Name)
		}
		inputNames[input.Name] = true

		if !validInputTypes[input.Type] {
			return fmt.Errorf("input %q has invalid type %q", input.Name, input.Type)
		}
	}

	stepIDs := make(map[string]bool)
	for i, step := range wf.Steps {
		if step.ID == "" {
			return fmt.Errorf("step %d is missing 'id'", i)
		}
		if stepIDs[step.ID] {
			return fmt.Errorf("duplicate step id: %q", step.ID)
		}
		stepIDs[step.ID] = true

		if len(step.Command) == 0 && step.Inline == "" {
			return fmt.Errorf("step %q must define either 'command' or 'inline'", step.ID)
		}
	}

	return nil
}

// ValidateRequiredInputs ensures every required input either has a value in
// the varfile context or declares a default.
func ValidateRequiredInputs(wf *types.Workflow, varCtx VarContext) error {
	for _, input := range wf.Inputs {
		if input.Required {
			if _, exists := varCtx[input.Name]; !exists && input.Default == "" {
				return fmt.Errorf("required input %q is missing from the varfile and no default value is provided", input.Name)
			}
		}
	}
	return nil
}

// ValidateWorkflowRunners resolves a runner for every step and runs its
// configuration validation.
func ValidateWorkflowRunners(wf *types.Workflow, workDir string) error {
	for _, step := range wf.Steps {
		ctx := types.ExecutionContext{
			Step:    step,
			WorkDir: workDir,
		}

		runner, err := steprunner.GetRunner(ctx)
		if err != nil {
			return fmt.Errorf("getting runner for step %q: %w", step.ID, err)
		}

		if err = runner.Validate(); err != nil {
			return fmt.Errorf("validating step %q: %w", step.ID, err)
		}
	}

	return nil
}
