package workflow

import (
	"fmt"
	"os"

	"github.com/upshift-dev/upshift/pkg/types"
	"gopkg.in/yaml.v3"
)

// LoadWorkflowFromFile reads a custom workflow definition from a YAML file.
func LoadWorkflowFromFile(path string) (*types.Workflow, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading workflow file %q: %w", path, err)
	}

	var wf types.Workflow
	if err := yaml.Unmarshal(data, &wf); err != nil {
		return nil, fmt.Errorf("parsing workflow YAML: %w", err)
	}

	if err := ValidateWorkflowStructure(&wf); err != nil {
		return nil, fmt.Errorf("invalid workflow: %w", err)
	}

	return &wf, nil
}
