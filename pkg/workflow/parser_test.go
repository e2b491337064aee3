package workflow_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/upshift-dev/upshift/pkg/types"
	"github.com/upshift-dev/upshift/pkg/workflow"
)

func TestLoadWorkflowFixture(t *testing.T) {
	file := "test_fixtures/simple_workflow.yml"

	wf, err := workflow.LoadWorkflowFromFile(file)
	require.NoError(t, err)

	assert.Equal(t, "staging-refresh", wf.Name)
	require.Len(t, wf.Steps, 4)
	assert.Equal(t, "download", wf.Steps[0].ID)
	assert.Equal(t, "shell", wf.Steps[3].Uses)
	assert.False(t, wf.Steps[3].Mandatory())
	assert.Equal(t, "{{ dbpass }}", wf.Steps[2].Env["PGPASSWORD"])

	vars := workflow.VarContext{"archive": "nightly-server.zip", "dbpass": "hunter2"}
	resolved, err := workflow.ResolveStep(wf.Steps[0], vars)
	require.NoError(t, err)
	assert.Equal(t, "nightly-server.zip", resolved.Command[3])
}

func TestLoadBrokenWorkflowFixture(t *testing.T) {
	file := "test_fixtures/broken_workflow.yml"

	wf, err := workflow.LoadWorkflowFromFile(file)
	require.NoError(t, err)

	workflowAbsPath, err := filepath.Abs(file)
	require.NoError(t, err)
	workflowDir := filepath.Dir(workflowAbsPath)

	err = workflow.ValidateWorkflowRunners(wf, workflowDir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must only define either 'inline' or 'command'")
}

func TestValidateWorkflowStructure(t *testing.T) {
	tests := []struct {
		name    string
		wf      types.Workflow
		wantErr string
	}{
		{
			name:    "missing name",
			wf:      types.Workflow{Steps: []types.Step{{ID: "a", Command: []string{"true"}}}},
			wantErr: "missing 'name'",
		},
		{
			name: "duplicate step ids",
			wf: types.Workflow{
				Name: "dup",
				Steps: []types.Step{
					{ID: "a", Command: []string{"true"}},
					{ID: "a", Command: []string{"true"}},
				},
			},
			wantErr: "duplicate step id",
		},
		{
			name: "step without command or inline",
			wf: types.Workflow{
				Name:  "empty-step",
				Steps: []types.Step{{ID: "a"}},
			},
			wantErr: "must define either 'command' or 'inline'",
		},
		{
			name: "invalid input type",
			wf: types.Workflow{
				Name:   "bad-input",
				Inputs: []types.Input{{Name: "x", Type: "integer"}},
				Steps:  []types.Step{{ID: "a", Command: []string{"true"}}},
			},
			wantErr: "invalid type",
		},
		{
			name: "valid workflow",
			wf: types.Workflow{
				Name:   "ok",
				Inputs: []types.Input{{Name: "x", Type: "string"}},
				Steps:  []types.Step{{ID: "a", Command: []string{"true"}}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := workflow.ValidateWorkflowStructure(&tt.wf)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateRequiredInputs(t *testing.T) {
	wf := &types.Workflow{
		Name: "inputs",
		Inputs: []types.Input{
			{Name: "needed", Type: "string", Required: true},
			{Name: "defaulted", Type: "string", Required: true, Default: "x"},
		},
		Steps: []types.Step{{ID: "a", Command: []string{"true"}}},
	}

	err := workflow.ValidateRequiredInputs(wf, workflow.VarContext{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `required input "needed"`)

	err = workflow.ValidateRequiredInputs(wf, workflow.VarContext{"needed": "y"})
	assert.NoError(t, err)
}
