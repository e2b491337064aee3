package workflow_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/upshift-dev/upshift/pkg/types"
	"github.com/upshift-dev/upshift/pkg/workflow"
)

func TestResolveString(t *testing.T) {
	t.Setenv("UPSHIFT_TEST_TOKEN", "tok123")

	vars := workflow.VarContext{
		"dbhost": "db.internal",
		"branch": "5.1",
	}

	tests := []struct {
		name    string
		input   string
		want    string
		wantErr string
	}{
		{name: "plain string untouched", input: "psql", want: "psql"},
		{name: "single variable", input: "{{ dbhost }}", want: "db.internal"},
		{name: "embedded variable", input: "--host={{ dbhost }}", want: "--host=db.internal"},
		{name: "multiple variables", input: "{{ branch }}@{{ dbhost }}", want: "5.1@db.internal"},
		{name: "whitespace tolerated", input: "{{   branch   }}", want: "5.1"},
		{name: "environment reference", input: "{{ env.UPSHIFT_TEST_TOKEN }}", want: "tok123"},
		{name: "undefined variable", input: "{{ nope }}", wantErr: "undefined variable: nope"},
		{name: "undefined environment variable", input: "{{ env.UPSHIFT_NO_SUCH_VAR }}", wantErr: "undefined environment variable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := workflow.ResolveString(tt.input, vars)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveStepDoesNotMutateOriginal(t *testing.T) {
	step := types.Step{
		ID:      "download",
		Command: []string{"curl", "-o", "{{ archive }}", "{{ archiveurl }}"},
		Dir:     "{{ home }}",
		Env:     map[string]string{"PGPASSWORD": "{{ dbpass }}"},
	}
	vars := workflow.VarContext{
		"archive":    "server.zip",
		"archiveurl": "https://downloads.example.org/server.zip",
		"home":       "/home/ci",
		"dbpass":     "hunter2",
	}

	resolved, err := workflow.ResolveStep(step, vars)
	require.NoError(t, err)

	assert.Equal(t, []string{"curl", "-o", "server.zip", "https://downloads.example.org/server.zip"}, resolved.Command)
	assert.Equal(t, "/home/ci", resolved.Dir)
	assert.Equal(t, "hunter2", resolved.Env["PGPASSWORD"])

	// Original step keeps its templates.
	assert.Equal(t, "{{ archive }}", step.Command[2])
	assert.Equal(t, "{{ home }}", step.Dir)
	assert.Equal(t, "{{ dbpass }}", step.Env["PGPASSWORD"])
}

func TestResolveVarfile(t *testing.T) {
	tempDir := t.TempDir()
	varfilePath := filepath.Join(tempDir, "test_vars.yml")

	t.Setenv("TEST_ENV_VAR", "env_value")

	varfileContent := `
plain_var: plain_value
env_var: "{{ env.TEST_ENV_VAR }}"
empty_env_var: "{{ env.NONEXISTENT_VAR }}"
`

	require.NoError(t, os.WriteFile(varfilePath, []byte(varfileContent), 0644))

	vars, err := workflow.ResolveVarfile(varfilePath)
	require.NoError(t, err)

	assert.Equal(t, "plain_value", vars["plain_var"])
	assert.Equal(t, "env_value", vars["env_var"])
	assert.Equal(t, "", vars["empty_env_var"])

	_, err = workflow.ResolveVarfile("nonexistent_file.yml")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "reading varfile")

	invalidPath := filepath.Join(tempDir, "invalid.yml")
	require.NoError(t, os.WriteFile(invalidPath, []byte("invalid: yaml: ]:"), 0644))
	_, err = workflow.ResolveVarfile(invalidPath)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "parsing varfile YAML")
}
