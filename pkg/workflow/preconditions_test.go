package workflow_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/upshift-dev/upshift/pkg/workflow"
)

func TestVerifyPreconditions(t *testing.T) {
	tempDir := t.TempDir()

	target := filepath.Join(tempDir, "server-5.1")
	require.NoError(t, os.Mkdir(target, 0755))
	existing := filepath.Join(tempDir, "current")
	require.NoError(t, os.Symlink(target, existing))
	missing := filepath.Join(tempDir, "not-there")

	tests := []struct {
		name    string
		mode    string
		sym     string
		wantErr string
	}{
		{name: "install with fresh symlink path", mode: workflow.ModeInstall, sym: missing},
		{name: "install over existing symlink", mode: workflow.ModeInstall, sym: existing, wantErr: "already exists"},
		{name: "upgrade with existing symlink", mode: workflow.ModeUpgrade, sym: existing},
		{name: "upgrade without symlink", mode: workflow.ModeUpgrade, sym: missing, wantErr: "missing"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := workflow.Parameters{Sym: tt.sym}
			err := workflow.VerifyPreconditions(tt.mode, p)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			var cfgErr *workflow.ConfigurationError
			assert.ErrorAs(t, err, &cfgErr)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestVerifyPreconditionsDanglingSymlinkCountsAsExisting(t *testing.T) {
	tempDir := t.TempDir()
	dangling := filepath.Join(tempDir, "current")
	require.NoError(t, os.Symlink(filepath.Join(tempDir, "gone"), dangling))

	err := workflow.VerifyPreconditions(workflow.ModeUpgrade, workflow.Parameters{Sym: dangling})
	assert.NoError(t, err)

	err = workflow.VerifyPreconditions(workflow.ModeInstall, workflow.Parameters{Sym: dangling})
	assert.Error(t, err)
}
