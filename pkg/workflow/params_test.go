package workflow_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/upshift-dev/upshift/pkg/workflow"
)

func TestLoadParametersFromEnvironment(t *testing.T) {
	t.Setenv("TEST", "upgrade")
	t.Setenv("USER_AGENT", "ci-agent/1.0")
	t.Setenv("DBHOST", "db.internal")
	t.Setenv("UPSHIFT_DBNAME", "production")

	p, err := workflow.LoadParameters()
	require.NoError(t, err)

	assert.Equal(t, "upgrade", p.Mode)
	assert.Equal(t, "ci-agent/1.0", p.UserAgent)
	assert.Equal(t, "db.internal", p.DBHost)
	assert.Equal(t, "production", p.DBName)
	assert.NotEmpty(t, p.Home)
}

func TestLoadParametersPrefixedVariableWins(t *testing.T) {
	t.Setenv("DBHOST", "bare")
	t.Setenv("UPSHIFT_DBHOST", "prefixed")

	p, err := workflow.LoadParameters()
	require.NoError(t, err)
	assert.Equal(t, "prefixed", p.DBHost)
}

func TestLoadParametersDefaults(t *testing.T) {
	p, err := workflow.LoadParameters()
	require.NoError(t, err)

	assert.Equal(t, "server-current", p.Sym)
	assert.Equal(t, "omego", p.Installer)
	assert.Equal(t, "omero", p.ServerCLI)
	assert.Equal(t, "latest", p.Branch)
	assert.Equal(t, "upgrade.sql", p.SQLFile)
}

func TestSecretValues(t *testing.T) {
	p := workflow.Parameters{DBPassword: "hunter2", HTTPPassword: "token"}
	assert.ElementsMatch(t, []string{"hunter2", "token"}, p.SecretValues())
}
