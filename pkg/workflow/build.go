package workflow

import (
	"github.com/upshift-dev/upshift/pkg/artifacts"
	"github.com/upshift-dev/upshift/pkg/types"
)

// Built-in workflow modes.
const (
	ModeInstall = "install"
	ModeUpgrade = "upgrade"
)

// BuildWorkflow constructs the built-in workflow for mode. Commands are
// templates; the engine substitutes the run's VarContext into them. An
// unknown or empty mode is rejected here, before anything is spawned.
func BuildWorkflow(mode string, p Parameters) (*types.Workflow, error) {
	switch mode {
	case ModeInstall:
		return installWorkflow(p), nil
	case ModeUpgrade:
		return upgradeWorkflow(p)
	case "":
		return nil, NewConfigurationError("no workflow mode given: set --mode or the TEST environment variable")
	default:
		return nil, NewConfigurationError("unknown workflow mode %q: expected %q or %q", mode, ModeInstall, ModeUpgrade)
	}
}

// BuildContext returns the substitution context for a built-in workflow run.
// For upgrades this resolves the server artifact, so an invalid branch fails
// here rather than mid-run.
func BuildContext(mode string, p Parameters) (VarContext, error) {
	ctx := p.baseContext()
	if mode != ModeUpgrade {
		return ctx, nil
	}

	resolver := artifacts.Resolver{
		CIBase:       p.CIServer,
		DownloadBase: p.Downloads,
		ArchiveURL:   p.ArchiveURL,
	}
	art, err := resolver.Resolve(p.Branch, p.Labels)
	if err != nil {
		return nil, NewConfigurationError("resolving server artifact: %v", err)
	}
	ctx["archiveurl"] = art.URL
	ctx["archive"] = art.Filename
	ctx["serverdir"] = art.ServerDir
	return ctx, nil
}

func installWorkflow(p Parameters) *types.Workflow {
	serverInstall := []string{
		"{{ installer }}", "install", "--initdb",
		"--branch", "{{ branch }}",
		"--sym", "{{ sym }}",
	}
	if p.Labels != "" {
		serverInstall = append(serverInstall, "--labels", "{{ labels }}")
	}

	return &types.Workflow{
		Name:        ModeInstall,
		Description: "Build, package and install the deployment tooling, then install a fresh server.",
		Steps: []types.Step{
			{ID: "build", Command: []string{"python", "setup.py", "build"}},
			{ID: "test", Command: []string{"python", "setup.py", "test"}},
			{ID: "package", Command: []string{"python", "setup.py", "sdist"}},
			{ID: "install-package", Command: []string{"pip", "install", "--upgrade", "."}},
			{
				ID:      "server-install",
				Command: serverInstall,
				Env: map[string]string{
					"DBHOST": "{{ dbhost }}",
					"DBNAME": "{{ dbname }}",
					"DBUSER": "{{ dbuser }}",
					"DBPASS": "{{ dbpass }}",
				},
			},
		},
	}
}

func upgradeWorkflow(p Parameters) (*types.Workflow, error) {
	if p.PrestartFile == "" {
		return nil, NewConfigurationError("upgrade requires a prestart file (--prestart-file or UPSHIFT_PRESTART_FILE)")
	}

	download := []string{"curl", "-fsSL", "-A", "{{ useragent }}"}
	if p.HTTPUser != "" {
		download = append(download, "-u", "{{ httpuser }}:{{ httppass }}")
	}
	download = append(download, "-o", "{{ archive }}", "{{ archiveurl }}")

	upgradeInvocation := []string{
		"{{ installer }}", "upgrade",
		"--branch", "{{ branch }}",
		"--sym", "{{ sym }}",
	}
	if p.Labels != "" {
		upgradeInvocation = append(upgradeInvocation, "--labels", "{{ labels }}")
	}

	return &types.Workflow{
		Name:        ModeUpgrade,
		Description: "Stage a new server build, migrate the database and switch the running server over.",
		Steps: []types.Step{
			{ID: "download", Command: download},
			{ID: "unpack", Command: []string{"unzip", "-q", "-o", "{{ archive }}", "-d", "{{ unzipdir }}"}},
			// Best effort: a dead server must not block the switch.
			{
				ID:          "stop-server",
				Command:     []string{"{{ sym }}/bin/{{ servercli }}", "admin", "stop"},
				MustSucceed: boolPtr(false),
			},
			{ID: "symlink", Command: []string{"ln", "-sfn", "{{ serverdir }}", "{{ sym }}"}},
			{
				ID:      "db-script",
				Command: []string{"{{ sym }}/bin/{{ servercli }}", "db", "script", "-f", "{{ sqlfile }}"},
				Env:     map[string]string{"DBPASS": "{{ dbpass }}"},
			},
			{
				ID: "db-apply",
				Command: []string{
					"psql",
					"-h", "{{ dbhost }}",
					"-U", "{{ dbuser }}",
					"-d", "{{ dbname }}",
					"-f", "{{ sqlfile }}",
				},
				Env: map[string]string{"PGPASSWORD": "{{ dbpass }}"},
			},
			{ID: "config-load", Command: []string{"{{ sym }}/bin/{{ servercli }}", "load", "{{ prestartfile }}"}},
			{ID: "server-start", Command: []string{"{{ sym }}/bin/{{ servercli }}", "admin", "start"}},
			{ID: "upgrade-invocation", Command: upgradeInvocation},
		},
	}, nil
}

func boolPtr(b bool) *bool {
	return &b
}
