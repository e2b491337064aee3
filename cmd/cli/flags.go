package cli

import "github.com/upshift-dev/upshift/pkg/workflow"

// paramFlags lets every parameter the built-in workflows consume be set on
// the command line. Empty flags leave the environment-derived value alone.
type paramFlags struct {
	Mode         string `help:"Built-in workflow to run: install or upgrade. Defaults to the TEST environment variable."`
	Branch       string `help:"CI job name or release version of the server to fetch."`
	Labels       string `help:"CI axis labels, e.g. ICE=3.6."`
	ArchiveURL   string `name:"archive-url" help:"Explicit server archive URL, bypassing branch resolution."`
	PrestartFile string `name:"prestart-file" help:"Configuration file loaded into the server before it starts."`
	Sym          string `help:"Symlink pointing at the current server installation."`
	DBHost       string `name:"db-host" help:"Database host."`
	DBName       string `name:"db-name" help:"Database name."`
	DBUser       string `name:"db-user" help:"Database user."`
	DBPass       string `name:"db-pass" help:"Database password. Redacted from all log output."`
	UserAgent    string `name:"user-agent" help:"User agent sent by the download step."`
}

func (f paramFlags) apply(p *workflow.Parameters) {
	if f.Mode != "" {
		p.Mode = f.Mode
	}
	if f.Branch != "" {
		p.Branch = f.Branch
	}
	if f.Labels != "" {
		p.Labels = f.Labels
	}
	if f.ArchiveURL != "" {
		p.ArchiveURL = f.ArchiveURL
	}
	if f.PrestartFile != "" {
		p.PrestartFile = f.PrestartFile
	}
	if f.Sym != "" {
		p.Sym = f.Sym
	}
	if f.DBHost != "" {
		p.DBHost = f.DBHost
	}
	if f.DBName != "" {
		p.DBName = f.DBName
	}
	if f.DBUser != "" {
		p.DBUser = f.DBUser
	}
	if f.DBPass != "" {
		p.DBPassword = f.DBPass
	}
	if f.UserAgent != "" {
		p.UserAgent = f.UserAgent
	}
}
