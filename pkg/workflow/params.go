package workflow

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Parameters holds everything the built-in workflows substitute into their
// command templates. Values come from the environment (with the UPSHIFT_
// prefix, falling back to the bare names the CI convention uses), optionally
// overridden by CLI flags.
type Parameters struct {
	// Mode selects the built-in workflow. CI jobs traditionally drive this
	// through the TEST environment variable.
	Mode      string `envconfig:"TEST"`
	UserAgent string `envconfig:"USER_AGENT" default:"upshift"`
	Home      string `envconfig:"HOME"`

	DBHost     string `envconfig:"DBHOST" default:"localhost"`
	DBName     string `envconfig:"DBNAME" default:"server"`
	DBUser     string `envconfig:"DBUSER" default:"postgres"`
	DBPassword string `envconfig:"DBPASS"`

	HTTPUser     string `envconfig:"HTTPUSER"`
	HTTPPassword string `envconfig:"HTTPPASS"`

	Branch       string `envconfig:"BRANCH" default:"latest"`
	Labels       string `envconfig:"LABELS"`
	ArchiveURL   string `envconfig:"ARCHIVE_URL"`
	PrestartFile string `envconfig:"PRESTART_FILE"`

	// Sym is the stable symlink pointing at the currently installed server.
	Sym       string `envconfig:"SYM" default:"server-current"`
	Installer string `envconfig:"INSTALLER" default:"omego"`
	ServerCLI string `envconfig:"SERVER_CLI" default:"omero"`

	CIServer   string `envconfig:"CI_URL" default:"https://ci.example.org"`
	Downloads  string `envconfig:"DOWNLOAD_URL" default:"https://downloads.example.org"`
	UnzipDir   string `envconfig:"UNZIP_DIR" default:"."`
	SQLFile    string `envconfig:"SQL_FILE" default:"upgrade.sql"`
}

// LoadParameters reads parameters from the process environment.
func LoadParameters() (Parameters, error) {
	var p Parameters
	if err := envconfig.Process("upshift", &p); err != nil {
		return p, fmt.Errorf("loading parameters from environment: %w", err)
	}
	return p, nil
}

// SecretValues returns the parameter values that must never appear in log
// output.
func (p Parameters) SecretValues() []string {
	return []string{p.DBPassword, p.HTTPPassword}
}

// baseContext exposes every parameter under the name the built-in step
// templates reference.
func (p Parameters) baseContext() VarContext {
	return VarContext{
		"useragent":    p.UserAgent,
		"home":         p.Home,
		"dbhost":       p.DBHost,
		"dbname":       p.DBName,
		"dbuser":       p.DBUser,
		"dbpass":       p.DBPassword,
		"httpuser":     p.HTTPUser,
		"httppass":     p.HTTPPassword,
		"branch":       p.Branch,
		"labels":       p.Labels,
		"prestartfile": p.PrestartFile,
		"sym":          p.Sym,
		"installer":    p.Installer,
		"servercli":    p.ServerCLI,
		"unzipdir":     p.UnzipDir,
		"sqlfile":      p.SQLFile,
	}
}
