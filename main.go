package main

import (
	"errors"
	"os"

	"github.com/alecthomas/kong"
	"github.com/upshift-dev/upshift/cmd/cli"
	"github.com/upshift-dev/upshift/pkg/workflow"
)

var root struct {
	Run  cli.RunCmd  `cmd:"" help:"Execute a built-in install/upgrade workflow, or a custom workflow file."`
	Plan cli.PlanCmd `cmd:"" help:"Print the resolved step sequence of a built-in workflow without executing it."`
	Lint cli.LintCmd `cmd:"" help:"Validate a custom workflow file and its varfile."`
}

func main() {
	ctx := kong.Parse(&root,
		kong.Name("upshift"),
		kong.Description("Install/upgrade workflow runner for server deployment pipelines."),
		kong.UsageOnError(),
	)

	err := ctx.Run()

	// A failed step ends the process with that step's own exit code so CI
	// systems see the collaborator's status, not ours.
	var stepErr *workflow.StepFailureError
	if errors.As(err, &stepErr) {
		os.Exit(stepErr.ExitStatus())
	}
	ctx.FatalIfErrorf(err)
}
