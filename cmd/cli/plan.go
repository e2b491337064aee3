package cli

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/upshift-dev/upshift/pkg/security"
	"github.com/upshift-dev/upshift/pkg/workflow"
)

// PlanCmd prints the fully resolved step sequence for a built-in workflow
// without spawning anything.
type PlanCmd struct {
	Params paramFlags `embed:""`
}

func (p *PlanCmd) Run() error {
	params, err := workflow.LoadParameters()
	if err != nil {
		return err
	}
	p.Params.apply(&params)

	mode := params.Mode
	wf, err := workflow.BuildWorkflow(mode, params)
	if err != nil {
		return err
	}
	vars, err := workflow.BuildContext(mode, params)
	if err != nil {
		return err
	}

	redactor := security.NewRedactor(params.SecretValues())

	fmt.Printf("Workflow %s (%d steps)\n", color.CyanString(wf.Name), len(wf.Steps))
	for i, step := range wf.Steps {
		resolved, err := workflow.ResolveStep(step, vars)
		if err != nil {
			return err
		}
		suffix := ""
		if !resolved.Mandatory() {
			suffix = color.YellowString("  (failure tolerated)")
		}
		argv := redactor.Redact(strings.Join(resolved.Command, " "))
		fmt.Printf("%2d. %-20s %s%s\n", i+1, color.CyanString(resolved.ID), argv, suffix)
	}
	return nil
}
