package workflow

import (
	"context"
	"fmt"

	"github.com/upshift-dev/upshift/pkg/steprunner"
	"github.com/upshift-dev/upshift/pkg/types"
)

// Engine executes one workflow at a time, strictly sequentially. Each step's
// subprocess runs to completion and has its stdio and exit status fully
// consumed before the next step starts. There are no retries: the first
// mandatory step that fails ends the run.
type Engine struct {
	Logger  types.Logger
	WorkDir string
	RunID   string
}

func NewEngine(logger types.Logger) *Engine {
	return &Engine{
		Logger: logger,
	}
}

// Run executes every step of wf in order, substituting vars into the step
// templates. It always returns a report covering the steps that ran; the
// error is a *StepFailureError when a mandatory step failed.
func (e *Engine) Run(ctx context.Context, wf *types.Workflow, vars VarContext) (*types.RunReport, error) {
	report := &types.RunReport{
		Workflow: wf.Name,
		RunID:    e.RunID,
		FailedAt: -1,
	}

	state := types.RunPending
	e.Logger.Debug().Str("state", state.String()).Msgf("Workflow %q has %d steps", wf.Name, len(wf.Steps))

	for i, step := range wf.Steps {
		state = types.RunRunning
		e.Logger.Info().Str("state", state.String()).Int("step_index", i).Msgf("Running step %q", step.ID)

		resolvedStep, err := ResolveStep(step, vars)
		if err != nil {
			return report, fmt.Errorf("could not resolve variables for step %q: %w", step.ID, err)
		}

		scopedLogger := e.Logger.With().Str("step_id", resolvedStep.ID).Logger()

		execCtx := types.ExecutionContext{
			Step:    *resolvedStep,
			Logger:  scopedLogger,
			WorkDir: e.WorkDir,
		}

		runner, err := steprunner.GetRunner(execCtx)
		if err != nil {
			return report, fmt.Errorf("error getting runner for step %q: %w", resolvedStep.ID, err)
		}

		result, err := runner.Run(ctx)
		if err != nil {
			// The process could not be spawned or observed. Record it with a
			// sentinel exit code so the report still covers the step.
			failed := types.ExecutionResult{
				StepIndex: i,
				StepID:    resolvedStep.ID,
				ExitCode:  -1,
				Stderr:    err.Error(),
			}
			report.Results = append(report.Results, failed)
			if resolvedStep.Mandatory() {
				report.FailedAt = i
				e.Logger.Error().Str("state", types.RunFailed.String()).Err(err).Msgf("Step %q could not be executed", resolvedStep.ID)
				return report, &StepFailureError{Result: failed, Cause: err}
			}
			e.Logger.Warn().Err(err).Msgf("Optional step %q could not be executed, continuing", resolvedStep.ID)
			continue
		}

		result.StepIndex = i
		report.Results = append(report.Results, *result)

		if result.ExitCode != 0 {
			if resolvedStep.Mandatory() {
				report.FailedAt = i
				e.Logger.Error().Str("state", types.RunFailed.String()).Int("exit_code", result.ExitCode).Msgf("Step %q failed, aborting run", resolvedStep.ID)
				return report, &StepFailureError{Result: *result}
			}
			e.Logger.Warn().Int("exit_code", result.ExitCode).Msgf("Optional step %q failed, continuing", resolvedStep.ID)
			continue
		}

		e.Logger.Info().Int("step_index", i).Msgf("Step %q succeeded", resolvedStep.ID)
	}

	report.Success = true
	e.Logger.Info().Str("state", types.RunSucceeded.String()).Msgf("Workflow %q completed", wf.Name)
	return report, nil
}
