package steprunner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/upshift-dev/upshift/pkg/types"
)

// ShellRunner executes an inline script through a shell interpreter. Custom
// workflow files use it for glue a single argv cannot express (pipes,
// redirects, here-docs).
type ShellRunner struct {
	StepCtx types.ExecutionContext
}

func init() {
	RegisterRunnerFactory("shell", func(ctx types.ExecutionContext) (StepRunner, error) {
		return &ShellRunner{
			StepCtx: ctx,
		}, nil
	})
}

func (sr *ShellRunner) Validate() error {
	step := sr.StepCtx.Step

	if step.Inline == "" {
		return fmt.Errorf("shell step %q must define 'inline'", step.ID)
	}
	if len(step.Command) > 0 {
		return fmt.Errorf("shell step %q must only define either 'inline' or 'command'", step.ID)
	}

	return nil
}

func (sr *ShellRunner) Run(ctx context.Context) (*types.ExecutionResult, error) {
	step := sr.StepCtx.Step
	logger := sr.StepCtx.Logger

	interpreter := "/bin/bash"

	if len(step.Inline) > 1000 {
		logger.Warn().Msgf("Long script in 'inline' - consider an external script invoked via an exec step for maintainability.")
	}
	// #nosec G204
	safeScript := "set -euo pipefail\n" + step.Inline
	cmd := exec.CommandContext(ctx, interpreter, "-c", safeScript)
	cmd.Dir = resolveStepDir(sr.StepCtx.WorkDir, step.Dir)
	applyStepEnv(cmd, step.Env)

	var stdoutBuf, stderrBuf bytes.Buffer
	cmd.Stdout = &limitWriter{buf: &stdoutBuf, limit: maxCapture}
	cmd.Stderr = &limitWriter{buf: &stderrBuf, limit: maxCapture}

	logger.Info().Str("shell", interpreter).Msg("Starting shell script execution")

	start := time.Now()
	runErr := cmd.Run()
	duration := time.Since(start)

	logBuffer(strings.NewReader(stderrBuf.String()), "STDERR", logger, "cmd_line")
	logBuffer(strings.NewReader(stdoutBuf.String()), "STDOUT", logger, "cmd_line")

	exitCode := 0
	if runErr != nil {
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			exitCode = exitErr.ExitCode()
			logger.Error().Int("exit_code", exitCode).Msg("Script exited with non-zero code")
		} else {
			return nil, fmt.Errorf("executing shell script: %w", runErr)
		}
	}

	return &types.ExecutionResult{
		StepID:   step.ID,
		ExitCode: exitCode,
		Stdout:   stdoutBuf.String(),
		Stderr:   stderrBuf.String(),
		Duration: duration,
	}, nil
}
