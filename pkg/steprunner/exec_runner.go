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

// ExecRunner spawns an external command from an argv slice. This is the
// default runner for workflow steps: the command is the step, and everything
// it does (downloads, unzips, symlinks, database writes) is opaque to us.
type ExecRunner struct {
	StepCtx types.ExecutionContext
}

func init() {
	RegisterRunnerFactory("exec", func(ctx types.ExecutionContext) (StepRunner, error) {
		return &ExecRunner{
			StepCtx: ctx,
		}, nil
	})
}

func (er *ExecRunner) Validate() error {
	step := er.StepCtx.Step

	if len(step.Command) == 0 {
		return fmt.Errorf("exec step %q must define 'command'", step.ID)
	}
	if step.Command[0] == "" {
		return fmt.Errorf("exec step %q has an empty command name", step.ID)
	}
	if step.Inline != "" {
		return fmt.Errorf("exec step %q must not define 'inline'", step.ID)
	}

	return nil
}

func (er *ExecRunner) Run(ctx context.Context) (*types.ExecutionResult, error) {
	step := er.StepCtx.Step
	logger := er.StepCtx.Logger

	argv := step.Command

	// #nosec G204
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = resolveStepDir(er.StepCtx.WorkDir, step.Dir)
	applyStepEnv(cmd, step.Env)

	var stdoutBuf, stderrBuf bytes.Buffer
	cmd.Stdout = &limitWriter{buf: &stdoutBuf, limit: maxCapture}
	cmd.Stderr = &limitWriter{buf: &stderrBuf, limit: maxCapture}

	logger.Info().Str("argv", strings.Join(argv, " ")).Msg("Spawning command")

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
			logger.Error().Int("exit_code", exitCode).Msg("Command exited with non-zero code")
		} else {
			// Binary not found or other spawn-level error.
			return nil, fmt.Errorf("executing %s: %w", argv[0], runErr)
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
