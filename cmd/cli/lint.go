package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/upshift-dev/upshift/pkg/log"
	"github.com/upshift-dev/upshift/pkg/log/sinks"
	"github.com/upshift-dev/upshift/pkg/steprunner"
	"github.com/upshift-dev/upshift/pkg/types"
	"github.com/upshift-dev/upshift/pkg/workflow"
)

type LintCmd struct {
	Varfile  string `help:"The YAML varfile for input variables." default:"usvars.yml"`
	Workflow string `help:"The workflow configuration file." default:"upshift.yml"`
}

func (l *LintCmd) Run() error {
	consoleSink := sinks.NewConsoleSink()

	logRouter := log.NewRouter()
	logRouter.AddSink(consoleSink)

	baseZerologInstance := zerolog.New(logRouter).With().Timestamp().Logger()
	cmdLogger := log.NewZerologAdapter(baseZerologInstance)

	cmdLogger.Info().Msgf("Validating %s using %s", l.Workflow, l.Varfile)

	if err := godotenv.Load(); err != nil {
		cmdLogger.Warn().Err(err).Msg("No .env file found or error thrown while loading it. Relying on existing ENV.")
	}

	wf, err := workflow.LoadWorkflowFromFile(l.Workflow)
	if err != nil {
		cmdLogger.Error().Err(err).Msgf("Failed to load workflow file %s", l.Workflow)
		return fmt.Errorf("loading workflow file %q: %w", l.Workflow, err)
	}
	cmdLogger.Info().Msgf("Successfully loaded workflow: %s", wf.Name)

	workflowAbsPath, err := filepath.Abs(l.Workflow)
	if err != nil {
		cmdLogger.Error().Err(err).Msgf("Could not determine absolute path for workflow file %s", l.Workflow)
		return fmt.Errorf("determining absolute path for workflow file %q: %w", l.Workflow, err)
	}
	workflowDir := filepath.Dir(workflowAbsPath)

	var varCtx workflow.VarContext
	if _, statErr := os.Stat(l.Varfile); os.IsNotExist(statErr) {
		cmdLogger.Warn().Msgf("Varfile %s not found. Proceeding without variables. Required inputs might fail validation.", l.Varfile)
		varCtx = make(workflow.VarContext)
	} else {
		varCtx, err = workflow.ResolveVarfile(l.Varfile)
		if err != nil {
			cmdLogger.Warn().Err(err).Msgf("Could not fully resolve varfile %q. Some variable validations might be affected.", l.Varfile)
			if varCtx == nil {
				varCtx = make(workflow.VarContext)
			}
		} else {
			cmdLogger.Info().Msgf("Successfully loaded and resolved varfile: %s", l.Varfile)
		}
	}

	if err := workflow.ValidateRequiredInputs(wf, varCtx); err != nil {
		cmdLogger.Error().Err(err).Msg("Required input validation failed")
		return fmt.Errorf("validating required inputs: %w", err)
	}
	cmdLogger.Info().Msg("Required input validation passed")

	cmdLogger.Info().Msg("Validating individual steps...")
	for _, stepConfig := range wf.Steps {
		stepLogger := cmdLogger.With().
			Str("step_id", stepConfig.ID).
			Logger()

		stepLogger.Info().Msg("Validating step configuration...")

		execCtx := types.ExecutionContext{
			Step:    stepConfig,
			Logger:  stepLogger,
			WorkDir: workflowDir,
		}

		runner, err := steprunner.GetRunner(execCtx)
		if err != nil {
			stepLogger.Error().Err(err).Msg("Error getting runner for step")
			return fmt.Errorf("getting runner for step %q: %w", stepConfig.ID, err)
		}

		if err := runner.Validate(); err != nil {
			stepLogger.Error().Err(err).Msg("Step configuration validation failed")
			return fmt.Errorf("validating step %q: %w", stepConfig.ID, err)
		}

		stepLogger.Info().Msg("Step configuration validation passed")
	}

	cmdLogger.Info().Msg("Successfully validated workflow configuration ✅")
	return nil
}
