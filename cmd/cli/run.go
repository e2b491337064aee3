package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/upshift-dev/upshift/pkg/log"
	"github.com/upshift-dev/upshift/pkg/log/sinks"
	"github.com/upshift-dev/upshift/pkg/security"
	"github.com/upshift-dev/upshift/pkg/types"
	"github.com/upshift-dev/upshift/pkg/workflow"
)

type RunCmd struct {
	Params   paramFlags `embed:""`
	Workflow string     `help:"Custom workflow file to execute instead of a built-in workflow." optional:""`
	Varfile  string     `help:"The YAML varfile for custom workflow inputs." default:"usvars.yml"`
}

func (r *RunCmd) Run() error {
	wfRunID := uuid.New().String()

	consoleSink := sinks.NewConsoleSink()

	logsDir := ".upshift/logs"
	if err := os.MkdirAll(logsDir, 0755); err != nil {
		return fmt.Errorf("creating logs directory %q: %w", logsDir, err)
	}
	logFilePath := filepath.Join(logsDir, fmt.Sprintf("%s.json", wfRunID))
	fileSink, err := sinks.NewFileSink(logFilePath)
	if err != nil {
		return fmt.Errorf("creating file log sink: %w", err)
	}

	logRouter := log.NewRouter()
	logRouter.AddSink(consoleSink)
	logRouter.AddSink(fileSink)

	baseZerologInstance := zerolog.New(logRouter).With().Timestamp().Logger()
	cmdLogger := log.NewZerologAdapter(baseZerologInstance)

	cmdLogger.Info().Msgf("Starting workflow run with ID: %s", wfRunID)
	cmdLogger.Info().Msgf("Logs will be saved to %q", logFilePath)

	// Graceful shutdown of logging sinks
	defer func() {
		cmdLogger.Info().Msg("Shutting down logger...")
		if err := logRouter.Close(); err != nil {
			fmt.Printf("Error during log shutdown: %v", err)
		}
	}()

	if err := godotenv.Load(); err != nil {
		cmdLogger.Warn().Err(err).Msg("No .env file found or error thrown while loading it. Relying on existing ENV.")
	}

	params, err := workflow.LoadParameters()
	if err != nil {
		cmdLogger.Error().Err(err).Msg("Failed to load parameters from environment")
		return err
	}
	r.Params.apply(&params)

	// Attach the secrets redactor before anything parameter-derived is logged.
	logRouter.Redactor = security.NewRedactor(params.SecretValues())

	var (
		wf      *types.Workflow
		vars    workflow.VarContext
		workDir string
	)

	if r.Workflow != "" {
		wf, vars, workDir, err = r.loadCustomWorkflow(cmdLogger, logRouter, params)
		if err != nil {
			return err
		}
	} else {
		mode := params.Mode
		wf, err = workflow.BuildWorkflow(mode, params)
		if err != nil {
			cmdLogger.Error().Err(err).Msg("Could not build workflow")
			return err
		}
		vars, err = workflow.BuildContext(mode, params)
		if err != nil {
			cmdLogger.Error().Err(err).Msg("Could not build workflow context")
			return err
		}
		if err := workflow.VerifyPreconditions(mode, params); err != nil {
			cmdLogger.Error().Err(err).Msg("Workflow preconditions not met")
			return err
		}
	}

	cmdLogger.Info().Msgf("Executing workflow: %q", wf.Name)

	engine := workflow.NewEngine(cmdLogger)
	engine.RunID = wfRunID
	engine.WorkDir = workDir

	report, err := engine.Run(context.Background(), wf, vars)
	if err != nil {
		return err
	}

	cmdLogger.Info().Int("steps", len(report.Results)).Msgf("Workflow completed successfully. Logs can be found at %q", logFilePath)
	return nil
}

// loadCustomWorkflow loads and validates a user-supplied workflow file plus
// its varfile, and widens the redactor with the file's secret inputs.
func (r *RunCmd) loadCustomWorkflow(cmdLogger types.Logger, logRouter *log.Router, params workflow.Parameters) (*types.Workflow, workflow.VarContext, string, error) {
	wf, err := workflow.LoadWorkflowFromFile(r.Workflow)
	if err != nil {
		cmdLogger.Error().Err(err).Msgf("Failed to load workflow file %s", r.Workflow)
		return nil, nil, "", fmt.Errorf("loading workflow file %q: %w", r.Workflow, err)
	}
	cmdLogger.Info().Msgf("Successfully loaded workflow: %q", wf.Name)

	workflowAbsPath, err := filepath.Abs(r.Workflow)
	if err != nil {
		cmdLogger.Error().Err(err).Msgf("Could not determine absolute path for workflow file %s", r.Workflow)
		return nil, nil, "", fmt.Errorf("determining absolute path for workflow file %q: %w", r.Workflow, err)
	}
	workflowDir := filepath.Dir(workflowAbsPath)

	var varCtx workflow.VarContext
	if _, statErr := os.Stat(r.Varfile); os.IsNotExist(statErr) {
		cmdLogger.Warn().Msgf("Varfile %s not found. Proceeding without variables. Required inputs might fail validation.", r.Varfile)
		varCtx = make(workflow.VarContext)
	} else {
		varCtx, err = workflow.ResolveVarfile(r.Varfile)
		if err != nil {
			cmdLogger.Warn().Err(err).Msgf("Could not fully resolve varfile %q. Some variable validations might be affected.", r.Varfile)
			if varCtx == nil {
				varCtx = make(workflow.VarContext)
			}
		} else {
			cmdLogger.Info().Msgf("Successfully loaded and resolved varfile: %s", r.Varfile)
		}
	}

	// Apply default values for inputs that are not provided in the varfile
	for _, input := range wf.Inputs {
		if _, exists := varCtx[input.Name]; !exists && input.Default != "" {
			cmdLogger.Debug().Msgf("Using default value for input %q", input.Name)
			varCtx[input.Name] = input.Default
		}
	}

	if err := workflow.ValidateRequiredInputs(wf, varCtx); err != nil {
		cmdLogger.Error().Err(err).Msg("Required input validation failed")
		return nil, nil, "", err
	}
	cmdLogger.Info().Msg("Required input validation passed")

	// Secret inputs join the parameter secrets in the redactor.
	secrets := params.SecretValues()
	for _, input := range wf.Inputs {
		if input.Secret {
			if val, ok := varCtx[input.Name]; ok {
				secrets = append(secrets, val)
			}
		}
	}
	logRouter.Redactor = security.NewRedactor(secrets)

	if err := workflow.ValidateWorkflowRunners(wf, workflowDir); err != nil {
		cmdLogger.Error().Err(err).Msg("Workflow runner validation failed")
		return nil, nil, "", fmt.Errorf("validating workflow runner: %w", err)
	}
	cmdLogger.Info().Msg("Workflow validation passed")

	return wf, varCtx, workflowDir, nil
}
