package types

// ExecutionContext carries everything a step runner needs to execute one step.
type ExecutionContext struct {
	Step    Step
	Logger  Logger
	WorkDir string
}
