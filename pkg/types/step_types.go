package types

import "time"

// Step is one external command invocation within a workflow. Steps are
// immutable once constructed; the engine resolves a copy before running it.
type Step struct {
	ID          string            `yaml:"id"`
	Uses        string            `yaml:"uses,omitempty"`
	Command     []string          `yaml:"command,omitempty"`
	Inline      string            `yaml:"inline,omitempty"`
	Dir         string            `yaml:"dir,omitempty"`
	Env         map[string]string `yaml:"env,omitempty"`
	MustSucceed *bool             `yaml:"must_succeed,omitempty"`
}

// Mandatory reports whether a non-zero exit from this step aborts the run.
// Steps are mandatory unless must_succeed is explicitly set to false.
func (s Step) Mandatory() bool {
	return s.MustSucceed == nil || *s.MustSucceed
}

// Input declares a workflow-level variable that a varfile or the environment
// must provide. Secret inputs are redacted from all log output.
type Input struct {
	Name     string `yaml:"name"`
	Type     string `yaml:"type"`
	Required bool   `yaml:"required,omitempty"`
	Secret   bool   `yaml:"secret,omitempty"`
	Default  string `yaml:"default,omitempty"`
}

// Workflow is a named ordered sequence of steps. It is built once at startup,
// either from static configuration or a YAML file, and never mutated during
// execution.
type Workflow struct {
	Name        string  `yaml:"name"`
	Description string  `yaml:"description,omitempty"`
	Inputs      []Input `yaml:"inputs,omitempty"`
	Steps       []Step  `yaml:"steps"`
}

// ExecutionResult records the outcome of a single step. One is appended to
// the run log per executed step; it is never mutated after creation.
type ExecutionResult struct {
	StepIndex int           `json:"step_index"`
	StepID    string        `json:"step_id"`
	ExitCode  int           `json:"exit_code"`
	Stdout    string        `json:"stdout"`
	Stderr    string        `json:"stderr"`
	Duration  time.Duration `json:"duration"`
}

// RunReport summarizes a workflow execution.
type RunReport struct {
	Workflow string            `json:"workflow"`
	RunID    string            `json:"run_id"`
	Results  []ExecutionResult `json:"results"`
	Success  bool              `json:"success"`
	// FailedAt is the index of the step that aborted the run, or -1.
	FailedAt int `json:"failed_at"`
}

// RunState tracks a workflow run through its lifecycle. Terminal states are
// final; there is no pause or resume.
type RunState int

const (
	RunPending RunState = iota
	RunRunning
	RunSucceeded
	RunFailed
)

func (s RunState) String() string {
	switch s {
	case RunPending:
		return "pending"
	case RunRunning:
		return "running"
	case RunSucceeded:
		return "succeeded"
	case RunFailed:
		return "failed"
	default:
		return "unknown"
	}
}
