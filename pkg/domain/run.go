package domain

import "time"

// RunStatus is the state of a run in the executor state machine.
type RunStatus string

const (
	RunPending   RunStatus = "PENDING"
	RunRunning   RunStatus = "RUNNING"
	RunCompleted RunStatus = "COMPLETED"
	RunFailed    RunStatus = "FAILED"
)

// StepOutcome is the terminal state of a single step within a run.
type StepOutcome string

const (
	StepAdvanced  StepOutcome = "ADVANCE"
	StepExhausted StepOutcome = "EXHAUSTED"
	StepAborted   StepOutcome = "ABORTED"
)

// AttemptReport describes one invocation of an agent within a step.
type AttemptReport struct {
	Number int `json:"number"`

	// MessageSeq is the Seq of the message published by this attempt, or -1 if none.
	MessageSeq int    `json:"message_seq"`
	Valid      bool   `json:"valid"`
	Error      string `json:"error,omitempty"`

	Duration time.Duration `json:"duration"`
}

// StepReport summarises how a step played out.
type StepReport struct {
	Step     string          `json:"step"`
	Agent    string          `json:"agent"`
	Outcome  StepOutcome     `json:"outcome"`
	Attempts []AttemptReport `json:"attempts,omitempty"`
}

// RunResult is the structured outcome of one end-to-end run.
type RunResult struct {
	ID       string    `json:"id"`
	Workflow string    `json:"workflow"`
	Seed     string    `json:"seed"`
	Status   RunStatus `json:"status"`
	Success  bool      `json:"success"`

	// Log is the full ordered log, including rejected attempts.
	Log   []Message    `json:"log"`
	Steps []StepReport `json:"steps"`

	// Failure is set when Status is RunFailed.
	Failure *Failure `json:"failure,omitempty"`

	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

// Duration returns the wall-clock length of the run.
func (r *RunResult) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}
