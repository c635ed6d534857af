package domain

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrConfiguration is the parent of every wiring defect. It is never retried.
var ErrConfiguration = errors.New("configuration error")

var (
	// ErrUnresolvedAgent is returned when a step names an agent that is not registered.
	ErrUnresolvedAgent = fmt.Errorf("%w: unresolved agent", ErrConfiguration)

	// ErrUnknownValidator is returned when a step names a validator that is not registered.
	ErrUnknownValidator = fmt.Errorf("%w: unknown validator", ErrConfiguration)

	// ErrMalformedWorkflow is returned when a workflow definition cannot be loaded.
	ErrMalformedWorkflow = fmt.Errorf("%w: malformed workflow", ErrConfiguration)
)

var (
	// ErrStepExhausted is returned when a step fails validation on every allotted attempt.
	ErrStepExhausted = errors.New("step exhausted its retry budget")

	// ErrActionFailed marks an agent action that raised instead of publishing content.
	ErrActionFailed = errors.New("agent action failed")

	// ErrCanceled is returned when the run context is cancelled between attempts.
	ErrCanceled = errors.New("run canceled")

	// ErrDuplicateAgent is returned when an agent name is registered twice.
	ErrDuplicateAgent = errors.New("duplicate agent")

	// ErrRunNotFound is returned by run stores when a run ID is unknown.
	ErrRunNotFound = errors.New("run not found")
)

// FailureKind classifies why a run aborted.
type FailureKind string

const (
	FailureUnresolvedAgent  FailureKind = "unresolved_agent"
	FailureUnknownValidator FailureKind = "unknown_validator"
	FailureStepExhausted    FailureKind = "step_exhausted"
	FailureCanceled         FailureKind = "canceled"
)

// Failure identifies the failing step and the cause of a failed run.
type Failure struct {
	Step     string      `json:"step"`
	Kind     FailureKind `json:"kind"`
	Attempts int         `json:"attempts"`
	Err      error       `json:"-"`
}

func (f *Failure) Error() string {
	if f.Err == nil {
		return fmt.Sprintf("step %q failed: %s", f.Step, f.Kind)
	}
	return fmt.Sprintf("step %q failed: %v", f.Step, f.Err)
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// IsConfiguration reports whether the failure is a wiring defect rather than a content defect.
func (f *Failure) IsConfiguration() bool {
	return errors.Is(f.Err, ErrConfiguration)
}

type failureJSON struct {
	Step     string      `json:"step"`
	Kind     FailureKind `json:"kind"`
	Attempts int         `json:"attempts"`
	Message  string      `json:"message,omitempty"`
}

// MarshalJSON flattens Err into a message so failures survive persistence.
func (f *Failure) MarshalJSON() ([]byte, error) {
	out := failureJSON{Step: f.Step, Kind: f.Kind, Attempts: f.Attempts}
	if f.Err != nil {
		out.Message = f.Err.Error()
	}
	return json.Marshal(out)
}

// UnmarshalJSON restores a Failure, re-attaching the sentinel that matches Kind.
func (f *Failure) UnmarshalJSON(data []byte) error {
	var in failureJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	f.Step = in.Step
	f.Kind = in.Kind
	f.Attempts = in.Attempts

	base := sentinelFor(in.Kind)
	switch {
	case in.Message == "" && base == nil:
		f.Err = nil
	case base == nil:
		f.Err = errors.New(in.Message)
	default:
		f.Err = fmt.Errorf("%w (%s)", base, in.Message)
	}
	return nil
}

func sentinelFor(kind FailureKind) error {
	switch kind {
	case FailureUnresolvedAgent:
		return ErrUnresolvedAgent
	case FailureUnknownValidator:
		return ErrUnknownValidator
	case FailureStepExhausted:
		return ErrStepExhausted
	case FailureCanceled:
		return ErrCanceled
	}
	return nil
}
