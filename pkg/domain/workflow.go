package domain

import "encoding/json"

// Step binds a step name to an agent, a validator and a retry budget.
type Step struct {
	Name       string `json:"step" yaml:"step" mapstructure:"step"`
	Agent      string `json:"agent" yaml:"agent" mapstructure:"agent"`
	Validator  string `json:"validator" yaml:"validator" mapstructure:"validator"`
	MaxRetries int    `json:"max_retries" yaml:"max_retries" mapstructure:"max_retries"`
}

// Attempts returns the total number of attempts the step is allowed (first try included).
// The budget is clamped to [0, MaxRetriesLimit], so there is always at least one.
func (s Step) Attempts() int {
	return min(max(s.MaxRetries, 0), MaxRetriesLimit) + 1
}

// Workflow is the ordered, immutable list of steps of a run.
type Workflow struct {
	Name  string `json:"name" yaml:"name"`
	steps []Step
}

// NewWorkflow copies steps into a new Workflow.
func NewWorkflow(name string, steps []Step) Workflow {
	if name == "" {
		name = DefaultWorkflowName
	}
	cp := make([]Step, len(steps))
	copy(cp, steps)
	return Workflow{Name: name, steps: cp}
}

// Steps returns a copy of the step list, so callers cannot mutate the workflow.
func (w Workflow) Steps() []Step {
	cp := make([]Step, len(w.steps))
	copy(cp, w.steps)
	return cp
}

// Len returns the number of steps.
func (w Workflow) Len() int {
	return len(w.steps)
}

type workflowJSON struct {
	Name  string `json:"name"`
	Steps []Step `json:"steps"`
}

// MarshalJSON exposes the step list, which is otherwise unexported.
func (w Workflow) MarshalJSON() ([]byte, error) {
	return json.Marshal(workflowJSON{Name: w.Name, Steps: w.Steps()})
}
