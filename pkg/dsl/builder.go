package dsl

import (
	"github.com/thesohamdatta/AgenDev-Studio/pkg/domain"
	"github.com/thesohamdatta/AgenDev-Studio/pkg/workflow"
)

// Builder manages the workflow construction.
type Builder struct {
	name  string
	steps []*StepBuilder
}

// New creates a new workflow builder.
func New(name string) *Builder {
	return &Builder{name: name}
}

// Step appends a step. Steps run in the order they are added.
func (b *Builder) Step(name string) *StepBuilder {
	sb := &StepBuilder{step: domain.Step{Name: name}, builder: b}
	b.steps = append(b.steps, sb)
	return sb
}

// Build checks the steps and returns the workflow.
func (b *Builder) Build() (domain.Workflow, error) {
	steps := make([]domain.Step, len(b.steps))
	for i, sb := range b.steps {
		steps[i] = sb.step
	}
	if err := workflow.Check(steps); err != nil {
		return domain.Workflow{}, err
	}
	return domain.NewWorkflow(b.name, steps), nil
}

// StepBuilder provides a fluent API for configuring a step.
type StepBuilder struct {
	step    domain.Step
	builder *Builder
}

// By names the agent that acts in this step.
func (s *StepBuilder) By(agent string) *StepBuilder {
	s.step.Agent = agent
	return s
}

// Validate names the validator that gates this step.
func (s *StepBuilder) Validate(validator string) *StepBuilder {
	s.step.Validator = validator
	return s
}

// Retries sets how many extra attempts the step gets after a rejection.
func (s *StepBuilder) Retries(n int) *StepBuilder {
	s.step.MaxRetries = n
	return s
}

// Step ends this step and starts the next one.
func (s *StepBuilder) Step(name string) *StepBuilder {
	return s.builder.Step(name)
}

// Build ends this step and builds the workflow.
func (s *StepBuilder) Build() (domain.Workflow, error) {
	return s.builder.Build()
}
