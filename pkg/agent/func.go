package agent

import (
	"context"

	"github.com/thesohamdatta/AgenDev-Studio/pkg/domain"
	"github.com/thesohamdatta/AgenDev-Studio/pkg/ports"
)

// ComputeFunc produces an artifact from the messages an agent observed.
type ComputeFunc func(ctx context.Context, observed []domain.Message) (string, error)

// Func is an agent whose behaviour is a single compute function.
type Func struct {
	*Role
	compute ComputeFunc
}

var _ ports.Agent = (*Func)(nil)

// NewFunc creates a Func agent.
func NewFunc(name, topic string, compute ComputeFunc, opts ...RoleOption) *Func {
	return &Func{
		Role:    NewRole(name, topic, opts...),
		compute: compute,
	}
}

// Act observes the log, runs the compute function and publishes its result.
// When compute fails nothing is published and the error is returned as is.
func (f *Func) Act(ctx context.Context, log ports.Log) (string, error) {
	observed := f.Observe(log)
	content, err := f.compute(ctx, observed)
	if err != nil {
		return "", err
	}
	f.Publish(log, content)
	return content, nil
}

// Static returns a ComputeFunc that always produces content.
func Static(content string) ComputeFunc {
	return func(context.Context, []domain.Message) (string, error) {
		return content, nil
	}
}
