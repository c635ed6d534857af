package runtime

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thesohamdatta/AgenDev-Studio/pkg/agent"
	"github.com/thesohamdatta/AgenDev-Studio/pkg/domain"
	"github.com/thesohamdatta/AgenDev-Studio/pkg/validation"
)

func TestExecutor_LifecycleHooks(t *testing.T) {
	env := newEnv(t,
		agent.NewFunc("A", "ATopic", agent.Static("a")),
		agent.NewFunc("B", "BTopic", agent.Static("b")),
	)
	wf := domain.NewWorkflow("hooked", []domain.Step{
		{Name: "one", Agent: "A", Validator: validation.AlwaysTrue},
		{Name: "two", Agent: "B", Validator: validation.AlwaysFalse, MaxRetries: 1},
	})

	var events []string
	var finish *domain.RunEvent
	hooks := domain.LifecycleHooks{
		OnRunStart: func(_ context.Context, e *domain.RunEvent) {
			events = append(events, "run:"+string(e.Status))
		},
		OnStepStart: func(_ context.Context, e *domain.StepEvent) {
			events = append(events, "start:"+e.Step)
		},
		OnAttemptFinish: func(_ context.Context, e *domain.AttemptEvent) {
			if e.Valid {
				events = append(events, "valid:"+e.Step)
			} else {
				events = append(events, "rejected:"+e.Step)
			}
		},
		OnStepFinish: func(_ context.Context, e *domain.StepEvent) {
			events = append(events, "finish:"+e.Step+":"+string(e.Outcome))
		},
		OnRunFinish: func(_ context.Context, e *domain.RunEvent) {
			finish = e
		},
	}

	res := NewExecutor(env, validation.NewRegistry(validation.WithBuiltins()), wf,
		WithLifecycleHooks(hooks),
		WithIDGenerator(func() string { return "r1" }),
	).Run(context.Background(), "seed")

	assert.Equal(t, []string{
		"run:RUNNING",
		"start:one", "valid:one", "finish:one:ADVANCE",
		"start:two", "rejected:two", "rejected:two", "finish:two:EXHAUSTED",
	}, events)

	require.NotNil(t, finish)
	assert.Equal(t, "r1", finish.RunID)
	assert.Equal(t, domain.RunFailed, finish.Status)
	assert.Same(t, res.Failure, finish.Failure)
	assert.Equal(t, "hooked", finish.Workflow)
}
