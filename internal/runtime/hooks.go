package runtime

import (
	"context"

	"github.com/thesohamdatta/AgenDev-Studio/pkg/domain"
)

func (e *Executor) base(runID string, t domain.EventType) domain.EventBase {
	return domain.EventBase{Timestamp: e.now(), Type: t, RunID: runID}
}

func (e *Executor) emitRunStart(ctx context.Context, res *domain.RunResult) {
	if e.hooks.OnRunStart == nil {
		return
	}
	e.hooks.OnRunStart(ctx, &domain.RunEvent{
		EventBase: e.base(res.ID, domain.EventRunStart),
		Workflow:  res.Workflow,
		Status:    res.Status,
	})
}

func (e *Executor) emitRunFinish(ctx context.Context, res *domain.RunResult) {
	if e.hooks.OnRunFinish == nil {
		return
	}
	e.hooks.OnRunFinish(ctx, &domain.RunEvent{
		EventBase: e.base(res.ID, domain.EventRunFinish),
		Workflow:  res.Workflow,
		Status:    res.Status,
		Failure:   res.Failure,
		Duration:  res.Duration(),
	})
}

func (e *Executor) emitStepStart(ctx context.Context, runID string, index int, step domain.Step) {
	if e.hooks.OnStepStart == nil {
		return
	}
	e.hooks.OnStepStart(ctx, &domain.StepEvent{
		EventBase: e.base(runID, domain.EventStepStart),
		Step:      step.Name,
		Agent:     step.Agent,
		Index:     index,
	})
}

func (e *Executor) emitStepFinish(ctx context.Context, runID string, index int, step domain.Step, outcome domain.StepOutcome) {
	if e.hooks.OnStepFinish == nil {
		return
	}
	e.hooks.OnStepFinish(ctx, &domain.StepEvent{
		EventBase: e.base(runID, domain.EventStepFinish),
		Step:      step.Name,
		Agent:     step.Agent,
		Index:     index,
		Outcome:   outcome,
	})
}

func (e *Executor) emitAttemptFinish(ctx context.Context, runID string, step domain.Step, report domain.AttemptReport, err error) {
	if e.hooks.OnAttemptFinish == nil {
		return
	}
	e.hooks.OnAttemptFinish(ctx, &domain.AttemptEvent{
		EventBase: e.base(runID, domain.EventAttemptFinish),
		Step:      step.Name,
		Agent:     step.Agent,
		Attempt:   report.Number,
		Valid:     report.Valid,
		Err:       err,
		Elapsed:   report.Duration,
	})
}
