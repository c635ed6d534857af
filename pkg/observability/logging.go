package observability

import (
	"context"
	"log/slog"

	"github.com/thesohamdatta/AgenDev-Studio/pkg/domain"
)

// LoggingHooks logs every lifecycle event at Info, and rejected attempts at Warn.
func LoggingHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnRunStart: func(ctx context.Context, e *domain.RunEvent) {
			logger.InfoContext(ctx, "run_start", "run_id", e.RunID, "workflow", e.Workflow)
		},
		OnRunFinish: func(ctx context.Context, e *domain.RunEvent) {
			attrs := []any{"run_id", e.RunID, "status", e.Status, "duration", e.Duration}
			if e.Failure != nil {
				attrs = append(attrs, "step", e.Failure.Step, "kind", e.Failure.Kind, "err", e.Failure.Err)
			}
			logger.InfoContext(ctx, "run_finish", attrs...)
		},
		OnStepStart: func(ctx context.Context, e *domain.StepEvent) {
			logger.InfoContext(ctx, "step_start", "run_id", e.RunID, "step", e.Step, "agent", e.Agent, "index", e.Index)
		},
		OnStepFinish: func(ctx context.Context, e *domain.StepEvent) {
			logger.InfoContext(ctx, "step_finish", "run_id", e.RunID, "step", e.Step, "outcome", e.Outcome)
		},
		OnAttemptFinish: func(ctx context.Context, e *domain.AttemptEvent) {
			if e.Valid {
				logger.InfoContext(ctx, "attempt_accepted", "run_id", e.RunID, "step", e.Step, "attempt", e.Attempt, "elapsed", e.Elapsed)
				return
			}
			logger.WarnContext(ctx, "attempt_rejected", "run_id", e.RunID, "step", e.Step, "attempt", e.Attempt, "err", e.Err)
		},
	}
}
