// Package runtime drives a workflow over an environment: it resolves each
// step's agent and validator, invokes the agent, and retries or aborts on the
// validator's verdict.
package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/thesohamdatta/AgenDev-Studio/pkg/domain"
	"github.com/thesohamdatta/AgenDev-Studio/pkg/environment"
	"github.com/thesohamdatta/AgenDev-Studio/pkg/ports"
	"github.com/thesohamdatta/AgenDev-Studio/pkg/validation"
)

// ValidatorResolver resolves validator names. *validation.Registry satisfies it.
type ValidatorResolver interface {
	Lookup(name string) (validation.Predicate, error)
}

// Executor runs one workflow against one environment.
type Executor struct {
	env        *environment.Environment
	validators ValidatorResolver
	workflow   domain.Workflow

	logger  *slog.Logger
	hooks   domain.LifecycleHooks
	backoff time.Duration
	newID   func() string
	now     func() time.Time
}

// Option configures the Executor.
type Option func(*Executor)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Executor) {
		e.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Executor) {
		e.hooks = hooks
	}
}

// WithRetryBackoff waits d between attempts of the same step.
func WithRetryBackoff(d time.Duration) Option {
	return func(e *Executor) {
		e.backoff = d
	}
}

// WithIDGenerator overrides how run IDs are minted.
func WithIDGenerator(fn func() string) Option {
	return func(e *Executor) {
		e.newID = fn
	}
}

// WithClock overrides the time source used for timestamps and durations.
func WithClock(now func() time.Time) Option {
	return func(e *Executor) {
		e.now = now
	}
}

// NewExecutor binds a workflow to an environment and a validator registry.
// Name resolution happens at run time, step by step.
func NewExecutor(env *environment.Environment, validators ValidatorResolver, wf domain.Workflow, opts ...Option) *Executor {
	e := &Executor{
		env:        env,
		validators: validators,
		workflow:   wf,
		logger:     slog.New(slog.DiscardHandler),
		newID:      uuid.NewString,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Workflow returns the bound workflow.
func (e *Executor) Workflow() domain.Workflow {
	return e.workflow
}

// Run publishes seed and executes every step in order.
// Run-level failures are reported in the result, never as a Go error.
func (e *Executor) Run(ctx context.Context, seed string) *domain.RunResult {
	res := &domain.RunResult{
		ID:       e.newID(),
		Workflow: e.workflow.Name,
		Seed:     seed,
		Status:   domain.RunPending,
		Steps:    []domain.StepReport{},
	}
	logger := e.logger.With("run_id", res.ID, "workflow", res.Workflow)

	res.StartedAt = e.now()
	res.Status = domain.RunRunning
	e.emitRunStart(ctx, res)
	logger.Info("run started", "steps", e.workflow.Len())

	e.env.PublishSeed(seed)

	for i, step := range e.workflow.Steps() {
		report, failure := e.runStep(ctx, logger, res.ID, i, step)
		res.Steps = append(res.Steps, report)
		if failure != nil {
			res.Failure = failure
			break
		}
	}

	res.FinishedAt = e.now()
	res.Log = e.env.Log().FetchAll()
	if res.Failure == nil {
		res.Status = domain.RunCompleted
		res.Success = true
		logger.Info("run completed", "messages", len(res.Log), "duration", res.Duration())
	} else {
		res.Status = domain.RunFailed
		logger.Error("run failed",
			"step", res.Failure.Step,
			"kind", res.Failure.Kind,
			"attempts", res.Failure.Attempts,
			"err", res.Failure.Err,
		)
	}
	e.emitRunFinish(ctx, res)
	return res
}

func (e *Executor) runStep(ctx context.Context, logger *slog.Logger, runID string, index int, step domain.Step) (domain.StepReport, *domain.Failure) {
	report := domain.StepReport{Step: step.Name, Agent: step.Agent}
	logger = logger.With("step", step.Name, "agent", step.Agent)

	e.emitStepStart(ctx, runID, index, step)
	finish := func(outcome domain.StepOutcome) {
		report.Outcome = outcome
		e.emitStepFinish(ctx, runID, index, step, outcome)
	}

	agent, ok := e.env.Agent(step.Agent)
	if !ok {
		finish(domain.StepAborted)
		return report, &domain.Failure{
			Step: step.Name,
			Kind: domain.FailureUnresolvedAgent,
			Err:  fmt.Errorf("%w: %q", domain.ErrUnresolvedAgent, step.Agent),
		}
	}

	// The validator is resolved before the agent runs, so a misconfigured
	// step publishes nothing.
	validate, err := e.validators.Lookup(step.Validator)
	if err != nil {
		finish(domain.StepAborted)
		return report, &domain.Failure{
			Step: step.Name,
			Kind: domain.FailureUnknownValidator,
			Err:  err,
		}
	}

	for n := 1; n <= step.Attempts(); n++ {
		if err := e.wait(ctx, n); err != nil {
			finish(domain.StepAborted)
			logger.Warn("run canceled", "attempts", n-1)
			return report, &domain.Failure{
				Step:     step.Name,
				Kind:     domain.FailureCanceled,
				Attempts: n - 1,
				Err:      fmt.Errorf("%w: %w", domain.ErrCanceled, err),
			}
		}

		attempt := e.attempt(ctx, runID, step, agent, validate, n)
		report.Attempts = append(report.Attempts, attempt)

		if attempt.Valid {
			logger.Debug("step advanced", "attempt", n)
			finish(domain.StepAdvanced)
			return report, nil
		}
		logger.Warn("attempt rejected", "attempt", n, "of", step.Attempts(), "err", attempt.Error)
	}

	finish(domain.StepExhausted)
	return report, &domain.Failure{
		Step:     step.Name,
		Kind:     domain.FailureStepExhausted,
		Attempts: step.Attempts(),
		Err:      fmt.Errorf("%w: %d attempt(s) rejected by %s", domain.ErrStepExhausted, step.Attempts(), step.Validator),
	}
}

// wait checks for cancellation before attempt n and applies the backoff
// between retries.
func (e *Executor) wait(ctx context.Context, n int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if n == 1 || e.backoff <= 0 {
		return nil
	}

	timer := time.NewTimer(e.backoff)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (e *Executor) attempt(ctx context.Context, runID string, step domain.Step, agent ports.Agent, validate validation.Predicate, n int) domain.AttemptReport {
	log := e.env.Log()
	before := log.Len()
	start := e.now()

	report := domain.AttemptReport{Number: n, MessageSeq: -1}

	content, err := invoke(ctx, agent, log)
	if log.Len() > before {
		report.MessageSeq = log.Len() - 1
	}

	if err != nil {
		report.Error = err.Error()
	} else {
		report.Valid, err = check(validate, content)
		if err != nil {
			report.Error = err.Error()
		}
	}
	report.Duration = e.now().Sub(start)

	e.emitAttemptFinish(ctx, runID, step, report, err)
	return report
}

// invoke calls Act, converting errors and panics into ErrActionFailed.
func invoke(ctx context.Context, agent ports.Agent, log ports.Log) (content string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: panic: %v", domain.ErrActionFailed, r)
		}
	}()

	content, err = agent.Act(ctx, log)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrActionFailed, err)
	}
	return content, nil
}

// check applies a predicate. A panicking predicate rejects the artifact.
func check(validate validation.Predicate, content string) (ok bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			ok = false
			err = fmt.Errorf("validator panic: %v", r)
		}
	}()
	return validate(content), nil
}
