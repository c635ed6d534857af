package agendev

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/thesohamdatta/AgenDev-Studio/internal/runtime"
	"github.com/thesohamdatta/AgenDev-Studio/pkg/agents"
	"github.com/thesohamdatta/AgenDev-Studio/pkg/domain"
	"github.com/thesohamdatta/AgenDev-Studio/pkg/environment"
	"github.com/thesohamdatta/AgenDev-Studio/pkg/ports"
	"github.com/thesohamdatta/AgenDev-Studio/pkg/validation"
	"github.com/thesohamdatta/AgenDev-Studio/pkg/workflow"
)

// Engine is the high-level entry point of the library. It owns a workflow,
// a validator registry and a set of agents, and runs them against seeds.
type Engine struct {
	workflow     domain.Workflow
	workflowPath string
	hasWorkflow  bool

	registry   *validation.Registry
	strictness validation.Strictness

	agents      []ports.Agent
	logger      *slog.Logger
	hooks       domain.LifecycleHooks
	backoff     time.Duration
	runtimeOpts []runtime.Option
	store       ports.RunStore
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithWorkflow sets the workflow. The embedded default SOP is used otherwise.
func WithWorkflow(wf domain.Workflow) Option {
	return func(e *Engine) {
		e.workflow = wf
		e.hasWorkflow = true
	}
}

// WithWorkflowFile loads the workflow from a YAML or JSON file during New.
func WithWorkflowFile(path string) Option {
	return func(e *Engine) {
		e.workflowPath = path
	}
}

// WithAgents registers agents. Names must be unique.
func WithAgents(list ...ports.Agent) Option {
	return func(e *Engine) {
		e.agents = append(e.agents, list...)
	}
}

// WithStandardAgents registers the seven template agents.
func WithStandardAgents(opts ...agents.Option) Option {
	return WithAgents(agents.Standard(opts...)...)
}

// WithRegistry replaces the built-in validator registry.
func WithRegistry(r *validation.Registry) Option {
	return func(e *Engine) {
		e.registry = r
	}
}

// WithStrictness selects the strictness of the built-in validators.
// Ignored when WithRegistry is given.
func WithStrictness(s validation.Strictness) Option {
	return func(e *Engine) {
		e.strictness = s
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks. Repeated calls chain
// the hooks in order.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = e.hooks.Merge(hooks)
	}
}

// WithRetryBackoff waits d between attempts of the same step.
func WithRetryBackoff(d time.Duration) Option {
	return func(e *Engine) {
		e.backoff = d
	}
}

// WithIDGenerator overrides how run IDs are minted.
func WithIDGenerator(fn func() string) Option {
	return func(e *Engine) {
		e.runtimeOpts = append(e.runtimeOpts, runtime.WithIDGenerator(fn))
	}
}

// WithRunStore persists every finished run.
func WithRunStore(store ports.RunStore) Option {
	return func(e *Engine) {
		e.store = store
	}
}

// New initializes an Engine.
func New(opts ...Option) (*Engine, error) {
	e := &Engine{}
	for _, opt := range opts {
		opt(e)
	}

	if e.logger == nil {
		e.logger = slog.New(slog.DiscardHandler)
	}

	switch {
	case e.workflowPath != "":
		wf, err := workflow.Load(e.workflowPath)
		if err != nil {
			return nil, err
		}
		e.workflow = wf
	case !e.hasWorkflow:
		e.workflow = workflow.Default()
	}

	if e.registry == nil {
		e.registry = validation.NewRegistry(
			validation.WithBuiltins(),
			validation.WithStrictness(e.strictness),
		)
	}

	seen := make(map[string]bool, len(e.agents))
	for _, a := range e.agents {
		if seen[a.Name()] {
			return nil, fmt.Errorf("%w: %q", domain.ErrDuplicateAgent, a.Name())
		}
		seen[a.Name()] = true
	}

	e.logger = e.logger.With("workflow", e.workflow.Name)
	return e, nil
}

// Workflow returns the bound workflow.
func (e *Engine) Workflow() domain.Workflow {
	return e.workflow
}

// Registry returns the validator registry.
func (e *Engine) Registry() *validation.Registry {
	return e.registry
}

// Agents returns the registered agents.
func (e *Engine) Agents() []ports.Agent {
	return append([]ports.Agent(nil), e.agents...)
}

// Check reports every step whose agent or validator cannot be resolved,
// without running anything. The error wraps domain.ErrConfiguration.
func (e *Engine) Check() error {
	names := make(map[string]bool, len(e.agents))
	for _, a := range e.agents {
		names[a.Name()] = true
	}

	var errs []error
	for _, s := range e.workflow.Steps() {
		if !names[s.Agent] {
			errs = append(errs, fmt.Errorf("step %q: %w: %q", s.Name, domain.ErrUnresolvedAgent, s.Agent))
		}
		if _, err := e.registry.Lookup(s.Validator); err != nil {
			errs = append(errs, fmt.Errorf("step %q: %w", s.Name, err))
		}
	}
	return errors.Join(errs...)
}

// Run executes the workflow once against seed in a fresh environment.
// Run-level failures are reported in the result. When a run store is
// configured the result is saved; a save failure is logged, not returned.
func (e *Engine) Run(ctx context.Context, seed string) *domain.RunResult {
	env := environment.New(environment.WithLogger(e.logger))
	for _, a := range e.agents {
		// Names were checked in New.
		_ = env.AddAgent(a)
	}

	opts := []runtime.Option{
		runtime.WithLogger(e.logger),
		runtime.WithLifecycleHooks(e.hooks),
		runtime.WithRetryBackoff(e.backoff),
	}
	opts = append(opts, e.runtimeOpts...)

	res := runtime.NewExecutor(env, e.registry, e.workflow, opts...).Run(ctx, seed)

	if e.store != nil {
		if err := e.store.Save(context.WithoutCancel(ctx), res); err != nil {
			e.logger.Error("failed to save run", "run_id", res.ID, "err", err)
		}
	}
	return res
}
