package cli

import (
	"fmt"
	"log/slog"
	"slices"
	"time"

	agendev "github.com/thesohamdatta/AgenDev-Studio"
	"github.com/thesohamdatta/AgenDev-Studio/pkg/adapters/process"
	"github.com/thesohamdatta/AgenDev-Studio/pkg/agents"
	"github.com/thesohamdatta/AgenDev-Studio/pkg/domain"
	"github.com/thesohamdatta/AgenDev-Studio/pkg/observability"
	"github.com/thesohamdatta/AgenDev-Studio/pkg/validation"
)

// CheckTimeout bounds the Tester's check command.
const CheckTimeout = 2 * time.Minute

// NewEngine builds an engine with the standard agents and CLI conventions.
// Lessons from stores are offered to the agents; finished runs are saved.
func NewEngine(opts Options, logger *slog.Logger, stores *Stores, extra ...agendev.Option) (*agendev.Engine, error) {
	agentOpts := []agents.Option{}
	if opts.Workspace != "" {
		agentOpts = append(agentOpts, agents.WithWorkspace(opts.Workspace))
	}
	if stores != nil && stores.Memory != nil {
		agentOpts = append(agentOpts, agents.WithMemory(stores.Memory))
	}
	if opts.Check != "" {
		runner, err := newCommandRunner(opts, logger)
		if err != nil {
			return nil, err
		}
		agentOpts = append(agentOpts, agents.WithCheck(runner, opts.Check))
	}

	strictness := validation.Loose
	if opts.Strict {
		strictness = validation.Strict
	}

	engineOpts := []agendev.Option{
		agendev.WithStandardAgents(agentOpts...),
		agendev.WithStrictness(strictness),
		agendev.WithLogger(logger),
		agendev.WithRetryBackoff(opts.RetryBackoff),
	}
	if opts.Debug || opts.LogDir != "" {
		engineOpts = append(engineOpts, agendev.WithLifecycleHooks(observability.LoggingHooks(logger)))
	}
	if opts.WorkflowPath != "" {
		engineOpts = append(engineOpts, agendev.WithWorkflowFile(opts.WorkflowPath))
	}
	if stores != nil && stores.Runs != nil {
		engineOpts = append(engineOpts, agendev.WithRunStore(stores.Runs))
	}
	engineOpts = append(engineOpts, extra...)

	engine, err := agendev.New(engineOpts...)
	if err != nil {
		return nil, fmt.Errorf("error initializing engine: %w", err)
	}
	return engine, nil
}

// newCommandRunner builds the allow-listed runner for the Tester's check.
func newCommandRunner(opts Options, logger *slog.Logger) (*process.Runner, error) {
	runnerOpts := []process.Option{
		process.WithLogger(logger),
		process.WithInlineExecution(opts.UnsafeInline),
		process.WithTimeout(CheckTimeout),
	}
	if opts.CommandsPath != "" {
		commands, err := process.LoadCommands(opts.CommandsPath)
		if err != nil {
			return nil, err
		}
		runnerOpts = append(runnerOpts, process.WithRegistry(commands))
	}

	runner := process.NewRunner(runnerOpts...)
	if !opts.UnsafeInline && !slices.Contains(runner.Names(), opts.Check) {
		return nil, fmt.Errorf("%w: check command %q is not in the allow-list", domain.ErrConfiguration, opts.Check)
	}
	return runner, nil
}
