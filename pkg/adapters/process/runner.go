// Package process runs local commands on behalf of agents.
//
// Commands are allow-listed by name. Ad-hoc command lines are refused unless
// inline execution is explicitly enabled.
package process

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/thesohamdatta/AgenDev-Studio/pkg/domain"
	"github.com/thesohamdatta/AgenDev-Studio/pkg/ports"
)

// ExitNotStarted is reported when a command could not be started at all.
const ExitNotStarted = -1

var _ ports.CommandExecutor = (*Runner)(nil)

// Runner implements ports.CommandExecutor.
type Runner struct {
	registry    map[string]CommandConfig
	allowInline bool
	baseDir     string
	timeout     time.Duration
	logger      *slog.Logger
}

// Option configures the runner.
type Option func(*Runner)

// WithRegistry populates the allow-list from a loaded config.
func WithRegistry(commands map[string]CommandConfig) Option {
	return func(r *Runner) {
		for name, c := range commands {
			c.Name = name
			r.registry[name] = c
		}
	}
}

// WithInlineExecution allows command lines that are not allow-listed.
// The line is split on whitespace and run without a shell.
func WithInlineExecution(allow bool) Option {
	return func(r *Runner) {
		r.allowInline = allow
	}
}

// WithBaseDir sets the working directory used when Execute gets none.
// A relative dir passed to Execute is resolved against it.
func WithBaseDir(dir string) Option {
	return func(r *Runner) {
		r.baseDir = dir
	}
}

// WithTimeout bounds each execution.
func WithTimeout(d time.Duration) Option {
	return func(r *Runner) {
		r.timeout = d
	}
}

// WithLogger sets the logger. A nil logger is ignored.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewRunner creates a Runner with an empty allow-list.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		registry: make(map[string]CommandConfig),
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds a trusted command to the allow-list.
func (r *Runner) Register(name, command string, args ...string) {
	r.registry[name] = CommandConfig{Name: name, Command: command, Args: args}
}

// Names lists the allow-listed commands.
func (r *Runner) Names() []string {
	names := make([]string, 0, len(r.registry))
	for name := range r.registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Runner) resolve(command string) (CommandConfig, bool) {
	if c, ok := r.registry[command]; ok {
		return c, true
	}
	if !r.allowInline {
		return CommandConfig{}, false
	}
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return CommandConfig{}, false
	}
	return CommandConfig{Name: command, Command: fields[0], Args: fields[1:]}, true
}

func (r *Runner) workDir(dir string) string {
	switch {
	case dir == "":
		return r.baseDir
	case filepath.IsAbs(dir) || r.baseDir == "":
		return dir
	}
	return filepath.Join(r.baseDir, dir)
}

// Execute runs command in dir. It never returns a Go error: a command that
// is not allowed or cannot be started reports ExitNotStarted.
func (r *Runner) Execute(ctx context.Context, command, dir string) domain.CommandResult {
	c, ok := r.resolve(command)
	if !ok {
		r.logger.Warn("command refused", "command", command)
		return domain.CommandResult{
			ExitCode: ExitNotStarted,
			Stderr:   fmt.Sprintf("command not registered: %s (and inline execution not enabled)", command),
		}
	}

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, c.Command, c.Args...)
	cmd.Dir = r.workDir(dir)
	cmd.Env = cmd.Environ()
	for k, v := range c.Environment {
		cmd.Env = append(cmd.Env, k+"="+v)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()

	result := domain.CommandResult{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		result.Success = true
	case errors.As(err, &exitErr):
		result.ExitCode = exitErr.ExitCode()
	default:
		result.ExitCode = ExitNotStarted
		if result.Stderr == "" {
			result.Stderr = err.Error()
		}
	}

	r.logger.Debug("command finished",
		"command", c.Name,
		"dir", cmd.Dir,
		"exit_code", result.ExitCode,
		"duration", time.Since(start),
	)
	return result
}
