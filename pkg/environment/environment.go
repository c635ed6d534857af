// Package environment owns the message log and the registered agents of a run.
// It has no control flow of its own: the executor drives it.
package environment

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/thesohamdatta/AgenDev-Studio/pkg/domain"
	"github.com/thesohamdatta/AgenDev-Studio/pkg/pool"
	"github.com/thesohamdatta/AgenDev-Studio/pkg/ports"
)

// Environment is the shared world of a run.
type Environment struct {
	mu     sync.RWMutex
	log    *pool.Pool
	agents []ports.Agent
	index  map[string]ports.Agent
	logger *slog.Logger
}

// Option configures the Environment.
type Option func(*Environment)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Environment) {
		e.logger = logger
	}
}

// WithPool uses an existing message log instead of a fresh one.
func WithPool(p *pool.Pool) Option {
	return func(e *Environment) {
		e.log = p
	}
}

// New creates an empty Environment.
func New(opts ...Option) *Environment {
	e := &Environment{
		index:  make(map[string]ports.Agent),
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.log == nil {
		e.log = pool.New()
	}
	return e
}

// AddAgent registers a under its name. Names are unique.
func (e *Environment) AddAgent(a ports.Agent) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	name := a.Name()
	if _, exists := e.index[name]; exists {
		return fmt.Errorf("%w: %q", domain.ErrDuplicateAgent, name)
	}
	e.index[name] = a
	e.agents = append(e.agents, a)

	e.logger.Debug("agent registered", "agent", name, "topic", a.Topic(), "subscription", a.Subscription())
	return nil
}

// PublishSeed publishes content under the origin topic.
func (e *Environment) PublishSeed(content string) domain.Message {
	msg := e.log.Publish(domain.NewMessage(domain.OriginTopic, content, domain.OriginTopic))
	e.logger.Debug("seed published", "seq", msg.Seq, "bytes", len(content))
	return msg
}

// Agent returns the agent registered under name.
func (e *Environment) Agent(name string) (ports.Agent, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	a, ok := e.index[name]
	return a, ok
}

// Agents returns the registered agents in registration order.
func (e *Environment) Agents() []ports.Agent {
	e.mu.RLock()
	defer e.mu.RUnlock()
	cp := make([]ports.Agent, len(e.agents))
	copy(cp, e.agents)
	return cp
}

// Log returns the message log.
func (e *Environment) Log() *pool.Pool {
	return e.log
}
