package agent

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/thesohamdatta/AgenDev-Studio/pkg/domain"
	"github.com/thesohamdatta/AgenDev-Studio/pkg/ports"
)

// Role is the embeddable base of an agent.
type Role struct {
	name        string
	topic       string
	goal        string
	constraints string
	memory      ports.MemoryReader

	mu           sync.Mutex
	subscription map[string]struct{}
	observed     []domain.Message
}

// RoleOption configures a Role.
type RoleOption func(*Role)

// WithGoal sets the descriptive goal of the agent.
func WithGoal(goal string) RoleOption {
	return func(r *Role) {
		r.goal = goal
	}
}

// WithConstraints sets the descriptive constraints of the agent.
func WithConstraints(constraints string) RoleOption {
	return func(r *Role) {
		r.constraints = constraints
	}
}

// WithMemory attaches the long-lived lesson store.
func WithMemory(memory ports.MemoryReader) RoleOption {
	return func(r *Role) {
		r.memory = memory
	}
}

// WithSubscription subscribes the role to topics at construction time.
func WithSubscription(topics ...string) RoleOption {
	return func(r *Role) {
		r.Subscribe(topics...)
	}
}

// NewRole creates a role publishing under topic.
func NewRole(name, topic string, opts ...RoleOption) *Role {
	r := &Role{
		name:         name,
		topic:        topic,
		subscription: make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Role) Name() string        { return r.name }
func (r *Role) Topic() string       { return r.topic }
func (r *Role) Goal() string        { return r.goal }
func (r *Role) Constraints() string { return r.constraints }

// Subscribe unions topics into the subscription set.
func (r *Role) Subscribe(topics ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range topics {
		r.subscription[t] = struct{}{}
	}
}

// Subscription returns the subscribed topics in sorted order.
func (r *Role) Subscription() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.subscription))
	for t := range r.subscription {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// IsSubscribed reports whether topic is in the subscription set.
func (r *Role) IsSubscribed(topic string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.subscription[topic]
	return ok
}

// Observe filters the full log down to subscribed topics, preserving publish
// order, and caches the result as the role's current context.
func (r *Role) Observe(log ports.Log) []domain.Message {
	all := log.FetchAll()

	r.mu.Lock()
	defer r.mu.Unlock()

	observed := make([]domain.Message, 0, len(all))
	for _, m := range all {
		if _, ok := r.subscription[m.Topic]; ok {
			observed = append(observed, m)
		}
	}
	r.observed = observed

	out := make([]domain.Message, len(observed))
	copy(out, observed)
	return out
}

// Observed returns the context cached by the last Observe call.
func (r *Role) Observed() []domain.Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Message, len(r.observed))
	copy(out, r.observed)
	return out
}

// Publish appends content to log under the role's topic and name.
func (r *Role) Publish(log ports.Log, content string) domain.Message {
	return log.Publish(domain.NewMessage(r.topic, content, r.name))
}

// PublishCausedBy is Publish with a causal tag.
func (r *Role) PublishCausedBy(log ports.Log, content, causeBy string) domain.Message {
	msg := domain.NewMessage(r.topic, content, r.name)
	msg.CauseBy = causeBy
	return log.Publish(msg)
}

// MemoryContext summarises the lesson store for inclusion in an artifact.
// It returns an empty string when no store is attached or it cannot be read.
func (r *Role) MemoryContext(ctx context.Context) string {
	if r.memory == nil {
		return ""
	}
	lessons, err := r.memory.GetAll(ctx)
	if err != nil {
		return ""
	}
	return fmt.Sprintf("\n[RECALLING MEMORY]\n- Past Failures: %d\n- Successful Patterns: %d\n",
		len(lessons.Failures), len(lessons.Patterns))
}

func (r *Role) String() string {
	return fmt.Sprintf("<%s(%s)>", r.name, r.topic)
}
