// Package validation holds the named predicates that gate advancement past a
// workflow step.
package validation

import (
	"fmt"
	"sort"
	"sync"

	"github.com/thesohamdatta/AgenDev-Studio/pkg/domain"
)

// Predicate checks an artifact. It must be deterministic and side-effect free.
type Predicate func(content string) bool

// Registry maps validator names to predicates.
// Safe for concurrent use.
type Registry struct {
	mu         sync.RWMutex
	validators map[string]Predicate
	strictness Strictness
	builtins   bool
}

// Option configures the Registry.
type Option func(*Registry)

// WithStrictness selects how the built-in validators interpret artifacts.
func WithStrictness(s Strictness) Option {
	return func(r *Registry) {
		r.strictness = s
	}
}

// WithBuiltins registers the built-in validators at construction.
func WithBuiltins() Option {
	return func(r *Registry) {
		r.builtins = true
	}
}

// NewRegistry creates a registry. It is empty unless WithBuiltins is given.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		validators: make(map[string]Predicate),
		strictness: Loose,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.builtins {
		for name, p := range Builtins(r.strictness) {
			r.validators[name] = p
		}
	}
	return r
}

// Register adds a predicate under name, replacing any previous one.
func (r *Registry) Register(name string, p Predicate) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.validators[name] = p
}

// Lookup returns the predicate registered under name.
// An unregistered name is a configuration error, never an implicit pass.
func (r *Registry) Lookup(name string) (Predicate, error) {
	r.mu.RLock()
	p, ok := r.validators[name]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownValidator, name)
	}
	return p, nil
}

// Validate looks up name and applies it to content.
func (r *Registry) Validate(name, content string) (bool, error) {
	p, err := r.Lookup(name)
	if err != nil {
		return false, err
	}
	return p(content), nil
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.validators[name]
	return ok
}

// Names returns the registered names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.validators))
	for name := range r.validators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Strictness returns the mode the built-ins were registered with.
func (r *Registry) Strictness() Strictness {
	return r.strictness
}
