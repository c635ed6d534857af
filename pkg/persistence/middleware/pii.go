package middleware

import (
	"context"
	"fmt"
	"regexp"

	"github.com/thesohamdatta/AgenDev-Studio/pkg/domain"
	"github.com/thesohamdatta/AgenDev-Studio/pkg/ports"
)

// Mask replaces every redacted match.
const Mask = "***"

// DefaultRedactions masks e-mail addresses and inline credentials.
var DefaultRedactions = []string{
	`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`,
	`(?i)(api[_-]?key|token|secret|password)\s*[:=]\s*\S+`,
}

// Redactor masks pattern matches in every free-text field of a run.
type Redactor struct {
	patterns []*regexp.Regexp
}

// NewRedactor compiles the patterns.
func NewRedactor(patterns []string) (*Redactor, error) {
	compiled := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid redaction pattern %q: %w", p, err)
		}
		compiled[i] = re
	}
	return &Redactor{patterns: compiled}, nil
}

// Mask replaces every match in s.
func (r *Redactor) Mask(s string) string {
	for _, p := range r.patterns {
		s = p.ReplaceAllString(s, Mask)
	}
	return s
}

// Redact returns a masked deep copy of result: the seed, every message,
// every attempt error and the failure. The input is left intact.
func (r *Redactor) Redact(result *domain.RunResult) *domain.RunResult {
	cloned := *result
	cloned.Seed = r.Mask(result.Seed)

	cloned.Log = make([]domain.Message, len(result.Log))
	for i, msg := range result.Log {
		msg.Content = r.Mask(msg.Content)
		cloned.Log[i] = msg
	}

	if result.Steps != nil {
		cloned.Steps = make([]domain.StepReport, len(result.Steps))
		for i, step := range result.Steps {
			if step.Attempts != nil {
				attempts := make([]domain.AttemptReport, len(step.Attempts))
				for j, a := range step.Attempts {
					a.Error = r.Mask(a.Error)
					attempts[j] = a
				}
				step.Attempts = attempts
			}
			cloned.Steps[i] = step
		}
	}

	if result.Failure != nil {
		f := *result.Failure
		if f.Err != nil {
			f.Err = redactedError{msg: r.Mask(f.Err.Error()), err: f.Err}
		}
		cloned.Failure = &f
	}
	return &cloned
}

type redactionMiddleware struct {
	next     ports.RunStore
	redactor *Redactor
}

// NewRedactionMiddleware creates a middleware that redacts runs before
// saving. Redaction is one-way: Load returns the masked run.
func NewRedactionMiddleware(patterns []string) (Middleware, error) {
	redactor, err := NewRedactor(patterns)
	if err != nil {
		return nil, err
	}
	return redactor.Middleware(), nil
}

// Middleware wraps a run store so that every saved run is redacted.
func (r *Redactor) Middleware() Middleware {
	return func(next ports.RunStore) ports.RunStore {
		return &redactionMiddleware{next: next, redactor: r}
	}
}

func (m *redactionMiddleware) Save(ctx context.Context, result *domain.RunResult) error {
	return m.next.Save(ctx, m.redactor.Redact(result))
}

func (m *redactionMiddleware) Load(ctx context.Context, id string) (*domain.RunResult, error) {
	return m.next.Load(ctx, id)
}

func (m *redactionMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}

// redactedError keeps the wrapped chain for errors.Is while hiding the text.
type redactedError struct {
	msg string
	err error
}

func (e redactedError) Error() string { return e.msg }
func (e redactedError) Unwrap() error { return e.err }
