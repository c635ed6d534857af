// Package pool implements the shared message log agents publish to.
//
// The pool is a broadcast log, not a queue: every reader sees the entire
// history published so far and filters it by its own subscription.
package pool

import (
	"sync"
	"time"

	"github.com/thesohamdatta/AgenDev-Studio/pkg/domain"
	"github.com/thesohamdatta/AgenDev-Studio/pkg/ports"
)

var _ ports.Log = (*Pool)(nil)

// Pool is an append-only, ordered sequence of messages.
// Safe for concurrent use.
type Pool struct {
	mu       sync.RWMutex
	messages []domain.Message
	now      func() time.Time
}

// Option configures the Pool.
type Option func(*Pool)

// WithClock overrides the clock used to stamp PublishedAt.
func WithClock(now func() time.Time) Option {
	return func(p *Pool) {
		p.now = now
	}
}

// New creates an empty pool.
func New(opts ...Option) *Pool {
	p := &Pool{
		messages: make([]domain.Message, 0, 16),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Publish appends msg to the log, stamping its sequence number and publish time.
// The stamped copy is returned; the caller's value is not modified.
func (p *Pool) Publish(msg domain.Message) domain.Message {
	p.mu.Lock()
	defer p.mu.Unlock()

	msg.Seq = len(p.messages)
	msg.PublishedAt = p.now()
	p.messages = append(p.messages, msg)
	return msg
}

// FetchAll returns the full ordered history as of the call.
// The returned slice is a copy bounded to the length at read time, so
// publishes that happen after the read never leak into it.
func (p *Pool) FetchAll() []domain.Message {
	p.mu.RLock()
	defer p.mu.RUnlock()

	out := make([]domain.Message, len(p.messages))
	copy(out, p.messages)
	return out
}

// FindLatest scans from the newest message backwards and returns the first
// one published under topic.
func (p *Pool) FindLatest(topic string) (domain.Message, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	for i := len(p.messages) - 1; i >= 0; i-- {
		if p.messages[i].Topic == topic {
			return p.messages[i], true
		}
	}
	return domain.Message{}, false
}

// Len returns the number of published messages.
func (p *Pool) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.messages)
}
