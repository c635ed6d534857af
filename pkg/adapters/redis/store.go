// Package redis persists lessons and run results in Redis.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	backend "github.com/redis/go-redis/v9"

	"github.com/thesohamdatta/AgenDev-Studio/pkg/domain"
	"github.com/thesohamdatta/AgenDev-Studio/pkg/ports"
)

// DefaultPrefix namespaces every key written by this package.
const DefaultPrefix = "agendev:"

var _ ports.MemoryStore = (*Store)(nil)

// Store implements ports.MemoryStore with one Redis list per collection.
type Store struct {
	client *backend.Client
	prefix string
	now    func() time.Time
}

// Option configures the Redis stores.
type Option func(*config)

type config struct {
	prefix string
	ttl    time.Duration
}

// WithPrefix sets the key prefix.
func WithPrefix(prefix string) Option {
	return func(c *config) {
		c.prefix = prefix
	}
}

// WithTTL expires stored runs after ttl. Lessons never expire.
func WithTTL(ttl time.Duration) Option {
	return func(c *config) {
		c.ttl = ttl
	}
}

func newConfig(opts []Option) config {
	c := config{prefix: DefaultPrefix}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// NewClient dials a Redis server.
func NewClient(address, password string, db int) *backend.Client {
	return backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
}

// NewFromClient creates a lesson store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	c := newConfig(opts)
	return &Store{client: client, prefix: c.prefix, now: time.Now}
}

func (s *Store) key(kind domain.MemoryKind) string {
	return s.prefix + "memory:" + string(kind)
}

func (s *Store) add(ctx context.Context, kind domain.MemoryKind, lesson domain.Lesson) error {
	if lesson.RecordedAt.IsZero() {
		lesson.RecordedAt = s.now().UTC()
	}
	data, err := json.Marshal(lesson)
	if err != nil {
		return fmt.Errorf("failed to marshal lesson: %w", err)
	}
	if err := s.client.RPush(ctx, s.key(kind), data).Err(); err != nil {
		return fmt.Errorf("failed to append %s: %w", kind, err)
	}
	return nil
}

// AddFailure appends a failure lesson.
func (s *Store) AddFailure(ctx context.Context, lesson domain.Lesson) error {
	return s.add(ctx, domain.MemoryFailures, lesson)
}

// AddPattern appends a pattern lesson.
func (s *Store) AddPattern(ctx context.Context, lesson domain.Lesson) error {
	return s.add(ctx, domain.MemoryPatterns, lesson)
}

// AddFeedback appends a feedback lesson.
func (s *Store) AddFeedback(ctx context.Context, lesson domain.Lesson) error {
	return s.add(ctx, domain.MemoryFeedback, lesson)
}

// GetAll reads all three lists in one pipeline.
func (s *Store) GetAll(ctx context.Context) (domain.Memory, error) {
	pipe := s.client.Pipeline()
	cmds := make(map[domain.MemoryKind]*backend.StringSliceCmd, len(domain.MemoryKinds))
	for _, kind := range domain.MemoryKinds {
		cmds[kind] = pipe.LRange(ctx, s.key(kind), 0, -1)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return domain.Memory{}, fmt.Errorf("failed to read memory: %w", err)
	}

	var mem domain.Memory
	for _, kind := range domain.MemoryKinds {
		for _, raw := range cmds[kind].Val() {
			var l domain.Lesson
			if err := json.Unmarshal([]byte(raw), &l); err != nil {
				return domain.Memory{}, fmt.Errorf("failed to decode %s entry: %w", kind, err)
			}
			mem.Append(kind, l)
		}
	}
	return mem, nil
}

// Close closes the redis client.
func (s *Store) Close() error {
	return s.client.Close()
}
