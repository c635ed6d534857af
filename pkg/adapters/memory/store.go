// Package memory provides in-process implementations of the lesson store and
// the run store.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/thesohamdatta/AgenDev-Studio/pkg/domain"
	"github.com/thesohamdatta/AgenDev-Studio/pkg/ports"
)

var _ ports.MemoryStore = (*Store)(nil)

// Store implements ports.MemoryStore in memory.
// Safe for concurrent use.
type Store struct {
	mu  sync.RWMutex
	mem domain.Memory
	now func() time.Time
}

// NewStore creates an empty lesson store.
func NewStore() *Store {
	return &Store{now: time.Now}
}

func (s *Store) add(kind domain.MemoryKind, lesson domain.Lesson) error {
	if lesson.RecordedAt.IsZero() {
		lesson.RecordedAt = s.now().UTC()
	}
	lesson.Details = cloneDetails(lesson.Details)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.mem.Append(kind, lesson)
	return nil
}

// AddFailure records a failure lesson.
func (s *Store) AddFailure(_ context.Context, lesson domain.Lesson) error {
	return s.add(domain.MemoryFailures, lesson)
}

// AddPattern records a successful pattern.
func (s *Store) AddPattern(_ context.Context, lesson domain.Lesson) error {
	return s.add(domain.MemoryPatterns, lesson)
}

// AddFeedback records user feedback.
func (s *Store) AddFeedback(_ context.Context, lesson domain.Lesson) error {
	return s.add(domain.MemoryFeedback, lesson)
}

// GetAll returns a copy of every collection.
func (s *Store) GetAll(_ context.Context) (domain.Memory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.Memory{
		Failures: cloneLessons(s.mem.Failures),
		Patterns: cloneLessons(s.mem.Patterns),
		Feedback: cloneLessons(s.mem.Feedback),
	}, nil
}

func cloneLessons(in []domain.Lesson) []domain.Lesson {
	out := make([]domain.Lesson, len(in))
	for i, l := range in {
		l.Details = cloneDetails(l.Details)
		out[i] = l
	}
	return out
}

func cloneDetails(in map[string]string) map[string]string {
	if in == nil {
		return nil
	}
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
