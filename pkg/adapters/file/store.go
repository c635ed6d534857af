// Package file persists lessons and run results as JSON files on disk.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/thesohamdatta/AgenDev-Studio/pkg/domain"
	"github.com/thesohamdatta/AgenDev-Studio/pkg/ports"
)

// DefaultMemoryDir is used when New is given an empty directory.
var DefaultMemoryDir = filepath.Join(".agendev", "memory")

var _ ports.MemoryStore = (*Store)(nil)

// Store implements ports.MemoryStore with one JSON array per collection:
// failures.json, patterns.json and feedback.json.
type Store struct {
	BasePath string

	mu  sync.Mutex
	now func() time.Time
}

// New creates a Store rooted at basePath.
func New(basePath string) *Store {
	if basePath == "" {
		basePath = DefaultMemoryDir
	}
	return &Store{BasePath: basePath, now: time.Now}
}

func (s *Store) path(kind domain.MemoryKind) string {
	return filepath.Join(s.BasePath, string(kind)+".json")
}

func (s *Store) read(kind domain.MemoryKind) ([]domain.Lesson, error) {
	data, err := os.ReadFile(s.path(kind))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []domain.Lesson{}, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", kind, err)
	}

	var lessons []domain.Lesson
	if err := json.Unmarshal(data, &lessons); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", kind, err)
	}
	return lessons, nil
}

func (s *Store) add(kind domain.MemoryKind, lesson domain.Lesson) error {
	if lesson.RecordedAt.IsZero() {
		lesson.RecordedAt = s.now().UTC()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	lessons, err := s.read(kind)
	if err != nil {
		return err
	}
	lessons = append(lessons, lesson)

	data, err := json.MarshalIndent(lessons, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", kind, err)
	}
	return writeAtomic(s.path(kind), data)
}

// AddFailure appends to failures.json.
func (s *Store) AddFailure(_ context.Context, lesson domain.Lesson) error {
	return s.add(domain.MemoryFailures, lesson)
}

// AddPattern appends to patterns.json.
func (s *Store) AddPattern(_ context.Context, lesson domain.Lesson) error {
	return s.add(domain.MemoryPatterns, lesson)
}

// AddFeedback appends to feedback.json.
func (s *Store) AddFeedback(_ context.Context, lesson domain.Lesson) error {
	return s.add(domain.MemoryFeedback, lesson)
}

// GetAll reads every collection. Missing files read as empty.
func (s *Store) GetAll(_ context.Context) (domain.Memory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var mem domain.Memory
	for _, kind := range domain.MemoryKinds {
		lessons, err := s.read(kind)
		if err != nil {
			return domain.Memory{}, err
		}
		for _, l := range lessons {
			mem.Append(kind, l)
		}
	}
	return mem, nil
}
