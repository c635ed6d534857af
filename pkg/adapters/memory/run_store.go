package memory

import (
	"context"
	"sync"

	"github.com/thesohamdatta/AgenDev-Studio/pkg/domain"
	"github.com/thesohamdatta/AgenDev-Studio/pkg/ports"
)

var _ ports.RunStore = (*RunStore)(nil)

// RunStore implements ports.RunStore in memory.
// Safe for concurrent use.
type RunStore struct {
	mu    sync.RWMutex
	data  map[string]*domain.RunResult
	order []string
}

// NewRunStore creates an empty run store.
func NewRunStore() *RunStore {
	return &RunStore{data: make(map[string]*domain.RunResult)}
}

// Save stores a copy of result. Saving an existing ID moves it to the front.
func (s *RunStore) Save(_ context.Context, result *domain.RunResult) error {
	cp := clone(result)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[result.ID]; exists {
		for i, id := range s.order {
			if id == result.ID {
				s.order = append(s.order[:i], s.order[i+1:]...)
				break
			}
		}
	}
	s.data[result.ID] = cp
	s.order = append(s.order, result.ID)
	return nil
}

// Load returns a copy of the stored run.
func (s *RunStore) Load(_ context.Context, id string) (*domain.RunResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.data[id]
	if !ok {
		return nil, domain.ErrRunNotFound
	}
	return clone(r), nil
}

// List returns run IDs, most recently saved first.
func (s *RunStore) List(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, len(s.order))
	for i, id := range s.order {
		ids[len(s.order)-1-i] = id
	}
	return ids, nil
}

// clone copies the slices so the caller cannot mutate stored state.
func clone(r *domain.RunResult) *domain.RunResult {
	cp := *r
	cp.Log = append([]domain.Message(nil), r.Log...)
	cp.Steps = make([]domain.StepReport, len(r.Steps))
	for i, st := range r.Steps {
		st.Attempts = append([]domain.AttemptReport(nil), st.Attempts...)
		cp.Steps[i] = st
	}
	if r.Failure != nil {
		f := *r.Failure
		cp.Failure = &f
	}
	return &cp
}
