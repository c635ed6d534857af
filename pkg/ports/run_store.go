package ports

import (
	"context"

	"github.com/thesohamdatta/AgenDev-Studio/pkg/domain"
)

// RunStore persists finished runs so they can be inspected later.
type RunStore interface {
	// Save persists the result under result.ID, overwriting any previous record.
	Save(ctx context.Context, result *domain.RunResult) error

	// Load returns domain.ErrRunNotFound if the run does not exist.
	Load(ctx context.Context, id string) (*domain.RunResult, error)

	// List returns the stored run IDs, most recent first.
	List(ctx context.Context) ([]string, error)
}
