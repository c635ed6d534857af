package ports

import (
	"context"

	"github.com/thesohamdatta/AgenDev-Studio/pkg/domain"
)

// MemoryReader is the read-only view of the lesson store given to agents.
type MemoryReader interface {
	GetAll(ctx context.Context) (domain.Memory, error)
}

// MemoryStore is an append-only keyed store of lessons.
type MemoryStore interface {
	MemoryReader

	AddFailure(ctx context.Context, lesson domain.Lesson) error
	AddPattern(ctx context.Context, lesson domain.Lesson) error
	AddFeedback(ctx context.Context, lesson domain.Lesson) error
}
