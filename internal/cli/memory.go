package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/thesohamdatta/AgenDev-Studio/pkg/domain"
	"github.com/thesohamdatta/AgenDev-Studio/pkg/ports"
)

// PrintLessons writes every stored lesson to out, grouped by kind.
func PrintLessons(ctx context.Context, store ports.MemoryReader, out io.Writer) error {
	mem, err := store.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to read memory: %w", err)
	}

	groups := map[domain.MemoryKind][]domain.Lesson{
		domain.MemoryFailures: mem.Failures,
		domain.MemoryPatterns: mem.Patterns,
		domain.MemoryFeedback: mem.Feedback,
	}
	for _, kind := range domain.MemoryKinds {
		lessons := groups[kind]
		fmt.Fprintf(out, "%s (%d)\n", strings.ToUpper(string(kind)), len(lessons))
		for _, l := range lessons {
			fmt.Fprintf(out, "  - [%s] %s\n", l.RecordedAt.Format("2006-01-02 15:04"), l.Summary)
		}
	}
	return nil
}

// AddFeedback stores a feedback lesson written by a person.
func AddFeedback(ctx context.Context, store ports.MemoryStore, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return fmt.Errorf("feedback text is required")
	}
	return store.AddFeedback(ctx, domain.Lesson{Summary: text, Source: "user"})
}
