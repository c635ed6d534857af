package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/thesohamdatta/AgenDev-Studio/pkg/domain"
	"github.com/thesohamdatta/AgenDev-Studio/pkg/ports"
)

// RecordLessons stores a failure lesson for a failed run and a pattern
// lesson for a completed one. Callers pass the redacted run when redaction
// is configured; see Stores.Redact.
func RecordLessons(ctx context.Context, store ports.MemoryStore, res *domain.RunResult) error {
	details := map[string]string{
		"run_id":   res.ID,
		"workflow": res.Workflow,
		"seed":     res.Seed,
	}

	if res.Success {
		return store.AddPattern(ctx, domain.Lesson{
			Summary: fmt.Sprintf("Workflow %q completed for %q", res.Workflow, res.Seed),
			Source:  "run",
			Details: details,
		})
	}

	summary := fmt.Sprintf("Workflow %q failed", res.Workflow)
	if f := res.Failure; f != nil {
		summary = fmt.Sprintf("Step %q failed (%s) after %d attempt(s)", f.Step, f.Kind, f.Attempts)
		details["step"] = f.Step
		details["kind"] = string(f.Kind)
		details["attempts"] = strconv.Itoa(f.Attempts)
		if f.Err != nil {
			details["error"] = f.Err.Error()
		}
	}
	return store.AddFailure(ctx, domain.Lesson{
		Summary: summary,
		Source:  "run",
		Details: details,
	})
}
