package tests

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thesohamdatta/AgenDev-Studio/pkg/domain"
	"github.com/thesohamdatta/AgenDev-Studio/pkg/ports"
)

// RunMemoryStoreContract verifies that a MemoryStore keeps the three
// collections separate, append-only and in insertion order.
// The store must be empty when passed in.
func RunMemoryStoreContract(t *testing.T, store ports.MemoryStore) {
	t.Helper()
	ctx := context.Background()

	t.Run("Empty Store", func(t *testing.T) {
		mem, err := store.GetAll(ctx)
		require.NoError(t, err)
		assert.Empty(t, mem.Failures)
		assert.Empty(t, mem.Patterns)
		assert.Empty(t, mem.Feedback)
	})

	t.Run("Append Keeps Order And Separation", func(t *testing.T) {
		now := time.Now().UTC().Truncate(time.Second)

		require.NoError(t, store.AddFailure(ctx, domain.Lesson{Summary: "f1", Source: "s1", RecordedAt: now}))
		require.NoError(t, store.AddFailure(ctx, domain.Lesson{Summary: "f2", RecordedAt: now}))
		require.NoError(t, store.AddPattern(ctx, domain.Lesson{Summary: "p1", Details: map[string]string{"k": "v"}, RecordedAt: now}))
		require.NoError(t, store.AddFeedback(ctx, domain.Lesson{Summary: "fb1", RecordedAt: now}))

		mem, err := store.GetAll(ctx)
		require.NoError(t, err)

		require.Len(t, mem.Failures, 2)
		assert.Equal(t, "f1", mem.Failures[0].Summary)
		assert.Equal(t, "s1", mem.Failures[0].Source)
		assert.Equal(t, "f2", mem.Failures[1].Summary)

		require.Len(t, mem.Patterns, 1)
		assert.Equal(t, "p1", mem.Patterns[0].Summary)
		assert.Equal(t, "v", mem.Patterns[0].Details["k"])

		require.Len(t, mem.Feedback, 1)
		assert.Equal(t, "fb1", mem.Feedback[0].Summary)
		assert.True(t, now.Equal(mem.Feedback[0].RecordedAt), "RecordedAt should round-trip")
	})
}

// RunRunStoreContract verifies Save/Load/List semantics of a RunStore.
func RunRunStoreContract(t *testing.T, store ports.RunStore) {
	t.Helper()
	ctx := context.Background()
	prefix := "contract-run-" + time.Now().Format("20060102150405")

	newResult := func(id string, success bool) *domain.RunResult {
		started := time.Now().UTC().Truncate(time.Second)
		r := &domain.RunResult{
			ID:       id,
			Workflow: "sop",
			Seed:     "build a CLI tool",
			Status:   domain.RunCompleted,
			Success:  success,
			Log: []domain.Message{
				{Seq: 0, Topic: domain.OriginTopic, Content: "build a CLI tool", PublishedAt: started},
				{Seq: 1, Topic: "Project Understanding", Content: "TITLE: x", SentFrom: "Guide", PublishedAt: started},
			},
			Steps: []domain.StepReport{
				{Step: "understand", Agent: "Guide", Outcome: domain.StepAdvanced},
			},
			StartedAt:  started,
			FinishedAt: started.Add(time.Second),
		}
		if !success {
			r.Status = domain.RunFailed
			r.Failure = &domain.Failure{
				Step:     "understand",
				Kind:     domain.FailureStepExhausted,
				Attempts: 1,
				Err:      domain.ErrStepExhausted,
			}
		}
		return r
	}

	t.Run("Save and Load", func(t *testing.T) {
		id := prefix + "-ok"
		require.NoError(t, store.Save(ctx, newResult(id, true)))

		loaded, err := store.Load(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, id, loaded.ID)
		assert.True(t, loaded.Success)
		assert.Equal(t, domain.RunCompleted, loaded.Status)
		require.Len(t, loaded.Log, 2)
		assert.Equal(t, "Guide", loaded.Log[1].SentFrom)
		assert.Nil(t, loaded.Failure)
	})

	t.Run("Failure Round Trip", func(t *testing.T) {
		id := prefix + "-failed"
		require.NoError(t, store.Save(ctx, newResult(id, false)))

		loaded, err := store.Load(ctx, id)
		require.NoError(t, err)
		require.NotNil(t, loaded.Failure)
		assert.Equal(t, domain.FailureStepExhausted, loaded.Failure.Kind)
		assert.ErrorIs(t, loaded.Failure, domain.ErrStepExhausted)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+prefix)
		assert.ErrorIs(t, err, domain.ErrRunNotFound)
	})

	t.Run("List", func(t *testing.T) {
		for i := 0; i < 2; i++ {
			require.NoError(t, store.Save(ctx, newResult(fmt.Sprintf("%s-list-%d", prefix, i), true)))
		}
		ids, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, ids, prefix+"-list-0")
		assert.Contains(t, ids, prefix+"-list-1")
	})
}
