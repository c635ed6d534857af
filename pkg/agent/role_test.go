package agent_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/thesohamdatta/AgenDev-Studio/pkg/agent"
	"github.com/thesohamdatta/AgenDev-Studio/pkg/domain"
	"github.com/thesohamdatta/AgenDev-Studio/pkg/pool"
)

type mockMemory struct {
	mock.Mock
}

func (m *mockMemory) GetAll(ctx context.Context) (domain.Memory, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.Memory), args.Error(1)
}

func TestRole_ObserveFiltersBySubscription(t *testing.T) {
	log := pool.New()
	log.Publish(domain.NewMessage("A", "a1", ""))
	log.Publish(domain.NewMessage("C", "c1", ""))
	log.Publish(domain.NewMessage("B", "b1", ""))
	log.Publish(domain.NewMessage("A", "a2", ""))

	r := agent.NewRole("reader", "R", agent.WithSubscription("A", "B"))

	first := r.Observe(log)
	require.Len(t, first, 3)
	assert.Equal(t, []string{"a1", "b1", "a2"}, contents(first))
	assert.Equal(t, []int{0, 2, 3}, seqs(first))

	second := r.Observe(log)
	assert.Equal(t, first, second, "observe without intervening publish must be idempotent")
	assert.Equal(t, first, r.Observed())
}

func TestRole_SubscribeIsIdempotentAndOrderIndependent(t *testing.T) {
	r1 := agent.NewRole("a", "T")
	r1.Subscribe("B", "A")
	r1.Subscribe("A")

	r2 := agent.NewRole("b", "T")
	r2.Subscribe("A", "B", "B")

	assert.Equal(t, []string{"A", "B"}, r1.Subscription())
	assert.Equal(t, r1.Subscription(), r2.Subscription())
	assert.True(t, r1.IsSubscribed("A"))
	assert.False(t, r1.IsSubscribed("C"))
}

func TestRole_RetryObservesFreshState(t *testing.T) {
	log := pool.New()
	r := agent.NewRole("self", "S", agent.WithSubscription("S"))

	assert.Empty(t, r.Observe(log))
	r.Publish(log, "attempt 1")
	assert.Len(t, r.Observe(log), 1, "a second observe must see the first attempt")
}

func TestFunc_ActPublishesExactlyOnce(t *testing.T) {
	log := pool.New()
	log.Publish(domain.NewMessage(domain.OriginTopic, "build a CLI tool", ""))

	var seen []domain.Message
	a := agent.NewFunc("X", "Topic X", func(_ context.Context, observed []domain.Message) (string, error) {
		seen = observed
		return "artifact", nil
	}, agent.WithSubscription(domain.OriginTopic))

	content, err := a.Act(context.Background(), log)
	require.NoError(t, err)
	assert.Equal(t, "artifact", content)

	require.Len(t, seen, 1)
	assert.Equal(t, "build a CLI tool", seen[0].Content)

	all := log.FetchAll()
	require.Len(t, all, 2)
	assert.Equal(t, "Topic X", all[1].Topic)
	assert.Equal(t, "X", all[1].SentFrom)
	assert.Equal(t, "artifact", all[1].Content)
}

func TestFunc_ActErrorPublishesNothing(t *testing.T) {
	log := pool.New()
	boom := errors.New("dependency unreachable")
	a := agent.NewFunc("X", "T", func(context.Context, []domain.Message) (string, error) {
		return "", boom
	})

	_, err := a.Act(context.Background(), log)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, log.Len())
}

func TestRole_MemoryContext(t *testing.T) {
	ctx := context.Background()

	t.Run("No Memory", func(t *testing.T) {
		assert.Empty(t, agent.NewRole("a", "T").MemoryContext(ctx))
	})

	t.Run("Summarises Lessons", func(t *testing.T) {
		mem := new(mockMemory)
		mem.On("GetAll", ctx).Return(domain.Memory{
			Failures: []domain.Lesson{{Summary: "f"}, {Summary: "g"}},
			Patterns: []domain.Lesson{{Summary: "p"}},
		}, nil)

		out := agent.NewRole("a", "T", agent.WithMemory(mem)).MemoryContext(ctx)
		assert.Contains(t, out, "[RECALLING MEMORY]")
		assert.Contains(t, out, "Past Failures: 2")
		assert.Contains(t, out, "Successful Patterns: 1")
		mem.AssertExpectations(t)
	})

	t.Run("Unreadable Memory", func(t *testing.T) {
		mem := new(mockMemory)
		mem.On("GetAll", ctx).Return(domain.Memory{}, errors.New("disk gone"))
		assert.Empty(t, agent.NewRole("a", "T", agent.WithMemory(mem)).MemoryContext(ctx))
	})
}

func contents(msgs []domain.Message) []string {
	out := make([]string, len(msgs))
	for i, m := range msgs {
		out[i] = m.Content
	}
	return out
}

func seqs(msgs []domain.Message) []int {
	out := make([]int, len(msgs))
	for i, m := range msgs {
		out[i] = m.Seq
	}
	return out
}
