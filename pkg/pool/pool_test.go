package pool_test

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thesohamdatta/AgenDev-Studio/pkg/domain"
	"github.com/thesohamdatta/AgenDev-Studio/pkg/pool"
)

func TestPool_FindLatest(t *testing.T) {
	p := pool.New()

	t.Run("Empty Log", func(t *testing.T) {
		_, ok := p.FindLatest("A")
		assert.False(t, ok)
	})

	t.Run("Returns Most Recent", func(t *testing.T) {
		p.Publish(domain.NewMessage("A", "first", "x"))
		p.Publish(domain.NewMessage("B", "other", "y"))
		p.Publish(domain.NewMessage("A", "second", "x"))

		msg, ok := p.FindLatest("A")
		require.True(t, ok)
		assert.Equal(t, "second", msg.Content)
		assert.Equal(t, 2, msg.Seq)
	})

	t.Run("Unknown Topic", func(t *testing.T) {
		_, ok := p.FindLatest("C")
		assert.False(t, ok)
	})
}

func TestPool_PublishStampsOrder(t *testing.T) {
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	p := pool.New(pool.WithClock(func() time.Time { return fixed }))

	for i := 0; i < 3; i++ {
		msg := p.Publish(domain.NewMessage("T", fmt.Sprintf("m%d", i), ""))
		assert.Equal(t, i, msg.Seq)
		assert.Equal(t, fixed, msg.PublishedAt)
	}

	all := p.FetchAll()
	require.Len(t, all, 3)
	for i, m := range all {
		assert.Equal(t, i, m.Seq)
		assert.Equal(t, fmt.Sprintf("m%d", i), m.Content)
	}
	assert.Equal(t, 3, p.Len())
}

func TestPool_FetchAllIsSnapshot(t *testing.T) {
	p := pool.New()
	p.Publish(domain.NewMessage("T", "one", ""))

	snap := p.FetchAll()
	p.Publish(domain.NewMessage("T", "two", ""))

	assert.Len(t, snap, 1, "snapshot must not see later publishes")

	snap[0].Content = "mutated"
	assert.Equal(t, "one", p.FetchAll()[0].Content, "snapshot must not alias storage")
}

func TestPool_ConcurrentPublish(t *testing.T) {
	p := pool.New()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p.Publish(domain.NewMessage("T", "x", ""))
			_ = p.FetchAll()
		}()
	}
	wg.Wait()

	all := p.FetchAll()
	require.Len(t, all, 50)
	for i, m := range all {
		assert.Equal(t, i, m.Seq)
	}
}
