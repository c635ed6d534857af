package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	backend "github.com/redis/go-redis/v9"

	"github.com/thesohamdatta/AgenDev-Studio/pkg/domain"
	"github.com/thesohamdatta/AgenDev-Studio/pkg/ports"
)

var _ ports.RunStore = (*RunStore)(nil)

// RunStore implements ports.RunStore using Redis.
// Runs are stored as JSON strings and indexed in a ZSET scored by save time.
type RunStore struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
	now    func() time.Time
}

// NewRunStoreFromClient creates a run store from an existing client.
func NewRunStoreFromClient(client *backend.Client, opts ...Option) *RunStore {
	c := newConfig(opts)
	return &RunStore{client: client, prefix: c.prefix, ttl: c.ttl, now: time.Now}
}

func (s *RunStore) key(id string) string {
	return s.prefix + "run:" + id
}

func (s *RunStore) indexKey() string {
	return s.prefix + "runs"
}

// Save persists the run and indexes it.
func (s *RunStore) Save(ctx context.Context, result *domain.RunResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal run: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.key(result.ID), data, s.ttl)
	pipe.ZAdd(ctx, s.indexKey(), backend.Z{
		Score:  float64(s.now().UnixMilli()),
		Member: result.ID,
	})
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save run to redis: %w", err)
	}
	return nil
}

// Load retrieves a run.
func (s *RunStore) Load(ctx context.Context, id string) (*domain.RunResult, error) {
	val, err := s.client.Get(ctx, s.key(id)).Result()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return nil, domain.ErrRunNotFound
		}
		return nil, fmt.Errorf("failed to get run from redis: %w", err)
	}

	var result domain.RunResult
	if err := json.Unmarshal([]byte(val), &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal run: %w", err)
	}
	return &result, nil
}

// List returns run IDs, newest first. With a TTL, index entries older than
// the TTL are pruned lazily.
func (s *RunStore) List(ctx context.Context) ([]string, error) {
	if s.ttl > 0 {
		cutoff := s.now().Add(-s.ttl).UnixMilli()
		err := s.client.ZRemRangeByScore(ctx, s.indexKey(), "-inf", "("+strconv.FormatInt(cutoff, 10)).Err()
		if err != nil {
			return nil, fmt.Errorf("failed to prune expired runs: %w", err)
		}
	}

	ids, err := s.client.ZRevRange(ctx, s.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	return ids, nil
}

// Close closes the redis client.
func (s *RunStore) Close() error {
	return s.client.Close()
}
