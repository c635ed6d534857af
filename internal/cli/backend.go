package cli

import (
	"context"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/thesohamdatta/AgenDev-Studio/pkg/adapters/file"
	"github.com/thesohamdatta/AgenDev-Studio/pkg/adapters/memory"
	"github.com/thesohamdatta/AgenDev-Studio/pkg/adapters/redis"
	"github.com/thesohamdatta/AgenDev-Studio/pkg/adapters/sqlite"
	"github.com/thesohamdatta/AgenDev-Studio/pkg/domain"
	"github.com/thesohamdatta/AgenDev-Studio/pkg/persistence/middleware"
	"github.com/thesohamdatta/AgenDev-Studio/pkg/ports"
)

// Stores bundles the lesson store and the run history of one backend.
type Stores struct {
	Memory ports.MemoryStore
	Runs   ports.RunStore

	// Redactor is set when --redact patterns are configured.
	Redactor *middleware.Redactor

	close func() error
}

// Redact returns res masked by the configured patterns, or res itself.
func (s *Stores) Redact(res *domain.RunResult) *domain.RunResult {
	if s.Redactor == nil {
		return res
	}
	return s.Redactor.Redact(res)
}

// Close releases the backend connection, if any.
func (s *Stores) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}

// OpenStores opens the backend selected by opts and wraps its run history
// with the configured redaction and encryption.
func OpenStores(ctx context.Context, opts Options) (*Stores, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	var redactor *middleware.Redactor
	if len(opts.Redact) > 0 {
		r, err := middleware.NewRedactor(opts.Redact)
		if err != nil {
			return nil, err
		}
		redactor = r
	}

	mws, err := runMiddlewares(opts, redactor)
	if err != nil {
		return nil, err
	}

	stores, err := openBackend(ctx, opts)
	if err != nil {
		return nil, err
	}
	stores.Runs = middleware.Chain(stores.Runs, mws...)
	stores.Redactor = redactor
	return stores, nil
}

func runMiddlewares(opts Options, redactor *middleware.Redactor) ([]middleware.Middleware, error) {
	var mws []middleware.Middleware
	if redactor != nil {
		mws = append(mws, redactor.Middleware())
	}
	if opts.EncryptionKey != "" {
		key, err := decodeKey(opts.EncryptionKey)
		if err != nil {
			return nil, err
		}
		mw, err := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: key})
		if err != nil {
			return nil, err
		}
		mws = append(mws, mw)
	}
	return mws, nil
}

// decodeKey accepts a 64-character hex key or a base64 key.
func decodeKey(s string) ([]byte, error) {
	if len(s) == 64 {
		if key, err := hex.DecodeString(s); err == nil {
			return key, nil
		}
	}
	key, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("encryption key is neither hex nor base64: %w", err)
	}
	return key, nil
}

func openBackend(ctx context.Context, opts Options) (*Stores, error) {
	switch opts.MemoryBackend {
	case BackendFile:
		root := opts.MemoryPath
		if root == "" {
			root = DefaultStateDir
		}
		return &Stores{
			Memory: file.New(filepath.Join(root, "memory")),
			Runs:   file.NewRunStore(filepath.Join(root, "runs")),
		}, nil

	case BackendSQLite:
		path := opts.MemoryPath
		if path == "" {
			path = filepath.Join(DefaultStateDir, "agendev.db")
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create state directory: %w", err)
		}
		db, err := sqlite.Open(path)
		if err != nil {
			return nil, err
		}
		mem, err := sqlite.NewStore(db)
		if err != nil {
			return nil, errors.Join(err, db.Close())
		}
		runs, err := sqlite.NewRunStore(db)
		if err != nil {
			return nil, errors.Join(err, db.Close())
		}
		return &Stores{Memory: mem, Runs: runs, close: db.Close}, nil

	case BackendRedis:
		addr := opts.RedisAddr
		if addr == "" {
			addr = "localhost:6379"
		}
		client := redis.NewClient(addr, opts.RedisPassword, opts.RedisDB)
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
		}
		return &Stores{
			Memory: redis.NewFromClient(client),
			Runs:   redis.NewRunStoreFromClient(client),
			close:  client.Close,
		}, nil
	}

	return &Stores{Memory: memory.NewStore(), Runs: memory.NewRunStore()}, nil
}
