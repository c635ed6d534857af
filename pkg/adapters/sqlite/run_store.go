package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/thesohamdatta/AgenDev-Studio/pkg/domain"
	"github.com/thesohamdatta/AgenDev-Studio/pkg/ports"
)

// RunStore is a ports.RunStore backed by SQLite. The full result is kept as
// a JSON document next to a few indexed columns.
type RunStore struct {
	db  *sql.DB
	now func() time.Time
}

var _ ports.RunStore = (*RunStore)(nil)

// NewRunStore initializes the runs table and returns a RunStore.
func NewRunStore(db *sql.DB) (*RunStore, error) {
	s := &RunStore{db: db, now: time.Now}
	if err := s.initSchema(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *RunStore) initSchema() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			workflow TEXT NOT NULL,
			status TEXT NOT NULL,
			success INTEGER NOT NULL,
			data BLOB NOT NULL,
			saved_at INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS runs_saved_at ON runs (saved_at);`,
	)
	if err != nil {
		return fmt.Errorf("failed to create runs table: %w", err)
	}
	return nil
}

// Save inserts or replaces the run.
func (s *RunStore) Save(ctx context.Context, result *domain.RunResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal run: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO runs (id, workflow, status, success, data, saved_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			workflow = excluded.workflow,
			status = excluded.status,
			success = excluded.success,
			data = excluded.data,
			saved_at = excluded.saved_at`,
		result.ID,
		result.Workflow,
		string(result.Status),
		result.Success,
		data,
		s.now().UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}
	return nil
}

// Load returns domain.ErrRunNotFound for unknown IDs.
func (s *RunStore) Load(ctx context.Context, id string) (*domain.RunResult, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx, `SELECT data FROM runs WHERE id = ?`, id).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrRunNotFound
		}
		return nil, fmt.Errorf("failed to load run: %w", err)
	}

	var result domain.RunResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal run: %w", err)
	}
	return &result, nil
}

// List returns run IDs, most recently saved first.
func (s *RunStore) List(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM runs ORDER BY saved_at DESC, rowid DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
