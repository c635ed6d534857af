package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/thesohamdatta/AgenDev-Studio/pkg/domain"
	"github.com/thesohamdatta/AgenDev-Studio/pkg/ports"
)

// Store is a ports.MemoryStore backed by SQLite.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

var _ ports.MemoryStore = (*Store)(nil)

// NewStore initializes the lessons table and returns a Store.
func NewStore(db *sql.DB) (*Store, error) {
	s := &Store{db: db, now: time.Now}
	if err := s.initSchema(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) initSchema() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS lessons (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			kind TEXT NOT NULL,
			summary TEXT NOT NULL,
			source TEXT NOT NULL DEFAULT '',
			details TEXT,
			recorded_at TEXT NOT NULL
		);`,
	)
	if err != nil {
		return fmt.Errorf("failed to create lessons table: %w", err)
	}
	return nil
}

func (s *Store) add(ctx context.Context, kind domain.MemoryKind, lesson domain.Lesson) error {
	if lesson.RecordedAt.IsZero() {
		lesson.RecordedAt = s.now().UTC()
	}

	var details sql.NullString
	if len(lesson.Details) > 0 {
		data, err := json.Marshal(lesson.Details)
		if err != nil {
			return fmt.Errorf("failed to marshal lesson details: %w", err)
		}
		details = sql.NullString{String: string(data), Valid: true}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO lessons (kind, summary, source, details, recorded_at)
		VALUES (?, ?, ?, ?, ?)`,
		string(kind),
		lesson.Summary,
		lesson.Source,
		details,
		lesson.RecordedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("failed to insert %s lesson: %w", kind, err)
	}
	return nil
}

// AddFailure records a failure lesson.
func (s *Store) AddFailure(ctx context.Context, lesson domain.Lesson) error {
	return s.add(ctx, domain.MemoryFailures, lesson)
}

// AddPattern records a pattern lesson.
func (s *Store) AddPattern(ctx context.Context, lesson domain.Lesson) error {
	return s.add(ctx, domain.MemoryPatterns, lesson)
}

// AddFeedback records a feedback lesson.
func (s *Store) AddFeedback(ctx context.Context, lesson domain.Lesson) error {
	return s.add(ctx, domain.MemoryFeedback, lesson)
}

// GetAll returns every lesson grouped by kind, in insertion order.
func (s *Store) GetAll(ctx context.Context) (domain.Memory, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT kind, summary, source, details, recorded_at
		FROM lessons
		ORDER BY id`)
	if err != nil {
		return domain.Memory{}, fmt.Errorf("failed to query lessons: %w", err)
	}
	defer rows.Close()

	var mem domain.Memory
	for rows.Next() {
		var (
			kind, recordedAt string
			details          sql.NullString
			l                domain.Lesson
		)
		if err := rows.Scan(&kind, &l.Summary, &l.Source, &details, &recordedAt); err != nil {
			return domain.Memory{}, fmt.Errorf("failed to scan lesson: %w", err)
		}
		if details.Valid {
			if err := json.Unmarshal([]byte(details.String), &l.Details); err != nil {
				return domain.Memory{}, fmt.Errorf("failed to decode lesson details: %w", err)
			}
		}
		l.RecordedAt, err = time.Parse(time.RFC3339Nano, recordedAt)
		if err != nil {
			return domain.Memory{}, fmt.Errorf("failed to parse recorded_at: %w", err)
		}
		mem.Append(domain.MemoryKind(kind), l)
	}
	if err := rows.Err(); err != nil {
		return domain.Memory{}, err
	}
	return mem, nil
}
