package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/thesohamdatta/AgenDev-Studio/pkg/domain"
	"github.com/thesohamdatta/AgenDev-Studio/pkg/ports"
)

// DefaultRunDir is used when NewRunStore is given an empty directory.
var DefaultRunDir = filepath.Join(".agendev", "runs")

var _ ports.RunStore = (*RunStore)(nil)

// RunStore implements ports.RunStore with one JSON file per run.
type RunStore struct {
	BasePath string
}

// NewRunStore creates a RunStore rooted at basePath.
func NewRunStore(basePath string) *RunStore {
	if basePath == "" {
		basePath = DefaultRunDir
	}
	return &RunStore{BasePath: basePath}
}

func (s *RunStore) path(id string) (string, error) {
	if id == "" {
		return "", fmt.Errorf("run ID cannot be empty")
	}
	if strings.ContainsAny(id, `/\`) || id == "." || id == ".." {
		return "", fmt.Errorf("invalid run ID %q", id)
	}
	return filepath.Join(s.BasePath, id+".json"), nil
}

// Save writes the result atomically.
func (s *RunStore) Save(_ context.Context, result *domain.RunResult) error {
	path, err := s.path(result.ID)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal run: %w", err)
	}
	return writeAtomic(path, data)
}

// Load reads a run back.
func (s *RunStore) Load(_ context.Context, id string) (*domain.RunResult, error) {
	path, err := s.path(id)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, domain.ErrRunNotFound
		}
		return nil, fmt.Errorf("failed to read run file: %w", err)
	}

	var result domain.RunResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal run: %w", err)
	}
	return &result, nil
}

// List returns run IDs ordered by file modification time, newest first.
func (s *RunStore) List(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.BasePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}

	type item struct {
		id  string
		mod int64
	}
	var items []item
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || filepath.Ext(name) != ".json" || strings.HasPrefix(name, "tmp-") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		items = append(items, item{id: strings.TrimSuffix(name, ".json"), mod: info.ModTime().UnixNano()})
	}

	sort.SliceStable(items, func(i, j int) bool {
		if items[i].mod != items[j].mod {
			return items[i].mod > items[j].mod
		}
		return items[i].id > items[j].id
	})

	ids := make([]string, len(items))
	for i, it := range items {
		ids[i] = it.id
	}
	return ids, nil
}
