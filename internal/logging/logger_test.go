package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWriter_RenamesErrorKey(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWriter(&buf, slog.LevelInfo)

	logger.Info("step failed", "error", errors.New("boom"))
	logger.Debug("hidden")

	out := buf.String()
	assert.Contains(t, out, "err=boom")
	assert.NotContains(t, out, "hidden")
}

func TestNewJSONFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")

	logger, closer, err := NewJSONFile(dir, slog.LevelError)
	require.NoError(t, err)

	logger.With("run_id", "r1").Debug("attempt rejected", "attempt", 2)
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(filepath.Join(dir, DailyFileName(time.Now())))
	require.NoError(t, err)

	line := strings.TrimSpace(string(data))
	var rec map[string]any
	require.NoError(t, json.Unmarshal([]byte(line), &rec))
	assert.Equal(t, "attempt rejected", rec["msg"])
	assert.Equal(t, "r1", rec["run_id"])
	assert.EqualValues(t, 2, rec["attempt"])
}

func TestDailyFileName(t *testing.T) {
	day := time.Date(2026, 1, 31, 23, 0, 0, 0, time.UTC)
	assert.Equal(t, "agendev_20260131.json", DailyFileName(day))
}
