package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thesohamdatta/AgenDev-Studio/pkg/adapters/memory"
	"github.com/thesohamdatta/AgenDev-Studio/pkg/domain"
)

func TestOpenStores(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)

	tests := []struct {
		name string
		opts Options
	}{
		{"Default", Options{}},
		{"Memory", Options{MemoryBackend: BackendMemory}},
		{"File", Options{MemoryBackend: BackendFile, MemoryPath: t.TempDir()}},
		{"SQLite", Options{MemoryBackend: BackendSQLite, MemoryPath: filepath.Join(t.TempDir(), "state", "agendev.db")}},
		{"Redis", Options{MemoryBackend: BackendRedis, RedisAddr: mr.Addr()}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stores, err := OpenStores(ctx, tt.opts)
			require.NoError(t, err)
			defer stores.Close()

			require.NoError(t, stores.Memory.AddFeedback(ctx, domain.Lesson{Summary: "keep it small"}))
			mem, err := stores.Memory.GetAll(ctx)
			require.NoError(t, err)
			require.Len(t, mem.Feedback, 1)

			require.NoError(t, stores.Runs.Save(ctx, &domain.RunResult{ID: "r1", Status: domain.RunCompleted}))
			ids, err := stores.Runs.List(ctx)
			require.NoError(t, err)
			assert.Equal(t, []string{"r1"}, ids)
		})
	}
}

func TestOpenStores_Errors(t *testing.T) {
	_, err := OpenStores(context.Background(), Options{MemoryBackend: "etcd"})
	assert.ErrorContains(t, err, `unknown memory backend "etcd"`)

	_, err = OpenStores(context.Background(), Options{MemoryBackend: BackendRedis, RedisAddr: "127.0.0.1:1"})
	assert.ErrorContains(t, err, "failed to connect to redis")
}

func TestRecordLessons(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	require.NoError(t, RecordLessons(ctx, store, &domain.RunResult{
		ID: "ok", Workflow: "sop", Seed: "todo app", Status: domain.RunCompleted, Success: true,
	}))
	require.NoError(t, RecordLessons(ctx, store, &domain.RunResult{
		ID: "bad", Workflow: "sop", Seed: "todo app", Status: domain.RunFailed,
		Failure: &domain.Failure{Step: "build", Kind: domain.FailureStepExhausted, Attempts: 2, Err: domain.ErrStepExhausted},
	}))

	mem, err := store.GetAll(ctx)
	require.NoError(t, err)

	require.Len(t, mem.Patterns, 1)
	assert.Equal(t, "ok", mem.Patterns[0].Details["run_id"])

	require.Len(t, mem.Failures, 1)
	f := mem.Failures[0]
	assert.Equal(t, `Step "build" failed (step_exhausted) after 2 attempt(s)`, f.Summary)
	assert.Equal(t, "build", f.Details["step"])
	assert.Equal(t, "2", f.Details["attempts"])
	assert.Equal(t, domain.ErrStepExhausted.Error(), f.Details["error"])
}

func TestRunSession_Report(t *testing.T) {
	var out bytes.Buffer
	opts := RunOptions{
		Options: Options{Workspace: t.TempDir()},
		Version: "test",
	}

	res, err := RunSession(context.Background(), opts, "A simple tool to organize files", &out)
	require.NoError(t, err)
	require.True(t, res.Success)

	text := out.String()
	assert.Contains(t, text, "studio test")
	assert.Contains(t, text, ">>> Running workflow 'sop' (7 steps)...")
	assert.Contains(t, text, "## Project Understanding")
	assert.Contains(t, text, "finished: COMPLETED")
}

func TestRunSession_JSONAndLessons(t *testing.T) {
	state := t.TempDir()
	opts := RunOptions{
		Options: Options{
			Workspace:     t.TempDir(),
			MemoryBackend: BackendFile,
			MemoryPath:    state,
			Strict:        true,
		},
		JSON: true,
	}

	var out bytes.Buffer
	res, err := RunSession(context.Background(), opts, "todo app", &out)
	require.NoError(t, err)

	var decoded domain.RunResult
	require.NoError(t, json.Unmarshal(out.Bytes(), &decoded))
	assert.Equal(t, res.ID, decoded.ID)
	assert.Len(t, decoded.Log, 8)

	stores, err := OpenStores(context.Background(), opts.Options)
	require.NoError(t, err)

	mem, err := stores.Memory.GetAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, mem.Patterns, 1)

	saved, err := stores.Runs.Load(context.Background(), res.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RunCompleted, saved.Status)
}

func TestRunSession_SetupErrors(t *testing.T) {
	var out bytes.Buffer

	_, err := RunSession(context.Background(), RunOptions{}, "  ", &out)
	assert.Error(t, err)

	opts := RunOptions{Options: Options{Workspace: t.TempDir(), Check: "pytest"}}
	_, err = RunSession(context.Background(), opts, "x", &out)
	assert.ErrorIs(t, err, domain.ErrConfiguration)

	opts = RunOptions{Options: Options{WorkflowPath: filepath.Join(t.TempDir(), "missing.yaml")}}
	_, err = RunSession(context.Background(), opts, "x", &out)
	assert.Error(t, err)
	assert.Empty(t, out.String())
}

func TestLessonCommands(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	assert.Error(t, AddFeedback(ctx, store, " "))
	require.NoError(t, AddFeedback(ctx, store, "prefer CLIs"))

	var out bytes.Buffer
	require.NoError(t, PrintLessons(ctx, store, &out))
	assert.Contains(t, out.String(), "FAILURES (0)")
	assert.Contains(t, out.String(), "FEEDBACK (1)")
	assert.Contains(t, out.String(), "prefer CLIs")
}

func TestCreateLogger(t *testing.T) {
	logger, closer, err := CreateLogger(false, "")
	require.NoError(t, err)
	assert.False(t, logger.Enabled(context.Background(), 0))
	require.NoError(t, closer.Close())

	dir := t.TempDir()
	logger, closer, err = CreateLogger(false, dir)
	require.NoError(t, err)
	logger.Debug("hello")
	require.NoError(t, closer.Close())

	matches, err := filepath.Glob(filepath.Join(dir, "agendev_*.json"))
	require.NoError(t, err)
	assert.Len(t, matches, 1)
}

func TestOpenStores_ProtectedRuns(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	key := strings.Repeat("ab", 32)

	opts := Options{
		MemoryBackend: BackendFile,
		MemoryPath:    dir,
		Redact:        []string{`hunter2`},
		EncryptionKey: key,
	}
	stores, err := OpenStores(ctx, opts)
	require.NoError(t, err)
	require.NoError(t, stores.Runs.Save(ctx, &domain.RunResult{ID: "r1", Seed: "password hunter2"}))

	raw, err := os.ReadFile(filepath.Join(dir, "runs", "r1.json"))
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "password")

	loaded, err := stores.Runs.Load(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, "password ***", loaded.Seed)

	_, err = OpenStores(ctx, Options{EncryptionKey: "not a key!"})
	assert.Error(t, err)
	_, err = OpenStores(ctx, Options{EncryptionKey: "c2hvcnQ="})
	assert.Error(t, err)
}

func TestPrintTrace(t *testing.T) {
	opts := RunOptions{Options: Options{Workspace: t.TempDir()}, Quiet: true}

	res, err := RunSession(context.Background(), opts, "todo app", io.Discard)
	require.NoError(t, err)

	eng, err := NewEngine(opts.Options, nil, nil)
	require.NoError(t, err)

	var out bytes.Buffer
	PrintTrace(res, eng.Agents(), &out)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 8)
	assert.Equal(t, []string{domain.OriginTopic, "msg-0"}, strings.Fields(lines[0]))
	assert.True(t, strings.HasSuffix(lines[7], "msg-7 <- msg-6 <- msg-5 <- msg-4 <- msg-3 <- msg-2 <- msg-1 <- msg-0"), lines[7])
}

func TestRunSession_RedactsLessons(t *testing.T) {
	state := t.TempDir()
	opts := RunOptions{
		Options: Options{
			Workspace:     t.TempDir(),
			MemoryBackend: BackendFile,
			MemoryPath:    state,
			Redact:        []string{`[a-z]+@example\.com`},
		},
		Quiet: true,
	}

	_, err := RunSession(context.Background(), opts, "todo app for ann@example.com", io.Discard)
	require.NoError(t, err)

	stores, err := OpenStores(context.Background(), opts.Options)
	require.NoError(t, err)
	mem, err := stores.Memory.GetAll(context.Background())
	require.NoError(t, err)
	require.Len(t, mem.Patterns, 1)
	assert.Equal(t, "todo app for ***", mem.Patterns[0].Details["seed"])
	assert.NotContains(t, mem.Patterns[0].Summary, "ann@example.com")
}

func TestRecordLessons_RedactedFailure(t *testing.T) {
	stores, err := OpenStores(context.Background(), Options{Redact: []string{`[a-z]+@example\.com`}})
	require.NoError(t, err)

	res := &domain.RunResult{
		ID:       "r1",
		Workflow: "sop",
		Seed:     "ping bob@example.com",
		Failure: &domain.Failure{
			Step:     "build",
			Kind:     domain.FailureStepExhausted,
			Attempts: 1,
			Err:      fmt.Errorf("%w: cannot reach bob@example.com", domain.ErrActionFailed),
		},
	}
	require.NoError(t, RecordLessons(context.Background(), stores.Memory, stores.Redact(res)))

	mem, err := stores.Memory.GetAll(context.Background())
	require.NoError(t, err)
	require.Len(t, mem.Failures, 1)
	details := mem.Failures[0].Details
	assert.Equal(t, "ping ***", details["seed"])
	assert.NotContains(t, details["error"], "bob@example.com")
	assert.Contains(t, details["error"], "cannot reach ***")
	assert.Equal(t, "ping bob@example.com", res.Seed)
}
