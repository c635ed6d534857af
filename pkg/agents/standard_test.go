package agents

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/thesohamdatta/AgenDev-Studio/pkg/adapters/memory"
	"github.com/thesohamdatta/AgenDev-Studio/pkg/artifact"
	"github.com/thesohamdatta/AgenDev-Studio/pkg/domain"
	"github.com/thesohamdatta/AgenDev-Studio/pkg/pool"
	"github.com/thesohamdatta/AgenDev-Studio/pkg/validation"
)

type mockExecutor struct {
	mock.Mock
}

func (m *mockExecutor) Execute(ctx context.Context, command, dir string) domain.CommandResult {
	args := m.Called(ctx, command, dir)
	return args.Get(0).(domain.CommandResult)
}

func TestStandard_ChainValidates(t *testing.T) {
	ws := t.TempDir()
	log := pool.New()
	log.Publish(domain.NewMessage(domain.OriginTopic, "A tool to rename photos", domain.OriginTopic))

	validators := validation.Builtins(validation.Strict)
	expect := map[string]string{
		"Guide":      validation.ValidateSimplicity,
		"Planner":    validation.ValidateSimplicity,
		"Architect":  validation.ValidateSimplicity,
		"Structurer": validation.ValidateDesign,
		"Builder":    validation.ValidateCode,
		"Tester":     validation.ValidateSimplicity,
		"Shipper":    validation.ValidateSimplicity,
	}

	for _, a := range Standard(WithWorkspace(ws)) {
		content, err := a.Act(context.Background(), log)
		require.NoError(t, err, a.Name())
		assert.True(t, validators[expect[a.Name()]](content), "%s output should pass %s", a.Name(), expect[a.Name()])
	}

	assert.Equal(t, 8, log.Len())
	msgs := log.FetchAll()
	assert.Equal(t, TopicDelivery, msgs[7].Topic)
	assert.Equal(t, TopicValidation, msgs[7].CauseBy)
}

func TestGuide_RestatesSeed(t *testing.T) {
	log := pool.New()
	g := NewGuide()

	content, err := g.Act(context.Background(), log)
	require.NoError(t, err)
	assert.Contains(t, artifact.OutputSection(content), "No Intent")

	log.Publish(domain.NewMessage(domain.OriginTopic, "todo list", domain.OriginTopic))
	content, err = g.Act(context.Background(), log)
	require.NoError(t, err)
	assert.Contains(t, artifact.OutputSection(content), "**Goal:** todo list")
}

func TestBuilder_WritesEntryPoint(t *testing.T) {
	ws := t.TempDir()
	b := NewBuilder(WithWorkspace(ws))

	_, err := b.Act(context.Background(), pool.New())
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(ws, "src", "main.py"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "Application Initialized.")
}

func TestBuilder_WriteFailurePublishesNothing(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))

	log := pool.New()
	_, err := NewBuilder(WithWorkspace(blocker)).Act(context.Background(), log)
	assert.Error(t, err)
	assert.Equal(t, 0, log.Len())
}

func TestTester_RunsCheck(t *testing.T) {
	ws := t.TempDir()

	t.Run("Passing Check", func(t *testing.T) {
		exec := new(mockExecutor)
		exec.On("Execute", mock.Anything, "pycheck", ws).
			Return(domain.CommandResult{Success: true, Stdout: "ok"}).Once()

		content, err := NewTester(WithWorkspace(ws), WithCheck(exec, "pycheck")).Act(context.Background(), pool.New())
		require.NoError(t, err)

		a, err := artifact.Parse(content)
		require.NoError(t, err)
		assert.Contains(t, a.Output, "**Check `pycheck`:** Passed")
		assert.Contains(t, a.Output, "ok")
		assert.Equal(t, "Preparing for Use", a.NextStep)
		exec.AssertExpectations(t)
	})

	t.Run("Failing Check Is Reported Not Raised", func(t *testing.T) {
		exec := new(mockExecutor)
		exec.On("Execute", mock.Anything, "pycheck", ws).
			Return(domain.CommandResult{ExitCode: 1, Stderr: "SyntaxError"})

		content, err := NewTester(WithWorkspace(ws), WithCheck(exec, "pycheck")).Act(context.Background(), pool.New())
		require.NoError(t, err)
		assert.Contains(t, content, "Failed (exit 1)")
		assert.Contains(t, content, "SyntaxError")
	})
}

func TestTemplate_MemoryContext(t *testing.T) {
	store := memory.NewStore()
	require.NoError(t, store.AddFailure(context.Background(), domain.Lesson{Summary: "f"}))

	content, err := NewPlanner(WithMemory(store)).Act(context.Background(), pool.New())
	require.NoError(t, err)
	assert.Contains(t, content, "[RECALLING MEMORY]")
	assert.Contains(t, content, "- Past Failures: 1")
	assert.True(t, artifact.HasMarkers(content))
}

func TestTemplate_ComposeError(t *testing.T) {
	log := pool.New()
	tpl := NewTemplate("Broken", "Nowhere", func(context.Context, []domain.Message) (artifact.Artifact, error) {
		return artifact.Artifact{}, errors.New("no inspiration")
	})

	_, err := tpl.Act(context.Background(), log)
	assert.EqualError(t, err, "no inspiration")
	assert.Equal(t, 0, log.Len())
}

func TestTail(t *testing.T) {
	assert.Equal(t, "c\nd", tail("a\nb\nc\nd", 2))
	assert.Equal(t, "a", tail("a", 5))
}
