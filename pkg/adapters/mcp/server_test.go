package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thesohamdatta/AgenDev-Studio/pkg/adapters/memory"
	"github.com/thesohamdatta/AgenDev-Studio/pkg/domain"
)

type fakeEngine struct {
	wf  domain.Workflow
	res *domain.RunResult
}

func (f *fakeEngine) Run(_ context.Context, seed string) *domain.RunResult {
	f.res.Seed = seed
	return f.res
}

func (f *fakeEngine) Workflow() domain.Workflow { return f.wf }

func newFake() *fakeEngine {
	return &fakeEngine{
		wf: domain.NewWorkflow("demo", []domain.Step{{Name: "s", Agent: "A", Validator: "always_true"}}),
		res: &domain.RunResult{
			ID:       "run-1",
			Workflow: "demo",
			Status:   domain.RunCompleted,
			Success:  true,
			Log: []domain.Message{
				{Seq: 0, Topic: domain.OriginTopic, Content: "idea"},
				{Seq: 1, Topic: "A", Content: "rejected draft", SentFrom: "A"},
				{Seq: 2, Topic: "A", Content: "final", SentFrom: "A"},
			},
			Steps: []domain.StepReport{{Step: "s", Agent: "A", Outcome: domain.StepAdvanced, Attempts: []domain.AttemptReport{
				{Number: 1, MessageSeq: 1},
				{Number: 2, MessageSeq: 2, Valid: true},
			}}},
		},
	}
}

func TestHandleRun(t *testing.T) {
	s := NewServer(newFake(), "test")

	resp, err := s.handleRun(context.Background(), mcp.CallToolRequest{}, RunArgs{Seed: "idea"})
	require.NoError(t, err)
	assert.Equal(t, "run-1", resp.ID)
	assert.True(t, resp.Success)
	assert.Equal(t, []Output{{Agent: "A", Topic: "A", Output: "final"}}, resp.Outputs)

	_, err = s.handleRun(context.Background(), mcp.CallToolRequest{}, RunArgs{Seed: " "})
	assert.Error(t, err)
}

func TestHandleRun_Failure(t *testing.T) {
	fake := newFake()
	fake.res.Status = domain.RunFailed
	fake.res.Success = false
	fake.res.Failure = &domain.Failure{Step: "s", Kind: domain.FailureStepExhausted, Err: domain.ErrStepExhausted}

	resp, err := NewServer(fake, "test").handleRun(context.Background(), mcp.CallToolRequest{}, RunArgs{Seed: "x"})
	require.NoError(t, err)
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Failure, "exhausted")
}

func TestRunStoreTools(t *testing.T) {
	store := memory.NewRunStore()
	fake := newFake()
	require.NoError(t, store.Save(context.Background(), fake.res))

	s := NewServer(fake, "test", WithRunStore(store))

	res, err := s.handleListRuns(context.Background(), mcp.CallToolRequest{})
	require.NoError(t, err)
	require.False(t, res.IsError)
	assert.Equal(t, "run-1", textOf(t, res))

	req := mcp.CallToolRequest{}
	req.Params.Arguments = map[string]any{"id": "run-1"}
	res, err = s.handleGetRun(context.Background(), req)
	require.NoError(t, err)
	assert.Contains(t, textOf(t, res), "final")

	req.Params.Arguments = map[string]any{"id": "missing"}
	res, err = s.handleGetRun(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestToolsList(t *testing.T) {
	s := NewServer(newFake(), "test")

	raw := json.RawMessage(`{"jsonrpc":"2.0","id":1,"method":"tools/list"}`)
	out := s.MCPServer().HandleMessage(context.Background(), raw)

	data, err := json.Marshal(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "run_workflow")
	assert.Contains(t, string(data), "get_workflow")
	assert.NotContains(t, string(data), "list_runs")
}

func textOf(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return text.Text
}
