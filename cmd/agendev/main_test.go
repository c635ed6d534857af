package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "agendev version ")
}

func TestValidateCommand(t *testing.T) {
	out, err := execute(t, "validate", "--workflow", "")
	require.NoError(t, err)
	assert.Contains(t, out, "Workflow 'sop' is valid (7 steps)")

	path := filepath.Join(t.TempDir(), "wf.yaml")
	require.NoError(t, os.WriteFile(path, []byte("- step: s\n  agent: Nobody\n  validator: nope\n"), 0o644))

	_, err = execute(t, "validate", "--workflow", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unresolved agent: "Nobody"`)
	assert.Contains(t, err.Error(), `unknown validator: "nope"`)
}

func TestGraphCommand(t *testing.T) {
	out, err := execute(t, "graph", "--workflow", "")
	require.NoError(t, err)
	assert.Contains(t, out, "graph TD")
	assert.Contains(t, out, "understand<br/>Guide")
}

func TestRunAndTraceCommands(t *testing.T) {
	state := t.TempDir()
	common := []string{"--workflow", "", "--memory-backend", "file", "--memory", state, "--workspace", t.TempDir()}

	out, err := execute(t, append([]string{"run", "--json", "a todo app"}, common...)...)
	require.NoError(t, err)

	var res struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	require.NotEmpty(t, res.ID)

	out, err = execute(t, append([]string{"runs", "list"}, common...)...)
	require.NoError(t, err)
	assert.Contains(t, out, res.ID)

	out, err = execute(t, append([]string{"runs", "trace", res.ID}, common...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "msg-2 <- msg-1 <- msg-0")
}

func TestRunCommand_FailedRunExitCode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wf.yaml")
	require.NoError(t, os.WriteFile(path, []byte("- step: understand\n  agent: Guide\n  validator: always_false\n  max_retries: 1\n"), 0o644))

	_, err := execute(t, "run", "--json", "--workflow", path, "--memory-backend", "memory", "--workspace", t.TempDir(), "an idea")
	require.ErrorIs(t, err, errRunFailed)
	assert.Equal(t, 2, exitCode(err))
	assert.Equal(t, 0, exitCode(nil))
}
