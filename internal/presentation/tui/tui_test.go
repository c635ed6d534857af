package tui_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thesohamdatta/AgenDev-Studio/internal/presentation/tui"
)

func TestPrintBanner_IncludesVersion(t *testing.T) {
	var buf bytes.Buffer
	tui.PrintBanner(&buf, "1.2.3")
	assert.Contains(t, buf.String(), "studio 1.2.3")
	// A buffer is not a terminal, so no escape sequences are written.
	assert.NotContains(t, buf.String(), "\x1b[")
}

func TestStatus_PlainForNonTerminal(t *testing.T) {
	var buf bytes.Buffer
	assert.Equal(t, "COMPLETED", tui.Status(&buf, "COMPLETED", true))
}

func TestNewRenderer_NonTerminalIsPassThrough(t *testing.T) {
	f, err := os.Create(filepath.Join(t.TempDir(), "out.md"))
	require.NoError(t, err)
	defer f.Close()

	assert.False(t, tui.IsTerminal(f))

	out, err := tui.NewRenderer(f)("# Title\n\nbody")
	require.NoError(t, err)
	assert.Equal(t, "# Title\n\nbody", out)
}
