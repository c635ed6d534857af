package tui

import (
	"os"

	"github.com/charmbracelet/glamour"
	"golang.org/x/term"
)

// RenderFunc turns markdown into display text.
type RenderFunc func(markdown string) (string, error)

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// NewRenderer returns a glamour renderer when out is a terminal and a
// pass-through otherwise, so piped output stays plain markdown.
func NewRenderer(out *os.File) RenderFunc {
	if out == nil || !IsTerminal(out) {
		return Plain
	}

	width := 100
	if w, _, err := term.GetSize(int(out.Fd())); err == nil && w > 0 {
		width = w
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return Plain
	}
	return r.Render
}

// Plain returns markdown unchanged.
func Plain(markdown string) (string, error) {
	return markdown, nil
}
