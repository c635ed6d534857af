package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

var bannerLines = []struct {
	text  string
	color string
}{
	{`     _                 ____             `, "#34d399"},
	{`    / \   __ _  ___ _ |  _ \  _____   __`, "#2dd4bf"},
	{`   / _ \ / _' |/ _ \ '| | | |/ _ \ \ / /`, "#22d3ee"},
	{`  / ___ \ (_| |  __/ || |_| |  __/\ V / `, "#38bdf8"},
	{` /_/   \_\__, |\___|_||____/ \___| \_/  `, "#60a5fa"},
	{`         |___/                          `, "#818cf8"},
}

// PrintBanner writes the AgenDev banner and version to w.
// Colors are dropped when w is not a terminal.
func PrintBanner(w io.Writer, version string) {
	out := termenv.NewOutput(w)
	p := out.ColorProfile()

	fmt.Fprintln(w)
	for _, l := range bannerLines {
		fmt.Fprintln(w, out.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w, out.String("  studio "+version).Faint())
	fmt.Fprintln(w)
}

// Status colors a run status label: green for success, red otherwise.
func Status(w io.Writer, label string, ok bool) string {
	out := termenv.NewOutput(w)
	color := "#ef4444"
	if ok {
		color = "#22c55e"
	}
	return out.String(label).Foreground(out.ColorProfile().Color(color)).Bold().String()
}
