// Package artifact defines the structured text format agents publish.
//
// An artifact is rendered as four marker-delimited sections:
//
//	TITLE: <title>
//	PURPOSE: <purpose>
//
//	OUTPUT:
//	<output, may span many lines>
//
//	NEXT STEP:
//	<next step>
//
// Markers must appear in that order. Validators and presentation code parse
// artifacts back with Parse instead of scanning for keywords.
package artifact

import (
	"errors"
	"fmt"
	"strings"
)

const (
	MarkerTitle    = "TITLE:"
	MarkerPurpose  = "PURPOSE:"
	MarkerOutput   = "OUTPUT:"
	MarkerNextStep = "NEXT STEP:"
)

// Markers lists the section markers in their required order.
var Markers = []string{MarkerTitle, MarkerPurpose, MarkerOutput, MarkerNextStep}

var (
	// ErrMissingMarker is returned when one or more markers are absent.
	ErrMissingMarker = errors.New("artifact: missing marker")

	// ErrMarkerOrder is returned when markers are present but out of order.
	ErrMarkerOrder = errors.New("artifact: markers out of order")
)

// Artifact is the structured form of an agent's output.
type Artifact struct {
	Title    string `json:"title"`
	Purpose  string `json:"purpose"`
	Output   string `json:"output"`
	NextStep string `json:"next_step"`
}

// Render produces the marker-delimited text form.
func (a Artifact) Render() string {
	return fmt.Sprintf("\n%s %s\n%s %s\n\n%s\n%s\n\n%s\n%s\n",
		MarkerTitle, a.Title,
		MarkerPurpose, a.Purpose,
		MarkerOutput, a.Output,
		MarkerNextStep, a.NextStep,
	)
}

// Complete reports whether every section carries a non-empty body.
func (a Artifact) Complete() bool {
	return a.Title != "" && a.Purpose != "" && a.Output != "" && a.NextStep != ""
}

// HasMarkers reports whether content contains every marker, in any order.
func HasMarkers(content string) bool {
	for _, m := range Markers {
		if !strings.Contains(content, m) {
			return false
		}
	}
	return true
}

// Parse splits content into its sections.
func Parse(content string) (Artifact, error) {
	idx := make([]int, len(Markers))
	var missing []string
	for i, m := range Markers {
		idx[i] = strings.Index(content, m)
		if idx[i] < 0 {
			missing = append(missing, m)
		}
	}
	if len(missing) > 0 {
		return Artifact{}, fmt.Errorf("%w: %s", ErrMissingMarker, strings.Join(missing, ", "))
	}

	for i := 1; i < len(idx); i++ {
		if idx[i] < idx[i-1] {
			return Artifact{}, fmt.Errorf("%w: %q before %q", ErrMarkerOrder, Markers[i], Markers[i-1])
		}
	}

	section := func(i int) string {
		start := idx[i] + len(Markers[i])
		end := len(content)
		if i+1 < len(idx) {
			end = idx[i+1]
		}
		return strings.TrimSpace(content[start:end])
	}

	return Artifact{
		Title:    section(0),
		Purpose:  section(1),
		Output:   section(2),
		NextStep: section(3),
	}, nil
}

// OutputSection returns the OUTPUT body of content, or content itself
// (trimmed) when it is not a well-formed artifact.
func OutputSection(content string) string {
	a, err := Parse(content)
	if err != nil {
		return strings.TrimSpace(content)
	}
	return a.Output
}
