package domain

import "time"

// Lesson is one entry of the long-lived memory store.
type Lesson struct {
	Summary    string            `json:"summary"`
	Source     string            `json:"source,omitempty"`
	Details    map[string]string `json:"details,omitempty"`
	RecordedAt time.Time         `json:"recorded_at"`
}

// Memory is the snapshot returned by a memory store reader.
type Memory struct {
	Failures []Lesson `json:"failures"`
	Patterns []Lesson `json:"patterns"`
	Feedback []Lesson `json:"feedback"`
}

// MemoryKind names one of the three lesson collections.
type MemoryKind string

const (
	MemoryFailures MemoryKind = "failures"
	MemoryPatterns MemoryKind = "patterns"
	MemoryFeedback MemoryKind = "feedback"
)

// MemoryKinds lists the collections in a stable order.
var MemoryKinds = []MemoryKind{MemoryFailures, MemoryPatterns, MemoryFeedback}

// Append adds lesson to the collection named by kind.
func (m *Memory) Append(kind MemoryKind, lesson Lesson) {
	switch kind {
	case MemoryFailures:
		m.Failures = append(m.Failures, lesson)
	case MemoryPatterns:
		m.Patterns = append(m.Patterns, lesson)
	case MemoryFeedback:
		m.Feedback = append(m.Feedback, lesson)
	}
}
