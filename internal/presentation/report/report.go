// Package report turns a run result into readable markdown.
package report

import (
	"fmt"
	"strings"

	"github.com/thesohamdatta/AgenDev-Studio/pkg/artifact"
	"github.com/thesohamdatta/AgenDev-Studio/pkg/domain"
)

// Section is the OUTPUT body of one published message.
type Section struct {
	Seq      int
	Agent    string
	Topic    string
	Output   string
	Accepted bool
}

// Extract returns one Section per non-seed message, in log order.
// Accepted is set for messages that passed their step's validator.
func Extract(res *domain.RunResult) []Section {
	accepted := make(map[int]bool)
	for _, s := range res.Steps {
		for _, a := range s.Attempts {
			if a.Valid && a.MessageSeq >= 0 {
				accepted[a.MessageSeq] = true
			}
		}
	}

	var out []Section
	for _, m := range res.Log {
		if m.Seq == 0 && m.Topic == domain.OriginTopic {
			continue
		}
		out = append(out, Section{
			Seq:      m.Seq,
			Agent:    m.SentFrom,
			Topic:    m.Topic,
			Output:   artifact.OutputSection(m.Content),
			Accepted: accepted[m.Seq],
		})
	}
	return out
}

// Markdown renders the run as a markdown document. Rejected attempts are
// only included when all is true.
func Markdown(res *domain.RunResult, all bool) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# %s\n\n", res.Workflow)
	fmt.Fprintf(&sb, "- **Run:** `%s`\n", res.ID)
	fmt.Fprintf(&sb, "- **Status:** %s\n", res.Status)
	if res.Failure != nil {
		fmt.Fprintf(&sb, "- **Failure:** %s\n", res.Failure.Error())
	}
	fmt.Fprintf(&sb, "- **Idea:** %s\n", res.Seed)

	for _, s := range Extract(res) {
		if !s.Accepted && !all {
			continue
		}
		title := s.Topic
		if !s.Accepted {
			title += " (rejected)"
		}
		fmt.Fprintf(&sb, "\n## %s\n\n", title)
		if s.Agent != "" {
			fmt.Fprintf(&sb, "_by %s, message %d_\n\n", s.Agent, s.Seq)
		}
		sb.WriteString(s.Output)
		sb.WriteString("\n")
	}
	return sb.String()
}
