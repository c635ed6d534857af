package graph

import (
	"fmt"
	"strings"

	"github.com/thesohamdatta/AgenDev-Studio/pkg/domain"
)

// Overlay carries the step outcomes of a run to paint onto the graph.
type Overlay struct {
	Outcomes map[string]domain.StepOutcome
	Attempts map[string]int
}

// OverlayFromRun builds an Overlay from a finished run.
func OverlayFromRun(res *domain.RunResult) *Overlay {
	o := &Overlay{
		Outcomes: make(map[string]domain.StepOutcome, len(res.Steps)),
		Attempts: make(map[string]int, len(res.Steps)),
	}
	for _, s := range res.Steps {
		o.Outcomes[s.Step] = s.Outcome
		o.Attempts[s.Step] = len(s.Attempts)
	}
	return o
}

// GenerateMermaid produces a Mermaid flowchart of the workflow:
// - Seed: ((Circle))
// - Step: [Rectangle] labelled with its agent
// - Edges: labelled with the validator gating the source step
// - Retry budget: a dotted self-loop
func GenerateMermaid(wf domain.Workflow, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")
	sb.WriteString("    seed((\"" + domain.OriginTopic + "\"))\n")

	prev := "seed"
	prevLabel := ""
	for i, s := range wf.Steps() {
		id := fmt.Sprintf("s%d_%s", i, sanitizeMermaidID(s.Name))

		label := fmt.Sprintf("%s<br/>%s", escape(s.Name), escape(s.Agent))
		if overlay != nil && overlay.Attempts[s.Name] > 1 {
			label += fmt.Sprintf("<br/>%d attempts", overlay.Attempts[s.Name])
		}
		fmt.Fprintf(&sb, "    %s[\"%s\"]\n", id, label)

		if prevLabel == "" {
			fmt.Fprintf(&sb, "    %s --> %s\n", prev, id)
		} else {
			fmt.Fprintf(&sb, "    %s -- \"%s\" --> %s\n", prev, escape(prevLabel), id)
		}
		if s.MaxRetries > 0 {
			fmt.Fprintf(&sb, "    %s -. \"retry x%d\" .-> %s\n", id, s.MaxRetries, id)
		}

		prev, prevLabel = id, s.Validator
	}

	if wf.Len() > 0 {
		fmt.Fprintf(&sb, "    %s -- \"%s\" --> done((\"done\"))\n", prev, escape(prevLabel))
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		sb.WriteString("    classDef advanced fill:#dcfce7,stroke:#166534,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef exhausted fill:#fee2e2,stroke:#991b1b,stroke-width:4px,color:#000;\n")
		sb.WriteString("    classDef aborted fill:#fef3c7,stroke:#92400e,stroke-width:4px,color:#000;\n")

		for i, s := range wf.Steps() {
			id := fmt.Sprintf("s%d_%s", i, sanitizeMermaidID(s.Name))
			switch overlay.Outcomes[s.Name] {
			case domain.StepAdvanced:
				fmt.Fprintf(&sb, "    class %s advanced;\n", id)
			case domain.StepExhausted:
				fmt.Fprintf(&sb, "    class %s exhausted;\n", id)
			case domain.StepAborted:
				fmt.Fprintf(&sb, "    class %s aborted;\n", id)
			}
		}
	}

	return sb.String()
}

func escape(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}

func sanitizeMermaidID(id string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			return r
		}
		return '_'
	}, id)
}
