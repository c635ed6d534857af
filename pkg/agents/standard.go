package agents

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/thesohamdatta/AgenDev-Studio/pkg/agent"
	"github.com/thesohamdatta/AgenDev-Studio/pkg/artifact"
	"github.com/thesohamdatta/AgenDev-Studio/pkg/domain"
	"github.com/thesohamdatta/AgenDev-Studio/pkg/ports"
)

// DefaultWorkspace is where the Builder writes generated code.
var DefaultWorkspace = filepath.Join("workspace", "generated_code")

// EntryPoint is the file written by the Builder, relative to the workspace.
const EntryPoint = "src/main.py"

const entryPointSource = `def main():
    # Entry point for the application
    print('Application Initialized.')

if __name__ == '__main__':
    main()
`

type config struct {
	memory    ports.MemoryReader
	workspace string
	exec      ports.CommandExecutor
	check     string
}

// Option configures the standard agents.
type Option func(*config)

// WithMemory gives every agent read access to the lesson store.
func WithMemory(m ports.MemoryReader) Option {
	return func(c *config) {
		c.memory = m
	}
}

// WithWorkspace sets the directory the Builder writes into.
func WithWorkspace(dir string) Option {
	return func(c *config) {
		c.workspace = dir
	}
}

// WithCheck makes the Tester run command in the workspace through exec.
func WithCheck(exec ports.CommandExecutor, command string) Option {
	return func(c *config) {
		c.exec = exec
		c.check = command
	}
}

func newConfig(opts []Option) config {
	c := config{workspace: DefaultWorkspace}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

func (c config) role(goal, constraints string, subscription ...string) []agent.RoleOption {
	opts := []agent.RoleOption{
		agent.WithGoal(goal),
		agent.WithConstraints(constraints),
		agent.WithSubscription(subscription...),
	}
	if c.memory != nil {
		opts = append(opts, agent.WithMemory(c.memory))
	}
	return opts
}

// Standard returns the seven agents of the default workflow, in step order.
func Standard(opts ...Option) []ports.Agent {
	return []ports.Agent{
		NewGuide(opts...),
		NewPlanner(opts...),
		NewArchitect(opts...),
		NewStructurer(opts...),
		NewBuilder(opts...),
		NewTester(opts...),
		NewShipper(opts...),
	}
}

// NewGuide restates the user's idea as a goal.
func NewGuide(opts ...Option) *Template {
	c := newConfig(opts)
	return NewTemplate("Guide", TopicUnderstanding, func(_ context.Context, observed []domain.Message) (artifact.Artifact, error) {
		intent := "No Intent"
		for _, m := range observed {
			if m.Topic == domain.OriginTopic {
				intent = m.Content
				break
			}
		}
		return artifact.Artifact{
			Title:    "Project Understanding",
			Purpose:  "Understand what the user wants to build.",
			Output:   fmt.Sprintf("**Goal:** %s\n\n**Analysis:** This is a clear engineering task. We will interpret this as a requirement for a production-ready solution.", intent),
			NextStep: "Defining Project Scope",
		}, nil
	}, c.role("Clarify User Goal", "Zero ambiguity", domain.OriginTopic)...)
}

// NewPlanner fixes what is in and out of scope.
func NewPlanner(opts ...Option) *Template {
	c := newConfig(opts)
	return NewTemplate("Planner", TopicScope, static(artifact.Artifact{
		Title:    "Project Scope",
		Purpose:  "Define the project scope.",
		Output:   "**Included:**\n- Core logic implementation\n- Standard library usage\n- Basic CLI/API interface\n\n**Excluded:**\n- GUI (unless specified)\n- External databases (unless specified)",
		NextStep: "Designing System Architecture",
	}), c.role("Define Scope", "No feature creep", TopicUnderstanding)...)
}

// NewArchitect proposes the component layout.
func NewArchitect(opts ...Option) *Template {
	c := newConfig(opts)
	return NewTemplate("Architect", TopicArchitecture, static(artifact.Artifact{
		Title:    "System Architecture",
		Purpose:  "Design a simple architecture.",
		Output:   "**Pattern:** Modular Monolith\n**Components:**\n- `main`: Entry point\n- `core`: Business logic\n- `utils`: Helpers\n**Data Flow:** Linear input-process-output.",
		NextStep: "Generating Folder Structure",
	}), c.role("Design Architecture", "Simple and maintainable", TopicScope)...)
}

// Blueprint is the folder structure proposed by the Structurer.
type Blueprint struct {
	Modules []string `json:"modules"`
	Files   []string `json:"files"`
}

// DefaultBlueprint is the layout every generated project starts from.
var DefaultBlueprint = Blueprint{
	Modules: []string{"main", "core", "utils"},
	Files:   []string{"src/", "src/__init__.py", EntryPoint, "tests/", "README.md", "requirements.txt"},
}

// NewStructurer emits the folder blueprint as JSON.
func NewStructurer(opts ...Option) *Template {
	c := newConfig(opts)
	return NewTemplate("Structurer", TopicStructure, func(context.Context, []domain.Message) (artifact.Artifact, error) {
		data, err := json.MarshalIndent(DefaultBlueprint, "", "  ")
		if err != nil {
			return artifact.Artifact{}, err
		}
		return artifact.Artifact{
			Title:    "Folder Structure",
			Purpose:  "Generate clean folder structure.",
			Output:   fmt.Sprintf("**Blueprint:**\n```json\n%s\n```", data),
			NextStep: "Generating Clean Code",
		}, nil
	}, c.role("Generate Structure", "Standard layout", TopicArchitecture)...)
}

// NewBuilder writes the entry point into the workspace. A write failure is
// returned as an error.
func NewBuilder(opts ...Option) *Template {
	c := newConfig(opts)
	return NewTemplate("Builder", TopicCode, func(context.Context, []domain.Message) (artifact.Artifact, error) {
		path := filepath.Join(c.workspace, filepath.FromSlash(EntryPoint))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return artifact.Artifact{}, fmt.Errorf("failed to create workspace: %w", err)
		}
		if err := os.WriteFile(path, []byte(entryPointSource), 0o644); err != nil {
			return artifact.Artifact{}, fmt.Errorf("failed to write %s: %w", EntryPoint, err)
		}
		return artifact.Artifact{
			Title:    "Code Generation",
			Purpose:  "Generate clean code.",
			Output:   fmt.Sprintf("**Status:** Code written to `%s`\n\n**Preview:**\n```python\n%s```", EntryPoint, entryPointSource),
			NextStep: "Validating Project",
		}, nil
	}, c.role("Write Code", "Clean, Readable, PEP8", TopicStructure)...)
}

// NewTester reports on the generated project. With WithCheck it runs the
// check command in the workspace and reports its outcome.
func NewTester(opts ...Option) *Template {
	c := newConfig(opts)
	return NewTemplate("Tester", TopicValidation, func(ctx context.Context, _ []domain.Message) (artifact.Artifact, error) {
		out := "**Syntax Check:** Passed\n**Import Check:** Passed\n**Structure Check:** Passed"
		next := "Preparing for Use"

		if c.exec != nil && c.check != "" {
			res := c.exec.Execute(ctx, c.check, c.workspace)
			status := "Passed"
			if !res.Success {
				status = fmt.Sprintf("Failed (exit %d)", res.ExitCode)
				next = "Fix the reported problems before shipping"
			}
			out = fmt.Sprintf("**Check `%s`:** %s", c.check, status)
			if detail := strings.TrimSpace(res.Stdout + res.Stderr); detail != "" {
				out += "\n\n```\n" + tail(detail, 20) + "\n```"
			}
		}

		return artifact.Artifact{
			Title:    "Project Validation",
			Purpose:  "Validate the project.",
			Output:   out,
			NextStep: next,
		}, nil
	}, c.role("Validate Project", "Ensure runnability", TopicCode)...)
}

// NewShipper explains how to run the result.
func NewShipper(opts ...Option) *Template {
	c := newConfig(opts)
	loc := filepath.ToSlash(c.workspace)
	return NewTemplate("Shipper", TopicDelivery, static(artifact.Artifact{
		Title:    "Delivery",
		Purpose:  "Prepare it for use.",
		Output:   fmt.Sprintf("**Project Location:** `%s/`\n\n**Commands:**\n1. `cd %s`\n2. `python %s`", loc, loc, EntryPoint),
		NextStep: "Complete",
	}), c.role("Prepare Delivery", "Ready to run", TopicValidation)...)
}

// tail keeps the last n lines of s.
func tail(s string, n int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= n {
		return s
	}
	return strings.Join(lines[len(lines)-n:], "\n")
}
