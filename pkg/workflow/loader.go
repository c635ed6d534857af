// Package workflow loads step sequences from YAML or JSON definitions.
package workflow

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/thesohamdatta/AgenDev-Studio/pkg/domain"
)

//go:embed default.yaml
var defaultDefinition []byte

// Format is the encoding of a workflow definition.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatFromPath infers the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	}
	return "", fmt.Errorf("%w: unsupported extension %q", domain.ErrMalformedWorkflow, filepath.Ext(path))
}

// Load reads and validates the workflow at path.
func Load(path string) (domain.Workflow, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return domain.Workflow{}, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Workflow{}, fmt.Errorf("failed to read workflow %s: %w", path, err)
	}

	wf, err := Parse(data, format)
	if err != nil {
		return domain.Workflow{}, fmt.Errorf("%s: %w", path, err)
	}
	return wf, nil
}

// Default returns the embedded seven-step SOP.
func Default() domain.Workflow {
	wf, err := Parse(defaultDefinition, FormatYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded workflow is invalid: %v", err))
	}
	return wf
}

// DefaultDefinition returns the raw embedded YAML.
func DefaultDefinition() []byte {
	cp := make([]byte, len(defaultDefinition))
	copy(cp, defaultDefinition)
	return cp
}

// document is the object form: {name, steps}.
type document struct {
	Name  string           `mapstructure:"name"`
	Steps []map[string]any `mapstructure:"steps"`
}

// Parse decodes a definition. The top level is either a bare list of step
// records or an object with a name and a steps list.
func Parse(data []byte, format Format) (domain.Workflow, error) {
	var raw any
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return domain.Workflow{}, fmt.Errorf("%w: %v", domain.ErrMalformedWorkflow, err)
		}
	case FormatJSON:
		if err := json.Unmarshal(data, &raw); err != nil {
			return domain.Workflow{}, fmt.Errorf("%w: %v", domain.ErrMalformedWorkflow, err)
		}
	default:
		return domain.Workflow{}, fmt.Errorf("%w: unknown format %q", domain.ErrMalformedWorkflow, format)
	}

	var (
		name    string
		records []any
	)
	switch v := raw.(type) {
	case []any:
		records = v
	case map[string]any:
		if _, ok := v["steps"]; !ok {
			return domain.Workflow{}, fmt.Errorf("%w: missing \"steps\" key", domain.ErrMalformedWorkflow)
		}
		var doc document
		if err := decodeStrict(v, &doc); err != nil {
			return domain.Workflow{}, fmt.Errorf("%w: %v", domain.ErrMalformedWorkflow, err)
		}
		name = doc.Name
		for _, s := range doc.Steps {
			records = append(records, s)
		}
	case nil:
		return domain.Workflow{}, fmt.Errorf("%w: empty definition", domain.ErrMalformedWorkflow)
	default:
		return domain.Workflow{}, fmt.Errorf("%w: top level must be a list or an object, got %T", domain.ErrMalformedWorkflow, raw)
	}

	steps := make([]domain.Step, 0, len(records))
	seen := make(map[string]int, len(records))
	for i, rec := range records {
		step, err := decodeStep(rec)
		if err != nil {
			return domain.Workflow{}, fmt.Errorf("%w: record %d: %v", domain.ErrMalformedWorkflow, i, err)
		}
		if prev, dup := seen[step.Name]; dup {
			return domain.Workflow{}, fmt.Errorf("%w: record %d: step %q already defined by record %d",
				domain.ErrMalformedWorkflow, i, step.Name, prev)
		}
		seen[step.Name] = i
		steps = append(steps, step)
	}

	return domain.NewWorkflow(name, steps), nil
}

func decodeStep(rec any) (domain.Step, error) {
	m, ok := rec.(map[string]any)
	if !ok {
		return domain.Step{}, fmt.Errorf("expected an object, got %T", rec)
	}

	// JSON numbers arrive as float64; reject fractional retry counts
	// instead of truncating them.
	if f, ok := m["max_retries"].(float64); ok && f != float64(int(f)) {
		return domain.Step{}, fmt.Errorf("max_retries must be an integer, got %v", f)
	}

	var step domain.Step
	if err := decodeStrict(m, &step); err != nil {
		return domain.Step{}, err
	}
	if err := checkStep(step); err != nil {
		return domain.Step{}, err
	}
	return step, nil
}

// Check validates steps built in code the same way Parse validates records.
// Errors wrap domain.ErrMalformedWorkflow.
func Check(steps []domain.Step) error {
	seen := make(map[string]int, len(steps))
	for i, step := range steps {
		if err := checkStep(step); err != nil {
			return fmt.Errorf("%w: step %d: %v", domain.ErrMalformedWorkflow, i, err)
		}
		if prev, dup := seen[step.Name]; dup {
			return fmt.Errorf("%w: step %d: %q already defined by step %d",
				domain.ErrMalformedWorkflow, i, step.Name, prev)
		}
		seen[step.Name] = i
	}
	return nil
}

func checkStep(step domain.Step) error {
	var missing []string
	if step.Name == "" {
		missing = append(missing, "step")
	}
	if step.Agent == "" {
		missing = append(missing, "agent")
	}
	if step.Validator == "" {
		missing = append(missing, "validator")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required field(s): %s", strings.Join(missing, ", "))
	}
	if step.MaxRetries < 0 || step.MaxRetries > domain.MaxRetriesLimit {
		return fmt.Errorf("step %q: max_retries must be between 0 and %d, got %d",
			step.Name, domain.MaxRetriesLimit, step.MaxRetries)
	}
	return nil
}

func decodeStrict(input any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		ErrorUnused: true,
		Result:      out,
	})
	if err != nil {
		return err
	}
	return dec.Decode(input)
}
