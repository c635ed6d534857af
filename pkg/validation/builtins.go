package validation

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/thesohamdatta/AgenDev-Studio/pkg/artifact"
)

// Names of the built-in validators.
const (
	AlwaysTrue         = "always_true"
	AlwaysFalse        = "always_false"
	ValidateBA         = "validate_ba"
	ValidatePRD        = "validate_prd"
	ValidateDesign     = "validate_design"
	ValidateTasks      = "validate_tasks"
	ValidateCode       = "validate_code"
	ValidateTests      = "validate_tests"
	ValidateGovernance = "validate_governance"
	ValidateDelivery   = "validate_delivery"
	ValidateSimplicity = "validate_simplicity"
)

var jsonObject = regexp.MustCompile(`(?s)\{.*\}`)

// Builtins returns the built-in validators for the given strictness.
func Builtins(s Strictness) map[string]Predicate {
	strict := s == Strict

	// structured wraps a keyword check so that Strict mode also demands a
	// complete artifact.
	structured := func(p Predicate) Predicate {
		if !strict {
			return p
		}
		return func(content string) bool {
			a, err := artifact.Parse(content)
			if err != nil || !a.Complete() {
				return false
			}
			return p(content)
		}
	}

	return map[string]Predicate{
		AlwaysTrue:  func(string) bool { return true },
		AlwaysFalse: func(string) bool { return false },

		ValidateBA: structured(func(c string) bool {
			return c != "" && strings.Contains(c, "Goals") && strings.Contains(c, "Risks")
		}),
		ValidatePRD: structured(func(c string) bool {
			return c != "" && strings.Contains(c, "Goal") && strings.Contains(c, "Requirements")
		}),
		ValidateDesign: structured(func(c string) bool {
			return designHasKeys(c, strict)
		}),
		ValidateTasks: structured(func(c string) bool {
			if strict {
				return strings.TrimSpace(artifact.OutputSection(c)) != ""
			}
			return strings.TrimSpace(c) != ""
		}),
		ValidateCode: structured(func(c string) bool {
			if strings.Contains(c, "Stored in") || strings.Contains(c, "Created") || strings.Contains(c, "written to") {
				return true
			}
			return !strict && len(c) > 10
		}),
		ValidateTests: structured(func(c string) bool {
			return strings.Contains(strings.ToLower(c), "test")
		}),
		ValidateGovernance: structured(func(c string) bool {
			return strings.Contains(strings.ToUpper(c), "APPROVED")
		}),
		ValidateDelivery: structured(func(c string) bool {
			return strings.Contains(c, "Artifacts") || strings.Contains(c, "Ready")
		}),
		ValidateSimplicity: func(c string) bool {
			if strict {
				a, err := artifact.Parse(c)
				return err == nil && a.Complete()
			}
			return artifact.HasMarkers(c)
		},
	}
}

// designHasKeys extracts the outermost JSON object embedded in content and
// checks it for the "modules" and "files" keys. Loose mode needs either key,
// strict mode needs both.
func designHasKeys(content string, all bool) bool {
	raw := content
	if m := jsonObject.FindString(content); m != "" {
		raw = m
	}

	var data map[string]any
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return false
	}

	_, hasModules := data["modules"]
	_, hasFiles := data["files"]
	if all {
		return hasModules && hasFiles
	}
	return hasModules || hasFiles
}
