package validation

import (
	"fmt"
	"strings"
)

// Strictness controls how the built-in validators read an artifact.
type Strictness int

const (
	// Loose applies keyword heuristics to the raw text.
	Loose Strictness = iota

	// Strict additionally requires a well-formed, complete artifact and
	// drops the most permissive fallbacks.
	Strict
)

func (s Strictness) String() string {
	switch s {
	case Loose:
		return "loose"
	case Strict:
		return "strict"
	}
	return fmt.Sprintf("Strictness(%d)", int(s))
}

// ParseStrictness converts "loose" or "strict" (case-insensitive).
func ParseStrictness(v string) (Strictness, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "loose":
		return Loose, nil
	case "strict":
		return Strict, nil
	}
	return Loose, fmt.Errorf("unknown strictness %q (want loose or strict)", v)
}
