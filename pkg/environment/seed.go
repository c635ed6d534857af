package environment

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	// DefaultMaxSeedSize is 16KB.
	DefaultMaxSeedSize = 16 << 10
	// EnvMaxSeedSize overrides the default.
	EnvMaxSeedSize = "AGENDEV_MAX_SEED_SIZE"
)

var (
	ErrSeedTooLarge = errors.New("seed exceeds maximum allowed size")
	ErrInvalidUTF8  = errors.New("seed contains invalid UTF-8 sequences")
	ErrEmptySeed    = errors.New("seed is empty")
)

// SanitizeSeed cleans a seed from an outer surface (CLI, HTTP, MCP): it
// enforces the size limit, validates UTF-8, strips control characters other
// than newline, tab and carriage return, and trims surrounding space.
func SanitizeSeed(seed string) (string, error) {
	limit := maxSeedSize()
	if len(seed) > limit {
		return "", fmt.Errorf("%w: size=%d limit=%d", ErrSeedTooLarge, len(seed), limit)
	}

	if !utf8.ValidString(seed) {
		return "", ErrInvalidUTF8
	}

	var b strings.Builder
	b.Grow(len(seed))
	for _, r := range seed {
		if !unicode.IsControl(r) || isSafeControl(r) {
			b.WriteRune(r)
		}
	}

	clean := strings.TrimSpace(b.String())
	if clean == "" {
		return "", ErrEmptySeed
	}
	return clean, nil
}

func isSafeControl(r rune) bool {
	return r == '\n' || r == '\t' || r == '\r'
}

func maxSeedSize() int {
	if val := os.Getenv(EnvMaxSeedSize); val != "" {
		if size, err := strconv.Atoi(val); err == nil && size > 0 {
			return size
		}
	}
	return DefaultMaxSeedSize
}
