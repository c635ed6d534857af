package cli

import (
	"fmt"
	"time"
)

// Memory backends selectable with --memory-backend.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendSQLite = "sqlite"
)

// Backends lists the supported memory backends.
var Backends = []string{BackendMemory, BackendFile, BackendRedis, BackendSQLite}

// DefaultStateDir holds lessons, runs and the SQLite database.
const DefaultStateDir = ".agendev"

// Options is the configuration shared by every command.
type Options struct {
	WorkflowPath string
	Workspace    string
	Strict       bool
	RetryBackoff time.Duration

	// MemoryBackend selects where lessons and runs are kept.
	MemoryBackend string
	// MemoryPath is the state directory (file) or the database file (sqlite).
	MemoryPath    string
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// CommandsPath is the allow-list of commands the Tester may run.
	CommandsPath string
	// Check names the command the Tester runs in the workspace.
	Check string
	// UnsafeInline lets Check be any command line instead of an allow-listed name.
	UnsafeInline bool

	// Redact lists patterns masked in runs before they are stored.
	Redact []string
	// EncryptionKey seals stored runs with AES-256 (hex or base64, 32 bytes).
	EncryptionKey string

	Debug  bool
	LogDir string
}

// Validate rejects unknown backends.
func (o Options) Validate() error {
	switch o.MemoryBackend {
	case "", BackendMemory, BackendFile, BackendRedis, BackendSQLite:
		return nil
	}
	return fmt.Errorf("unknown memory backend %q (want one of %v)", o.MemoryBackend, Backends)
}
