package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/thesohamdatta/AgenDev-Studio/internal/cli"
)

// EncryptionKeyEnv holds the key that seals stored runs.
const EncryptionKeyEnv = "AGENDEV_ENCRYPTION_KEY"

var rootCmd = &cobra.Command{
	Use:   "agendev",
	Short: "AgenDev turns a project idea into a project through a chain of agents",
	Long: `AgenDev runs an ordered workflow of role agents on a project idea.
Each agent reads the shared message log, publishes one artifact, and is
checked by a named validator before the next step runs.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// errRunFailed marks a run that finished FAILED. The report has already
// been printed, so Execute only sets the exit code.
var errRunFailed = errors.New("run failed")

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	os.Exit(exitCode(rootCmd.Execute()))
}

func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, errRunFailed):
		return 2
	default:
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}
}

func init() {
	f := rootCmd.PersistentFlags()
	f.String("workflow", "", "Workflow definition file (YAML or JSON); the built-in SOP when empty")
	f.String("workspace", "", "Directory the Builder writes the generated project into")
	f.Bool("strict", false, "Require well-formed artifacts from every agent")
	f.Duration("retry-backoff", 0, "Pause between attempts of the same step")

	f.String("memory-backend", cli.BackendFile, "Lesson and run store: memory, file, redis or sqlite")
	f.String("memory", "", "State directory (file) or database path (sqlite)")
	f.String("redis-addr", "localhost:6379", "Redis address for the redis backend")
	f.String("redis-password", "", "Redis password")
	f.Int("redis-db", 0, "Redis database number")

	f.String("commands", "commands.yaml", "Allow-list of commands the Tester may run")
	f.String("check", "", "Command the Tester runs in the workspace")
	f.Bool("unsafe-inline", false, "Allow --check to be any command line")

	f.StringSlice("redact", nil, "Regular expressions masked in stored runs (repeatable)")

	f.Bool("debug", false, "Log lifecycle events to stderr")
	f.String("log-dir", "", "Also write JSON logs to a daily file in this directory")
}

// globalOptions reads the persistent flags.
func globalOptions(cmd *cobra.Command) cli.Options {
	f := cmd.Flags()
	str := func(name string) string {
		v, _ := f.GetString(name)
		return v
	}
	flag := func(name string) bool {
		v, _ := f.GetBool(name)
		return v
	}

	backoff, _ := f.GetDuration("retry-backoff")
	redisDB, _ := f.GetInt("redis-db")
	redact, _ := f.GetStringSlice("redact")

	return cli.Options{
		WorkflowPath:  str("workflow"),
		Workspace:     str("workspace"),
		Strict:        flag("strict"),
		RetryBackoff:  max(backoff, 0),
		MemoryBackend: str("memory-backend"),
		MemoryPath:    str("memory"),
		RedisAddr:     str("redis-addr"),
		RedisPassword: str("redis-password"),
		RedisDB:       redisDB,
		CommandsPath:  str("commands"),
		Check:         str("check"),
		UnsafeInline:  flag("unsafe-inline"),
		Redact:        redact,
		EncryptionKey: os.Getenv(EncryptionKeyEnv),
		Debug:         flag("debug"),
		LogDir:        str("log-dir"),
	}
}
