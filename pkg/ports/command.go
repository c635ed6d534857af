package ports

import (
	"context"

	"github.com/thesohamdatta/AgenDev-Studio/pkg/domain"
)

// CommandExecutor runs an external command. Failing to start the command is
// reported through the result (ExitCode -1), not as an error.
type CommandExecutor interface {
	Execute(ctx context.Context, command string, dir string) domain.CommandResult
}
