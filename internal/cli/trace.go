package cli

import (
	"fmt"
	"io"

	"github.com/thesohamdatta/AgenDev-Studio/pkg/domain"
	"github.com/thesohamdatta/AgenDev-Studio/pkg/ports"
	"github.com/thesohamdatta/AgenDev-Studio/pkg/trace"
)

// PrintTrace writes the lineage of every message in the run, derived from
// the subscriptions of the agents that produced them.
func PrintTrace(res *domain.RunResult, agents []ports.Agent, out io.Writer) {
	matrix := trace.FromLog(res.Log, agents)
	for _, msg := range res.Log {
		id := trace.MessageID(msg)
		fmt.Fprintf(out, "%-16s %s\n", msg.Topic, trace.String(id, matrix.Lineage(id)))
	}
}
