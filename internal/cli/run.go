package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/thesohamdatta/AgenDev-Studio/internal/presentation/report"
	"github.com/thesohamdatta/AgenDev-Studio/internal/presentation/tui"
	"github.com/thesohamdatta/AgenDev-Studio/pkg/domain"
	"github.com/thesohamdatta/AgenDev-Studio/pkg/environment"
)

// RunOptions configures one invocation of the run command.
type RunOptions struct {
	Options

	// JSON prints the full result as JSON instead of a report.
	JSON bool
	// All includes rejected attempts in the report.
	All bool
	// Quiet suppresses the banner and system messages.
	Quiet bool
	// NoLessons skips recording lessons after the run.
	NoLessons bool
	// Version is shown in the banner.
	Version string
}

// RunSession runs the workflow once on seed and writes the outcome to out.
// A failed run is reported, not returned as an error; errors are reserved
// for setup problems.
func RunSession(ctx context.Context, opts RunOptions, seed string, out io.Writer) (*domain.RunResult, error) {
	seed, err := environment.SanitizeSeed(seed)
	if err != nil {
		return nil, fmt.Errorf("invalid project idea: %w", err)
	}

	logger, logCloser, err := CreateLogger(opts.Debug, opts.LogDir)
	if err != nil {
		return nil, err
	}
	defer logCloser.Close()

	stores, err := OpenStores(ctx, opts.Options)
	if err != nil {
		return nil, err
	}
	defer stores.Close()

	engine, err := NewEngine(opts.Options, logger, stores)
	if err != nil {
		return nil, err
	}
	if err := engine.Check(); err != nil {
		return nil, err
	}

	if !opts.Quiet && !opts.JSON {
		tui.PrintBanner(out, opts.Version)
		printSystemMessage(out, "Running workflow '%s' (%d steps)...", engine.Workflow().Name, engine.Workflow().Len())
	}

	res := engine.Run(ctx, seed)

	if !opts.NoLessons {
		if err := RecordLessons(context.WithoutCancel(ctx), stores.Memory, stores.Redact(res)); err != nil {
			logger.Error("failed to record lesson", "run_id", res.ID, "err", err)
		}
	}

	if opts.JSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return res, enc.Encode(res)
	}

	return res, printReport(out, opts, res, logger)
}

func printReport(out io.Writer, opts RunOptions, res *domain.RunResult, logger *slog.Logger) error {
	var render tui.RenderFunc = tui.Plain
	if f, ok := out.(*os.File); ok {
		render = tui.NewRenderer(f)
	}

	text, err := render(report.Markdown(res, opts.All))
	if err != nil {
		logger.Warn("markdown rendering failed, printing raw", "err", err)
		text = report.Markdown(res, opts.All)
	}
	fmt.Fprint(out, text)

	if opts.Quiet {
		return nil
	}
	status := tui.Status(out, string(res.Status), res.Success)
	printSystemMessage(out, "Run %s finished: %s in %s.", res.ID, status, res.Duration().Round(time.Millisecond))
	return nil
}
