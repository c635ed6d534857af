package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	agendev "github.com/thesohamdatta/AgenDev-Studio"
	httpAdapter "github.com/thesohamdatta/AgenDev-Studio/internal/adapters/http"
	"github.com/thesohamdatta/AgenDev-Studio/internal/cli"
	"github.com/thesohamdatta/AgenDev-Studio/pkg/observability"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP run API",
	Long: `Serves the engine over HTTP:

  POST /runs               run the workflow on {"seed": "..."}
  GET  /runs               list stored runs
  GET  /runs/{id}          a stored run
  GET  /runs/{id}/report   the run as markdown (?all=true for rejected attempts)
  GET  /workflow           the workflow definition
  GET  /workflow/graph     the workflow as a Mermaid graph
  GET  /info               name and version
  GET  /metrics            Prometheus metrics
  GET  /healthz            liveness`,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := globalOptions(cmd)
		port, _ := cmd.Flags().GetString("port")

		logger, logCloser, err := cli.CreateLogger(true, opts.LogDir)
		if err != nil {
			return err
		}
		defer logCloser.Close()

		ctx := cli.NewSignalContext(context.Background())
		defer ctx.Cancel()

		stores, err := cli.OpenStores(ctx, opts)
		if err != nil {
			return err
		}
		defer stores.Close()

		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		metrics := observability.NewMetrics(reg)

		engine, err := cli.NewEngine(opts, logger, stores, agendev.WithLifecycleHooks(metrics.Hooks()))
		if err != nil {
			return err
		}
		if err := engine.Check(); err != nil {
			return err
		}

		version := strings.TrimSpace(agendev.Version)
		srv := &http.Server{
			Addr: ":" + port,
			Handler: httpAdapter.NewHandler(engine,
				httpAdapter.WithRunStore(stores.Runs),
				httpAdapter.WithGatherer(reg),
				httpAdapter.WithLogger(logger),
				httpAdapter.WithVersion(version),
			),
			ReadHeaderTimeout: 10 * time.Second,
		}

		serverErrors := make(chan error, 1)
		go func() {
			fmt.Fprintf(cmd.OutOrStdout(), "Starting AgenDev Server on %s\n", srv.Addr)
			serverErrors <- srv.ListenAndServe()
		}()

		select {
		case err := <-serverErrors:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return fmt.Errorf("server error: %w", err)

		case <-ctx.Done():
			fmt.Fprintf(cmd.OutOrStdout(), "\nStart shutdown... Signal: %v\n", ctx.Signal())

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error("graceful shutdown did not complete", "err", err)
				return srv.Close()
			}
			fmt.Fprintln(cmd.OutOrStdout(), "AgenDev Server stopped gracefully")
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("port", "p", "8080", "Port to listen on")
}
