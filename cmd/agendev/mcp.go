package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/spf13/cobra"

	agendev "github.com/thesohamdatta/AgenDev-Studio"
	"github.com/thesohamdatta/AgenDev-Studio/internal/cli"
	"github.com/thesohamdatta/AgenDev-Studio/pkg/adapters/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Starts the engine as an MCP server so AI assistants can run the
workflow as a tool.

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote agents or debuggers.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := globalOptions(cmd)
		transport, _ := cmd.Flags().GetString("transport")
		port, _ := cmd.Flags().GetInt("port")

		// Stdout carries JSON-RPC, so logs only ever go to stderr or the log file.
		log.SetOutput(os.Stderr)
		logger, logCloser, err := cli.CreateLogger(opts.Debug, opts.LogDir)
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

		engine, err := cli.NewEngine(opts, logger, stores)
		if err != nil {
			return err
		}
		if err := engine.Check(); err != nil {
			return err
		}

		srv := mcp.NewServer(engine, strings.TrimSpace(agendev.Version),
			mcp.WithRunStore(stores.Runs),
			mcp.WithLogger(logger),
		)

		switch transport {
		case "stdio":
			logger.Info("Starting AgenDev MCP Server (Stdio)...")
			return srv.ServeStdio()
		case "sse":
			addr := fmt.Sprintf(":%d", port)
			return srv.ServeSSE(ctx, addr, fmt.Sprintf("http://localhost:%d", port))
		default:
			return fmt.Errorf("unknown transport: %s. Supported: stdio, sse", transport)
		}
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)

	mcpCmd.Flags().String("transport", "stdio", "Transport protocol to use: 'stdio' or 'sse'")
	mcpCmd.Flags().Int("port", 8080, "Port to listen on (only for SSE)")
}
