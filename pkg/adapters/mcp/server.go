// Package mcp exposes the engine as a Model Context Protocol server.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/thesohamdatta/AgenDev-Studio/internal/presentation/graph"
	"github.com/thesohamdatta/AgenDev-Studio/internal/presentation/report"
	"github.com/thesohamdatta/AgenDev-Studio/pkg/domain"
	"github.com/thesohamdatta/AgenDev-Studio/pkg/environment"
	"github.com/thesohamdatta/AgenDev-Studio/pkg/ports"
)

const (
	WorkflowURI = "agendev://workflow"
	GraphURI    = "agendev://workflow/graph"
)

// Engine is the part of the engine the MCP server drives.
type Engine interface {
	Run(ctx context.Context, seed string) *domain.RunResult
	Workflow() domain.Workflow
}

// RunArgs are the arguments of the run_workflow tool.
type RunArgs struct {
	Seed string `json:"seed" jsonschema_description:"The project idea to run the workflow on"`
}

// Output is the accepted output of one step.
type Output struct {
	Agent  string `json:"agent"`
	Topic  string `json:"topic"`
	Output string `json:"output"`
}

// RunResponse is the structured result of run_workflow.
type RunResponse struct {
	ID      string           `json:"id" jsonschema_description:"Run identifier"`
	Status  domain.RunStatus `json:"status" jsonschema_description:"COMPLETED or FAILED"`
	Success bool             `json:"success"`
	Failure string           `json:"failure,omitempty" jsonschema_description:"Why the run failed"`
	Outputs []Output         `json:"outputs" jsonschema_description:"Accepted output of each step, in order"`
}

// Server wraps the engine and exposes it as an MCP server.
type Server struct {
	engine    Engine
	store     ports.RunStore
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// Option configures the Server.
type Option func(*Server)

// WithRunStore enables the get_run and list_runs tools.
func WithRunStore(store ports.RunStore) Option {
	return func(s *Server) {
		s.store = store
	}
}

// WithLogger sets the server logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a new MCP server instance.
func NewServer(engine Engine, version string, opts ...Option) *Server {
	s := &Server{
		engine:    engine,
		logger:    slog.New(slog.DiscardHandler),
		mcpServer: server.NewMCPServer("agendev-mcp", strings.TrimSpace(version)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer returns the underlying server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio serves on stdin/stdout until the input closes.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves over SSE on addr until ctx is done.
func (s *Server) ServeSSE(ctx context.Context, addr, baseURL string) error {
	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", sseServer.SSEHandler())
	mux.Handle("/message", sseServer.MessageHandler())

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func (s *Server) registerTools() {
	runTool := mcp.NewTool("run_workflow",
		mcp.WithDescription("Run the development workflow on a project idea and return each step's output."),
		mcp.WithString("seed", mcp.Required(), mcp.Description("The project idea")),
		mcp.WithOutputSchema[RunResponse](),
	)
	s.mcpServer.AddTool(runTool, mcp.NewStructuredToolHandler(s.handleRun))

	s.mcpServer.AddTool(mcp.NewTool("get_workflow",
		mcp.WithDescription("Get the workflow definition: ordered steps with agent, validator and retry budget."),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		data, err := json.Marshal(s.engine.Workflow())
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("encode workflow: %v", err)), nil
		}
		return mcp.NewToolResultText(string(data)), nil
	})

	if s.store == nil {
		return
	}

	s.mcpServer.AddTool(mcp.NewTool("list_runs",
		mcp.WithDescription("List stored run IDs, most recent first."),
	), s.handleListRuns)

	s.mcpServer.AddTool(mcp.NewTool("get_run",
		mcp.WithDescription("Get a stored run as a markdown report."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Run ID")),
	), s.handleGetRun)
}

func (s *Server) handleRun(ctx context.Context, _ mcp.CallToolRequest, args RunArgs) (RunResponse, error) {
	seed, err := environment.SanitizeSeed(args.Seed)
	if err != nil {
		return RunResponse{}, err
	}

	res := s.engine.Run(ctx, seed)
	s.logger.Info("MCP run finished", "run_id", res.ID, "status", res.Status)

	resp := RunResponse{
		ID:      res.ID,
		Status:  res.Status,
		Success: res.Success,
		Outputs: []Output{},
	}
	if res.Failure != nil {
		resp.Failure = res.Failure.Error()
	}
	for _, sec := range report.Extract(res) {
		if sec.Accepted {
			resp.Outputs = append(resp.Outputs, Output{Agent: sec.Agent, Topic: sec.Topic, Output: sec.Output})
		}
	}
	return resp, nil
}

func (s *Server) handleListRuns(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ids, err := s.store.List(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("list runs: %v", err)), nil
	}
	return mcp.NewToolResultText(strings.Join(ids, "\n")), nil
}

func (s *Server) handleGetRun(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	res, err := s.store.Load(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("load run: %v", err)), nil
	}
	return mcp.NewToolResultText(report.Markdown(res, false)), nil
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(WorkflowURI, "Workflow Definition",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		data, err := json.Marshal(s.engine.Workflow())
		if err != nil {
			return nil, fmt.Errorf("failed to encode workflow: %w", err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      WorkflowURI,
				MIMEType: "application/json",
				Text:     string(data),
			},
		}, nil
	})

	s.mcpServer.AddResource(mcp.NewResource(GraphURI, "Workflow Graph (Mermaid)",
		mcp.WithMIMEType("text/plain"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      GraphURI,
				MIMEType: "text/plain",
				Text:     graph.GenerateMermaid(s.engine.Workflow(), nil),
			},
		}, nil
	})
}
