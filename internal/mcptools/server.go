package mcptools

import (
	"context"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/chalkline/accord/internal/negotiation"
)

// version is set by the linker at build time.
var version = "dev"

// NewServer creates an MCP server with the 3 negotiation tools registered:
// run_negotiation, detect_conflicts, and convergence_report.
func NewServer(cfg negotiation.Config, reviewers []negotiation.Reviewer) *mcp.Server {
	svc := NewService(cfg, reviewers)

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "accord",
		Version: version,
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "run_negotiation",
		Description: "Run a full multi-stakeholder negotiation over a training plan. Returns the terminal status, round count, and convergence score.",
	}, svc.RunNegotiation)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "detect_conflicts",
		Description: "Analyze a batch of proposed changes for resource, content, priority, and timeline conflicts without starting a negotiation.",
	}, svc.DetectConflicts)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "convergence_report",
		Description: "Return the convergence diagnostics for a finished negotiation session: sub-metrics, composite score, and recommendations.",
	}, svc.ConvergenceReport)

	return server
}

// RunStdio runs the MCP server on stdio transport, blocking until stdin is
// closed or the context is cancelled.
func RunStdio(ctx context.Context, server *mcp.Server) error {
	return server.Run(ctx, &mcp.StdioTransport{})
}

// RunHTTP starts an HTTP server exposing the negotiation MCP tools.
func RunHTTP(ctx context.Context, server *mcp.Server, addr string) error {
	handler := mcp.NewStreamableHTTPHandler(
		func(_ *http.Request) *mcp.Server { return server },
		nil,
	)

	httpServer := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	// Shutdown gracefully when context is cancelled.
	go func() {
		<-ctx.Done()
		httpServer.Shutdown(context.Background())
	}()

	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
