package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"canvasboard/internal/app"
	"canvasboard/internal/domain"
)

// Server is the MCP server for canvasboard.
// It exposes tools, resources, and prompts so agents can arrange a tenant's canvas.
type Server struct {
	mcp    *server.MCPServer
	app    *app.App
	logger *log.Logger

	// Active tenant context (set by set_tenant tool)
	mu     sync.Mutex
	active *app.Session
}

// New creates and configures a new MCP server with all tools, resources and prompts.
func New(a *app.App, logger *log.Logger, version string) *Server {
	s := &Server{
		app:    a,
		logger: logger.WithPrefix("mcp"),
	}

	s.mcp = server.NewMCPServer(
		"canvasboard-mcp",
		version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
		server.WithPromptCapabilities(true),
	)

	s.registerTenantTools()
	s.registerWidgetTools()
	s.registerDragTools()
	s.registerStateTools()
	s.registerResources()
	s.registerPrompts()

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	s.logger.Info("starting stdio server")
	return server.ServeStdio(s.mcp)
}

// ── Helpers ────────────────────────────────────────────────

// session returns the active tenant's session.
func (s *Server) session() (*app.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active == nil {
		return nil, fmt.Errorf("no tenant selected (use set_tenant first)")
	}
	return s.active, nil
}

func (s *Server) setSession(sess *app.Session) {
	s.mu.Lock()
	s.active = sess
	s.mu.Unlock()
}

// openTenant resolves a session from suiteId/officeId arguments.
func (s *Server) openTenant(ctx context.Context, args map[string]any) (*app.Session, error) {
	suite, _ := args["suiteId"].(string)
	office, _ := args["officeId"].(string)
	return s.app.OpenCanvas(ctx, domain.Tenant{SuiteID: suite, OfficeID: office})
}

// textResult creates a simple text tool result.
func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

// jsonResult serializes v to JSON and wraps it in a text tool result.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal result: %w", err)
	}
	return textResult(string(data)), nil
}
