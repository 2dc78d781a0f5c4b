package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerStateTools() {
	// ── save_canvas ────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("save_canvas",
		mcp.WithDescription("Persist the active canvas immediately instead of waiting for the debounced save"),
	), s.handleSaveCanvas)

	// ── clear_canvas ───────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("clear_canvas",
		mcp.WithDescription("Remove every widget and avatar from the active canvas and delete its saved state"),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{DestructiveHint: boolPtr(true)}),
	), s.handleClearCanvas)
}

func (s *Server) handleSaveCanvas(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess, err := s.session()
	if err != nil {
		return nil, err
	}
	if !sess.Save(ctx) {
		// Storage faults are logged by the state service, not surfaced as tool errors.
		return textResult("Canvas could not be saved; changes remain in memory"), nil
	}
	return textResult(fmt.Sprintf("Canvas saved (%d widgets)", sess.Canvas.Len())), nil
}

func (s *Server) handleClearCanvas(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess, err := s.session()
	if err != nil {
		return nil, err
	}
	sess.Clear(ctx)
	return textResult(fmt.Sprintf("Canvas for %s/%s cleared", sess.Tenant.SuiteID, sess.Tenant.OfficeID)), nil
}
