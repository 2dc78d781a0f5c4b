package mcpserver

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerTenantTools() {
	// ── set_tenant ─────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("set_tenant",
		mcp.WithDescription("Select the suite/office whose canvas subsequent tool calls operate on. Loads the saved canvas on first use."),
		mcp.WithString("suiteId", mcp.Description("Suite identifier"), mcp.Required()),
		mcp.WithString("officeId", mcp.Description("Office identifier"), mcp.Required()),
	), s.handleSetTenant)
}

func (s *Server) handleSetTenant(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess, err := s.openTenant(ctx, req.GetArguments())
	if err != nil {
		return nil, err
	}
	s.setSession(sess)
	return jsonResult(map[string]any{
		"suiteId":  sess.Tenant.SuiteID,
		"officeId": sess.Tenant.OfficeID,
		"widgets":  sess.Canvas.Len(),
	})
}
