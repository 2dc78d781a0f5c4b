package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerPrompts() {
	s.mcp.AddPrompt(mcp.NewPrompt("setup_office",
		mcp.WithPromptDescription("Guide through laying out a fresh office canvas with the standard widgets"),
		mcp.WithArgument("suiteId",
			mcp.ArgumentDescription("Suite identifier"),
			mcp.RequiredArgument(),
		),
		mcp.WithArgument("officeId",
			mcp.ArgumentDescription("Office identifier"),
			mcp.RequiredArgument(),
		),
	), s.handleSetupOfficePrompt)

	s.mcp.AddPrompt(mcp.NewPrompt("tidy_canvas",
		mcp.WithPromptDescription("Clean up an overlapping or scattered canvas"),
	), s.handleTidyCanvasPrompt)
}

func (s *Server) handleSetupOfficePrompt(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	suite := req.Params.Arguments["suiteId"]
	office := req.Params.Arguments["officeId"]
	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Set up the canvas for %s/%s", suite, office),
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.TextContent{
					Type: "text",
					Text: fmt.Sprintf(`Set up the office canvas for suite "%s", office "%s". Follow these steps:

1. Call set_tenant with suiteId "%s" and officeId "%s"
2. Call list_widgets to see what is already there
3. Add any missing widgets with add_widget: calendar, inbox, documents, staff, metrics
   (omit x/y so each one lands in the next free slot)
4. Call save_canvas when the layout looks right

Widgets snap to a 32px grid and may not overlap.`, suite, office, suite, office),
				},
			},
		},
	}, nil
}

func (s *Server) handleTidyCanvasPrompt(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	return &mcp.GetPromptResult{
		Description: "Tidy the active canvas",
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.TextContent{
					Type: "text",
					Text: `Tidy the active canvas:

1. Call list_widgets and look for widgets that are far apart or oddly sized
2. Use resize_widget to bring similar widgets to matching sizes
3. Call arrange_widgets to lay them out in rows
4. Use drag_widget for any final adjustments; a rejected drop means the spot is taken
5. Call save_canvas`,
				},
			},
		},
	}, nil
}
