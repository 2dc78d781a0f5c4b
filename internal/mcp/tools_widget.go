package mcpserver

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"

	"canvasboard/internal/domain"
)

// defaultSizes are the initial dimensions per widget type.
var defaultSizes = map[domain.WidgetType]domain.Size{
	domain.WidgetTypeCalendar:  {Width: 320, Height: 288},
	domain.WidgetTypeInbox:     {Width: 384, Height: 320},
	domain.WidgetTypeDocuments: {Width: 320, Height: 256},
	domain.WidgetTypeStaff:     {Width: 256, Height: 224},
	domain.WidgetTypeNotes:     {Width: 288, Height: 224},
	domain.WidgetTypeMetrics:   {Width: 384, Height: 256},
}

var fallbackSize = domain.Size{Width: 288, Height: 224}

func (s *Server) registerWidgetTools() {
	// ── add_widget ─────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("add_widget",
		mcp.WithDescription("Add a widget to the active canvas. Position is snapped to the grid; omit x/y to place it in the first free slot."),
		mcp.WithString("type", mcp.Description("Widget type: calendar, inbox, documents, staff, notes, metrics"), mcp.Required()),
		mcp.WithString("id", mcp.Description("Widget ID (generated when omitted)")),
		mcp.WithNumber("x", mcp.Description("X position (auto-placed if omitted)")),
		mcp.WithNumber("y", mcp.Description("Y position (auto-placed if omitted)")),
		mcp.WithNumber("width", mcp.Description("Width (default depends on type)")),
		mcp.WithNumber("height", mcp.Description("Height (default depends on type)")),
		mcp.WithNumber("zIndex", mcp.Description("Stacking order")),
	), s.handleAddWidget)

	// ── remove_widget ──────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("remove_widget",
		mcp.WithDescription("Remove a widget from the active canvas"),
		mcp.WithString("widgetId", mcp.Description("Widget ID"), mcp.Required()),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{DestructiveHint: boolPtr(true)}),
	), s.handleRemoveWidget)

	// ── resize_widget ──────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("resize_widget",
		mcp.WithDescription("Change a widget's width and height"),
		mcp.WithString("widgetId", mcp.Description("Widget ID"), mcp.Required()),
		mcp.WithNumber("width", mcp.Description("New width"), mcp.Required()),
		mcp.WithNumber("height", mcp.Description("New height"), mcp.Required()),
	), s.handleResizeWidget)

	// ── list_widgets ───────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("list_widgets",
		mcp.WithDescription("List the widgets and avatars on the active canvas"),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{ReadOnlyHint: boolPtr(true)}),
	), s.handleListWidgets)

	// ── arrange_widgets ────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("arrange_widgets",
		mcp.WithDescription("Lay out every widget in a grid of rows, starting at the given point"),
		mcp.WithNumber("startX", mcp.Description("Left edge of the arrangement (default 0)")),
		mcp.WithNumber("startY", mcp.Description("Top edge of the arrangement (default 0)")),
	), s.handleArrangeWidgets)

	// ── set_avatar ─────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("set_avatar",
		mcp.WithDescription("Place an agent avatar on the active canvas"),
		mcp.WithString("agent", mcp.Description("Agent name"), mcp.Required()),
		mcp.WithNumber("x", mcp.Description("X position"), mcp.Required()),
		mcp.WithNumber("y", mcp.Description("Y position"), mcp.Required()),
	), s.handleSetAvatar)
}

func (s *Server) handleAddWidget(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess, err := s.session()
	if err != nil {
		return nil, err
	}
	args := req.GetArguments()

	wt, err := requireString(args, "type")
	if err != nil {
		return nil, err
	}
	id, _ := args["id"].(string)
	if id == "" {
		id = uuid.New().String()
	}
	if _, exists := sess.Canvas.Widget(id); exists {
		return nil, fmt.Errorf("widget %q already exists", id)
	}

	size, ok := defaultSizes[domain.WidgetType(wt)]
	if !ok {
		size = fallbackSize
	}
	size.Width = getFloat(args, "width", size.Width)
	size.Height = getFloat(args, "height", size.Height)
	if size.Width < 0 || size.Height < 0 {
		return nil, fmt.Errorf("width and height must not be negative")
	}

	zIndex, err := intArg(args, "zIndex")
	if err != nil {
		return nil, err
	}

	// Auto-layout if position not provided
	var pos domain.Position
	x, hasX := numberArg(args, "x")
	y, hasY := numberArg(args, "y")
	if hasX && hasY {
		pos, err = sess.Canvas.Grid().SnapPoint(domain.Position{X: x, Y: y})
		if err != nil {
			return nil, err
		}
	} else {
		pos = sess.Canvas.NextPosition(size)
	}

	w := domain.Widget{
		ID:       id,
		Type:     domain.WidgetType(wt),
		Position: pos,
		Size:     size,
		ZIndex:   zIndex,
	}
	sess.Canvas.AddWidget(w)
	s.logger.Debug("widget added", "id", id, "type", wt, "x", pos.X, "y", pos.Y)
	return jsonResult(w)
}

func (s *Server) handleRemoveWidget(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess, err := s.session()
	if err != nil {
		return nil, err
	}
	id, err := requireString(req.GetArguments(), "widgetId")
	if err != nil {
		return nil, err
	}
	if _, ok := sess.Canvas.Widget(id); !ok {
		return textResult(fmt.Sprintf("Widget %s not found; nothing removed", id)), nil
	}
	sess.Canvas.RemoveWidget(id)
	return textResult(fmt.Sprintf("Widget %s removed", id)), nil
}

func (s *Server) handleResizeWidget(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess, err := s.session()
	if err != nil {
		return nil, err
	}
	args := req.GetArguments()
	id, err := requireString(args, "widgetId")
	if err != nil {
		return nil, err
	}
	width, err := requireNumber(args, "width")
	if err != nil {
		return nil, err
	}
	height, err := requireNumber(args, "height")
	if err != nil {
		return nil, err
	}
	if width < 0 || height < 0 {
		return nil, fmt.Errorf("width and height must not be negative")
	}

	sess.Canvas.ResizeWidget(id, domain.Size{Width: width, Height: height})
	w, ok := sess.Canvas.Widget(id)
	if !ok {
		return textResult(fmt.Sprintf("Widget %s not found; nothing resized", id)), nil
	}
	return jsonResult(w)
}

type canvasListing struct {
	Suite   string               `json:"suiteId"`
	Office  string               `json:"officeId"`
	Widgets []domain.Widget      `json:"widgets"`
	Avatars []domain.AvatarState `json:"avatars"`
}

func (s *Server) handleListWidgets(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess, err := s.session()
	if err != nil {
		return nil, err
	}
	return jsonResult(canvasListing{
		Suite:   sess.Tenant.SuiteID,
		Office:  sess.Tenant.OfficeID,
		Widgets: sess.Canvas.Widgets(),
		Avatars: sess.Canvas.Avatars(),
	})
}

func (s *Server) handleArrangeWidgets(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess, err := s.session()
	if err != nil {
		return nil, err
	}
	args := req.GetArguments()
	start, err := sess.Canvas.Grid().SnapPoint(domain.Position{
		X: getFloat(args, "startX", 0),
		Y: getFloat(args, "startY", 0),
	})
	if err != nil {
		return nil, err
	}
	return jsonResult(sess.Canvas.Arrange(start))
}

func (s *Server) handleSetAvatar(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess, err := s.session()
	if err != nil {
		return nil, err
	}
	args := req.GetArguments()
	agent, err := requireString(args, "agent")
	if err != nil {
		return nil, err
	}
	x, err := requireNumber(args, "x")
	if err != nil {
		return nil, err
	}
	y, err := requireNumber(args, "y")
	if err != nil {
		return nil, err
	}
	sess.Canvas.SetAvatar(agent, domain.Position{X: x, Y: y})
	return textResult(fmt.Sprintf("Avatar %s placed at (%g, %g)", agent, x, y)), nil
}
