package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"canvasboard/internal/canvas"
	"canvasboard/internal/domain"
)

func (s *Server) registerDragTools() {
	// ── drag_widget ────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("drag_widget",
		mcp.WithDescription("Drag a widget by (dx, dy) and drop it on the canvas in one step. The drop is snapped to the grid and rejected if it would overlap another widget."),
		mcp.WithString("widgetId", mcp.Description("Widget ID"), mcp.Required()),
		mcp.WithNumber("dx", mcp.Description("Horizontal displacement"), mcp.Required()),
		mcp.WithNumber("dy", mcp.Description("Vertical displacement"), mcp.Required()),
	), s.handleDragWidget)

	// ── drag_start ─────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("drag_start",
		mcp.WithDescription("Begin dragging a widget. Ignored while another drag is active."),
		mcp.WithString("widgetId", mcp.Description("Widget ID"), mcp.Required()),
	), s.handleDragStart)

	// ── drag_move ──────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("drag_move",
		mcp.WithDescription("Report the cumulative pointer displacement since drag_start and return the snapped preview"),
		mcp.WithNumber("dx", mcp.Description("Cumulative horizontal displacement"), mcp.Required()),
		mcp.WithNumber("dy", mcp.Description("Cumulative vertical displacement"), mcp.Required()),
	), s.handleDragMove)

	// ── drag_end ───────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("drag_end",
		mcp.WithDescription("Release the dragged widget. Only the canvas workspace accepts drops."),
		mcp.WithString("target", mcp.Description("Drop target (default canvas-workspace; empty means outside)")),
	), s.handleDragEnd)

	// ── drag_cancel ────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("drag_cancel",
		mcp.WithDescription("Abort the active drag without moving the widget"),
	), s.handleDragCancel)
}

type dragReport struct {
	Result string           `json:"result,omitempty"`
	State  canvas.DragState `json:"state"`
	Widget *domain.Widget   `json:"widget,omitempty"`
}

func (s *Server) handleDragWidget(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess, err := s.session()
	if err != nil {
		return nil, err
	}
	args := req.GetArguments()
	id, err := requireString(args, "widgetId")
	if err != nil {
		return nil, err
	}
	dx, err := requireNumber(args, "dx")
	if err != nil {
		return nil, err
	}
	dy, err := requireNumber(args, "dy")
	if err != nil {
		return nil, err
	}
	if _, ok := sess.Canvas.Widget(id); !ok {
		return nil, fmt.Errorf("widget %q not found", id)
	}

	result := sess.Canvas.DragBy(id, domain.Position{X: dx, Y: dy})
	if result == canvas.DropIgnored {
		return nil, fmt.Errorf("another drag is in progress (use drag_end or drag_cancel first)")
	}
	return s.dragResult(sess.Canvas, result.String(), id)
}

func (s *Server) handleDragStart(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess, err := s.session()
	if err != nil {
		return nil, err
	}
	id, err := requireString(req.GetArguments(), "widgetId")
	if err != nil {
		return nil, err
	}
	sess.Canvas.StartDrag(id)
	return s.dragResult(sess.Canvas, "", "")
}

func (s *Server) handleDragMove(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess, err := s.session()
	if err != nil {
		return nil, err
	}
	args := req.GetArguments()
	dx, err := requireNumber(args, "dx")
	if err != nil {
		return nil, err
	}
	dy, err := requireNumber(args, "dy")
	if err != nil {
		return nil, err
	}
	sess.Canvas.MoveDrag(domain.Position{X: dx, Y: dy})
	return s.dragResult(sess.Canvas, "", "")
}

func (s *Server) handleDragEnd(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess, err := s.session()
	if err != nil {
		return nil, err
	}
	target := canvas.CanvasWorkspace
	if v, ok := req.GetArguments()["target"].(string); ok {
		target = canvas.DropTarget(v)
	}
	id := sess.Canvas.DragState().ActiveWidgetID
	result := sess.Canvas.EndDrag(target)
	return s.dragResult(sess.Canvas, result.String(), id)
}

func (s *Server) handleDragCancel(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess, err := s.session()
	if err != nil {
		return nil, err
	}
	sess.Canvas.CancelDrag()
	return textResult("Drag cancelled"), nil
}

func (s *Server) dragResult(c *canvas.Canvas, result, widgetID string) (*mcp.CallToolResult, error) {
	report := dragReport{Result: result, State: c.DragState()}
	if widgetID != "" {
		if w, ok := c.Widget(widgetID); ok {
			report.Widget = &w
		}
	}
	return jsonResult(report)
}
