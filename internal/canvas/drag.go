package canvas

import (
	"errors"

	"canvasboard/internal/domain"
	"canvasboard/internal/layout"
)

// ErrNoRegistry is returned when a drag controller is built without a registry.
var ErrNoRegistry = errors.New("canvas: drag controller requires a registry")

// DropTarget identifies what the pointer was released over. Only
// CanvasWorkspace accepts drops.
type DropTarget string

const (
	NoDropTarget    DropTarget = ""
	CanvasWorkspace DropTarget = "canvas-workspace"
)

// DropResult describes what End did. It is informational; rejected drops are
// not errors.
type DropResult int

const (
	DropIgnored   DropResult = iota // End called while idle
	DropAborted                     // released outside the workspace
	DropRejected                    // snapped target collides with another widget
	DropCommitted                   // registry updated, drop handler notified
)

func (r DropResult) String() string {
	switch r {
	case DropAborted:
		return "aborted"
	case DropRejected:
		return "rejected"
	case DropCommitted:
		return "committed"
	default:
		return "ignored"
	}
}

// DropHandler is notified once per committed drop.
type DropHandler func(widgetID string, p domain.Position)

// DragState is a read-only snapshot of the drag session.
type DragState struct {
	ActiveWidgetID string           `json:"activeWidgetId"`
	IsDragging     bool             `json:"isDragging"`
	DragOffset     domain.Position  `json:"dragOffset"`
	Preview        *domain.Position `json:"previewPosition"`
	Velocity       domain.Position  `json:"velocity"`
}

// DragController tracks the single in-progress drag on a canvas.
//
// Out-of-order gesture events (start while dragging, move or end while idle)
// are no-ops: touch input drops events routinely and none of them may corrupt
// the registry.
type DragController struct {
	registry *Registry
	grid     layout.Grid
	onDrop   DropHandler

	activeID string
	base     domain.Position // committed position at drag start
	offset   domain.Position
	preview  *domain.Position
	velocity domain.Position
}

func NewDragController(registry *Registry, grid layout.Grid, onDrop DropHandler) (*DragController, error) {
	if registry == nil {
		return nil, ErrNoRegistry
	}
	return &DragController{registry: registry, grid: grid, onDrop: onDrop}, nil
}

func (d *DragController) Dragging() bool {
	return d.activeID != ""
}

// Start begins dragging widgetID. Ignored while another drag is active or
// when the widget is not on the canvas.
func (d *DragController) Start(widgetID string) {
	if d.Dragging() {
		return
	}
	w, ok := d.registry.Get(widgetID)
	if !ok {
		return
	}
	d.activeID = widgetID
	d.base = w.Position
	d.offset = domain.Position{}
	d.preview = nil
	d.velocity = domain.Position{}
}

// Move records the cumulative pointer delta since Start and recomputes the
// snapped preview from base position plus delta.
func (d *DragController) Move(delta domain.Position) {
	if !d.Dragging() {
		return
	}
	preview, err := d.grid.SnapPoint(d.base.Add(delta))
	if err != nil {
		return
	}
	d.velocity = domain.Position{X: delta.X - d.offset.X, Y: delta.Y - d.offset.Y}
	d.offset = delta
	d.preview = &preview
}

// End finishes the drag. Over the workspace, the snapped target is committed
// unless it overlaps another widget; either way the session resets.
func (d *DragController) End(target DropTarget) DropResult {
	if !d.Dragging() {
		return DropIgnored
	}
	defer d.reset()

	if target != CanvasWorkspace {
		return DropAborted
	}

	id := d.activeID
	w, ok := d.registry.Get(id)
	if !ok {
		// Removed mid-drag; nothing left to place.
		return DropAborted
	}
	pos, err := d.grid.SnapPoint(d.base.Add(d.offset))
	if err != nil {
		return DropAborted
	}
	if layout.HasCollision(domain.RectAt(pos, w.Size), d.registry, id) {
		return DropRejected
	}

	d.registry.UpdatePosition(id, pos)
	if d.onDrop != nil {
		d.onDrop(id, pos)
	}
	return DropCommitted
}

// Cancel abandons the drag without touching the registry.
func (d *DragController) Cancel() {
	d.reset()
}

func (d *DragController) State() DragState {
	s := DragState{
		ActiveWidgetID: d.activeID,
		IsDragging:     d.Dragging(),
		DragOffset:     d.offset,
		Velocity:       d.velocity,
	}
	if d.preview != nil {
		p := *d.preview
		s.Preview = &p
	}
	return s
}

func (d *DragController) reset() {
	d.activeID = ""
	d.base = domain.Position{}
	d.offset = domain.Position{}
	d.preview = nil
	d.velocity = domain.Position{}
}
