package canvas

import (
	"sync"

	"canvasboard/internal/domain"
	"canvasboard/internal/layout"
)

// Canvas is the root of one canvas session. It owns the widget registry,
// the drag controller and the avatar positions, and serializes every
// operation so tool handlers on separate goroutines see a consistent view.
type Canvas struct {
	mu       sync.Mutex
	grid     layout.Grid
	registry *Registry
	drag     *DragController
	engine   *layout.Engine
	avatars  []domain.AvatarState
	onDrop   DropHandler
	onChange func()
}

type Option func(*options)

type options struct {
	grid     layout.Grid
	onDrop   DropHandler
	onChange func()
}

// WithGrid sets the snap grid. Defaults to layout.DefaultGrid.
func WithGrid(g layout.Grid) Option {
	return func(o *options) { o.grid = g }
}

// WithDropHandler registers the callback fired once per committed drop.
func WithDropHandler(h DropHandler) Option {
	return func(o *options) { o.onDrop = h }
}

// WithChangeHandler registers a callback fired after any mutation of the
// committed canvas (widget add/remove/resize, committed drop, avatar move).
// It runs with the canvas lock released.
func WithChangeHandler(fn func()) Option {
	return func(o *options) { o.onChange = fn }
}

func New(opts ...Option) *Canvas {
	o := options{grid: layout.DefaultGrid()}
	for _, opt := range opts {
		opt(&o)
	}
	c := &Canvas{
		grid:     o.grid,
		registry: NewRegistry(),
		engine:   layout.NewEngine(o.grid),
		onDrop:   o.onDrop,
		onChange: o.onChange,
	}
	// The registry is always non-nil here. Drops are reported from EndDrag
	// once the lock is released so handlers may call back into the canvas.
	c.drag, _ = NewDragController(c.registry, o.grid, nil)
	return c
}

func (c *Canvas) Grid() layout.Grid { return c.grid }

// ── Widgets ────────────────────────────────────────────────

func (c *Canvas) AddWidget(w domain.Widget) {
	c.mu.Lock()
	c.registry.Add(w)
	c.mu.Unlock()
	c.changed()
}

func (c *Canvas) RemoveWidget(id string) {
	c.mu.Lock()
	_, existed := c.registry.Get(id)
	c.registry.Remove(id)
	c.mu.Unlock()
	if existed {
		c.changed()
	}
}

func (c *Canvas) ResizeWidget(id string, s domain.Size) {
	c.mu.Lock()
	_, existed := c.registry.Get(id)
	c.registry.UpdateSize(id, s)
	c.mu.Unlock()
	if existed {
		c.changed()
	}
}

func (c *Canvas) Widget(id string) (domain.Widget, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.registry.Get(id)
}

func (c *Canvas) Widgets() []domain.Widget {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.registry.Entries()
}

func (c *Canvas) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.registry.Len()
}

// NextPosition suggests a free grid slot for a new widget of the given size.
func (c *Canvas) NextPosition(s domain.Size) domain.Position {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.engine.NextPosition(c.registry, s)
}

// Arrange lays every widget out in id order starting at start.
func (c *Canvas) Arrange(start domain.Position) []domain.Widget {
	c.mu.Lock()
	arranged := c.engine.ArrangeGroup(c.registry.Entries(), start)
	for _, w := range arranged {
		c.registry.UpdatePosition(w.ID, w.Position)
	}
	c.mu.Unlock()
	c.changed()
	return arranged
}

// ── Avatars ────────────────────────────────────────────────

// SetAvatar places or moves the avatar of an AI staff agent.
func (c *Canvas) SetAvatar(agent string, p domain.Position) {
	c.mu.Lock()
	replaced := false
	for i := range c.avatars {
		if c.avatars[i].Agent == agent {
			c.avatars[i].X, c.avatars[i].Y = p.X, p.Y
			replaced = true
			break
		}
	}
	if !replaced {
		c.avatars = append(c.avatars, domain.AvatarState{Agent: agent, X: p.X, Y: p.Y})
	}
	c.mu.Unlock()
	c.changed()
}

func (c *Canvas) Avatars() []domain.AvatarState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]domain.AvatarState{}, c.avatars...)
}

// ── Drag lifecycle ─────────────────────────────────────────

func (c *Canvas) StartDrag(widgetID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.drag.Start(widgetID)
}

func (c *Canvas) MoveDrag(delta domain.Position) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.drag.Move(delta)
}

// EndDrag finishes the active drag. On a committed drop the drop handler
// fires exactly once with the committed position.
func (c *Canvas) EndDrag(target DropTarget) DropResult {
	c.mu.Lock()
	id := c.drag.State().ActiveWidgetID
	res := c.drag.End(target)
	var committed domain.Position
	if res == DropCommitted {
		w, _ := c.registry.Get(id)
		committed = w.Position
	}
	c.mu.Unlock()

	c.dropped(res, id, committed)
	return res
}

// DragBy starts, moves and drops widgetID onto the workspace as one step.
// It returns DropIgnored without touching anything when another drag is
// active or the widget is unknown.
func (c *Canvas) DragBy(widgetID string, delta domain.Position) DropResult {
	c.mu.Lock()
	if c.drag.Dragging() {
		c.mu.Unlock()
		return DropIgnored
	}
	c.drag.Start(widgetID)
	if !c.drag.Dragging() {
		c.mu.Unlock()
		return DropIgnored
	}
	c.drag.Move(delta)
	res := c.drag.End(CanvasWorkspace)
	var committed domain.Position
	if res == DropCommitted {
		w, _ := c.registry.Get(widgetID)
		committed = w.Position
	}
	c.mu.Unlock()

	c.dropped(res, widgetID, committed)
	return res
}

// dropped notifies handlers of a committed drop. Must be called without
// holding c.mu.
func (c *Canvas) dropped(res DropResult, id string, p domain.Position) {
	if res != DropCommitted {
		return
	}
	if c.onDrop != nil {
		c.onDrop(id, p)
	}
	c.changed()
}

func (c *Canvas) CancelDrag() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.drag.Cancel()
}

func (c *Canvas) DragState() DragState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.drag.State()
}

// ── Persistence shape ──────────────────────────────────────

// Snapshot converts the committed canvas into its persisted form. Widgets
// are ordered by id; LastModified is left for the store to stamp.
func (c *Canvas) Snapshot() domain.CanvasState {
	c.mu.Lock()
	defer c.mu.Unlock()
	entries := c.registry.Entries()
	widgets := make([]domain.WidgetState, 0, len(entries))
	for _, w := range entries {
		widgets = append(widgets, domain.WidgetStateOf(w))
	}
	return domain.CanvasState{
		Version: domain.CanvasSchemaVersion,
		Widgets: widgets,
		Avatars: append([]domain.AvatarState{}, c.avatars...),
	}
}

// Restore replaces the canvas contents with state. Any drag in progress is
// cancelled. Change handlers are not fired.
func (c *Canvas) Restore(state domain.CanvasState) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.drag.Cancel()
	for _, w := range c.registry.Entries() {
		c.registry.Remove(w.ID)
	}
	for _, ws := range state.Widgets {
		c.registry.Add(ws.Widget())
	}
	c.avatars = append([]domain.AvatarState{}, state.Avatars...)
}

func (c *Canvas) changed() {
	if c.onChange != nil {
		c.onChange()
	}
}
