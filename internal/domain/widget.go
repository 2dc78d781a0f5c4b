package domain

type WidgetType string

const (
	WidgetTypeCalendar  WidgetType = "calendar"
	WidgetTypeInbox     WidgetType = "inbox"
	WidgetTypeDocuments WidgetType = "documents"
	WidgetTypeStaff     WidgetType = "staff"
	WidgetTypeNotes     WidgetType = "notes"
	WidgetTypeMetrics   WidgetType = "metrics"
)

// Position is a top-left coordinate in canvas pixel space.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns p translated by d.
func (p Position) Add(d Position) Position {
	return Position{X: p.X + d.X, Y: p.Y + d.Y}
}

type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Rect is an axis-aligned bounding box.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// RectAt builds the bounding box of a footprint of the given size placed at p.
func RectAt(p Position, s Size) Rect {
	return Rect{X: p.X, Y: p.Y, Width: s.Width, Height: s.Height}
}

// Widget is a placed tile on the canvas. The ID is assigned by the caller
// and never changes.
type Widget struct {
	ID       string     `json:"id"`
	Type     WidgetType `json:"type"`
	Position Position   `json:"position"`
	Size     Size       `json:"size"`
	ZIndex   int        `json:"zIndex"`
}

func (w Widget) Bounds() Rect {
	return RectAt(w.Position, w.Size)
}
