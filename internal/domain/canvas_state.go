package domain

// CanvasSchemaVersion is the version stamped on every persisted canvas.
// Stored blobs carrying any other version are ignored on load.
const CanvasSchemaVersion = 1

// Tenant scopes persisted canvas state to one suite/office pair.
type Tenant struct {
	SuiteID  string `json:"suiteId"`
	OfficeID string `json:"officeId"`
}

// Valid reports whether both halves of the tenant pair are set.
func (t Tenant) Valid() bool {
	return t.SuiteID != "" && t.OfficeID != ""
}

// WidgetState is the persisted form of a Widget.
type WidgetState struct {
	ID     string  `json:"id"`
	Type   string  `json:"type"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	ZIndex int     `json:"zIndex"`
}

// AvatarState is the persisted position of an AI staff avatar on the canvas.
type AvatarState struct {
	Agent string  `json:"agent"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
}

// CanvasState is the complete durable representation of one tenant's canvas.
type CanvasState struct {
	Version      int           `json:"version"`
	Widgets      []WidgetState `json:"widgets"`
	Avatars      []AvatarState `json:"avatars"`
	LastModified int64         `json:"lastModified"` // ms since epoch
}

func WidgetStateOf(w Widget) WidgetState {
	return WidgetState{
		ID:     w.ID,
		Type:   string(w.Type),
		X:      w.Position.X,
		Y:      w.Position.Y,
		Width:  w.Size.Width,
		Height: w.Size.Height,
		ZIndex: w.ZIndex,
	}
}

func (s WidgetState) Widget() Widget {
	return Widget{
		ID:       s.ID,
		Type:     WidgetType(s.Type),
		Position: Position{X: s.X, Y: s.Y},
		Size:     Size{Width: s.Width, Height: s.Height},
		ZIndex:   s.ZIndex,
	}
}
