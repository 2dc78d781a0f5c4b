package canvas

import (
	"sort"

	"canvasboard/internal/domain"
)

// Registry owns the widgets placed on one canvas, keyed by id.
// It never checks collisions; that is the drag controller's job at drop time.
// Registry is not safe for concurrent use; Canvas serializes access.
type Registry struct {
	widgets map[string]domain.Widget
}

func NewRegistry() *Registry {
	return &Registry{widgets: make(map[string]domain.Widget)}
}

// Add inserts w, replacing any widget with the same id.
func (r *Registry) Add(w domain.Widget) {
	r.widgets[w.ID] = w
}

// Remove deletes the widget if present.
func (r *Registry) Remove(id string) {
	delete(r.widgets, id)
}

// UpdatePosition replaces the position of an existing widget.
// Unknown ids are ignored; no partial record is created.
func (r *Registry) UpdatePosition(id string, p domain.Position) {
	w, ok := r.widgets[id]
	if !ok {
		return
	}
	w.Position = p
	r.widgets[id] = w
}

// UpdateSize replaces the size of an existing widget. Unknown ids are ignored.
func (r *Registry) UpdateSize(id string, s domain.Size) {
	w, ok := r.widgets[id]
	if !ok {
		return
	}
	w.Size = s
	r.widgets[id] = w
}

func (r *Registry) Get(id string) (domain.Widget, bool) {
	w, ok := r.widgets[id]
	return w, ok
}

func (r *Registry) Len() int {
	return len(r.widgets)
}

// Entries returns a copy of all widgets sorted by id.
func (r *Registry) Entries() []domain.Widget {
	out := make([]domain.Widget, 0, len(r.widgets))
	for _, w := range r.widgets {
		out = append(out, w)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Range visits widgets in ascending id order until fn returns false.
func (r *Registry) Range(fn func(w domain.Widget) bool) {
	for _, w := range r.Entries() {
		if !fn(w) {
			return
		}
	}
}
