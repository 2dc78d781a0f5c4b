package layout

import "canvasboard/internal/domain"

// WidgetSet is a read-only view over placed widgets. Range must visit
// widgets in ascending id order and stop when fn returns false.
type WidgetSet interface {
	Range(fn func(w domain.Widget) bool)
}

// RectanglesOverlap reports whether a and b intersect with positive area.
// Rectangles that only share an edge do not overlap, so widgets can be
// tiled edge to edge.
func RectanglesOverlap(a, b domain.Rect) bool {
	return a.X < b.X+b.Width && a.X+a.Width > b.X &&
		a.Y < b.Y+b.Height && a.Y+a.Height > b.Y
}

// HasCollision reports whether candidate overlaps any widget in set other
// than excludeID. It stops at the first hit.
func HasCollision(candidate domain.Rect, set WidgetSet, excludeID string) bool {
	_, ok := FirstCollision(candidate, set, excludeID)
	return ok
}

// FirstCollision returns the id of the first widget, in ascending id order,
// whose bounds overlap candidate.
func FirstCollision(candidate domain.Rect, set WidgetSet, excludeID string) (string, bool) {
	var hit string
	found := false
	set.Range(func(w domain.Widget) bool {
		if w.ID == excludeID {
			return true
		}
		if RectanglesOverlap(candidate, w.Bounds()) {
			hit, found = w.ID, true
			return false
		}
		return true
	})
	return hit, found
}
