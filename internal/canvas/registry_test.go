package canvas_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"canvasboard/internal/canvas"
	"canvasboard/internal/domain"
)

func newWidget(id string, x, y, w, h float64) domain.Widget {
	return domain.Widget{
		ID:       id,
		Type:     domain.WidgetTypeCalendar,
		Position: domain.Position{X: x, Y: y},
		Size:     domain.Size{Width: w, Height: h},
		ZIndex:   1,
	}
}

func TestRegistry_AddGet(t *testing.T) {
	r := canvas.NewRegistry()
	w := newWidget("w1", 64, 64, 280, 200)

	r.Add(w)
	got, ok := r.Get("w1")
	require.True(t, ok)
	assert.Equal(t, w, got)
	assert.Equal(t, 1, r.Len())

	r.Add(w)
	assert.Equal(t, 1, r.Len(), "re-adding the same widget is idempotent")
}

func TestRegistry_AddReplaces(t *testing.T) {
	r := canvas.NewRegistry()
	r.Add(newWidget("w1", 0, 0, 100, 100))
	r.Add(newWidget("w1", 32, 32, 50, 50))

	got, _ := r.Get("w1")
	assert.Equal(t, domain.Position{X: 32, Y: 32}, got.Position)
	assert.Equal(t, 1, r.Len())
}

func TestRegistry_Remove(t *testing.T) {
	r := canvas.NewRegistry()
	r.Add(newWidget("w1", 0, 0, 100, 100))

	r.Remove("w1")
	_, ok := r.Get("w1")
	assert.False(t, ok)

	assert.NotPanics(t, func() { r.Remove("w1") })
	assert.Equal(t, 0, r.Len())
}

func TestRegistry_UpdatePositionKeepsOtherFields(t *testing.T) {
	r := canvas.NewRegistry()
	w := newWidget("w1", 0, 0, 100, 100)
	r.Add(w)

	r.UpdatePosition("w1", domain.Position{X: 96, Y: 64})

	got, _ := r.Get("w1")
	want := w
	want.Position = domain.Position{X: 96, Y: 64}
	assert.Equal(t, want, got)
}

func TestRegistry_UpdateSizeKeepsOtherFields(t *testing.T) {
	r := canvas.NewRegistry()
	w := newWidget("w1", 32, 32, 100, 100)
	r.Add(w)

	r.UpdateSize("w1", domain.Size{Width: 320, Height: 240})

	got, _ := r.Get("w1")
	want := w
	want.Size = domain.Size{Width: 320, Height: 240}
	assert.Equal(t, want, got)
}

func TestRegistry_AbsentIDMutationsAreNoops(t *testing.T) {
	r := canvas.NewRegistry()
	r.Add(newWidget("w1", 0, 0, 100, 100))

	assert.NotPanics(t, func() {
		r.UpdatePosition("ghost", domain.Position{X: 10, Y: 10})
		r.UpdateSize("ghost", domain.Size{Width: 10, Height: 10})
		r.Remove("ghost")
	})
	assert.Equal(t, 1, r.Len())
	_, ok := r.Get("ghost")
	assert.False(t, ok, "no partial record may be created")
}

func TestRegistry_EntriesSortedByID(t *testing.T) {
	r := canvas.NewRegistry()
	for _, id := range []string{"c", "a", "b"} {
		r.Add(newWidget(id, 0, 0, 10, 10))
	}

	var ids []string
	for _, w := range r.Entries() {
		ids = append(ids, w.ID)
	}
	assert.Equal(t, []string{"a", "b", "c"}, ids)

	var visited []string
	r.Range(func(w domain.Widget) bool {
		visited = append(visited, w.ID)
		return w.ID != "b"
	})
	assert.Equal(t, []string{"a", "b"}, visited)
}
