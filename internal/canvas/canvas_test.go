package canvas_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"canvasboard/internal/canvas"
	"canvasboard/internal/domain"
	"canvasboard/internal/layout"
)

func TestCanvas_DropScenario(t *testing.T) {
	var drops []domain.Position
	var c *canvas.Canvas
	c = canvas.New(canvas.WithDropHandler(func(id string, p domain.Position) {
		// Handlers may read the canvas back without deadlocking.
		snap := c.Snapshot()
		require.Len(t, snap.Widgets, 1)
		assert.Equal(t, "w1", id)
		drops = append(drops, p)
	}))
	c.AddWidget(newWidget("w1", 64, 64, 280, 200))

	c.StartDrag("w1")
	c.MoveDrag(domain.Position{X: 34, Y: 10})
	require.NotNil(t, c.DragState().Preview)
	assert.Equal(t, domain.Position{X: 96, Y: 64}, *c.DragState().Preview)

	assert.Equal(t, canvas.DropCommitted, c.EndDrag(canvas.CanvasWorkspace))
	assert.Equal(t, []domain.Position{{X: 96, Y: 64}}, drops)

	w, _ := c.Widget("w1")
	assert.Equal(t, domain.Position{X: 96, Y: 64}, w.Position)
	assert.False(t, c.DragState().IsDragging)
}

func TestCanvas_DragBy(t *testing.T) {
	drops := 0
	c := canvas.New(canvas.WithDropHandler(func(string, domain.Position) { drops++ }))
	c.AddWidget(newWidget("a", 64, 64, 280, 200))
	c.AddWidget(newWidget("b", 640, 64, 100, 100))

	assert.Equal(t, canvas.DropCommitted, c.DragBy("a", domain.Position{X: 34, Y: 10}))
	w, _ := c.Widget("a")
	assert.Equal(t, domain.Position{X: 96, Y: 64}, w.Position)
	assert.Equal(t, 1, drops)
	assert.False(t, c.DragState().IsDragging)

	assert.Equal(t, canvas.DropRejected, c.DragBy("a", domain.Position{X: 500}))
	assert.Equal(t, canvas.DropIgnored, c.DragBy("missing", domain.Position{X: 32}))
	assert.False(t, c.DragState().IsDragging)
}

func TestCanvas_DragByLeavesActiveDragAlone(t *testing.T) {
	c := canvas.New()
	c.AddWidget(newWidget("a", 0, 0, 64, 64))
	c.AddWidget(newWidget("b", 320, 0, 64, 64))

	c.StartDrag("b")
	c.MoveDrag(domain.Position{X: 64})
	before := c.DragState()

	assert.Equal(t, canvas.DropIgnored, c.DragBy("a", domain.Position{X: 640, Y: 640}))
	assert.Equal(t, before, c.DragState())

	a, _ := c.Widget("a")
	b, _ := c.Widget("b")
	assert.Equal(t, domain.Position{}, a.Position)
	assert.Equal(t, domain.Position{X: 320}, b.Position)

	assert.Equal(t, canvas.DropCommitted, c.EndDrag(canvas.CanvasWorkspace))
	b, _ = c.Widget("b")
	assert.Equal(t, domain.Position{X: 384}, b.Position)
}

func TestCanvas_IndependentSessions(t *testing.T) {
	a := canvas.New()
	b := canvas.New()
	a.AddWidget(newWidget("w1", 0, 0, 100, 100))

	assert.Equal(t, 1, a.Len())
	assert.Equal(t, 0, b.Len())

	a.StartDrag("w1")
	assert.True(t, a.DragState().IsDragging)
	assert.False(t, b.DragState().IsDragging)
}

func TestCanvas_ChangeHandler(t *testing.T) {
	changes := 0
	c := canvas.New(canvas.WithChangeHandler(func() { changes++ }))

	c.AddWidget(newWidget("w1", 0, 0, 100, 100))
	c.ResizeWidget("w1", domain.Size{Width: 200, Height: 200})
	c.ResizeWidget("ghost", domain.Size{Width: 1, Height: 1})
	c.RemoveWidget("ghost")
	assert.Equal(t, 2, changes, "absent-id mutations do not report changes")

	c.StartDrag("w1")
	c.MoveDrag(domain.Position{X: 1000, Y: 0})
	c.EndDrag(canvas.NoDropTarget)
	assert.Equal(t, 2, changes, "aborted drops do not report changes")

	c.StartDrag("w1")
	c.MoveDrag(domain.Position{X: 320, Y: 0})
	c.EndDrag(canvas.CanvasWorkspace)
	assert.Equal(t, 3, changes)

	c.SetAvatar("ava", domain.Position{X: 10, Y: 20})
	c.RemoveWidget("w1")
	assert.Equal(t, 5, changes)
}

func TestCanvas_CustomGrid(t *testing.T) {
	g, err := layout.NewGrid(10)
	require.NoError(t, err)
	c := canvas.New(canvas.WithGrid(g))
	c.AddWidget(newWidget("w1", 0, 0, 50, 50))

	c.StartDrag("w1")
	c.MoveDrag(domain.Position{X: 14, Y: 16})
	assert.Equal(t, domain.Position{X: 10, Y: 20}, *c.DragState().Preview)
	assert.Equal(t, 10.0, c.Grid().Size())
}

func TestCanvas_SnapshotRestore(t *testing.T) {
	c := canvas.New()
	c.AddWidget(newWidget("b", 320, 0, 100, 100))
	c.AddWidget(newWidget("a", 0, 0, 100, 100))
	c.SetAvatar("ava", domain.Position{X: 5, Y: 6})
	c.SetAvatar("ava", domain.Position{X: 7, Y: 8})

	snap := c.Snapshot()
	assert.Equal(t, domain.CanvasSchemaVersion, snap.Version)
	require.Len(t, snap.Widgets, 2)
	assert.Equal(t, "a", snap.Widgets[0].ID)
	assert.Equal(t, []domain.AvatarState{{Agent: "ava", X: 7, Y: 8}}, snap.Avatars)

	other := canvas.New()
	other.AddWidget(newWidget("stale", 0, 0, 10, 10))
	other.StartDrag("stale")
	other.Restore(snap)

	assert.False(t, other.DragState().IsDragging)
	assert.Equal(t, c.Widgets(), other.Widgets())
	assert.Equal(t, c.Avatars(), other.Avatars())
}

func TestCanvas_ArrangeAndNextPosition(t *testing.T) {
	c := canvas.New()
	c.AddWidget(newWidget("a", 0, 0, 280, 200))

	p := c.NextPosition(domain.Size{Width: 280, Height: 200})
	assert.Equal(t, domain.Position{X: 352, Y: 0}, p)

	c.AddWidget(newWidget("b", 0, 0, 280, 200))
	arranged := c.Arrange(domain.Position{})
	require.Len(t, arranged, 2)
	for _, w := range c.Widgets() {
		others := c.Widgets()
		for _, o := range others {
			if o.ID != w.ID {
				assert.False(t, layout.RectanglesOverlap(w.Bounds(), o.Bounds()))
			}
		}
	}
}

func TestCanvas_ConcurrentAccess(t *testing.T) {
	c := canvas.New()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := string(rune('a' + i))
			c.AddWidget(newWidget(id, float64(i)*200, 0, 100, 100))
			c.StartDrag(id)
			c.MoveDrag(domain.Position{X: 1, Y: 1})
			c.EndDrag(canvas.CanvasWorkspace)
			_ = c.Snapshot()
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 8, c.Len())
	assert.False(t, c.DragState().IsDragging)
}
