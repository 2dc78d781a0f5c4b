package layout

import "canvasboard/internal/domain"

const (
	PaddingCells = 2 // free cells kept around existing widgets during auto-placement
	MaxRowWidth  = 1792.0
	maxScanY     = 100000.0
)

// Engine places new widgets on the canvas so that tool-created widgets
// don't land on top of existing ones.
type Engine struct {
	grid    Grid
	padding float64
	maxRowW float64
}

func NewEngine(grid Grid) *Engine {
	return &Engine{
		grid:    grid,
		padding: grid.Size() * PaddingCells,
		maxRowW: MaxRowWidth,
	}
}

// snap never sees non-finite values here; positions come from the scan loops
// or from committed widgets.
func (e *Engine) snap(v float64) float64 {
	r, err := e.grid.Snap(v)
	if err != nil {
		return 0
	}
	return r
}

// NextPosition finds the first grid position, scanning rows top to bottom
// and columns left to right, where a widget of the given size keeps the
// padding distance from every widget in set.
func (e *Engine) NextPosition(set WidgetSet, size domain.Size) domain.Position {
	var occupied []domain.Rect
	maxY := 0.0
	set.Range(func(w domain.Widget) bool {
		b := w.Bounds()
		occupied = append(occupied, domain.Rect{
			X:      b.X - e.padding,
			Y:      b.Y - e.padding,
			Width:  b.Width + e.padding*2,
			Height: b.Height + e.padding*2,
		})
		if b.Y+b.Height > maxY {
			maxY = b.Y + b.Height
		}
		return true
	})
	if len(occupied) == 0 {
		return domain.Position{}
	}

	step := e.grid.Size()
	for y := 0.0; y < maxScanY; y += step {
		for x := 0.0; x == 0 || x+size.Width <= e.maxRowW; x += step {
			candidate := domain.Rect{X: e.snap(x), Y: e.snap(y), Width: size.Width, Height: size.Height}
			free := true
			for _, occ := range occupied {
				if RectanglesOverlap(candidate, occ) {
					free = false
					break
				}
			}
			if free {
				return domain.Position{X: candidate.X, Y: candidate.Y}
			}
		}
	}

	// Fallback: below everything.
	return domain.Position{X: 0, Y: e.snap(maxY + e.padding)}
}

// ArrangeGroup lays widgets out left to right from start, wrapping to a new
// row when the next widget would pass the maximum row width. Positions are
// rewritten in place and the slice is returned.
func (e *Engine) ArrangeGroup(widgets []domain.Widget, start domain.Position) []domain.Widget {
	originX := e.snap(start.X)
	x := originX
	y := e.snap(start.Y)
	rowHeight := 0.0

	for i := range widgets {
		if x > originX && x+widgets[i].Size.Width > e.maxRowW {
			x = originX
			y += e.ceil(rowHeight + e.padding)
			rowHeight = 0
		}
		widgets[i].Position = domain.Position{X: x, Y: y}
		if widgets[i].Size.Height > rowHeight {
			rowHeight = widgets[i].Size.Height
		}
		x += e.ceil(widgets[i].Size.Width + e.padding)
	}
	return widgets
}

// ceil rounds v up to the next grid multiple so advancing by it never
// pulls the next widget back into the previous one.
func (e *Engine) ceil(v float64) float64 {
	r := e.snap(v)
	if r < v {
		r += e.grid.Size()
	}
	return r
}
