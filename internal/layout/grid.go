package layout

import (
	"errors"
	"fmt"
	"math"

	"canvasboard/internal/domain"
)

// DefaultGridSize is the pixel distance between adjacent snap points.
const DefaultGridSize = 32.0

var (
	ErrNonFinite       = errors.New("layout: non-finite coordinate")
	ErrInvalidGridSize = errors.New("layout: grid size must be finite and positive")
	defaultGrid        = Grid{size: DefaultGridSize}
)

// Grid quantizes canvas coordinates to multiples of its cell size.
type Grid struct {
	size float64
}

func NewGrid(size float64) (Grid, error) {
	if !isFinite(size) || size <= 0 {
		return Grid{}, fmt.Errorf("%w: %v", ErrInvalidGridSize, size)
	}
	return Grid{size: size}, nil
}

// DefaultGrid returns a grid with DefaultGridSize cells.
func DefaultGrid() Grid { return defaultGrid }

// Size returns the cell size. A zero Grid reports DefaultGridSize.
func (g Grid) Size() float64 {
	if g.size == 0 {
		return DefaultGridSize
	}
	return g.size
}

// Snap returns the multiple of the cell size nearest to v. Ties round toward
// positive infinity, so with 32px cells 16 snaps to 32 and -16 snaps to 0.
// The result is never negative zero.
func (g Grid) Snap(v float64) (float64, error) {
	if !isFinite(v) {
		return 0, fmt.Errorf("%w: %v", ErrNonFinite, v)
	}
	size := g.Size()
	r := math.Floor(v/size+0.5) * size
	if r == 0 {
		r = 0 // drop the sign of -0
	}
	return r, nil
}

// SnapPoint snaps both axes of p independently.
func (g Grid) SnapPoint(p domain.Position) (domain.Position, error) {
	x, err := g.Snap(p.X)
	if err != nil {
		return domain.Position{}, err
	}
	y, err := g.Snap(p.Y)
	if err != nil {
		return domain.Position{}, err
	}
	return domain.Position{X: x, Y: y}, nil
}

// SnapToGrid snaps v on the default grid.
func SnapToGrid(v float64) (float64, error) {
	return defaultGrid.Snap(v)
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
