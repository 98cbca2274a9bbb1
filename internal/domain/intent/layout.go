package intent

import (
	"math"

	"github.com/GriffinCanCode/SpatialOS/backend/internal/domain/kernel"
	"github.com/GriffinCanCode/SpatialOS/backend/internal/shared/types"
)

// DefaultMargin is the gap between windows and the viewport edge
const DefaultMargin = 24.0

// SnapPosition names a layout slot
type SnapPosition string

const (
	SnapLeft     SnapPosition = "left"
	SnapRight    SnapPosition = "right"
	SnapTop      SnapPosition = "top"
	SnapBottom   SnapPosition = "bottom"
	SnapMaximize SnapPosition = "maximize"
)

// SnapRect returns the rectangle for pos inside the viewport. Unknown
// positions fall back to a default-sized window at the origin.
func SnapRect(pos SnapPosition, vp types.Viewport, g float64) types.Rect {
	w, h := vp.Width, vp.Height
	switch pos {
	case SnapLeft:
		return types.Rect{X: g, Y: g, Width: w/2 - 1.5*g, Height: h - 2*g}
	case SnapRight:
		return types.Rect{X: w/2 + 0.5*g, Y: g, Width: w/2 - 1.5*g, Height: h - 2*g}
	case SnapTop:
		return types.Rect{X: g, Y: g, Width: w - 2*g, Height: h/2 - 1.5*g}
	case SnapBottom:
		return types.Rect{X: g, Y: h/2 + 0.5*g, Width: w - 2*g, Height: h/2 - 1.5*g}
	case SnapMaximize:
		return types.Rect{X: g, Y: g, Width: w - 2*g, Height: h - 2*g}
	default:
		return types.Rect{Width: kernel.DefaultWidth, Height: kernel.DefaultHeight}
	}
}

// TileGrid lays n windows out row-major in a near-square grid with g
// between cells and around the edge.
func TileGrid(n int, vp types.Viewport, g float64) []types.Rect {
	if n <= 0 {
		return nil
	}
	cols := int(math.Ceil(math.Sqrt(float64(n))))
	rows := int(math.Ceil(float64(n) / float64(cols)))
	sw := (vp.Width - g*float64(cols+1)) / float64(cols)
	sh := (vp.Height - g*float64(rows+1)) / float64(rows)

	rects := make([]types.Rect, n)
	for i := range rects {
		c, r := i%cols, i/cols
		rects[i] = types.Rect{
			X:      g + float64(c)*(sw+g),
			Y:      g + float64(r)*(sh+g),
			Width:  sw,
			Height: sh,
		}
	}
	return rects
}
