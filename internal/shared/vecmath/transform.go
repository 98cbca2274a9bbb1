package vecmath

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// Matrix4 is a 4x4 homogeneous transform stored column-major, the layout
// CSS matrix3d() and most GPU APIs expect.
type Matrix4 [16]float64

// At returns the element at row r, column c
func (m Matrix4) At(r, c int) float64 {
	return m[c*4+r]
}

// ComposeTransform builds T * Rx(pitch) * Ry(yaw) * S for a window at pos,
// lifted by z, tilted by rot (degrees: X pitch, Y yaw) and uniformly
// scaled.
func ComposeTransform(pos Vec2, z float64, rot Vec2, scale float64) Matrix4 {
	radX := rot.X * math.Pi / 180
	radY := rot.Y * math.Pi / 180
	sx, cx := math.Sincos(radX)
	sy, cy := math.Sincos(radY)

	translate := mat.NewDense(4, 4, []float64{
		1, 0, 0, pos.X,
		0, 1, 0, pos.Y,
		0, 0, 1, z,
		0, 0, 0, 1,
	})
	pitch := mat.NewDense(4, 4, []float64{
		1, 0, 0, 0,
		0, cx, -sx, 0,
		0, sx, cx, 0,
		0, 0, 0, 1,
	})
	yaw := mat.NewDense(4, 4, []float64{
		cy, 0, sy, 0,
		0, 1, 0, 0,
		-sy, 0, cy, 0,
		0, 0, 0, 1,
	})
	scaling := mat.NewDiagDense(4, []float64{scale, scale, scale, 1})

	var product mat.Dense
	product.Product(translate, pitch, yaw, scaling)

	var out Matrix4
	for c := 0; c < 4; c++ {
		for r := 0; r < 4; r++ {
			out[c*4+r] = product.At(r, c)
		}
	}
	return out
}

// CSS formats the matrix as a CSS matrix3d() value
func (m Matrix4) CSS() string {
	parts := make([]string, len(m))
	for i, v := range m {
		parts[i] = fmt.Sprintf("%.4f", v)
	}
	return "matrix3d(" + strings.Join(parts, ", ") + ")"
}
