package vecmath

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats/scalar"
)

func TestComposeTransformTranslationOnly(t *testing.T) {
	m := ComposeTransform(V2(120, 80), 100, V2(0, 0), 1)

	want := Matrix4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		120, 80, 100, 1,
	}
	for i := range want {
		assert.True(t, scalar.EqualWithinAbs(want[i], m[i], 1e-12), "element %d: got %v want %v", i, m[i], want[i])
	}
}

func TestComposeTransformRotationAndScale(t *testing.T) {
	rot := V2(10, -20)
	scale := 0.8
	m := ComposeTransform(V2(5, 6), 7, rot, scale)

	radX := rot.X * math.Pi / 180
	radY := rot.Y * math.Pi / 180
	cx, sx := math.Cos(radX), math.Sin(radX)
	cy, sy := math.Cos(radY), math.Sin(radY)

	// Column-major layout of T * Rx * Ry * S
	want := Matrix4{
		cy * scale, sx * sy * scale, -cx * sy * scale, 0,
		0, cx * scale, sx * scale, 0,
		sy * scale, -sx * cy * scale, cx * cy * scale, 0,
		5, 6, 7, 1,
	}
	for i := range want {
		assert.True(t, scalar.EqualWithinAbs(want[i], m[i], 1e-9), "element %d: got %v want %v", i, m[i], want[i])
	}
	assert.Equal(t, m[12], m.At(0, 3))
}

func TestMatrixCSS(t *testing.T) {
	css := ComposeTransform(V2(1, 2), 3, V2(0, 0), 1).CSS()

	require.True(t, strings.HasPrefix(css, "matrix3d("))
	assert.True(t, strings.HasSuffix(css, "1.0000, 2.0000, 3.0000, 1.0000)"))
	assert.Equal(t, 15, strings.Count(css, ","))
}
