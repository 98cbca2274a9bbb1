package vecmath

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Vec2 is a 2D vector in viewport units
type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// V2 is a convenience constructor
func V2(x, y float64) Vec2 {
	return Vec2{X: x, Y: y}
}

func (v Vec2) r2() r2.Vec { return r2.Vec(v) }

// Add returns v + w
func (v Vec2) Add(w Vec2) Vec2 {
	return Vec2(r2.Add(v.r2(), w.r2()))
}

// Sub returns v - w
func (v Vec2) Sub(w Vec2) Vec2 {
	return Vec2(r2.Sub(v.r2(), w.r2()))
}

// Mul returns v scaled by s
func (v Vec2) Mul(s float64) Vec2 {
	return Vec2(r2.Scale(s, v.r2()))
}

// Dot returns the dot product
func (v Vec2) Dot(w Vec2) float64 {
	return r2.Dot(v.r2(), w.r2())
}

// Mag returns the Euclidean length
func (v Vec2) Mag() float64 {
	return r2.Norm(v.r2())
}

// Dist returns the distance between v and w
func (v Vec2) Dist(w Vec2) float64 {
	return r2.Norm(r2.Sub(w.r2(), v.r2()))
}

// Lerp interpolates from v toward w by t
func (v Vec2) Lerp(w Vec2, t float64) Vec2 {
	return Vec2{X: Lerp(v.X, w.X, t), Y: Lerp(v.Y, w.Y, t)}
}

// IsFinite reports whether both components are finite
func (v Vec2) IsFinite() bool {
	return IsFinite(v.X) && IsFinite(v.Y)
}

// Clamp limits val to [lo, hi]
func Clamp(val, lo, hi float64) float64 {
	return math.Min(math.Max(val, lo), hi)
}

// Lerp blends start toward end by t
func Lerp(start, end, t float64) float64 {
	return start*(1-t) + end*t
}

// Sigmoid is the logistic function
func Sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

// SmoothStep is the cubic Hermite ease on [0,1]
func SmoothStep(t float64) float64 {
	return t * t * (3 - 2*t)
}

// IsFinite reports whether v is neither NaN nor infinite
func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
