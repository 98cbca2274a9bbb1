// Package vecmath provides the numeric helpers shared by the physics and
// render layers: 2D vectors, scalar easing functions and rigid-body
// transform composition.
//
// Vector arithmetic and matrix products delegate to gonum (spatial/r2 and
// mat). Vec2 keeps its own type so it serialises as {"x","y"}; it converts
// freely to and from r2.Vec because the field sets are identical.
//
// Example Usage:
//
//	offset := pointer.Sub(position)
//	m := vecmath.ComposeTransform(pos, lift, tilt, scale)
//	css := m.CSS()
package vecmath
