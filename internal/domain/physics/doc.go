// Package physics animates desktop windows with damped springs.
//
// A Body owns one window's continuous motion state and is integrated
// every frame toward a target supplied by its owner. The package never
// reads or writes kernel state: targets come in through SetTarget, and
// the only value flowing back out is the settled position returned by
// EndDrag.
//
// States:
//   - Settling: position follows a spring toward the target
//   - Dragging: position follows the pointer 1:1, velocity is sampled
//
// Numeric defects (non-positive mass, non-finite state) are reported as
// ErrInvalidConfig and ErrNonFinite rather than propagated as NaN.
package physics
