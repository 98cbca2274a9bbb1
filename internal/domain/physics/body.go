package physics

import (
	"fmt"
	"time"

	"github.com/GriffinCanCode/SpatialOS/backend/internal/shared/vecmath"
)

// Phase is the body's interaction state
type Phase int

const (
	Settling Phase = iota
	Dragging
)

// String returns the string representation of the phase
func (p Phase) String() string {
	switch p {
	case Settling:
		return "settling"
	case Dragging:
		return "dragging"
	default:
		return "unknown"
	}
}

// MarshalText encodes the phase by name
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// State is a read-only snapshot of a body
type State struct {
	Position     vecmath.Vec2 `json:"position"`
	Velocity     vecmath.Vec2 `json:"velocity"`
	Target       vecmath.Vec2 `json:"target"`
	Lift         float64      `json:"lift"`
	LiftVelocity float64      `json:"lift_velocity"`
	Tilt         vecmath.Vec2 `json:"tilt"`
	Scale        float64      `json:"scale"`
	Phase        Phase        `json:"phase"`
	DragOffset   vecmath.Vec2 `json:"drag_offset"`
	StartTime    time.Time    `json:"start_time"`
}

// Dragging reports whether the body follows the pointer
func (s State) Dragging() bool {
	return s.Phase == Dragging
}

// Body integrates one window's motion. It is not safe for concurrent use;
// the desktop runtime drives every body from a single goroutine.
type Body struct {
	state       State
	config      Config
	active      bool
	targetScale float64
}

// NewBody creates a body at rest on pos
func NewBody(pos vecmath.Vec2, active bool, targetScale float64, now time.Time) *Body {
	b := &Body{
		config:      DefaultConfig(),
		active:      active,
		targetScale: targetScale,
	}
	b.state = State{
		Position:  pos,
		Target:    pos,
		Scale:     targetScale,
		Phase:     Settling,
		StartTime: now,
	}
	b.state.Lift = b.liftTarget()
	return b
}

// SetTarget sets the point the spring pulls toward
func (b *Body) SetTarget(target vecmath.Vec2) {
	b.state.Target = target
}

// SetActive raises or lowers the resting lift
func (b *Body) SetActive(active bool) {
	b.active = active
}

// SetTargetScale sets the scale the body relaxes toward
func (b *Body) SetTargetScale(scale float64) {
	b.targetScale = scale
}

// SetConfig replaces the positional spring constants
func (b *Body) SetConfig(cfg Config) {
	b.config = cfg
}

// State returns a copy of the current motion state
func (b *Body) State() State {
	return b.state
}

// BeginDrag grabs the body at the pointer without moving it
func (b *Body) BeginDrag(pointer vecmath.Vec2) {
	b.state.Phase = Dragging
	b.state.DragOffset = pointer.Sub(b.state.Position)
}

// UpdateDrag moves the body under the pointer and reports whether the
// sample was taken. Ignored unless dragging; a sample that would leave the
// body with a non-finite position or velocity is dropped.
func (b *Body) UpdateDrag(pointer vecmath.Vec2) bool {
	if b.state.Phase != Dragging {
		return false
	}
	next := pointer.Sub(b.state.DragOffset)
	vel := next.Sub(b.state.Position).Mul(1 / DragSampleInterval.Seconds())
	if !next.IsFinite() || !vel.IsFinite() {
		return false
	}
	b.state.Velocity = vel
	b.state.Position = next
	return true
}

// EndDrag releases the body where it is and returns that position, which
// the caller must write back as the window's new target.
func (b *Body) EndDrag() vecmath.Vec2 {
	b.state.Phase = Settling
	b.state.Target = b.state.Position
	b.state.Velocity = b.state.Velocity.Mul(ReleaseDamping)
	return b.state.Position
}

// Reset re-seats the body at rest on pos, dropping any drag
func (b *Body) Reset(pos vecmath.Vec2) {
	b.state.Position = pos
	b.state.Target = pos
	b.state.Velocity = vecmath.Vec2{}
	b.state.Tilt = vecmath.Vec2{}
	b.state.LiftVelocity = 0
	b.state.Lift = b.liftTarget()
	b.state.Scale = b.targetScale
	b.state.Phase = Settling
	b.state.DragOffset = vecmath.Vec2{}
}

// Step advances the simulation by dt, capped at MaxStep
func (b *Body) Step(dt time.Duration) error {
	if dt <= 0 {
		return nil
	}
	if dt > MaxStep {
		dt = MaxStep
	}
	if err := b.config.Validate(); err != nil {
		return err
	}
	h := dt.Seconds()
	s := &b.state

	if s.Phase != Dragging {
		ax, err := Solve(s.Position.X, s.Target.X, s.Velocity.X, b.config)
		if err != nil {
			return fmt.Errorf("x axis: %w", err)
		}
		ay, err := Solve(s.Position.Y, s.Target.Y, s.Velocity.Y, b.config)
		if err != nil {
			return fmt.Errorf("y axis: %w", err)
		}
		// Semi-implicit Euler: velocity first, then position
		s.Velocity = s.Velocity.Add(vecmath.V2(ax, ay).Mul(h))
		s.Position = s.Position.Add(s.Velocity.Mul(h))
	}

	az, err := Solve(s.Lift, b.liftTarget(), s.LiftVelocity, LiftConfig)
	if err != nil {
		return fmt.Errorf("lift: %w", err)
	}
	s.LiftVelocity += az * h
	s.Lift += s.LiftVelocity * h

	// Moving right tilts around Y, moving down tilts back around X
	tiltTarget := vecmath.V2(-s.Velocity.Y*TiltFactor, s.Velocity.X*TiltFactor)
	s.Tilt = s.Tilt.Lerp(tiltTarget, TiltSmoothing)

	s.Scale += (b.targetScale - s.Scale) * ScaleRelaxation

	return b.checkFinite()
}

func (b *Body) liftTarget() float64 {
	switch {
	case b.state.Phase == Dragging:
		return LiftDragging
	case b.active:
		return LiftActive
	default:
		return LiftResting
	}
}

func (b *Body) checkFinite() error {
	s := b.state
	if !s.Position.IsFinite() || !s.Velocity.IsFinite() || !s.Tilt.IsFinite() ||
		!vecmath.IsFinite(s.Lift) || !vecmath.IsFinite(s.LiftVelocity) || !vecmath.IsFinite(s.Scale) {
		return fmt.Errorf("%w: position=%v velocity=%v lift=%v", ErrNonFinite, s.Position, s.Velocity, s.Lift)
	}
	return nil
}
