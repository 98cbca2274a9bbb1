package physics

import (
	"fmt"
	"time"

	"github.com/GriffinCanCode/SpatialOS/backend/internal/shared/vecmath"
)

// Config holds spring constants
type Config struct {
	Stiffness float64 `json:"stiffness"`
	Damping   float64 `json:"damping"`
	Mass      float64 `json:"mass"`
}

// DefaultConfig returns the positional spring used when no cognitive
// state is available.
func DefaultConfig() Config {
	return Config{Stiffness: 120, Damping: 15, Mass: 1}
}

// LiftConfig drives the lift axis. It is stiffer than the positional
// spring so windows pop up quickly when grabbed.
var LiftConfig = Config{Stiffness: 180, Damping: 20, Mass: 1}

const (
	// MaxStep caps a single integration step after a stalled frame loop
	MaxStep = 64 * time.Millisecond
	// DragSampleInterval is the nominal frame used to derive drag velocity
	DragSampleInterval = 16 * time.Millisecond

	TiltFactor      = 0.05
	TiltSmoothing   = 0.1
	ScaleRelaxation = 0.2
	ReleaseDamping  = 0.5

	LiftResting  = 0.0
	LiftActive   = 100.0
	LiftDragging = 200.0
)

// Validate reports whether the constants can be integrated
func (c Config) Validate() error {
	if !vecmath.IsFinite(c.Stiffness) || !vecmath.IsFinite(c.Damping) || !vecmath.IsFinite(c.Mass) {
		return fmt.Errorf("%w: non-finite constants %+v", ErrInvalidConfig, c)
	}
	if c.Mass <= 0 {
		return fmt.Errorf("%w: mass %v must be positive", ErrInvalidConfig, c.Mass)
	}
	return nil
}
