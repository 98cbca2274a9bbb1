package physics

import "errors"

var (
	ErrInvalidConfig = errors.New("invalid spring configuration")
	ErrNonFinite     = errors.New("non-finite physics state")
)

// Solve returns the acceleration of a damped spring, F = -kx - cv over m
func Solve(current, target, velocity float64, cfg Config) (float64, error) {
	if err := cfg.Validate(); err != nil {
		return 0, err
	}
	displacement := current - target
	force := -cfg.Stiffness*displacement - cfg.Damping*velocity
	return force / cfg.Mass, nil
}
