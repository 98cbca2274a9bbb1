// Package cognitive maps the desktop's cognitive state onto motion.
//
// Higher knowingness stiffens window springs, fog softens them and adds
// damping, misconception makes windows heavier. The mapping is total:
// any state inside the unit hypercube yields a valid physics.Config.
package cognitive

import (
	"math"

	"github.com/GriffinCanCode/SpatialOS/backend/internal/domain/physics"
	"github.com/GriffinCanCode/SpatialOS/backend/internal/shared/types"
)

const (
	baseStiffness        = 150.0
	knowingnessStiffness = 60.0
	fogStiffness         = 40.0
	baseDamping          = 20.0
	fogDamping           = 25.0
	baseMass             = 1.0
	misconceptionMass    = 0.8

	// ReinforceStep is applied after every recognised command
	ReinforceStep = 0.05
)

// Default returns the boot-time cognitive state
func Default() types.CognitiveState {
	return types.CognitiveState{
		Confidence:    0.8,
		Misconception: 0.1,
		Fog:           0.05,
		Knowingness:   0.9,
	}
}

// PhysicsConfig derives window spring constants from state
func PhysicsConfig(state types.CognitiveState) physics.Config {
	return physics.Config{
		Stiffness: baseStiffness + knowingnessStiffness*state.Knowingness - fogStiffness*state.Fog,
		Damping:   baseDamping + fogDamping*state.Fog,
		Mass:      baseMass + misconceptionMass*state.Misconception,
	}
}

// Reinforce nudges the state toward clarity after a successful command
func Reinforce(state types.CognitiveState) types.CognitiveState {
	state.Knowingness += ReinforceStep
	state.Fog -= ReinforceStep
	return state.Clamp()
}

// BreathingParams describes the idle wobble applied on top of the spring
type BreathingParams struct {
	// Frequency in radians per millisecond
	Frequency float64 `json:"frequency"`
	Amplitude float64 `json:"amplitude"`
}

// Breathing slows the wobble under fog and widens it with confidence
func Breathing(state types.CognitiveState) BreathingParams {
	return BreathingParams{
		Frequency: 0.0015 - 0.0005*state.Fog,
		Amplitude: 4 + 3*state.Confidence,
	}
}

// Offset returns the wobble displacement elapsedMs after the body
// started, shifted by a per-window phase.
func (b BreathingParams) Offset(elapsedMs, phase float64) float64 {
	return b.Amplitude * math.Sin(elapsedMs*b.Frequency+phase)
}

// CardTransition is the spring hosted applications use between cards
func CardTransition(state types.CognitiveState) physics.Config {
	return physics.Config{
		Stiffness: 300 - 100*state.Fog,
		Damping:   30 + 20*state.Fog,
		Mass:      1,
	}
}
