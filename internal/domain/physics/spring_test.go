package physics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSolve(t *testing.T) {
	cfg := Config{Stiffness: 100, Damping: 10, Mass: 2}

	a, err := Solve(10, 0, 0, cfg)
	require.NoError(t, err)
	assert.InDelta(t, -500.0, a, 1e-9)

	a, err = Solve(0, 0, 4, cfg)
	require.NoError(t, err)
	assert.InDelta(t, -20.0, a, 1e-9)

	a, err = Solve(5, 5, 0, cfg)
	require.NoError(t, err)
	assert.Zero(t, a)
}

func TestSolveInvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"zero mass", Config{Stiffness: 100, Damping: 10, Mass: 0}},
		{"negative mass", Config{Stiffness: 100, Damping: 10, Mass: -1}},
		{"nan stiffness", Config{Stiffness: math.NaN(), Damping: 10, Mass: 1}},
		{"inf damping", Config{Stiffness: 100, Damping: math.Inf(1), Mass: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Solve(1, 0, 0, tt.cfg)
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestDefaultConfigValid(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())
	assert.NoError(t, LiftConfig.Validate())
}
