package resilience

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker"
)

// Errors returned while the guard refuses calls
var (
	ErrCircuitOpen     = gobreaker.ErrOpenState
	ErrTooManyRequests = gobreaker.ErrTooManyRequests
)

// State is the breaker state
type State = gobreaker.State

const (
	StateClosed   = gobreaker.StateClosed
	StateHalfOpen = gobreaker.StateHalfOpen
	StateOpen     = gobreaker.StateOpen
)

// Settings configures a Guard
type Settings struct {
	Name string
	// Stalls is how many consecutive stalled calls trip the guard
	Stalls uint32
	// Cooldown is how long the guard stays open before probing again
	Cooldown time.Duration
	// Probes is how many calls a half-open guard lets through
	Probes        uint32
	OnStateChange func(name string, from, to State)
}

// DefaultSettings returns settings suited to the desktop loop
func DefaultSettings() Settings {
	return Settings{
		Name:     "desktop-loop",
		Stalls:   3,
		Cooldown: 5 * time.Second,
		Probes:   1,
	}
}

// Guard fails calls fast once the guarded work keeps stalling. Only a
// deadline counts as a stall; domain errors and client cancellation pass
// through without affecting the breaker.
type Guard struct {
	cb *gobreaker.CircuitBreaker
}

// New creates a guard
func New(s Settings) *Guard {
	if s.Stalls == 0 {
		s.Stalls = DefaultSettings().Stalls
	}
	if s.Probes == 0 {
		s.Probes = 1
	}
	stalls := s.Stalls
	return &Guard{cb: gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        s.Name,
		MaxRequests: s.Probes,
		Timeout:     s.Cooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= stalls
		},
		IsSuccessful:  func(err error) bool { return !IsStall(err) },
		OnStateChange: s.OnStateChange,
	})}
}

// IsStall reports whether err means the guarded work did not answer in time
func IsStall(err error) bool {
	return errors.Is(err, context.DeadlineExceeded)
}

// IsRejected reports whether err came from the guard refusing the call
func IsRejected(err error) bool {
	return errors.Is(err, ErrCircuitOpen) || errors.Is(err, ErrTooManyRequests)
}

// Do runs fn unless the guard is open
func (g *Guard) Do(fn func() error) error {
	_, err := g.cb.Execute(func() (interface{}, error) {
		return nil, fn()
	})
	return err
}

// Call runs fn unless the guard is open and returns its result
func Call[T any](g *Guard, fn func() (T, error)) (T, error) {
	var out T
	err := g.Do(func() error {
		var err error
		out, err = fn()
		return err
	})
	return out, err
}

// State returns the current breaker state
func (g *Guard) State() State {
	return g.cb.State()
}

// Name returns the guard's name
func (g *Guard) Name() string {
	return g.cb.Name()
}
