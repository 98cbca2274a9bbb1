package desktop

import (
	"sort"
	"time"

	"github.com/GriffinCanCode/SpatialOS/backend/internal/domain/cognitive"
	"github.com/GriffinCanCode/SpatialOS/backend/internal/domain/physics"
	"github.com/GriffinCanCode/SpatialOS/backend/internal/shared/id"
	"github.com/GriffinCanCode/SpatialOS/backend/internal/shared/types"
	"github.com/GriffinCanCode/SpatialOS/backend/internal/shared/vecmath"
)

// WindowFrame is everything a renderer needs to draw one window
type WindowFrame struct {
	Window    types.Window    `json:"window"`
	Body      physics.State   `json:"body"`
	Active    bool            `json:"active"`
	Wobble    float64         `json:"wobble"`
	Transform vecmath.Matrix4 `json:"transform"`
	CSS       string          `json:"css"`
}

// RenderFrame is a read-only snapshot of the whole desktop
type RenderFrame struct {
	Sequence       uint64                    `json:"sequence"`
	Time           time.Time                 `json:"time"`
	Windows        []WindowFrame             `json:"windows"`
	ActiveWindowID *id.WindowID              `json:"active_window_id"`
	Cognitive      types.CognitiveState      `json:"cognitive"`
	Physics        physics.Config            `json:"physics"`
	CardTransition physics.Config            `json:"card_transition"`
	Breathing      cognitive.BreathingParams `json:"breathing"`
	Viewport       types.Viewport            `json:"viewport"`
}

// Frame renders the desktop as of now. Windows are ordered back to front.
func (d *Desktop) Frame(now time.Time) RenderFrame {
	snap := d.kernel.Snapshot()
	breathing := cognitive.Breathing(snap.Cognitive)

	frame := RenderFrame{
		Sequence:       d.sequence,
		Time:           now,
		Windows:        make([]WindowFrame, 0, len(snap.Windows)),
		ActiveWindowID: snap.ActiveWindowID,
		Cognitive:      snap.Cognitive,
		Physics:        cognitive.PhysicsConfig(snap.Cognitive),
		CardTransition: cognitive.CardTransition(snap.Cognitive),
		Breathing:      breathing,
		Viewport:       snap.Viewport,
	}

	for _, win := range snap.Windows {
		m, ok := d.mounts[win.ID]
		if !ok {
			continue
		}
		state := m.body.State()
		elapsedMs := float64(now.Sub(state.StartTime)) / float64(time.Millisecond)
		wobble := breathing.Offset(elapsedMs, m.phase)

		pos := vecmath.V2(state.Position.X, state.Position.Y+wobble)
		transform := vecmath.ComposeTransform(pos, state.Lift, state.Tilt, state.Scale)

		frame.Windows = append(frame.Windows, WindowFrame{
			Window:    win,
			Body:      state,
			Active:    snap.ActiveWindowID != nil && *snap.ActiveWindowID == win.ID,
			Wobble:    wobble,
			Transform: transform,
			CSS:       transform.CSS(),
		})
	}

	sort.SliceStable(frame.Windows, func(i, j int) bool {
		return frame.Windows[i].Window.ZIndex < frame.Windows[j].Window.ZIndex
	})
	return frame
}
