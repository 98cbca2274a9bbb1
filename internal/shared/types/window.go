package types

import "github.com/GriffinCanCode/SpatialOS/backend/internal/shared/id"

// AppID identifies which hosted application a window runs
type AppID string

const (
	AppSports   AppID = "sports"
	AppNIL      AppID = "nil"
	AppCreator  AppID = "creator"
	AppBoard    AppID = "board"
	AppSettings AppID = "settings"
	AppBrowser  AppID = "browser"
)

// Window is the kernel's authoritative record of a window
type Window struct {
	ID          id.WindowID `json:"id"`
	AppID       AppID       `json:"app_id"`
	Title       string      `json:"title"`
	ZIndex      int         `json:"z_index"`
	IsMinimized bool        `json:"is_minimized"`
	IsMaximized bool        `json:"is_maximized"`

	// Rectangle the physics layer converges to
	TargetX      float64 `json:"target_x"`
	TargetY      float64 `json:"target_y"`
	TargetWidth  float64 `json:"target_width"`
	TargetHeight float64 `json:"target_height"`

	// Card navigation for multi-card applications
	CurrentCardIndex int `json:"current_card_index"`
	TotalCards       int `json:"total_cards"`
}

// Rect returns the window's target rectangle
func (w Window) Rect() Rect {
	return Rect{X: w.TargetX, Y: w.TargetY, Width: w.TargetWidth, Height: w.TargetHeight}
}

// WindowPatch carries a partial update. Nil fields are left untouched.
type WindowPatch struct {
	Title            *string  `json:"title,omitempty"`
	IsMinimized      *bool    `json:"is_minimized,omitempty"`
	IsMaximized      *bool    `json:"is_maximized,omitempty"`
	TargetX          *float64 `json:"target_x,omitempty"`
	TargetY          *float64 `json:"target_y,omitempty"`
	TargetWidth      *float64 `json:"target_width,omitempty"`
	TargetHeight     *float64 `json:"target_height,omitempty"`
	CurrentCardIndex *int     `json:"current_card_index,omitempty"`
	TotalCards       *int     `json:"total_cards,omitempty"`
}

// RectPatch builds a patch that moves and resizes a window to r
func RectPatch(r Rect) WindowPatch {
	return WindowPatch{
		TargetX:      Float(r.X),
		TargetY:      Float(r.Y),
		TargetWidth:  Float(r.Width),
		TargetHeight: Float(r.Height),
	}
}

// Apply merges the patch into w
func (p WindowPatch) Apply(w *Window) {
	if p.Title != nil {
		w.Title = *p.Title
	}
	if p.IsMinimized != nil {
		w.IsMinimized = *p.IsMinimized
	}
	if p.IsMaximized != nil {
		w.IsMaximized = *p.IsMaximized
	}
	if p.TargetX != nil {
		w.TargetX = *p.TargetX
	}
	if p.TargetY != nil {
		w.TargetY = *p.TargetY
	}
	if p.TargetWidth != nil {
		w.TargetWidth = *p.TargetWidth
	}
	if p.TargetHeight != nil {
		w.TargetHeight = *p.TargetHeight
	}
	if p.TotalCards != nil {
		w.TotalCards = *p.TotalCards
	}
	if p.CurrentCardIndex != nil {
		w.CurrentCardIndex = *p.CurrentCardIndex
	}
}

// String returns a pointer to v
func String(v string) *string { return &v }

// Float returns a pointer to v
func Float(v float64) *float64 { return &v }

// Int returns a pointer to v
func Int(v int) *int { return &v }

// Bool returns a pointer to v
func Bool(v bool) *bool { return &v }

// Viewport is the size of the desktop container
type Viewport struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Center returns the midpoint of the viewport
func (v Viewport) Center() (x, y float64) {
	return v.Width / 2, v.Height / 2
}

// Rect is an axis-aligned layout rectangle
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Snapshot is a read-only copy of kernel state
type Snapshot struct {
	Windows        []Window       `json:"windows"`
	ActiveWindowID *id.WindowID   `json:"active_window_id"`
	Cognitive      CognitiveState `json:"cognitive"`
	Viewport       Viewport       `json:"viewport"`
}

// Stats contains kernel statistics
type Stats struct {
	TotalWindows     int          `json:"total_windows"`
	MinimizedWindows int          `json:"minimized_windows"`
	ActiveWindowID   *id.WindowID `json:"active_window_id,omitempty"`
	TopZIndex        int          `json:"top_z_index"`
}
