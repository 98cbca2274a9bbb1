package types

import "encoding/json"

// CommandRequest carries a free-text command
type CommandRequest struct {
	Command string `json:"command" binding:"required"`
}

// PointerRequest carries a pointer position in viewport coordinates
type PointerRequest struct {
	X float64 `json:"x" binding:"min=-1e6,max=1e6"`
	Y float64 `json:"y" binding:"min=-1e6,max=1e6"`
}

// CardsRequest declares a window's card count
type CardsRequest struct {
	Total int `json:"total" binding:"required,min=1"`
}

// NavigateRequest moves a window's card pointer either relatively or absolutely
type NavigateRequest struct {
	Direction string `json:"direction,omitempty"`
	Index     *int   `json:"index,omitempty"`
}

// ViewportRequest resizes the desktop container
type ViewportRequest struct {
	Width  float64 `json:"width" binding:"required,gt=0"`
	Height float64 `json:"height" binding:"required,gt=0"`
}

// WSMessage represents an inbound WebSocket message
type WSMessage struct {
	Type     string          `json:"type"`
	WindowID string          `json:"window_id,omitempty"`
	X        float64         `json:"x,omitempty"`
	Y        float64         `json:"y,omitempty"`
	Command  string          `json:"command,omitempty"`
	Intent   json.RawMessage `json:"intent,omitempty"`
}
