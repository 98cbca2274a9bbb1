// Package http provides the REST surface renderers use to drive the desktop.
//
// Every mutating handler posts its work onto the desktop runtime's loop and
// waits at most DefaultCallTimeout for it. Malformed bodies answer 400 with a
// JSON {"error": ...}; ids the kernel doesn't hold answer 404.
//
// Endpoints:
//   - Health: / and /health
//   - State: /windows, /frame, /apps, /cognitive
//   - Intents: POST /intents (wire form), POST /commands (free text)
//   - Windows: /windows/:id/focus, /windows/:id/drag/{begin,move,end},
//     /windows/:id/cards, /windows/:id/navigate, DELETE /windows/:id
//   - Viewport: PUT /viewport
//   - Renderer logs: POST /logs
//   - Metrics: /metrics/json
//
// Example Usage:
//
//	handlers := http.NewHandlers(runtime, catalog, metrics, logger)
//	handlers.Register(router)
package http
