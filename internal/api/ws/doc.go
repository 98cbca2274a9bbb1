// Package ws streams render frames to renderers and accepts their input.
//
// Each connection subscribes to the desktop runtime and receives one frame
// after every tick. Slow renderers drop frames rather than stall the loop.
// A single writer goroutine owns the socket; replies to inbound messages are
// queued to it.
//
// Message Types (Client → Server):
//   - pointer_down, pointer_move, pointer_up: drag a window ({window_id, x, y})
//   - command: free-text command ({command})
//   - intent: structured intent in wire form ({intent})
//   - ping: keep-alive
//
// Message Types (Server → Client):
//   - system: greeting carrying the connection id
//   - frame: render frame
//   - feedback: dispatch outcome or the settled target of a drag
//   - error: rejected message
//   - pong: keep-alive reply
//
// Example Usage:
//
//	handler := ws.NewHandler(runtime, logger).WithMetrics(metrics)
//	router.GET("/stream", handler.HandleConnection)
package ws
