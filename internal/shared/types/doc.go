// Package types provides shared data structures for the spatial desktop backend.
//
// This package defines the records exchanged between the kernel, the
// physics runtime and the API layer, keeping them free of behaviour so
// every layer can depend on it.
//
// Core Types:
//   - Window: Kernel-owned record of one hosted application instance
//   - WindowPatch: Partial update merged by the kernel
//   - CognitiveState: Global four-component state modulating physics
//   - Viewport, Rect: Container geometry and layout rectangles
//   - Snapshot, Stats: Read-only views of kernel state
//   - AppDefinition: Hosted application declared by the catalog
//
// Request Types:
//   - CommandRequest, PointerRequest, CardsRequest, NavigateRequest
//   - WSMessage: WebSocket communication
//
// Example Usage:
//
//	patch := types.WindowPatch{TargetX: types.Float(24), TargetY: types.Float(24)}
//	k.UpdateWindow(win.ID, patch)
package types
