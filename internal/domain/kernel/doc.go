// Package kernel is the authoritative store of desktop windows.
//
// The kernel owns every window's discrete state (identity, stacking
// order, minimised flag, target rectangle, card pointer) together with
// the active window and the global cognitive state. It knows nothing
// about animation: the physics layer reads targets from here and writes
// back only when a drag ends.
//
// Invariants:
//   - at most one window is active, and the active id always names a
//     window that exists
//   - z-indices come from a high-water mark and are never reused, so the
//     most recently focused window always has the largest z
//   - window ids are ULIDs and are never reused
//
// Every operation is total: lookups of unknown ids are no-ops that
// report false.
package kernel
