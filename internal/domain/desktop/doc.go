// Package desktop runs the spatial desktop's single logical thread.
//
// Desktop binds the window kernel to per-window physics bodies. It mounts
// a body and a frame task when the kernel opens a window and tears both
// down in the same turn the window closes. Pointer drags talk to the body
// directly; on release the settled position is written back into the
// kernel before the call returns, so the next tick already integrates
// toward it.
//
// Desktop is not safe for concurrent use. Runtime owns one Desktop and
// serialises every call through its Run loop, interleaving them with
// frame ticks:
//
//	rt := desktop.NewRuntime(d, 60)
//	go rt.Run(ctx)
//	res, err := rt.Execute(ctx, "snap left")
package desktop
