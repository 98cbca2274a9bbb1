// Package server assembles the desktop: it builds the kernel, dispatcher,
// physics runtime and HTTP surface from configuration, and runs the frame
// loop alongside the HTTP listener until shutdown.
package server
