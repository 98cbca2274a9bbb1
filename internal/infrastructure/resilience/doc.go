/*
Package resilience keeps callers responsive when the desktop loop stalls.

A Guard wraps github.com/sony/gobreaker. Calls that miss their deadline count
as stalls; after Settings.Stalls consecutive stalls the guard opens and every
call fails immediately with ErrCircuitOpen until Cooldown has passed and a
probe call succeeds. Domain errors such as an unknown window id are ordinary
answers and never trip it.

# Usage

	guard := resilience.New(resilience.DefaultSettings())

	frame, err := resilience.Call(guard, func() (desktop.RenderFrame, error) {
		return runtime.Frame(ctx)
	})
	if resilience.IsRejected(err) {
		// answer 503 without queueing behind the loop
	}
*/
package resilience
