package intent

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/SpatialOS/backend/internal/infrastructure/logging"
	"github.com/GriffinCanCode/SpatialOS/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/SpatialOS/backend/internal/shared/id"
	"github.com/GriffinCanCode/SpatialOS/backend/internal/shared/types"
)

// Kernel is the window state the dispatcher mutates
type Kernel interface {
	OpenWindow(appID types.AppID) types.Window
	UpdateWindow(wid id.WindowID, patch types.WindowPatch) bool
	FocusWindow(wid id.WindowID) bool
	CloseWindow(wid id.WindowID) bool
	CloseAll() int
	MinimizeAll()
	Windows() []types.Window
	FindWindow(match func(types.Window) bool) (types.Window, bool)
	ActiveWindow() (types.Window, bool)
	Viewport() types.Viewport
}

// Result reports the outcome of a dispatch
type Result struct {
	Opcode   Opcode `json:"opcode"`
	Feedback string `json:"feedback"`
	OK       bool   `json:"ok"`
}

// Dispatcher applies intents to a kernel
type Dispatcher struct {
	kernel  Kernel
	margin  float64
	logger  *logging.Logger
	metrics *monitoring.Metrics
}

// NewDispatcher creates a dispatcher laying windows out with margin
func NewDispatcher(k Kernel, margin float64) *Dispatcher {
	return &Dispatcher{
		kernel: k,
		margin: margin,
		logger: logging.NewNop(),
	}
}

// WithLogger sets the dispatcher's logger
func (d *Dispatcher) WithLogger(logger *logging.Logger) *Dispatcher {
	d.logger = logger.Component("intent")
	return d
}

// WithMetrics adds metrics tracking to the dispatcher
func (d *Dispatcher) WithMetrics(metrics *monitoring.Metrics) *Dispatcher {
	d.metrics = metrics
	return d
}

// Dispatch applies in to the kernel. It never fails: rejected intents
// leave the kernel untouched and explain why in the feedback.
func (d *Dispatcher) Dispatch(in Intent) Result {
	res := d.apply(in.Op)
	res.Opcode = in.Opcode()

	d.logger.Debug("Intent dispatched",
		zap.String("opcode", string(res.Opcode)),
		zap.String("source", string(in.Source)),
		zap.Float64("confidence", in.Confidence),
		zap.Bool("ok", res.OK))
	if d.metrics != nil {
		d.metrics.RecordIntent(string(res.Opcode), res.OK)
	}
	return res
}

func (d *Dispatcher) apply(op Op) Result {
	switch op := op.(type) {
	case OpenApp:
		return d.openApp(op)
	case CloseApp:
		return d.closeApp(op)
	case FocusWindow:
		return d.focusWindow(op)
	case SnapWindow:
		return d.snapWindow(op)
	case TileWorkspace:
		return d.tileWorkspace()
	case CleanDesktop:
		d.kernel.MinimizeAll()
		return ok("Desktop minimized.")
	case NavigateStack:
		return d.navigateStack(op)
	default:
		return fail("Unknown opcode.")
	}
}

func (d *Dispatcher) openApp(op OpenApp) Result {
	if op.Target == "" {
		return fail("Intent failed: Missing target.")
	}
	existing, found := d.kernel.FindWindow(func(w types.Window) bool {
		return w.AppID == op.Target
	})
	if found {
		d.kernel.FocusWindow(existing.ID)
		return ok(fmt.Sprintf("Switched to %s.", op.Target))
	}
	d.kernel.OpenWindow(op.Target)
	return ok("Intent executed: Process spawned.")
}

func (d *Dispatcher) closeApp(op CloseApp) Result {
	if op.All {
		d.kernel.CloseAll()
		return ok("Desktop environment cleared.")
	}
	active, found := d.kernel.ActiveWindow()
	if !found {
		return fail("No active process to terminate.")
	}
	d.kernel.CloseWindow(active.ID)
	return ok("Process terminated.")
}

func (d *Dispatcher) focusWindow(op FocusWindow) Result {
	win, found := d.kernel.FindWindow(func(w types.Window) bool {
		return string(w.AppID) == op.Target || strings.EqualFold(w.Title, op.Target)
	})
	if !found {
		return fail("Window not found.")
	}
	d.kernel.FocusWindow(win.ID)
	return ok(fmt.Sprintf("Focusing %s", win.Title))
}

func (d *Dispatcher) snapWindow(op SnapWindow) Result {
	active, found := d.kernel.ActiveWindow()
	if !found {
		return fail("No window to snap.")
	}
	rect := SnapRect(op.Position, d.kernel.Viewport(), d.margin)
	patch := types.RectPatch(rect)
	patch.IsMaximized = types.Bool(op.Position == SnapMaximize)
	d.kernel.UpdateWindow(active.ID, patch)
	return ok(fmt.Sprintf("Window snapped %s.", op.Position))
}

func (d *Dispatcher) tileWorkspace() Result {
	windows := d.kernel.Windows()
	if len(windows) == 0 {
		return fail("No windows to tile.")
	}
	rects := TileGrid(len(windows), d.kernel.Viewport(), d.margin)
	for i, win := range windows {
		patch := types.RectPatch(rects[i])
		patch.IsMinimized = types.Bool(false)
		patch.IsMaximized = types.Bool(false)
		d.kernel.UpdateWindow(win.ID, patch)
	}
	return ok("Workspace tiled.")
}

func (d *Dispatcher) navigateStack(op NavigateStack) Result {
	active, found := d.kernel.ActiveWindow()
	if !found {
		return fail("No active stack.")
	}
	next := active.CurrentCardIndex + op.Direction.Step()
	next = max(0, min(next, active.TotalCards-1))
	d.kernel.UpdateWindow(active.ID, types.WindowPatch{CurrentCardIndex: types.Int(next)})
	return ok(fmt.Sprintf("Stack pointer moved to %d.", next))
}

func ok(feedback string) Result {
	return Result{Feedback: feedback, OK: true}
}

func fail(feedback string) Result {
	return Result{Feedback: feedback, OK: false}
}
