package desktop

import (
	"errors"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/SpatialOS/backend/internal/domain/catalog"
	"github.com/GriffinCanCode/SpatialOS/backend/internal/domain/cognitive"
	"github.com/GriffinCanCode/SpatialOS/backend/internal/domain/intent"
	"github.com/GriffinCanCode/SpatialOS/backend/internal/domain/kernel"
	"github.com/GriffinCanCode/SpatialOS/backend/internal/domain/physics"
	"github.com/GriffinCanCode/SpatialOS/backend/internal/infrastructure/logging"
	"github.com/GriffinCanCode/SpatialOS/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/SpatialOS/backend/internal/shared/id"
	"github.com/GriffinCanCode/SpatialOS/backend/internal/shared/types"
	"github.com/GriffinCanCode/SpatialOS/backend/internal/shared/utils"
	"github.com/GriffinCanCode/SpatialOS/backend/internal/shared/vecmath"
)

// ErrUnknownWindow is returned for operations on ids the kernel doesn't hold
var ErrUnknownWindow = errors.New("unknown window")

// ErrInvalidPointer is returned for pointer samples outside MaxPointerCoord
var ErrInvalidPointer = errors.New("invalid pointer position")

// MaxPointerCoord bounds pointer coordinates on either axis
const MaxPointerCoord = 1e6

func checkPointer(x, y float64) error {
	if !vecmath.IsFinite(x) || !vecmath.IsFinite(y) ||
		math.Abs(x) > MaxPointerCoord || math.Abs(y) > MaxPointerCoord {
		return fmt.Errorf("%w: (%v, %v)", ErrInvalidPointer, x, y)
	}
	return nil
}

// MinimizedScale is the resting scale of a minimised window
const MinimizedScale = 0.8

// phaseSpan and phaseFactor spread idle wobble phases across windows
const (
	phaseSpan   = 100.0
	phaseFactor = 0.3
)

// mount is a window's live physics state
type mount struct {
	body  *physics.Body
	phase float64
}

// ExecuteResult pairs a parsed command with its dispatch outcome
type ExecuteResult struct {
	Intent intent.Intent `json:"intent"`
	intent.Result
}

// Desktop couples the kernel with window physics
type Desktop struct {
	kernel     *kernel.Kernel
	dispatcher *intent.Dispatcher
	catalog    *catalog.Catalog
	scheduler  *Scheduler
	mounts     map[id.WindowID]*mount
	hasher     *utils.Hasher
	now        func() time.Time
	sequence   uint64

	logger  *logging.Logger
	metrics *monitoring.Metrics
}

// Option configures a Desktop
type Option func(*Desktop)

// WithLogger sets the desktop's logger
func WithLogger(logger *logging.Logger) Option {
	return func(d *Desktop) { d.logger = logger.Component("desktop") }
}

// WithMetrics adds metrics tracking
func WithMetrics(metrics *monitoring.Metrics) Option {
	return func(d *Desktop) { d.metrics = metrics }
}

// WithClock replaces the wall clock used for body start times
func WithClock(now func() time.Time) Option {
	return func(d *Desktop) { d.now = now }
}

// New creates a desktop and subscribes it to the kernel's lifecycle
// events. Windows the kernel already holds are mounted immediately.
func New(k *kernel.Kernel, d *intent.Dispatcher, c *catalog.Catalog, opts ...Option) *Desktop {
	desk := &Desktop{
		kernel:     k,
		dispatcher: d,
		catalog:    c,
		scheduler:  NewScheduler(),
		mounts:     make(map[id.WindowID]*mount),
		hasher:     utils.DefaultHasher(),
		now:        time.Now,
		logger:     logging.NewNop(),
	}
	for _, opt := range opts {
		opt(desk)
	}

	k.AddListener(desk)
	for _, win := range k.Windows() {
		desk.WindowOpened(win)
	}
	return desk
}

// Kernel exposes the underlying kernel for read-only queries
func (d *Desktop) Kernel() *kernel.Kernel {
	return d.kernel
}

// Catalog returns the application catalog
func (d *Desktop) Catalog() *catalog.Catalog {
	return d.catalog
}

// Boot seeds an empty desktop with the catalog's default application
func (d *Desktop) Boot() types.Window {
	app := d.catalog.Default()
	return d.kernel.Boot(app.ID, app.Cards)
}

// WindowOpened mounts a body and frame task for a new window
func (d *Desktop) WindowOpened(win types.Window) {
	scale := 1.0
	if win.IsMinimized {
		scale = MinimizedScale
	}
	active := d.isActive(win.ID)
	body := physics.NewBody(vecmath.V2(win.TargetX, win.TargetY), active, scale, d.now())
	body.SetConfig(cognitive.PhysicsConfig(d.kernel.Cognitive()))

	wid := win.ID
	if err := d.scheduler.Register(wid, func(dt time.Duration) { d.stepWindow(wid, dt) }); err != nil {
		d.logger.Defect("Window mounted twice", err, zap.String("window_id", wid.String()))
		return
	}
	d.mounts[wid] = &mount{
		body:  body,
		phase: d.hasher.Seed(wid.String(), phaseSpan) * phaseFactor,
	}
	d.syncTaskGauge()

	d.SetTotalCards(wid, d.catalog.Cards(win.AppID))
	d.logger.Debug("Window mounted", zap.String("window_id", wid.String()))
}

// WindowClosed cancels the window's frame task and drops its body
func (d *Desktop) WindowClosed(wid id.WindowID) {
	d.scheduler.Cancel(wid)
	delete(d.mounts, wid)
	d.syncTaskGauge()
	d.logger.Debug("Window unmounted", zap.String("window_id", wid.String()))
}

// Mounted reports whether wid has a live body
func (d *Desktop) Mounted(wid id.WindowID) bool {
	_, ok := d.mounts[wid]
	return ok
}

// Body returns a snapshot of a window's physics state
func (d *Desktop) Body(wid id.WindowID) (physics.State, bool) {
	m, ok := d.mounts[wid]
	if !ok {
		return physics.State{}, false
	}
	return m.body.State(), true
}

// Tick advances every mounted window to now
func (d *Desktop) Tick(now time.Time) {
	start := time.Now()
	d.scheduler.Tick(now)
	d.sequence++
	if d.metrics != nil {
		d.metrics.RecordFrame(time.Since(start))
	}
}

// stepWindow is the per-window frame task: pull targets from the kernel,
// then integrate.
func (d *Desktop) stepWindow(wid id.WindowID, dt time.Duration) {
	m, ok := d.mounts[wid]
	if !ok {
		return
	}
	win, ok := d.kernel.Window(wid)
	if !ok {
		return
	}

	target := vecmath.V2(win.TargetX, win.TargetY)
	scale := 1.0
	if win.IsMinimized {
		scale = MinimizedScale
	}
	m.body.SetTarget(target)
	m.body.SetActive(d.isActive(wid))
	m.body.SetTargetScale(scale)
	m.body.SetConfig(cognitive.PhysicsConfig(d.kernel.Cognitive()))

	prev := m.body.State().Position
	if err := m.body.Step(dt); err != nil {
		kind := "non_finite"
		if errors.Is(err, physics.ErrInvalidConfig) {
			kind = "invalid_config"
		}
		if d.metrics != nil {
			d.metrics.RecordPhysicsDefect(kind)
		}
		d.logger.Defect("Physics step failed", err, zap.String("window_id", wid.String()))
		if target.IsFinite() {
			m.body.Reset(target)
		} else {
			m.body.Reset(prev)
		}
	}
}

// PointerDown focuses the window and grabs it at (x, y)
func (d *Desktop) PointerDown(wid id.WindowID, x, y float64) error {
	if err := checkPointer(x, y); err != nil {
		return err
	}
	m, ok := d.mounts[wid]
	if !ok || !d.kernel.FocusWindow(wid) {
		return fmt.Errorf("%w: %s", ErrUnknownWindow, wid)
	}
	m.body.BeginDrag(vecmath.V2(x, y))
	return nil
}

// PointerMove drags the window under the pointer
func (d *Desktop) PointerMove(wid id.WindowID, x, y float64) error {
	if err := checkPointer(x, y); err != nil {
		return err
	}
	m, ok := d.mounts[wid]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownWindow, wid)
	}
	m.body.UpdateDrag(vecmath.V2(x, y))
	return nil
}

// PointerUp releases the window and commits where it landed as the
// kernel's new target.
func (d *Desktop) PointerUp(wid id.WindowID) (vecmath.Vec2, error) {
	m, ok := d.mounts[wid]
	if !ok {
		return vecmath.Vec2{}, fmt.Errorf("%w: %s", ErrUnknownWindow, wid)
	}
	wasDragging := m.body.State().Dragging()
	pos := m.body.EndDrag()
	d.kernel.UpdateWindow(wid, types.WindowPatch{
		TargetX: types.Float(pos.X),
		TargetY: types.Float(pos.Y),
	})
	if wasDragging && d.metrics != nil {
		d.metrics.IncDrags()
	}
	return pos, nil
}

// SetTotalCards records how many cards a hosted application shows
func (d *Desktop) SetTotalCards(wid id.WindowID, total int) bool {
	return d.kernel.UpdateWindow(wid, types.WindowPatch{TotalCards: types.Int(total)})
}

// NavigateCard moves a window's card pointer. A non-nil index is an
// absolute jump; otherwise dir moves one card. The kernel clamps.
func (d *Desktop) NavigateCard(wid id.WindowID, dir intent.Direction, index *int) (int, error) {
	win, ok := d.kernel.Window(wid)
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownWindow, wid)
	}
	next := win.CurrentCardIndex + dir.Step()
	if index != nil {
		next = *index
	}
	d.kernel.UpdateWindow(wid, types.WindowPatch{CurrentCardIndex: types.Int(next)})
	win, _ = d.kernel.Window(wid)
	return win.CurrentCardIndex, nil
}

// Focus raises a window
func (d *Desktop) Focus(wid id.WindowID) error {
	if !d.kernel.FocusWindow(wid) {
		return fmt.Errorf("%w: %s", ErrUnknownWindow, wid)
	}
	return nil
}

// Close removes a window
func (d *Desktop) Close(wid id.WindowID) error {
	if !d.kernel.CloseWindow(wid) {
		return fmt.Errorf("%w: %s", ErrUnknownWindow, wid)
	}
	return nil
}

// Execute parses and dispatches a free-text command. Any recognised
// command reinforces the cognitive state, whether or not it succeeded.
func (d *Desktop) Execute(text string) ExecuteResult {
	in := intent.Parse(text)
	res := d.dispatcher.Dispatch(in)
	if in.Opcode() != intent.OpUnknown {
		d.kernel.SetCognitive(cognitive.Reinforce(d.kernel.Cognitive()))
	}
	d.logger.Info("Command executed",
		zap.String("command", text),
		zap.String("opcode", string(res.Opcode)),
		zap.String("feedback", res.Feedback))
	return ExecuteResult{Intent: in, Result: res}
}

// DispatchIntent applies a structured intent
func (d *Desktop) DispatchIntent(in intent.Intent) intent.Result {
	return d.dispatcher.Dispatch(in)
}

// SetCognitive replaces the cognitive state
func (d *Desktop) SetCognitive(state types.CognitiveState) types.CognitiveState {
	return d.kernel.SetCognitive(state)
}

// SetViewport resizes the desktop container
func (d *Desktop) SetViewport(v types.Viewport) {
	d.kernel.SetViewport(v)
}

func (d *Desktop) isActive(wid id.WindowID) bool {
	active := d.kernel.ActiveID()
	return active != nil && *active == wid
}

func (d *Desktop) syncTaskGauge() {
	if d.metrics != nil {
		d.metrics.SetFrameTasks(d.scheduler.Len())
	}
}
