package desktop

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/SpatialOS/backend/internal/domain/intent"
	"github.com/GriffinCanCode/SpatialOS/backend/internal/infrastructure/logging"
	"github.com/GriffinCanCode/SpatialOS/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/SpatialOS/backend/internal/shared/id"
	"github.com/GriffinCanCode/SpatialOS/backend/internal/shared/types"
	"github.com/GriffinCanCode/SpatialOS/backend/internal/shared/vecmath"
)

var (
	ErrStopped        = errors.New("desktop runtime stopped")
	ErrAlreadyRunning = errors.New("desktop runtime already running")
)

// DefaultSubscriberBuffer is how many frames a slow subscriber may lag
const DefaultSubscriberBuffer = 4

// Runtime serialises all access to a Desktop on one goroutine
type Runtime struct {
	desk      *Desktop
	frameRate int
	interval  time.Duration
	tasks    chan func()
	stopped  chan struct{}
	running  atomic.Bool

	subMu   sync.Mutex
	subs    map[uint64]chan RenderFrame
	nextSub uint64

	logger  *logging.Logger
	metrics *monitoring.Metrics
}

// NewRuntime wraps d with a loop ticking frameRate times per second
func NewRuntime(d *Desktop, frameRate int) *Runtime {
	if frameRate <= 0 {
		frameRate = 60
	}
	return &Runtime{
		desk:      d,
		frameRate: frameRate,
		interval:  time.Second / time.Duration(frameRate),
		tasks:     make(chan func()),
		stopped:   make(chan struct{}),
		subs:      make(map[uint64]chan RenderFrame),
		logger:    d.logger,
		metrics:   d.metrics,
	}
}

// Interval returns the frame period
func (r *Runtime) Interval() time.Duration {
	return r.interval
}

// FrameRate returns the configured ticks per second
func (r *Runtime) FrameRate() int {
	return r.frameRate
}

// Run drives the desktop until ctx is cancelled. Frame ticks and posted
// calls never interleave.
func (r *Runtime) Run(ctx context.Context) error {
	if !r.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer close(r.stopped)
	defer r.closeSubscribers()

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.logger.Info("Desktop loop started", zap.Duration("interval", r.interval))
	for {
		select {
		case <-ctx.Done():
			r.logger.Info("Desktop loop stopped")
			return ctx.Err()
		case now := <-ticker.C:
			r.desk.Tick(now)
			if r.hasSubscribers() {
				r.publish(r.desk.Frame(now))
			}
		case fn := <-r.tasks:
			fn()
		}
	}
}

// Do runs fn on the loop goroutine and waits for it to finish
func (r *Runtime) Do(ctx context.Context, fn func(*Desktop)) error {
	done := make(chan struct{})
	task := func() {
		defer close(done)
		fn(r.desk)
	}

	select {
	case r.tasks <- task:
	case <-ctx.Done():
		return ctx.Err()
	case <-r.stopped:
		return ErrStopped
	}

	// Once accepted the task always runs to completion
	<-done
	return nil
}

func call[T any](ctx context.Context, r *Runtime, fn func(*Desktop) T) (T, error) {
	var out T
	err := r.Do(ctx, func(d *Desktop) { out = fn(d) })
	return out, err
}

func callErr[T any](ctx context.Context, r *Runtime, fn func(*Desktop) (T, error)) (T, error) {
	var (
		out   T
		opErr error
	)
	if err := r.Do(ctx, func(d *Desktop) { out, opErr = fn(d) }); err != nil {
		return out, err
	}
	return out, opErr
}

// Execute parses and dispatches a free-text command
func (r *Runtime) Execute(ctx context.Context, text string) (ExecuteResult, error) {
	return call(ctx, r, func(d *Desktop) ExecuteResult { return d.Execute(text) })
}

// DispatchIntent applies a structured intent
func (r *Runtime) DispatchIntent(ctx context.Context, in intent.Intent) (intent.Result, error) {
	return call(ctx, r, func(d *Desktop) intent.Result { return d.DispatchIntent(in) })
}

// PointerDown focuses a window and begins dragging it
func (r *Runtime) PointerDown(ctx context.Context, wid id.WindowID, x, y float64) error {
	_, err := callErr(ctx, r, func(d *Desktop) (struct{}, error) {
		return struct{}{}, d.PointerDown(wid, x, y)
	})
	return err
}

// PointerMove drags a window
func (r *Runtime) PointerMove(ctx context.Context, wid id.WindowID, x, y float64) error {
	_, err := callErr(ctx, r, func(d *Desktop) (struct{}, error) {
		return struct{}{}, d.PointerMove(wid, x, y)
	})
	return err
}

// PointerUp ends a drag and returns the committed target
func (r *Runtime) PointerUp(ctx context.Context, wid id.WindowID) (vecmath.Vec2, error) {
	return callErr(ctx, r, func(d *Desktop) (vecmath.Vec2, error) { return d.PointerUp(wid) })
}

// Focus raises a window
func (r *Runtime) Focus(ctx context.Context, wid id.WindowID) error {
	_, err := callErr(ctx, r, func(d *Desktop) (struct{}, error) { return struct{}{}, d.Focus(wid) })
	return err
}

// Close removes a window
func (r *Runtime) Close(ctx context.Context, wid id.WindowID) error {
	_, err := callErr(ctx, r, func(d *Desktop) (struct{}, error) { return struct{}{}, d.Close(wid) })
	return err
}

// SetTotalCards records a window's card count
func (r *Runtime) SetTotalCards(ctx context.Context, wid id.WindowID, total int) error {
	ok, err := call(ctx, r, func(d *Desktop) bool { return d.SetTotalCards(wid, total) })
	if err != nil {
		return err
	}
	if !ok {
		return ErrUnknownWindow
	}
	return nil
}

// NavigateCard moves a window's card pointer
func (r *Runtime) NavigateCard(ctx context.Context, wid id.WindowID, dir intent.Direction, index *int) (int, error) {
	return callErr(ctx, r, func(d *Desktop) (int, error) { return d.NavigateCard(wid, dir, index) })
}

// SetViewport resizes the desktop container
func (r *Runtime) SetViewport(ctx context.Context, v types.Viewport) error {
	return r.Do(ctx, func(d *Desktop) { d.SetViewport(v) })
}

// SetCognitive replaces the cognitive state
func (r *Runtime) SetCognitive(ctx context.Context, state types.CognitiveState) (types.CognitiveState, error) {
	return call(ctx, r, func(d *Desktop) types.CognitiveState { return d.SetCognitive(state) })
}

// Frame renders the desktop now
func (r *Runtime) Frame(ctx context.Context) (RenderFrame, error) {
	return call(ctx, r, func(d *Desktop) RenderFrame { return d.Frame(time.Now()) })
}

// Snapshot returns kernel state. The kernel guards its own fields, so
// this read doesn't queue behind the loop.
func (r *Runtime) Snapshot() types.Snapshot {
	return r.desk.kernel.Snapshot()
}

// Stats returns kernel statistics
func (r *Runtime) Stats() types.Stats {
	return r.desk.kernel.Stats()
}

// Cognitive returns the cognitive state
func (r *Runtime) Cognitive() types.CognitiveState {
	return r.desk.kernel.Cognitive()
}

// Subscribe returns a channel receiving a frame after every tick and a
// function that unsubscribes. Frames are dropped when the buffer is full.
func (r *Runtime) Subscribe(buffer int) (<-chan RenderFrame, func()) {
	if buffer <= 0 {
		buffer = DefaultSubscriberBuffer
	}
	ch := make(chan RenderFrame, buffer)

	r.subMu.Lock()
	key := r.nextSub
	r.nextSub++
	r.subs[key] = ch
	count := len(r.subs)
	r.subMu.Unlock()
	r.setSubscriberGauge(count)

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			r.subMu.Lock()
			if sub, ok := r.subs[key]; ok {
				delete(r.subs, key)
				close(sub)
			}
			count := len(r.subs)
			r.subMu.Unlock()
			r.setSubscriberGauge(count)
		})
	}
	return ch, cancel
}

func (r *Runtime) hasSubscribers() bool {
	r.subMu.Lock()
	defer r.subMu.Unlock()
	return len(r.subs) > 0
}

func (r *Runtime) publish(frame RenderFrame) {
	r.subMu.Lock()
	defer r.subMu.Unlock()

	for _, ch := range r.subs {
		select {
		case ch <- frame:
		default:
			if r.metrics != nil {
				r.metrics.IncFramesDropped()
			}
		}
	}
}

func (r *Runtime) closeSubscribers() {
	r.subMu.Lock()
	for key, ch := range r.subs {
		delete(r.subs, key)
		close(ch)
	}
	r.subMu.Unlock()
	r.setSubscriberGauge(0)
}

func (r *Runtime) setSubscriberGauge(count int) {
	if r.metrics != nil {
		r.metrics.SetFrameSubscribers(count)
	}
}
