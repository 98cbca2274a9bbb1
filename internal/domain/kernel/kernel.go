package kernel

import (
	"math/rand/v2"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/SpatialOS/backend/internal/domain/cognitive"
	"github.com/GriffinCanCode/SpatialOS/backend/internal/infrastructure/logging"
	"github.com/GriffinCanCode/SpatialOS/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/SpatialOS/backend/internal/shared/id"
	"github.com/GriffinCanCode/SpatialOS/backend/internal/shared/types"
)

const (
	DefaultWidth  = 700.0
	DefaultHeight = 500.0

	// SpawnJitter offsets new windows so repeated opens don't stack exactly
	SpawnJitter = 20.0

	// BootZIndex is the stacking order of the window seeded at boot
	BootZIndex = 10
)

// Listener observes window lifecycle. Callbacks run synchronously on the
// mutating goroutine after the kernel lock has been released.
type Listener interface {
	WindowOpened(win types.Window)
	WindowClosed(wid id.WindowID)
}

// Kernel manages window state
type Kernel struct {
	mu        sync.RWMutex
	windows   []*types.Window               // Creation order, protected by mu
	byID      map[id.WindowID]*types.Window // Protected by mu
	activeID  *id.WindowID                  // Protected by mu
	cognitive types.CognitiveState          // Protected by mu
	viewport  types.Viewport                // Protected by mu
	zHigh     int                           // Protected by mu

	listeners []Listener
	rng       *rand.Rand
	ids       *id.Generator
	logger    *logging.Logger
	metrics   *monitoring.Metrics
}

// New creates an empty kernel for the given viewport
func New(viewport types.Viewport) *Kernel {
	return &Kernel{
		byID:      make(map[id.WindowID]*types.Window),
		cognitive: cognitive.Default(),
		viewport:  viewport,
		rng:       rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		ids:       id.NewGenerator(),
		logger:    logging.NewNop(),
	}
}

// WithLogger sets the kernel's logger
func (k *Kernel) WithLogger(logger *logging.Logger) *Kernel {
	k.logger = logger.Component("kernel")
	return k
}

// WithMetrics adds metrics tracking to the kernel
func (k *Kernel) WithMetrics(metrics *monitoring.Metrics) *Kernel {
	k.metrics = metrics
	return k
}

// WithRand replaces the source of spawn jitter
func (k *Kernel) WithRand(rng *rand.Rand) *Kernel {
	k.rng = rng
	return k
}

// WithIDs replaces the window id generator
func (k *Kernel) WithIDs(gen *id.Generator) *Kernel {
	k.ids = gen
	return k
}

// AddListener registers a lifecycle observer. Not safe to call once the
// kernel is shared between goroutines.
func (k *Kernel) AddListener(l Listener) {
	k.listeners = append(k.listeners, l)
}

// OpenWindow spawns a new window for appID near the viewport centre and
// makes it active.
func (k *Kernel) OpenWindow(appID types.AppID) types.Window {
	k.mu.Lock()
	cx, cy := k.viewport.Center()
	win := &types.Window{
		ID:           k.ids.NewWindowID(),
		AppID:        appID,
		Title:        strings.ToUpper(string(appID)),
		ZIndex:       k.nextZ(),
		TargetX:      cx - DefaultWidth/2 + k.jitter(),
		TargetY:      cy - DefaultHeight/2 + k.jitter(),
		TargetWidth:  DefaultWidth,
		TargetHeight: DefaultHeight,
		TotalCards:   1,
	}
	k.insert(win)
	k.activeID = &win.ID
	opened := *win
	count := len(k.windows)
	k.mu.Unlock()

	k.logger.Info("Window opened",
		zap.String("window_id", opened.ID.String()),
		zap.String("app_id", string(appID)),
		zap.Int("z_index", opened.ZIndex))
	if k.metrics != nil {
		k.metrics.IncWindowsTotal()
		k.metrics.SetWindowsOpen(count)
	}
	for _, l := range k.listeners {
		l.WindowOpened(opened)
	}
	return opened
}

// UpdateWindow merges patch into the window. Unknown ids are ignored.
func (k *Kernel) UpdateWindow(wid id.WindowID, patch types.WindowPatch) bool {
	k.mu.Lock()
	defer k.mu.Unlock()

	win, ok := k.byID[wid]
	if !ok {
		return false
	}
	patch.Apply(win)
	normalizeCards(win)
	return true
}

// FocusWindow raises the window above every other and makes it active
func (k *Kernel) FocusWindow(wid id.WindowID) bool {
	k.mu.Lock()
	defer k.mu.Unlock()

	win, ok := k.byID[wid]
	if !ok {
		return false
	}
	win.ZIndex = k.nextZ()
	win.IsMinimized = false
	active := win.ID
	k.activeID = &active

	if k.metrics != nil {
		k.metrics.IncFocus()
	}
	return true
}

// CloseWindow removes a window, clearing the active id if it pointed there
func (k *Kernel) CloseWindow(wid id.WindowID) bool {
	k.mu.Lock()
	if _, ok := k.byID[wid]; !ok {
		k.mu.Unlock()
		return false
	}
	k.remove(wid)
	if k.activeID != nil && *k.activeID == wid {
		k.activeID = nil
	}
	count := len(k.windows)
	k.mu.Unlock()

	k.logger.Info("Window closed", zap.String("window_id", wid.String()))
	k.notifyClosed([]id.WindowID{wid}, count)
	return true
}

// CloseAll removes every window and clears the active id
func (k *Kernel) CloseAll() int {
	k.mu.Lock()
	closed := make([]id.WindowID, len(k.windows))
	for i, win := range k.windows {
		closed[i] = win.ID
	}
	k.windows = nil
	k.byID = make(map[id.WindowID]*types.Window)
	k.activeID = nil
	k.mu.Unlock()

	if len(closed) > 0 {
		k.logger.Info("All windows closed", zap.Int("count", len(closed)))
	}
	k.notifyClosed(closed, 0)
	return len(closed)
}

// MinimizeAll minimises every window. The active id is left unchanged.
func (k *Kernel) MinimizeAll() {
	k.mu.Lock()
	defer k.mu.Unlock()

	for _, win := range k.windows {
		win.IsMinimized = true
	}
}

// Window returns a copy of the window with the given id
func (k *Kernel) Window(wid id.WindowID) (types.Window, bool) {
	k.mu.RLock()
	defer k.mu.RUnlock()

	win, ok := k.byID[wid]
	if !ok {
		return types.Window{}, false
	}
	return *win, true
}

// Windows returns copies of every window in creation order
func (k *Kernel) Windows() []types.Window {
	k.mu.RLock()
	defer k.mu.RUnlock()

	return k.copyWindows()
}

// FindWindow returns the first window, in creation order, for which match
// reports true.
func (k *Kernel) FindWindow(match func(types.Window) bool) (types.Window, bool) {
	k.mu.RLock()
	defer k.mu.RUnlock()

	for _, win := range k.windows {
		if match(*win) {
			return *win, true
		}
	}
	return types.Window{}, false
}

// ActiveID returns the active window id, or nil
func (k *Kernel) ActiveID() *id.WindowID {
	k.mu.RLock()
	defer k.mu.RUnlock()

	if k.activeID == nil {
		return nil
	}
	active := *k.activeID
	return &active
}

// ActiveWindow returns a copy of the active window
func (k *Kernel) ActiveWindow() (types.Window, bool) {
	k.mu.RLock()
	defer k.mu.RUnlock()

	if k.activeID == nil {
		return types.Window{}, false
	}
	win, ok := k.byID[*k.activeID]
	if !ok {
		return types.Window{}, false
	}
	return *win, true
}

// Cognitive returns the global cognitive state
func (k *Kernel) Cognitive() types.CognitiveState {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return k.cognitive
}

// SetCognitive replaces the cognitive state, clamping every component
func (k *Kernel) SetCognitive(state types.CognitiveState) types.CognitiveState {
	k.mu.Lock()
	defer k.mu.Unlock()

	k.cognitive = state.Clamp()
	return k.cognitive
}

// Viewport returns the desktop container size
func (k *Kernel) Viewport() types.Viewport {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return k.viewport
}

// SetViewport resizes the desktop container. Existing targets are kept.
func (k *Kernel) SetViewport(v types.Viewport) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.viewport = v
}

// Stats returns kernel statistics
func (k *Kernel) Stats() types.Stats {
	k.mu.RLock()
	defer k.mu.RUnlock()

	stats := types.Stats{TotalWindows: len(k.windows)}
	for _, win := range k.windows {
		if win.IsMinimized {
			stats.MinimizedWindows++
		}
		if win.ZIndex > stats.TopZIndex {
			stats.TopZIndex = win.ZIndex
		}
	}
	if k.activeID != nil {
		active := *k.activeID
		stats.ActiveWindowID = &active
	}
	return stats
}

// Snapshot returns a consistent copy of all kernel state
func (k *Kernel) Snapshot() types.Snapshot {
	k.mu.RLock()
	defer k.mu.RUnlock()

	snap := types.Snapshot{
		Windows:   k.copyWindows(),
		Cognitive: k.cognitive,
		Viewport:  k.viewport,
	}
	if k.activeID != nil {
		active := *k.activeID
		snap.ActiveWindowID = &active
	}
	return snap
}

// Boot seeds the desktop with a single focused window for appID, centred
// in the viewport with the given card count, and resets cognitive state.
func (k *Kernel) Boot(appID types.AppID, cards int) types.Window {
	k.mu.Lock()
	cx, cy := k.viewport.Center()
	win := &types.Window{
		ID:           k.ids.NewWindowID(),
		AppID:        appID,
		Title:        strings.ToUpper(string(appID)),
		ZIndex:       BootZIndex,
		TargetX:      cx - DefaultWidth/2,
		TargetY:      cy - DefaultHeight/2,
		TargetWidth:  DefaultWidth,
		TargetHeight: DefaultHeight,
		TotalCards:   cards,
	}
	normalizeCards(win)
	if k.zHigh < BootZIndex {
		k.zHigh = BootZIndex
	} else {
		win.ZIndex = k.nextZ()
	}
	k.insert(win)
	k.activeID = &win.ID
	k.cognitive = cognitive.Default()
	booted := *win
	count := len(k.windows)
	k.mu.Unlock()

	k.logger.Info("Desktop booted",
		zap.String("window_id", booted.ID.String()),
		zap.String("app_id", string(appID)))
	if k.metrics != nil {
		k.metrics.IncWindowsTotal()
		k.metrics.SetWindowsOpen(count)
	}
	for _, l := range k.listeners {
		l.WindowOpened(booted)
	}
	return booted
}

// nextZ advances the high-water mark (must hold lock)
func (k *Kernel) nextZ() int {
	k.zHigh++
	return k.zHigh
}

// jitter returns a uniform offset in [-SpawnJitter, SpawnJitter) (must hold lock)
func (k *Kernel) jitter() float64 {
	return k.rng.Float64()*2*SpawnJitter - SpawnJitter
}

// insert appends a window (must hold lock)
func (k *Kernel) insert(win *types.Window) {
	k.windows = append(k.windows, win)
	k.byID[win.ID] = win
}

// remove deletes a window preserving order (must hold lock)
func (k *Kernel) remove(wid id.WindowID) {
	delete(k.byID, wid)
	for i, win := range k.windows {
		if win.ID == wid {
			k.windows = append(k.windows[:i], k.windows[i+1:]...)
			return
		}
	}
}

// copyWindows returns value copies (must hold lock)
func (k *Kernel) copyWindows() []types.Window {
	out := make([]types.Window, len(k.windows))
	for i, win := range k.windows {
		out[i] = *win
	}
	return out
}

func (k *Kernel) notifyClosed(closed []id.WindowID, remaining int) {
	if k.metrics != nil {
		k.metrics.SetWindowsOpen(remaining)
	}
	for _, wid := range closed {
		for _, l := range k.listeners {
			l.WindowClosed(wid)
		}
	}
}

// normalizeCards keeps the card pointer inside the stack
func normalizeCards(win *types.Window) {
	if win.TotalCards < 1 {
		win.TotalCards = 1
	}
	if win.CurrentCardIndex < 0 {
		win.CurrentCardIndex = 0
	}
	if win.CurrentCardIndex > win.TotalCards-1 {
		win.CurrentCardIndex = win.TotalCards - 1
	}
}
