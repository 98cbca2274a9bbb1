// Package intent turns discrete desktop commands into kernel transitions.
//
// An Intent wraps one operation from a closed set (Op). Producers are the
// free-text Parse function and the JSON wire codec; the only consumer is
// Dispatcher, which switches exhaustively over the operation and reports
// the outcome as human-readable feedback rather than an error.
package intent

import "github.com/GriffinCanCode/SpatialOS/backend/internal/shared/types"

// Opcode names an operation on the wire
type Opcode string

const (
	OpOpenApp       Opcode = "OPEN_APP"
	OpCloseApp      Opcode = "CLOSE_APP"
	OpFocusWindow   Opcode = "FOCUS_WINDOW"
	OpSnapWindow    Opcode = "SNAP_WINDOW"
	OpTileWorkspace Opcode = "TILE_WORKSPACE"
	OpCleanDesktop  Opcode = "CLEAN_DESKTOP"
	OpNavigateStack Opcode = "NAVIGATE_STACK"
	OpUnknown       Opcode = "UNKNOWN"
)

// Source records who produced an intent
type Source string

const (
	SourceUser   Source = "user"
	SourceSystem Source = "system"
)

// Op is one desktop operation. The set is closed: only types in this
// package implement it.
type Op interface {
	Opcode() Opcode
	isOp()
}

// OpenApp focuses the first window running Target, or opens one
type OpenApp struct {
	Target types.AppID
}

// CloseApp closes the active window, or every window when All is set
type CloseApp struct {
	All bool
}

// FocusWindow focuses a window by app id or case-insensitive title
type FocusWindow struct {
	Target string
}

// SnapWindow moves the active window into a layout slot
type SnapWindow struct {
	Position SnapPosition
}

// TileWorkspace arranges every window in a grid
type TileWorkspace struct{}

// CleanDesktop minimises every window
type CleanDesktop struct{}

// NavigateStack moves the active window's card pointer
type NavigateStack struct {
	Direction Direction
}

// Unknown carries input no producer could classify
type Unknown struct {
	Raw string
}

func (OpenApp) Opcode() Opcode       { return OpOpenApp }
func (CloseApp) Opcode() Opcode      { return OpCloseApp }
func (FocusWindow) Opcode() Opcode   { return OpFocusWindow }
func (SnapWindow) Opcode() Opcode    { return OpSnapWindow }
func (TileWorkspace) Opcode() Opcode { return OpTileWorkspace }
func (CleanDesktop) Opcode() Opcode  { return OpCleanDesktop }
func (NavigateStack) Opcode() Opcode { return OpNavigateStack }
func (Unknown) Opcode() Opcode       { return OpUnknown }

func (OpenApp) isOp()       {}
func (CloseApp) isOp()      {}
func (FocusWindow) isOp()   {}
func (SnapWindow) isOp()    {}
func (TileWorkspace) isOp() {}
func (CleanDesktop) isOp()  {}
func (NavigateStack) isOp() {}
func (Unknown) isOp()       {}

// Direction is a relative card movement
type Direction string

const (
	Next Direction = "next"
	Prev Direction = "prev"
)

// Step returns +1 for Next and -1 for anything else
func (d Direction) Step() int {
	if d == Next {
		return 1
	}
	return -1
}

// Intent is a classified command. Confidence is advisory: dispatch never
// gates on it.
type Intent struct {
	Op         Op
	Source     Source
	Confidence float64
}

// New builds a user intent with full confidence
func New(op Op) Intent {
	return Intent{Op: op, Source: SourceUser, Confidence: 1}
}

// Opcode returns the operation's opcode, UNKNOWN for a nil op
func (i Intent) Opcode() Opcode {
	if i.Op == nil {
		return OpUnknown
	}
	return i.Op.Opcode()
}
