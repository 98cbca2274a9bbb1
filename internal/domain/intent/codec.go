package intent

import (
	"errors"
	"fmt"

	"github.com/bytedance/sonic"

	"github.com/GriffinCanCode/SpatialOS/backend/internal/shared/types"
	"github.com/GriffinCanCode/SpatialOS/backend/internal/shared/vecmath"
)

// ErrInvalidIntent is returned when a wire intent cannot be decoded
var ErrInvalidIntent = errors.New("invalid intent")

const (
	closeAll     = "all"
	closeFocused = "focused"
)

// wireIntent is the JSON form exchanged with renderers:
// {"opcode":"OPEN_APP","args":{"target":"sports"},"source":"user","confidence":0.95}
type wireIntent struct {
	Opcode     Opcode   `json:"opcode"`
	Args       wireArgs `json:"args"`
	Source     Source   `json:"source,omitempty"`
	Confidence *float64 `json:"confidence,omitempty"`
}

type wireArgs struct {
	Target    string `json:"target,omitempty"`
	Position  string `json:"position,omitempty"`
	Direction string `json:"direction,omitempty"`
	Raw       string `json:"raw,omitempty"`
}

// MarshalJSON encodes the intent in wire form
func (i Intent) MarshalJSON() ([]byte, error) {
	w := wireIntent{
		Opcode:     i.Opcode(),
		Source:     i.Source,
		Confidence: &i.Confidence,
	}
	switch op := i.Op.(type) {
	case OpenApp:
		w.Args.Target = string(op.Target)
	case CloseApp:
		w.Args.Target = closeFocused
		if op.All {
			w.Args.Target = closeAll
		}
	case FocusWindow:
		w.Args.Target = op.Target
	case SnapWindow:
		w.Args.Position = string(op.Position)
	case NavigateStack:
		w.Args.Direction = string(op.Direction)
	case Unknown:
		w.Args.Raw = op.Raw
	}
	return sonic.Marshal(w)
}

// UnmarshalJSON decodes the wire form. Unrecognised opcodes decode to
// Unknown so dispatch can report them; missing source defaults to user
// and missing confidence to 1.
func (i *Intent) UnmarshalJSON(data []byte) error {
	var w wireIntent
	if err := sonic.Unmarshal(data, &w); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidIntent, err)
	}
	if w.Opcode == "" {
		return fmt.Errorf("%w: missing opcode", ErrInvalidIntent)
	}

	switch w.Source {
	case "":
		w.Source = SourceUser
	case SourceUser, SourceSystem:
	default:
		return fmt.Errorf("%w: unknown source %q", ErrInvalidIntent, w.Source)
	}

	confidence := 1.0
	if w.Confidence != nil {
		confidence = *w.Confidence
	}

	*i = Intent{
		Op:         w.op(),
		Source:     w.Source,
		Confidence: vecmath.Clamp(confidence, 0, 1),
	}
	return nil
}

func (w wireIntent) op() Op {
	switch w.Opcode {
	case OpOpenApp:
		return OpenApp{Target: types.AppID(w.Args.Target)}
	case OpCloseApp:
		return CloseApp{All: w.Args.Target == closeAll}
	case OpFocusWindow:
		return FocusWindow{Target: w.Args.Target}
	case OpSnapWindow:
		return SnapWindow{Position: SnapPosition(w.Args.Position)}
	case OpTileWorkspace:
		return TileWorkspace{}
	case OpCleanDesktop:
		return CleanDesktop{}
	case OpNavigateStack:
		return NavigateStack{Direction: Direction(w.Args.Direction)}
	case OpUnknown:
		return Unknown{Raw: w.Args.Raw}
	default:
		return Unknown{Raw: string(w.Opcode)}
	}
}

// Decode parses a wire intent
func Decode(data []byte) (Intent, error) {
	var in Intent
	if err := in.UnmarshalJSON(data); err != nil {
		return Intent{}, err
	}
	return in, nil
}
