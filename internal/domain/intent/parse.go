package intent

import (
	"strings"

	"github.com/GriffinCanCode/SpatialOS/backend/internal/shared/types"
)

// Parse classifies a free-text command by keyword. The first matching
// rule wins; text matching nothing becomes Unknown with zero confidence.
func Parse(input string) Intent {
	cmd := strings.ToLower(strings.TrimSpace(input))
	has := func(words ...string) bool {
		for _, w := range words {
			if strings.Contains(cmd, w) {
				return true
			}
		}
		return false
	}

	switch {
	case has("open", "launch"):
		target := parseTarget(cmd)
		confidence := 0.5
		if target != "" {
			confidence = 0.95
		}
		return Intent{Op: OpenApp{Target: target}, Source: SourceUser, Confidence: confidence}

	case has("close"):
		return Intent{Op: CloseApp{All: has("all")}, Source: SourceUser, Confidence: 1.0}

	case has("snap"):
		// Later checks override earlier ones
		pos := SnapLeft
		if has("right") {
			pos = SnapRight
		}
		if has("top") {
			pos = SnapTop
		}
		if has("bottom") {
			pos = SnapBottom
		}
		if has("max", "full") {
			pos = SnapMaximize
		}
		return Intent{Op: SnapWindow{Position: pos}, Source: SourceUser, Confidence: 0.9}

	case has("tile"):
		return Intent{Op: TileWorkspace{}, Source: SourceUser, Confidence: 0.9}

	case has("clean", "desktop"):
		return Intent{Op: CleanDesktop{}, Source: SourceUser, Confidence: 0.9}

	case has("next", "prev"):
		dir := Prev
		if has("next") {
			dir = Next
		}
		return Intent{Op: NavigateStack{Direction: dir}, Source: SourceUser, Confidence: 0.9}
	}

	return Intent{Op: Unknown{Raw: input}, Source: SourceUser, Confidence: 0}
}

func parseTarget(cmd string) types.AppID {
	switch {
	case strings.Contains(cmd, "sport"):
		return types.AppSports
	case strings.Contains(cmd, "nil"):
		return types.AppNIL
	case strings.Contains(cmd, "creator"):
		return types.AppCreator
	case strings.Contains(cmd, "board"):
		return types.AppBoard
	}
	return ""
}
