package hough

import (
	"fmt"
	"strings"
)

// Mode selects how far through the pipeline Run goes.
type Mode int

const (
	// ModeEmpty clears the destination to opaque black.
	ModeEmpty Mode = iota
	// ModeAccumulator renders the normalized accumulator.
	ModeAccumulator
	// ModeMaximum renders the normalized peak grid.
	ModeMaximum
	// ModeLine draws the detected lines over the source image.
	ModeLine
)

// Modes lists every mode in pipeline order.
var Modes = []Mode{ModeEmpty, ModeAccumulator, ModeMaximum, ModeLine}

func (m Mode) String() string {
	switch m {
	case ModeEmpty:
		return "empty"
	case ModeAccumulator:
		return "accumulator"
	case ModeMaximum:
		return "maximum"
	case ModeLine:
		return "line"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Stages returns the number of pipeline stages the mode runs after clearing
// the destination: accumulate+normalize, peak detection, line rendering.
func (m Mode) Stages() int {
	switch m {
	case ModeAccumulator:
		return 1
	case ModeMaximum:
		return 2
	case ModeLine:
		return 3
	default:
		return 0
	}
}

// ParseMode parses a mode name case-insensitively. "lines" and "max" are
// accepted as aliases.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "empty", "":
		return ModeEmpty, nil
	case "accumulator", "accu":
		return ModeAccumulator, nil
	case "maximum", "max":
		return ModeMaximum, nil
	case "line", "lines":
		return ModeLine, nil
	default:
		return ModeEmpty, fmt.Errorf("%w: %q", ErrUnknownMode, s)
	}
}
