package hough

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// Options configures a Pipeline.
type Options struct {
	// OverlayColor is the packed ARGB color lines are drawn in.
	OverlayColor uint32

	// InPlace copies the Line mode overlay back over the source buffer in
	// addition to returning it in Result.Overlay.
	InPlace bool

	// Logger receives per-stage debug events.
	Logger zerolog.Logger
}

// DefaultOptions returns opaque red lines, no source mutation and a disabled
// logger.
func DefaultOptions() Options {
	return Options{
		OverlayColor: DefaultOverlayColor,
		Logger:       zerolog.Nop(),
	}
}

// Pipeline runs the Hough stages selected by a Mode. It holds no state between
// calls and is safe for concurrent use on distinct buffers.
type Pipeline struct {
	opts Options
}

// New creates a pipeline with the given options.
func New(opts Options) *Pipeline {
	return &Pipeline{opts: opts}
}

// Result describes what a Run produced besides the destination pixels.
type Result struct {
	Mode Mode

	// Accumulator holds the raw votes (Accumulator mode and later).
	Accumulator *Grid

	// Peaks holds the filtered peak grid (Maximum mode and later).
	Peaks *Grid

	// Candidates is the number of surviving peaks (Maximum mode and later).
	Candidates int

	// Lines are the detected lines, strongest first (Line mode).
	Lines []Line

	// Overlay is a copy of the source with the lines drawn on it (Line mode).
	Overlay *PixelBuffer
}

// Run executes the pipeline with default options.
func Run(mode Mode, src, dst *PixelBuffer, threshold float64) (*Result, error) {
	return New(DefaultOptions()).Run(mode, src, dst, threshold)
}

// Run clears dst to opaque black and executes the stages mode selects.
//
//   - ModeEmpty: nothing else.
//   - ModeAccumulator: dst receives the normalized accumulator. dst must be
//     AngleDivisions x RadiusDivisions.
//   - ModeMaximum: dst receives the normalized peak grid. dst must be
//     AngleDivisions x RadiusDivisions. When no peak survives the threshold
//     dst stays black.
//   - ModeLine: the overlay is returned in Result.Overlay. dst receives the
//     peak image when it has accumulator dimensions and is otherwise left
//     black. With Options.InPlace the overlay also replaces the pixels of src.
//
// threshold is ignored by ModeEmpty and ModeAccumulator. A source without edge
// pixels yields ErrDegenerateAccumulator in every mode but ModeEmpty.
func (p *Pipeline) Run(mode Mode, src, dst *PixelBuffer, threshold float64) (*Result, error) {
	if err := dst.validate(); err != nil {
		return nil, fmt.Errorf("destination: %w", err)
	}
	dst.Fill(OpaqueBlack)

	result := &Result{Mode: mode}
	stages := mode.Stages()
	if stages == 0 {
		return result, nil
	}

	if err := src.validate(); err != nil {
		return nil, fmt.Errorf("source: %w", err)
	}
	if stages >= 2 {
		if err := validateThreshold(threshold); err != nil {
			return nil, err
		}
	}

	work := dst
	if !dst.SameSize(AngleDivisions, RadiusDivisions) {
		if mode != ModeLine {
			return nil, fmt.Errorf("%w: %s mode needs a %dx%d destination, got %dx%d",
				ErrInvalidDimensions, mode, AngleDivisions, RadiusDivisions, dst.Width, dst.Height)
		}
		work = NewPixelBuffer(AngleDivisions, RadiusDivisions)
		work.Fill(OpaqueBlack)
	}

	log := p.opts.Logger.With().Str("mode", mode.String()).Logger()

	start := time.Now()
	accu, err := BuildAccumulator(src)
	if err != nil {
		return nil, err
	}
	if err := Normalize(accu, work); err != nil {
		return nil, err
	}
	result.Accumulator = accu
	log.Debug().
		Int("width", src.Width).
		Int("height", src.Height).
		Int("votes", accu.Sum()).
		Dur("elapsed", time.Since(start)).
		Msg("accumulator built")

	if stages == 1 {
		return result, nil
	}

	start = time.Now()
	peaks, err := DetectPeaks(work, threshold)
	if err != nil {
		return nil, err
	}
	result.Peaks = peaks
	result.Candidates = peaks.NonZero()

	err = Normalize(peaks, work)
	switch {
	case errors.Is(err, ErrDegenerateAccumulator):
		work.Fill(OpaqueBlack)
	case err != nil:
		return nil, err
	}
	log.Debug().
		Float64("threshold", threshold).
		Int("candidates", result.Candidates).
		Dur("elapsed", time.Since(start)).
		Msg("peaks detected")

	if stages == 2 {
		return result, nil
	}

	start = time.Now()
	overlay, lines, err := RenderLines(src, work, p.opts.OverlayColor)
	if err != nil {
		return nil, err
	}
	result.Overlay = overlay
	result.Lines = lines
	if p.opts.InPlace {
		copy(src.Pix, overlay.Pix)
	}
	log.Debug().
		Int("lines", len(lines)).
		Bool("in_place", p.opts.InPlace).
		Dur("elapsed", time.Since(start)).
		Msg("lines rendered")

	return result, nil
}
