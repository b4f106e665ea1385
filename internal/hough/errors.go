package hough

import "errors"

var (
	// ErrInvalidDimensions is returned when a buffer's pixel slice does not
	// match its declared size, or a destination buffer does not have the
	// dimensions a stage requires.
	ErrInvalidDimensions = errors.New("invalid buffer dimensions")

	// ErrDegenerateAccumulator is returned when normalizing a grid whose
	// cells are all zero.
	ErrDegenerateAccumulator = errors.New("degenerate accumulator: no votes")

	// ErrSingularGeometry is returned when a line's intercepts cannot be
	// solved because sin(angle) is zero.
	ErrSingularGeometry = errors.New("singular line geometry")

	// ErrInvalidThreshold is returned for thresholds outside [0, 1].
	ErrInvalidThreshold = errors.New("threshold must be within [0, 1]")

	// ErrUnknownMode is returned by ParseMode for unrecognized names.
	ErrUnknownMode = errors.New("unknown mode")
)
