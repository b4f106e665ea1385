package hough

// Hough space layout.
const (
	// RadiusDivisions is the number of radius buckets (grid rows).
	RadiusDivisions = 500

	// AngleDivisions is the number of angle buckets (grid columns).
	AngleDivisions = 360

	// AngleStep is the width of one angle bucket in degrees.
	AngleStep = 0.5

	// FilterSize is the half size of the peak filter window. The window spans
	// 2*FilterSize+1 cells in each direction.
	FilterSize = 10
)

// Pixel values.
const (
	// OpaqueBlack is the value every destination buffer is cleared to.
	OpaqueBlack uint32 = 0xFF000000

	// DefaultOverlayColor is opaque red.
	DefaultOverlayColor uint32 = 0xFFFF0000

	edgeValue = 0xFF
)

// singularSine is the magnitude below which sin(angle) is treated as zero
// when solving line intercepts.
const singularSine = 1e-9
