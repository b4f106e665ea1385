package hough

import (
	"errors"
	"fmt"
	"image"
	"math"
	"sort"
)

// LineCandidate is a surviving peak: one (angle, radius) cell of the peak
// image.
type LineCandidate struct {
	// AngleBucket is the column of the peak, in [0, AngleDivisions).
	AngleBucket int

	// RadiusBucket is the row of the peak, in [0, RadiusDivisions).
	RadiusBucket int

	// Value is the peak's normalized intensity (1-255).
	Value int
}

// Line is a detected line mapped back into raster coordinates of the source
// image.
type Line struct {
	AngleDegrees float64     `json:"angle_degrees"`
	Radius       float64     `json:"radius"`
	Value        int         `json:"value"`
	Start        image.Point `json:"start"`
	End          image.Point `json:"end"`
	Vertical     bool        `json:"vertical"`
}

// Candidates returns one LineCandidate per pixel of peaks whose blue channel
// is non-zero, sorted by value (strongest first) and then by raster order.
func Candidates(peaks *PixelBuffer) []LineCandidate {
	candidates := make([]LineCandidate, 0)
	for i, c := range peaks.Pix {
		if v := Blue(c); v > 0 {
			candidates = append(candidates, LineCandidate{
				AngleBucket:  i % peaks.Width,
				RadiusBucket: i / peaks.Width,
				Value:        int(v),
			})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Value > candidates[j].Value
	})
	return candidates
}

// Angle returns the candidate's angle in radians.
func (c LineCandidate) Angle() float64 {
	return AngleRadians(c.AngleBucket)
}

// Radius returns the candidate's signed distance from the image center.
func (c LineCandidate) Radius(maxRadius float64) float64 {
	return BucketRadius(c.RadiusBucket, maxRadius)
}

// Line converts the candidate into a segment across a width x height image.
//
// The segment runs from the left edge (x = 0) to the right edge (x = width)
// through the intercepts solved by Intercepts. Near-vertical candidates, for
// which Intercepts reports ErrSingularGeometry, become a vertical segment from
// (x, 0) to (x, height) at x = radius/cos(angle) + width/2.
func (c LineCandidate) Line(width, height int) (Line, error) {
	maxRadius := MaxRadius(width, height)
	angle := c.Angle()
	radius := c.Radius(maxRadius)

	line := Line{
		AngleDegrees: AngleDegrees(c.AngleBucket),
		Radius:       radius,
		Value:        c.Value,
	}

	y1, y2, err := Intercepts(angle, radius, width, height)
	switch {
	case err == nil:
		line.Start = image.Pt(0, y1)
		line.End = image.Pt(width, y2)
	case errors.Is(err, ErrSingularGeometry):
		x := int(radius/math.Cos(angle)) + width/2
		line.Start = image.Pt(x, 0)
		line.End = image.Pt(x, height)
		line.Vertical = true
	default:
		return Line{}, err
	}
	return line, nil
}

// Intercepts solves the polar line equation radius = x*cos + y*sin at the
// left (x = -width/2) and right (x = width/2) image edges and returns the raster
// rows of both intersections. Intermediate values are truncated toward zero.
//
// It returns ErrSingularGeometry when sin(angle) is zero, i.e. the line is
// vertical and never meets those edges at a finite row.
func Intercepts(angle, radius float64, width, height int) (y1, y2 int, err error) {
	sin := math.Sin(angle)
	if math.Abs(sin) < singularSine {
		return 0, 0, fmt.Errorf("%w: angle %.2f°", ErrSingularGeometry, angle*180/math.Pi)
	}
	cos := math.Cos(angle)

	left := float64(-width / 2)
	right := float64(width / 2)
	y1 = int((radius - left*cos) / sin)
	y2 = int((radius - right*cos) / sin)

	return -y1 + height/2, -y2 + height/2, nil
}

// RenderLines draws one line per surviving peak of peaks onto a copy of src.
//
// peaks is a peak image as produced by normalizing the DetectPeaks grid; any
// pixel with a non-zero blue channel is a line candidate. The copy is returned
// together with the lines, strongest first. src is not modified.
func RenderLines(src, peaks *PixelBuffer, overlay uint32) (*PixelBuffer, []Line, error) {
	if err := src.validate(); err != nil {
		return nil, nil, err
	}
	if err := peaks.validate(); err != nil {
		return nil, nil, err
	}

	out := src.Clone()
	candidates := Candidates(peaks)
	lines := make([]Line, 0, len(candidates))

	for _, c := range candidates {
		line, err := c.Line(src.Width, src.Height)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to map candidate (%d,%d): %w", c.AngleBucket, c.RadiusBucket, err)
		}
		DrawLine(out, line.Start, line.End, overlay)
		lines = append(lines, line)
	}

	return out, lines, nil
}
