package hough

import (
	"math"
)

// MaxRadius returns half the diagonal of a width x height image, the largest
// distance any pixel can have from the image center.
func MaxRadius(width, height int) float64 {
	return math.Sqrt(float64(width*width+height*height)) / 2
}

// AngleDegrees returns the angle of bucket a in degrees.
func AngleDegrees(a int) float64 {
	return float64(a) * AngleStep
}

// AngleRadians returns the angle of bucket a in radians.
func AngleRadians(a int) float64 {
	return AngleDegrees(a) * math.Pi / 180
}

// RadiusBucket maps a center-relative radius in [-maxRadius, maxRadius] to a
// bucket in [0, RadiusDivisions). Values on or beyond the extremes are
// clamped into range.
func RadiusBucket(radius, maxRadius float64) int {
	half := float64(RadiusDivisions) / 2
	bucket := int(radius/maxRadius*half + half)
	if bucket < 0 {
		return 0
	}
	if bucket >= RadiusDivisions {
		return RadiusDivisions - 1
	}
	return bucket
}

// BucketRadius is the inverse of RadiusBucket: it returns the radius, in
// pixels from the image center, that bucket r stands for.
func BucketRadius(r int, maxRadius float64) float64 {
	half := float64(RadiusDivisions) / 2
	return (float64(r) - half) / half * maxRadius
}

// BuildAccumulator scans src for edge pixels and votes for every line through
// each of them.
//
// The returned grid has AngleDivisions columns and RadiusDivisions rows. Each
// edge pixel contributes exactly one vote per angle bucket, so the grid total
// is AngleDivisions times the number of edge pixels.
//
// # Algorithm
//
// For an edge pixel at raster (x, y) the center-relative, y-up coordinates are
//
//	xShift = x - width/2
//	yShift = -(y - height/2)
//
// and for every angle bucket a the radius of the line through the pixel is
//
//	radius = xShift*cos(a) + yShift*sin(a)
//
// which is mapped linearly onto [0, RadiusDivisions) by RadiusBucket.
//
// # Complexity
//
// O(width * height * AngleDivisions). This is the dominant cost of the
// pipeline.
func BuildAccumulator(src *PixelBuffer) (*Grid, error) {
	if err := src.validate(); err != nil {
		return nil, err
	}

	accu := NewGrid(AngleDivisions, RadiusDivisions)
	maxRadius := MaxRadius(src.Width, src.Height)
	cos, sin := angleTables()

	for y := 0; y < src.Height; y++ {
		yShift := float64(-(y - src.Height/2))
		row := src.Pix[y*src.Width : (y+1)*src.Width]
		for x, c := range row {
			if !IsEdge(c) {
				continue
			}
			xShift := float64(x - src.Width/2)
			for a := 0; a < AngleDivisions; a++ {
				r := RadiusBucket(xShift*cos[a]+yShift*sin[a], maxRadius)
				accu.Cells[r*AngleDivisions+a]++
			}
		}
	}

	return accu, nil
}

// angleTables returns cos and sin for every angle bucket.
func angleTables() (cos, sin []float64) {
	cos = make([]float64, AngleDivisions)
	sin = make([]float64, AngleDivisions)
	for a := range cos {
		angle := AngleRadians(a)
		cos[a] = math.Cos(angle)
		sin[a] = math.Sin(angle)
	}
	return cos, sin
}
