package hough

import (
	"image"
	"math"
)

// DrawLine rasterizes the segment p0-p1 into b with Bresenham's algorithm.
//
// The segment is clipped to the buffer first, so endpoints may lie far outside
// the image without cost. Both endpoints are drawn when visible.
func DrawLine(b *PixelBuffer, p0, p1 image.Point, c uint32) {
	x0, y0, x1, y1, ok := clipSegment(
		float64(p0.X), float64(p0.Y), float64(p1.X), float64(p1.Y),
		0, 0, float64(b.Width-1), float64(b.Height-1),
	)
	if !ok {
		return
	}

	ix0, iy0 := int(math.Round(x0)), int(math.Round(y0))
	ix1, iy1 := int(math.Round(x1)), int(math.Round(y1))

	dx := abs(ix1 - ix0)
	dy := -abs(iy1 - iy0)
	sx, sy := 1, 1
	if ix0 > ix1 {
		sx = -1
	}
	if iy0 > iy1 {
		sy = -1
	}

	e := dx + dy
	for {
		if b.InBounds(ix0, iy0) {
			b.Pix[iy0*b.Width+ix0] = c
		}
		if ix0 == ix1 && iy0 == iy1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			ix0 += sx
		}
		if e2 <= dx {
			e += dx
			iy0 += sy
		}
	}
}

// clipSegment clips a segment to the rectangle [xmin, xmax] x [ymin, ymax]
// (Liang-Barsky). ok is false when no part of the segment is inside.
func clipSegment(x0, y0, x1, y1, xmin, ymin, xmax, ymax float64) (cx0, cy0, cx1, cy1 float64, ok bool) {
	dx, dy := x1-x0, y1-y0
	t0, t1 := 0.0, 1.0

	p := [4]float64{-dx, dx, -dy, dy}
	q := [4]float64{x0 - xmin, xmax - x0, y0 - ymin, ymax - y0}

	for i := range p {
		if p[i] == 0 {
			if q[i] < 0 {
				return 0, 0, 0, 0, false
			}
			continue
		}
		t := q[i] / p[i]
		if p[i] < 0 {
			if t > t1 {
				return 0, 0, 0, 0, false
			}
			if t > t0 {
				t0 = t
			}
		} else {
			if t < t0 {
				return 0, 0, 0, 0, false
			}
			if t < t1 {
				t1 = t
			}
		}
	}

	return x0 + t0*dx, y0 + t0*dy, x0 + t1*dx, y0 + t1*dy, true
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
