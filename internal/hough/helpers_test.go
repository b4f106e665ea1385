package hough

import "math/rand"

const white uint32 = 0xFFFFFFFF

// blankImage returns an opaque black width x height buffer.
func blankImage(width, height int) *PixelBuffer {
	b := NewPixelBuffer(width, height)
	b.Fill(OpaqueBlack)
	return b
}

// rowImage returns a black image with a single white row at y.
func rowImage(width, height, y int) *PixelBuffer {
	b := blankImage(width, height)
	for x := 0; x < width; x++ {
		b.Set(x, y, white)
	}
	return b
}

// columnImage returns a black image with a single white column at x.
func columnImage(width, height, x int) *PixelBuffer {
	b := blankImage(width, height)
	for y := 0; y < height; y++ {
		b.Set(x, y, white)
	}
	return b
}

// accumulatorImage returns a black AngleDivisions x RadiusDivisions buffer.
func accumulatorImage() *PixelBuffer {
	return blankImage(AngleDivisions, RadiusDivisions)
}

// randomGrayImage fills an accumulator sized buffer with random gray values.
// Small ranges produce many plateaus.
func randomGrayImage(seed int64, levels int) *PixelBuffer {
	rng := rand.New(rand.NewSource(seed))
	b := accumulatorImage()
	for i := range b.Pix {
		b.Pix[i] = Gray(uint8(rng.Intn(levels)))
	}
	return b
}

// naivePeaks is the reference double loop the sliding filter must match.
func naivePeaks(normalized *PixelBuffer, threshold float64) *Grid {
	w, h := normalized.Width, normalized.Height
	peaks := NewGrid(w, h)
	limit := float32(threshold) * 255
	for r := 0; r < h; r++ {
		for a := 0; a < w; a++ {
			v := int(Blue(normalized.At(a, r)))
			if !(float32(v) > limit) {
				continue
			}
			isMax := true
			for y := -FilterSize; y <= FilterSize && isMax; y++ {
				for x := -FilterSize; x <= FilterSize && isMax; x++ {
					comparator := 0
					if normalized.InBounds(a+x, r+y) {
						comparator = int(Blue(normalized.At(a+x, r+y)))
					}
					if comparator > v {
						isMax = false
					}
				}
			}
			if isMax {
				peaks.Set(a, r, v)
			}
		}
	}
	return peaks
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
