package hough

import "fmt"

// Normalize rescales g to [0, 255] and writes it into dst as opaque grayscale
// pixels.
//
// Each cell becomes int(cell / max * 255), so the brightest pixel is exactly
// 255. dst must have the same dimensions as g. Negative cells are written as
// black.
//
// A grid without any positive cell cannot be scaled and yields
// ErrDegenerateAccumulator; dst is left untouched in that case.
func Normalize(g *Grid, dst *PixelBuffer) error {
	if err := dst.validate(); err != nil {
		return err
	}
	if len(g.Cells) != g.Width*g.Height || !dst.SameSize(g.Width, g.Height) {
		return fmt.Errorf("%w: grid %dx%d, destination %dx%d",
			ErrInvalidDimensions, g.Width, g.Height, dst.Width, dst.Height)
	}

	max := g.Max()
	if max == 0 {
		return ErrDegenerateAccumulator
	}

	scale := float64(max)
	for i, v := range g.Cells {
		if v <= 0 {
			dst.Pix[i] = Gray(0)
			continue
		}
		dst.Pix[i] = Gray(uint8(int(float64(v) / scale * 255)))
	}
	return nil
}
