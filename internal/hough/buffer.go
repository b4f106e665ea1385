package hough

import "fmt"

// PixelBuffer is a row-major grid of packed 32-bit ARGB pixels.
//
// The pixel at (x, y) is Pix[y*Width+x]. Bits 24-31 hold alpha, 16-23 red,
// 8-15 green and 0-7 blue.
type PixelBuffer struct {
	Pix    []uint32
	Width  int
	Height int
}

// NewPixelBuffer allocates a zeroed buffer of the given size.
func NewPixelBuffer(width, height int) *PixelBuffer {
	return &PixelBuffer{
		Pix:    make([]uint32, width*height),
		Width:  width,
		Height: height,
	}
}

// At returns the pixel at (x, y). It panics if the point is out of bounds.
func (b *PixelBuffer) At(x, y int) uint32 {
	return b.Pix[y*b.Width+x]
}

// Set stores c at (x, y). It panics if the point is out of bounds.
func (b *PixelBuffer) Set(x, y int, c uint32) {
	b.Pix[y*b.Width+x] = c
}

// InBounds reports whether (x, y) addresses a pixel of the buffer.
func (b *PixelBuffer) InBounds(x, y int) bool {
	return x >= 0 && x < b.Width && y >= 0 && y < b.Height
}

// Fill sets every pixel to c.
func (b *PixelBuffer) Fill(c uint32) {
	for i := range b.Pix {
		b.Pix[i] = c
	}
}

// Clone returns a deep copy of the buffer.
func (b *PixelBuffer) Clone() *PixelBuffer {
	pix := make([]uint32, len(b.Pix))
	copy(pix, b.Pix)
	return &PixelBuffer{Pix: pix, Width: b.Width, Height: b.Height}
}

// SameSize reports whether the buffer has exactly the given dimensions.
func (b *PixelBuffer) SameSize(width, height int) bool {
	return b.Width == width && b.Height == height
}

func (b *PixelBuffer) validate() error {
	if b == nil {
		return fmt.Errorf("%w: nil buffer", ErrInvalidDimensions)
	}
	if b.Width <= 0 || b.Height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, b.Width, b.Height)
	}
	if len(b.Pix) != b.Width*b.Height {
		return fmt.Errorf("%w: %d pixels for %dx%d", ErrInvalidDimensions, len(b.Pix), b.Width, b.Height)
	}
	return nil
}

// Gray packs an opaque grayscale pixel.
func Gray(v uint8) uint32 {
	g := uint32(v)
	return OpaqueBlack | g<<16 | g<<8 | g
}

// Blue extracts the low 8 bits of a pixel.
func Blue(c uint32) uint8 {
	return uint8(c & 0xFF)
}

// IsEdge reports whether a source pixel is an edge pixel.
func IsEdge(c uint32) bool {
	return c&0xFF == edgeValue
}

// Grid is a dense integer grid with one column per angle bucket and one row
// per radius bucket. It holds raw votes (accumulator) or filtered peak values.
type Grid struct {
	Cells  []int
	Width  int
	Height int
}

// NewGrid allocates a zeroed grid.
func NewGrid(width, height int) *Grid {
	return &Grid{
		Cells:  make([]int, width*height),
		Width:  width,
		Height: height,
	}
}

// At returns the cell in column x, row y.
func (g *Grid) At(x, y int) int {
	return g.Cells[y*g.Width+x]
}

// Set stores v in column x, row y.
func (g *Grid) Set(x, y, v int) {
	g.Cells[y*g.Width+x] = v
}

// Max returns the largest cell value, or 0 for an empty grid.
func (g *Grid) Max() int {
	m := 0
	for _, v := range g.Cells {
		if v > m {
			m = v
		}
	}
	return m
}

// ArgMax returns the column and row of the first cell holding the largest
// value.
func (g *Grid) ArgMax() (x, y int) {
	best := -1
	for i, v := range g.Cells {
		if v > best {
			best = v
			x, y = i%g.Width, i/g.Width
		}
	}
	return x, y
}

// Sum returns the total of all cells.
func (g *Grid) Sum() int {
	s := 0
	for _, v := range g.Cells {
		s += v
	}
	return s
}

// NonZero returns the number of cells with a positive value.
func (g *Grid) NonZero() int {
	n := 0
	for _, v := range g.Cells {
		if v > 0 {
			n++
		}
	}
	return n
}
