package hough

import (
	"fmt"
	"math"
)

// DetectPeaks applies a thresholded local-maximum filter to a normalized
// accumulator image.
//
// Values are read from the blue channel of normalized (R, G and B are equal in
// a Normalize output). A cell keeps its value in the returned grid when
//
//   - its value is strictly greater than threshold*255, and
//   - no cell inside the (2*FilterSize+1) square window centered on it holds a
//     strictly greater value.
//
// Every other cell is 0. Window positions outside the image compare as 0, so
// the image border never suppresses a peak. Equal neighbours do not suppress
// each other, which keeps plateaus intact.
//
// The threshold is compared in single precision, matching a float slider
// value. Thresholds outside [0, 1] return ErrInvalidThreshold.
//
// # Complexity
//
// The window maximum is computed with a separable sliding-window filter, so
// the cost is O(cells) independent of FilterSize.
func DetectPeaks(normalized *PixelBuffer, threshold float64) (*Grid, error) {
	if err := normalized.validate(); err != nil {
		return nil, err
	}
	if err := validateThreshold(threshold); err != nil {
		return nil, err
	}

	width, height := normalized.Width, normalized.Height
	values := make([]int, len(normalized.Pix))
	for i, c := range normalized.Pix {
		values[i] = int(Blue(c))
	}

	windowMax := maxFilter2D(values, width, height, FilterSize)
	limit := float32(threshold) * 255

	peaks := NewGrid(width, height)
	for i, v := range values {
		if float32(v) > limit && windowMax[i] <= v {
			peaks.Cells[i] = v
		}
	}
	return peaks, nil
}

func validateThreshold(threshold float64) error {
	if math.IsNaN(threshold) || threshold < 0 || threshold > 1 {
		return fmt.Errorf("%w: got %v", ErrInvalidThreshold, threshold)
	}
	return nil
}

// maxFilter2D returns, for every cell, the maximum over the square window of
// half size k clipped to the grid. Rows are filtered first, then columns.
func maxFilter2D(values []int, width, height, k int) []int {
	rows := make([]int, len(values))
	deque := make([]int, 0, max(width, height))
	for y := 0; y < height; y++ {
		off := y * width
		deque = maxFilter1D(values[off:off+width], rows[off:off+width], k, deque)
	}

	out := make([]int, len(values))
	col := make([]int, height)
	colOut := make([]int, height)
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			col[y] = rows[y*width+x]
		}
		deque = maxFilter1D(col, colOut, k, deque)
		for y := 0; y < height; y++ {
			out[y*width+x] = colOut[y]
		}
	}
	return out
}

// maxFilter1D writes max(in[i-k..i+k]) (clipped) to out[i] using a monotonic
// deque of indices. The deque's backing array is returned for reuse.
func maxFilter1D(in, out []int, k int, deque []int) []int {
	n := len(in)
	deque = deque[:0]
	head := 0
	for i := 0; i < n+k; i++ {
		if i < n {
			for len(deque) > head && in[deque[len(deque)-1]] <= in[i] {
				deque = deque[:len(deque)-1]
			}
			deque = append(deque, i)
		}
		c := i - k
		if c < 0 {
			continue
		}
		for deque[head] < c-k {
			head++
		}
		out[c] = in[deque[head]]
	}
	return deque
}
