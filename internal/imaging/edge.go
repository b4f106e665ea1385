package imaging

import (
	"fmt"
	"image"
	"math"
	"strings"

	"github.com/anthonynsimon/bild/blur"
	"github.com/anthonynsimon/bild/convolution"
	"github.com/anthonynsimon/bild/effect"
	"github.com/anthonynsimon/bild/segment"
	"github.com/disintegration/imaging"
)

// EdgeMethod names an edge mask algorithm.
type EdgeMethod string

const (
	// EdgeThreshold binarizes the luminance at Level.
	EdgeThreshold EdgeMethod = "threshold"
	// EdgeSobel binarizes the Sobel gradient magnitude at Level.
	EdgeSobel EdgeMethod = "sobel"
	// EdgeCanny runs Canny-style detection with Low and High.
	EdgeCanny EdgeMethod = "canny"
)

// ParseEdgeMethod parses a method name. The empty string selects
// EdgeThreshold.
func ParseEdgeMethod(s string) (EdgeMethod, error) {
	switch m := EdgeMethod(strings.ToLower(strings.TrimSpace(s))); m {
	case "":
		return EdgeThreshold, nil
	case EdgeThreshold, EdgeSobel, EdgeCanny:
		return m, nil
	default:
		return "", fmt.Errorf("unknown edge method: %s", s)
	}
}

// EdgeOptions configures EdgeMask.
type EdgeOptions struct {
	// Method selects the algorithm.
	Method EdgeMethod

	// Level is the binarization level (0-255) for EdgeThreshold and
	// EdgeSobel. Pixels at or above Level become edges.
	Level uint8

	// BlurRadius is the Gaussian blur radius applied before EdgeSobel and
	// EdgeCanny. Zero disables blurring.
	BlurRadius float64

	// Invert flips the image before any method runs. EdgeThreshold marks
	// bright pixels, so dark drawings on a light background need it.
	Invert bool

	// Low and High are the hysteresis thresholds (0-255) for EdgeCanny.
	Low  int
	High int
}

// DefaultEdgeOptions returns options suitable for clean diagrams.
func DefaultEdgeOptions() EdgeOptions {
	return EdgeOptions{
		Method:     EdgeThreshold,
		Level:      128,
		BlurRadius: 1.0,
		Low:        50,
		High:       150,
	}
}

// EdgeMask derives a binary edge mask from img.
//
// The result is a grayscale image with the same size as img and its origin at
// (0, 0); edges are 255 and everything else is 0, so converting it with
// ToPixelBuffer yields pixels the Hough pipeline treats as edge pixels.
func EdgeMask(img image.Image, opts EdgeOptions) (*image.Gray, error) {
	if opts.Invert {
		img = effect.Invert(img)
	}

	switch opts.Method {
	case EdgeThreshold, "":
		return segment.Threshold(imaging.Clone(img), opts.Level), nil

	case EdgeSobel:
		var src image.Image = imaging.Clone(img)
		if opts.BlurRadius > 0 {
			src = blur.Gaussian(src, opts.BlurRadius)
		}
		return segment.Threshold(effect.Sobel(src), opts.Level), nil

	case EdgeCanny:
		if opts.Low < 0 || opts.High > 255 || opts.Low > opts.High {
			return nil, fmt.Errorf("invalid canny thresholds: low=%d high=%d", opts.Low, opts.High)
		}
		return canny(img, opts.BlurRadius, opts.Low, opts.High), nil

	default:
		return nil, fmt.Errorf("unknown edge method: %s", opts.Method)
	}
}

// CountEdges returns the number of edge (non-zero) pixels in a mask.
func CountEdges(mask *image.Gray) int {
	n := 0
	bounds := mask.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			if mask.GrayAt(x, y).Y > 0 {
				n++
			}
		}
	}
	return n
}

// Sobel kernels for the horizontal and vertical gradient.
var (
	sobelX = &convolution.Kernel{
		Matrix: []float64{
			-1, 0, 1,
			-2, 0, 2,
			-1, 0, 1,
		},
		Width:  3,
		Height: 3,
	}
	sobelY = &convolution.Kernel{
		Matrix: []float64{
			-1, -2, -1,
			0, 0, 0,
			1, 2, 1,
		},
		Width:  3,
		Height: 3,
	}
)

// canny performs Canny-style edge detection: grayscale, Gaussian blur with
// blurRadius, Sobel gradients, non-maximum suppression and hysteresis.
//
// Gradient magnitudes are in 8-bit gray units, so a full black to white step
// measures 4*255. Pixels at or above high are strong edges; pixels between
// low and high survive only next to a strong edge.
//
// One pixel wide edges matter here: every edge pixel votes once per angle, so
// thick edges smear the accumulator peaks.
func canny(img image.Image, blurRadius float64, low, high int) *image.Gray {
	var src image.Image = effect.Grayscale(imaging.Clone(img))
	if blurRadius > 0 {
		src = blur.Gaussian(src, blurRadius)
	}

	bounds := src.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	gx := gradient(src, sobelX)
	gy := gradient(src, sobelY)

	magnitude := make([]float64, len(gx))
	for i := range gx {
		magnitude[i] = math.Hypot(gx[i], gy[i])
	}

	suppressed := make([]float64, len(magnitude))
	for y := 1; y < height-1; y++ {
		for x := 1; x < width-1; x++ {
			i := y*width + x
			dx, dy := neighborStep(math.Atan2(gy[i], gx[i]))
			m := magnitude[i]
			if m >= magnitude[i+dy*width+dx] && m >= magnitude[i-dy*width-dx] {
				suppressed[i] = m
			}
		}
	}

	result := image.NewGray(image.Rect(0, 0, width, height))
	lowThresh, highThresh := float64(low), float64(high)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			v := suppressed[y*width+x]
			if v <= 0 || v < lowThresh {
				continue
			}
			if v >= highThresh || hasStrongNeighbor(suppressed, x, y, width, height, highThresh) {
				result.Pix[y*result.Stride+x] = 255
			}
		}
	}
	return result
}

// gradient convolves the gray channel of img with k and returns the signed
// response per pixel in row-major order.
//
// convolution.Convolve clamps its output to [0, 255], so the positive and
// negative halves are taken separately with a kernel scaled by 1/4, which
// keeps both within range.
func gradient(img image.Image, k *convolution.Kernel) []float64 {
	pos := convolution.NewKernel(k.Width, k.Height)
	neg := convolution.NewKernel(k.Width, k.Height)
	for i, v := range k.Matrix {
		pos.Matrix[i] = v / 4
		neg.Matrix[i] = -v / 4
	}

	opts := &convolution.Options{KeepAlpha: true}
	p := convolution.Convolve(img, pos, opts)
	n := convolution.Convolve(img, neg, opts)

	out := make([]float64, len(p.Pix)/4)
	for i := range out {
		out[i] = 4 * (float64(p.Pix[i*4]) - float64(n.Pix[i*4]))
	}
	return out
}

// neighborStep quantizes a gradient direction to one of four pixel steps.
// The two neighbors compared during suppression are at +step and -step.
func neighborStep(angle float64) (dx, dy int) {
	if angle < 0 {
		angle += math.Pi
	}
	switch {
	case angle < math.Pi/8 || angle >= 7*math.Pi/8:
		return 1, 0
	case angle < 3*math.Pi/8:
		return 1, 1
	case angle < 5*math.Pi/8:
		return 0, 1
	default:
		return -1, 1
	}
}

func hasStrongNeighbor(suppressed []float64, x, y, width, height int, highThresh float64) bool {
	for ny := y - 1; ny <= y+1; ny++ {
		for nx := x - 1; nx <= x+1; nx++ {
			if nx < 0 || ny < 0 || nx >= width || ny >= height {
				continue
			}
			if suppressed[ny*width+nx] >= highThresh {
				return true
			}
		}
	}
	return false
}
