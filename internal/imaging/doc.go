// Package imaging bridges image files and the Hough pipeline.
//
// It loads and caches decoded images, derives binary edge masks from arbitrary
// pictures, crops and downsizes sources, converts between image.Image and the
// packed ARGB buffers of the hough package, and encodes results as PNG.
//
// # Coordinate System
//
// All pixel coordinates in this package are 0-based:
//   - X: horizontal position (0 = leftmost pixel)
//   - Y: vertical position (0 = topmost pixel)
//   - For regions, (x1,y1) is inclusive (top-left), (x2,y2) is exclusive (bottom-right)
//
// # Edge Masks
//
// The Hough pipeline treats a pixel as an edge pixel when its blue channel is
// exactly 255. EdgeMask produces grayscale images that satisfy this: edges are
// white (255) and everything else is black. Three methods are available:
//
//   - threshold: plain binarization of the luminance, for inputs that already
//     are line drawings
//   - sobel: Gaussian blur followed by the Sobel gradient magnitude and a
//     binarization level
//   - canny: gradient, non-maximum suppression and hysteresis thresholding,
//     producing one pixel wide edges
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. All other functions are
// stateless and do not modify their inputs.
//
// # Error Handling
//
// Functions return errors for invalid inputs such as:
//   - Regions outside image bounds or with x1 >= x2 or y1 >= y2
//   - Unknown edge methods or malformed colors
//   - File I/O errors during loading and saving
//   - Encoding errors during PNG output
package imaging
