// Package hough detects straight lines in binary edge images using the Hough
// line transform.
//
// The package implements a four stage pipeline over packed ARGB pixel buffers:
//
//  1. Accumulation: every edge pixel votes for all (angle, radius) pairs of the
//     lines passing through it (BuildAccumulator)
//  2. Normalization: the vote grid is rescaled to an 8-bit grayscale image
//     (Normalize)
//  3. Peak detection: a thresholded local-maximum filter keeps the dominant
//     votes (DetectPeaks)
//  4. Line rendering: every surviving peak is mapped back to a straight line
//     drawn over a copy of the source image (RenderLines)
//
// Run (or Pipeline.Run) executes the stages selected by a Mode, re-deriving
// every upstream stage on each call.
//
// # Edge Pixels
//
// The source is treated as a binary mask: a pixel is an edge pixel when its
// low 8 bits (the blue channel) equal exactly 255. Every other pixel is
// background. Use the imaging package to derive such a mask from an arbitrary
// picture.
//
// # Coordinate System
//
// Hough space is measured from the image center with the vertical axis flipped,
// so y increases upward:
//
//	xShift = x - width/2
//	yShift = -(y - height/2)
//	radius = xShift*cos(angle) + yShift*sin(angle)
//
// Radius spans [-maxRadius, +maxRadius] where maxRadius is half the image
// diagonal, discretized into RadiusDivisions buckets. Angle spans [0°, 180°)
// in AngleStep increments (AngleDivisions buckets).
//
// Grids and accumulator images are laid out with one column per angle bucket
// and one row per radius bucket, so a normalized accumulator is an image of
// AngleDivisions x RadiusDivisions pixels.
//
// # Errors
//
// Malformed input is reported with the sentinel errors in errors.go; callers
// should test for them with errors.Is.
package hough
