// Package server implements the MCP (Model Context Protocol) server for Hough
// line detection.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
//   - image_load: Load an image and get its metadata
//   - hough_edge_mask: Turn a picture into a binary edge mask
//   - hough_transform: Run the transform in empty, accumulator, maximum or
//     line mode and return the visible image with the detected lines
//
// hough_transform optionally crops, downscales and edge-masks the source
// first. A crop is either a rectangle or a region name such as "top-half".
// Without an edge method the image is used as it is and every pixel whose
// blue channel is 255 votes.
//
// # Defaults
//
// Threshold, overlay color and maximum dimension default to the values in
// config.Config, which are read from HOUGH_MCP_* environment variables.
//
// # Image Caching
//
// Decoded files are cached by path and re-read when their modification time or
// size changes. Transform results are never cached; every call recomputes
// every stage.
//
// # Error Handling
//
// Tool failures are returned as JSON-RPC error responses:
//   - -32602: malformed params, undecodable or invalid tool arguments. All
//     invalid arguments of a call are reported together.
//   - -32000: the tool ran and failed (unreadable file, no edge pixels, ...)
//
// The data field carries the Go error string.
package server
