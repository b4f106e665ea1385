package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/ironsheep/hough-tools-mcp/internal/config"
	"github.com/ironsheep/hough-tools-mcp/internal/hough"
	"github.com/ironsheep/hough-tools-mcp/internal/imaging"
)

// bandImage creates a black image with white rows [y0, y1).
func bandImage(width, height, y0, y1 int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c := color.RGBA{0, 0, 0, 255}
			if y >= y0 && y < y1 {
				c = color.RGBA{255, 255, 255, 255}
			}
			img.Set(x, y, c)
		}
	}
	return img
}

// writeBandImage writes bandImage as a PNG and returns its path.
func writeBandImage(t *testing.T, width, height, y0, y1 int) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "band.png")
	writeImage(t, path, bandImage(width, height, y0, y1))
	return path
}

// writeImage encodes img as a PNG at path, replacing any existing file.
func writeImage(t *testing.T, path string, img image.Image) {
	t.Helper()

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create file: %v", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		t.Fatalf("failed to encode image: %v", err)
	}
}

// callTool runs a tools/call request through the request router.
func callTool(t *testing.T, s *Server, name string, args map[string]interface{}) *MCPResponse {
	t.Helper()

	paramsJSON, err := json.Marshal(map[string]interface{}{
		"name":      name,
		"arguments": args,
	})
	if err != nil {
		t.Fatalf("failed to marshal params: %v", err)
	}

	resp := s.handleRequest(&MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "tools/call",
		Params:  paramsJSON,
	})
	if resp == nil {
		t.Fatal("handleRequest returned nil")
	}
	return resp
}

// decodeResult unmarshals the text content of a successful tool response.
func decodeResult(t *testing.T, resp *MCPResponse, v interface{}) {
	t.Helper()

	if resp.Error != nil {
		t.Fatalf("Unexpected error: %+v", resp.Error)
	}
	result, ok := resp.Result.(map[string]interface{})
	if !ok {
		t.Fatal("Result should be a map")
	}
	content, ok := result["content"].([]map[string]interface{})
	if !ok || len(content) != 1 {
		t.Fatalf("unexpected content: %v", result["content"])
	}
	text, _ := content[0]["text"].(string)
	if err := json.Unmarshal([]byte(text), v); err != nil {
		t.Fatalf("failed to decode tool result: %v", err)
	}
}

// decodePNG decodes a base64 PNG from a tool result.
func decodePNG(t *testing.T, b64 string) image.Image {
	t.Helper()

	data, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		t.Fatalf("failed to decode base64: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("failed to decode PNG: %v", err)
	}
	return img
}

func expectError(t *testing.T, resp *MCPResponse, code int, fragments ...string) {
	t.Helper()

	if resp.Error == nil {
		t.Fatal("expected an error response")
	}
	if resp.Error.Code != code {
		t.Errorf("Error code: got %d, want %d (%v)", resp.Error.Code, code, resp.Error.Data)
	}
	data, _ := resp.Error.Data.(string)
	for _, f := range fragments {
		if !strings.Contains(data, f) {
			t.Errorf("error data %q does not mention %q", data, f)
		}
	}
}

func TestHandleToolsCall_ImageLoad(t *testing.T) {
	s := newTestServer()
	path := writeBandImage(t, 100, 80, 40, 41)

	var info struct {
		Width             int    `json:"width"`
		Height            int    `json:"height"`
		Format            string `json:"format"`
		AccumulatorWidth  int    `json:"accumulator_width"`
		AccumulatorHeight int    `json:"accumulator_height"`
	}
	decodeResult(t, callTool(t, s, "image_load", map[string]interface{}{"path": path}), &info)

	if info.Width != 100 || info.Height != 80 {
		t.Errorf("dimensions: got %dx%d, want 100x80", info.Width, info.Height)
	}
	if info.Format != "png" {
		t.Errorf("Format: got %s, want png", info.Format)
	}
	if info.AccumulatorWidth != hough.AngleDivisions || info.AccumulatorHeight != hough.RadiusDivisions {
		t.Errorf("accumulator: got %dx%d", info.AccumulatorWidth, info.AccumulatorHeight)
	}
}

func TestHandleToolsCall_ImageLoad_AfterOverwrite(t *testing.T) {
	s := newTestServer()
	path := writeBandImage(t, 40, 40, 10, 11)

	var info imaging.ImageInfo
	decodeResult(t, callTool(t, s, "image_load", map[string]interface{}{"path": path}), &info)
	if info.Width != 40 || info.Height != 40 {
		t.Fatalf("first load: got %dx%d, want 40x40", info.Width, info.Height)
	}

	writeImage(t, path, bandImage(80, 60, 10, 11))

	decodeResult(t, callTool(t, s, "image_load", map[string]interface{}{"path": path}), &info)
	if info.Width != 80 || info.Height != 60 {
		t.Errorf("after overwrite: got %dx%d, want 80x60", info.Width, info.Height)
	}
}

func TestHandleToolsCall_MalformedArguments(t *testing.T) {
	s := newTestServer()
	for _, name := range []string{"image_load", "hough_edge_mask", "hough_transform"} {
		t.Run(name, func(t *testing.T) {
			resp := callTool(t, s, name, map[string]interface{}{"path": 5})
			expectError(t, resp, -32602, "invalid arguments")
		})
	}
}

func TestHandleToolsCall_ImageLoad_MissingPath(t *testing.T) {
	resp := callTool(t, newTestServer(), "image_load", map[string]interface{}{})
	expectError(t, resp, -32602, "path is required")
}

func TestHandleToolsCall_NonExistentFile(t *testing.T) {
	resp := callTool(t, newTestServer(), "hough_transform", map[string]interface{}{
		"path": "/nonexistent/image.png",
	})
	expectError(t, resp, -32000, "failed to load image")
}

func TestHandleToolsCall_InvalidTool(t *testing.T) {
	resp := callTool(t, newTestServer(), "nonexistent_tool", map[string]interface{}{})
	expectError(t, resp, -32000, "unknown tool")
}

func TestHandleToolsCall_InvalidParams(t *testing.T) {
	resp := newTestServer().handleRequest(&MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "tools/call",
		Params:  json.RawMessage(`"not an object"`),
	})
	expectError(t, resp, -32602)
}

func TestHandleToolsCall_EdgeMask(t *testing.T) {
	s := newTestServer()
	path := writeBandImage(t, 60, 40, 10, 11)
	out := filepath.Join(t.TempDir(), "mask.png")

	var result EdgeMaskResult
	decodeResult(t, callTool(t, s, "hough_edge_mask", map[string]interface{}{
		"path":        path,
		"output_path": out,
	}), &result)

	if result.Method != "threshold" {
		t.Errorf("Method: got %s, want threshold", result.Method)
	}
	if result.EdgePixels != 60 {
		t.Errorf("EdgePixels: got %d, want 60", result.EdgePixels)
	}
	if result.Image == nil || result.Image.Width != 60 || result.Image.Height != 40 {
		t.Fatalf("unexpected image: %+v", result.Image)
	}
	if _, err := os.Stat(out); err != nil {
		t.Errorf("mask was not saved: %v", err)
	}
}

func TestHandleToolsCall_EdgeMask_WithRegionAndCanny(t *testing.T) {
	s := newTestServer()
	path := writeBandImage(t, 80, 80, 30, 50)

	var result EdgeMaskResult
	decodeResult(t, callTool(t, s, "hough_edge_mask", map[string]interface{}{
		"path":        path,
		"edge_method": "canny",
		"region":      map[string]int{"x1": 10, "y1": 10, "x2": 70, "y2": 70},
	}), &result)

	if result.Image.Width != 60 || result.Image.Height != 60 {
		t.Errorf("dimensions: got %dx%d, want 60x60", result.Image.Width, result.Image.Height)
	}
	if result.EdgePixels == 0 {
		t.Error("canny found no edges along the band")
	}
}

func TestHandleToolsCall_EdgeMask_Invert(t *testing.T) {
	s := newTestServer()
	path := writeBandImage(t, 60, 40, 10, 11)

	var result EdgeMaskResult
	decodeResult(t, callTool(t, s, "hough_edge_mask", map[string]interface{}{
		"path":   path,
		"invert": true,
	}), &result)

	if result.EdgePixels != 60*39 {
		t.Errorf("EdgePixels: got %d, want every pixel off the band (%d)", result.EdgePixels, 60*39)
	}
}

func TestHandleToolsCall_EdgeMask_InvalidArguments(t *testing.T) {
	resp := callTool(t, newTestServer(), "hough_edge_mask", map[string]interface{}{
		"path":           "/tmp/whatever.png",
		"edge_method":    "laplace",
		"level":          300,
		"low_threshold":  200,
		"high_threshold": 100,
	})
	expectError(t, resp, -32602, "laplace", "level 300", "above high_threshold")
}

func TestHandleToolsCall_TransformLine(t *testing.T) {
	s := newTestServer()
	path := writeBandImage(t, 100, 100, 50, 51)

	var result HoughTransformResult
	decodeResult(t, callTool(t, s, "hough_transform", map[string]interface{}{"path": path}), &result)

	if result.Mode != "line" {
		t.Errorf("Mode: got %s, want line", result.Mode)
	}
	if result.EdgePixels != 100 {
		t.Errorf("EdgePixels: got %d, want 100", result.EdgePixels)
	}
	if result.Candidates != 1 || len(result.Lines) != 1 {
		t.Fatalf("expected one line, got %d candidates and %v", result.Candidates, result.Lines)
	}
	if result.Lines[0].Start.Y != 50 || result.Lines[0].End.Y != 50 {
		t.Errorf("line: got %v-%v, want y=50", result.Lines[0].Start, result.Lines[0].End)
	}
	if result.OverlayColor != "#FF0000" {
		t.Errorf("OverlayColor: got %s, want #FF0000", result.OverlayColor)
	}

	img := decodePNG(t, result.Image.ImageBase64)
	if b := img.Bounds(); b.Dx() != 100 || b.Dy() != 100 {
		t.Fatalf("overlay dimensions: got %dx%d", b.Dx(), b.Dy())
	}
	r, g, b, _ := img.At(0, 50).RGBA()
	if r>>8 != 255 || g != 0 || b != 0 {
		t.Errorf("overlay pixel (0,50) is not red: %d,%d,%d", r>>8, g>>8, b>>8)
	}
}

func TestHandleToolsCall_TransformAccumulator(t *testing.T) {
	s := newTestServer()
	path := writeBandImage(t, 100, 100, 50, 51)

	var result HoughTransformResult
	decodeResult(t, callTool(t, s, "hough_transform", map[string]interface{}{
		"path": path,
		"mode": "accumulator",
	}), &result)

	if result.Image.Width != hough.AngleDivisions || result.Image.Height != hough.RadiusDivisions {
		t.Errorf("accumulator image: got %dx%d", result.Image.Width, result.Image.Height)
	}
	if result.MaxVotes != 100 {
		t.Errorf("MaxVotes: got %d, want 100", result.MaxVotes)
	}
	if len(result.Lines) != 0 || result.OverlayColor != "" {
		t.Error("accumulator mode should not report lines")
	}
}

func TestHandleToolsCall_TransformMaximumThresholdOne(t *testing.T) {
	path := writeBandImage(t, 100, 100, 50, 51)

	var result HoughTransformResult
	decodeResult(t, callTool(t, newTestServer(), "hough_transform", map[string]interface{}{
		"path":      path,
		"mode":      "maximum",
		"threshold": 1.0,
	}), &result)

	if result.Candidates != 0 {
		t.Errorf("Candidates: got %d, want 0", result.Candidates)
	}
}

func TestHandleToolsCall_TransformEmpty(t *testing.T) {
	path := writeBandImage(t, 20, 20, 5, 6)

	var result HoughTransformResult
	decodeResult(t, callTool(t, newTestServer(), "hough_transform", map[string]interface{}{
		"path": path,
		"mode": "empty",
	}), &result)

	img := decodePNG(t, result.Image.ImageBase64)
	r, g, b, a := img.At(100, 100).RGBA()
	if r != 0 || g != 0 || b != 0 || a>>8 != 255 {
		t.Error("empty mode should produce an opaque black image")
	}
}

func TestHandleToolsCall_TransformWithEdgeMask(t *testing.T) {
	s := newTestServer()
	path := writeBandImage(t, 100, 100, 50, 51)

	var result HoughTransformResult
	decodeResult(t, callTool(t, s, "hough_transform", map[string]interface{}{
		"path":          path,
		"edge_method":   "threshold",
		"overlay_color": "#00FF00",
		"include_image": true,
	}), &result)

	if result.EdgeMethod != "threshold" {
		t.Errorf("EdgeMethod: got %s", result.EdgeMethod)
	}
	if len(result.Lines) != 1 {
		t.Fatalf("expected one line, got %v", result.Lines)
	}

	img := decodePNG(t, result.Image.ImageBase64)
	r, g, b, _ := img.At(10, 50).RGBA()
	if r != 0 || g>>8 != 255 || b != 0 {
		t.Errorf("overlay pixel (10,50) is not green: %d,%d,%d", r>>8, g>>8, b>>8)
	}
}

func TestHandleToolsCall_TransformRegionAndDownscale(t *testing.T) {
	s := newTestServer()
	path := writeBandImage(t, 200, 200, 96, 104)

	var result HoughTransformResult
	decodeResult(t, callTool(t, s, "hough_transform", map[string]interface{}{
		"path":          path,
		"region":        map[string]int{"x1": 0, "y1": 0, "x2": 200, "y2": 160},
		"max_dimension": 50,
		"include_image": false,
	}), &result)

	if result.Width != 50 || result.Height != 40 {
		t.Errorf("processed size: got %dx%d, want 50x40", result.Width, result.Height)
	}
	if result.Image != nil {
		t.Error("include_image=false should omit the image")
	}
	if len(result.Lines) == 0 {
		t.Error("the band should survive downscaling as a line")
	}
}

func TestHandleToolsCall_TransformNamedRegion(t *testing.T) {
	s := newTestServer()
	path := writeBandImage(t, 100, 100, 25, 26)

	var result HoughTransformResult
	decodeResult(t, callTool(t, s, "hough_transform", map[string]interface{}{
		"path":          path,
		"region":        "Top-Half",
		"include_image": false,
	}), &result)

	if result.Width != 100 || result.Height != 50 {
		t.Errorf("processed size: got %dx%d, want 100x50", result.Width, result.Height)
	}
	if len(result.Lines) == 0 {
		t.Fatal("the band in the top half should be detected")
	}
	if l := result.Lines[0]; l.Start.Y != 25 || l.End.Y != 25 {
		t.Errorf("strongest line: got %v-%v, want a horizontal line at y=25", l.Start, l.End)
	}
}

func TestHandleToolsCall_UnknownRegionName(t *testing.T) {
	path := writeBandImage(t, 40, 40, 20, 21)

	resp := callTool(t, newTestServer(), "hough_edge_mask", map[string]interface{}{
		"path":   path,
		"region": "middle",
	})
	expectError(t, resp, -32602, "unknown region: middle")
}

func TestHandleToolsCall_TransformOutputPath(t *testing.T) {
	path := writeBandImage(t, 40, 40, 20, 21)
	out := filepath.Join(t.TempDir(), "lines.png")

	var result HoughTransformResult
	decodeResult(t, callTool(t, newTestServer(), "hough_transform", map[string]interface{}{
		"path":        path,
		"output_path": out,
	}), &result)

	if result.OutputPath != out {
		t.Errorf("OutputPath: got %s, want %s", result.OutputPath, out)
	}
	if _, err := os.Stat(out); err != nil {
		t.Errorf("result was not saved: %v", err)
	}
}

func TestHandleToolsCall_TransformNoEdges(t *testing.T) {
	path := writeBandImage(t, 50, 50, 0, 0)

	resp := callTool(t, newTestServer(), "hough_transform", map[string]interface{}{"path": path})
	expectError(t, resp, -32000, "degenerate accumulator")
}

func TestHandleToolsCall_TransformInvalidArguments(t *testing.T) {
	resp := callTool(t, newTestServer(), "hough_transform", map[string]interface{}{
		"mode":          "sideways",
		"threshold":     2.0,
		"max_dimension": -5,
		"overlay_color": "nope",
	})
	expectError(t, resp, -32602, "path is required", "sideways", "threshold 2", "max_dimension -5", "nope")
}

func TestHandleToolsCall_TransformUsesConfigDefaults(t *testing.T) {
	cfg := config.Default()
	cfg.OverlayColor = "#0000FF"
	cfg.Threshold = 1.0
	s := New(cfg, zerolog.Nop())
	path := writeBandImage(t, 100, 100, 50, 51)

	var result HoughTransformResult
	decodeResult(t, callTool(t, s, "hough_transform", map[string]interface{}{
		"path": path,
		"mode": "maximum",
	}), &result)
	if result.Candidates != 0 {
		t.Errorf("configured threshold 1.0 should suppress every peak, got %d", result.Candidates)
	}

	decodeResult(t, callTool(t, s, "hough_transform", map[string]interface{}{
		"path":      path,
		"threshold": 0.5,
	}), &result)
	if result.OverlayColor != "#0000FF" {
		t.Errorf("OverlayColor: got %s, want #0000FF", result.OverlayColor)
	}
}
