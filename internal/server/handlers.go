package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"math"
	"strings"

	"go.uber.org/multierr"

	"github.com/ironsheep/hough-tools-mcp/internal/hough"
	"github.com/ironsheep/hough-tools-mcp/internal/imaging"
)

// errInvalidArguments marks tool arguments that fail validation. Such
// failures are reported as JSON-RPC invalid params.
var errInvalidArguments = errors.New("invalid arguments")

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_load", "hough_transform").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Invalid arguments return code -32602; any other tool failure returns -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		s.log.Warn().Err(err).Str("tool", params.Name).Msg("tool call failed")
		if errors.Is(err, errInvalidArguments) {
			return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
		}
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	case "image_load":
		return s.handleImageLoad(args)
	case "hough_edge_mask":
		return s.handleEdgeMask(args)
	case "hough_transform":
		return s.handleHoughTransform(args)
	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure it returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// invalidArguments wraps a (possibly combined) validation error.
func invalidArguments(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %v", errInvalidArguments, err)
}

// regionArg is a crop given either as an object with x1, y1, x2 and y2 or as
// a region name understood by imaging.NamedRegion ("top-half", "center", ...).
type regionArg struct {
	name  string
	rect  imaging.Region
	named bool
}

func (r *regionArg) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		r.named = true
		return json.Unmarshal(b, &r.name)
	}
	return json.Unmarshal(b, &r.rect)
}

// resolve returns the crop rectangle for an image with the given bounds.
func (r *regionArg) resolve(bounds image.Rectangle) (imaging.Region, error) {
	if !r.named {
		return r.rect, nil
	}
	region, err := imaging.NamedRegion(strings.ToLower(strings.TrimSpace(r.name)), bounds.Dx(), bounds.Dy())
	if err != nil {
		return imaging.Region{}, invalidArguments(err)
	}
	return region.Offset(bounds.Min), nil
}

// === Image Information ===

type imageLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, invalidArguments(err)
	}
	if strings.TrimSpace(a.Path) == "" {
		return nil, invalidArguments(errors.New("path is required"))
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

// === Edge Masks ===

// edgeArgs are the edge mask parameters shared by hough_edge_mask and
// hough_transform.
type edgeArgs struct {
	EdgeMethod string   `json:"edge_method"`
	Level      *int     `json:"level"`
	BlurRadius *float64 `json:"blur_radius"`
	Low        *int     `json:"low_threshold"`
	High       *int     `json:"high_threshold"`
	Invert     bool     `json:"invert"`
}

func (a edgeArgs) validate() error {
	var err error
	if a.Level != nil && (*a.Level < 0 || *a.Level > 255) {
		err = multierr.Append(err, fmt.Errorf("level %d outside [0, 255]", *a.Level))
	}
	if a.BlurRadius != nil && (*a.BlurRadius < 0 || math.IsNaN(*a.BlurRadius)) {
		err = multierr.Append(err, fmt.Errorf("blur_radius %v is negative", *a.BlurRadius))
	}
	if a.Low != nil && (*a.Low < 0 || *a.Low > 255) {
		err = multierr.Append(err, fmt.Errorf("low_threshold %d outside [0, 255]", *a.Low))
	}
	if a.High != nil && (*a.High < 0 || *a.High > 255) {
		err = multierr.Append(err, fmt.Errorf("high_threshold %d outside [0, 255]", *a.High))
	}
	if a.Low != nil && a.High != nil && *a.Low > *a.High {
		err = multierr.Append(err, fmt.Errorf("low_threshold %d above high_threshold %d", *a.Low, *a.High))
	}
	return err
}

func (a edgeArgs) options(method imaging.EdgeMethod) imaging.EdgeOptions {
	opts := imaging.DefaultEdgeOptions()
	opts.Method = method
	if a.Level != nil {
		opts.Level = uint8(*a.Level)
	}
	if a.BlurRadius != nil {
		opts.BlurRadius = *a.BlurRadius
	}
	if a.Low != nil {
		opts.Low = *a.Low
	}
	if a.High != nil {
		opts.High = *a.High
	}
	opts.Invert = a.Invert
	return opts
}

type edgeMaskArgs struct {
	edgeArgs
	Path       string     `json:"path"`
	Region     *regionArg `json:"region"`
	OutputPath string     `json:"output_path"`
}

// EdgeMaskResult is returned by hough_edge_mask.
type EdgeMaskResult struct {
	Method     imaging.EdgeMethod    `json:"method"`
	EdgePixels int                   `json:"edge_pixels"`
	Image      *imaging.EncodedImage `json:"image"`
	OutputPath string                `json:"output_path,omitempty"`
}

func (s *Server) handleEdgeMask(args json.RawMessage) (interface{}, error) {
	var a edgeMaskArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, invalidArguments(err)
	}

	err := a.edgeArgs.validate()
	if strings.TrimSpace(a.Path) == "" {
		err = multierr.Append(err, errors.New("path is required"))
	}
	method, methodErr := imaging.ParseEdgeMethod(a.EdgeMethod)
	err = multierr.Append(err, methodErr)
	if err != nil {
		return nil, invalidArguments(err)
	}

	img, err := s.prepare(a.Path, a.Region, 0)
	if err != nil {
		return nil, err
	}

	mask, err := imaging.EdgeMask(img, a.options(method))
	if err != nil {
		return nil, err
	}

	encoded, err := imaging.EncodePNG(mask)
	if err != nil {
		return nil, err
	}
	if a.OutputPath != "" {
		if err := imaging.Save(mask, a.OutputPath); err != nil {
			return nil, err
		}
	}

	return &EdgeMaskResult{
		Method:     method,
		EdgePixels: imaging.CountEdges(mask),
		Image:      encoded,
		OutputPath: a.OutputPath,
	}, nil
}

// === Hough Transform ===

type houghTransformArgs struct {
	edgeArgs
	Path         string     `json:"path"`
	Mode         string     `json:"mode"`
	Threshold    *float64   `json:"threshold"`
	Region       *regionArg `json:"region"`
	MaxDimension *int       `json:"max_dimension"`
	OverlayColor string     `json:"overlay_color"`
	IncludeImage *bool      `json:"include_image"`
	OutputPath   string     `json:"output_path"`
}

// transformRequest is a validated hough_transform call.
type transformRequest struct {
	mode         hough.Mode
	method       imaging.EdgeMethod // empty: use the image as it is
	threshold    float64
	maxDimension int
	overlay      uint32
}

// resolve validates the arguments and fills defaults from the server
// configuration. Every problem is reported, not just the first.
func (a *houghTransformArgs) resolve(s *Server) (*transformRequest, error) {
	req := &transformRequest{
		threshold:    s.cfg.Threshold,
		maxDimension: s.cfg.MaxDimension,
	}

	err := a.edgeArgs.validate()
	if strings.TrimSpace(a.Path) == "" {
		err = multierr.Append(err, errors.New("path is required"))
	}

	modeName := a.Mode
	if strings.TrimSpace(modeName) == "" {
		modeName = hough.ModeLine.String()
	}
	mode, modeErr := hough.ParseMode(modeName)
	err = multierr.Append(err, modeErr)
	req.mode = mode

	if m := strings.ToLower(strings.TrimSpace(a.EdgeMethod)); m != "" && m != "none" {
		method, methodErr := imaging.ParseEdgeMethod(m)
		err = multierr.Append(err, methodErr)
		req.method = method
	}

	if a.Threshold != nil {
		req.threshold = *a.Threshold
	}
	if math.IsNaN(req.threshold) || req.threshold < 0 || req.threshold > 1 {
		err = multierr.Append(err, fmt.Errorf("threshold %v outside [0, 1]", req.threshold))
	}

	if a.MaxDimension != nil {
		req.maxDimension = *a.MaxDimension
	}
	if req.maxDimension < 0 {
		err = multierr.Append(err, fmt.Errorf("max_dimension %d is negative", req.maxDimension))
	}

	colorName := a.OverlayColor
	if colorName == "" {
		colorName = s.cfg.OverlayColor
	}
	overlay, colorErr := imaging.ParseColor(colorName)
	err = multierr.Append(err, colorErr)
	req.overlay = overlay

	if err != nil {
		return nil, invalidArguments(err)
	}
	return req, nil
}

// HoughTransformResult is returned by hough_transform.
type HoughTransformResult struct {
	Mode string `json:"mode"`

	// Width and Height are the dimensions of the processed source, after
	// any crop and downscale.
	Width  int `json:"width"`
	Height int `json:"height"`

	// EdgeMethod is the edge mask applied before the transform, if any.
	EdgeMethod imaging.EdgeMethod `json:"edge_method,omitempty"`

	// EdgePixels is the number of pixels that voted.
	EdgePixels int `json:"edge_pixels"`

	// MaxVotes is the strongest accumulator cell.
	MaxVotes int `json:"max_votes,omitempty"`

	// Candidates is the number of surviving peaks.
	Candidates int `json:"candidates"`

	Lines        []hough.Line `json:"lines,omitempty"`
	OverlayColor string       `json:"overlay_color,omitempty"`

	Image      *imaging.EncodedImage `json:"image,omitempty"`
	OutputPath string                `json:"output_path,omitempty"`
}

func (s *Server) handleHoughTransform(args json.RawMessage) (interface{}, error) {
	var a houghTransformArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, invalidArguments(err)
	}
	req, err := a.resolve(s)
	if err != nil {
		return nil, err
	}

	base, err := s.prepare(a.Path, a.Region, req.maxDimension)
	if err != nil {
		return nil, err
	}

	input := base
	if req.method != "" {
		mask, err := imaging.EdgeMask(base, a.options(req.method))
		if err != nil {
			return nil, err
		}
		input = mask
	}

	src := imaging.ToPixelBuffer(input)
	dst := hough.NewPixelBuffer(hough.AngleDivisions, hough.RadiusDivisions)

	opts := hough.DefaultOptions()
	opts.OverlayColor = req.overlay
	opts.Logger = s.log

	res, err := hough.New(opts).Run(req.mode, src, dst, req.threshold)
	if err != nil {
		return nil, fmt.Errorf("hough transform failed: %w", err)
	}

	visible := dst
	if req.mode == hough.ModeLine {
		visible = res.Overlay
		if req.method != "" {
			// Draw over the picture rather than over its edge mask; dst
			// holds the peak image.
			visible, _, err = hough.RenderLines(imaging.ToPixelBuffer(base), dst, req.overlay)
			if err != nil {
				return nil, fmt.Errorf("failed to render lines: %w", err)
			}
		}
	}

	bounds := base.Bounds()
	result := &HoughTransformResult{
		Mode:       req.mode.String(),
		Width:      bounds.Dx(),
		Height:     bounds.Dy(),
		EdgeMethod: req.method,
		EdgePixels: countEdgePixels(src),
		Candidates: res.Candidates,
		Lines:      res.Lines,
		OutputPath: a.OutputPath,
	}
	if res.Accumulator != nil {
		result.MaxVotes = res.Accumulator.Max()
	}
	if req.mode == hough.ModeLine {
		result.OverlayColor = imaging.FormatColor(req.overlay)
	}

	out := imaging.FromPixelBuffer(visible)
	if a.IncludeImage == nil || *a.IncludeImage {
		if result.Image, err = imaging.EncodePNG(out); err != nil {
			return nil, err
		}
	}
	if a.OutputPath != "" {
		if err := imaging.Save(out, a.OutputPath); err != nil {
			return nil, err
		}
	}

	s.log.Info().
		Str("path", a.Path).
		Str("mode", result.Mode).
		Int("edge_pixels", result.EdgePixels).
		Int("candidates", result.Candidates).
		Int("lines", len(result.Lines)).
		Msg("hough transform")

	return result, nil
}

// prepare loads path through the cache, then applies the optional crop and
// downscale.
func (s *Server) prepare(path string, region *regionArg, maxDimension int) (image.Image, error) {
	img, err := s.cache.Load(path)
	if err != nil {
		return nil, err
	}
	if region != nil {
		rect, err := region.resolve(img.Bounds())
		if err != nil {
			return nil, err
		}
		cropped, err := imaging.Crop(img, rect)
		if err != nil {
			return nil, err
		}
		img = cropped
	}
	return imaging.Downscale(img, maxDimension), nil
}

func countEdgePixels(b *hough.PixelBuffer) int {
	n := 0
	for _, c := range b.Pix {
		if hough.IsEdge(c) {
			n++
		}
	}
	return n
}
