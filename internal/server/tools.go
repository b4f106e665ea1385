package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func pathProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Absolute path to the image file",
	}
}

func regionProperty() map[string]interface{} {
	return map[string]interface{}{
		"description": "Optional crop applied before processing: either {x1,y1,x2,y2} with (x1,y1) inclusive and (x2,y2) exclusive, or a region name",
		"oneOf": []interface{}{
			map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"x1": map[string]interface{}{"type": "integer"},
					"y1": map[string]interface{}{"type": "integer"},
					"x2": map[string]interface{}{"type": "integer"},
					"y2": map[string]interface{}{"type": "integer"},
				},
				"required": []string{"x1", "y1", "x2", "y2"},
			},
			map[string]interface{}{
				"type": "string",
				"enum": []string{
					"top-left", "top-right", "bottom-left", "bottom-right",
					"top-half", "bottom-half", "left-half", "right-half", "center",
				},
			},
		},
	}
}

func edgeProperties(methodDescription string, methods []string) map[string]interface{} {
	return map[string]interface{}{
		"edge_method": map[string]interface{}{
			"type":        "string",
			"enum":        methods,
			"description": methodDescription,
		},
		"invert": map[string]interface{}{
			"type":        "boolean",
			"description": "Invert the image before edge masking. threshold marks pixels brighter than level, so dark lines on a light background need invert=true",
			"default":     false,
		},
		"level": map[string]interface{}{
			"type":        "integer",
			"description": "Binarization level 0-255 for threshold and sobel: pixels at or above it become edges. Default 128",
			"default":     128,
		},
		"blur_radius": map[string]interface{}{
			"type":        "number",
			"description": "Gaussian blur radius before sobel and canny. Default 1.0",
			"default":     1.0,
		},
		"low_threshold": map[string]interface{}{
			"type":        "integer",
			"description": "Canny low threshold 0-255. Default 50",
			"default":     50,
		},
		"high_threshold": map[string]interface{}{
			"type":        "integer",
			"description": "Canny high threshold 0-255. Default 150",
			"default":     150,
		},
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	maskProps := edgeProperties("Edge algorithm. Default threshold", []string{"threshold", "sobel", "canny"})
	maskProps["path"] = pathProperty()
	maskProps["region"] = regionProperty()
	maskProps["output_path"] = map[string]interface{}{
		"type":        "string",
		"description": "Optional file to write the mask to (png, jpg, gif, bmp, tif)",
	}

	transformProps := edgeProperties(
		"Edge mask computed before the transform. Default none: pixels with blue=255 are edge pixels",
		[]string{"none", "threshold", "sobel", "canny"})
	transformProps["path"] = pathProperty()
	transformProps["region"] = regionProperty()
	transformProps["mode"] = map[string]interface{}{
		"type":        "string",
		"enum":        []string{"empty", "accumulator", "maximum", "line"},
		"description": "Stages to run. accumulator: normalized Hough space; maximum: local peaks; line: detected lines drawn over the source. Default line",
		"default":     "line",
	}
	transformProps["threshold"] = map[string]interface{}{
		"type":        "number",
		"description": "Peak threshold 0.0-1.0 relative to the strongest vote. Used by maximum and line",
	}
	transformProps["max_dimension"] = map[string]interface{}{
		"type":        "integer",
		"description": "Downscale so that neither side exceeds this many pixels. 0 disables",
	}
	transformProps["overlay_color"] = map[string]interface{}{
		"type":        "string",
		"description": "Line color as #RRGGBB or #RRGGBBAA",
	}
	transformProps["include_image"] = map[string]interface{}{
		"type":        "boolean",
		"description": "Return the result image as base64 PNG. Default true",
		"default":     true,
	}
	transformProps["output_path"] = map[string]interface{}{
		"type":        "string",
		"description": "Optional file to write the result image to",
	}

	return []Tool{
		{
			Name:        "image_load",
			Description: "Load an image file and return its dimensions, format and the size of its Hough space.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "hough_edge_mask",
			Description: "Compute a binary edge mask (edges white) suitable as Hough transform input. Returns it as base64-encoded PNG.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": maskProps,
				"required":   []string{"path"},
			},
		},
		{
			Name:        "hough_transform",
			Description: "Run the Hough line transform on an image. Returns the visible result (accumulator, peak image or line overlay), the number of peaks and the detected lines in image coordinates.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": transformProps,
				"required":   []string{"path"},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
