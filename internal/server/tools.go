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
		"description": "Absolute path to the image file. Defaults to the image set by image_load.",
	}
}

func sensitivityProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "integer",
		"description": "Tolerance added to both ends of every channel range. Negative values shrink the range. Default 0",
		"default":     0,
	}
}

func colorProperty(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"pattern":     "^#?([0-9A-Fa-f]{3}|[0-9A-Fa-f]{6})$",
		"description": description,
	}
}

func boundOrderingProperty() map[string]interface{} {
	return map[string]interface{}{
		"type": "string",
		"enum": []string{"as-given", "normalized"},
		"description": "as-given: color_one is the low corner and color_two the high corner, exactly as picked. " +
			"normalized: per-channel min and max of the two colors. Default as-given",
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Image
		{
			Name:        "image_load",
			Description: "Load an image file and return its dimensions and format. Sets this as the active image for subsequent operations.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_dimensions",
			Description: "Get the width and height of an image file.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
			},
		},
		{
			Name:        "image_sample_color",
			Description: "Get the exact color value at a specific pixel coordinate. The hex value can be used as color_one or color_two.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"x": map[string]interface{}{
						"type":        "integer",
						"description": "X coordinate (0-based, from left)",
					},
					"y": map[string]interface{}{
						"type":        "integer",
						"description": "Y coordinate (0-based, from top)",
					},
				},
				"required": []string{"x", "y"},
			},
		},

		// Anomaly detection
		{
			Name: "detect_yellow_anomalies",
			Description: "List every pixel whose color is in the preset yellow range " +
				"(low #B4B400 = 180,180,0; high #FFFF82 = 255,255,130), widened by sensitivity. " +
				"Coordinates are returned in row-major order. Returns an empty list if no image is loaded.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":        pathProperty(),
					"sensitivity": sensitivityProperty(),
				},
			},
		},
		{
			Name: "detect_color_anomalies",
			Description: "List every pixel whose color is in the range between two colors, widened by sensitivity. " +
				"Coordinates are returned in row-major order. Returns an empty list if no image is loaded.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":           pathProperty(),
					"color_one":      colorProperty("First color (#RRGGBB), the low corner of the range"),
					"color_two":      colorProperty("Second color (#RRGGBB), the high corner of the range"),
					"sensitivity":    sensitivityProperty(),
					"bound_ordering": boundOrderingProperty(),
				},
				"required": []string{"color_one", "color_two"},
			},
		},

		// Presentation
		{
			Name: "anomaly_overlay",
			Description: "Render the image with anomaly pixels painted in a marker color and return it as base64-encoded PNG. " +
				"Uses the yellow range unless color_one and color_two are given.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":           pathProperty(),
					"color_one":      colorProperty("Optional first color of a custom range"),
					"color_two":      colorProperty("Optional second color of a custom range"),
					"sensitivity":    sensitivityProperty(),
					"bound_ordering": boundOrderingProperty(),
					"marker_color": map[string]interface{}{
						"type":        "string",
						"description": "Marker color in hex (#RRGGBB). Default #FF00FF",
						"default":     "#FF00FF",
					},
					"dim": map[string]interface{}{
						"type":        "number",
						"description": "How much to darken the image under the markers, 0 to 1. Default 0.5",
						"default":     0.5,
					},
					"grid_spacing": map[string]interface{}{
						"type":        "integer",
						"description": "Draw a labeled coordinate grid every N pixels. Default 0 (no grid)",
						"default":     0,
					},
					"grid_color": map[string]interface{}{
						"type":        "string",
						"description": "Grid color in hex with optional alpha (#RRGGBBAA). Default #00FFFF80",
						"default":     "#00FFFF80",
					},
					"scale": map[string]interface{}{
						"type":        "number",
						"description": "Optional scale factor (e.g., 4.0 to zoom small images). Default 1.0",
						"default":     1.0,
					},
				},
			},
		},
		{
			Name:        "color_gradient_preview",
			Description: "Render a left-to-right gradient between two colors as base64-encoded PNG, to preview a custom range.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"color_one": colorProperty("Left color (#RRGGBB)"),
					"color_two": colorProperty("Right color (#RRGGBB)"),
					"width": map[string]interface{}{
						"type":        "integer",
						"description": "Width in pixels. Default 256",
						"default":     256,
					},
					"height": map[string]interface{}{
						"type":        "integer",
						"description": "Height in pixels. Default 32",
						"default":     32,
					},
				},
				"required": []string{"color_one", "color_two"},
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
