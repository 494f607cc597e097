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
		"description": "Absolute path to the image file, or an http(s) URL",
	}
}

func coordProperty(desc string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "integer",
		"description": desc,
	}
}

// regionProperties adds x1,y1,x2,y2 to props.
func regionProperties(props map[string]interface{}) map[string]interface{} {
	props["x1"] = coordProperty("Left edge X coordinate (0-based)")
	props["y1"] = coordProperty("Top edge Y coordinate (0-based)")
	props["x2"] = coordProperty("Right edge X coordinate (exclusive)")
	props["y2"] = coordProperty("Bottom edge Y coordinate (exclusive)")
	return props
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Basic Image Information
		{
			Name:        "image_load",
			Description: "Load an image file or URL and return its dimensions and format. The image is cached for subsequent operations.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_dimensions",
			Description: "Get the width and height of an image.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},

		// Region Operations
		{
			Name:        "image_crop",
			Description: "Crop a rectangular region from an image and return it as base64-encoded PNG. Use this to zoom into areas that need detailed examination.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": regionProperties(map[string]interface{}{
					"path": pathProperty(),
					"scale": map[string]interface{}{
						"type":        "number",
						"description": "Optional scale factor (e.g., 2.0 to double size). Default 1.0",
						"default":     1.0,
					},
				}),
				"required": []string{"path", "x1", "y1", "x2", "y2"},
			},
		},

		// Color Operations
		{
			Name:        "image_sample_color",
			Description: "Get the color at a specific pixel as hex, RGB, RGBA and HSL.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"x":    coordProperty("X coordinate (0-based)"),
					"y":    coordProperty("Y coordinate (0-based)"),
				},
				"required": []string{"path", "x", "y"},
			},
		},

		// Text Binarization
		{
			Name:        "image_edge_detect",
			Description: "Run Canny edge detection on each color channel and return the union of the three edge maps as base64 PNG. This is the edge map the text binarizer traces.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"threshold_low": map[string]interface{}{
						"type":        "integer",
						"description": "Weak edge gradient threshold. Default 200",
						"default":     200,
					},
					"threshold_high": map[string]interface{}{
						"type":        "integer",
						"description": "Strong edge gradient threshold. Default 250",
						"default":     250,
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_binarize",
			Description: "Reduce an image, or a region of it, to black text on a white background and return it as base64 PNG. Light-on-dark and dark-on-light text are both rendered dark.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": regionProperties(map[string]interface{}{
					"path": pathProperty(),
				}),
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_text_contours",
			Description: "List the contours the binarizer keeps as glyphs, with bounding boxes and the foreground/background estimate used for each. Also returns the image with the boxes outlined.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": regionProperties(map[string]interface{}{
					"path": pathProperty(),
					"show_labels": map[string]interface{}{
						"type":        "boolean",
						"description": "Number each outlined box. Default true",
						"default":     true,
					},
					"color": map[string]interface{}{
						"type":        "string",
						"description": "Outline color as hex. Default #FF0000",
						"default":     "#FF0000",
					},
				}),
				"required": []string{"path"},
			},
		},

		// Text Detection, OCR and Translation
		{
			Name:        "image_detect_text_regions",
			Description: "Find regions likely to contain text and group them into paragraph boxes.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"min_confidence": map[string]interface{}{
						"type":        "number",
						"description": "Minimum confidence threshold (0-1). Default 0.3",
						"default":     0.3,
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_ocr_region",
			Description: "Binarize a region and extract its text with OCR. Word boxes are reported in image coordinates.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": regionProperties(map[string]interface{}{
					"path": pathProperty(),
					"language": map[string]interface{}{
						"type":        "string",
						"description": "OCR language code (e.g. eng, deu, jpn). Defaults to the server setting",
					},
				}),
				"required": []string{"path", "x1", "y1", "x2", "y2"},
			},
		},
		{
			Name:        "image_translate",
			Description: "Detect, read and translate every paragraph of text in an image and paint the translations over the originals. Returns the segments and the rendered image as base64 PNG.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"source_lang": map[string]interface{}{
						"type":        "string",
						"description": "Source language code, or auto. Defaults to the server setting",
					},
					"target_lang": map[string]interface{}{
						"type":        "string",
						"description": "Target language code (ja, en, de, fr, es, pt, it, nl, pl, ru, zh). Defaults to the server setting",
					},
					"ocr_language": map[string]interface{}{
						"type":        "string",
						"description": "OCR language code. Defaults to the server setting",
					},
				},
				"required": []string{"path"},
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
