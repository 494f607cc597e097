// Package server implements the MCP (Model Context Protocol) server for
// image text binarization, OCR and translation.
//
// This package provides a JSON-RPC 2.0 server that exposes the binarizer
// and the photo translation pipeline through the MCP protocol.
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
// Basic Image Information:
//   - image_load: Load image and get metadata
//   - image_dimensions: Get width and height
//
// Region and Color Operations:
//   - image_crop: Extract rectangular region
//   - image_sample_color: Get color at pixel
//
// Text Binarization:
//   - image_edge_detect: Per-channel Canny union
//   - image_binarize: Black text on white for an image or region
//   - image_text_contours: Glyph contours with polarity estimates
//
// Text Detection, OCR and Translation:
//   - image_detect_text_regions: Text boxes and paragraph groups
//   - image_ocr_region: Binarize and read a region
//   - image_translate: Translate every paragraph and repaint the image
//
// # Image Caching
//
// Images are cached by path or URL and reused across tool calls for the
// lifetime of the server process.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: The Go error string
//
// # Usage
//
//	cfg, _ := config.Load()
//	log, _ := logging.New(cfg)
//	srv, err := server.NewFromConfig(cfg, log)
//	if err != nil {
//	    log.Fatal().Err(err).Send()
//	}
//	if err := srv.Run(); err != nil {
//	    log.Fatal().Err(err).Send()
//	}
package server
