package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"

	"github.com/ironsheep/image-translator-mcp/internal/binarize"
	"github.com/ironsheep/image-translator-mcp/internal/contour"
	"github.com/ironsheep/image-translator-mcp/internal/detection"
	"github.com/ironsheep/image-translator-mcp/internal/imaging"
	"github.com/ironsheep/image-translator-mcp/internal/ocr"
	"github.com/ironsheep/image-translator-mcp/internal/overlay"
	"github.com/ironsheep/image-translator-mcp/internal/pipeline"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_load", "image_binarize").
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
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(context.Background(), params.Name, params.Arguments)
	if err != nil {
		s.log.Warn().Err(err).Str("tool", params.Name).Msg("tool failed")
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
//
// Each tool handler:
//  1. Unmarshals arguments from JSON
//  2. Applies default values for optional parameters
//  3. Loads images from cache as needed
//  4. Calls the appropriate imaging/binarize/pipeline function
//  5. Returns the result or error
func (s *Server) executeTool(ctx context.Context, name string, args json.RawMessage) (interface{}, error) {
	if len(args) == 0 {
		args = json.RawMessage("{}")
	}

	switch name {
	// Basic Image Information
	case "image_load":
		return s.handleImageLoad(args)
	case "image_dimensions":
		return s.handleImageDimensions(args)

	// Region Operations
	case "image_crop":
		return s.handleImageCrop(args)

	// Color Operations
	case "image_sample_color":
		return s.handleImageSampleColor(args)

	// Text Binarization
	case "image_edge_detect":
		return s.handleImageEdgeDetect(args)
	case "image_binarize":
		return s.handleImageBinarize(args)
	case "image_text_contours":
		return s.handleImageTextContours(args)

	// Text Detection, OCR and Translation
	case "image_detect_text_regions":
		return s.handleImageDetectTextRegions(args)
	case "image_ocr_region":
		return s.handleImageOCRRegion(ctx, args)
	case "image_translate":
		return s.handleImageTranslate(ctx, args)

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
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// engine returns the OCR engine, creating it on first use.
func (s *Server) engine() (ocr.Engine, error) {
	if s.ocrEngine != nil {
		return s.ocrEngine, nil
	}
	e, err := ocr.New(s.ocrName)
	if err != nil {
		return nil, err
	}
	s.ocrEngine = e
	return e, nil
}

// overlayRenderer returns the text renderer, creating it on first use.
func (s *Server) overlayRenderer() (*overlay.Renderer, error) {
	if s.renderer != nil {
		return s.renderer, nil
	}
	r, err := overlay.NewRenderer()
	if err != nil {
		return nil, err
	}
	s.renderer = r
	return r, nil
}

// newPipeline wires the server's stages into a pipeline. Empty language
// arguments fall back to the server defaults.
func (s *Server) newPipeline(ocrLanguage, source, target string) (*pipeline.Translator, error) {
	eng, err := s.engine()
	if err != nil {
		return nil, err
	}
	r, err := s.overlayRenderer()
	if err != nil {
		return nil, err
	}

	if ocrLanguage == "" {
		ocrLanguage = s.ocrLanguage
	}
	if source == "" {
		source = s.sourceLang
	}
	if target == "" {
		target = s.targetLang
	}

	return pipeline.New(pipeline.Stages{
		Detector:   s.detector,
		Binarizer:  s.binarizer,
		OCR:        eng,
		Translator: s.translator,
		Renderer:   r,
	},
		pipeline.WithLogger(s.log.With().Str("component", "pipeline").Logger()),
		pipeline.WithLanguages(ocrLanguage, source, target),
	)
}

// === Basic Image Information Handlers ===

type imageLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

func (s *Server) handleImageDimensions(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.GetDimensions(s.cache, a.Path)
}

// === Region Operation Handlers ===

type imageCropArgs struct {
	Path  string  `json:"path"`
	X1    int     `json:"x1"`
	Y1    int     `json:"y1"`
	X2    int     `json:"x2"`
	Y2    int     `json:"y2"`
	Scale float64 `json:"scale"`
}

func (s *Server) handleImageCrop(args json.RawMessage) (interface{}, error) {
	var a imageCropArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Scale == 0 {
		a.Scale = 1.0
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return imaging.Crop(img, a.X1, a.Y1, a.X2, a.Y2, a.Scale)
}

// regionArgs is an optional rectangle. Either all four corners are given or
// none are, in which case the whole image is meant.
type regionArgs struct {
	X1 *int `json:"x1"`
	Y1 *int `json:"y1"`
	X2 *int `json:"x2"`
	Y2 *int `json:"y2"`
}

// rect resolves the region against bounds.
func (r regionArgs) rect(bounds image.Rectangle) (image.Rectangle, error) {
	switch {
	case r.X1 == nil && r.Y1 == nil && r.X2 == nil && r.Y2 == nil:
		return bounds, nil
	case r.X1 == nil || r.Y1 == nil || r.X2 == nil || r.Y2 == nil:
		return image.Rectangle{}, errors.New("region needs all of x1, y1, x2 and y2")
	}
	return imaging.Region(*r.X1, *r.Y1, *r.X2, *r.Y2)
}

// === Color Operation Handlers ===

type imageSampleColorArgs struct {
	Path string `json:"path"`
	X    int    `json:"x"`
	Y    int    `json:"y"`
}

func (s *Server) handleImageSampleColor(args json.RawMessage) (interface{}, error) {
	var a imageSampleColorArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return imaging.SampleColor(img, a.X, a.Y)
}

// === Text Binarization Handlers ===

type imageEdgeDetectArgs struct {
	Path          string `json:"path"`
	ThresholdLow  int    `json:"threshold_low"`
	ThresholdHigh int    `json:"threshold_high"`
}

func (s *Server) handleImageEdgeDetect(args json.RawMessage) (interface{}, error) {
	var a imageEdgeDetectArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.ThresholdLow == 0 {
		a.ThresholdLow = imaging.TextEdgeLow
	}
	if a.ThresholdHigh == 0 {
		a.ThresholdHigh = imaging.TextEdgeHigh
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return imaging.EdgeDetect(img, a.ThresholdLow, a.ThresholdHigh)
}

type imageBinarizeArgs struct {
	Path string `json:"path"`
	regionArgs
}

// BinarizeResult is a binarized image or region encoded as base64 PNG.
type BinarizeResult struct {
	Region      detection.Bounds `json:"region"`
	Width       int              `json:"width"`
	Height      int              `json:"height"`
	InkPixels   int              `json:"ink_pixels"`
	ImageBase64 string           `json:"image_base64"`
	MimeType    string           `json:"mime_type"`
}

// loadRegion loads path and crops it to the requested region.
func (s *Server) loadRegion(path string, r regionArgs) (*image.NRGBA, image.Rectangle, error) {
	img, err := s.cache.Load(path)
	if err != nil {
		return nil, image.Rectangle{}, err
	}
	rect, err := r.rect(img.Bounds())
	if err != nil {
		return nil, image.Rectangle{}, err
	}
	crop, err := imaging.CropImage(img, rect)
	if err != nil {
		return nil, image.Rectangle{}, err
	}
	return crop, rect, nil
}

func (s *Server) handleImageBinarize(args json.RawMessage) (interface{}, error) {
	var a imageBinarizeArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	crop, rect, err := s.loadRegion(a.Path, a.regionArgs)
	if err != nil {
		return nil, err
	}

	bin, err := s.binarizer.Binarize(crop)
	if err != nil {
		return nil, err
	}

	ink := 0
	for _, v := range bin.Pix {
		if v == 0 {
			ink++
		}
	}

	encoded, err := imaging.EncodePNG(bin)
	if err != nil {
		return nil, fmt.Errorf("failed to encode binarized image: %w", err)
	}

	return &BinarizeResult{
		Region:      detection.BoundsFromRect(rect),
		Width:       bin.Rect.Dx(),
		Height:      bin.Rect.Dy(),
		InkPixels:   ink,
		ImageBase64: encoded,
		MimeType:    "image/png",
	}, nil
}

type imageTextContoursArgs struct {
	Path       string `json:"path"`
	ShowLabels *bool  `json:"show_labels"`
	Color      string `json:"color"`
	regionArgs
}

// TextContour is one contour kept as a glyph candidate.
type TextContour struct {
	Index       int               `json:"index"`
	Box         contour.Box       `json:"box"`
	Polarity    binarize.Polarity `json:"polarity"`
	LightOnDark bool              `json:"light_on_dark"`
}

// TextContoursResult lists kept contours with an annotated image.
type TextContoursResult struct {
	Region        detection.Bounds `json:"region"`
	TotalContours int              `json:"total_contours"`
	Count         int              `json:"count"`
	Contours      []TextContour    `json:"contours"`
	ImageBase64   string           `json:"image_base64"`
	MimeType      string           `json:"mime_type"`
}

func (s *Server) handleImageTextContours(args json.RawMessage) (interface{}, error) {
	var a imageTextContoursArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	showLabels := true
	if a.ShowLabels != nil {
		showLabels = *a.ShowLabels
	}
	if a.Color == "" {
		a.Color = "#FF0000"
	}

	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	crop, rect, err := s.loadRegion(a.Path, a.regionArgs)
	if err != nil {
		return nil, err
	}

	analysis, err := s.binarizer.Analyze(crop)
	if err != nil {
		return nil, err
	}

	contours := make([]TextContour, len(analysis.Keepers))
	boxes := make([]image.Rectangle, len(analysis.Keepers))
	for i, k := range analysis.Keepers {
		box := k.Box
		box.X += rect.Min.X
		box.Y += rect.Min.Y
		p := analysis.Polarities[i]
		contours[i] = TextContour{
			Index:       k.Index,
			Box:         box,
			Polarity:    p,
			LightOnDark: p.LightOnDark(),
		}
		boxes[i] = box.Rect()
	}

	annotated, err := imaging.Annotate(img, boxes, showLabels, a.Color)
	if err != nil {
		return nil, err
	}

	return &TextContoursResult{
		Region:        detection.BoundsFromRect(rect),
		TotalContours: analysis.Forest.Len(),
		Count:         len(contours),
		Contours:      contours,
		ImageBase64:   annotated.ImageBase64,
		MimeType:      annotated.MimeType,
	}, nil
}

// === Text Detection, OCR and Translation Handlers ===

type imageDetectTextRegionsArgs struct {
	Path          string  `json:"path"`
	MinConfidence float64 `json:"min_confidence"`
}

// DetectTextRegionsResult adds paragraph boxes to the raw detector output.
type DetectTextRegionsResult struct {
	*detection.TextRegionsResult
	Paragraphs []detection.Bounds `json:"paragraphs"`
}

func (s *Server) handleImageDetectTextRegions(args json.RawMessage) (interface{}, error) {
	var a imageDetectTextRegionsArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	d := *s.detector
	if a.MinConfidence != 0 {
		d.MinConfidence = a.MinConfidence
	}
	res, err := d.Regions(img)
	if err != nil {
		return nil, err
	}

	bounds := make([]detection.Bounds, len(res.Regions))
	for i, r := range res.Regions {
		bounds[i] = r.Bounds
	}
	paragraphs := detection.GroupParagraphs(bounds, detection.ParagraphPad, img.Bounds())
	if paragraphs == nil {
		paragraphs = []detection.Bounds{}
	}

	return &DetectTextRegionsResult{
		TextRegionsResult: res,
		Paragraphs:        paragraphs,
	}, nil
}

type imageOCRRegionArgs struct {
	Path     string `json:"path"`
	X1       int    `json:"x1"`
	Y1       int    `json:"y1"`
	X2       int    `json:"x2"`
	Y2       int    `json:"y2"`
	Language string `json:"language"`
}

func (s *Server) handleImageOCRRegion(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a imageOCRRegionArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	img, err := s.cache.LoadContext(ctx, a.Path)
	if err != nil {
		return nil, err
	}

	region, err := imaging.Region(a.X1, a.Y1, a.X2, a.Y2)
	if err != nil {
		return nil, err
	}

	p, err := s.newPipeline(a.Language, "", "")
	if err != nil {
		return nil, err
	}
	res, _, err := p.Recognize(ctx, img, region)
	return res, err
}

type imageTranslateArgs struct {
	Path        string `json:"path"`
	SourceLang  string `json:"source_lang"`
	TargetLang  string `json:"target_lang"`
	OCRLanguage string `json:"ocr_language"`
}

// TranslateResult is the outcome of translating a whole image.
type TranslateResult struct {
	*pipeline.Result
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

func (s *Server) handleImageTranslate(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a imageTranslateArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	img, err := s.cache.LoadContext(ctx, a.Path)
	if err != nil {
		return nil, err
	}

	p, err := s.newPipeline(a.OCRLanguage, a.SourceLang, a.TargetLang)
	if err != nil {
		return nil, err
	}
	res, err := p.Process(ctx, img)
	if err != nil {
		return nil, err
	}

	encoded, err := imaging.EncodePNG(res.Image)
	if err != nil {
		return nil, fmt.Errorf("failed to encode translated image: %w", err)
	}

	s.log.Info().
		Str("path", a.Path).
		Int("paragraphs", res.Paragraphs).
		Int("segments", len(res.Segments)).
		Msg("image translated")

	return &TranslateResult{
		Result:      res,
		Width:       res.Image.Rect.Dx(),
		Height:      res.Image.Rect.Dy(),
		ImageBase64: encoded,
		MimeType:    "image/png",
	}, nil
}
