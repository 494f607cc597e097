// Package pipeline runs the end-to-end photo translation: find text
// regions, group them into paragraphs, binarize and read each paragraph,
// translate what was read and paint the translation over the original.
//
// Every stage is an interface so the pipeline can be exercised without
// Tesseract or a network connection.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"strings"

	"github.com/rs/zerolog"

	"github.com/ironsheep/image-translator-mcp/internal/detection"
	"github.com/ironsheep/image-translator-mcp/internal/imaging"
	"github.com/ironsheep/image-translator-mcp/internal/ocr"
	"github.com/ironsheep/image-translator-mcp/internal/translate"
)

// Binarizer reduces a color crop to dark text on a white background.
type Binarizer interface {
	Binarize(img image.Image) (*image.Gray, error)
}

// Renderer paints text into a layout box.
type Renderer interface {
	RenderLines(dst draw.Image, box image.Rectangle, lineHeight int, text string) error
}

// Stages are the collaborators a Translator drives.
type Stages struct {
	Detector   detection.Detector
	Binarizer  Binarizer
	OCR        ocr.Engine
	Translator translate.Translator
	Renderer   Renderer
}

// Segment is one translated paragraph.
type Segment struct {
	// Bounds is the paragraph box in the input image.
	Bounds detection.Bounds `json:"bounds"`

	// Text is what OCR read, words joined by single spaces.
	Text string `json:"text"`

	// Translation is Text in the target language.
	Translation string `json:"translation"`

	// Words are the recognized words in input image coordinates.
	Words []ocr.Word `json:"words"`
}

// Result is the outcome of Process.
type Result struct {
	// Image is a copy of the input with every translation painted in.
	Image *image.NRGBA `json:"-"`

	// Segments are the translated paragraphs in reading order.
	Segments []Segment `json:"segments"`

	// Paragraphs is the number of paragraph boxes examined, including
	// those where nothing was read.
	Paragraphs int `json:"paragraphs"`
}

// Translator is the end-to-end image translator.
type Translator struct {
	stages      Stages
	log         zerolog.Logger
	ocrLanguage string
	source      string
	target      string
	pad         int
}

// Option configures a Translator.
type Option func(*Translator)

// WithLogger sets the logger. The default discards everything.
func WithLogger(log zerolog.Logger) Option {
	return func(t *Translator) { t.log = log }
}

// WithLanguages sets the OCR language code and the translation source and
// target languages.
func WithLanguages(ocrLanguage, source, target string) Option {
	return func(t *Translator) {
		t.ocrLanguage = ocrLanguage
		t.source = source
		t.target = target
	}
}

// WithParagraphPad sets how far regions grow before they are grouped.
func WithParagraphPad(pad int) Option {
	return func(t *Translator) { t.pad = pad }
}

// New creates a Translator. Every stage is required.
func New(stages Stages, opts ...Option) (*Translator, error) {
	switch {
	case stages.Detector == nil:
		return nil, errors.New("pipeline: missing text detector")
	case stages.Binarizer == nil:
		return nil, errors.New("pipeline: missing binarizer")
	case stages.OCR == nil:
		return nil, errors.New("pipeline: missing OCR engine")
	case stages.Translator == nil:
		return nil, errors.New("pipeline: missing translator")
	case stages.Renderer == nil:
		return nil, errors.New("pipeline: missing renderer")
	}

	t := &Translator{
		stages:      stages,
		log:         zerolog.Nop(),
		ocrLanguage: ocr.DefaultLanguage,
		source:      translate.AutoDetect,
		target:      "fr",
		pad:         detection.ParagraphPad,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

// Recognize binarizes region of img and runs OCR on it. Word bounds in the
// result are in img coordinates. The binarized crop is returned as well.
func (t *Translator) Recognize(ctx context.Context, img image.Image, region image.Rectangle) (*ocr.Result, *image.Gray, error) {
	clipped := region.Intersect(img.Bounds())
	if clipped.Empty() {
		return nil, nil, fmt.Errorf("region %v is outside the image", region)
	}
	region = clipped

	crop, err := imaging.CropImage(img, region)
	if err != nil {
		return nil, nil, err
	}

	bin, err := t.stages.Binarizer.Binarize(crop)
	if err != nil {
		return nil, nil, fmt.Errorf("binarize: %w", err)
	}

	res, err := t.stages.OCR.Recognize(ctx, bin, t.ocrLanguage)
	if err != nil {
		return nil, nil, fmt.Errorf("ocr: %w", err)
	}
	res.Offset(region.Min)
	return res, bin, nil
}

// Process translates all text found in img.
//
// The input is not modified. Paragraphs where OCR reads nothing are
// skipped. An OCR or translation failure aborts the whole call with an
// error naming the paragraph.
func (t *Translator) Process(ctx context.Context, img image.Image) (*Result, error) {
	if img == nil || img.Bounds().Empty() {
		return nil, errors.New("pipeline: empty image")
	}
	src := imaging.Normalize(img)

	regions, err := t.stages.Detector.Detect(src)
	if err != nil {
		return nil, fmt.Errorf("detect text: %w", err)
	}
	paragraphs := detection.GroupParagraphs(regions, t.pad, src.Rect)

	t.log.Debug().
		Int("regions", len(regions)).
		Int("paragraphs", len(paragraphs)).
		Msg("text detected")

	out := imaging.Normalize(src)
	result := &Result{Image: out, Paragraphs: len(paragraphs), Segments: []Segment{}}

	for _, p := range paragraphs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		box := p.Rect()

		read, _, err := t.Recognize(ctx, src, box)
		if err != nil {
			return nil, fmt.Errorf("paragraph %v: %w", box, err)
		}
		text := strings.TrimSpace(read.Text)
		if text == "" {
			t.log.Debug().Stringer("box", box).Msg("no text read, skipping")
			continue
		}

		translated, err := t.stages.Translator.Translate(ctx, text, t.source, t.target)
		if err != nil {
			return nil, fmt.Errorf("paragraph %v: translate: %w", box, err)
		}

		if err := t.stages.Renderer.RenderLines(out, box, lineHeight(read, box), translated); err != nil {
			return nil, fmt.Errorf("paragraph %v: render: %w", box, err)
		}

		t.log.Debug().
			Stringer("box", box).
			Int("words", len(read.Words)).
			Str("text", text).
			Str("translation", translated).
			Msg("paragraph translated")

		result.Segments = append(result.Segments, Segment{
			Bounds:      p,
			Text:        text,
			Translation: translated,
			Words:       read.Words,
		})
	}

	return result, nil
}

// lineHeight estimates the text line height from the first recognized
// word, falling back to the paragraph height.
func lineHeight(r *ocr.Result, box image.Rectangle) int {
	if len(r.Words) > 0 {
		if h := r.Words[0].Bounds.Rect().Dy(); h > 0 {
			return h
		}
	}
	return box.Dy()
}
