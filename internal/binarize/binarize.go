package binarize

import (
	"errors"
	"fmt"
	"image"

	"github.com/rs/zerolog"

	"github.com/ironsheep/image-translator-mcp/internal/contour"
	"github.com/ironsheep/image-translator-mcp/internal/imaging"
)

// ErrEmptyRaster is returned for images with zero width or height.
var ErrEmptyRaster = errors.New("image has zero width or height")

// EdgeExtractor produces a binary edge map (nonzero = edge) the size of img.
type EdgeExtractor interface {
	Extract(img *image.NRGBA) (*image.Gray, error)
}

// EdgeExtractorFunc adapts a function to EdgeExtractor.
type EdgeExtractorFunc func(img *image.NRGBA) (*image.Gray, error)

// Extract calls f(img).
func (f EdgeExtractorFunc) Extract(img *image.NRGBA) (*image.Gray, error) {
	return f(img)
}

// Tracer builds the contour forest of an edge map.
type Tracer interface {
	Trace(edges *image.Gray) (*contour.Forest, error)
}

// TracerFunc adapts a function to Tracer.
type TracerFunc func(edges *image.Gray) (*contour.Forest, error)

// Trace calls f(edges).
func (f TracerFunc) Trace(edges *image.Gray) (*contour.Forest, error) {
	return f(edges)
}

// UnionCanny is the default EdgeExtractor: per-channel Canny at the text
// thresholds, unioned.
var UnionCanny = EdgeExtractorFunc(func(img *image.NRGBA) (*image.Gray, error) {
	return imaging.UnionEdges(img, imaging.TextEdgeLow, imaging.TextEdgeHigh), nil
})

// BorderFollowing is the default Tracer.
var BorderFollowing = TracerFunc(func(edges *image.Gray) (*contour.Forest, error) {
	return contour.Trace(edges), nil
})

// Binarizer converts color text crops into two-level images.
type Binarizer struct {
	log         zerolog.Logger
	classifier  Classifier
	edges       EdgeExtractor
	tracer      Tracer
	rowParallel bool
}

// Option configures a Binarizer.
type Option func(*Binarizer)

// WithLogger sets the logger. The default discards everything.
func WithLogger(log zerolog.Logger) Option {
	return func(b *Binarizer) { b.log = log }
}

// WithClassifier replaces DefaultClassifier.
func WithClassifier(c Classifier) Option {
	return func(b *Binarizer) { b.classifier = c }
}

// WithEdgeExtractor replaces UnionCanny.
func WithEdgeExtractor(e EdgeExtractor) Option {
	return func(b *Binarizer) {
		if e != nil {
			b.edges = e
		}
	}
}

// WithTracer replaces BorderFollowing.
func WithTracer(t Tracer) Option {
	return func(b *Binarizer) {
		if t != nil {
			b.tracer = t
		}
	}
}

// WithParallelPaint paints row bands concurrently. Output is unchanged.
func WithParallelPaint(on bool) Option {
	return func(b *Binarizer) { b.rowParallel = on }
}

// New returns a Binarizer with the given options applied over the defaults.
func New(opts ...Option) *Binarizer {
	b := &Binarizer{
		log:        zerolog.Nop(),
		classifier: DefaultClassifier(),
		edges:      UnionCanny,
		tracer:     BorderFollowing,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Analysis holds every intermediate product of one binarization.
//
// Keepers, Polarities and Commands are parallel slices.
type Analysis struct {
	Width      int
	Height     int
	Edges      *image.Gray
	Forest     *contour.Forest
	Keepers    []Keeper
	Polarities []Polarity
	Commands   []PaintCommand
	Output     *image.Gray
}

// Binarize returns the two-level rendering of img. The result has the same
// size as img with its origin at (0,0).
func (b *Binarizer) Binarize(img image.Image) (*image.Gray, error) {
	a, err := b.Analyze(img)
	if err != nil {
		return nil, err
	}
	return a.Output, nil
}

// Analyze runs the full pipeline and keeps the intermediate results.
func (b *Binarizer) Analyze(img image.Image) (*Analysis, error) {
	if img == nil || img.Bounds().Empty() {
		return nil, ErrEmptyRaster
	}

	src := imaging.Normalize(img)
	width, height := src.Rect.Dx(), src.Rect.Dy()
	b.log.Debug().Int("width", width).Int("height", height).Msg("binarize start")

	edges, err := b.edges.Extract(src)
	if err != nil {
		return nil, fmt.Errorf("failed to extract edges: %w", err)
	}
	if edges.Rect.Dx() != width || edges.Rect.Dy() != height {
		return nil, fmt.Errorf("edge map is %dx%d, want %dx%d", edges.Rect.Dx(), edges.Rect.Dy(), width, height)
	}

	forest, err := b.tracer.Trace(edges)
	if err != nil {
		return nil, fmt.Errorf("failed to trace contours: %w", err)
	}

	keepers := FilterKeepers(forest, b.classifier)

	polarities := make([]Polarity, len(keepers))
	cmds := make([]PaintCommand, len(keepers))
	for i, k := range keepers {
		polarities[i] = ResolvePolarity(src, forest.Contour(k.Index))
		cmds[i] = NewPaintCommand(k, polarities[i])
	}

	if len(keepers) == 0 {
		b.log.Debug().Int("contours", forest.Len()).Msg("no glyph candidates, output is blank")
	}

	out := Smooth(Paint(src, cmds, b.rowParallel))

	b.log.Debug().
		Int("contours", forest.Len()).
		Int("keepers", len(keepers)).
		Msg("binarize done")

	return &Analysis{
		Width:      width,
		Height:     height,
		Edges:      edges,
		Forest:     forest,
		Keepers:    keepers,
		Polarities: polarities,
		Commands:   cmds,
		Output:     out,
	}, nil
}

// Binarize runs a default Binarizer on img.
func Binarize(img image.Image) (*image.Gray, error) {
	return New().Binarize(img)
}
