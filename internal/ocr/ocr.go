package ocr

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sort"
	"strings"
	"sync"
)

var (
	// ErrOCRNotEnabled is returned for an engine that was not compiled in.
	ErrOCRNotEnabled = errors.New("OCR not enabled; rebuild with -tags tesseract")

	// ErrUnknownEngine is returned by New for a name nobody registered.
	ErrUnknownEngine = errors.New("unknown OCR engine")
)

// DefaultLanguage is the Tesseract language code used when none is given.
const DefaultLanguage = "eng"

// Engine recognizes text in an image.
//
// Engines need not be safe for concurrent use unless documented.
type Engine interface {
	Recognize(ctx context.Context, img image.Image, language string) (*Result, error)
	Close() error
}

// Factory constructs an Engine.
type Factory func() (Engine, error)

// Bounds represents a rectangular bounding box in pixel coordinates.
type Bounds struct {
	X1 int `json:"x1"` // Left edge
	Y1 int `json:"y1"` // Top edge
	X2 int `json:"x2"` // Right edge
	Y2 int `json:"y2"` // Bottom edge
}

// Rect returns b as an image.Rectangle.
func (b Bounds) Rect() image.Rectangle {
	return image.Rect(b.X1, b.Y1, b.X2, b.Y2)
}

// Offset returns b translated by p.
func (b Bounds) Offset(p image.Point) Bounds {
	return Bounds{X1: b.X1 + p.X, Y1: b.Y1 + p.Y, X2: b.X2 + p.X, Y2: b.Y2 + p.Y}
}

// Word is a single recognized word.
type Word struct {
	// Text is the recognized word.
	Text string `json:"text"`

	// Confidence is the engine's confidence score (0.0 to 1.0).
	Confidence float64 `json:"confidence"`

	// Bounds is the bounding box around the word.
	Bounds Bounds `json:"bounds"`
}

// Result contains the complete results of text extraction from an image.
type Result struct {
	// Text is every word joined with single spaces.
	Text string `json:"text"`

	// Bounds is the union of the word boxes. Zero when there are no words.
	Bounds Bounds `json:"bounds"`

	// Words are the recognized words in engine order.
	Words []Word `json:"words"`
}

// NewResult assembles a Result from words, dropping empty ones.
func NewResult(words []Word) *Result {
	kept := make([]Word, 0, len(words))
	texts := make([]string, 0, len(words))
	var union image.Rectangle

	for _, w := range words {
		text := strings.TrimSpace(w.Text)
		if text == "" {
			continue
		}
		w.Text = text
		kept = append(kept, w)
		texts = append(texts, text)
		union = union.Union(w.Bounds.Rect())
	}

	return &Result{
		Text:   strings.Join(texts, " "),
		Bounds: Bounds{X1: union.Min.X, Y1: union.Min.Y, X2: union.Max.X, Y2: union.Max.Y},
		Words:  kept,
	}
}

// Offset translates every box in r by p, in place.
func (r *Result) Offset(p image.Point) {
	if len(r.Words) == 0 {
		return
	}
	r.Bounds = r.Bounds.Offset(p)
	for i := range r.Words {
		r.Words[i].Bounds = r.Words[i].Bounds.Offset(p)
	}
}

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Factory)
)

// Register makes an engine available under name. Registering the same name
// twice replaces the earlier factory.
func Register(name string, f Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = f
}

// New constructs the engine registered under name.
func New(name string) (Engine, error) {
	registryMu.RLock()
	f, ok := registry[name]
	registryMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEngine, name)
	}
	return f()
}

// Engines returns the registered engine names in sorted order.
func Engines() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Info describes an OCR engine's availability.
type Info struct {
	Engine    string `json:"engine"`
	Available bool   `json:"available"`
	Version   string `json:"version,omitempty"`
	Error     string `json:"error,omitempty"`
}

// Versioner is implemented by engines that can report a version string.
type Versioner interface {
	Version() string
}

// GetInfo constructs the named engine to check that it works and closes it.
func GetInfo(name string) Info {
	info := Info{Engine: name}

	e, err := New(name)
	if err != nil {
		info.Error = err.Error()
		return info
	}
	defer e.Close()

	info.Available = true
	if v, ok := e.(Versioner); ok {
		info.Version = v.Version()
	}
	return info
}
