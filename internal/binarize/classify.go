package binarize

import "github.com/ironsheep/image-translator-mcp/internal/contour"

// Classifier decides whether a single contour looks like a glyph.
type Classifier struct {
	// MinAspect and MaxAspect bound W/H, inclusive.
	MinAspect float64 `json:"min_aspect"`
	MaxAspect float64 `json:"max_aspect"`

	// MinArea and MaxArea bound W*H in pixels, inclusive.
	MinArea int `json:"min_area"`
	MaxArea int `json:"max_area"`
}

// DefaultClassifier returns the thresholds used for photographed text.
func DefaultClassifier() Classifier {
	return Classifier{
		MinAspect: 0.1,
		MaxAspect: 10,
		MinArea:   15,
		MaxArea:   3000,
	}
}

// KeepBox reports whether a box has glyph-like proportions and size.
func (c Classifier) KeepBox(b contour.Box) bool {
	if b.W <= 0 || b.H <= 0 {
		return false
	}
	if r := b.Aspect(); r < c.MinAspect || r > c.MaxAspect {
		return false
	}
	a := b.Area()
	return a >= c.MinArea && a <= c.MaxArea
}

// Keep reports whether ct passes KeepBox and is closed.
func (c Classifier) Keep(ct contour.Contour) bool {
	return c.KeepBox(ct.Box()) && ct.Closed()
}
