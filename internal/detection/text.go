package detection

import (
	"fmt"
	"image"
	"math"
	"sort"

	"github.com/ironsheep/image-translator-mcp/internal/imaging"
)

// Detector finds candidate text regions in an image.
type Detector interface {
	Detect(img image.Image) ([]Bounds, error)
}

// DetectorFunc adapts a function to the Detector interface.
type DetectorFunc func(img image.Image) ([]Bounds, error)

// Detect calls f(img).
func (f DetectorFunc) Detect(img image.Image) ([]Bounds, error) { return f(img) }

// Window is a sliding window size in pixels.
type Window struct {
	W int `json:"w"`
	H int `json:"h"`
}

// DefaultWindows covers text from roughly 10 to 40 pixels tall.
var DefaultWindows = []Window{
	{100, 30}, // Small text
	{150, 40}, // Medium text
	{200, 50}, // Large text
	{80, 25},  // Very small text
}

// DefaultMinConfidence is the confidence threshold used by
// NewEdgeDensityDetector.
const DefaultMinConfidence = 0.3

// Density band accepted as text.
const (
	minDensity    = 0.05
	maxDensity    = 0.4
	targetDensity = 0.2
)

// TextRegion represents a detected text region
type TextRegion struct {
	Bounds     Bounds  `json:"bounds"`
	Confidence float64 `json:"confidence"`
	Area       int     `json:"area"`
}

// TextRegionsResult contains detected text regions
type TextRegionsResult struct {
	Regions []TextRegion `json:"regions"`
	Count   int          `json:"count"`
}

// EdgeDensityDetector is a Detector based on edge density and horizontal
// structure. The zero value is not usable; call NewEdgeDensityDetector.
type EdgeDensityDetector struct {
	MinConfidence float64
	Windows       []Window
}

// NewEdgeDensityDetector returns a detector with the default windows and
// confidence threshold.
func NewEdgeDensityDetector() *EdgeDensityDetector {
	return &EdgeDensityDetector{
		MinConfidence: DefaultMinConfidence,
		Windows:       DefaultWindows,
	}
}

// Detect returns the bounds of the scored regions, highest confidence first.
func (d *EdgeDensityDetector) Detect(img image.Image) ([]Bounds, error) {
	result, err := d.Regions(img)
	if err != nil {
		return nil, err
	}
	out := make([]Bounds, len(result.Regions))
	for i, r := range result.Regions {
		out[i] = r.Bounds
	}
	return out, nil
}

// Regions finds regions likely to contain text, with their confidence.
// Bounds are in the coordinate space of img.
func (d *EdgeDensityDetector) Regions(img image.Image) (*TextRegionsResult, error) {
	if img == nil {
		return nil, fmt.Errorf("no image to detect text in")
	}
	bounds := img.Bounds()
	src := imaging.Normalize(img)
	width, height := src.Rect.Dx(), src.Rect.Dy()

	edges := detectEdges(src)

	candidates := make([]TextRegion, 0)

	for _, ws := range d.Windows {
		if ws.W <= 0 || ws.H <= 0 {
			return nil, fmt.Errorf("invalid window size %dx%d", ws.W, ws.H)
		}
		stepX := max(ws.W/2, 1)
		stepY := max(ws.H/2, 1)

		for y := 0; y <= height-ws.H; y += stepY {
			for x := 0; x <= width-ws.W; x += stepX {
				edgeCount := 0
				for wy := 0; wy < ws.H; wy++ {
					for wx := 0; wx < ws.W; wx++ {
						if edges[y+wy][x+wx] {
							edgeCount++
						}
					}
				}

				area := ws.W * ws.H
				density := float64(edgeCount) / float64(area)
				if density < minDensity || density > maxDensity {
					continue
				}

				horizontalScore := calculateHorizontalScore(edges, x, y, ws.W, ws.H)
				confidence := horizontalScore * (1.0 - math.Abs(density-targetDensity)/targetDensity)

				if confidence >= d.MinConfidence {
					candidates = append(candidates, TextRegion{
						Bounds: Bounds{
							X1: x + bounds.Min.X,
							Y1: y + bounds.Min.Y,
							X2: x + ws.W + bounds.Min.X,
							Y2: y + ws.H + bounds.Min.Y,
						},
						Confidence: math.Round(confidence*1000) / 1000,
						Area:       area,
					})
				}
			}
		}
	}

	merged := mergeOverlappingRegions(candidates)

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Confidence > merged[j].Confidence
	})

	return &TextRegionsResult{
		Regions: merged,
		Count:   len(merged),
	}, nil
}

// DetectTextRegions runs an EdgeDensityDetector with the default windows and
// the given confidence threshold.
func DetectTextRegions(img image.Image, minConfidence float64) (*TextRegionsResult, error) {
	d := NewEdgeDensityDetector()
	d.MinConfidence = minConfidence
	return d.Regions(img)
}

// calculateHorizontalScore calculates how "horizontal" the edge distribution is
func calculateHorizontalScore(edges [][]bool, x, y, w, h int) float64 {
	horizontalRuns := 0
	verticalRuns := 0

	for row := y; row < y+h; row++ {
		inRun := false
		for col := x; col < x+w; col++ {
			if edges[row][col] {
				if !inRun {
					horizontalRuns++
					inRun = true
				}
			} else {
				inRun = false
			}
		}
	}

	for col := x; col < x+w; col++ {
		inRun := false
		for row := y; row < y+h; row++ {
			if edges[row][col] {
				if !inRun {
					verticalRuns++
					inRun = true
				}
			} else {
				inRun = false
			}
		}
	}

	if horizontalRuns+verticalRuns == 0 {
		return 0
	}
	return float64(horizontalRuns) / float64(horizontalRuns+verticalRuns)
}

// mergeOverlappingRegions combines overlapping text regions
func mergeOverlappingRegions(regions []TextRegion) []TextRegion {
	if len(regions) == 0 {
		return regions
	}

	merged := make([]TextRegion, 0)

	for _, r := range regions {
		foundMerge := false
		for i := range merged {
			if regionsOverlap(r.Bounds, merged[i].Bounds) {
				merged[i].Bounds = mergeBounds(r.Bounds, merged[i].Bounds)
				merged[i].Confidence = math.Max(r.Confidence, merged[i].Confidence)
				merged[i].Area = merged[i].Bounds.Area()
				foundMerge = true
				break
			}
		}
		if !foundMerge {
			merged = append(merged, r)
		}
	}

	return merged
}
