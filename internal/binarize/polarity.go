package binarize

import (
	"image"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/ironsheep/image-translator-mcp/internal/contour"
	"github.com/ironsheep/image-translator-mcp/internal/imaging"
)

// Polarity holds the output values for one region, together with the luma
// estimates they were chosen from.
//
// Ink is written to pixels at or below ForegroundLuma and Background to
// brighter ones. The pair is always {255, 0} or {0, 255}. Which pair a region
// gets depends only on that region, so two regions of the same image may
// disagree.
type Polarity struct {
	Ink        uint8 `json:"ink"`
	Background uint8 `json:"background"`

	// ForegroundLuma is the mean luma along the contour. It doubles as the
	// region's threshold when painting.
	ForegroundLuma float64 `json:"foreground_luma"`

	// BackgroundLuma is the median luma just outside the box corners.
	BackgroundLuma float64 `json:"background_luma"`
}

// LightOnDark reports whether the region's border was at least as bright as
// its surroundings.
func (p Polarity) LightOnDark() bool {
	return p.Ink == 255
}

// ResolvePolarity estimates foreground and background luma for ct within
// img and picks the ink value.
//
// A border at least as bright as its surroundings yields Ink 255 and
// Background 0; otherwise Ink 0 and Background 255.
func ResolvePolarity(img *image.NRGBA, ct contour.Contour) Polarity {
	samples := make([]float64, len(ct.Points))
	for i, p := range ct.Points {
		samples[i] = lumaAt(img, p.X, p.Y)
	}

	var fg float64
	if len(samples) > 0 {
		fg = stat.Mean(samples, nil)
	}
	bg := cornerMedian(img, ct.Box())

	if fg >= bg {
		return Polarity{Ink: 255, Background: 0, ForegroundLuma: fg, BackgroundLuma: bg}
	}
	return Polarity{Ink: 0, Background: 255, ForegroundLuma: fg, BackgroundLuma: bg}
}

// cornerMedian samples three points just beyond each corner of b and
// returns their median. Corner names assume y grows downward; with y up the
// same groups read bottom-left, bottom-right, top-left, top-right.
func cornerMedian(img *image.NRGBA, b contour.Box) float64 {
	x, y, w, h := b.X, b.Y, b.W, b.H
	pts := [12]image.Point{
		// top-left
		{x - 1, y - 1}, {x - 1, y}, {x, y - 1},
		// top-right
		{x + w + 1, y - 1}, {x + w, y - 1}, {x + w + 1, y},
		// bottom-left
		{x - 1, y + h + 1}, {x - 1, y + h}, {x, y + h + 1},
		// bottom-right
		{x + w + 1, y + h + 1}, {x + w, y + h + 1}, {x + w + 1, y + h},
	}

	vals := make([]float64, len(pts))
	for i, p := range pts {
		vals[i] = lumaAt(img, p.X, p.Y)
	}
	sort.Float64s(vals)
	return (vals[5] + vals[6]) / 2
}

// lumaAt returns the luma of the pixel at (x, y), or 0 outside the image.
func lumaAt(img *image.NRGBA, x, y int) float64 {
	if !(image.Point{X: x, Y: y}).In(img.Rect) {
		return 0
	}
	i := img.PixOffset(x, y)
	return imaging.Luma(img.Pix[i], img.Pix[i+1], img.Pix[i+2])
}
