package binarize

import (
	"image"
	"image/color"

	"github.com/ironsheep/image-translator-mcp/internal/contour"
)

// canvas returns a w x h NRGBA filled with bg.
func canvas(w, h int, bg color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	fillRect(img, img.Rect, bg)
	return img
}

func fillRect(img *image.NRGBA, r image.Rectangle, c color.NRGBA) {
	r = r.Intersect(img.Rect)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
}

var (
	white = color.NRGBA{255, 255, 255, 255}
	black = color.NRGBA{0, 0, 0, 255}
)

// square returns a closed contour running clockwise around the perimeter of
// the w x h box at (x, y).
func square(x, y, w, h int) contour.Contour {
	var pts []image.Point
	for i := 0; i < w; i++ {
		pts = append(pts, image.Pt(x+i, y))
	}
	for j := 1; j < h; j++ {
		pts = append(pts, image.Pt(x+w-1, y+j))
	}
	for i := w - 2; i >= 0; i-- {
		pts = append(pts, image.Pt(x+i, y+h-1))
	}
	for j := h - 2; j >= 1; j-- {
		pts = append(pts, image.Pt(x, y+j))
	}
	return contour.New(pts, false)
}

func keeperIndices(keepers []Keeper) []int {
	out := make([]int, len(keepers))
	for i, k := range keepers {
		out[i] = k.Index
	}
	return out
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
