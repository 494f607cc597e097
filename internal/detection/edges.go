package detection

import (
	"image"
	"math"

	"github.com/ironsheep/image-translator-mcp/internal/imaging"
)

// gradientThreshold is the luma difference that marks an edge pixel.
const gradientThreshold = 30.0

// detectEdges performs simple gradient-based edge detection on the luma of
// img.
//
// A pixel is an edge when its luma differs from its right or lower
// neighbor by more than gradientThreshold. Border pixels are never edges.
// The result is indexed [y][x] relative to the image origin.
func detectEdges(img *image.NRGBA) [][]bool {
	width, height := img.Rect.Dx(), img.Rect.Dy()
	edges := make([][]bool, height)

	luma := func(x, y int) float64 {
		i := img.PixOffset(x+img.Rect.Min.X, y+img.Rect.Min.Y)
		return imaging.Luma(img.Pix[i], img.Pix[i+1], img.Pix[i+2])
	}

	for y := 0; y < height; y++ {
		edges[y] = make([]bool, width)
		if y == 0 || y == height-1 {
			continue
		}
		for x := 1; x < width-1; x++ {
			c := luma(x, y)
			dx := math.Abs(c - luma(x+1, y))
			dy := math.Abs(c - luma(x, y+1))
			if dx > gradientThreshold || dy > gradientThreshold {
				edges[y][x] = true
			}
		}
	}

	return edges
}
