package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"

	"github.com/anthonynsimon/bild/channel"
)

// Canny thresholds used when extracting edges for text binarization.
// Both are gradient magnitudes on the 8-bit scale.
const (
	TextEdgeLow  = 200
	TextEdgeHigh = 250
)

// Non-maximum suppression sector bounds: tan(22.5°) and tan(67.5°).
const (
	tan22 = 0.41421356
	tan67 = 2.41421356
)

// EdgeDetectResult contains an edge-detected image encoded as base64 PNG.
//
// The result is a grayscale image where white pixels (255) represent detected
// edges and black pixels (0) represent non-edges.
type EdgeDetectResult struct {
	// Width of the output image in pixels (same as input).
	Width int `json:"width"`

	// Height of the output image in pixels (same as input).
	Height int `json:"height"`

	// EdgePixels is the number of pixels marked as edges.
	EdgePixels int `json:"edge_pixels"`

	// ImageBase64 is the edge image encoded as base64 PNG.
	// The image is grayscale with edges marked in white (255).
	ImageBase64 string `json:"image_base64"`

	// MimeType is always "image/png" for edge detection results.
	MimeType string `json:"mime_type"`
}

// EdgeDetect runs per-channel Canny edge detection and returns the union
// of the red, green and blue edge maps as a base64 PNG.
//
// Parameters:
//   - img: Source image (color or grayscale).
//   - thresholdLow: Weak-edge gradient threshold on the 8-bit scale.
//   - thresholdHigh: Strong-edge gradient threshold on the 8-bit scale.
//
// The text binarizer uses TextEdgeLow and TextEdgeHigh; callers inspecting
// what the binarizer sees should pass those.
func EdgeDetect(img image.Image, thresholdLow, thresholdHigh int) (*EdgeDetectResult, error) {
	if img.Bounds().Empty() {
		return nil, fmt.Errorf("cannot detect edges in an empty image")
	}
	edges := UnionEdges(Normalize(img), float64(thresholdLow), float64(thresholdHigh))

	count := 0
	for _, v := range edges.Pix {
		if v != 0 {
			count++
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, edges); err != nil {
		return nil, fmt.Errorf("failed to encode edge image: %w", err)
	}

	return &EdgeDetectResult{
		Width:       edges.Rect.Dx(),
		Height:      edges.Rect.Dy(),
		EdgePixels:  count,
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
	}, nil
}

// UnionEdges splits img into its red, green and blue planes, runs Canny on
// each plane independently and ORs the three edge maps together.
//
// Text strokes are often visible in only one or two planes against a colored
// or textured background, so the union recovers edges that a single luma
// pass would miss. The returned image has the same size as img with its
// origin at (0,0); edge pixels are 255 and all others 0.
func UnionEdges(img image.Image, low, high float64) *image.Gray {
	b := img.Bounds()
	union := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))

	for _, c := range []channel.Channel{channel.Red, channel.Green, channel.Blue} {
		edges := Canny(channel.Extract(img, c), low, high)
		for i, v := range edges.Pix {
			union.Pix[i] |= v
		}
	}
	return union
}

// Canny performs Canny edge detection on a single 8-bit plane.
//
// # Algorithm
//
//  1. Gradients: 3x3 Sobel operators with replicated borders. No smoothing is
//     applied beforehand.
//  2. Magnitude: L1 norm |Gx| + |Gy|, so magnitudes range up to 2040.
//  3. Non-maximum suppression: the gradient direction is quantized into
//     horizontal, vertical and the two diagonals. On the horizontal and
//     vertical axes a pixel must be strictly greater than its previous
//     neighbor and at least equal to its next one, which keeps exactly one
//     pixel of a two-pixel plateau.
//  4. Hysteresis: pixels above high are edges; pixels above low are edges
//     only when 8-connected to an edge through other such pixels.
//
// The result has origin (0,0) with edges at 255.
func Canny(plane *image.Gray, low, high float64) *image.Gray {
	b := plane.Bounds()
	width, height := b.Dx(), b.Dy()
	out := image.NewGray(image.Rect(0, 0, width, height))
	if width == 0 || height == 0 {
		return out
	}

	at := func(x, y int) int {
		x = clamp(x, 0, width-1)
		y = clamp(y, 0, height-1)
		return int(plane.Pix[plane.PixOffset(x+b.Min.X, y+b.Min.Y)])
	}

	n := width * height
	gradX := make([]int, n)
	gradY := make([]int, n)
	magnitude := make([]int, n)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			gx := (at(x+1, y-1) + 2*at(x+1, y) + at(x+1, y+1)) -
				(at(x-1, y-1) + 2*at(x-1, y) + at(x-1, y+1))
			gy := (at(x-1, y+1) + 2*at(x, y+1) + at(x+1, y+1)) -
				(at(x-1, y-1) + 2*at(x, y-1) + at(x+1, y-1))
			i := y*width + x
			gradX[i] = gx
			gradY[i] = gy
			magnitude[i] = absInt(gx) + absInt(gy)
		}
	}

	mag := func(x, y int) int {
		if x < 0 || y < 0 || x >= width || y >= height {
			return 0
		}
		return magnitude[y*width+x]
	}

	// 0 = not an edge, 1 = weak candidate, 2 = edge
	state := make([]uint8, n)
	stack := make([]int, 0, 64)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			i := y*width + x
			m := magnitude[i]
			if float64(m) <= low {
				continue
			}

			gx, gy := gradX[i], gradY[i]
			ax, ay := float64(absInt(gx)), float64(absInt(gy))

			var isMax bool
			switch {
			case ay < ax*tan22:
				isMax = m > mag(x-1, y) && m >= mag(x+1, y)
			case ay > ax*tan67:
				isMax = m > mag(x, y-1) && m >= mag(x, y+1)
			case (gx < 0) == (gy < 0):
				isMax = m > mag(x-1, y-1) && m > mag(x+1, y+1)
			default:
				isMax = m > mag(x+1, y-1) && m > mag(x-1, y+1)
			}
			if !isMax {
				continue
			}

			if float64(m) > high {
				state[i] = 2
				stack = append(stack, i)
			} else {
				state[i] = 1
			}
		}
	}

	// Grow strong edges through connected weak candidates.
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		x, y := i%width, i/width
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				nx, ny := x+dx, y+dy
				if nx < 0 || ny < 0 || nx >= width || ny >= height {
					continue
				}
				j := ny*width + nx
				if state[j] == 1 {
					state[j] = 2
					stack = append(stack, j)
				}
			}
		}
	}

	for i, s := range state {
		if s == 2 {
			out.Pix[i] = 255
		}
	}
	return out
}

// clamp constrains an integer value to the range [min, max].
// Used for boundary handling in convolution operations.
func clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
