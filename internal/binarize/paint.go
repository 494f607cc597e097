package binarize

import (
	"image"

	"github.com/anthonynsimon/bild/channel"
	"github.com/anthonynsimon/bild/convolution"
	"github.com/anthonynsimon/bild/parallel"

	"github.com/ironsheep/image-translator-mcp/internal/contour"
)

// PaintCommand thresholds one box of the source into the canvas. Pixels
// whose luma is above Threshold get Background, the rest get Ink.
type PaintCommand struct {
	Box        contour.Box `json:"box"`
	Threshold  float64     `json:"threshold"`
	Ink        uint8       `json:"ink"`
	Background uint8       `json:"background"`
}

// NewPaintCommand pairs a keeper's box with its polarity.
func NewPaintCommand(k Keeper, p Polarity) PaintCommand {
	return PaintCommand{
		Box:        k.Box,
		Threshold:  p.ForegroundLuma,
		Ink:        p.Ink,
		Background: p.Background,
	}
}

// Paint applies cmds in order to a canvas of src's size filled with 255.
// Later commands overwrite earlier ones where boxes overlap; parts of a box
// outside src are ignored. src must have its origin at (0,0).
//
// With rowParallel set, horizontal bands of the canvas are painted
// concurrently. Each band still applies every command in order, so the
// result is identical to the sequential one.
func Paint(src *image.NRGBA, cmds []PaintCommand, rowParallel bool) *image.Gray {
	bounds := image.Rect(0, 0, src.Rect.Dx(), src.Rect.Dy())
	canvas := image.NewGray(bounds)
	for i := range canvas.Pix {
		canvas.Pix[i] = 255
	}

	paintRows := func(start, end int) {
		for _, cmd := range cmds {
			r := cmd.Box.Rect().Intersect(image.Rect(0, start, bounds.Dx(), end))
			for y := r.Min.Y; y < r.Max.Y; y++ {
				for x := r.Min.X; x < r.Max.X; x++ {
					v := cmd.Ink
					if lumaAt(src, x, y) > cmd.Threshold {
						v = cmd.Background
					}
					canvas.Pix[canvas.PixOffset(x, y)] = v
				}
			}
		}
	}

	if rowParallel {
		parallel.Line(bounds.Dy(), paintRows)
	} else {
		paintRows(0, bounds.Dy())
	}
	return canvas
}

// Smooth applies a 2x2 box blur. Each output pixel averages itself with its
// left, upper and upper-left neighbors, rounded to nearest; the border is
// extended outward.
func Smooth(canvas *image.Gray) *image.Gray {
	k := convolution.NewKernel(2, 2)
	for i := range k.Matrix {
		k.Matrix[i] = 0.25
	}
	blurred := convolution.Convolve(canvas, k, &convolution.Options{Bias: 0.5})
	return channel.Extract(blurred, channel.Red)
}
