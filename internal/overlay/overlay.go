// Package overlay paints translated text back into a photograph.
//
// The layout box is first covered with the median color of its own border,
// which hides the source text on the flat backgrounds typical of signs and
// labels. The translation is then drawn in black or white, whichever
// contrasts with that fill, using the Go Regular font.
package overlay

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"sort"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// MinFontSize is the smallest font size the renderer uses, in pixels.
const MinFontSize = 8

// fontScale relates a text line's pixel height to the font size that
// reproduces it.
const fontScale = 1.1

// ErrEmptyBox is returned when the layout box does not intersect the image.
var ErrEmptyBox = errors.New("layout box is empty")

// Renderer draws text into layout boxes. It is safe for concurrent use on
// distinct destination images.
type Renderer struct {
	font *opentype.Font
}

// NewRenderer parses the embedded Go Regular font.
func NewRenderer() (*Renderer, error) {
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}
	return &Renderer{font: f}, nil
}

// FontSize returns the font size for text whose lines are lineHeight pixels
// tall.
func FontSize(lineHeight int) int {
	return max(int(float64(lineHeight)*fontScale), MinFontSize)
}

// Face returns a font face of the given pixel size. The caller must close it.
func (r *Renderer) Face(size int) (font.Face, error) {
	face, err := opentype.NewFace(r.font, &opentype.FaceOptions{
		Size:    float64(size),
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create font face: %w", err)
	}
	return face, nil
}

// Render fills box and draws text sized to the box height.
func (r *Renderer) Render(dst draw.Image, box image.Rectangle, text string) error {
	return r.RenderLines(dst, box, box.Dy(), text)
}

// RenderLines fills box with the median color of its border, then draws
// text wrapped to the box width in a font sized for lines lineHeight pixels
// tall.
//
// Lines advance by the face's line height and may run past the bottom of
// the box; drawing is clipped to dst.
func (r *Renderer) RenderLines(dst draw.Image, box image.Rectangle, lineHeight int, text string) error {
	box = box.Intersect(dst.Bounds())
	if box.Empty() {
		return ErrEmptyBox
	}

	fill := BorderMedian(dst, box)
	draw.Draw(dst, box, image.NewUniform(fill), image.Point{}, draw.Src)

	face, err := r.Face(FontSize(lineHeight))
	if err != nil {
		return err
	}
	defer face.Close()

	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(Contrast(fill)),
		Face: face,
	}

	metrics := face.Metrics()
	y := box.Min.Y + metrics.Ascent.Ceil()
	for _, line := range Wrap(text, face, box.Dx()) {
		d.Dot = fixed.P(box.Min.X, y)
		d.DrawString(line)
		y += metrics.Height.Ceil()
	}
	return nil
}

// Wrap breaks text into lines no wider than maxWidth pixels when drawn
// with face.
//
// Words are split on whitespace and packed greedily. A word wider than
// maxWidth gets a line of its own.
func Wrap(text string, face font.Face, maxWidth int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	width := func(s string) int {
		return font.MeasureString(face, s).Ceil()
	}

	var lines []string
	line := words[0]
	for _, w := range words[1:] {
		candidate := line + " " + w
		if width(candidate) <= maxWidth {
			line = candidate
			continue
		}
		lines = append(lines, line)
		line = w
	}
	return append(lines, line)
}

// BorderMedian returns the per-channel median color of the pixels on the
// edge of box. box must lie within img.
func BorderMedian(img image.Image, box image.Rectangle) color.NRGBA {
	var rs, gs, bs []uint8

	add := func(x, y int) {
		c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
		rs = append(rs, c.R)
		gs = append(gs, c.G)
		bs = append(bs, c.B)
	}

	for x := box.Min.X; x < box.Max.X; x++ {
		add(x, box.Min.Y)
		if box.Dy() > 1 {
			add(x, box.Max.Y-1)
		}
	}
	for y := box.Min.Y + 1; y < box.Max.Y-1; y++ {
		add(box.Min.X, y)
		if box.Dx() > 1 {
			add(box.Max.X-1, y)
		}
	}

	return color.NRGBA{R: median(rs), G: median(gs), B: median(bs), A: 255}
}

func median(v []uint8) uint8 {
	if len(v) == 0 {
		return 0
	}
	sort.Slice(v, func(i, j int) bool { return v[i] < v[j] })
	return v[len(v)/2]
}

// Contrast returns black for light backgrounds and white for dark ones,
// judged by CIE L* lightness.
func Contrast(bg color.Color) color.Color {
	c, _ := colorful.MakeColor(bg)
	l, _, _ := c.Lab()
	if l >= 0.5 {
		return color.Black
	}
	return color.White
}
