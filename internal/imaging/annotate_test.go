package imaging

import (
	"image"
	"image/color"
	"testing"
)

func TestAnnotate(t *testing.T) {
	img := createInMemoryImage(100, 60, color.White)
	boxes := []image.Rectangle{
		image.Rect(10, 10, 30, 40),
		image.Rect(50, 5, 90, 55),
	}

	result, err := Annotate(img, boxes, true, "#00FF00")
	if err != nil {
		t.Fatalf("Annotate failed: %v", err)
	}

	if result.Width != 100 || result.Height != 60 {
		t.Errorf("dimensions = %dx%d, want 100x60", result.Width, result.Height)
	}
	if result.Regions != 2 {
		t.Errorf("Regions = %d, want 2", result.Regions)
	}
	if result.MimeType != "image/png" {
		t.Errorf("MimeType = %s, want image/png", result.MimeType)
	}
	if result.ImageBase64 == "" {
		t.Error("ImageBase64 is empty")
	}
}

func TestDrawRect(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 20, 20))
	green := color.RGBA{0, 255, 0, 255}
	drawRect(img, image.Rect(5, 5, 10, 10), green)

	tests := []struct {
		x, y    int
		outline bool
	}{
		{5, 5, true},
		{9, 9, true},
		{7, 5, true},
		{5, 7, true},
		{7, 7, false},
		{10, 10, false},
		{4, 4, false},
	}

	for _, tt := range tests {
		got := img.RGBAAt(tt.x, tt.y) == green
		if got != tt.outline {
			t.Errorf("pixel (%d,%d) outline = %v, want %v", tt.x, tt.y, got, tt.outline)
		}
	}
}

func TestDrawRect_Clipped(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 10, 10))
	// Must not panic for boxes that leave the image.
	drawRect(img, image.Rect(-5, -5, 20, 20), color.RGBA{255, 0, 0, 255})
	drawRect(img, image.Rect(3, 3, 3, 3), color.RGBA{255, 0, 0, 255})
}

func TestAnnotate_InvalidColorFallsBack(t *testing.T) {
	img := createInMemoryImage(20, 20, color.White)

	result, err := Annotate(img, []image.Rectangle{image.Rect(2, 2, 10, 10)}, false, "bogus")
	if err != nil {
		t.Fatalf("Annotate failed: %v", err)
	}
	if result.ImageBase64 == "" {
		t.Error("ImageBase64 is empty")
	}
}

func TestParseHexColor(t *testing.T) {
	tests := []struct {
		hex     string
		wantR   uint8
		wantG   uint8
		wantB   uint8
		wantA   uint8
		wantErr bool
	}{
		{"#FF0000", 255, 0, 0, 255, false},
		{"#00FF00", 0, 255, 0, 255, false},
		{"#0000FF", 0, 0, 255, 255, false},
		{"FF0000", 255, 0, 0, 255, false},    // without #
		{"#FF000080", 255, 0, 0, 128, false}, // with alpha
		{"", 0, 0, 0, 0, true},               // empty
		{"#FFF", 0, 0, 0, 0, true},           // invalid length
		{"#GGGGGG", 0, 0, 0, 0, true},        // invalid hex
	}

	for _, tt := range tests {
		t.Run(tt.hex, func(t *testing.T) {
			c, err := parseHexColor(tt.hex)

			if tt.wantErr {
				if err == nil {
					t.Error("expected error, got nil")
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if c.R != tt.wantR || c.G != tt.wantG || c.B != tt.wantB || c.A != tt.wantA {
				t.Errorf("got (%d,%d,%d,%d), want (%d,%d,%d,%d)",
					c.R, c.G, c.B, c.A, tt.wantR, tt.wantG, tt.wantB, tt.wantA)
			}
		})
	}
}

func TestDrawLabel(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 100, 100))

	fg := color.RGBA{255, 255, 255, 255}
	bg := color.RGBA{0, 0, 0, 180}
	drawLabel(img, 10, 10, "42", fg, bg)

	hasWhite := false
	hasDark := false
	for y := 9; y < 17; y++ {
		for x := 9; x < 18; x++ {
			r, _, _, _ := img.At(x, y).RGBA()
			if r > 200<<8 {
				hasWhite = true
			}
			if r < 50<<8 {
				hasDark = true
			}
		}
	}

	if !hasWhite {
		t.Error("label should have white pixels (text)")
	}
	if !hasDark {
		t.Error("label should have dark pixels (background)")
	}
}

func TestDrawLabel_BoundsCheck(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 20, 20))

	fg := color.RGBA{255, 255, 255, 255}
	bg := color.RGBA{0, 0, 0, 180}

	// These should not panic even if label extends past bounds
	drawLabel(img, 15, 15, "100", fg, bg)
	drawLabel(img, -5, -5, "7", fg, bg)
	drawLabel(img, 10, 10, "", fg, bg)
	drawLabel(img, 2, 2, "a1", fg, bg)
}
