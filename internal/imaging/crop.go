package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"

	"github.com/disintegration/imaging"
)

// CropResult contains the cropped image data
type CropResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// Crop extracts a rectangular region from an image and returns it as a
// base64 PNG, optionally scaled with a Lanczos filter.
func Crop(img image.Image, x1, y1, x2, y2 int, scale float64) (*CropResult, error) {
	r, err := Region(x1, y1, x2, y2)
	if err != nil {
		return nil, err
	}
	cropped, err := CropImage(img, r)
	if err != nil {
		return nil, err
	}

	if scale != 1.0 && scale > 0 {
		newWidth := int(float64(cropped.Rect.Dx()) * scale)
		newHeight := int(float64(cropped.Rect.Dy()) * scale)
		cropped = imaging.Resize(cropped, newWidth, newHeight, imaging.Lanczos)
	}

	encoded, err := EncodePNG(cropped)
	if err != nil {
		return nil, fmt.Errorf("failed to encode cropped image: %w", err)
	}

	return &CropResult{
		Width:       cropped.Rect.Dx(),
		Height:      cropped.Rect.Dy(),
		ImageBase64: encoded,
		MimeType:    "image/png",
	}, nil
}

// Region builds the half-open rectangle (x1,y1)-(x2,y2). Corners must be
// given in order; image.Rect would silently swap reversed ones.
func Region(x1, y1, x2, y2 int) (image.Rectangle, error) {
	if x1 >= x2 || y1 >= y2 {
		return image.Rectangle{}, fmt.Errorf("invalid crop region: x1 must be < x2, y1 must be < y2")
	}
	return image.Rect(x1, y1, x2, y2), nil
}

// CropImage returns a copy of r with its origin moved to (0,0).
//
// r uses half-open coordinates in img's space and must lie inside img's
// bounds with a positive area.
func CropImage(img image.Image, r image.Rectangle) (*image.NRGBA, error) {
	bounds := img.Bounds()

	if r.Min.X < bounds.Min.X || r.Min.Y < bounds.Min.Y || r.Max.X > bounds.Max.X || r.Max.Y > bounds.Max.Y {
		return nil, fmt.Errorf("crop region (%d,%d)-(%d,%d) outside image bounds (%d,%d)-(%d,%d)",
			r.Min.X, r.Min.Y, r.Max.X, r.Max.Y, bounds.Min.X, bounds.Min.Y, bounds.Max.X, bounds.Max.Y)
	}
	if r.Min.X >= r.Max.X || r.Min.Y >= r.Max.Y {
		return nil, fmt.Errorf("invalid crop region: x1 must be < x2, y1 must be < y2")
	}

	return imaging.Crop(img, r), nil
}

// EncodePNG encodes img as PNG and returns the base64 string.
func EncodePNG(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
