//go:build !gocv

package cvbackend

import (
	"image"

	"github.com/ironsheep/image-translator-mcp/internal/contour"
)

// Available reports whether OpenCV support was compiled in.
func Available() bool { return false }

// Extract returns ErrNotEnabled.
func (b *Backend) Extract(img *image.NRGBA) (*image.Gray, error) {
	return nil, ErrNotEnabled
}

// Trace returns ErrNotEnabled.
func (b *Backend) Trace(edges *image.Gray) (*contour.Forest, error) {
	return nil, ErrNotEnabled
}
