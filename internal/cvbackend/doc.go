// Package cvbackend provides an OpenCV implementation of the binarizer's
// edge extraction and contour tracing, for comparing against the pure Go
// path or for speed on large images.
//
// The OpenCV code is compiled only with the gocv build tag, which needs
// OpenCV 4 and cgo:
//
//	go build -tags gocv ./...
//
// Without the tag every method returns ErrNotEnabled and Available reports
// false.
package cvbackend

import "errors"

// ErrNotEnabled is returned when the binary was built without the gocv tag.
var ErrNotEnabled = errors.New("OpenCV backend not enabled; rebuild with -tags gocv")

// Backend runs Canny and border following through OpenCV.
//
// Low and High are the Canny hysteresis thresholds applied to each color
// plane.
type Backend struct {
	Low  float32
	High float32
}

// New returns a Backend using the text binarizer's thresholds.
func New() *Backend {
	return &Backend{Low: 200, High: 250}
}
