// Package ocr provides Optical Character Recognition (OCR) behind a small
// engine interface.
//
// Engines are looked up by name from a registry. The Tesseract engine wraps
// gosseract/v2 and is compiled only with the tesseract build tag:
//
//	go build -tags tesseract ./...
//
// Without the tag the "tesseract" name is still registered but New returns
// ErrOCRNotEnabled, so callers can report a clear error instead of failing
// to link.
//
// # Prerequisites
//
// Tesseract and its language data must be installed on the system:
//   - Ubuntu/Debian: apt-get install tesseract-ocr tesseract-ocr-eng
//   - macOS: brew install tesseract
//
// TESSDATA_PREFIX, when set, points Tesseract at a non-default language
// data directory.
//
// # Input
//
// In the translation pipeline engines only ever see binarized crops: dark
// glyphs on a white background. Recognition quality on raw photographs is
// not a goal.
//
// # Results
//
// A Result carries word-level text, confidence and bounds. Result.Text is
// the words joined with single spaces and Result.Bounds is the union of the
// word boxes, both in the coordinate space of the image passed in.
package ocr
