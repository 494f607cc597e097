//go:build !tesseract

package ocr

func init() {
	Register("tesseract", func() (Engine, error) { return nil, ErrOCRNotEnabled })
}
