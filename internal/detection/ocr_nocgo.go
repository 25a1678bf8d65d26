//go:build !cgo

package detection

import (
	"fmt"

	"github.com/docshield/docshield/internal/imaging"
)

// Infer reports the OCR backend unavailable: Tesseract bindings need cgo.
func (d *OCRDetector) Infer(page *imaging.Page, threshold float64) ([]Box, error) {
	return nil, fmt.Errorf("%w: OCR backend requires a cgo build", ErrModelUnavailable)
}
