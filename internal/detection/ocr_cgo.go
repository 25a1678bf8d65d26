//go:build cgo

package detection

import (
	"bytes"
	"fmt"
	"image/png"

	"github.com/otiai10/gosseract/v2"

	"github.com/docshield/docshield/internal/imaging"
)

// Infer OCRs the page and returns a box for every word matching the document
// type's ID-number format, in Tesseract's reading order.
func (d *OCRDetector) Infer(page *imaging.Page, threshold float64) ([]Box, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	var buf bytes.Buffer
	if err := png.Encode(&buf, page.Image); err != nil {
		return nil, fmt.Errorf("failed to encode page for OCR: %w", err)
	}

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetImageFromBytes(buf.Bytes()); err != nil {
		return nil, fmt.Errorf("failed to set image: %w", err)
	}

	words, err := client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return nil, fmt.Errorf("OCR failed: %w", err)
	}

	boxes := make([]Box, 0)
	for _, w := range words {
		if w.Word == "" || !d.pattern.MatchString(w.Word) {
			continue
		}
		conf := float64(w.Confidence) / 100.0
		if conf < threshold {
			continue
		}
		boxes = append(boxes, Box{
			X1:         w.Box.Min.X,
			Y1:         w.Box.Min.Y,
			X2:         w.Box.Max.X,
			Y2:         w.Box.Max.Y,
			Confidence: conf,
			ClassID:    0,
			PageIndex:  page.Index,
		})
	}
	return boxes, nil
}
