package detection

import (
	"fmt"
	"regexp"
	"sync"
)

// ID-number shapes the OCR backend looks for. Aadhaar numbers print as three
// 4-digit groups; PAN numbers are a single 10-character token.
var (
	aadhaarGroupPattern = regexp.MustCompile(`^\d{4}$`)
	panNumberPattern    = regexp.MustCompile(`^[A-Z]{5}[0-9]{4}[A-Z]$`)
)

// OCRDetector locates ID numbers by running Tesseract over the page and
// matching word boxes against the document type's number format. It is an
// offline fallback for deployments without an inference service: it can only
// find printed numbers, not photos or signatures.
//
// Requires a cgo build with libtesseract available; a non-cgo build reports
// the model unavailable so requests degrade instead of failing.
type OCRDetector struct {
	pattern *regexp.Regexp

	// Tesseract clients are not goroutine-safe and creating one per call is
	// expensive, so inference is serialized per handle.
	mu sync.Mutex
}

// NewOCRDetector builds the OCR backend for a document type. Fails for types
// without a recognizable printed-number format.
func NewOCRDetector(t DocumentType) (*OCRDetector, error) {
	switch t {
	case TypeAadhaar:
		return &OCRDetector{pattern: aadhaarGroupPattern}, nil
	case TypePAN:
		return &OCRDetector{pattern: panNumberPattern}, nil
	default:
		return nil, fmt.Errorf("no OCR number format for document type %q", t)
	}
}
