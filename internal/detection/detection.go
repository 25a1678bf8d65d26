package detection

import (
	"errors"
	"fmt"

	"github.com/docshield/docshield/internal/imaging"
)

// DocumentType is an enumerated identity-document category. It selects which
// detector model handles a request and which suffix names its output file.
type DocumentType string

const (
	// TypeAadhaar is the Aadhaar identity card format.
	TypeAadhaar DocumentType = "aadhaar"

	// TypePAN is the PAN card format.
	TypePAN DocumentType = "pan"
)

// ErrUnknownDocumentType is returned for document types outside the
// supported set.
var ErrUnknownDocumentType = errors.New("unknown document type")

// ErrModelUnavailable is returned when a detector backend cannot be
// initialized (unreachable inference service, missing model artifact).
var ErrModelUnavailable = errors.New("detection model unavailable")

// ParseDocumentType validates a caller-supplied type string.
func ParseDocumentType(s string) (DocumentType, error) {
	switch DocumentType(s) {
	case TypeAadhaar, TypePAN:
		return DocumentType(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownDocumentType, s)
	}
}

// Suffix returns the output-file suffix for the document type.
func (t DocumentType) Suffix() string { return string(t) }

// DefaultConfidenceThreshold is the minimum detector score for a candidate
// region to be reported when the caller does not supply one.
const DefaultConfidenceThreshold = 0.5

// Box is one candidate PII region reported by a detector for one page.
//
// Coordinates follow the page convention: (X1,Y1) inclusive top-left,
// (X2,Y2) exclusive bottom-right. Boxes arrive unclipped; the masking engine
// clips them to page bounds.
type Box struct {
	X1         int     `json:"x1"`
	Y1         int     `json:"y1"`
	X2         int     `json:"x2"`
	Y2         int     `json:"y2"`
	Confidence float64 `json:"confidence"`
	ClassID    int     `json:"class_id"`
	PageIndex  int     `json:"page_index"`
}

// Region converts the box to a masking region.
func (b Box) Region() imaging.Region {
	return imaging.Region{X1: b.X1, Y1: b.Y1, X2: b.X2, Y2: b.Y2}
}

// Detector is the capability every document-type backend must implement.
//
// Infer returns candidate boxes for one page in the backend's native output
// order; callers must not re-sort or deduplicate them. Implementations must
// either be safe for concurrent calls or serialize internally.
type Detector interface {
	Infer(page *imaging.Page, threshold float64) ([]Box, error)
}

// Status classifies the outcome of one inference call.
type Status int

const (
	// StatusDetected means inference ran and produced zero or more boxes.
	StatusDetected Status = iota

	// StatusUnavailable means the backend's model cannot serve requests.
	StatusUnavailable

	// StatusFailed means inference ran but errored mid-flight.
	StatusFailed
)

// Outcome is the explicit result of running a detector over one page. The
// dispatcher branches on Status instead of sniffing error types, keeping the
// degrade policy a visible decision.
type Outcome struct {
	Status Status
	Boxes  []Box
	Err    error
}

// Handle is an initialized, process-lifetime detector bound to one document
// type. Handles are created and owned by the Registry; callers hold a
// reference only for the duration of one request.
type Handle struct {
	docType  DocumentType
	detector Detector
}

// Infer runs detection on one page and wraps the result in an Outcome.
func (h *Handle) Infer(page *imaging.Page, threshold float64) Outcome {
	boxes, err := h.detector.Infer(page, threshold)
	if err != nil {
		if errors.Is(err, ErrModelUnavailable) {
			return Outcome{Status: StatusUnavailable, Err: err}
		}
		return Outcome{Status: StatusFailed, Err: err}
	}
	return Outcome{Status: StatusDetected, Boxes: boxes}
}

// DocumentType returns the type this handle serves.
func (h *Handle) DocumentType() DocumentType { return h.docType }
