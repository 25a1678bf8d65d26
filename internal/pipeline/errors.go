package pipeline

import (
	"errors"
	"fmt"

	"github.com/docshield/docshield/internal/detection"
	"github.com/docshield/docshield/internal/document"
)

// The request-fatal errors. Everything else either degrades (model
// unavailable) or is wrapped as a ProcessingError.
var (
	// ErrUnreadableDocument mirrors the extractor failure: the artifact
	// decoded to zero valid pages.
	ErrUnreadableDocument = document.ErrUnreadable

	// ErrInvalidDocumentType mirrors the registry failure: the requested
	// type is not in the supported set.
	ErrInvalidDocumentType = detection.ErrUnknownDocumentType
)

// ProcessingError wraps any unexpected failure during masking or reassembly.
// It is surfaced as a generic failure with a descriptive message and never
// allowed to terminate the serving process.
type ProcessingError struct {
	Stage string
	Err   error
}

func (e *ProcessingError) Error() string {
	return fmt.Sprintf("processing failed during %s: %v", e.Stage, e.Err)
}

func (e *ProcessingError) Unwrap() error { return e.Err }

// IsProcessingError reports whether err is a ProcessingError.
func IsProcessingError(err error) bool {
	var pe *ProcessingError
	return errors.As(err, &pe)
}
