// Package detection locates candidate PII regions on document pages.
//
// Every supported document type maps to one Detector backend through the
// Registry, which constructs backends lazily on first use and memoizes them
// for the process lifetime. Initialization is single-flight: concurrent
// first requests for a type run the backend factory exactly once.
//
// Two backends exist. RemoteDetector posts pages to an external
// object-detection service over HTTP and is the primary choice.
// OCRDetector is an offline fallback that matches Tesseract word boxes
// against the document type's printed ID-number format.
//
// Boxes are reported in each backend's native output order with unclipped
// coordinates; clipping and masking are the masking engine's concern.
package detection
