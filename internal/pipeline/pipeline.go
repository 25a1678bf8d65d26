package pipeline

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/docshield/docshield/internal/detection"
	"github.com/docshield/docshield/internal/document"
	"github.com/docshield/docshield/internal/imaging"
)

// Options tune one Process call.
type Options struct {
	// Threshold is the minimum detector confidence for a region to be
	// reported. Nil selects detection.DefaultConfidenceThreshold; an explicit
	// zero is passed to the detector as-is.
	Threshold *float64

	// Overlay additionally renders detection outlines onto page copies and
	// returns them as a second artifact. Debugging aid; the redacted output
	// is never affected.
	Overlay bool
}

// Result is the outcome of one redaction request.
type Result struct {
	// Output is the redacted artifact, in the same container kind as the
	// input.
	Output []byte

	// Ext is the output file extension: "jpg" or "pdf".
	Ext string

	// Detections is the total number of regions masked across all pages.
	Detections int

	// Degraded is true when the detector was unavailable and the original
	// pages were returned unmasked.
	Degraded bool

	// OverlayOutput holds the debug overlay artifact when Options.Overlay
	// was set and detection ran.
	OverlayOutput []byte
}

// Pipeline orchestrates one redaction request: extract pages, detect per
// page, mask per page, aggregate the count, reassemble. It holds no
// cross-request state; the registry owns the only long-lived resources.
type Pipeline struct {
	registry *detection.Registry
	log      *logrus.Logger
}

// New creates a pipeline over the given detector registry.
func New(registry *detection.Registry, log *logrus.Logger) *Pipeline {
	return &Pipeline{registry: registry, log: log}
}

// SupportedTypes lists the document types the registry can serve.
func (p *Pipeline) SupportedTypes() []detection.DocumentType {
	return p.registry.Types()
}

// Process redacts one artifact. The container kind comes from the caller
// (the upload's declared extension); bytes that do not decode as that kind
// are unreadable.
//
// Failure policy:
//   - ErrUnreadableDocument and ErrInvalidDocumentType are returned to the
//     caller unchanged.
//   - A model that cannot be loaded, or that drops out mid-request, degrades
//     the whole request: every page is returned unmasked and Result.Degraded
//     is set. Availability beats completeness; a missing model must not make
//     the endpoint unusable.
//   - Any other failure comes back as a ProcessingError. Panics in image
//     handling are recovered and converted too, never propagated.
//
// There are no partial results: detection runs over every page before any
// pixel is touched, so either every page is masked or the degrade policy
// returns all of them pristine.
func (p *Pipeline) Process(artifact []byte, kind document.Kind, docType detection.DocumentType, opts Options) (res *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			res = nil
			err = &ProcessingError{Stage: "masking", Err: fmt.Errorf("panic: %v", r)}
			p.log.WithFields(logrus.Fields{"document_type": docType, "panic": r}).
				Error("recovered panic in masking pipeline")
		}
	}()

	if _, perr := detection.ParseDocumentType(string(docType)); perr != nil {
		return nil, perr
	}

	doc, err := document.Extract(artifact, kind)
	if err != nil {
		return nil, err
	}

	handle, err := p.registry.Get(docType)
	if errors.Is(err, detection.ErrModelUnavailable) {
		return p.degrade(doc, docType, err)
	}
	if err != nil {
		return nil, err
	}

	threshold := detection.DefaultConfidenceThreshold
	if opts.Threshold != nil {
		threshold = *opts.Threshold
	}

	// All pages are inspected before any is masked. A model dropping out on
	// a later page then still degrades from untouched pages.
	perPage := make([][]detection.Box, len(doc.Pages))
	for i, page := range doc.Pages {
		outcome := handle.Infer(page, threshold)
		switch outcome.Status {
		case detection.StatusUnavailable:
			return p.degrade(doc, docType, outcome.Err)
		case detection.StatusFailed:
			return nil, &ProcessingError{Stage: "detection", Err: outcome.Err}
		}
		perPage[i] = outcome.Boxes
	}

	total := 0
	var overlayPages []*imaging.Page

	for i, page := range doc.Pages {
		boxes := perPage[i]

		if opts.Overlay {
			overlayPages = append(overlayPages, overlayPage(page, boxes))
		}

		regions := make([]imaging.Region, len(boxes))
		for j, b := range boxes {
			regions[j] = b.Region()
		}
		masked := imaging.MaskRegions(page, regions)
		total += masked.Applied
	}

	out, err := document.Assemble(doc)
	if err != nil {
		return nil, &ProcessingError{Stage: "reassembly", Err: err}
	}

	result := &Result{Output: out, Ext: doc.OutputExt(), Detections: total}

	if len(overlayPages) > 0 {
		overlayDoc := &document.Document{Kind: doc.Kind, Pages: overlayPages}
		if data, oerr := document.Assemble(overlayDoc); oerr == nil {
			result.OverlayOutput = data
		} else {
			p.log.WithError(oerr).Warn("failed to assemble overlay artifact")
		}
	}

	p.log.WithFields(logrus.Fields{
		"document_type": docType,
		"pages":         doc.PageCount(),
		"detections":    total,
	}).Info("document redacted")

	return result, nil
}

// degrade returns the document unmodified with zero detections. The original
// artifact shape is preserved by reassembling the untouched pages.
func (p *Pipeline) degrade(doc *document.Document, docType detection.DocumentType, cause error) (*Result, error) {
	p.log.WithFields(logrus.Fields{
		"document_type": docType,
		"pages":         doc.PageCount(),
	}).WithError(cause).Warn("detector unavailable, returning document unmasked")

	out, err := document.Assemble(doc)
	if err != nil {
		return nil, &ProcessingError{Stage: "reassembly", Err: err}
	}
	return &Result{Output: out, Ext: doc.OutputExt(), Detections: 0, Degraded: true}, nil
}

// overlayPage draws detection outlines onto a copy of the page before the
// masking pass blurs the regions away.
func overlayPage(page *imaging.Page, boxes []detection.Box) *imaging.Page {
	regions := make([]imaging.Region, len(boxes))
	classIDs := make([]int, len(boxes))
	for i, b := range boxes {
		regions[i] = b.Region()
		classIDs[i] = b.ClassID
	}
	return imaging.DrawRegions(page, regions, classIDs)
}
