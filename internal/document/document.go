package document

import (
	"github.com/docshield/docshield/internal/imaging"
)

// Kind tags the container shape of an uploaded artifact.
type Kind string

const (
	// KindImage is a single raster image (PNG, JPEG).
	KindImage Kind = "image"

	// KindPDF is a multi-page PDF container.
	KindPDF Kind = "pdf"
)

// Document is an ordered sequence of raster pages extracted from one
// uploaded artifact. The origin Kind is carried so the redacted pages can be
// reassembled into the same container shape the request arrived in.
type Document struct {
	Kind  Kind
	Pages []*imaging.Page
}

// PageCount returns the number of pages in the document.
func (d *Document) PageCount() int { return len(d.Pages) }

// OutputExt returns the file extension the reassembled artifact will use.
func (d *Document) OutputExt() string {
	if d.Kind == KindPDF {
		return "pdf"
	}
	return "jpg"
}
