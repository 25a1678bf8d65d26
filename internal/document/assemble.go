package document

import (
	"bytes"
	"fmt"
	"io"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// jpegQuality is used when encoding redacted pages. Matches the lossy write
// path of typical scanner output and keeps 2x-rendered pages compact.
const jpegQuality = 90

// Assemble packs the document's pages back into its origin container shape.
//
// A single-image document is encoded as one JPEG. A PDF document is packed
// into a multi-page PDF with one page per raster image, preserving the input
// page order exactly. Assemble performs no detection or masking; it is pure
// serialization.
func Assemble(doc *Document) ([]byte, error) {
	if doc.PageCount() == 0 {
		return nil, fmt.Errorf("cannot assemble document with no pages")
	}

	if doc.Kind == KindPDF {
		return assemblePDF(doc)
	}
	return doc.Pages[0].EncodeJPEG(jpegQuality)
}

func assemblePDF(doc *Document) ([]byte, error) {
	readers := make([]io.Reader, 0, doc.PageCount())
	for _, page := range doc.Pages {
		data, err := page.EncodeJPEG(jpegQuality)
		if err != nil {
			return nil, err
		}
		readers = append(readers, bytes.NewReader(data))
	}

	// nil import config sizes each PDF page to its image dimensions.
	var out bytes.Buffer
	if err := api.ImportImages(nil, &out, readers, nil, nil); err != nil {
		return nil, fmt.Errorf("failed to build pdf: %w", err)
	}
	return out.Bytes(), nil
}
