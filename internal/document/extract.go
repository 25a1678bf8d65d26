package document

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gen2brain/go-fitz"

	"github.com/docshield/docshield/internal/imaging"
)

// ErrUnreadable is returned when an artifact decodes to zero valid pages:
// corrupt file, unsupported container, or zero-byte input.
var ErrUnreadable = errors.New("unreadable document")

// renderDPI is the resolution PDF pages are rasterized at. PDFs default to
// 72 DPI, so 144 renders every page at 2x, giving the detector enough pixel
// resolution on small text and number fields.
const renderDPI = 144

// Extract normalizes an artifact into an ordered Document of raster pages.
//
// For KindPDF every page is rendered at 2x resolution in page order. For
// KindImage the bytes are decoded directly into a single page. Extraction
// never mutates the source bytes.
//
// Returns ErrUnreadable when no valid page can be produced.
func Extract(data []byte, kind Kind) (*Document, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty artifact", ErrUnreadable)
	}

	if kind == KindPDF {
		return extractPDF(data)
	}
	return extractImage(data)
}

func extractImage(data []byte) (*Document, error) {
	page, err := imaging.DecodePage(data, 0)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	return &Document{Kind: KindImage, Pages: []*imaging.Page{page}}, nil
}

func extractPDF(data []byte) (*Document, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	defer doc.Close()

	n := doc.NumPage()
	if n == 0 {
		return nil, fmt.Errorf("%w: pdf has no pages", ErrUnreadable)
	}

	pages := make([]*imaging.Page, 0, n)
	for i := 0; i < n; i++ {
		img, err := doc.ImageDPI(i, renderDPI)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to render page %d: %v", ErrUnreadable, i, err)
		}
		pages = append(pages, imaging.FromImage(img, i))
	}

	return &Document{Kind: KindPDF, Pages: pages}, nil
}

// KindForFilename maps a file extension to a container kind. The second
// return value is false for extensions outside the supported set
// (png, jpg, jpeg, pdf).
func KindForFilename(name string) (Kind, bool) {
	switch strings.ToLower(strings.TrimPrefix(filepath.Ext(name), ".")) {
	case "pdf":
		return KindPDF, true
	case "png", "jpg", "jpeg":
		return KindImage, true
	default:
		return "", false
	}
}
