package imaging

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	"image/jpeg"
	_ "image/png" // Register PNG format decoder

	"github.com/disintegration/imaging"
)

// Page is a single raster page of a document.
//
// Pages use a coordinate system where (0,0) is the top-left corner, X increases
// rightward and Y increases downward. The pixel buffer is always NRGBA so that
// masking can address raw pixels without caring about the source color model.
type Page struct {
	// Index is the page's position within its document, starting at 0.
	Index int

	// Image is the page's pixel buffer. Masking mutates it in place.
	Image *image.NRGBA
}

// Width returns the page width in pixels.
func (p *Page) Width() int { return p.Image.Bounds().Dx() }

// Height returns the page height in pixels.
func (p *Page) Height() int { return p.Image.Bounds().Dy() }

// Clone returns a deep copy of the page. The copy shares no pixel data with
// the original, so masking one does not affect the other.
func (p *Page) Clone() *Page {
	return &Page{Index: p.Index, Image: imaging.Clone(p.Image)}
}

// DecodePage decodes raw image bytes (PNG, JPEG or GIF) into a Page.
//
// Returns an error if the data is empty or not a decodable image.
func DecodePage(data []byte, index int) (*Page, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty image data")
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	return FromImage(img, index), nil
}

// FromImage wraps an already decoded image as a Page, converting the pixel
// buffer to NRGBA.
func FromImage(img image.Image, index int) *Page {
	return &Page{Index: index, Image: imaging.Clone(img)}
}

// EncodeJPEG serializes the page as JPEG with the given quality (1-100).
func (p *Page) EncodeJPEG(quality int) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, p.Image, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("failed to encode page %d: %w", p.Index, err)
	}
	return buf.Bytes(), nil
}
