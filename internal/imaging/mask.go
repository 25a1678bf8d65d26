package imaging

import (
	"image"

	"github.com/anthonynsimon/bild/blur"
	"github.com/disintegration/imaging"
)

// maskBlurRadius controls the Gaussian blur applied to masked regions.
// A radius of 25 gives a 51x51 kernel, strong enough that ID numbers,
// photos and signatures are unrecoverable at print resolution.
const maskBlurRadius = 25.0

// Region is a rectangular area of a page selected for masking.
//
// The coordinate convention follows standard image bounds:
//   - (X1, Y1) is the top-left corner (inclusive)
//   - (X2, Y2) is the bottom-right corner (exclusive)
type Region struct {
	X1 int `json:"x1"` // Left edge (inclusive)
	Y1 int `json:"y1"` // Top edge (inclusive)
	X2 int `json:"x2"` // Right edge (exclusive)
	Y2 int `json:"y2"` // Bottom edge (exclusive)
}

// Clip constrains the region to a width x height page.
//
// The second return value is false when the clipped region has no area left,
// in which case the region must be skipped entirely.
func (r Region) Clip(width, height int) (Region, bool) {
	c := r
	if c.X1 < 0 {
		c.X1 = 0
	}
	if c.Y1 < 0 {
		c.Y1 = 0
	}
	if c.X2 > width {
		c.X2 = width
	}
	if c.Y2 > height {
		c.Y2 = height
	}
	if c.X2-c.X1 <= 0 || c.Y2-c.Y1 <= 0 {
		return Region{}, false
	}
	return c, true
}

// MaskResult reports the outcome of masking one page.
type MaskResult struct {
	// Applied is the number of regions that were actually blurred after
	// clipping. Regions clipped to zero area do not count.
	Applied int
}

// MaskRegions blurs each region of the page in place and returns how many
// regions were applied.
//
// Regions are processed strictly in input order. Each region is clipped to
// the page bounds first; a region whose clipped width or height is zero is
// skipped and does not count. Overlapping regions are each blurred
// independently, so a later region re-blurs pixels an earlier one already
// touched. Pixels outside every region are left untouched, and a page given
// zero regions is returned byte-identical.
func MaskRegions(p *Page, regions []Region) MaskResult {
	if len(regions) == 0 {
		return MaskResult{}
	}

	w, h := p.Width(), p.Height()
	applied := 0

	for _, r := range regions {
		c, ok := r.Clip(w, h)
		if !ok {
			continue
		}

		roi := imaging.Crop(p.Image, image.Rect(c.X1, c.Y1, c.X2, c.Y2))
		blurred := blur.Gaussian(roi, maskBlurRadius)
		p.Image = imaging.Paste(p.Image, blurred, image.Pt(c.X1, c.Y1))
		applied++
	}

	return MaskResult{Applied: applied}
}
