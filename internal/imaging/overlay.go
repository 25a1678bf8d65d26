package imaging

import (
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
)

// overlayThickness is the border width, in pixels, of drawn region outlines.
const overlayThickness = 3

// ClassColor returns a stable, visually distinct color for a detector class.
//
// Hues are spread around the color wheel by a golden-angle step so that
// consecutive class IDs land far apart.
func ClassColor(classID int) color.NRGBA {
	hue := float64((classID * 137) % 360)
	c := colorful.Hsv(hue, 0.85, 0.95)
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 255}
}

// DrawRegions renders region outlines onto a copy of the page for debugging.
//
// The returned page is a clone; the input page is never modified, so overlay
// output can be produced alongside the redacted artifact without disturbing
// it. Each region is drawn with the color of its paired class ID; when
// classIDs is shorter than regions the remaining regions fall back to class 0.
func DrawRegions(p *Page, regions []Region, classIDs []int) *Page {
	out := p.Clone()
	w, h := out.Width(), out.Height()

	for i, r := range regions {
		c, ok := r.Clip(w, h)
		if !ok {
			continue
		}

		classID := 0
		if i < len(classIDs) {
			classID = classIDs[i]
		}
		col := ClassColor(classID)

		for t := 0; t < overlayThickness; t++ {
			// Horizontal edges
			for x := c.X1; x < c.X2; x++ {
				if y := c.Y1 + t; y < c.Y2 {
					out.Image.SetNRGBA(x, y, col)
				}
				if y := c.Y2 - 1 - t; y >= c.Y1 {
					out.Image.SetNRGBA(x, y, col)
				}
			}
			// Vertical edges
			for y := c.Y1; y < c.Y2; y++ {
				if x := c.X1 + t; x < c.X2 {
					out.Image.SetNRGBA(x, y, col)
				}
				if x := c.X2 - 1 - t; x >= c.X1 {
					out.Image.SetNRGBA(x, y, col)
				}
			}
		}
	}

	return out
}
