// Package imaging provides the raster page model and region masking engine.
//
// A Page is one raster page of an uploaded document. Masking takes detector
// regions, clips them to the page, applies a strong Gaussian blur to each
// region of interest and writes the blurred pixels back in place. All
// coordinates are 0-based with (0,0) at the top-left corner; for regions,
// (x1,y1) is inclusive and (x2,y2) is exclusive.
//
// # Masking Guarantees
//
//   - Pixels outside every applied region are bit-identical to the input.
//   - A page masked with zero regions is returned unchanged.
//   - Regions are applied strictly in input order; overlapping regions are
//     blurred independently, never merged.
//
// # Thread Safety
//
// Pages are not safe for concurrent mutation. Callers own a page exclusively
// for the duration of one request.
package imaging
