// Package document normalizes uploaded artifacts into ordered raster pages
// and reassembles redacted pages back into the original container shape.
//
// Extraction renders PDF pages at 2x resolution via MuPDF so detectors see
// enough pixels on small text fields; single images are decoded directly.
// Reassembly is pure serialization: a single image comes back as JPEG, a
// multi-page document as a PDF with page count and order matching the input
// exactly.
package document
