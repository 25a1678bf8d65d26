package server

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/docshield/docshield/internal/detection"
	"github.com/docshield/docshield/internal/document"
	"github.com/docshield/docshield/internal/pipeline"
	"github.com/docshield/docshield/internal/storage"
)

type analyzeRequest struct {
	URL    string `json:"url"`
	Domain string `json:"domain"`
}

// handleAnalyze classifies a URL as government vs non-government.
func (s *Server) handleAnalyze(c *fiber.Ctx) error {
	var req analyzeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	url := req.URL
	if url == "" {
		url = req.Domain
	}
	if err := s.validator.Var(url, "required"); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "URL required"})
	}

	return c.JSON(s.classifier.Classify(url))
}

// handleMask redacts an uploaded document of the given type.
func (s *Server) handleMask(c *fiber.Ctx) error {
	docType, err := detection.ParseDocumentType(c.Params("type"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fmt.Sprintf("unsupported document type %q", c.Params("type")),
		})
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "no file uploaded"})
	}
	if fileHeader.Filename == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "no file selected"})
	}
	kind, ok := document.KindForFilename(fileHeader.Filename)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid file type, only PNG, JPG, JPEG, PDF allowed",
		})
	}

	f, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "could not read upload"})
	}
	data, err := io.ReadAll(f)
	f.Close()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "could not read upload"})
	}

	opts := pipeline.Options{
		Threshold: parseThreshold(c.Query("confidence")),
		Overlay:   c.QueryBool("debug"),
	}

	result, err := s.pipeline.Process(data, kind, docType, opts)
	switch {
	case errors.Is(err, pipeline.ErrUnreadableDocument):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "could not read document file"})
	case errors.Is(err, pipeline.ErrInvalidDocumentType):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "unsupported document type"})
	case err != nil:
		s.log.WithError(err).Error("masking request failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": fmt.Sprintf("processing failed: %v", err),
		})
	}

	base := baseName(fileHeader.Filename)
	outName, err := s.store.Save(storage.ResultName(base, docType.Suffix(), result.Ext), result.Output)
	if err != nil {
		s.log.WithError(err).Error("failed to store result")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to store result"})
	}

	resp := fiber.Map{
		"success":      true,
		"message":      fmt.Sprintf("document masked successfully, %d PII regions detected and masked", result.Detections),
		"detections":   result.Detections,
		"degraded":     result.Degraded,
		"output_file":  outName,
		"download_url": "/download/" + outName,
	}

	if result.OverlayOutput != nil {
		overlayName := fmt.Sprintf("%s_%s_overlay.%s", base, docType.Suffix(), result.Ext)
		if name, err := s.store.Save(overlayName, result.OverlayOutput); err == nil {
			resp["overlay_file"] = name
		}
	}

	return c.JSON(resp)
}

// handleDownload serves a stored result file as an attachment.
func (s *Server) handleDownload(c *fiber.Ctx) error {
	path, err := s.store.Path(c.Params("filename"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "file not found"})
	}
	return c.Download(path)
}

// parseThreshold clamps a caller-supplied confidence to [0,1]. Nil means no
// value was supplied and the pipeline default applies; an explicit 0 is a
// real threshold and is kept.
func parseThreshold(raw string) *float64 {
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	return &v
}

func baseName(filename string) string {
	name := filepath.Base(filename)
	return strings.TrimSuffix(name, filepath.Ext(name))
}
