// Package server exposes the redaction pipeline and URL classifier over HTTP.
package server

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/docshield/docshield/internal/classifier"
	"github.com/docshield/docshield/internal/pipeline"
	"github.com/docshield/docshield/internal/storage"
)

// maxUploadBytes caps document uploads at 32 MiB.
const maxUploadBytes = 32 << 20

// Server wires the HTTP routes to the pipeline, classifier and result store.
type Server struct {
	app        *fiber.App
	pipeline   *pipeline.Pipeline
	classifier *classifier.Client
	store      *storage.Store
	validator  *validator.Validate
	log        *logrus.Logger
}

// New builds the fiber application with all routes registered.
func New(pl *pipeline.Pipeline, cl *classifier.Client, st *storage.Store, log *logrus.Logger) *Server {
	app := fiber.New(fiber.Config{
		BodyLimit:             maxUploadBytes,
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			var fe *fiber.Error
			if errors.As(err, &fe) {
				return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
		},
	})

	s := &Server{
		app:        app,
		pipeline:   pl,
		classifier: cl,
		store:      st,
		validator:  validator.New(),
		log:        log,
	}

	app.Use(s.requestLogger())

	app.Get("/health", s.handleHealth)
	app.Post("/analyze", s.handleAnalyze)
	app.Post("/mask/:type", s.handleMask)
	app.Get("/download/:filename", s.handleDownload)

	return s
}

// Listen blocks serving HTTP on the given address.
func (s *Server) Listen(addr string) error {
	return s.app.Listen(addr)
}

// Shutdown drains in-flight requests and stops the server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// App returns the underlying fiber app, used by handler tests.
func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqID := uuid.NewString()
		c.Locals("request_id", reqID)

		start := time.Now()
		err := c.Next()

		s.log.WithFields(logrus.Fields{
			"request_id": reqID,
			"method":     c.Method(),
			"path":       c.Path(),
			"status":     c.Response().StatusCode(),
			"latency_ms": time.Since(start).Milliseconds(),
		}).Info("request")

		return err
	}
}

func (s *Server) handleHealth(c *fiber.Ctx) error {
	types := make([]string, 0)
	for _, t := range s.pipeline.SupportedTypes() {
		types = append(types, string(t))
	}

	return c.JSON(fiber.Map{
		"status":         "running",
		"document_types": types,
		"endpoints": fiber.Map{
			"government_detection": "/analyze",
			"document_masking":     "/mask/:type",
			"download":             "/download/:filename",
		},
	})
}
