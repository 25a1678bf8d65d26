package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/docshield/docshield/internal/classifier"
	"github.com/docshield/docshield/internal/config"
	"github.com/docshield/docshield/internal/detection"
	"github.com/docshield/docshield/internal/pipeline"
	"github.com/docshield/docshield/internal/server"
	"github.com/docshield/docshield/internal/storage"
	"github.com/docshield/docshield/pkg/log"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	logger := log.NewLogger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("invalid configuration: %v", err)
	}

	store, err := storage.New(cfg.ResultsDir, cfg.ResultsTTL, logger)
	if err != nil {
		logger.Fatalf("failed to prepare results dir: %v", err)
	}
	stopSweeper := store.StartSweeper(time.Hour)
	defer stopSweeper()

	registry := detection.NewRegistry()
	registerBackends(registry, cfg)

	pl := pipeline.New(registry, logger)
	cl := classifier.New(cfg.ClassifierURL)

	srv := server.New(pl, cl, store, logger)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := srv.Listen(":" + cfg.Port); err != nil {
			logger.Fatalf("server error: %v", err)
		}
	}()

	logger.WithField("port", cfg.Port).Info("server started")

	<-sigChan
	logger.Info("shutting down server")
	if err := srv.Shutdown(); err != nil {
		logger.Errorf("shutdown error: %v", err)
	}
}

// registerBackends binds each supported document type to a detector factory.
// Models load lazily on first use, so a misconfigured backend degrades that
// type instead of failing startup.
func registerBackends(registry *detection.Registry, cfg *config.Config) {
	if cfg.DetectorBackend == config.BackendOCR {
		for _, t := range []detection.DocumentType{detection.TypeAadhaar, detection.TypePAN} {
			t := t
			registry.Register(t, func() (detection.Detector, error) {
				return detection.NewOCRDetector(t)
			})
		}
		return
	}

	urls := map[detection.DocumentType]string{
		detection.TypeAadhaar: cfg.AadhaarInferURL,
		detection.TypePAN:     cfg.PANInferURL,
	}
	for t, url := range urls {
		t, url := t, url
		registry.Register(t, func() (detection.Detector, error) {
			if url == "" {
				return nil, fmt.Errorf("no inference service configured for document type %s", t)
			}
			return detection.NewRemoteDetector(url)
		})
	}
}
