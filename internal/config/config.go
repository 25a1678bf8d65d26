// Package config loads the flat environment configuration.
package config

import (
	"fmt"
	"os"
	"time"
)

// Backend selects how detector models are served.
type Backend string

const (
	// BackendRemote defers inference to external HTTP services.
	BackendRemote Backend = "remote"

	// BackendOCR runs the offline Tesseract pattern matcher in-process.
	BackendOCR Backend = "ocr"
)

// Config is the full process configuration, read once at startup.
type Config struct {
	Port string

	// Per-document-type inference service base URLs (remote backend).
	AadhaarInferURL string
	PANInferURL     string

	// URL classifier endpoint; empty disables it (fail-closed verdicts).
	ClassifierURL string

	ResultsDir string

	// ResultsTTL bounds results-area growth; 0 keeps files forever.
	ResultsTTL time.Duration

	DetectorBackend Backend
}

// Load reads configuration from the environment, applying defaults.
func Load() (*Config, error) {
	cfg := &Config{
		Port:            getenv("APP_PORT", "5000"),
		AadhaarInferURL: os.Getenv("AADHAAR_INFER_URL"),
		PANInferURL:     os.Getenv("PAN_INFER_URL"),
		ClassifierURL:   os.Getenv("CLASSIFIER_URL"),
		ResultsDir:      getenv("RESULTS_DIR", "masked_results"),
		DetectorBackend: Backend(getenv("DETECTOR_BACKEND", string(BackendRemote))),
	}

	switch cfg.DetectorBackend {
	case BackendRemote, BackendOCR:
	default:
		return nil, fmt.Errorf("invalid DETECTOR_BACKEND %q", cfg.DetectorBackend)
	}

	ttlStr := getenv("RESULTS_TTL", "24h")
	ttl, err := time.ParseDuration(ttlStr)
	if err != nil {
		return nil, fmt.Errorf("invalid RESULTS_TTL %q: %w", ttlStr, err)
	}
	cfg.ResultsTTL = ttl

	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
