// Package storage manages the on-disk results area for redacted artifacts.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Store writes redacted artifacts under a results directory and serves them
// back for download. Files older than the TTL are swept on a background
// ticker; a zero TTL disables sweeping and the area grows without bound.
type Store struct {
	dir string
	ttl time.Duration
	log *logrus.Logger
}

// New creates the results directory if needed.
func New(dir string, ttl time.Duration, log *logrus.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create results dir: %w", err)
	}
	return &Store{dir: dir, ttl: ttl, log: log}, nil
}

// ResultName builds the canonical output filename:
// {base}_{suffix}_masked.{ext}. An existing result with the same name is
// overwritten on Save.
func ResultName(base, suffix, ext string) string {
	return fmt.Sprintf("%s_%s_masked.%s", base, suffix, ext)
}

// Save writes an artifact into the results area and returns its filename.
func (s *Store) Save(name string, data []byte) (string, error) {
	name = filepath.Base(name)
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("failed to save result: %w", err)
	}
	return name, nil
}

// Path resolves a stored filename to its on-disk path. Names carrying path
// separators or traversal are rejected, and the file must exist.
func (s *Store) Path(name string) (string, error) {
	if name == "" || name != filepath.Base(name) || strings.Contains(name, "..") {
		return "", fmt.Errorf("invalid filename %q", name)
	}
	p := filepath.Join(s.dir, name)
	if _, err := os.Stat(p); err != nil {
		return "", fmt.Errorf("result not found: %w", err)
	}
	return p, nil
}

// Sweep deletes results older than the TTL and returns how many were
// removed. A zero TTL makes Sweep a no-op.
func (s *Store) Sweep() int {
	if s.ttl <= 0 {
		return 0
	}

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		s.log.WithError(err).Warn("results sweep: cannot read dir")
		return 0
	}

	cutoff := time.Now().Add(-s.ttl)
	removed := 0
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, e.Name())); err == nil {
			removed++
		}
	}

	if removed > 0 {
		s.log.WithField("removed", removed).Info("swept expired results")
	}
	return removed
}

// StartSweeper runs Sweep on an interval until the returned stop function is
// called. Does nothing when the TTL is zero.
func (s *Store) StartSweeper(interval time.Duration) (stop func()) {
	if s.ttl <= 0 {
		return func() {}
	}

	done := make(chan struct{})
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.Sweep()
			case <-done:
				return
			}
		}
	}()
	return func() { close(done) }
}
