// Package docstore persists a JSON document aggregate (a keyed record map plus
// embedded metadata) to a single file. Loads tolerate a missing or unreadable
// file by initializing a fresh aggregate; saves are full-document overwrites
// through a temp-file rename so the target is always the last complete
// snapshot.
package docstore

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// Aggregate is implemented by the document types the store can persist.
type Aggregate interface {
	// Restore repairs derived state after decoding (nil maps, defaulted
	// metadata) and reports whether the decoded document is usable. An
	// error marks the file as corrupt.
	Restore() error

	// Reconcile recomputes embedded metadata (record counts, last-updated
	// timestamp) immediately before a save.
	Reconcile(now time.Time)
}

type Store[T Aggregate] struct {
	path   string
	fresh  func() T
	logger *slog.Logger
}

func New[T Aggregate](path string, fresh func() T, logger *slog.Logger) *Store[T] {
	return &Store[T]{path: path, fresh: fresh, logger: logger}
}

func (s *Store[T]) Path() string { return s.path }

// Load reads the aggregate from disk. A missing file yields a fresh aggregate
// which is persisted immediately, so the file always exists after first use.
// An unreadable or invalid file is quarantined next to the target and replaced
// by a fresh aggregate; parse failures are never surfaced to the caller, only
// save I/O failures are.
func (s *Store[T]) Load() (T, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			var zero T
			return zero, fmt.Errorf("failed to read %s: %w", s.path, err)
		}
		s.logger.Info("creating new document store", "path", s.path)
		return s.initFresh()
	}

	agg := s.fresh()
	if err := json.Unmarshal(data, agg); err != nil {
		return s.quarantine(err)
	}
	if err := agg.Restore(); err != nil {
		return s.quarantine(err)
	}
	return agg, nil
}

// Save reconciles metadata and overwrites the target file. The document is
// written to a sibling temp file, synced, and renamed over the target so a
// crash mid-write leaves the previous snapshot intact.
func (s *Store[T]) Save(agg T) error {
	agg.Reconcile(time.Now())

	data, err := json.MarshalIndent(agg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	tmp := s.path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		if cerr := f.Close(); cerr != nil {
			s.logger.Error("failed to close temp file after write error", "error", cerr)
		}
		if rerr := os.Remove(tmp); rerr != nil {
			s.logger.Error("failed to remove temp file after write error", "error", rerr)
		}
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to replace %s: %w", s.path, err)
	}
	return nil
}

// initFresh persists a brand-new empty aggregate and returns it.
func (s *Store[T]) initFresh() (T, error) {
	agg := s.fresh()
	if err := s.Save(agg); err != nil {
		var zero T
		return zero, err
	}
	return agg, nil
}

// quarantine moves an unreadable document aside and reinitializes the store.
// The rename keeps the bad file for inspection so audit data is never silently
// destroyed.
func (s *Store[T]) quarantine(cause error) (T, error) {
	dst := fmt.Sprintf("%s.corrupt.%d", s.path, time.Now().Unix())
	s.logger.Error("document store unreadable, quarantining",
		"path", s.path, "quarantine", dst, "error", cause)
	if err := os.Rename(s.path, dst); err != nil {
		s.logger.Error("failed to quarantine corrupt document", "path", s.path, "error", err)
	}
	return s.initFresh()
}
