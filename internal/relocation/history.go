// Package relocation moves items between storage units and keeps the audit
// trail of every move.
package relocation

import (
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/Matyasdf/medic-port-stockin/internal/docstore"
	"github.com/Matyasdf/medic-port-stockin/internal/domain"
)

type Metadata struct {
	TotalRelocations int        `json:"total_relocations"`
	LastUpdated      *time.Time `json:"last_updated"`
	Version          string     `json:"version"`
}

// Document is the on-disk aggregate: relocation records keyed by a
// monotonically increasing id that is never reused.
type Document struct {
	Relocations map[int64]domain.RelocationRecord `json:"relocations"`
	Metadata    Metadata                          `json:"metadata"`
}

func (d *Document) Restore() error {
	if d.Relocations == nil {
		d.Relocations = make(map[int64]domain.RelocationRecord)
	}
	return nil
}

func (d *Document) Reconcile(now time.Time) {
	d.Metadata.TotalRelocations = len(d.Relocations)
	d.Metadata.LastUpdated = &now
	if d.Metadata.Version == "" {
		d.Metadata.Version = "1.0"
	}
}

func newDocument() *Document {
	return &Document{
		Relocations: make(map[int64]domain.RelocationRecord),
		Metadata:    Metadata{Version: "1.0"},
	}
}

// HistoryStore holds the relocation history in memory and persists it
// synchronously after every append. Record ids are allocated here, under the
// same lock that appends and saves, so an id is never handed out without its
// record reaching the in-memory aggregate.
type HistoryStore struct {
	mu     sync.RWMutex
	disk   *docstore.Store[*Document]
	doc    *Document
	nextID int64
	logger *slog.Logger
}

func NewHistoryStore(path string, logger *slog.Logger) (*HistoryStore, error) {
	disk := docstore.New(path, newDocument, logger)
	doc, err := disk.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load relocation history: %w", err)
	}

	// Recover the id counter from the highest persisted key.
	nextID := int64(1)
	for id := range doc.Relocations {
		if id >= nextID {
			nextID = id + 1
		}
	}

	logger.Info("relocation history loaded", "path", path, "records", len(doc.Relocations))
	return &HistoryStore{disk: disk, doc: doc, nextID: nextID, logger: logger}, nil
}

// Append allocates the next record id, stores the record, and persists the
// aggregate. On save failure the record stays in memory so the counter cannot
// move backwards within the process.
func (h *HistoryStore) Append(record domain.RelocationRecord) (int64, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.nextID
	h.nextID++
	h.doc.Relocations[id] = record

	if err := h.disk.Save(h.doc); err != nil {
		return id, fmt.Errorf("failed to save relocation history: %w", err)
	}
	return id, nil
}

// Entry is a relocation record together with its allocated id, as exposed to
// history readers.
type Entry struct {
	RelocationID int64 `json:"relocation_id"`
	domain.RelocationRecord
}

// Records returns every relocation sorted by relocated_at descending.
func (h *HistoryStore) Records() []Entry {
	h.mu.RLock()
	defer h.mu.RUnlock()

	entries := make([]Entry, 0, len(h.doc.Relocations))
	for id, rec := range h.doc.Relocations {
		entries = append(entries, Entry{RelocationID: id, RelocationRecord: rec})
	}
	slices.SortFunc(entries, func(a, b Entry) int {
		return b.RelocatedAt.Compare(a.RelocatedAt)
	})
	return entries
}

type Stats struct {
	TotalRelocations int        `json:"total_relocations"`
	LastUpdated      *time.Time `json:"last_updated"`
}

func (h *HistoryStore) Stats() Stats {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return Stats{
		TotalRelocations: len(h.doc.Relocations),
		LastUpdated:      h.doc.Metadata.LastUpdated,
	}
}
