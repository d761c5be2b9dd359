// Package archive is the append-only record of dispensed items. Every item
// that permanently leaves the warehouse is frozen here with its product
// metadata and last known location.
package archive

import (
	"cmp"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/Matyasdf/medic-port-stockin/internal/docstore"
	"github.com/Matyasdf/medic-port-stockin/internal/domain"
)

type Metadata struct {
	TotalItems  int        `json:"total_items"`
	LastUpdated *time.Time `json:"last_updated"`
	Version     string     `json:"version"`
}

// Document is the on-disk aggregate: archived items keyed by item id.
type Document struct {
	Items    map[int64]domain.ArchivedItem `json:"items"`
	Metadata Metadata                      `json:"metadata"`
}

func (d *Document) Restore() error {
	if d.Items == nil {
		d.Items = make(map[int64]domain.ArchivedItem)
	}
	return nil
}

func (d *Document) Reconcile(now time.Time) {
	d.Metadata.TotalItems = len(d.Items)
	d.Metadata.LastUpdated = &now
	if d.Metadata.Version == "" {
		d.Metadata.Version = "1.0"
	}
}

func newDocument() *Document {
	return &Document{
		Items:    make(map[int64]domain.ArchivedItem),
		Metadata: Metadata{Version: "1.0"},
	}
}

// Store holds the archive aggregate in memory and persists it synchronously
// after every mutation.
type Store struct {
	mu     sync.RWMutex
	disk   *docstore.Store[*Document]
	doc    *Document
	logger *slog.Logger
	now    func() time.Time
}

func NewStore(path string, logger *slog.Logger) (*Store, error) {
	disk := docstore.New(path, newDocument, logger)
	doc, err := disk.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load product archive: %w", err)
	}
	logger.Info("product archive loaded", "path", path, "items", len(doc.Items))
	return &Store{disk: disk, doc: doc, logger: logger, now: time.Now}, nil
}

// Archive freezes the item's state at the moment of dispensing and persists
// it. Archiving the same item id again overwrites the previous entry; the
// caller owns removing the item from the live inventory. Returns the stored
// record.
func (s *Store) Archive(
	item *domain.Item,
	vsu *domain.VirtualStorageUnit,
	shelfID int64,
	shelfName, taskID string,
) (domain.ArchivedItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if prior, exists := s.doc.Items[item.ID]; exists {
		s.logger.Warn("item archived more than once, overwriting",
			"item_id", item.ID, "prior_dispensed_at", prior.DispensedAt)
	}

	record := domain.ArchivedItem{
		ItemID:      item.ID,
		ProductID:   item.ProductID,
		Barcode:     item.Barcode,
		Batch:       item.Batch,
		Expiration:  item.Expiration,
		Dimensions:  item.Dimensions,
		Weight:      item.Weight,
		VSUID:       vsu.ID,
		VSUCode:     vsu.Code,
		ShelfID:     shelfID,
		ShelfName:   shelfName,
		Coordinates: vsu.Position,
		StockIndex:  item.StockIndex,
		DispensedAt: s.now(),
		TaskID:      taskID,
	}

	s.doc.Items[item.ID] = record
	if err := s.disk.Save(s.doc); err != nil {
		return domain.ArchivedItem{}, fmt.Errorf("failed to save product archive: %w", err)
	}

	s.logger.Info("item archived",
		"item_id", item.ID, "product_id", item.ProductID, "barcode", item.Barcode,
		"vsu_code", vsu.Code, "shelf_name", shelfName, "task_id", taskID)
	return record, nil
}

// ProductCount is a per-product tally of archived items.
type ProductCount struct {
	ProductID int64  `json:"product_id"`
	Barcode   string `json:"barcode"`
	Count     int    `json:"count"`
}

type Stats struct {
	TotalItems    int            `json:"total_items"`
	TotalProducts int            `json:"total_products"`
	Products      []ProductCount `json:"products"`
	LastUpdated   *time.Time     `json:"last_updated"`
}

// Stats groups the archive by product id. Pure read of current state.
func (s *Store) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	byProduct := make(map[int64]*ProductCount)
	for _, item := range s.doc.Items {
		pc, ok := byProduct[item.ProductID]
		if !ok {
			pc = &ProductCount{ProductID: item.ProductID, Barcode: item.Barcode}
			byProduct[item.ProductID] = pc
		}
		pc.Count++
	}

	products := make([]ProductCount, 0, len(byProduct))
	for _, pc := range byProduct {
		products = append(products, *pc)
	}
	slices.SortFunc(products, func(a, b ProductCount) int {
		return cmp.Compare(a.ProductID, b.ProductID)
	})

	return Stats{
		TotalItems:    len(s.doc.Items),
		TotalProducts: len(products),
		Products:      products,
		LastUpdated:   s.doc.Metadata.LastUpdated,
	}
}
