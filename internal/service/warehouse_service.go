package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/Matyasdf/medic-port-stockin/internal/archive"
	"github.com/Matyasdf/medic-port-stockin/internal/domain"
	"github.com/Matyasdf/medic-port-stockin/internal/inventory"
	"github.com/Matyasdf/medic-port-stockin/internal/relocation"
)

// itemRelocator is the subset of relocation.Relocator that Warehouse requires.
type itemRelocator interface {
	Relocate(ctx context.Context, itemID int64, reason string) (*relocation.Result, error)
}

// archiveStore is the subset of archive.Store that Warehouse requires.
type archiveStore interface {
	Archive(item *domain.Item, vsu *domain.VirtualStorageUnit, shelfID int64, shelfName, taskID string) (domain.ArchivedItem, error)
	Stats() archive.Stats
}

// historyReader is the subset of relocation.HistoryStore that Warehouse requires.
type historyReader interface {
	Records() []relocation.Entry
	Stats() relocation.Stats
}

// Warehouse is the entry point for the workflow layer. It serializes every
// mutating operation behind one mutex: a relocation or dispense touches the
// inventory and an audit aggregate together, and interleaving two of them
// would break occupant-list exclusivity.
type Warehouse struct {
	mu        sync.Mutex
	inv       *inventory.Inventory
	relocator itemRelocator
	archive   archiveStore
	history   historyReader
	logger    *slog.Logger
}

func NewWarehouse(
	inv *inventory.Inventory,
	relocator itemRelocator,
	archives archiveStore,
	history historyReader,
	logger *slog.Logger,
) *Warehouse {
	return &Warehouse{
		inv:       inv,
		relocator: relocator,
		archive:   archives,
		history:   history,
		logger:    logger,
	}
}

// RelocateItem moves the item to the best available empty storage unit and
// records the move.
func (w *Warehouse) RelocateItem(ctx context.Context, itemID int64, reason string) (*relocation.Result, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.relocator.Relocate(ctx, itemID, reason)
}

// DispenseItem permanently removes the item from the warehouse: its state is
// frozen into the product archive first, then the live inventory entry and its
// storage-unit occupancy are released. The taskID defaults to a generated id
// when the workflow layer did not supply one.
func (w *Warehouse) DispenseItem(ctx context.Context, itemID int64, taskID string) (domain.ArchivedItem, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if taskID == "" {
		taskID = uuid.NewString()
	}

	item, ok := w.inv.Item(itemID)
	if !ok {
		return domain.ArchivedItem{}, fmt.Errorf("item %d: %w", itemID, domain.ErrItemNotFound)
	}
	if item.VSUID == nil {
		return domain.ArchivedItem{}, fmt.Errorf("item %d: %w", itemID, domain.ErrItemNotPlaced)
	}
	vsu, ok := w.inv.VSU(*item.VSUID)
	if !ok {
		return domain.ArchivedItem{}, fmt.Errorf("item %d references missing storage unit %d", itemID, *item.VSUID)
	}

	shelfName := ""
	if shelf, ok := w.inv.Shelf(vsu.ShelfID); ok {
		shelfName = shelf.Name
	}

	record, err := w.archive.Archive(item, vsu, vsu.ShelfID, shelfName, taskID)
	if err != nil {
		return domain.ArchivedItem{}, err
	}

	if err := w.inv.Remove(itemID); err != nil {
		// The archive record is already durable; surface the
		// inconsistency instead of hiding it.
		return record, fmt.Errorf("item %d archived but not removed from inventory: %w", itemID, err)
	}

	w.logger.Info("item dispensed",
		"item_id", itemID, "vsu_code", vsu.Code, "task_id", taskID)
	return record, nil
}

func (w *Warehouse) ArchiveStats() archive.Stats {
	return w.archive.Stats()
}

func (w *Warehouse) RelocationHistory() []relocation.Entry {
	return w.history.Records()
}

func (w *Warehouse) RelocationStats() relocation.Stats {
	return w.history.Stats()
}
