package relocation

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Matyasdf/medic-port-stockin/internal/domain"
	"github.com/Matyasdf/medic-port-stockin/internal/inventory"
	"github.com/Matyasdf/medic-port-stockin/internal/placement"
)

// DefaultReason is recorded when the caller supplies no relocation reason.
const DefaultReason = "obstruction_removal"

// Relocator executes slot-to-slot moves against the live inventory and writes
// the audit record for each. It assumes the caller serializes mutating
// operations (see service.Warehouse).
type Relocator struct {
	inv     *inventory.Inventory
	history *HistoryStore
	logger  *slog.Logger
	now     func() time.Time
}

func NewRelocator(inv *inventory.Inventory, history *HistoryStore, logger *slog.Logger) *Relocator {
	return &Relocator{inv: inv, history: history, logger: logger, now: time.Now}
}

// Result describes a completed relocation to the caller.
type Result struct {
	ItemID          int64           `json:"item_id"`
	OriginalVSUID   int64           `json:"original_vsu_id"`
	OriginalVSUCode string          `json:"original_vsu_code"`
	NewVSUID        int64           `json:"new_vsu_id"`
	NewVSUCode      string          `json:"new_vsu_code"`
	NewCoordinates  domain.Position `json:"new_coordinates"`
	StockIndex      int             `json:"stock_index"`
	RelocatedAt     time.Time       `json:"relocated_at"`
	Reason          string          `json:"reason"`
}

// Relocate moves the item out of its current storage unit into the best
// available empty one. The inventory is untouched when no candidate exists or
// a precondition fails; once the move is applied, a history record is appended
// and persisted before returning.
func (r *Relocator) Relocate(ctx context.Context, itemID int64, reason string) (*Result, error) {
	if reason == "" {
		reason = DefaultReason
	}

	item, ok := r.inv.Item(itemID)
	if !ok {
		return nil, fmt.Errorf("item %d: %w", itemID, domain.ErrItemNotFound)
	}
	if item.VSUID == nil {
		return nil, fmt.Errorf("item %d: %w", itemID, domain.ErrItemNotPlaced)
	}

	origin, ok := r.inv.VSU(*item.VSUID)
	if !ok {
		return nil, fmt.Errorf("item %d references missing storage unit %d", itemID, *item.VSUID)
	}
	originShelfID := origin.ShelfID

	r.logger.Info("relocating item",
		"item_id", itemID, "product_id", item.ProductID,
		"from_vsu", origin.Code, "shelf_id", originShelfID, "reason", reason)

	dest, found := placement.FindBestSlot(item, originShelfID, r.inv)
	if !found {
		return nil, fmt.Errorf("no empty storage unit fits item %d near shelf %d: %w",
			itemID, originShelfID, domain.ErrNoSlotAvailable)
	}

	if err := r.inv.Detach(itemID, origin.ID); err != nil {
		return nil, fmt.Errorf("failed to detach item %d: %w", itemID, err)
	}
	stockIndex, err := r.inv.Attach(itemID, dest.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to attach item %d: %w", itemID, err)
	}

	relocatedAt := r.now()
	record := domain.RelocationRecord{
		ItemID:              itemID,
		ProductID:           item.ProductID,
		Barcode:             item.Barcode,
		OriginalVSUID:       origin.ID,
		OriginalVSUCode:     origin.Code,
		NewVSUID:            dest.ID,
		NewVSUCode:          dest.Code,
		OriginalCoordinates: origin.Position,
		NewCoordinates:      dest.Position,
		RelocatedAt:         relocatedAt,
		Reason:              reason,
	}

	// No rollback on save failure: the move already happened in the
	// warehouse; in-memory state stays ahead of disk until the next save.
	recordID, err := r.history.Append(record)
	if err != nil {
		return nil, err
	}

	r.logger.Info("relocation complete",
		"item_id", itemID, "record_id", recordID,
		"to_vsu", dest.Code, "stock_index", stockIndex)

	return &Result{
		ItemID:          itemID,
		OriginalVSUID:   origin.ID,
		OriginalVSUCode: origin.Code,
		NewVSUID:        dest.ID,
		NewVSUCode:      dest.Code,
		NewCoordinates:  dest.Position,
		StockIndex:      stockIndex,
		RelocatedAt:     relocatedAt,
		Reason:          reason,
	}, nil
}
