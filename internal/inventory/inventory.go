// Package inventory holds the live warehouse state: items, virtual storage
// units, and shelves, keyed by id. The maps are loaded once from a snapshot
// file at startup and mutated in place as items move through the warehouse.
package inventory

import (
	"cmp"
	"fmt"
	"slices"
	"sync"

	"github.com/Matyasdf/medic-port-stockin/internal/domain"
)

type Inventory struct {
	mu      sync.RWMutex
	items   map[int64]*domain.Item
	vsus    map[int64]*domain.VirtualStorageUnit
	shelves map[int64]*domain.Shelf
}

func New(
	items map[int64]*domain.Item,
	vsus map[int64]*domain.VirtualStorageUnit,
	shelves map[int64]*domain.Shelf,
) *Inventory {
	if items == nil {
		items = make(map[int64]*domain.Item)
	}
	if vsus == nil {
		vsus = make(map[int64]*domain.VirtualStorageUnit)
	}
	if shelves == nil {
		shelves = make(map[int64]*domain.Shelf)
	}
	inv := &Inventory{items: items, vsus: vsus, shelves: shelves}
	for _, vsu := range inv.vsus {
		vsu.Occupied = len(vsu.Items) > 0
	}
	return inv
}

func (inv *Inventory) Item(id int64) (*domain.Item, bool) {
	inv.mu.RLock()
	defer inv.mu.RUnlock()
	item, ok := inv.items[id]
	return item, ok
}

func (inv *Inventory) VSU(id int64) (*domain.VirtualStorageUnit, bool) {
	inv.mu.RLock()
	defer inv.mu.RUnlock()
	vsu, ok := inv.vsus[id]
	return vsu, ok
}

func (inv *Inventory) Shelf(id int64) (*domain.Shelf, bool) {
	inv.mu.RLock()
	defer inv.mu.RUnlock()
	shelf, ok := inv.shelves[id]
	return shelf, ok
}

// Shelves returns every shelf in ascending id order. The order is the scan
// order for candidate search, which keeps tie-breaking deterministic.
func (inv *Inventory) Shelves() []*domain.Shelf {
	inv.mu.RLock()
	defer inv.mu.RUnlock()
	out := make([]*domain.Shelf, 0, len(inv.shelves))
	for _, shelf := range inv.shelves {
		out = append(out, shelf)
	}
	slices.SortFunc(out, func(a, b *domain.Shelf) int {
		return cmp.Compare(a.ID, b.ID)
	})
	return out
}

// Detach removes itemID from the unit's occupant list and clears its occupied
// flag when the list empties. The item's own location reference is left to the
// caller, which reassigns it as part of the same move.
func (inv *Inventory) Detach(itemID, vsuID int64) error {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	vsu, ok := inv.vsus[vsuID]
	if !ok {
		return fmt.Errorf("storage unit %d not found", vsuID)
	}
	if i := slices.Index(vsu.Items, itemID); i >= 0 {
		vsu.Items = slices.Delete(vsu.Items, i, i+1)
	}
	if len(vsu.Items) == 0 {
		vsu.Occupied = false
	}
	return nil
}

// Attach appends itemID to the unit's occupant list, marks it occupied, and
// points the item at its new home. Returns the item's new stock index (end of
// the occupant list).
func (inv *Inventory) Attach(itemID, vsuID int64) (int, error) {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	vsu, ok := inv.vsus[vsuID]
	if !ok {
		return 0, fmt.Errorf("storage unit %d not found", vsuID)
	}
	item, ok := inv.items[itemID]
	if !ok {
		return 0, fmt.Errorf("item %d not found", itemID)
	}
	vsu.Items = append(vsu.Items, itemID)
	vsu.Occupied = true
	stockIndex := len(vsu.Items) - 1
	item.VSUID = &vsu.ID
	item.StockIndex = stockIndex
	return stockIndex, nil
}

// Remove deletes the item from the inventory entirely, detaching it from its
// storage unit first. Used when an item leaves the warehouse on dispense.
func (inv *Inventory) Remove(itemID int64) error {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	item, ok := inv.items[itemID]
	if !ok {
		return fmt.Errorf("item %d not found", itemID)
	}
	if item.VSUID != nil {
		if vsu, ok := inv.vsus[*item.VSUID]; ok {
			if i := slices.Index(vsu.Items, itemID); i >= 0 {
				vsu.Items = slices.Delete(vsu.Items, i, i+1)
			}
			if len(vsu.Items) == 0 {
				vsu.Occupied = false
			}
		}
	}
	delete(inv.items, itemID)
	return nil
}

// Counts reports the number of items, storage units, and shelves loaded.
func (inv *Inventory) Counts() (items, vsus, shelves int) {
	inv.mu.RLock()
	defer inv.mu.RUnlock()
	return len(inv.items), len(inv.vsus), len(inv.shelves)
}
