// Package placement decides where a displaced item should go: a pure fit
// predicate, a fit score, and a best-slot search over the shelf hierarchy.
package placement

import (
	"github.com/Matyasdf/medic-port-stockin/internal/domain"
)

// Locality bonuses. They are chosen far larger than any realistic volume
// difference in millimetre units, so a same-shelf candidate always outranks a
// same-rack candidate, which always outranks the rest; wasted space only
// breaks ties within a tier.
const (
	sameShelfBonus = -1000
	sameRackBonus  = -500
)

// Fits reports whether the item's bounding box fits inside the storage unit,
// axis-aligned with no rotation.
func Fits(item *domain.Item, vsu *domain.VirtualStorageUnit) bool {
	return item.Dimensions.Width <= vsu.Dimensions.Width &&
		item.Dimensions.Height <= vsu.Dimensions.Height &&
		item.Dimensions.Depth <= vsu.Dimensions.Depth
}

// FitScore ranks a candidate storage unit for the item; lower is better. The
// score is the wasted volume plus the locality bonus.
func FitScore(item *domain.Item, vsu *domain.VirtualStorageUnit, sameShelf, sameRack bool) float64 {
	wasted := vsu.Dimensions.EffectiveVolume() - item.Dimensions.EffectiveVolume()
	switch {
	case sameShelf:
		return wasted + sameShelfBonus
	case sameRack:
		return wasted + sameRackBonus
	default:
		return wasted
	}
}

// SlotSource is the slice of the inventory the search needs. Shelves must
// return a deterministic order; it defines the stable tie-break.
type SlotSource interface {
	Shelves() []*domain.Shelf
	Shelf(id int64) (*domain.Shelf, bool)
	VSU(id int64) (*domain.VirtualStorageUnit, bool)
}

// FindBestSlot scans every shelf's storage units for an empty slot that fits
// the item, scoring each relative to the item's origin shelf, and returns the
// best candidate. The second return is false when no slot anywhere fits —
// an expected outcome under high occupancy, not an error. The search never
// creates slots.
func FindBestSlot(item *domain.Item, originShelfID int64, src SlotSource) (*domain.VirtualStorageUnit, bool) {
	var originRackID int64
	hasOriginRack := false
	if origin, ok := src.Shelf(originShelfID); ok {
		originRackID = origin.RackID
		hasOriginRack = true
	}

	var best *domain.VirtualStorageUnit
	var bestScore float64

	for _, shelf := range src.Shelves() {
		sameShelf := shelf.ID == originShelfID
		sameRack := hasOriginRack && shelf.RackID == originRackID

		for _, vsuID := range shelf.VirtualUnits {
			vsu, ok := src.VSU(vsuID)
			if !ok {
				continue
			}
			if len(vsu.Items) > 0 {
				continue
			}
			if !Fits(item, vsu) {
				continue
			}
			score := FitScore(item, vsu, sameShelf, sameRack)
			// Strict < keeps the first-encountered candidate on ties.
			if best == nil || score < bestScore {
				best = vsu
				bestScore = score
			}
		}
	}

	return best, best != nil
}
