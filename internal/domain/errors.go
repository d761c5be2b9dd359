package domain

import "errors"

// Sentinel errors returned by the placement and dispense operations. The web
// layer maps these onto HTTP status classes; everything else is treated as an
// internal failure.
var (
	// ErrItemNotFound means the item id is absent from the live inventory.
	ErrItemNotFound = errors.New("item not found")

	// ErrItemNotPlaced means the item exists but has no home storage unit,
	// so there is nothing to relocate or dispense it from.
	ErrItemNotPlaced = errors.New("item not placed in any storage unit")

	// ErrNoSlotAvailable means no empty storage unit anywhere in the
	// warehouse fits the item. This is an expected capacity condition, not
	// a defect.
	ErrNoSlotAvailable = errors.New("no empty storage unit available")
)
