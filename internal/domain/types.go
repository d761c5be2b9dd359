package domain

import "time"

// Dimensions is a bounding box in millimetres. Volume is carried for storage
// units whose usable volume differs from width*height*depth; zero means
// "derive it".
type Dimensions struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Depth  float64 `json:"depth"`
	Volume float64 `json:"volume,omitempty"`
}

// EffectiveVolume returns the declared volume, or width*height*depth when no
// volume was declared.
func (d Dimensions) EffectiveVolume() float64 {
	if d.Volume > 0 {
		return d.Volume
	}
	return d.Width * d.Height * d.Depth
}

// Position is a physical coordinate inside the warehouse, used for audit
// records and robot targeting.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Item is a single physical box in the warehouse. VSUID is nil while the item
// is not placed in any storage unit; StockIndex is its ordinal position within
// that unit's occupant list.
type Item struct {
	ID         int64      `json:"item_id"`
	ProductID  int64      `json:"product_id"`
	Barcode    string     `json:"barcode"`
	Batch      string     `json:"batch"`
	Expiration string     `json:"expiration"`
	Dimensions Dimensions `json:"dimensions"`
	Weight     float64    `json:"weight"`
	VSUID      *int64     `json:"vsu_id"`
	StockIndex int        `json:"stock_index"`
}

// VirtualStorageUnit is the smallest addressable storage slot. Items holds the
// ids of its occupants in stocking order; Occupied is true iff Items is
// non-empty.
type VirtualStorageUnit struct {
	ID         int64      `json:"id"`
	Code       string     `json:"code"`
	ShelfID    int64      `json:"shelf_id"`
	Dimensions Dimensions `json:"dimensions"`
	Position   Position   `json:"position"`
	Items      []int64    `json:"items"`
	Occupied   bool       `json:"occupied"`
}

// Shelf groups storage units; RackID is the next-coarser locality grouping
// used for placement preference.
type Shelf struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	RackID       int64   `json:"rack_id"`
	VirtualUnits []int64 `json:"virtual_units"`
}

// ArchivedItem is the frozen record of a dispensed item: its product and
// physical metadata plus the location it occupied at the moment of dispensing.
// Never mutated after creation.
type ArchivedItem struct {
	ItemID      int64      `json:"item_id"`
	ProductID   int64      `json:"product_id"`
	Barcode     string     `json:"barcode"`
	Batch       string     `json:"batch"`
	Expiration  string     `json:"expiration"`
	Dimensions  Dimensions `json:"dimensions"`
	Weight      float64    `json:"weight"`
	VSUID       int64      `json:"vsu_id"`
	VSUCode     string     `json:"vsu_code"`
	ShelfID     int64      `json:"shelf_id"`
	ShelfName   string     `json:"shelf_name"`
	Coordinates Position   `json:"coordinates"`
	StockIndex  int        `json:"stock_index"`
	DispensedAt time.Time  `json:"dispensed_at"`
	TaskID      string     `json:"task_id"`
}

// RelocationRecord is the frozen record of a single slot-to-slot move.
type RelocationRecord struct {
	ItemID              int64     `json:"item_id"`
	ProductID           int64     `json:"product_id"`
	Barcode             string    `json:"barcode"`
	OriginalVSUID       int64     `json:"original_vsu_id"`
	OriginalVSUCode     string    `json:"original_vsu_code"`
	NewVSUID            int64     `json:"new_vsu_id"`
	NewVSUCode          string    `json:"new_vsu_code"`
	OriginalCoordinates Position  `json:"original_coordinates"`
	NewCoordinates      Position  `json:"new_coordinates"`
	RelocatedAt         time.Time `json:"relocated_at"`
	Reason              string    `json:"reason"`
}
