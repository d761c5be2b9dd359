package inventory

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Matyasdf/medic-port-stockin/internal/domain"
)

func int64Ptr(v int64) *int64 { return &v }

func testInventory() *Inventory {
	return New(
		map[int64]*domain.Item{
			1: {ID: 1, ProductID: 10, Barcode: "B-1", VSUID: int64Ptr(100), StockIndex: 0},
			2: {ID: 2, ProductID: 10, Barcode: "B-1", VSUID: int64Ptr(100), StockIndex: 1},
		},
		map[int64]*domain.VirtualStorageUnit{
			100: {ID: 100, Code: "A-01-01", ShelfID: 1, Items: []int64{1, 2}},
			101: {ID: 101, Code: "A-01-02", ShelfID: 1},
		},
		map[int64]*domain.Shelf{
			1: {ID: 1, Name: "A-01", RackID: 1, VirtualUnits: []int64{100, 101}},
		},
	)
}

func TestNewDerivesOccupiedFlag(t *testing.T) {
	inv := testInventory()

	occupied, ok := inv.VSU(100)
	require.True(t, ok)
	assert.True(t, occupied.Occupied)

	empty, ok := inv.VSU(101)
	require.True(t, ok)
	assert.False(t, empty.Occupied)
}

func TestShelvesSortedByID(t *testing.T) {
	inv := New(nil, nil, map[int64]*domain.Shelf{
		3: {ID: 3, Name: "C-01"},
		1: {ID: 1, Name: "A-01"},
		2: {ID: 2, Name: "B-01"},
	})

	shelves := inv.Shelves()
	require.Len(t, shelves, 3)
	assert.Equal(t, int64(1), shelves[0].ID)
	assert.Equal(t, int64(2), shelves[1].ID)
	assert.Equal(t, int64(3), shelves[2].ID)
}

func TestDetachClearsOccupiedWhenEmpty(t *testing.T) {
	inv := testInventory()

	require.NoError(t, inv.Detach(1, 100))
	vsu, _ := inv.VSU(100)
	assert.Equal(t, []int64{2}, vsu.Items)
	assert.True(t, vsu.Occupied)

	require.NoError(t, inv.Detach(2, 100))
	assert.Empty(t, vsu.Items)
	assert.False(t, vsu.Occupied)
}

func TestAttachUpdatesItemLocation(t *testing.T) {
	inv := testInventory()

	idx, err := inv.Attach(1, 101)
	require.NoError(t, err)
	assert.Equal(t, 0, idx)

	item, _ := inv.Item(1)
	require.NotNil(t, item.VSUID)
	assert.Equal(t, int64(101), *item.VSUID)
	assert.Equal(t, 0, item.StockIndex)

	vsu, _ := inv.VSU(101)
	assert.Equal(t, []int64{1}, vsu.Items)
	assert.True(t, vsu.Occupied)
}

func TestAttachUnknownUnit(t *testing.T) {
	inv := testInventory()

	_, err := inv.Attach(1, 999)
	assert.Error(t, err)
}

func TestRemoveDetachesAndDeletes(t *testing.T) {
	inv := testInventory()

	require.NoError(t, inv.Remove(1))

	_, ok := inv.Item(1)
	assert.False(t, ok)
	vsu, _ := inv.VSU(100)
	assert.Equal(t, []int64{2}, vsu.Items)
	assert.True(t, vsu.Occupied)

	require.NoError(t, inv.Remove(2))
	assert.Empty(t, vsu.Items)
	assert.False(t, vsu.Occupied)
}

func TestRemoveUnknownItem(t *testing.T) {
	inv := testInventory()
	assert.Error(t, inv.Remove(999))
}

func TestLoadSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "warehouse.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"items": {
			"42": {"item_id": 42, "product_id": 7, "barcode": "X1",
			       "dimensions": {"width": 100, "height": 50, "depth": 30},
			       "vsu_id": 100, "stock_index": 0}
		},
		"virtual_units": {
			"100": {"id": 100, "code": "A-01-03", "shelf_id": 1,
			        "dimensions": {"width": 120, "height": 60, "depth": 40},
			        "position": {"x": 1, "y": 2, "z": 3},
			        "items": [42]}
		},
		"shelves": {
			"1": {"id": 1, "name": "A-01", "rack_id": 1, "virtual_units": [100]}
		}
	}`), 0644))

	inv, err := LoadSnapshot(path)
	require.NoError(t, err)

	items, vsus, shelves := inv.Counts()
	assert.Equal(t, 1, items)
	assert.Equal(t, 1, vsus)
	assert.Equal(t, 1, shelves)

	item, ok := inv.Item(42)
	require.True(t, ok)
	assert.Equal(t, "X1", item.Barcode)
	require.NotNil(t, item.VSUID)
	assert.Equal(t, int64(100), *item.VSUID)

	vsu, ok := inv.VSU(100)
	require.True(t, ok)
	assert.True(t, vsu.Occupied)
	assert.Equal(t, domain.Position{X: 1, Y: 2, Z: 3}, vsu.Position)
}

func TestLoadSnapshotMissingFile(t *testing.T) {
	_, err := LoadSnapshot(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestLoadSnapshotMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "warehouse.json")
	require.NoError(t, os.WriteFile(path, []byte("{oops"), 0644))

	_, err := LoadSnapshot(path)
	assert.Error(t, err)
}
