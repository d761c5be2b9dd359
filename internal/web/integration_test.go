package web

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Matyasdf/medic-port-stockin/internal/archive"
	"github.com/Matyasdf/medic-port-stockin/internal/domain"
	"github.com/Matyasdf/medic-port-stockin/internal/inventory"
	"github.com/Matyasdf/medic-port-stockin/internal/relocation"
	"github.com/Matyasdf/medic-port-stockin/internal/service"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func int64Ptr(v int64) *int64 { return &v }

func newTestServer(t *testing.T) *Server {
	t.Helper()
	return newServerWithInventory(t, inventory.New(
		map[int64]*domain.Item{
			42: {
				ID: 42, ProductID: 7, Barcode: "X1",
				Dimensions: domain.Dimensions{Width: 100, Height: 50, Depth: 30},
				VSUID:      int64Ptr(103), StockIndex: 0,
			},
		},
		map[int64]*domain.VirtualStorageUnit{
			103: {
				ID: 103, Code: "A-01-03", ShelfID: 1,
				Dimensions: domain.Dimensions{Width: 100, Height: 50, Depth: 30},
				Items:      []int64{42},
			},
			107: {
				ID: 107, Code: "A-01-07", ShelfID: 1,
				Dimensions: domain.Dimensions{Width: 110, Height: 55, Depth: 35},
			},
		},
		map[int64]*domain.Shelf{
			1: {ID: 1, Name: "A-01", RackID: 1, VirtualUnits: []int64{103, 107}},
		},
	))
}

func newServerWithInventory(t *testing.T, inv *inventory.Inventory) *Server {
	t.Helper()
	dir := t.TempDir()

	archiveStore, err := archive.NewStore(filepath.Join(dir, "product_archive.json"), testLogger())
	require.NoError(t, err)
	history, err := relocation.NewHistoryStore(filepath.Join(dir, "relocation_history.json"), testLogger())
	require.NoError(t, err)
	relocator := relocation.NewRelocator(inv, history, testLogger())
	warehouse := service.NewWarehouse(inv, relocator, archiveStore, history, testLogger())

	return NewServer(warehouse, testLogger())
}

func doJSON(t *testing.T, s *Server, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	var decoded map[string]any
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	}
	return rec, decoded
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t)
	rec, body := doJSON(t, s, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", body["status"])
}

func TestRelocateEndpoint(t *testing.T) {
	s := newTestServer(t)

	rec, body := doJSON(t, s, http.MethodPost, "/items/42/relocate", `{"reason":"obstruction_removal"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "A-01-03", body["original_vsu_code"])
	assert.Equal(t, "A-01-07", body["new_vsu_code"])
	assert.Equal(t, float64(0), body["stock_index"])
	assert.Equal(t, "obstruction_removal", body["reason"])
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestRelocateEndpointEmptyBodyDefaultsReason(t *testing.T) {
	s := newTestServer(t)

	rec, body := doJSON(t, s, http.MethodPost, "/items/42/relocate", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "obstruction_removal", body["reason"])
}

func TestRelocateEndpointNotFound(t *testing.T) {
	s := newTestServer(t)

	rec, body := doJSON(t, s, http.MethodPost, "/items/999/relocate", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.NotEmpty(t, body["detail"])
}

func TestRelocateEndpointBadID(t *testing.T) {
	s := newTestServer(t)

	rec, _ := doJSON(t, s, http.MethodPost, "/items/abc/relocate", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRelocateEndpointNoCapacity(t *testing.T) {
	// Only other slot is too small, so relocation must fail as a capacity
	// condition.
	s := newServerWithInventory(t, inventory.New(
		map[int64]*domain.Item{
			42: {
				ID: 42, Barcode: "X1",
				Dimensions: domain.Dimensions{Width: 100, Height: 50, Depth: 30},
				VSUID:      int64Ptr(103), StockIndex: 0,
			},
		},
		map[int64]*domain.VirtualStorageUnit{
			103: {
				ID: 103, Code: "A-01-03", ShelfID: 1,
				Dimensions: domain.Dimensions{Width: 100, Height: 50, Depth: 30},
				Items:      []int64{42},
			},
			104: {
				ID: 104, Code: "A-01-04", ShelfID: 1,
				Dimensions: domain.Dimensions{Width: 50, Height: 50, Depth: 30},
			},
		},
		map[int64]*domain.Shelf{
			1: {ID: 1, Name: "A-01", RackID: 1, VirtualUnits: []int64{103, 104}},
		},
	))

	rec, body := doJSON(t, s, http.MethodPost, "/items/42/relocate", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.NotEmpty(t, body["detail"])
}

func TestDispenseEndpoint(t *testing.T) {
	s := newTestServer(t)

	rec, body := doJSON(t, s, http.MethodPost, "/items/42/dispense", `{"task_id":"task-7"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(42), body["item_id"])
	assert.Equal(t, "task-7", body["task_id"])
	assert.Equal(t, "A-01", body["shelf_name"])

	// Second dispense of the same item must now 404.
	rec, _ = doJSON(t, s, http.MethodPost, "/items/42/dispense", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestArchiveStatsEndpoint(t *testing.T) {
	s := newTestServer(t)

	rec, body := doJSON(t, s, http.MethodGet, "/archive/stats", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(0), body["total_items"])

	_, _ = doJSON(t, s, http.MethodPost, "/items/42/dispense", `{"task_id":"t"}`)

	rec, body = doJSON(t, s, http.MethodGet, "/archive/stats", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(1), body["total_items"])
	assert.Equal(t, float64(1), body["total_products"])
}

func TestRelocationHistoryEndpoint(t *testing.T) {
	s := newTestServer(t)

	_, _ = doJSON(t, s, http.MethodPost, "/items/42/relocate", "")

	rec, body := doJSON(t, s, http.MethodGet, "/relocations", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(1), body["total"])
	relocations, ok := body["relocations"].([]any)
	require.True(t, ok)
	require.Len(t, relocations, 1)
	first, ok := relocations[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(1), first["relocation_id"])
	assert.Equal(t, float64(42), first["item_id"])

	rec, body = doJSON(t, s, http.MethodGet, "/relocations/stats", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(1), body["total_relocations"])
}
