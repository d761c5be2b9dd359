package inventory

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/Matyasdf/medic-port-stockin/internal/domain"
)

// snapshot is the on-disk shape of the warehouse state file. Map keys are
// string-encoded integer ids.
type snapshot struct {
	Items        map[int64]*domain.Item               `json:"items"`
	VirtualUnits map[int64]*domain.VirtualStorageUnit `json:"virtual_units"`
	Shelves      map[int64]*domain.Shelf              `json:"shelves"`
}

// LoadSnapshot reads the warehouse state file. Unlike the audit stores, the
// inventory is externally provisioned and authoritative, so a missing or
// unreadable file is a startup error rather than something to reinitialize.
func LoadSnapshot(path string) (*Inventory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read inventory snapshot %s: %w", path, err)
	}

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to parse inventory snapshot %s: %w", path, err)
	}

	return New(snap.Items, snap.VirtualUnits, snap.Shelves), nil
}
