package localstore

import (
	"github.com/opsfloor/mfgops_backend/config"
	"github.com/opsfloor/mfgops_backend/models"
	"github.com/opsfloor/mfgops_backend/utils"
	"github.com/sirupsen/logrus"
)

// Storage keys, one per entity type.
const (
	KeyJobCards   = "jobcards"
	KeyInventory  = "inventory"
	KeyHandovers  = "handovers"
	KeyRejections = "rejections"
)

// Stores bundles the typed entity stores over one KV backend.
type Stores struct {
	JobCards   *Store[*models.JobCard]
	Inventory  *Store[*models.InventoryItem]
	Handovers  *Store[*models.ShiftHandover]
	Rejections *Store[*models.RejectionLog]
}

func NewStores(kv KV, logger *logrus.Logger) *Stores {
	return &Stores{
		JobCards:   NewStore[*models.JobCard](kv, KeyJobCards, logger),
		Inventory:  NewStore[*models.InventoryItem](kv, KeyInventory, logger),
		Handovers:  NewStore[*models.ShiftHandover](kv, KeyHandovers, logger),
		Rejections: NewStore[*models.RejectionLog](kv, KeyRejections, logger),
	}
}

// NewStoresFromConfig wires the stores over the embedded local database.
// Returns ErrorLocalStoreDisabled when the local database never came up, in
// which case the local entity routes stay off.
func NewStoresFromConfig(logger *logrus.Logger) (*Stores, error) {
	db := config.GetLocalDB()
	if db == nil {
		return nil, utils.ErrorLocalStoreDisabled
	}
	return NewStores(NewSqliteKV(db), logger), nil
}

// LowStockItems filters the inventory down to items at or past their reorder
// point.
func (s *Stores) LowStockItems() ([]*models.InventoryItem, error) {
	items, err := s.Inventory.List()
	if err != nil {
		return nil, err
	}
	low := make([]*models.InventoryItem, 0)
	for _, item := range items {
		if item.IsLowStock() {
			low = append(low, item)
		}
	}
	return low, nil
}
