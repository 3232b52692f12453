package localstore

import (
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/opsfloor/mfgops_backend/config"
	"github.com/opsfloor/mfgops_backend/models"
	"github.com/opsfloor/mfgops_backend/utils"
	"github.com/shopspring/decimal"
)

func newTestStores() (*Stores, KV) {
	kv := NewMemoryKV()
	return NewStores(kv, config.GetLogger()), kv
}

func TestCreateAssignsIdAndStamps(t *testing.T) {
	stores, _ := newTestStores()

	created, err := stores.JobCards.Create(&models.JobCard{
		JobCardNo: "JC-001",
		Status:    models.JobCardStatusOpen,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	id := created.Meta().ID
	if id == "" {
		t.Fatal("expected an assigned id")
	}
	// ids are millisecond-timestamp + random suffix
	parts := strings.SplitN(id, "-", 2)
	if len(parts) != 2 || parts[1] == "" {
		t.Fatalf("unexpected id shape: %q", id)
	}
	if _, err := strconv.ParseInt(parts[0], 10, 64); err != nil {
		t.Fatalf("id prefix is not a timestamp: %q", id)
	}
	if created.Meta().CreatedAt.IsZero() || created.Meta().UpdatedAt.IsZero() {
		t.Fatal("expected create/update stamps")
	}
}

func TestListRoundTrip(t *testing.T) {
	stores, _ := newTestStores()

	for _, no := range []string{"JC-001", "JC-002"} {
		if _, err := stores.JobCards.Create(&models.JobCard{JobCardNo: no}); err != nil {
			t.Fatalf("Create %s: %v", no, err)
		}
	}

	cards, err := stores.JobCards.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(cards) != 2 {
		t.Fatalf("expected 2 job cards, got %d", len(cards))
	}
	if cards[0].JobCardNo != "JC-001" || cards[1].JobCardNo != "JC-002" {
		t.Fatalf("unexpected order: %s, %s", cards[0].JobCardNo, cards[1].JobCardNo)
	}
}

func TestListEmptyWhenAbsent(t *testing.T) {
	stores, _ := newTestStores()
	cards, err := stores.JobCards.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if cards == nil || len(cards) != 0 {
		t.Fatalf("expected empty non-nil slice, got %v", cards)
	}
}

func TestCorruptedValueReadsEmptyThenHeals(t *testing.T) {
	stores, kv := newTestStores()
	if err := kv.Set(KeyJobCards, "{not json"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	cards, err := stores.JobCards.List()
	if err != nil {
		t.Fatalf("List over corrupted value: %v", err)
	}
	if len(cards) != 0 {
		t.Fatalf("corrupted value must read as empty, got %d", len(cards))
	}

	// the next write replaces the corrupted value
	if _, err := stores.JobCards.Create(&models.JobCard{JobCardNo: "JC-001"}); err != nil {
		t.Fatalf("Create after corruption: %v", err)
	}
	cards, err = stores.JobCards.List()
	if err != nil {
		t.Fatalf("List after heal: %v", err)
	}
	if len(cards) != 1 || cards[0].JobCardNo != "JC-001" {
		t.Fatalf("expected healed store with 1 card, got %v", cards)
	}
}

func TestUpdatePreservesCreatedAt(t *testing.T) {
	stores, _ := newTestStores()

	created, err := stores.JobCards.Create(&models.JobCard{JobCardNo: "JC-001", Status: models.JobCardStatusOpen})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	time.Sleep(2 * time.Millisecond)

	updated, err := stores.JobCards.Update(created.Meta().ID, &models.JobCard{
		JobCardNo: "JC-001",
		Status:    models.JobCardStatusCompleted,
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Status != models.JobCardStatusCompleted {
		t.Fatalf("expected status update, got %s", updated.Status)
	}
	if !updated.Meta().CreatedAt.Equal(created.Meta().CreatedAt) {
		t.Fatal("update must preserve the original createdAt")
	}
	if !updated.Meta().UpdatedAt.After(created.Meta().UpdatedAt) {
		t.Fatal("update must advance updatedAt")
	}
}

func TestUpdateMissingIdNotFound(t *testing.T) {
	stores, _ := newTestStores()
	if _, err := stores.JobCards.Update("nope", &models.JobCard{JobCardNo: "JC-001"}); err != utils.ErrorRecordNotFound {
		t.Fatalf("expected ErrorRecordNotFound, got %v", err)
	}
}

func TestDeleteIdempotent(t *testing.T) {
	stores, _ := newTestStores()

	created, err := stores.JobCards.Create(&models.JobCard{JobCardNo: "JC-001"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := stores.JobCards.Delete(created.Meta().ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	// second delete of the same id is a no-op
	if err := stores.JobCards.Delete(created.Meta().ID); err != nil {
		t.Fatalf("repeat Delete: %v", err)
	}

	cards, err := stores.JobCards.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(cards) != 0 {
		t.Fatalf("expected empty store, got %d", len(cards))
	}
}

func TestEntityKeysAreIsolated(t *testing.T) {
	stores, _ := newTestStores()

	if _, err := stores.JobCards.Create(&models.JobCard{JobCardNo: "JC-001"}); err != nil {
		t.Fatalf("Create job card: %v", err)
	}
	if _, err := stores.Handovers.Create(&models.ShiftHandover{FromShift: "A", ToShift: "B"}); err != nil {
		t.Fatalf("Create handover: %v", err)
	}

	handovers, err := stores.Handovers.List()
	if err != nil {
		t.Fatalf("List handovers: %v", err)
	}
	if len(handovers) != 1 {
		t.Fatalf("expected 1 handover, got %d", len(handovers))
	}
	cards, err := stores.JobCards.List()
	if err != nil {
		t.Fatalf("List job cards: %v", err)
	}
	if len(cards) != 1 {
		t.Fatalf("expected 1 job card, got %d", len(cards))
	}
}

func TestLowStockItems(t *testing.T) {
	stores, _ := newTestStores()

	items := []*models.InventoryItem{
		{ItemCode: "RM-001", AvailableStock: decimal.NewFromInt(5), MinimumStock: decimal.NewFromInt(10)},
		{ItemCode: "RM-002", AvailableStock: decimal.NewFromInt(50), MinimumStock: decimal.NewFromInt(10)},
		{ItemCode: "RM-003", AvailableStock: decimal.NewFromInt(10), MinimumStock: decimal.NewFromInt(10)},
	}
	for _, item := range items {
		if _, err := stores.Inventory.Create(item); err != nil {
			t.Fatalf("Create %s: %v", item.ItemCode, err)
		}
	}

	low, err := stores.LowStockItems()
	if err != nil {
		t.Fatalf("LowStockItems: %v", err)
	}
	// at-minimum is not low; only strictly below counts
	if len(low) != 1 || low[0].ItemCode != "RM-001" {
		t.Fatalf("expected only RM-001 low, got %v", low)
	}
}

func TestLowStockFlagFlipsAfterUpdate(t *testing.T) {
	stores, _ := newTestStores()

	created, err := stores.Inventory.Create(&models.InventoryItem{
		ItemCode:       "RM-001",
		AvailableStock: decimal.NewFromInt(50),
		MinimumStock:   decimal.NewFromInt(10),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.IsLowStock() {
		t.Fatal("item above minimum must not be low")
	}

	updated, err := stores.Inventory.Update(created.Meta().ID, &models.InventoryItem{
		ItemCode:       "RM-001",
		AvailableStock: decimal.NewFromInt(3),
		MinimumStock:   decimal.NewFromInt(10),
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if !updated.IsLowStock() {
		t.Fatal("item below minimum must be low")
	}

	low, err := stores.LowStockItems()
	if err != nil {
		t.Fatalf("LowStockItems: %v", err)
	}
	if len(low) != 1 {
		t.Fatalf("expected 1 low item after update, got %d", len(low))
	}
}
