package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Locally-persisted entities. These never touch MySQL: they live in the
// embedded local store, one serialized sequence per entity type, with
// application-assigned ids. JSON tags are camelCase because the admin
// console reads and writes these shapes verbatim.

// LocalMeta is embedded by every locally-persisted entity: the
// application-assigned id plus create/update stamps.
type LocalMeta struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (m *LocalMeta) Meta() *LocalMeta { return m }

type JobCardStatus string

const (
	JobCardStatusOpen       JobCardStatus = "Open"
	JobCardStatusInProgress JobCardStatus = "In Progress"
	JobCardStatusCompleted  JobCardStatus = "Completed"
	JobCardStatusOnHold     JobCardStatus = "On Hold"
)

type JobCard struct {
	LocalMeta
	JobCardNo    string          `json:"jobCardNo"`
	CustomerName string          `json:"customerName"`
	ItemName     string          `json:"itemName"`
	Quantity     decimal.Decimal `json:"quantity"`
	MachineNo    string          `json:"machineNo"`
	Operator     string          `json:"operator"`
	Status       JobCardStatus   `json:"status"`
	StartDate    *time.Time      `json:"startDate"`
	EndDate      *time.Time      `json:"endDate"`
	Remarks      string          `json:"remarks"`
}

type InventoryItem struct {
	LocalMeta
	ItemCode       string          `json:"itemCode"`
	ItemName       string          `json:"itemName"`
	Category       string          `json:"category"`
	Unit           string          `json:"unit"`
	AvailableStock decimal.Decimal `json:"availableStock"`
	MinimumStock   decimal.Decimal `json:"minimumStock"`
	Location       string          `json:"location"`
}

// IsLowStock flags items whose available stock fell below the minimum.
func (i *InventoryItem) IsLowStock() bool {
	return i.AvailableStock.LessThan(i.MinimumStock)
}

type ShiftHandover struct {
	LocalMeta
	ShiftDate     string `json:"shiftDate"`
	FromShift     string `json:"fromShift"`
	ToShift       string `json:"toShift"`
	HandedOverBy  string `json:"handedOverBy"`
	ReceivedBy    string `json:"receivedBy"`
	MachineStatus string `json:"machineStatus"`
	PendingJobs   string `json:"pendingJobs"`
	Notes         string `json:"notes"`
}

type RejectionLog struct {
	LocalMeta
	LogDate     string          `json:"logDate"`
	JobCardNo   string          `json:"jobCardNo"`
	ItemName    string          `json:"itemName"`
	RejectedQty decimal.Decimal `json:"rejectedQty"`
	Stage       string          `json:"stage"`
	Reason      string          `json:"reason"`
	ReportedBy  string          `json:"reportedBy"`
}
