package models

import (
	"context"
	"time"

	"github.com/opsfloor/mfgops_backend/utils"
	"github.com/shopspring/decimal"
)

type PurchaseStatus string

const (
	PurchaseStatusOrdered   PurchaseStatus = "Ordered"
	PurchaseStatusReceived  PurchaseStatus = "Received"
	PurchaseStatusCancelled PurchaseStatus = "Cancelled"
)

type Purchase struct {
	ID            int             `gorm:"primary_key" json:"id"`
	PurchaseNo    string          `gorm:"size:50;uniqueIndex;not null" json:"purchase_no" binding:"required"`
	SupplierName  string          `gorm:"size:150;not null" json:"supplier_name" binding:"required"`
	ItemName      string          `gorm:"size:255" json:"item_name"`
	Quantity      decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"quantity"`
	TotalAmount   decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"total_amount"`
	CurrentStatus PurchaseStatus  `gorm:"type:enum('Ordered','Received','Cancelled');not null;default:'Ordered'" json:"current_status"`
	PurchaseDate  time.Time       `gorm:"not null" json:"purchase_date" binding:"required"`
	CreatedAt     time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewPurchase struct {
	PurchaseNo    string          `json:"purchase_no" binding:"required"`
	SupplierName  string          `json:"supplier_name" binding:"required"`
	ItemName      string          `json:"item_name"`
	Quantity      decimal.Decimal `json:"quantity"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	CurrentStatus string          `json:"current_status" binding:"omitempty,oneof=Ordered Received Cancelled"`
	PurchaseDate  time.Time       `json:"purchase_date" binding:"required"`
}

func (input *NewPurchase) Validate(ctx context.Context, id int) error {
	return utils.ValidateUnique[Purchase](ctx, "purchase_no", input.PurchaseNo, id)
}
