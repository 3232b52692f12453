package models

import (
	"context"
	"errors"
	"time"

	"github.com/opsfloor/mfgops_backend/utils"
	"github.com/shopspring/decimal"
)

type QuotationStatus string

const (
	QuotationStatusDraft    QuotationStatus = "Draft"
	QuotationStatusSent     QuotationStatus = "Sent"
	QuotationStatusAccepted QuotationStatus = "Accepted"
	QuotationStatusRejected QuotationStatus = "Rejected"
	QuotationStatusExpired  QuotationStatus = "Expired"
)

type Quotation struct {
	ID            int             `gorm:"primary_key" json:"id"`
	QuotationNo   string          `gorm:"size:50;uniqueIndex;not null" json:"quotation_no" binding:"required"`
	InquiryId     int             `gorm:"index" json:"inquiry_id"`
	CustomerId    int             `gorm:"index;not null" json:"customer_id" binding:"required"`
	QuotationDate time.Time       `gorm:"not null" json:"quotation_date" binding:"required"`
	ValidUntil    *time.Time      `json:"valid_until"`
	CurrentStatus QuotationStatus `gorm:"type:enum('Draft','Sent','Accepted','Rejected','Expired');not null;default:'Draft'" json:"current_status"`
	SubTotal      decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"sub_total"`
	TaxAmount     decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"tax_amount"`
	TotalAmount   decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"total_amount"`
	Notes         string          `gorm:"type:text" json:"notes"`
	Items         []QuotationItem `gorm:"foreignKey:QuotationRefId" json:"items"`
	CreatedAt     time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type QuotationItem struct {
	ID             int             `gorm:"primary_key" json:"id"`
	QuotationRefId int             `gorm:"index;not null" json:"quotation_ref_id"`
	ItemName       string          `gorm:"size:255;not null" json:"item_name"`
	Quantity       decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"quantity"`
	UnitPrice      decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"unit_price"`
	Amount         decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"amount"`
}

type NewQuotation struct {
	QuotationNo   string             `json:"quotation_no" binding:"required"`
	InquiryId     int                `json:"inquiry_id"`
	CustomerId    int                `json:"customer_id" binding:"required"`
	QuotationDate time.Time          `json:"quotation_date" binding:"required"`
	ValidUntil    *time.Time         `json:"valid_until"`
	CurrentStatus string             `json:"current_status" binding:"omitempty,oneof=Draft Sent Accepted Rejected Expired"`
	Notes         string             `json:"notes"`
	Items         []NewQuotationItem `json:"items" binding:"dive"`
}

type NewQuotationItem struct {
	ItemName  string          `json:"item_name" binding:"required"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

func (input *NewQuotation) Validate(ctx context.Context, id int) error {
	if err := utils.ValidateUnique[Quotation](ctx, "quotation_no", input.QuotationNo, id); err != nil {
		return err
	}
	if err := utils.ValidateResourceId[Customer](ctx, input.CustomerId); err != nil {
		return errors.New("customer not found")
	}
	if input.InquiryId != 0 {
		if err := utils.ValidateResourceId[Inquiry](ctx, input.InquiryId); err != nil {
			return errors.New("inquiry not found")
		}
	}
	for _, item := range input.Items {
		if item.Quantity.IsNegative() || item.UnitPrice.IsNegative() {
			return errors.New("quantity and unit price must not be negative")
		}
	}
	return nil
}

// Totals computes line amounts and the quotation totals from the items.
// Tax is a flat percentage applied on the subtotal.
func (input *NewQuotation) Totals(taxPercent decimal.Decimal) (subTotal, taxAmount, total decimal.Decimal) {
	for _, item := range input.Items {
		subTotal = subTotal.Add(item.Quantity.Mul(item.UnitPrice))
	}
	taxAmount = subTotal.Mul(taxPercent).Div(decimal.NewFromInt(100))
	total = subTotal.Add(taxAmount)
	return subTotal, taxAmount, total
}
