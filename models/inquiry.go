package models

import (
	"context"
	"errors"
	"time"

	"github.com/opsfloor/mfgops_backend/utils"
)

type InquiryStatus string

const (
	InquiryStatusNew      InquiryStatus = "New"
	InquiryStatusQuoted   InquiryStatus = "Quoted"
	InquiryStatusWon      InquiryStatus = "Won"
	InquiryStatusLost     InquiryStatus = "Lost"
	InquiryStatusPending  InquiryStatus = "Pending"
	InquiryStatusRejected InquiryStatus = "Rejected"
)

type Inquiry struct {
	ID            int           `gorm:"primary_key" json:"id"`
	InquiryNo     string        `gorm:"size:50;uniqueIndex;not null" json:"inquiry_no" binding:"required"`
	CustomerId    int           `gorm:"index;not null" json:"customer_id" binding:"required"`
	Subject       string        `gorm:"size:255;not null" json:"subject" binding:"required"`
	Description   string        `gorm:"type:text" json:"description"`
	Source        string        `gorm:"size:50" json:"source"`
	AssignedTo    string        `gorm:"size:100" json:"assigned_to"`
	CurrentStatus InquiryStatus `gorm:"type:enum('New','Quoted','Won','Lost','Pending','Rejected');not null;default:'New'" json:"current_status"`
	InquiryDate   time.Time     `gorm:"not null" json:"inquiry_date" binding:"required"`
	DueDate       *time.Time    `json:"due_date"`
	CreatedAt     time.Time     `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time     `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewInquiry struct {
	InquiryNo     string     `json:"inquiry_no" binding:"required"`
	CustomerId    int        `json:"customer_id" binding:"required"`
	Subject       string     `json:"subject" binding:"required"`
	Description   string     `json:"description"`
	Source        string     `json:"source"`
	AssignedTo    string     `json:"assigned_to"`
	CurrentStatus string     `json:"current_status" binding:"omitempty,oneof=New Quoted Won Lost Pending Rejected"`
	InquiryDate   time.Time  `json:"inquiry_date" binding:"required"`
	DueDate       *time.Time `json:"due_date"`
}

func (input *NewInquiry) Validate(ctx context.Context, id int) error {
	if err := utils.ValidateUnique[Inquiry](ctx, "inquiry_no", input.InquiryNo, id); err != nil {
		return err
	}
	if err := utils.ValidateResourceId[Customer](ctx, input.CustomerId); err != nil {
		return errors.New("customer not found")
	}
	return nil
}
