package models

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/opsfloor/mfgops_backend/utils"
)

var errInvalidEmail = errors.New("email is not valid")

type Customer struct {
	ID            int              `gorm:"primary_key" json:"id"`
	CustomerId    string           `gorm:"size:30;uniqueIndex;not null" json:"customer_id" binding:"required"`
	Name          string           `gorm:"size:150;not null" json:"name" binding:"required"`
	CompanyId     int              `gorm:"index" json:"company_id"`
	Phone         string           `gorm:"size:20" json:"phone"`
	Mobile        string           `gorm:"size:20" json:"mobile"`
	Email         string           `gorm:"size:150" json:"email"`
	Address       string           `gorm:"type:text" json:"address"`
	City          string           `gorm:"size:100" json:"city"`
	State         string           `gorm:"size:100" json:"state"`
	CurrentStatus string           `gorm:"size:20;not null;default:'Active'" json:"current_status"`
	Branches      []CustomerBranch `gorm:"foreignKey:CustomerRefId" json:"branches"`
	CreatedAt     time.Time        `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time        `gorm:"autoUpdateTime" json:"updated_at"`
}

type CustomerBranch struct {
	ID            int    `gorm:"primary_key" json:"id"`
	CustomerRefId int    `gorm:"index;not null" json:"customer_ref_id"`
	Name          string `gorm:"size:150;not null" json:"name"`
	City          string `gorm:"size:100" json:"city"`
	ContactPerson string `gorm:"size:150" json:"contact_person"`
	Phone         string `gorm:"size:20" json:"phone"`
}

type NewCustomer struct {
	CustomerId    string              `json:"customer_id" binding:"required"`
	Name          string              `json:"name" binding:"required"`
	CompanyId     int                 `json:"company_id"`
	Phone         string              `json:"phone"`
	Mobile        string              `json:"mobile"`
	Email         string              `json:"email"`
	Address       string              `json:"address"`
	City          string              `json:"city"`
	State         string              `json:"state"`
	CurrentStatus string              `json:"current_status" binding:"omitempty,oneof=Active Inactive"`
	Branches      []NewCustomerBranch `json:"branches"`
}

type NewCustomerBranch struct {
	Name          string `json:"name" binding:"required"`
	City          string `json:"city"`
	ContactPerson string `json:"contact_person"`
	Phone         string `json:"phone"`
}

// validate input for both create & update. (id = 0 for create)
func (input *NewCustomer) Validate(ctx context.Context, id int) error {
	if err := utils.ValidateUnique[Customer](ctx, "customer_id", input.CustomerId, id); err != nil {
		return err
	}
	// company must exist when given
	if input.CompanyId != 0 {
		if err := utils.ValidateResourceId[Company](ctx, input.CompanyId); err != nil {
			return errors.New("company not found")
		}
	}
	// phone
	if len(strings.TrimSpace(input.Phone)) > 0 {
		if err := utils.ValidatePhoneNumber(input.Phone, utils.CountryCode); err != nil {
			return err
		}
	}
	// mobile
	if len(strings.TrimSpace(input.Mobile)) > 0 {
		if err := utils.ValidatePhoneNumber(input.Mobile, utils.CountryCode); err != nil {
			return err
		}
	}
	if len(strings.TrimSpace(input.Email)) > 0 && !utils.IsValidEmail(input.Email) {
		return errInvalidEmail
	}
	return nil
}
