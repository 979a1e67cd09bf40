package model

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	RoleCustomer = "customer"
	RoleLandlord = "landlord"
	RoleOperator = "operator"
)

type User struct {
	ID            string          `json:"id,omitempty" gorm:"primaryKey" validate:"omitempty,uuid4"`
	Email         string          `json:"email" gorm:"uniqueIndex;not null" validate:"required,email"`
	Password      string          `json:"password,omitempty" gorm:"-" validate:"omitempty,min=8,max=72"`
	PasswordHash  string          `json:"-" gorm:"column:password_hash"`
	FirstName     string          `json:"first_name" validate:"required,min=1,max=100"`
	LastName      string          `json:"last_name" validate:"required,min=1,max=100"`
	Role          string          `json:"role" validate:"required,oneof=customer landlord operator"`
	PaymentMethod string          `json:"payment_method" validate:"omitempty,max=100"`
	Balance       decimal.Decimal `json:"balance" gorm:"type:numeric(14,2)"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

type UserUpdate struct {
	Email         string `json:"email,omitempty" validate:"omitempty,email"`
	Password      string `json:"password,omitempty" validate:"omitempty,min=8,max=72"`
	FirstName     string `json:"first_name,omitempty" validate:"omitempty,min=1,max=100"`
	LastName      string `json:"last_name,omitempty" validate:"omitempty,min=1,max=100"`
	Role          string `json:"role,omitempty" validate:"omitempty,oneof=customer landlord operator"`
	PaymentMethod string `json:"payment_method,omitempty" validate:"omitempty,max=100"`
}

// Transfer moves an amount between two user balances atomically.
type Transfer struct {
	PayerID    string          `json:"payer_id" validate:"required,uuid4"`
	ReceiverID string          `json:"receiver_id" validate:"required,uuid4"`
	Amount     decimal.Decimal `json:"amount" validate:"required"`
}
