package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentCompleted PaymentStatus = "COMPLETED"
	PaymentDeclined  PaymentStatus = "DECLINED"
	PaymentRefunded  PaymentStatus = "REFUNDED"
)

// Payment is an append-only ledger row. A row is written for every payment
// attempt, declined attempts included; rows are never mutated.
type Payment struct {
	ID         string          `json:"id,omitempty" gorm:"primaryKey"`
	PayerID    string          `json:"payer_id" gorm:"index"`
	ReceiverID string          `json:"receiver_id" gorm:"index"`
	BookingID  string          `json:"booking_id" gorm:"index"`
	Time       time.Time       `json:"time"`
	Amount     decimal.Decimal `json:"amount" gorm:"type:numeric(14,2)"`
	Status     PaymentStatus   `json:"status" gorm:"index"`
}

// PaymentOutcome is the tagged result of a payment attempt. Reason
// distinguishes a policy decline from an unreachable downstream; the
// orchestrator treats both as rejection but reports them differently.
type PaymentOutcome struct {
	Status PaymentStatus `json:"status"`
	Reason string        `json:"reason,omitempty"`
}

const (
	ReasonInsufficientFunds = "insufficient_funds"
	ReasonUnavailable       = "downstream_unavailable"
	ReasonCircuitOpen       = "circuit_open"
)

// Unavailable marks outcomes caused by infrastructure failure rather than a
// business decision.
func (o PaymentOutcome) Unavailable() bool {
	return o.Reason == ReasonUnavailable || o.Reason == ReasonCircuitOpen
}

type PaymentRequest struct {
	BookingID string `json:"booking_id" validate:"required,uuid4"`
}

type RefundRequest struct {
	BookingID string `json:"booking_id" validate:"required,uuid4"`
}
