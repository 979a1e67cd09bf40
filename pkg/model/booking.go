package model

import (
	"time"
)

const (
	BookingPending   = "pending"
	BookingConfirmed = "confirmed"
	BookingCancelled = "cancelled"
)

// Booking holds one reservation of a parking slot for a time window.
// PricePerHour is kept as a decimal string; arithmetic happens at payment
// time with decimal precision.
type Booking struct {
	ID            string    `json:"id,omitempty" gorm:"primaryKey" validate:"omitempty,uuid4"`
	CustomerID    string    `json:"customer_id" gorm:"index" validate:"required,uuid4"`
	LandlordID    string    `json:"landlord_id" gorm:"index" validate:"required,uuid4"`
	ParkingSlotID string    `json:"parking_slot_id" gorm:"index" validate:"required,uuid4"`
	PricePerHour  string    `json:"price_per_hour" validate:"required,decimal"`
	TimeFrom      time.Time `json:"time_from" validate:"required"`
	TimeUntil     time.Time `json:"time_until" validate:"required,gtfield=TimeFrom"`
	Status        string    `json:"status" validate:"omitempty,oneof=pending confirmed cancelled"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type BookingUpdate struct {
	CustomerID    string     `json:"customer_id,omitempty" validate:"omitempty,uuid4"`
	LandlordID    string     `json:"landlord_id,omitempty" validate:"omitempty,uuid4"`
	ParkingSlotID string     `json:"parking_slot_id,omitempty" validate:"omitempty,uuid4"`
	PricePerHour  string     `json:"price_per_hour,omitempty" validate:"omitempty,decimal"`
	TimeFrom      *time.Time `json:"time_from,omitempty"`
	TimeUntil     *time.Time `json:"time_until,omitempty"`
	Status        string     `json:"status,omitempty" validate:"omitempty,oneof=pending confirmed cancelled"`
}

// BookingResult is the outcome of the booking pipeline.
type BookingResult struct {
	BookingID string `json:"booking_id"`
	Message   string `json:"message"`
}

const (
	BookingCompletedMessage = "Booking completed."
	PaymentRejectedMessage  = "Payment rejected."
)
