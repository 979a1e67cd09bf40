package model

import (
	"time"
)

type SlotStatus string

const (
	SlotOpen   SlotStatus = "OPEN"
	SlotClosed SlotStatus = "CLOSED"
)

func (s SlotStatus) Valid() bool {
	return s == SlotOpen || s == SlotClosed
}

type ParkingSlot struct {
	ID           string               `json:"id,omitempty" gorm:"primaryKey" validate:"omitempty,uuid4"`
	LandlordID   string               `json:"landlord_id" gorm:"index" validate:"required,uuid4"`
	Status       SlotStatus           `json:"status" gorm:"index" validate:"omitempty,oneof=OPEN CLOSED"`
	PricePerHour string               `json:"price_per_hour" validate:"required,decimal"`
	Latitude     float64              `json:"latitude" validate:"min=-90,max=90"`
	Longitude    float64              `json:"longitude" validate:"min=-180,max=180"`
	Restrictions []ParkingRestriction `json:"restrictions,omitempty" gorm:"foreignKey:ParkingSlotID" validate:"omitempty,dive"`
	CreatedAt    time.Time            `json:"created_at"`
	UpdatedAt    time.Time            `json:"updated_at"`
}

// ParkingRestriction limits who may park in a slot during a window,
// by car category code.
type ParkingRestriction struct {
	ID            string    `json:"id,omitempty" gorm:"primaryKey"`
	ParkingSlotID string    `json:"parking_slot_id,omitempty" gorm:"index"`
	From          time.Time `json:"from" validate:"required"`
	Until         time.Time `json:"until" validate:"required,gtfield=From"`
	CarCategory   string    `json:"car_category" validate:"required,max=20"`
	Code          string    `json:"code" validate:"required,max=50"`
}

type ParkingSlotUpdate struct {
	LandlordID   string     `json:"landlord_id,omitempty" validate:"omitempty,uuid4"`
	Status       SlotStatus `json:"status,omitempty" validate:"omitempty,oneof=OPEN CLOSED"`
	PricePerHour string     `json:"price_per_hour,omitempty" validate:"omitempty,decimal"`
	Latitude     *float64   `json:"latitude,omitempty" validate:"omitempty,min=-90,max=90"`
	Longitude    *float64   `json:"longitude,omitempty" validate:"omitempty,min=-180,max=180"`
}

type SlotStatusUpdate struct {
	Status SlotStatus `json:"status" validate:"required,oneof=OPEN CLOSED"`
}
