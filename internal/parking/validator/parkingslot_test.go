package validator

import (
	"testing"
	"time"

	"parkade/pkg/logger"
	"parkade/pkg/model"
)

func newTestValidator() *ParkingSlotValidator {
	log := logger.New(logger.Config{
		Level:   "error",
		Format:  logger.JSON,
		Service: "test",
	})
	return NewParkingSlotValidator(log)
}

func TestValidate_PricePerHour(t *testing.T) {
	v := newTestValidator()

	base := model.ParkingSlot{
		LandlordID: "5b4f1a1e-8d9c-4f3a-9d2e-1a2b3c4d5e6f",
		Status:     model.SlotOpen,
		Latitude:   47.4979,
		Longitude:  19.0402,
	}

	tests := []struct {
		name    string
		price   string
		wantErr bool
	}{
		{"whole number", "10", false},
		{"two decimal places", "12.50", false},
		{"zero", "0", false},
		{"negative", "-3", true},
		{"not a number", "ten", true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slot := base
			slot.PricePerHour = tt.price

			err := v.Validate(&slot)
			if tt.wantErr && err == nil {
				t.Errorf("expected validation error for price %q", tt.price)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error for price %q: %v", tt.price, err)
			}
		})
	}
}

func TestValidate_RestrictionWindow(t *testing.T) {
	v := newTestValidator()

	from := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)
	slot := model.ParkingSlot{
		LandlordID:   "5b4f1a1e-8d9c-4f3a-9d2e-1a2b3c4d5e6f",
		Status:       model.SlotOpen,
		PricePerHour: "10",
		Latitude:     47.4979,
		Longitude:    19.0402,
		Restrictions: []model.ParkingRestriction{
			{
				From:        from,
				Until:       from.Add(-time.Hour),
				CarCategory: "SUV",
				Code:        "NO-SUV-MORNING",
			},
		},
	}

	if err := v.Validate(&slot); err == nil {
		t.Error("expected validation error for restriction ending before it starts")
	}
}

func TestValidate_CoordinateBounds(t *testing.T) {
	v := newTestValidator()

	slot := model.ParkingSlot{
		LandlordID:   "5b4f1a1e-8d9c-4f3a-9d2e-1a2b3c4d5e6f",
		Status:       model.SlotOpen,
		PricePerHour: "10",
		Latitude:     95.0,
		Longitude:    19.0402,
	}

	if err := v.Validate(&slot); err == nil {
		t.Error("expected validation error for latitude above 90")
	}
}
