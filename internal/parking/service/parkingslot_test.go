package service

import (
	"context"
	"testing"

	"parkade/internal/parking/validator"
	"parkade/pkg/config"
	apperrors "parkade/pkg/errors"
	"parkade/pkg/logger"
	"parkade/pkg/model"
)

type mockParkingSlotRepository struct {
	findByStatusFunc  func(ctx context.Context, status model.SlotStatus, limit int, offset int64) ([]*model.ParkingSlot, error)
	countByStatusFunc func(ctx context.Context, status model.SlotStatus) (int64, error)
	countCalls        int
}

func (m *mockParkingSlotRepository) Create(ctx context.Context, slot *model.ParkingSlot) error {
	return nil
}

func (m *mockParkingSlotRepository) FindByID(ctx context.Context, id string) (*model.ParkingSlot, error) {
	return nil, nil
}

func (m *mockParkingSlotRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.ParkingSlot, error) {
	return nil, nil
}

func (m *mockParkingSlotRepository) FindByStatus(ctx context.Context, status model.SlotStatus, limit int, offset int64) ([]*model.ParkingSlot, error) {
	if m.findByStatusFunc != nil {
		return m.findByStatusFunc(ctx, status, limit, offset)
	}
	return nil, nil
}

func (m *mockParkingSlotRepository) Count(ctx context.Context) (int64, error) {
	m.countCalls++
	return 0, nil
}

func (m *mockParkingSlotRepository) CountByStatus(ctx context.Context, status model.SlotStatus) (int64, error) {
	if m.countByStatusFunc != nil {
		return m.countByStatusFunc(ctx, status)
	}
	return 0, nil
}

func (m *mockParkingSlotRepository) Update(ctx context.Context, slot *model.ParkingSlot) error {
	return nil
}

func (m *mockParkingSlotRepository) UpdateStatus(ctx context.Context, id string, status model.SlotStatus) error {
	return nil
}

func (m *mockParkingSlotRepository) Delete(ctx context.Context, id string) error {
	return nil
}

func newTestSlotService(repo *mockParkingSlotRepository) ParkingSlotService {
	log := logger.New(logger.Config{
		Level:   "error",
		Format:  logger.JSON,
		Service: "test",
	})
	return NewParkingSlotService(repo, validator.NewParkingSlotValidator(log), &config.Config{Log: log})
}

func TestGetByStatus_FiltersAndCountsByStatus(t *testing.T) {
	open := []*model.ParkingSlot{
		{ID: "a", Status: model.SlotOpen},
		{ID: "b", Status: model.SlotOpen},
	}
	repo := &mockParkingSlotRepository{
		findByStatusFunc: func(ctx context.Context, status model.SlotStatus, limit int, offset int64) ([]*model.ParkingSlot, error) {
			if status != model.SlotOpen {
				t.Errorf("expected OPEN filter, got %q", status)
			}
			return open, nil
		},
		countByStatusFunc: func(ctx context.Context, status model.SlotStatus) (int64, error) {
			if status != model.SlotOpen {
				t.Errorf("expected OPEN count, got %q", status)
			}
			return 2, nil
		},
	}
	svc := newTestSlotService(repo)

	slots, total, err := svc.GetByStatus(context.Background(), model.SlotOpen, 10, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(slots) != 2 {
		t.Errorf("expected 2 slots, got %d", len(slots))
	}
	if total != 2 {
		t.Errorf("total must come from the status-scoped count, got %d", total)
	}
	if repo.countCalls != 0 {
		t.Error("the unfiltered count must not be consulted for a status listing")
	}
}

func TestGetByStatus_InvalidStatus(t *testing.T) {
	svc := newTestSlotService(&mockParkingSlotRepository{})

	_, _, err := svc.GetByStatus(context.Background(), model.SlotStatus("parked"), 10, 0)
	if !apperrors.HasCode(err, apperrors.CodeInvalidInput) {
		t.Errorf("expected INVALID_INPUT, got %v", err)
	}
}
