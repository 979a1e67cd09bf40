package service

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	parkingerrors "parkade/internal/parking/errors"
	"parkade/internal/parking/repository"
	"parkade/internal/parking/validator"
	"parkade/pkg/config"
	apperrors "parkade/pkg/errors"
	"parkade/pkg/model"
	"parkade/pkg/sanitizer"
)

type ParkingSlotService interface {
	Create(ctx context.Context, slot *model.ParkingSlot) error
	GetByID(ctx context.Context, id string) (*model.ParkingSlot, error)
	GetAll(ctx context.Context, limit int, offset int64) ([]*model.ParkingSlot, int64, error)
	GetByStatus(ctx context.Context, status model.SlotStatus, limit int, offset int64) ([]*model.ParkingSlot, int64, error)
	Update(ctx context.Context, id string, updates *model.ParkingSlotUpdate) error
	UpdateStatus(ctx context.Context, id string, status model.SlotStatus) error
	Delete(ctx context.Context, id string) error
}

type parkingSlotService struct {
	repo      repository.ParkingSlotRepository
	validator *validator.ParkingSlotValidator
	cfg       *config.Config
}

func NewParkingSlotService(
	repo repository.ParkingSlotRepository,
	validator *validator.ParkingSlotValidator,
	cfg *config.Config,
) ParkingSlotService {
	return &parkingSlotService{
		repo:      repo,
		validator: validator,
		cfg:       cfg,
	}
}

func (s *parkingSlotService) Create(ctx context.Context, slot *model.ParkingSlot) error {
	s.applyDefaults(slot)
	s.sanitize(slot)

	if err := s.validator.Validate(slot); err != nil {
		s.cfg.Log.Warn("Parking slot validation failed", "error", err)
		return apperrors.Validation("Parking slot validation failed", map[string]any{"error": err.Error()})
	}

	if err := s.repo.Create(ctx, slot); err != nil {
		s.cfg.Log.Error("Failed to create parking slot", "error", err)
		return apperrors.Internal("Failed to create parking slot", err)
	}

	s.cfg.Log.Info("Parking slot created successfully",
		"id", slot.ID,
		"landlord_id", slot.LandlordID,
		"status", slot.Status,
	)
	return nil
}

func (s *parkingSlotService) GetByID(ctx context.Context, id string) (*model.ParkingSlot, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Parking slot ID cannot be empty")
	}

	slot, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, parkingerrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Parking slot", id)
		}
		return nil, apperrors.Internal("Failed to retrieve parking slot", err)
	}

	return slot, nil
}

func (s *parkingSlotService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.ParkingSlot, int64, error) {
	var count int64
	var slots []*model.ParkingSlot
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.Count(ctx)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count parking slots", "error", errCount)
			errCount = apperrors.Internal("Failed to count parking slots", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		slots, errFind = s.repo.FindAll(ctx, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list parking slots", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve parking slots", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return slots, count, nil
}

func (s *parkingSlotService) GetByStatus(ctx context.Context, status model.SlotStatus, limit int, offset int64) ([]*model.ParkingSlot, int64, error) {
	if !status.Valid() {
		return nil, 0, apperrors.InvalidInput("Status must be one of: OPEN, CLOSED")
	}

	var count int64
	var slots []*model.ParkingSlot
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.CountByStatus(ctx, status)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count parking slots by status", "status", status, "error", errCount)
			errCount = apperrors.Internal("Failed to count parking slots", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		slots, errFind = s.repo.FindByStatus(ctx, status, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list parking slots by status", "status", status, "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve parking slots", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return slots, count, nil
}

func (s *parkingSlotService) Update(ctx context.Context, id string, updates *model.ParkingSlotUpdate) error {
	if id == "" {
		return apperrors.InvalidInput("Parking slot ID cannot be empty")
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, parkingerrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Parking slot", id)
		}
		return apperrors.Internal("Failed to check parking slot existence", err)
	}

	if err := s.validator.ValidateUpdate(updates); err != nil {
		s.cfg.Log.Warn("Parking slot update validation failed", "id", id, "error", err)
		return apperrors.Validation("Invalid update input", map[string]any{"error": err.Error()})
	}

	merged := s.mergeSlotUpdates(existing, updates)
	if err := s.repo.Update(ctx, merged); err != nil {
		if errors.Is(err, parkingerrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Parking slot", id)
		}
		s.cfg.Log.Error("Failed to update parking slot", "id", id, "error", err)
		return apperrors.Internal("Failed to update parking slot", err)
	}

	s.cfg.Log.Info("Parking slot updated successfully", "id", id)
	return nil
}

func (s *parkingSlotService) UpdateStatus(ctx context.Context, id string, status model.SlotStatus) error {
	if id == "" {
		return apperrors.InvalidInput("Parking slot ID cannot be empty")
	}
	if !status.Valid() {
		return apperrors.InvalidInput("Status must be OPEN or CLOSED")
	}

	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		if errors.Is(err, parkingerrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Parking slot", id)
		}
		s.cfg.Log.Error("Failed to update parking slot status", "id", id, "error", err)
		return apperrors.Internal("Failed to update parking slot status", err)
	}

	s.cfg.Log.Info("Parking slot status updated", "id", id, "status", status)
	return nil
}

func (s *parkingSlotService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Parking slot ID cannot be empty")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, parkingerrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Parking slot", id)
		}
		return apperrors.Internal("Failed to delete parking slot", err)
	}

	s.cfg.Log.Info("Parking slot deleted successfully", "id", id)
	return nil
}

func (s *parkingSlotService) applyDefaults(slot *model.ParkingSlot) {
	if slot.ID == "" {
		slot.ID = uuid.NewString()
	}
	if slot.Status == "" {
		slot.Status = model.SlotOpen
	}
	for i := range slot.Restrictions {
		if slot.Restrictions[i].ID == "" {
			slot.Restrictions[i].ID = uuid.NewString()
		}
		slot.Restrictions[i].ParkingSlotID = slot.ID
	}
}

func (s *parkingSlotService) sanitize(slot *model.ParkingSlot) {
	for i := range slot.Restrictions {
		slot.Restrictions[i].CarCategory = sanitizer.NormalizeCarCategory(slot.Restrictions[i].CarCategory)
		slot.Restrictions[i].Code = sanitizer.TrimAndNormalize(slot.Restrictions[i].Code)
	}
}

func (s *parkingSlotService) mergeSlotUpdates(existing *model.ParkingSlot, updates *model.ParkingSlotUpdate) *model.ParkingSlot {
	merged := *existing

	if updates.LandlordID != "" {
		merged.LandlordID = updates.LandlordID
	}
	if updates.Status != "" {
		merged.Status = updates.Status
	}
	if updates.PricePerHour != "" {
		merged.PricePerHour = updates.PricePerHour
	}
	if updates.Latitude != nil {
		merged.Latitude = *updates.Latitude
	}
	if updates.Longitude != nil {
		merged.Longitude = *updates.Longitude
	}

	return &merged
}
