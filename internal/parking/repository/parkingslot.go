package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	parkingerrors "parkade/internal/parking/errors"
	"parkade/pkg/config"
	"parkade/pkg/db/postgres"
	"parkade/pkg/model"
)

type ParkingSlotRepository interface {
	Create(ctx context.Context, slot *model.ParkingSlot) error
	FindByID(ctx context.Context, id string) (*model.ParkingSlot, error)
	FindAll(ctx context.Context, limit int, offset int64) ([]*model.ParkingSlot, error)
	FindByStatus(ctx context.Context, status model.SlotStatus, limit int, offset int64) ([]*model.ParkingSlot, error)
	Count(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context, status model.SlotStatus) (int64, error)
	Update(ctx context.Context, slot *model.ParkingSlot) error
	UpdateStatus(ctx context.Context, id string, status model.SlotStatus) error
	Delete(ctx context.Context, id string) error
}

type gormParkingSlotRepository struct {
	cfg *config.Config
	db  *gorm.DB
	tm  postgres.TransactionManager
}

func NewGormParkingSlotRepository(cfg *config.Config) ParkingSlotRepository {
	return &gormParkingSlotRepository{
		cfg: cfg,
		db:  cfg.Client.DB,
		tm:  postgres.NewTransactionManager(cfg.Client.DB),
	}
}

func (r *gormParkingSlotRepository) Create(ctx context.Context, slot *model.ParkingSlot) error {
	if err := r.db.WithContext(ctx).Create(slot).Error; err != nil {
		return fmt.Errorf("failed to create parking slot: %w", err)
	}
	return nil
}

func (r *gormParkingSlotRepository) FindByID(ctx context.Context, id string) (*model.ParkingSlot, error) {
	var slot model.ParkingSlot
	err := r.db.WithContext(ctx).
		Preload("Restrictions").
		First(&slot, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, parkingerrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find parking slot: %w", err)
	}
	return &slot, nil
}

func (r *gormParkingSlotRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.ParkingSlot, error) {
	var slots []*model.ParkingSlot
	err := r.db.WithContext(ctx).
		Preload("Restrictions").
		Order("created_at").
		Limit(limit).
		Offset(int(offset)).
		Find(&slots).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list parking slots: %w", err)
	}
	return slots, nil
}

func (r *gormParkingSlotRepository) FindByStatus(ctx context.Context, status model.SlotStatus, limit int, offset int64) ([]*model.ParkingSlot, error) {
	var slots []*model.ParkingSlot
	err := r.db.WithContext(ctx).
		Preload("Restrictions").
		Where("status = ?", status).
		Order("created_at").
		Limit(limit).
		Offset(int(offset)).
		Find(&slots).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list parking slots by status: %w", err)
	}
	return slots, nil
}

func (r *gormParkingSlotRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.ParkingSlot{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count parking slots: %w", err)
	}
	return count, nil
}

func (r *gormParkingSlotRepository) CountByStatus(ctx context.Context, status model.SlotStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.ParkingSlot{}).
		Where("status = ?", status).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count parking slots by status: %w", err)
	}
	return count, nil
}

func (r *gormParkingSlotRepository) Update(ctx context.Context, slot *model.ParkingSlot) error {
	result := r.db.WithContext(ctx).Model(&model.ParkingSlot{}).
		Where("id = ?", slot.ID).
		Updates(map[string]any{
			"landlord_id":    slot.LandlordID,
			"status":         slot.Status,
			"price_per_hour": slot.PricePerHour,
			"latitude":       slot.Latitude,
			"longitude":      slot.Longitude,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update parking slot: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return parkingerrors.ErrNotFound
	}
	return nil
}

func (r *gormParkingSlotRepository) UpdateStatus(ctx context.Context, id string, status model.SlotStatus) error {
	result := r.db.WithContext(ctx).Model(&model.ParkingSlot{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return fmt.Errorf("failed to update parking slot status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return parkingerrors.ErrNotFound
	}
	return nil
}

func (r *gormParkingSlotRepository) Delete(ctx context.Context, id string) error {
	return r.tm.ExecuteTransaction(ctx, func(tx *gorm.DB) error {
		if err := tx.Delete(&model.ParkingRestriction{}, "parking_slot_id = ?", id).Error; err != nil {
			return fmt.Errorf("failed to delete slot restrictions: %w", err)
		}

		result := tx.Delete(&model.ParkingSlot{}, "id = ?", id)
		if result.Error != nil {
			return fmt.Errorf("failed to delete parking slot: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return parkingerrors.ErrNotFound
		}
		return nil
	})
}
