package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	bookingserrors "parkade/internal/bookings/errors"
	"parkade/pkg/config"
	"parkade/pkg/model"
)

type BookingRepository interface {
	Create(ctx context.Context, booking *model.Booking) error
	FindByID(ctx context.Context, id string) (*model.Booking, error)
	FindAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, error)
	FindByCustomerID(ctx context.Context, customerID string, limit int, offset int64) ([]*model.Booking, error)
	Count(ctx context.Context) (int64, error)
	CountByCustomerID(ctx context.Context, customerID string) (int64, error)
	Update(ctx context.Context, booking *model.Booking) error
	UpdateStatus(ctx context.Context, id string, status string) error
	Delete(ctx context.Context, id string) error
}

type gormBookingRepository struct {
	cfg *config.Config
	db  *gorm.DB
}

func NewGormBookingRepository(cfg *config.Config) BookingRepository {
	return &gormBookingRepository{
		cfg: cfg,
		db:  cfg.Client.DB,
	}
}

func (r *gormBookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	if err := r.db.WithContext(ctx).Create(booking).Error; err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}
	return nil
}

func (r *gormBookingRepository) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	var booking model.Booking
	err := r.db.WithContext(ctx).First(&booking, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, bookingserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find booking: %w", err)
	}
	return &booking, nil
}

func (r *gormBookingRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, error) {
	var bookings []*model.Booking
	err := r.db.WithContext(ctx).
		Order("time_from").
		Limit(limit).
		Offset(int(offset)).
		Find(&bookings).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	return bookings, nil
}

func (r *gormBookingRepository) FindByCustomerID(ctx context.Context, customerID string, limit int, offset int64) ([]*model.Booking, error) {
	var bookings []*model.Booking
	err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("time_from").
		Limit(limit).
		Offset(int(offset)).
		Find(&bookings).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings by customer: %w", err)
	}
	return bookings, nil
}

func (r *gormBookingRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Booking{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count bookings: %w", err)
	}
	return count, nil
}

func (r *gormBookingRepository) CountByCustomerID(ctx context.Context, customerID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Booking{}).
		Where("customer_id = ?", customerID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count bookings by customer: %w", err)
	}
	return count, nil
}

func (r *gormBookingRepository) Update(ctx context.Context, booking *model.Booking) error {
	result := r.db.WithContext(ctx).Model(&model.Booking{}).
		Where("id = ?", booking.ID).
		Updates(map[string]any{
			"customer_id":     booking.CustomerID,
			"landlord_id":     booking.LandlordID,
			"parking_slot_id": booking.ParkingSlotID,
			"price_per_hour":  booking.PricePerHour,
			"time_from":       booking.TimeFrom,
			"time_until":      booking.TimeUntil,
			"status":          booking.Status,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update booking: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return bookingserrors.ErrNotFound
	}
	return nil
}

func (r *gormBookingRepository) UpdateStatus(ctx context.Context, id string, status string) error {
	result := r.db.WithContext(ctx).Model(&model.Booking{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return fmt.Errorf("failed to update booking status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return bookingserrors.ErrNotFound
	}
	return nil
}

func (r *gormBookingRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&model.Booking{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete booking: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return bookingserrors.ErrNotFound
	}
	return nil
}
