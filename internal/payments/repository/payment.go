package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	paymentserrors "parkade/internal/payments/errors"
	"parkade/pkg/config"
	"parkade/pkg/model"
)

type PaymentRepository interface {
	Create(ctx context.Context, payment *model.Payment) error
	FindByID(ctx context.Context, id string) (*model.Payment, error)
	FindByBookingID(ctx context.Context, bookingID string) ([]*model.Payment, error)
	FindAll(ctx context.Context, limit int, offset int64) ([]*model.Payment, error)
	Count(ctx context.Context) (int64, error)
}

type gormPaymentRepository struct {
	cfg *config.Config
	db  *gorm.DB
}

func NewGormPaymentRepository(cfg *config.Config) PaymentRepository {
	return &gormPaymentRepository{
		cfg: cfg,
		db:  cfg.Client.DB,
	}
}

func (r *gormPaymentRepository) Create(ctx context.Context, payment *model.Payment) error {
	if err := r.db.WithContext(ctx).Create(payment).Error; err != nil {
		return fmt.Errorf("failed to create payment record: %w", err)
	}
	return nil
}

func (r *gormPaymentRepository) FindByID(ctx context.Context, id string) (*model.Payment, error) {
	var payment model.Payment
	err := r.db.WithContext(ctx).First(&payment, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, paymentserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find payment: %w", err)
	}
	return &payment, nil
}

func (r *gormPaymentRepository) FindByBookingID(ctx context.Context, bookingID string) ([]*model.Payment, error) {
	var payments []*model.Payment
	err := r.db.WithContext(ctx).
		Where("booking_id = ?", bookingID).
		Order("time").
		Find(&payments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find payments by booking: %w", err)
	}
	return payments, nil
}

func (r *gormPaymentRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Payment, error) {
	var payments []*model.Payment
	err := r.db.WithContext(ctx).
		Order("time desc").
		Limit(limit).
		Offset(int(offset)).
		Find(&payments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	return payments, nil
}

func (r *gormPaymentRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Payment{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count payments: %w", err)
	}
	return count, nil
}
