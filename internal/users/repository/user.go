package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	userserrors "parkade/internal/users/errors"
	"parkade/pkg/config"
	"parkade/pkg/db/postgres"
	"parkade/pkg/model"
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id string) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindAll(ctx context.Context, limit int, offset int64) ([]*model.User, error)
	Count(ctx context.Context) (int64, error)
	Update(ctx context.Context, user *model.User) error
	Delete(ctx context.Context, id string) error
	SetBalance(ctx context.Context, id string, balance decimal.Decimal) error
	Transfer(ctx context.Context, transfer *model.Transfer) error
}

type gormUserRepository struct {
	cfg *config.Config
	db  *gorm.DB
	tm  postgres.TransactionManager
}

func NewGormUserRepository(cfg *config.Config) UserRepository {
	return &gormUserRepository{
		cfg: cfg,
		db:  cfg.Client.DB,
		tm:  postgres.NewTransactionManager(cfg.Client.DB),
	}
}

func (r *gormUserRepository) Create(ctx context.Context, user *model.User) error {
	err := r.db.WithContext(ctx).Create(user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return userserrors.ErrEmailTaken
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *gormUserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, userserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return &user, nil
}

func (r *gormUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).First(&user, "email = ?", email).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, userserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}
	return &user, nil
}

func (r *gormUserRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.User, error) {
	var users []*model.User
	err := r.db.WithContext(ctx).
		Order("created_at").
		Limit(limit).
		Offset(int(offset)).
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

func (r *gormUserRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.User{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return count, nil
}

func (r *gormUserRepository) Update(ctx context.Context, user *model.User) error {
	result := r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", user.ID).
		Updates(map[string]any{
			"email":          user.Email,
			"password_hash":  user.PasswordHash,
			"first_name":     user.FirstName,
			"last_name":      user.LastName,
			"role":           user.Role,
			"payment_method": user.PaymentMethod,
		})
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return userserrors.ErrEmailTaken
		}
		return fmt.Errorf("failed to update user: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return userserrors.ErrNotFound
	}
	return nil
}

func (r *gormUserRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&model.User{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete user: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return userserrors.ErrNotFound
	}
	return nil
}

func (r *gormUserRepository) SetBalance(ctx context.Context, id string, balance decimal.Decimal) error {
	result := r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", id).
		Update("balance", balance)
	if result.Error != nil {
		return fmt.Errorf("failed to set balance: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return userserrors.ErrNotFound
	}
	return nil
}

// Transfer debits the payer and credits the receiver in one transaction.
// Both rows are locked FOR UPDATE in ascending ID order so two concurrent
// transfers between the same pair cannot deadlock.
func (r *gormUserRepository) Transfer(ctx context.Context, transfer *model.Transfer) error {
	return r.tm.ExecuteTransaction(ctx, func(tx *gorm.DB) error {
		first, second := transfer.PayerID, transfer.ReceiverID
		if second < first {
			first, second = second, first
		}

		var firstUser, secondUser model.User
		for _, pair := range []struct {
			id   string
			dest *model.User
		}{{first, &firstUser}, {second, &secondUser}} {
			err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				First(pair.dest, "id = ?", pair.id).Error
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("%w: %s", userserrors.ErrNotFound, pair.id)
				}
				return fmt.Errorf("failed to lock user row: %w", err)
			}
		}

		payer, receiver := &firstUser, &secondUser
		if payer.ID != transfer.PayerID {
			payer, receiver = receiver, payer
		}

		if payer.Balance.LessThan(transfer.Amount) {
			return userserrors.ErrInsufficientFunds
		}

		if err := tx.Model(&model.User{}).Where("id = ?", payer.ID).
			Update("balance", payer.Balance.Sub(transfer.Amount)).Error; err != nil {
			return fmt.Errorf("failed to debit payer: %w", err)
		}
		if err := tx.Model(&model.User{}).Where("id = ?", receiver.ID).
			Update("balance", receiver.Balance.Add(transfer.Amount)).Error; err != nil {
			return fmt.Errorf("failed to credit receiver: %w", err)
		}

		return nil
	})
}
