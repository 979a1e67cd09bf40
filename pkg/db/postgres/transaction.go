package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	apperrors "parkade/pkg/errors"
)

type TransactionFunc func(tx *gorm.DB) error

// TransactionManager runs a function inside a single database transaction,
// rolling back on any returned error.
type TransactionManager interface {
	ExecuteTransaction(ctx context.Context, fn TransactionFunc) error
}

type gormTransactionManager struct {
	db *gorm.DB
}

func NewTransactionManager(db *gorm.DB) TransactionManager {
	return &gormTransactionManager{
		db: db,
	}
}

func (m *gormTransactionManager) ExecuteTransaction(ctx context.Context, fn TransactionFunc) error {
	err := m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(tx)
	})

	if err != nil {
		if apperrors.IsAppError(err) {
			return err
		}
		return fmt.Errorf("transaction failed: %w", err)
	}

	return nil
}
