package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	userserrors "parkade/internal/users/errors"
	"parkade/internal/users/validator"
	"parkade/pkg/config"
	apperrors "parkade/pkg/errors"
	"parkade/pkg/logger"
	"parkade/pkg/model"
)

type mockUserRepository struct {
	createFunc     func(ctx context.Context, user *model.User) error
	findByIDFunc   func(ctx context.Context, id string) (*model.User, error)
	setBalanceFunc func(ctx context.Context, id string, balance decimal.Decimal) error
	transferFunc   func(ctx context.Context, transfer *model.Transfer) error
}

func (m *mockUserRepository) Create(ctx context.Context, user *model.User) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, user)
	}
	return nil
}

func (m *mockUserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, userserrors.ErrNotFound
}

func (m *mockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return nil, userserrors.ErrNotFound
}

func (m *mockUserRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.User, error) {
	return []*model.User{}, nil
}

func (m *mockUserRepository) Count(ctx context.Context) (int64, error) {
	return 0, nil
}

func (m *mockUserRepository) Update(ctx context.Context, user *model.User) error {
	return nil
}

func (m *mockUserRepository) Delete(ctx context.Context, id string) error {
	return nil
}

func (m *mockUserRepository) SetBalance(ctx context.Context, id string, balance decimal.Decimal) error {
	if m.setBalanceFunc != nil {
		return m.setBalanceFunc(ctx, id, balance)
	}
	return nil
}

func (m *mockUserRepository) Transfer(ctx context.Context, transfer *model.Transfer) error {
	if m.transferFunc != nil {
		return m.transferFunc(ctx, transfer)
	}
	return nil
}

func newTestService(repo *mockUserRepository) *userService {
	log := logger.New(logger.Config{
		Level:   "error",
		Format:  logger.JSON,
		Service: "test",
	})

	return &userService{
		repo:      repo,
		validator: validator.NewUserValidator(log),
		cfg:       &config.Config{Log: log},
	}
}

func TestCreate_HashesPasswordAndClearsPlaintext(t *testing.T) {
	var saved *model.User
	repo := &mockUserRepository{
		createFunc: func(ctx context.Context, user *model.User) error {
			saved = user
			return nil
		},
	}
	svc := newTestService(repo)

	user := &model.User{
		Email:     "  Alice@Example.COM ",
		Password:  "correct-horse",
		FirstName: "Alice",
		LastName:  "Varga",
		Role:      model.RoleCustomer,
	}

	if err := svc.Create(context.Background(), user); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if saved == nil {
		t.Fatal("expected repository Create to be called")
	}
	if saved.Email != "alice@example.com" {
		t.Errorf("expected normalized email, got %q", saved.Email)
	}
	if saved.Password != "" {
		t.Error("plaintext password must be cleared before persisting")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(saved.PasswordHash), []byte("correct-horse")); err != nil {
		t.Errorf("stored hash does not match the original password: %v", err)
	}
	if saved.ID == "" {
		t.Error("expected an ID to be assigned")
	}
}

func TestCreate_DuplicateEmail(t *testing.T) {
	repo := &mockUserRepository{
		createFunc: func(ctx context.Context, user *model.User) error {
			return userserrors.ErrEmailTaken
		},
	}
	svc := newTestService(repo)

	err := svc.Create(context.Background(), &model.User{
		Email:     "bob@example.com",
		Password:  "some-password",
		FirstName: "Bob",
		LastName:  "Keller",
		Role:      model.RoleLandlord,
	})

	if !apperrors.HasCode(err, apperrors.CodeEmailExists) {
		t.Errorf("expected EMAIL_ALREADY_EXISTS, got %v", err)
	}
}

func TestCreate_MissingPassword(t *testing.T) {
	svc := newTestService(&mockUserRepository{})

	err := svc.Create(context.Background(), &model.User{
		Email:     "carol@example.com",
		FirstName: "Carol",
		LastName:  "Nagy",
		Role:      model.RoleCustomer,
	})

	if !apperrors.HasCode(err, apperrors.CodeInvalidInput) {
		t.Errorf("expected INVALID_INPUT, got %v", err)
	}
}

func TestSetBalance_RejectsNegative(t *testing.T) {
	svc := newTestService(&mockUserRepository{})

	err := svc.SetBalance(context.Background(), "5b4f1a1e-8d9c-4f3a-9d2e-1a2b3c4d5e6f", decimal.NewFromInt(-5))
	if !apperrors.HasCode(err, apperrors.CodeInvalidInput) {
		t.Errorf("expected INVALID_INPUT, got %v", err)
	}
}

func TestTransfer_InsufficientFunds(t *testing.T) {
	repo := &mockUserRepository{
		transferFunc: func(ctx context.Context, transfer *model.Transfer) error {
			return userserrors.ErrInsufficientFunds
		},
	}
	svc := newTestService(repo)

	err := svc.Transfer(context.Background(), &model.Transfer{
		PayerID:    "5b4f1a1e-8d9c-4f3a-9d2e-1a2b3c4d5e6f",
		ReceiverID: "9c8b7a6d-5e4f-4a3b-8c2d-1e0f9a8b7c6d",
		Amount:     decimal.NewFromInt(30),
	})

	if !apperrors.HasCode(err, apperrors.CodeInsufficientFunds) {
		t.Errorf("expected INSUFFICIENT_FUNDS, got %v", err)
	}
}

func TestTransfer_RejectsSelfTransfer(t *testing.T) {
	svc := newTestService(&mockUserRepository{})

	err := svc.Transfer(context.Background(), &model.Transfer{
		PayerID:    "5b4f1a1e-8d9c-4f3a-9d2e-1a2b3c4d5e6f",
		ReceiverID: "5b4f1a1e-8d9c-4f3a-9d2e-1a2b3c4d5e6f",
		Amount:     decimal.NewFromInt(10),
	})

	if !apperrors.HasCode(err, apperrors.CodeValidation) {
		t.Errorf("expected VALIDATION_ERROR, got %v", err)
	}
}
