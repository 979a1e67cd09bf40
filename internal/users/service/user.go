package service

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	userserrors "parkade/internal/users/errors"
	"parkade/internal/users/repository"
	"parkade/internal/users/validator"
	"parkade/pkg/config"
	apperrors "parkade/pkg/errors"
	"parkade/pkg/model"
	"parkade/pkg/sanitizer"
)

type UserService interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetAll(ctx context.Context, limit int, offset int64) ([]*model.User, int64, error)
	Update(ctx context.Context, id string, updates *model.UserUpdate) error
	Delete(ctx context.Context, id string) error
	GetBalance(ctx context.Context, id string) (decimal.Decimal, error)
	SetBalance(ctx context.Context, id string, balance decimal.Decimal) error
	Transfer(ctx context.Context, transfer *model.Transfer) error
}

type userService struct {
	repo      repository.UserRepository
	validator *validator.UserValidator
	cfg       *config.Config
}

func NewUserService(
	repo repository.UserRepository,
	validator *validator.UserValidator,
	cfg *config.Config,
) UserService {
	return &userService{
		repo:      repo,
		validator: validator,
		cfg:       cfg,
	}
}

func (s *userService) Create(ctx context.Context, user *model.User) error {
	s.sanitize(user)
	s.applyDefaults(user)

	if user.Password == "" {
		return apperrors.InvalidInput("Password is required")
	}

	if err := s.validator.Validate(user); err != nil {
		s.cfg.Log.Warn("User validation failed", "error", err)
		return apperrors.Validation("User validation failed", map[string]any{"error": err.Error()})
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return apperrors.Internal("Failed to hash password", err)
	}
	user.PasswordHash = string(hash)
	user.Password = ""

	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, userserrors.ErrEmailTaken) {
			return apperrors.EmailAlreadyExists(user.Email)
		}
		s.cfg.Log.Error("Failed to create user", "error", err)
		return apperrors.Internal("Failed to create user", err)
	}

	s.cfg.Log.Info("User created successfully",
		"id", user.ID,
		"email", user.Email,
		"role", user.Role,
	)
	return nil
}

func (s *userService) GetByID(ctx context.Context, id string) (*model.User, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("User ID cannot be empty")
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, userserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("User", id)
		}
		return nil, apperrors.Internal("Failed to retrieve user", err)
	}

	return user, nil
}

func (s *userService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.User, int64, error) {
	var count int64
	var users []*model.User
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.Count(ctx)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count users", "error", errCount)
			errCount = apperrors.Internal("Failed to count users", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		users, errFind = s.repo.FindAll(ctx, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list users", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve users", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return users, count, nil
}

func (s *userService) Update(ctx context.Context, id string, updates *model.UserUpdate) error {
	if id == "" {
		return apperrors.InvalidInput("User ID cannot be empty")
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, userserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("User", id)
		}
		return apperrors.Internal("Failed to check user existence", err)
	}

	if err := s.validator.ValidateUpdate(updates); err != nil {
		s.cfg.Log.Warn("User update validation failed", "id", id, "error", err)
		return apperrors.Validation("Invalid update input", map[string]any{"error": err.Error()})
	}

	merged := s.mergeUserUpdates(existing, updates)
	if updates.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(updates.Password), bcrypt.DefaultCost)
		if err != nil {
			return apperrors.Internal("Failed to hash password", err)
		}
		merged.PasswordHash = string(hash)
	}

	if err := s.repo.Update(ctx, merged); err != nil {
		if errors.Is(err, userserrors.ErrEmailTaken) {
			return apperrors.EmailAlreadyExists(merged.Email)
		}
		if errors.Is(err, userserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("User", id)
		}
		s.cfg.Log.Error("Failed to update user", "id", id, "error", err)
		return apperrors.Internal("Failed to update user", err)
	}

	s.cfg.Log.Info("User updated successfully", "id", id)
	return nil
}

func (s *userService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("User ID cannot be empty")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, userserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("User", id)
		}
		return apperrors.Internal("Failed to delete user", err)
	}

	s.cfg.Log.Info("User deleted successfully", "id", id)
	return nil
}

func (s *userService) GetBalance(ctx context.Context, id string) (decimal.Decimal, error) {
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return decimal.Zero, err
	}
	return user.Balance, nil
}

func (s *userService) SetBalance(ctx context.Context, id string, balance decimal.Decimal) error {
	if id == "" {
		return apperrors.InvalidInput("User ID cannot be empty")
	}
	if balance.IsNegative() {
		return apperrors.InvalidInput("Balance cannot be negative")
	}

	if err := s.repo.SetBalance(ctx, id, balance); err != nil {
		if errors.Is(err, userserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("User", id)
		}
		return apperrors.Internal("Failed to set balance", err)
	}

	s.cfg.Log.Info("User balance set", "id", id, "balance", balance.String())
	return nil
}

func (s *userService) Transfer(ctx context.Context, transfer *model.Transfer) error {
	if err := s.validator.ValidateTransfer(transfer); err != nil {
		s.cfg.Log.Warn("Transfer validation failed", "error", err)
		return apperrors.Validation("Transfer validation failed", map[string]any{"error": err.Error()})
	}

	if err := s.repo.Transfer(ctx, transfer); err != nil {
		if errors.Is(err, userserrors.ErrInsufficientFunds) {
			return apperrors.InsufficientFunds("Payer balance is lower than the transfer amount")
		}
		if errors.Is(err, userserrors.ErrNotFound) {
			return apperrors.NotFound("User")
		}
		s.cfg.Log.Error("Failed to execute transfer",
			"payer_id", transfer.PayerID,
			"receiver_id", transfer.ReceiverID,
			"error", err,
		)
		return apperrors.Internal("Failed to execute transfer", err)
	}

	s.cfg.Log.Info("Transfer completed",
		"payer_id", transfer.PayerID,
		"receiver_id", transfer.ReceiverID,
		"amount", transfer.Amount.String(),
	)
	return nil
}

func (s *userService) sanitize(u *model.User) {
	u.Email = sanitizer.NormalizeEmail(u.Email)
	u.FirstName = sanitizer.NormalizeName(u.FirstName)
	u.LastName = sanitizer.NormalizeName(u.LastName)
	u.PaymentMethod = sanitizer.TrimAndNormalize(u.PaymentMethod)
}

func (s *userService) applyDefaults(u *model.User) {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.Role == "" {
		u.Role = model.RoleCustomer
	}
}

func (s *userService) mergeUserUpdates(existing *model.User, updates *model.UserUpdate) *model.User {
	merged := *existing

	if updates.Email != "" {
		merged.Email = sanitizer.NormalizeEmail(updates.Email)
	}
	if updates.FirstName != "" {
		merged.FirstName = sanitizer.NormalizeName(updates.FirstName)
	}
	if updates.LastName != "" {
		merged.LastName = sanitizer.NormalizeName(updates.LastName)
	}
	if updates.Role != "" {
		merged.Role = updates.Role
	}
	if updates.PaymentMethod != "" {
		merged.PaymentMethod = sanitizer.TrimAndNormalize(updates.PaymentMethod)
	}

	return &merged
}
