package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	paymentserrors "parkade/internal/payments/errors"
	"parkade/internal/payments/repository"
	"parkade/pkg/config"
	apperrors "parkade/pkg/errors"
	"parkade/pkg/model"
)

// bookingFetcher and userGateway are the slices of the bookings and users
// services this service needs; *client.BookingClient and *client.UserClient
// satisfy them.
type bookingFetcher interface {
	GetByID(ctx context.Context, id string) (*model.Booking, error)
}

type userGateway interface {
	GetBalance(ctx context.Context, id string) (decimal.Decimal, error)
	Transfer(ctx context.Context, transfer model.Transfer) error
}

type PaymentService interface {
	MakePayment(ctx context.Context, bookingID string) (*model.PaymentOutcome, error)
	Refund(ctx context.Context, bookingID string) error
	GetByID(ctx context.Context, id string) (*model.Payment, error)
	GetByBookingID(ctx context.Context, bookingID string) ([]*model.Payment, error)
	GetAll(ctx context.Context, limit int, offset int64) ([]*model.Payment, int64, error)
}

type paymentService struct {
	repo     repository.PaymentRepository
	bookings bookingFetcher
	users    userGateway
	cfg      *config.Config
}

func NewPaymentService(
	repo repository.PaymentRepository,
	bookings bookingFetcher,
	users userGateway,
	cfg *config.Config,
) PaymentService {
	return &paymentService{
		repo:     repo,
		bookings: bookings,
		users:    users,
		cfg:      cfg,
	}
}

// MakePayment settles a booking: amount is price per hour times the whole
// hours of the booked window, truncated. A decision (completed or declined)
// always leaves a ledger row; infrastructure failures leave none and return
// an error instead.
func (s *paymentService) MakePayment(ctx context.Context, bookingID string) (*model.PaymentOutcome, error) {
	if bookingID == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		if apperrors.HasCode(err, apperrors.CodeNotFound) {
			return nil, apperrors.NotFoundWithID("Booking", bookingID)
		}
		s.cfg.Log.Error("Failed to fetch booking for payment", "booking_id", bookingID, "error", err)
		return nil, apperrors.UnavailableWrap("bookings", err)
	}

	amount, err := bookingAmount(booking)
	if err != nil {
		return nil, apperrors.InvalidInput(err.Error())
	}

	balance, err := s.users.GetBalance(ctx, booking.CustomerID)
	if err != nil {
		s.cfg.Log.Error("Failed to fetch payer balance", "customer_id", booking.CustomerID, "error", err)
		return nil, apperrors.UnavailableWrap("users", err)
	}

	if balance.LessThan(amount) {
		if err := s.recordAttempt(ctx, booking, amount, model.PaymentDeclined); err != nil {
			return nil, err
		}
		s.cfg.Log.Info("Payment declined",
			"booking_id", bookingID,
			"amount", amount.String(),
			"balance", balance.String(),
		)
		return &model.PaymentOutcome{
			Status: model.PaymentDeclined,
			Reason: model.ReasonInsufficientFunds,
		}, nil
	}

	err = s.users.Transfer(ctx, model.Transfer{
		PayerID:    booking.CustomerID,
		ReceiverID: booking.LandlordID,
		Amount:     amount,
	})
	if err != nil {
		// A concurrent spend can drain the balance between the check and
		// the transfer; treat that as a regular decline.
		if apperrors.HasCode(err, apperrors.CodeInsufficientFunds) {
			if recordErr := s.recordAttempt(ctx, booking, amount, model.PaymentDeclined); recordErr != nil {
				return nil, recordErr
			}
			return &model.PaymentOutcome{
				Status: model.PaymentDeclined,
				Reason: model.ReasonInsufficientFunds,
			}, nil
		}
		s.cfg.Log.Error("Failed to transfer funds", "booking_id", bookingID, "error", err)
		return nil, apperrors.UnavailableWrap("users", err)
	}

	if err := s.recordAttempt(ctx, booking, amount, model.PaymentCompleted); err != nil {
		return nil, err
	}

	s.cfg.Log.Info("Payment completed",
		"booking_id", bookingID,
		"payer_id", booking.CustomerID,
		"receiver_id", booking.LandlordID,
		"amount", amount.String(),
	)
	return &model.PaymentOutcome{Status: model.PaymentCompleted}, nil
}

// Refund reverses the completed payment of a booking: the landlord pays the
// amount back and a REFUNDED ledger row is appended. The original row stays
// untouched.
func (s *paymentService) Refund(ctx context.Context, bookingID string) error {
	if bookingID == "" {
		return apperrors.InvalidInput("Booking ID cannot be empty")
	}

	completed, err := s.findRefundable(ctx, bookingID)
	if err != nil {
		return err
	}

	err = s.users.Transfer(ctx, model.Transfer{
		PayerID:    completed.ReceiverID,
		ReceiverID: completed.PayerID,
		Amount:     completed.Amount,
	})
	if err != nil {
		s.cfg.Log.Error("Failed to reverse transfer", "booking_id", bookingID, "error", err)
		return apperrors.UnavailableWrap("users", err)
	}

	refund := &model.Payment{
		ID:         uuid.NewString(),
		PayerID:    completed.ReceiverID,
		ReceiverID: completed.PayerID,
		BookingID:  bookingID,
		Time:       time.Now().UTC(),
		Amount:     completed.Amount,
		Status:     model.PaymentRefunded,
	}
	if err := s.repo.Create(ctx, refund); err != nil {
		s.cfg.Log.Error("Failed to record refund", "booking_id", bookingID, "error", err)
		return apperrors.Internal("Failed to record refund", err)
	}

	s.cfg.Log.Info("Payment refunded",
		"booking_id", bookingID,
		"amount", completed.Amount.String(),
	)
	return nil
}

func (s *paymentService) GetByID(ctx context.Context, id string) (*model.Payment, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Payment ID cannot be empty")
	}

	payment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, paymentserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Payment", id)
		}
		return nil, apperrors.Internal("Failed to retrieve payment", err)
	}

	return payment, nil
}

func (s *paymentService) GetByBookingID(ctx context.Context, bookingID string) ([]*model.Payment, error) {
	if bookingID == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	payments, err := s.repo.FindByBookingID(ctx, bookingID)
	if err != nil {
		return nil, apperrors.Internal("Failed to retrieve payments", err)
	}

	return payments, nil
}

func (s *paymentService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.Payment, int64, error) {
	var count int64
	var payments []*model.Payment
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.Count(ctx)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count payments", "error", errCount)
			errCount = apperrors.Internal("Failed to count payments", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		payments, errFind = s.repo.FindAll(ctx, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list payments", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve payments", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return payments, count, nil
}

func (s *paymentService) recordAttempt(ctx context.Context, booking *model.Booking, amount decimal.Decimal, status model.PaymentStatus) error {
	payment := &model.Payment{
		ID:         uuid.NewString(),
		PayerID:    booking.CustomerID,
		ReceiverID: booking.LandlordID,
		BookingID:  booking.ID,
		Time:       time.Now().UTC(),
		Amount:     amount,
		Status:     status,
	}
	if err := s.repo.Create(ctx, payment); err != nil {
		s.cfg.Log.Error("Failed to record payment attempt",
			"booking_id", booking.ID,
			"status", status,
			"error", err,
		)
		return apperrors.Internal("Failed to record payment attempt", err)
	}
	return nil
}

// findRefundable returns the completed payment of a booking, rejecting
// bookings that were never paid or already refunded.
func (s *paymentService) findRefundable(ctx context.Context, bookingID string) (*model.Payment, error) {
	payments, err := s.repo.FindByBookingID(ctx, bookingID)
	if err != nil {
		return nil, apperrors.Internal("Failed to retrieve payments for booking", err)
	}

	var completed *model.Payment
	for _, p := range payments {
		switch p.Status {
		case model.PaymentCompleted:
			completed = p
		case model.PaymentRefunded:
			return nil, apperrors.Conflict("Booking payment was already refunded")
		}
	}
	if completed == nil {
		return nil, apperrors.NotFound("Completed payment for booking")
	}

	return completed, nil
}

// bookingAmount is the booked window in truncated whole hours times the
// hourly price. A 2h30m booking bills 2 hours.
func bookingAmount(booking *model.Booking) (decimal.Decimal, error) {
	price, err := decimal.NewFromString(booking.PricePerHour)
	if err != nil {
		return decimal.Zero, errors.New("booking price per hour is not a valid decimal")
	}

	hours := int64(booking.TimeUntil.Sub(booking.TimeFrom).Hours())
	if hours < 0 {
		return decimal.Zero, errors.New("booking window ends before it starts")
	}

	return price.Mul(decimal.NewFromInt(hours)), nil
}
