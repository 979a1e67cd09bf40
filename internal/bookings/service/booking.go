package service

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	bookingserrors "parkade/internal/bookings/errors"
	"parkade/internal/bookings/repository"
	"parkade/internal/bookings/validator"
	"parkade/pkg/breaker"
	"parkade/pkg/config"
	apperrors "parkade/pkg/errors"
	"parkade/pkg/events"
	"parkade/pkg/model"
)

const (
	bookingBreakerName = "booking-payment"
	paymentBreakerName = "payment-gateway"
)

// errPaymentRejected aborts the booking pipeline without being an
// infrastructure failure; the booking ends up cancelled and the caller gets
// a rejection result instead of an error.
var errPaymentRejected = errors.New("payment rejected")

type slotGateway interface {
	GetByID(ctx context.Context, id string) (*model.ParkingSlot, error)
	UpdateStatus(ctx context.Context, id string, status model.SlotStatus) error
}

type paymentGateway interface {
	MakePayment(ctx context.Context, bookingID string) (*model.PaymentOutcome, error)
	Refund(ctx context.Context, bookingID string) error
}

type userDirectory interface {
	GetByID(ctx context.Context, id string) (*model.User, error)
}

type BookingService interface {
	Create(ctx context.Context, booking *model.Booking) (*model.BookingResult, error)
	GetByID(ctx context.Context, id string) (*model.Booking, error)
	GetAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, int64, error)
	GetByCustomer(ctx context.Context, customerID string, limit int, offset int64) ([]*model.Booking, int64, error)
	Update(ctx context.Context, id string, updates *model.BookingUpdate) error
	Delete(ctx context.Context, id string) error
}

type bookingService struct {
	repo      repository.BookingRepository
	validator *validator.BookingValidator
	slots     slotGateway
	payments  paymentGateway
	users     userDirectory
	publisher events.Publisher
	breakers  *breaker.Registry
	cfg       *config.Config
}

func NewBookingService(
	repo repository.BookingRepository,
	validator *validator.BookingValidator,
	slots slotGateway,
	payments paymentGateway,
	users userDirectory,
	publisher events.Publisher,
	breakers *breaker.Registry,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		repo:      repo,
		validator: validator,
		slots:     slots,
		payments:  payments,
		users:     users,
		publisher: publisher,
		breakers:  breakers,
		cfg:       cfg,
	}
}

// Create runs the booking pipeline: persist a pending booking, charge the
// customer, close the slot and confirm. Any failure after a side effect
// rolls the earlier steps back, so a failed booking never keeps a closed
// slot or the customer's money.
func (s *bookingService) Create(ctx context.Context, booking *model.Booking) (*model.BookingResult, error) {
	s.applyDefaults(booking)

	if err := s.resolveSlot(ctx, booking); err != nil {
		return nil, err
	}
	if err := s.verifyCustomer(ctx, booking.CustomerID); err != nil {
		return nil, err
	}

	if err := s.validator.Validate(booking); err != nil {
		s.cfg.Log.Warn("Booking validation failed", "error", err)
		return nil, apperrors.Validation("Booking validation failed", map[string]any{"error": err.Error()})
	}

	var outcome *model.PaymentOutcome

	steps := []sagaStep{
		{
			name: "persist-booking",
			execute: func(ctx context.Context) error {
				if err := s.repo.Create(ctx, booking); err != nil {
					return apperrors.Internal("Failed to create booking", err)
				}
				return nil
			},
			compensate: func(ctx context.Context) error {
				return s.repo.UpdateStatus(ctx, booking.ID, model.BookingCancelled)
			},
		},
		{
			name: "charge-payment",
			execute: func(ctx context.Context) error {
				var err error
				outcome, err = s.charge(ctx, booking.ID)
				if err != nil {
					return err
				}
				if outcome.Status != model.PaymentCompleted {
					return errPaymentRejected
				}
				return nil
			},
			compensate: func(ctx context.Context) error {
				return s.payments.Refund(ctx, booking.ID)
			},
		},
		{
			name: "close-slot",
			execute: func(ctx context.Context) error {
				return s.slots.UpdateStatus(ctx, booking.ParkingSlotID, model.SlotClosed)
			},
			compensate: func(ctx context.Context) error {
				return s.slots.UpdateStatus(ctx, booking.ParkingSlotID, model.SlotOpen)
			},
		},
		{
			name: "confirm-booking",
			execute: func(ctx context.Context) error {
				booking.Status = model.BookingConfirmed
				return s.repo.UpdateStatus(ctx, booking.ID, model.BookingConfirmed)
			},
		},
	}

	if err := runSaga(ctx, s.cfg.Log, steps); err != nil {
		if errors.Is(err, errPaymentRejected) {
			reason := ""
			infra := false
			if outcome != nil {
				reason = outcome.Reason
				infra = outcome.Unavailable()
			}
			s.cfg.Log.Info("Booking rejected",
				"booking_id", booking.ID,
				"reason", reason,
				"infrastructure", infra,
			)
			return &model.BookingResult{
				BookingID: booking.ID,
				Message:   model.PaymentRejectedMessage,
			}, nil
		}
		s.cfg.Log.Error("Booking pipeline failed", "booking_id", booking.ID, "error", err)
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		return nil, apperrors.Unavailable("booking pipeline")
	}

	s.publishCompleted(booking)

	s.cfg.Log.Info("Booking completed",
		"booking_id", booking.ID,
		"customer_id", booking.CustomerID,
		"parking_slot_id", booking.ParkingSlotID,
	)
	return &model.BookingResult{
		BookingID: booking.ID,
		Message:   model.BookingCompletedMessage,
	}, nil
}

func (s *bookingService) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Booking", id)
		}
		return nil, apperrors.Internal("Failed to retrieve booking", err)
	}

	return booking, nil
}

func (s *bookingService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, int64, error) {
	var count int64
	var bookings []*model.Booking
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.Count(ctx)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count bookings", "error", errCount)
			errCount = apperrors.Internal("Failed to count bookings", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		bookings, errFind = s.repo.FindAll(ctx, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list bookings", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve bookings", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return bookings, count, nil
}

func (s *bookingService) GetByCustomer(ctx context.Context, customerID string, limit int, offset int64) ([]*model.Booking, int64, error) {
	if customerID == "" {
		return nil, 0, apperrors.InvalidInput("Customer ID cannot be empty")
	}

	var count int64
	var bookings []*model.Booking
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.CountByCustomerID(ctx, customerID)
		if errCount != nil {
			errCount = apperrors.Internal("Failed to count bookings", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		bookings, errFind = s.repo.FindByCustomerID(ctx, customerID, limit, offset)
		if errFind != nil {
			errFind = apperrors.Internal("Failed to retrieve bookings", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return bookings, count, nil
}

func (s *bookingService) Update(ctx context.Context, id string, updates *model.BookingUpdate) error {
	if id == "" {
		return apperrors.InvalidInput("Booking ID cannot be empty")
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Booking", id)
		}
		return apperrors.Internal("Failed to check booking existence", err)
	}

	if err := s.validator.ValidateUpdate(updates); err != nil {
		s.cfg.Log.Warn("Booking update validation failed", "id", id, "error", err)
		return apperrors.Validation("Invalid update input", map[string]any{"error": err.Error()})
	}

	merged := s.mergeBookingUpdates(existing, updates)
	if err := s.repo.Update(ctx, merged); err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Booking", id)
		}
		s.cfg.Log.Error("Failed to update booking", "id", id, "error", err)
		return apperrors.Internal("Failed to update booking", err)
	}

	s.cfg.Log.Info("Booking updated successfully", "id", id)
	return nil
}

func (s *bookingService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Booking ID cannot be empty")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Booking", id)
		}
		return apperrors.Internal("Failed to delete booking", err)
	}

	s.cfg.Log.Info("Booking deleted successfully", "id", id)
	return nil
}

// charge calls the payments service behind two named breakers: one for the
// booking pipeline as a whole and one for the payment gateway. An open
// breaker is reported as an unavailable outcome, not an error, so the
// pipeline cancels the booking the same way it does for a decline.
func (s *bookingService) charge(ctx context.Context, bookingID string) (*model.PaymentOutcome, error) {
	bookingBreaker := s.breakers.Get(breaker.Settings{
		Name:             bookingBreakerName,
		FailureThreshold: s.cfg.BreakerFailureThreshold,
		MinRequests:      uint32(s.cfg.BreakerMinRequests),
		Cooldown:         s.cfg.BookingBreakerCooldown,
	})
	paymentBreaker := s.breakers.Get(breaker.Settings{
		Name:             paymentBreakerName,
		FailureThreshold: s.cfg.BreakerFailureThreshold,
		MinRequests:      uint32(s.cfg.BreakerMinRequests),
		Cooldown:         s.cfg.PaymentBreakerCooldown,
	})

	result, err := bookingBreaker.Execute(func() (any, error) {
		return paymentBreaker.Execute(func() (any, error) {
			return s.payments.MakePayment(ctx, bookingID)
		})
	})
	if err != nil {
		if breaker.IsOpen(err) {
			s.cfg.Log.Warn("Payment short-circuited by open breaker", "booking_id", bookingID)
			return &model.PaymentOutcome{
				Status: model.PaymentDeclined,
				Reason: model.ReasonCircuitOpen,
			}, nil
		}
		s.cfg.Log.Error("Payment attempt failed", "booking_id", bookingID, "error", err)
		return &model.PaymentOutcome{
			Status: model.PaymentDeclined,
			Reason: model.ReasonUnavailable,
		}, nil
	}

	outcome, ok := result.(*model.PaymentOutcome)
	if !ok {
		return nil, apperrors.Internal("Unexpected payment outcome type", nil)
	}
	return outcome, nil
}

// resolveSlot checks the slot is open and copies its landlord and price
// onto the booking, so the charged price is the slot's price at booking
// time.
func (s *bookingService) resolveSlot(ctx context.Context, booking *model.Booking) error {
	if booking.ParkingSlotID == "" {
		return apperrors.InvalidInput("Parking slot ID is required")
	}

	slot, err := s.slots.GetByID(ctx, booking.ParkingSlotID)
	if err != nil {
		if apperrors.HasCode(err, apperrors.CodeNotFound) {
			return apperrors.NotFoundWithID("Parking slot", booking.ParkingSlotID)
		}
		s.cfg.Log.Error("Failed to fetch parking slot", "parking_slot_id", booking.ParkingSlotID, "error", err)
		return apperrors.UnavailableWrap("parking", err)
	}

	if slot.Status != model.SlotOpen {
		return apperrors.Conflict("Parking slot is not open for booking")
	}

	booking.LandlordID = slot.LandlordID
	booking.PricePerHour = slot.PricePerHour
	return nil
}

func (s *bookingService) verifyCustomer(ctx context.Context, customerID string) error {
	if customerID == "" {
		return apperrors.InvalidInput("Customer ID is required")
	}

	if _, err := s.users.GetByID(ctx, customerID); err != nil {
		if apperrors.HasCode(err, apperrors.CodeNotFound) {
			return apperrors.InvalidInput("Customer does not exist")
		}
		s.cfg.Log.Error("Failed to verify customer", "customer_id", customerID, "error", err)
		return apperrors.UnavailableWrap("users", err)
	}
	return nil
}

func (s *bookingService) publishCompleted(booking *model.Booking) {
	if s.publisher == nil {
		return
	}

	// Fire and forget: a lost event must not fail a booking the customer
	// already paid for.
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.HTTPClientTimeout)
	defer cancel()

	err := s.publisher.PublishBookingCompleted(ctx, events.BookingCompleted{
		BookingID:     booking.ID,
		CustomerID:    booking.CustomerID,
		LandlordID:    booking.LandlordID,
		ParkingSlotID: booking.ParkingSlotID,
		PricePerHour:  booking.PricePerHour,
		TimeFrom:      booking.TimeFrom,
		TimeUntil:     booking.TimeUntil,
	})
	if err != nil {
		s.cfg.Log.Error("Failed to publish booking completion event",
			"booking_id", booking.ID,
			"error", err,
		)
	}
}

func (s *bookingService) applyDefaults(booking *model.Booking) {
	if booking.ID == "" {
		booking.ID = uuid.NewString()
	}
	if booking.Status == "" {
		booking.Status = model.BookingPending
	}
}

func (s *bookingService) mergeBookingUpdates(existing *model.Booking, updates *model.BookingUpdate) *model.Booking {
	merged := *existing

	if updates.CustomerID != "" {
		merged.CustomerID = updates.CustomerID
	}
	if updates.LandlordID != "" {
		merged.LandlordID = updates.LandlordID
	}
	if updates.ParkingSlotID != "" {
		merged.ParkingSlotID = updates.ParkingSlotID
	}
	if updates.PricePerHour != "" {
		merged.PricePerHour = updates.PricePerHour
	}
	if updates.TimeFrom != nil {
		merged.TimeFrom = *updates.TimeFrom
	}
	if updates.TimeUntil != nil {
		merged.TimeUntil = *updates.TimeUntil
	}
	if updates.Status != "" {
		merged.Status = updates.Status
	}

	return &merged
}
