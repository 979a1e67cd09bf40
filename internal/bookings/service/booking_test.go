package service

import (
	"context"
	"errors"
	"testing"
	"time"

	bookingvalidator "parkade/internal/bookings/validator"
	"parkade/pkg/breaker"
	"parkade/pkg/config"
	apperrors "parkade/pkg/errors"
	"parkade/pkg/events"
	"parkade/pkg/logger"
	"parkade/pkg/model"
)

const (
	testCustomerID = "5b4f1a1e-8d9c-4f3a-9d2e-1a2b3c4d5e6f"
	testLandlordID = "9c8b7a6d-5e4f-4a3b-8c2d-1e0f9a8b7c6d"
	testSlotID     = "c3a1b2d4-1111-4222-8333-944455566677"
)

type mockBookingRepository struct {
	created  []*model.Booking
	statuses map[string]string
}

func newMockBookingRepository() *mockBookingRepository {
	return &mockBookingRepository{statuses: map[string]string{}}
}

func (m *mockBookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	m.created = append(m.created, booking)
	m.statuses[booking.ID] = booking.Status
	return nil
}

func (m *mockBookingRepository) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	for _, b := range m.created {
		if b.ID == id {
			return b, nil
		}
	}
	return nil, errors.New("booking not found")
}

func (m *mockBookingRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, error) {
	return m.created, nil
}

func (m *mockBookingRepository) FindByCustomerID(ctx context.Context, customerID string, limit int, offset int64) ([]*model.Booking, error) {
	return nil, nil
}

func (m *mockBookingRepository) Count(ctx context.Context) (int64, error) {
	return int64(len(m.created)), nil
}

func (m *mockBookingRepository) CountByCustomerID(ctx context.Context, customerID string) (int64, error) {
	return 0, nil
}

func (m *mockBookingRepository) Update(ctx context.Context, booking *model.Booking) error {
	return nil
}

func (m *mockBookingRepository) UpdateStatus(ctx context.Context, id string, status string) error {
	m.statuses[id] = status
	return nil
}

func (m *mockBookingRepository) Delete(ctx context.Context, id string) error {
	return nil
}

type mockSlotGateway struct {
	getByIDFunc      func(ctx context.Context, id string) (*model.ParkingSlot, error)
	updateStatusFunc func(ctx context.Context, id string, status model.SlotStatus) error
	statusUpdates    []model.SlotStatus
}

func (m *mockSlotGateway) GetByID(ctx context.Context, id string) (*model.ParkingSlot, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return &model.ParkingSlot{
		ID:           id,
		LandlordID:   testLandlordID,
		Status:       model.SlotOpen,
		PricePerHour: "10",
		Latitude:     47.4979,
		Longitude:    19.0402,
	}, nil
}

func (m *mockSlotGateway) UpdateStatus(ctx context.Context, id string, status model.SlotStatus) error {
	m.statusUpdates = append(m.statusUpdates, status)
	if m.updateStatusFunc != nil {
		return m.updateStatusFunc(ctx, id, status)
	}
	return nil
}

type mockPaymentGateway struct {
	makePaymentFunc func(ctx context.Context, bookingID string) (*model.PaymentOutcome, error)
	paymentCalls    int
	refundCalls     int
}

func (m *mockPaymentGateway) MakePayment(ctx context.Context, bookingID string) (*model.PaymentOutcome, error) {
	m.paymentCalls++
	if m.makePaymentFunc != nil {
		return m.makePaymentFunc(ctx, bookingID)
	}
	return &model.PaymentOutcome{Status: model.PaymentCompleted}, nil
}

func (m *mockPaymentGateway) Refund(ctx context.Context, bookingID string) error {
	m.refundCalls++
	return nil
}

type mockUserDirectory struct {
	getByIDFunc func(ctx context.Context, id string) (*model.User, error)
}

func (m *mockUserDirectory) GetByID(ctx context.Context, id string) (*model.User, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return &model.User{ID: id, Role: model.RoleCustomer}, nil
}

type mockPublisher struct {
	events []events.BookingCompleted
}

func (m *mockPublisher) PublishBookingCompleted(ctx context.Context, event events.BookingCompleted) error {
	m.events = append(m.events, event)
	return nil
}

func pendingBooking() *model.Booking {
	from := time.Now().Add(24 * time.Hour).Truncate(time.Hour)
	return &model.Booking{
		CustomerID:    testCustomerID,
		ParkingSlotID: testSlotID,
		TimeFrom:      from,
		TimeUntil:     from.Add(3 * time.Hour),
	}
}

func newTestBookingService(
	repo *mockBookingRepository,
	slots *mockSlotGateway,
	payments *mockPaymentGateway,
	users *mockUserDirectory,
	publisher *mockPublisher,
) *bookingService {
	log := logger.New(logger.Config{
		Level:   "error",
		Format:  logger.JSON,
		Service: "test",
	})

	cfg := &config.Config{
		Log:                     log,
		BreakerFailureThreshold: 0.5,
		BreakerMinRequests:      4,
		BookingBreakerCooldown:  time.Minute,
		PaymentBreakerCooldown:  time.Minute,
		HTTPClientTimeout:       5 * time.Second,
	}

	return &bookingService{
		repo:      repo,
		validator: bookingvalidator.NewBookingValidator(log),
		slots:     slots,
		payments:  payments,
		users:     users,
		publisher: publisher,
		breakers:  breaker.NewRegistry(log),
		cfg:       cfg,
	}
}

func TestCreate_CompletedBooking(t *testing.T) {
	repo := newMockBookingRepository()
	slots := &mockSlotGateway{}
	payments := &mockPaymentGateway{}
	publisher := &mockPublisher{}
	svc := newTestBookingService(repo, slots, payments, &mockUserDirectory{}, publisher)

	result, err := svc.Create(context.Background(), pendingBooking())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Message != model.BookingCompletedMessage {
		t.Errorf("expected %q, got %q", model.BookingCompletedMessage, result.Message)
	}
	if result.BookingID == "" {
		t.Error("expected a booking ID in the result")
	}

	if got := repo.statuses[result.BookingID]; got != model.BookingConfirmed {
		t.Errorf("expected confirmed booking, got %q", got)
	}

	if len(slots.statusUpdates) != 1 || slots.statusUpdates[0] != model.SlotClosed {
		t.Errorf("expected exactly one CLOSED status update, got %v", slots.statusUpdates)
	}

	if len(publisher.events) != 1 {
		t.Fatalf("expected exactly one event, got %d", len(publisher.events))
	}
	event := publisher.events[0]
	if event.BookingID != result.BookingID {
		t.Error("event must carry the booking ID")
	}
	if event.PricePerHour != "10" {
		t.Errorf("event must carry the slot price, got %q", event.PricePerHour)
	}
}

func TestCreate_DeclinedPaymentCancelsBooking(t *testing.T) {
	repo := newMockBookingRepository()
	slots := &mockSlotGateway{}
	payments := &mockPaymentGateway{
		makePaymentFunc: func(ctx context.Context, bookingID string) (*model.PaymentOutcome, error) {
			return &model.PaymentOutcome{
				Status: model.PaymentDeclined,
				Reason: model.ReasonInsufficientFunds,
			}, nil
		},
	}
	publisher := &mockPublisher{}
	svc := newTestBookingService(repo, slots, payments, &mockUserDirectory{}, publisher)

	result, err := svc.Create(context.Background(), pendingBooking())
	if err != nil {
		t.Fatalf("a declined payment is a result, not an error: %v", err)
	}

	if result.Message != model.PaymentRejectedMessage {
		t.Errorf("expected %q, got %q", model.PaymentRejectedMessage, result.Message)
	}

	if got := repo.statuses[result.BookingID]; got != model.BookingCancelled {
		t.Errorf("declined booking must be cancelled, got %q", got)
	}
	if len(slots.statusUpdates) != 0 {
		t.Errorf("slot must stay open on decline, got updates %v", slots.statusUpdates)
	}
	if len(publisher.events) != 0 {
		t.Error("no event must be published for a rejected booking")
	}
	if payments.refundCalls != 0 {
		t.Error("nothing to refund on a declined payment")
	}
}

func TestCreate_SlotCloseFailureRefundsPayment(t *testing.T) {
	repo := newMockBookingRepository()
	slots := &mockSlotGateway{
		updateStatusFunc: func(ctx context.Context, id string, status model.SlotStatus) error {
			if status == model.SlotClosed {
				return apperrors.Unavailable("parking")
			}
			return nil
		},
	}
	payments := &mockPaymentGateway{}
	publisher := &mockPublisher{}
	svc := newTestBookingService(repo, slots, payments, &mockUserDirectory{}, publisher)

	booking := pendingBooking()
	_, err := svc.Create(context.Background(), booking)
	if err == nil {
		t.Fatal("expected an error when the slot cannot be closed after payment")
	}

	if payments.refundCalls != 1 {
		t.Errorf("customer must be refunded when the slot close fails, got %d refunds", payments.refundCalls)
	}
	if got := repo.statuses[booking.ID]; got != model.BookingCancelled {
		t.Errorf("booking must be cancelled, got %q", got)
	}
	if len(publisher.events) != 0 {
		t.Error("no event must be published for a failed booking")
	}
}

func TestCreate_PaymentServiceDownIsRejection(t *testing.T) {
	repo := newMockBookingRepository()
	payments := &mockPaymentGateway{
		makePaymentFunc: func(ctx context.Context, bookingID string) (*model.PaymentOutcome, error) {
			return nil, apperrors.Unavailable("payments")
		},
	}
	svc := newTestBookingService(repo, &mockSlotGateway{}, payments, &mockUserDirectory{}, &mockPublisher{})

	result, err := svc.Create(context.Background(), pendingBooking())
	if err != nil {
		t.Fatalf("an unreachable payment service must reject, not error: %v", err)
	}
	if result.Message != model.PaymentRejectedMessage {
		t.Errorf("expected %q, got %q", model.PaymentRejectedMessage, result.Message)
	}
	if got := repo.statuses[result.BookingID]; got != model.BookingCancelled {
		t.Errorf("booking must be cancelled, got %q", got)
	}
}

func TestCreate_OpenBreakerSkipsPaymentCall(t *testing.T) {
	repo := newMockBookingRepository()
	payments := &mockPaymentGateway{
		makePaymentFunc: func(ctx context.Context, bookingID string) (*model.PaymentOutcome, error) {
			return nil, errors.New("connection refused")
		},
	}
	svc := newTestBookingService(repo, &mockSlotGateway{}, payments, &mockUserDirectory{}, &mockPublisher{})
	svc.cfg.BreakerMinRequests = 2

	// Two failing attempts trip the payment breaker.
	for i := 0; i < 2; i++ {
		if _, err := svc.Create(context.Background(), pendingBooking()); err != nil {
			t.Fatalf("attempt %d: unexpected error: %v", i, err)
		}
	}

	callsBefore := payments.paymentCalls
	result, err := svc.Create(context.Background(), pendingBooking())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Message != model.PaymentRejectedMessage {
		t.Errorf("expected rejection from open breaker, got %q", result.Message)
	}
	if payments.paymentCalls != callsBefore {
		t.Error("open breaker must short-circuit without calling the payment gateway")
	}
}

func TestCreate_ClosedSlotIsConflict(t *testing.T) {
	slots := &mockSlotGateway{
		getByIDFunc: func(ctx context.Context, id string) (*model.ParkingSlot, error) {
			return &model.ParkingSlot{
				ID:           id,
				LandlordID:   testLandlordID,
				Status:       model.SlotClosed,
				PricePerHour: "10",
			}, nil
		},
	}
	svc := newTestBookingService(newMockBookingRepository(), slots, &mockPaymentGateway{}, &mockUserDirectory{}, &mockPublisher{})

	_, err := svc.Create(context.Background(), pendingBooking())
	if !apperrors.HasCode(err, apperrors.CodeConflict) {
		t.Errorf("expected CONFLICT for a closed slot, got %v", err)
	}
}

func TestCreate_UnknownSlot(t *testing.T) {
	slots := &mockSlotGateway{
		getByIDFunc: func(ctx context.Context, id string) (*model.ParkingSlot, error) {
			return nil, apperrors.NotFoundWithID("Parking slot", id)
		},
	}
	svc := newTestBookingService(newMockBookingRepository(), slots, &mockPaymentGateway{}, &mockUserDirectory{}, &mockPublisher{})

	_, err := svc.Create(context.Background(), pendingBooking())
	if !apperrors.HasCode(err, apperrors.CodeNotFound) {
		t.Errorf("expected NOT_FOUND, got %v", err)
	}
}

func TestCreate_UnknownCustomer(t *testing.T) {
	users := &mockUserDirectory{
		getByIDFunc: func(ctx context.Context, id string) (*model.User, error) {
			return nil, apperrors.NotFoundWithID("User", id)
		},
	}
	svc := newTestBookingService(newMockBookingRepository(), &mockSlotGateway{}, &mockPaymentGateway{}, users, &mockPublisher{})

	_, err := svc.Create(context.Background(), pendingBooking())
	if !apperrors.HasCode(err, apperrors.CodeInvalidInput) {
		t.Errorf("expected INVALID_INPUT, got %v", err)
	}
}

func TestCreate_PastWindowFailsValidation(t *testing.T) {
	svc := newTestBookingService(newMockBookingRepository(), &mockSlotGateway{}, &mockPaymentGateway{}, &mockUserDirectory{}, &mockPublisher{})

	booking := pendingBooking()
	booking.TimeFrom = time.Now().Add(-2 * time.Hour)
	booking.TimeUntil = time.Now().Add(-1 * time.Hour)

	_, err := svc.Create(context.Background(), booking)
	if !apperrors.HasCode(err, apperrors.CodeValidation) {
		t.Errorf("expected VALIDATION_ERROR, got %v", err)
	}
}
