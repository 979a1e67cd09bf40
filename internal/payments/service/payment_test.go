package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"parkade/pkg/config"
	apperrors "parkade/pkg/errors"
	"parkade/pkg/logger"
	"parkade/pkg/model"
)

type mockPaymentRepository struct {
	createFunc          func(ctx context.Context, payment *model.Payment) error
	findByBookingIDFunc func(ctx context.Context, bookingID string) ([]*model.Payment, error)
	created             []*model.Payment
}

func (m *mockPaymentRepository) Create(ctx context.Context, payment *model.Payment) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, payment)
	}
	m.created = append(m.created, payment)
	return nil
}

func (m *mockPaymentRepository) FindByID(ctx context.Context, id string) (*model.Payment, error) {
	return nil, nil
}

func (m *mockPaymentRepository) FindByBookingID(ctx context.Context, bookingID string) ([]*model.Payment, error) {
	if m.findByBookingIDFunc != nil {
		return m.findByBookingIDFunc(ctx, bookingID)
	}
	return []*model.Payment{}, nil
}

func (m *mockPaymentRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Payment, error) {
	return []*model.Payment{}, nil
}

func (m *mockPaymentRepository) Count(ctx context.Context) (int64, error) {
	return 0, nil
}

type mockBookingFetcher struct {
	getByIDFunc func(ctx context.Context, id string) (*model.Booking, error)
}

func (m *mockBookingFetcher) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	return m.getByIDFunc(ctx, id)
}

type mockUserGateway struct {
	getBalanceFunc func(ctx context.Context, id string) (decimal.Decimal, error)
	transferFunc   func(ctx context.Context, transfer model.Transfer) error
	transfers      []model.Transfer
}

func (m *mockUserGateway) GetBalance(ctx context.Context, id string) (decimal.Decimal, error) {
	if m.getBalanceFunc != nil {
		return m.getBalanceFunc(ctx, id)
	}
	return decimal.Zero, nil
}

func (m *mockUserGateway) Transfer(ctx context.Context, transfer model.Transfer) error {
	m.transfers = append(m.transfers, transfer)
	if m.transferFunc != nil {
		return m.transferFunc(ctx, transfer)
	}
	return nil
}

const (
	testBookingID  = "0b6cf2a4-7c50-4d7e-9a3b-64d1f0b0c2aa"
	testCustomerID = "5b4f1a1e-8d9c-4f3a-9d2e-1a2b3c4d5e6f"
	testLandlordID = "9c8b7a6d-5e4f-4a3b-8c2d-1e0f9a8b7c6d"
)

func threeHourBooking(pricePerHour string) *model.Booking {
	from := time.Date(2026, 9, 2, 9, 0, 0, 0, time.UTC)
	return &model.Booking{
		ID:            testBookingID,
		CustomerID:    testCustomerID,
		LandlordID:    testLandlordID,
		ParkingSlotID: "c3a1b2d4-1111-4222-8333-944455566677",
		PricePerHour:  pricePerHour,
		TimeFrom:      from,
		TimeUntil:     from.Add(3 * time.Hour),
		Status:        model.BookingPending,
	}
}

func newTestService(repo *mockPaymentRepository, bookings *mockBookingFetcher, users *mockUserGateway) *paymentService {
	log := logger.New(logger.Config{
		Level:   "error",
		Format:  logger.JSON,
		Service: "test",
	})

	return &paymentService{
		repo:     repo,
		bookings: bookings,
		users:    users,
		cfg:      &config.Config{Log: log},
	}
}

func TestMakePayment_CompletedWhenBalanceCovers(t *testing.T) {
	repo := &mockPaymentRepository{}
	bookings := &mockBookingFetcher{
		getByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
			return threeHourBooking("10"), nil
		},
	}
	users := &mockUserGateway{
		getBalanceFunc: func(ctx context.Context, id string) (decimal.Decimal, error) {
			return decimal.NewFromInt(50), nil
		},
	}
	svc := newTestService(repo, bookings, users)

	outcome, err := svc.MakePayment(context.Background(), testBookingID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome.Status != model.PaymentCompleted {
		t.Errorf("expected COMPLETED, got %s (reason %q)", outcome.Status, outcome.Reason)
	}

	if len(users.transfers) != 1 {
		t.Fatalf("expected exactly one transfer, got %d", len(users.transfers))
	}
	transfer := users.transfers[0]
	if !transfer.Amount.Equal(decimal.NewFromInt(30)) {
		t.Errorf("expected transfer of 30 (10/h for 3h), got %s", transfer.Amount)
	}
	if transfer.PayerID != testCustomerID || transfer.ReceiverID != testLandlordID {
		t.Errorf("transfer direction wrong: payer %s receiver %s", transfer.PayerID, transfer.ReceiverID)
	}

	if len(repo.created) != 1 {
		t.Fatalf("expected one ledger row, got %d", len(repo.created))
	}
	row := repo.created[0]
	if row.Status != model.PaymentCompleted {
		t.Errorf("expected COMPLETED ledger row, got %s", row.Status)
	}
	if !row.Amount.Equal(decimal.NewFromInt(30)) {
		t.Errorf("expected ledger amount 30, got %s", row.Amount)
	}
}

func TestMakePayment_DeclinedStillWritesLedgerRow(t *testing.T) {
	repo := &mockPaymentRepository{}
	bookings := &mockBookingFetcher{
		getByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
			return threeHourBooking("10"), nil
		},
	}
	users := &mockUserGateway{
		getBalanceFunc: func(ctx context.Context, id string) (decimal.Decimal, error) {
			return decimal.NewFromInt(5), nil
		},
	}
	svc := newTestService(repo, bookings, users)

	outcome, err := svc.MakePayment(context.Background(), testBookingID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome.Status != model.PaymentDeclined {
		t.Errorf("expected DECLINED, got %s", outcome.Status)
	}
	if outcome.Reason != model.ReasonInsufficientFunds {
		t.Errorf("expected insufficient_funds reason, got %q", outcome.Reason)
	}

	if len(users.transfers) != 0 {
		t.Errorf("no transfer must happen on decline, got %d", len(users.transfers))
	}

	if len(repo.created) != 1 {
		t.Fatalf("declined attempts must still be recorded, got %d rows", len(repo.created))
	}
	row := repo.created[0]
	if row.Status != model.PaymentDeclined {
		t.Errorf("expected DECLINED ledger row, got %s", row.Status)
	}
	if !row.Amount.Equal(decimal.NewFromInt(30)) {
		t.Errorf("declined row must carry the attempted amount 30, got %s", row.Amount)
	}
}

func TestMakePayment_TruncatesPartialHours(t *testing.T) {
	repo := &mockPaymentRepository{}
	booking := threeHourBooking("10")
	booking.TimeUntil = booking.TimeFrom.Add(2*time.Hour + 45*time.Minute)

	bookings := &mockBookingFetcher{
		getByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
			return booking, nil
		},
	}
	users := &mockUserGateway{
		getBalanceFunc: func(ctx context.Context, id string) (decimal.Decimal, error) {
			return decimal.NewFromInt(100), nil
		},
	}
	svc := newTestService(repo, bookings, users)

	if _, err := svc.MakePayment(context.Background(), testBookingID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(users.transfers) != 1 {
		t.Fatal("expected one transfer")
	}
	if !users.transfers[0].Amount.Equal(decimal.NewFromInt(20)) {
		t.Errorf("2h45m at 10/h must bill 2 whole hours = 20, got %s", users.transfers[0].Amount)
	}
}

func TestMakePayment_RaceDeclineOnTransfer(t *testing.T) {
	repo := &mockPaymentRepository{}
	bookings := &mockBookingFetcher{
		getByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
			return threeHourBooking("10"), nil
		},
	}
	users := &mockUserGateway{
		getBalanceFunc: func(ctx context.Context, id string) (decimal.Decimal, error) {
			return decimal.NewFromInt(50), nil
		},
		transferFunc: func(ctx context.Context, transfer model.Transfer) error {
			return apperrors.InsufficientFunds("balance drained concurrently")
		},
	}
	svc := newTestService(repo, bookings, users)

	outcome, err := svc.MakePayment(context.Background(), testBookingID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome.Status != model.PaymentDeclined {
		t.Errorf("transfer-level insufficiency must decline, got %s", outcome.Status)
	}
	if len(repo.created) != 1 || repo.created[0].Status != model.PaymentDeclined {
		t.Error("expected a DECLINED ledger row for the raced attempt")
	}
}

func TestMakePayment_BookingNotFound(t *testing.T) {
	bookings := &mockBookingFetcher{
		getByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
			return nil, apperrors.NotFoundWithID("Booking", id)
		},
	}
	svc := newTestService(&mockPaymentRepository{}, bookings, &mockUserGateway{})

	_, err := svc.MakePayment(context.Background(), testBookingID)
	if !apperrors.HasCode(err, apperrors.CodeNotFound) {
		t.Errorf("expected NOT_FOUND, got %v", err)
	}
}

func TestRefund_ReversesCompletedPayment(t *testing.T) {
	completed := &model.Payment{
		ID:         "11111111-2222-4333-8444-555566667777",
		PayerID:    testCustomerID,
		ReceiverID: testLandlordID,
		BookingID:  testBookingID,
		Amount:     decimal.NewFromInt(30),
		Status:     model.PaymentCompleted,
	}
	repo := &mockPaymentRepository{
		findByBookingIDFunc: func(ctx context.Context, bookingID string) ([]*model.Payment, error) {
			return []*model.Payment{completed}, nil
		},
	}
	users := &mockUserGateway{}
	svc := newTestService(repo, &mockBookingFetcher{}, users)

	if err := svc.Refund(context.Background(), testBookingID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(users.transfers) != 1 {
		t.Fatal("expected one reversing transfer")
	}
	reverse := users.transfers[0]
	if reverse.PayerID != testLandlordID || reverse.ReceiverID != testCustomerID {
		t.Error("refund must reverse the original transfer direction")
	}
	if !reverse.Amount.Equal(decimal.NewFromInt(30)) {
		t.Errorf("refund amount must match, got %s", reverse.Amount)
	}

	if len(repo.created) != 1 || repo.created[0].Status != model.PaymentRefunded {
		t.Error("expected a REFUNDED ledger row")
	}
}

func TestRefund_AlreadyRefunded(t *testing.T) {
	repo := &mockPaymentRepository{
		findByBookingIDFunc: func(ctx context.Context, bookingID string) ([]*model.Payment, error) {
			return []*model.Payment{
				{BookingID: bookingID, Status: model.PaymentCompleted, Amount: decimal.NewFromInt(30)},
				{BookingID: bookingID, Status: model.PaymentRefunded, Amount: decimal.NewFromInt(30)},
			}, nil
		},
	}
	svc := newTestService(repo, &mockBookingFetcher{}, &mockUserGateway{})

	err := svc.Refund(context.Background(), testBookingID)
	if !apperrors.HasCode(err, apperrors.CodeConflict) {
		t.Errorf("expected CONFLICT, got %v", err)
	}
}

func TestRefund_NoCompletedPayment(t *testing.T) {
	repo := &mockPaymentRepository{
		findByBookingIDFunc: func(ctx context.Context, bookingID string) ([]*model.Payment, error) {
			return []*model.Payment{
				{BookingID: bookingID, Status: model.PaymentDeclined, Amount: decimal.NewFromInt(30)},
			}, nil
		},
	}
	svc := newTestService(repo, &mockBookingFetcher{}, &mockUserGateway{})

	err := svc.Refund(context.Background(), testBookingID)
	if !apperrors.HasCode(err, apperrors.CodeNotFound) {
		t.Errorf("expected NOT_FOUND, got %v", err)
	}
}
