package service

import (
	"context"
	"testing"
	"time"

	"parkade/pkg/config"
	apperrors "parkade/pkg/errors"
	"parkade/pkg/logger"
	"parkade/pkg/model"
)

type mockGeocoder struct {
	geocodeFunc func(ctx context.Context, address string) (*model.Coordinates, error)
	calls       int
}

func (m *mockGeocoder) Geocode(ctx context.Context, address string) (*model.Coordinates, error) {
	m.calls++
	if m.geocodeFunc != nil {
		return m.geocodeFunc(ctx, address)
	}
	return &model.Coordinates{Latitude: 47.4979, Longitude: 19.0402}, nil
}

func newTestService(geocoder *mockGeocoder, ttl time.Duration) LocationService {
	cfg := &config.Config{
		Log: logger.New(logger.Config{
			Level:   "error",
			Format:  logger.JSON,
			Service: "test",
		}),
		GeocodeCacheTTL: ttl,
	}
	return NewLocationService(geocoder, cfg)
}

func TestLookup_ResolvesAddress(t *testing.T) {
	geocoder := &mockGeocoder{}
	svc := newTestService(geocoder, time.Minute)

	result, err := svc.Lookup(context.Background(), "Deák Ferenc tér 1, Budapest")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Coordinates.Latitude != 47.4979 || result.Coordinates.Longitude != 19.0402 {
		t.Errorf("unexpected coordinates: %+v", result.Coordinates)
	}
}

func TestLookup_CachesNormalizedAddress(t *testing.T) {
	geocoder := &mockGeocoder{}
	svc := newTestService(geocoder, time.Minute)

	addresses := []string{
		"Main St 1, Springfield",
		"  main st 1,   springfield ",
		"MAIN ST 1, SPRINGFIELD",
	}
	for _, address := range addresses {
		if _, err := svc.Lookup(context.Background(), address); err != nil {
			t.Fatalf("lookup %q: unexpected error: %v", address, err)
		}
	}

	if geocoder.calls != 1 {
		t.Errorf("expected one upstream call for equivalent addresses, got %d", geocoder.calls)
	}
}

func TestLookup_ExpiredEntryRefetches(t *testing.T) {
	geocoder := &mockGeocoder{}
	svc := newTestService(geocoder, 10*time.Millisecond)

	if _, err := svc.Lookup(context.Background(), "Main St 1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	time.Sleep(20 * time.Millisecond)
	if _, err := svc.Lookup(context.Background(), "Main St 1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if geocoder.calls != 2 {
		t.Errorf("expected a second upstream call after expiry, got %d", geocoder.calls)
	}
}

func TestLookup_EmptyAddress(t *testing.T) {
	svc := newTestService(&mockGeocoder{}, time.Minute)

	_, err := svc.Lookup(context.Background(), "   ")
	if !apperrors.HasCode(err, apperrors.CodeInvalidInput) {
		t.Errorf("expected INVALID_INPUT, got %v", err)
	}
}

func TestLookup_UpstreamDown(t *testing.T) {
	geocoder := &mockGeocoder{
		geocodeFunc: func(ctx context.Context, address string) (*model.Coordinates, error) {
			return nil, apperrors.Unavailable("geocoder")
		},
	}
	svc := newTestService(geocoder, time.Minute)

	_, err := svc.Lookup(context.Background(), "Main St 1")
	if !apperrors.HasCode(err, apperrors.CodeUnavailable) {
		t.Errorf("expected SERVICE_UNAVAILABLE, got %v", err)
	}
}

func TestLookup_UnknownAddress(t *testing.T) {
	geocoder := &mockGeocoder{
		geocodeFunc: func(ctx context.Context, address string) (*model.Coordinates, error) {
			return nil, apperrors.NotFound("Address")
		},
	}
	svc := newTestService(geocoder, time.Minute)

	_, err := svc.Lookup(context.Background(), "Nowhere 0")
	if !apperrors.HasCode(err, apperrors.CodeNotFound) {
		t.Errorf("expected NOT_FOUND, got %v", err)
	}
}
