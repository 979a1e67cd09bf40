package service

import (
	"context"

	"parkade/pkg/config"
	apperrors "parkade/pkg/errors"
	"parkade/pkg/model"
	"parkade/pkg/sanitizer"
)

type geocodeSource interface {
	Geocode(ctx context.Context, address string) (*model.Coordinates, error)
}

type LocationService interface {
	Lookup(ctx context.Context, address string) (*model.GeocodeResult, error)
}

type locationService struct {
	geocoder geocodeSource
	cache    *geocodeCache
	cfg      *config.Config
}

func NewLocationService(geocoder geocodeSource, cfg *config.Config) LocationService {
	return &locationService{
		geocoder: geocoder,
		cache:    newGeocodeCache(cfg.GeocodeCacheTTL),
		cfg:      cfg,
	}
}

// Lookup resolves a free-form address to coordinates. Addresses are
// normalized before caching so "  Main St 1 " and "main st 1" share an
// entry.
func (s *locationService) Lookup(ctx context.Context, address string) (*model.GeocodeResult, error) {
	normalized := sanitizer.NormalizeAddress(address)
	if normalized == "" {
		return nil, apperrors.InvalidInput("Address cannot be empty")
	}

	if coordinates, found := s.cache.Get(normalized); found {
		s.cfg.Log.Debug("Geocode cache hit", "address", normalized)
		return &model.GeocodeResult{
			Address:     normalized,
			Coordinates: coordinates,
		}, nil
	}

	coordinates, err := s.geocoder.Geocode(ctx, normalized)
	if err != nil {
		if apperrors.IsAppError(err) {
			return nil, err
		}
		s.cfg.Log.Error("Geocoding failed", "address", normalized, "error", err)
		return nil, apperrors.UnavailableWrap("geocoder", err)
	}

	s.cache.Set(normalized, *coordinates)
	s.cfg.Log.Info("Address geocoded",
		"address", normalized,
		"latitude", coordinates.Latitude,
		"longitude", coordinates.Longitude,
	)

	return &model.GeocodeResult{
		Address:     normalized,
		Coordinates: *coordinates,
	}, nil
}
