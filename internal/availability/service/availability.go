package service

import (
	"context"
	"sort"

	"parkade/pkg/client"
	"parkade/pkg/config"
	apperrors "parkade/pkg/errors"
	"parkade/pkg/model"
)

// slotPageSize bounds the per-request slot fetch from the parking service.
const slotPageSize = 100

type slotSource interface {
	GetAll(ctx context.Context, status model.SlotStatus, limit int, offset int64) ([]*model.ParkingSlot, *client.Metadata, error)
}

type AvailabilityService interface {
	Search(ctx context.Context, origin model.Coordinates, radiusKm float64) ([]*model.AvailableSlot, error)
}

type availabilityService struct {
	slots slotSource
	cfg   *config.Config
}

func NewAvailabilityService(slots slotSource, cfg *config.Config) AvailabilityService {
	return &availabilityService{
		slots: slots,
		cfg:   cfg,
	}
}

// Search returns open slots within radiusKm of the origin, closest first.
// A non-positive radius falls back to the configured default.
func (s *availabilityService) Search(ctx context.Context, origin model.Coordinates, radiusKm float64) ([]*model.AvailableSlot, error) {
	if origin.Latitude < -90 || origin.Latitude > 90 {
		return nil, apperrors.InvalidInput("Latitude must be between -90 and 90")
	}
	if origin.Longitude < -180 || origin.Longitude > 180 {
		return nil, apperrors.InvalidInput("Longitude must be between -180 and 180")
	}
	if radiusKm <= 0 {
		radiusKm = s.cfg.SearchRadiusKm
	}

	slots, err := s.fetchAllSlots(ctx)
	if err != nil {
		return nil, err
	}

	available := make([]*model.AvailableSlot, 0)
	for _, slot := range slots {
		// The parking service already filters; re-check in case an older
		// deployment ignores the status parameter.
		if slot.Status != model.SlotOpen {
			continue
		}

		distance := haversineKm(origin.Latitude, origin.Longitude, slot.Latitude, slot.Longitude)
		if distance > radiusKm {
			continue
		}

		available = append(available, &model.AvailableSlot{
			SlotID:       slot.ID,
			LandlordID:   slot.LandlordID,
			PricePerHour: slot.PricePerHour,
			Latitude:     slot.Latitude,
			Longitude:    slot.Longitude,
			DistanceKm:   distance,
		})
	}

	sort.Slice(available, func(i, j int) bool {
		return available[i].DistanceKm < available[j].DistanceKm
	})

	s.cfg.Log.Info("Availability search completed",
		"latitude", origin.Latitude,
		"longitude", origin.Longitude,
		"radius_km", radiusKm,
		"matches", len(available),
	)
	return available, nil
}

func (s *availabilityService) fetchAllSlots(ctx context.Context) ([]*model.ParkingSlot, error) {
	var all []*model.ParkingSlot
	var offset int64

	for {
		page, meta, err := s.slots.GetAll(ctx, model.SlotOpen, slotPageSize, offset)
		if err != nil {
			s.cfg.Log.Error("Failed to fetch parking slots", "offset", offset, "error", err)
			if apperrors.IsAppError(err) {
				return nil, err
			}
			return nil, apperrors.UnavailableWrap("parking", err)
		}

		all = append(all, page...)
		if len(page) == 0 {
			break
		}

		offset += int64(len(page))
		if meta != nil && offset >= meta.TotalCount {
			break
		}
	}

	return all, nil
}
