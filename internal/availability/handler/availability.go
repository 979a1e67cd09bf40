package handler

import (
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"

	"parkade/internal/availability/service"
	apperrors "parkade/pkg/errors"
	httputil "parkade/pkg/http"
	"parkade/pkg/logger"
	"parkade/pkg/model"
)

type AvailabilityHandler struct {
	service service.AvailabilityService
	log     *logger.Logger
}

func NewAvailabilityHandler(service service.AvailabilityService, log *logger.Logger) *AvailabilityHandler {
	return &AvailabilityHandler{
		service: service,
		log:     log,
	}
}

func (h *AvailabilityHandler) Search(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	query := r.URL.Query()

	lat, err := parseFloatParam(query.Get("lat"), "lat")
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Search", "error", writeErr)
		}
		return
	}

	lng, err := parseFloatParam(query.Get("lng"), "lng")
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Search", "error", writeErr)
		}
		return
	}

	var radiusKm float64
	if raw := query.Get("radius_km"); raw != "" {
		radiusKm, err = parseFloatParam(raw, "radius_km")
		if err != nil {
			if writeErr := httputil.WriteError(w, err); writeErr != nil {
				h.log.Error("failed to write error response", "handler", "Search", "error", writeErr)
			}
			return
		}
	}

	origin := model.Coordinates{Latitude: lat, Longitude: lng}
	slots, err := h.service.Search(r.Context(), origin, radiusKm)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Search", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, slots); err != nil {
		h.log.Error("failed to write success response", "handler", "Search", "error", err)
	}
}

func parseFloatParam(raw, name string) (float64, error) {
	if raw == "" {
		return 0, apperrors.InvalidInput("Query parameter '" + name + "' is required")
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, apperrors.InvalidInput("Query parameter '" + name + "' must be a number")
	}
	return value, nil
}

func (h *AvailabilityHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/available-slots", h.Search)
}
