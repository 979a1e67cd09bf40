package handler

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"parkade/internal/locations/service"
	apperrors "parkade/pkg/errors"
	httputil "parkade/pkg/http"
	"parkade/pkg/logger"
)

type LocationHandler struct {
	service service.LocationService
	log     *logger.Logger
}

func NewLocationHandler(service service.LocationService, log *logger.Logger) *LocationHandler {
	return &LocationHandler{
		service: service,
		log:     log,
	}
}

func (h *LocationHandler) Lookup(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	address := r.URL.Query().Get("address")
	if address == "" {
		if writeErr := httputil.WriteError(w, apperrors.InvalidInput("Query parameter 'address' is required")); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Lookup", "error", writeErr)
		}
		return
	}

	result, err := h.service.Lookup(r.Context(), address)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Lookup", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, result); err != nil {
		h.log.Error("failed to write success response", "handler", "Lookup", "error", err)
	}
}

func (h *LocationHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/location", h.Lookup)
}
