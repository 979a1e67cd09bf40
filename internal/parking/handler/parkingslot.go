package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"parkade/internal/parking/service"
	httputil "parkade/pkg/http"
	"parkade/pkg/logger"
	"parkade/pkg/model"
)

type ParkingSlotHandler struct {
	service service.ParkingSlotService
	log     *logger.Logger
}

func NewParkingSlotHandler(service service.ParkingSlotService, log *logger.Logger) *ParkingSlotHandler {
	return &ParkingSlotHandler{
		service: service,
		log:     log,
	}
}

func (h *ParkingSlotHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var slot model.ParkingSlot
	if err := json.NewDecoder(r.Body).Decode(&slot); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Create", "error", writeErr)
		}
		return
	}

	if err := h.service.Create(r.Context(), &slot); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Create", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, slot); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "error", err)
	}
}

func (h *ParkingSlotHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	slot, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetByID", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, slot); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "error", err)
	}
}

func (h *ParkingSlotHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetAll", "error", writeErr)
		}
		return
	}

	if status := r.URL.Query().Get("status"); status != "" {
		slots, total, err := h.service.GetByStatus(r.Context(), model.SlotStatus(status), limit, offset)
		if err != nil {
			if writeErr := httputil.WriteError(w, err); writeErr != nil {
				h.log.Error("failed to write error response", "handler", "GetAll", "error", writeErr)
			}
			return
		}
		if err := httputil.WritePaginated(w, slots, total, limit, offset); err != nil {
			h.log.Error("failed to write paginated response", "handler", "GetAll", "error", err)
		}
		return
	}

	slots, total, err := h.service.GetAll(r.Context(), limit, offset)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetAll", "error", writeErr)
		}
		return
	}

	if err := httputil.WritePaginated(w, slots, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "GetAll", "error", err)
	}
}

func (h *ParkingSlotHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var updates model.ParkingSlotUpdate
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Update", "error", writeErr)
		}
		return
	}

	if err := h.service.Update(r.Context(), ps.ByName("id"), &updates); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Update", "error", writeErr)
		}
		return
	}

	httputil.WriteNoContent(w)
}

func (h *ParkingSlotHandler) UpdateStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var update model.SlotStatusUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "UpdateStatus", "error", writeErr)
		}
		return
	}

	if err := h.service.UpdateStatus(r.Context(), ps.ByName("id"), update.Status); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "UpdateStatus", "error", writeErr)
		}
		return
	}

	httputil.WriteNoContent(w)
}

func (h *ParkingSlotHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.Delete(r.Context(), ps.ByName("id")); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Delete", "error", writeErr)
		}
		return
	}

	httputil.WriteNoContent(w)
}

func (h *ParkingSlotHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/parking-slots", h.Create)
	router.GET("/api/v1/parking-slots", h.GetAll)
	router.GET("/api/v1/parking-slots/:id", h.GetByID)
	router.PATCH("/api/v1/parking-slots/:id", h.Update)
	router.PUT("/api/v1/parking-slots/:id/status", h.UpdateStatus)
	router.DELETE("/api/v1/parking-slots/:id", h.Delete)
}
