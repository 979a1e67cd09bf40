package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"parkade/internal/payments/service"
	httputil "parkade/pkg/http"
	"parkade/pkg/logger"
	"parkade/pkg/model"
)

type PaymentHandler struct {
	service service.PaymentService
	log     *logger.Logger
}

func NewPaymentHandler(service service.PaymentService, log *logger.Logger) *PaymentHandler {
	return &PaymentHandler{
		service: service,
		log:     log,
	}
}

func (h *PaymentHandler) MakePayment(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.PaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "MakePayment", "error", writeErr)
		}
		return
	}

	outcome, err := h.service.MakePayment(r.Context(), req.BookingID)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "MakePayment", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, outcome); err != nil {
		h.log.Error("failed to write success response", "handler", "MakePayment", "error", err)
	}
}

func (h *PaymentHandler) Refund(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.RefundRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Refund", "error", writeErr)
		}
		return
	}

	if err := h.service.Refund(r.Context(), req.BookingID); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Refund", "error", writeErr)
		}
		return
	}

	httputil.WriteNoContent(w)
}

func (h *PaymentHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	payment, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetByID", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, payment); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "error", err)
	}
}

func (h *PaymentHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if bookingID := r.URL.Query().Get("booking_id"); bookingID != "" {
		payments, err := h.service.GetByBookingID(r.Context(), bookingID)
		if err != nil {
			if writeErr := httputil.WriteError(w, err); writeErr != nil {
				h.log.Error("failed to write error response", "handler", "GetAll", "error", writeErr)
			}
			return
		}
		if err := httputil.WriteSuccess(w, payments); err != nil {
			h.log.Error("failed to write success response", "handler", "GetAll", "error", err)
		}
		return
	}

	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetAll", "error", writeErr)
		}
		return
	}

	payments, total, err := h.service.GetAll(r.Context(), limit, offset)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetAll", "error", writeErr)
		}
		return
	}

	if err := httputil.WritePaginated(w, payments, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "GetAll", "error", err)
	}
}

func (h *PaymentHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/make-payment", h.MakePayment)
	router.POST("/api/v1/refunds", h.Refund)
	router.GET("/api/v1/payments", h.GetAll)
	router.GET("/api/v1/payments/:id", h.GetByID)
}
