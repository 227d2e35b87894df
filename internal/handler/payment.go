package handler

import (
	"log/slog"
	"net/http"

	"github.com/easydelivery/easydelivery/internal/handler/dto"
	"github.com/easydelivery/easydelivery/internal/service"
)

// PaymentHandler handles payment intent requests.
type PaymentHandler struct {
	svc    *service.PaymentService
	logger *slog.Logger
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(svc *service.PaymentService, logger *slog.Logger) *PaymentHandler {
	return &PaymentHandler{svc: svc, logger: logger}
}

// CreateIntent handles POST /create-payment-intent.
func (h *PaymentHandler) CreateIntent(w http.ResponseWriter, r *http.Request) {
	var req dto.CreatePaymentIntentRequest
	if err := dto.Decode(r.Body, &req); err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}

	secret, err := h.svc.CreatePaymentIntent(r.Context(), *req.AmountInCents)
	if err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.PaymentIntentResponse{ClientSecret: secret})
}
