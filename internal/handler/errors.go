package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/easydelivery/easydelivery/internal/handler/dto"
	"github.com/easydelivery/easydelivery/internal/middleware"
	"github.com/easydelivery/easydelivery/internal/payment"
	"github.com/easydelivery/easydelivery/internal/service"
)

// Client-facing messages for known failures.
const (
	msgUserExists     = "User already exist"
	msgParcelNotFound = "Parcel not found"
)

// handleServiceError maps service errors to HTTP responses. Anything not
// recognized is a 500 carrying the error's own message.
func handleServiceError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	var (
		validationErr *dto.ValidationError
		paymentErr    *payment.Error
	)

	switch {
	case errors.Is(err, service.ErrUserExists):
		writeError(w, http.StatusForbidden, msgUserExists)
	case errors.Is(err, service.ErrParcelNotFound):
		writeError(w, http.StatusNotFound, msgParcelNotFound)
	case errors.Is(err, service.ErrInvalidParcelID):
		// Lookups by a malformed id are server errors, like any other
		// failed lookup.
		logger.Warn("invalid_parcel_id",
			"request_id", middleware.GetRequestID(r.Context()),
		)
		writeError(w, http.StatusInternalServerError, err.Error())
	case errors.As(err, &validationErr):
		writeError(w, http.StatusBadRequest, validationErr.Message)
	case errors.Is(err, service.ErrInvalidCreatedAt), errors.Is(err, service.ErrInvalidAmount):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &paymentErr):
		logger.Error("payment_failed",
			"request_id", middleware.GetRequestID(r.Context()),
			"stripe_request_id", paymentErr.RequestID,
			"status", paymentErr.StatusCode,
			"type", paymentErr.Type,
			"code", paymentErr.Code,
		)
		writeError(w, http.StatusInternalServerError, paymentErr.Error())
	default:
		logger.Error("internal_error",
			"request_id", middleware.GetRequestID(r.Context()),
			"error", err,
		)
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
