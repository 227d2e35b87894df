package handler

import (
	"log/slog"
	"net/http"

	"github.com/easydelivery/easydelivery/internal/handler/dto"
	"github.com/easydelivery/easydelivery/internal/service"
)

// UserHandler handles HTTP requests for users.
type UserHandler struct {
	svc    *service.UserService
	logger *slog.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(svc *service.UserService, logger *slog.Logger) *UserHandler {
	return &UserHandler{svc: svc, logger: logger}
}

// Create handles POST /users.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateUserRequest
	user, err := dto.DecodeDocument(r.Body, &req)
	if err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}

	res, err := h.svc.CreateUser(r.Context(), user)
	if err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}

	h.logger.Info("user_created", "user_id", res.InsertedID)

	writeJSON(w, http.StatusCreated, res)
}
