package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/easydelivery/easydelivery/internal/handler/dto"
	"github.com/easydelivery/easydelivery/internal/service"
)

// ParcelHandler handles HTTP requests for parcels.
type ParcelHandler struct {
	svc    *service.ParcelService
	logger *slog.Logger
}

// NewParcelHandler creates a new ParcelHandler.
func NewParcelHandler(svc *service.ParcelService, logger *slog.Logger) *ParcelHandler {
	return &ParcelHandler{svc: svc, logger: logger}
}

// Create handles POST /parcels.
func (h *ParcelHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateParcelRequest
	parcel, err := dto.DecodeDocument(r.Body, &req)
	if err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}

	res, err := h.svc.CreateParcel(r.Context(), parcel)
	if err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}

	h.logger.Info("parcel_created", "parcel_id", res.InsertedID)

	writeJSON(w, http.StatusCreated, res)
}

// List handles GET /parcels[?email=].
func (h *ParcelHandler) List(w http.ResponseWriter, r *http.Request) {
	parcels, err := h.svc.ListParcels(r.Context(), service.ListParcelsInput{
		Email: r.URL.Query().Get("email"),
	})
	if err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, parcels)
}

// Get handles GET /parcels/{id}.
func (h *ParcelHandler) Get(w http.ResponseWriter, r *http.Request) {
	parcel, err := h.svc.GetParcel(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, parcel)
}
