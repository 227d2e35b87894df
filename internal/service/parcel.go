package service

import (
	"context"
	"errors"

	"github.com/easydelivery/easydelivery/internal/metrics"
	"github.com/easydelivery/easydelivery/internal/model"
	"github.com/easydelivery/easydelivery/internal/repository"
)

// ParcelService handles parcel records.
type ParcelService struct {
	store   ParcelStore
	metrics metrics.Recorder
}

// NewParcelService creates a new ParcelService.
func NewParcelService(store ParcelStore, recorder metrics.Recorder) *ParcelService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &ParcelService{
		store:   store,
		metrics: recorder,
	}
}

// CreateParcel stores a parcel as submitted, minus any client-supplied _id.
// A non-null createdAt must be an RFC 3339 timestamp.
func (s *ParcelService) CreateParcel(ctx context.Context, parcel model.Document) (*model.InsertResult, error) {
	doc := parcel.Without(model.FieldID)

	if raw, ok := doc[model.FieldCreatedAt]; ok && raw != nil {
		if err := model.CheckCreatedAt(raw); err != nil {
			return nil, ErrInvalidCreatedAt
		}
	}

	id, err := s.store.InsertParcel(ctx, doc)
	if err != nil {
		return nil, err
	}

	s.metrics.IncParcelCreated()

	return model.NewInsertResult(id), nil
}

// ListParcelsInput defines input for listing parcels.
type ListParcelsInput struct {
	// Email restricts the listing to parcels created by this user. Empty lists all.
	Email string
}

// ListParcels returns parcels newest first.
func (s *ParcelService) ListParcels(ctx context.Context, input ListParcelsInput) ([]model.Document, error) {
	return s.store.FindParcels(ctx, repository.ParcelFilter{CreatedBy: input.Email})
}

// GetParcel retrieves a parcel by identifier.
func (s *ParcelService) GetParcel(ctx context.Context, id string) (model.Document, error) {
	parcel, err := s.store.FindParcelByID(ctx, id)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrInvalidID):
			s.metrics.IncParcelLookup(metrics.LookupInvalid)
			return nil, ErrInvalidParcelID
		case errors.Is(err, repository.ErrNotFound):
			s.metrics.IncParcelLookup(metrics.LookupNotFound)
			return nil, ErrParcelNotFound
		}
		return nil, err
	}

	s.metrics.IncParcelLookup(metrics.LookupFound)

	return parcel, nil
}
