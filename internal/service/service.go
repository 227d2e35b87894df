// Package service provides business logic for the application.
package service

import (
	"context"
	"errors"

	"github.com/easydelivery/easydelivery/internal/model"
	"github.com/easydelivery/easydelivery/internal/payment"
	"github.com/easydelivery/easydelivery/internal/repository"
)

// Service errors.
var (
	ErrUserExists       = errors.New("user already exists")
	ErrParcelNotFound   = errors.New("parcel not found")
	ErrInvalidParcelID  = errors.New("invalid parcel id")
	ErrInvalidCreatedAt = model.ErrInvalidCreatedAt
	ErrInvalidAmount    = errors.New("amountInCents must be a positive integer")
)

// UserStore persists users.
type UserStore interface {
	FindUserByEmail(ctx context.Context, email string) (model.Document, error)
	InsertUser(ctx context.Context, user model.Document) (string, error)
}

// ParcelStore persists parcels.
type ParcelStore interface {
	InsertParcel(ctx context.Context, parcel model.Document) (string, error)
	FindParcels(ctx context.Context, filter repository.ParcelFilter) ([]model.Document, error)
	FindParcelByID(ctx context.Context, id string) (model.Document, error)
}

// Store is the full document store the application runs on.
type Store interface {
	UserStore
	ParcelStore
	Ping(ctx context.Context) error
}

// PaymentProcessor creates payment intents with the external processor.
type PaymentProcessor interface {
	CreatePaymentIntent(ctx context.Context, params payment.IntentParams) (*payment.Intent, error)
}
