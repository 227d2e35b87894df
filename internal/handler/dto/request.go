// Package dto provides Data Transfer Objects for API requests and responses.
package dto

// CreateUserRequest is the validated view of a user registration body.
// Fields other than email are stored without interpretation.
type CreateUserRequest struct {
	Email string `json:"email" validate:"required,max=254,email"`
}

// CreateParcelRequest is the validated view of a parcel body.
// Fields other than these are stored without interpretation.
type CreateParcelRequest struct {
	CreatedBy string `json:"created_by" validate:"required,max=254,email"`
	CreatedAt string `json:"createdAt" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
}

// CreatePaymentIntentRequest is the body of a payment intent request.
// The upper bound is the processor's maximum charge for USD.
type CreatePaymentIntentRequest struct {
	AmountInCents *int64 `json:"amountInCents" validate:"required,gt=0,lte=99999999"`
}
