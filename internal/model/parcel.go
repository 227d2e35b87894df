package model

import (
	"errors"
	"time"
)

// Parcel fields interpreted by the service.
const (
	FieldCreatedBy = "created_by"
	FieldCreatedAt = "createdAt"
)

// CreatedAtLayout is the layout the browser client sends: fixed width, UTC,
// milliseconds. Stored values are compared as strings, so only values in this
// layout order chronologically against each other.
const CreatedAtLayout = "2006-01-02T15:04:05.000Z"

// ErrInvalidCreatedAt is returned when createdAt is not an RFC 3339 timestamp.
var ErrInvalidCreatedAt = errors.New("createdAt must be an RFC 3339 timestamp")

// FormatCreatedAt renders t in CreatedAtLayout.
func FormatCreatedAt(t time.Time) string {
	return t.UTC().Format(CreatedAtLayout)
}

// CheckCreatedAt reports whether value is an RFC 3339 timestamp string.
// The value itself is never rewritten.
func CheckCreatedAt(value any) error {
	s, ok := value.(string)
	if !ok {
		return ErrInvalidCreatedAt
	}
	if _, err := time.Parse(time.RFC3339Nano, s); err != nil {
		return ErrInvalidCreatedAt
	}
	return nil
}

// ParcelOwner returns the email of the user who created the parcel.
func ParcelOwner(parcel Document) string {
	return parcel.String(FieldCreatedBy)
}

// ParcelCreatedAt returns the createdAt of the parcel, or "" if unset.
func ParcelCreatedAt(parcel Document) string {
	return parcel.String(FieldCreatedAt)
}
