// Package payment creates charge intents with the payment processor.
package payment

import "fmt"

// IntentParams describes a payment intent to create.
type IntentParams struct {
	// AmountInCents is the amount in the currency's minor unit.
	AmountInCents      int64
	Currency           string
	PaymentMethodTypes []string
}

// Intent is the processor's representation of an in-progress charge.
type Intent struct {
	ID           string
	ClientSecret string
	Amount       int64
	Currency     string
	Status       string
}

// Error is a failure reported by the processor's API.
type Error struct {
	StatusCode int
	Type       string
	Code       string
	RequestID  string
	Message    string
}

// Error returns the processor's human-readable message.
func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("payment processor error (status %d, type %s)", e.StatusCode, e.Type)
	}
	return e.Message
}
