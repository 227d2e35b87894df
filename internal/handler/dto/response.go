package dto

// PaymentIntentResponse carries the secret the client uses to confirm payment.
type PaymentIntentResponse struct {
	ClientSecret string `json:"clientSecret"`
}

// ErrorResponse is the body of every error response.
type ErrorResponse struct {
	Message string `json:"message"`
}

// HealthResponse is the body of the liveness and readiness probes.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}
