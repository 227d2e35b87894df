package service

import (
	"context"

	"github.com/easydelivery/easydelivery/internal/metrics"
	"github.com/easydelivery/easydelivery/internal/payment"
)

// Payment intents are always card payments in US dollars.
const (
	PaymentCurrency   = "usd"
	PaymentMethodCard = "card"
)

// PaymentService creates payment intents. It keeps no record of them.
type PaymentService struct {
	processor PaymentProcessor
	metrics   metrics.Recorder
}

// NewPaymentService creates a new PaymentService.
func NewPaymentService(processor PaymentProcessor, recorder metrics.Recorder) *PaymentService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &PaymentService{
		processor: processor,
		metrics:   recorder,
	}
}

// CreatePaymentIntent asks the processor for an intent and returns its client secret.
func (s *PaymentService) CreatePaymentIntent(ctx context.Context, amountInCents int64) (string, error) {
	if amountInCents <= 0 {
		return "", ErrInvalidAmount
	}

	intent, err := s.processor.CreatePaymentIntent(ctx, payment.IntentParams{
		AmountInCents:      amountInCents,
		Currency:           PaymentCurrency,
		PaymentMethodTypes: []string{PaymentMethodCard},
	})
	if err != nil {
		s.metrics.IncPaymentIntent(metrics.StatusFailed)
		return "", err
	}

	s.metrics.IncPaymentIntent(metrics.StatusSuccess)

	return intent.ClientSecret, nil
}
