package metrics

import "time"

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

// IncUserCreated is a no-op.
func (n *NoopRecorder) IncUserCreated() {}

// IncUserConflict is a no-op.
func (n *NoopRecorder) IncUserConflict() {}

// IncParcelCreated is a no-op.
func (n *NoopRecorder) IncParcelCreated() {}

// IncParcelLookup is a no-op.
func (n *NoopRecorder) IncParcelLookup(result string) {}

// IncPaymentIntent is a no-op.
func (n *NoopRecorder) IncPaymentIntent(status string) {}

// ObserveHTTPRequest is a no-op.
func (n *NoopRecorder) ObserveHTTPRequest(method, route string, status int, duration time.Duration) {}
