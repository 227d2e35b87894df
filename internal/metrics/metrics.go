// Package metrics provides lightweight hooks for instrumentation.
package metrics

import "time"

// Parcel lookup results.
const (
	LookupFound    = "found"
	LookupNotFound = "not_found"
	LookupInvalid  = "invalid_id"
)

// Payment intent outcomes.
const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	// User metrics
	IncUserCreated()
	IncUserConflict()

	// Parcel metrics
	IncParcelCreated()
	IncParcelLookup(result string) // result: "found", "not_found", "invalid_id"

	// Payment metrics
	IncPaymentIntent(status string) // status: "success" or "failed"

	// HTTP metrics
	ObserveHTTPRequest(method, route string, status int, duration time.Duration)
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
