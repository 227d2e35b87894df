package metrics

import (
	"sync"
	"sync/atomic"
	"time"
)

// Snapshot captures current in-memory counters.
type Snapshot struct {
	UsersCreated        uint64
	UserConflicts       uint64
	ParcelsCreated      uint64
	ParcelLookups       map[string]uint64
	PaymentIntents      map[string]uint64
	HTTPRequests        uint64
	HTTPDurationTotalNs int64
	HTTPRequestsByRoute map[string]uint64
}

// InMemoryRecorder stores metrics in memory for tests.
type InMemoryRecorder struct {
	usersCreated        uint64
	userConflicts       uint64
	parcelsCreated      uint64
	httpRequests        uint64
	httpDurationTotalNs int64

	mu              sync.Mutex
	parcelLookups   map[string]uint64
	paymentIntents  map[string]uint64
	requestsByRoute map[string]uint64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{
		parcelLookups:   make(map[string]uint64),
		paymentIntents:  make(map[string]uint64),
		requestsByRoute: make(map[string]uint64),
	}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	return Snapshot{
		UsersCreated:        atomic.LoadUint64(&m.usersCreated),
		UserConflicts:       atomic.LoadUint64(&m.userConflicts),
		ParcelsCreated:      atomic.LoadUint64(&m.parcelsCreated),
		ParcelLookups:       copyCounts(m.parcelLookups),
		PaymentIntents:      copyCounts(m.paymentIntents),
		HTTPRequests:        atomic.LoadUint64(&m.httpRequests),
		HTTPDurationTotalNs: atomic.LoadInt64(&m.httpDurationTotalNs),
		HTTPRequestsByRoute: copyCounts(m.requestsByRoute),
	}
}

// IncUserCreated increments the user created counter.
func (m *InMemoryRecorder) IncUserCreated() {
	atomic.AddUint64(&m.usersCreated, 1)
}

// IncUserConflict increments the duplicate email counter.
func (m *InMemoryRecorder) IncUserConflict() {
	atomic.AddUint64(&m.userConflicts, 1)
}

// IncParcelCreated increments the parcel created counter.
func (m *InMemoryRecorder) IncParcelCreated() {
	atomic.AddUint64(&m.parcelsCreated, 1)
}

// IncParcelLookup counts a lookup by result.
func (m *InMemoryRecorder) IncParcelLookup(result string) {
	m.mu.Lock()
	m.parcelLookups[result]++
	m.mu.Unlock()
}

// IncPaymentIntent counts a payment intent by status.
func (m *InMemoryRecorder) IncPaymentIntent(status string) {
	m.mu.Lock()
	m.paymentIntents[status]++
	m.mu.Unlock()
}

// ObserveHTTPRequest records a served request. Routes are keyed as "METHOD route".
func (m *InMemoryRecorder) ObserveHTTPRequest(method, route string, status int, duration time.Duration) {
	atomic.AddUint64(&m.httpRequests, 1)
	atomic.AddInt64(&m.httpDurationTotalNs, duration.Nanoseconds())

	m.mu.Lock()
	m.requestsByRoute[method+" "+route]++
	m.mu.Unlock()
}

func copyCounts(src map[string]uint64) map[string]uint64 {
	dst := make(map[string]uint64, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
