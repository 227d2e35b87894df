package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "easydelivery"

// PrometheusRecorder implements Recorder on a dedicated Prometheus registry.
type PrometheusRecorder struct {
	registry *prometheus.Registry

	usersCreated   prometheus.Counter
	userConflicts  prometheus.Counter
	parcelsCreated prometheus.Counter
	parcelLookups  *prometheus.CounterVec
	paymentIntents *prometheus.CounterVec
	httpDuration   *prometheus.HistogramVec
}

// NewPrometheus creates a recorder with its own registry, including the Go
// runtime and process collectors.
func NewPrometheus() *PrometheusRecorder {
	reg := prometheus.NewRegistry()

	r := &PrometheusRecorder{
		usersCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "users_created_total",
			Help:      "Users registered.",
		}),
		userConflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "user_conflicts_total",
			Help:      "User registrations rejected because the email already exists.",
		}),
		parcelsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "parcels_created_total",
			Help:      "Parcels recorded.",
		}),
		parcelLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "parcel_lookups_total",
			Help:      "Parcel lookups by identifier, by result.",
		}, []string{"result"}),
		paymentIntents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payment_intents_total",
			Help:      "Payment intents requested from the processor, by status.",
		}, []string{"status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method, route and status code.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
		registry: reg,
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.usersCreated,
		r.userConflicts,
		r.parcelsCreated,
		r.parcelLookups,
		r.paymentIntents,
		r.httpDuration,
	)

	return r
}

// Handler returns the exposition handler for the recorder's registry.
func (r *PrometheusRecorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// Registry returns the underlying registry.
func (r *PrometheusRecorder) Registry() *prometheus.Registry {
	return r.registry
}

// IncUserCreated increments the user created counter.
func (r *PrometheusRecorder) IncUserCreated() {
	r.usersCreated.Inc()
}

// IncUserConflict increments the duplicate email counter.
func (r *PrometheusRecorder) IncUserConflict() {
	r.userConflicts.Inc()
}

// IncParcelCreated increments the parcel created counter.
func (r *PrometheusRecorder) IncParcelCreated() {
	r.parcelsCreated.Inc()
}

// IncParcelLookup counts a lookup by result.
func (r *PrometheusRecorder) IncParcelLookup(result string) {
	r.parcelLookups.WithLabelValues(result).Inc()
}

// IncPaymentIntent counts a payment intent by status.
func (r *PrometheusRecorder) IncPaymentIntent(status string) {
	r.paymentIntents.WithLabelValues(status).Inc()
}

// ObserveHTTPRequest records request latency.
func (r *PrometheusRecorder) ObserveHTTPRequest(method, route string, status int, duration time.Duration) {
	r.httpDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(duration.Seconds())
}
