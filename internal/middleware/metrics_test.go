package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/easydelivery/easydelivery/internal/metrics"
)

func TestMetrics_RecordsRoutePattern(t *testing.T) {
	t.Parallel()

	recorder := metrics.NewInMemory()

	r := chi.NewRouter()
	r.Use(Metrics(recorder))
	r.Get("/parcels/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	for _, id := range []string{"a", "b", "c"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/parcels/"+id, nil))
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	snap := recorder.Snapshot()
	if snap.HTTPRequests != 4 {
		t.Errorf("HTTPRequests = %d, want 4", snap.HTTPRequests)
	}
	if got := snap.HTTPRequestsByRoute["GET /parcels/{id}"]; got != 3 {
		t.Errorf("GET /parcels/{id} = %d, want 3 (routes: %v)", got, snap.HTTPRequestsByRoute)
	}
	if got := snap.HTTPRequestsByRoute["GET unmatched"]; got != 1 {
		t.Errorf("GET unmatched = %d, want 1 (routes: %v)", got, snap.HTTPRequestsByRoute)
	}
}

func TestMetrics_NilRecorder(t *testing.T) {
	t.Parallel()

	handler := Metrics(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusTeapot {
		t.Errorf("status = %d", rec.Code)
	}
}
