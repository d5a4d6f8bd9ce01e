package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetricsMiddlewareUsesRouteTemplate(t *testing.T) {
	router := mux.NewRouter()
	router.HandleFunc("/todos/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}).Methods(http.MethodPut)
	router.Use(MetricsMiddleware)

	counter := requestsTotal.WithLabelValues(http.MethodPut, "/todos/{id}", "404")
	before := testutil.ToFloat64(counter)

	for _, path := range []string{"/todos/1", "/todos/2"} {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPut, path, nil))
	}

	if got := testutil.ToFloat64(counter); got != before+2 {
		t.Errorf("counter: got %v, want %v", got, before+2)
	}
	if got := testutil.ToFloat64(inFlightRequests); got != 0 {
		t.Errorf("in-flight gauge should return to 0, got %v", got)
	}
}

func TestRouteTemplateUnmatched(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/nowhere", nil)
	if got := routeTemplate(r); got != UnmatchedRoute {
		t.Errorf("got %q, want %q", got, UnmatchedRoute)
	}
}

func TestMetricsHandlerExposes(t *testing.T) {
	requestsTotal.WithLabelValues(http.MethodGet, "/todos", "200").Inc()

	rec := httptest.NewRecorder()
	MetricsHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "http_requests_total") {
		t.Error("http_requests_total not exposed")
	}
}

func TestSecurityHeaders(t *testing.T) {
	h := SecurityHeadersMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	for _, key := range []string{"X-Content-Type-Options", "X-Frame-Options", "Content-Security-Policy", "Referrer-Policy"} {
		if rec.Header().Get(key) == "" {
			t.Errorf("missing header %s", key)
		}
	}
}
