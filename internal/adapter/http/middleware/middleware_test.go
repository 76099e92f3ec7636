package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"

	"github.com/iho/walletledger/internal/domain"
	"github.com/iho/walletledger/internal/infrastructure/metrics"
)

func TestMetricsUsesRoutePattern(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())

	r := chi.NewRouter()
	r.Use(Metrics(m))
	r.Get("/api/v1/transactions/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	for _, id := range []string{"01ABC", "01DEF"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/transactions/"+id, nil))
	}

	counter := m.HTTPRequests.WithLabelValues(http.MethodGet, "/api/v1/transactions/{id}", "418")
	if got := testutil.ToFloat64(counter); got != 2 {
		t.Fatalf("expected both requests under one pattern, got %v", got)
	}
	if got := testutil.ToFloat64(m.HTTPInFlight); got != 0 {
		t.Fatalf("expected in-flight gauge to return to 0, got %v", got)
	}
}

func TestRateLimiter(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	rl := NewRateLimiter(1, 2, m)

	handler := rl.Limit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.1:5555"
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		codes = append(codes, rr.Code)
	}

	if codes[0] != http.StatusOK || codes[1] != http.StatusOK || codes[2] != http.StatusTooManyRequests {
		t.Fatalf("expected burst of 2 then 429, got %v", codes)
	}
	if got := testutil.ToFloat64(m.RateLimitHits.WithLabelValues("unmatched")); got != 1 {
		t.Fatalf("expected one rate limit hit, got %v", got)
	}

	// Another client has its own bucket.
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.2:5555"
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected other client to pass, got %d", rr.Code)
	}

	rl.now = func() time.Time { return time.Now().Add(time.Hour) }
	if removed := rl.Cleanup(time.Minute); removed != 2 {
		t.Fatalf("expected 2 idle limiters removed, got %d", removed)
	}
}

func TestRecoveryWritesJSON500(t *testing.T) {
	rr := httptest.NewRecorder()
	Recovery(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "internal server error") {
		t.Fatalf("unexpected body %s", rr.Body.String())
	}
}

func TestRequestContextAndLogging(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf)

	var seen string
	handler := chimiddleware.RequestID(RequestContext(NewLoggingMiddleware(log).Wrap(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = domain.RequestIDFromContext(r.Context())
			w.WriteHeader(http.StatusAccepted)
		}),
	)))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/transactions/deposits", nil)
	req.Header.Set(chimiddleware.RequestIDHeader, "req-42")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if seen != "req-42" {
		t.Fatalf("expected request id in domain context, got %q", seen)
	}
	out := buf.String()
	if !strings.Contains(out, `"request_id":"req-42"`) || !strings.Contains(out, `"status":202`) {
		t.Fatalf("unexpected log line %s", out)
	}
}
