package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/riskibarqy/usopen-scoreboard/internal/platform/id"
)

func TestRequestID_AssignsAndPropagates(t *testing.T) {
	var seen string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = requestIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	handler := RequestID(id.Static("generated-id"), next)

	req := httptest.NewRequest(http.MethodGet, "/men/2025-08-26", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if seen != "generated-id" {
		t.Fatalf("expected generated request id in context, got %q", seen)
	}
	if got := rec.Header().Get("X-Request-ID"); got != "generated-id" {
		t.Fatalf("unexpected X-Request-ID header: %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/men/2025-08-26", nil)
	req.Header.Set("X-Request-ID", "from-client")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if seen != "from-client" {
		t.Fatalf("expected caller request id to be kept, got %q", seen)
	}
}

type recordedRoute struct {
	route  string
	status int
}

type routeRecorder struct {
	calls []recordedRoute
}

func (r *routeRecorder) ObserveHTTP(route string, status int, _ time.Duration) {
	r.calls = append(r.calls, recordedRoute{route: route, status: status})
}

func TestInstrumentRoute_RecordsStatus(t *testing.T) {
	metrics := &routeRecorder{}
	handler := InstrumentRoute(metrics, "GET /{gender}/{date}", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/x/y", nil))

	if len(metrics.calls) != 1 {
		t.Fatalf("expected one observation, got %d", len(metrics.calls))
	}
	if metrics.calls[0].status != http.StatusBadRequest || metrics.calls[0].route != "GET /{gender}/{date}" {
		t.Fatalf("unexpected observation: %+v", metrics.calls[0])
	}
}
