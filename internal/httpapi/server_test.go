package httpapi

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"nertag/pkg/types"
)

type fakeService struct {
	status types.StatusResponse
	ready  bool
}

func (f *fakeService) Status() types.StatusResponse { return f.status }
func (f *fakeService) Ready() bool                  { return f.ready }

func TestHealthz(t *testing.T) {
	mux := NewMux(&fakeService{ready: true})
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("GET", "/healthz", nil))
	if rec.Code != 200 {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestReadyz(t *testing.T) {
	svc := &fakeService{ready: true}
	mux := NewMux(svc)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("GET", "/readyz", nil))
	if rec.Code != 200 {
		t.Fatalf("ready status = %d", rec.Code)
	}

	svc.ready = false
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("GET", "/readyz", nil))
	if rec.Code != 503 {
		t.Fatalf("not-ready status = %d", rec.Code)
	}
}

func TestStatusEndpoint(t *testing.T) {
	svc := &fakeService{
		status: types.StatusResponse{State: "busy", QueueDepth: 2, RequestsTotal: 7, EnginePID: 99},
		ready:  true,
	}
	mux := NewMux(svc)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("GET", "/status", nil))
	if rec.Code != 200 {
		t.Fatalf("status = %d", rec.Code)
	}
	var got types.StatusResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.State != "busy" || got.QueueDepth != 2 || got.RequestsTotal != 7 || got.EnginePID != 99 {
		t.Fatalf("unexpected body: %+v", got)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	mux := NewMux(&fakeService{ready: true})
	// Prime the counters with one request.
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("GET", "/healthz", nil))

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	if rec.Code != 200 {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "nertag_http_requests_total") {
		t.Fatalf("metrics body missing nertag_http_requests_total")
	}
}
