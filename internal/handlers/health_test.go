package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

type fakePinger struct{ err error }

func (p fakePinger) Ping(ctx context.Context) error { return p.err }

type fakeQueueChecker struct{ err error }

func (q fakeQueueChecker) HealthCheck(ctx context.Context) error { return q.err }

func TestHealthCheckBasic(t *testing.T) {
	t.Parallel()
	h := NewHealthChecker(nil, nil, nil)

	rec := httptest.NewRecorder()
	h.HealthCheck(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp HealthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Status != "healthy" || resp.Checks != nil {
		t.Errorf("basic mode response = %+v", resp)
	}
}

func TestHealthCheckExtended(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		storeErr   error
		queueErr   error
		wantCode   int
		wantStatus string
	}{
		{"all healthy", nil, nil, http.StatusOK, "healthy"},
		{"store down", errors.New("connection refused"), nil, http.StatusServiceUnavailable, "unhealthy"},
		{"queue down", nil, errors.New("channel closed"), http.StatusServiceUnavailable, "unhealthy"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			h := NewHealthChecker(fakePinger{err: tt.storeErr}, nil, fakeQueueChecker{err: tt.queueErr})

			rec := httptest.NewRecorder()
			h.HealthCheck(rec, httptest.NewRequest(http.MethodGet, "/healthz?mode=extended", nil))

			if rec.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantCode)
			}
			var resp HealthResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatal(err)
			}
			if resp.Status != tt.wantStatus {
				t.Errorf("Status = %q, want %q", resp.Status, tt.wantStatus)
			}
			if _, ok := resp.Checks["store"]; !ok {
				t.Error("extended mode should report the store check")
			}
			if _, ok := resp.Checks["cache"]; ok {
				t.Error("nil redis client should be skipped")
			}
		})
	}
}
