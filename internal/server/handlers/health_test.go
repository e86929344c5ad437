package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"
)

type fixedStatus string

func (f fixedStatus) Status(context.Context) string {
	return string(f)
}

type breaker string

func (b breaker) State() string {
	return string(b)
}

func TestHealth(t *testing.T) {
	tests := []struct {
		name     string
		db       string
		redis    string
		sessions any
		want     int
		status   string
	}{
		{"all healthy", "healthy", "healthy", breaker("closed"), http.StatusOK, "healthy"},
		{"redis disabled", "healthy", "disabled", nil, http.StatusOK, "healthy"},
		{"redis down", "healthy", "unhealthy", breaker("open"), http.StatusServiceUnavailable, "degraded"},
		{"database down", "unhealthy", "disabled", nil, http.StatusServiceUnavailable, "degraded"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHealthHandler(fixedStatus(tt.db), fixedStatus(tt.redis), tt.sessions)
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/server/health", nil))

			if rec.Code != tt.want {
				t.Errorf("expected %d, got %d", tt.want, rec.Code)
			}
			var resp HealthResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatal(err)
			}
			if resp.Status != tt.status || resp.Redis != tt.redis {
				t.Errorf("unexpected response %+v", resp)
			}
			if b, ok := tt.sessions.(breaker); ok && resp.SessionBreaker != string(b) {
				t.Errorf("breaker state not reported: %+v", resp)
			}
		})
	}
}
