package response

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"lunarbase-server/internal/shared/errors"

	"github.com/goccy/go-json"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestErrorStatusMapping(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{errors.NotFound("no layout"), http.StatusNotFound},
		{errors.Validation("bad coordinates"), http.StatusBadRequest},
		{errors.Conflictf("zone overlap"), http.StatusConflict},
		{errors.Unauthorized("no token"), http.StatusUnauthorized},
		{errors.Forbidden("not yours"), http.StatusForbidden},
		{errors.External("redis unavailable"), http.StatusServiceUnavailable},
		{io.ErrUnexpectedEOF, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/api/layout", nil)
		rec := httptest.NewRecorder()

		Error(rec, req, discardLogger(), tt.err)

		if rec.Code != tt.status {
			t.Errorf("%v: status = %d, want %d", tt.err, rec.Code, tt.status)
		}
		var body ErrorResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if body.Code != tt.status || body.Message != tt.err.Error() {
			t.Errorf("unexpected body %+v", body)
		}
	}
}

func TestErrorWithMessageHidesCause(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/layout/save", nil)
	rec := httptest.NewRecorder()

	ErrorWithMessage(rec, req, discardLogger(), errors.WrapInternal("insert failed", io.ErrClosedPipe), "could not save layout")

	var body ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Message != "could not save layout" {
		t.Errorf("expected client message, got %q", body.Message)
	}
}

func TestAttachment(t *testing.T) {
	rec := httptest.NewRecorder()
	Attachment(rec, "infrastructure_layout.json", []byte("[1, 2]"))

	if got := rec.Header().Get("Content-Disposition"); got != `attachment; filename="infrastructure_layout.json"` {
		t.Errorf("unexpected disposition %q", got)
	}
	if rec.Body.String() != "[1, 2]" {
		t.Errorf("unexpected body %q", rec.Body.String())
	}
}

func TestErrorEchoesRequestID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/routes", nil)
	req.Header.Set(RequestIDHeader, "7d3c1c1e-44a5-4c1e-9a53-0c1f1f7c2b11")
	rec := httptest.NewRecorder()

	Error(rec, req, discardLogger(), errors.NotFound("route not found"))

	var body ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.RequestID != "7d3c1c1e-44a5-4c1e-9a53-0c1f1f7c2b11" || body.Error != "not_found" {
		t.Errorf("unexpected body %+v", body)
	}
}
