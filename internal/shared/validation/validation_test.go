package validation

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	apperrors "lunarbase-server/internal/shared/errors"
)

type registerRequest struct {
	FirstName string `json:"first_name" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6"`
	Transport string `json:"transport,omitempty" validate:"omitempty,oneof=walk rover shuttle"`
}

func TestStruct(t *testing.T) {
	tests := []struct {
		name    string
		req     registerRequest
		wantErr []string
	}{
		{"valid", registerRequest{FirstName: "Ada", Email: "ada@example.com", Password: "secret1"}, nil},
		{"missing name", registerRequest{Email: "ada@example.com", Password: "secret1"}, []string{"first_name is required"}},
		{"bad email and short password", registerRequest{FirstName: "Ada", Email: "ada", Password: "123"}, []string{
			"email must be a valid email address",
			"password must be at least 6 characters",
		}},
		{"bad transport", registerRequest{FirstName: "Ada", Email: "a@b.io", Password: "secret1", Transport: "rocket"}, []string{
			"transport must be one of: walk rover shuttle",
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Struct(&tt.req)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected error")
			}
			if apperrors.GetType(err) != apperrors.ErrorTypeValidation {
				t.Errorf("expected validation error type, got %s", apperrors.GetType(err))
			}
			for _, want := range tt.wantErr {
				if !strings.Contains(err.Error(), want) {
					t.Errorf("error %q missing %q", err.Error(), want)
				}
			}
		})
	}
}

func TestDecode(t *testing.T) {
	body := `{"first_name":"Ada","email":"ada@example.com","password":"secret1"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(body))
	var dst registerRequest
	if err := Decode(httptest.NewRecorder(), req, &dst); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if dst.FirstName != "Ada" {
		t.Errorf("unexpected decoded value %+v", dst)
	}

	req = httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader("{not json"))
	if err := Decode(httptest.NewRecorder(), req, &dst); apperrors.GetType(err) != apperrors.ErrorTypeValidation {
		t.Errorf("expected validation error for malformed JSON, got %v", err)
	}
}
