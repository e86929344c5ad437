package middleware

import (
	"net/http"

	"lunarbase-server/internal/shared/response"

	"github.com/google/uuid"
)

// RequestID tags every request with an id, reusing a well-formed one sent
// by the client, and echoes it in the response.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(response.RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
			r.Header.Set(response.RequestIDHeader, id)
		}
		w.Header().Set(response.RequestIDHeader, id)
		next.ServeHTTP(w, r)
	})
}
