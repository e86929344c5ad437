package middleware

import (
	"log/slog"
	"net/http"

	"lunarbase-server/internal/shared/errors"
	"lunarbase-server/internal/shared/response"
)

func AdminMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := slog.With(
			"middleware", "admin",
			"method", r.Method,
			"path", r.URL.Path,
		)

		claims := GetUserFromContext(r)
		if claims == nil {
			response.Error(w, r, logger, errors.Unauthorized("authentication required"))
			return
		}

		if !claims.IsAdmin() {
			logger.Warn("Non-admin user attempted to access admin endpoint",
				"user_id", claims.UserID,
				"role", claims.Role)
			response.Error(w, r, logger, errors.Forbidden("admin access required"))
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (a *Auth) RequireAdmin(next http.Handler) http.Handler {
	return a.Require(AdminMiddleware(next))
}
