package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"lunarbase-server/internal/auth"
	"lunarbase-server/internal/shared/cookies"
	"lunarbase-server/internal/shared/errors"
	"lunarbase-server/internal/shared/response"
)

type contextKey string

const UserContextKey contextKey = "user"

// Auth authenticates requests from the auth_token cookie.
type Auth struct {
	tokens *auth.TokenService
}

func NewAuth(tokens *auth.TokenService) *Auth {
	return &Auth{tokens: tokens}
}

func (a *Auth) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := slog.With(
			"middleware", "jwt",
			"method", r.Method,
			"path", r.URL.Path,
		)

		cookie, err := r.Cookie(cookies.AuthCookieName)
		if err != nil {
			response.Error(w, r, logger, errors.Unauthorized("authentication required"))
			return
		}

		claims, err := a.tokens.Validate(cookie.Value)
		if err != nil {
			response.Error(w, r, logger, errors.Unauthorized("invalid token"))
			return
		}

		logger.Debug("JWT authentication successful", "user_id", claims.UserID)
		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), claims)))
	})
}

// Optional attaches the claims of a valid auth cookie but lets every request
// through.
func (a *Auth) Optional(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(cookies.AuthCookieName)
		if err == nil {
			if claims, err := a.tokens.Validate(cookie.Value); err == nil {
				r = r.WithContext(WithUser(r.Context(), claims))
			}
		}
		next.ServeHTTP(w, r)
	})
}

// RequireFunc is Require for a HandlerFunc.
func (a *Auth) RequireFunc(next http.HandlerFunc) http.Handler {
	return a.Require(next)
}

// WithUser stores the authenticated claims in ctx.
func WithUser(ctx context.Context, claims *auth.Claims) context.Context {
	return context.WithValue(ctx, UserContextKey, claims)
}

// GetUserFromContext returns the claims stored by Require, or nil.
func GetUserFromContext(r *http.Request) *auth.Claims {
	if claims, ok := r.Context().Value(UserContextKey).(*auth.Claims); ok {
		return claims
	}
	return nil
}
