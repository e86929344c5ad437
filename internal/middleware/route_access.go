package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"lunarbase-server/internal/shared/errors"
	"lunarbase-server/internal/shared/response"
)

// RouteOwners resolves the owning user of a saved route. found is false
// when the route does not exist.
type RouteOwners interface {
	RouteOwner(ctx context.Context, routeID int) (ownerID int, found bool, err error)
}

// RouteAccessMiddleware lets a request through only when the {id} route
// belongs to the caller. Admins may touch any route.
type RouteAccessMiddleware struct {
	auth   *Auth
	owners RouteOwners
}

func NewRouteAccessMiddleware(auth *Auth, owners RouteOwners) *RouteAccessMiddleware {
	return &RouteAccessMiddleware{auth: auth, owners: owners}
}

func (m *RouteAccessMiddleware) Require(next http.Handler) http.Handler {
	return m.auth.Require(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := slog.With(
			"middleware", "route_access",
			"method", r.Method,
			"path", r.URL.Path,
		)

		claims := GetUserFromContext(r)
		if claims == nil {
			response.Error(w, r, logger, errors.Unauthorized("authentication required"))
			return
		}

		routeID, err := strconv.Atoi(r.PathValue("id"))
		if err != nil {
			response.Error(w, r, logger, errors.WrapValidation("invalid route ID format", err))
			return
		}

		ownerID, found, err := m.owners.RouteOwner(r.Context(), routeID)
		if err != nil {
			response.Error(w, r, logger, errors.WrapInternal("failed to check route ownership", err))
			return
		}
		if !found {
			response.Error(w, r, logger, errors.NotFoundf("route not found with id: %d", routeID))
			return
		}

		if ownerID != claims.UserID && !claims.IsAdmin() {
			response.Error(w, r, logger, errors.Forbidden("route belongs to another user"))
			return
		}

		next.ServeHTTP(w, r)
	}))
}
