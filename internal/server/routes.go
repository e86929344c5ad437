package server

import (
	"log/slog"
	"net/http"

	"lunarbase-server/internal/analysis"
	analysisHandlers "lunarbase-server/internal/analysis/handlers"
	"lunarbase-server/internal/auth"
	authHandlers "lunarbase-server/internal/auth/handlers"
	"lunarbase-server/internal/auth/providers"
	"lunarbase-server/internal/crew"
	crewHandlers "lunarbase-server/internal/crew/handlers"
	"lunarbase-server/internal/layout"
	layoutHandlers "lunarbase-server/internal/layout/handlers"
	"lunarbase-server/internal/middleware"
	"lunarbase-server/internal/route"
	routeHandlers "lunarbase-server/internal/route/handlers"
	serverHandlers "lunarbase-server/internal/server/handlers"
	"lunarbase-server/internal/shared/config"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Dependencies are the services the HTTP surface is built from.
type Dependencies struct {
	DB       serverHandlers.Pinger
	Redis    serverHandlers.Pinger
	Sessions layout.SessionStore

	Tokens      *auth.TokenService
	AuthService *auth.Service
	States      *auth.StateManager
	GitHub      providers.OAuthProvider

	Crew        *crew.Service
	Layouts     *layout.Service
	Routes      *route.Service
	RouteOwners middleware.RouteOwners
	Analysis    *analysis.Service

	RateLimiter *middleware.RateLimiter
}

type Routes struct {
	deps Dependencies
	cfg  *config.Config
}

func NewRoutes(cfg *config.Config, deps Dependencies) *Routes {
	return &Routes{deps: deps, cfg: cfg}
}

func (r *Routes) Setup() *http.ServeMux {
	logger := slog.With("component", "routes", "operation", "setup")
	logger.Debug("Setting up application routes")

	mux := http.NewServeMux()
	authn := middleware.NewAuth(r.deps.Tokens)
	routeAccess := middleware.NewRouteAccessMiddleware(authn, r.deps.RouteOwners)

	healthHandler := serverHandlers.NewHealthHandler(r.deps.DB, r.deps.Redis, r.deps.Sessions)
	credentialsHandler := authHandlers.NewCredentialsHandler(r.deps.AuthService, r.deps.Layouts)
	githubAuthHandler := authHandlers.NewOAuthHandler(
		r.deps.GitHub,
		r.deps.AuthService,
		r.deps.States,
		r.cfg.GitHubOAuthConfigured(),
	)
	meHandler := crewHandlers.NewMeHandler(r.deps.Crew)
	crewHandler := crewHandlers.NewCrewHandler(r.deps.Crew)
	layoutHandler := layoutHandlers.NewLayoutHandler(r.deps.Layouts)
	routeHandler := routeHandlers.NewRouteHandler(r.deps.Routes)
	analysisHandler := analysisHandlers.NewAnalysisHandler(r.deps.Analysis)

	// Public endpoints
	mux.Handle("GET /api/server/health", healthHandler)
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /api/facility-types", layoutHandler.FacilityTypes)

	// Auth endpoints
	mux.HandleFunc("POST /auth/register", credentialsHandler.Register)
	mux.HandleFunc("POST /auth/login", credentialsHandler.Login)
	mux.Handle("POST /auth/logout", authn.Optional(http.HandlerFunc(credentialsHandler.Logout)))
	mux.HandleFunc("GET /auth/github", githubAuthHandler.HandleAuth)
	mux.HandleFunc("GET /auth/github/callback", githubAuthHandler.HandleCallback)

	// Protected endpoints (authenticated users)
	mux.Handle("GET /api/crew/me", authn.Require(meHandler))

	mux.Handle("GET /api/layout", authn.RequireFunc(layoutHandler.Get))
	mux.Handle("DELETE /api/layout", authn.RequireFunc(layoutHandler.Reset))
	mux.Handle("POST /api/layout/objects", authn.RequireFunc(layoutHandler.Place))
	mux.Handle("POST /api/layout/save", authn.RequireFunc(layoutHandler.Save))
	mux.Handle("POST /api/layout/load", authn.RequireFunc(layoutHandler.Load))
	mux.Handle("GET /api/layout/export", authn.RequireFunc(layoutHandler.Export))
	mux.Handle("POST /api/layout/import", authn.RequireFunc(layoutHandler.Import))
	mux.Handle("GET /api/layout/safety", authn.RequireFunc(layoutHandler.Safety))

	mux.Handle("POST /api/routes/build", authn.RequireFunc(routeHandler.Build))
	mux.Handle("POST /api/routes", authn.RequireFunc(routeHandler.Create))
	mux.Handle("GET /api/routes", authn.RequireFunc(routeHandler.List))
	mux.Handle("PATCH /api/routes/{id}", routeAccess.Require(http.HandlerFunc(routeHandler.Rename)))
	mux.Handle("DELETE /api/routes/{id}", routeAccess.Require(http.HandlerFunc(routeHandler.Delete)))

	mux.Handle("GET /api/analysis", authn.RequireFunc(analysisHandler.History))
	mux.Handle("POST /api/analysis", authn.RequireFunc(analysisHandler.Analyze))
	mux.Handle("POST /api/analysis/import", authn.RequireFunc(analysisHandler.Import))
	mux.Handle("DELETE /api/analysis/{id}", authn.RequireFunc(analysisHandler.Delete))

	// Admin-only endpoints (authenticated + admin role)
	mux.Handle("GET /api/admin/layouts", authn.RequireAdmin(http.HandlerFunc(layoutHandler.List)))
	mux.Handle("GET /api/admin/crew", authn.RequireAdmin(crewHandler))

	logger.Info("Routes configured successfully",
		"public_endpoints", []string{"/api/server/health", "/metrics", "/api/facility-types"},
		"protected_endpoints", []string{"/api/crew/me", "/api/layout", "/api/routes", "/api/analysis"},
		"admin_endpoints", []string{"/api/admin/layouts", "/api/admin/crew"},
		"auth_endpoints", []string{"/auth/register", "/auth/login", "/auth/logout", "/auth/github"},
	)

	return mux
}

// Handler wraps the mux in the middleware chain, outermost first: request
// id, metrics, rate limiting, CORS.
func (r *Routes) Handler() http.Handler {
	var h http.Handler = r.Setup()
	h = middleware.NewCORS(r.cfg.Frontend).Middleware(h)
	if r.deps.RateLimiter != nil {
		h = r.deps.RateLimiter.Middleware(h)
	}
	h = middleware.Metrics(h)
	return middleware.RequestID(h)
}
