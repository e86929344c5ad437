package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"lunarbase-server/internal/auth"
	"lunarbase-server/internal/auth/providers"
	"lunarbase-server/internal/shared/cookies"
	"lunarbase-server/internal/shared/errors"
	"lunarbase-server/internal/shared/response"
)

type OAuthHandler struct {
	provider     providers.OAuthProvider
	authService  *auth.Service
	states       *auth.StateManager
	isConfigured bool
}

func NewOAuthHandler(provider providers.OAuthProvider, authService *auth.Service, states *auth.StateManager, isConfigured bool) *OAuthHandler {
	return &OAuthHandler{
		provider:     provider,
		authService:  authService,
		states:       states,
		isConfigured: isConfigured,
	}
}

func (h *OAuthHandler) HandleAuth(w http.ResponseWriter, r *http.Request) {
	name := h.provider.Name()
	logger := slog.With("handler", name+"_oauth_init")

	if !h.isConfigured {
		response.Error(w, r, logger, errors.External(fmt.Sprintf("%s OAuth is not configured", name)))
		return
	}

	redirectURI := resolveRedirectURI(r.URL.Query().Get("redirect_uri"))

	state, err := h.states.GenerateState(name, r.UserAgent(), redirectURI)
	if err != nil {
		response.Error(w, r, logger, errors.WrapInternal("failed to initialize OAuth flow", err))
		return
	}

	http.Redirect(w, r, h.provider.GetAuthURL(state), http.StatusTemporaryRedirect)
}

func (h *OAuthHandler) HandleCallback(w http.ResponseWriter, r *http.Request) {
	name := h.provider.Name()
	query := r.URL.Query()
	code := query.Get("code")

	logger := slog.With(
		"handler", name+"_oauth_callback",
		"user_agent", r.UserAgent(),
		"has_code", code != "",
	)

	entry, err := h.states.ValidateState(query.Get("state"), name, r.UserAgent())
	if err != nil {
		logger.Warn("OAuth state rejected", "error", err)
		redirectWithError(w, r, "", "invalid_state")
		return
	}
	redirectURI := entry.RedirectURI

	if oauthErr := query.Get("error"); oauthErr != "" {
		logger.Warn("OAuth authorization denied",
			"oauth_error", oauthErr,
			"error_description", query.Get("error_description"))
		redirectWithError(w, r, redirectURI, "oauth_denied")
		return
	}

	if code == "" {
		logger.Error("OAuth callback missing authorization code")
		redirectWithError(w, r, redirectURI, "oauth_error")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	token, err := h.provider.ExchangeCode(ctx, code)
	if err != nil {
		logger.Error("Failed to exchange authorization code", "error", err)
		redirectWithError(w, r, redirectURI, "oauth_error")
		return
	}

	info, err := h.provider.GetUserInfo(ctx, token)
	if err != nil {
		logger.Error("Failed to get user info", "error", err)
		redirectWithError(w, r, redirectURI, "oauth_error")
		return
	}

	user, jwtToken, err := h.authService.OAuthLogin(ctx, name, info)
	if err != nil {
		logger.Error("OAuth sign-in failed", "error", err, "provider_user_id", info.ID)
		redirectWithError(w, r, redirectURI, string(errors.GetType(err)))
		return
	}

	cookies.SetAuthCookie(w, jwtToken)
	logger.Info("OAuth authentication successful", "user_id", user.ID, "role", user.Role)

	http.Redirect(w, r, redirectURI+"/auth/callback?success=true", http.StatusTemporaryRedirect)
}
