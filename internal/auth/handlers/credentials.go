package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"lunarbase-server/internal/auth"
	"lunarbase-server/internal/middleware"
	"lunarbase-server/internal/shared/cookies"
	"lunarbase-server/internal/shared/response"
	"lunarbase-server/internal/shared/validation"
)

// Workspaces drops per-user working state when the user signs out.
type Workspaces interface {
	Discard(ctx context.Context, userID int) error
}

type CredentialsHandler struct {
	service    *auth.Service
	workspaces Workspaces
}

func NewCredentialsHandler(service *auth.Service, workspaces Workspaces) *CredentialsHandler {
	return &CredentialsHandler{service: service, workspaces: workspaces}
}

func (h *CredentialsHandler) Register(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "register")

	var req auth.RegisterRequest
	if err := validation.Decode(w, r, &req); err != nil {
		response.Error(w, r, logger, err)
		return
	}

	user, token, err := h.service.Register(r.Context(), req)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	cookies.SetAuthCookie(w, token)
	response.Success(w, http.StatusCreated, user)
}

func (h *CredentialsHandler) Login(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "login")

	var req auth.LoginRequest
	if err := validation.Decode(w, r, &req); err != nil {
		response.Error(w, r, logger, err)
		return
	}

	user, token, err := h.service.Login(r.Context(), req)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	cookies.SetAuthCookie(w, token)
	response.Success(w, http.StatusOK, user)
}

// Logout clears the cookie and, for a signed-in user, the unsaved working
// layout. A session store failure does not block the logout.
func (h *CredentialsHandler) Logout(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "logout")

	if claims := middleware.GetUserFromContext(r); claims != nil && h.workspaces != nil {
		if err := h.workspaces.Discard(r.Context(), claims.UserID); err != nil {
			logger.Warn("Failed to discard working session", "user_id", claims.UserID, "error", err)
		}
	}

	cookies.ClearAuthCookie(w)
	response.Success(w, http.StatusOK, map[string]string{"status": "logged_out"})
}
