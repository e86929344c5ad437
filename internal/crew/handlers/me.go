package handlers

import (
	"log/slog"
	"net/http"

	"lunarbase-server/internal/crew"
	"lunarbase-server/internal/middleware"
	"lunarbase-server/internal/shared/errors"
	"lunarbase-server/internal/shared/response"
)

type MeHandler struct {
	service *crew.Service
}

func NewMeHandler(service *crew.Service) *MeHandler {
	return &MeHandler{service: service}
}

func (h *MeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "me")

	claims := middleware.GetUserFromContext(r)
	if claims == nil {
		response.Error(w, r, logger, errors.Unauthorized("no user claims found in context"))
		return
	}

	user, err := h.service.GetByID(r.Context(), claims.UserID)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, user)
}
