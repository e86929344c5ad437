package handlers

import (
	"log/slog"
	"net/http"

	"lunarbase-server/internal/crew"
	"lunarbase-server/internal/shared/response"
)

// CrewHandler lists every account for administrators.
type CrewHandler struct {
	service *crew.Service
}

func NewCrewHandler(service *crew.Service) *CrewHandler {
	return &CrewHandler{service: service}
}

func (h *CrewHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "crew_list")

	users, err := h.service.List(r.Context())
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	if users == nil {
		users = []crew.User{}
	}

	logger.Debug("Crew list completed", "user_count", len(users))
	response.Success(w, http.StatusOK, users)
}
