package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"lunarbase-server/internal/middleware"
	"lunarbase-server/internal/route"
	"lunarbase-server/internal/shared/errors"
	"lunarbase-server/internal/shared/response"
	"lunarbase-server/internal/shared/validation"
)

type RouteHandler struct {
	service *route.Service
}

func NewRouteHandler(service *route.Service) *RouteHandler {
	return &RouteHandler{service: service}
}

func (h *RouteHandler) Build(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "build_route")

	claims := middleware.GetUserFromContext(r)
	if claims == nil {
		response.Error(w, r, logger, errors.Unauthorized("no user claims found in context"))
		return
	}

	var req route.BuildRequest
	if err := validation.Decode(w, r, &req); err != nil {
		response.Error(w, r, logger, err)
		return
	}

	preview, err := h.service.Build(r.Context(), claims.UserID, req)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, preview)
}

func (h *RouteHandler) Create(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "create_route")

	claims := middleware.GetUserFromContext(r)
	if claims == nil {
		response.Error(w, r, logger, errors.Unauthorized("no user claims found in context"))
		return
	}

	var req route.CreateRequest
	if err := validation.Decode(w, r, &req); err != nil {
		response.Error(w, r, logger, err)
		return
	}

	view, err := h.service.Create(r.Context(), claims.UserID, req)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusCreated, view)
}

func (h *RouteHandler) List(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "list_routes")

	claims := middleware.GetUserFromContext(r)
	if claims == nil {
		response.Error(w, r, logger, errors.Unauthorized("no user claims found in context"))
		return
	}

	views, err := h.service.List(r.Context(), claims.UserID)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, views)
}

// Rename and Delete run behind the route ownership middleware.
func (h *RouteHandler) Rename(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "rename_route")

	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		response.Error(w, r, logger, errors.WrapValidation("invalid route ID format", err))
		return
	}

	var req route.RenameRequest
	if err := validation.Decode(w, r, &req); err != nil {
		response.Error(w, r, logger, err)
		return
	}

	rt, err := h.service.Rename(r.Context(), id, req.Name)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, rt)
}

func (h *RouteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "delete_route")

	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		response.Error(w, r, logger, errors.WrapValidation("invalid route ID format", err))
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		response.Error(w, r, logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
