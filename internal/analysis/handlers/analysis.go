package handlers

import (
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"lunarbase-server/internal/analysis"
	"lunarbase-server/internal/middleware"
	"lunarbase-server/internal/shared/errors"
	"lunarbase-server/internal/shared/response"
	"lunarbase-server/internal/shared/validation"
)

type AnalysisHandler struct {
	service *analysis.Service
}

func NewAnalysisHandler(service *analysis.Service) *AnalysisHandler {
	return &AnalysisHandler{service: service}
}

func (h *AnalysisHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "analyze_site")

	claims := middleware.GetUserFromContext(r)
	if claims == nil {
		response.Error(w, r, logger, errors.Unauthorized("no user claims found in context"))
		return
	}

	var req analysis.Request
	if err := validation.Decode(w, r, &req); err != nil {
		response.Error(w, r, logger, err)
		return
	}

	result, err := h.service.Analyze(r.Context(), claims.UserID, *req.Lat, *req.Lon)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusCreated, result)
}

func (h *AnalysisHandler) History(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "analysis_history")

	claims := middleware.GetUserFromContext(r)
	if claims == nil {
		response.Error(w, r, logger, errors.Unauthorized("no user claims found in context"))
		return
	}

	history, err := h.service.History(r.Context(), claims.UserID)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, history)
}

func (h *AnalysisHandler) Delete(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "delete_analysis")

	claims := middleware.GetUserFromContext(r)
	if claims == nil {
		response.Error(w, r, logger, errors.Unauthorized("no user claims found in context"))
		return
	}

	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		response.Error(w, r, logger, errors.WrapValidation("invalid analysis ID format", err))
		return
	}

	if err := h.service.Delete(r.Context(), id, claims.UserID); err != nil {
		response.Error(w, r, logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *AnalysisHandler) Import(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "import_analysis")

	claims := middleware.GetUserFromContext(r)
	if claims == nil {
		response.Error(w, r, logger, errors.Unauthorized("no user claims found in context"))
		return
	}

	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, validation.MaxBodyBytes))
	if err != nil {
		response.Error(w, r, logger, errors.WrapValidation("failed to read import file", err))
		return
	}

	history, err := h.service.Import(r.Context(), claims.UserID, data)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, history)
}
