package handlers

import (
	"io"
	"log/slog"
	"net/http"

	"lunarbase-server/internal/facility"
	"lunarbase-server/internal/layout"
	"lunarbase-server/internal/middleware"
	"lunarbase-server/internal/shared/errors"
	"lunarbase-server/internal/shared/response"
	"lunarbase-server/internal/shared/validation"
)

// maxImportBytes bounds an uploaded layout file.
const maxImportBytes = 4 << 20

type LayoutHandler struct {
	service *layout.Service
}

func NewLayoutHandler(service *layout.Service) *LayoutHandler {
	return &LayoutHandler{service: service}
}

func (h *LayoutHandler) FacilityTypes(w http.ResponseWriter, r *http.Request) {
	response.Success(w, http.StatusOK, facility.Catalog())
}

func (h *LayoutHandler) Get(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "get_layout")

	claims := middleware.GetUserFromContext(r)
	if claims == nil {
		response.Error(w, r, logger, errors.Unauthorized("no user claims found in context"))
		return
	}

	sess, err := h.service.Current(r.Context(), claims.UserID)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, sess)
}

func (h *LayoutHandler) Place(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "place_object")

	claims := middleware.GetUserFromContext(r)
	if claims == nil {
		response.Error(w, r, logger, errors.Unauthorized("no user claims found in context"))
		return
	}

	var req layout.Candidate
	if err := validation.Decode(w, r, &req); err != nil {
		response.Error(w, r, logger, err)
		return
	}

	result, err := h.service.Place(r.Context(), claims.UserID, req)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusCreated, result)
}

func (h *LayoutHandler) Reset(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "reset_layout")

	claims := middleware.GetUserFromContext(r)
	if claims == nil {
		response.Error(w, r, logger, errors.Unauthorized("no user claims found in context"))
		return
	}

	sess, err := h.service.Reset(r.Context(), claims.UserID)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, sess)
}

func (h *LayoutHandler) Save(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "save_layout")

	claims := middleware.GetUserFromContext(r)
	if claims == nil {
		response.Error(w, r, logger, errors.Unauthorized("no user claims found in context"))
		return
	}

	sess, err := h.service.Save(r.Context(), claims.UserID)
	if err != nil {
		response.ErrorWithMessage(w, r, logger, err, "could not save layout")
		return
	}

	response.Success(w, http.StatusOK, sess)
}

func (h *LayoutHandler) Load(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "load_layout")

	claims := middleware.GetUserFromContext(r)
	if claims == nil {
		response.Error(w, r, logger, errors.Unauthorized("no user claims found in context"))
		return
	}

	sess, err := h.service.Load(r.Context(), claims.UserID)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, sess)
}

func (h *LayoutHandler) Export(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "export_layout")

	claims := middleware.GetUserFromContext(r)
	if claims == nil {
		response.Error(w, r, logger, errors.Unauthorized("no user claims found in context"))
		return
	}

	data, err := h.service.Export(r.Context(), claims.UserID)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Attachment(w, layout.ExportFilename, data)
}

// Import accepts the exported array as the raw request body.
func (h *LayoutHandler) Import(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "import_layout")

	claims := middleware.GetUserFromContext(r)
	if claims == nil {
		response.Error(w, r, logger, errors.Unauthorized("no user claims found in context"))
		return
	}

	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxImportBytes))
	if err != nil {
		response.Error(w, r, logger, errors.WrapValidation("failed to read layout file", err))
		return
	}

	result, err := h.service.Import(r.Context(), claims.UserID, data)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, result)
}

func (h *LayoutHandler) Safety(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "layout_safety")

	claims := middleware.GetUserFromContext(r)
	if claims == nil {
		response.Error(w, r, logger, errors.Unauthorized("no user claims found in context"))
		return
	}

	report, err := h.service.Safety(r.Context(), claims.UserID)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, report)
}

func (h *LayoutHandler) List(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "list_layouts")

	summaries, err := h.service.List(r.Context())
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	logger.Debug("Layout list completed", "layout_count", len(summaries))
	response.Success(w, http.StatusOK, summaries)
}
