package response

import (
	"log/slog"
	"net/http"

	"lunarbase-server/internal/shared/errors"

	"github.com/goccy/go-json"
)

// RequestIDHeader carries the per-request correlation id
const RequestIDHeader = "X-Request-ID"

// ErrorResponse is the JSON body of every failed request.
type ErrorResponse struct {
	Error     string `json:"error"`
	Message   string `json:"message"`
	Code      int    `json:"code"`
	RequestID string `json:"request_id,omitempty"`
}

type errorClass struct {
	status int
	level  slog.Level
	msg    string
}

var errorClasses = map[errors.ErrorType]errorClass{
	errors.ErrorTypeNotFound:     {http.StatusNotFound, slog.LevelDebug, "Resource not found"},
	errors.ErrorTypeValidation:   {http.StatusBadRequest, slog.LevelDebug, "Validation error"},
	errors.ErrorTypeConflict:     {http.StatusConflict, slog.LevelInfo, "Conflict error"},
	errors.ErrorTypeUnauthorized: {http.StatusUnauthorized, slog.LevelWarn, "Authorization error"},
	errors.ErrorTypeForbidden:    {http.StatusForbidden, slog.LevelWarn, "Authorization error"},
	errors.ErrorTypeExternal:     {http.StatusServiceUnavailable, slog.LevelError, "External service error"},
}

var internalClass = errorClass{http.StatusInternalServerError, slog.LevelError, "Internal server error"}

func classify(err error) (errors.ErrorType, errorClass) {
	errorType := errors.GetType(err)
	if class, ok := errorClasses[errorType]; ok {
		return errorType, class
	}
	return errorType, internalClass
}

// Error logs err and answers with its message. This is the only place
// request errors get logged.
func Error(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	ErrorWithMessage(w, r, logger, err, err.Error())
}

// ErrorWithMessage is Error with a client message that hides the cause.
func ErrorWithMessage(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error, clientMessage string) {
	errorType, class := classify(err)
	requestID := r.Header.Get(RequestIDHeader)

	logger.Log(r.Context(), class.level, class.msg,
		"method", r.Method,
		"path", r.URL.Path,
		"remote_addr", r.RemoteAddr,
		"request_id", requestID,
		"error_type", errorType,
		"status_code", class.status,
		"error", err,
	)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(class.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{
		Error:     string(errorType),
		Message:   clientMessage,
		Code:      class.status,
		RequestID: requestID,
	})
}

// Attachment sends pre-encoded JSON as a downloadable file
func Attachment(w http.ResponseWriter, filename string, data []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// Success sends a JSON success response to the client
func Success(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}
