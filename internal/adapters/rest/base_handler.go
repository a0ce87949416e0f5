package rest

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/philly/chirp/internal/adapters/rest/middleware"
	"github.com/philly/chirp/internal/platform/apperror"
	"github.com/philly/chirp/internal/platform/logger"
)

// ErrorResponse is the JSON error envelope every endpoint writes.
type ErrorResponse struct {
	Error        string `json:"error"`
	BusinessCode string `json:"business_code,omitempty"`
	Message      string `json:"message"`
	Context      any    `json:"context,omitempty"`
}

// BaseHandler contains common dependencies and helper methods for all handlers
type BaseHandler struct {
	logger logger.Logger
}

// NewBaseHandler creates a new base handler with common dependencies
func NewBaseHandler(logger logger.Logger) *BaseHandler {
	return &BaseHandler{
		logger: logger,
	}
}

// WriteJSONError writes a JSON error response
func (h *BaseHandler) WriteJSONError(w http.ResponseWriter, r *http.Request, code string, message string, statusCode int) {
	h.writeError(w, r, ErrorResponse{Error: code, Message: message}, statusCode)
}

// WriteJSONResponse writes a successful JSON response
func (h *BaseHandler) WriteJSONResponse(w http.ResponseWriter, r *http.Request, data any, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if data == nil || statusCode == http.StatusNoContent {
		return
	}
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error(r.Context(), "failed to encode response",
			"error", err,
			"status_code", statusCode,
		)
	}
}

// HandleError maps an error to the JSON envelope. AppErrors keep their code,
// business code and details; anything else becomes a 500.
func (h *BaseHandler) HandleError(w http.ResponseWriter, r *http.Request, err error) {
	appErr, ok := apperror.As(err)
	if !ok {
		h.logger.Error(r.Context(), "unhandled error", "error", err)
		h.writeError(w, r, ErrorResponse{
			Error:   string(apperror.CodeInternalError),
			Message: "internal server error",
		}, http.StatusInternalServerError)
		return
	}

	status := appErr.HTTPStatus
	if status == 0 {
		status = http.StatusInternalServerError
	}
	if status >= http.StatusInternalServerError {
		h.logger.Error(r.Context(), "request failed", "error", err, "business_code", appErr.BusinessCode)
	}

	h.writeError(w, r, ErrorResponse{
		Error:        string(appErr.Code),
		BusinessCode: string(appErr.BusinessCode),
		Message:      appErr.Message,
		Context:      appErr.Details,
	}, status)
}

// ParseUUID parses value as a UUID, writing a 400 response when it is not one.
func (h *BaseHandler) ParseUUID(w http.ResponseWriter, r *http.Request, value string, paramName string) (uuid.UUID, bool) {
	id, err := uuid.Parse(value)
	if err != nil {
		h.WriteJSONError(w, r, "invalid_request", "Invalid "+paramName, http.StatusBadRequest)
		return uuid.Nil, false
	}
	return id, true
}

// GetUserIDFromContext returns the internal user ID set by the auth adapter.
// It panics when called on a route without authentication middleware.
func (h *BaseHandler) GetUserIDFromContext(r *http.Request) uuid.UUID {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		panic("rest: user ID missing from context; route is not behind the auth adapter")
	}
	return userID
}

func (h *BaseHandler) writeError(w http.ResponseWriter, r *http.Request, body ErrorResponse, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error(r.Context(), "failed to encode error response",
			"error", err,
			"error_code", body.Error,
			"status_code", statusCode,
		)
	}
}
