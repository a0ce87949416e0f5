package middleware

import (
	"encoding/json"
	"net/http"
)

// Error codes used by middleware (lower_snake_case convention)
const (
	ErrorCodeUnauthorized        = "unauthorized"
	ErrorCodeInvalidToken        = "invalid_token"
	ErrorCodeTokenExpired        = "token_expired"
	ErrorCodeServiceUnavailable  = "service_unavailable"
	ErrorCodeInternalServerError = "internal_server_error"
)

// WriteJSONError writes a JSON error response in the same envelope the
// REST handlers use.
func WriteJSONError(w http.ResponseWriter, code string, message string, status int) {
	WriteJSONErrorWithDetails(w, code, message, status, nil)
}

// WriteJSONErrorWithDetails writes a JSON error response with extra top-level fields.
func WriteJSONErrorWithDetails(w http.ResponseWriter, code string, message string, status int, details map[string]any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	errorResp := make(map[string]any, len(details)+2)
	for k, v := range details {
		errorResp[k] = v
	}
	errorResp["error"] = code
	errorResp["message"] = message

	// already in error handling; nothing useful to do with an encode failure
	_ = json.NewEncoder(w).Encode(errorResp)
}
