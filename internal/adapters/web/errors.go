package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"dairyfarm/internal/core"
)

type errorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	RequestID string `json:"requestId,omitempty"`
}

// writeError writes a structured JSON error response.
func writeError(w http.ResponseWriter, r *http.Request, message, code string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	resp := errorResponse{
		Error:     message,
		Code:      code,
		RequestID: requestIDFromContext(r.Context()),
	}
	_ = json.NewEncoder(w).Encode(resp)
}

// writeJSON writes a JSON response with status 200.
func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// serviceError maps domain errors to HTTP responses. Unrecognized errors fall
// through as 500 with the raw error text in the body.
func serviceError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		validationErr *core.ValidationError
		notFoundErr   *core.NotFoundError
		authErr       *core.AuthError
	)
	switch {
	case errors.As(err, &validationErr):
		writeError(w, r, validationErr.Msg, "BAD_REQUEST", http.StatusBadRequest)
	case errors.As(err, &notFoundErr):
		writeError(w, r, notFoundErr.Msg, "NOT_FOUND", http.StatusNotFound)
	case errors.As(err, &authErr):
		writeError(w, r, authErr.Msg, "UNAUTHORIZED", http.StatusUnauthorized)
	case errors.Is(err, core.ErrEmailTaken):
		writeError(w, r, "User with this email already exists", "CONFLICT", http.StatusConflict)
	default:
		writeError(w, r, err.Error(), "INTERNAL_ERROR", http.StatusInternalServerError)
	}
}
