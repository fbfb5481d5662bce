package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dtroode/enrollment-server/internal/model"
)

// Error kinds exposed to clients.
const (
	KindValidation   = "validation_error"
	KindConflict     = "conflict"
	KindInvalidToken = "invalid_token"
	KindTokenExpired = "token_expired"
	KindUnauthorized = "unauthorized"
	KindNotFound     = "not_found"
	KindInternal     = "internal_error"
)

// Response is the success envelope.
type Response struct {
	StatusCode int    `json:"status_code"`
	Data       any    `json:"data"`
	Message    string `json:"message"`
	Success    bool   `json:"success"`
}

// ErrorResponse is the failure envelope. It never carries internal detail.
type ErrorResponse struct {
	StatusCode int    `json:"status_code"`
	Kind       string `json:"kind"`
	Message    string `json:"message"`
	Success    bool   `json:"success"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// WriteData writes a success envelope.
func WriteData(w http.ResponseWriter, status int, data any, message string) {
	writeJSON(w, status, Response{
		StatusCode: status,
		Data:       data,
		Message:    message,
		Success:    true,
	})
}

// WriteError writes a failure envelope with an explicit kind.
func WriteError(w http.ResponseWriter, status int, kind, message string) {
	writeJSON(w, status, ErrorResponse{
		StatusCode: status,
		Kind:       kind,
		Message:    message,
		Success:    false,
	})
}

// WriteServiceError classifies err and writes the matching failure envelope.
func WriteServiceError(w http.ResponseWriter, err error) {
	status, kind, message := classify(err)
	WriteError(w, status, kind, message)
}

func classify(err error) (int, string, string) {
	switch {
	case errors.Is(err, model.ErrValidation):
		return http.StatusBadRequest, KindValidation, "request validation failed"
	case errors.Is(err, model.ErrConflict):
		return http.StatusConflict, KindConflict, "user with email or username already exists"
	case errors.Is(err, model.ErrTokenExpired):
		return http.StatusBadRequest, KindTokenExpired, "verification token has expired"
	case errors.Is(err, model.ErrInvalidToken), errors.Is(err, model.ErrMalformedToken):
		return http.StatusBadRequest, KindInvalidToken, "verification token is invalid"
	case errors.Is(err, model.ErrNotFound):
		return http.StatusNotFound, KindNotFound, "resource not found"
	default:
		return http.StatusInternalServerError, KindInternal, "internal server error"
	}
}
