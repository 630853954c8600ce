package response

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/clarainova/clara-backend/internal/entity"
)

// ErrorResponse is the shared error body shape: a human-readable message
// plus a stable machine code.
type ErrorResponse struct {
	Error string           `json:"error"`
	Code  entity.ErrorCode `json:"code,omitempty"`
}

// JSON writes a JSON response
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// Can't change response at this point
			http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		}
	}
}

// Error writes an error response with a stable code
func Error(w http.ResponseWriter, status int, message string, code entity.ErrorCode) {
	JSON(w, status, ErrorResponse{Error: message, Code: code})
}

// RateLimited writes a 429 with the computed Retry-After hint.
func RateLimited(w http.ResponseWriter, retryAfterSeconds int) {
	if retryAfterSeconds < 1 {
		retryAfterSeconds = 1
	}
	w.Header().Set("Retry-After", strconv.Itoa(retryAfterSeconds))
	Error(w, http.StatusTooManyRequests, "muitas solicitações, aguarde e tente novamente", entity.CodeRateLimited)
}

// Success writes a success response
func Success(w http.ResponseWriter, data any) {
	JSON(w, http.StatusOK, data)
}

// Created writes a 201 Created response
func Created(w http.ResponseWriter, data any) {
	JSON(w, http.StatusCreated, data)
}

// Accepted writes a 202 Accepted response
func Accepted(w http.ResponseWriter, data any) {
	JSON(w, http.StatusAccepted, data)
}

// NoContent writes a 204 No Content response
func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}
