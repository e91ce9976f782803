// Package response provides shared JSON response helpers for HTTP handlers.
package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"runtime/debug"

	"github.com/filedrop/service/internal/errdefs"
)

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Error   string `json:"error" example:"fileName is required"`
	Details any    `json:"details,omitempty"`
	Stack   string `json:"stack,omitempty"`
	Size    int64  `json:"size,omitempty"`
	Limit   int64  `json:"limit,omitempty"`
}

// JSON writes a JSON-encoded payload with the given HTTP status code.
func JSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// OK writes a 200 response with payload as the body.
func OK(w http.ResponseWriter, payload any) {
	JSON(w, http.StatusOK, payload)
}

// Created writes a 201 response with payload as the body.
func Created(w http.ResponseWriter, payload any) {
	JSON(w, http.StatusCreated, payload)
}

// Error writes an error response with the given status and message.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, ErrorBody{Error: message})
}

// BadRequest writes a 400 response.
func BadRequest(w http.ResponseWriter, message string) {
	Error(w, http.StatusBadRequest, message)
}

// NotFound writes a 404 response.
func NotFound(w http.ResponseWriter, message string) {
	Error(w, http.StatusNotFound, message)
}

// Unexpected writes a 500 response for an error outside the taxonomy.
// The stack is included only when withStack is set (development).
func Unexpected(w http.ResponseWriter, message string, withStack bool) {
	body := ErrorBody{Error: "Server error: " + message}
	if withStack {
		body.Stack = string(debug.Stack())
	}
	JSON(w, http.StatusInternalServerError, body)
}

// FromError maps err onto the error taxonomy and writes the matching
// response. prefix labels backend failures, e.g. "Insert failed".
func FromError(w http.ResponseWriter, err error, prefix string, withStack bool) {
	var sizeErr *errdefs.SizeLimitError
	var opErr *errdefs.OperationError

	switch {
	case errors.As(err, &sizeErr):
		JSON(w, http.StatusRequestEntityTooLarge, ErrorBody{
			Error: sizeErr.Error(),
			Size:  sizeErr.Size,
			Limit: sizeErr.Limit,
		})
	case errors.Is(err, errdefs.ErrValidation):
		BadRequest(w, unwrapMessage(err))
	case errors.Is(err, errdefs.ErrNotFound):
		NotFound(w, unwrapMessage(err))
	case errors.Is(err, errdefs.ErrBackendConfig):
		Error(w, http.StatusInternalServerError, unwrapMessage(err))
	case errors.As(err, &opErr):
		JSON(w, http.StatusInternalServerError, ErrorBody{
			Error:   prefix + ": " + opErr.Err.Error(),
			Details: opErr.Details(),
		})
	default:
		Unexpected(w, err.Error(), withStack)
	}
}

// unwrapMessage strips the trailing ": <sentinel>" that %w wrapping adds, so
// clients see "fileName is required" rather than "fileName is required:
// validation error".
func unwrapMessage(err error) string {
	msg := err.Error()
	for _, sentinel := range []error{errdefs.ErrValidation, errdefs.ErrNotFound, errdefs.ErrBackendConfig} {
		suffix := ": " + sentinel.Error()
		if len(msg) > len(suffix) && msg[len(msg)-len(suffix):] == suffix {
			return msg[:len(msg)-len(suffix)]
		}
	}
	return msg
}
