package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"georag/internal/contextutil"
	"georag/internal/domain"
	"georag/internal/service"
)

// ErrorResponse represents an error response.
//
// swagger:model ErrorResponse
type ErrorResponse struct {
	Error string `json:"error"`
}

// statusForError maps service and engine errors to HTTP status codes and client messages.
func statusForError(err error) (int, string) {
	var validationErr *service.ValidationError
	switch {
	case errors.As(err, &validationErr):
		return http.StatusBadRequest, validationErr.Error()
	case errors.Is(err, service.ErrInvalidInput):
		return http.StatusBadRequest, "Invalid request"
	case errors.Is(err, domain.ErrEmptyCorpus):
		return http.StatusConflict, "Corpus is empty; index documents first"
	case errors.Is(err, domain.ErrRecognitionUnavailable):
		return http.StatusServiceUnavailable, "Entity recognizer unavailable"
	case errors.Is(err, domain.ErrGraphUnavailable):
		return http.StatusServiceUnavailable, "Graph store unavailable"
	case errors.Is(err, domain.ErrRetrievalUnavailable):
		return http.StatusServiceUnavailable, "Vector store unavailable"
	case errors.Is(err, service.ErrExternalService):
		return http.StatusBadGateway, "External service error"
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "Request timed out"
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}

// handleServiceError logs err and writes the mapped error response.
func handleServiceError(ctx context.Context, w http.ResponseWriter, err error) {
	logger := contextutil.LoggerFromContext(ctx)
	status, msg := statusForError(err)
	if status >= http.StatusInternalServerError {
		logger.ErrorContext(ctx, "request failed", "status", status, "error", err)
	} else {
		logger.WarnContext(ctx, "request rejected", "status", status, "error", err)
	}
	writeError(w, status, msg)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(ErrorResponse{
		Error: message,
	})
}

// writeJSON writes a 200 JSON response.
func writeJSON(ctx context.Context, w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		contextutil.LoggerFromContext(ctx).ErrorContext(ctx, "failed to encode response", "error", err)
	}
}
