// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package types

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/canonical/assessment-service/internal/apperrors"
	"github.com/canonical/assessment-service/internal/logging"
)

// RetryAfterSeconds is advertised when the store is unavailable.
const RetryAfterSeconds = 5

// Pagination mirrors the page/size query parameters of list endpoints.
type Pagination struct {
	Page int64 `json:"page"`
	Size int64 `json:"size"`
}

// Response is the envelope for every successful JSON answer.
type Response struct {
	Data    any         `json:"data"`
	Message string      `json:"message"`
	Status  int         `json:"status"`
	Meta    *Pagination `json:"_meta,omitempty"`
}

// ErrorResponse is the envelope for every failed JSON answer. Message never
// carries resource names or data from another organization.
type ErrorResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

// ErrorStatus maps the application error taxonomy onto an HTTP status and a
// neutral message. Validation messages are the only ones passed through.
func ErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, apperrors.ErrUnauthenticated):
		return http.StatusUnauthorized, "access denied"
	case errors.Is(err, apperrors.ErrForbidden):
		return http.StatusForbidden, "not permitted"
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound, "not found"
	case errors.Is(err, apperrors.ErrInvalidInput):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, apperrors.ErrConflict):
		return http.StatusConflict, err.Error()
	case errors.Is(err, apperrors.ErrStoreUnavailable):
		return http.StatusServiceUnavailable, "service temporarily unavailable"
	}
	return http.StatusInternalServerError, "internal error"
}

// WriteJSON writes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteData wraps data in a Response envelope.
func WriteData(w http.ResponseWriter, status int, data any, meta *Pagination) {
	WriteJSON(w, status, Response{
		Data:    data,
		Message: http.StatusText(status),
		Status:  status,
		Meta:    meta,
	})
}

// WriteError maps err and writes an ErrorResponse. Unexpected errors are
// logged with their full chain, the client only sees the neutral message.
func WriteError(w http.ResponseWriter, err error, logger logging.LoggerInterface) {
	status, message := ErrorStatus(err)

	switch status {
	case http.StatusInternalServerError:
		logger.Errorf("request failed: %v", err)
	case http.StatusServiceUnavailable:
		logger.Warnf("store unavailable: %v", err)
		w.Header().Set("Retry-After", strconv.Itoa(RetryAfterSeconds))
	}

	WriteJSON(w, status, ErrorResponse{Status: status, Message: message})
}
