// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package types

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/canonical/assessment-service/internal/apperrors"
	"github.com/canonical/assessment-service/internal/logging"
)

func TestErrorStatus(t *testing.T) {
	tests := []struct {
		name            string
		err             error
		expectedStatus  int
		expectedMessage string
	}{
		{"unauthenticated", apperrors.ErrUnauthenticated, http.StatusUnauthorized, "access denied"},
		{"forbidden", fmt.Errorf("update organization org-b: %w", apperrors.ErrForbidden), http.StatusForbidden, "not permitted"},
		{"not found hides detail", fmt.Errorf("questionnaire Secret Survey: %w", apperrors.ErrNotFound), http.StatusNotFound, "not found"},
		{"invalid input", fmt.Errorf("%w: value out of range", apperrors.ErrInvalidInput), http.StatusBadRequest, "invalid input: value out of range"},
		{"conflict", fmt.Errorf("%w: last admin", apperrors.ErrConflict), http.StatusConflict, "conflict: last admin"},
		{"unavailable", fmt.Errorf("query: %w", apperrors.ErrStoreUnavailable), http.StatusServiceUnavailable, "service temporarily unavailable"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "internal error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, message := ErrorStatus(tt.err)
			if status != tt.expectedStatus {
				t.Errorf("expected status %d, got %d", tt.expectedStatus, status)
			}
			if message != tt.expectedMessage {
				t.Errorf("expected message %q, got %q", tt.expectedMessage, message)
			}
		})
	}
}

func TestWriteError(t *testing.T) {
	rr := httptest.NewRecorder()

	WriteError(rr, fmt.Errorf("organization Acme: %w", apperrors.ErrStoreUnavailable), logging.NewNoopLogger())

	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected status 503, got %d", rr.Code)
	}
	if rr.Header().Get("Retry-After") == "" {
		t.Error("expected Retry-After header")
	}
	if strings.Contains(rr.Body.String(), "Acme") {
		t.Errorf("error body leaks resource name: %s", rr.Body.String())
	}

	var body ErrorResponse
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body.Status != http.StatusServiceUnavailable {
		t.Errorf("expected status field 503, got %d", body.Status)
	}
}
