// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package webhooks

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.uber.org/mock/gomock"

	"github.com/canonical/assessment-service/internal/apperrors"
	"github.com/canonical/assessment-service/internal/logging"
	"github.com/canonical/assessment-service/internal/monitoring"
	"github.com/canonical/assessment-service/internal/tracing"
	"github.com/canonical/assessment-service/internal/types"
)

func TestAPI_Registration(t *testing.T) {
	const apiKey = "hook-secret"

	tests := []struct {
		name           string
		requestBody    interface{}
		authorization  string
		setupMocks     func(*MockServiceInterface)
		expectedStatus int
	}{
		{
			name:          "success",
			authorization: apiKey,
			requestBody: map[string]any{
				"id":         "identity-123",
				"schema_id":  "default",
				"traits":     map[string]any{"email": "user@example.com", "name": "ignored"},
				"created_at": "2026-01-01T00:00:00Z",
			},
			setupMocks: func(mockSvc *MockServiceInterface) {
				mockSvc.EXPECT().HandleRegistration(gomock.Any(), "identity-123", "user@example.com").
					Return(&types.Profile{UserID: "identity-123", OrganizationID: "org-1", Role: types.RoleAdmin}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "missing credentials",
			requestBody:    KratosIdentity{ID: "identity-123", Traits: KratosTraits{Email: "user@example.com"}},
			setupMocks:     func(mockSvc *MockServiceInterface) {},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "wrong credentials",
			authorization:  "guess",
			requestBody:    KratosIdentity{ID: "identity-123", Traits: KratosTraits{Email: "user@example.com"}},
			setupMocks:     func(mockSvc *MockServiceInterface) {},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "invalid request body",
			authorization:  apiKey,
			requestBody:    "not-json",
			setupMocks:     func(mockSvc *MockServiceInterface) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:          "invalid identity",
			authorization: apiKey,
			requestBody:   KratosIdentity{ID: "identity-456"},
			setupMocks: func(mockSvc *MockServiceInterface) {
				mockSvc.EXPECT().HandleRegistration(gomock.Any(), "identity-456", "").Return(nil, apperrors.ErrInvalidInput)
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:          "service error",
			authorization: apiKey,
			requestBody:   KratosIdentity{ID: "identity-456", Traits: KratosTraits{Email: "error@example.com"}},
			setupMocks: func(mockSvc *MockServiceInterface) {
				mockSvc.EXPECT().HandleRegistration(gomock.Any(), "identity-456", "error@example.com").Return(nil, errors.New("service error"))
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			logger := logging.NewNoopLogger()
			mockService := NewMockServiceInterface(ctrl)
			tt.setupMocks(mockService)

			api := NewAPI(mockService, apiKey, tracing.NewNoopTracer(), monitoring.NewNoopMonitor("test", logger), logger)

			var body []byte
			var err error
			if str, ok := tt.requestBody.(string); ok {
				body = []byte(str)
			} else {
				body, err = json.Marshal(tt.requestBody)
				if err != nil {
					t.Fatalf("failed to marshal request: %v", err)
				}
			}

			req := httptest.NewRequest(http.MethodPost, "/api/v0/webhooks/registration", bytes.NewBuffer(body))
			if tt.authorization != "" {
				req.Header.Set("Authorization", tt.authorization)
			}
			w := httptest.NewRecorder()

			mux := chi.NewMux()
			api.RegisterEndpoints(mux)
			mux.ServeHTTP(w, req)

			res := w.Result()
			defer res.Body.Close()

			if res.StatusCode != tt.expectedStatus {
				body, _ := io.ReadAll(res.Body)
				t.Errorf("expected status %d, got %d. Body: %s", tt.expectedStatus, res.StatusCode, string(body))
			}
		})
	}
}
