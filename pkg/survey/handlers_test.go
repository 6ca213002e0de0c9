// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package survey

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.uber.org/mock/gomock"

	"github.com/canonical/assessment-service/internal/apperrors"
	httptypes "github.com/canonical/assessment-service/internal/http/types"
	"github.com/canonical/assessment-service/internal/identity"
	"github.com/canonical/assessment-service/internal/logging"
	"github.com/canonical/assessment-service/internal/monitoring"
	"github.com/canonical/assessment-service/internal/tracing"
	"github.com/canonical/assessment-service/internal/types"
)

func TestAPI(t *testing.T) {
	p := types.Principal{UserID: "manager-1", OrganizationID: "org-a", Role: types.RoleManager}

	testCases := []struct {
		name           string
		method         string
		url            string
		body           string
		setupMocks     func(*MockServiceInterface)
		expectedStatus int
	}{
		{
			name:   "list questionnaires",
			method: http.MethodGet,
			url:    "/api/v0/questionnaires?page=2&size=5",
			setupMocks: func(s *MockServiceInterface) {
				s.EXPECT().ListQuestionnaires(gomock.Any(), p, int64(2), int64(5)).Return([]*types.Questionnaire{}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:   "create questionnaire",
			method: http.MethodPost,
			url:    "/api/v0/questionnaires",
			body:   `{"title":"Pulse","questions":[{"category":"workload","text":"Manageable","scale_points":5}]}`,
			setupMocks: func(s *MockServiceInterface) {
				s.EXPECT().CreateQuestionnaire(gomock.Any(), p, gomock.Any()).
					DoAndReturn(func(_ context.Context, _ types.Principal, q *types.Questionnaire) (*types.Questionnaire, error) {
						if len(q.Questions) != 1 || q.Questions[0].ScalePoints != 5 {
							t.Errorf("unexpected questions %+v", q.Questions)
						}
						return &types.Questionnaire{ID: "q-1", Title: q.Title}, nil
					})
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "create questionnaire without questions",
			method:         http.MethodPost,
			url:            "/api/v0/questionnaires",
			body:           `{"title":"Pulse","questions":[]}`,
			setupMocks:     func(s *MockServiceInterface) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "create questionnaire with organization override",
			method:         http.MethodPost,
			url:            "/api/v0/questionnaires",
			body:           `{"title":"Pulse","organization_id":"org-b","questions":[{"category":"c","text":"t","scale_points":5}]}`,
			setupMocks:     func(s *MockServiceInterface) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:   "foreign questionnaire",
			method: http.MethodGet,
			url:    "/api/v0/questionnaires/q-b",
			setupMocks: func(s *MockServiceInterface) {
				s.EXPECT().GetQuestionnaire(gomock.Any(), p, "q-b").Return(nil, apperrors.ErrNotFound)
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:   "update questionnaire",
			method: http.MethodPatch,
			url:    "/api/v0/questionnaires/q-1",
			body:   `{"title":"Pulse Q3","update_mask":["title"]}`,
			setupMocks: func(s *MockServiceInterface) {
				s.EXPECT().UpdateQuestionnaire(gomock.Any(), p, &types.Questionnaire{ID: "q-1", Title: "Pulse Q3"}, []string{"title"}).
					Return(&types.Questionnaire{ID: "q-1", Title: "Pulse Q3"}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:   "create assessment",
			method: http.MethodPost,
			url:    "/api/v0/assessments",
			body:   `{"title":"Q3","questionnaire_id":"q-1","department_id":"dep-1"}`,
			setupMocks: func(s *MockServiceInterface) {
				s.EXPECT().CreateAssessment(gomock.Any(), p, &types.Assessment{Title: "Q3", QuestionnaireID: "q-1", DepartmentID: "dep-1"}).
					Return(&types.Assessment{ID: "as-1", Status: types.AssessmentDraft}, nil)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:   "viewer creates assessment",
			method: http.MethodPost,
			url:    "/api/v0/assessments",
			body:   `{"title":"Q3","questionnaire_id":"q-1"}`,
			setupMocks: func(s *MockServiceInterface) {
				s.EXPECT().CreateAssessment(gomock.Any(), p, gomock.Any()).Return(nil, apperrors.ErrForbidden)
			},
			expectedStatus: http.StatusForbidden,
		},
		{
			name:   "activate",
			method: http.MethodPost,
			url:    "/api/v0/assessments/as-1/status",
			body:   `{"status":"active"}`,
			setupMocks: func(s *MockServiceInterface) {
				s.EXPECT().Transition(gomock.Any(), p, "as-1", types.AssessmentActive).
					Return(&types.Assessment{ID: "as-1", Status: types.AssessmentActive}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "unknown status",
			method:         http.MethodPost,
			url:            "/api/v0/assessments/as-1/status",
			body:           `{"status":"paused"}`,
			setupMocks:     func(s *MockServiceInterface) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:   "concurrent transition",
			method: http.MethodPost,
			url:    "/api/v0/assessments/as-1/status",
			body:   `{"status":"completed"}`,
			setupMocks: func(s *MockServiceInterface) {
				s.EXPECT().Transition(gomock.Any(), p, "as-1", types.AssessmentCompleted).Return(nil, apperrors.ErrConflict)
			},
			expectedStatus: http.StatusConflict,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			logger := logging.NewNoopLogger()
			mockService := NewMockServiceInterface(ctrl)
			tc.setupMocks(mockService)

			mux := chi.NewMux()
			NewAPI(mockService, tracing.NewNoopTracer(), monitoring.NewNoopMonitor("test", logger), logger).RegisterEndpoints(mux)

			req := httptest.NewRequest(tc.method, tc.url, strings.NewReader(tc.body))
			req = req.WithContext(identity.WithPrincipal(req.Context(), p))

			rr := httptest.NewRecorder()
			mux.ServeHTTP(rr, req)

			if rr.Code != tc.expectedStatus {
				t.Errorf("expected status %d, got %d: %s", tc.expectedStatus, rr.Code, rr.Body.String())
			}
		})
	}
}

func TestAPI_ListMeta(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	logger := logging.NewNoopLogger()
	p := types.Principal{UserID: "viewer-1", OrganizationID: "org-a", Role: types.RoleViewer}

	mockService := NewMockServiceInterface(ctrl)
	mockService.EXPECT().ListAssessments(gomock.Any(), p, int64(3), int64(20)).
		Return([]*types.Assessment{{ID: "as-1"}}, nil)

	mux := chi.NewMux()
	NewAPI(mockService, tracing.NewNoopTracer(), monitoring.NewNoopMonitor("test", logger), logger).RegisterEndpoints(mux)

	req := httptest.NewRequest(http.MethodGet, "/api/v0/assessments?page=3&size=20", nil)
	req = req.WithContext(identity.WithPrincipal(req.Context(), p))

	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}

	var resp httptypes.Response
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Meta == nil || resp.Meta.Page != 3 || resp.Meta.Size != 20 {
		t.Errorf("unexpected meta %+v", resp.Meta)
	}
}

func TestAPI_Unauthenticated(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	logger := logging.NewNoopLogger()

	mux := chi.NewMux()
	NewAPI(NewMockServiceInterface(ctrl), tracing.NewNoopTracer(), monitoring.NewNoopMonitor("test", logger), logger).RegisterEndpoints(mux)

	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v0/assessments", nil))

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("expected status 401, got %d", rr.Code)
	}
}
