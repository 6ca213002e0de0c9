// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package survey

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/mock/gomock"

	"github.com/canonical/assessment-service/internal/apperrors"
	"github.com/canonical/assessment-service/internal/authorization"
	"github.com/canonical/assessment-service/internal/logging"
	"github.com/canonical/assessment-service/internal/monitoring"
	"github.com/canonical/assessment-service/internal/storage"
	"github.com/canonical/assessment-service/internal/tracing"
	"github.com/canonical/assessment-service/internal/types"
)

//go:generate mockgen -build_flags=--mod=mod -package survey -destination ./mock_survey.go -source=./interfaces.go

type fixture struct {
	store   *storage.MemoryStorage
	service *Service
	orgA    *types.Organization
	orgB    *types.Organization
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	logger := logging.NewNoopLogger()
	tracer := tracing.NewNoopTracer()
	monitor := monitoring.NewNoopMonitor("test", logger)

	store := storage.NewMemoryStorage(tracer, monitor, logger)

	ctx := context.Background()
	orgA, err := store.CreateOrganization(ctx, &types.Organization{Name: "Acme"})
	if err != nil {
		t.Fatalf("failed to create organization: %v", err)
	}
	orgB, err := store.CreateOrganization(ctx, &types.Organization{Name: "Globex"})
	if err != nil {
		t.Fatalf("failed to create organization: %v", err)
	}

	return &fixture{
		store:   store,
		service: NewService(store, authorization.NewAuthorizer(tracer, monitor, logger), tracer, monitor, logger),
		orgA:    orgA,
		orgB:    orgB,
	}
}

func manager(org *types.Organization) types.Principal {
	return types.Principal{UserID: "manager-" + org.ID, OrganizationID: org.ID, Role: types.RoleManager}
}

func questionnaire(title string) *types.Questionnaire {
	return &types.Questionnaire{
		Title: title,
		Questions: []*types.Question{
			{Category: "workload", Text: "My workload is manageable", ScalePoints: 5},
			{Category: "growth", Text: "I have room to grow", ScalePoints: 7},
		},
	}
}

func TestService_CreateQuestionnaire(t *testing.T) {
	testCases := []struct {
		name        string
		role        types.Role
		q           *types.Questionnaire
		expectedErr error
	}{
		{name: "manager", role: types.RoleManager, q: questionnaire("Pulse")},
		{name: "member is not permitted", role: types.RoleMember, q: questionnaire("Pulse"), expectedErr: apperrors.ErrForbidden},
		{name: "blank title", role: types.RoleAdmin, q: questionnaire("  "), expectedErr: apperrors.ErrInvalidInput},
		{name: "no questions", role: types.RoleAdmin, q: &types.Questionnaire{Title: "Empty"}, expectedErr: apperrors.ErrInvalidInput},
		{
			name: "scale too wide",
			role: types.RoleAdmin,
			q: &types.Questionnaire{Title: "Wide", Questions: []*types.Question{
				{Category: "c", Text: "t", ScalePoints: 12},
			}},
			expectedErr: apperrors.ErrInvalidInput,
		},
		{
			name: "missing category",
			role: types.RoleAdmin,
			q: &types.Questionnaire{Title: "NoCat", Questions: []*types.Question{
				{Text: "t", ScalePoints: 5},
			}},
			expectedErr: apperrors.ErrInvalidInput,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			p := types.Principal{UserID: "u", OrganizationID: f.orgA.ID, Role: tc.role}

			created, err := f.service.CreateQuestionnaire(context.Background(), p, tc.q)

			if tc.expectedErr != nil {
				if !errors.Is(err, tc.expectedErr) {
					t.Errorf("expected error %v, got %v", tc.expectedErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if created.OrganizationID != f.orgA.ID {
				t.Errorf("expected organization %s, got %s", f.orgA.ID, created.OrganizationID)
			}
			if len(created.Questions) != 2 {
				t.Errorf("expected 2 questions, got %d", len(created.Questions))
			}
		})
	}
}

func TestService_QuestionnairesAreTenantScoped(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	a, err := f.service.CreateQuestionnaire(ctx, manager(f.orgA), questionnaire("Pulse"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := f.service.CreateQuestionnaire(ctx, manager(f.orgB), questionnaire("Pulse")); err != nil {
		t.Fatalf("same title in another organization must be allowed, got %v", err)
	}

	list, err := f.service.ListQuestionnaires(ctx, manager(f.orgB), 0, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list) != 1 || list[0].OrganizationID != f.orgB.ID {
		t.Errorf("expected only the own questionnaire, got %+v", list)
	}

	if _, err := f.service.GetQuestionnaire(ctx, manager(f.orgB), a.ID); !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("expected ErrNotFound across organizations, got %v", err)
	}

	q := &types.Questionnaire{ID: a.ID, Title: "Hijacked"}
	if _, err := f.service.UpdateQuestionnaire(ctx, manager(f.orgB), q, []string{"title"}); !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("expected ErrNotFound on foreign update, got %v", err)
	}

	stored, err := f.store.GetQuestionnaire(ctx, f.orgA.ID, a.ID)
	if err != nil {
		t.Fatalf("failed to read questionnaire: %v", err)
	}
	if stored.Title != "Pulse" {
		t.Errorf("foreign update must not change the questionnaire, got %s", stored.Title)
	}
}

func TestService_UpdateQuestionnaire(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	q, err := f.service.CreateQuestionnaire(ctx, manager(f.orgA), questionnaire("Pulse"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := f.service.UpdateQuestionnaire(ctx, manager(f.orgA), &types.Questionnaire{ID: q.ID}, []string{"questions"}); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for questions path, got %v", err)
	}

	updated, err := f.service.UpdateQuestionnaire(ctx, manager(f.orgA), &types.Questionnaire{ID: q.ID, Title: "Pulse Q3", Description: "quarterly"}, []string{"title", "description"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Title != "Pulse Q3" || updated.Description != "quarterly" {
		t.Errorf("unexpected questionnaire %+v", updated)
	}
	if len(updated.Questions) != 2 {
		t.Errorf("questions must be kept, got %d", len(updated.Questions))
	}
}

func TestService_CreateAssessment(t *testing.T) {
	ctx := context.Background()

	testCases := []struct {
		name        string
		build       func(*fixture, *types.Questionnaire, *types.Questionnaire, *types.Department, *types.Department) *types.Assessment
		expectedErr error
	}{
		{
			name: "own references",
			build: func(_ *fixture, own, _ *types.Questionnaire, dep, _ *types.Department) *types.Assessment {
				return &types.Assessment{Title: "Q3", QuestionnaireID: own.ID, DepartmentID: dep.ID}
			},
		},
		{
			name: "organization wide",
			build: func(_ *fixture, own, _ *types.Questionnaire, _, _ *types.Department) *types.Assessment {
				return &types.Assessment{Title: "Q3", QuestionnaireID: own.ID}
			},
		},
		{
			name: "foreign questionnaire",
			build: func(_ *fixture, _, foreign *types.Questionnaire, dep, _ *types.Department) *types.Assessment {
				return &types.Assessment{Title: "Q3", QuestionnaireID: foreign.ID, DepartmentID: dep.ID}
			},
			expectedErr: apperrors.ErrInvalidInput,
		},
		{
			name: "foreign department",
			build: func(_ *fixture, own, _ *types.Questionnaire, _, foreign *types.Department) *types.Assessment {
				return &types.Assessment{Title: "Q3", QuestionnaireID: own.ID, DepartmentID: foreign.ID}
			},
			expectedErr: apperrors.ErrInvalidInput,
		},
		{
			name: "unknown questionnaire",
			build: func(_ *fixture, _, _ *types.Questionnaire, _, _ *types.Department) *types.Assessment {
				return &types.Assessment{Title: "Q3", QuestionnaireID: "missing"}
			},
			expectedErr: apperrors.ErrInvalidInput,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)

			own, err := f.service.CreateQuestionnaire(ctx, manager(f.orgA), questionnaire("Pulse"))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			foreign, err := f.service.CreateQuestionnaire(ctx, manager(f.orgB), questionnaire("Pulse"))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			dep, err := f.store.CreateDepartment(ctx, &types.Department{OrganizationID: f.orgA.ID, Name: "Ops"})
			if err != nil {
				t.Fatalf("failed to create department: %v", err)
			}
			foreignDep, err := f.store.CreateDepartment(ctx, &types.Department{OrganizationID: f.orgB.ID, Name: "Ops"})
			if err != nil {
				t.Fatalf("failed to create department: %v", err)
			}

			created, err := f.service.CreateAssessment(ctx, manager(f.orgA), tc.build(f, own, foreign, dep, foreignDep))

			if tc.expectedErr != nil {
				if !errors.Is(err, tc.expectedErr) {
					t.Errorf("expected error %v, got %v", tc.expectedErr, err)
				}
				if list, _ := f.store.ListAssessments(ctx, f.orgA.ID, 0, 0); len(list) != 0 {
					t.Errorf("rejected create must not store an assessment, got %d", len(list))
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if created.Status != types.AssessmentDraft {
				t.Errorf("expected draft, got %s", created.Status)
			}
			if created.OrganizationID != f.orgA.ID {
				t.Errorf("expected organization %s, got %s", f.orgA.ID, created.OrganizationID)
			}
		})
	}
}

func TestService_Transition(t *testing.T) {
	testCases := []struct {
		name        string
		path        []types.AssessmentStatus
		expectedErr error
	}{
		{name: "draft to active", path: []types.AssessmentStatus{types.AssessmentActive}},
		{name: "full lifecycle", path: []types.AssessmentStatus{types.AssessmentActive, types.AssessmentCompleted, types.AssessmentArchived}},
		{name: "draft to archived", path: []types.AssessmentStatus{types.AssessmentArchived}},
		{name: "draft to completed", path: []types.AssessmentStatus{types.AssessmentCompleted}, expectedErr: apperrors.ErrInvalidInput},
		{name: "reopen completed", path: []types.AssessmentStatus{types.AssessmentActive, types.AssessmentCompleted, types.AssessmentActive}, expectedErr: apperrors.ErrInvalidInput},
		{name: "archived is terminal", path: []types.AssessmentStatus{types.AssessmentArchived, types.AssessmentDraft}, expectedErr: apperrors.ErrInvalidInput},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctx := context.Background()
			f := newFixture(t)

			q, err := f.service.CreateQuestionnaire(ctx, manager(f.orgA), questionnaire("Pulse"))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			a, err := f.service.CreateAssessment(ctx, manager(f.orgA), &types.Assessment{Title: "Q3", QuestionnaireID: q.ID})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			var last error
			for _, to := range tc.path {
				if _, last = f.service.Transition(ctx, manager(f.orgA), a.ID, to); last != nil {
					break
				}
			}

			if tc.expectedErr != nil {
				if !errors.Is(last, tc.expectedErr) {
					t.Errorf("expected error %v, got %v", tc.expectedErr, last)
				}
				return
			}
			if last != nil {
				t.Fatalf("unexpected error: %v", last)
			}

			stored, err := f.store.GetAssessment(ctx, f.orgA.ID, a.ID)
			if err != nil {
				t.Fatalf("failed to read assessment: %v", err)
			}
			if want := tc.path[len(tc.path)-1]; stored.Status != want {
				t.Errorf("expected %s, got %s", want, stored.Status)
			}
		})
	}
}

func TestService_TransitionAcrossOrganizations(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	q, err := f.service.CreateQuestionnaire(ctx, manager(f.orgA), questionnaire("Pulse"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	a, err := f.service.CreateAssessment(ctx, manager(f.orgA), &types.Assessment{Title: "Q3", QuestionnaireID: q.ID})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := f.service.Transition(ctx, manager(f.orgB), a.ID, types.AssessmentActive); !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	viewer := types.Principal{UserID: "v", OrganizationID: f.orgA.ID, Role: types.RoleViewer}
	if _, err := f.service.Transition(ctx, viewer, a.ID, types.AssessmentActive); !errors.Is(err, apperrors.ErrForbidden) {
		t.Errorf("expected ErrForbidden for viewer, got %v", err)
	}

	stored, _ := f.store.GetAssessment(ctx, f.orgA.ID, a.ID)
	if stored.Status != types.AssessmentDraft {
		t.Errorf("blocked transitions must leave the assessment in draft, got %s", stored.Status)
	}
}

func TestService_TransitionConflict(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	logger := logging.NewNoopLogger()
	mockStorage := NewMockStorageInterface(ctrl)
	mockAuthz := NewMockAuthorizerInterface(ctrl)

	p := types.Principal{UserID: "u", OrganizationID: "org-a", Role: types.RoleManager}

	mockAuthz.EXPECT().Authorize(gomock.Any(), p, "org-a", authorization.ActionEditContent).Return(nil)
	mockStorage.EXPECT().GetAssessment(gomock.Any(), "org-a", "as-1").
		Return(&types.Assessment{ID: "as-1", OrganizationID: "org-a", Status: types.AssessmentActive}, nil)
	mockStorage.EXPECT().SetAssessmentStatus(gomock.Any(), "org-a", "as-1", types.AssessmentActive, types.AssessmentCompleted).
		Return(int64(0), nil)

	s := NewService(mockStorage, mockAuthz, tracing.NewNoopTracer(), monitoring.NewNoopMonitor("test", logger), logger)

	if _, err := s.Transition(context.Background(), p, "as-1", types.AssessmentCompleted); !errors.Is(err, apperrors.ErrConflict) {
		t.Errorf("expected ErrConflict, got %v", err)
	}
}

func TestService_StoreUnavailable(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	logger := logging.NewNoopLogger()
	mockStorage := NewMockStorageInterface(ctrl)
	mockAuthz := NewMockAuthorizerInterface(ctrl)

	p := types.Principal{UserID: "u", OrganizationID: "org-a", Role: types.RoleViewer}

	mockAuthz.EXPECT().Authorize(gomock.Any(), p, "org-a", authorization.ActionRead).Return(nil)
	mockStorage.EXPECT().ListAssessments(gomock.Any(), "org-a", int64(1), int64(10)).
		Return(nil, apperrors.ErrStoreUnavailable)

	s := NewService(mockStorage, mockAuthz, tracing.NewNoopTracer(), monitoring.NewNoopMonitor("test", logger), logger)

	if _, err := s.ListAssessments(context.Background(), p, 1, 10); !errors.Is(err, apperrors.ErrStoreUnavailable) {
		t.Errorf("expected ErrStoreUnavailable, got %v", err)
	}
}
