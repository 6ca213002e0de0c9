// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package survey

import (
	"context"

	"github.com/canonical/assessment-service/internal/authorization"
	"github.com/canonical/assessment-service/internal/types"
)

type StorageInterface interface {
	ListQuestionnaires(ctx context.Context, tenantID string, page, size int64) ([]*types.Questionnaire, error)
	GetQuestionnaire(ctx context.Context, tenantID, id string) (*types.Questionnaire, error)
	CreateQuestionnaire(ctx context.Context, q *types.Questionnaire) (*types.Questionnaire, error)
	UpdateQuestionnaire(ctx context.Context, tenantID string, q *types.Questionnaire, paths []string) (int64, error)

	GetDepartment(ctx context.Context, tenantID, id string) (*types.Department, error)

	ListAssessments(ctx context.Context, tenantID string, page, size int64) ([]*types.Assessment, error)
	GetAssessment(ctx context.Context, tenantID, id string) (*types.Assessment, error)
	CreateAssessment(ctx context.Context, a *types.Assessment) (*types.Assessment, error)
	UpdateAssessment(ctx context.Context, tenantID string, a *types.Assessment, paths []string) (int64, error)
	SetAssessmentStatus(ctx context.Context, tenantID, id string, from, to types.AssessmentStatus) (int64, error)
}

type AuthorizerInterface interface {
	Authorize(ctx context.Context, p types.Principal, resourceOrgID string, action authorization.Action) error
}

type ServiceInterface interface {
	ListQuestionnaires(ctx context.Context, p types.Principal, page, size int64) ([]*types.Questionnaire, error)
	GetQuestionnaire(ctx context.Context, p types.Principal, id string) (*types.Questionnaire, error)
	CreateQuestionnaire(ctx context.Context, p types.Principal, q *types.Questionnaire) (*types.Questionnaire, error)
	UpdateQuestionnaire(ctx context.Context, p types.Principal, q *types.Questionnaire, paths []string) (*types.Questionnaire, error)

	ListAssessments(ctx context.Context, p types.Principal, page, size int64) ([]*types.Assessment, error)
	GetAssessment(ctx context.Context, p types.Principal, id string) (*types.Assessment, error)
	CreateAssessment(ctx context.Context, p types.Principal, a *types.Assessment) (*types.Assessment, error)
	UpdateAssessment(ctx context.Context, p types.Principal, a *types.Assessment, paths []string) (*types.Assessment, error)
	Transition(ctx context.Context, p types.Principal, id string, to types.AssessmentStatus) (*types.Assessment, error)
}
