// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package storage

import (
	"context"

	"github.com/canonical/assessment-service/internal/types"
)

// StorageInterface is the tenant-scoped data store. Every method that touches
// tenant rows takes the caller's organization as tenantID and filters on it,
// so a mismatching id reads as not found and writes affect zero rows.
type StorageInterface interface {
	CreateOrganization(ctx context.Context, o *types.Organization) (*types.Organization, error)
	GetOrganization(ctx context.Context, tenantID, id string) (*types.Organization, error)
	UpdateOrganization(ctx context.Context, tenantID string, o *types.Organization, paths []string) (int64, error)
	DeleteOrganizationCascade(ctx context.Context, tenantID, id string, audit *types.AuditEvent) (int64, error)

	// GetProfile is the identity lookup and is intentionally not tenant scoped.
	GetProfile(ctx context.Context, userID string) (*types.Profile, error)
	CreateProfile(ctx context.Context, p *types.Profile) (*types.Profile, error)
	ListProfiles(ctx context.Context, tenantID string) ([]*types.Profile, error)
	UpdateProfileRole(ctx context.Context, tenantID, userID string, role types.Role) (int64, error)
	DeleteProfile(ctx context.Context, tenantID, userID string) (int64, error)
	CountAdmins(ctx context.Context, tenantID string) (int, error)

	ListDepartments(ctx context.Context, tenantID string) ([]*types.Department, error)
	GetDepartment(ctx context.Context, tenantID, id string) (*types.Department, error)
	CreateDepartment(ctx context.Context, d *types.Department) (*types.Department, error)
	RenameDepartment(ctx context.Context, tenantID, id, name string) (int64, error)
	DeleteDepartment(ctx context.Context, tenantID, id string) (int64, error)

	ListQuestionnaires(ctx context.Context, tenantID string, page, size int64) ([]*types.Questionnaire, error)
	GetQuestionnaire(ctx context.Context, tenantID, id string) (*types.Questionnaire, error)
	CreateQuestionnaire(ctx context.Context, q *types.Questionnaire) (*types.Questionnaire, error)
	UpdateQuestionnaire(ctx context.Context, tenantID string, q *types.Questionnaire, paths []string) (int64, error)

	ListAssessments(ctx context.Context, tenantID string, page, size int64) ([]*types.Assessment, error)
	GetAssessment(ctx context.Context, tenantID, id string) (*types.Assessment, error)
	CreateAssessment(ctx context.Context, a *types.Assessment) (*types.Assessment, error)
	UpdateAssessment(ctx context.Context, tenantID string, a *types.Assessment, paths []string) (int64, error)
	SetAssessmentStatus(ctx context.Context, tenantID, id string, from, to types.AssessmentStatus) (int64, error)

	// Anonymous submission path, keyed by assessment only. No tenant or user
	// input is involved.
	GetSubmissionTarget(ctx context.Context, assessmentID, questionID string) (*types.SubmissionTarget, error)
	ListFormQuestions(ctx context.Context, assessmentID string) (*types.Assessment, []*types.Question, error)
	UpsertResponses(ctx context.Context, responses []*types.Response) error

	AggregateResponses(ctx context.Context, tenantID string, scope types.AggregateScope, groupBy types.BucketType) ([]*types.BucketRow, error)

	CreateAuditEvent(ctx context.Context, e *types.AuditEvent) error
}
