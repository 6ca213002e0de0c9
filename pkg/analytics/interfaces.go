// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package analytics

import (
	"context"

	"github.com/canonical/assessment-service/internal/authorization"
	"github.com/canonical/assessment-service/internal/types"
)

// StorageInterface is the subset of internal/storage the engine reads from.
type StorageInterface interface {
	GetAssessment(ctx context.Context, tenantID, id string) (*types.Assessment, error)
	GetDepartment(ctx context.Context, tenantID, id string) (*types.Department, error)
	AggregateResponses(ctx context.Context, tenantID string, scope types.AggregateScope, groupBy types.BucketType) ([]*types.BucketRow, error)
}

type AuthorizerInterface interface {
	Authorize(ctx context.Context, p types.Principal, resourceOrgID string, action authorization.Action) error
}

type ServiceInterface interface {
	Aggregate(ctx context.Context, p types.Principal, scope types.AggregateScope, groupBy types.BucketType) ([]*types.AggregateStatistic, error)
	Summary(ctx context.Context, p types.Principal, assessmentID string) (*Summary, error)
}
