// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package organization

import (
	"context"

	"github.com/canonical/assessment-service/internal/authorization"
	"github.com/canonical/assessment-service/internal/types"
)

type StorageInterface interface {
	GetOrganization(ctx context.Context, tenantID, id string) (*types.Organization, error)
	UpdateOrganization(ctx context.Context, tenantID string, o *types.Organization, paths []string) (int64, error)
	DeleteOrganizationCascade(ctx context.Context, tenantID, id string, audit *types.AuditEvent) (int64, error)

	ListDepartments(ctx context.Context, tenantID string) ([]*types.Department, error)
	GetDepartment(ctx context.Context, tenantID, id string) (*types.Department, error)
	CreateDepartment(ctx context.Context, d *types.Department) (*types.Department, error)
	RenameDepartment(ctx context.Context, tenantID, id, name string) (int64, error)
	DeleteDepartment(ctx context.Context, tenantID, id string) (int64, error)

	CreateAuditEvent(ctx context.Context, e *types.AuditEvent) error
}

type AuthorizerInterface interface {
	Authorize(ctx context.Context, p types.Principal, resourceOrgID string, action authorization.Action) error
}

type ServiceInterface interface {
	Get(ctx context.Context, p types.Principal, id string) (*types.Organization, error)
	UpdateSettings(ctx context.Context, p types.Principal, o *types.Organization, paths []string) (*types.Organization, error)
	Delete(ctx context.Context, p types.Principal, id, confirmName string) error

	ListDepartments(ctx context.Context, p types.Principal) ([]*types.Department, error)
	CreateDepartment(ctx context.Context, p types.Principal, name string) (*types.Department, error)
	RenameDepartment(ctx context.Context, p types.Principal, id, name string) (*types.Department, error)
	DeleteDepartment(ctx context.Context, p types.Principal, id string) error
}
