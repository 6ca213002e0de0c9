// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package members

import (
	"context"

	"github.com/canonical/assessment-service/internal/authorization"
	"github.com/canonical/assessment-service/internal/types"
)

type StorageInterface interface {
	GetProfile(ctx context.Context, userID string) (*types.Profile, error)
	CreateProfile(ctx context.Context, p *types.Profile) (*types.Profile, error)
	ListProfiles(ctx context.Context, tenantID string) ([]*types.Profile, error)
	UpdateProfileRole(ctx context.Context, tenantID, userID string, role types.Role) (int64, error)
	DeleteProfile(ctx context.Context, tenantID, userID string) (int64, error)
	CreateAuditEvent(ctx context.Context, e *types.AuditEvent) error
}

type AuthorizerInterface interface {
	Authorize(ctx context.Context, p types.Principal, resourceOrgID string, action authorization.Action) error
}

type KratosClientInterface interface {
	GetIdentityIDByEmail(ctx context.Context, email string) (string, error)
	CreateIdentity(ctx context.Context, email string) (string, error)
	CreateRecoveryLink(ctx context.Context, identityID string, expiresIn string) (string, string, error)
}

type ServiceInterface interface {
	List(ctx context.Context, p types.Principal) ([]*types.Profile, error)
	UpdateRole(ctx context.Context, p types.Principal, userID string, role types.Role) (*types.Profile, error)
	Provision(ctx context.Context, p types.Principal, email string, role types.Role) (*Invitation, error)
	Remove(ctx context.Context, p types.Principal, userID string) error
}
