// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package webhooks

import (
	"context"

	"github.com/canonical/assessment-service/internal/types"
)

// StorageInterface is the subset of internal/storage used by the
// registration hook.
type StorageInterface interface {
	GetProfile(ctx context.Context, userID string) (*types.Profile, error)
	CreateOrganization(ctx context.Context, o *types.Organization) (*types.Organization, error)
	CreateProfile(ctx context.Context, p *types.Profile) (*types.Profile, error)
	CreateAuditEvent(ctx context.Context, e *types.AuditEvent) error
}

type ServiceInterface interface {
	HandleRegistration(ctx context.Context, identityID, email string) (*types.Profile, error)
}
