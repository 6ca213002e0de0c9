// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package identity

import (
	"context"

	"github.com/canonical/assessment-service/internal/types"
)

type ProfileStorageInterface interface {
	GetProfile(ctx context.Context, userID string) (*types.Profile, error)
}

type ResolverInterface interface {
	Resolve(ctx context.Context, userID string) (types.Principal, error)
}
