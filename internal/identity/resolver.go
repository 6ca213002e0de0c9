// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/canonical/assessment-service/internal/apperrors"
	"github.com/canonical/assessment-service/internal/logging"
	"github.com/canonical/assessment-service/internal/monitoring"
	"github.com/canonical/assessment-service/internal/storage"
	"github.com/canonical/assessment-service/internal/tracing"
	"github.com/canonical/assessment-service/internal/types"
)

var _ ResolverInterface = (*Resolver)(nil)

// Resolver turns an authenticated user id into a Principal. Organization and
// role come from the stored profile only.
type Resolver struct {
	storage ProfileStorageInterface

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

func (r *Resolver) Resolve(ctx context.Context, userID string) (types.Principal, error) {
	ctx, span := r.tracer.Start(ctx, "identity.Resolver.Resolve")
	defer span.End()

	if userID == "" {
		return types.Principal{}, apperrors.ErrUnauthenticated
	}

	profile, err := r.storage.GetProfile(ctx, userID)
	if errors.Is(err, storage.ErrNotFound) {
		return types.Principal{}, apperrors.ErrUnauthenticated
	}
	if err != nil {
		if errors.Is(err, apperrors.ErrStoreUnavailable) || storage.IsUnavailable(err) {
			return types.Principal{}, fmt.Errorf("failed to resolve principal: %w", apperrors.ErrStoreUnavailable)
		}
		return types.Principal{}, fmt.Errorf("failed to resolve principal: %w", err)
	}

	if !profile.Role.Valid() || profile.OrganizationID == "" {
		r.logger.Errorf("profile %s has an unusable role or organization", profile.UserID)
		return types.Principal{}, apperrors.ErrUnauthenticated
	}

	return types.Principal{
		UserID:         profile.UserID,
		OrganizationID: profile.OrganizationID,
		Role:           profile.Role,
	}, nil
}

func NewResolver(storage ProfileStorageInterface, tracer tracing.TracingInterface, monitor monitoring.MonitorInterface, logger logging.LoggerInterface) *Resolver {
	r := new(Resolver)
	r.storage = storage
	r.tracer = tracer
	r.monitor = monitor
	r.logger = logger

	return r
}
