// Copyright 2025 Canonical Ltd
// SPDX-License-Identifier: AGPL-3.0

package authorization

import (
	"context"
	"fmt"

	"github.com/canonical/assessment-service/internal/apperrors"
	"github.com/canonical/assessment-service/internal/logging"
	"github.com/canonical/assessment-service/internal/monitoring"
	"github.com/canonical/assessment-service/internal/tracing"
	"github.com/canonical/assessment-service/internal/types"
)

var _ AuthorizerInterface = (*Authorizer)(nil)

type Authorizer struct {
	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

// Authorize returns nil when p may perform action on a resource owned by
// resourceOrgID. Wrong tenant and insufficient role produce the same
// ErrForbidden so callers can not tell them apart.
func (a *Authorizer) Authorize(ctx context.Context, p types.Principal, resourceOrgID string, action Action) error {
	_, span := a.tracer.Start(ctx, "authorization.Authorizer.Authorize")
	defer span.End()

	required, ok := RequiredRole(action)
	if ok && CanWrite(p, resourceOrgID, required) {
		return nil
	}

	a.logger.Security().AuthzFailure(p.UserID, fmt.Sprintf("organization:%s#%s", resourceOrgID, action))

	return apperrors.ErrForbidden
}

func NewAuthorizer(tracer tracing.TracingInterface, monitor monitoring.MonitorInterface, logger logging.LoggerInterface) *Authorizer {
	authorizer := new(Authorizer)
	authorizer.tracer = tracer
	authorizer.monitor = monitor
	authorizer.logger = logger

	return authorizer
}
