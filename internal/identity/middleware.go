// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package identity

import (
	"errors"
	"net/http"

	"github.com/canonical/assessment-service/internal/apperrors"
	httptypes "github.com/canonical/assessment-service/internal/http/types"
	"github.com/canonical/assessment-service/internal/logging"
	"github.com/canonical/assessment-service/internal/monitoring"
	"github.com/canonical/assessment-service/internal/tracing"
	"github.com/canonical/assessment-service/pkg/authentication"
)

type Middleware struct {
	resolver ResolverInterface

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

func NewMiddleware(resolver ResolverInterface, tracer tracing.TracingInterface, monitor monitoring.MonitorInterface, logger logging.LoggerInterface) *Middleware {
	return &Middleware{
		resolver: resolver,
		tracer:   tracer,
		monitor:  monitor,
		logger:   logger,
	}
}

// Resolve must run after authentication. It reads the verified subject and
// nothing else from the request.
func (m *Middleware) Resolve(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := m.tracer.Start(r.Context(), "identity.Middleware.Resolve")
		defer span.End()

		userID, ok := authentication.SubjectFromContext(ctx)
		if !ok {
			httptypes.WriteError(w, apperrors.ErrUnauthenticated, m.logger)
			return
		}

		p, err := m.resolver.Resolve(ctx, userID)
		if err != nil {
			if errors.Is(err, apperrors.ErrUnauthenticated) {
				m.logger.Security().AuthnFailure("no profile for authenticated subject")
			}
			httptypes.WriteError(w, err, m.logger)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithPrincipal(ctx, p)))
	})
}
