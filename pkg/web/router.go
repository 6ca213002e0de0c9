// Copyright 2025 Canonical Ltd
// SPDX-License-Identifier: AGPL-3.0

package web

import (
	"net/http"

	chi "github.com/go-chi/chi/v5"
	middleware "github.com/go-chi/chi/v5/middleware"

	"github.com/canonical/assessment-service/internal/authorization"
	"github.com/canonical/assessment-service/internal/db"
	"github.com/canonical/assessment-service/internal/identity"
	"github.com/canonical/assessment-service/internal/logging"
	"github.com/canonical/assessment-service/internal/monitoring"
	"github.com/canonical/assessment-service/internal/storage"
	"github.com/canonical/assessment-service/internal/tracing"
	"github.com/canonical/assessment-service/pkg/analytics"
	"github.com/canonical/assessment-service/pkg/authentication"
	"github.com/canonical/assessment-service/pkg/members"
	"github.com/canonical/assessment-service/pkg/metrics"
	"github.com/canonical/assessment-service/pkg/organization"
	"github.com/canonical/assessment-service/pkg/responses"
	"github.com/canonical/assessment-service/pkg/status"
	"github.com/canonical/assessment-service/pkg/survey"
	"github.com/canonical/assessment-service/pkg/webhooks"
)

// Dependencies carries what the router wires into the services. DBClient is
// nil for the memory storage backend.
type Dependencies struct {
	Storage       storage.StorageInterface
	DBClient      db.DBClientInterface
	Authorizer    *authorization.Authorizer
	Verifier      authentication.TokenVerifierInterface
	Kratos        members.KratosClientInterface
	Thresholds    analytics.Thresholds
	Limiter       *responses.RateLimiter
	WebhookAPIKey string

	InvitationLifetime string
	AllowedOrigins     []string
}

func NewRouter(
	deps Dependencies,
	tracer tracing.TracingInterface,
	monitor monitoring.MonitorInterface,
	logger logging.LoggerInterface,
) http.Handler {
	router := chi.NewMux()

	middlewares := make(chi.Middlewares, 0)
	middlewares = append(
		middlewares,
		middleware.RequestID,
		monitoring.NewMiddleware(monitor, logger).ResponseTime(),
		middlewareCORS(deps.AllowedOrigins),
	)

	router.Use(middlewares...)

	metrics.NewAPI(logger).RegisterEndpoints(router)

	var pinger status.PingerInterface
	if deps.DBClient != nil {
		pinger = deps.DBClient
	}
	status.NewAPI(pinger, tracer, monitor, logger).RegisterEndpoints(router)

	s := deps.Storage

	router.Group(func(r chi.Router) {
		if deps.DBClient != nil {
			r.Use(db.TransactionMiddleware(deps.DBClient, logger))
		}

		responses.NewAPI(
			responses.NewService(s, tracer, monitor, logger),
			deps.Limiter,
			tracer, monitor, logger,
		).RegisterEndpoints(r)

		webhooks.NewAPI(
			webhooks.NewService(s, tracer, monitor, logger),
			deps.WebhookAPIKey,
			tracer, monitor, logger,
		).RegisterEndpoints(r)
	})

	router.Group(func(r chi.Router) {
		r.Use(authentication.NewMiddleware(deps.Verifier, tracer, monitor, logger).Authenticate())
		r.Use(identity.NewMiddleware(identity.NewResolver(s, tracer, monitor, logger), tracer, monitor, logger).Resolve)
		if deps.DBClient != nil {
			r.Use(db.TransactionMiddleware(deps.DBClient, logger))
		}

		organization.NewAPI(
			organization.NewService(s, deps.Authorizer, tracer, monitor, logger),
			tracer, monitor, logger,
		).RegisterEndpoints(r)

		members.NewAPI(
			members.NewService(s, deps.Authorizer, deps.Kratos, deps.InvitationLifetime, tracer, monitor, logger),
			tracer, monitor, logger,
		).RegisterEndpoints(r)

		survey.NewAPI(
			survey.NewService(s, deps.Authorizer, tracer, monitor, logger),
			tracer, monitor, logger,
		).RegisterEndpoints(r)

		analytics.NewAPI(
			analytics.NewService(s, deps.Authorizer, deps.Thresholds, tracer, monitor, logger),
			tracer, monitor, logger,
		).RegisterEndpoints(r)
	})

	return tracing.NewMiddleware(monitor, logger).OpenTelemetry(router)
}
