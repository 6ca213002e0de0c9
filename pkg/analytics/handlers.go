// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package analytics

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/canonical/assessment-service/internal/apperrors"
	httptypes "github.com/canonical/assessment-service/internal/http/types"
	"github.com/canonical/assessment-service/internal/identity"
	"github.com/canonical/assessment-service/internal/logging"
	"github.com/canonical/assessment-service/internal/monitoring"
	"github.com/canonical/assessment-service/internal/tracing"
	"github.com/canonical/assessment-service/internal/types"
)

type API struct {
	service ServiceInterface

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

func NewAPI(service ServiceInterface, tracer tracing.TracingInterface, monitor monitoring.MonitorInterface, logger logging.LoggerInterface) *API {
	return &API{
		service: service,
		tracer:  tracer,
		monitor: monitor,
		logger:  logger,
	}
}

func (a *API) RegisterEndpoints(mux chi.Router) {
	mux.Get("/api/v0/aggregates", a.aggregate)
	mux.Get("/api/v0/assessments/{id}/summary", a.summary)
}

func (a *API) aggregate(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "analytics.API.aggregate")
	defer span.End()

	p, ok := identity.PrincipalFromContext(ctx)
	if !ok {
		httptypes.WriteError(w, apperrors.ErrUnauthenticated, a.logger)
		return
	}

	q := r.URL.Query()

	groupBy := types.BucketAssessment
	if v := q.Get("group_by"); v != "" {
		b, err := types.ParseBucketType(v)
		if err != nil {
			httptypes.WriteError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err), a.logger)
			return
		}
		groupBy = b
	}

	scope := types.AggregateScope{
		AssessmentID: q.Get("assessment_id"),
		DepartmentID: q.Get("department_id"),
		Category:     q.Get("category"),
	}

	stats, err := a.service.Aggregate(ctx, p, scope, groupBy)
	if err != nil {
		httptypes.WriteError(w, err, a.logger)
		return
	}

	httptypes.WriteData(w, http.StatusOK, stats, nil)
}

func (a *API) summary(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "analytics.API.summary")
	defer span.End()

	p, ok := identity.PrincipalFromContext(ctx)
	if !ok {
		httptypes.WriteError(w, apperrors.ErrUnauthenticated, a.logger)
		return
	}

	summary, err := a.service.Summary(ctx, p, chi.URLParam(r, "id"))
	if err != nil {
		httptypes.WriteError(w, err, a.logger)
		return
	}

	httptypes.WriteData(w, http.StatusOK, summary, nil)
}
