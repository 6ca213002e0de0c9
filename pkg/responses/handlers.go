// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package responses

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	httptypes "github.com/canonical/assessment-service/internal/http/types"
	"github.com/canonical/assessment-service/internal/logging"
	"github.com/canonical/assessment-service/internal/monitoring"
	"github.com/canonical/assessment-service/internal/tracing"
)

// API serves the unauthenticated survey endpoints. Handlers only look at the
// path and the body.
type API struct {
	service ServiceInterface
	limiter *RateLimiter

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

func NewAPI(service ServiceInterface, limiter *RateLimiter, tracer tracing.TracingInterface, monitor monitoring.MonitorInterface, logger logging.LoggerInterface) *API {
	return &API{
		service: service,
		limiter: limiter,
		tracer:  tracer,
		monitor: monitor,
		logger:  logger,
	}
}

func (a *API) RegisterEndpoints(mux chi.Router) {
	mux.Route("/api/v0/public", func(r chi.Router) {
		if a.limiter != nil {
			r.Use(a.limiter.Middleware)
		}

		r.Get("/assessments/{id}/form", a.form)
		r.Post("/assessments/{id}/responses", a.submitBatch)
		r.Post("/responses", a.submit)
	})
}

func (a *API) form(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "responses.API.form")
	defer span.End()

	form, err := a.service.Form(ctx, chi.URLParam(r, "id"))
	if err != nil {
		httptypes.WriteError(w, err, a.logger)
		return
	}

	httptypes.WriteData(w, http.StatusOK, form, nil)
}

func (a *API) submit(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "responses.API.submit")
	defer span.End()

	var sub Submission
	if err := httptypes.DecodeJSON(r, &sub); err != nil {
		httptypes.WriteError(w, err, a.logger)
		return
	}

	ack, err := a.service.Submit(ctx, sub)
	if err != nil {
		httptypes.WriteError(w, err, a.logger)
		return
	}

	httptypes.WriteData(w, http.StatusAccepted, ack, nil)
}

func (a *API) submitBatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "responses.API.submitBatch")
	defer span.End()

	var batch BatchSubmission
	if err := httptypes.DecodeJSON(r, &batch); err != nil {
		httptypes.WriteError(w, err, a.logger)
		return
	}

	ack, err := a.service.SubmitBatch(ctx, chi.URLParam(r, "id"), batch.AnonymousID, batch.Answers)
	if err != nil {
		httptypes.WriteError(w, err, a.logger)
		return
	}

	httptypes.WriteData(w, http.StatusAccepted, ack, nil)
}
