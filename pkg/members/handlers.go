// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package members

import (
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

type ProvisionRequest struct {
	Email string      `json:"email" validate:"required,email"`
	Role  *types.Role `json:"role" validate:"required"`
}

type UpdateRoleRequest struct {
	Role *types.Role `json:"role" validate:"required"`
}

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
	mux.Get("/api/v0/members", a.list)
	mux.Post("/api/v0/members", a.provision)
	mux.Patch("/api/v0/members/{id}", a.updateRole)
	mux.Delete("/api/v0/members/{id}", a.remove)
}

func (a *API) list(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "members.API.list")
	defer span.End()

	p, ok := identity.PrincipalFromContext(ctx)
	if !ok {
		httptypes.WriteError(w, apperrors.ErrUnauthenticated, a.logger)
		return
	}

	profiles, err := a.service.List(ctx, p)
	if err != nil {
		httptypes.WriteError(w, err, a.logger)
		return
	}

	httptypes.WriteData(w, http.StatusOK, profiles, nil)
}

func (a *API) provision(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "members.API.provision")
	defer span.End()

	p, ok := identity.PrincipalFromContext(ctx)
	if !ok {
		httptypes.WriteError(w, apperrors.ErrUnauthenticated, a.logger)
		return
	}

	var req ProvisionRequest
	if err := httptypes.DecodeJSON(r, &req); err != nil {
		httptypes.WriteError(w, err, a.logger)
		return
	}

	invitation, err := a.service.Provision(ctx, p, req.Email, *req.Role)
	if err != nil {
		httptypes.WriteError(w, err, a.logger)
		return
	}

	httptypes.WriteData(w, http.StatusCreated, invitation, nil)
}

func (a *API) updateRole(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "members.API.updateRole")
	defer span.End()

	p, ok := identity.PrincipalFromContext(ctx)
	if !ok {
		httptypes.WriteError(w, apperrors.ErrUnauthenticated, a.logger)
		return
	}

	var req UpdateRoleRequest
	if err := httptypes.DecodeJSON(r, &req); err != nil {
		httptypes.WriteError(w, err, a.logger)
		return
	}

	profile, err := a.service.UpdateRole(ctx, p, chi.URLParam(r, "id"), *req.Role)
	if err != nil {
		httptypes.WriteError(w, err, a.logger)
		return
	}

	httptypes.WriteData(w, http.StatusOK, profile, nil)
}

func (a *API) remove(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "members.API.remove")
	defer span.End()

	p, ok := identity.PrincipalFromContext(ctx)
	if !ok {
		httptypes.WriteError(w, apperrors.ErrUnauthenticated, a.logger)
		return
	}

	if err := a.service.Remove(ctx, p, chi.URLParam(r, "id")); err != nil {
		httptypes.WriteError(w, err, a.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
