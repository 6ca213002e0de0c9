// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package organization

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

type UpdateRequest struct {
	Name       string   `json:"name"`
	PlanTier   string   `json:"plan_tier"`
	UpdateMask []string `json:"update_mask" validate:"required,min=1"`
}

type DeleteRequest struct {
	ConfirmName string `json:"confirm_name" validate:"required"`
}

type DepartmentRequest struct {
	Name string `json:"name" validate:"required,max=200"`
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
	mux.Get("/api/v0/organization", a.getOwn)
	mux.Get("/api/v0/organizations/{id}", a.get)
	mux.Patch("/api/v0/organizations/{id}", a.update)
	mux.Delete("/api/v0/organizations/{id}", a.delete)

	mux.Get("/api/v0/departments", a.listDepartments)
	mux.Post("/api/v0/departments", a.createDepartment)
	mux.Patch("/api/v0/departments/{id}", a.renameDepartment)
	mux.Delete("/api/v0/departments/{id}", a.deleteDepartment)
}

func (a *API) principal(w http.ResponseWriter, r *http.Request) (types.Principal, bool) {
	p, ok := identity.PrincipalFromContext(r.Context())
	if !ok {
		httptypes.WriteError(w, apperrors.ErrUnauthenticated, a.logger)
	}
	return p, ok
}

func (a *API) getOwn(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "organization.API.getOwn")
	defer span.End()

	p, ok := a.principal(w, r)
	if !ok {
		return
	}

	org, err := a.service.Get(ctx, p, p.OrganizationID)
	if err != nil {
		httptypes.WriteError(w, err, a.logger)
		return
	}

	httptypes.WriteData(w, http.StatusOK, org, nil)
}

func (a *API) get(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "organization.API.get")
	defer span.End()

	p, ok := a.principal(w, r)
	if !ok {
		return
	}

	org, err := a.service.Get(ctx, p, chi.URLParam(r, "id"))
	if err != nil {
		httptypes.WriteError(w, err, a.logger)
		return
	}

	httptypes.WriteData(w, http.StatusOK, org, nil)
}

func (a *API) update(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "organization.API.update")
	defer span.End()

	p, ok := a.principal(w, r)
	if !ok {
		return
	}

	var req UpdateRequest
	if err := httptypes.DecodeJSON(r, &req); err != nil {
		httptypes.WriteError(w, err, a.logger)
		return
	}

	org := &types.Organization{ID: chi.URLParam(r, "id"), Name: req.Name, PlanTier: req.PlanTier}

	updated, err := a.service.UpdateSettings(ctx, p, org, req.UpdateMask)
	if err != nil {
		httptypes.WriteError(w, err, a.logger)
		return
	}

	httptypes.WriteData(w, http.StatusOK, updated, nil)
}

func (a *API) delete(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "organization.API.delete")
	defer span.End()

	p, ok := a.principal(w, r)
	if !ok {
		return
	}

	var req DeleteRequest
	if err := httptypes.DecodeJSON(r, &req); err != nil {
		httptypes.WriteError(w, err, a.logger)
		return
	}

	if err := a.service.Delete(ctx, p, chi.URLParam(r, "id"), req.ConfirmName); err != nil {
		httptypes.WriteError(w, err, a.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (a *API) listDepartments(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "organization.API.listDepartments")
	defer span.End()

	p, ok := a.principal(w, r)
	if !ok {
		return
	}

	departments, err := a.service.ListDepartments(ctx, p)
	if err != nil {
		httptypes.WriteError(w, err, a.logger)
		return
	}

	httptypes.WriteData(w, http.StatusOK, departments, nil)
}

func (a *API) createDepartment(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "organization.API.createDepartment")
	defer span.End()

	p, ok := a.principal(w, r)
	if !ok {
		return
	}

	var req DepartmentRequest
	if err := httptypes.DecodeJSON(r, &req); err != nil {
		httptypes.WriteError(w, err, a.logger)
		return
	}

	d, err := a.service.CreateDepartment(ctx, p, req.Name)
	if err != nil {
		httptypes.WriteError(w, err, a.logger)
		return
	}

	httptypes.WriteData(w, http.StatusCreated, d, nil)
}

func (a *API) renameDepartment(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "organization.API.renameDepartment")
	defer span.End()

	p, ok := a.principal(w, r)
	if !ok {
		return
	}

	var req DepartmentRequest
	if err := httptypes.DecodeJSON(r, &req); err != nil {
		httptypes.WriteError(w, err, a.logger)
		return
	}

	d, err := a.service.RenameDepartment(ctx, p, chi.URLParam(r, "id"), req.Name)
	if err != nil {
		httptypes.WriteError(w, err, a.logger)
		return
	}

	httptypes.WriteData(w, http.StatusOK, d, nil)
}

func (a *API) deleteDepartment(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "organization.API.deleteDepartment")
	defer span.End()

	p, ok := a.principal(w, r)
	if !ok {
		return
	}

	if err := a.service.DeleteDepartment(ctx, p, chi.URLParam(r, "id")); err != nil {
		httptypes.WriteError(w, err, a.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
