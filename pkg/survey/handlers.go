// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package survey

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

type QuestionRequest struct {
	Category      string `json:"category" validate:"required"`
	Text          string `json:"text" validate:"required"`
	ScalePoints   int    `json:"scale_points" validate:"gte=2,lte=11"`
	ReverseScored bool   `json:"reverse_scored"`
}

type QuestionnaireRequest struct {
	Title       string            `json:"title" validate:"required,max=200"`
	Description string            `json:"description"`
	Questions   []QuestionRequest `json:"questions" validate:"required,min=1,dive"`
}

type QuestionnaireUpdateRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	UpdateMask  []string `json:"update_mask" validate:"required,min=1"`
}

type AssessmentRequest struct {
	Title           string `json:"title" validate:"required,max=200"`
	QuestionnaireID string `json:"questionnaire_id" validate:"required"`
	DepartmentID    string `json:"department_id"`
}

type AssessmentUpdateRequest struct {
	Title        string   `json:"title"`
	DepartmentID string   `json:"department_id"`
	UpdateMask   []string `json:"update_mask" validate:"required,min=1"`
}

type TransitionRequest struct {
	Status string `json:"status" validate:"required"`
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
	mux.Get("/api/v0/questionnaires", a.listQuestionnaires)
	mux.Post("/api/v0/questionnaires", a.createQuestionnaire)
	mux.Get("/api/v0/questionnaires/{id}", a.getQuestionnaire)
	mux.Patch("/api/v0/questionnaires/{id}", a.updateQuestionnaire)

	mux.Get("/api/v0/assessments", a.listAssessments)
	mux.Post("/api/v0/assessments", a.createAssessment)
	mux.Get("/api/v0/assessments/{id}", a.getAssessment)
	mux.Patch("/api/v0/assessments/{id}", a.updateAssessment)
	mux.Post("/api/v0/assessments/{id}/status", a.transition)
}

func (a *API) principal(w http.ResponseWriter, r *http.Request) (types.Principal, bool) {
	p, ok := identity.PrincipalFromContext(r.Context())
	if !ok {
		httptypes.WriteError(w, apperrors.ErrUnauthenticated, a.logger)
	}
	return p, ok
}

func (a *API) listQuestionnaires(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "survey.API.listQuestionnaires")
	defer span.End()

	p, ok := a.principal(w, r)
	if !ok {
		return
	}

	page := httptypes.ParsePagination(r)

	questionnaires, err := a.service.ListQuestionnaires(ctx, p, page.Page, page.Size)
	if err != nil {
		httptypes.WriteError(w, err, a.logger)
		return
	}

	httptypes.WriteData(w, http.StatusOK, questionnaires, page)
}

func (a *API) getQuestionnaire(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "survey.API.getQuestionnaire")
	defer span.End()

	p, ok := a.principal(w, r)
	if !ok {
		return
	}

	q, err := a.service.GetQuestionnaire(ctx, p, chi.URLParam(r, "id"))
	if err != nil {
		httptypes.WriteError(w, err, a.logger)
		return
	}

	httptypes.WriteData(w, http.StatusOK, q, nil)
}

func (a *API) createQuestionnaire(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "survey.API.createQuestionnaire")
	defer span.End()

	p, ok := a.principal(w, r)
	if !ok {
		return
	}

	var req QuestionnaireRequest
	if err := httptypes.DecodeJSON(r, &req); err != nil {
		httptypes.WriteError(w, err, a.logger)
		return
	}

	q := &types.Questionnaire{
		Title:       req.Title,
		Description: req.Description,
		Questions:   make([]*types.Question, 0, len(req.Questions)),
	}
	for _, question := range req.Questions {
		q.Questions = append(q.Questions, &types.Question{
			Category:      question.Category,
			Text:          question.Text,
			ScalePoints:   question.ScalePoints,
			ReverseScored: question.ReverseScored,
		})
	}

	created, err := a.service.CreateQuestionnaire(ctx, p, q)
	if err != nil {
		httptypes.WriteError(w, err, a.logger)
		return
	}

	httptypes.WriteData(w, http.StatusCreated, created, nil)
}

func (a *API) updateQuestionnaire(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "survey.API.updateQuestionnaire")
	defer span.End()

	p, ok := a.principal(w, r)
	if !ok {
		return
	}

	var req QuestionnaireUpdateRequest
	if err := httptypes.DecodeJSON(r, &req); err != nil {
		httptypes.WriteError(w, err, a.logger)
		return
	}

	q := &types.Questionnaire{ID: chi.URLParam(r, "id"), Title: req.Title, Description: req.Description}

	updated, err := a.service.UpdateQuestionnaire(ctx, p, q, req.UpdateMask)
	if err != nil {
		httptypes.WriteError(w, err, a.logger)
		return
	}

	httptypes.WriteData(w, http.StatusOK, updated, nil)
}

func (a *API) listAssessments(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "survey.API.listAssessments")
	defer span.End()

	p, ok := a.principal(w, r)
	if !ok {
		return
	}

	page := httptypes.ParsePagination(r)

	assessments, err := a.service.ListAssessments(ctx, p, page.Page, page.Size)
	if err != nil {
		httptypes.WriteError(w, err, a.logger)
		return
	}

	httptypes.WriteData(w, http.StatusOK, assessments, page)
}

func (a *API) getAssessment(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "survey.API.getAssessment")
	defer span.End()

	p, ok := a.principal(w, r)
	if !ok {
		return
	}

	assessment, err := a.service.GetAssessment(ctx, p, chi.URLParam(r, "id"))
	if err != nil {
		httptypes.WriteError(w, err, a.logger)
		return
	}

	httptypes.WriteData(w, http.StatusOK, assessment, nil)
}

func (a *API) createAssessment(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "survey.API.createAssessment")
	defer span.End()

	p, ok := a.principal(w, r)
	if !ok {
		return
	}

	var req AssessmentRequest
	if err := httptypes.DecodeJSON(r, &req); err != nil {
		httptypes.WriteError(w, err, a.logger)
		return
	}

	created, err := a.service.CreateAssessment(ctx, p, &types.Assessment{
		Title:           req.Title,
		QuestionnaireID: req.QuestionnaireID,
		DepartmentID:    req.DepartmentID,
	})
	if err != nil {
		httptypes.WriteError(w, err, a.logger)
		return
	}

	httptypes.WriteData(w, http.StatusCreated, created, nil)
}

func (a *API) updateAssessment(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "survey.API.updateAssessment")
	defer span.End()

	p, ok := a.principal(w, r)
	if !ok {
		return
	}

	var req AssessmentUpdateRequest
	if err := httptypes.DecodeJSON(r, &req); err != nil {
		httptypes.WriteError(w, err, a.logger)
		return
	}

	assessment := &types.Assessment{ID: chi.URLParam(r, "id"), Title: req.Title, DepartmentID: req.DepartmentID}

	updated, err := a.service.UpdateAssessment(ctx, p, assessment, req.UpdateMask)
	if err != nil {
		httptypes.WriteError(w, err, a.logger)
		return
	}

	httptypes.WriteData(w, http.StatusOK, updated, nil)
}

func (a *API) transition(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "survey.API.transition")
	defer span.End()

	p, ok := a.principal(w, r)
	if !ok {
		return
	}

	var req TransitionRequest
	if err := httptypes.DecodeJSON(r, &req); err != nil {
		httptypes.WriteError(w, err, a.logger)
		return
	}

	to, err := types.ParseAssessmentStatus(req.Status)
	if err != nil {
		httptypes.WriteError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err), a.logger)
		return
	}

	assessment, err := a.service.Transition(ctx, p, chi.URLParam(r, "id"), to)
	if err != nil {
		httptypes.WriteError(w, err, a.logger)
		return
	}

	httptypes.WriteData(w, http.StatusOK, assessment, nil)
}
