// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package survey

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/canonical/assessment-service/internal/apperrors"
	"github.com/canonical/assessment-service/internal/authorization"
	"github.com/canonical/assessment-service/internal/logging"
	"github.com/canonical/assessment-service/internal/monitoring"
	"github.com/canonical/assessment-service/internal/storage"
	"github.com/canonical/assessment-service/internal/tracing"
	"github.com/canonical/assessment-service/internal/types"
)

const (
	minScalePoints = 2
	maxScalePoints = 11
)

var (
	questionnairePaths = []string{"title", "description"}
	assessmentPaths    = []string{"title", "department_id"}
)

var _ ServiceInterface = (*Service)(nil)

type Service struct {
	storage StorageInterface
	authz   AuthorizerInterface

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

func NewService(storage StorageInterface, authz AuthorizerInterface, tracer tracing.TracingInterface, monitor monitoring.MonitorInterface, logger logging.LoggerInterface) *Service {
	return &Service{
		storage: storage,
		authz:   authz,
		tracer:  tracer,
		monitor: monitor,
		logger:  logger,
	}
}

func (s *Service) ListQuestionnaires(ctx context.Context, p types.Principal, page, size int64) ([]*types.Questionnaire, error) {
	ctx, span := s.tracer.Start(ctx, "survey.Service.ListQuestionnaires")
	defer span.End()

	if err := s.authz.Authorize(ctx, p, p.OrganizationID, authorization.ActionRead); err != nil {
		return nil, err
	}

	questionnaires, err := s.storage.ListQuestionnaires(ctx, p.OrganizationID, page, size)
	if err != nil {
		return nil, storeError(err)
	}

	return questionnaires, nil
}

func (s *Service) GetQuestionnaire(ctx context.Context, p types.Principal, id string) (*types.Questionnaire, error) {
	ctx, span := s.tracer.Start(ctx, "survey.Service.GetQuestionnaire")
	defer span.End()

	if err := s.authz.Authorize(ctx, p, p.OrganizationID, authorization.ActionRead); err != nil {
		return nil, err
	}

	q, err := s.storage.GetQuestionnaire(ctx, p.OrganizationID, id)
	if err != nil {
		return nil, storeError(err)
	}

	return q, nil
}

// CreateQuestionnaire stores a questionnaire with its questions in the
// caller's organization. Questions can not be changed afterwards.
func (s *Service) CreateQuestionnaire(ctx context.Context, p types.Principal, q *types.Questionnaire) (*types.Questionnaire, error) {
	ctx, span := s.tracer.Start(ctx, "survey.Service.CreateQuestionnaire")
	defer span.End()

	if err := s.authz.Authorize(ctx, p, p.OrganizationID, authorization.ActionEditContent); err != nil {
		return nil, err
	}

	q.Title = strings.TrimSpace(q.Title)
	if q.Title == "" {
		return nil, fmt.Errorf("%w: title is required", apperrors.ErrInvalidInput)
	}
	if len(q.Questions) == 0 {
		return nil, fmt.Errorf("%w: a questionnaire needs at least one question", apperrors.ErrInvalidInput)
	}
	for i, question := range q.Questions {
		if err := validateQuestion(question); err != nil {
			return nil, fmt.Errorf("question %d: %w", i+1, err)
		}
	}

	q.OrganizationID = p.OrganizationID

	created, err := s.storage.CreateQuestionnaire(ctx, q)
	if err != nil {
		return nil, storeError(err)
	}

	return created, nil
}

func (s *Service) UpdateQuestionnaire(ctx context.Context, p types.Principal, q *types.Questionnaire, paths []string) (*types.Questionnaire, error) {
	ctx, span := s.tracer.Start(ctx, "survey.Service.UpdateQuestionnaire")
	defer span.End()

	if err := s.authz.Authorize(ctx, p, p.OrganizationID, authorization.ActionEditContent); err != nil {
		return nil, err
	}
	if err := validatePaths(paths, questionnairePaths); err != nil {
		return nil, err
	}
	if slices.Contains(paths, "title") {
		q.Title = strings.TrimSpace(q.Title)
		if q.Title == "" {
			return nil, fmt.Errorf("%w: title is required", apperrors.ErrInvalidInput)
		}
	}

	affected, err := s.storage.UpdateQuestionnaire(ctx, p.OrganizationID, q, paths)
	if err != nil {
		return nil, storeError(err)
	}
	if affected == 0 {
		return nil, apperrors.ErrNotFound
	}

	updated, err := s.storage.GetQuestionnaire(ctx, p.OrganizationID, q.ID)
	if err != nil {
		return nil, storeError(err)
	}

	return updated, nil
}

func (s *Service) ListAssessments(ctx context.Context, p types.Principal, page, size int64) ([]*types.Assessment, error) {
	ctx, span := s.tracer.Start(ctx, "survey.Service.ListAssessments")
	defer span.End()

	if err := s.authz.Authorize(ctx, p, p.OrganizationID, authorization.ActionRead); err != nil {
		return nil, err
	}

	assessments, err := s.storage.ListAssessments(ctx, p.OrganizationID, page, size)
	if err != nil {
		return nil, storeError(err)
	}

	return assessments, nil
}

func (s *Service) GetAssessment(ctx context.Context, p types.Principal, id string) (*types.Assessment, error) {
	ctx, span := s.tracer.Start(ctx, "survey.Service.GetAssessment")
	defer span.End()

	if err := s.authz.Authorize(ctx, p, p.OrganizationID, authorization.ActionRead); err != nil {
		return nil, err
	}

	a, err := s.storage.GetAssessment(ctx, p.OrganizationID, id)
	if err != nil {
		return nil, storeError(err)
	}

	return a, nil
}

// CreateAssessment creates a draft. The questionnaire and the department must
// both belong to the caller's organization.
func (s *Service) CreateAssessment(ctx context.Context, p types.Principal, a *types.Assessment) (*types.Assessment, error) {
	ctx, span := s.tracer.Start(ctx, "survey.Service.CreateAssessment")
	defer span.End()

	if err := s.authz.Authorize(ctx, p, p.OrganizationID, authorization.ActionEditContent); err != nil {
		return nil, err
	}

	a.Title = strings.TrimSpace(a.Title)
	if a.Title == "" {
		return nil, fmt.Errorf("%w: title is required", apperrors.ErrInvalidInput)
	}

	if _, err := s.storage.GetQuestionnaire(ctx, p.OrganizationID, a.QuestionnaireID); err != nil {
		return nil, referenceError("questionnaire", err)
	}
	if err := s.checkDepartment(ctx, p, a.DepartmentID); err != nil {
		return nil, err
	}

	a.OrganizationID = p.OrganizationID

	created, err := s.storage.CreateAssessment(ctx, a)
	if err != nil {
		return nil, storeError(err)
	}

	return created, nil
}

func (s *Service) UpdateAssessment(ctx context.Context, p types.Principal, a *types.Assessment, paths []string) (*types.Assessment, error) {
	ctx, span := s.tracer.Start(ctx, "survey.Service.UpdateAssessment")
	defer span.End()

	if err := s.authz.Authorize(ctx, p, p.OrganizationID, authorization.ActionEditContent); err != nil {
		return nil, err
	}
	if err := validatePaths(paths, assessmentPaths); err != nil {
		return nil, err
	}
	if slices.Contains(paths, "title") {
		a.Title = strings.TrimSpace(a.Title)
		if a.Title == "" {
			return nil, fmt.Errorf("%w: title is required", apperrors.ErrInvalidInput)
		}
	}
	if slices.Contains(paths, "department_id") {
		if err := s.checkDepartment(ctx, p, a.DepartmentID); err != nil {
			return nil, err
		}
	}

	affected, err := s.storage.UpdateAssessment(ctx, p.OrganizationID, a, paths)
	if err != nil {
		return nil, storeError(err)
	}
	if affected == 0 {
		return nil, apperrors.ErrNotFound
	}

	updated, err := s.storage.GetAssessment(ctx, p.OrganizationID, a.ID)
	if err != nil {
		return nil, storeError(err)
	}

	return updated, nil
}

// Transition moves an assessment along its lifecycle. The status write is
// conditional on the status read, so a concurrent transition reports a
// conflict instead of being overwritten.
func (s *Service) Transition(ctx context.Context, p types.Principal, id string, to types.AssessmentStatus) (*types.Assessment, error) {
	ctx, span := s.tracer.Start(ctx, "survey.Service.Transition")
	defer span.End()

	if err := s.authz.Authorize(ctx, p, p.OrganizationID, authorization.ActionEditContent); err != nil {
		return nil, err
	}

	current, err := s.storage.GetAssessment(ctx, p.OrganizationID, id)
	if err != nil {
		return nil, storeError(err)
	}

	if !current.Status.CanTransition(to) {
		return nil, fmt.Errorf("%w: can not move assessment from %s to %s", apperrors.ErrInvalidInput, current.Status, to)
	}

	affected, err := s.storage.SetAssessmentStatus(ctx, p.OrganizationID, id, current.Status, to)
	if err != nil {
		return nil, storeError(err)
	}
	if affected == 0 {
		return nil, fmt.Errorf("%w: assessment status changed concurrently", apperrors.ErrConflict)
	}

	s.logger.Infof("assessment %s moved from %s to %s by %s", id, current.Status, to, p.UserID)

	current.Status = to
	return current, nil
}

func (s *Service) checkDepartment(ctx context.Context, p types.Principal, id string) error {
	if id == "" {
		return nil
	}
	if _, err := s.storage.GetDepartment(ctx, p.OrganizationID, id); err != nil {
		return referenceError("department", err)
	}
	return nil
}

func validateQuestion(q *types.Question) error {
	q.Category = strings.TrimSpace(q.Category)
	q.Text = strings.TrimSpace(q.Text)

	switch {
	case q.Category == "":
		return fmt.Errorf("%w: category is required", apperrors.ErrInvalidInput)
	case q.Text == "":
		return fmt.Errorf("%w: text is required", apperrors.ErrInvalidInput)
	case q.ScalePoints < minScalePoints || q.ScalePoints > maxScalePoints:
		return fmt.Errorf("%w: scale_points must be between %d and %d", apperrors.ErrInvalidInput, minScalePoints, maxScalePoints)
	}
	return nil
}

func validatePaths(paths, allowed []string) error {
	if len(paths) == 0 {
		return fmt.Errorf("%w: update_mask is empty", apperrors.ErrInvalidInput)
	}
	for _, path := range paths {
		if !slices.Contains(allowed, path) {
			return fmt.Errorf("%w: field %q can not be updated", apperrors.ErrInvalidInput, path)
		}
	}
	return nil
}

// referenceError reports a missing or foreign reference as invalid input,
// without telling the two apart.
func referenceError(kind string, err error) error {
	if errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("%w: unknown %s", apperrors.ErrInvalidInput, kind)
	}
	return err
}

func storeError(err error) error {
	if errors.Is(err, storage.ErrNotFound) {
		return apperrors.ErrNotFound
	}
	if errors.Is(err, storage.ErrForeignKeyViolation) {
		return fmt.Errorf("%w: referenced resource does not exist", apperrors.ErrInvalidInput)
	}
	return err
}
