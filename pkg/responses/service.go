// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package responses

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/canonical/assessment-service/internal/apperrors"
	"github.com/canonical/assessment-service/internal/logging"
	"github.com/canonical/assessment-service/internal/monitoring"
	"github.com/canonical/assessment-service/internal/storage"
	"github.com/canonical/assessment-service/internal/tracing"
	"github.com/canonical/assessment-service/internal/types"
)

const ackStatus = "accepted"

var _ ServiceInterface = (*Service)(nil)

type Service struct {
	storage StorageInterface

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

func NewService(storage StorageInterface, tracer tracing.TracingInterface, monitor monitoring.MonitorInterface, logger logging.LoggerInterface) *Service {
	return &Service{
		storage: storage,
		tracer:  tracer,
		monitor: monitor,
		logger:  logger,
	}
}

// Submit stores one answer. A second answer for the same question and
// session replaces the first and is acknowledged the same way.
func (s *Service) Submit(ctx context.Context, sub Submission) (*Ack, error) {
	ctx, span := s.tracer.Start(ctx, "responses.Service.Submit")
	defer span.End()

	if err := validateAnonymousID(sub.AnonymousID); err != nil {
		return nil, err
	}

	target, err := s.storage.GetSubmissionTarget(ctx, sub.AssessmentID, sub.QuestionID)
	if err != nil {
		return nil, s.readError(err)
	}

	// Assessments that are not running are indistinguishable from missing
	// ones on the public path.
	if !target.Status.AcceptsResponses() {
		return nil, apperrors.ErrNotFound
	}
	if !target.HasQuestion {
		return nil, fmt.Errorf("%w: question does not belong to the assessment", apperrors.ErrInvalidInput)
	}
	if err := validateValue(sub.Value, target.ScalePoints); err != nil {
		return nil, err
	}

	r := &types.Response{
		AssessmentID: sub.AssessmentID,
		QuestionID:   sub.QuestionID,
		AnonymousID:  sub.AnonymousID,
		Value:        sub.Value,
	}

	if err := s.storage.UpsertResponses(ctx, []*types.Response{r}); err != nil {
		return nil, s.writeError(err)
	}

	return &Ack{Status: ackStatus, Accepted: 1}, nil
}

// SubmitBatch stores a page of answers from one session atomically. Either
// every answer is valid and stored or none is.
func (s *Service) SubmitBatch(ctx context.Context, assessmentID, anonymousID string, answers []Answer) (*Ack, error) {
	ctx, span := s.tracer.Start(ctx, "responses.Service.SubmitBatch")
	defer span.End()

	if len(answers) == 0 {
		return nil, fmt.Errorf("%w: no answers", apperrors.ErrInvalidInput)
	}
	if err := validateAnonymousID(anonymousID); err != nil {
		return nil, err
	}

	assessment, questions, err := s.storage.ListFormQuestions(ctx, assessmentID)
	if err != nil {
		return nil, s.readError(err)
	}
	if !assessment.Status.AcceptsResponses() {
		return nil, apperrors.ErrNotFound
	}

	scale := make(map[string]int, len(questions))
	for _, q := range questions {
		scale[q.ID] = q.ScalePoints
	}

	// Later answers to the same question win, also inside one batch.
	latest := make(map[string]int, len(answers))
	order := make([]string, 0, len(answers))
	for _, a := range answers {
		points, ok := scale[a.QuestionID]
		if !ok {
			return nil, fmt.Errorf("%w: question does not belong to the assessment", apperrors.ErrInvalidInput)
		}
		if err := validateValue(a.Value, points); err != nil {
			return nil, err
		}
		if _, seen := latest[a.QuestionID]; !seen {
			order = append(order, a.QuestionID)
		}
		latest[a.QuestionID] = a.Value
	}

	rows := make([]*types.Response, 0, len(order))
	for _, qID := range order {
		rows = append(rows, &types.Response{
			AssessmentID: assessmentID,
			QuestionID:   qID,
			AnonymousID:  anonymousID,
			Value:        latest[qID],
		})
	}

	if err := s.storage.UpsertResponses(ctx, rows); err != nil {
		return nil, s.writeError(err)
	}

	return &Ack{Status: ackStatus, Accepted: len(rows)}, nil
}

// Form returns the questions of a running assessment. Assessments that are
// not active read as not found.
func (s *Service) Form(ctx context.Context, assessmentID string) (*Form, error) {
	ctx, span := s.tracer.Start(ctx, "responses.Service.Form")
	defer span.End()

	assessment, questions, err := s.storage.ListFormQuestions(ctx, assessmentID)
	if err != nil {
		return nil, s.readError(err)
	}
	if !assessment.Status.AcceptsResponses() {
		return nil, apperrors.ErrNotFound
	}

	form := &Form{
		AssessmentID: assessment.ID,
		Title:        assessment.Title,
		Questions:    make([]*FormQuestion, 0, len(questions)),
	}
	for _, q := range questions {
		form.Questions = append(form.Questions, &FormQuestion{
			ID:          q.ID,
			Category:    q.Category,
			Text:        q.Text,
			ScalePoints: q.ScalePoints,
			Position:    q.Position,
		})
	}

	return form, nil
}

func (s *Service) readError(err error) error {
	if errors.Is(err, storage.ErrNotFound) {
		return apperrors.ErrNotFound
	}
	return s.unavailable(err)
}

func (s *Service) writeError(err error) error {
	// The assessment or question vanished between validation and insert.
	if errors.Is(err, storage.ErrForeignKeyViolation) {
		return apperrors.ErrNotFound
	}
	return s.unavailable(err)
}

func (s *Service) unavailable(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	s.logger.Errorf("response store failed: %v", err)

	if errors.Is(err, apperrors.ErrStoreUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %v", apperrors.ErrStoreUnavailable, err)
}

func validateAnonymousID(id string) error {
	u, err := uuid.Parse(id)
	if err != nil || u.Version() != 4 {
		return fmt.Errorf("%w: anonymous_id must be a version 4 uuid", apperrors.ErrInvalidInput)
	}
	return nil
}

func validateValue(value, points int) error {
	if value < 1 || value > points {
		return fmt.Errorf("%w: value must be between 1 and %d", apperrors.ErrInvalidInput, points)
	}
	return nil
}
