// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package responses

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/mock/gomock"

	"github.com/canonical/assessment-service/internal/apperrors"
	"github.com/canonical/assessment-service/internal/logging"
	"github.com/canonical/assessment-service/internal/monitoring"
	"github.com/canonical/assessment-service/internal/storage"
	"github.com/canonical/assessment-service/internal/tracing"
	"github.com/canonical/assessment-service/internal/types"
)

//go:generate mockgen -build_flags=--mod=mod -package responses -destination ./mock_responses.go -source=./interfaces.go

const anonymousID = "0b3f1c3e-54b2-4a8e-9a57-2f1f0c7d9e10"

func newTestService(s StorageInterface) *Service {
	logger := logging.NewNoopLogger()
	return NewService(s, tracing.NewNoopTracer(), monitoring.NewNoopMonitor("test", logger), logger)
}

func activeTarget() *types.SubmissionTarget {
	return &types.SubmissionTarget{AssessmentID: "asm-1", QuestionID: "q-1", Status: types.AssessmentActive, HasQuestion: true, ScalePoints: 5}
}

func TestService_Submit(t *testing.T) {
	valid := Submission{AssessmentID: "asm-1", QuestionID: "q-1", AnonymousID: anonymousID, Value: 4}

	testCases := []struct {
		name        string
		submission  Submission
		setupMocks  func(*MockStorageInterface)
		expectedErr error
	}{
		{
			name:       "accepted",
			submission: valid,
			setupMocks: func(s *MockStorageInterface) {
				s.EXPECT().GetSubmissionTarget(gomock.Any(), "asm-1", "q-1").Return(activeTarget(), nil)
				s.EXPECT().UpsertResponses(gomock.Any(), []*types.Response{{AssessmentID: "asm-1", QuestionID: "q-1", AnonymousID: anonymousID, Value: 4}}).Return(nil)
			},
		},
		{
			name:       "upper scale bound",
			submission: Submission{AssessmentID: "asm-1", QuestionID: "q-1", AnonymousID: anonymousID, Value: 5},
			setupMocks: func(s *MockStorageInterface) {
				s.EXPECT().GetSubmissionTarget(gomock.Any(), "asm-1", "q-1").Return(activeTarget(), nil)
				s.EXPECT().UpsertResponses(gomock.Any(), gomock.Len(1)).Return(nil)
			},
		},
		{
			name:       "value above scale",
			submission: Submission{AssessmentID: "asm-1", QuestionID: "q-1", AnonymousID: anonymousID, Value: 6},
			setupMocks: func(s *MockStorageInterface) {
				s.EXPECT().GetSubmissionTarget(gomock.Any(), "asm-1", "q-1").Return(activeTarget(), nil)
			},
			expectedErr: apperrors.ErrInvalidInput,
		},
		{
			name:        "anonymous id is not a uuid",
			submission:  Submission{AssessmentID: "asm-1", QuestionID: "q-1", AnonymousID: "user-1", Value: 3},
			setupMocks:  func(s *MockStorageInterface) {},
			expectedErr: apperrors.ErrInvalidInput,
		},
		{
			name:        "anonymous id is a time based uuid",
			submission:  Submission{AssessmentID: "asm-1", QuestionID: "q-1", AnonymousID: "6ba7b810-9dad-11d1-80b4-00c04fd430c8", Value: 3},
			setupMocks:  func(s *MockStorageInterface) {},
			expectedErr: apperrors.ErrInvalidInput,
		},
		{
			name:       "unknown assessment",
			submission: valid,
			setupMocks: func(s *MockStorageInterface) {
				s.EXPECT().GetSubmissionTarget(gomock.Any(), "asm-1", "q-1").Return(nil, storage.ErrNotFound)
			},
			expectedErr: apperrors.ErrNotFound,
		},
		{
			name:       "draft assessment",
			submission: valid,
			setupMocks: func(s *MockStorageInterface) {
				t := activeTarget()
				t.Status = types.AssessmentDraft
				s.EXPECT().GetSubmissionTarget(gomock.Any(), "asm-1", "q-1").Return(t, nil)
			},
			expectedErr: apperrors.ErrNotFound,
		},
		{
			name:       "question from another questionnaire",
			submission: valid,
			setupMocks: func(s *MockStorageInterface) {
				t := activeTarget()
				t.HasQuestion = false
				s.EXPECT().GetSubmissionTarget(gomock.Any(), "asm-1", "q-1").Return(t, nil)
			},
			expectedErr: apperrors.ErrInvalidInput,
		},
		{
			name:       "store unavailable",
			submission: valid,
			setupMocks: func(s *MockStorageInterface) {
				s.EXPECT().GetSubmissionTarget(gomock.Any(), "asm-1", "q-1").Return(activeTarget(), nil)
				s.EXPECT().UpsertResponses(gomock.Any(), gomock.Any()).Return(errors.New("connection refused"))
			},
			expectedErr: apperrors.ErrStoreUnavailable,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockStorage := NewMockStorageInterface(ctrl)
			tc.setupMocks(mockStorage)

			ack, err := newTestService(mockStorage).Submit(context.Background(), tc.submission)

			if tc.expectedErr != nil {
				if !errors.Is(err, tc.expectedErr) {
					t.Fatalf("expected error %v, got %v", tc.expectedErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if ack.Status != ackStatus || ack.Accepted != 1 {
				t.Errorf("unexpected ack %+v", ack)
			}
		})
	}
}

func TestService_SubmitDuplicateIsNeutral(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStorage := NewMockStorageInterface(ctrl)
	mockStorage.EXPECT().GetSubmissionTarget(gomock.Any(), "asm-1", "q-1").Return(activeTarget(), nil).Times(2)
	mockStorage.EXPECT().UpsertResponses(gomock.Any(), gomock.Any()).Return(nil).Times(2)

	s := newTestService(mockStorage)
	sub := Submission{AssessmentID: "asm-1", QuestionID: "q-1", AnonymousID: anonymousID, Value: 2}

	first, err := s.Submit(context.Background(), sub)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	sub.Value = 3
	second, err := s.Submit(context.Background(), sub)
	if err != nil {
		t.Fatalf("unexpected error on resubmission: %v", err)
	}

	if *first != *second {
		t.Errorf("acks must not reveal a previous submission, got %+v and %+v", first, second)
	}
}

func TestService_SubmitBatch(t *testing.T) {
	assessment := &types.Assessment{ID: "asm-1", Status: types.AssessmentActive}
	questions := []*types.Question{{ID: "q-1", ScalePoints: 5}, {ID: "q-2", ScalePoints: 7}}

	testCases := []struct {
		name         string
		answers      []Answer
		setupMocks   func(*MockStorageInterface)
		expectedErr  error
		expectedRows int
	}{
		{
			name:    "all stored",
			answers: []Answer{{QuestionID: "q-1", Value: 1}, {QuestionID: "q-2", Value: 7}},
			setupMocks: func(s *MockStorageInterface) {
				s.EXPECT().ListFormQuestions(gomock.Any(), "asm-1").Return(assessment, questions, nil)
				s.EXPECT().UpsertResponses(gomock.Any(), gomock.Len(2)).Return(nil)
			},
			expectedRows: 2,
		},
		{
			name:    "repeated question keeps the latest value",
			answers: []Answer{{QuestionID: "q-1", Value: 1}, {QuestionID: "q-1", Value: 4}},
			setupMocks: func(s *MockStorageInterface) {
				s.EXPECT().ListFormQuestions(gomock.Any(), "asm-1").Return(assessment, questions, nil)
				s.EXPECT().UpsertResponses(gomock.Any(), []*types.Response{{AssessmentID: "asm-1", QuestionID: "q-1", AnonymousID: anonymousID, Value: 4}}).Return(nil)
			},
			expectedRows: 1,
		},
		{
			name:    "one invalid answer rejects the page",
			answers: []Answer{{QuestionID: "q-1", Value: 1}, {QuestionID: "q-9", Value: 2}},
			setupMocks: func(s *MockStorageInterface) {
				s.EXPECT().ListFormQuestions(gomock.Any(), "asm-1").Return(assessment, questions, nil)
			},
			expectedErr: apperrors.ErrInvalidInput,
		},
		{
			name:    "value out of scale",
			answers: []Answer{{QuestionID: "q-2", Value: 8}},
			setupMocks: func(s *MockStorageInterface) {
				s.EXPECT().ListFormQuestions(gomock.Any(), "asm-1").Return(assessment, questions, nil)
			},
			expectedErr: apperrors.ErrInvalidInput,
		},
		{
			name:        "empty page",
			answers:     nil,
			setupMocks:  func(s *MockStorageInterface) {},
			expectedErr: apperrors.ErrInvalidInput,
		},
		{
			name:    "completed assessment",
			answers: []Answer{{QuestionID: "q-1", Value: 1}},
			setupMocks: func(s *MockStorageInterface) {
				s.EXPECT().ListFormQuestions(gomock.Any(), "asm-1").Return(&types.Assessment{ID: "asm-1", Status: types.AssessmentCompleted}, questions, nil)
			},
			expectedErr: apperrors.ErrNotFound,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockStorage := NewMockStorageInterface(ctrl)
			tc.setupMocks(mockStorage)

			ack, err := newTestService(mockStorage).SubmitBatch(context.Background(), "asm-1", anonymousID, tc.answers)

			if tc.expectedErr != nil {
				if !errors.Is(err, tc.expectedErr) {
					t.Fatalf("expected error %v, got %v", tc.expectedErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if ack.Accepted != tc.expectedRows {
				t.Errorf("expected %d accepted, got %d", tc.expectedRows, ack.Accepted)
			}
		})
	}
}

func TestService_SubmitToClosedAssessmentLooksMissing(t *testing.T) {
	answers := []Answer{{QuestionID: "q-1", Value: 3}}
	questions := []*types.Question{{ID: "q-1", Category: "workload", ScalePoints: 5}}

	testCases := []struct {
		name   string
		status types.AssessmentStatus
		found  bool
	}{
		{name: "missing"},
		{name: "draft", status: types.AssessmentDraft, found: true},
		{name: "completed", status: types.AssessmentCompleted, found: true},
		{name: "archived", status: types.AssessmentArchived, found: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockStorage := NewMockStorageInterface(ctrl)
			if tc.found {
				target := activeTarget()
				target.Status = tc.status
				mockStorage.EXPECT().GetSubmissionTarget(gomock.Any(), "asm-1", "q-1").Return(target, nil)
				mockStorage.EXPECT().ListFormQuestions(gomock.Any(), "asm-1").Return(&types.Assessment{ID: "asm-1", Status: tc.status}, questions, nil)
			} else {
				mockStorage.EXPECT().GetSubmissionTarget(gomock.Any(), "asm-1", "q-1").Return(nil, storage.ErrNotFound)
				mockStorage.EXPECT().ListFormQuestions(gomock.Any(), "asm-1").Return(nil, nil, storage.ErrNotFound)
			}

			s := newTestService(mockStorage)

			_, err := s.Submit(context.Background(), Submission{AssessmentID: "asm-1", QuestionID: "q-1", AnonymousID: anonymousID, Value: 3})
			if err != apperrors.ErrNotFound {
				t.Errorf("Submit: expected a bare ErrNotFound, got %v", err)
			}

			_, err = s.SubmitBatch(context.Background(), "asm-1", anonymousID, answers)
			if err != apperrors.ErrNotFound {
				t.Errorf("SubmitBatch: expected a bare ErrNotFound, got %v", err)
			}
		})
	}
}

func TestService_Form(t *testing.T) {
	testCases := []struct {
		name        string
		status      types.AssessmentStatus
		expectedErr error
	}{
		{name: "active", status: types.AssessmentActive},
		{name: "draft", status: types.AssessmentDraft, expectedErr: apperrors.ErrNotFound},
		{name: "archived", status: types.AssessmentArchived, expectedErr: apperrors.ErrNotFound},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockStorage := NewMockStorageInterface(ctrl)
			mockStorage.EXPECT().ListFormQuestions(gomock.Any(), "asm-1").Return(
				&types.Assessment{ID: "asm-1", OrganizationID: "org-a", Title: "Q3 pulse", Status: tc.status},
				[]*types.Question{{ID: "q-1", Category: "workload", Text: "How heavy is your workload?", ScalePoints: 5}},
				nil,
			)

			form, err := newTestService(mockStorage).Form(context.Background(), "asm-1")

			if tc.expectedErr != nil {
				if !errors.Is(err, tc.expectedErr) {
					t.Fatalf("expected error %v, got %v", tc.expectedErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if form.Title != "Q3 pulse" || len(form.Questions) != 1 || form.Questions[0].ScalePoints != 5 {
				t.Errorf("unexpected form %+v", form)
			}
		})
	}
}
