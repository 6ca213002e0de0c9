// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package responses

import (
	"context"

	"github.com/canonical/assessment-service/internal/types"
)

// StorageInterface is the anonymous path of internal/storage. None of its
// methods take a tenant or a user.
type StorageInterface interface {
	GetSubmissionTarget(ctx context.Context, assessmentID, questionID string) (*types.SubmissionTarget, error)
	ListFormQuestions(ctx context.Context, assessmentID string) (*types.Assessment, []*types.Question, error)
	UpsertResponses(ctx context.Context, responses []*types.Response) error
}

type ServiceInterface interface {
	Submit(ctx context.Context, s Submission) (*Ack, error)
	SubmitBatch(ctx context.Context, assessmentID, anonymousID string, answers []Answer) (*Ack, error)
	Form(ctx context.Context, assessmentID string) (*Form, error)
}
