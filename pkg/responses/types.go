// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package responses

// Submission is a single anonymous answer.
type Submission struct {
	AssessmentID string `json:"assessment_id" validate:"required"`
	QuestionID   string `json:"question_id" validate:"required"`
	AnonymousID  string `json:"anonymous_id" validate:"required,uuid4"`
	Value        int    `json:"value" validate:"gte=1"`
}

type Answer struct {
	QuestionID string `json:"question_id" validate:"required"`
	Value      int    `json:"value" validate:"gte=1"`
}

// BatchSubmission is one page of answers from the same session.
type BatchSubmission struct {
	AnonymousID string   `json:"anonymous_id" validate:"required,uuid4"`
	Answers     []Answer `json:"answers" validate:"required,min=1,max=500,dive"`
}

// Ack is the same whether the answers were new or replaced earlier ones.
type Ack struct {
	Status   string `json:"status"`
	Accepted int    `json:"accepted"`
}

type FormQuestion struct {
	ID          string `json:"id"`
	Category    string `json:"category"`
	Text        string `json:"text"`
	ScalePoints int    `json:"scale_points"`
	Position    int    `json:"position"`
}

// Form is what the survey front end renders. It carries nothing about the
// organization running the assessment.
type Form struct {
	AssessmentID string          `json:"assessment_id"`
	Title        string          `json:"title"`
	Questions    []*FormQuestion `json:"questions"`
}
