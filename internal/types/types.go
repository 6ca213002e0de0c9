// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package types

import (
	"time"
)

type Organization struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	PlanTier  string    `db:"plan_tier" json:"plan_tier"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Profile is the stored record a Principal is resolved from.
type Profile struct {
	UserID         string    `db:"user_id" json:"user_id"`
	OrganizationID string    `db:"organization_id" json:"organization_id"`
	Role           Role      `db:"role" json:"role"`
	Email          string    `db:"email" json:"email"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

// Principal is an authenticated actor. It is only ever built from a stored
// Profile, never from request input.
type Principal struct {
	UserID         string
	OrganizationID string
	Role           Role
}

func (p Principal) String() string {
	return "user:" + p.UserID
}

type Department struct {
	ID             string    `db:"id" json:"id"`
	OrganizationID string    `db:"organization_id" json:"organization_id"`
	Name           string    `db:"name" json:"name"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

type Questionnaire struct {
	ID             string      `db:"id" json:"id"`
	OrganizationID string      `db:"organization_id" json:"organization_id"`
	Title          string      `db:"title" json:"title"`
	Description    string      `db:"description" json:"description"`
	Questions      []*Question `json:"questions,omitempty"`
	CreatedAt      time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time   `db:"updated_at" json:"updated_at"`
}

type Question struct {
	ID              string `db:"id" json:"id"`
	QuestionnaireID string `db:"questionnaire_id" json:"questionnaire_id"`
	Category        string `db:"category" json:"category"`
	Text            string `db:"text" json:"text"`
	ScalePoints     int    `db:"scale_points" json:"scale_points"`
	ReverseScored   bool   `db:"reverse_scored" json:"reverse_scored"`
	Position        int    `db:"position" json:"position"`
}

type Assessment struct {
	ID              string           `db:"id" json:"id"`
	OrganizationID  string           `db:"organization_id" json:"organization_id"`
	QuestionnaireID string           `db:"questionnaire_id" json:"questionnaire_id"`
	DepartmentID    string           `db:"department_id" json:"department_id,omitempty"`
	Title           string           `db:"title" json:"title"`
	Status          AssessmentStatus `db:"status" json:"status"`
	CreatedAt       time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time        `db:"updated_at" json:"updated_at"`
}

// Response is one anonymous answer. It deliberately has no user reference.
type Response struct {
	ID           string    `db:"id" json:"id"`
	AssessmentID string    `db:"assessment_id" json:"assessment_id"`
	QuestionID   string    `db:"question_id" json:"question_id"`
	AnonymousID  string    `db:"anonymous_id" json:"-"`
	Value        int       `db:"value" json:"value"`
	SubmittedAt  time.Time `db:"submitted_at" json:"submitted_at"`
}

type AuditEvent struct {
	ID             string    `db:"id" json:"id"`
	OrganizationID string    `db:"organization_id" json:"organization_id"`
	ActorUserID    string    `db:"actor_user_id" json:"actor_user_id"`
	Action         string    `db:"action" json:"action"`
	Target         string    `db:"target" json:"target"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

// SubmissionTarget is what the anonymous path needs to validate one answer.
type SubmissionTarget struct {
	AssessmentID string
	Status       AssessmentStatus
	QuestionID   string
	// HasQuestion is false when the question is not part of the
	// assessment's questionnaire.
	HasQuestion bool
	ScalePoints int
}
