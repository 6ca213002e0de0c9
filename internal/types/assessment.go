// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package types

import (
	"fmt"
	"slices"
)

type AssessmentStatus string

const (
	AssessmentDraft     AssessmentStatus = "draft"
	AssessmentActive    AssessmentStatus = "active"
	AssessmentCompleted AssessmentStatus = "completed"
	AssessmentArchived  AssessmentStatus = "archived"
)

var assessmentTransitions = map[AssessmentStatus][]AssessmentStatus{
	AssessmentDraft:     {AssessmentActive, AssessmentArchived},
	AssessmentActive:    {AssessmentCompleted, AssessmentArchived},
	AssessmentCompleted: {AssessmentArchived},
	AssessmentArchived:  {},
}

func ParseAssessmentStatus(s string) (AssessmentStatus, error) {
	st := AssessmentStatus(s)
	if _, ok := assessmentTransitions[st]; !ok {
		return "", fmt.Errorf("unknown assessment status %q", s)
	}
	return st, nil
}

// CanTransition reports whether the lifecycle allows moving from s to next.
func (s AssessmentStatus) CanTransition(next AssessmentStatus) bool {
	return slices.Contains(assessmentTransitions[s], next)
}

// AcceptsResponses is true only while the assessment is running.
func (s AssessmentStatus) AcceptsResponses() bool {
	return s == AssessmentActive
}
