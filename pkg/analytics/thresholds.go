// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package analytics

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/canonical/assessment-service/internal/apperrors"
	"github.com/canonical/assessment-service/internal/types"
)

const (
	DefaultAssessmentThreshold = 10
	DefaultDepartmentThreshold = 5
	DefaultCategoryThreshold   = 3
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Thresholds is the minimum number of distinct respondents a bucket needs
// before its statistic is disclosed. The assessment level is strictly the
// largest.
type Thresholds struct {
	Assessment int `json:"assessment" validate:"gte=2,gtfield=Department,gtfield=Category"`
	Department int `json:"department" validate:"gte=2"`
	Category   int `json:"category" validate:"gte=2"`
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		Assessment: DefaultAssessmentThreshold,
		Department: DefaultDepartmentThreshold,
		Category:   DefaultCategoryThreshold,
	}
}

// NewThresholds returns validated thresholds.
func NewThresholds(assessment, department, category int) (Thresholds, error) {
	t := Thresholds{Assessment: assessment, Department: department, Category: category}
	if err := t.Validate(); err != nil {
		return Thresholds{}, err
	}
	return t, nil
}

func (t Thresholds) Validate() error {
	if err := validate.Struct(t); err != nil {
		return fmt.Errorf("%w: suppression thresholds %+v: %v", apperrors.ErrInvalidInput, t, err)
	}
	return nil
}

// For returns the threshold of a bucket type.
func (t Thresholds) For(b types.BucketType) (int, bool) {
	switch b {
	case types.BucketAssessment:
		return t.Assessment, true
	case types.BucketDepartment:
		return t.Department, true
	case types.BucketCategory:
		return t.Category, true
	}
	return 0, false
}

// ForBucket is the threshold a bucket is actually held to. A bucket whose
// responses all come from one department never drops below the department
// floor, whatever it is grouped by.
func (t Thresholds) ForBucket(b types.BucketType, row *types.BucketRow) (int, bool) {
	threshold, ok := t.For(b)
	if !ok {
		return 0, false
	}

	if row.DepartmentID != "" {
		threshold = max(threshold, t.Department)
	}

	return threshold, true
}
