// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package types

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// BucketType is the dimension aggregates are grouped by.
type BucketType string

const (
	BucketAssessment BucketType = "assessment"
	BucketDepartment BucketType = "department"
	BucketCategory   BucketType = "category"
)

func ParseBucketType(s string) (BucketType, error) {
	switch b := BucketType(s); b {
	case BucketAssessment, BucketDepartment, BucketCategory:
		return b, nil
	}
	return "", fmt.Errorf("unknown bucket type %q", s)
}

// AggregateScope narrows the response set, empty fields do not filter.
type AggregateScope struct {
	AssessmentID string `json:"assessment_id,omitempty"`
	DepartmentID string `json:"department_id,omitempty"`
	Category     string `json:"category,omitempty"`
}

// BucketRow is the raw per-bucket result read from storage. It never leaves
// the aggregation engine.
type BucketRow struct {
	Key         string
	SampleCount int
	Mean        decimal.Decimal
	// DepartmentID is set when every contributing assessment belongs to
	// this one department.
	DepartmentID string
}

// AggregateStatistic is either visible, carrying Value, or suppressed,
// carrying Remaining. Value is nil whenever Suppressed is true.
type AggregateStatistic struct {
	BucketType  BucketType       `json:"bucket_type"`
	BucketKey   string           `json:"bucket_key"`
	SampleCount int              `json:"sample_count"`
	Suppressed  bool             `json:"suppressed"`
	Remaining   int              `json:"remaining,omitempty"`
	Value       *decimal.Decimal `json:"value,omitempty"`
}
