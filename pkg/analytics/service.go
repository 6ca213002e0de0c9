// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package analytics

import (
	"context"
	"errors"
	"fmt"

	"github.com/canonical/assessment-service/internal/apperrors"
	"github.com/canonical/assessment-service/internal/authorization"
	"github.com/canonical/assessment-service/internal/logging"
	"github.com/canonical/assessment-service/internal/monitoring"
	"github.com/canonical/assessment-service/internal/storage"
	"github.com/canonical/assessment-service/internal/tracing"
	"github.com/canonical/assessment-service/internal/types"
)

const valuePrecision = 2

var _ ServiceInterface = (*Service)(nil)

// Summary is the assessment level statistic plus one per category, each
// suppressed on its own.
type Summary struct {
	AssessmentID string                      `json:"assessment_id"`
	Overall      *types.AggregateStatistic   `json:"overall"`
	Categories   []*types.AggregateStatistic `json:"categories"`
}

type Service struct {
	storage    StorageInterface
	authz      AuthorizerInterface
	thresholds Thresholds

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

func NewService(
	storage StorageInterface,
	authz AuthorizerInterface,
	thresholds Thresholds,
	tracer tracing.TracingInterface,
	monitor monitoring.MonitorInterface,
	logger logging.LoggerInterface,
) *Service {
	return &Service{
		storage:    storage,
		authz:      authz,
		thresholds: thresholds,
		tracer:     tracer,
		monitor:    monitor,
		logger:     logger,
	}
}

// Aggregate returns one statistic per bucket of groupBy inside scope. Only
// the principal's organization is ever read. Buckets below their threshold
// carry their sample count and how many respondents are missing, never a
// value. Regrouping a single department's responses does not lower the
// threshold.
func (s *Service) Aggregate(ctx context.Context, p types.Principal, scope types.AggregateScope, groupBy types.BucketType) ([]*types.AggregateStatistic, error) {
	ctx, span := s.tracer.Start(ctx, "analytics.Service.Aggregate")
	defer span.End()

	if _, ok := s.thresholds.For(groupBy); !ok {
		return nil, fmt.Errorf("%w: unknown bucket type %q", apperrors.ErrInvalidInput, groupBy)
	}

	if err := s.authz.Authorize(ctx, p, p.OrganizationID, authorization.ActionRead); err != nil {
		return nil, err
	}

	if err := s.checkScope(ctx, p, scope); err != nil {
		return nil, err
	}

	rows, err := s.storage.AggregateResponses(ctx, p.OrganizationID, scope, groupBy)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	if err != nil {
		return nil, s.unavailable(err)
	}

	stats := make([]*types.AggregateStatistic, 0, len(rows))
	for _, row := range rows {
		threshold, _ := s.thresholds.ForBucket(groupBy, row)
		stats = append(stats, s.decide(groupBy, threshold, row))
	}

	// A cancellation racing the computation still yields nothing.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return stats, nil
}

// Summary reports the overall assessment statistic and the per category
// ones. An assessment without responses reports a suppressed zero bucket.
func (s *Service) Summary(ctx context.Context, p types.Principal, assessmentID string) (*Summary, error) {
	ctx, span := s.tracer.Start(ctx, "analytics.Service.Summary")
	defer span.End()

	scope := types.AggregateScope{AssessmentID: assessmentID}

	overall, err := s.Aggregate(ctx, p, scope, types.BucketAssessment)
	if err != nil {
		return nil, err
	}

	categories, err := s.Aggregate(ctx, p, scope, types.BucketCategory)
	if err != nil {
		return nil, err
	}

	summary := &Summary{AssessmentID: assessmentID, Categories: categories}

	if len(overall) > 0 {
		summary.Overall = overall[0]
	} else {
		summary.Overall = s.decide(types.BucketAssessment, s.thresholds.Assessment, &types.BucketRow{Key: assessmentID})
	}

	return summary, nil
}

// decide is the suppression rule, sample counts equal to the threshold are
// disclosed.
func (s *Service) decide(groupBy types.BucketType, threshold int, row *types.BucketRow) *types.AggregateStatistic {
	stat := &types.AggregateStatistic{
		BucketType:  groupBy,
		BucketKey:   row.Key,
		SampleCount: row.SampleCount,
	}

	if row.SampleCount < threshold {
		stat.Suppressed = true
		stat.Remaining = threshold - row.SampleCount

		if err := s.monitor.IncSuppressedBuckets(map[string]string{"bucket_type": string(groupBy)}); err != nil {
			s.logger.Debugf("failed to record suppressed bucket: %v", err)
		}

		return stat
	}

	value := row.Mean.Round(valuePrecision)
	stat.Value = &value

	return stat
}

// checkScope makes sure every referenced resource is readable by p, foreign
// ids read as not found.
func (s *Service) checkScope(ctx context.Context, p types.Principal, scope types.AggregateScope) error {
	if scope.AssessmentID != "" {
		if _, err := s.storage.GetAssessment(ctx, p.OrganizationID, scope.AssessmentID); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return apperrors.ErrNotFound
			}
			return s.unavailable(err)
		}
	}

	if scope.DepartmentID != "" {
		if _, err := s.storage.GetDepartment(ctx, p.OrganizationID, scope.DepartmentID); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return apperrors.ErrNotFound
			}
			return s.unavailable(err)
		}
	}

	return nil
}

// unavailable turns a failed read into ErrStoreUnavailable. The engine never
// answers with a fabricated suppression when it could not count.
func (s *Service) unavailable(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	s.logger.Errorf("aggregation read failed: %v", err)

	if errors.Is(err, apperrors.ErrStoreUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %v", apperrors.ErrStoreUnavailable, err)
}
