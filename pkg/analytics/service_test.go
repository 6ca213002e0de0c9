// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package analytics

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"go.uber.org/mock/gomock"

	"github.com/canonical/assessment-service/internal/apperrors"
	"github.com/canonical/assessment-service/internal/authorization"
	"github.com/canonical/assessment-service/internal/logging"
	"github.com/canonical/assessment-service/internal/monitoring"
	"github.com/canonical/assessment-service/internal/storage"
	"github.com/canonical/assessment-service/internal/tracing"
	"github.com/canonical/assessment-service/internal/types"
)

//go:generate mockgen -build_flags=--mod=mod -package analytics -destination ./mock_analytics.go -source=./interfaces.go

type countingMonitor struct {
	*monitoring.NoopMonitor
	suppressed map[string]int
}

func (m *countingMonitor) IncSuppressedBuckets(tags map[string]string) error {
	m.suppressed[tags["bucket_type"]]++
	return nil
}

var viewer = types.Principal{UserID: "user-1", OrganizationID: "org-a", Role: types.RoleViewer}

func newTestService(s StorageInterface, a AuthorizerInterface) (*Service, *countingMonitor) {
	logger := logging.NewNoopLogger()
	monitor := &countingMonitor{NoopMonitor: monitoring.NewNoopMonitor("test", logger), suppressed: map[string]int{}}
	return NewService(s, a, DefaultThresholds(), tracing.NewNoopTracer(), monitor, logger), monitor
}

func TestThresholds_Validate(t *testing.T) {
	testCases := []struct {
		name    string
		a, d, c int
		wantErr bool
	}{
		{name: "defaults", a: 10, d: 5, c: 3},
		{name: "equal levels", a: 5, d: 5, c: 5, wantErr: true},
		{name: "assessment equal to department", a: 5, d: 5, c: 3, wantErr: true},
		{name: "department below category", a: 10, d: 3, c: 5},
		{name: "assessment below department", a: 4, d: 5, c: 3, wantErr: true},
		{name: "assessment below category", a: 4, d: 3, c: 5, wantErr: true},
		{name: "threshold of one", a: 10, d: 5, c: 1, wantErr: true},
		{name: "zero", a: 0, d: 0, c: 0, wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewThresholds(tc.a, tc.d, tc.c)
			if tc.wantErr && !errors.Is(err, apperrors.ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput, got %v", err)
			}
			if !tc.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestThresholds_For(t *testing.T) {
	th := DefaultThresholds()

	for b, expected := range map[types.BucketType]int{
		types.BucketAssessment: 10,
		types.BucketDepartment: 5,
		types.BucketCategory:   3,
	} {
		if got, ok := th.For(b); !ok || got != expected {
			t.Errorf("%s: expected %d, got %d", b, expected, got)
		}
	}

	if _, ok := th.For(types.BucketType("question")); ok {
		t.Error("unknown bucket type must not have a threshold")
	}
}

func TestThresholds_ForBucket(t *testing.T) {
	th := DefaultThresholds()

	testCases := []struct {
		name     string
		groupBy  types.BucketType
		row      *types.BucketRow
		expected int
	}{
		{name: "category across departments", groupBy: types.BucketCategory, row: &types.BucketRow{Key: "workload"}, expected: 3},
		{name: "category inside one department", groupBy: types.BucketCategory, row: &types.BucketRow{Key: "workload", DepartmentID: "dep-1"}, expected: 5},
		{name: "department", groupBy: types.BucketDepartment, row: &types.BucketRow{Key: "dep-1", DepartmentID: "dep-1"}, expected: 5},
		{name: "assessment inside one department", groupBy: types.BucketAssessment, row: &types.BucketRow{Key: "asm-1", DepartmentID: "dep-1"}, expected: 10},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got, ok := th.ForBucket(tc.groupBy, tc.row); !ok || got != tc.expected {
				t.Errorf("expected %d, got %d", tc.expected, got)
			}
		})
	}
}

func TestService_AggregateCategoryInsideDepartment(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStorage := NewMockStorageInterface(ctrl)
	mockAuthz := NewMockAuthorizerInterface(ctrl)

	scope := types.AggregateScope{DepartmentID: "dep-1", Category: "workload"}

	mockAuthz.EXPECT().Authorize(gomock.Any(), viewer, "org-a", authorization.ActionRead).Return(nil)
	mockStorage.EXPECT().GetDepartment(gomock.Any(), "org-a", "dep-1").Return(&types.Department{ID: "dep-1", OrganizationID: "org-a"}, nil)
	mockStorage.EXPECT().AggregateResponses(gomock.Any(), "org-a", scope, types.BucketCategory).
		Return([]*types.BucketRow{{Key: "workload", SampleCount: 4, Mean: decimal.NewFromInt(2), DepartmentID: "dep-1"}}, nil)

	s, _ := newTestService(mockStorage, mockAuthz)

	stats, err := s.Aggregate(context.Background(), viewer, scope, types.BucketCategory)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(stats) != 1 {
		t.Fatalf("expected one bucket, got %d", len(stats))
	}
	if !stats[0].Suppressed || stats[0].Value != nil {
		t.Errorf("expected the department floor to suppress the bucket, got %+v", stats[0])
	}
	if stats[0].Remaining != 1 {
		t.Errorf("expected remaining 1, got %d", stats[0].Remaining)
	}
}

func TestService_AggregateSuppression(t *testing.T) {
	testCases := []struct {
		name          string
		groupBy       types.BucketType
		count         int
		wantSuppress  bool
		wantRemaining int
	}{
		{name: "assessment one below", groupBy: types.BucketAssessment, count: 9, wantSuppress: true, wantRemaining: 1},
		{name: "assessment at threshold", groupBy: types.BucketAssessment, count: 10},
		{name: "department one below", groupBy: types.BucketDepartment, count: 4, wantSuppress: true, wantRemaining: 1},
		{name: "department at threshold", groupBy: types.BucketDepartment, count: 5},
		{name: "category single respondent", groupBy: types.BucketCategory, count: 1, wantSuppress: true, wantRemaining: 2},
		{name: "category above threshold", groupBy: types.BucketCategory, count: 40},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockStorage := NewMockStorageInterface(ctrl)
			mockAuthz := NewMockAuthorizerInterface(ctrl)

			mockAuthz.EXPECT().Authorize(gomock.Any(), viewer, "org-a", authorization.ActionRead).Return(nil)
			mockStorage.EXPECT().AggregateResponses(gomock.Any(), "org-a", types.AggregateScope{}, tc.groupBy).
				Return([]*types.BucketRow{{Key: "k", SampleCount: tc.count, Mean: decimal.RequireFromString("0.666666")}}, nil)

			s, monitor := newTestService(mockStorage, mockAuthz)

			stats, err := s.Aggregate(context.Background(), viewer, types.AggregateScope{}, tc.groupBy)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(stats) != 1 {
				t.Fatalf("expected one bucket, got %d", len(stats))
			}

			stat := stats[0]
			if stat.Suppressed != tc.wantSuppress {
				t.Fatalf("expected suppressed %v, got %v", tc.wantSuppress, stat.Suppressed)
			}
			if stat.SampleCount != tc.count {
				t.Errorf("expected sample count %d, got %d", tc.count, stat.SampleCount)
			}

			if tc.wantSuppress {
				if stat.Value != nil {
					t.Error("suppressed bucket must not carry a value")
				}
				if stat.Remaining != tc.wantRemaining {
					t.Errorf("expected remaining %d, got %d", tc.wantRemaining, stat.Remaining)
				}
				if monitor.suppressed[string(tc.groupBy)] != 1 {
					t.Errorf("expected suppressed bucket to be counted, got %v", monitor.suppressed)
				}
				return
			}

			if stat.Value == nil || !stat.Value.Equal(decimal.RequireFromString("0.67")) {
				t.Errorf("expected value 0.67, got %v", stat.Value)
			}
		})
	}
}

func TestService_AggregateErrors(t *testing.T) {
	testCases := []struct {
		name        string
		scope       types.AggregateScope
		groupBy     types.BucketType
		setupMocks  func(*MockStorageInterface, *MockAuthorizerInterface)
		expectedErr error
	}{
		{
			name:        "unknown bucket type",
			groupBy:     types.BucketType("question"),
			setupMocks:  func(*MockStorageInterface, *MockAuthorizerInterface) {},
			expectedErr: apperrors.ErrInvalidInput,
		},
		{
			name:    "not authorized",
			groupBy: types.BucketAssessment,
			setupMocks: func(s *MockStorageInterface, a *MockAuthorizerInterface) {
				a.EXPECT().Authorize(gomock.Any(), viewer, "org-a", authorization.ActionRead).Return(apperrors.ErrForbidden)
			},
			expectedErr: apperrors.ErrForbidden,
		},
		{
			name:    "assessment of another organization",
			scope:   types.AggregateScope{AssessmentID: "asm-b"},
			groupBy: types.BucketCategory,
			setupMocks: func(s *MockStorageInterface, a *MockAuthorizerInterface) {
				a.EXPECT().Authorize(gomock.Any(), viewer, "org-a", authorization.ActionRead).Return(nil)
				s.EXPECT().GetAssessment(gomock.Any(), "org-a", "asm-b").Return(nil, storage.ErrNotFound)
			},
			expectedErr: apperrors.ErrNotFound,
		},
		{
			name:    "department of another organization",
			scope:   types.AggregateScope{DepartmentID: "dep-b"},
			groupBy: types.BucketDepartment,
			setupMocks: func(s *MockStorageInterface, a *MockAuthorizerInterface) {
				a.EXPECT().Authorize(gomock.Any(), viewer, "org-a", authorization.ActionRead).Return(nil)
				s.EXPECT().GetDepartment(gomock.Any(), "org-a", "dep-b").Return(nil, storage.ErrNotFound)
			},
			expectedErr: apperrors.ErrNotFound,
		},
		{
			name:    "store unavailable",
			groupBy: types.BucketAssessment,
			setupMocks: func(s *MockStorageInterface, a *MockAuthorizerInterface) {
				a.EXPECT().Authorize(gomock.Any(), viewer, "org-a", authorization.ActionRead).Return(nil)
				s.EXPECT().AggregateResponses(gomock.Any(), "org-a", types.AggregateScope{}, types.BucketAssessment).
					Return(nil, errors.New("connection reset"))
			},
			expectedErr: apperrors.ErrStoreUnavailable,
		},
		{
			name:    "store unavailable while checking scope",
			scope:   types.AggregateScope{AssessmentID: "asm-a"},
			groupBy: types.BucketAssessment,
			setupMocks: func(s *MockStorageInterface, a *MockAuthorizerInterface) {
				a.EXPECT().Authorize(gomock.Any(), viewer, "org-a", authorization.ActionRead).Return(nil)
				s.EXPECT().GetAssessment(gomock.Any(), "org-a", "asm-a").Return(nil, fmt.Errorf("get: %w", apperrors.ErrStoreUnavailable))
			},
			expectedErr: apperrors.ErrStoreUnavailable,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockStorage := NewMockStorageInterface(ctrl)
			mockAuthz := NewMockAuthorizerInterface(ctrl)
			tc.setupMocks(mockStorage, mockAuthz)

			s, _ := newTestService(mockStorage, mockAuthz)

			stats, err := s.Aggregate(context.Background(), viewer, tc.scope, tc.groupBy)
			if !errors.Is(err, tc.expectedErr) {
				t.Fatalf("expected error %v, got %v", tc.expectedErr, err)
			}
			if stats != nil {
				t.Errorf("expected no statistics, got %v", stats)
			}
		})
	}
}

func TestService_AggregateCancelled(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStorage := NewMockStorageInterface(ctrl)
	mockAuthz := NewMockAuthorizerInterface(ctrl)

	ctx, cancel := context.WithCancel(context.Background())

	mockAuthz.EXPECT().Authorize(gomock.Any(), viewer, "org-a", authorization.ActionRead).Return(nil)
	mockStorage.EXPECT().AggregateResponses(gomock.Any(), "org-a", types.AggregateScope{}, types.BucketCategory).
		DoAndReturn(func(context.Context, string, types.AggregateScope, types.BucketType) ([]*types.BucketRow, error) {
			cancel()
			return []*types.BucketRow{{Key: "wellbeing", SampleCount: 50, Mean: decimal.NewFromInt(1)}}, nil
		})

	s, _ := newTestService(mockStorage, mockAuthz)

	stats, err := s.Aggregate(ctx, viewer, types.AggregateScope{}, types.BucketCategory)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if stats != nil {
		t.Errorf("cancelled computation must not return partial data, got %v", stats)
	}
}

func TestService_Summary(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStorage := NewMockStorageInterface(ctrl)
	mockAuthz := NewMockAuthorizerInterface(ctrl)

	scope := types.AggregateScope{AssessmentID: "asm-a"}

	mockAuthz.EXPECT().Authorize(gomock.Any(), viewer, "org-a", authorization.ActionRead).Return(nil).Times(2)
	mockStorage.EXPECT().GetAssessment(gomock.Any(), "org-a", "asm-a").Return(&types.Assessment{ID: "asm-a", OrganizationID: "org-a"}, nil).Times(2)
	mockStorage.EXPECT().AggregateResponses(gomock.Any(), "org-a", scope, types.BucketAssessment).Return(nil, nil)
	mockStorage.EXPECT().AggregateResponses(gomock.Any(), "org-a", scope, types.BucketCategory).Return(
		[]*types.BucketRow{
			{Key: "engagement", SampleCount: 2, Mean: decimal.NewFromFloat(0.5)},
			{Key: "wellbeing", SampleCount: 3, Mean: decimal.NewFromFloat(0.25)},
		}, nil)

	s, _ := newTestService(mockStorage, mockAuthz)

	summary, err := s.Summary(context.Background(), viewer, "asm-a")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !summary.Overall.Suppressed || summary.Overall.SampleCount != 0 || summary.Overall.Remaining != DefaultAssessmentThreshold {
		t.Errorf("expected empty suppressed overall bucket, got %+v", summary.Overall)
	}
	if len(summary.Categories) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(summary.Categories))
	}
	if !summary.Categories[0].Suppressed {
		t.Error("expected engagement to be suppressed")
	}
	if summary.Categories[1].Suppressed || summary.Categories[1].Value == nil {
		t.Error("expected wellbeing to be visible")
	}
}
