// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package webhooks

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

//go:generate mockgen -build_flags=--mod=mod -package webhooks -destination ./mock_webhooks.go -source=./interfaces.go

func TestService_HandleRegistration(t *testing.T) {
	identityID := "identity-123"
	email := "User@Example.com"
	org := &types.Organization{ID: "org-123", Name: "user@example.com's Organization"}

	testCases := []struct {
		name        string
		identityID  string
		email       string
		setupMocks  func(*MockStorageInterface)
		expectedErr error
	}{
		{
			name:       "success",
			identityID: identityID,
			email:      email,
			setupMocks: func(mockStorage *MockStorageInterface) {
				mockStorage.EXPECT().GetProfile(gomock.Any(), identityID).Return(nil, storage.ErrNotFound)
				mockStorage.EXPECT().CreateOrganization(gomock.Any(), gomock.Any()).DoAndReturn(
					func(_ context.Context, o *types.Organization) (*types.Organization, error) {
						if o.Name != "user@example.com's Organization" {
							return nil, errors.New("wrong organization name")
						}
						return org, nil
					})
				mockStorage.EXPECT().CreateProfile(gomock.Any(), &types.Profile{UserID: identityID, OrganizationID: org.ID, Role: types.RoleAdmin}).
					Return(&types.Profile{UserID: identityID, OrganizationID: org.ID, Role: types.RoleAdmin}, nil)
				mockStorage.EXPECT().CreateAuditEvent(gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name:       "replay keeps existing profile",
			identityID: identityID,
			email:      email,
			setupMocks: func(mockStorage *MockStorageInterface) {
				mockStorage.EXPECT().GetProfile(gomock.Any(), identityID).
					Return(&types.Profile{UserID: identityID, OrganizationID: "org-existing", Role: types.RoleMember}, nil)
			},
		},
		{
			name:        "empty identity id",
			identityID:  "",
			email:       email,
			setupMocks:  func(mockStorage *MockStorageInterface) {},
			expectedErr: apperrors.ErrInvalidInput,
		},
		{
			name:        "empty email",
			identityID:  identityID,
			email:       " ",
			setupMocks:  func(mockStorage *MockStorageInterface) {},
			expectedErr: apperrors.ErrInvalidInput,
		},
		{
			name:       "store unavailable",
			identityID: identityID,
			email:      email,
			setupMocks: func(mockStorage *MockStorageInterface) {
				mockStorage.EXPECT().GetProfile(gomock.Any(), identityID).Return(nil, apperrors.ErrStoreUnavailable)
			},
			expectedErr: apperrors.ErrStoreUnavailable,
		},
		{
			name:       "concurrent delivery",
			identityID: identityID,
			email:      email,
			setupMocks: func(mockStorage *MockStorageInterface) {
				mockStorage.EXPECT().GetProfile(gomock.Any(), identityID).Return(nil, storage.ErrNotFound)
				mockStorage.EXPECT().CreateOrganization(gomock.Any(), gomock.Any()).Return(org, nil)
				mockStorage.EXPECT().CreateProfile(gomock.Any(), gomock.Any()).Return(nil, storage.ErrDuplicateKey)
			},
			expectedErr: apperrors.ErrConflict,
		},
		{
			name:       "audit failure is not fatal",
			identityID: identityID,
			email:      email,
			setupMocks: func(mockStorage *MockStorageInterface) {
				mockStorage.EXPECT().GetProfile(gomock.Any(), identityID).Return(nil, storage.ErrNotFound)
				mockStorage.EXPECT().CreateOrganization(gomock.Any(), gomock.Any()).Return(org, nil)
				mockStorage.EXPECT().CreateProfile(gomock.Any(), gomock.Any()).
					Return(&types.Profile{UserID: identityID, OrganizationID: org.ID, Role: types.RoleAdmin}, nil)
				mockStorage.EXPECT().CreateAuditEvent(gomock.Any(), gomock.Any()).Return(errors.New("boom"))
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			logger := logging.NewNoopLogger()
			mockStorage := NewMockStorageInterface(ctrl)
			tc.setupMocks(mockStorage)

			s := NewService(mockStorage, tracing.NewNoopTracer(), monitoring.NewNoopMonitor("test", logger), logger)

			profile, err := s.HandleRegistration(context.Background(), tc.identityID, tc.email)

			if tc.expectedErr != nil {
				if !errors.Is(err, tc.expectedErr) {
					t.Errorf("expected error %v, got %v", tc.expectedErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if profile == nil || profile.UserID != identityID {
				t.Errorf("unexpected profile %+v", profile)
			}
		})
	}
}

func TestService_HandleRegistrationIsIdempotent(t *testing.T) {
	ctx := context.Background()

	logger := logging.NewNoopLogger()
	tracer := tracing.NewNoopTracer()
	monitor := monitoring.NewNoopMonitor("test", logger)

	store := storage.NewMemoryStorage(tracer, monitor, logger)
	s := NewService(store, tracer, monitor, logger)

	first, err := s.HandleRegistration(ctx, "identity-1", "a@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := s.HandleRegistration(ctx, "identity-1", "a@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if first.OrganizationID != second.OrganizationID {
		t.Errorf("replay must not create a second organization, got %s and %s", first.OrganizationID, second.OrganizationID)
	}
	if second.Role != types.RoleAdmin {
		t.Errorf("expected admin, got %s", second.Role)
	}

	org, err := store.GetOrganization(ctx, first.OrganizationID, first.OrganizationID)
	if err != nil {
		t.Fatalf("failed to read organization: %v", err)
	}
	if org.Name != "a@example.com's Organization" {
		t.Errorf("unexpected organization name %q", org.Name)
	}
	if events := store.AuditEvents(); len(events) != 1 {
		t.Errorf("expected one audit event, got %d", len(events))
	}
}
