// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package members

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/mock/gomock"

	"github.com/canonical/assessment-service/internal/apperrors"
	"github.com/canonical/assessment-service/internal/authorization"
	"github.com/canonical/assessment-service/internal/logging"
	"github.com/canonical/assessment-service/internal/monitoring"
	"github.com/canonical/assessment-service/internal/storage"
	"github.com/canonical/assessment-service/internal/tracing"
	"github.com/canonical/assessment-service/internal/types"
)

//go:generate mockgen -build_flags=--mod=mod -package members -destination ./mock_members.go -source=./interfaces.go

var (
	admin   = types.Principal{UserID: "admin-1", OrganizationID: "org-a", Role: types.RoleAdmin}
	manager = types.Principal{UserID: "manager-1", OrganizationID: "org-a", Role: types.RoleManager}
)

type mocks struct {
	storage *MockStorageInterface
	kratos  *MockKratosClientInterface
}

func newTestService(ctrl *gomock.Controller) (*Service, mocks) {
	logger := logging.NewNoopLogger()
	tracer := tracing.NewNoopTracer()
	monitor := monitoring.NewNoopMonitor("test", logger)

	m := mocks{storage: NewMockStorageInterface(ctrl), kratos: NewMockKratosClientInterface(ctrl)}
	authz := authorization.NewAuthorizer(tracer, monitor, logger)

	return NewService(m.storage, authz, m.kratos, "24h", tracer, monitor, logger), m
}

func TestService_List(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	s, m := newTestService(ctrl)

	viewer := types.Principal{UserID: "viewer-1", OrganizationID: "org-a", Role: types.RoleViewer}
	m.storage.EXPECT().ListProfiles(gomock.Any(), "org-a").Return([]*types.Profile{{UserID: "viewer-1", OrganizationID: "org-a"}}, nil)

	profiles, err := s.List(context.Background(), viewer)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(profiles) != 1 {
		t.Errorf("expected 1 profile, got %d", len(profiles))
	}
}

func TestService_UpdateRole(t *testing.T) {
	testCases := []struct {
		name        string
		principal   types.Principal
		userID      string
		role        types.Role
		setupMocks  func(mocks)
		expectedErr error
	}{
		{
			name:      "promote member",
			principal: admin,
			userID:    "user-2",
			role:      types.RoleManager,
			setupMocks: func(m mocks) {
				m.storage.EXPECT().GetProfile(gomock.Any(), "user-2").Return(&types.Profile{UserID: "user-2", OrganizationID: "org-a", Role: types.RoleMember}, nil)
				m.storage.EXPECT().UpdateProfileRole(gomock.Any(), "org-a", "user-2", types.RoleManager).Return(int64(1), nil)
				m.storage.EXPECT().CreateAuditEvent(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, e *types.AuditEvent) error {
					if e.ActorUserID != "admin-1" || e.Action != auditRoleChanged {
						t.Errorf("unexpected audit event %+v", e)
					}
					return nil
				})
			},
		},
		{
			name:        "manager can not change roles",
			principal:   manager,
			userID:      "user-2",
			role:        types.RoleAdmin,
			setupMocks:  func(mocks) {},
			expectedErr: apperrors.ErrForbidden,
		},
		{
			name:      "member of another organization",
			principal: admin,
			userID:    "user-b",
			role:      types.RoleViewer,
			setupMocks: func(m mocks) {
				m.storage.EXPECT().GetProfile(gomock.Any(), "user-b").Return(&types.Profile{UserID: "user-b", OrganizationID: "org-b", Role: types.RoleAdmin}, nil)
			},
			expectedErr: apperrors.ErrNotFound,
		},
		{
			name:      "last admin demoting themselves",
			principal: admin,
			userID:    "admin-1",
			role:      types.RoleViewer,
			setupMocks: func(m mocks) {
				m.storage.EXPECT().GetProfile(gomock.Any(), "admin-1").Return(&types.Profile{UserID: "admin-1", OrganizationID: "org-a", Role: types.RoleAdmin}, nil)
				m.storage.EXPECT().UpdateProfileRole(gomock.Any(), "org-a", "admin-1", types.RoleViewer).Return(int64(0), storage.ErrLastAdmin)
			},
			expectedErr: apperrors.ErrConflict,
		},
		{
			name:      "concurrent removal",
			principal: admin,
			userID:    "user-2",
			role:      types.RoleViewer,
			setupMocks: func(m mocks) {
				m.storage.EXPECT().GetProfile(gomock.Any(), "user-2").Return(&types.Profile{UserID: "user-2", OrganizationID: "org-a", Role: types.RoleMember}, nil)
				m.storage.EXPECT().UpdateProfileRole(gomock.Any(), "org-a", "user-2", types.RoleViewer).Return(int64(0), nil)
			},
			expectedErr: apperrors.ErrNotFound,
		},
		{
			name:        "invalid role",
			principal:   admin,
			userID:      "user-2",
			role:        types.Role(9),
			setupMocks:  func(mocks) {},
			expectedErr: apperrors.ErrInvalidInput,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			s, m := newTestService(ctrl)
			tc.setupMocks(m)

			profile, err := s.UpdateRole(context.Background(), tc.principal, tc.userID, tc.role)

			if tc.expectedErr != nil {
				if !errors.Is(err, tc.expectedErr) {
					t.Fatalf("expected error %v, got %v", tc.expectedErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if profile.Role != tc.role {
				t.Errorf("expected role %s, got %s", tc.role, profile.Role)
			}
		})
	}
}

func TestService_Provision(t *testing.T) {
	testCases := []struct {
		name        string
		email       string
		setupMocks  func(mocks)
		expectedErr error
	}{
		{
			name:  "new identity",
			email: "New@Example.com",
			setupMocks: func(m mocks) {
				m.kratos.EXPECT().GetIdentityIDByEmail(gomock.Any(), "new@example.com").Return("", nil)
				m.kratos.EXPECT().CreateIdentity(gomock.Any(), "new@example.com").Return("id-new", nil)
				m.storage.EXPECT().GetProfile(gomock.Any(), "id-new").Return(nil, storage.ErrNotFound)
				m.storage.EXPECT().CreateProfile(gomock.Any(), &types.Profile{UserID: "id-new", OrganizationID: "org-a", Role: types.RoleMember, Email: "new@example.com"}).
					Return(&types.Profile{UserID: "id-new", OrganizationID: "org-a", Role: types.RoleMember}, nil)
				m.storage.EXPECT().CreateAuditEvent(gomock.Any(), gomock.Any()).Return(nil)
				m.kratos.EXPECT().CreateRecoveryLink(gomock.Any(), "id-new", "24h").Return("https://link", "123456", nil)
			},
		},
		{
			name:  "already a member re-invites",
			email: "old@example.com",
			setupMocks: func(m mocks) {
				m.kratos.EXPECT().GetIdentityIDByEmail(gomock.Any(), "old@example.com").Return("id-old", nil)
				m.storage.EXPECT().GetProfile(gomock.Any(), "id-old").Return(&types.Profile{UserID: "id-old", OrganizationID: "org-a", Role: types.RoleMember}, nil)
				m.kratos.EXPECT().CreateRecoveryLink(gomock.Any(), "id-old", "24h").Return("https://link", "654321", nil)
			},
		},
		{
			name:  "bound to another organization",
			email: "taken@example.com",
			setupMocks: func(m mocks) {
				m.kratos.EXPECT().GetIdentityIDByEmail(gomock.Any(), "taken@example.com").Return("id-b", nil)
				m.storage.EXPECT().GetProfile(gomock.Any(), "id-b").Return(&types.Profile{UserID: "id-b", OrganizationID: "org-b", Role: types.RoleAdmin}, nil)
			},
			expectedErr: apperrors.ErrConflict,
		},
		{
			name:  "identity provider down",
			email: "new@example.com",
			setupMocks: func(m mocks) {
				m.kratos.EXPECT().GetIdentityIDByEmail(gomock.Any(), "new@example.com").Return("", errors.New("dial tcp: refused"))
			},
			expectedErr: apperrors.ErrStoreUnavailable,
		},
		{
			name:        "invalid email",
			email:       "nobody",
			setupMocks:  func(mocks) {},
			expectedErr: apperrors.ErrInvalidInput,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			s, m := newTestService(ctrl)
			tc.setupMocks(m)

			invitation, err := s.Provision(context.Background(), admin, tc.email, types.RoleMember)

			if tc.expectedErr != nil {
				if !errors.Is(err, tc.expectedErr) {
					t.Fatalf("expected error %v, got %v", tc.expectedErr, err)
				}
				if errors.Is(err, apperrors.ErrConflict) && err.Error() != "conflict: user can not be added" {
					t.Errorf("conflict must not reveal the other organization, got %q", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if invitation.Link != "https://link" {
				t.Errorf("unexpected invitation %+v", invitation)
			}
		})
	}
}

func TestService_ProvisionRequiresAdmin(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	s, _ := newTestService(ctrl)

	if _, err := s.Provision(context.Background(), manager, "x@example.com", types.RoleViewer); !errors.Is(err, apperrors.ErrForbidden) {
		t.Errorf("expected ErrForbidden, got %v", err)
	}
}

func TestService_Remove(t *testing.T) {
	testCases := []struct {
		name        string
		userID      string
		setupMocks  func(mocks)
		expectedErr error
	}{
		{
			name:   "remove member",
			userID: "user-2",
			setupMocks: func(m mocks) {
				m.storage.EXPECT().GetProfile(gomock.Any(), "user-2").Return(&types.Profile{UserID: "user-2", OrganizationID: "org-a", Role: types.RoleMember}, nil)
				m.storage.EXPECT().DeleteProfile(gomock.Any(), "org-a", "user-2").Return(int64(1), nil)
				m.storage.EXPECT().CreateAuditEvent(gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name:   "remove one of two admins",
			userID: "admin-2",
			setupMocks: func(m mocks) {
				m.storage.EXPECT().GetProfile(gomock.Any(), "admin-2").Return(&types.Profile{UserID: "admin-2", OrganizationID: "org-a", Role: types.RoleAdmin}, nil)
				m.storage.EXPECT().DeleteProfile(gomock.Any(), "org-a", "admin-2").Return(int64(1), nil)
				m.storage.EXPECT().CreateAuditEvent(gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name:   "remove last admin",
			userID: "admin-1",
			setupMocks: func(m mocks) {
				m.storage.EXPECT().GetProfile(gomock.Any(), "admin-1").Return(&types.Profile{UserID: "admin-1", OrganizationID: "org-a", Role: types.RoleAdmin}, nil)
				m.storage.EXPECT().DeleteProfile(gomock.Any(), "org-a", "admin-1").Return(int64(0), storage.ErrLastAdmin)
			},
			expectedErr: apperrors.ErrConflict,
		},
		{
			name:   "unknown user",
			userID: "ghost",
			setupMocks: func(m mocks) {
				m.storage.EXPECT().GetProfile(gomock.Any(), "ghost").Return(nil, storage.ErrNotFound)
			},
			expectedErr: apperrors.ErrNotFound,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			s, m := newTestService(ctrl)
			tc.setupMocks(m)

			err := s.Remove(context.Background(), admin, tc.userID)
			if tc.expectedErr == nil && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tc.expectedErr != nil && !errors.Is(err, tc.expectedErr) {
				t.Fatalf("expected error %v, got %v", tc.expectedErr, err)
			}
		})
	}
}
