// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package members

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/canonical/assessment-service/internal/apperrors"
	"github.com/canonical/assessment-service/internal/authorization"
	"github.com/canonical/assessment-service/internal/logging"
	"github.com/canonical/assessment-service/internal/monitoring"
	"github.com/canonical/assessment-service/internal/storage"
	"github.com/canonical/assessment-service/internal/tracing"
	"github.com/canonical/assessment-service/internal/types"
)

const (
	auditRoleChanged = "member.role_changed"
	auditProvisioned = "member.provisioned"
	auditRemoved     = "member.removed"
)

var _ ServiceInterface = (*Service)(nil)

// Invitation is returned to the admin who provisioned a member, it is the
// only place the recovery link is exposed.
type Invitation struct {
	UserID string     `json:"user_id"`
	Email  string     `json:"email"`
	Role   types.Role `json:"role"`
	Link   string     `json:"link"`
	Code   string     `json:"code"`
}

type Service struct {
	storage            StorageInterface
	authz              AuthorizerInterface
	kratos             KratosClientInterface
	invitationLifetime string

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

func NewService(
	storage StorageInterface,
	authz AuthorizerInterface,
	kratos KratosClientInterface,
	invitationLifetime string,
	tracer tracing.TracingInterface,
	monitor monitoring.MonitorInterface,
	logger logging.LoggerInterface,
) *Service {
	return &Service{
		storage:            storage,
		authz:              authz,
		kratos:             kratos,
		invitationLifetime: invitationLifetime,
		tracer:             tracer,
		monitor:            monitor,
		logger:             logger,
	}
}

func (s *Service) List(ctx context.Context, p types.Principal) ([]*types.Profile, error) {
	ctx, span := s.tracer.Start(ctx, "members.Service.List")
	defer span.End()

	if err := s.authz.Authorize(ctx, p, p.OrganizationID, authorization.ActionRead); err != nil {
		return nil, err
	}

	profiles, err := s.storage.ListProfiles(ctx, p.OrganizationID)
	if err != nil {
		return nil, s.storeError(err)
	}

	return profiles, nil
}

// UpdateRole changes the role of a member of the caller's organization. The
// last admin of an organization can not be demoted, the store checks it
// atomically with the write.
func (s *Service) UpdateRole(ctx context.Context, p types.Principal, userID string, role types.Role) (*types.Profile, error) {
	ctx, span := s.tracer.Start(ctx, "members.Service.UpdateRole")
	defer span.End()

	if err := s.authz.Authorize(ctx, p, p.OrganizationID, authorization.ActionManageMembers); err != nil {
		return nil, err
	}
	if !role.Valid() {
		return nil, fmt.Errorf("%w: unknown role", apperrors.ErrInvalidInput)
	}

	member, err := s.member(ctx, p, userID)
	if err != nil {
		return nil, err
	}

	affected, err := s.storage.UpdateProfileRole(ctx, p.OrganizationID, userID, role)
	if err != nil {
		return nil, s.storeError(err)
	}
	if affected == 0 {
		return nil, apperrors.ErrNotFound
	}

	s.audit(ctx, p, auditRoleChanged, fmt.Sprintf("profile:%s#%s", userID, role))

	member.Role = role
	return member, nil
}

// Provision finds or creates the identity for email and binds it to the
// caller's organization. Provisioning an identity already bound to this
// organization only issues a fresh invitation.
func (s *Service) Provision(ctx context.Context, p types.Principal, email string, role types.Role) (*Invitation, error) {
	ctx, span := s.tracer.Start(ctx, "members.Service.Provision")
	defer span.End()

	if err := s.authz.Authorize(ctx, p, p.OrganizationID, authorization.ActionManageMembers); err != nil {
		return nil, err
	}

	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%w: invalid email", apperrors.ErrInvalidInput)
	}
	if !role.Valid() {
		return nil, fmt.Errorf("%w: unknown role", apperrors.ErrInvalidInput)
	}

	identityID, err := s.kratos.GetIdentityIDByEmail(ctx, email)
	if err != nil {
		s.logger.Errorf("failed to look up identity: %v", err)
		return nil, fmt.Errorf("%w: identity provider", apperrors.ErrStoreUnavailable)
	}

	if identityID == "" {
		s.logger.Debugf("creating identity for new member of %s", p.OrganizationID)
		if identityID, err = s.kratos.CreateIdentity(ctx, email); err != nil {
			s.logger.Errorf("failed to create identity: %v", err)
			return nil, fmt.Errorf("%w: identity provider", apperrors.ErrStoreUnavailable)
		}
	}

	existing, err := s.storage.GetProfile(ctx, identityID)
	switch {
	case err == nil && existing.OrganizationID != p.OrganizationID:
		return nil, fmt.Errorf("%w: user can not be added", apperrors.ErrConflict)
	case err == nil:
		role = existing.Role
	case errors.Is(err, storage.ErrNotFound):
		_, err := s.storage.CreateProfile(ctx, &types.Profile{
			UserID:         identityID,
			OrganizationID: p.OrganizationID,
			Role:           role,
			Email:          email,
		})
		if errors.Is(err, storage.ErrDuplicateKey) {
			return nil, fmt.Errorf("%w: user can not be added", apperrors.ErrConflict)
		}
		if err != nil {
			return nil, s.storeError(err)
		}
		s.audit(ctx, p, auditProvisioned, fmt.Sprintf("profile:%s#%s", identityID, role))
	default:
		return nil, s.storeError(err)
	}

	link, code, err := s.kratos.CreateRecoveryLink(ctx, identityID, s.invitationLifetime)
	if err != nil {
		s.logger.Errorf("failed to create recovery link: %v", err)
		return nil, fmt.Errorf("%w: identity provider", apperrors.ErrStoreUnavailable)
	}

	return &Invitation{UserID: identityID, Email: email, Role: role, Link: link, Code: code}, nil
}

// Remove unbinds a member from the caller's organization. The identity itself
// is left in the identity provider.
func (s *Service) Remove(ctx context.Context, p types.Principal, userID string) error {
	ctx, span := s.tracer.Start(ctx, "members.Service.Remove")
	defer span.End()

	if err := s.authz.Authorize(ctx, p, p.OrganizationID, authorization.ActionManageMembers); err != nil {
		return err
	}

	member, err := s.member(ctx, p, userID)
	if err != nil {
		return err
	}

	affected, err := s.storage.DeleteProfile(ctx, p.OrganizationID, userID)
	if err != nil {
		return s.storeError(err)
	}
	if affected == 0 {
		return apperrors.ErrNotFound
	}

	s.audit(ctx, p, auditRemoved, "profile:"+userID)

	return nil
}

// member loads a profile and hides profiles of other organizations.
func (s *Service) member(ctx context.Context, p types.Principal, userID string) (*types.Profile, error) {
	profile, err := s.storage.GetProfile(ctx, userID)
	if err != nil {
		return nil, s.storeError(err)
	}
	if profile.OrganizationID != p.OrganizationID {
		return nil, apperrors.ErrNotFound
	}
	return profile, nil
}

func (s *Service) audit(ctx context.Context, p types.Principal, action, target string) {
	s.logger.Security().AdminAction(p.UserID, p.OrganizationID, action, target)

	err := s.storage.CreateAuditEvent(ctx, &types.AuditEvent{
		OrganizationID: p.OrganizationID,
		ActorUserID:    p.UserID,
		Action:         action,
		Target:         target,
	})
	if err != nil {
		s.logger.Errorf("failed to record audit event %s: %v", action, err)
	}
}

// storeError keeps the storage chain, ErrStoreUnavailable included, and
// only folds storage.ErrNotFound and storage.ErrLastAdmin into the
// application sentinels.
func (s *Service) storeError(err error) error {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return apperrors.ErrNotFound
	case errors.Is(err, storage.ErrLastAdmin):
		return fmt.Errorf("%w: an organization needs at least one admin", apperrors.ErrConflict)
	}
	return err
}
