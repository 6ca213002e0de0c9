// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package webhooks

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/canonical/assessment-service/internal/apperrors"
	"github.com/canonical/assessment-service/internal/logging"
	"github.com/canonical/assessment-service/internal/monitoring"
	"github.com/canonical/assessment-service/internal/storage"
	"github.com/canonical/assessment-service/internal/tracing"
	"github.com/canonical/assessment-service/internal/types"
)

const auditOrganizationCreated = "organization.created"

var _ ServiceInterface = (*Service)(nil)

type Service struct {
	storage StorageInterface
	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

func NewService(
	storage StorageInterface,
	tracer tracing.TracingInterface,
	monitor monitoring.MonitorInterface,
	logger logging.LoggerInterface,
) *Service {
	return &Service{
		storage: storage,
		tracer:  tracer,
		monitor: monitor,
		logger:  logger,
	}
}

// HandleRegistration gives a freshly registered identity its own organization
// with the identity as admin. Replays for an identity that already has a
// profile return that profile and change nothing.
func (s *Service) HandleRegistration(ctx context.Context, identityID, email string) (*types.Profile, error) {
	ctx, span := s.tracer.Start(ctx, "webhooks.Service.HandleRegistration")
	defer span.End()

	identityID = strings.TrimSpace(identityID)
	email = strings.ToLower(strings.TrimSpace(email))

	if identityID == "" || email == "" {
		return nil, fmt.Errorf("%w: identity id and email are required", apperrors.ErrInvalidInput)
	}

	existing, err := s.storage.GetProfile(ctx, identityID)
	if err == nil {
		s.logger.Debugf("identity %s already has a profile, skipping provisioning", identityID)
		return existing, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}

	org, err := s.storage.CreateOrganization(ctx, &types.Organization{Name: fmt.Sprintf("%s's Organization", email)})
	if err != nil {
		return nil, fmt.Errorf("failed to create organization: %w", err)
	}

	profile, err := s.storage.CreateProfile(ctx, &types.Profile{
		UserID:         identityID,
		OrganizationID: org.ID,
		Role:           types.RoleAdmin,
	})
	if errors.Is(err, storage.ErrDuplicateKey) {
		// a concurrent delivery won, fail so the request transaction drops org
		return nil, fmt.Errorf("%w: identity already provisioned", apperrors.ErrConflict)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}

	if err := s.storage.CreateAuditEvent(ctx, &types.AuditEvent{
		OrganizationID: org.ID,
		ActorUserID:    identityID,
		Action:         auditOrganizationCreated,
		Target:         org.ID,
	}); err != nil {
		s.logger.Errorf("failed to record audit event for organization %s: %v", org.ID, err)
	}

	s.logger.Security().AdminAction(identityID, org.ID, auditOrganizationCreated, org.ID)
	s.logger.Infof("provisioned organization %s for identity %s", org.ID, identityID)

	return profile, nil
}
