// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package organization

import (
	"context"
	"errors"
	"fmt"
	"slices"
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
	auditUpdated = "organization.updated"
	auditDeleted = "organization.deleted"
)

var settingsPaths = []string{"name", "plan_tier"}

var _ ServiceInterface = (*Service)(nil)

type Service struct {
	storage StorageInterface
	authz   AuthorizerInterface

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

func NewService(storage StorageInterface, authz AuthorizerInterface, tracer tracing.TracingInterface, monitor monitoring.MonitorInterface, logger logging.LoggerInterface) *Service {
	return &Service{
		storage: storage,
		authz:   authz,
		tracer:  tracer,
		monitor: monitor,
		logger:  logger,
	}
}

// Get returns the organization only when it is the caller's own.
func (s *Service) Get(ctx context.Context, p types.Principal, id string) (*types.Organization, error) {
	ctx, span := s.tracer.Start(ctx, "organization.Service.Get")
	defer span.End()

	if !authorization.CanRead(p, id) {
		return nil, apperrors.ErrNotFound
	}

	org, err := s.storage.GetOrganization(ctx, p.OrganizationID, id)
	if err != nil {
		return nil, storeError(err)
	}

	return org, nil
}

func (s *Service) UpdateSettings(ctx context.Context, p types.Principal, o *types.Organization, paths []string) (*types.Organization, error) {
	ctx, span := s.tracer.Start(ctx, "organization.Service.UpdateSettings")
	defer span.End()

	if err := s.authz.Authorize(ctx, p, o.ID, authorization.ActionUpdateOrganization); err != nil {
		return nil, err
	}

	if len(paths) == 0 {
		return nil, fmt.Errorf("%w: update_mask is empty", apperrors.ErrInvalidInput)
	}
	for _, path := range paths {
		if !slices.Contains(settingsPaths, path) {
			return nil, fmt.Errorf("%w: field %q can not be updated", apperrors.ErrInvalidInput, path)
		}
	}
	if slices.Contains(paths, "name") {
		o.Name = strings.TrimSpace(o.Name)
		if o.Name == "" {
			return nil, fmt.Errorf("%w: name is required", apperrors.ErrInvalidInput)
		}
	}

	affected, err := s.storage.UpdateOrganization(ctx, p.OrganizationID, o, paths)
	if err != nil {
		return nil, storeError(err)
	}
	if affected == 0 {
		return nil, apperrors.ErrNotFound
	}

	s.audit(ctx, p, auditUpdated, "organization:"+o.ID+"#"+strings.Join(paths, ","))

	org, err := s.storage.GetOrganization(ctx, p.OrganizationID, o.ID)
	if err != nil {
		return nil, storeError(err)
	}

	return org, nil
}

// Delete removes the organization and everything it owns in one transaction.
// confirmName must repeat the organization name exactly.
func (s *Service) Delete(ctx context.Context, p types.Principal, id, confirmName string) error {
	ctx, span := s.tracer.Start(ctx, "organization.Service.Delete")
	defer span.End()

	if err := s.authz.Authorize(ctx, p, id, authorization.ActionDeleteOrganization); err != nil {
		return err
	}

	org, err := s.storage.GetOrganization(ctx, p.OrganizationID, id)
	if err != nil {
		return storeError(err)
	}

	if confirmName != org.Name {
		return fmt.Errorf("%w: confirmation does not match the organization name", apperrors.ErrInvalidInput)
	}

	target := "organization:" + id
	deleted, err := s.storage.DeleteOrganizationCascade(ctx, p.OrganizationID, id, &types.AuditEvent{
		OrganizationID: id,
		ActorUserID:    p.UserID,
		Action:         auditDeleted,
		Target:         target,
	})
	if err != nil {
		return storeError(err)
	}
	if deleted == 0 {
		return apperrors.ErrNotFound
	}

	s.logger.Security().AdminAction(p.UserID, p.OrganizationID, auditDeleted, target)

	return nil
}

func (s *Service) ListDepartments(ctx context.Context, p types.Principal) ([]*types.Department, error) {
	ctx, span := s.tracer.Start(ctx, "organization.Service.ListDepartments")
	defer span.End()

	if err := s.authz.Authorize(ctx, p, p.OrganizationID, authorization.ActionRead); err != nil {
		return nil, err
	}

	departments, err := s.storage.ListDepartments(ctx, p.OrganizationID)
	if err != nil {
		return nil, storeError(err)
	}

	return departments, nil
}

func (s *Service) CreateDepartment(ctx context.Context, p types.Principal, name string) (*types.Department, error) {
	ctx, span := s.tracer.Start(ctx, "organization.Service.CreateDepartment")
	defer span.End()

	if err := s.authz.Authorize(ctx, p, p.OrganizationID, authorization.ActionEditContent); err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", apperrors.ErrInvalidInput)
	}

	d, err := s.storage.CreateDepartment(ctx, &types.Department{OrganizationID: p.OrganizationID, Name: name})
	if err != nil {
		return nil, departmentError(err)
	}

	return d, nil
}

func (s *Service) RenameDepartment(ctx context.Context, p types.Principal, id, name string) (*types.Department, error) {
	ctx, span := s.tracer.Start(ctx, "organization.Service.RenameDepartment")
	defer span.End()

	if err := s.authz.Authorize(ctx, p, p.OrganizationID, authorization.ActionEditContent); err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", apperrors.ErrInvalidInput)
	}

	affected, err := s.storage.RenameDepartment(ctx, p.OrganizationID, id, name)
	if err != nil {
		return nil, departmentError(err)
	}
	if affected == 0 {
		return nil, apperrors.ErrNotFound
	}

	d, err := s.storage.GetDepartment(ctx, p.OrganizationID, id)
	if err != nil {
		return nil, storeError(err)
	}

	return d, nil
}

// DeleteDepartment refuses departments still referenced by assessments.
func (s *Service) DeleteDepartment(ctx context.Context, p types.Principal, id string) error {
	ctx, span := s.tracer.Start(ctx, "organization.Service.DeleteDepartment")
	defer span.End()

	if err := s.authz.Authorize(ctx, p, p.OrganizationID, authorization.ActionEditContent); err != nil {
		return err
	}

	affected, err := s.storage.DeleteDepartment(ctx, p.OrganizationID, id)
	if err != nil {
		return departmentError(err)
	}
	if affected == 0 {
		return apperrors.ErrNotFound
	}

	return nil
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

func departmentError(err error) error {
	switch {
	case errors.Is(err, storage.ErrDuplicateKey):
		return fmt.Errorf("%w: a department with this name already exists", apperrors.ErrConflict)
	case errors.Is(err, storage.ErrForeignKeyViolation):
		return fmt.Errorf("%w: department is used by assessments", apperrors.ErrConflict)
	}
	return storeError(err)
}

func storeError(err error) error {
	if errors.Is(err, storage.ErrNotFound) {
		return apperrors.ErrNotFound
	}
	return err
}
