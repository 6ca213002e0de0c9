// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/canonical/assessment-service/internal/db"
	"github.com/canonical/assessment-service/internal/logging"
	"github.com/canonical/assessment-service/internal/monitoring"
	"github.com/canonical/assessment-service/internal/tracing"
	"github.com/canonical/assessment-service/internal/types"
)

var _ StorageInterface = (*Storage)(nil)

var (
	organizationColumns  = []string{"id", "name", "plan_tier", "created_at"}
	profileColumns       = []string{"user_id", "organization_id", "role", "email", "created_at"}
	departmentColumns    = []string{"id", "organization_id", "name", "created_at"}
	questionnaireColumns = []string{"id", "organization_id", "title", "description", "created_at", "updated_at"}
	questionColumns      = []string{"id", "questionnaire_id", "category", "text", "scale_points", "reverse_scored", "position"}
	assessmentColumns    = []string{"id", "organization_id", "questionnaire_id", "department_id", "title", "status", "created_at", "updated_at"}
)

// normalizedValue reverses answers of reverse scored questions so a higher
// value always means the same direction.
const normalizedValue = "CASE WHEN q.reverse_scored THEN q.scale_points + 1 - r.value ELSE r.value END"

type rowScanner interface {
	Scan(dest ...any) error
}

type Storage struct {
	db db.DBClientInterface

	logger  logging.LoggerInterface
	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
}

func NewStorage(c db.DBClientInterface, tracer tracing.TracingInterface, monitor monitoring.MonitorInterface, logger logging.LoggerInterface) *Storage {
	s := new(Storage)

	s.db = c

	s.logger = logger
	s.tracer = tracer
	s.monitor = monitor

	return s
}

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows) || errors.Is(err, pgx.ErrNoRows)
}

func newID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("failed to generate ID: %w", err)
	}
	return id.String(), nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// tenantScope matches rows whose organization column equals both the
// requested organization and the caller's one.
func tenantScope(column, tenantID, id string) sq.And {
	return sq.And{sq.Eq{column: id}, sq.Eq{column: tenantID}}
}

func rowsAffected(res sql.Result, op string) (int64, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to check rows affected on %s: %w", op, err)
	}
	return n, nil
}

func (s *Storage) CreateOrganization(ctx context.Context, o *types.Organization) (*types.Organization, error) {
	ctx, span := s.tracer.Start(ctx, "storage.Storage.CreateOrganization")
	defer span.End()

	id, err := newID()
	if err != nil {
		return nil, err
	}

	planTier := o.PlanTier
	if planTier == "" {
		planTier = "free"
	}

	var org types.Organization
	err = s.db.Statement(ctx).
		Insert("organizations").
		Columns("id", "name", "plan_tier").
		Values(id, o.Name, planTier).
		Suffix("RETURNING id, name, plan_tier, created_at").
		QueryRowContext(ctx).
		Scan(&org.ID, &org.Name, &org.PlanTier, &org.CreatedAt)
	if err != nil {
		return nil, wrapError("failed to insert organization", err)
	}

	return &org, nil
}

func (s *Storage) GetOrganization(ctx context.Context, tenantID, id string) (*types.Organization, error) {
	ctx, span := s.tracer.Start(ctx, "storage.Storage.GetOrganization")
	defer span.End()

	var org types.Organization
	err := s.db.Statement(ctx).
		Select(organizationColumns...).
		From("organizations").
		Where(tenantScope("id", tenantID, id)).
		QueryRowContext(ctx).
		Scan(&org.ID, &org.Name, &org.PlanTier, &org.CreatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, wrapError("failed to get organization", err)
	}

	return &org, nil
}

// UpdateOrganization follows PATCH semantics, only fields named in paths are
// written. Supported paths are name and plan_tier.
func (s *Storage) UpdateOrganization(ctx context.Context, tenantID string, o *types.Organization, paths []string) (int64, error) {
	ctx, span := s.tracer.Start(ctx, "storage.Storage.UpdateOrganization")
	defer span.End()

	updateMap := make(map[string]any)
	for _, p := range paths {
		switch p {
		case "name":
			updateMap["name"] = o.Name
		case "plan_tier":
			updateMap["plan_tier"] = o.PlanTier
		}
	}

	if len(updateMap) == 0 {
		return 0, nil
	}

	res, err := s.db.Statement(ctx).
		Update("organizations").
		SetMap(updateMap).
		Where(tenantScope("id", tenantID, o.ID)).
		ExecContext(ctx)
	if err != nil {
		return 0, wrapError("failed to update organization", err)
	}

	return rowsAffected(res, "organizations")
}

// DeleteOrganizationCascade removes an organization and everything it owns,
// dependents first, then records audit in the same transaction. It returns
// the number of organization rows removed.
func (s *Storage) DeleteOrganizationCascade(ctx context.Context, tenantID, id string, audit *types.AuditEvent) (int64, error) {
	ctx, span := s.tracer.Start(ctx, "storage.Storage.DeleteOrganizationCascade")
	defer span.End()

	var deleted int64

	err := s.db.WithTx(ctx, func(ctx context.Context) error {
		scope := tenantScope("organization_id", tenantID, id)

		assessments, args, err := sq.Select("id").From("assessments").Where(scope).ToSql()
		if err != nil {
			return err
		}
		questionnaires, qargs, err := sq.Select("id").From("questionnaires").Where(scope).ToSql()
		if err != nil {
			return err
		}

		steps := []struct {
			table string
			where sq.Sqlizer
		}{
			{"responses", sq.Expr("assessment_id IN ("+assessments+")", args...)},
			{"assessments", scope},
			{"questions", sq.Expr("questionnaire_id IN ("+questionnaires+")", qargs...)},
			{"questionnaires", scope},
			{"departments", scope},
			{"profiles", scope},
		}

		for _, step := range steps {
			if _, err := s.db.Statement(ctx).Delete(step.table).Where(step.where).ExecContext(ctx); err != nil {
				return wrapError("failed to delete "+step.table, err)
			}
		}

		res, err := s.db.Statement(ctx).
			Delete("organizations").
			Where(tenantScope("id", tenantID, id)).
			ExecContext(ctx)
		if err != nil {
			return wrapError("failed to delete organization", err)
		}

		if deleted, err = rowsAffected(res, "organizations"); err != nil {
			return err
		}

		if deleted == 0 || audit == nil {
			return nil
		}

		return s.CreateAuditEvent(ctx, audit)
	})
	if err != nil {
		return 0, err
	}

	return deleted, nil
}

func scanProfile(row rowScanner) (*types.Profile, error) {
	var p types.Profile
	if err := row.Scan(&p.UserID, &p.OrganizationID, &p.Role, &p.Email, &p.CreatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Storage) GetProfile(ctx context.Context, userID string) (*types.Profile, error) {
	ctx, span := s.tracer.Start(ctx, "storage.Storage.GetProfile")
	defer span.End()

	p, err := scanProfile(
		s.db.Statement(ctx).
			Select(profileColumns...).
			From("profiles").
			Where(sq.Eq{"user_id": userID}).
			QueryRowContext(ctx),
	)
	if err != nil {
		if isNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, wrapError("failed to get profile", err)
	}

	return p, nil
}

func (s *Storage) CreateProfile(ctx context.Context, p *types.Profile) (*types.Profile, error) {
	ctx, span := s.tracer.Start(ctx, "storage.Storage.CreateProfile")
	defer span.End()

	profile, err := scanProfile(
		s.db.Statement(ctx).
			Insert("profiles").
			Columns("user_id", "organization_id", "role", "email").
			Values(p.UserID, p.OrganizationID, p.Role, p.Email).
			Suffix("RETURNING user_id, organization_id, role, email, created_at").
			QueryRowContext(ctx),
	)
	if err != nil {
		return nil, wrapError("failed to insert profile", err)
	}

	return profile, nil
}

func (s *Storage) ListProfiles(ctx context.Context, tenantID string) ([]*types.Profile, error) {
	ctx, span := s.tracer.Start(ctx, "storage.Storage.ListProfiles")
	defer span.End()

	rows, err := s.db.Statement(ctx).
		Select(profileColumns...).
		From("profiles").
		Where(sq.Eq{"organization_id": tenantID}).
		OrderBy("created_at", "user_id").
		QueryContext(ctx)
	if err != nil {
		return nil, wrapError("failed to list profiles", err)
	}
	defer rows.Close()

	profiles := make([]*types.Profile, 0)
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan profile: %w", err)
		}
		profiles = append(profiles, p)
	}

	if err := rows.Err(); err != nil {
		return nil, wrapError("rows iteration error", err)
	}

	return profiles, nil
}

// UpdateProfileRole returns ErrLastAdmin instead of demoting the only admin
// of the organization.
func (s *Storage) UpdateProfileRole(ctx context.Context, tenantID, userID string, role types.Role) (int64, error) {
	ctx, span := s.tracer.Start(ctx, "storage.Storage.UpdateProfileRole")
	defer span.End()

	var affected int64
	err := s.db.WithTx(ctx, func(ctx context.Context) error {
		if role != types.RoleAdmin {
			if err := s.keepAnAdmin(ctx, tenantID, userID); err != nil {
				return err
			}
		}

		res, err := s.db.Statement(ctx).
			Update("profiles").
			Set("role", role).
			Where(sq.Eq{
				"organization_id": tenantID,
				"user_id":         userID,
			}).
			ExecContext(ctx)
		if err != nil {
			return wrapError("failed to update profile", err)
		}

		affected, err = rowsAffected(res, "profiles")
		return err
	})
	if err != nil {
		return 0, err
	}

	return affected, nil
}

// DeleteProfile returns ErrLastAdmin instead of removing the only admin of
// the organization.
func (s *Storage) DeleteProfile(ctx context.Context, tenantID, userID string) (int64, error) {
	ctx, span := s.tracer.Start(ctx, "storage.Storage.DeleteProfile")
	defer span.End()

	var affected int64
	err := s.db.WithTx(ctx, func(ctx context.Context) error {
		if err := s.keepAnAdmin(ctx, tenantID, userID); err != nil {
			return err
		}

		res, err := s.db.Statement(ctx).
			Delete("profiles").
			Where(sq.Eq{
				"organization_id": tenantID,
				"user_id":         userID,
			}).
			ExecContext(ctx)
		if err != nil {
			return wrapError("failed to delete profile", err)
		}

		affected, err = rowsAffected(res, "profiles")
		return err
	})
	if err != nil {
		return 0, err
	}

	return affected, nil
}

// keepAnAdmin takes the organization row lock, so admin changes of one
// organization run one after the other, then refuses to take the admin role
// away from userID if it is the last one. Every statement after the lock
// sees the writes of transactions that held it before.
func (s *Storage) keepAnAdmin(ctx context.Context, tenantID, userID string) error {
	var id string
	err := s.db.Statement(ctx).
		Select("id").
		From("organizations").
		Where(sq.Eq{"id": tenantID}).
		Suffix("FOR UPDATE").
		QueryRowContext(ctx).
		Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return wrapError("failed to lock organization", err)
	}

	var target, admins int
	err = s.db.Statement(ctx).
		Select().
		Column(sq.Expr("COUNT(*) FILTER (WHERE user_id = ?)", userID)).
		Column("COUNT(*)").
		From("profiles").
		Where(sq.Eq{
			"organization_id": tenantID,
			"role":            types.RoleAdmin,
		}).
		QueryRowContext(ctx).
		Scan(&target, &admins)
	if err != nil {
		return wrapError("failed to count admins", err)
	}

	if target > 0 && admins <= 1 {
		return ErrLastAdmin
	}

	return nil
}

func (s *Storage) CountAdmins(ctx context.Context, tenantID string) (int, error) {
	ctx, span := s.tracer.Start(ctx, "storage.Storage.CountAdmins")
	defer span.End()

	var n int
	err := s.db.Statement(ctx).
		Select("COUNT(*)").
		From("profiles").
		Where(sq.Eq{
			"organization_id": tenantID,
			"role":            types.RoleAdmin,
		}).
		QueryRowContext(ctx).
		Scan(&n)
	if err != nil {
		return 0, wrapError("failed to count admins", err)
	}

	return n, nil
}

func scanDepartment(row rowScanner) (*types.Department, error) {
	var d types.Department
	if err := row.Scan(&d.ID, &d.OrganizationID, &d.Name, &d.CreatedAt); err != nil {
		return nil, err
	}
	return &d, nil
}

func (s *Storage) ListDepartments(ctx context.Context, tenantID string) ([]*types.Department, error) {
	ctx, span := s.tracer.Start(ctx, "storage.Storage.ListDepartments")
	defer span.End()

	rows, err := s.db.Statement(ctx).
		Select(departmentColumns...).
		From("departments").
		Where(sq.Eq{"organization_id": tenantID}).
		OrderBy("name").
		QueryContext(ctx)
	if err != nil {
		return nil, wrapError("failed to list departments", err)
	}
	defer rows.Close()

	departments := make([]*types.Department, 0)
	for rows.Next() {
		d, err := scanDepartment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan department: %w", err)
		}
		departments = append(departments, d)
	}

	if err := rows.Err(); err != nil {
		return nil, wrapError("rows iteration error", err)
	}

	return departments, nil
}

func (s *Storage) GetDepartment(ctx context.Context, tenantID, id string) (*types.Department, error) {
	ctx, span := s.tracer.Start(ctx, "storage.Storage.GetDepartment")
	defer span.End()

	d, err := scanDepartment(
		s.db.Statement(ctx).
			Select(departmentColumns...).
			From("departments").
			Where(sq.Eq{"id": id, "organization_id": tenantID}).
			QueryRowContext(ctx),
	)
	if err != nil {
		if isNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, wrapError("failed to get department", err)
	}

	return d, nil
}

func (s *Storage) CreateDepartment(ctx context.Context, d *types.Department) (*types.Department, error) {
	ctx, span := s.tracer.Start(ctx, "storage.Storage.CreateDepartment")
	defer span.End()

	id, err := newID()
	if err != nil {
		return nil, err
	}

	department, err := scanDepartment(
		s.db.Statement(ctx).
			Insert("departments").
			Columns("id", "organization_id", "name").
			Values(id, d.OrganizationID, d.Name).
			Suffix("RETURNING id, organization_id, name, created_at").
			QueryRowContext(ctx),
	)
	if err != nil {
		return nil, wrapError("failed to insert department", err)
	}

	return department, nil
}

func (s *Storage) RenameDepartment(ctx context.Context, tenantID, id, name string) (int64, error) {
	ctx, span := s.tracer.Start(ctx, "storage.Storage.RenameDepartment")
	defer span.End()

	res, err := s.db.Statement(ctx).
		Update("departments").
		Set("name", name).
		Where(sq.Eq{"id": id, "organization_id": tenantID}).
		ExecContext(ctx)
	if err != nil {
		return 0, wrapError("failed to rename department", err)
	}

	return rowsAffected(res, "departments")
}

func (s *Storage) DeleteDepartment(ctx context.Context, tenantID, id string) (int64, error) {
	ctx, span := s.tracer.Start(ctx, "storage.Storage.DeleteDepartment")
	defer span.End()

	res, err := s.db.Statement(ctx).
		Delete("departments").
		Where(sq.Eq{"id": id, "organization_id": tenantID}).
		ExecContext(ctx)
	if err != nil {
		return 0, wrapError("failed to delete department", err)
	}

	return rowsAffected(res, "departments")
}

func scanQuestionnaire(row rowScanner) (*types.Questionnaire, error) {
	var q types.Questionnaire
	if err := row.Scan(&q.ID, &q.OrganizationID, &q.Title, &q.Description, &q.CreatedAt, &q.UpdatedAt); err != nil {
		return nil, err
	}
	return &q, nil
}

func scanQuestion(row rowScanner) (*types.Question, error) {
	var q types.Question
	if err := row.Scan(&q.ID, &q.QuestionnaireID, &q.Category, &q.Text, &q.ScalePoints, &q.ReverseScored, &q.Position); err != nil {
		return nil, err
	}
	return &q, nil
}

func (s *Storage) ListQuestionnaires(ctx context.Context, tenantID string, page, size int64) ([]*types.Questionnaire, error) {
	ctx, span := s.tracer.Start(ctx, "storage.Storage.ListQuestionnaires")
	defer span.End()

	pageSize := db.PageSize(size)

	rows, err := s.db.Statement(ctx).
		Select(questionnaireColumns...).
		From("questionnaires").
		Where(sq.Eq{"organization_id": tenantID}).
		OrderBy("created_at", "id").
		Limit(pageSize).
		Offset(db.Offset(page, pageSize)).
		QueryContext(ctx)
	if err != nil {
		return nil, wrapError("failed to list questionnaires", err)
	}
	defer rows.Close()

	questionnaires := make([]*types.Questionnaire, 0)
	for rows.Next() {
		q, err := scanQuestionnaire(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan questionnaire: %w", err)
		}
		questionnaires = append(questionnaires, q)
	}

	if err := rows.Err(); err != nil {
		return nil, wrapError("rows iteration error", err)
	}

	return questionnaires, nil
}

func (s *Storage) listQuestions(ctx context.Context, questionnaireID string) ([]*types.Question, error) {
	rows, err := s.db.Statement(ctx).
		Select(questionColumns...).
		From("questions").
		Where(sq.Eq{"questionnaire_id": questionnaireID}).
		OrderBy("position", "id").
		QueryContext(ctx)
	if err != nil {
		return nil, wrapError("failed to list questions", err)
	}
	defer rows.Close()

	questions := make([]*types.Question, 0)
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan question: %w", err)
		}
		questions = append(questions, q)
	}

	if err := rows.Err(); err != nil {
		return nil, wrapError("rows iteration error", err)
	}

	return questions, nil
}

func (s *Storage) GetQuestionnaire(ctx context.Context, tenantID, id string) (*types.Questionnaire, error) {
	ctx, span := s.tracer.Start(ctx, "storage.Storage.GetQuestionnaire")
	defer span.End()

	q, err := scanQuestionnaire(
		s.db.Statement(ctx).
			Select(questionnaireColumns...).
			From("questionnaires").
			Where(sq.Eq{"id": id, "organization_id": tenantID}).
			QueryRowContext(ctx),
	)
	if err != nil {
		if isNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, wrapError("failed to get questionnaire", err)
	}

	if q.Questions, err = s.listQuestions(ctx, q.ID); err != nil {
		return nil, err
	}

	return q, nil
}

func (s *Storage) CreateQuestionnaire(ctx context.Context, q *types.Questionnaire) (*types.Questionnaire, error) {
	ctx, span := s.tracer.Start(ctx, "storage.Storage.CreateQuestionnaire")
	defer span.End()

	var created *types.Questionnaire

	err := s.db.WithTx(ctx, func(ctx context.Context) error {
		id, err := newID()
		if err != nil {
			return err
		}

		created, err = scanQuestionnaire(
			s.db.Statement(ctx).
				Insert("questionnaires").
				Columns("id", "organization_id", "title", "description").
				Values(id, q.OrganizationID, q.Title, q.Description).
				Suffix("RETURNING id, organization_id, title, description, created_at, updated_at").
				QueryRowContext(ctx),
		)
		if err != nil {
			return wrapError("failed to insert questionnaire", err)
		}

		if len(q.Questions) == 0 {
			return nil
		}

		insert := s.db.Statement(ctx).
			Insert("questions").
			Columns(questionColumns...)

		for i, question := range q.Questions {
			qid, err := newID()
			if err != nil {
				return err
			}

			c := *question
			c.ID = qid
			c.QuestionnaireID = created.ID
			c.Position = i
			created.Questions = append(created.Questions, &c)

			insert = insert.Values(c.ID, c.QuestionnaireID, c.Category, c.Text, c.ScalePoints, c.ReverseScored, c.Position)
		}

		if _, err := insert.ExecContext(ctx); err != nil {
			return wrapError("failed to insert questions", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return created, nil
}

// UpdateQuestionnaire follows PATCH semantics for title and description.
// Questions are immutable once created so stored answers keep their meaning.
func (s *Storage) UpdateQuestionnaire(ctx context.Context, tenantID string, q *types.Questionnaire, paths []string) (int64, error) {
	ctx, span := s.tracer.Start(ctx, "storage.Storage.UpdateQuestionnaire")
	defer span.End()

	updateMap := make(map[string]any)
	for _, p := range paths {
		switch p {
		case "title":
			updateMap["title"] = q.Title
		case "description":
			updateMap["description"] = q.Description
		}
	}

	if len(updateMap) == 0 {
		return 0, nil
	}

	updateMap["updated_at"] = sq.Expr("now()")

	res, err := s.db.Statement(ctx).
		Update("questionnaires").
		SetMap(updateMap).
		Where(sq.Eq{"id": q.ID, "organization_id": tenantID}).
		ExecContext(ctx)
	if err != nil {
		return 0, wrapError("failed to update questionnaire", err)
	}

	return rowsAffected(res, "questionnaires")
}

func scanAssessment(row rowScanner) (*types.Assessment, error) {
	var (
		a          types.Assessment
		department sql.NullString
	)
	if err := row.Scan(&a.ID, &a.OrganizationID, &a.QuestionnaireID, &department, &a.Title, &a.Status, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	a.DepartmentID = department.String
	return &a, nil
}

func (s *Storage) ListAssessments(ctx context.Context, tenantID string, page, size int64) ([]*types.Assessment, error) {
	ctx, span := s.tracer.Start(ctx, "storage.Storage.ListAssessments")
	defer span.End()

	pageSize := db.PageSize(size)

	rows, err := s.db.Statement(ctx).
		Select(assessmentColumns...).
		From("assessments").
		Where(sq.Eq{"organization_id": tenantID}).
		OrderBy("created_at", "id").
		Limit(pageSize).
		Offset(db.Offset(page, pageSize)).
		QueryContext(ctx)
	if err != nil {
		return nil, wrapError("failed to list assessments", err)
	}
	defer rows.Close()

	assessments := make([]*types.Assessment, 0)
	for rows.Next() {
		a, err := scanAssessment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan assessment: %w", err)
		}
		assessments = append(assessments, a)
	}

	if err := rows.Err(); err != nil {
		return nil, wrapError("rows iteration error", err)
	}

	return assessments, nil
}

func (s *Storage) GetAssessment(ctx context.Context, tenantID, id string) (*types.Assessment, error) {
	ctx, span := s.tracer.Start(ctx, "storage.Storage.GetAssessment")
	defer span.End()

	a, err := scanAssessment(
		s.db.Statement(ctx).
			Select(assessmentColumns...).
			From("assessments").
			Where(sq.Eq{"id": id, "organization_id": tenantID}).
			QueryRowContext(ctx),
	)
	if err != nil {
		if isNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, wrapError("failed to get assessment", err)
	}

	return a, nil
}

func (s *Storage) CreateAssessment(ctx context.Context, a *types.Assessment) (*types.Assessment, error) {
	ctx, span := s.tracer.Start(ctx, "storage.Storage.CreateAssessment")
	defer span.End()

	id, err := newID()
	if err != nil {
		return nil, err
	}

	created, err := scanAssessment(
		s.db.Statement(ctx).
			Insert("assessments").
			Columns("id", "organization_id", "questionnaire_id", "department_id", "title", "status").
			Values(id, a.OrganizationID, a.QuestionnaireID, nullable(a.DepartmentID), a.Title, types.AssessmentDraft).
			Suffix("RETURNING id, organization_id, questionnaire_id, department_id, title, status, created_at, updated_at").
			QueryRowContext(ctx),
	)
	if err != nil {
		return nil, wrapError("failed to insert assessment", err)
	}

	return created, nil
}

// UpdateAssessment follows PATCH semantics for title and department_id.
// Status only moves through SetAssessmentStatus.
func (s *Storage) UpdateAssessment(ctx context.Context, tenantID string, a *types.Assessment, paths []string) (int64, error) {
	ctx, span := s.tracer.Start(ctx, "storage.Storage.UpdateAssessment")
	defer span.End()

	updateMap := make(map[string]any)
	for _, p := range paths {
		switch p {
		case "title":
			updateMap["title"] = a.Title
		case "department_id":
			updateMap["department_id"] = nullable(a.DepartmentID)
		}
	}

	if len(updateMap) == 0 {
		return 0, nil
	}

	updateMap["updated_at"] = sq.Expr("now()")

	res, err := s.db.Statement(ctx).
		Update("assessments").
		SetMap(updateMap).
		Where(sq.Eq{"id": a.ID, "organization_id": tenantID}).
		ExecContext(ctx)
	if err != nil {
		return 0, wrapError("failed to update assessment", err)
	}

	return rowsAffected(res, "assessments")
}

// SetAssessmentStatus moves an assessment from one status to another. The
// current status is part of the filter so concurrent transitions can not
// both succeed.
func (s *Storage) SetAssessmentStatus(ctx context.Context, tenantID, id string, from, to types.AssessmentStatus) (int64, error) {
	ctx, span := s.tracer.Start(ctx, "storage.Storage.SetAssessmentStatus")
	defer span.End()

	res, err := s.db.Statement(ctx).
		Update("assessments").
		Set("status", to).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"id": id, "organization_id": tenantID, "status": from}).
		ExecContext(ctx)
	if err != nil {
		return 0, wrapError("failed to update assessment status", err)
	}

	return rowsAffected(res, "assessments")
}

func (s *Storage) GetSubmissionTarget(ctx context.Context, assessmentID, questionID string) (*types.SubmissionTarget, error) {
	ctx, span := s.tracer.Start(ctx, "storage.Storage.GetSubmissionTarget")
	defer span.End()

	var (
		t           = types.SubmissionTarget{AssessmentID: assessmentID, QuestionID: questionID}
		scalePoints sql.NullInt64
	)

	err := s.db.Statement(ctx).
		Select("a.status", "q.scale_points").
		From("assessments a").
		LeftJoin("questions q ON q.questionnaire_id = a.questionnaire_id AND q.id = ?", questionID).
		Where(sq.Eq{"a.id": assessmentID}).
		QueryRowContext(ctx).
		Scan(&t.Status, &scalePoints)
	if err != nil {
		if isNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, wrapError("failed to get submission target", err)
	}

	t.HasQuestion = scalePoints.Valid
	t.ScalePoints = int(scalePoints.Int64)

	return &t, nil
}

func (s *Storage) ListFormQuestions(ctx context.Context, assessmentID string) (*types.Assessment, []*types.Question, error) {
	ctx, span := s.tracer.Start(ctx, "storage.Storage.ListFormQuestions")
	defer span.End()

	a, err := scanAssessment(
		s.db.Statement(ctx).
			Select(assessmentColumns...).
			From("assessments").
			Where(sq.Eq{"id": assessmentID}).
			QueryRowContext(ctx),
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, wrapError("failed to get assessment", err)
	}

	questions, err := s.listQuestions(ctx, a.QuestionnaireID)
	if err != nil {
		return nil, nil, err
	}

	return a, questions, nil
}

// UpsertResponses stores answers keyed by (assessment, question, anonymous id).
// A repeated key overwrites the previous value, and the caller can not tell
// an insert from an update.
func (s *Storage) UpsertResponses(ctx context.Context, responses []*types.Response) error {
	ctx, span := s.tracer.Start(ctx, "storage.Storage.UpsertResponses")
	defer span.End()

	if len(responses) == 0 {
		return nil
	}

	insert := s.db.Statement(ctx).
		Insert("responses").
		Columns("id", "assessment_id", "question_id", "anonymous_id", "value")

	for _, r := range responses {
		id, err := newID()
		if err != nil {
			return err
		}
		insert = insert.Values(id, r.AssessmentID, r.QuestionID, r.AnonymousID, r.Value)
	}

	_, err := insert.
		Suffix("ON CONFLICT (assessment_id, question_id, anonymous_id) DO UPDATE SET value = EXCLUDED.value, submitted_at = now()").
		ExecContext(ctx)
	if err != nil {
		return wrapError("failed to upsert responses", err)
	}

	return nil
}

// confinedDepartment yields the department of a bucket whose responses all
// come from assessments of that single department, NULL otherwise.
const confinedDepartment = "CASE WHEN BOOL_AND(a.department_id IS NOT NULL) AND COUNT(DISTINCT a.department_id) = 1 THEN MIN(a.department_id) END"

// AggregateResponses computes, in a single statement, the number of distinct
// respondents and the mean normalised answer per bucket. Count and mean come
// from the same snapshot.
func (s *Storage) AggregateResponses(ctx context.Context, tenantID string, scope types.AggregateScope, groupBy types.BucketType) ([]*types.BucketRow, error) {
	ctx, span := s.tracer.Start(ctx, "storage.Storage.AggregateResponses")
	defer span.End()

	var bucket string
	switch groupBy {
	case types.BucketAssessment:
		bucket = "a.id"
	case types.BucketDepartment:
		bucket = "a.department_id"
	case types.BucketCategory:
		bucket = "q.category"
	default:
		return nil, fmt.Errorf("unsupported bucket type %q", groupBy)
	}

	query := s.db.Statement(ctx).
		Select(
			bucket,
			"COUNT(DISTINCT (r.assessment_id, r.anonymous_id))",
			"AVG("+normalizedValue+")::numeric",
			confinedDepartment,
		).
		From("responses r").
		Join("assessments a ON a.id = r.assessment_id").
		Join("questions q ON q.id = r.question_id").
		Where(sq.Eq{"a.organization_id": tenantID})

	if groupBy == types.BucketDepartment {
		query = query.Where(sq.NotEq{"a.department_id": nil})
	}
	if scope.AssessmentID != "" {
		query = query.Where(sq.Eq{"a.id": scope.AssessmentID})
	}
	if scope.DepartmentID != "" {
		query = query.Where(sq.Eq{"a.department_id": scope.DepartmentID})
	}
	if scope.Category != "" {
		query = query.Where(sq.Eq{"q.category": scope.Category})
	}

	rows, err := query.GroupBy(bucket).OrderBy(bucket).QueryContext(ctx)
	if err != nil {
		return nil, wrapError("failed to aggregate responses", err)
	}
	defer rows.Close()

	buckets := make([]*types.BucketRow, 0)
	for rows.Next() {
		var (
			b          types.BucketRow
			mean       decimal.NullDecimal
			department sql.NullString
		)
		if err := rows.Scan(&b.Key, &b.SampleCount, &mean, &department); err != nil {
			return nil, fmt.Errorf("failed to scan bucket: %w", err)
		}
		b.Mean = mean.Decimal
		b.DepartmentID = department.String
		buckets = append(buckets, &b)
	}

	if err := rows.Err(); err != nil {
		return nil, wrapError("rows iteration error", err)
	}

	return buckets, nil
}

func (s *Storage) CreateAuditEvent(ctx context.Context, e *types.AuditEvent) error {
	ctx, span := s.tracer.Start(ctx, "storage.Storage.CreateAuditEvent")
	defer span.End()

	id, err := newID()
	if err != nil {
		return err
	}

	_, err = s.db.Statement(ctx).
		Insert("audit_events").
		Columns("id", "organization_id", "actor_user_id", "action", "target").
		Values(id, e.OrganizationID, e.ActorUserID, e.Action, e.Target).
		ExecContext(ctx)
	if err != nil {
		return wrapError("failed to insert audit event", err)
	}

	return nil
}

// CountLinkedResponses attempts the join the schema must never support:
// responses matched to profiles through the anonymous id. A healthy store
// always reports zero.
func (s *Storage) CountLinkedResponses(ctx context.Context) (int, error) {
	ctx, span := s.tracer.Start(ctx, "storage.Storage.CountLinkedResponses")
	defer span.End()

	var n int
	err := s.db.Statement(ctx).
		Select("COUNT(*)").
		From("responses r").
		Join("profiles p ON p.user_id = r.anonymous_id").
		QueryRowContext(ctx).
		Scan(&n)
	if err != nil {
		return 0, wrapError("failed to correlate responses", err)
	}

	return n, nil
}
