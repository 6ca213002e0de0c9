// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package storage

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/canonical/assessment-service/internal/logging"
	"github.com/canonical/assessment-service/internal/monitoring"
	"github.com/canonical/assessment-service/internal/tracing"
	"github.com/canonical/assessment-service/internal/types"
)

var _ StorageInterface = (*MemoryStorage)(nil)

type responseKey struct {
	assessmentID string
	questionID   string
	anonymousID  string
}

// MemoryStorage keeps every table in process memory. It applies the same
// tenant filters as Storage and is used for development and for the policy
// conformance suite.
type MemoryStorage struct {
	mu sync.RWMutex

	organizations  map[string]types.Organization
	profiles       map[string]types.Profile
	departments    map[string]types.Department
	questionnaires map[string]types.Questionnaire
	questions      map[string]types.Question
	assessments    map[string]types.Assessment
	responses      map[responseKey]types.Response
	audit          []types.AuditEvent

	now func() time.Time

	logger  logging.LoggerInterface
	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
}

func NewMemoryStorage(tracer tracing.TracingInterface, monitor monitoring.MonitorInterface, logger logging.LoggerInterface) *MemoryStorage {
	s := new(MemoryStorage)

	s.organizations = make(map[string]types.Organization)
	s.profiles = make(map[string]types.Profile)
	s.departments = make(map[string]types.Department)
	s.questionnaires = make(map[string]types.Questionnaire)
	s.questions = make(map[string]types.Question)
	s.assessments = make(map[string]types.Assessment)
	s.responses = make(map[responseKey]types.Response)
	s.now = func() time.Time { return time.Now().UTC() }

	s.logger = logger
	s.tracer = tracer
	s.monitor = monitor

	return s
}

func (s *MemoryStorage) CreateOrganization(ctx context.Context, o *types.Organization) (*types.Organization, error) {
	_, span := s.tracer.Start(ctx, "storage.MemoryStorage.CreateOrganization")
	defer span.End()

	id, err := newID()
	if err != nil {
		return nil, err
	}

	org := types.Organization{ID: id, Name: o.Name, PlanTier: o.PlanTier, CreatedAt: s.now()}
	if org.PlanTier == "" {
		org.PlanTier = "free"
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.organizations[id] = org

	return &org, nil
}

func (s *MemoryStorage) GetOrganization(ctx context.Context, tenantID, id string) (*types.Organization, error) {
	_, span := s.tracer.Start(ctx, "storage.MemoryStorage.GetOrganization")
	defer span.End()

	s.mu.RLock()
	defer s.mu.RUnlock()

	org, ok := s.organizations[id]
	if !ok || id != tenantID {
		return nil, ErrNotFound
	}

	return &org, nil
}

func (s *MemoryStorage) UpdateOrganization(ctx context.Context, tenantID string, o *types.Organization, paths []string) (int64, error) {
	_, span := s.tracer.Start(ctx, "storage.MemoryStorage.UpdateOrganization")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	org, ok := s.organizations[o.ID]
	if !ok || o.ID != tenantID {
		return 0, nil
	}

	changed := false
	for _, p := range paths {
		switch p {
		case "name":
			org.Name = o.Name
			changed = true
		case "plan_tier":
			org.PlanTier = o.PlanTier
			changed = true
		}
	}

	if !changed {
		return 0, nil
	}

	s.organizations[o.ID] = org

	return 1, nil
}

func (s *MemoryStorage) DeleteOrganizationCascade(ctx context.Context, tenantID, id string, audit *types.AuditEvent) (int64, error) {
	_, span := s.tracer.Start(ctx, "storage.MemoryStorage.DeleteOrganizationCascade")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.organizations[id]; !ok || id != tenantID {
		return 0, nil
	}

	questionnaires := make(map[string]bool)
	for qid, q := range s.questionnaires {
		if q.OrganizationID == id {
			questionnaires[qid] = true
			delete(s.questionnaires, qid)
		}
	}
	for qid, q := range s.questions {
		if questionnaires[q.QuestionnaireID] {
			delete(s.questions, qid)
		}
	}

	assessments := make(map[string]bool)
	for aid, a := range s.assessments {
		if a.OrganizationID == id {
			assessments[aid] = true
			delete(s.assessments, aid)
		}
	}
	for k := range s.responses {
		if assessments[k.assessmentID] {
			delete(s.responses, k)
		}
	}

	for did, d := range s.departments {
		if d.OrganizationID == id {
			delete(s.departments, did)
		}
	}
	for uid, p := range s.profiles {
		if p.OrganizationID == id {
			delete(s.profiles, uid)
		}
	}

	delete(s.organizations, id)

	if audit != nil {
		if err := s.appendAudit(audit); err != nil {
			return 0, err
		}
	}

	return 1, nil
}

func (s *MemoryStorage) GetProfile(ctx context.Context, userID string) (*types.Profile, error) {
	_, span := s.tracer.Start(ctx, "storage.MemoryStorage.GetProfile")
	defer span.End()

	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.profiles[userID]
	if !ok {
		return nil, ErrNotFound
	}

	return &p, nil
}

func (s *MemoryStorage) CreateProfile(ctx context.Context, p *types.Profile) (*types.Profile, error) {
	_, span := s.tracer.Start(ctx, "storage.MemoryStorage.CreateProfile")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.profiles[p.UserID]; ok {
		return nil, fmt.Errorf("failed to insert profile: %w", ErrDuplicateKey)
	}
	if _, ok := s.organizations[p.OrganizationID]; !ok {
		return nil, fmt.Errorf("failed to insert profile: %w", ErrForeignKeyViolation)
	}

	profile := *p
	profile.CreatedAt = s.now()
	s.profiles[p.UserID] = profile

	return &profile, nil
}

func (s *MemoryStorage) ListProfiles(ctx context.Context, tenantID string) ([]*types.Profile, error) {
	_, span := s.tracer.Start(ctx, "storage.MemoryStorage.ListProfiles")
	defer span.End()

	s.mu.RLock()
	defer s.mu.RUnlock()

	profiles := make([]*types.Profile, 0)
	for _, p := range s.profiles {
		if p.OrganizationID == tenantID {
			profiles = append(profiles, &p)
		}
	}

	slices.SortFunc(profiles, func(a, b *types.Profile) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.UserID, b.UserID)
	})

	return profiles, nil
}

func (s *MemoryStorage) UpdateProfileRole(ctx context.Context, tenantID, userID string, role types.Role) (int64, error) {
	_, span := s.tracer.Start(ctx, "storage.MemoryStorage.UpdateProfileRole")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.profiles[userID]
	if !ok || p.OrganizationID != tenantID {
		return 0, nil
	}
	if role != types.RoleAdmin && s.lastAdmin(p) {
		return 0, ErrLastAdmin
	}

	p.Role = role
	s.profiles[userID] = p

	return 1, nil
}

func (s *MemoryStorage) DeleteProfile(ctx context.Context, tenantID, userID string) (int64, error) {
	_, span := s.tracer.Start(ctx, "storage.MemoryStorage.DeleteProfile")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.profiles[userID]
	if !ok || p.OrganizationID != tenantID {
		return 0, nil
	}
	if s.lastAdmin(p) {
		return 0, ErrLastAdmin
	}

	delete(s.profiles, userID)

	return 1, nil
}

// lastAdmin must be called with mu held, the check and the write it guards
// happen under the same lock.
func (s *MemoryStorage) lastAdmin(p types.Profile) bool {
	if p.Role != types.RoleAdmin {
		return false
	}
	return s.countAdmins(p.OrganizationID) <= 1
}

func (s *MemoryStorage) countAdmins(tenantID string) int {
	n := 0
	for _, p := range s.profiles {
		if p.OrganizationID == tenantID && p.Role == types.RoleAdmin {
			n++
		}
	}
	return n
}

func (s *MemoryStorage) CountAdmins(ctx context.Context, tenantID string) (int, error) {
	_, span := s.tracer.Start(ctx, "storage.MemoryStorage.CountAdmins")
	defer span.End()

	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.countAdmins(tenantID), nil
}

func (s *MemoryStorage) ListDepartments(ctx context.Context, tenantID string) ([]*types.Department, error) {
	_, span := s.tracer.Start(ctx, "storage.MemoryStorage.ListDepartments")
	defer span.End()

	s.mu.RLock()
	defer s.mu.RUnlock()

	departments := make([]*types.Department, 0)
	for _, d := range s.departments {
		if d.OrganizationID == tenantID {
			departments = append(departments, &d)
		}
	}

	slices.SortFunc(departments, func(a, b *types.Department) int {
		return strings.Compare(a.Name, b.Name)
	})

	return departments, nil
}

func (s *MemoryStorage) GetDepartment(ctx context.Context, tenantID, id string) (*types.Department, error) {
	_, span := s.tracer.Start(ctx, "storage.MemoryStorage.GetDepartment")
	defer span.End()

	s.mu.RLock()
	defer s.mu.RUnlock()

	d, ok := s.departments[id]
	if !ok || d.OrganizationID != tenantID {
		return nil, ErrNotFound
	}

	return &d, nil
}

func (s *MemoryStorage) CreateDepartment(ctx context.Context, d *types.Department) (*types.Department, error) {
	_, span := s.tracer.Start(ctx, "storage.MemoryStorage.CreateDepartment")
	defer span.End()

	id, err := newID()
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.organizations[d.OrganizationID]; !ok {
		return nil, fmt.Errorf("failed to insert department: %w", ErrForeignKeyViolation)
	}
	for _, other := range s.departments {
		if other.OrganizationID == d.OrganizationID && other.Name == d.Name {
			return nil, fmt.Errorf("failed to insert department: %w", ErrDuplicateKey)
		}
	}

	department := types.Department{ID: id, OrganizationID: d.OrganizationID, Name: d.Name, CreatedAt: s.now()}
	s.departments[id] = department

	return &department, nil
}

func (s *MemoryStorage) RenameDepartment(ctx context.Context, tenantID, id, name string) (int64, error) {
	_, span := s.tracer.Start(ctx, "storage.MemoryStorage.RenameDepartment")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.departments[id]
	if !ok || d.OrganizationID != tenantID {
		return 0, nil
	}
	for oid, other := range s.departments {
		if oid != id && other.OrganizationID == tenantID && other.Name == name {
			return 0, fmt.Errorf("failed to rename department: %w", ErrDuplicateKey)
		}
	}

	d.Name = name
	s.departments[id] = d

	return 1, nil
}

func (s *MemoryStorage) DeleteDepartment(ctx context.Context, tenantID, id string) (int64, error) {
	_, span := s.tracer.Start(ctx, "storage.MemoryStorage.DeleteDepartment")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.departments[id]
	if !ok || d.OrganizationID != tenantID {
		return 0, nil
	}
	for _, a := range s.assessments {
		if a.DepartmentID == id {
			return 0, fmt.Errorf("failed to delete department: %w", ErrForeignKeyViolation)
		}
	}

	delete(s.departments, id)

	return 1, nil
}

// questionsOf returns copies ordered by position, the caller holds the lock.
func (s *MemoryStorage) questionsOf(questionnaireID string) []*types.Question {
	questions := make([]*types.Question, 0)
	for _, q := range s.questions {
		if q.QuestionnaireID == questionnaireID {
			questions = append(questions, &q)
		}
	}

	slices.SortFunc(questions, func(a, b *types.Question) int {
		if a.Position != b.Position {
			return a.Position - b.Position
		}
		return strings.Compare(a.ID, b.ID)
	})

	return questions
}

func paginate[T any](items []T, page, size int64) []T {
	if size <= 0 {
		size = 100
	}
	if page <= 0 {
		page = 1
	}

	start := (page - 1) * size
	if start >= int64(len(items)) {
		return make([]T, 0)
	}

	return items[start:min(start+size, int64(len(items)))]
}

func (s *MemoryStorage) ListQuestionnaires(ctx context.Context, tenantID string, page, size int64) ([]*types.Questionnaire, error) {
	_, span := s.tracer.Start(ctx, "storage.MemoryStorage.ListQuestionnaires")
	defer span.End()

	s.mu.RLock()
	defer s.mu.RUnlock()

	questionnaires := make([]*types.Questionnaire, 0)
	for _, q := range s.questionnaires {
		if q.OrganizationID == tenantID {
			q.Questions = nil
			questionnaires = append(questionnaires, &q)
		}
	}

	slices.SortFunc(questionnaires, func(a, b *types.Questionnaire) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})

	return paginate(questionnaires, page, size), nil
}

func (s *MemoryStorage) GetQuestionnaire(ctx context.Context, tenantID, id string) (*types.Questionnaire, error) {
	_, span := s.tracer.Start(ctx, "storage.MemoryStorage.GetQuestionnaire")
	defer span.End()

	s.mu.RLock()
	defer s.mu.RUnlock()

	q, ok := s.questionnaires[id]
	if !ok || q.OrganizationID != tenantID {
		return nil, ErrNotFound
	}

	q.Questions = s.questionsOf(id)

	return &q, nil
}

func (s *MemoryStorage) CreateQuestionnaire(ctx context.Context, q *types.Questionnaire) (*types.Questionnaire, error) {
	_, span := s.tracer.Start(ctx, "storage.MemoryStorage.CreateQuestionnaire")
	defer span.End()

	id, err := newID()
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.organizations[q.OrganizationID]; !ok {
		return nil, fmt.Errorf("failed to insert questionnaire: %w", ErrForeignKeyViolation)
	}

	now := s.now()
	created := types.Questionnaire{
		ID:             id,
		OrganizationID: q.OrganizationID,
		Title:          q.Title,
		Description:    q.Description,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	for i, question := range q.Questions {
		qid, err := newID()
		if err != nil {
			return nil, err
		}

		c := *question
		c.ID = qid
		c.QuestionnaireID = id
		c.Position = i
		s.questions[qid] = c
	}

	s.questionnaires[id] = created
	created.Questions = s.questionsOf(id)

	return &created, nil
}

func (s *MemoryStorage) UpdateQuestionnaire(ctx context.Context, tenantID string, q *types.Questionnaire, paths []string) (int64, error) {
	_, span := s.tracer.Start(ctx, "storage.MemoryStorage.UpdateQuestionnaire")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.questionnaires[q.ID]
	if !ok || stored.OrganizationID != tenantID {
		return 0, nil
	}

	changed := false
	for _, p := range paths {
		switch p {
		case "title":
			stored.Title = q.Title
			changed = true
		case "description":
			stored.Description = q.Description
			changed = true
		}
	}

	if !changed {
		return 0, nil
	}

	stored.UpdatedAt = s.now()
	s.questionnaires[q.ID] = stored

	return 1, nil
}

func (s *MemoryStorage) ListAssessments(ctx context.Context, tenantID string, page, size int64) ([]*types.Assessment, error) {
	_, span := s.tracer.Start(ctx, "storage.MemoryStorage.ListAssessments")
	defer span.End()

	s.mu.RLock()
	defer s.mu.RUnlock()

	assessments := make([]*types.Assessment, 0)
	for _, a := range s.assessments {
		if a.OrganizationID == tenantID {
			assessments = append(assessments, &a)
		}
	}

	slices.SortFunc(assessments, func(a, b *types.Assessment) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})

	return paginate(assessments, page, size), nil
}

func (s *MemoryStorage) GetAssessment(ctx context.Context, tenantID, id string) (*types.Assessment, error) {
	_, span := s.tracer.Start(ctx, "storage.MemoryStorage.GetAssessment")
	defer span.End()

	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.assessments[id]
	if !ok || a.OrganizationID != tenantID {
		return nil, ErrNotFound
	}

	return &a, nil
}

func (s *MemoryStorage) CreateAssessment(ctx context.Context, a *types.Assessment) (*types.Assessment, error) {
	_, span := s.tracer.Start(ctx, "storage.MemoryStorage.CreateAssessment")
	defer span.End()

	id, err := newID()
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.organizations[a.OrganizationID]; !ok {
		return nil, fmt.Errorf("failed to insert assessment: %w", ErrForeignKeyViolation)
	}
	if _, ok := s.questionnaires[a.QuestionnaireID]; !ok {
		return nil, fmt.Errorf("failed to insert assessment: %w", ErrForeignKeyViolation)
	}
	if _, ok := s.departments[a.DepartmentID]; a.DepartmentID != "" && !ok {
		return nil, fmt.Errorf("failed to insert assessment: %w", ErrForeignKeyViolation)
	}

	now := s.now()
	created := types.Assessment{
		ID:              id,
		OrganizationID:  a.OrganizationID,
		QuestionnaireID: a.QuestionnaireID,
		DepartmentID:    a.DepartmentID,
		Title:           a.Title,
		Status:          types.AssessmentDraft,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	s.assessments[id] = created

	return &created, nil
}

func (s *MemoryStorage) UpdateAssessment(ctx context.Context, tenantID string, a *types.Assessment, paths []string) (int64, error) {
	_, span := s.tracer.Start(ctx, "storage.MemoryStorage.UpdateAssessment")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.assessments[a.ID]
	if !ok || stored.OrganizationID != tenantID {
		return 0, nil
	}

	changed := false
	for _, p := range paths {
		switch p {
		case "title":
			stored.Title = a.Title
			changed = true
		case "department_id":
			if _, ok := s.departments[a.DepartmentID]; a.DepartmentID != "" && !ok {
				return 0, fmt.Errorf("failed to update assessment: %w", ErrForeignKeyViolation)
			}
			stored.DepartmentID = a.DepartmentID
			changed = true
		}
	}

	if !changed {
		return 0, nil
	}

	stored.UpdatedAt = s.now()
	s.assessments[a.ID] = stored

	return 1, nil
}

func (s *MemoryStorage) SetAssessmentStatus(ctx context.Context, tenantID, id string, from, to types.AssessmentStatus) (int64, error) {
	_, span := s.tracer.Start(ctx, "storage.MemoryStorage.SetAssessmentStatus")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.assessments[id]
	if !ok || a.OrganizationID != tenantID || a.Status != from {
		return 0, nil
	}

	a.Status = to
	a.UpdatedAt = s.now()
	s.assessments[id] = a

	return 1, nil
}

func (s *MemoryStorage) GetSubmissionTarget(ctx context.Context, assessmentID, questionID string) (*types.SubmissionTarget, error) {
	_, span := s.tracer.Start(ctx, "storage.MemoryStorage.GetSubmissionTarget")
	defer span.End()

	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.assessments[assessmentID]
	if !ok {
		return nil, ErrNotFound
	}

	t := types.SubmissionTarget{AssessmentID: assessmentID, QuestionID: questionID, Status: a.Status}
	if q, ok := s.questions[questionID]; ok && q.QuestionnaireID == a.QuestionnaireID {
		t.HasQuestion = true
		t.ScalePoints = q.ScalePoints
	}

	return &t, nil
}

func (s *MemoryStorage) ListFormQuestions(ctx context.Context, assessmentID string) (*types.Assessment, []*types.Question, error) {
	_, span := s.tracer.Start(ctx, "storage.MemoryStorage.ListFormQuestions")
	defer span.End()

	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.assessments[assessmentID]
	if !ok {
		return nil, nil, ErrNotFound
	}

	return &a, s.questionsOf(a.QuestionnaireID), nil
}

func (s *MemoryStorage) UpsertResponses(ctx context.Context, responses []*types.Response) error {
	_, span := s.tracer.Start(ctx, "storage.MemoryStorage.UpsertResponses")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range responses {
		if _, ok := s.assessments[r.AssessmentID]; !ok {
			return fmt.Errorf("failed to upsert responses: %w", ErrForeignKeyViolation)
		}
		if _, ok := s.questions[r.QuestionID]; !ok {
			return fmt.Errorf("failed to upsert responses: %w", ErrForeignKeyViolation)
		}
	}

	for _, r := range responses {
		key := responseKey{r.AssessmentID, r.QuestionID, r.AnonymousID}

		stored, ok := s.responses[key]
		if !ok {
			id, err := newID()
			if err != nil {
				return err
			}
			stored = types.Response{ID: id, AssessmentID: r.AssessmentID, QuestionID: r.QuestionID, AnonymousID: r.AnonymousID}
		}

		stored.Value = r.Value
		stored.SubmittedAt = s.now()
		s.responses[key] = stored
	}

	return nil
}

func (s *MemoryStorage) AggregateResponses(ctx context.Context, tenantID string, scope types.AggregateScope, groupBy types.BucketType) ([]*types.BucketRow, error) {
	_, span := s.tracer.Start(ctx, "storage.MemoryStorage.AggregateResponses")
	defer span.End()

	type accumulator struct {
		respondents map[[2]string]struct{}
		departments map[string]struct{}
		sum         int64
		n           int64
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	buckets := make(map[string]*accumulator)

	for k, r := range s.responses {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		a, ok := s.assessments[k.assessmentID]
		if !ok || a.OrganizationID != tenantID {
			continue
		}
		q, ok := s.questions[k.questionID]
		if !ok {
			continue
		}

		if scope.AssessmentID != "" && a.ID != scope.AssessmentID {
			continue
		}
		if scope.DepartmentID != "" && a.DepartmentID != scope.DepartmentID {
			continue
		}
		if scope.Category != "" && q.Category != scope.Category {
			continue
		}

		var key string
		switch groupBy {
		case types.BucketAssessment:
			key = a.ID
		case types.BucketDepartment:
			if a.DepartmentID == "" {
				continue
			}
			key = a.DepartmentID
		case types.BucketCategory:
			key = q.Category
		default:
			return nil, fmt.Errorf("unsupported bucket type %q", groupBy)
		}

		acc, ok := buckets[key]
		if !ok {
			acc = &accumulator{
				respondents: make(map[[2]string]struct{}),
				departments: make(map[string]struct{}),
			}
			buckets[key] = acc
		}

		value := r.Value
		if q.ReverseScored {
			value = q.ScalePoints + 1 - r.Value
		}

		acc.respondents[[2]string{k.assessmentID, k.anonymousID}] = struct{}{}
		acc.departments[a.DepartmentID] = struct{}{}
		acc.sum += int64(value)
		acc.n++
	}

	rows := make([]*types.BucketRow, 0, len(buckets))
	for key, acc := range buckets {
		row := &types.BucketRow{
			Key:         key,
			SampleCount: len(acc.respondents),
			Mean:        decimal.NewFromInt(acc.sum).Div(decimal.NewFromInt(acc.n)),
		}
		if len(acc.departments) == 1 {
			for d := range acc.departments {
				row.DepartmentID = d
			}
		}
		rows = append(rows, row)
	}

	slices.SortFunc(rows, func(a, b *types.BucketRow) int {
		return strings.Compare(a.Key, b.Key)
	})

	return rows, nil
}

func (s *MemoryStorage) CreateAuditEvent(ctx context.Context, e *types.AuditEvent) error {
	_, span := s.tracer.Start(ctx, "storage.MemoryStorage.CreateAuditEvent")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.appendAudit(e)
}

// appendAudit records an audit event, the caller holds the write lock.
func (s *MemoryStorage) appendAudit(e *types.AuditEvent) error {
	id, err := newID()
	if err != nil {
		return err
	}

	event := *e
	event.ID = id
	event.CreatedAt = s.now()
	s.audit = append(s.audit, event)

	return nil
}

// AuditEvents returns a copy of the recorded audit trail.
func (s *MemoryStorage) AuditEvents() []types.AuditEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Clone(s.audit)
}

// CountLinkedResponses counts responses whose anonymous id matches any
// profile user id. A healthy store always reports zero.
func (s *MemoryStorage) CountLinkedResponses(ctx context.Context) (int, error) {
	_, span := s.tracer.Start(ctx, "storage.MemoryStorage.CountLinkedResponses")
	defer span.End()

	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for k := range s.responses {
		if _, ok := s.profiles[k.anonymousID]; ok {
			n++
		}
	}

	return n, nil
}
