// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

// Package conformance runs policy scenarios against the real services. Each
// scenario provisions its own organizations, acts as one principal, asserts
// the effect and tears its organizations down whatever the outcome.
package conformance

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"

	"github.com/canonical/assessment-service/internal/apperrors"
	"github.com/canonical/assessment-service/internal/authorization"
	"github.com/canonical/assessment-service/internal/logging"
	"github.com/canonical/assessment-service/internal/monitoring"
	"github.com/canonical/assessment-service/internal/storage"
	"github.com/canonical/assessment-service/internal/tracing"
	"github.com/canonical/assessment-service/internal/types"
	"github.com/canonical/assessment-service/pkg/analytics"
	"github.com/canonical/assessment-service/pkg/members"
	"github.com/canonical/assessment-service/pkg/organization"
	"github.com/canonical/assessment-service/pkg/responses"
	"github.com/canonical/assessment-service/pkg/survey"
)

// Store is any backend the services run on. CountLinkedResponses is the
// runtime non-linkage check.
type Store interface {
	storage.StorageInterface
	CountLinkedResponses(ctx context.Context) (int, error)
}

// Harness wires the services on a single store.
type Harness struct {
	Store      Store
	Authorizer *authorization.Authorizer
	Thresholds analytics.Thresholds

	Organizations *organization.Service
	Surveys       *survey.Service
	Members       *members.Service
	Responses     *responses.Service
	Analytics     *analytics.Service
}

func NewHarness(store Store, thresholds analytics.Thresholds, tracer tracing.TracingInterface, monitor monitoring.MonitorInterface, logger logging.LoggerInterface) *Harness {
	h := new(Harness)

	h.Store = store
	h.Thresholds = thresholds
	h.Authorizer = authorization.NewAuthorizer(tracer, monitor, logger)

	h.Organizations = organization.NewService(store, h.Authorizer, tracer, monitor, logger)
	h.Surveys = survey.NewService(store, h.Authorizer, tracer, monitor, logger)
	// Provisioning needs the identity provider and is not exercised here.
	h.Members = members.NewService(store, h.Authorizer, nil, "", tracer, monitor, logger)
	h.Responses = responses.NewService(store, tracer, monitor, logger)
	h.Analytics = analytics.NewService(store, h.Authorizer, thresholds, tracer, monitor, logger)

	return h
}

// Fixture is what a scenario provisioned. Orgs and Principals are keyed by
// the labels the scenario chose.
type Fixture struct {
	Orgs       map[string]*types.Organization
	Principals map[string]types.Principal
	Values     map[string]string
}

// Outcome is what acting as the principal produced. Affected is only
// meaningful for store level writes.
type Outcome struct {
	Err      error
	Affected int64
	Result   any
}

type Scenario struct {
	Name string
	// Provision creates the rows the scenario needs through the harness
	// helpers so that teardown can find them.
	Provision func(t *testing.T, h *Harness, f *Fixture)
	Act       func(ctx context.Context, h *Harness, f *Fixture) Outcome
	Assert    func(t *testing.T, h *Harness, f *Fixture, out Outcome)
	// Teardown runs after the organizations are removed, optional.
	Teardown func(h *Harness, f *Fixture)
}

// Run executes one scenario as a subtest. Teardown is registered before the
// scenario acts so a failed assertion still cleans up.
func (h *Harness) Run(t *testing.T, sc Scenario) {
	t.Helper()

	t.Run(sc.Name, func(t *testing.T) {
		f := &Fixture{
			Orgs:       make(map[string]*types.Organization),
			Principals: make(map[string]types.Principal),
			Values:     make(map[string]string),
		}

		t.Cleanup(func() {
			h.teardown(t, f)
			if sc.Teardown != nil {
				sc.Teardown(h, f)
			}
		})

		if sc.Provision != nil {
			sc.Provision(t, h, f)
		}

		out := sc.Act(context.Background(), h, f)

		if sc.Assert != nil {
			sc.Assert(t, h, f, out)
		}
	})
}

func (h *Harness) teardown(t *testing.T, f *Fixture) {
	for label, org := range f.Orgs {
		_, err := h.Store.DeleteOrganizationCascade(context.Background(), org.ID, org.ID, nil)
		if err != nil {
			t.Errorf("teardown of organization %s failed: %v", label, err)
		}
	}
}

// Organization creates an organization labelled label.
func (h *Harness) Organization(t *testing.T, f *Fixture, label, name string) *types.Organization {
	t.Helper()

	org, err := h.Store.CreateOrganization(context.Background(), &types.Organization{Name: name, PlanTier: "free"})
	if err != nil {
		t.Fatalf("failed to provision organization %s: %v", label, err)
	}

	f.Orgs[label] = org
	return org
}

// Principal stores a profile with a fresh user id and returns the principal
// resolved from it.
func (h *Harness) Principal(t *testing.T, f *Fixture, label string, org *types.Organization, role types.Role) types.Principal {
	t.Helper()

	profile, err := h.Store.CreateProfile(context.Background(), &types.Profile{
		UserID:         uuid.NewString(),
		OrganizationID: org.ID,
		Role:           role,
		Email:          fmt.Sprintf("%s@%s.test", label, org.ID),
	})
	if err != nil {
		t.Fatalf("failed to provision principal %s: %v", label, err)
	}

	p := types.Principal{UserID: profile.UserID, OrganizationID: profile.OrganizationID, Role: profile.Role}
	f.Principals[label] = p

	return p
}

// Questionnaire creates a questionnaire with one question per category.
func (h *Harness) Questionnaire(t *testing.T, org *types.Organization, title string, categories ...string) *types.Questionnaire {
	t.Helper()

	q := &types.Questionnaire{OrganizationID: org.ID, Title: title}
	for _, c := range categories {
		q.Questions = append(q.Questions, &types.Question{Category: c, Text: "How is " + c + "?", ScalePoints: 5})
	}

	created, err := h.Store.CreateQuestionnaire(context.Background(), q)
	if err != nil {
		t.Fatalf("failed to provision questionnaire %q: %v", title, err)
	}

	return created
}

func (h *Harness) Department(t *testing.T, org *types.Organization, name string) *types.Department {
	t.Helper()

	d, err := h.Store.CreateDepartment(context.Background(), &types.Department{OrganizationID: org.ID, Name: name})
	if err != nil {
		t.Fatalf("failed to provision department %q: %v", name, err)
	}

	return d
}

// Assessment creates an assessment and moves it to status along the allowed
// lifecycle.
func (h *Harness) Assessment(t *testing.T, org *types.Organization, q *types.Questionnaire, departmentID string, status types.AssessmentStatus) *types.Assessment {
	t.Helper()

	ctx := context.Background()

	a, err := h.Store.CreateAssessment(ctx, &types.Assessment{
		OrganizationID:  org.ID,
		QuestionnaireID: q.ID,
		DepartmentID:    departmentID,
		Title:           q.Title + " run",
	})
	if err != nil {
		t.Fatalf("failed to provision assessment: %v", err)
	}

	path := map[types.AssessmentStatus][]types.AssessmentStatus{
		types.AssessmentDraft:     nil,
		types.AssessmentActive:    {types.AssessmentActive},
		types.AssessmentCompleted: {types.AssessmentActive, types.AssessmentCompleted},
		types.AssessmentArchived:  {types.AssessmentArchived},
	}

	for _, to := range path[status] {
		if _, err := h.Store.SetAssessmentStatus(ctx, org.ID, a.ID, a.Status, to); err != nil {
			t.Fatalf("failed to move assessment to %s: %v", to, err)
		}
		a.Status = to
	}

	return a
}

// Respond submits value to every question of the assessment for n fresh
// anonymous sessions through the anonymous ingestion path.
func (h *Harness) Respond(t *testing.T, a *types.Assessment, n int, value int) {
	t.Helper()

	ctx := context.Background()

	_, questions, err := h.Store.ListFormQuestions(ctx, a.ID)
	if err != nil {
		t.Fatalf("failed to read form of %s: %v", a.ID, err)
	}

	answers := make([]responses.Answer, 0, len(questions))
	for _, q := range questions {
		answers = append(answers, responses.Answer{QuestionID: q.ID, Value: value})
	}

	for i := 0; i < n; i++ {
		if _, err := h.Responses.SubmitBatch(ctx, a.ID, uuid.NewString(), answers); err != nil {
			t.Fatalf("failed to submit responses: %v", err)
		}
	}
}

// Blocked reports whether a write was refused in one of the two accepted
// forms: an explicit permission or not found error, or zero affected rows
// with no error at all.
func Blocked(err error, affected int64) bool {
	if err != nil {
		return errors.Is(err, apperrors.ErrForbidden) || errors.Is(err, apperrors.ErrNotFound)
	}
	return affected == 0
}

// AssertBlocked fails t unless the write was blocked and unchanged still
// holds for the target row.
func AssertBlocked(t *testing.T, out Outcome, unchanged func() error) {
	t.Helper()

	if !Blocked(out.Err, out.Affected) {
		t.Errorf("expected the write to be blocked, got err=%v affected=%d", out.Err, out.Affected)
	}
	if unchanged == nil {
		return
	}
	if err := unchanged(); err != nil {
		t.Errorf("target row changed by a blocked write: %v", err)
	}
}

// AssertAllowed fails t unless the action went through.
func AssertAllowed(t *testing.T, out Outcome) {
	t.Helper()

	if out.Err != nil {
		t.Errorf("expected the action to be permitted, got %v", out.Err)
	}
}
