// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package authorization

import (
	"github.com/canonical/assessment-service/internal/types"
)

// Action is a class of operation gated by a minimum role.
type Action int

const (
	// ActionRead covers every read inside the caller's organization.
	ActionRead Action = iota
	// ActionEditContent covers questionnaires, assessments, departments and
	// assessment lifecycle transitions.
	ActionEditContent
	ActionUpdateOrganization
	ActionDeleteOrganization
	ActionManageMembers
)

var minimumRole = map[Action]types.Role{
	ActionRead:               types.RoleViewer,
	ActionEditContent:        types.RoleManager,
	ActionUpdateOrganization: types.RoleAdmin,
	ActionDeleteOrganization: types.RoleAdmin,
	ActionManageMembers:      types.RoleAdmin,
}

var actionNames = map[Action]string{
	ActionRead:               "read",
	ActionEditContent:        "edit_content",
	ActionUpdateOrganization: "update_organization",
	ActionDeleteOrganization: "delete_organization",
	ActionManageMembers:      "manage_members",
}

func (a Action) String() string {
	if n, ok := actionNames[a]; ok {
		return n
	}
	return "unknown"
}

// Actions lists every gated action, used by the conformance suite.
func Actions() []Action {
	return []Action{ActionRead, ActionEditContent, ActionUpdateOrganization, ActionDeleteOrganization, ActionManageMembers}
}

// RequiredRole returns the minimum role for an action. Unknown actions
// report false and must be denied.
func RequiredRole(a Action) (types.Role, bool) {
	r, ok := minimumRole[a]
	return r, ok
}

// CanRead is true iff the principal belongs to the resource's organization.
func CanRead(p types.Principal, resourceOrgID string) bool {
	return p.OrganizationID != "" && p.OrganizationID == resourceOrgID
}

// CanWrite additionally requires the principal's role to rank at least as
// high as required.
func CanWrite(p types.Principal, resourceOrgID string, required types.Role) bool {
	return CanRead(p, resourceOrgID) && p.Role.AtLeast(required)
}
