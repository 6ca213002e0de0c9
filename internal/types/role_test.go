// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package types

import (
	"encoding/json"
	"testing"
)

func TestRole_AtLeast(t *testing.T) {
	roles := Roles()

	for i, have := range roles {
		for j, required := range roles {
			got := have.AtLeast(required)
			want := i >= j
			if got != want {
				t.Errorf("%s.AtLeast(%s) = %v, want %v", have, required, got, want)
			}
		}
	}
}

func TestRole_AtLeastRejectsUnknownRoles(t *testing.T) {
	unknown := Role(42)

	if unknown.AtLeast(RoleViewer) {
		t.Error("unknown role must not satisfy any requirement")
	}
	if RoleAdmin.AtLeast(unknown) {
		t.Error("no role may satisfy an unknown requirement")
	}
}

func TestParseRole(t *testing.T) {
	tests := []struct {
		input    string
		expected Role
		wantErr  bool
	}{
		{input: "viewer", expected: RoleViewer},
		{input: "member", expected: RoleMember},
		{input: "manager", expected: RoleManager},
		{input: "ADMIN", expected: RoleAdmin},
		{input: "owner", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			r, err := ParseRole(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error for %q", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if r != tt.expected {
				t.Errorf("expected %s, got %s", tt.expected, r)
			}
		})
	}
}

func TestRole_JSON(t *testing.T) {
	b, err := json.Marshal(RoleManager)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(b) != `"manager"` {
		t.Errorf("unexpected encoding %s", b)
	}

	var r Role
	if err := json.Unmarshal([]byte(`"superuser"`), &r); err == nil {
		t.Error("expected unknown role to be rejected")
	}
}

func TestAssessmentStatus_CanTransition(t *testing.T) {
	tests := []struct {
		from, to AssessmentStatus
		allowed  bool
	}{
		{AssessmentDraft, AssessmentActive, true},
		{AssessmentDraft, AssessmentCompleted, false},
		{AssessmentActive, AssessmentCompleted, true},
		{AssessmentActive, AssessmentArchived, true},
		{AssessmentActive, AssessmentDraft, false},
		{AssessmentCompleted, AssessmentActive, false},
		{AssessmentCompleted, AssessmentArchived, true},
		{AssessmentArchived, AssessmentActive, false},
	}

	for _, tt := range tests {
		if got := tt.from.CanTransition(tt.to); got != tt.allowed {
			t.Errorf("%s -> %s: expected %v, got %v", tt.from, tt.to, tt.allowed, got)
		}
	}
}
