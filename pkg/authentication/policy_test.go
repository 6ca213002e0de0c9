// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package authentication

import "testing"

func TestAccessPolicy(t *testing.T) {
	tests := []struct {
		name     string
		policy   accessPolicy
		claims   tokenClaims
		expected bool
	}{
		{name: "open policy", claims: tokenClaims{Subject: "user-1"}, expected: true},
		{name: "no subject", claims: tokenClaims{}, expected: false},
		{name: "allowed subject", policy: accessPolicy{subjects: []string{"cli"}}, claims: tokenClaims{Subject: "cli"}, expected: true},
		{name: "other subject", policy: accessPolicy{subjects: []string{"cli"}}, claims: tokenClaims{Subject: "user-1"}, expected: false},
		{name: "scope string", policy: accessPolicy{scope: "assessments"}, claims: tokenClaims{Subject: "user-1", Scope: "openid assessments"}, expected: true},
		{name: "scope list", policy: accessPolicy{scope: "assessments"}, claims: tokenClaims{Subject: "user-1", Scopes: []string{"assessments"}}, expected: true},
		{name: "scope prefix only", policy: accessPolicy{scope: "assessments"}, claims: tokenClaims{Subject: "user-1", Scope: "assessments:read"}, expected: false},
		{name: "subject or scope", policy: accessPolicy{subjects: []string{"cli"}, scope: "assessments"}, claims: tokenClaims{Subject: "user-1", Scope: "assessments"}, expected: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.policy.allows(tt.claims); got != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, got)
			}
		})
	}
}
