// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package authentication

import (
	"slices"
	"strings"
)

type tokenClaims struct {
	Subject string   `json:"sub"`
	Scope   string   `json:"scope"`
	Scopes  []string `json:"scp"`
}

func (c tokenClaims) hasScope(scope string) bool {
	return slices.Contains(strings.Fields(c.Scope), scope) || slices.Contains(c.Scopes, scope)
}

// accessPolicy narrows which verified tokens reach the API. An empty policy
// lets every subject through, the profile lookup then decides what it may
// do.
type accessPolicy struct {
	subjects []string
	scope    string
}

func (p accessPolicy) allows(c tokenClaims) bool {
	if c.Subject == "" {
		return false
	}
	if len(p.subjects) == 0 && p.scope == "" {
		return true
	}
	if slices.Contains(p.subjects, c.Subject) {
		return true
	}
	return p.scope != "" && c.hasScope(p.scope)
}
