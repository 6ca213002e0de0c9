// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

// Package apperrors holds the error taxonomy shared by every service.
// Suppressed aggregates are not errors and have no sentinel here.
package apperrors

import "errors"

var (
	// ErrUnauthenticated means no principal could be resolved.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrForbidden is returned for both wrong tenant and insufficient role.
	ErrForbidden = errors.New("not permitted")

	// ErrNotFound is also what cross-tenant reads of a single resource get.
	ErrNotFound = errors.New("resource not found")

	// ErrInvalidInput indicates that input data failed validation checks.
	ErrInvalidInput = errors.New("invalid input")

	// ErrConflict indicates the operation clashes with the current state.
	ErrConflict = errors.New("conflict")

	// ErrStoreUnavailable is a transient infrastructure failure, safe to retry.
	ErrStoreUnavailable = errors.New("store unavailable")
)

// IsNotPermitted folds the two accepted shapes of a blocked operation.
func IsNotPermitted(err error) bool {
	return errors.Is(err, ErrForbidden) || errors.Is(err, ErrNotFound)
}
