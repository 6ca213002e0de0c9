// Copyright 2025 Canonical Ltd
// SPDX-License-Identifier: AGPL-3.0

package authorization

import (
	"context"

	"github.com/canonical/assessment-service/internal/types"
)

type AuthorizerInterface interface {
	Authorize(ctx context.Context, p types.Principal, resourceOrgID string, action Action) error
}
