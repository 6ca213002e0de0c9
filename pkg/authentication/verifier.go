// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package authentication

import (
	"context"
	"errors"
	"fmt"

	"github.com/coreos/go-oidc/v3/oidc"

	"github.com/canonical/assessment-service/internal/logging"
	"github.com/canonical/assessment-service/internal/monitoring"
	"github.com/canonical/assessment-service/internal/tracing"
)

var errAccessDenied = errors.New("token subject or scope not allowed")

type JWTVerifier struct {
	verifier *oidc.IDTokenVerifier
	policy   accessPolicy

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

// VerifyToken checks signature, issuer and expiry, then the access policy.
// It returns the token subject.
func (v *JWTVerifier) VerifyToken(ctx context.Context, rawToken string) (string, error) {
	ctx, span := v.tracer.Start(ctx, "authentication.JWTVerifier.VerifyToken")
	defer span.End()

	token, err := v.verifier.Verify(ctx, rawToken)
	if err != nil {
		return "", err
	}

	var claims tokenClaims
	if err := token.Claims(&claims); err != nil {
		return "", fmt.Errorf("failed to read token claims: %v", err)
	}

	if !v.policy.allows(claims) {
		v.logger.Security().AuthzFailure(claims.Subject, "api_access")
		return "", errAccessDenied
	}

	return claims.Subject, nil
}

// NewJWTVerifier verifies tokens with the keys of a discovered provider.
func NewJWTVerifier(
	provider ProviderInterface,
	allowedSubjects []string,
	requiredScope string,
	tracer tracing.TracingInterface,
	monitor monitoring.MonitorInterface,
	logger logging.LoggerInterface,
) *JWTVerifier {
	policy := accessPolicy{subjects: allowedSubjects, scope: requiredScope}
	return newJWTVerifier(provider.Verifier(verifierConfig()), policy, tracer, monitor, logger)
}

func newJWTVerifier(verifier *oidc.IDTokenVerifier, policy accessPolicy, tracer tracing.TracingInterface, monitor monitoring.MonitorInterface, logger logging.LoggerInterface) *JWTVerifier {
	return &JWTVerifier{
		verifier: verifier,
		policy:   policy,
		tracer:   tracer,
		monitor:  monitor,
		logger:   logger,
	}
}
