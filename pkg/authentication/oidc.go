// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package authentication

import (
	"context"
	"fmt"
	"net/http"

	"github.com/coreos/go-oidc/v3/oidc"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/canonical/assessment-service/internal/logging"
	"github.com/canonical/assessment-service/internal/monitoring"
	"github.com/canonical/assessment-service/internal/tracing"
)

var otelHTTPClient = http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}

// Config selects how access tokens are verified. Without JWKSURL the keys
// are found through OIDC discovery on Issuer.
type Config struct {
	Issuer          string
	JWKSURL         string
	AllowedSubjects []string
	RequiredScope   string
}

// NewJWTAuthenticator builds a verifier for access tokens signed by the
// configured issuer.
func NewJWTAuthenticator(ctx context.Context, cfg Config, tracer tracing.TracingInterface, monitor monitoring.MonitorInterface, logger logging.LoggerInterface) (*JWTVerifier, error) {
	if cfg.Issuer == "" {
		return nil, fmt.Errorf("issuer is required for JWT authentication")
	}

	ctx = oidc.ClientContext(ctx, &otelHTTPClient)
	policy := accessPolicy{subjects: cfg.AllowedSubjects, scope: cfg.RequiredScope}

	if cfg.JWKSURL != "" {
		logger.Infof("Verifying tokens of %s with keys from %s", cfg.Issuer, cfg.JWKSURL)

		keySet := oidc.NewRemoteKeySet(ctx, cfg.JWKSURL)
		verifier := oidc.NewVerifier(cfg.Issuer, keySet, verifierConfig())

		return newJWTVerifier(verifier, policy, tracer, monitor, logger), nil
	}

	provider, err := oidc.NewProvider(ctx, cfg.Issuer)
	if err != nil {
		return nil, fmt.Errorf("failed to discover issuer %s: %v", cfg.Issuer, err)
	}
	logger.Infof("Verifying tokens of %s through OIDC discovery", cfg.Issuer)

	return NewJWTVerifier(provider, policy.subjects, policy.scope, tracer, monitor, logger), nil
}

// verifierConfig accepts tokens of any client, access tokens are minted for
// the CLI and other services alike.
func verifierConfig() *oidc.Config {
	return &oidc.Config{SkipClientIDCheck: true}
}
