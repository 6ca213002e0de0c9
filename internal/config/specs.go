// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package config

import (
	"fmt"
	"time"
)

const (
	StorageBackendPostgres = "postgres"
	StorageBackendMemory   = "memory"
)

// EnvSpec is the basic environment configuration setup needed for the app to start
type EnvSpec struct {
	OtelGRPCEndpoint string `envconfig:"otel_grpc_endpoint"`
	OtelHTTPEndpoint string `envconfig:"otel_http_endpoint"`
	TracingEnabled   bool   `envconfig:"tracing_enabled" default:"true"`

	KratosAdminURL     string `envconfig:"kratos_admin_url" required:"true"`
	InvitationLifetime string `envconfig:"invitation_lifetime" default:"24h"`
	// Shared secret Kratos sends in the Authorization header of web hooks
	WebhookAPIKey string `envconfig:"webhook_api_key"`

	LogLevel string `envconfig:"log_level" default:"error"`
	Debug    bool   `envconfig:"debug" default:"false"`

	Port           int      `envconfig:"port" default:"8080"`
	AllowedOrigins []string `envconfig:"allowed_origins" default:"*"`

	StorageBackend string `envconfig:"storage_backend" default:"postgres"`
	DSN            string `envconfig:"DSN"`

	DBMaxConns        int32         `envconfig:"db_max_conns" default:"25"`
	DBMinConns        int32         `envconfig:"db_min_conns" default:"2"`
	DBMaxConnLifetime time.Duration `envconfig:"db_max_conn_lifetime" default:"1h"`
	DBMaxConnIdleTime time.Duration `envconfig:"db_max_conn_idle_time" default:"30m"`

	AuthenticationEnabled bool     `envconfig:"authentication_enabled" default:"true"`
	OIDCIssuer            string   `envconfig:"oidc_issuer"`
	OIDCJWKSURL           string   `envconfig:"oidc_jwks_url"`
	AllowedSubjects       []string `envconfig:"allowed_subjects"`
	RequiredScope         string   `envconfig:"required_scope"`

	// Minimum distinct respondents before a statistic is disclosed, per bucket type
	AssessmentThreshold int `envconfig:"suppression_threshold_assessment" default:"10"`
	DepartmentThreshold int `envconfig:"suppression_threshold_department" default:"5"`
	CategoryThreshold   int `envconfig:"suppression_threshold_category" default:"3"`

	// ulule/limiter formatted rate for anonymous submissions, e.g. 60-M
	SubmissionRate string `envconfig:"submission_rate" default:"120-M"`
}

// Validate checks combinations envconfig tags can not express.
func (s *EnvSpec) Validate() error {
	switch s.StorageBackend {
	case StorageBackendPostgres:
		if s.DSN == "" {
			return fmt.Errorf("DSN is required for the %s storage backend", StorageBackendPostgres)
		}
	case StorageBackendMemory:
	default:
		return fmt.Errorf("unknown storage backend %q", s.StorageBackend)
	}

	if s.AuthenticationEnabled && s.OIDCIssuer == "" {
		return fmt.Errorf("oidc_issuer is required when authentication is enabled")
	}

	return nil
}
