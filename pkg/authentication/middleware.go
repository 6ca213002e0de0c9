// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package authentication

import (
	"net/http"
	"strings"

	"github.com/canonical/assessment-service/internal/apperrors"
	httptypes "github.com/canonical/assessment-service/internal/http/types"
	"github.com/canonical/assessment-service/internal/logging"
	"github.com/canonical/assessment-service/internal/monitoring"
	"github.com/canonical/assessment-service/internal/tracing"
)

type Middleware struct {
	verifier TokenVerifierInterface

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

// Authenticate verifies the bearer token and stores its subject in the
// request context. Every failure gets the same neutral 401.
func (m *Middleware) Authenticate() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, span := m.tracer.Start(r.Context(), "authentication.Middleware.Authenticate")
			defer span.End()

			token, found := bearerToken(r.Header)
			if !found {
				m.reject(w, "missing bearer token")
				return
			}

			subject, err := m.verifier.VerifyToken(ctx, token)
			if err != nil || subject == "" {
				m.logger.Debugf("token verification failed: %v", err)
				m.reject(w, "invalid token")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithSubject(ctx, subject)))
		})
	}
}

func (m *Middleware) reject(w http.ResponseWriter, reason string) {
	m.logger.Security().AuthnFailure(reason)
	w.Header().Set("WWW-Authenticate", `Bearer realm="assessment-service"`)
	httptypes.WriteError(w, apperrors.ErrUnauthenticated, m.logger)
}

// bearerToken extracts the credentials of an RFC 6750 Authorization header,
// the scheme is matched case-insensitively.
func bearerToken(headers http.Header) (string, bool) {
	scheme, token, ok := strings.Cut(headers.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}

	token = strings.TrimSpace(token)
	return token, token != ""
}

func NewMiddleware(verifier TokenVerifierInterface, tracer tracing.TracingInterface, monitor monitoring.MonitorInterface, logger logging.LoggerInterface) *Middleware {
	return &Middleware{
		verifier: verifier,
		tracer:   tracer,
		monitor:  monitor,
		logger:   logger,
	}
}
