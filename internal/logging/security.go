// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package logging

import (
	"go.uber.org/zap"
)

const (
	securityChannel = "security"

	eventSystemStartup  = "sys_startup"
	eventSystemShutdown = "sys_shutdown"
	eventAuthnFailure   = "authn_login_fail"
	eventAuthzFailure   = "authz_fail"
	eventAdminAction    = "admin_action"
)

var _ SecurityLoggerInterface = (*SecurityLogger)(nil)

type SecurityLogger struct {
	l *zap.Logger
}

func (s *SecurityLogger) SystemStartup() {
	s.l.Info("system started", zap.String("event", eventSystemStartup))
}

func (s *SecurityLogger) SystemShutdown() {
	s.l.Info("system shutting down", zap.String("event", eventSystemShutdown))
}

func (s *SecurityLogger) AuthnFailure(reason string) {
	s.l.Warn("authentication failed",
		zap.String("event", eventAuthnFailure),
		zap.String("reason", reason),
	)
}

func (s *SecurityLogger) AuthzFailure(userID, resource string) {
	s.l.Warn("authorization denied",
		zap.String("event", eventAuthzFailure+":"+userID+","+resource),
		zap.String("user_id", userID),
		zap.String("resource", resource),
	)
}

func (s *SecurityLogger) AdminAction(userID, organizationID, action, target string) {
	s.l.Warn("administrative action",
		zap.String("event", eventAdminAction+":"+action),
		zap.String("user_id", userID),
		zap.String("organization_id", organizationID),
		zap.String("target", target),
	)
}

func newSecurityLogger(z *zap.Logger) *SecurityLogger {
	return &SecurityLogger{l: z.With(zap.String("type", securityChannel))}
}
