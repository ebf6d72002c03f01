// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package logging

import (
	"go.uber.org/zap"
)

var _ SecurityLoggerInterface = (*SecurityLogger)(nil)

// SecurityLogger writes audit-grade events with a fixed schema.
// Subjects are account identifiers, never credentials.
type SecurityLogger struct {
	l *zap.Logger
}

func NewSecurityLogger(l *zap.Logger) *SecurityLogger {
	return &SecurityLogger{l: l.Named("security")}
}

func (s *SecurityLogger) AuthSuccess(subject string) {
	s.l.Info("authentication succeeded",
		zap.String("event", "auth_success"),
		zap.String("subject", subject),
	)
}

func (s *SecurityLogger) AuthFailure(subject, reason string) {
	s.l.Warn("authentication failed",
		zap.String("event", "auth_failure"),
		zap.String("subject", subject),
		zap.String("reason", reason),
	)
}

func (s *SecurityLogger) WebhookRejected(reason string) {
	s.l.Warn("webhook rejected",
		zap.String("event", "webhook_rejected"),
		zap.String("reason", reason),
	)
}

func (s *SecurityLogger) SystemStartup() {
	s.l.Info("system startup", zap.String("event", "system_startup"))
}

func (s *SecurityLogger) SystemShutdown() {
	s.l.Info("system shutdown", zap.String("event", "system_shutdown"))
}
