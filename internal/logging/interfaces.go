// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package logging

type LoggerInterface interface {
	Debug(args ...interface{})
	Info(args ...interface{})
	Warn(args ...interface{})
	Error(args ...interface{})
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Fatalf(format string, args ...interface{})
	Security() SecurityLoggerInterface
}

// SecurityLoggerInterface emits structured security events meant for audit
// pipelines, separate from operational logging.
type SecurityLoggerInterface interface {
	AuthSuccess(subject string)
	AuthFailure(subject, reason string)
	WebhookRejected(reason string)
	SystemStartup()
	SystemShutdown()
}
