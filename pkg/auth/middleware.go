// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/canonical/subscription-service/internal/logging"
	"github.com/canonical/subscription-service/internal/monitoring"
	"github.com/canonical/subscription-service/internal/tracing"
	"github.com/canonical/subscription-service/internal/types"
)

// SessionCookieName is the single session transport for the whole service.
const SessionCookieName = "session"

type accountContextKey struct{}

// ContextWithAccount attaches the authenticated account to the context.
func ContextWithAccount(ctx context.Context, account *types.Account) context.Context {
	return context.WithValue(ctx, accountContextKey{}, account)
}

// AccountFromContext extracts the authenticated account, nil if absent.
func AccountFromContext(ctx context.Context) *types.Account {
	if account, ok := ctx.Value(accountContextKey{}).(*types.Account); ok {
		return account
	}
	return nil
}

type Middleware struct {
	service ServiceInterface

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

func NewMiddleware(service ServiceInterface, tracer tracing.TracingInterface, monitor monitoring.MonitorInterface, logger logging.LoggerInterface) *Middleware {
	return &Middleware{
		service: service,
		tracer:  tracer,
		monitor: monitor,
		logger:  logger,
	}
}

// RequireSession resolves the session cookie to an active account and puts it
// in the request context. Absent or rejected tokens yield 401; a valid token
// whose account no longer exists yields 404.
func (m *Middleware) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := m.tracer.Start(r.Context(), "auth.Middleware.RequireSession")
		defer span.End()

		cookie, err := r.Cookie(SessionCookieName)
		if err != nil || cookie.Value == "" {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		account, err := m.service.ValidateSession(ctx, cookie.Value)
		if err != nil {
			switch {
			case errors.Is(err, ErrAccountNotFound):
				writeError(w, http.StatusNotFound, "account not found")
			case errors.Is(err, ErrSessionInvalid):
				writeError(w, http.StatusUnauthorized, "unauthorized")
			default:
				m.logger.Errorf("session validation failed: %v", err)
				writeError(w, http.StatusInternalServerError, "internal error")
			}
			return
		}

		next.ServeHTTP(w, r.WithContext(ContextWithAccount(ctx, account)))
	})
}
