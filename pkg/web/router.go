// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package web

import (
	"net/http"

	chi "github.com/go-chi/chi/v5"
	middleware "github.com/go-chi/chi/v5/middleware"

	"github.com/canonical/subscription-service/internal/db"
	"github.com/canonical/subscription-service/internal/logging"
	"github.com/canonical/subscription-service/internal/monitoring"
	"github.com/canonical/subscription-service/internal/tracing"
	"github.com/canonical/subscription-service/pkg/auth"
	"github.com/canonical/subscription-service/pkg/billing"
	"github.com/canonical/subscription-service/pkg/metrics"
	"github.com/canonical/subscription-service/pkg/status"
)

func NewRouter(
	authAPI *auth.API,
	billingAPI *billing.API,
	dbClient db.DBClientInterface,
	tracer tracing.TracingInterface,
	monitor monitoring.MonitorInterface,
	logger logging.LoggerInterface,
) http.Handler {
	router := chi.NewMux()

	middlewares := make(chi.Middlewares, 0)
	middlewares = append(
		middlewares,
		middleware.RequestID,
		monitoring.NewMiddleware(monitor, logger).ResponseTime(),
		middlewareCORS([]string{"*"}),
		// Mutating requests run inside one transaction so that state
		// changes and their activity records commit together. The webhook
		// is exempt: its snapshot write must survive a failed ledger
		// insert, and the processor has already been acknowledged by the
		// time the transaction would commit.
		db.TransactionMiddleware(dbClient, logger, "/api/v0/webhooks/stripe"),
	)

	router.Use(middlewares...)

	metrics.NewAPI(logger).RegisterEndpoints(router)
	status.NewAPI(tracer, monitor, logger).RegisterEndpoints(router)
	authAPI.RegisterEndpoints(router)
	billingAPI.RegisterEndpoints(router)

	return tracing.NewMiddleware(monitor, logger).OpenTelemetry(router)
}
