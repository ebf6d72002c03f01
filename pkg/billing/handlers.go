// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package billing

import (
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"strings"

	chi "github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/canonical/subscription-service/internal/logging"
	"github.com/canonical/subscription-service/internal/monitoring"
	"github.com/canonical/subscription-service/internal/stripe"
	"github.com/canonical/subscription-service/internal/tracing"
	"github.com/canonical/subscription-service/pkg/auth"
)

// maxWebhookBody caps the raw payload read for signature verification.
const maxWebhookBody = 1 << 20

type checkoutRequest struct {
	PriceID string `json:"priceId" validate:"required,max=255"`
}

type checkoutResponse struct {
	URL string `json:"url"`
}

// RedirectConfig holds the browser destinations for the checkout callback.
// The callback is a redirect target and never answers with JSON.
type RedirectConfig struct {
	DashboardURL string
	ErrorURL     string
}

type API struct {
	service    ServiceInterface
	middleware *auth.Middleware
	validate   *validator.Validate
	redirects  RedirectConfig

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

func NewAPI(
	service ServiceInterface,
	middleware *auth.Middleware,
	redirects RedirectConfig,
	tracer tracing.TracingInterface,
	monitor monitoring.MonitorInterface,
	logger logging.LoggerInterface,
) *API {
	return &API{
		service:    service,
		middleware: middleware,
		validate:   validator.New(),
		redirects:  redirects,
		tracer:     tracer,
		monitor:    monitor,
		logger:     logger,
	}
}

func (a *API) RegisterEndpoints(mux *chi.Mux) {
	mux.Group(func(r chi.Router) {
		r.Use(a.middleware.RequireSession)
		r.Post("/api/v0/billing/checkout", a.checkout)
	})

	mux.Get("/api/v0/billing/checkout/callback", a.checkoutCallback)
	mux.Post("/api/v0/webhooks/stripe", a.webhook)
}

func (a *API) checkout(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "billing.API.checkout")
	defer span.End()

	account := auth.AccountFromContext(ctx)
	if account == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := a.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid input data")
		return
	}

	url, err := a.service.InitiateCheckout(ctx, account, req.PriceID, clientAddress(r))
	if err != nil {
		if errors.Is(err, ErrNoTenant) {
			writeError(w, http.StatusNotFound, "tenant not found")
			return
		}
		a.logger.Errorf("checkout initiation failed: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, checkoutResponse{URL: url})
}

// checkoutCallback is where the processor's hosted page sends the browser
// back. Every outcome is a redirect.
func (a *API) checkoutCallback(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "billing.API.checkoutCallback")
	defer span.End()

	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		http.Redirect(w, r, a.redirects.ErrorURL, http.StatusFound)
		return
	}

	if err := a.service.CompleteCheckout(ctx, sessionID); err != nil {
		a.logger.Errorf("checkout completion for session %s failed: %v", sessionID, err)
		http.Redirect(w, r, a.redirects.ErrorURL, http.StatusFound)
		return
	}

	http.Redirect(w, r, a.redirects.DashboardURL, http.StatusFound)
}

func (a *API) webhook(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "billing.API.webhook")
	defer span.End()

	payload, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		writeError(w, http.StatusBadRequest, "unreadable payload")
		return
	}

	if err := a.service.HandleWebhook(ctx, payload, r.Header.Get("Stripe-Signature")); err != nil {
		if errors.Is(err, stripe.ErrSignatureVerification) {
			a.logger.Security().WebhookRejected("signature verification failed")
			writeError(w, http.StatusBadRequest, "invalid signature")
			return
		}
		a.logger.Errorf("webhook processing failed: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"received": true})
}

func clientAddress(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		if first, _, found := strings.Cut(forwarded, ","); found {
			return strings.TrimSpace(first)
		}
		return strings.TrimSpace(forwarded)
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
