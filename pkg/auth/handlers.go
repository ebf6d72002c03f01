// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package auth

import (
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strings"

	chi "github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/canonical/subscription-service/internal/logging"
	"github.com/canonical/subscription-service/internal/monitoring"
	"github.com/canonical/subscription-service/internal/token"
	"github.com/canonical/subscription-service/internal/tracing"
	"github.com/canonical/subscription-service/internal/types"
)

type signUpRequest struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=100"`
	Name     string `json:"name" validate:"max=100"`
	InviteID *int64 `json:"inviteId" validate:"omitempty,gt=0"`
}

type signInRequest struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=100"`
}

type accountResponse struct {
	Account *types.Account `json:"account"`
}

type tenantResponse struct {
	Tenant *types.Tenant `json:"tenant"`
}

type API struct {
	service    ServiceInterface
	middleware *Middleware
	validate   *validator.Validate

	cookieSecure bool

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

func NewAPI(
	service ServiceInterface,
	middleware *Middleware,
	cookieSecure bool,
	tracer tracing.TracingInterface,
	monitor monitoring.MonitorInterface,
	logger logging.LoggerInterface,
) *API {
	return &API{
		service:      service,
		middleware:   middleware,
		validate:     validator.New(),
		cookieSecure: cookieSecure,
		tracer:       tracer,
		monitor:      monitor,
		logger:       logger,
	}
}

func (a *API) RegisterEndpoints(mux *chi.Mux) {
	mux.Post("/api/v0/auth/signup", a.signUp)
	mux.Post("/api/v0/auth/signin", a.signIn)
	mux.Post("/api/v0/auth/signout", a.signOut)

	mux.Group(func(r chi.Router) {
		r.Use(a.middleware.RequireSession)
		r.Get("/api/v0/auth/me", a.me)
		r.Get("/api/v0/auth/me/tenant", a.meTenant)
	})
}

func (a *API) signUp(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "auth.API.signUp")
	defer span.End()

	var req signUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := a.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid input data")
		return
	}

	account, signed, err := a.service.SignUp(ctx, &SignUpParams{
		Email:     req.Email,
		Password:  req.Password,
		Name:      req.Name,
		InviteID:  req.InviteID,
		IPAddress: clientAddress(r),
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrEmailTaken):
			writeError(w, http.StatusConflict, ErrEmailTaken.Error())
		case errors.Is(err, ErrInvitationInvalid):
			writeError(w, http.StatusBadRequest, ErrInvitationInvalid.Error())
		default:
			a.logger.Errorf("sign-up failed: %v", err)
			writeError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	a.setSessionCookie(w, signed)
	writeJSON(w, http.StatusCreated, accountResponse{Account: account})
}

func (a *API) signIn(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "auth.API.signIn")
	defer span.End()

	var req signInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := a.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid input data")
		return
	}

	account, signed, err := a.service.SignIn(ctx, req.Email, req.Password, clientAddress(r))
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, ErrInvalidCredentials.Error())
			return
		}
		a.logger.Errorf("sign-in failed: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	a.setSessionCookie(w, signed)
	writeJSON(w, http.StatusOK, accountResponse{Account: account})
}

// signOut only instructs the transport to discard the credential; the token
// itself stays valid until expiry.
func (a *API) signOut(w http.ResponseWriter, r *http.Request) {
	_, span := a.tracer.Start(r.Context(), "auth.API.signOut")
	defer span.End()

	a.clearSessionCookie(w)
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (a *API) me(w http.ResponseWriter, r *http.Request) {
	_, span := a.tracer.Start(r.Context(), "auth.API.me")
	defer span.End()

	account := AccountFromContext(r.Context())
	if account == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	writeJSON(w, http.StatusOK, accountResponse{Account: account})
}

func (a *API) meTenant(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "auth.API.meTenant")
	defer span.End()

	account := AccountFromContext(r.Context())
	if account == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	tenant, err := a.service.GetTenantForAccount(ctx, account.ID)
	if err != nil {
		if errors.Is(err, ErrNoTenant) {
			writeError(w, http.StatusNotFound, "tenant not found")
			return
		}
		a.logger.Errorf("tenant lookup failed: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, tenantResponse{Tenant: tenant})
}

func (a *API) setSessionCookie(w http.ResponseWriter, value string) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   int(token.SessionLifetime.Seconds()),
		HttpOnly: true,
		Secure:   a.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (a *API) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   a.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
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
