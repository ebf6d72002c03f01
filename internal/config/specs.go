// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package config

import (
	"time"
)

// EnvSpec is the basic environment configuration setup needed for the app to start
type EnvSpec struct {
	OtelGRPCEndpoint string `envconfig:"otel_grpc_endpoint"`
	OtelHTTPEndpoint string `envconfig:"otel_http_endpoint"`
	TracingEnabled   bool   `envconfig:"tracing_enabled" default:"true"`

	LogLevel string `envconfig:"log_level" default:"error"`
	Debug    bool   `envconfig:"debug" default:"false"`

	Port int `envconfig:"port" default:"8080"`

	DSN string `envconfig:"DSN" required:"true"`

	DBMaxConns        int32         `envconfig:"db_max_conns" default:"25"`
	DBMinConns        int32         `envconfig:"db_min_conns" default:"2"`
	DBMaxConnLifetime time.Duration `envconfig:"db_max_conn_lifetime" default:"1h"`
	DBMaxConnIdleTime time.Duration `envconfig:"db_max_conn_idle_time" default:"30m"`

	// AuthSecret signs session tokens. Never logged.
	AuthSecret string `envconfig:"auth_secret" required:"true"`

	CookieSecure bool `envconfig:"cookie_secure" default:"true"`

	StripeSecretKey     string `envconfig:"stripe_secret_key" required:"true"`
	StripeWebhookSecret string `envconfig:"stripe_webhook_secret" required:"true"`
	StripeAPIBase       string `envconfig:"stripe_api_base" default:"https://api.stripe.com"`

	// BaseURL is the externally reachable URL of this service, used to build
	// the checkout completion callback address.
	BaseURL           string `envconfig:"base_url" required:"true"`
	DashboardURL      string `envconfig:"dashboard_url" default:"/dashboard"`
	PricingURL        string `envconfig:"pricing_url" default:"/pricing"`
	CheckoutErrorURL  string `envconfig:"checkout_error_url" default:"/error"`
	CheckoutTrialDays int64  `envconfig:"checkout_trial_days" default:"14"`
}
