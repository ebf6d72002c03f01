// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

// Package stripe is a minimal client for the payment processor API. Only the
// operations the reconciler needs are implemented.
package stripe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/canonical/subscription-service/internal/logging"
	"github.com/canonical/subscription-service/internal/monitoring"
	"github.com/canonical/subscription-service/internal/tracing"
)

var ErrNotFound = errors.New("stripe resource not found")

var _ ClientInterface = (*Client)(nil)

type ClientInterface interface {
	CreateCheckoutSession(ctx context.Context, params *CheckoutParams) (*CheckoutSession, error)
	GetCheckoutSession(ctx context.Context, id string) (*CheckoutSession, error)
	GetSubscription(ctx context.Context, id string) (*Subscription, error)
	ConstructEvent(payload []byte, sigHeader string) (*Event, error)
}

type Config struct {
	APIKey        string
	WebhookSecret string
	APIBase       string
}

type Client struct {
	apiKey        string
	webhookSecret string
	apiBase       string
	http          *http.Client

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

func NewClient(cfg Config, tracer tracing.TracingInterface, monitor monitoring.MonitorInterface, logger logging.LoggerInterface) *Client {
	base := cfg.APIBase
	if base == "" {
		base = "https://api.stripe.com"
	}

	return &Client{
		apiKey:        cfg.APIKey,
		webhookSecret: cfg.WebhookSecret,
		apiBase:       strings.TrimRight(base, "/"),
		http:          &http.Client{Timeout: 30 * time.Second},
		tracer:        tracer,
		monitor:       monitor,
		logger:        logger,
	}
}

func (c *Client) CreateCheckoutSession(ctx context.Context, params *CheckoutParams) (*CheckoutSession, error) {
	ctx, span := c.tracer.Start(ctx, "stripe.Client.CreateCheckoutSession")
	defer span.End()

	form := url.Values{}
	form.Set("mode", "subscription")
	form.Set("payment_method_types[0]", "card")
	form.Set("line_items[0][price]", params.PriceID)
	form.Set("line_items[0][quantity]", "1")
	form.Set("success_url", params.SuccessURL)
	form.Set("cancel_url", params.CancelURL)
	form.Set("client_reference_id", params.ClientReferenceID)
	form.Set("allow_promotion_codes", "true")
	if params.CustomerID != "" {
		form.Set("customer", params.CustomerID)
	}
	if params.TrialDays > 0 {
		form.Set("subscription_data[trial_period_days]", strconv.FormatInt(params.TrialDays, 10))
	}

	var session CheckoutSession
	if err := c.do(ctx, http.MethodPost, "/v1/checkout/sessions", form, &session); err != nil {
		return nil, err
	}

	return &session, nil
}

func (c *Client) GetCheckoutSession(ctx context.Context, id string) (*CheckoutSession, error) {
	ctx, span := c.tracer.Start(ctx, "stripe.Client.GetCheckoutSession")
	defer span.End()

	var session CheckoutSession
	path := "/v1/checkout/sessions/" + url.PathEscape(id)
	if err := c.do(ctx, http.MethodGet, path, nil, &session); err != nil {
		return nil, err
	}

	return &session, nil
}

func (c *Client) GetSubscription(ctx context.Context, id string) (*Subscription, error) {
	ctx, span := c.tracer.Start(ctx, "stripe.Client.GetSubscription")
	defer span.End()

	form := url.Values{}
	form.Set("expand[0]", "items.data.price.product")

	var sub Subscription
	path := "/v1/subscriptions/" + url.PathEscape(id) + "?" + form.Encode()
	if err := c.do(ctx, http.MethodGet, path, nil, &sub); err != nil {
		return nil, err
	}

	return &sub, nil
}

func (c *Client) do(ctx context.Context, method, path string, form url.Values, out interface{}) error {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, method, c.apiBase+path, body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("processor request failed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}

	if res.StatusCode >= 400 {
		// The error body may contain identifiers but never secrets.
		payload, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		c.logger.Debugf("processor returned %d: %s", res.StatusCode, payload)
		return fmt.Errorf("processor returned status %d", res.StatusCode)
	}

	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode processor response: %w", err)
	}

	return nil
}
