// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

// Package billing reconciles tenant billing state against the payment
// processor. The processor is the source of truth; local state is a cached
// snapshot, only ever replaced wholesale.
package billing

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/canonical/subscription-service/internal/logging"
	"github.com/canonical/subscription-service/internal/monitoring"
	"github.com/canonical/subscription-service/internal/storage"
	"github.com/canonical/subscription-service/internal/stripe"
	"github.com/canonical/subscription-service/internal/tracing"
	"github.com/canonical/subscription-service/internal/types"
)

// Config carries the URLs and checkout parameters the reconciler needs to
// drive the processor's hosted checkout flow.
type Config struct {
	// BaseURL is the externally reachable URL of this service.
	BaseURL string
	// PricingURL is where an abandoned checkout returns to.
	PricingURL string
	// TrialDays is the trial period attached to new subscriptions.
	TrialDays int64
}

type Service struct {
	storage StorageInterface
	stripe  StripeClientInterface
	cfg     Config

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

func NewService(
	storage StorageInterface,
	stripeClient StripeClientInterface,
	cfg Config,
	tracer tracing.TracingInterface,
	monitor monitoring.MonitorInterface,
	logger logging.LoggerInterface,
) *Service {
	return &Service{
		storage: storage,
		stripe:  stripeClient,
		cfg:     cfg,
		tracer:  tracer,
		monitor: monitor,
		logger:  logger,
	}
}

// InitiateCheckout opens a hosted checkout session for the account's tenant
// and returns the URL the browser should be sent to.
func (s *Service) InitiateCheckout(ctx context.Context, account *types.Account, priceID, ipAddress string) (string, error) {
	ctx, span := s.tracer.Start(ctx, "billing.Service.InitiateCheckout")
	defer span.End()

	tenant, err := s.storage.GetTenantByAccountID(ctx, account.ID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return "", ErrNoTenant
		}
		return "", fmt.Errorf("failed to resolve tenant: %w", err)
	}

	session, err := s.stripe.CreateCheckoutSession(ctx, &stripe.CheckoutParams{
		PriceID:           priceID,
		CustomerID:        tenant.StripeCustomerID,
		ClientReferenceID: strconv.FormatInt(account.ID, 10),
		SuccessURL:        s.cfg.BaseURL + "/api/v0/billing/checkout/callback?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:         s.cfg.PricingURL,
		TrialDays:         s.cfg.TrialDays,
	})
	if err != nil {
		return "", fmt.Errorf("failed to create checkout session: %w", err)
	}

	s.recordActivity(ctx, tenant.ID, &account.ID, types.ActivityCheckoutSessionCreated, ipAddress)

	return session.URL, nil
}

// CompleteCheckout retrieves the finished checkout session from the processor
// and writes the resulting billing snapshot onto the tenant. The write is a
// pure overwrite, so redelivery of the same session is harmless.
func (s *Service) CompleteCheckout(ctx context.Context, sessionID string) error {
	ctx, span := s.tracer.Start(ctx, "billing.Service.CompleteCheckout")
	defer span.End()

	session, err := s.stripe.GetCheckoutSession(ctx, sessionID)
	if err != nil {
		// stripe.ErrNotFound stays visible to callers; an unknown
		// session is a lookup miss, not a malformed one.
		return fmt.Errorf("failed to retrieve checkout session %s: %w", sessionID, err)
	}
	if session.SubscriptionID == "" {
		return fmt.Errorf("%w: session %s carries no subscription", ErrInvalidState, session.ID)
	}

	sub, err := s.stripe.GetSubscription(ctx, session.SubscriptionID)
	if err != nil {
		return fmt.Errorf("failed to retrieve subscription: %w", err)
	}
	if len(sub.Items.Data) != 1 {
		return fmt.Errorf("%w: subscription %s has %d items", ErrInvalidState, sub.ID, len(sub.Items.Data))
	}
	product := sub.Items.Data[0].Price.Product

	accountID, err := strconv.ParseInt(session.ClientReferenceID, 10, 64)
	if err != nil {
		return fmt.Errorf("%w: session %s reference %q is not an account id", ErrInvalidState, session.ID, session.ClientReferenceID)
	}

	account, err := s.storage.GetAccountByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("%w: account %d no longer resolves", ErrInvalidState, accountID)
		}
		return fmt.Errorf("failed to look up account: %w", err)
	}

	tenant, err := s.storage.GetTenantByAccountID(ctx, account.ID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("%w: account %d has no tenant", ErrInvalidState, account.ID)
		}
		return fmt.Errorf("failed to resolve tenant: %w", err)
	}

	snapshot := types.BillingSnapshot{
		CustomerID:     session.CustomerID,
		SubscriptionID: sub.ID,
		ProductID:      product.ID,
		PlanName:       product.Name,
		Status:         sub.Status,
	}
	if err := s.storage.UpdateTenantBillingSnapshot(ctx, tenant.ID, snapshot); err != nil {
		return fmt.Errorf("failed to write billing snapshot: %w", err)
	}

	s.recordActivity(ctx, tenant.ID, &account.ID, types.ActivityCheckoutCompleted, "")

	return nil
}

// HandleWebhook verifies and dispatches a processor notification. Events the
// reconciler does not model are acknowledged without effect.
func (s *Service) HandleWebhook(ctx context.Context, payload []byte, sigHeader string) error {
	ctx, span := s.tracer.Start(ctx, "billing.Service.HandleWebhook")
	defer span.End()

	event, err := s.stripe.ConstructEvent(payload, sigHeader)
	if err != nil {
		return err
	}

	switch event.Type {
	case stripe.EventSubscriptionUpdated, stripe.EventSubscriptionDeleted:
		return s.reconcileSubscription(ctx, event)
	default:
		s.logger.Debugf("ignoring webhook event %s of kind %s", event.ID, event.Type)
		return nil
	}
}

// reconcileSubscription applies the subscription's current state to the
// owning tenant. An unmatched customer id is dropped rather than retried;
// the processor redelivers on its own schedule.
func (s *Service) reconcileSubscription(ctx context.Context, event *stripe.Event) error {
	ctx, span := s.tracer.Start(ctx, "billing.Service.reconcileSubscription")
	defer span.End()

	sub, err := event.Subscription()
	if err != nil {
		return fmt.Errorf("failed to decode subscription payload of event %s: %w", event.ID, err)
	}

	tenant, err := s.storage.GetTenantByStripeCustomerID(ctx, sub.CustomerID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.logger.Warnf("webhook event %s references unknown customer %s, dropping", event.ID, sub.CustomerID)
			return nil
		}
		return fmt.Errorf("failed to resolve tenant for customer %s: %w", sub.CustomerID, err)
	}

	var snapshot types.BillingSnapshot
	var action types.ActivityKind

	switch sub.Status {
	case stripe.StatusActive, stripe.StatusTrialing:
		var product stripe.Product
		if len(sub.Items.Data) > 0 {
			product = sub.Items.Data[0].Price.Product
		}
		snapshot = types.BillingSnapshot{
			CustomerID:     sub.CustomerID,
			SubscriptionID: sub.ID,
			ProductID:      product.ID,
			PlanName:       product.Name,
			Status:         sub.Status,
		}
		action = types.ActivityStatusActive
		if sub.Status == stripe.StatusTrialing {
			action = types.ActivityStatusTrialing
		}
	case stripe.StatusCanceled, stripe.StatusUnpaid:
		// A lapsed subscription keeps the customer linkage so future
		// events still resolve, but loses the plan identity.
		snapshot = types.BillingSnapshot{
			CustomerID: tenant.StripeCustomerID,
			Status:     sub.Status,
		}
		action = types.ActivityStatusCanceled
		if sub.Status == stripe.StatusUnpaid {
			action = types.ActivityStatusUnpaid
		}
	default:
		s.logger.Debugf("subscription %s in status %s, nothing to reconcile", sub.ID, sub.Status)
		return nil
	}

	if err := s.storage.UpdateTenantBillingSnapshot(ctx, tenant.ID, snapshot); err != nil {
		return fmt.Errorf("failed to write billing snapshot: %w", err)
	}

	s.recordActivity(ctx, tenant.ID, nil, action, "")

	return nil
}

// recordActivity is best effort. A ledger failure never undoes or fails the
// billing state change it describes.
func (s *Service) recordActivity(ctx context.Context, tenantID int64, accountID *int64, action types.ActivityKind, ipAddress string) {
	_, err := s.storage.AppendActivity(ctx, &types.ActivityRecord{
		TenantID:  tenantID,
		AccountID: accountID,
		Action:    action,
		IPAddress: ipAddress,
	})
	if err != nil {
		s.logger.Errorf("failed to append %s activity for tenant %d: %v", action, tenantID, err)
	}
}
