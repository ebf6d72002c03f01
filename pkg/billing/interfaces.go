// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package billing

import (
	"context"

	"github.com/canonical/subscription-service/internal/stripe"
	"github.com/canonical/subscription-service/internal/types"
)

type ServiceInterface interface {
	InitiateCheckout(ctx context.Context, account *types.Account, priceID, ipAddress string) (string, error)
	CompleteCheckout(ctx context.Context, sessionID string) error
	HandleWebhook(ctx context.Context, payload []byte, sigHeader string) error
}

// StorageInterface is the subset of the internal storage interface the
// reconciler needs.
type StorageInterface interface {
	GetAccountByID(ctx context.Context, id int64) (*types.Account, error)
	GetTenantByAccountID(ctx context.Context, accountID int64) (*types.Tenant, error)
	GetTenantByStripeCustomerID(ctx context.Context, customerID string) (*types.Tenant, error)
	UpdateTenantBillingSnapshot(ctx context.Context, tenantID int64, snapshot types.BillingSnapshot) error
	AppendActivity(ctx context.Context, record *types.ActivityRecord) (int64, error)
}

type StripeClientInterface interface {
	CreateCheckoutSession(ctx context.Context, params *stripe.CheckoutParams) (*stripe.CheckoutSession, error)
	GetCheckoutSession(ctx context.Context, id string) (*stripe.CheckoutSession, error)
	GetSubscription(ctx context.Context, id string) (*stripe.Subscription, error)
	ConstructEvent(payload []byte, sigHeader string) (*stripe.Event, error)
}
