// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package storage

import (
	"context"

	"github.com/canonical/subscription-service/internal/types"
)

type StorageInterface interface {
	CreateAccount(ctx context.Context, email, name, passwordHash, role string) (*types.Account, error)
	GetAccountByEmail(ctx context.Context, email string) (*types.Account, error)
	GetAccountByID(ctx context.Context, id int64) (*types.Account, error)

	CreateTenant(ctx context.Context, name string) (*types.Tenant, error)
	GetTenantByID(ctx context.Context, id int64) (*types.Tenant, error)
	GetTenantByAccountID(ctx context.Context, accountID int64) (*types.Tenant, error)
	GetTenantByStripeCustomerID(ctx context.Context, customerID string) (*types.Tenant, error)
	UpdateTenantBillingSnapshot(ctx context.Context, tenantID int64, snapshot types.BillingSnapshot) error

	AddMember(ctx context.Context, tenantID, accountID int64, role string) (int64, error)

	GetPendingInvitation(ctx context.Context, id int64, email string) (*types.Invitation, error)
	AcceptInvitation(ctx context.Context, id int64) error

	AppendActivity(ctx context.Context, record *types.ActivityRecord) (int64, error)
}
