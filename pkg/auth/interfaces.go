// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package auth

import (
	"context"

	"github.com/canonical/subscription-service/internal/token"
	"github.com/canonical/subscription-service/internal/types"
)

type ServiceInterface interface {
	SignUp(ctx context.Context, params *SignUpParams) (*types.Account, string, error)
	SignIn(ctx context.Context, email, password, ipAddress string) (*types.Account, string, error)
	ValidateSession(ctx context.Context, rawToken string) (*types.Account, error)
	GetTenantForAccount(ctx context.Context, accountID int64) (*types.Tenant, error)
}

// StorageInterface is the subset of the internal storage interface the
// session authority needs.
type StorageInterface interface {
	CreateAccount(ctx context.Context, email, name, passwordHash, role string) (*types.Account, error)
	GetAccountByEmail(ctx context.Context, email string) (*types.Account, error)
	GetAccountByID(ctx context.Context, id int64) (*types.Account, error)
	CreateTenant(ctx context.Context, name string) (*types.Tenant, error)
	GetTenantByAccountID(ctx context.Context, accountID int64) (*types.Tenant, error)
	AddMember(ctx context.Context, tenantID, accountID int64, role string) (int64, error)
	GetPendingInvitation(ctx context.Context, id int64, email string) (*types.Invitation, error)
	AcceptInvitation(ctx context.Context, id int64) error
	AppendActivity(ctx context.Context, record *types.ActivityRecord) (int64, error)
}

type TokenCodecInterface interface {
	Sign(account *types.Account) (string, error)
	Verify(raw string) (*token.SessionClaims, error)
}
