// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/canonical/subscription-service/internal/types"
)

const tenantColumns = "id, name, created_at, updated_at, stripe_customer_id, stripe_subscription_id, stripe_product_id, plan_name, subscription_status"

func scanTenant(row sq.RowScanner) (*types.Tenant, error) {
	var t types.Tenant
	err := row.Scan(
		&t.ID, &t.Name, &t.CreatedAt, &t.UpdatedAt,
		&t.StripeCustomerID, &t.StripeSubscriptionID, &t.StripeProductID,
		&t.PlanName, &t.SubscriptionStatus,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan tenant: %w", err)
	}
	return &t, nil
}

func (s *Storage) CreateTenant(ctx context.Context, name string) (*types.Tenant, error) {
	ctx, span := s.tracer.Start(ctx, "storage.CreateTenant")
	defer span.End()

	row := s.db.Statement(ctx).
		Insert("tenants").
		Columns("name").
		Values(name).
		Suffix("RETURNING " + tenantColumns).
		QueryRowContext(ctx)

	t, err := scanTenant(row)
	if err != nil {
		return nil, fmt.Errorf("failed to insert tenant: %w", err)
	}

	return t, nil
}

func (s *Storage) GetTenantByID(ctx context.Context, id int64) (*types.Tenant, error) {
	ctx, span := s.tracer.Start(ctx, "storage.GetTenantByID")
	defer span.End()

	row := s.db.Statement(ctx).
		Select(tenantColumns).
		From("tenants").
		Where(sq.Eq{"id": id}).
		QueryRowContext(ctx)

	return scanTenant(row)
}

// GetTenantByAccountID returns the tenant of the account's first membership.
// An account holds at most one active membership in the current scope.
func (s *Storage) GetTenantByAccountID(ctx context.Context, accountID int64) (*types.Tenant, error) {
	ctx, span := s.tracer.Start(ctx, "storage.GetTenantByAccountID")
	defer span.End()

	row := s.db.Statement(ctx).
		Select(
			"t.id", "t.name", "t.created_at", "t.updated_at",
			"t.stripe_customer_id", "t.stripe_subscription_id", "t.stripe_product_id",
			"t.plan_name", "t.subscription_status",
		).
		From("tenants t").
		Join("memberships m ON t.id = m.tenant_id").
		Where(sq.Eq{"m.account_id": accountID}).
		OrderBy("m.created_at", "m.id").
		Limit(1).
		QueryRowContext(ctx)

	return scanTenant(row)
}

func (s *Storage) GetTenantByStripeCustomerID(ctx context.Context, customerID string) (*types.Tenant, error) {
	ctx, span := s.tracer.Start(ctx, "storage.GetTenantByStripeCustomerID")
	defer span.End()

	if customerID == "" {
		return nil, ErrNotFound
	}

	row := s.db.Statement(ctx).
		Select(tenantColumns).
		From("tenants").
		Where(sq.Eq{"stripe_customer_id": customerID}).
		QueryRowContext(ctx)

	return scanTenant(row)
}

// UpdateTenantBillingSnapshot writes the full billing snapshot in a single
// UPDATE so status and external identifiers can never diverge.
func (s *Storage) UpdateTenantBillingSnapshot(ctx context.Context, tenantID int64, snapshot types.BillingSnapshot) error {
	ctx, span := s.tracer.Start(ctx, "storage.UpdateTenantBillingSnapshot")
	defer span.End()

	res, err := s.db.Statement(ctx).
		Update("tenants").
		SetMap(map[string]interface{}{
			"stripe_customer_id":     snapshot.CustomerID,
			"stripe_subscription_id": snapshot.SubscriptionID,
			"stripe_product_id":      snapshot.ProductID,
			"plan_name":              snapshot.PlanName,
			"subscription_status":    snapshot.Status,
			"updated_at":             sq.Expr("now()"),
		}).
		Where(sq.Eq{"id": tenantID}).
		ExecContext(ctx)

	if err != nil {
		return fmt.Errorf("failed to update billing snapshot: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}

	return nil
}

func (s *Storage) AddMember(ctx context.Context, tenantID, accountID int64, role string) (int64, error) {
	ctx, span := s.tracer.Start(ctx, "storage.AddMember")
	defer span.End()

	var id int64
	err := s.db.Statement(ctx).
		Insert("memberships").
		Columns("tenant_id", "account_id", "role").
		Values(tenantID, accountID, role).
		Suffix("RETURNING id").
		QueryRowContext(ctx).
		Scan(&id)

	if err != nil {
		if IsDuplicateKeyError(err) {
			return 0, ErrDuplicateKey
		}
		if IsForeignKeyViolation(err) {
			return 0, ErrForeignKeyViolation
		}
		return 0, fmt.Errorf("failed to add member: %w", err)
	}

	return id, nil
}
