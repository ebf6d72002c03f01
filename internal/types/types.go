// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package types

import (
	"time"
)

const (
	RoleOwner  = "owner"
	RoleMember = "member"
)

// Account is a password-credentialed identity. Accounts are soft-deleted,
// never removed; a non-nil DeletedAt excludes the row from authentication
// and lookup.
type Account struct {
	ID           int64      `db:"id" json:"id"`
	Name         string     `db:"name" json:"name,omitempty"`
	Email        string     `db:"email" json:"email"`
	PasswordHash string     `db:"password_hash" json:"-"`
	Role         string     `db:"role" json:"role"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
	DeletedAt    *time.Time `db:"deleted_at" json:"-"`
}

// Tenant is the billing unit. The billing snapshot fields mirror the payment
// processor's state and are only ever written together; an empty string means
// the identifier is absent.
type Tenant struct {
	ID                   int64     `db:"id" json:"id"`
	Name                 string    `db:"name" json:"name"`
	CreatedAt            time.Time `db:"created_at" json:"created_at"`
	UpdatedAt            time.Time `db:"updated_at" json:"updated_at"`
	StripeCustomerID     string    `db:"stripe_customer_id" json:"stripe_customer_id,omitempty"`
	StripeSubscriptionID string    `db:"stripe_subscription_id" json:"stripe_subscription_id,omitempty"`
	StripeProductID      string    `db:"stripe_product_id" json:"stripe_product_id,omitempty"`
	PlanName             string    `db:"plan_name" json:"plan_name,omitempty"`
	SubscriptionStatus   string    `db:"subscription_status" json:"subscription_status,omitempty"`
}

// BillingSnapshot is the atomic tuple written onto a Tenant during
// reconciliation. Partial writes are forbidden.
type BillingSnapshot struct {
	CustomerID     string
	SubscriptionID string
	ProductID      string
	PlanName       string
	Status         string
}

type Membership struct {
	ID        int64     `db:"id" json:"id"`
	AccountID int64     `db:"account_id" json:"account_id"`
	TenantID  int64     `db:"tenant_id" json:"tenant_id"`
	Role      string    `db:"role" json:"role"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

const (
	InvitationPending  = "pending"
	InvitationAccepted = "accepted"
)

type Invitation struct {
	ID        int64     `db:"id" json:"id"`
	TenantID  int64     `db:"tenant_id" json:"tenant_id"`
	Email     string    `db:"email" json:"email"`
	Role      string    `db:"role" json:"role"`
	InvitedBy *int64    `db:"invited_by" json:"invited_by,omitempty"`
	Status    string    `db:"status" json:"status"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// ActivityKind is the closed enumeration of auditable actions.
type ActivityKind string

const (
	ActivitySignUp                 ActivityKind = "sign_up"
	ActivitySignIn                 ActivityKind = "sign_in"
	ActivityCreateTeam             ActivityKind = "create_team"
	ActivityAcceptInvitation       ActivityKind = "accept_invitation"
	ActivityCheckoutSessionCreated ActivityKind = "checkout_session_created"
	ActivityCheckoutCompleted      ActivityKind = "checkout_completed"
	ActivityStatusActive           ActivityKind = "subscription_status_active"
	ActivityStatusTrialing         ActivityKind = "subscription_status_trialing"
	ActivityStatusCanceled         ActivityKind = "subscription_status_canceled"
	ActivityStatusUnpaid           ActivityKind = "subscription_status_unpaid"
)

// ActivityRecord is append-only; there is no update or delete path.
// AccountID is nil for records produced by webhook reconciliation.
type ActivityRecord struct {
	ID        int64        `db:"id" json:"id"`
	TenantID  int64        `db:"tenant_id" json:"tenant_id"`
	AccountID *int64       `db:"account_id" json:"account_id,omitempty"`
	Action    ActivityKind `db:"action" json:"action"`
	IPAddress string       `db:"ip_address" json:"ip_address,omitempty"`
	CreatedAt time.Time    `db:"created_at" json:"created_at"`
}
