// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/canonical/subscription-service/internal/logging"
	"github.com/canonical/subscription-service/internal/monitoring"
	"github.com/canonical/subscription-service/internal/password"
	"github.com/canonical/subscription-service/internal/storage"
	"github.com/canonical/subscription-service/internal/tracing"
	"github.com/canonical/subscription-service/internal/types"
)

type SignUpParams struct {
	Email     string
	Password  string
	Name      string
	InviteID  *int64
	IPAddress string
}

type Service struct {
	storage StorageInterface
	codec   TokenCodecInterface

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

func NewService(
	storage StorageInterface,
	codec TokenCodecInterface,
	tracer tracing.TracingInterface,
	monitor monitoring.MonitorInterface,
	logger logging.LoggerInterface,
) *Service {
	return &Service{
		storage: storage,
		codec:   codec,
		tracer:  tracer,
		monitor: monitor,
		logger:  logger,
	}
}

// SignUp creates the account and its tenant linkage, then issues a session
// token. Callers run it inside a request transaction, so the account, tenant,
// membership, invitation transition and activity records commit atomically.
func (s *Service) SignUp(ctx context.Context, params *SignUpParams) (*types.Account, string, error) {
	ctx, span := s.tracer.Start(ctx, "auth.Service.SignUp")
	defer span.End()

	var invitation *types.Invitation
	if params.InviteID != nil {
		inv, err := s.storage.GetPendingInvitation(ctx, *params.InviteID, params.Email)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return nil, "", ErrInvitationInvalid
			}
			return nil, "", fmt.Errorf("failed to resolve invitation: %w", err)
		}
		invitation = inv
	}

	role := types.RoleOwner
	if invitation != nil {
		role = invitation.Role
	}

	digest, err := password.Hash(params.Password)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	account, err := s.storage.CreateAccount(ctx, params.Email, params.Name, digest, role)
	if err != nil {
		if errors.Is(err, storage.ErrDuplicateKey) {
			return nil, "", ErrEmailTaken
		}
		return nil, "", fmt.Errorf("failed to create account: %w", err)
	}

	var tenantID int64
	if invitation != nil {
		if err := s.storage.AcceptInvitation(ctx, invitation.ID); err != nil {
			return nil, "", fmt.Errorf("failed to accept invitation: %w", err)
		}
		tenantID = invitation.TenantID

		s.recordActivity(ctx, tenantID, account.ID, types.ActivityAcceptInvitation, params.IPAddress)
	} else {
		tenant, err := s.storage.CreateTenant(ctx, fmt.Sprintf("%s's Team", params.Email))
		if err != nil {
			return nil, "", fmt.Errorf("failed to create tenant: %w", err)
		}
		tenantID = tenant.ID

		s.recordActivity(ctx, tenantID, account.ID, types.ActivityCreateTeam, params.IPAddress)
	}

	if _, err := s.storage.AddMember(ctx, tenantID, account.ID, role); err != nil {
		return nil, "", fmt.Errorf("failed to add membership: %w", err)
	}

	s.recordActivity(ctx, tenantID, account.ID, types.ActivitySignUp, params.IPAddress)

	signed, err := s.codec.Sign(account)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue session token: %w", err)
	}

	s.logger.Security().AuthSuccess(strconv.FormatInt(account.ID, 10))
	return account, signed, nil
}

// SignIn authenticates a password credential. A missing account and a wrong
// password produce the identical ErrInvalidCredentials.
func (s *Service) SignIn(ctx context.Context, email, plaintext, ipAddress string) (*types.Account, string, error) {
	ctx, span := s.tracer.Start(ctx, "auth.Service.SignIn")
	defer span.End()

	account, err := s.storage.GetAccountByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.logger.Security().AuthFailure(email, "unknown account")
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("failed to look up account: %w", err)
	}

	if !password.Verify(plaintext, account.PasswordHash) {
		s.logger.Security().AuthFailure(strconv.FormatInt(account.ID, 10), "password mismatch")
		return nil, "", ErrInvalidCredentials
	}

	// Sign-in is only auditable against a tenant; accounts without a
	// membership authenticate but leave no ledger entry.
	tenant, err := s.storage.GetTenantByAccountID(ctx, account.ID)
	if err == nil {
		s.recordActivity(ctx, tenant.ID, account.ID, types.ActivitySignIn, ipAddress)
	} else if !errors.Is(err, storage.ErrNotFound) {
		return nil, "", fmt.Errorf("failed to resolve tenant: %w", err)
	}

	signed, err := s.codec.Sign(account)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue session token: %w", err)
	}

	s.logger.Security().AuthSuccess(strconv.FormatInt(account.ID, 10))
	return account, signed, nil
}

// ValidateSession resolves a bearer token to its active account.
// Token failures of any cause collapse into ErrSessionInvalid; a valid token
// whose account is gone (soft-deleted or missing) yields ErrAccountNotFound.
func (s *Service) ValidateSession(ctx context.Context, rawToken string) (*types.Account, error) {
	ctx, span := s.tracer.Start(ctx, "auth.Service.ValidateSession")
	defer span.End()

	claims, err := s.codec.Verify(rawToken)
	if err != nil {
		return nil, ErrSessionInvalid
	}

	accountID, err := claims.AccountID()
	if err != nil {
		s.logger.Debugf("session subject not parsable: %v", err)
		return nil, ErrSessionInvalid
	}

	account, err := s.storage.GetAccountByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to look up account: %w", err)
	}

	return account, nil
}

func (s *Service) GetTenantForAccount(ctx context.Context, accountID int64) (*types.Tenant, error) {
	ctx, span := s.tracer.Start(ctx, "auth.Service.GetTenantForAccount")
	defer span.End()

	tenant, err := s.storage.GetTenantByAccountID(ctx, accountID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrNoTenant
		}
		return nil, fmt.Errorf("failed to resolve tenant: %w", err)
	}

	return tenant, nil
}

func (s *Service) recordActivity(ctx context.Context, tenantID, accountID int64, action types.ActivityKind, ipAddress string) {
	_, err := s.storage.AppendActivity(ctx, &types.ActivityRecord{
		TenantID:  tenantID,
		AccountID: &accountID,
		Action:    action,
		IPAddress: ipAddress,
	})
	if err != nil {
		s.logger.Errorf("failed to append %s activity for tenant %d: %v", action, tenantID, err)
	}
}
