// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package auth

import (
	"errors"
)

var (
	// ErrEmailTaken means an active account already holds the email.
	ErrEmailTaken = errors.New("account already exists")

	// ErrInvalidCredentials is deliberately uniform across "no such
	// account" and "wrong password" to prevent account enumeration.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrInvitationInvalid covers a missing, already accepted, or
	// mismatched-email invitation.
	ErrInvitationInvalid = errors.New("invalid or expired invitation")

	// ErrSessionInvalid is uniform across bad signature, malformed and
	// expired tokens.
	ErrSessionInvalid = errors.New("invalid session")

	// ErrAccountNotFound means a validly signed session references an
	// account that no longer resolves.
	ErrAccountNotFound = errors.New("account not found")

	// ErrNoTenant means the account has no membership to resolve.
	ErrNoTenant = errors.New("no tenant for account")
)
