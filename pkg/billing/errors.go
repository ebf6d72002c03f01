// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package billing

import (
	"errors"
)

var (
	// ErrNoTenant means the account initiating checkout has no tenant to
	// bill against.
	ErrNoTenant = errors.New("no tenant for account")

	// ErrInvalidState means the processor returned a checkout session that
	// cannot be reconciled, for example one without a subscription or one
	// whose reference no longer resolves to an account.
	ErrInvalidState = errors.New("checkout session in invalid state")
)
