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

const accountColumns = "id, name, email, password_hash, role, created_at, updated_at, deleted_at"

func (s *Storage) CreateAccount(ctx context.Context, email, name, passwordHash, role string) (*types.Account, error) {
	ctx, span := s.tracer.Start(ctx, "storage.CreateAccount")
	defer span.End()

	var a types.Account
	err := s.db.Statement(ctx).
		Insert("accounts").
		Columns("email", "name", "password_hash", "role").
		Values(email, name, passwordHash, role).
		Suffix("RETURNING " + accountColumns).
		QueryRowContext(ctx).
		Scan(&a.ID, &a.Name, &a.Email, &a.PasswordHash, &a.Role, &a.CreatedAt, &a.UpdatedAt, &a.DeletedAt)

	if err != nil {
		if IsDuplicateKeyError(err) {
			return nil, ErrDuplicateKey
		}
		return nil, fmt.Errorf("failed to insert account: %w", err)
	}

	return &a, nil
}

// GetAccountByEmail resolves an active account only; soft-deleted rows are
// invisible to authentication.
func (s *Storage) GetAccountByEmail(ctx context.Context, email string) (*types.Account, error) {
	ctx, span := s.tracer.Start(ctx, "storage.GetAccountByEmail")
	defer span.End()

	var a types.Account
	err := s.db.Statement(ctx).
		Select(accountColumns).
		From("accounts").
		Where(sq.Eq{"email": email, "deleted_at": nil}).
		QueryRowContext(ctx).
		Scan(&a.ID, &a.Name, &a.Email, &a.PasswordHash, &a.Role, &a.CreatedAt, &a.UpdatedAt, &a.DeletedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	return &a, nil
}

func (s *Storage) GetAccountByID(ctx context.Context, id int64) (*types.Account, error) {
	ctx, span := s.tracer.Start(ctx, "storage.GetAccountByID")
	defer span.End()

	var a types.Account
	err := s.db.Statement(ctx).
		Select(accountColumns).
		From("accounts").
		Where(sq.Eq{"id": id, "deleted_at": nil}).
		QueryRowContext(ctx).
		Scan(&a.ID, &a.Name, &a.Email, &a.PasswordHash, &a.Role, &a.CreatedAt, &a.UpdatedAt, &a.DeletedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	return &a, nil
}
