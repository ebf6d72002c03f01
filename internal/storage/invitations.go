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

// GetPendingInvitation resolves an invitation by id only when it is still
// pending and was issued for exactly this email.
func (s *Storage) GetPendingInvitation(ctx context.Context, id int64, email string) (*types.Invitation, error) {
	ctx, span := s.tracer.Start(ctx, "storage.GetPendingInvitation")
	defer span.End()

	var inv types.Invitation
	err := s.db.Statement(ctx).
		Select("id", "tenant_id", "email", "role", "invited_by", "status", "created_at").
		From("invitations").
		Where(sq.Eq{"id": id, "email": email, "status": types.InvitationPending}).
		QueryRowContext(ctx).
		Scan(&inv.ID, &inv.TenantID, &inv.Email, &inv.Role, &inv.InvitedBy, &inv.Status, &inv.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get invitation: %w", err)
	}

	return &inv, nil
}

// AcceptInvitation transitions pending to accepted. The transition is one-way;
// a row that is no longer pending is reported as ErrNotFound.
func (s *Storage) AcceptInvitation(ctx context.Context, id int64) error {
	ctx, span := s.tracer.Start(ctx, "storage.AcceptInvitation")
	defer span.End()

	res, err := s.db.Statement(ctx).
		Update("invitations").
		Set("status", types.InvitationAccepted).
		Where(sq.Eq{"id": id, "status": types.InvitationPending}).
		ExecContext(ctx)

	if err != nil {
		return fmt.Errorf("failed to accept invitation: %w", err)
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
