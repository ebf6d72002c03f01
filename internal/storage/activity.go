// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package storage

import (
	"context"
	"fmt"

	"github.com/canonical/subscription-service/internal/types"
)

// AppendActivity writes one record to the append-only activity ledger.
// The ledger has no update or delete path.
func (s *Storage) AppendActivity(ctx context.Context, record *types.ActivityRecord) (int64, error) {
	ctx, span := s.tracer.Start(ctx, "storage.AppendActivity")
	defer span.End()

	var id int64
	err := s.db.Statement(ctx).
		Insert("activity_records").
		Columns("tenant_id", "account_id", "action", "ip_address").
		Values(record.TenantID, record.AccountID, string(record.Action), record.IPAddress).
		Suffix("RETURNING id").
		QueryRowContext(ctx).
		Scan(&id)

	if err != nil {
		if IsForeignKeyViolation(err) {
			return 0, ErrForeignKeyViolation
		}
		return 0, fmt.Errorf("failed to append activity record: %w", err)
	}

	return id, nil
}
