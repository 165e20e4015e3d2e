package database

import (
	"context"
	"fmt"
	"time"

	"multichain-wallet-gateway-go/internal/models"
	"multichain-wallet-gateway-go/internal/store"

	"github.com/google/uuid"
)

const (
	defaultAuditLimit = 50
	maxAuditLimit     = 1000
)

// Append writes one audit entry. Missing ids and timestamps are filled in.
func (s *Service) Append(ctx context.Context, entry models.AuditEntry) error {
	if entry.Id == "" {
		entry.Id = uuid.New().String()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, queryInsertAuditEntry,
		entry.Id,
		entry.Operation,
		entry.Chain,
		entry.Address,
		entry.Amount,
		entry.Outcome,
		entry.Detail,
		entry.CreatedAt)
	if err != nil {
		if isConstraintError(err) {
			return fmt.Errorf("audit entry %s: %w", entry.Id, store.ErrDuplicateEntry)
		}
		return fmt.Errorf("failed to append audit entry: %w", err)
	}
	return nil
}

func (s *Service) ListAuditEntries(ctx context.Context, filter store.AuditFilter) ([]models.AuditEntry, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = defaultAuditLimit
	}
	if limit > maxAuditLimit {
		limit = maxAuditLimit
	}

	rows, err := s.db.QueryContext(ctx, queryListAuditEntries,
		filter.Chain, filter.Chain,
		filter.Operation, filter.Operation,
		filter.Outcome, filter.Outcome,
		limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit log: %w", err)
	}
	defer rows.Close()

	var entries []models.AuditEntry
	for rows.Next() {
		var e models.AuditEntry
		if err := rows.Scan(&e.Id, &e.Operation, &e.Chain, &e.Address, &e.Amount, &e.Outcome, &e.Detail, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan audit entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
