package formance

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"multichain-wallet-gateway-go/internal/models"
	"multichain-wallet-gateway-go/internal/store"

	"github.com/formancehq/formance-sdk-go/v3/pkg/models/operations"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Ledger account segments only allow word characters.
var invalidSegment = regexp.MustCompile(`[^A-Za-z0-9_]`)

// Append records one audit entry as metadata on audit:{chain}:{address}.
func (s *Service) Append(ctx context.Context, entry models.AuditEntry) error {
	if entry.Id == "" {
		entry.Id = uuid.New().String()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	account := auditAccount(entry.Chain, entry.Address)
	meta, err := entryMetadata(entry)
	if err != nil {
		return err
	}

	zap.L().Debug("Appending audit entry to Formance",
		zap.String("account", account),
		zap.String("operation", entry.Operation),
		zap.String("outcome", entry.Outcome))

	_, err = s.writer.AddMetadataToAccount(ctx, operations.V2AddMetadataToAccountRequest{
		Ledger:      s.ledger,
		Address:     account,
		RequestBody: meta,
	})
	if err != nil {
		if isConflictError(err) {
			return fmt.Errorf("audit entry %s: %w", entry.Id, store.ErrDuplicateEntry)
		}
		return fmt.Errorf("failed to append audit entry: %w", err)
	}
	return nil
}

// auditAccount returns the ledger account holding entries for an address.
func auditAccount(chain, address string) string {
	return "audit:" + segment(chain) + ":" + segment(address)
}

func segment(s string) string {
	s = invalidSegment.ReplaceAllString(strings.TrimSpace(s), "_")
	if s == "" {
		return "unknown"
	}
	return s
}

// entryMetadata encodes the entry under op_{id} and keeps a pointer to the latest one.
func entryMetadata(entry models.AuditEntry) (map[string]string, error) {
	raw, err := json.Marshal(entry)
	if err != nil {
		return nil, fmt.Errorf("failed to encode audit entry: %w", err)
	}
	return map[string]string{
		"op_" + entry.Id: string(raw),
		"last_op":        entry.Id,
		"last_outcome":   entry.Outcome,
		"updated_at":     entry.CreatedAt.Format(time.RFC3339),
	}, nil
}
