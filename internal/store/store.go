package store

import (
	"context"
	"errors"

	"multichain-wallet-gateway-go/internal/models"
)

// Sentinel errors shared across all backend implementations.
var (
	ErrPaymentCodeNotFound = errors.New("payment code not found")
	ErrDuplicateEntry      = errors.New("duplicate entry")
)

// AuditFilter narrows an audit log listing. Zero values match everything.
type AuditFilter struct {
	Chain     string
	Operation string
	Outcome   string
	Limit     int
}

// AuditLog is the append-only operational log. Implementations must be safe
// for concurrent appenders; ordering across entries is not guaranteed.
type AuditLog interface {
	Append(ctx context.Context, entry models.AuditEntry) error
}

// AuditReader lists audit entries, newest first.
type AuditReader interface {
	ListAuditEntries(ctx context.Context, filter AuditFilter) ([]models.AuditEntry, error)
}

// PaymentCodeStore persists scannable payment codes by gateway session id.
type PaymentCodeStore interface {
	SavePaymentCode(ctx context.Context, sessionId string, code models.PaymentCode) error
	GetPaymentCode(ctx context.Context, sessionId string) (*models.PaymentCode, error)
}
