package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"multichain-wallet-gateway-go/internal/models"
	"multichain-wallet-gateway-go/internal/store"
)

func (s *Service) SavePaymentCode(ctx context.Context, sessionId string, code models.PaymentCode) error {
	if sessionId == "" {
		return fmt.Errorf("session id cannot be empty")
	}
	if _, err := s.db.ExecContext(ctx, queryUpsertPaymentCode, sessionId, code.URI, code.PNG); err != nil {
		return fmt.Errorf("failed to save payment code: %w", err)
	}
	return nil
}

func (s *Service) GetPaymentCode(ctx context.Context, sessionId string) (*models.PaymentCode, error) {
	var code models.PaymentCode
	err := s.db.QueryRowContext(ctx, queryGetPaymentCode, sessionId).Scan(&code.URI, &code.PNG)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrPaymentCodeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load payment code: %w", err)
	}
	return &code, nil
}
