// Package chaintest provides an in-memory chain.Adapter for tests.
package chaintest

import (
	"context"
	"sync"

	"multichain-wallet-gateway-go/internal/chain"
	"multichain-wallet-gateway-go/internal/models"

	"github.com/shopspring/decimal"
)

var _ chain.Adapter = (*Adapter)(nil)

// Adapter is a scriptable chain.Adapter. Zero-valued hooks return canned
// results derived from the chain id.
type Adapter struct {
	Chain models.ChainID

	CreateFunc  func(ctx context.Context) (*models.WalletRecord, error)
	RecoverFunc func(ctx context.Context, secret string) (*models.WalletRecord, error)
	AccountFunc func(ctx context.Context, address string) (*models.AccountState, error)
	SendFunc    func(ctx context.Context, req models.TransferRequest) (*models.TransferResult, error)

	mu    sync.Mutex
	Sends []models.TransferRequest
}

func New(id models.ChainID) *Adapter {
	return &Adapter{Chain: id}
}

func (a *Adapter) ID() models.ChainID { return a.Chain }

func (a *Adapter) CreateWallet(ctx context.Context) (*models.WalletRecord, error) {
	if a.CreateFunc != nil {
		return a.CreateFunc(ctx)
	}
	return &models.WalletRecord{
		Address:        "addr-" + string(a.Chain),
		SecretMaterial: "secret words",
		Chain:          a.Chain,
		Kind:           models.WalletStandard,
	}, nil
}

func (a *Adapter) RecoverWallet(ctx context.Context, secret string) (*models.WalletRecord, error) {
	if a.RecoverFunc != nil {
		return a.RecoverFunc(ctx, secret)
	}
	return &models.WalletRecord{
		Address:        "addr-" + string(a.Chain),
		SecretMaterial: secret,
		Chain:          a.Chain,
		Kind:           models.WalletStandard,
	}, nil
}

func (a *Adapter) Balance(ctx context.Context, address string) (decimal.Decimal, error) {
	state, err := a.Account(ctx, address)
	if err != nil {
		return decimal.Zero, err
	}
	return state.Balance, nil
}

func (a *Adapter) Account(ctx context.Context, address string) (*models.AccountState, error) {
	if a.AccountFunc != nil {
		return a.AccountFunc(ctx, address)
	}
	return &models.AccountState{Balance: decimal.RequireFromString("1.5"), TransactionCount: 3}, nil
}

func (a *Adapter) Send(ctx context.Context, req models.TransferRequest) (*models.TransferResult, error) {
	a.mu.Lock()
	a.Sends = append(a.Sends, req)
	a.mu.Unlock()
	if a.SendFunc != nil {
		return a.SendFunc(ctx, req)
	}
	return &models.TransferResult{TransactionId: "tx-" + string(a.Chain), Status: models.TransferBroadcast}, nil
}

// SendCount returns how many times Send was called.
func (a *Adapter) SendCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.Sends)
}
