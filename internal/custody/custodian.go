package custody

import (
	"context"
	"strings"
	"sync"

	"multichain-wallet-gateway-go/internal/apperr"
	"multichain-wallet-gateway-go/internal/models"

	"go.uber.org/zap"
)

const walletType = "TRADING"

// Custody is the subset of the Prime API the custodian needs.
type Custody interface {
	FindDefaultPortfolio(ctx context.Context) (*models.Portfolio, error)
	ListWallets(ctx context.Context, portfolioId, walletType string, symbols []string) ([]models.Wallet, error)
	CreateDepositAddress(ctx context.Context, portfolioId, walletId, asset, network string) (*models.DepositAddress, error)
}

// Custodian creates wallets whose keys never leave the custodian. The record's
// SecretMaterial carries the custody account identifier.
type Custodian struct {
	api      Custody
	networks map[models.ChainID]string
	logger   *zap.Logger

	mu        sync.Mutex
	portfolio *models.Portfolio
}

func NewCustodian(api Custody, networks map[models.ChainID]string, logger *zap.Logger) *Custodian {
	return &Custodian{api: api, networks: networks, logger: logger}
}

// CreateWallet opens a fresh deposit address on the first custodial wallet for chain.
func (c *Custodian) CreateWallet(ctx context.Context, chain models.ChainID) (*models.WalletRecord, error) {
	network := c.networks[chain]
	if network == "" {
		return nil, apperr.NotAvailable("custodial wallets are not configured for %s", chain)
	}

	portfolio, err := c.defaultPortfolio(ctx)
	if err != nil {
		return nil, apperr.Unavailable(err, "custody portfolio lookup failed")
	}

	symbol := string(chain)
	wallets, err := c.api.ListWallets(ctx, portfolio.Id, walletType, []string{symbol})
	if err != nil {
		return nil, apperr.Unavailable(err, "custody wallet lookup failed")
	}
	var walletId string
	for _, w := range wallets {
		if strings.EqualFold(w.Symbol, symbol) {
			walletId = w.Id
			break
		}
	}
	if walletId == "" {
		return nil, apperr.NotAvailable("no custodial %s wallet in portfolio", chain)
	}

	deposit, err := c.api.CreateDepositAddress(ctx, portfolio.Id, walletId, symbol, network)
	if err != nil {
		return nil, apperr.Unavailable(err, "custody address creation failed")
	}

	c.logger.Info("Custodial address created",
		zap.String("chain", symbol),
		zap.String("wallet_id", walletId),
		zap.String("address", deposit.Address))

	return &models.WalletRecord{
		Address:        deposit.Address,
		SecretMaterial: deposit.Id,
		Chain:          chain,
		Kind:           models.WalletCustodial,
	}, nil
}

// defaultPortfolio resolves the portfolio once and caches it.
func (c *Custodian) defaultPortfolio(ctx context.Context) (*models.Portfolio, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.portfolio != nil {
		return c.portfolio, nil
	}
	p, err := c.api.FindDefaultPortfolio(ctx)
	if err != nil {
		return nil, err
	}
	c.logger.Info("Using default portfolio",
		zap.String("name", p.Name),
		zap.String("id", p.Id))
	c.portfolio = p
	return p, nil
}
