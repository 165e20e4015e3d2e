package custody

import (
	"context"
	"errors"
	"testing"

	"multichain-wallet-gateway-go/internal/apperr"
	"multichain-wallet-gateway-go/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeCustody struct {
	portfolioCalls int
	portfolioErr   error
	wallets        []models.Wallet
	depositErr     error
	lastNetwork    string
}

func (f *fakeCustody) FindDefaultPortfolio(context.Context) (*models.Portfolio, error) {
	f.portfolioCalls++
	if f.portfolioErr != nil {
		return nil, f.portfolioErr
	}
	return &models.Portfolio{Id: "pf-1", Name: defaultPortfolioName}, nil
}

func (f *fakeCustody) ListWallets(_ context.Context, portfolioId, walletType string, symbols []string) ([]models.Wallet, error) {
	return f.wallets, nil
}

func (f *fakeCustody) CreateDepositAddress(_ context.Context, portfolioId, walletId, asset, network string) (*models.DepositAddress, error) {
	if f.depositErr != nil {
		return nil, f.depositErr
	}
	f.lastNetwork = network
	return &models.DepositAddress{Id: "acct-" + walletId, Address: "bc1qcustody", Network: network, Asset: asset}, nil
}

var testNetworks = map[models.ChainID]string{
	models.ChainBTC: "bitcoin-mainnet",
	models.ChainETH: "ethereum-mainnet",
}

func TestCreateWallet(t *testing.T) {
	api := &fakeCustody{wallets: []models.Wallet{{Id: "w-eth", Symbol: "ETH"}, {Id: "w-btc", Symbol: "btc"}}}
	c := NewCustodian(api, testNetworks, zap.NewNop())

	rec, err := c.CreateWallet(context.Background(), models.ChainBTC)
	require.NoError(t, err)
	assert.Equal(t, "bc1qcustody", rec.Address)
	assert.Equal(t, "acct-w-btc", rec.SecretMaterial)
	assert.Equal(t, models.WalletCustodial, rec.Kind)
	assert.Equal(t, "bitcoin-mainnet", api.lastNetwork)

	_, err = c.CreateWallet(context.Background(), models.ChainBTC)
	require.NoError(t, err)
	assert.Equal(t, 1, api.portfolioCalls, "portfolio is resolved once")
}

func TestCreateWalletErrors(t *testing.T) {
	c := NewCustodian(&fakeCustody{}, testNetworks, zap.NewNop())
	_, err := c.CreateWallet(context.Background(), models.ChainDOGE)
	assert.Equal(t, apperr.KindNotAvailable, apperr.KindOf(err), "no network configured")

	_, err = c.CreateWallet(context.Background(), models.ChainETH)
	assert.Equal(t, apperr.KindNotAvailable, apperr.KindOf(err), "no wallet for symbol")

	c = NewCustodian(&fakeCustody{portfolioErr: errors.New("401")}, testNetworks, zap.NewNop())
	_, err = c.CreateWallet(context.Background(), models.ChainETH)
	assert.Equal(t, apperr.KindUpstreamUnavailable, apperr.KindOf(err))

	api := &fakeCustody{wallets: []models.Wallet{{Id: "w-eth", Symbol: "ETH"}}, depositErr: errors.New("timeout")}
	c = NewCustodian(api, testNetworks, zap.NewNop())
	_, err = c.CreateWallet(context.Background(), models.ChainETH)
	assert.Equal(t, apperr.KindUpstreamUnavailable, apperr.KindOf(err))
}
