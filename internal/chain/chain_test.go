package chain

import (
	"context"
	"errors"
	"testing"

	"multichain-wallet-gateway-go/internal/apperr"
	"multichain-wallet-gateway-go/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAdapter struct{ id models.ChainID }

func (s stubAdapter) ID() models.ChainID { return s.id }
func (s stubAdapter) CreateWallet(context.Context) (*models.WalletRecord, error) {
	return &models.WalletRecord{Chain: s.id}, nil
}
func (s stubAdapter) RecoverWallet(context.Context, string) (*models.WalletRecord, error) {
	return &models.WalletRecord{Chain: s.id}, nil
}
func (s stubAdapter) Balance(context.Context, string) (decimal.Decimal, error) {
	return decimal.Zero, nil
}
func (s stubAdapter) Account(context.Context, string) (*models.AccountState, error) {
	return &models.AccountState{}, nil
}
func (s stubAdapter) Send(context.Context, models.TransferRequest) (*models.TransferResult, error) {
	return &models.TransferResult{}, nil
}

func TestParseID(t *testing.T) {
	for _, in := range []string{"btc", "BTC", " Eth ", "ltc", "Doge"} {
		_, err := ParseID(in)
		assert.NoError(t, err, in)
	}

	_, err := ParseID("xrp")
	require.Error(t, err)
	assert.Equal(t, apperr.KindUnsupportedChain, apperr.KindOf(err))

	_, err = ParseID("")
	assert.Equal(t, apperr.KindUnsupportedChain, apperr.KindOf(err))
}

func TestRegistry(t *testing.T) {
	r := NewRegistry(stubAdapter{models.ChainETH}, stubAdapter{models.ChainBTC})

	a, err := r.Resolve("eth")
	require.NoError(t, err)
	assert.Equal(t, models.ChainETH, a.ID())

	_, err = r.Resolve("doge")
	assert.Equal(t, apperr.KindUnsupportedChain, apperr.KindOf(err), "known but disabled chain")

	_, err = r.Resolve("xrp")
	assert.Equal(t, apperr.KindUnsupportedChain, apperr.KindOf(err))

	assert.Equal(t, []models.ChainID{models.ChainBTC, models.ChainETH}, r.List())
}

func TestUnitConversion(t *testing.T) {
	sats, err := ToBaseUnits(models.ChainBTC, decimal.RequireFromString("0.00012345"))
	require.NoError(t, err)
	assert.Equal(t, "12345", sats.String())

	wei, err := ToBaseUnits(models.ChainETH, decimal.RequireFromString("1.5"))
	require.NoError(t, err)
	assert.Equal(t, "1500000000000000000", wei.String())

	_, err = ToBaseUnits(models.ChainBTC, decimal.RequireFromString("0.000000001"))
	assert.Equal(t, apperr.KindInvalidRequest, apperr.KindOf(err))

	assert.True(t, FromBaseUnits(models.ChainBTC, decimal.NewFromInt(150_000_000)).Equal(decimal.RequireFromString("1.5")))
	assert.True(t, FromBaseUnits(models.ChainDOGE, decimal.NewFromInt(1)).Equal(decimal.RequireFromString("0.00000001")))
}

func TestValidateTransfer(t *testing.T) {
	ok := models.TransferRequest{Chain: models.ChainBTC, ToAddress: "addr", Amount: decimal.NewFromInt(1), SecretMaterial: "secret"}
	assert.NoError(t, ValidateTransfer(ok))

	zero := ok
	zero.Amount = decimal.Zero
	assert.Equal(t, apperr.KindInvalidRequest, apperr.KindOf(ValidateTransfer(zero)))

	neg := ok
	neg.Amount = decimal.NewFromInt(-1)
	assert.Equal(t, apperr.KindInvalidRequest, apperr.KindOf(ValidateTransfer(neg)))

	noDest := ok
	noDest.ToAddress = " "
	assert.Equal(t, apperr.KindInvalidRequest, apperr.KindOf(ValidateTransfer(noDest)))

	noKey := ok
	noKey.SecretMaterial = ""
	err := ValidateTransfer(noKey)
	assert.Equal(t, apperr.KindInvalidRequest, apperr.KindOf(err))
}

func TestBroadcastFailure(t *testing.T) {
	cause := errors.New("insufficient funds for gas")

	err := BroadcastFailure(context.Background(), cause, "node rejected transaction")
	assert.Equal(t, apperr.KindUpstreamRejected, apperr.KindOf(err))

	unavailable := apperr.Unavailable(cause, "node unreachable")
	assert.Equal(t, apperr.KindUpstreamUnavailable, apperr.KindOf(BroadcastFailure(context.Background(), unavailable, "x")))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = BroadcastFailure(ctx, cause, "node rejected transaction")
	assert.Equal(t, apperr.KindOutcomeUnknown, apperr.KindOf(err))
}
