package ethereum

import (
	"context"
	"errors"
	"math/big"
	"strings"
	"testing"

	"multichain-wallet-gateway-go/internal/apperr"
	"multichain-wallet-gateway-go/internal/models"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	testMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"
	testAddress  = "0x9858EfFD232B4033E47d90003D41EC34EcaEda94"
	testDest     = "0x000000000000000000000000000000000000dEaD"
)

type rpcError struct{ code int }

func (e rpcError) Error() string  { return "insufficient funds for gas * price + value" }
func (e rpcError) ErrorCode() int { return e.code }

type fakeNode struct {
	balance  *big.Int
	nonce    uint64
	gasPrice *big.Int
	err      error
	sendErr  error
	onSend   func()
	sent     *types.Transaction
}

func (f *fakeNode) BalanceAt(context.Context, common.Address, *big.Int) (*big.Int, error) {
	return f.balance, f.err
}

func (f *fakeNode) NonceAt(context.Context, common.Address, *big.Int) (uint64, error) {
	return f.nonce, f.err
}

func (f *fakeNode) PendingNonceAt(context.Context, common.Address) (uint64, error) {
	return f.nonce, f.err
}

func (f *fakeNode) SuggestGasPrice(context.Context) (*big.Int, error) {
	return f.gasPrice, f.err
}

func (f *fakeNode) SendTransaction(_ context.Context, tx *types.Transaction) error {
	f.sent = tx
	if f.onSend != nil {
		f.onSend()
	}
	return f.sendErr
}

func TestRecoverWalletVector(t *testing.T) {
	a := NewAdapter(&fakeNode{}, 1, zap.NewNop())

	rec, err := a.RecoverWallet(context.Background(), testMnemonic)
	require.NoError(t, err)
	assert.Equal(t, testAddress, rec.Address)
	assert.Equal(t, models.ChainETH, rec.Chain)
}

func TestRecoverWalletFromHexKey(t *testing.T) {
	key, err := deriveKey(testMnemonic)
	require.NoError(t, err)
	hexKey := common.Bytes2Hex(crypto.FromECDSA(key))

	a := NewAdapter(&fakeNode{}, 1, zap.NewNop())
	for _, secret := range []string{hexKey, "0x" + hexKey} {
		rec, err := a.RecoverWallet(context.Background(), secret)
		require.NoError(t, err)
		assert.Equal(t, testAddress, rec.Address)
	}

	_, err = a.RecoverWallet(context.Background(), "0xnothex")
	assert.Equal(t, apperr.KindInvalidRequest, apperr.KindOf(err))
	assert.NotContains(t, err.Error(), "nothex")
}

func TestCreateWallet(t *testing.T) {
	a := NewAdapter(&fakeNode{}, 1, zap.NewNop())

	rec, err := a.CreateWallet(context.Background())
	require.NoError(t, err)
	assert.True(t, common.IsHexAddress(rec.Address))
	assert.Len(t, strings.Fields(rec.SecretMaterial), 12)

	again, err := a.RecoverWallet(context.Background(), rec.SecretMaterial)
	require.NoError(t, err)
	assert.Equal(t, rec.Address, again.Address)
}

func TestAccount(t *testing.T) {
	wei, _ := new(big.Int).SetString("2500000000000000000", 10)
	a := NewAdapter(&fakeNode{balance: wei, nonce: 42}, 1, zap.NewNop())

	state, err := a.Account(context.Background(), testAddress)
	require.NoError(t, err)
	assert.Equal(t, "2.5", state.Balance.String())
	assert.Equal(t, uint64(42), state.TransactionCount)

	_, err = a.Balance(context.Background(), "not-an-address")
	assert.Equal(t, apperr.KindInvalidRequest, apperr.KindOf(err))
}

func TestAccountNodeDown(t *testing.T) {
	a := NewAdapter(&fakeNode{err: errors.New("dial tcp: connection refused")}, 1, zap.NewNop())

	_, err := a.Balance(context.Background(), testAddress)
	assert.Equal(t, apperr.KindUpstreamUnavailable, apperr.KindOf(err))
}

func transfer(amount string) models.TransferRequest {
	return models.TransferRequest{
		Chain:          models.ChainETH,
		FromAddress:    strings.ToLower(testAddress),
		ToAddress:      testDest,
		Amount:         decimal.RequireFromString(amount),
		SecretMaterial: testMnemonic,
	}
}

func TestSendSignsEIP155Transfer(t *testing.T) {
	node := &fakeNode{nonce: 5, gasPrice: big.NewInt(30_000_000_000)}
	a := NewAdapter(node, 11155111, zap.NewNop())

	res, err := a.Send(context.Background(), transfer("0.25"))
	require.NoError(t, err)
	assert.Equal(t, models.TransferBroadcast, res.Status)

	require.NotNil(t, node.sent)
	assert.Equal(t, node.sent.Hash().Hex(), res.TransactionId)
	assert.Equal(t, uint64(5), node.sent.Nonce())
	assert.Equal(t, uint64(21000), node.sent.Gas())
	assert.Equal(t, "250000000000000000", node.sent.Value().String())
	assert.Equal(t, common.HexToAddress(testDest), *node.sent.To())

	sender, err := types.Sender(types.NewEIP155Signer(big.NewInt(11155111)), node.sent)
	require.NoError(t, err)
	assert.Equal(t, common.HexToAddress(testAddress), sender)
}

func TestSendValidation(t *testing.T) {
	node := &fakeNode{gasPrice: big.NewInt(1)}
	a := NewAdapter(node, 1, zap.NewNop())

	wrongFrom := transfer("1")
	wrongFrom.FromAddress = testDest
	_, err := a.Send(context.Background(), wrongFrom)
	assert.Equal(t, apperr.KindInvalidRequest, apperr.KindOf(err))

	badTo := transfer("1")
	badTo.ToAddress = "0x1234"
	_, err = a.Send(context.Background(), badTo)
	assert.Equal(t, apperr.KindInvalidRequest, apperr.KindOf(err))

	_, err = a.Send(context.Background(), transfer("0.0000000000000000001"))
	assert.Equal(t, apperr.KindInvalidRequest, apperr.KindOf(err), "fractional wei")

	_, err = a.Send(context.Background(), transfer("-1"))
	assert.Equal(t, apperr.KindInvalidRequest, apperr.KindOf(err))

	assert.Nil(t, node.sent)
}

func TestSendRejectedByNode(t *testing.T) {
	node := &fakeNode{gasPrice: big.NewInt(1), sendErr: rpcError{code: -32000}}
	a := NewAdapter(node, 1, zap.NewNop())

	res, err := a.Send(context.Background(), transfer("1"))
	require.Error(t, err)
	assert.Equal(t, apperr.KindUpstreamRejected, apperr.KindOf(err))
	assert.Contains(t, err.Error(), "insufficient funds")
	assert.Equal(t, models.TransferFailed, res.Status)
}

func TestSendTransportFailure(t *testing.T) {
	node := &fakeNode{gasPrice: big.NewInt(1), sendErr: errors.New("EOF")}
	a := NewAdapter(node, 1, zap.NewNop())

	_, err := a.Send(context.Background(), transfer("1"))
	assert.Equal(t, apperr.KindUpstreamUnavailable, apperr.KindOf(err))
}

func TestSendCancelledDuringBroadcast(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	node := &fakeNode{gasPrice: big.NewInt(1), sendErr: context.Canceled, onSend: cancel}
	a := NewAdapter(node, 1, zap.NewNop())

	res, err := a.Send(ctx, transfer("1"))
	assert.Equal(t, apperr.KindOutcomeUnknown, apperr.KindOf(err))
	require.NotNil(t, res)
	assert.Equal(t, models.TransferUnknown, res.Status)
	assert.Equal(t, node.sent.Hash().Hex(), res.TransactionId)
}
