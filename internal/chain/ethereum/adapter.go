/**
 * Copyright 2025-present Coinbase Global, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package ethereum

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"multichain-wallet-gateway-go/internal/apperr"
	"multichain-wallet-gateway-go/internal/chain"
	"multichain-wallet-gateway-go/internal/models"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Compile-time check: *Adapter must satisfy chain.Adapter.
var _ chain.Adapter = (*Adapter)(nil)

const transferGasLimit = 21000

// Node is the JSON-RPC surface the adapter uses. *ethclient.Client satisfies it.
type Node interface {
	BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error)
	NonceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (uint64, error)
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) error
}

type Adapter struct {
	node    Node
	chainID *big.Int
	closer  func()
	logger  *zap.Logger
}

func NewAdapter(node Node, chainID int64, logger *zap.Logger) *Adapter {
	return &Adapter{
		node:    node,
		chainID: big.NewInt(chainID),
		closer:  func() {},
		logger:  logger.With(zap.String("chain", string(models.ChainETH))),
	}
}

// Dial connects to an Ethereum JSON-RPC endpoint. Call Close on shutdown.
func Dial(ctx context.Context, rpcURL string, chainID int64, logger *zap.Logger) (*Adapter, error) {
	client, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to ethereum node: %w", err)
	}
	a := NewAdapter(client, chainID, logger)
	a.closer = client.Close
	return a, nil
}

func (a *Adapter) Close() { a.closer() }

func (a *Adapter) ID() models.ChainID { return models.ChainETH }

func (a *Adapter) CreateWallet(_ context.Context) (*models.WalletRecord, error) {
	mnemonic, err := newMnemonic()
	if err != nil {
		return nil, apperr.Wrap(apperr.KindDerivation, err, "failed to generate mnemonic")
	}
	key, err := deriveKey(mnemonic)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindDerivation, err, "failed to derive key")
	}
	return &models.WalletRecord{
		Address:        addressOf(key).Hex(),
		SecretMaterial: mnemonic,
		Chain:          models.ChainETH,
		Kind:           models.WalletStandard,
	}, nil
}

func (a *Adapter) RecoverWallet(_ context.Context, secret string) (*models.WalletRecord, error) {
	key, err := keyFromSecret(secret)
	if err != nil {
		return nil, apperr.Invalid("%v", err)
	}
	return &models.WalletRecord{
		Address:        addressOf(key).Hex(),
		SecretMaterial: secret,
		Chain:          models.ChainETH,
		Kind:           models.WalletStandard,
	}, nil
}

func (a *Adapter) Balance(ctx context.Context, address string) (decimal.Decimal, error) {
	addr, err := parseAddress(address)
	if err != nil {
		return decimal.Zero, err
	}
	wei, err := a.node.BalanceAt(ctx, addr, nil)
	if err != nil {
		return decimal.Zero, nodeError(err, "balance lookup failed")
	}
	return chain.FromBaseUnits(models.ChainETH, decimal.NewFromBigInt(wei, 0)), nil
}

// Account reports the balance and the account nonce, which counts sent transactions.
func (a *Adapter) Account(ctx context.Context, address string) (*models.AccountState, error) {
	balance, err := a.Balance(ctx, address)
	if err != nil {
		return nil, err
	}
	nonce, err := a.node.NonceAt(ctx, common.HexToAddress(address), nil)
	if err != nil {
		return nil, nodeError(err, "nonce lookup failed")
	}
	return &models.AccountState{Balance: balance, TransactionCount: nonce}, nil
}

func (a *Adapter) Send(ctx context.Context, req models.TransferRequest) (*models.TransferResult, error) {
	if err := chain.ValidateTransfer(req); err != nil {
		return nil, err
	}

	key, err := keyFromSecret(req.SecretMaterial)
	if err != nil {
		return nil, apperr.Invalid("private_key: %v", err)
	}
	from, err := parseAddress(req.FromAddress)
	if err != nil {
		return nil, err
	}
	if addressOf(key) != from {
		return nil, apperr.Invalid("private_key does not control from_address %s", req.FromAddress)
	}
	to, err := parseAddress(req.ToAddress)
	if err != nil {
		return nil, err
	}

	wei, err := chain.ToBaseUnits(models.ChainETH, req.Amount)
	if err != nil {
		return nil, err
	}

	nonce, err := a.node.PendingNonceAt(ctx, from)
	if err != nil {
		return nil, nodeError(err, "failed to get nonce")
	}
	gasPrice, err := a.node.SuggestGasPrice(ctx)
	if err != nil {
		return nil, nodeError(err, "failed to get gas price")
	}

	tx := types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		To:       &to,
		Value:    wei.BigInt(),
		Gas:      transferGasLimit,
		GasPrice: gasPrice,
	})
	signed, err := types.SignTx(tx, types.NewEIP155Signer(a.chainID), key)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, err, "failed to sign transaction")
	}

	a.logger.Info("Broadcasting transaction",
		zap.String("from", from.Hex()),
		zap.String("to", to.Hex()),
		zap.String("amount", req.Amount.String()),
		zap.Uint64("nonce", nonce),
		zap.String("gas_price", gasPrice.String()),
		zap.String("tx_hash", signed.Hash().Hex()))

	if err := a.node.SendTransaction(ctx, signed); err != nil {
		failure := chain.BroadcastFailure(ctx, nodeError(err, "transaction rejected"), "transaction rejected")
		status := models.TransferFailed
		if apperr.HasKind(failure, apperr.KindOutcomeUnknown) {
			status = models.TransferUnknown
		}
		return &models.TransferResult{TransactionId: signed.Hash().Hex(), Status: status}, failure
	}

	return &models.TransferResult{TransactionId: signed.Hash().Hex(), Status: models.TransferBroadcast}, nil
}

func parseAddress(s string) (common.Address, error) {
	s = strings.TrimSpace(s)
	if !common.IsHexAddress(s) {
		return common.Address{}, apperr.Invalid("invalid ETH address %s", s)
	}
	return common.HexToAddress(s), nil
}

// nodeError separates JSON-RPC errors (the node answered and refused) from transport failures.
func nodeError(err error, msg string) error {
	var rpcErr rpc.Error
	if errors.As(err, &rpcErr) {
		return apperr.Rejected(err, msg)
	}
	return apperr.Unavailable(err, msg)
}
