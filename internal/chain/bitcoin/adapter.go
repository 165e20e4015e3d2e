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

package bitcoin

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"multichain-wallet-gateway-go/internal/apperr"
	"multichain-wallet-gateway-go/internal/chain"
	"multichain-wallet-gateway-go/internal/explorer"
	"multichain-wallet-gateway-go/internal/models"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Compile-time check: *Adapter must satisfy chain.Adapter.
var _ chain.Adapter = (*Adapter)(nil)

// AccountSource returns the balance in base units and the transaction count of an address.
type AccountSource func(ctx context.Context, address string) (int64, uint64, error)

// UTXOClient is the explorer surface needed to spend. *explorer.Esplora satisfies it.
type UTXOClient interface {
	UTXOs(ctx context.Context, address string) ([]explorer.UTXO, error)
	FeeEstimates(ctx context.Context) (map[string]float64, error)
	Broadcast(ctx context.Context, rawTxHex string) (string, error)
}

// Config wires an Adapter to its collaborators. A nil Spender disables Send.
type Config struct {
	Chain          models.ChainID
	Network        string
	Accounts       AccountSource
	Spender        UTXOClient
	DefaultFeeRate int64
}

// Adapter serves BTC, LTC and DOGE with BIP-39 mnemonics and BIP-32 derivation.
type Adapter struct {
	id             models.ChainID
	net            *network
	accounts       AccountSource
	spender        UTXOClient
	defaultFeeRate int64
	logger         *zap.Logger
}

func NewAdapter(cfg Config, logger *zap.Logger) (*Adapter, error) {
	net, err := networkFor(cfg.Chain, cfg.Network)
	if err != nil {
		return nil, err
	}
	if cfg.Accounts == nil {
		return nil, fmt.Errorf("%s adapter requires an account source", cfg.Chain)
	}
	if cfg.DefaultFeeRate <= 0 {
		cfg.DefaultFeeRate = 10
	}
	return &Adapter{
		id:             cfg.Chain,
		net:            net,
		accounts:       cfg.Accounts,
		spender:        cfg.Spender,
		defaultFeeRate: cfg.DefaultFeeRate,
		logger:         logger.With(zap.String("chain", string(cfg.Chain))),
	}, nil
}

// FromBlockchainInfo adapts the blockchain.info address endpoint.
func FromBlockchainInfo(c *explorer.BlockchainInfo) AccountSource {
	return func(ctx context.Context, address string) (int64, uint64, error) {
		s, err := c.Address(ctx, address)
		if err != nil {
			return 0, 0, err
		}
		return s.FinalBalance, s.NTx, nil
	}
}

// FromBlockCypher adapts the BlockCypher balance endpoint for coin on network.
func FromBlockCypher(c *explorer.BlockCypher, coin, network string) AccountSource {
	return func(ctx context.Context, address string) (int64, uint64, error) {
		b, err := c.Balance(ctx, coin, network, address)
		if err != nil {
			return 0, 0, err
		}
		return b.FinalBalance, b.FinalNTx, nil
	}
}

func (a *Adapter) ID() models.ChainID { return a.id }

func (a *Adapter) CreateWallet(_ context.Context) (*models.WalletRecord, error) {
	mnemonic, err := newMnemonic()
	if err != nil {
		return nil, apperr.Wrap(apperr.KindDerivation, err, "failed to generate mnemonic")
	}
	key, err := a.net.deriveKey(mnemonic)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindDerivation, err, "failed to derive key")
	}
	addr, err := a.net.address(key)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindDerivation, err, "failed to encode address")
	}

	return &models.WalletRecord{
		Address:        addr.EncodeAddress(),
		SecretMaterial: mnemonic,
		Chain:          a.id,
		Kind:           models.WalletStandard,
	}, nil
}

func (a *Adapter) RecoverWallet(_ context.Context, secret string) (*models.WalletRecord, error) {
	key, err := a.net.keyFromSecret(secret)
	if err != nil {
		return nil, apperr.Invalid("%v", err)
	}
	addr, err := a.net.address(key)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindDerivation, err, "failed to encode address")
	}
	return &models.WalletRecord{
		Address:        addr.EncodeAddress(),
		SecretMaterial: secret,
		Chain:          a.id,
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
	if strings.TrimSpace(address) == "" {
		return nil, apperr.Invalid("address is required")
	}
	sats, nTx, err := a.accounts(ctx, address)
	if err != nil {
		return nil, err
	}
	return &models.AccountState{
		Balance:          chain.FromBaseUnits(a.id, decimal.NewFromInt(sats)),
		TransactionCount: nTx,
	}, nil
}

func (a *Adapter) Send(ctx context.Context, req models.TransferRequest) (*models.TransferResult, error) {
	if err := chain.ValidateTransfer(req); err != nil {
		return nil, err
	}
	if a.spender == nil {
		return nil, apperr.NotAvailable("sending %s is not available", a.id)
	}

	key, err := a.net.keyFromSecret(req.SecretMaterial)
	if err != nil {
		return nil, apperr.Invalid("private_key: %v", err)
	}
	from, err := a.net.address(key)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindDerivation, err, "failed to encode address")
	}
	if from.EncodeAddress() != req.FromAddress {
		return nil, apperr.Invalid("private_key does not control from_address %s", req.FromAddress)
	}

	dest, err := btcutil.DecodeAddress(req.ToAddress, a.net.params)
	if err != nil || !dest.IsForNet(a.net.params) {
		return nil, apperr.Invalid("invalid %s destination address %s", a.id, req.ToAddress)
	}

	amount, err := chain.ToBaseUnits(a.id, req.Amount)
	if err != nil {
		return nil, err
	}
	if amount.IntPart() < dustLimit {
		return nil, apperr.Invalid("amount is below the dust limit of %d base units", dustLimit)
	}

	utxos, err := a.spender.UTXOs(ctx, req.FromAddress)
	if err != nil {
		return nil, err
	}

	feeRate := a.defaultFeeRate
	if estimates, err := a.spender.FeeEstimates(ctx); err != nil {
		a.logger.Warn("Fee estimates unavailable, using default rate",
			zap.Int64("fee_rate", feeRate), zap.Error(err))
	} else {
		feeRate = feeRateFromEstimates(estimates, a.defaultFeeRate)
	}

	sp, err := buildSpend(a.net, key, from, dest, utxos, amount.IntPart(), feeRate)
	if errors.Is(err, errInsufficientFunds) {
		return nil, apperr.Rejected(err, "cannot fund transfer")
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, err, "failed to build transaction")
	}

	raw, err := sp.hex()
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, err, "failed to encode transaction")
	}

	a.logger.Info("Broadcasting transaction",
		zap.String("from", req.FromAddress),
		zap.String("to", req.ToAddress),
		zap.String("amount", req.Amount.String()),
		zap.Int64("fee_sats", sp.fee),
		zap.Int64("fee_rate", feeRate),
		zap.String("txid", sp.txid()))

	txid, err := a.spender.Broadcast(ctx, raw)
	if err != nil {
		failure := chain.BroadcastFailure(ctx, err, "transaction rejected")
		status := models.TransferFailed
		if apperr.HasKind(failure, apperr.KindOutcomeUnknown) {
			status = models.TransferUnknown
		}
		return &models.TransferResult{TransactionId: sp.txid(), Status: status}, failure
	}
	if txid == "" {
		txid = sp.txid()
	}

	return &models.TransferResult{TransactionId: txid, Status: models.TransferBroadcast}, nil
}
