package chain

import (
	"context"
	"strings"

	"multichain-wallet-gateway-go/internal/apperr"
	"multichain-wallet-gateway-go/internal/models"

	"github.com/shopspring/decimal"
)

// Adapter wraps one blockchain's wallet and node libraries behind a uniform capability set.
type Adapter interface {
	// ID returns the chain this adapter serves
	ID() models.ChainID

	// CreateWallet generates fresh key material and its receive address
	CreateWallet(ctx context.Context) (*models.WalletRecord, error)

	// RecoverWallet derives the address controlled by secret without touching any ledger
	RecoverWallet(ctx context.Context, secret string) (*models.WalletRecord, error)

	// Balance returns the confirmed balance of address in chain-native units
	Balance(ctx context.Context, address string) (decimal.Decimal, error)

	// Account returns balance and transaction count for address
	Account(ctx context.Context, address string) (*models.AccountState, error)

	// Send signs and broadcasts a native transfer. It never retries.
	Send(ctx context.Context, req models.TransferRequest) (*models.TransferResult, error)
}

var supported = map[string]models.ChainID{
	"BTC":  models.ChainBTC,
	"ETH":  models.ChainETH,
	"LTC":  models.ChainLTC,
	"DOGE": models.ChainDOGE,
}

// ParseID resolves a case-insensitive chain tag, failing with an unsupported_chain error.
func ParseID(s string) (models.ChainID, error) {
	if id, ok := supported[strings.ToUpper(strings.TrimSpace(s))]; ok {
		return id, nil
	}
	return "", apperr.UnsupportedChain(s)
}

// precision is the number of decimal places between the native unit and the base unit.
var precision = map[models.ChainID]int32{
	models.ChainBTC:  8,
	models.ChainETH:  18,
	models.ChainLTC:  8,
	models.ChainDOGE: 8,
}

func Precision(id models.ChainID) int32 {
	if p, ok := precision[id]; ok {
		return p
	}
	return 8
}

// FromBaseUnits converts satoshi/wei style integers into native units.
func FromBaseUnits(id models.ChainID, v decimal.Decimal) decimal.Decimal {
	return v.Shift(-Precision(id))
}

// ToBaseUnits converts a native amount into base units, rejecting fractions of a base unit.
func ToBaseUnits(id models.ChainID, amount decimal.Decimal) (decimal.Decimal, error) {
	base := amount.Shift(Precision(id))
	if !base.Equal(base.Truncate(0)) {
		return decimal.Zero, apperr.Invalid("amount %s has more than %d decimal places", amount.String(), Precision(id))
	}
	return base, nil
}

// ValidateTransfer applies the chain-agnostic checks every Send performs before any network call.
func ValidateTransfer(req models.TransferRequest) error {
	if !req.Amount.IsPositive() {
		return apperr.Invalid("amount must be positive")
	}
	if strings.TrimSpace(req.ToAddress) == "" {
		return apperr.Invalid("to_address is required")
	}
	if strings.TrimSpace(req.SecretMaterial) == "" {
		return apperr.Invalid("private_key is required")
	}
	return nil
}

// BroadcastFailure classifies an error from a broadcast call. A done context
// means the node may have accepted the transaction, so the outcome is unknown.
func BroadcastFailure(ctx context.Context, err error, rejectedMsg string) error {
	if ctx.Err() != nil {
		return apperr.Wrap(apperr.KindOutcomeUnknown, err, "broadcast interrupted; transaction may or may not have been accepted")
	}
	if apperr.KindOf(err) != apperr.KindInternal {
		return err
	}
	return apperr.Rejected(err, rejectedMsg)
}
