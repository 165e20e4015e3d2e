package models

import "github.com/shopspring/decimal"

// ChainID identifies a supported blockchain
type ChainID string

const (
	ChainBTC  ChainID = "BTC"
	ChainETH  ChainID = "ETH"
	ChainLTC  ChainID = "LTC"
	ChainDOGE ChainID = "DOGE"
)

// WalletKind distinguishes self-managed wallets from custodial ones
type WalletKind string

const (
	WalletStandard  WalletKind = "standard"
	WalletCustodial WalletKind = "custodial"
)

// WalletRecord is the result of creating or recovering a wallet. It is never persisted.
type WalletRecord struct {
	Address        string
	SecretMaterial string // mnemonic, WIF/hex key, or custody account identifier
	Chain          ChainID
	Kind           WalletKind
}

// AccountState is the on-chain state of an address
type AccountState struct {
	Balance          decimal.Decimal
	TransactionCount uint64
}

// RecoveredWallet is a derived wallet optionally enriched with its on-chain state
type RecoveredWallet struct {
	WalletRecord
	State *AccountState
}

// ImportedWallet is a derived wallet with its balance, which is nil when the source is unreachable
type ImportedWallet struct {
	WalletRecord
	Balance *decimal.Decimal
}

// TransferStatus reports what is known about a broadcast
type TransferStatus string

const (
	TransferBroadcast TransferStatus = "broadcast"
	TransferFailed    TransferStatus = "failed"
	TransferUnknown   TransferStatus = "unknown"
)

// TransferRequest describes a native-coin transfer
type TransferRequest struct {
	Chain          ChainID
	FromAddress    string
	ToAddress      string
	Amount         decimal.Decimal // chain-native unit
	SecretMaterial string
}

// TransferResult is what the adapter reports after a broadcast attempt
type TransferResult struct {
	TransactionId string
	Status        TransferStatus
}
