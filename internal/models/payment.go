package models

import "github.com/shopspring/decimal"

// PaymentMethod selects how the customer pays
type PaymentMethod string

const (
	PaymentCrypto PaymentMethod = "crypto"
	PaymentATM    PaymentMethod = "atm"
)

// SessionRequest is a request to open a payment session with the gateway
type SessionRequest struct {
	Amount             decimal.Decimal
	SettlementCurrency string
	CustomerEmail      string
	Method             PaymentMethod
	CryptoCurrency     string
	FiatCurrency       string
	Metadata           map[string]string
}

// PaymentSession is the normalized, immutable result of a gateway transaction
type PaymentSession struct {
	SessionId          string
	PayToAddress       string
	RequestedAmount    string
	SettlementCurrency string
	StatusURL          string
	CheckoutURL        string
	Method             PaymentMethod
	CryptoCurrency     string
	FiatCurrency       string
	PaymentCode        *PaymentCode
}

// PaymentCode is a scannable payment URI persisted by session id
type PaymentCode struct {
	URI string
	PNG []byte
}

// GatewayTransaction is what a payment gateway returns on transaction creation
type GatewayTransaction struct {
	TransactionId  string
	Address        string
	Amount         string
	StatusURL      string
	CheckoutURL    string
	QRCodeURL      string
	ConfirmsNeeded string
	TimeoutSeconds int
}
