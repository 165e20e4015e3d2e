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

package models

import (
	"github.com/shopspring/decimal"
)

// CreateWalletRequest is the body of POST /create_wallet
type CreateWalletRequest struct {
	Blockchain string `json:"blockchain" validate:"required"`
	WalletType string `json:"wallet_type"`
}

// CreateWalletResponse returns the new address and its secret material
type CreateWalletResponse struct {
	Address    string `json:"address"`
	Mnemonic   string `json:"mnemonic"`
	WalletType string `json:"wallet_type"`
}

// RecoverWalletRequest is the body of POST /recover_wallet
type RecoverWalletRequest struct {
	Blockchain string `json:"blockchain" validate:"required"`
	Mnemonic   string `json:"mnemonic" validate:"required"`
}

// RecoverWalletResponse carries the derived address and, when reachable, its on-chain state
type RecoverWalletResponse struct {
	Address          string           `json:"address"`
	Mnemonic         string           `json:"mnemonic"`
	Balance          *decimal.Decimal `json:"balance,omitempty"`
	TransactionCount *uint64          `json:"transaction_count,omitempty"`
	Status           string           `json:"status"`
}

// SendRequest is the body of POST /wallet/send
type SendRequest struct {
	Blockchain  string          `json:"blockchain" validate:"required"`
	FromAddress string          `json:"from_address" validate:"required"`
	ToAddress   string          `json:"to_address" validate:"required"`
	Amount      decimal.Decimal `json:"amount"`
	PrivateKey  string          `json:"private_key" validate:"required"`
}

// SendResponse reports the broadcast outcome
type SendResponse struct {
	TxId   string `json:"txid"`
	Status string `json:"status"`
}

// ImportAndBalanceRequest is the body of POST /wallet/import-and-balance
type ImportAndBalanceRequest struct {
	Blockchain string `json:"blockchain" validate:"required"`
	Mnemonic   string `json:"mnemonic" validate:"required"`
}

// ImportAndBalanceResponse has a null balance when the balance source is unreachable
type ImportAndBalanceResponse struct {
	Address  string           `json:"address"`
	Balance  *decimal.Decimal `json:"balance"`
	Mnemonic string           `json:"mnemonic"`
}

// PaymentRequest is the body of POST /payment/process
type PaymentRequest struct {
	Amount         decimal.Decimal `json:"amount"`
	Currency       string          `json:"currency" validate:"required"`
	CustomerEmail  string          `json:"customer_email" validate:"required,email"`
	Metadata       map[string]any  `json:"metadata"`
	PaymentMethod  string          `json:"payment_method" validate:"required,oneof=crypto atm"`
	CryptoCurrency string          `json:"crypto_currency"`
	FiatCurrency   string          `json:"fiat_currency"`
}

// PaymentResponse is the normalized payment session
type PaymentResponse struct {
	PaymentAddress string `json:"payment_address"`
	Amount         string `json:"amount"`
	StatusURL      string `json:"status_url"`
	CheckoutURL    string `json:"checkout_url,omitempty"`
	TransactionId  string `json:"transaction_id"`
	PaymentMethod  string `json:"payment_method"`
	CryptoCurrency string `json:"crypto_currency,omitempty"`
	FiatCurrency   string `json:"fiat_currency,omitempty"`
	PaymentCode    string `json:"payment_code,omitempty"`
	PaymentURI     string `json:"payment_uri,omitempty"`
}

// CardResponse is returned by GET /card/generate
type CardResponse struct {
	CardNumber    string `json:"card_number"`
	Bin           string `json:"bin"`
	SmartContract string `json:"smart_contract"`
	Half          string `json:"half"`
}

// RichListResponse is returned by GET /blockchain/richlist
type RichListResponse struct {
	Blockchain string          `json:"blockchain"`
	Richlist   []RichListEntry `json:"richlist"`
	Available  bool            `json:"available"`
	Note       string          `json:"note,omitempty"`
}

// BalanceResponse is returned by GET /wallet/balance/{address}/{currency}
type BalanceResponse struct {
	Address  string           `json:"address"`
	Balance  *decimal.Decimal `json:"balance"`
	Currency string           `json:"currency"`
}

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

// HealthResponse is returned by GET /health
type HealthResponse struct {
	Status string `json:"status"`
}
