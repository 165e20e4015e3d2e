package payment

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"multichain-wallet-gateway-go/internal/apperr"
	"multichain-wallet-gateway-go/internal/gateway/coinpayments"
	"multichain-wallet-gateway-go/internal/models"
	"multichain-wallet-gateway-go/internal/store"

	"github.com/google/uuid"
	"github.com/skip2/go-qrcode"
	"go.uber.org/zap"
)

const (
	DefaultCryptoCurrency = "BTC"
	DefaultFiatCurrency   = "USD"
	DefaultItemName       = "BHE Token Purchase"
	defaultATMLocation    = "nearest"
	qrSize                = 256
)

// Gateway creates transactions on a payment processor.
type Gateway interface {
	CreateTransaction(ctx context.Context, req coinpayments.TransactionRequest) (*models.GatewayTransaction, error)
}

// Manager opens payment sessions with the gateway and keeps their payment codes.
type Manager struct {
	gateway  Gateway
	codes    store.PaymentCodeStore
	baseURL  string
	itemName string
	now      func() time.Time
	logger   *zap.Logger
}

func NewManager(gateway Gateway, codes store.PaymentCodeStore, cfg models.PaymentConfig, logger *zap.Logger) *Manager {
	itemName := cfg.ItemName
	if itemName == "" {
		itemName = DefaultItemName
	}
	return &Manager{
		gateway:  gateway,
		codes:    codes,
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		itemName: itemName,
		now:      time.Now,
		logger:   logger,
	}
}

// CreateSession validates the request, opens a gateway transaction and, for
// crypto payments, stores a scannable payment code. Code generation failures
// are logged and the session is returned without one.
func (m *Manager) CreateSession(ctx context.Context, req models.SessionRequest) (*models.PaymentSession, error) {
	req, err := normalize(req)
	if err != nil {
		return nil, err
	}

	gwReq := coinpayments.TransactionRequest{
		Amount:     req.Amount,
		Currency1:  req.SettlementCurrency,
		Currency2:  req.CryptoCurrency,
		BuyerEmail: req.CustomerEmail,
		ItemName:   m.itemName,
		ItemNumber: m.idempotencyToken(),
		IPNURL:     m.baseURL + "/ipn",
		SuccessURL: m.baseURL + "/success",
		CancelURL:  m.baseURL + "/cancel",
	}
	if req.Method == models.PaymentATM {
		gwReq.Currency2 = DefaultCryptoCurrency
		location := req.Metadata["atm_location"]
		if location == "" {
			location = defaultATMLocation
		}
		gwReq.Extra = map[string]string{
			"payment_method": string(models.PaymentATM),
			"fiat_currency":  req.FiatCurrency,
			"atm_location":   location,
		}
	}

	m.logger.Info("Creating payment session",
		zap.String("method", string(req.Method)),
		zap.String("currency", req.SettlementCurrency),
		zap.String("amount", req.Amount.String()),
		zap.String("item_number", gwReq.ItemNumber))

	tx, err := m.gateway.CreateTransaction(ctx, gwReq)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindPaymentSession, err, "payment session failed")
	}

	session := &models.PaymentSession{
		SessionId:          tx.TransactionId,
		PayToAddress:       tx.Address,
		RequestedAmount:    tx.Amount,
		SettlementCurrency: req.SettlementCurrency,
		StatusURL:          tx.StatusURL,
		CheckoutURL:        tx.CheckoutURL,
		Method:             req.Method,
	}

	switch req.Method {
	case models.PaymentCrypto:
		session.CryptoCurrency = req.CryptoCurrency
		code, err := m.storeCode(ctx, tx.TransactionId, PaymentURI(req.CryptoCurrency, tx.Address, tx.Amount))
		if err != nil {
			m.logger.Warn("Failed to create payment code",
				zap.String("session_id", tx.TransactionId),
				zap.Error(err))
		} else {
			session.PaymentCode = code
		}
	case models.PaymentATM:
		session.FiatCurrency = req.FiatCurrency
	}

	m.logger.Info("Payment session created",
		zap.String("session_id", session.SessionId),
		zap.String("pay_to", session.PayToAddress))
	return session, nil
}

// PaymentCode returns the stored code for a session.
func (m *Manager) PaymentCode(ctx context.Context, sessionId string) (*models.PaymentCode, error) {
	code, err := m.codes.GetPaymentCode(ctx, sessionId)
	if errors.Is(err, store.ErrPaymentCodeNotFound) {
		return nil, apperr.New(apperr.KindNotFound, "no payment code for session %q", sessionId)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load payment code: %w", err)
	}
	return code, nil
}

func (m *Manager) storeCode(ctx context.Context, sessionId, uri string) (*models.PaymentCode, error) {
	png, err := qrcode.Encode(uri, qrcode.Medium, qrSize)
	if err != nil {
		return nil, fmt.Errorf("failed to encode QR code: %w", err)
	}
	code := &models.PaymentCode{URI: uri, PNG: png}
	if m.codes != nil {
		if err := m.codes.SavePaymentCode(ctx, sessionId, *code); err != nil {
			return nil, err
		}
	}
	return code, nil
}

// idempotencyToken is the first 16 hex chars of SHA-256 over the clock
// reading and a random nonce.
func (m *Manager) idempotencyToken() string {
	sum := sha256.Sum256([]byte(strconv.FormatInt(m.now().UnixNano(), 10) + uuid.NewString()))
	return hex.EncodeToString(sum[:])[:16]
}

// PaymentURI builds the wallet URI encoded in a payment code.
func PaymentURI(currency, address, amount string) string {
	return fmt.Sprintf("%s:%s?amount=%s", strings.ToLower(currency), address, amount)
}

func normalize(req models.SessionRequest) (models.SessionRequest, error) {
	if !req.Amount.IsPositive() {
		return req, apperr.Invalid("amount must be positive")
	}
	if strings.TrimSpace(req.CustomerEmail) == "" {
		return req, apperr.Invalid("customer email is required")
	}
	req.SettlementCurrency = strings.ToUpper(strings.TrimSpace(req.SettlementCurrency))
	if req.SettlementCurrency == "" {
		return req, apperr.Invalid("currency is required")
	}
	switch req.Method {
	case models.PaymentCrypto, models.PaymentATM:
	case "":
		req.Method = models.PaymentCrypto
	default:
		return req, apperr.Invalid("unsupported payment method %q", req.Method)
	}
	req.CryptoCurrency = strings.ToUpper(strings.TrimSpace(req.CryptoCurrency))
	if req.CryptoCurrency == "" {
		req.CryptoCurrency = DefaultCryptoCurrency
	}
	req.FiatCurrency = strings.ToUpper(strings.TrimSpace(req.FiatCurrency))
	if req.FiatCurrency == "" {
		req.FiatCurrency = DefaultFiatCurrency
	}
	return req, nil
}
