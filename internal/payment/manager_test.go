package payment

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"multichain-wallet-gateway-go/internal/apperr"
	"multichain-wallet-gateway-go/internal/gateway/coinpayments"
	"multichain-wallet-gateway-go/internal/models"
	"multichain-wallet-gateway-go/internal/store"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeGateway struct {
	requests []coinpayments.TransactionRequest
	err      error
}

func (g *fakeGateway) CreateTransaction(_ context.Context, req coinpayments.TransactionRequest) (*models.GatewayTransaction, error) {
	g.requests = append(g.requests, req)
	if g.err != nil {
		return nil, g.err
	}
	return &models.GatewayTransaction{
		TransactionId: "CPXX123",
		Address:       "bc1qpay",
		Amount:        "0.00041",
		StatusURL:     "https://cp/status",
		CheckoutURL:   "https://cp/checkout",
	}, nil
}

type memoryCodes struct {
	mu    sync.Mutex
	codes map[string]models.PaymentCode
	err   error
}

func (m *memoryCodes) SavePaymentCode(_ context.Context, id string, code models.PaymentCode) error {
	if m.err != nil {
		return m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.codes == nil {
		m.codes = map[string]models.PaymentCode{}
	}
	m.codes[id] = code
	return nil
}

func (m *memoryCodes) GetPaymentCode(_ context.Context, id string) (*models.PaymentCode, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	code, ok := m.codes[id]
	if !ok {
		return nil, store.ErrPaymentCodeNotFound
	}
	return &code, nil
}

func newTestManager(gw Gateway, codes store.PaymentCodeStore) *Manager {
	return NewManager(gw, codes, models.PaymentConfig{BaseURL: "https://shop.example/"}, zap.NewNop())
}

func cryptoRequest() models.SessionRequest {
	return models.SessionRequest{
		Amount:             decimal.RequireFromString("25"),
		SettlementCurrency: "usd",
		CustomerEmail:      "buyer@example.com",
		Method:             models.PaymentCrypto,
		CryptoCurrency:     "btc",
	}
}

func TestCreateSessionCrypto(t *testing.T) {
	gw := &fakeGateway{}
	codes := &memoryCodes{}
	m := newTestManager(gw, codes)

	session, err := m.CreateSession(context.Background(), cryptoRequest())
	require.NoError(t, err)

	assert.Equal(t, "CPXX123", session.SessionId)
	assert.Equal(t, "bc1qpay", session.PayToAddress)
	assert.Equal(t, "0.00041", session.RequestedAmount)
	assert.Equal(t, "USD", session.SettlementCurrency)
	assert.Equal(t, "BTC", session.CryptoCurrency)
	assert.Empty(t, session.FiatCurrency)
	require.NotNil(t, session.PaymentCode)
	assert.Equal(t, "btc:bc1qpay?amount=0.00041", session.PaymentCode.URI)
	assert.NotEmpty(t, session.PaymentCode.PNG)

	require.Len(t, gw.requests, 1)
	req := gw.requests[0]
	assert.Equal(t, "USD", req.Currency1)
	assert.Equal(t, "BTC", req.Currency2)
	assert.Equal(t, DefaultItemName, req.ItemName)
	assert.Equal(t, "https://shop.example/ipn", req.IPNURL)
	assert.Equal(t, "https://shop.example/success", req.SuccessURL)
	assert.Equal(t, "https://shop.example/cancel", req.CancelURL)
	assert.Regexp(t, `^[0-9a-f]{16}$`, req.ItemNumber)
	assert.Nil(t, req.Extra)

	stored, err := m.PaymentCode(context.Background(), "CPXX123")
	require.NoError(t, err)
	assert.Equal(t, session.PaymentCode.URI, stored.URI)
}

func TestCreateSessionATM(t *testing.T) {
	gw := &fakeGateway{}
	codes := &memoryCodes{}
	m := newTestManager(gw, codes)

	req := cryptoRequest()
	req.Method = models.PaymentATM
	req.CryptoCurrency = "ETH"
	req.FiatCurrency = "eur"
	session, err := m.CreateSession(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, models.PaymentATM, session.Method)
	assert.Equal(t, "EUR", session.FiatCurrency)
	assert.Empty(t, session.CryptoCurrency)
	assert.Nil(t, session.PaymentCode)
	assert.Empty(t, codes.codes)

	sent := gw.requests[0]
	assert.Equal(t, "BTC", sent.Currency2)
	assert.Equal(t, map[string]string{
		"payment_method": "atm",
		"fiat_currency":  "EUR",
		"atm_location":   "nearest",
	}, sent.Extra)

	req.Metadata = map[string]string{"atm_location": "Main St"}
	_, err = m.CreateSession(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "Main St", gw.requests[1].Extra["atm_location"])
}

func TestCreateSessionDefaults(t *testing.T) {
	gw := &fakeGateway{}
	m := newTestManager(gw, &memoryCodes{})

	req := cryptoRequest()
	req.Method = ""
	req.CryptoCurrency = ""
	session, err := m.CreateSession(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentCrypto, session.Method)
	assert.Equal(t, "BTC", session.CryptoCurrency)
}

func TestCreateSessionCodeFailureIsNotFatal(t *testing.T) {
	m := newTestManager(&fakeGateway{}, &memoryCodes{err: errors.New("disk full")})

	session, err := m.CreateSession(context.Background(), cryptoRequest())
	require.NoError(t, err)
	assert.Equal(t, "CPXX123", session.SessionId)
	assert.Nil(t, session.PaymentCode)
}

func TestCreateSessionGatewayFailure(t *testing.T) {
	gw := &fakeGateway{err: apperr.Rejected(nil, "gateway: Invalid currency")}
	m := newTestManager(gw, &memoryCodes{})

	_, err := m.CreateSession(context.Background(), cryptoRequest())
	require.Error(t, err)
	assert.Equal(t, apperr.KindPaymentSession, apperr.KindOf(err))
	assert.Contains(t, err.Error(), "Invalid currency")
}

func TestCreateSessionValidation(t *testing.T) {
	gw := &fakeGateway{}
	m := newTestManager(gw, &memoryCodes{})

	tests := []struct {
		name   string
		mutate func(*models.SessionRequest)
	}{
		{"zero amount", func(r *models.SessionRequest) { r.Amount = decimal.Zero }},
		{"negative amount", func(r *models.SessionRequest) { r.Amount = decimal.NewFromInt(-1) }},
		{"missing email", func(r *models.SessionRequest) { r.CustomerEmail = " " }},
		{"missing currency", func(r *models.SessionRequest) { r.SettlementCurrency = "" }},
		{"bad method", func(r *models.SessionRequest) { r.Method = "card" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := cryptoRequest()
			tt.mutate(&req)
			_, err := m.CreateSession(context.Background(), req)
			assert.Equal(t, apperr.KindInvalidRequest, apperr.KindOf(err))
		})
	}
	assert.Empty(t, gw.requests, "validation must happen before any gateway call")
}

func TestIdempotencyTokenUnique(t *testing.T) {
	m := newTestManager(&fakeGateway{}, nil)
	fixed := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return fixed }

	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		tok := m.idempotencyToken()
		assert.Len(t, tok, 16)
		assert.False(t, seen[tok], "token repeated under a frozen clock")
		seen[tok] = true
	}
}

func TestPaymentCodeNotFound(t *testing.T) {
	m := newTestManager(&fakeGateway{}, &memoryCodes{})
	_, err := m.PaymentCode(context.Background(), "missing")
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestPaymentURI(t *testing.T) {
	assert.Equal(t, "eth:0xabc?amount=1.5", PaymentURI("ETH", "0xabc", "1.5"))
}
