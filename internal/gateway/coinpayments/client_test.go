package coinpayments

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"multichain-wallet-gateway-go/internal/apperr"
	"multichain-wallet-gateway-go/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(models.CoinPaymentsConfig{
		APIURL:     srv.URL,
		PublicKey:  "pub",
		PrivateKey: "priv",
	}, srv.Client(), zap.NewNop())
}

func sampleRequest() TransactionRequest {
	return TransactionRequest{
		Amount:     decimal.RequireFromString("25.50"),
		Currency1:  "USD",
		Currency2:  "BTC",
		BuyerEmail: "buyer@example.com",
		ItemName:   "BHE Token Purchase",
		ItemNumber: "0123456789abcdef",
		IPNURL:     "https://shop.example/ipn",
		SuccessURL: "https://shop.example/success",
		CancelURL:  "https://shop.example/cancel",
	}
}

func TestCreateTransaction(t *testing.T) {
	var form url.Values
	var hmacHeader string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		hmacHeader = r.Header.Get("HMAC")
		assert.Equal(t, sign("priv", string(body)), hmacHeader)
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		form, _ = url.ParseQuery(string(body))
		_, _ = io.WriteString(w, `{"error":"ok","result":{"amount":"0.00041","txn_id":"CPXX123","address":"bc1qpay","confirms_needed":"2","timeout":7200,"checkout_url":"https://cp/checkout","status_url":"https://cp/status","qrcode_url":"https://cp/qr"}}`)
	})

	req := sampleRequest()
	req.Extra = map[string]string{"payment_method": "atm", "atm_location": "nearest"}
	tx, err := c.CreateTransaction(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, "CPXX123", tx.TransactionId)
	assert.Equal(t, "bc1qpay", tx.Address)
	assert.Equal(t, "0.00041", tx.Amount)
	assert.Equal(t, "https://cp/status", tx.StatusURL)
	assert.Equal(t, 7200, tx.TimeoutSeconds)

	assert.Equal(t, "1", form.Get("version"))
	assert.Equal(t, "create_transaction", form.Get("cmd"))
	assert.Equal(t, "pub", form.Get("key"))
	assert.Equal(t, "json", form.Get("format"))
	assert.Equal(t, "25.5", form.Get("amount"))
	assert.Equal(t, "USD", form.Get("currency1"))
	assert.Equal(t, "BTC", form.Get("currency2"))
	assert.Equal(t, "buyer@example.com", form.Get("buyer_email"))
	assert.Equal(t, "0123456789abcdef", form.Get("item_number"))
	assert.Equal(t, "https://shop.example/ipn", form.Get("ipn_url"))
	assert.Equal(t, "atm", form.Get("payment_method"))
	assert.Len(t, hmacHeader, 128)
}

func TestCreateTransactionGatewayError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"error":"Invalid currency","result":[]}`)
	})

	_, err := c.CreateTransaction(context.Background(), sampleRequest())
	require.Error(t, err)
	assert.Equal(t, apperr.KindUpstreamRejected, apperr.KindOf(err))
	assert.Contains(t, err.Error(), "Invalid currency")
}

func TestCreateTransactionUnavailable(t *testing.T) {
	t.Run("non-200", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "maintenance", http.StatusServiceUnavailable)
		})
		_, err := c.CreateTransaction(context.Background(), sampleRequest())
		assert.Equal(t, apperr.KindUpstreamUnavailable, apperr.KindOf(err))
		assert.Contains(t, err.Error(), "503")
	})

	t.Run("malformed", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, `<html>`)
		})
		_, err := c.CreateTransaction(context.Background(), sampleRequest())
		assert.Equal(t, apperr.KindUpstreamUnavailable, apperr.KindOf(err))
	})

	t.Run("timeout", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			<-r.Context().Done()
		})
		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()
		_, err := c.CreateTransaction(ctx, sampleRequest())
		assert.Equal(t, apperr.KindUpstreamUnavailable, apperr.KindOf(err))
	})
}

func TestCreateTransactionMissingFields(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"error":"ok","result":{"amount":"1"}}`)
	})
	_, err := c.CreateTransaction(context.Background(), sampleRequest())
	assert.Equal(t, apperr.KindUpstreamRejected, apperr.KindOf(err))
}

func TestSign(t *testing.T) {
	// HMAC-SHA512 of the empty message under the empty key
	assert.Equal(t,
		"b936cee86c9f87aa5d3c6f2e84cb5a4239a5fe50480a6ec66b70ab5b1f4ac6730c6c515421b327ec1d69402e53dfb49ad7381eb067b338fd7b0cb22247225d47",
		sign("", ""))
}
