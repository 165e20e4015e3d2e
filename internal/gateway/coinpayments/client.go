package coinpayments

import (
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"multichain-wallet-gateway-go/internal/apperr"
	"multichain-wallet-gateway-go/internal/models"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	DefaultAPIURL = "https://www.coinpayments.net/api.php"
	apiVersion    = "1"
	maxErrorBody  = 512
)

// TransactionRequest is the payload of a create_transaction call.
type TransactionRequest struct {
	Amount     decimal.Decimal
	Currency1  string // currency the price is expressed in
	Currency2  string // currency the buyer pays with
	BuyerEmail string
	ItemName   string
	ItemNumber string
	IPNURL     string
	SuccessURL string
	CancelURL  string
	// Extra holds optional gateway fields such as payment_method or atm_location.
	Extra map[string]string
}

// Client calls the CoinPayments v1 API.
type Client struct {
	apiURL     string
	publicKey  string
	privateKey string
	client     *http.Client
	logger     *zap.Logger
}

func NewClient(cfg models.CoinPaymentsConfig, client *http.Client, logger *zap.Logger) *Client {
	apiURL := cfg.APIURL
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &Client{
		apiURL:     apiURL,
		publicKey:  cfg.PublicKey,
		privateKey: cfg.PrivateKey,
		client:     client,
		logger:     logger,
	}
}

type apiResponse struct {
	Error  string          `json:"error"`
	Result json.RawMessage `json:"result"`
}

type createTransactionResult struct {
	Amount         string `json:"amount"`
	TxnID          string `json:"txn_id"`
	Address        string `json:"address"`
	ConfirmsNeeded string `json:"confirms_needed"`
	Timeout        int    `json:"timeout"`
	CheckoutURL    string `json:"checkout_url"`
	StatusURL      string `json:"status_url"`
	QRCodeURL      string `json:"qrcode_url"`
}

// CreateTransaction opens a gateway transaction. A response whose error field
// is not "ok" is reported as upstream_rejected.
func (c *Client) CreateTransaction(ctx context.Context, req TransactionRequest) (*models.GatewayTransaction, error) {
	form := req.values()
	form.Set("cmd", "create_transaction")

	var result createTransactionResult
	if err := c.call(ctx, form, &result); err != nil {
		return nil, err
	}
	if result.TxnID == "" || result.Address == "" {
		return nil, apperr.Rejected(nil, "gateway response missing transaction id or address")
	}

	c.logger.Info("Gateway transaction created",
		zap.String("txn_id", result.TxnID),
		zap.String("currency", req.Currency2))

	return &models.GatewayTransaction{
		TransactionId:  result.TxnID,
		Address:        result.Address,
		Amount:         result.Amount,
		StatusURL:      result.StatusURL,
		CheckoutURL:    result.CheckoutURL,
		QRCodeURL:      result.QRCodeURL,
		ConfirmsNeeded: result.ConfirmsNeeded,
		TimeoutSeconds: result.Timeout,
	}, nil
}

func (c *Client) call(ctx context.Context, form url.Values, out any) error {
	form.Set("version", apiVersion)
	form.Set("key", c.publicKey)
	form.Set("format", "json")
	body := form.Encode()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, strings.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	httpReq.Header.Set("HMAC", sign(c.privateKey, body))

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return apperr.Unavailable(err, "gateway request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return apperr.Unavailable(fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw))), "gateway returned an error")
	}

	var parsed apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return apperr.Unavailable(err, "gateway returned malformed JSON")
	}
	if parsed.Error != "ok" {
		return apperr.Rejected(nil, "gateway: "+parsed.Error)
	}
	if err := json.Unmarshal(parsed.Result, out); err != nil {
		return apperr.Unavailable(err, "gateway returned malformed result")
	}
	return nil
}

func (r TransactionRequest) values() url.Values {
	v := url.Values{}
	v.Set("amount", r.Amount.String())
	v.Set("currency1", r.Currency1)
	v.Set("currency2", r.Currency2)
	v.Set("buyer_email", r.BuyerEmail)
	v.Set("item_name", r.ItemName)
	v.Set("item_number", r.ItemNumber)
	v.Set("ipn_url", r.IPNURL)
	v.Set("success_url", r.SuccessURL)
	v.Set("cancel_url", r.CancelURL)
	for k, val := range r.Extra {
		v.Set(k, val)
	}
	return v
}

// sign returns hex(HMAC-SHA512(privateKey, body)).
func sign(privateKey, body string) string {
	mac := hmac.New(sha512.New, []byte(privateKey))
	mac.Write([]byte(body))
	return hex.EncodeToString(mac.Sum(nil))
}
