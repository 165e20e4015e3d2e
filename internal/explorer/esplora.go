package explorer

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"multichain-wallet-gateway-go/internal/apperr"
)

// Esplora is a client for a Blockstream-compatible Esplora REST API.
type Esplora struct {
	baseURL string
	client  *http.Client
}

func NewEsplora(baseURL string, client *http.Client) *Esplora {
	return &Esplora{baseURL: strings.TrimRight(baseURL, "/"), client: orDefault(client)}
}

type UTXO struct {
	TxID   string     `json:"txid"`
	Vout   uint32     `json:"vout"`
	Value  int64      `json:"value"`
	Status UTXOStatus `json:"status"`
}

type UTXOStatus struct {
	Confirmed   bool  `json:"confirmed"`
	BlockHeight int64 `json:"block_height"`
}

func (e *Esplora) UTXOs(ctx context.Context, address string) ([]UTXO, error) {
	var utxos []UTXO
	if err := getJSON(ctx, e.client, e.baseURL+"/address/"+url.PathEscape(address)+"/utxo", &utxos); err != nil {
		return nil, err
	}
	return utxos, nil
}

// FeeEstimates maps a confirmation target in blocks to a fee rate in sat/vB.
func (e *Esplora) FeeEstimates(ctx context.Context) (map[string]float64, error) {
	estimates := make(map[string]float64)
	if err := getJSON(ctx, e.client, e.baseURL+"/fee-estimates", &estimates); err != nil {
		return nil, err
	}
	return estimates, nil
}

// Broadcast submits a raw transaction hex and returns the txid. A 4xx
// response means the node understood and refused the transaction.
func (e *Esplora) Broadcast(ctx context.Context, rawTxHex string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/tx", strings.NewReader(rawTxHex))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "text/plain")

	resp, err := e.client.Do(req)
	if err != nil {
		return "", apperr.Unavailable(err, "broadcast request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 && resp.StatusCode < 500 {
		return "", apperr.Rejected(statusError(resp), "transaction rejected")
	}
	if resp.StatusCode != http.StatusOK {
		return "", apperr.Unavailable(statusError(resp), "broadcast failed")
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 256))
	if err != nil {
		return "", apperr.Unavailable(err, "reading broadcast response")
	}
	return strings.TrimSpace(string(body)), nil
}
