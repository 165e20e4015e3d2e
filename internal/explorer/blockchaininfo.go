package explorer

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"multichain-wallet-gateway-go/internal/models"
)

// BlockchainInfo is a client for the blockchain.info public API.
type BlockchainInfo struct {
	baseURL string
	client  *http.Client
}

func NewBlockchainInfo(baseURL string, client *http.Client) *BlockchainInfo {
	return &BlockchainInfo{baseURL: strings.TrimRight(baseURL, "/"), client: orDefault(client)}
}

// AddressSummary is the subset of /rawaddr used here. Amounts are satoshis.
type AddressSummary struct {
	Address       string `json:"address"`
	FinalBalance  int64  `json:"final_balance"`
	NTx           uint64 `json:"n_tx"`
	TotalReceived int64  `json:"total_received"`
	TotalSent     int64  `json:"total_sent"`
}

func (b *BlockchainInfo) Address(ctx context.Context, address string) (*AddressSummary, error) {
	u := b.baseURL + "/rawaddr/" + url.PathEscape(address) + "?limit=0&cors=true"

	var summary AddressSummary
	if err := getJSON(ctx, b.client, u, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

type chartResponse struct {
	Status string                 `json:"status"`
	Name   string                 `json:"name"`
	Values []models.RichListEntry `json:"values"`
}

// WealthDistribution returns the wealth distribution chart buckets, in the order served.
func (b *BlockchainInfo) WealthDistribution(ctx context.Context) ([]models.RichListEntry, error) {
	u := b.baseURL + "/charts/wealth-distribution?format=json&cors=true"

	var chart chartResponse
	if err := getJSON(ctx, b.client, u, &chart); err != nil {
		return nil, err
	}
	return chart.Values, nil
}
