package explorer

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// BlockCypher is a client for the BlockCypher address API, used for LTC and DOGE.
type BlockCypher struct {
	baseURL string
	client  *http.Client
}

func NewBlockCypher(baseURL string, client *http.Client) *BlockCypher {
	return &BlockCypher{baseURL: strings.TrimRight(baseURL, "/"), client: orDefault(client)}
}

// CoinBalance is the /addrs/{addr}/balance response. Amounts are base units.
type CoinBalance struct {
	Address            string `json:"address"`
	Balance            int64  `json:"balance"`
	UnconfirmedBalance int64  `json:"unconfirmed_balance"`
	FinalBalance       int64  `json:"final_balance"`
	NTx                uint64 `json:"n_tx"`
	FinalNTx           uint64 `json:"final_n_tx"`
}

// Balance fetches the balance for address on coin ("ltc", "doge", "btc") mainnet or testnet.
func (b *BlockCypher) Balance(ctx context.Context, coin, network, address string) (*CoinBalance, error) {
	chainName := "main"
	if network == "testnet" {
		chainName = "test3"
	}
	u := fmt.Sprintf("%s/%s/%s/addrs/%s/balance", b.baseURL, strings.ToLower(coin), chainName, url.PathEscape(address))

	var bal CoinBalance
	if err := getJSON(ctx, b.client, u, &bal); err != nil {
		return nil, err
	}
	return &bal, nil
}
