package explorer

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"multichain-wallet-gateway-go/internal/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlockchainInfoAddress(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rawaddr/1BoatSLRHtKNngkdXEeobR76b53LETtpyT", r.URL.Path)
		_, _ = io.WriteString(w, `{"address":"1BoatSLRHtKNngkdXEeobR76b53LETtpyT","final_balance":150000000,"n_tx":12}`)
	}))
	defer srv.Close()

	summary, err := NewBlockchainInfo(srv.URL+"/", srv.Client()).Address(context.Background(), "1BoatSLRHtKNngkdXEeobR76b53LETtpyT")
	require.NoError(t, err)
	assert.Equal(t, int64(150000000), summary.FinalBalance)
	assert.Equal(t, uint64(12), summary.NTx)
}

func TestBlockchainInfoNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := NewBlockchainInfo(srv.URL, srv.Client()).Address(context.Background(), "addr")
	require.Error(t, err)
	assert.Equal(t, apperr.KindUpstreamUnavailable, apperr.KindOf(err))
	assert.Contains(t, err.Error(), "429")
}

func TestBlockchainInfoTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := NewBlockchainInfo(srv.URL, srv.Client()).Address(ctx, "addr")
	assert.Equal(t, apperr.KindUpstreamUnavailable, apperr.KindOf(err))
}

func TestWealthDistribution(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/charts/wealth-distribution", r.URL.Path)
		assert.Equal(t, "json", r.URL.Query().Get("format"))
		_, _ = io.WriteString(w, `{"status":"ok","values":[{"x":0.001,"y":1000},{"x":0.01,"y":500},{"x":1,"y":20}]}`)
	}))
	defer srv.Close()

	values, err := NewBlockchainInfo(srv.URL, srv.Client()).WealthDistribution(context.Background())
	require.NoError(t, err)
	require.Len(t, values, 3)
	assert.Equal(t, 0.01, values[1].X)
	assert.Equal(t, float64(500), values[1].Y)
}

func TestBlockCypherBalance(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/ltc/main/addrs/LaddrX/balance", r.URL.Path)
		_, _ = io.WriteString(w, `{"address":"LaddrX","balance":100,"final_balance":250000000,"n_tx":3,"final_n_tx":4}`)
	}))
	defer srv.Close()

	bal, err := NewBlockCypher(srv.URL, srv.Client()).Balance(context.Background(), "LTC", "mainnet", "LaddrX")
	require.NoError(t, err)
	assert.Equal(t, int64(250000000), bal.FinalBalance)
	assert.Equal(t, uint64(4), bal.FinalNTx)
}

func TestEsplora(t *testing.T) {
	var broadcastBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/address/bc1qexample/utxo":
			_, _ = io.WriteString(w, `[{"txid":"aa","vout":1,"value":5000,"status":{"confirmed":true,"block_height":800000}}]`)
		case r.URL.Path == "/fee-estimates":
			_, _ = io.WriteString(w, `{"1":25.5,"6":12.1}`)
		case r.URL.Path == "/tx" && r.Method == http.MethodPost:
			b, _ := io.ReadAll(r.Body)
			broadcastBody = string(b)
			_, _ = io.WriteString(w, "deadbeef\n")
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	e := NewEsplora(srv.URL, srv.Client())
	ctx := context.Background()

	utxos, err := e.UTXOs(ctx, "bc1qexample")
	require.NoError(t, err)
	require.Len(t, utxos, 1)
	assert.True(t, utxos[0].Status.Confirmed)
	assert.Equal(t, uint32(1), utxos[0].Vout)

	fees, err := e.FeeEstimates(ctx)
	require.NoError(t, err)
	assert.Equal(t, 12.1, fees["6"])

	txid, err := e.Broadcast(ctx, "0100")
	require.NoError(t, err)
	assert.Equal(t, "deadbeef", txid)
	assert.Equal(t, "0100", broadcastBody)
}

func TestEsploraBroadcastRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "sendrawtransaction RPC error: bad-txns-inputs-missingorspent", http.StatusBadRequest)
	}))
	defer srv.Close()

	_, err := NewEsplora(srv.URL, srv.Client()).Broadcast(context.Background(), "0100")
	require.Error(t, err)
	assert.Equal(t, apperr.KindUpstreamRejected, apperr.KindOf(err))
	assert.Contains(t, err.Error(), "missingorspent")
}
