package aggregator

import (
	"context"
	"fmt"
	"time"

	"multichain-wallet-gateway-go/internal/apperr"
	"multichain-wallet-gateway-go/internal/chain"
	"multichain-wallet-gateway-go/internal/metrics"
	"multichain-wallet-gateway-go/internal/models"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	DefaultTimeout   = 10 * time.Second
	DefaultRichCount = 10

	bucketNote = "Entries are wealth-distribution buckets (x = balance bucket, y = address count), not individual addresses"
)

// WealthSource serves the Bitcoin wealth distribution chart.
type WealthSource interface {
	WealthDistribution(ctx context.Context) ([]models.RichListEntry, error)
}

// Aggregator answers read-only balance and rich list queries. Every upstream
// call runs under a fixed timeout.
type Aggregator struct {
	registry *chain.Registry
	wealth   WealthSource
	timeout  time.Duration
	metrics  metrics.Recorder
	logger   *zap.Logger
}

func New(registry *chain.Registry, wealth WealthSource, timeout time.Duration, recorder metrics.Recorder, logger *zap.Logger) *Aggregator {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}
	return &Aggregator{
		registry: registry,
		wealth:   wealth,
		timeout:  timeout,
		metrics:  recorder,
		logger:   logger,
	}
}

// GetBalance returns the on-chain balance in native units. An unreachable or
// failing upstream yields a nil balance and no error; only unsupported chains
// and malformed input are errors.
func (a *Aggregator) GetBalance(ctx context.Context, address, rawChain string) (*decimal.Decimal, error) {
	adapter, err := a.registry.Resolve(rawChain)
	if err != nil {
		return nil, err
	}
	id := adapter.ID()

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	start := time.Now()
	balance, err := adapter.Balance(ctx, address)
	a.metrics.ObserveLatency("balance", time.Since(start), map[string]string{metrics.LabelChain: string(id)})
	if err != nil {
		if apperr.HasKind(err, apperr.KindInvalidRequest) {
			return nil, err
		}
		a.metrics.IncCounter("balance", map[string]string{metrics.LabelChain: string(id), metrics.LabelOutcome: models.OutcomeFailure})
		a.logger.Warn("Balance lookup failed",
			zap.String("chain", string(id)),
			zap.String("address", address),
			zap.Error(err))
		return nil, nil
	}

	a.metrics.IncCounter("balance", map[string]string{metrics.LabelChain: string(id), metrics.LabelOutcome: models.OutcomeSuccess})
	return &balance, nil
}

// GetRichList returns the first count wealth buckets for BTC. Other chains
// report Available=false rather than an error.
func (a *Aggregator) GetRichList(ctx context.Context, rawChain string, count int) (*models.RichList, error) {
	id, err := chain.ParseID(rawChain)
	if err != nil {
		return nil, err
	}
	if count <= 0 {
		return nil, apperr.Invalid("count must be positive, got %d", count)
	}

	if id != models.ChainBTC {
		return &models.RichList{
			Blockchain: id,
			Available:  false,
			Entries:    []models.RichListEntry{},
			Note:       fmt.Sprintf("Rich list is not available for %s", id),
		}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	start := time.Now()
	buckets, err := a.wealth.WealthDistribution(ctx)
	a.metrics.ObserveLatency("richlist", time.Since(start), map[string]string{metrics.LabelChain: string(id)})
	if err != nil {
		if apperr.KindOf(err) == apperr.KindInternal {
			err = apperr.Unavailable(err, "rich list lookup failed")
		}
		return nil, err
	}

	if len(buckets) > count {
		buckets = buckets[:count]
	}
	if buckets == nil {
		buckets = []models.RichListEntry{}
	}
	return &models.RichList{
		Blockchain: id,
		Available:  true,
		Entries:    buckets,
		Note:       bucketNote,
	}, nil
}
