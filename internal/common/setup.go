package common

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"strings"
	"time"

	"multichain-wallet-gateway-go/internal/aggregator"
	"multichain-wallet-gateway-go/internal/chain"
	"multichain-wallet-gateway-go/internal/chain/bitcoin"
	"multichain-wallet-gateway-go/internal/chain/ethereum"
	"multichain-wallet-gateway-go/internal/config"
	"multichain-wallet-gateway-go/internal/custody"
	"multichain-wallet-gateway-go/internal/database"
	"multichain-wallet-gateway-go/internal/explorer"
	"multichain-wallet-gateway-go/internal/formance"
	"multichain-wallet-gateway-go/internal/gateway/coinpayments"
	"multichain-wallet-gateway-go/internal/metrics"
	"multichain-wallet-gateway-go/internal/models"
	"multichain-wallet-gateway-go/internal/payment"
	"multichain-wallet-gateway-go/internal/store"
	"multichain-wallet-gateway-go/internal/wallet"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/net/http2"
)

// init loads environment variables from .env file if it exists
func init() {
	// Try to load .env file - if it doesn't exist, that's okay
	// Environment variables can be set via other means (shell export, docker, etc.)
	if err := godotenv.Load(); err != nil {
		log.Printf("Note: No .env file found or unable to load it: %v\n", err)
		log.Println("Make sure to set environment variables via export or other means")
	} else {
		log.Println("✓ Loaded environment variables from .env file")
	}
}

type Services struct {
	DbService  *database.Service
	AuditLog   store.AuditLog
	Registry   *chain.Registry
	Wallets    *wallet.Orchestrator
	Payments   *payment.Manager
	Aggregator *aggregator.Aggregator

	closers []func()
}

// InitializeLogger builds the production logger at level ("debug", "info", ...)
// and installs it as the global logger.
func InitializeLogger(level string) (*zap.Logger, func()) {
	cfg := zap.NewProductionConfig()
	if lvl, err := zapcore.ParseLevel(level); err == nil {
		cfg.Level = zap.NewAtomicLevelAt(lvl)
	}
	logger, err := cfg.Build()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	zap.ReplaceGlobals(logger)

	cleanup := func() {
		if err := logger.Sync(); err != nil {
			if !isIgnorableSyncError(err) {
				log.Printf("Failed to sync logger: %v\n", err)
			}
		}
	}

	return logger, cleanup
}

// NewHTTPClient returns the HTTP/2 capable client shared by every upstream.
func NewHTTPClient(timeout time.Duration) (http.Client, error) {
	tr := &http.Transport{
		ResponseHeaderTimeout: 30 * time.Second,
		Proxy:                 http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			KeepAlive: 30 * time.Second,
			Timeout:   15 * time.Second,
		}).DialContext,
		MaxIdleConns:          10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		MaxIdleConnsPerHost:   5,
		ExpectContinueTimeout: 5 * time.Second,
	}

	if err := http2.ConfigureTransport(tr); err != nil {
		return http.Client{}, err
	}

	return http.Client{
		Transport: tr,
		Timeout:   timeout,
	}, nil
}

// InitializeServices opens the stores and wires every component the server needs.
func InitializeServices(ctx context.Context, cfg *models.Config, recorder metrics.Recorder) (*Services, error) {
	logger := zap.L()
	s := &Services{}

	dbService, err := database.NewService(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}
	s.DbService = dbService
	s.closers = append(s.closers, dbService.Close)

	s.AuditLog, err = initializeAuditLog(ctx, cfg, dbService)
	if err != nil {
		s.Close()
		return nil, err
	}

	httpClient, err := NewHTTPClient(cfg.Upstream.Timeout)
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("unable to create http client: %w", err)
	}

	registry, closers, err := InitializeRegistry(ctx, cfg, &httpClient, logger)
	if err != nil {
		s.Close()
		return nil, err
	}
	s.Registry = registry
	s.closers = append(s.closers, closers...)

	opts := []wallet.Option{
		wallet.WithMetrics(recorder),
		wallet.WithTimeout(cfg.Upstream.Timeout),
	}
	if cfg.Prime.Enabled() {
		zap.L().Info("Custodial wallets enabled via Coinbase Prime")
		primeClient, err := NewHTTPClient(60 * time.Second)
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("unable to create custom http client: %w", err)
		}
		primeService := custody.NewPrimeService(cfg.Prime, primeClient)
		opts = append(opts, wallet.WithCustodian(custody.NewCustodian(primeService, cfg.Prime.Networks, logger)))
	}
	s.Wallets = wallet.NewOrchestrator(registry, s.AuditLog, logger, opts...)

	gateway := coinpayments.NewClient(cfg.CoinPayments, &httpClient, logger)
	s.Payments = payment.NewManager(gateway, dbService, cfg.Payment, logger)

	blockchainInfo := explorer.NewBlockchainInfo(cfg.Upstream.BlockchainInfoURL, &httpClient)
	s.Aggregator = aggregator.New(registry, blockchainInfo, cfg.Upstream.Timeout, recorder, logger)

	zap.L().Info("Services initialized",
		zap.Any("chains", registry.List()),
		zap.String("audit_backend", cfg.Audit.Backend))
	return s, nil
}

// InitializeRegistry builds one adapter per enabled chain. The returned
// closers release node connections.
func InitializeRegistry(ctx context.Context, cfg *models.Config, httpClient *http.Client, logger *zap.Logger) (*chain.Registry, []func(), error) {
	blockchainInfo := explorer.NewBlockchainInfo(cfg.Upstream.BlockchainInfoURL, httpClient)
	blockCypher := explorer.NewBlockCypher(cfg.Upstream.BlockCypherURL, httpClient)
	esplora := explorer.NewEsplora(cfg.Upstream.EsploraURL, httpClient)

	registry := chain.NewRegistry()
	var closers []func()
	closeAll := func() {
		for _, c := range closers {
			c()
		}
	}

	for _, c := range cfg.Chains.Enabled {
		switch c.Chain {
		case models.ChainETH:
			dialCtx, cancel := context.WithTimeout(ctx, cfg.Upstream.Timeout)
			eth, err := ethereum.Dial(dialCtx, cfg.Upstream.EthRPCURL, cfg.Upstream.EthChainID, logger)
			cancel()
			if err != nil {
				closeAll()
				return nil, nil, err
			}
			closers = append(closers, eth.Close)
			registry.Register(eth)

		case models.ChainBTC, models.ChainLTC, models.ChainDOGE:
			btcCfg := bitcoin.Config{
				Chain:          c.Chain,
				Network:        c.Network,
				DefaultFeeRate: cfg.Upstream.DefaultFeeRate,
			}
			if c.Chain == models.ChainBTC && c.Network == "mainnet" {
				btcCfg.Accounts = bitcoin.FromBlockchainInfo(blockchainInfo)
			} else {
				btcCfg.Accounts = bitcoin.FromBlockCypher(blockCypher, string(c.Chain), c.Network)
			}
			if c.Chain == models.ChainBTC {
				btcCfg.Spender = esplora
			}
			adapter, err := bitcoin.NewAdapter(btcCfg, logger)
			if err != nil {
				closeAll()
				return nil, nil, err
			}
			registry.Register(adapter)

		default:
			closeAll()
			return nil, nil, fmt.Errorf("no adapter for chain %s", c.Chain)
		}

		logger.Info("Chain enabled",
			zap.String("chain", string(c.Chain)),
			zap.String("network", c.Network))
	}

	return registry, closers, nil
}

// InitializeDatabaseOnly initializes just the database service
// Useful for read-only operations like reporting on the audit log
func InitializeDatabaseOnly(ctx context.Context, cfg *models.Config) (*database.Service, error) {
	dbService, err := database.NewService(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}
	return dbService, nil
}

func (s *Services) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
	s.closers = nil
}

func initializeAuditLog(ctx context.Context, cfg *models.Config, db *database.Service) (store.AuditLog, error) {
	switch cfg.Audit.Backend {
	case config.AuditBackendFormance:
		svc, err := formance.NewService(ctx, cfg.Formance)
		if err != nil {
			return nil, err
		}
		return svc, nil
	case config.AuditBackendSQLite, "":
		return db, nil
	default:
		return nil, fmt.Errorf("unknown audit backend %q", cfg.Audit.Backend)
	}
}

func isIgnorableSyncError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "sync /dev/stderr: inappropriate ioctl for device") ||
		strings.Contains(msg, "sync /dev/stdout: inappropriate ioctl for device")
}
