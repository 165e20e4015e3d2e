/**
 * Copyright 2025-present Coinbase Global, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"multichain-wallet-gateway-go/internal/models"
)

const (
	AuditBackendSQLite   = "sqlite"
	AuditBackendFormance = "formance"
)

// Load reads the configuration from the environment. It does not validate
// required values; call Validate before serving traffic.
func Load() (*models.Config, error) {
	upstreamTimeout, err := getEnvDuration("UPSTREAM_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}

	requestTimeout, err := getEnvDuration("SERVER_REQUEST_TIMEOUT", 60*time.Second)
	if err != nil {
		return nil, err
	}

	readTimeout, err := getEnvDuration("SERVER_READ_TIMEOUT", 15*time.Second)
	if err != nil {
		return nil, err
	}

	writeTimeout, err := getEnvDuration("SERVER_WRITE_TIMEOUT", 75*time.Second)
	if err != nil {
		return nil, err
	}

	shutdownTimeout, err := getEnvDuration("SERVER_SHUTDOWN_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, err
	}

	connMaxLifetime, err := getEnvDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute)
	if err != nil {
		return nil, err
	}

	connMaxIdleTime, err := getEnvDuration("DB_CONN_MAX_IDLE_TIME", 30*time.Second)
	if err != nil {
		return nil, err
	}

	pingTimeout, err := getEnvDuration("DB_PING_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, err
	}

	chainsFile := getEnvString("CHAINS_FILE", "chains.yaml")
	chains, err := LoadChainConfig(chainsFile)
	if err != nil {
		return nil, err
	}

	return &models.Config{
		Server: models.ServerConfig{
			Port:            getEnvInt("SERVER_PORT", 8080),
			ReadTimeout:     readTimeout,
			WriteTimeout:    writeTimeout,
			RequestTimeout:  requestTimeout,
			ShutdownTimeout: shutdownTimeout,
			AllowedOrigins:  getEnvList("CORS_ALLOWED_ORIGINS", []string{"*"}),
			MetricsEnabled:  getEnvBool("METRICS_ENABLED", true),
		},
		Database: models.DatabaseConfig{
			Path:            getEnvString("DATABASE_PATH", "gateway.db"),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: connMaxLifetime,
			ConnMaxIdleTime: connMaxIdleTime,
			PingTimeout:     pingTimeout,
		},
		Chains: models.ChainsConfig{
			File:    chainsFile,
			Enabled: chains,
		},
		Upstream: models.UpstreamConfig{
			Timeout:           upstreamTimeout,
			EthRPCURL:         os.Getenv("ETH_RPC_URL"),
			EthChainID:        int64(getEnvInt("ETH_CHAIN_ID", 1)),
			BlockchainInfoURL: getEnvString("BLOCKCHAIN_INFO_URL", "https://blockchain.info"),
			EsploraURL:        getEnvString("ESPLORA_URL", "https://blockstream.info/api"),
			BlockCypherURL:    getEnvString("BLOCKCYPHER_URL", "https://api.blockcypher.com/v1"),
			DefaultFeeRate:    int64(getEnvInt("BTC_DEFAULT_FEE_RATE", 10)),
		},
		CoinPayments: models.CoinPaymentsConfig{
			APIURL:     getEnvString("COINPAYMENTS_API_URL", "https://www.coinpayments.net/api.php"),
			PublicKey:  os.Getenv("COINPAYMENTS_PUBLIC_KEY"),
			PrivateKey: os.Getenv("COINPAYMENTS_PRIVATE_KEY"),
		},
		Payment: models.PaymentConfig{
			BaseURL:  strings.TrimRight(os.Getenv("BASE_URL"), "/"),
			ItemName: getEnvString("PAYMENT_ITEM_NAME", "BHE Token Purchase"),
		},
		Audit: models.AuditConfig{
			Backend: strings.ToLower(getEnvString("AUDIT_BACKEND", AuditBackendSQLite)),
		},
		Formance: models.FormanceConfig{
			StackURL:     os.Getenv("FORMANCE_STACK_URL"),
			ClientID:     os.Getenv("FORMANCE_CLIENT_ID"),
			ClientSecret: os.Getenv("FORMANCE_CLIENT_SECRET"),
			LedgerName:   getEnvString("FORMANCE_LEDGER_NAME", "wallet-gateway-audit"),
		},
		Prime: models.PrimeConfig{
			AccessKey:  os.Getenv("PRIME_ACCESS_KEY"),
			Passphrase: os.Getenv("PRIME_PASSPHRASE"),
			SigningKey: os.Getenv("PRIME_SIGNING_KEY"),
			Networks:   chainNetworks(chains),
		},
		LogLevel: getEnvString("LOG_LEVEL", "info"),
	}, nil
}

// Validate fails fast on missing or malformed values the server needs.
func Validate(cfg *models.Config) error {
	var errs []error

	if cfg.Payment.BaseURL == "" {
		errs = append(errs, errors.New("BASE_URL is required"))
	} else if err := validateURL(cfg.Payment.BaseURL); err != nil {
		errs = append(errs, fmt.Errorf("BASE_URL: %w", err))
	}
	if cfg.CoinPayments.PublicKey == "" {
		errs = append(errs, errors.New("COINPAYMENTS_PUBLIC_KEY is required"))
	}
	if cfg.CoinPayments.PrivateKey == "" {
		errs = append(errs, errors.New("COINPAYMENTS_PRIVATE_KEY is required"))
	}
	if err := validateURL(cfg.CoinPayments.APIURL); err != nil {
		errs = append(errs, fmt.Errorf("COINPAYMENTS_API_URL: %w", err))
	}

	if ChainEnabled(cfg, models.ChainETH) {
		if cfg.Upstream.EthRPCURL == "" {
			errs = append(errs, errors.New("ETH_RPC_URL is required when ETH is enabled"))
		}
		if cfg.Upstream.EthChainID <= 0 {
			errs = append(errs, fmt.Errorf("ETH_CHAIN_ID must be positive, got %d", cfg.Upstream.EthChainID))
		}
	}

	for name, raw := range map[string]string{
		"BLOCKCHAIN_INFO_URL": cfg.Upstream.BlockchainInfoURL,
		"ESPLORA_URL":         cfg.Upstream.EsploraURL,
		"BLOCKCYPHER_URL":     cfg.Upstream.BlockCypherURL,
	} {
		if err := validateURL(raw); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}

	if cfg.Upstream.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("UPSTREAM_TIMEOUT must be positive, got %v", cfg.Upstream.Timeout))
	}
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("SERVER_PORT out of range: %d", cfg.Server.Port))
	}

	switch cfg.Audit.Backend {
	case AuditBackendSQLite:
	case AuditBackendFormance:
		if cfg.Formance.StackURL == "" || cfg.Formance.ClientID == "" || cfg.Formance.ClientSecret == "" {
			errs = append(errs, errors.New("AUDIT_BACKEND=formance requires FORMANCE_STACK_URL, FORMANCE_CLIENT_ID and FORMANCE_CLIENT_SECRET"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown AUDIT_BACKEND %q", cfg.Audit.Backend))
	}

	return errors.Join(errs...)
}

// ChainEnabled reports whether chain is listed in the chains configuration.
func ChainEnabled(cfg *models.Config, chain models.ChainID) bool {
	for _, c := range cfg.Chains.Enabled {
		if c.Chain == chain {
			return true
		}
	}
	return false
}

func validateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("expected http(s) URL, got %q", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("missing host in %q", raw)
	}
	return nil
}

func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	if value := os.Getenv(key); value != "" {
		duration, err := time.ParseDuration(value)
		if err != nil {
			return 0, fmt.Errorf("invalid duration for %s: %q (%w)", key, value, err)
		}
		return duration, nil
	}
	return defaultValue, nil
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
