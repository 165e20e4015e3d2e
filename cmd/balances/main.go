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

package main

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"multichain-wallet-gateway-go/internal/aggregator"
	"multichain-wallet-gateway-go/internal/common"
	"multichain-wallet-gateway-go/internal/config"
	"multichain-wallet-gateway-go/internal/explorer"
	"multichain-wallet-gateway-go/internal/metrics"

	"go.uber.org/zap"
)

type balanceStats struct {
	queried int
	found   int
}

func printBalance(ctx context.Context, agg *aggregator.Aggregator, chain, address string, isLast bool) (bool, error) {
	symbol := common.BoxPrefix(isLast)

	balance, err := agg.GetBalance(ctx, address, chain)
	if err != nil {
		return false, err
	}
	if balance == nil {
		fmt.Printf("%s %-45s: %20s\n", symbol, address, "unavailable")
		return false, nil
	}

	fmt.Printf("%s %-45s: %20s %s\n", symbol, address, balance.String(), strings.ToUpper(chain))
	return true, nil
}

func main() {
	ctx := context.Background()

	chainFlag := flag.String("chain", "BTC", "Chain symbol (BTC, ETH, LTC, DOGE)")
	addressFlag := flag.String("address", "", "Comma-separated list of addresses to query")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		_, _ = zap.NewProduction()
		zap.L().Fatal("Failed to load config", zap.Error(err))
	}

	logger, loggerCleanup := common.InitializeLogger(cfg.LogLevel)
	defer loggerCleanup()

	var addresses []string
	for _, a := range strings.Split(*addressFlag, ",") {
		if a = strings.TrimSpace(a); a != "" {
			addresses = append(addresses, a)
		}
	}
	if len(addresses) == 0 {
		logger.Fatal("At least one -address is required")
	}

	logger.Info("Starting balance query",
		zap.String("chain", *chainFlag),
		zap.Int("addresses", len(addresses)))

	httpClient, err := common.NewHTTPClient(cfg.Upstream.Timeout)
	if err != nil {
		logger.Fatal("Failed to create http client", zap.Error(err))
	}

	registry, closers, err := common.InitializeRegistry(ctx, cfg, &httpClient, logger)
	if err != nil {
		logger.Fatal("Failed to initialize chains", zap.Error(err))
	}
	defer func() {
		for _, c := range closers {
			c()
		}
	}()

	wealth := explorer.NewBlockchainInfo(cfg.Upstream.BlockchainInfoURL, &httpClient)
	agg := aggregator.New(registry, wealth, cfg.Upstream.Timeout, metrics.NoopRecorder{}, logger)

	common.PrintHeader(fmt.Sprintf("%s BALANCE REPORT", strings.ToUpper(*chainFlag)), common.DefaultWidth)

	stats := balanceStats{}
	for i, address := range addresses {
		stats.queried++
		found, err := printBalance(ctx, agg, *chainFlag, address, i == len(addresses)-1)
		if err != nil {
			logger.Error("Balance query rejected",
				zap.String("address", address),
				zap.Error(err))
			continue
		}
		if found {
			stats.found++
		}
	}

	summary := fmt.Sprintf("SUMMARY: %d of %d addresses resolved", stats.found, stats.queried)
	common.PrintFooter(summary, common.DefaultWidth)

	logger.Info("Balance query completed",
		zap.Int("queried", stats.queried),
		zap.Int("resolved", stats.found))
}
