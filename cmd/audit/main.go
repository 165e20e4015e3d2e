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

	"multichain-wallet-gateway-go/internal/common"
	"multichain-wallet-gateway-go/internal/config"
	"multichain-wallet-gateway-go/internal/models"
	"multichain-wallet-gateway-go/internal/store"

	"go.uber.org/zap"
)

type auditStats struct {
	total    int
	failures int
	unknown  int
}

func formatAddress(addr string) string {
	if addr == "" {
		return "none"
	}
	if len(addr) > 20 {
		return addr[:10] + "..." + addr[len(addr)-6:]
	}
	return addr
}

func printEntry(entry models.AuditEntry, isLast bool) {
	symbol := common.BoxPrefix(isLast)
	amount := entry.Amount
	if amount == "" {
		amount = "-"
	}

	fmt.Printf("%s %s %-4s %-18s %-8s %-24s %s\n",
		symbol,
		entry.CreatedAt.Format("2006-01-02 15:04:05"),
		entry.Chain,
		entry.Operation,
		entry.Outcome,
		formatAddress(entry.Address),
		amount)
	if entry.Detail != "" {
		fmt.Printf("%s    detail: %s\n", common.BoxDetailPrefix(isLast), entry.Detail)
	}
}

func printEntries(entries []models.AuditEntry) auditStats {
	stats := auditStats{}
	for i, entry := range entries {
		printEntry(entry, i == len(entries)-1)

		stats.total++
		switch entry.Outcome {
		case models.OutcomeFailure:
			stats.failures++
		case models.OutcomeUnknown:
			stats.unknown++
		}
	}
	return stats
}

func main() {
	ctx := context.Background()

	chainFlag := flag.String("chain", "", "Filter by chain symbol (optional)")
	operationFlag := flag.String("operation", "", "Filter by operation, e.g. send (optional)")
	outcomeFlag := flag.String("outcome", "", "Filter by outcome: success, failure or unknown (optional)")
	limitFlag := flag.Int("limit", 50, "Maximum number of entries to show")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		_, _ = zap.NewProduction()
		zap.L().Fatal("Failed to load config", zap.Error(err))
	}

	logger, loggerCleanup := common.InitializeLogger(cfg.LogLevel)
	defer loggerCleanup()

	if cfg.Audit.Backend == config.AuditBackendFormance {
		logger.Warn("Audit backend is formance; this report only reads the local SQLite log")
	}

	logger.Info("Connecting to database", zap.String("path", cfg.Database.Path))
	dbService, err := common.InitializeDatabaseOnly(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer dbService.Close()

	entries, err := dbService.ListAuditEntries(ctx, store.AuditFilter{
		Chain:     *chainFlag,
		Operation: *operationFlag,
		Outcome:   *outcomeFlag,
		Limit:     *limitFlag,
	})
	if err != nil {
		logger.Fatal("Failed to list audit entries", zap.Error(err))
	}

	common.PrintHeader("AUDIT LOG REPORT", common.WideWidth)
	stats := printEntries(entries)

	summary := fmt.Sprintf("SUMMARY: %d entries (%d failures, %d unknown outcomes)",
		stats.total, stats.failures, stats.unknown)
	common.PrintFooter(summary, common.WideWidth)
}
