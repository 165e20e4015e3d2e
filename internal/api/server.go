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

package api

import (
	"context"
	"net/http"
	"reflect"
	"strings"
	"time"

	"multichain-wallet-gateway-go/internal/aggregator"
	"multichain-wallet-gateway-go/internal/payment"
	"multichain-wallet-gateway-go/internal/wallet"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

const (
	defaultRequestTimeout = 60 * time.Second
	maxBodyBytes          = 1 << 20
)

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Service holds the components behind the HTTP handlers.
type Service struct {
	wallets  *wallet.Orchestrator
	payments *payment.Manager
	balances *aggregator.Aggregator
	db       Pinger
	validate *validator.Validate
	logger   *zap.Logger
}

func NewService(wallets *wallet.Orchestrator, payments *payment.Manager, balances *aggregator.Aggregator, db Pinger, logger *zap.Logger) *Service {
	return &Service{
		wallets:  wallets,
		payments: payments,
		balances: balances,
		db:       db,
		validate: newValidator(),
		logger:   logger,
	}
}

// RouterOptions configures the middleware stack.
type RouterOptions struct {
	AllowedOrigins []string
	RequestTimeout time.Duration
	// Metrics is mounted on /metrics when set.
	Metrics http.Handler
}

func (s *Service) Routes(opts RouterOptions) http.Handler {
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = defaultRequestTimeout
	}
	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"*"}
	}

	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(LoggerMiddleware(s.logger))
	r.Use(RecovererMiddleware(s.logger))
	r.Use(middleware.Timeout(opts.RequestTimeout))

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", s.handleHealth)
	if opts.Metrics != nil {
		r.Handle("/metrics", opts.Metrics)
	}

	// Wallets
	r.Post("/create_wallet", s.handleCreateWallet)
	r.Post("/recover_wallet", s.handleRecoverWallet)
	r.Route("/wallet", func(r chi.Router) {
		r.Post("/send", s.handleSend)
		r.Post("/import-and-balance", s.handleImportAndBalance)
		r.Get("/balance/{address}/{currency}", s.handleBalance)
	})

	// Payments
	r.Post("/payment/process", s.handleProcessPayment)
	r.Get("/payment/{session_id}/code", s.handlePaymentCode)

	// Card and explorer
	r.Get("/card/generate", s.handleGenerateCard)
	r.Get("/blockchain/richlist", s.handleRichList)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusNotFound, errorBody("not_found", "route not found"))
	})

	return r
}

func (s *Service) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.db != nil {
		if err := s.db.Ping(r.Context()); err != nil {
			s.logger.Error("Health check failed", zap.Error(err))
			respondJSON(w, http.StatusServiceUnavailable, errorBody("upstream_unavailable", "database unreachable"))
			return
		}
	}
	respondJSON(w, http.StatusOK, healthOK)
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}
