package wallet

import (
	"context"
	"strings"
	"time"

	"multichain-wallet-gateway-go/internal/apperr"
	"multichain-wallet-gateway-go/internal/chain"
	"multichain-wallet-gateway-go/internal/metrics"
	"multichain-wallet-gateway-go/internal/models"
	"multichain-wallet-gateway-go/internal/store"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	DefaultTimeout = 10 * time.Second
	auditTimeout   = 5 * time.Second
)

// Custodian creates wallets held by a custody provider.
type Custodian interface {
	CreateWallet(ctx context.Context, chain models.ChainID) (*models.WalletRecord, error)
}

// Orchestrator dispatches wallet operations to the chain adapters and records
// every attempt in the audit log. Secret material is never logged or audited.
type Orchestrator struct {
	registry  *chain.Registry
	custodian Custodian
	audit     store.AuditLog
	metrics   metrics.Recorder
	timeout   time.Duration
	logger    *zap.Logger
}

type Option func(*Orchestrator)

// WithCustodian enables custodial wallet creation.
func WithCustodian(c Custodian) Option {
	return func(o *Orchestrator) { o.custodian = c }
}

func WithMetrics(r metrics.Recorder) Option {
	return func(o *Orchestrator) { o.metrics = r }
}

// WithTimeout bounds every upstream call made on behalf of one operation.
func WithTimeout(d time.Duration) Option {
	return func(o *Orchestrator) {
		if d > 0 {
			o.timeout = d
		}
	}
}

func NewOrchestrator(registry *chain.Registry, audit store.AuditLog, logger *zap.Logger, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		registry: registry,
		audit:    audit,
		metrics:  metrics.NoopRecorder{},
		timeout:  DefaultTimeout,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// ParseKind maps a wallet_type value to a WalletKind. Empty means standard;
// "knox" is accepted for custodial.
func ParseKind(s string) (models.WalletKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(models.WalletStandard):
		return models.WalletStandard, nil
	case string(models.WalletCustodial), "knox":
		return models.WalletCustodial, nil
	default:
		return "", apperr.Invalid("unsupported wallet type %q", s)
	}
}

// CreateWallet generates a new wallet on the requested chain.
func (o *Orchestrator) CreateWallet(ctx context.Context, rawChain string, kind models.WalletKind) (rec *models.WalletRecord, err error) {
	adapter, err := o.registry.Resolve(rawChain)
	if err != nil {
		return nil, err
	}
	id := adapter.ID()

	start := time.Now()
	defer func() {
		o.finish(ctx, models.OpCreateWallet, id, addressOf(rec), "", start, err)
	}()

	switch kind {
	case models.WalletCustodial:
		if o.custodian == nil {
			return nil, apperr.NotAvailable("custodial wallets are not enabled")
		}
		ctx, cancel := context.WithTimeout(ctx, o.timeout)
		defer cancel()
		return o.custodian.CreateWallet(ctx, id)
	case models.WalletStandard, "":
		return adapter.CreateWallet(ctx)
	default:
		return nil, apperr.Invalid("unsupported wallet type %q", kind)
	}
}

// RecoverWallet derives the wallet controlled by secret and, when the chain
// can report it, attaches its on-chain state. Enrichment failures are logged.
func (o *Orchestrator) RecoverWallet(ctx context.Context, rawChain, secret string) (out *models.RecoveredWallet, err error) {
	adapter, err := o.registry.Resolve(rawChain)
	if err != nil {
		return nil, err
	}
	id := adapter.ID()

	start := time.Now()
	var address string
	defer func() {
		o.finish(ctx, models.OpRecoverWallet, id, address, "", start, err)
	}()

	rec, err := adapter.RecoverWallet(ctx, secret)
	if err != nil {
		return nil, err
	}
	address = rec.Address
	out = &models.RecoveredWallet{WalletRecord: *rec}

	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()
	state, stateErr := adapter.Account(ctx, rec.Address)
	if stateErr != nil {
		o.logger.Warn("Failed to fetch account state",
			zap.String("chain", string(id)),
			zap.String("address", rec.Address),
			zap.Error(stateErr))
		return out, nil
	}
	out.State = state
	return out, nil
}

// ImportAndBalance recovers a wallet and fetches its balance. The balance is
// nil when the source is unreachable.
func (o *Orchestrator) ImportAndBalance(ctx context.Context, rawChain, secret string) (out *models.ImportedWallet, err error) {
	adapter, err := o.registry.Resolve(rawChain)
	if err != nil {
		return nil, err
	}
	id := adapter.ID()

	start := time.Now()
	var address string
	defer func() {
		o.finish(ctx, models.OpImportAndBalance, id, address, "", start, err)
	}()

	rec, err := adapter.RecoverWallet(ctx, secret)
	if err != nil {
		return nil, err
	}
	address = rec.Address
	out = &models.ImportedWallet{WalletRecord: *rec}

	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()
	balance, balErr := adapter.Balance(ctx, rec.Address)
	if balErr != nil {
		o.logger.Warn("Failed to fetch balance",
			zap.String("chain", string(id)),
			zap.String("address", rec.Address),
			zap.Error(balErr))
		return out, nil
	}
	out.Balance = &balance
	return out, nil
}

// Send signs and broadcasts a transfer exactly once. On failure the returned
// result, when non-nil, says whether the broadcast failed or its outcome is unknown.
func (o *Orchestrator) Send(ctx context.Context, req models.TransferRequest) (res *models.TransferResult, err error) {
	adapter, err := o.registry.Get(req.Chain)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	defer func() {
		o.finish(ctx, models.OpSend, req.Chain, req.FromAddress, req.Amount.String(), start, err)
	}()

	if err := chain.ValidateTransfer(req); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	res, err = adapter.Send(ctx, req)
	if err != nil {
		o.logger.Warn("Transfer failed",
			zap.String("chain", string(req.Chain)),
			zap.String("from", req.FromAddress),
			zap.String("to", req.ToAddress),
			zap.String("amount", req.Amount.String()),
			zap.String("kind", string(apperr.KindOf(err))),
			zap.Error(err))
		return res, err
	}

	o.logger.Info("Transfer broadcast",
		zap.String("chain", string(req.Chain)),
		zap.String("txid", res.TransactionId),
		zap.String("from", req.FromAddress),
		zap.String("to", req.ToAddress),
		zap.String("amount", req.Amount.String()))
	return res, nil
}

// finish records metrics and appends the audit entry for one operation.
// Audit write failures are logged and never change the operation's result.
func (o *Orchestrator) finish(ctx context.Context, op string, id models.ChainID, address, amount string, start time.Time, opErr error) {
	outcome := outcomeOf(opErr)
	labels := map[string]string{metrics.LabelChain: string(id), metrics.LabelOutcome: outcome}
	o.metrics.IncCounter(op, labels)
	o.metrics.ObserveLatency(op, time.Since(start), labels)

	entry := models.AuditEntry{
		Id:        uuid.New().String(),
		Operation: op,
		Chain:     string(id),
		Address:   address,
		Amount:    amount,
		Outcome:   outcome,
		CreatedAt: time.Now().UTC(),
	}
	if opErr != nil {
		entry.Detail = opErr.Error()
	}

	if o.audit == nil {
		return
	}
	auditCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), auditTimeout)
	defer cancel()
	if err := o.audit.Append(auditCtx, entry); err != nil {
		o.logger.Error("Failed to append audit entry",
			zap.String("operation", op),
			zap.String("audit_id", entry.Id),
			zap.Error(err))
	}
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return models.OutcomeSuccess
	case apperr.HasKind(err, apperr.KindOutcomeUnknown):
		return models.OutcomeUnknown
	default:
		return models.OutcomeFailure
	}
}

func addressOf(rec *models.WalletRecord) string {
	if rec == nil {
		return ""
	}
	return rec.Address
}
