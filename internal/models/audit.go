package models

import "time"

// Audit operations
const (
	OpCreateWallet     = "create_wallet"
	OpRecoverWallet    = "recover_wallet"
	OpImportAndBalance = "import_and_balance"
	OpSend             = "send"
	OpPaymentSession   = "payment_session"
)

// Audit outcomes
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomeUnknown = "unknown"
)

// AuditEntry is one append-only operational log record. It never holds secret material.
type AuditEntry struct {
	Id        string    `db:"id" json:"id"`
	Operation string    `db:"operation" json:"operation"`
	Chain     string    `db:"chain" json:"chain"`
	Address   string    `db:"address" json:"address"`
	Amount    string    `db:"amount" json:"amount,omitempty"`
	Outcome   string    `db:"outcome" json:"outcome"`
	Detail    string    `db:"detail" json:"detail,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
