package store

import (
	"testing"
)

// Compile-time checks that the interfaces are importable and usable.
func TestStoreInterfacesExist(t *testing.T) {
	_ = ErrPaymentCodeNotFound
	_ = ErrDuplicateEntry
	_ = AuditFilter{}

	var _ AuditLog
	var _ AuditReader
	var _ PaymentCodeStore
}
