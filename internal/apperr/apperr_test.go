package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{UnsupportedChain("xrp"), http.StatusBadRequest},
		{Invalid("amount must be positive"), http.StatusBadRequest},
		{Unavailable(errors.New("dial tcp: timeout"), "explorer unreachable"), http.StatusServiceUnavailable},
		{Rejected(errors.New("insufficient funds"), "node rejected transaction"), http.StatusUnprocessableEntity},
		{NotAvailable("richlist not available for ETH"), http.StatusNotImplemented},
		{New(KindOutcomeUnknown, "broadcast interrupted"), http.StatusAccepted},
		{Wrap(KindPaymentSession, errors.New("boom"), "create session"), http.StatusBadGateway},
		{New(KindNotFound, "missing"), http.StatusNotFound},
		{errors.New("plain"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, HTTPStatus(tt.err), tt.err.Error())
	}
}

func TestKindOfWrapped(t *testing.T) {
	base := Unavailable(errors.New("connection refused"), "gateway unreachable")
	wrapped := fmt.Errorf("creating session: %w", base)

	assert.Equal(t, KindUpstreamUnavailable, KindOf(wrapped))
	assert.True(t, HasKind(wrapped, KindUpstreamUnavailable))
	assert.False(t, HasKind(nil, KindUpstreamUnavailable))
	assert.True(t, errors.Is(wrapped, &Error{Kind: KindUpstreamUnavailable}))
	assert.False(t, errors.Is(wrapped, &Error{Kind: KindUpstreamRejected}))
}

func TestErrorMessage(t *testing.T) {
	assert.Equal(t, `unsupported blockchain "xrp"`, UnsupportedChain("xrp").Error())
	assert.Equal(t, "gateway unreachable: connection refused",
		Unavailable(errors.New("connection refused"), "gateway unreachable").Error())
	assert.Equal(t, "connection refused", Wrap(KindInternal, errors.New("connection refused"), "").Error())
}
