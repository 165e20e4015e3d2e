package api

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"multichain-wallet-gateway-go/internal/models"

	"github.com/go-chi/chi/v5"
)

func (s *Service) handleProcessPayment(w http.ResponseWriter, r *http.Request) {
	var req models.PaymentRequest
	if err := s.decode(w, r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}

	session, err := s.payments.CreateSession(r.Context(), models.SessionRequest{
		Amount:             req.Amount,
		SettlementCurrency: req.Currency,
		CustomerEmail:      req.CustomerEmail,
		Method:             models.PaymentMethod(req.PaymentMethod),
		CryptoCurrency:     req.CryptoCurrency,
		FiatCurrency:       req.FiatCurrency,
		Metadata:           stringMetadata(req.Metadata),
	})
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	resp := models.PaymentResponse{
		PaymentAddress: session.PayToAddress,
		Amount:         session.RequestedAmount,
		StatusURL:      session.StatusURL,
		CheckoutURL:    session.CheckoutURL,
		TransactionId:  session.SessionId,
		PaymentMethod:  string(session.Method),
		CryptoCurrency: session.CryptoCurrency,
		FiatCurrency:   session.FiatCurrency,
	}
	if session.PaymentCode != nil {
		resp.PaymentCode = "/payment/" + url.PathEscape(session.SessionId) + "/code"
		resp.PaymentURI = session.PaymentCode.URI
	}
	respondJSON(w, http.StatusOK, resp)
}

func (s *Service) handlePaymentCode(w http.ResponseWriter, r *http.Request) {
	code, err := s.payments.PaymentCode(r.Context(), chi.URLParam(r, "session_id"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(code.PNG)))
	w.Header().Set("X-Payment-URI", code.URI)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(code.PNG)
}

func stringMetadata(in map[string]any) map[string]string {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string]string, len(in))
	for k, v := range in {
		switch val := v.(type) {
		case nil:
		case string:
			out[k] = val
		default:
			out[k] = fmt.Sprint(val)
		}
	}
	return out
}
