package api

import (
	"net/http"

	"multichain-wallet-gateway-go/internal/apperr"
	"multichain-wallet-gateway-go/internal/chain"
	"multichain-wallet-gateway-go/internal/models"
	"multichain-wallet-gateway-go/internal/wallet"

	"github.com/go-chi/chi/v5"
)

func (s *Service) handleCreateWallet(w http.ResponseWriter, r *http.Request) {
	var req models.CreateWalletRequest
	if err := s.decode(w, r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}
	kind, err := wallet.ParseKind(req.WalletType)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	rec, err := s.wallets.CreateWallet(r.Context(), req.Blockchain, kind)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, models.CreateWalletResponse{
		Address:    rec.Address,
		Mnemonic:   rec.SecretMaterial,
		WalletType: string(rec.Kind),
	})
}

func (s *Service) handleRecoverWallet(w http.ResponseWriter, r *http.Request) {
	var req models.RecoverWalletRequest
	if err := s.decode(w, r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}

	out, err := s.wallets.RecoverWallet(r.Context(), req.Blockchain, req.Mnemonic)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	resp := models.RecoverWalletResponse{
		Address:  out.Address,
		Mnemonic: req.Mnemonic,
		Status:   "success",
	}
	if out.State != nil {
		balance := out.State.Balance
		count := out.State.TransactionCount
		resp.Balance = &balance
		resp.TransactionCount = &count
	}
	respondJSON(w, http.StatusOK, resp)
}

// handleSend answers 202 with status "unknown" when the broadcast outcome
// cannot be determined.
func (s *Service) handleSend(w http.ResponseWriter, r *http.Request) {
	var req models.SendRequest
	if err := s.decode(w, r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}
	id, err := chain.ParseID(req.Blockchain)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if !req.Amount.IsPositive() {
		s.respondError(w, r, apperr.Invalid("amount must be positive"))
		return
	}

	res, err := s.wallets.Send(r.Context(), models.TransferRequest{
		Chain:          id,
		FromAddress:    req.FromAddress,
		ToAddress:      req.ToAddress,
		Amount:         req.Amount,
		SecretMaterial: req.PrivateKey,
	})
	if err != nil {
		if apperr.HasKind(err, apperr.KindOutcomeUnknown) {
			txid := ""
			if res != nil {
				txid = res.TransactionId
			}
			respondJSON(w, http.StatusAccepted, models.SendResponse{TxId: txid, Status: string(models.TransferUnknown)})
			return
		}
		s.respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, models.SendResponse{TxId: res.TransactionId, Status: string(res.Status)})
}

func (s *Service) handleImportAndBalance(w http.ResponseWriter, r *http.Request) {
	var req models.ImportAndBalanceRequest
	if err := s.decode(w, r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}

	out, err := s.wallets.ImportAndBalance(r.Context(), req.Blockchain, req.Mnemonic)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, models.ImportAndBalanceResponse{
		Address:  out.Address,
		Balance:  out.Balance,
		Mnemonic: req.Mnemonic,
	})
}

func (s *Service) handleBalance(w http.ResponseWriter, r *http.Request) {
	address := chi.URLParam(r, "address")
	currency := chi.URLParam(r, "currency")

	balance, err := s.balances.GetBalance(r.Context(), address, currency)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, models.BalanceResponse{
		Address:  address,
		Balance:  balance,
		Currency: currency,
	})
}
