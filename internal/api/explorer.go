package api

import (
	"net/http"
	"strconv"

	"multichain-wallet-gateway-go/internal/aggregator"
	"multichain-wallet-gateway-go/internal/apperr"
	"multichain-wallet-gateway-go/internal/card"
	"multichain-wallet-gateway-go/internal/models"
)

func (s *Service) handleGenerateCard(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	contract := q.Get("smart_contract")
	if contract == "" {
		s.respondError(w, r, apperr.Invalid("smart_contract is required"))
		return
	}
	rawHalf := q.Get("half")
	if rawHalf == "" {
		rawHalf = string(card.FirstHalf)
	}
	half, err := card.ParseHalf(rawHalf)
	if err != nil {
		s.respondError(w, r, apperr.Invalid("%v", err))
		return
	}

	respondJSON(w, http.StatusOK, models.CardResponse{
		CardNumber:    card.Derive(contract, half),
		Bin:           card.BIN,
		SmartContract: contract,
		Half:          string(half),
	})
}

func (s *Service) handleRichList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	count := aggregator.DefaultRichCount
	if raw := q.Get("count"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			s.respondError(w, r, apperr.Invalid("count must be an integer"))
			return
		}
		count = n
	}

	list, err := s.balances.GetRichList(r.Context(), q.Get("blockchain"), count)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, models.RichListResponse{
		Blockchain: string(list.Blockchain),
		Richlist:   list.Entries,
		Available:  list.Available,
		Note:       list.Note,
	})
}
