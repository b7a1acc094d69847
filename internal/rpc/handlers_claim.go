package rpc

import (
	"net/http"

	"github.com/blackelite/vestd/crypto"
	"github.com/blackelite/vestd/internal/vesting"
)

type claimParams struct {
	Beneficiary  string   `json:"beneficiary"`
	Start        int64    `json:"start"`
	CliffOffset  int64    `json:"cliffOffset"`
	Duration     int64    `json:"duration"`
	SliceSeconds uint8    `json:"sliceSeconds"`
	Revokable    bool     `json:"revokable"`
	Amount       string   `json:"amount"`
	Proof        []string `json:"proof"`
}

func (p claimParams) toEngineParams() (vesting.ClaimParams, error) {
	beneficiary, err := crypto.DecodeAddress(p.Beneficiary)
	if err != nil {
		return vesting.ClaimParams{}, err
	}
	amount, err := parseAmount(p.Amount)
	if err != nil {
		return vesting.ClaimParams{}, err
	}
	proof, err := parseProof(p.Proof)
	if err != nil {
		return vesting.ClaimParams{}, err
	}
	return vesting.ClaimParams{
		Beneficiary:  beneficiary,
		Start:        p.Start,
		CliffOffset:  p.CliffOffset,
		Duration:     p.Duration,
		SliceSeconds: p.SliceSeconds,
		Revokable:    p.Revokable,
		Amount:       amount,
		Proof:        proof,
	}, nil
}

func (s *Server) handleClaim(w http.ResponseWriter, r *http.Request) {
	var p claimParams
	id, parseErr := decodeParams(r, &p)
	if parseErr != nil {
		writeError(w, http.StatusBadRequest, id, parseErr.Code, parseErr.Message, parseErr.Data)
		return
	}
	engineParams, err := p.toEngineParams()
	if err != nil {
		writeError(w, http.StatusBadRequest, id, codeInvalidParams, "invalid_params", err.Error())
		return
	}
	scheduleID, err := s.engine.Claim(engineParams)
	if err != nil {
		writeEngineError(w, id, err)
		return
	}
	writeResult(w, id, scheduleCreatedResult{ScheduleID: hexID(scheduleID)})
}

type claimWithPaymentParams struct {
	claimParams
	Payer   string `json:"payer"`
	Payment string `json:"payment"`
}

func (s *Server) handleClaimWithPayment(w http.ResponseWriter, r *http.Request) {
	var p claimWithPaymentParams
	id, parseErr := decodeParams(r, &p)
	if parseErr != nil {
		writeError(w, http.StatusBadRequest, id, parseErr.Code, parseErr.Message, parseErr.Data)
		return
	}
	engineParams, err := p.claimParams.toEngineParams()
	if err != nil {
		writeError(w, http.StatusBadRequest, id, codeInvalidParams, "invalid_params", err.Error())
		return
	}
	payer, err := parseAddress(p.Payer)
	if err != nil {
		writeError(w, http.StatusBadRequest, id, codeInvalidParams, "invalid_params", err.Error())
		return
	}
	payment, err := parseAmount(p.Payment)
	if err != nil {
		writeError(w, http.StatusBadRequest, id, codeInvalidParams, "invalid_params", err.Error())
		return
	}
	scheduleID, err := s.engine.ClaimWithPayment(engineParams, payer, payment)
	if err != nil {
		writeEngineError(w, id, err)
		return
	}
	writeResult(w, id, scheduleCreatedResult{ScheduleID: hexID(scheduleID)})
}
