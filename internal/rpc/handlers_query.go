package rpc

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/blackelite/vestd/crypto"
	"github.com/blackelite/vestd/internal/vesting"
)

type scheduleJSON struct {
	Beneficiary   string `json:"beneficiary"`
	Start         int64  `json:"start"`
	CliffAbsolute int64  `json:"cliffAbsolute"`
	Duration      int64  `json:"duration"`
	SliceSeconds  uint8  `json:"sliceSeconds"`
	AmountTotal   string `json:"amountTotal"`
	Released      string `json:"released"`
	Status        string `json:"status"`
	Revokable     bool   `json:"revokable"`
}

func (s *Server) handleScheduleByID(w http.ResponseWriter, r *http.Request) {
	scheduleID, err := parseScheduleID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, nil, codeInvalidParams, "invalid_params", err.Error())
		return
	}
	sched, err := s.engine.ScheduleByID(scheduleID)
	if err != nil {
		writeEngineError(w, nil, err)
		return
	}
	if sched.IsZero() {
		writeError(w, http.StatusNotFound, nil, codeNotFound, "not_found", nil)
		return
	}
	writeResult(w, nil, formatSchedule(sched))
}

func (s *Server) handleScheduleByIndex(w http.ResponseWriter, r *http.Request) {
	beneficiary, err := parseAddress(chi.URLParam(r, "address"))
	if err != nil {
		writeError(w, http.StatusBadRequest, nil, codeInvalidParams, "invalid_params", err.Error())
		return
	}
	index, err := strconv.ParseUint(chi.URLParam(r, "index"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, nil, codeInvalidParams, "invalid_params", err.Error())
		return
	}
	scheduleID, sched, err := s.engine.ScheduleByIndex(beneficiary, index)
	if err != nil {
		writeEngineError(w, nil, err)
		return
	}
	writeResult(w, nil, struct {
		ScheduleID string       `json:"scheduleId"`
		Schedule   scheduleJSON `json:"schedule"`
	}{ScheduleID: hexID(scheduleID), Schedule: formatSchedule(sched)})
}

func (s *Server) handleScheduleCount(w http.ResponseWriter, r *http.Request) {
	beneficiary, err := parseAddress(chi.URLParam(r, "address"))
	if err != nil {
		writeError(w, http.StatusBadRequest, nil, codeInvalidParams, "invalid_params", err.Error())
		return
	}
	count, err := s.engine.ScheduleCount(beneficiary)
	if err != nil {
		writeEngineError(w, nil, err)
		return
	}
	writeResult(w, nil, struct {
		Count uint64 `json:"count"`
	}{Count: count})
}

func (s *Server) handleReleasable(w http.ResponseWriter, r *http.Request) {
	scheduleID, err := parseScheduleID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, nil, codeInvalidParams, "invalid_params", err.Error())
		return
	}
	amount, err := s.engine.Releasable(scheduleID)
	if err != nil {
		writeEngineError(w, nil, err)
		return
	}
	writeResult(w, nil, struct {
		Releasable string `json:"releasable"`
	}{Releasable: amount.String()})
}

func (s *Server) handleWithdrawable(w http.ResponseWriter, r *http.Request) {
	amount, err := s.engine.Withdrawable()
	if err != nil {
		writeEngineError(w, nil, err)
		return
	}
	writeResult(w, nil, struct {
		Withdrawable string `json:"withdrawable"`
	}{Withdrawable: amount.String()})
}

func (s *Server) handleMerkleRoot(w http.ResponseWriter, r *http.Request) {
	root, err := s.engine.MerkleRoot()
	if err != nil {
		writeEngineError(w, nil, err)
		return
	}
	writeResult(w, nil, struct {
		Root string `json:"root"`
	}{Root: hex32(root)})
}

func (s *Server) handleIsClaimed(w http.ResponseWriter, r *http.Request) {
	fp, err := parseHex32(chi.URLParam(r, "fingerprint"))
	if err != nil {
		writeError(w, http.StatusBadRequest, nil, codeInvalidParams, "invalid_params", err.Error())
		return
	}
	claimed, err := s.engine.IsClaimed(fp)
	if err != nil {
		writeEngineError(w, nil, err)
		return
	}
	writeResult(w, nil, struct {
		Claimed bool `json:"claimed"`
	}{Claimed: claimed})
}

func formatSchedule(sched vesting.Schedule) scheduleJSON {
	return scheduleJSON{
		Beneficiary:   crypto.FromArray(crypto.VestPrefix, sched.Beneficiary).String(),
		Start:         sched.Start,
		CliffAbsolute: sched.CliffAbsolute,
		Duration:      sched.Duration,
		SliceSeconds:  sched.SliceSeconds,
		AmountTotal:   sched.AmountTotal.String(),
		Released:      sched.Released.String(),
		Status:        statusLabel(sched.Status),
		Revokable:     sched.Revokable,
	}
}

func statusLabel(status vesting.Status) string {
	switch status {
	case vesting.StatusInitialized:
		return "initialized"
	case vesting.StatusRevoked:
		return "revoked"
	default:
		return "uninitialized"
	}
}
