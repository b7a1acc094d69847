package rpc

import (
	"net/http"

	"github.com/blackelite/vestd/crypto"
	"github.com/blackelite/vestd/internal/access"
)

type createParams struct {
	Beneficiary  string `json:"beneficiary"`
	Start        int64  `json:"start"`
	CliffOffset  int64  `json:"cliffOffset"`
	Duration     int64  `json:"duration"`
	SliceSeconds uint8  `json:"sliceSeconds"`
	Amount       string `json:"amount"`
	Revokable    bool   `json:"revokable"`
}

type scheduleCreatedResult struct {
	ScheduleID string `json:"scheduleId"`
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var p createParams
	id, parseErr := decodeParams(r, &p)
	if parseErr != nil {
		writeError(w, http.StatusBadRequest, id, parseErr.Code, parseErr.Message, parseErr.Data)
		return
	}
	beneficiary, err := crypto.DecodeAddress(p.Beneficiary)
	if err != nil {
		writeError(w, http.StatusBadRequest, id, codeInvalidParams, "invalid_params", err.Error())
		return
	}
	amount, err := parseAmount(p.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, id, codeInvalidParams, "invalid_params", err.Error())
		return
	}
	caller := callerFromContext(r.Context())
	scheduleID, err := s.engine.Create(caller, beneficiary, p.Start, p.CliffOffset, p.Duration, p.SliceSeconds, amount, p.Revokable)
	if err != nil {
		writeEngineError(w, id, err)
		return
	}
	writeResult(w, id, scheduleCreatedResult{ScheduleID: hexID(scheduleID)})
}

type scheduleIDParams struct {
	ScheduleID string `json:"scheduleId"`
}

type releaseParams struct {
	ScheduleID string `json:"scheduleId"`
	Amount     string `json:"amount"`
}

func (s *Server) handleRelease(w http.ResponseWriter, r *http.Request) {
	var p releaseParams
	id, parseErr := decodeParams(r, &p)
	if parseErr != nil {
		writeError(w, http.StatusBadRequest, id, parseErr.Code, parseErr.Message, parseErr.Data)
		return
	}
	scheduleID, err := parseScheduleID(p.ScheduleID)
	if err != nil {
		writeError(w, http.StatusBadRequest, id, codeInvalidParams, "invalid_params", err.Error())
		return
	}
	amount, err := parseAmount(p.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, id, codeInvalidParams, "invalid_params", err.Error())
		return
	}
	if err := s.engine.Release(scheduleID, amount); err != nil {
		writeEngineError(w, id, err)
		return
	}
	writeResult(w, id, okResult{OK: true})
}

func (s *Server) handleReleaseAll(w http.ResponseWriter, r *http.Request) {
	var p scheduleIDParams
	id, parseErr := decodeParams(r, &p)
	if parseErr != nil {
		writeError(w, http.StatusBadRequest, id, parseErr.Code, parseErr.Message, parseErr.Data)
		return
	}
	scheduleID, err := parseScheduleID(p.ScheduleID)
	if err != nil {
		writeError(w, http.StatusBadRequest, id, codeInvalidParams, "invalid_params", err.Error())
		return
	}
	if err := s.engine.ReleaseAll(scheduleID); err != nil {
		writeEngineError(w, id, err)
		return
	}
	writeResult(w, id, okResult{OK: true})
}

func (s *Server) handleRevoke(w http.ResponseWriter, r *http.Request) {
	var p scheduleIDParams
	id, parseErr := decodeParams(r, &p)
	if parseErr != nil {
		writeError(w, http.StatusBadRequest, id, parseErr.Code, parseErr.Message, parseErr.Data)
		return
	}
	scheduleID, err := parseScheduleID(p.ScheduleID)
	if err != nil {
		writeError(w, http.StatusBadRequest, id, codeInvalidParams, "invalid_params", err.Error())
		return
	}
	caller := callerFromContext(r.Context())
	if err := s.engine.Revoke(caller, scheduleID); err != nil {
		writeEngineError(w, id, err)
		return
	}
	writeResult(w, id, okResult{OK: true})
}

type withdrawParams struct {
	To     string `json:"to"`
	Amount string `json:"amount"`
}

func (s *Server) handleWithdraw(w http.ResponseWriter, r *http.Request) {
	var p withdrawParams
	id, parseErr := decodeParams(r, &p)
	if parseErr != nil {
		writeError(w, http.StatusBadRequest, id, parseErr.Code, parseErr.Message, parseErr.Data)
		return
	}
	to, err := parseAddress(p.To)
	if err != nil {
		writeError(w, http.StatusBadRequest, id, codeInvalidParams, "invalid_params", err.Error())
		return
	}
	amount, err := parseAmount(p.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, id, codeInvalidParams, "invalid_params", err.Error())
		return
	}
	caller := callerFromContext(r.Context())
	if err := s.engine.Withdraw(caller, to, amount); err != nil {
		writeEngineError(w, id, err)
		return
	}
	writeResult(w, id, okResult{OK: true})
}

type merkleRootParams struct {
	Root string `json:"root"`
}

func (s *Server) handleSetMerkleRoot(w http.ResponseWriter, r *http.Request) {
	var p merkleRootParams
	id, parseErr := decodeParams(r, &p)
	if parseErr != nil {
		writeError(w, http.StatusBadRequest, id, parseErr.Code, parseErr.Message, parseErr.Data)
		return
	}
	root, err := parseHex32(p.Root)
	if err != nil {
		writeError(w, http.StatusBadRequest, id, codeInvalidParams, "invalid_params", err.Error())
		return
	}
	caller := callerFromContext(r.Context())
	if err := s.engine.SetMerkleRoot(caller, root); err != nil {
		writeEngineError(w, id, err)
		return
	}
	writeResult(w, id, okResult{OK: true})
}

type vTokenCostParams struct {
	Cost string `json:"cost"`
}

func (s *Server) handleSetVTokenCost(w http.ResponseWriter, r *http.Request) {
	var p vTokenCostParams
	id, parseErr := decodeParams(r, &p)
	if parseErr != nil {
		writeError(w, http.StatusBadRequest, id, parseErr.Code, parseErr.Message, parseErr.Data)
		return
	}
	cost, err := parseAmount(p.Cost)
	if err != nil {
		writeError(w, http.StatusBadRequest, id, codeInvalidParams, "invalid_params", err.Error())
		return
	}
	caller := callerFromContext(r.Context())
	if err := s.engine.SetVTokenCost(caller, cost); err != nil {
		writeEngineError(w, id, err)
		return
	}
	writeResult(w, id, okResult{OK: true})
}

type paymentReceiverParams struct {
	Receiver string `json:"receiver"`
}

func (s *Server) handleSetPaymentReceiver(w http.ResponseWriter, r *http.Request) {
	var p paymentReceiverParams
	id, parseErr := decodeParams(r, &p)
	if parseErr != nil {
		writeError(w, http.StatusBadRequest, id, parseErr.Code, parseErr.Message, parseErr.Data)
		return
	}
	receiver, err := parseAddress(p.Receiver)
	if err != nil {
		writeError(w, http.StatusBadRequest, id, codeInvalidParams, "invalid_params", err.Error())
		return
	}
	caller := callerFromContext(r.Context())
	if err := s.engine.SetPaymentReceiver(caller, receiver); err != nil {
		writeEngineError(w, id, err)
		return
	}
	writeResult(w, id, okResult{OK: true})
}

type roleParams struct {
	Address string `json:"address"`
	Role    string `json:"role"`
}

func (s *Server) handleGrantRole(w http.ResponseWriter, r *http.Request) {
	s.handleRoleChange(w, r, (*access.Control).GrantRole)
}

func (s *Server) handleRevokeRole(w http.ResponseWriter, r *http.Request) {
	s.handleRoleChange(w, r, (*access.Control).RevokeRole)
}

func (s *Server) handleRoleChange(w http.ResponseWriter, r *http.Request, apply func(*access.Control, crypto.Address, crypto.Address, access.Role) error) {
	var p roleParams
	id, parseErr := decodeParams(r, &p)
	if parseErr != nil {
		writeError(w, http.StatusBadRequest, id, parseErr.Code, parseErr.Message, parseErr.Data)
		return
	}
	addr, err := crypto.DecodeAddress(p.Address)
	if err != nil {
		writeError(w, http.StatusBadRequest, id, codeInvalidParams, "invalid_params", err.Error())
		return
	}
	role, err := parseRole(p.Role)
	if err != nil {
		writeError(w, http.StatusBadRequest, id, codeInvalidParams, "invalid_params", err.Error())
		return
	}
	caller := callerFromContext(r.Context())
	if err := apply(s.ctrl, caller, addr, role); err != nil {
		writeEngineError(w, id, err)
		return
	}
	writeResult(w, id, okResult{OK: true})
}

func parseRole(raw string) (access.Role, error) {
	switch raw {
	case "admin":
		return access.RoleAdmin, nil
	case "schedule_creator":
		return access.RoleScheduleCreator, nil
	default:
		return 0, errUnknownRole
	}
}

func (s *Server) handlePause(w http.ResponseWriter, r *http.Request) {
	caller := callerFromContext(r.Context())
	if err := s.ctrl.Pause(caller); err != nil {
		writeEngineError(w, nil, err)
		return
	}
	writeResult(w, nil, okResult{OK: true})
}

func (s *Server) handleUnpause(w http.ResponseWriter, r *http.Request) {
	caller := callerFromContext(r.Context())
	if err := s.ctrl.Unpause(caller); err != nil {
		writeEngineError(w, nil, err)
		return
	}
	writeResult(w, nil, okResult{OK: true})
}

type handoverParams struct {
	Nominee string `json:"nominee"`
}

func (s *Server) handleBeginHandover(w http.ResponseWriter, r *http.Request) {
	var p handoverParams
	id, parseErr := decodeParams(r, &p)
	if parseErr != nil {
		writeError(w, http.StatusBadRequest, id, parseErr.Code, parseErr.Message, parseErr.Data)
		return
	}
	nominee, err := crypto.DecodeAddress(p.Nominee)
	if err != nil {
		writeError(w, http.StatusBadRequest, id, codeInvalidParams, "invalid_params", err.Error())
		return
	}
	caller := callerFromContext(r.Context())
	if err := s.ctrl.BeginAdminHandover(caller, nominee); err != nil {
		writeEngineError(w, id, err)
		return
	}
	writeResult(w, id, okResult{OK: true})
}

func (s *Server) handleCancelHandover(w http.ResponseWriter, r *http.Request) {
	caller := callerFromContext(r.Context())
	if err := s.ctrl.CancelAdminHandover(caller); err != nil {
		writeEngineError(w, nil, err)
		return
	}
	writeResult(w, nil, okResult{OK: true})
}

func (s *Server) handleAcceptHandover(w http.ResponseWriter, r *http.Request) {
	caller := callerFromContext(r.Context())
	if err := s.ctrl.AcceptAdminHandover(caller); err != nil {
		writeEngineError(w, nil, err)
		return
	}
	writeResult(w, nil, okResult{OK: true})
}

type okResult struct {
	OK bool `json:"ok"`
}
