package rpc

import (
	"errors"
	"net/http"

	"github.com/blackelite/vestd/internal/access"
	"github.com/blackelite/vestd/internal/merkle"
	"github.com/blackelite/vestd/internal/storage"
	"github.com/blackelite/vestd/internal/token"
	"github.com/blackelite/vestd/internal/vesting"
)

const (
	codeParseError    = -32700
	codeInvalidParams = -32602
	codeUnauthorized  = -32001
	codeModulePaused  = -32050
	codeConflict      = -32010
	codeInternal      = -32000
	codeNotFound      = -32004
	codeInsufficient  = -32005
	codeArithmetic    = -32006
)

// writeEngineError maps a vesting/access/token error onto an HTTP status and
// JSON-RPC-style error code, following the teacher's writeClaimableError
// (rpc_claimable_handlers.go): a single errors.Is switch from domain errors
// to transport status, so handlers never have to reason about status codes
// themselves.
func writeEngineError(w http.ResponseWriter, id interface{}, err error) {
	if err == nil {
		return
	}
	status := http.StatusInternalServerError
	code := codeInternal
	message := "internal_error"

	switch {
	case errors.Is(err, access.ErrUnauthorized):
		status, code, message = http.StatusForbidden, codeUnauthorized, "unauthorized"
	case errors.Is(err, access.ErrPaused):
		status, code, message = http.StatusServiceUnavailable, codeModulePaused, "paused"
	case errors.Is(err, access.ErrReentrantCall):
		status, code, message = http.StatusConflict, codeConflict, "reentrant_call"
	case errors.Is(err, access.ErrNoPendingHandover), errors.Is(err, access.ErrAdminTransferFailed), errors.Is(err, access.ErrInvalidAddress):
		status, code, message = http.StatusBadRequest, codeInvalidParams, "invalid_params"
	case errors.Is(err, merkle.ErrInvalidProof):
		status, code, message = http.StatusBadRequest, codeInvalidParams, "invalid_proof"
	case errors.Is(err, vesting.ErrAlreadyClaimed):
		status, code, message = http.StatusConflict, codeConflict, "already_claimed"
	case errors.Is(err, vesting.ErrScheduleWasRevoked), errors.Is(err, vesting.ErrNotRevokable):
		status, code, message = http.StatusConflict, codeConflict, "conflict"
	case errors.Is(err, vesting.ErrInsufficientReleasableTokens), errors.Is(err, vesting.ErrInsufficientTokensInContract), errors.Is(err, token.ErrInsufficientBalance), errors.Is(err, storage.ErrInsufficientBalance):
		status, code, message = http.StatusConflict, codeInsufficient, "insufficient_funds"
	case errors.Is(err, vesting.ErrIncorrectPayment), errors.Is(err, vesting.ErrPurchasableDisabled):
		status, code, message = http.StatusBadRequest, codeInvalidParams, "invalid_payment"
	case errors.Is(err, vesting.ErrArithmeticOverflow):
		status, code, message = http.StatusBadRequest, codeArithmetic, "arithmetic_overflow"
	case errors.Is(err, vesting.ErrInvalidSchedule), errors.Is(err, vesting.ErrInvalidDuration),
		errors.Is(err, vesting.ErrInvalidAmount), errors.Is(err, vesting.ErrInvalidSlicePeriod),
		errors.Is(err, vesting.ErrInvalidStart), errors.Is(err, vesting.ErrDurationShorterThanCliff):
		status, code, message = http.StatusBadRequest, codeInvalidParams, "invalid_params"
	case errors.Is(err, vesting.ErrNotSupported):
		status, code, message = http.StatusNotImplemented, codeInvalidParams, "not_supported"
	}

	writeError(w, status, id, code, message, err.Error())
}
