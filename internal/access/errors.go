package access

import "errors"

var (
	// ErrUnauthorized is returned when the caller does not hold the role
	// required for the requested operation.
	ErrUnauthorized = errors.New("access: caller unauthorized")
	// ErrPaused is returned by the create and claim paths while the module
	// is paused.
	ErrPaused = errors.New("access: module paused")
	// ErrReentrantCall is returned when a value-moving entry point is
	// re-entered before its guard has been released.
	ErrReentrantCall = errors.New("access: reentrant call rejected")
	// ErrAdminTransferFailed is returned when acceptance of a pending
	// admin handover is attempted by anyone other than the nominee.
	ErrAdminTransferFailed = errors.New("access: handover nominee mismatch")
	// ErrInvalidAddress is returned when a zero address is supplied where
	// a concrete identity is required (nominee, payment receiver, role
	// grantee).
	ErrInvalidAddress = errors.New("access: invalid address")
	// ErrNoPendingHandover is returned when accepting or cancelling a
	// handover that was never begun.
	ErrNoPendingHandover = errors.New("access: no pending handover")
)
