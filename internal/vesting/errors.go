package vesting

import "errors"

// Error kinds for schedule creation, release, and lifecycle transitions
// (SPEC_FULL.md §7). Access-control and pause errors live in internal/access;
// proof errors live in internal/merkle.
var (
	// ErrInvalidSchedule is returned when a schedule id resolves to the
	// non-existent sentinel (Duration == 0).
	ErrInvalidSchedule = errors.New("vesting: invalid schedule")
	// ErrInvalidDuration is returned when duration falls outside
	// [7 days, 50*365 days].
	ErrInvalidDuration = errors.New("vesting: invalid duration")
	// ErrInvalidAmount is returned when amount_total is zero or exceeds 2^200.
	ErrInvalidAmount = errors.New("vesting: invalid amount")
	// ErrInvalidSlicePeriod is returned when slice_seconds falls outside
	// [1, 60].
	ErrInvalidSlicePeriod = errors.New("vesting: invalid slice period")
	// ErrInvalidStart is returned when start predates the current block
	// time by more than the configured tolerance, or is more than 30*7 days
	// in the future, per SPEC_FULL.md §4.F.
	ErrInvalidStart = errors.New("vesting: invalid start")
	// ErrDurationShorterThanCliff is returned when duration is less than
	// the configured cliff offset.
	ErrDurationShorterThanCliff = errors.New("vesting: duration shorter than cliff")
	// ErrNotRevokable is returned when Revoke is called against a schedule
	// created with revokable = false.
	ErrNotRevokable = errors.New("vesting: schedule not revokable")
	// ErrScheduleWasRevoked is returned when Release or Revoke targets a
	// schedule that has already been revoked.
	ErrScheduleWasRevoked = errors.New("vesting: schedule was revoked")
	// ErrInsufficientReleasableTokens is returned when Release is called
	// with a requested amount exceeding the currently releasable balance.
	ErrInsufficientReleasableTokens = errors.New("vesting: insufficient releasable tokens")
	// ErrInsufficientTokensInContract is returned when a create or a
	// withdrawal would leave the engine's token balance below the aggregate
	// committed total, which would make a release unbacked.
	ErrInsufficientTokensInContract = errors.New("vesting: insufficient tokens held")
	// ErrAlreadyClaimed is returned when a claim fingerprint is already
	// present in the claim registry.
	ErrAlreadyClaimed = errors.New("vesting: schedule already claimed")
	// ErrNotSupported is returned by the ERC20-shaped transfer surface the
	// reference token adapter exposes; the vesting engine holds tokens in
	// escrow and deliberately does not support arbitrary transfers of them.
	ErrNotSupported = errors.New("vesting: operation not supported")
	// ErrDecimals names a token adapter that reports a decimals value other
	// than 18, which the purchasable-claim price formula assumes. NewEngine
	// does not query Decimals, so no engine method returns this error.
	ErrDecimals = errors.New("vesting: token must use 18 decimals")
	// ErrIncorrectPayment is returned by the purchasable claim variant when
	// the supplied payment does not exactly equal vTokenCost*amount/1e18.
	ErrIncorrectPayment = errors.New("vesting: incorrect payment amount")
	// ErrPurchasableDisabled is returned when ClaimWithPayment is called on
	// an engine with no vTokenCost/paymentReceiver configured.
	ErrPurchasableDisabled = errors.New("vesting: purchasable claim not enabled")
	// ErrArithmeticOverflow is returned when the checked uint256
	// multiply-then-divide in the release formula would overflow 256 bits.
	ErrArithmeticOverflow = errors.New("vesting: arithmetic overflow")
)
