// Package vesting implements the schedule state machine, the slice-
// quantised release math, and the Merkle-gated claim registry described in
// SPEC_FULL.md §§3-4. The Engine type plays the same role the reference
// repository's native/<module> engines play: it owns no transport and no
// on-disk format, only domain rules over a narrow Store interface.
package vesting

import "math/big"

// Status is the lifecycle state of a schedule. The zero value,
// StatusUninitialized, is also what a caller observes when reading a
// non-existent schedule id (the in-band "Invalid" sentinel of
// SPEC_FULL.md §3, keyed off Duration == 0).
type Status uint8

const (
	StatusUninitialized Status = iota
	StatusInitialized
	StatusRevoked
)

// Schedule is the central vesting record (SPEC_FULL.md §3).
type Schedule struct {
	Beneficiary   [20]byte
	Start         int64
	CliffAbsolute int64
	Duration      int64
	SliceSeconds  uint8
	AmountTotal   *big.Int
	Released      *big.Int
	Status        Status
	Revokable     bool
}

// IsZero reports whether the schedule is the non-existent sentinel: a
// record whose Duration is zero.
func (s Schedule) IsZero() bool {
	return s.Duration == 0
}

// Clone returns a deep copy, defending against callers mutating shared
// *big.Int fields.
func (s Schedule) Clone() Schedule {
	out := s
	if s.AmountTotal != nil {
		out.AmountTotal = new(big.Int).Set(s.AmountTotal)
	} else {
		out.AmountTotal = big.NewInt(0)
	}
	if s.Released != nil {
		out.Released = new(big.Int).Set(s.Released)
	} else {
		out.Released = big.NewInt(0)
	}
	return out
}

// CliffOffset derives the configured cliff offset from the start and the
// absolute cliff time, the inverse of how create() stores it
// (cliff_absolute = start + cliff_offset).
func (s Schedule) CliffOffset() int64 {
	return s.CliffAbsolute - s.Start
}

// Unreleased returns amount_total - released.
func (s Schedule) Unreleased() *big.Int {
	total := s.AmountTotal
	if total == nil {
		total = big.NewInt(0)
	}
	released := s.Released
	if released == nil {
		released = big.NewInt(0)
	}
	return new(big.Int).Sub(total, released)
}

// Aggregate holds the protocol-wide and per-beneficiary committed principal
// totals (SPEC_FULL.md §3). Both are derived values: never stored
// independently of the schedules that back them.
type Aggregate struct {
	CommittedTotal *big.Int
	CommittedBy    map[[20]byte]*big.Int
}

func newAggregate() *Aggregate {
	return &Aggregate{
		CommittedTotal: big.NewInt(0),
		CommittedBy:    make(map[[20]byte]*big.Int),
	}
}
