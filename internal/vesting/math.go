package vesting

import (
	"math/big"

	"github.com/holiman/uint256"
)

// Releasable computes the amount currently available to release for s at
// time now, per SPEC_FULL.md §4.E:
//
//	if now < cliff_absolute:      0
//	if now >= start + duration:   amount_total - released
//	otherwise:                    floor(amount_total * quantizedElapsed / duration) - released
//
// quantizedElapsed truncates elapsed time down to the nearest whole
// slice_seconds boundary, so tokens only become releasable at slice edges.
// The multiply happens before the divide (mulDiv), exactly as an on-chain
// evaluator using 256-bit fixed-width arithmetic would, so that an
// off-chain proof generator computing the same formula agrees bit-for-bit.
func Releasable(s Schedule, now int64) (*big.Int, error) {
	if s.IsZero() {
		return nil, ErrInvalidSchedule
	}
	if now < s.CliffAbsolute {
		return big.NewInt(0), nil
	}
	vested, err := vestedAt(s, now)
	if err != nil {
		return nil, err
	}
	released := s.Released
	if released == nil {
		released = big.NewInt(0)
	}
	out := new(big.Int).Sub(vested, released)
	if out.Sign() < 0 {
		return big.NewInt(0), nil
	}
	return out, nil
}

// vestedAt returns the cumulative amount vested as of now, ignoring what has
// already been released.
func vestedAt(s Schedule, now int64) (*big.Int, error) {
	elapsed := now - s.Start
	if elapsed < 0 {
		elapsed = 0
	}
	if elapsed >= s.Duration {
		total := s.AmountTotal
		if total == nil {
			total = big.NewInt(0)
		}
		return new(big.Int).Set(total), nil
	}
	slice := int64(s.SliceSeconds)
	if slice <= 0 {
		return nil, ErrInvalidSlicePeriod
	}
	quantized := (elapsed / slice) * slice
	return mulDiv(s.AmountTotal, big.NewInt(quantized), big.NewInt(s.Duration))
}

// mulDiv computes floor(amount*numerator/denominator) using a checked
// 256-bit multiply (github.com/holiman/uint256) so that an overflow past
// 2^256-1 is rejected rather than silently truncated, matching the
// semantics of an on-chain fixed-width evaluator. math/big.Int is used at
// the function boundary since the rest of the engine operates on it.
func mulDiv(amount, numerator, denominator *big.Int) (*big.Int, error) {
	if denominator.Sign() == 0 {
		return nil, ErrInvalidDuration
	}
	amt := amount
	if amt == nil {
		amt = big.NewInt(0)
	}
	a, overflow := uint256.FromBig(amt)
	if overflow {
		return nil, ErrInvalidAmount
	}
	n, overflow := uint256.FromBig(numerator)
	if overflow {
		return nil, ErrInvalidDuration
	}
	product, overflow := new(uint256.Int).MulOverflow(a, n)
	if overflow {
		return nil, ErrArithmeticOverflow
	}
	d, overflow := uint256.FromBig(denominator)
	if overflow {
		return nil, ErrInvalidDuration
	}
	product.Div(product, d)
	return product.ToBig(), nil
}

// PurchasePrice computes price = vTokenCost*amount/1e18 for the optional
// purchasable claim variant (SPEC_FULL.md §4.H), using the same checked
// mulDiv as the release formula.
func PurchasePrice(vTokenCost, amount *big.Int) (*big.Int, error) {
	denom := new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)
	return mulDiv(vTokenCost, amount, denom)
}
