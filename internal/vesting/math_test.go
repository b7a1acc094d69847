package vesting

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func tokens(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil))
}

func TestReleasableBeforeCliff(t *testing.T) {
	s := Schedule{
		Start:         1000,
		CliffAbsolute: 1000 + 100,
		Duration:      1000,
		SliceSeconds:  1,
		AmountTotal:   tokens(100),
		Released:      big.NewInt(0),
	}
	got, err := Releasable(s, 1050)
	require.NoError(t, err)
	require.Equal(t, big.NewInt(0), got)
}

func TestReleasableQuantizesToSliceBoundary(t *testing.T) {
	s := Schedule{
		Start:         0,
		CliffAbsolute: 0,
		Duration:      1000,
		SliceSeconds:  100,
		AmountTotal:   tokens(1000),
		Released:      big.NewInt(0),
	}
	// elapsed=250 quantizes down to 200/1000 = 20% vested.
	got, err := Releasable(s, 250)
	require.NoError(t, err)
	require.Equal(t, tokens(200), got)
}

func TestReleasableFullyVestedAtDurationEnd(t *testing.T) {
	s := Schedule{
		Start:         0,
		CliffAbsolute: 0,
		Duration:      1000,
		SliceSeconds:  1,
		AmountTotal:   tokens(500),
		Released:      big.NewInt(0),
	}
	got, err := Releasable(s, 1000)
	require.NoError(t, err)
	require.Equal(t, tokens(500), got)

	got, err = Releasable(s, 50000)
	require.NoError(t, err)
	require.Equal(t, tokens(500), got)
}

func TestReleasableSubtractsAlreadyReleased(t *testing.T) {
	s := Schedule{
		Start:         0,
		CliffAbsolute: 0,
		Duration:      1000,
		SliceSeconds:  1,
		AmountTotal:   tokens(1000),
		Released:      tokens(200),
	}
	got, err := Releasable(s, 1000)
	require.NoError(t, err)
	require.Equal(t, tokens(800), got)
}

func TestReleasableRejectsNonExistentSchedule(t *testing.T) {
	_, err := Releasable(Schedule{}, 100)
	require.ErrorIs(t, err, ErrInvalidSchedule)
}

func TestReleasableRejectsZeroSlicePeriod(t *testing.T) {
	s := Schedule{
		Start:        0,
		Duration:     1000,
		SliceSeconds: 0,
		AmountTotal:  tokens(1),
		Released:     big.NewInt(0),
	}
	_, err := Releasable(s, 500)
	require.ErrorIs(t, err, ErrInvalidSlicePeriod)
}

func TestMulDivOverflowRejected(t *testing.T) {
	max256 := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))
	_, err := mulDiv(max256, max256, big.NewInt(1))
	require.ErrorIs(t, err, ErrArithmeticOverflow)
}

func TestPurchasePriceExactDivision(t *testing.T) {
	// vTokenCost of 2 full tokens (1e18 scale) per unit, amount of 10 tokens.
	price, err := PurchasePrice(tokens(2), tokens(10))
	require.NoError(t, err)
	require.Equal(t, tokens(20), price)
}
