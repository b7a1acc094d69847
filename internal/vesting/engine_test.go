package vesting

import (
	"math/big"
	"testing"

	"github.com/blackelite/vestd/crypto"
	"github.com/blackelite/vestd/internal/access"
	"github.com/blackelite/vestd/internal/events"
	"github.com/blackelite/vestd/internal/token"
	"github.com/stretchr/testify/require"
)

type testHarness struct {
	engine *Engine
	tok    *token.Mock
	ctrl   *access.Control
	now    int64
}

func addr(b byte) crypto.Address {
	var arr [20]byte
	arr[19] = b
	return crypto.FromArray(crypto.VestPrefix, arr)
}

func newHarness(t *testing.T, adminAddr crypto.Address, fundedTokens int64) *testHarness {
	t.Helper()
	store := access.NewMemRoleStore(adminAddr.Array())
	ctrl := access.NewControl(store)

	var engineAddr [20]byte
	engineAddr[19] = 0xEE

	tok := token.NewMock(18, engineAddr, map[[20]byte]*big.Int{
		engineAddr: tokens(fundedTokens),
	})

	h := &testHarness{tok: tok, ctrl: ctrl, now: 1_700_000_000}
	clock := func() int64 { return h.now }

	h.engine = NewEngine(newMemStore(), ctrl, tok, events.NoopEmitter{}, clock, engineAddr)
	return h
}

const (
	day         = int64(86400)
	sevenDays   = 7 * day
	fiftyYears  = 50 * 365 * day
	thirtyWeeks = 30 * 7 * day
)

func TestCreateRequiresScheduleCreatorRole(t *testing.T) {
	adminAddr := addr(1)
	stranger := addr(9)
	h := newHarness(t, adminAddr, 1000)

	beneficiary := addr(2)
	_, err := h.engine.Create(stranger, beneficiary, h.now, 0, sevenDays, 1, tokens(100), true)
	require.ErrorIs(t, err, access.ErrUnauthorized)

	_, err = h.engine.Create(adminAddr, beneficiary, h.now, 0, sevenDays, 1, tokens(100), true)
	require.NoError(t, err)
}

func TestCreateRejectsWhenPaused(t *testing.T) {
	adminAddr := addr(1)
	h := newHarness(t, adminAddr, 1000)
	require.NoError(t, h.ctrl.Pause(adminAddr))

	_, err := h.engine.Create(adminAddr, addr(2), h.now, 0, sevenDays, 1, tokens(100), true)
	require.ErrorIs(t, err, access.ErrPaused)
}

func TestCreateRejectsInsufficientEscrow(t *testing.T) {
	adminAddr := addr(1)
	h := newHarness(t, adminAddr, 50)
	_, err := h.engine.Create(adminAddr, addr(2), h.now, 0, sevenDays, 1, tokens(100), true)
	require.ErrorIs(t, err, ErrInsufficientTokensInContract)
}

func TestCreateRejectsDurationBelowMinimum(t *testing.T) {
	adminAddr := addr(1)
	h := newHarness(t, adminAddr, 1000)
	_, err := h.engine.Create(adminAddr, addr(2), h.now, 0, sevenDays-1, 1, tokens(100), true)
	require.ErrorIs(t, err, ErrInvalidDuration)
}

func TestCreateRejectsDurationAboveMaximum(t *testing.T) {
	adminAddr := addr(1)
	h := newHarness(t, adminAddr, 1000)
	_, err := h.engine.Create(adminAddr, addr(2), h.now, 0, fiftyYears+1, 1, tokens(100), true)
	require.ErrorIs(t, err, ErrInvalidDuration)
}

func TestCreateAcceptsDurationAtBoundaries(t *testing.T) {
	adminAddr := addr(1)
	h := newHarness(t, adminAddr, 1000)
	_, err := h.engine.Create(adminAddr, addr(2), h.now, 0, sevenDays, 1, tokens(1), true)
	require.NoError(t, err)
	_, err = h.engine.Create(adminAddr, addr(3), h.now, 0, fiftyYears, 1, tokens(1), true)
	require.NoError(t, err)
}

func TestCreateRejectsSliceSecondsOutOfRange(t *testing.T) {
	adminAddr := addr(1)
	h := newHarness(t, adminAddr, 1000)
	_, err := h.engine.Create(adminAddr, addr(2), h.now, 0, sevenDays, 0, tokens(100), true)
	require.ErrorIs(t, err, ErrInvalidSlicePeriod)
	_, err = h.engine.Create(adminAddr, addr(2), h.now, 0, sevenDays, 61, tokens(100), true)
	require.ErrorIs(t, err, ErrInvalidSlicePeriod)
}

func TestCreateAcceptsSliceSecondsAtBoundaries(t *testing.T) {
	adminAddr := addr(1)
	h := newHarness(t, adminAddr, 1000)
	_, err := h.engine.Create(adminAddr, addr(2), h.now, 0, sevenDays, 1, tokens(1), true)
	require.NoError(t, err)
	_, err = h.engine.Create(adminAddr, addr(3), h.now, 0, sevenDays, 60, tokens(1), true)
	require.NoError(t, err)
}

func TestCreateRejectsAmountAboveMaximum(t *testing.T) {
	adminAddr := addr(1)
	h := newHarness(t, adminAddr, 1000)
	over := new(big.Int).Add(maxAmount, big.NewInt(1))
	_, err := h.engine.Create(adminAddr, addr(2), h.now, 0, sevenDays, 1, over, true)
	require.ErrorIs(t, err, ErrInvalidAmount)
}

func TestCreateRejectsStartTooFarInFuture(t *testing.T) {
	adminAddr := addr(1)
	h := newHarness(t, adminAddr, 1000)
	_, err := h.engine.Create(adminAddr, addr(2), h.now+thirtyWeeks, 0, sevenDays, 1, tokens(1), true)
	require.NoError(t, err)

	_, err = h.engine.Create(adminAddr, addr(3), h.now+thirtyWeeks+1, 0, sevenDays, 1, tokens(1), true)
	require.ErrorIs(t, err, ErrInvalidStart)
}

func TestCreateRejectsCliffLongerThanDuration(t *testing.T) {
	adminAddr := addr(1)
	h := newHarness(t, adminAddr, 1000)
	_, err := h.engine.Create(adminAddr, addr(2), h.now, sevenDays+1, sevenDays, 1, tokens(100), true)
	require.ErrorIs(t, err, ErrDurationShorterThanCliff)
}

func TestReleaseHappyPath(t *testing.T) {
	adminAddr := addr(1)
	beneficiary := addr(2)
	h := newHarness(t, adminAddr, 1000)

	id, err := h.engine.Create(adminAddr, beneficiary, h.now, 0, 1200000, 60, tokens(1000), true)
	require.NoError(t, err)

	h.now += 600000
	releasable, err := h.engine.Releasable(id)
	require.NoError(t, err)
	require.Equal(t, tokens(500), releasable)

	require.NoError(t, h.engine.Release(id, tokens(500)))

	bal, err := h.tok.BalanceOf(beneficiary.Array())
	require.NoError(t, err)
	require.Equal(t, tokens(500), bal)

	_, err = h.engine.Releasable(id)
	require.NoError(t, err)
}

func TestReleaseRejectsOverReleasable(t *testing.T) {
	adminAddr := addr(1)
	beneficiary := addr(2)
	h := newHarness(t, adminAddr, 1000)
	id, err := h.engine.Create(adminAddr, beneficiary, h.now, 0, 1200000, 60, tokens(1000), true)
	require.NoError(t, err)

	h.now += 100
	err = h.engine.Release(id, tokens(1000))
	require.ErrorIs(t, err, ErrInsufficientReleasableTokens)
}

func TestRevokePaysVestedAndFreezesSchedule(t *testing.T) {
	adminAddr := addr(1)
	beneficiary := addr(2)
	h := newHarness(t, adminAddr, 1000)
	id, err := h.engine.Create(adminAddr, beneficiary, h.now, 0, 1200000, 60, tokens(1000), true)
	require.NoError(t, err)

	h.now += 360000
	require.NoError(t, h.engine.Revoke(adminAddr, id))

	bal, err := h.tok.BalanceOf(beneficiary.Array())
	require.NoError(t, err)
	require.Equal(t, tokens(300), bal)

	sched, err := h.engine.ScheduleByID(id)
	require.NoError(t, err)
	require.Equal(t, StatusRevoked, sched.Status)
	require.Equal(t, tokens(300), sched.AmountTotal)

	h.now += 10000
	releasable, err := h.engine.Releasable(id)
	require.NoError(t, err)
	require.Equal(t, big.NewInt(0), releasable)
}

func TestRevokeRejectsNonRevokable(t *testing.T) {
	adminAddr := addr(1)
	beneficiary := addr(2)
	h := newHarness(t, adminAddr, 1000)
	id, err := h.engine.Create(adminAddr, beneficiary, h.now, 0, 1200000, 60, tokens(1000), false)
	require.NoError(t, err)
	require.ErrorIs(t, h.engine.Revoke(adminAddr, id), ErrNotRevokable)
}

func TestRevokeTwiceRejected(t *testing.T) {
	adminAddr := addr(1)
	beneficiary := addr(2)
	h := newHarness(t, adminAddr, 1000)
	id, err := h.engine.Create(adminAddr, beneficiary, h.now, 0, 1200000, 60, tokens(1000), true)
	require.NoError(t, err)
	require.NoError(t, h.engine.Revoke(adminAddr, id))
	require.ErrorIs(t, h.engine.Revoke(adminAddr, id), ErrScheduleWasRevoked)
}

func TestWithdrawRejectsTouchingCommittedPrincipal(t *testing.T) {
	adminAddr := addr(1)
	beneficiary := addr(2)
	h := newHarness(t, adminAddr, 1000)
	_, err := h.engine.Create(adminAddr, beneficiary, h.now, 0, 1200000, 60, tokens(1000), true)
	require.NoError(t, err)

	err = h.engine.Withdraw(adminAddr, addr(3).Array(), tokens(1))
	require.ErrorIs(t, err, ErrInsufficientTokensInContract)
}

func TestWithdrawMovesFreeTokens(t *testing.T) {
	adminAddr := addr(1)
	beneficiary := addr(2)
	h := newHarness(t, adminAddr, 1000)
	_, err := h.engine.Create(adminAddr, beneficiary, h.now, 0, 1200000, 60, tokens(600), true)
	require.NoError(t, err)

	dest := addr(3)
	require.NoError(t, h.engine.Withdraw(adminAddr, dest.Array(), tokens(400)))
	bal, err := h.tok.BalanceOf(dest.Array())
	require.NoError(t, err)
	require.Equal(t, tokens(400), bal)
}

func TestTotalSupplyAndBalanceOfTrackCommitments(t *testing.T) {
	adminAddr := addr(1)
	beneficiary := addr(2)
	h := newHarness(t, adminAddr, 1000)
	_, err := h.engine.Create(adminAddr, beneficiary, h.now, 0, 1200000, 60, tokens(400), true)
	require.NoError(t, err)

	total, err := h.engine.TotalSupply()
	require.NoError(t, err)
	require.Equal(t, tokens(400), total)

	bal, err := h.engine.BalanceOf(beneficiary.Array())
	require.NoError(t, err)
	require.Equal(t, tokens(400), bal)
}

func TestTransferSurfaceNotSupported(t *testing.T) {
	adminAddr := addr(1)
	h := newHarness(t, adminAddr, 1000)
	require.ErrorIs(t, h.engine.Transfer(addr(2).Array(), tokens(1)), ErrNotSupported)
	require.ErrorIs(t, h.engine.Approve(addr(2).Array(), tokens(1)), ErrNotSupported)
	require.ErrorIs(t, h.engine.TransferFrom(addr(2).Array(), addr(3).Array(), tokens(1)), ErrNotSupported)
	_, err := h.engine.Allowance(addr(2).Array(), addr(3).Array())
	require.ErrorIs(t, err, ErrNotSupported)
}
