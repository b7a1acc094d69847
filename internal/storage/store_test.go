package storage

import (
	"math/big"
	"path/filepath"
	"testing"

	"github.com/blackelite/vestd/internal/access"
	"github.com/blackelite/vestd/internal/vesting"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "vestd.db")
	store, err := Open(path, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestScheduleRoundTrip(t *testing.T) {
	store := openTestStore(t)

	var id vesting.ScheduleID
	id[0] = 0x01
	var beneficiary [20]byte
	beneficiary[19] = 0x05

	sched := vesting.Schedule{
		Beneficiary:   beneficiary,
		Start:         1000,
		CliffAbsolute: 1100,
		Duration:      5000,
		SliceSeconds:  10,
		AmountTotal:   big.NewInt(123456789),
		Released:      big.NewInt(42),
		Status:        vesting.StatusInitialized,
		Revokable:     true,
	}
	require.NoError(t, store.SchedulePut(id, sched))

	got, err := store.ScheduleGet(id)
	require.NoError(t, err)
	require.Equal(t, sched.Beneficiary, got.Beneficiary)
	require.Equal(t, sched.Start, got.Start)
	require.Equal(t, sched.CliffAbsolute, got.CliffAbsolute)
	require.Equal(t, sched.Duration, got.Duration)
	require.Equal(t, sched.SliceSeconds, got.SliceSeconds)
	require.Equal(t, 0, sched.AmountTotal.Cmp(got.AmountTotal))
	require.Equal(t, 0, sched.Released.Cmp(got.Released))
	require.Equal(t, sched.Status, got.Status)
	require.Equal(t, sched.Revokable, got.Revokable)
}

func TestScheduleGetMissingReturnsZeroValue(t *testing.T) {
	store := openTestStore(t)
	var id vesting.ScheduleID
	id[0] = 0xFF
	got, err := store.ScheduleGet(id)
	require.NoError(t, err)
	require.True(t, got.IsZero())
}

func TestCounterNextIsMonotonic(t *testing.T) {
	store := openTestStore(t)
	var beneficiary [20]byte
	beneficiary[19] = 0x02

	first, err := store.CounterNext(beneficiary)
	require.NoError(t, err)
	require.Equal(t, uint64(0), first)

	second, err := store.CounterNext(beneficiary)
	require.NoError(t, err)
	require.Equal(t, uint64(1), second)

	peek, err := store.CounterPeek(beneficiary)
	require.NoError(t, err)
	require.Equal(t, uint64(2), peek)
}

func TestAggregateRoundTrip(t *testing.T) {
	store := openTestStore(t)
	var beneficiary [20]byte
	beneficiary[19] = 0x09

	agg, err := store.AggregateGet()
	require.NoError(t, err)
	require.Equal(t, big.NewInt(0), agg.CommittedTotal)

	agg.CommittedTotal = big.NewInt(500)
	agg.CommittedBy[beneficiary] = big.NewInt(500)
	require.NoError(t, store.AggregatePut(agg))

	got, err := store.AggregateGet()
	require.NoError(t, err)
	require.Equal(t, 0, big.NewInt(500).Cmp(got.CommittedTotal))
	require.Equal(t, 0, big.NewInt(500).Cmp(got.CommittedBy[beneficiary]))
}

func TestClaimedRoundTrip(t *testing.T) {
	store := openTestStore(t)
	var fp [32]byte
	fp[0] = 0xAA

	claimed, err := store.ClaimedGet(fp)
	require.NoError(t, err)
	require.False(t, claimed)

	require.NoError(t, store.ClaimedPut(fp))
	claimed, err = store.ClaimedGet(fp)
	require.NoError(t, err)
	require.True(t, claimed)
}

func TestMerkleRootAndPurchasableConfigRoundTrip(t *testing.T) {
	store := openTestStore(t)
	var root [32]byte
	root[0] = 0x11
	require.NoError(t, store.MerkleRootPut(root))
	got, err := store.MerkleRootGet()
	require.NoError(t, err)
	require.Equal(t, root, got)

	require.NoError(t, store.VTokenCostPut(big.NewInt(77)))
	cost, err := store.VTokenCostGet()
	require.NoError(t, err)
	require.Equal(t, 0, big.NewInt(77).Cmp(cost))

	var receiver [20]byte
	receiver[19] = 0x03
	require.NoError(t, store.PaymentReceiverPut(receiver))
	got2, err := store.PaymentReceiverGet()
	require.NoError(t, err)
	require.Equal(t, receiver, got2)
}

func TestRoleStoreGrantRevokeAndHandover(t *testing.T) {
	store := openTestStore(t)
	var adminAddr, nominee [20]byte
	adminAddr[19] = 0x01
	nominee[19] = 0x02

	require.NoError(t, store.SetAdmin(adminAddr))
	require.NoError(t, store.GrantRole(access.RoleAdmin, adminAddr))

	has, err := store.HasRole(access.RoleAdmin, adminAddr)
	require.NoError(t, err)
	require.True(t, has)

	require.NoError(t, store.SetPendingAdmin(nominee, true))
	pending, set, err := store.GetPendingAdmin()
	require.NoError(t, err)
	require.True(t, set)
	require.Equal(t, nominee, pending)

	require.NoError(t, store.SetPendingAdmin([20]byte{}, false))
	_, set, err = store.GetPendingAdmin()
	require.NoError(t, err)
	require.False(t, set)

	require.NoError(t, store.RevokeRole(access.RoleAdmin, adminAddr))
	has, err = store.HasRole(access.RoleAdmin, adminAddr)
	require.NoError(t, err)
	require.False(t, has)
}
