package access

import (
	"testing"

	"github.com/blackelite/vestd/crypto"
	"github.com/stretchr/testify/require"
)

func addr(b byte) crypto.Address {
	var arr [20]byte
	arr[19] = b
	return crypto.FromArray(crypto.VestPrefix, arr)
}

func TestAdminHandoverRoundTrip(t *testing.T) {
	adminAddr := addr(1)
	nominee := addr(2)
	store := NewMemRoleStore(adminAddr.Array())
	ctrl := NewControl(store)

	require.NoError(t, ctrl.BeginAdminHandover(adminAddr, nominee))
	pending, ok, err := ctrl.PendingAdmin()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, nominee.Array(), pending)

	require.ErrorIs(t, ctrl.AcceptAdminHandover(adminAddr), ErrAdminTransferFailed)
	require.NoError(t, ctrl.AcceptAdminHandover(nominee))

	require.NoError(t, ctrl.RequireAdmin(nominee))
	require.ErrorIs(t, ctrl.RequireAdmin(adminAddr), ErrUnauthorized)

	_, ok, err = ctrl.PendingAdmin()
	require.NoError(t, err)
	require.False(t, ok)
}

func TestCancelAdminHandover(t *testing.T) {
	adminAddr := addr(1)
	nominee := addr(2)
	store := NewMemRoleStore(adminAddr.Array())
	ctrl := NewControl(store)

	require.NoError(t, ctrl.BeginAdminHandover(adminAddr, nominee))
	require.NoError(t, ctrl.CancelAdminHandover(adminAddr))
	require.ErrorIs(t, ctrl.AcceptAdminHandover(nominee), ErrNoPendingHandover)
}

func TestPauseGuardsCreateOnly(t *testing.T) {
	adminAddr := addr(1)
	store := NewMemRoleStore(adminAddr.Array())
	ctrl := NewControl(store)

	require.NoError(t, ctrl.Pause(adminAddr))
	require.ErrorIs(t, GuardCreate(ctrl), ErrPaused)
	require.NoError(t, ctrl.Unpause(adminAddr))
	require.NoError(t, GuardCreate(ctrl))
}

func TestRequireRoleAdminImpliesAllRoles(t *testing.T) {
	adminAddr := addr(1)
	store := NewMemRoleStore(adminAddr.Array())
	ctrl := NewControl(store)
	require.NoError(t, ctrl.RequireRole(RoleScheduleCreator, adminAddr))
}

func TestReentrancyGuardRejectsDoubleEnter(t *testing.T) {
	var g ReentrancyGuard
	require.NoError(t, g.Enter())
	require.ErrorIs(t, g.Enter(), ErrReentrantCall)
	g.Exit()
	require.NoError(t, g.Enter())
}
