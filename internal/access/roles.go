package access

import (
	"sync"

	"github.com/blackelite/vestd/crypto"
)

// Role identifies one of the two fixed authority levels the engine
// recognizes. Unlike the reference governance engine's dynamic role
// allowlist, this module has exactly two roles, so Role is a closed enum
// rather than an arbitrary string.
type Role uint8

const (
	// RoleAdmin is the superset role: grants/revokes roles, pauses,
	// withdraws, revokes schedules, rotates the Merkle root, and updates
	// unit cost and payment sink.
	RoleAdmin Role = iota
	// RoleScheduleCreator may call the direct-create operation.
	RoleScheduleCreator
)

// RoleStore persists role membership and the pending-admin handover field.
// It is satisfied directly by the storage layer's bbolt buckets or, in
// tests, by an in-memory map.
type RoleStore interface {
	HasRole(role Role, addr [20]byte) (bool, error)
	GrantRole(role Role, addr [20]byte) error
	RevokeRole(role Role, addr [20]byte) error
	GetAdmin() ([20]byte, error)
	SetAdmin(addr [20]byte) error
	GetPendingAdmin() ([20]byte, bool, error)
	SetPendingAdmin(addr [20]byte, set bool) error
}

// Control composes role-based authorization and the pause flag into the
// safety envelope described in SPEC_FULL.md §4.C; the reentrancy guard is a
// separate ReentrancyGuard field on the vesting Engine. The Engine holds a
// *Control rather than talking to a standalone service, mirroring how the reference engines
// accept a narrow state interface rather than a database handle.
type Control struct {
	pauseState
	mu    sync.Mutex
	store RoleStore
}

// NewControl constructs a Control backed by the given RoleStore.
func NewControl(store RoleStore) *Control {
	return &Control{store: store}
}

// RequireRole returns ErrUnauthorized unless addr holds role (Admin
// implicitly satisfies any role check since it is the superset role).
func (c *Control) RequireRole(role Role, addr crypto.Address) error {
	if c == nil || c.store == nil {
		return ErrUnauthorized
	}
	arr := addr.Array()
	if role != RoleAdmin {
		isAdmin, err := c.store.HasRole(RoleAdmin, arr)
		if err != nil {
			return err
		}
		if isAdmin {
			return nil
		}
	}
	ok, err := c.store.HasRole(role, arr)
	if err != nil {
		return err
	}
	if !ok {
		return ErrUnauthorized
	}
	return nil
}

// RequireAdmin is a convenience wrapper around RequireRole(RoleAdmin, ...).
func (c *Control) RequireAdmin(addr crypto.Address) error {
	return c.RequireRole(RoleAdmin, addr)
}

// GrantRole is Admin-gated role assignment.
func (c *Control) GrantRole(caller, grantee crypto.Address, role Role) error {
	if err := c.RequireAdmin(caller); err != nil {
		return err
	}
	if grantee.IsZero() {
		return ErrInvalidAddress
	}
	return c.store.GrantRole(role, grantee.Array())
}

// RevokeRole is Admin-gated role removal.
func (c *Control) RevokeRole(caller, addr crypto.Address, role Role) error {
	if err := c.RequireAdmin(caller); err != nil {
		return err
	}
	return c.store.RevokeRole(role, addr.Array())
}

// Pause sets the pause flag. Admin only.
func (c *Control) Pause(caller crypto.Address) error {
	if err := c.RequireAdmin(caller); err != nil {
		return err
	}
	c.setPaused(true)
	return nil
}

// Unpause clears the pause flag. Admin only.
func (c *Control) Unpause(caller crypto.Address) error {
	if err := c.RequireAdmin(caller); err != nil {
		return err
	}
	c.setPaused(false)
	return nil
}

// BeginAdminHandover records nominee as the pending admin. Only the
// incumbent Admin may begin a handover; a timelock delay of zero is
// acceptable per SPEC_FULL.md §4.C, so acceptance may follow immediately.
func (c *Control) BeginAdminHandover(caller, nominee crypto.Address) error {
	if err := c.RequireAdmin(caller); err != nil {
		return err
	}
	if nominee.IsZero() {
		return ErrInvalidAddress
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.SetPendingAdmin(nominee.Array(), true)
}

// CancelAdminHandover clears a pending handover without changing the admin.
// Only the incumbent Admin may cancel.
func (c *Control) CancelAdminHandover(caller crypto.Address) error {
	if err := c.RequireAdmin(caller); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	_, pending, err := c.store.GetPendingAdmin()
	if err != nil {
		return err
	}
	if !pending {
		return ErrNoPendingHandover
	}
	var zero [20]byte
	return c.store.SetPendingAdmin(zero, false)
}

// AcceptAdminHandover completes the handover: only the exact nominee
// recorded by BeginAdminHandover may call this, and it atomically replaces
// the Admin role and clears the pending field.
func (c *Control) AcceptAdminHandover(caller crypto.Address) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	pendingAddr, pending, err := c.store.GetPendingAdmin()
	if err != nil {
		return err
	}
	if !pending {
		return ErrNoPendingHandover
	}
	if pendingAddr != caller.Array() {
		return ErrAdminTransferFailed
	}
	currentAdmin, err := c.store.GetAdmin()
	if err != nil {
		return err
	}
	if err := c.store.RevokeRole(RoleAdmin, currentAdmin); err != nil {
		return err
	}
	if err := c.store.GrantRole(RoleAdmin, pendingAddr); err != nil {
		return err
	}
	if err := c.store.SetAdmin(pendingAddr); err != nil {
		return err
	}
	var zero [20]byte
	return c.store.SetPendingAdmin(zero, false)
}

// PendingAdmin returns the currently nominated admin, if any. The nominee
// address is publicly observable between BeginAdminHandover and
// AcceptAdminHandover, per SPEC_FULL.md §4.C.
func (c *Control) PendingAdmin() ([20]byte, bool, error) {
	return c.store.GetPendingAdmin()
}
