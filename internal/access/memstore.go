package access

import "sync"

// MemRoleStore is an in-memory RoleStore used by engine and RPC tests, and
// by local development wiring before a persistent backend is configured.
type MemRoleStore struct {
	mu      sync.Mutex
	roles   map[Role]map[[20]byte]bool
	admin   [20]byte
	pending [20]byte
	hasPend bool
}

// NewMemRoleStore constructs an empty MemRoleStore with admin pre-granted
// the Admin role.
func NewMemRoleStore(admin [20]byte) *MemRoleStore {
	m := &MemRoleStore{
		roles: map[Role]map[[20]byte]bool{
			RoleAdmin:           {},
			RoleScheduleCreator: {},
		},
		admin: admin,
	}
	m.roles[RoleAdmin][admin] = true
	return m
}

func (m *MemRoleStore) HasRole(role Role, addr [20]byte) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.roles[role][addr], nil
}

func (m *MemRoleStore) GrantRole(role Role, addr [20]byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.roles[role] == nil {
		m.roles[role] = map[[20]byte]bool{}
	}
	m.roles[role][addr] = true
	return nil
}

func (m *MemRoleStore) RevokeRole(role Role, addr [20]byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.roles[role], addr)
	return nil
}

func (m *MemRoleStore) GetAdmin() ([20]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.admin, nil
}

func (m *MemRoleStore) SetAdmin(addr [20]byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.admin = addr
	return nil
}

func (m *MemRoleStore) GetPendingAdmin() ([20]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pending, m.hasPend, nil
}

func (m *MemRoleStore) SetPendingAdmin(addr [20]byte, set bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pending = addr
	m.hasPend = set
	return nil
}
