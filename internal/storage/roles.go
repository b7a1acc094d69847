package storage

import (
	bolt "go.etcd.io/bbolt"

	"github.com/blackelite/vestd/internal/access"
)

func roleKey(role access.Role, addr [20]byte) []byte {
	key := make([]byte, 0, 21)
	key = append(key, byte(role))
	key = append(key, addr[:]...)
	return key
}

// HasRole implements access.RoleStore.
func (s *Store) HasRole(role access.Role, addr [20]byte) (bool, error) {
	var has bool
	err := s.db.View(func(tx *bolt.Tx) error {
		has = tx.Bucket(bucketRoles).Get(roleKey(role, addr)) != nil
		return nil
	})
	return has, err
}

// GrantRole implements access.RoleStore.
func (s *Store) GrantRole(role access.Role, addr [20]byte) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketRoles).Put(roleKey(role, addr), []byte{1})
	})
}

// RevokeRole implements access.RoleStore.
func (s *Store) RevokeRole(role access.Role, addr [20]byte) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketRoles).Delete(roleKey(role, addr))
	})
}

// GetAdmin implements access.RoleStore.
func (s *Store) GetAdmin() ([20]byte, error) {
	var addr [20]byte
	err := s.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket(bucketConfig).Get(keyAdmin)
		copy(addr[:], raw)
		return nil
	})
	return addr, err
}

// SetAdmin implements access.RoleStore.
func (s *Store) SetAdmin(addr [20]byte) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketConfig).Put(keyAdmin, addr[:])
	})
}

// GetPendingAdmin implements access.RoleStore.
func (s *Store) GetPendingAdmin() ([20]byte, bool, error) {
	var addr [20]byte
	var set bool
	err := s.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket(bucketConfig).Get(keyPendingAdmin)
		if raw == nil || raw[0] == 0 {
			return nil
		}
		set = true
		copy(addr[:], raw[1:])
		return nil
	})
	return addr, set, err
}

// SetPendingAdmin implements access.RoleStore.
func (s *Store) SetPendingAdmin(addr [20]byte, set bool) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		buf := make([]byte, 21)
		if set {
			buf[0] = 1
			copy(buf[1:], addr[:])
		}
		return tx.Bucket(bucketConfig).Put(keyPendingAdmin, buf)
	})
}
