package state

import (
	"bytes"
	"fmt"
	"slices"
	"strings"
)

var rolePrefix = []byte("role/")

func roleKey(role string) []byte {
	return prefixed(rolePrefix, []byte(role))
}

// RoleMembers lists the accounts holding role in ascending byte order.
func (m *Manager) RoleMembers(role string) ([][20]byte, error) {
	members := [][20]byte{}
	if _, err := m.KVGet(roleKey(strings.TrimSpace(role)), &members); err != nil {
		return nil, err
	}
	return members, nil
}

// SetRole grants role to addr. Granting twice is a no-op.
func (m *Manager) SetRole(role string, addr [20]byte) error {
	role = strings.TrimSpace(role)
	if role == "" {
		return fmt.Errorf("state: role must not be empty")
	}
	members, err := m.RoleMembers(role)
	if err != nil {
		return err
	}
	idx, found := slices.BinarySearchFunc(members, addr, compareAccounts)
	if found {
		return nil
	}
	return m.KVPut(roleKey(role), slices.Insert(members, idx, addr))
}

// RemoveRole revokes role from addr. Unknown members are ignored.
func (m *Manager) RemoveRole(role string, addr [20]byte) error {
	role = strings.TrimSpace(role)
	members, err := m.RoleMembers(role)
	if err != nil {
		return err
	}
	idx, found := slices.BinarySearchFunc(members, addr, compareAccounts)
	if !found {
		return nil
	}
	return m.KVPut(roleKey(role), slices.Delete(members, idx, idx+1))
}

// HasRole reports whether addr holds role. Read failures count as no.
func (m *Manager) HasRole(role string, addr [20]byte) bool {
	members, err := m.RoleMembers(role)
	if err != nil {
		return false
	}
	_, found := slices.BinarySearchFunc(members, addr, compareAccounts)
	return found
}

func compareAccounts(a, b [20]byte) int {
	return bytes.Compare(a[:], b[:])
}
