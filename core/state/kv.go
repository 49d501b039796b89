package state

import (
	"errors"
	"slices"

	"github.com/ethereum/go-ethereum/rlp"
)

var errEmptyKey = errors.New("state: empty key")

// KVPut RLP-encodes value under key.
func (m *Manager) KVPut(key []byte, value interface{}) error {
	if len(key) == 0 {
		return errEmptyKey
	}
	encoded, err := rlp.EncodeToBytes(value)
	if err != nil {
		return err
	}
	m.put(hashKey(key), encoded)
	return nil
}

// KVDelete removes the value stored under key.
func (m *Manager) KVDelete(key []byte) error {
	if len(key) == 0 {
		return errEmptyKey
	}
	m.put(hashKey(key), nil)
	return nil
}

// KVGet decodes the value under key into out and reports whether it existed.
// A nil out only checks presence.
func (m *Manager) KVGet(key []byte, out interface{}) (bool, error) {
	if len(key) == 0 {
		return false, errEmptyKey
	}
	data, err := m.get(hashKey(key))
	if err != nil || len(data) == 0 {
		return false, err
	}
	if out != nil {
		if err := rlp.DecodeBytes(data, out); err != nil {
			return false, err
		}
	}
	return true, nil
}

// readIDList returns the id index under key in insertion order. A missing
// index is empty, never nil.
func (m *Manager) readIDList(key []byte) ([]uint64, error) {
	ids := []uint64{}
	if _, err := m.KVGet(key, &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

// appendID adds id to the index under key unless it is already present.
func (m *Manager) appendID(key []byte, id uint64) error {
	ids, err := m.readIDList(key)
	if err != nil {
		return err
	}
	if slices.Contains(ids, id) {
		return nil
	}
	return m.KVPut(key, append(ids, id))
}
