package state

import (
	"errors"
	"fmt"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"

	"moviewrite/storage"
)

// Manager reads and writes ledger state for a single operation. Writes are
// staged in an overlay and only reach the database on Commit, so an operation
// that fails halfway leaves storage untouched once Discard is called.
//
// A Manager is not safe for concurrent use; the node serialises access.
type Manager struct {
	db      storage.Database
	pending map[string][]byte
	order   []string
}

// NewManager creates a state manager staging writes over the provided
// database.
func NewManager(db storage.Database) *Manager {
	return &Manager{db: db, pending: make(map[string][]byte)}
}

// hashKey maps a logical key onto its storage slot.
func hashKey(key []byte) []byte {
	return ethcrypto.Keccak256(key)
}

func (m *Manager) get(slot []byte) ([]byte, error) {
	if value, ok := m.pending[string(slot)]; ok {
		return value, nil
	}
	if m.db == nil {
		return nil, nil
	}
	data, err := m.db.Get(slot)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return nil, nil
	case err != nil:
		return nil, err
	}
	return data, nil
}

// put stages a write. A nil value marks the slot for deletion.
func (m *Manager) put(slot []byte, value []byte) {
	key := string(slot)
	if _, seen := m.pending[key]; !seen {
		m.order = append(m.order, key)
	}
	m.pending[key] = value
}

// Dirty reports whether the manager holds uncommitted writes.
func (m *Manager) Dirty() bool { return len(m.order) > 0 }

// Commit flushes every staged write to the database in one batch, in the
// order the slots were first touched.
func (m *Manager) Commit() error {
	if !m.Dirty() {
		return nil
	}
	if m.db == nil {
		return fmt.Errorf("state: database not configured")
	}
	batch := storage.NewBatch()
	for _, key := range m.order {
		if value := m.pending[key]; value != nil {
			batch.Put([]byte(key), value)
		} else {
			batch.Delete([]byte(key))
		}
	}
	if err := m.db.Write(batch); err != nil {
		return fmt.Errorf("state: commit: %w", err)
	}
	m.Discard()
	return nil
}

// Discard drops all staged writes.
func (m *Manager) Discard() {
	m.pending = make(map[string][]byte)
	m.order = nil
}
