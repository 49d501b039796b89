package state

import (
	"fmt"

	"moviewrite/core/events"
)

type eventLogHead struct {
	Seq  uint64
	Hash [32]byte
}

// EventLogHead returns the sequence number and hash of the newest log entry.
// An empty log reports sequence zero and a zero hash.
func (m *Manager) EventLogHead() (uint64, [32]byte, error) {
	var head eventLogHead
	if _, err := m.KVGet(eventLogHeadKey, &head); err != nil {
		return 0, [32]byte{}, err
	}
	return head.Seq, head.Hash, nil
}

// EventLogPut appends entry and advances the head. Entries must be written in
// sequence order.
func (m *Manager) EventLogPut(entry *events.Entry) error {
	if entry == nil {
		return fmt.Errorf("event log: nil entry")
	}
	seq, _, err := m.EventLogHead()
	if err != nil {
		return err
	}
	if entry.Seq != seq+1 {
		return fmt.Errorf("event log: expected sequence %d, got %d", seq+1, entry.Seq)
	}
	if err := m.KVPut(prefixed(eventLogEntryPrefix, idBytes(entry.Seq)), entry); err != nil {
		return err
	}
	return m.KVPut(eventLogHeadKey, &eventLogHead{Seq: entry.Seq, Hash: entry.Hash})
}

// EventLogGet loads the entry with sequence number seq.
func (m *Manager) EventLogGet(seq uint64) (*events.Entry, bool, error) {
	entry := new(events.Entry)
	ok, err := m.KVGet(prefixed(eventLogEntryPrefix, idBytes(seq)), entry)
	if err != nil || !ok {
		return nil, ok, err
	}
	return entry, true, nil
}

// GenesisApplied reports whether the genesis allocation has been committed.
func (m *Manager) GenesisApplied() (bool, error) {
	return m.readFlag(genesisMarkerKey)
}

// MarkGenesisApplied records that genesis has been applied.
func (m *Manager) MarkGenesisApplied() error {
	return m.KVPut(genesisMarkerKey, true)
}
