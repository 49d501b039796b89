package events

import (
	"encoding/hex"
	"fmt"
	"sort"

	"github.com/ethereum/go-ethereum/rlp"
	"lukechampine.com/blake3"

	"moviewrite/core/types"
)

// Attribute is a single key/value pair of a logged event.
type Attribute struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Entry is one record of the append-only event log. Every entry commits to
// its predecessor through PrevHash, so the log can be audited for gaps or
// rewrites.
type Entry struct {
	Seq        uint64      `json:"seq"`
	Type       string      `json:"type"`
	Attributes []Attribute `json:"attributes"`
	Timestamp  uint64      `json:"timestamp"`
	PrevHash   [32]byte    `json:"-"`
	Hash       [32]byte    `json:"-"`
}

// HashHex renders the entry hash for transport.
func (e Entry) HashHex() string { return hex.EncodeToString(e.Hash[:]) }

// PrevHashHex renders the predecessor hash for transport.
func (e Entry) PrevHashHex() string { return hex.EncodeToString(e.PrevHash[:]) }

// Attr looks up an attribute by key.
func (e Entry) Attr(key string) (string, bool) {
	for _, attr := range e.Attributes {
		if attr.Key == key {
			return attr.Value, true
		}
	}
	return "", false
}

// Clone returns a deep copy of the entry.
func (e Entry) Clone() Entry {
	out := e
	out.Attributes = append([]Attribute(nil), e.Attributes...)
	return out
}

type entryBody struct {
	Seq        uint64
	Type       string
	Attributes []Attribute
	Timestamp  uint64
	PrevHash   [32]byte
}

func (e Entry) computeHash() ([32]byte, error) {
	encoded, err := rlp.EncodeToBytes(entryBody{
		Seq:        e.Seq,
		Type:       e.Type,
		Attributes: e.Attributes,
		Timestamp:  e.Timestamp,
		PrevHash:   e.PrevHash,
	})
	if err != nil {
		return [32]byte{}, err
	}
	return blake3.Sum256(encoded), nil
}

// Verify recomputes the entry hash.
func (e Entry) Verify() error {
	hash, err := e.computeHash()
	if err != nil {
		return err
	}
	if hash != e.Hash {
		return fmt.Errorf("event log: entry %d hash mismatch", e.Seq)
	}
	return nil
}

// LogStore persists log entries.
type LogStore interface {
	EventLogHead() (uint64, [32]byte, error)
	EventLogPut(entry *Entry) error
	EventLogGet(seq uint64) (*Entry, bool, error)
}

// AppendToLog chains the supplied events onto the log held by store and
// returns the new entries. Sequence numbers start at 1.
func AppendToLog(store LogStore, evts []*types.Event, timestamp uint64) ([]Entry, error) {
	if store == nil {
		return nil, fmt.Errorf("event log: store not configured")
	}
	if len(evts) == 0 {
		return nil, nil
	}
	seq, prev, err := store.EventLogHead()
	if err != nil {
		return nil, err
	}
	out := make([]Entry, 0, len(evts))
	for _, evt := range evts {
		if evt == nil {
			continue
		}
		seq++
		entry := Entry{
			Seq:        seq,
			Type:       evt.Type,
			Attributes: sortedAttributes(evt.Attributes),
			Timestamp:  timestamp,
			PrevHash:   prev,
		}
		hash, err := entry.computeHash()
		if err != nil {
			return nil, fmt.Errorf("event log: hash entry %d: %w", seq, err)
		}
		entry.Hash = hash
		if err := store.EventLogPut(&entry); err != nil {
			return nil, err
		}
		prev = hash
		out = append(out, entry)
	}
	return out, nil
}

// ReadLog returns up to limit entries starting at from (inclusive).
func ReadLog(store LogStore, from uint64, limit int) ([]Entry, error) {
	if store == nil {
		return nil, fmt.Errorf("event log: store not configured")
	}
	if from == 0 {
		from = 1
	}
	head, _, err := store.EventLogHead()
	if err != nil {
		return nil, err
	}
	out := make([]Entry, 0)
	for seq := from; seq <= head && (limit <= 0 || len(out) < limit); seq++ {
		entry, ok, err := store.EventLogGet(seq)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("event log: missing entry %d", seq)
		}
		out = append(out, *entry)
	}
	return out, nil
}

func sortedAttributes(attrs map[string]string) []Attribute {
	out := make([]Attribute, 0, len(attrs))
	for k, v := range attrs {
		out = append(out, Attribute{Key: k, Value: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}
