package events

import (
	"context"
	"strconv"
	"strings"
	"sync"
)

const feedHistoryLimit = 2048

// Feed fans committed log entries out to live subscribers and keeps a bounded
// history so reconnecting clients can resume from a cursor.
type Feed struct {
	mu      sync.Mutex
	subs    map[uint64]chan Entry
	nextID  uint64
	history []Entry
}

// NewFeed constructs an empty feed.
func NewFeed() *Feed {
	return &Feed{subs: make(map[uint64]chan Entry)}
}

// Publish delivers entries to every subscriber. Slow subscribers miss
// entries rather than blocking the ledger.
func (f *Feed) Publish(entries []Entry) {
	if f == nil || len(entries) == 0 {
		return
	}
	f.mu.Lock()
	for _, entry := range entries {
		f.history = append(f.history, entry.Clone())
	}
	if len(f.history) > feedHistoryLimit {
		excess := len(f.history) - feedHistoryLimit
		trimmed := make([]Entry, feedHistoryLimit)
		copy(trimmed, f.history[excess:])
		f.history = trimmed
	}
	// Sends happen under the lock so cancel cannot close a channel mid-send.
	for _, entry := range entries {
		for _, ch := range f.subs {
			select {
			case ch <- entry.Clone():
			default:
			}
		}
	}
	f.mu.Unlock()
}

// Subscribe registers a subscriber for entries published after the supplied
// cursor (a log sequence number). Buffered history newer than the cursor is
// returned as backlog.
func (f *Feed) Subscribe(ctx context.Context, cursor string) (<-chan Entry, func(), []Entry) {
	updates := make(chan Entry, 64)

	var since uint64
	if trimmed := strings.TrimSpace(cursor); trimmed != "" {
		if parsed, err := strconv.ParseUint(trimmed, 10, 64); err == nil {
			since = parsed
		}
	}

	f.mu.Lock()
	if f.subs == nil {
		f.subs = make(map[uint64]chan Entry)
	}
	id := f.nextID
	f.nextID++
	f.subs[id] = updates
	backlog := make([]Entry, 0, len(f.history))
	for _, entry := range f.history {
		if entry.Seq > since {
			backlog = append(backlog, entry.Clone())
		}
	}
	f.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			f.mu.Lock()
			if sub, ok := f.subs[id]; ok {
				delete(f.subs, id)
				close(sub)
			}
			f.mu.Unlock()
		})
	}
	if ctx != nil {
		go func() {
			<-ctx.Done()
			cancel()
		}()
	}
	return updates, cancel, backlog
}

// Subscribers reports the number of live subscriptions.
func (f *Feed) Subscribers() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subs)
}
