package core

import (
	"context"
	"strconv"
	"strings"

	"moviewrite/core/events"
	"moviewrite/core/state"
	"moviewrite/observability"
)

// EventsSubscribe streams committed log entries newer than cursor. The
// backlog is read from the persisted log, so a cursor survives restarts, and
// holds at most maxEventsPage entries. Live entries follow on the returned
// channel.
func (n *Node) EventsSubscribe(ctx context.Context, cursor string) (<-chan events.Entry, func(), []events.Entry, error) {
	var since uint64
	if trimmed := strings.TrimSpace(cursor); trimmed != "" {
		parsed, err := strconv.ParseUint(trimmed, 10, 64)
		if err != nil {
			return nil, nil, nil, err
		}
		since = parsed
	}

	// Entries are published while stateMu is held, so nothing can be
	// committed between the subscription and the backlog read.
	n.stateMu.Lock()
	updates, cancelFeed, _ := n.feed.Subscribe(ctx, cursor)
	manager := state.NewManager(n.db)
	backlog, err := events.ReadLog(manager, since+1, maxEventsPage)
	manager.Discard()
	n.stateMu.Unlock()
	if err != nil {
		cancelFeed()
		return nil, nil, nil, err
	}
	observability.Events().SetSubscribers(n.feed.Subscribers())

	cancel := func() {
		cancelFeed()
		observability.Events().SetSubscribers(n.feed.Subscribers())
	}
	return updates, cancel, backlog, nil
}
