// Package sessionengine is the Event Engine (spec §4.E): a collection of
// pure transition functions that mutate the session.Store and enqueue
// outbound messages onto a TaskQueue. Nothing in this package touches the
// network; internal/wire flushes the queue after the critical section.
package sessionengine

import (
	"github.com/rgrove-dev/parlor/internal/protocol"
	"github.com/rgrove-dev/parlor/internal/session"
)

type outbound struct {
	transport session.TransportRef
	event     protocol.Event
}

// TaskQueue is the per-transition accumulator from spec §4.F: sends and
// disconnect intents enqueued while the lock is held, flushed once it is
// released. Deduplication is by resolved transport: the same message
// addressed to the same transport twice is sent once. A send addressed to
// a transport that is marked for disconnect *before* that send was
// enqueued is suppressed (spec §5, testable property 6); a send already
// queued at the moment Disconnect is called still goes out — a self
// notification enqueued right before its own transport is torn down (the
// idle-player sweep's PlayerInactive, mirroring
// manager.py's _handle_player_inactive_event: queue.add then
// player.disconnect()) is delivered, then the socket closes.
type TaskQueue struct {
	sends           []outbound
	seen            map[session.TransportRef]map[string]bool
	disconnects     map[session.TransportRef]bool
	disconnectIndex map[session.TransportRef]int
}

// NewTaskQueue returns an empty queue.
func NewTaskQueue() *TaskQueue {
	return &TaskQueue{
		seen:            make(map[session.TransportRef]map[string]bool),
		disconnects:     make(map[session.TransportRef]bool),
		disconnectIndex: make(map[session.TransportRef]int),
	}
}

// Enqueue addresses event to transport. A nil transport (player has no live
// connection) is silently dropped, matching the spec's treatment of
// unreachable recipients.
func (q *TaskQueue) Enqueue(transport session.TransportRef, event protocol.Event) {
	if transport == nil {
		return
	}
	payload := string(protocol.EncodeEvent(&event))
	perTransport, ok := q.seen[transport]
	if !ok {
		perTransport = make(map[string]bool)
		q.seen[transport] = perTransport
	}
	if perTransport[payload] {
		return
	}
	perTransport[payload] = true
	q.sends = append(q.sends, outbound{transport: transport, event: event})
}

// Disconnect marks transport to be closed during Flush, suppressing any
// send to it enqueued from this point forward. Sends already queued for
// transport are unaffected — see the TaskQueue doc comment.
func (q *TaskQueue) Disconnect(transport session.TransportRef) {
	if transport == nil {
		return
	}
	if !q.disconnects[transport] {
		q.disconnectIndex[transport] = len(q.sends)
	}
	q.disconnects[transport] = true
}

// Flush delivers every queued send not suppressed by an earlier Disconnect
// of its transport, then closes every disconnected transport. Both
// callbacks are expected to tolerate concurrent closure and swallow their
// own I/O errors, per spec §5.
func (q *TaskQueue) Flush(send func(session.TransportRef, []byte), closeTransport func(session.TransportRef)) {
	for i, ob := range q.sends {
		if q.disconnects[ob.transport] && i >= q.disconnectIndex[ob.transport] {
			continue
		}
		send(ob.transport, protocol.EncodeEvent(&ob.event))
	}
	for transport := range q.disconnects {
		closeTransport(transport)
	}
}
