// Package actorkit is a small single-mailbox actor runtime: each actor owns
// a goroutine draining its own channel, so messages delivered to one PID are
// always processed one at a time and in send order. The session engine uses
// exactly one long-lived actor to get the spec's "single global critical
// section" for free, instead of hand-rolling a mutex around a command queue.
package actorkit

import "fmt"

// PID (process id) is an opaque reference to a running actor.
type PID struct {
	ID string
}

func (pid *PID) String() string {
	if pid == nil {
		return "<nil>"
	}
	return pid.ID
}

func newPID(n uint64) *PID {
	return &PID{ID: fmt.Sprintf("actor-%d", n)}
}
