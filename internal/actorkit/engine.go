package actorkit

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"
)

// ErrTimeout is returned by Ask when no reply arrives within the timeout.
var ErrTimeout = errors.New("actorkit: ask timed out waiting for reply")

// Engine owns the set of running actors and dispatches messages to them.
type Engine struct {
	pidCounter uint64
	actors     map[string]*process
	mu         sync.RWMutex
	stopping   atomic.Bool
	logger     func(string)
}

// NewEngine creates an empty Engine. logger may be nil to discard internal
// diagnostics (panics, full mailboxes); production code should pass a
// logrus-backed sink.
func NewEngine(logger func(string)) *Engine {
	return &Engine{actors: make(map[string]*process), logger: logger}
}

func (e *Engine) nextPID() *PID {
	return newPID(atomic.AddUint64(&e.pidCounter, 1))
}

// Spawn starts a new actor and returns its PID.
func (e *Engine) Spawn(props *Props) *PID {
	if e.stopping.Load() {
		return nil
	}
	pid := e.nextPID()
	proc := newProcess(e, pid, props)
	e.mu.Lock()
	e.actors[pid.ID] = proc
	e.mu.Unlock()
	go proc.run()
	return pid
}

// Send delivers message to pid's mailbox without waiting for a reply.
func (e *Engine) Send(pid *PID, message interface{}, sender *PID) {
	if pid == nil {
		return
	}
	e.mu.RLock()
	proc, ok := e.actors[pid.ID]
	e.mu.RUnlock()
	if ok {
		proc.sendMessage(message, sender, nil)
	}
}

// Ask delivers message to pid and blocks until the actor calls
// ctx.Reply(...) or timeout elapses.
func (e *Engine) Ask(pid *PID, message interface{}, timeout time.Duration) (interface{}, error) {
	if pid == nil {
		return nil, errors.New("actorkit: ask to nil pid")
	}
	e.mu.RLock()
	proc, ok := e.actors[pid.ID]
	e.mu.RUnlock()
	if !ok {
		return nil, errors.New("actorkit: ask to unknown actor")
	}

	reply := make(chan interface{}, 1)
	proc.sendMessage(message, nil, reply)

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case v := <-reply:
		return v, nil
	case <-timer.C:
		return nil, ErrTimeout
	}
}

// Stop asks an actor to shut down. Its Stopping and then Stopped handlers
// run before it is removed from the engine.
func (e *Engine) Stop(pid *PID) {
	if pid == nil {
		return
	}
	e.mu.RLock()
	proc, ok := e.actors[pid.ID]
	e.mu.RUnlock()
	if !ok {
		return
	}
	e.Send(pid, Stopping{}, nil)
	closeOnce(proc.stopCh)
}

func (e *Engine) remove(pid *PID) {
	e.mu.Lock()
	delete(e.actors, pid.ID)
	e.mu.Unlock()
}

// Shutdown stops every live actor and waits up to timeout for them to
// finish, then forcibly clears any stragglers.
func (e *Engine) Shutdown(timeout time.Duration) {
	if !e.stopping.CompareAndSwap(false, true) {
		return
	}
	e.mu.RLock()
	pids := make([]*PID, 0, len(e.actors))
	for _, proc := range e.actors {
		pids = append(pids, proc.pid)
	}
	e.mu.RUnlock()

	for _, pid := range pids {
		e.Stop(pid)
	}

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		e.mu.RLock()
		remaining := len(e.actors)
		e.mu.RUnlock()
		if remaining == 0 {
			return
		}
		time.Sleep(25 * time.Millisecond)
	}

	e.mu.Lock()
	e.actors = make(map[string]*process)
	e.mu.Unlock()
}
