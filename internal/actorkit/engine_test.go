package actorkit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type echoActor struct {
	received []interface{}
}

func (a *echoActor) Receive(ctx Context) {
	switch msg := ctx.Message().(type) {
	case string:
		a.received = append(a.received, msg)
		ctx.Reply("echo:" + msg)
	case Started, Stopping, Stopped:
	default:
		a.received = append(a.received, msg)
	}
}

func TestSendIsDeliveredInOrder(t *testing.T) {
	e := NewEngine(nil)
	actor := &echoActor{}
	pid := e.Spawn(NewProps(func() Actor { return actor }))
	require.NotNil(t, pid)

	e.Send(pid, "one", nil)
	e.Send(pid, "two", nil)

	require.Eventually(t, func() bool { return len(actor.received) == 2 }, time.Second, time.Millisecond)
	assert.Equal(t, []interface{}{"one", "two"}, actor.received)
}

func TestAskReturnsReply(t *testing.T) {
	e := NewEngine(nil)
	pid := e.Spawn(NewProps(func() Actor { return &echoActor{} }))
	require.NotNil(t, pid)

	reply, err := e.Ask(pid, "ping", time.Second)
	require.NoError(t, err)
	assert.Equal(t, "echo:ping", reply)
}

func TestAskTimesOutWhenActorNeverReplies(t *testing.T) {
	e := NewEngine(nil)
	pid := e.Spawn(NewProps(func() Actor {
		return ActorFunc(func(ctx Context) {})
	}))
	require.NotNil(t, pid)

	_, err := e.Ask(pid, "ping", 20*time.Millisecond)
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestStopRunsLifecycleAndRemovesActor(t *testing.T) {
	e := NewEngine(nil)
	lifecycle := make(chan string, 3)
	pid := e.Spawn(NewProps(func() Actor {
		return ActorFunc(func(ctx Context) {
			switch ctx.Message().(type) {
			case Started:
				lifecycle <- "started"
			case Stopping:
				lifecycle <- "stopping"
			case Stopped:
				lifecycle <- "stopped"
			}
		})
	}))
	require.NotNil(t, pid)
	require.Eventually(t, func() bool { return len(lifecycle) >= 1 }, time.Second, time.Millisecond)

	e.Stop(pid)
	require.Eventually(t, func() bool { return len(lifecycle) == 3 }, time.Second, time.Millisecond)

	e.mu.RLock()
	_, stillPresent := e.actors[pid.ID]
	e.mu.RUnlock()
	assert.False(t, stillPresent)
}

// ActorFunc adapts a plain function to the Actor interface for tests.
type ActorFunc func(ctx Context)

func (f ActorFunc) Receive(ctx Context) { f(ctx) }
