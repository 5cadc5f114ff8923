package wire

import (
	"github.com/rgrove-dev/parlor/internal/actorkit"
	"github.com/rgrove-dev/parlor/internal/session"
	"github.com/rgrove-dev/parlor/internal/sessionengine"
	"github.com/sirupsen/logrus"
)

// SessionActor is the single actor that owns every state transition (spec
// §5's "single global critical section"): its mailbox is drained by one
// goroutine, so no two transitions are ever simultaneously in flight no
// matter how many connections are feeding it concurrently.
type SessionActor struct {
	engine *sessionengine.Engine
	log    *logrus.Entry
}

// NewSessionActorProducer builds the Producer for the one SessionActor the
// process spawns at startup.
func NewSessionActorProducer(engine *sessionengine.Engine, log *logrus.Entry) actorkit.Producer {
	return func() actorkit.Actor {
		return &SessionActor{engine: engine, log: log}
	}
}

func (s *SessionActor) Receive(ctx actorkit.Context) {
	switch msg := ctx.Message().(type) {
	case requestMsg:
		q := sessionengine.NewTaskQueue()
		s.engine.HandleRequest(q, asTransport(msg.transport), msg.playerID, msg.req)
		s.flush(ctx, q)

	case connectionClosed:
		q := sessionengine.NewTaskQueue()
		s.engine.DisconnectPlayer(q, asTransport(msg.transport))
		s.flush(ctx, q)

	case SweepIdlePlayers:
		q := sessionengine.NewTaskQueue()
		s.engine.SweepIdlePlayers(q)
		s.flush(ctx, q)

	case SweepIdleGames:
		q := sessionengine.NewTaskQueue()
		s.engine.SweepIdleGames(q)
		s.flush(ctx, q)

	case SweepObsoleteGames:
		s.engine.SweepObsoleteGames()

	case Shutdown:
		q := sessionengine.NewTaskQueue()
		s.engine.Shutdown(q)
		s.flush(ctx, q)
		ctx.Reply(struct{}{})

	case GamesQuery:
		ctx.Reply(s.engine.PublicGamesSnapshot())
	}
}

// flush drains q outside the transition (spec §5: sends happen outside the
// critical section) by addressing each recipient's own connectionActor, so
// a slow or stuck socket write never blocks the session actor's mailbox.
func (s *SessionActor) flush(ctx actorkit.Context, q *sessionengine.TaskQueue) {
	eng := ctx.Engine()
	q.Flush(
		func(transport session.TransportRef, data []byte) {
			if pid, ok := transport.(*actorkit.PID); ok {
				eng.Send(pid, sendFrame{data: data}, ctx.Self())
			}
		},
		func(transport session.TransportRef) {
			if pid, ok := transport.(*actorkit.PID); ok {
				eng.Send(pid, closeConn{}, ctx.Self())
			}
		},
	)
}

// asTransport adapts a possibly-nil *actorkit.PID into session.TransportRef
// without ever boxing a non-nil interface around a nil pointer (a nil
// *actorkit.PID stored directly in an interface is != nil, which would
// confuse every "transport == nil" check in internal/session).
func asTransport(pid *actorkit.PID) session.TransportRef {
	if pid == nil {
		return nil
	}
	return pid
}
