package wire

import (
	"encoding/json"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/rgrove-dev/parlor/internal/actorkit"
	"github.com/rgrove-dev/parlor/internal/protocol"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/websocket"
)

const readTimeout = 90 * time.Second

// connectionActor owns one long-lived websocket (spec §6.1): a readLoop
// goroutine feeds it frames, and it is the only thing that ever writes to
// or closes its socket, so concurrent send/close from the session actor's
// flush is always serialized through its own mailbox.
type connectionActor struct {
	conn         *websocket.Conn
	engine       *actorkit.Engine
	sessionPID   *actorkit.PID
	selfPID      *actorkit.PID
	addr         string
	log          *logrus.Entry
	playerID     string
	authPresent  bool
	authValid    bool
	stopReadLoop chan struct{}
	readExited   chan struct{}
	done         chan struct{}
	closeOnce    sync.Once
}

// newConnectionActorProducer builds the Producer handed to engine.Spawn for
// one accepted connection. done is closed once the actor fully stops, so
// HandleWebsocket knows when it may let net/http reclaim the connection.
func newConnectionActorProducer(conn *websocket.Conn, engine *actorkit.Engine, sessionPID *actorkit.PID, log *logrus.Entry, done chan struct{}) actorkit.Producer {
	return func() actorkit.Actor {
		addr := "unknown"
		if conn != nil && conn.Request() != nil {
			addr = conn.Request().RemoteAddr
		}
		playerID, present, valid := parseAuthorization(conn)
		return &connectionActor{
			conn:         conn,
			engine:       engine,
			sessionPID:   sessionPID,
			addr:         addr,
			log:          log.WithField("conn", addr),
			playerID:     playerID,
			authPresent:  present,
			authValid:    valid,
			stopReadLoop: make(chan struct{}),
			readExited:   make(chan struct{}),
			done:         done,
		}
	}
}

// parseAuthorization reads "Authorization: Player <id>" off the handshake
// request (spec §6.3): case-insensitive scheme/key, flexible whitespace.
// The header is read once, at handshake, and cached for the connection's
// lifetime — the wire format only carries it there, not per frame.
func parseAuthorization(conn *websocket.Conn) (playerID string, present, valid bool) {
	if conn == nil || conn.Request() == nil {
		return "", false, false
	}
	return parseAuthorizationHeader(conn.Request().Header.Get("Authorization"))
}

// parseAuthorizationHeader is the pure parsing logic behind parseAuthorization,
// split out so it can be exercised without a live websocket handshake.
func parseAuthorizationHeader(header string) (playerID string, present, valid bool) {
	if header == "" {
		return "", false, false
	}
	fields := strings.Fields(header)
	if len(fields) != 2 || !strings.EqualFold(fields[0], "Player") || fields[1] == "" {
		return "", true, false
	}
	return fields[1], true, true
}

func (a *connectionActor) Receive(ctx actorkit.Context) {
	if a.selfPID == nil {
		a.selfPID = ctx.Self()
	}
	switch msg := ctx.Message().(type) {
	case actorkit.Started:
		go a.readLoop()

	case inboundFrame:
		a.handleFrame(msg.data)

	case readLoopDone:
		a.cleanup()

	case sendFrame:
		a.captureSelfRegistration(msg.data)
		if a.conn == nil {
			return
		}
		if err := websocket.Message.Send(a.conn, string(msg.data)); err != nil {
			a.log.WithError(err).Debug("send failed, dropping")
		}

	case closeConn:
		a.cleanup()

	case actorkit.Stopping:
		a.signalReadLoopStop()

	case actorkit.Stopped:
		a.closeOnce.Do(func() {
			if a.conn != nil {
				_ = a.conn.Close()
			}
			if a.done != nil {
				close(a.done)
			}
		})
	}
}

// handleFrame decodes one client frame and, unless auth fails first,
// forwards it to the session actor. Auth failures never reach the engine —
// there is no player_id to resolve against.
func (a *connectionActor) handleFrame(data []byte) {
	req, err := protocol.DecodeRequest(data)
	if err != nil {
		a.sendEvent(failureFor(err))
		return
	}
	if req.Kind != protocol.KindRegisterPlayer {
		if !a.authPresent || !a.authValid {
			a.sendEvent(protocol.Event{
				Kind:          protocol.KindRequestFailed,
				RequestFailed: &protocol.RequestFailedContext{Reason: protocol.ReasonMissingAuth},
			})
			return
		}
	}
	a.engine.Send(a.sessionPID, requestMsg{transport: a.selfPID, playerID: a.playerID, req: req}, a.selfPID)
}

// captureSelfRegistration notices this connection's own PlayerRegistered
// reply and caches the minted/confirmed player_id, so a connection that
// registered (or reregistered) without ever presenting an Authorization
// header — the handshake has already happened by the time one exists — can
// still make authenticated requests for the rest of its lifetime. The
// Connection Registry (spec §4.B) already treats "bound transport" as the
// authority here; this just keeps the connection actor's local cache in
// sync with it instead of re-deriving it from the store on every frame.
func (a *connectionActor) captureSelfRegistration(data []byte) {
	var env struct {
		Message protocol.Kind `json:"message"`
		Context struct {
			PlayerID string `json:"player_id"`
		} `json:"context"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		return
	}
	if env.Message != protocol.KindPlayerRegistered || env.Context.PlayerID == "" {
		return
	}
	a.playerID = env.Context.PlayerID
	a.authPresent = true
	a.authValid = true
}

func failureFor(err error) protocol.Event {
	reason := protocol.ReasonInvalidRequest
	comment := err.Error()
	if rerr, ok := err.(*protocol.RequestError); ok {
		reason = rerr.Reason
		comment = rerr.Comment
	}
	return protocol.Event{Kind: protocol.KindRequestFailed, RequestFailed: &protocol.RequestFailedContext{Reason: reason, Comment: comment}}
}

func (a *connectionActor) sendEvent(e protocol.Event) {
	if a.conn == nil {
		return
	}
	if err := websocket.Message.Send(a.conn, string(protocol.EncodeEvent(&e))); err != nil {
		a.log.WithError(err).Debug("send failed, dropping")
	}
}

func (a *connectionActor) readLoop() {
	defer close(a.readExited)
	for {
		select {
		case <-a.stopReadLoop:
			return
		default:
		}
		if a.conn == nil {
			return
		}
		var frame string
		_ = a.conn.SetReadDeadline(time.Now().Add(readTimeout))
		err := websocket.Message.Receive(a.conn, &frame)
		_ = a.conn.SetReadDeadline(time.Time{})
		if err != nil {
			select {
			case <-a.stopReadLoop:
			default:
				if err != io.EOF {
					a.log.WithError(err).Debug("read loop exiting")
				}
				a.engine.Send(a.selfPID, readLoopDone{}, nil)
			}
			return
		}
		a.engine.Send(a.selfPID, inboundFrame{data: []byte(frame)}, nil)
	}
}

func (a *connectionActor) signalReadLoopStop() {
	select {
	case <-a.stopReadLoop:
	default:
		close(a.stopReadLoop)
	}
	if a.conn != nil {
		_ = a.conn.Close()
	}
	select {
	case <-a.readExited:
	case <-time.After(2 * time.Second):
		a.log.Warn("timed out waiting for read loop to exit")
	}
}

func (a *connectionActor) cleanup() {
	a.signalReadLoopStop()
	a.engine.Send(a.sessionPID, connectionClosed{transport: a.selfPID}, a.selfPID)
	a.engine.Stop(a.selfPID)
}

// HandleWebsocket returns the handler golang.org/x/net/websocket.Handler
// wraps: it spawns one connectionActor per accepted connection and blocks
// until that actor's socket closes, the way
// lguibr-pongo/server/handlers.go's HandleSubscribe blocks on its
// ConnectionHandlerActor's done channel.
func HandleWebsocket(engine *actorkit.Engine, sessionPID *actorkit.PID, log *logrus.Entry) func(*websocket.Conn) {
	return func(conn *websocket.Conn) {
		done := make(chan struct{})
		pid := engine.Spawn(actorkit.NewProps(newConnectionActorProducer(conn, engine, sessionPID, log, done)))
		if pid == nil {
			_ = conn.Close()
			close(done)
			return
		}
		<-done
	}
}
