// Package wire is the transport plumbing layer (spec §4.G): a per-connection
// actor that owns one websocket and a single session actor that serializes
// every request through internal/sessionengine, the way
// lguibr-pongo/server/connection_handler.go hands frames off to its
// per-room game actor rather than mutating shared state inline.
package wire

import (
	"github.com/rgrove-dev/parlor/internal/actorkit"
	"github.com/rgrove-dev/parlor/internal/protocol"
)

// inboundFrame is sent by a connection actor's readLoop goroutine back to
// itself, carrying one raw client frame.
type inboundFrame struct {
	data []byte
}

// readLoopDone signals the readLoop goroutine exited (error or stop signal).
type readLoopDone struct{}

// sendFrame asks a connection actor to write already-encoded bytes to its
// socket.
type sendFrame struct {
	data []byte
}

// closeConn asks a connection actor to close its socket and stop.
type closeConn struct{}

// requestMsg is sent from a connection actor to the session actor: one
// decoded, envelope-valid request plus the transport it arrived on and the
// connection's cached player_id: taken from the handshake's Authorization
// header, or from this connection's own PlayerRegistered reply (see
// captureSelfRegistration). It is empty when neither has happened yet; the
// session engine ignores it for RegisterPlayer.
type requestMsg struct {
	transport *actorkit.PID
	playerID  string
	req       *protocol.Request
}

// connectionClosed tells the session actor a transport is gone, so any
// player bound to it can be disconnected (spec §4.E player-disconnection
// sub-transition).
type connectionClosed struct {
	transport *actorkit.PID
}

// SweepIdlePlayers, SweepIdleGames, SweepObsoleteGames are sent to the
// session actor by internal/scheduler on its tickers. Exported: the
// scheduler lives in a different package and has no other way to address
// these transitions.
type SweepIdlePlayers struct{}
type SweepIdleGames struct{}
type SweepObsoleteGames struct{}

// Shutdown is sent once to the session actor from cmd/parlorserver's
// graceful-shutdown path.
type Shutdown struct{}

// GamesQuery is Asked of the session actor by the GET /games ops endpoint;
// the reply is []protocol.GameSnapshot.
type GamesQuery struct{}
