package sessionengine

import (
	"github.com/rgrove-dev/parlor/internal/protocol"
	"github.com/rgrove-dev/parlor/internal/session"
)

// registerPlayer is REGISTER_PLAYER (spec §4.E). Unlike every other
// transition it runs before a Player exists, so it takes the raw request
// rather than going through dispatchTable.
func (e *Engine) registerPlayer(q *TaskQueue, transport session.TransportRef, req *protocol.Request) *protocol.RequestError {
	if e.Store.PlayerCount() >= e.Limits.RegisteredPlayerLimit {
		return protocol.NewRequestError(protocol.ReasonUserLimitReached, "registered player limit reached")
	}
	handle := req.RegisterPlayer.Handle
	p, err := e.Store.CreatePlayer(handle, transport)
	if err != nil {
		return protocol.NewRequestError(protocol.ReasonDuplicateUser, "handle already in use")
	}
	q.Enqueue(transport, protocol.Event{
		Kind:             protocol.KindPlayerRegistered,
		PlayerRegistered: &protocol.PlayerRegisteredContext{PlayerID: p.ID},
	})
	return nil
}

// reregisterPlayer is REREGISTER_PLAYER: rebind transport_ref, mark Active
// and Connected. Idempotent by construction (spec §8 property 8, DESIGN.md
// Open Question 3): calling it twice with the same transport leaves the
// same observable state.
func (e *Engine) reregisterPlayer(q *TaskQueue, transport session.TransportRef, player *session.Player, req *protocol.Request) *protocol.RequestError {
	e.Store.BindTransport(player, transport)
	e.markPlayerActive(player)
	q.Enqueue(transport, protocol.Event{
		Kind:             protocol.KindPlayerRegistered,
		PlayerRegistered: &protocol.PlayerRegisteredContext{PlayerID: player.ID},
	})
	return nil
}

// unregisterPlayer is UNREGISTER_PLAYER: if the player is in a game, run
// the game-player-quit sub-transition first, then delete the record.
func (e *Engine) unregisterPlayer(q *TaskQueue, transport session.TransportRef, player *session.Player, req *protocol.Request) *protocol.RequestError {
	if player.CurrentGameID != "" {
		e.quitCurrentGame(q, player, "Player unregistered")
	}
	e.Store.DeletePlayer(player.ID)
	return nil
}

// listPlayers is LIST_PLAYERS.
func (e *Engine) listPlayers(q *TaskQueue, transport session.TransportRef, player *session.Player, req *protocol.Request) *protocol.RequestError {
	e.markPlayerActive(player)
	all := e.Store.AllPlayers()
	snapshots := make([]protocol.PlayerSnapshot, 0, len(all))
	for _, p := range all {
		snapshots = append(snapshots, playerSnapshot(p))
	}
	q.Enqueue(player.Transport, protocol.Event{
		Kind:              protocol.KindRegisteredPlayers,
		RegisteredPlayers: &protocol.RegisteredPlayersContext{Players: snapshots},
	})
	return nil
}

// DisconnectPlayer is the connection-lifecycle sub-transition (spec §4.E,
// "Player disconnection"), driven by internal/wire when a transport
// closes. It is not a client request, so it does not go through
// dispatchTable/HandleRequest.
func (e *Engine) DisconnectPlayer(q *TaskQueue, transport session.TransportRef) {
	player := e.Store.PlayerByTransport(transport)
	if player == nil {
		return
	}
	e.Store.UnbindTransport(player)
	if player.CurrentGameID != "" {
		e.quitCurrentGame(q, player, player.Handle+" disconnected")
	}
}
