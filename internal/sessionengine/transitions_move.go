package sessionengine

import (
	"github.com/rgrove-dev/parlor/internal/protocol"
	"github.com/rgrove-dev/parlor/internal/session"
)

// executeMove is EXECUTE_MOVE.
func (e *Engine) executeMove(q *TaskQueue, transport session.TransportRef, player *session.Player, req *protocol.Request) *protocol.RequestError {
	g, reqErr := e.playingGameFor(player)
	if reqErr != nil {
		return reqErr
	}
	if g.Instance == nil || !g.Instance.IsMovePending(player.Handle) {
		return protocol.NewRequestError(protocol.ReasonNoMovePending, "no move is pending for this player")
	}
	if !g.Instance.IsLegal(player.Handle, req.ExecuteMove.MoveID) {
		return protocol.NewRequestError(protocol.ReasonIllegalMove, "move is not legal")
	}

	result, err := g.Instance.ExecuteMove(player.Handle, req.ExecuteMove.MoveID)
	if err != nil {
		return protocol.InternalError()
	}
	e.markPlayerActive(player)
	e.markGameActive(g)
	e.advanceTurn(q, g, result)
	return nil
}

// retrieveGameState is RETRIEVE_GAME_STATE.
func (e *Engine) retrieveGameState(q *TaskQueue, transport session.TransportRef, player *session.Player, req *protocol.Request) *protocol.RequestError {
	g, reqErr := e.playingGameFor(player)
	if reqErr != nil {
		return reqErr
	}
	e.markPlayerActive(player)
	view, err := g.Instance.PlayerView(player.Handle)
	if err != nil {
		return protocol.InternalError()
	}
	q.Enqueue(player.Transport, protocol.Event{
		Kind:            protocol.KindGameStateChange,
		GameStateChange: &protocol.GameStateChangeContext{View: view},
	})
	return nil
}

// sendMessage is SEND_MESSAGE: no state change, fan-out only. Unknown
// recipients are silently dropped (spec §4.E).
func (e *Engine) sendMessage(q *TaskQueue, transport session.TransportRef, player *session.Player, req *protocol.Request) *protocol.RequestError {
	e.markPlayerActive(player)
	event := protocol.Event{
		Kind: protocol.KindPlayerMessageReceived,
		PlayerMessageReceived: &protocol.PlayerMessageReceivedContext{
			SenderHandle:     player.Handle,
			RecipientHandles: req.SendMessage.RecipientHandles,
			Message:          req.SendMessage.Message,
		},
	}
	for _, handle := range req.SendMessage.RecipientHandles {
		if t := e.Store.TransportByHandle(handle); t != nil {
			q.Enqueue(t, event)
		}
	}
	return nil
}

// playingGameFor resolves the caller's current game, requiring it to be
// Playing (shared precondition of EXECUTE_MOVE and RETRIEVE_GAME_STATE).
func (e *Engine) playingGameFor(player *session.Player) (*session.Game, *protocol.RequestError) {
	if player.CurrentGameID == "" {
		return nil, protocol.NewRequestError(protocol.ReasonNotPlaying, "not in a game")
	}
	g := e.Store.GameByID(player.CurrentGameID)
	if g == nil || g.State != protocol.GameStatePlaying {
		return nil, protocol.NewRequestError(protocol.ReasonInvalidGame, "game is not in progress")
	}
	return g, nil
}
