package sessionengine

import (
	"github.com/rgrove-dev/parlor/internal/protocol"
	"github.com/rgrove-dev/parlor/internal/session"
)

// quitCurrentGame is the game-player-quit sub-transition (spec §4.E):
// removes the caller from an Advertised game or marks them Quit in a
// Playing one, clears the player's own game reference, emits
// GamePlayerChange, and cascades into CANCEL(NotViable) if the game can no
// longer continue.
func (e *Engine) quitCurrentGame(q *TaskQueue, player *session.Player, comment string) {
	g := e.Store.GameByID(player.CurrentGameID)
	player.CurrentGameID = ""
	player.Participation = protocol.ParticipationWaiting
	if g == nil {
		return
	}

	if gp := g.GamePlayers[player.Handle]; gp != nil {
		if g.State == protocol.GameStateAdvertised {
			g.RemovePlayer(player.Handle)
		} else {
			gp.State = protocol.ParticipationQuit
		}
	}
	e.markGameActive(g)
	e.emitGamePlayerChange(q, g, comment)

	if !g.Viable() {
		e.cancelGame(q, g, protocol.CancelReasonNotViable, "", true)
	}
}

// emitGamePlayerChange sends the current game-players table to every
// remaining human (spec §4.E, "Game player quit").
func (e *Engine) emitGamePlayerChange(q *TaskQueue, g *session.Game, comment string) {
	event := protocol.Event{
		Kind:             protocol.KindGamePlayerChange,
		GamePlayerChange: &protocol.GamePlayerChangeContext{Comment: comment, Players: gamePlayerSnapshots(g)},
	}
	for _, handle := range g.HumanHandles() {
		q.Enqueue(e.Store.TransportByHandle(handle), event)
	}
}

// emitGameStateChange sends each human player their own rule-adapter view.
// Used by START_GAME's first state push and by cancel/complete's trailing
// GameStateChange.
func (e *Engine) emitGameStateChange(q *TaskQueue, g *session.Game) {
	if g.Instance == nil {
		return
	}
	for _, handle := range g.HumanHandles() {
		view, err := g.Instance.PlayerView(handle)
		if err != nil {
			e.Log.WithError(err).WithField("game_id", g.ID).Warn("rule adapter player_view failed")
			continue
		}
		q.Enqueue(e.Store.TransportByHandle(handle), protocol.Event{
			Kind:            protocol.KindGameStateChange,
			GameStateChange: &protocol.GameStateChangeContext{View: view},
		})
	}
}

// releaseGamePlayers resets every game-player still pointing at g back to
// Waiting with no current game, preserving the Player-record invariant
// that current_game_id is only set while participation ∈ {Joined,
// Playing}.
func (e *Engine) releaseGamePlayers(g *session.Game) {
	for _, handle := range g.Order {
		p := e.Store.PlayerByHandle(handle)
		if p != nil && p.CurrentGameID == g.ID {
			p.CurrentGameID = ""
			p.Participation = protocol.ParticipationWaiting
		}
	}
}

// cancelGame is the Cancel sub-transition (spec §4.E). notify=false
// suppresses both GameCancelled and the trailing GameStateChange
// (DESIGN.md Open Question 2); state is still mutated identically either
// way.
func (e *Engine) cancelGame(q *TaskQueue, g *session.Game, reason protocol.CancelReason, comment string, notify bool) {
	now := e.Now()
	g.CancelledReason = reason
	g.CompletedComment = comment
	g.CompletedTime = &now
	g.State = protocol.GameStateCancelled
	for _, gp := range g.GamePlayers {
		gp.State = protocol.ParticipationFinished
	}
	e.releaseGamePlayers(g)

	if !notify {
		return
	}
	event := protocol.Event{
		Kind:          protocol.KindGameCancelled,
		GameCancelled: &protocol.GameCancelledContext{Reason: reason, Comment: comment},
	}
	for _, handle := range g.HumanHandles() {
		q.Enqueue(e.Store.TransportByHandle(handle), event)
	}
	e.emitGameStateChange(q, g)
}

// completeGame is the Complete sub-transition (spec §4.E), triggered when
// the rule adapter reports a finished game.
func (e *Engine) completeGame(q *TaskQueue, g *session.Game, comment string) {
	now := e.Now()
	g.CompletedComment = comment
	g.CompletedTime = &now
	g.State = protocol.GameStateCompleted
	for _, gp := range g.GamePlayers {
		gp.State = protocol.ParticipationFinished
	}
	e.releaseGamePlayers(g)

	event := protocol.Event{
		Kind:         protocol.KindGameCompleted,
		GameCompleted: &protocol.GameCompletedContext{Comment: comment},
	}
	for _, handle := range g.HumanHandles() {
		q.Enqueue(e.Store.TransportByHandle(handle), event)
	}
	e.emitGameStateChange(q, g)
}
