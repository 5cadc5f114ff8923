package sessionengine

import (
	"github.com/rgrove-dev/parlor/internal/protocol"
	"github.com/rgrove-dev/parlor/internal/rules"
	"github.com/rgrove-dev/parlor/internal/session"
)

// doStartGame is the shared effect of the START sub-transition (spec
// §4.E), invoked both by an explicit START_GAME request and by JOIN_GAME
// filling the last seat: synthesize programmatic backfill, promote every
// game-player to Playing, hand seats to the rule adapter, and kick off the
// first turn.
func (e *Engine) doStartGame(q *TaskQueue, g *session.Game) error {
	now := e.Now()
	g.StartedTime = &now
	g.State = protocol.GameStatePlaying

	used := usedColors(g)
	var backfilled []string
	needed := g.TargetPlayers - len(g.GamePlayers)
	if needed > 0 {
		for _, name := range drawNames(e.Rand, needed) {
			color := nextColor(used)
			used[color] = true
			g.AddPlayer(&session.GamePlayer{
				Handle: name, Color: color,
				Kind: protocol.PlayerKindProgrammatic, State: protocol.ParticipationPlaying,
			})
			backfilled = append(backfilled, name)
		}
	}
	for _, gp := range g.GamePlayers {
		gp.State = protocol.ParticipationPlaying
	}
	for _, handle := range g.HumanHandles() {
		if p := e.Store.PlayerByHandle(handle); p != nil {
			p.Participation = protocol.ParticipationPlaying
		}
	}

	seats := make([]rules.Seat, 0, len(g.Order))
	for _, h := range g.Order {
		gp := g.GamePlayers[h]
		seats = append(seats, rules.Seat{Handle: h, Color: gp.Color})
	}
	instance, err := e.Adapter.Start(seats)
	if err != nil {
		e.Log.WithError(err).WithField("game_id", g.ID).Error("rule adapter start failed")
		g.StartedTime = nil
		g.State = protocol.GameStateAdvertised
		for _, name := range backfilled {
			g.RemovePlayer(name)
		}
		for _, gp := range g.GamePlayers {
			gp.State = protocol.ParticipationJoined
		}
		for _, handle := range g.HumanHandles() {
			if p := e.Store.PlayerByHandle(handle); p != nil {
				p.Participation = protocol.ParticipationJoined
			}
		}
		return err
	}
	g.Instance = instance
	e.markGameActive(g)

	startedEvent := protocol.Event{Kind: protocol.KindGameStarted, GameStarted: &protocol.GameStartedContext{GameID: g.ID}}
	for _, handle := range g.HumanHandles() {
		q.Enqueue(e.Store.TransportByHandle(handle), startedEvent)
	}
	e.emitGamePlayerChange(q, g, "Game started")
	e.emitGameStateChange(q, g)

	first, moves := instance.FirstTurn()
	if first == "" {
		return nil
	}
	q.Enqueue(e.Store.TransportByHandle(first), protocol.Event{
		Kind:           protocol.KindGamePlayerTurn,
		GamePlayerTurn: &protocol.GamePlayerTurnContext{Handle: first, LegalMoves: moves},
	})
	if gp := g.GamePlayers[first]; gp != nil && gp.Kind == protocol.PlayerKindProgrammatic {
		e.playProgrammaticTurn(q, g, first, moves)
	}
	return nil
}

// advanceTurn applies a rule adapter's MoveResult: completion runs the
// Complete sub-transition; otherwise it pushes the new state to everyone
// and the next turn to whoever is designated, auto-playing it immediately
// if that seat is Programmatic (spec's backfill has no real client behind
// it, so the engine must move on its behalf for play to proceed).
func (e *Engine) advanceTurn(q *TaskQueue, g *session.Game, result rules.MoveResult) {
	if result.Completed {
		e.completeGame(q, g, result.Comment)
		return
	}
	e.emitGameStateChange(q, g)
	if result.NextTurnHandle == "" {
		return
	}
	q.Enqueue(e.Store.TransportByHandle(result.NextTurnHandle), protocol.Event{
		Kind:           protocol.KindGamePlayerTurn,
		GamePlayerTurn: &protocol.GamePlayerTurnContext{Handle: result.NextTurnHandle, LegalMoves: result.NextTurnMoves},
	})
	if gp := g.GamePlayers[result.NextTurnHandle]; gp != nil && gp.Kind == protocol.PlayerKindProgrammatic {
		e.playProgrammaticTurn(q, g, result.NextTurnHandle, result.NextTurnMoves)
	}
}

// playProgrammaticTurn picks the backfilled seat's first legal move
// (spec has no opinion on bot strategy; this keeps play moving
// deterministically enough for tests) and recurses through advanceTurn.
func (e *Engine) playProgrammaticTurn(q *TaskQueue, g *session.Game, handle string, moves []string) {
	if len(moves) == 0 || g.Instance == nil {
		return
	}
	result, err := g.Instance.ExecuteMove(handle, moves[0])
	if err != nil {
		e.Log.WithError(err).WithField("game_id", g.ID).Warn("programmatic move failed")
		return
	}
	e.markGameActive(g)
	e.advanceTurn(q, g, result)
}
