package sessionengine

import (
	"github.com/rgrove-dev/parlor/internal/protocol"
	"github.com/rgrove-dev/parlor/internal/session"
)

// PublicGamesSnapshot is a read-only query for the GET /games ops endpoint
// (internal/wire's HandleListGames), not part of the client wire protocol: every
// Public-visibility game currently open for joining, with no caller whose
// invitations would otherwise need checking. Must still run on the session
// actor like any other read of the store.
func (e *Engine) PublicGamesSnapshot() []protocol.GameSnapshot {
	var snapshots []protocol.GameSnapshot
	for _, g := range e.Store.AllGames() {
		if g.Visibility == protocol.VisibilityPublic && g.State == protocol.GameStateAdvertised {
			snapshots = append(snapshots, gameSnapshot(g))
		}
	}
	return snapshots
}

// advertiseGame is ADVERTISE_GAME (spec §4.E): creates the room and runs
// the Game-Invitation and Game-Joined sub-transitions for the advertiser,
// who is always its first game-player.
func (e *Engine) advertiseGame(q *TaskQueue, transport session.TransportRef, player *session.Player, req *protocol.Request) *protocol.RequestError {
	if player.CurrentGameID != "" {
		return protocol.NewRequestError(protocol.ReasonAlreadyPlaying, "already in a game")
	}
	if e.Store.GameCount() >= e.Limits.TotalGameLimit {
		return protocol.NewRequestError(protocol.ReasonGameLimitReached, "total game limit reached")
	}

	ctx := req.AdvertiseGame
	g := &session.Game{
		AdvertiserHandle: player.Handle,
		Name:             ctx.Name,
		Mode:             ctx.Mode,
		TargetPlayers:    ctx.Players,
		Visibility:       ctx.Visibility,
		InvitedHandles:   append([]string(nil), ctx.InvitedHandles...),
	}
	e.Store.CreateGame(g)
	e.markPlayerActive(player)

	q.Enqueue(player.Transport, protocol.Event{
		Kind:           protocol.KindGameAdvertised,
		GameAdvertised: &protocol.GameAdvertisedContext{GameID: g.ID},
	})

	for _, handle := range g.InvitedHandles {
		if t := e.Store.TransportByHandle(handle); t != nil {
			q.Enqueue(t, protocol.Event{
				Kind: protocol.KindGameInvitation,
				GameInvitation: &protocol.GameInvitationContext{
					GameID: g.ID, Name: g.Name, AdvertiserHandle: player.Handle,
				},
			})
		}
	}

	g.AddPlayer(&session.GamePlayer{
		Handle: player.Handle,
		Color:  nextColor(usedColors(g)),
		Kind:   protocol.PlayerKindHuman,
		State:  protocol.ParticipationJoined,
	})
	player.CurrentGameID = g.ID
	player.Participation = protocol.ParticipationJoined

	q.Enqueue(player.Transport, protocol.Event{
		Kind:       protocol.KindGameJoined,
		GameJoined: &protocol.GameJoinedContext{GameID: g.ID},
	})
	return nil
}

// listAvailableGames is LIST_AVAILABLE_GAMES.
func (e *Engine) listAvailableGames(q *TaskQueue, transport session.TransportRef, player *session.Player, req *protocol.Request) *protocol.RequestError {
	e.markPlayerActive(player)
	var snapshots []protocol.GameSnapshot
	for _, g := range e.Store.AllGames() {
		if g.Joinable(player.Handle) {
			snapshots = append(snapshots, gameSnapshot(g))
		}
	}
	q.Enqueue(player.Transport, protocol.Event{
		Kind:           protocol.KindAvailableGames,
		AvailableGames: &protocol.AvailableGamesContext{Games: snapshots},
	})
	return nil
}

// joinGame is JOIN_GAME. Filling the game triggers the START sub-transition
// (subject to in_progress_game_limit; if the limit is reached the game
// simply stays Advertised, with no failure reported to this caller).
func (e *Engine) joinGame(q *TaskQueue, transport session.TransportRef, player *session.Player, req *protocol.Request) *protocol.RequestError {
	if player.CurrentGameID != "" {
		return protocol.NewRequestError(protocol.ReasonAlreadyPlaying, "already in a game")
	}
	g := e.Store.GameByID(req.JoinGame.GameID)
	if g == nil || !g.Joinable(player.Handle) {
		return protocol.NewRequestError(protocol.ReasonInvalidGame, "game not found or not joinable")
	}

	g.AddPlayer(&session.GamePlayer{
		Handle: player.Handle,
		Color:  nextColor(usedColors(g)),
		Kind:   protocol.PlayerKindHuman,
		State:  protocol.ParticipationJoined,
	})
	player.CurrentGameID = g.ID
	player.Participation = protocol.ParticipationJoined
	e.markPlayerActive(player)
	e.markGameActive(g)

	q.Enqueue(player.Transport, protocol.Event{
		Kind:       protocol.KindGameJoined,
		GameJoined: &protocol.GameJoinedContext{GameID: g.ID},
	})

	if len(g.GamePlayers) == g.TargetPlayers && e.Store.InProgressGameCount() < e.Limits.InProgressGameLimit {
		if err := e.doStartGame(q, g); err != nil {
			e.Log.WithError(err).WithField("game_id", g.ID).Error("auto-start on join failed")
		}
	}
	return nil
}

// quitGame is QUIT_GAME. The advertiser may never quit their own game
// (they must CANCEL instead).
func (e *Engine) quitGame(q *TaskQueue, transport session.TransportRef, player *session.Player, req *protocol.Request) *protocol.RequestError {
	if player.CurrentGameID == "" {
		return protocol.NewRequestError(protocol.ReasonNotPlaying, "not in a game")
	}
	g := e.Store.GameByID(player.CurrentGameID)
	if g == nil || (g.State != protocol.GameStateAdvertised && g.State != protocol.GameStatePlaying) {
		return protocol.NewRequestError(protocol.ReasonInvalidGame, "game not in progress")
	}
	if g.AdvertiserHandle == player.Handle {
		return protocol.NewRequestError(protocol.ReasonAdvertiserMayNotQuit, "advertiser may not quit; use CancelGame")
	}
	e.markPlayerActive(player)
	e.quitCurrentGame(q, player, player.Handle+" quit")
	return nil
}

// startGame is START_GAME, restricted to the advertiser.
func (e *Engine) startGame(q *TaskQueue, transport session.TransportRef, player *session.Player, req *protocol.Request) *protocol.RequestError {
	if player.CurrentGameID == "" {
		return protocol.NewRequestError(protocol.ReasonNotPlaying, "not in a game")
	}
	g := e.Store.GameByID(player.CurrentGameID)
	if g == nil {
		return protocol.NewRequestError(protocol.ReasonInvalidGame, "game not found")
	}
	if g.State == protocol.GameStatePlaying {
		return protocol.NewRequestError(protocol.ReasonAlreadyPlaying, "game already playing")
	}
	if g.State != protocol.GameStateAdvertised {
		return protocol.NewRequestError(protocol.ReasonInvalidGame, "game is not startable")
	}
	if g.AdvertiserHandle != player.Handle {
		return protocol.NewRequestError(protocol.ReasonNotAdvertiser, "only the advertiser may start")
	}
	if e.Store.InProgressGameCount() >= e.Limits.InProgressGameLimit {
		return protocol.NewRequestError(protocol.ReasonGameLimitReached, "in-progress game limit reached")
	}
	e.markPlayerActive(player)
	if err := e.doStartGame(q, g); err != nil {
		return protocol.InternalError()
	}
	return nil
}

// cancelGameRequest is CANCEL_GAME, restricted to the advertiser.
func (e *Engine) cancelGameRequest(q *TaskQueue, transport session.TransportRef, player *session.Player, req *protocol.Request) *protocol.RequestError {
	if player.CurrentGameID == "" {
		return protocol.NewRequestError(protocol.ReasonNotPlaying, "not in a game")
	}
	g := e.Store.GameByID(player.CurrentGameID)
	if g == nil || (g.State != protocol.GameStateAdvertised && g.State != protocol.GameStatePlaying) {
		return protocol.NewRequestError(protocol.ReasonInvalidGame, "game not in progress")
	}
	if g.AdvertiserHandle != player.Handle {
		return protocol.NewRequestError(protocol.ReasonNotAdvertiser, "only the advertiser may cancel")
	}
	e.markPlayerActive(player)
	e.cancelGame(q, g, protocol.CancelReasonCancelled, "", true)
	return nil
}
