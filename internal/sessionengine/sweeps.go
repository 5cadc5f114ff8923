package sessionengine

import "github.com/rgrove-dev/parlor/internal/protocol"

// SweepIdlePlayers is the idle-player sweep (spec §4.E). Classification is
// strict-greater-than (spec §8 property 12): a player exactly at a
// threshold is not yet idle/inactive. PlayerIdle/PlayerInactive are
// self-notifications only (manager.py's _handle_player_idle_event and
// _handle_player_inactive_event both call queue.add(message,
// players=[player]), never a lobby-wide broadcast).
func (e *Engine) SweepIdlePlayers(q *TaskQueue) {
	now := e.Now()
	for _, p := range e.Store.AllPlayers() {
		elapsed := now.Sub(p.LastActiveTime)
		disconnectedIdle := p.Connection == protocol.ConnectionDisconnected && elapsed > e.Limits.PlayerIdleThresh
		if elapsed > e.Limits.PlayerInactiveThresh || disconnectedIdle {
			q.Enqueue(p.Transport, protocol.Event{
				Kind:           protocol.KindPlayerInactive,
				PlayerInactive: &protocol.PlayerInactiveContext{Handle: p.Handle},
			})
			if p.Transport != nil {
				q.Disconnect(p.Transport)
			}
			if p.CurrentGameID != "" {
				e.quitCurrentGame(q, p, p.Handle+" is inactive")
			}
			e.Store.DeletePlayer(p.ID)
			continue
		}
		if elapsed > e.Limits.PlayerIdleThresh && p.Activity != protocol.ActivityIdle {
			q.Enqueue(p.Transport, protocol.Event{
				Kind:       protocol.KindPlayerIdle,
				PlayerIdle: &protocol.PlayerIdleContext{Handle: p.Handle},
			})
			p.Activity = protocol.ActivityIdle
		}
	}
}

// SweepIdleGames is the idle-game sweep (spec §4.E).
func (e *Engine) SweepIdleGames(q *TaskQueue) {
	now := e.Now()
	for _, g := range e.Store.AllGames() {
		if g.State != protocol.GameStateAdvertised && g.State != protocol.GameStatePlaying {
			continue
		}
		elapsed := now.Sub(g.LastActiveTime)
		if elapsed > e.Limits.GameInactiveThresh {
			e.cancelGame(q, g, protocol.CancelReasonInactive, "", true)
			continue
		}
		if elapsed > e.Limits.GameIdleThresh && g.Activity != protocol.ActivityIdle {
			event := protocol.Event{Kind: protocol.KindGameIdle, GameIdle: &protocol.GameIdleContext{GameID: g.ID}}
			for _, handle := range g.HumanHandles() {
				q.Enqueue(e.Store.TransportByHandle(handle), event)
			}
			g.Activity = protocol.ActivityIdle
		}
	}
}

// SweepObsoleteGames is the obsolete-game sweep (spec §4.E): no event is
// emitted, so it takes no TaskQueue.
func (e *Engine) SweepObsoleteGames() {
	now := e.Now()
	for _, g := range e.Store.AllGames() {
		if g.State != protocol.GameStateCompleted && g.State != protocol.GameStateCancelled {
			continue
		}
		if g.CompletedTime == nil {
			continue
		}
		if now.Sub(*g.CompletedTime) > e.Limits.GameRetentionThresh {
			e.Store.DeleteGame(g.ID)
		}
	}
}

// Shutdown is the shutdown transition (spec §4.E): notify every connected
// transport, then cancel every in-progress game with notify=false so no
// GameCancelled cascades out.
func (e *Engine) Shutdown(q *TaskQueue) {
	for _, p := range e.Store.AllPlayers() {
		if p.Transport != nil {
			q.Enqueue(p.Transport, protocol.Event{Kind: protocol.KindServerShutdown})
		}
	}
	for _, g := range e.Store.AllGames() {
		if g.State == protocol.GameStateAdvertised || g.State == protocol.GameStatePlaying {
			e.cancelGame(q, g, protocol.CancelReasonShutdown, "", false)
		}
	}
}
