// Package session holds the Entity Store and Connection Registry (spec
// §4.B/§4.C): the Player and Game records and the three maps that index
// them. Every exported method assumes it is called from inside the single
// critical section (the session-engine actor's Receive); none of it takes
// a lock of its own.
package session

import (
	"time"

	"github.com/rgrove-dev/parlor/internal/protocol"
	"github.com/rgrove-dev/parlor/internal/rules"
)

// TransportRef identifies a live connection without coupling this package
// to any transport implementation. internal/wire's *actorkit.PID satisfies
// this by way of its existing String method.
type TransportRef interface {
	String() string
}

// Player is the server's record of a registered identity (spec §3).
type Player struct {
	ID               string
	Handle           string
	Transport        TransportRef
	RegistrationTime time.Time
	LastActiveTime   time.Time
	Activity         protocol.Activity
	Connection       protocol.Connection
	Participation    protocol.Participation
	CurrentGameID    string
}

// GamePlayer is one row of a Game's game_players table (spec §3).
type GamePlayer struct {
	Handle string
	Color  string
	Kind   protocol.PlayerKind
	State  protocol.Participation
}

// Game is the server's record of a room (spec §3).
type Game struct {
	ID               string
	AdvertiserHandle string
	Name             string
	Mode             protocol.Mode
	TargetPlayers    int
	Visibility       protocol.Visibility
	InvitedHandles   []string

	AdvertisedTime time.Time
	LastActiveTime time.Time
	StartedTime    *time.Time
	CompletedTime  *time.Time

	State           protocol.GameState
	Activity        protocol.Activity
	CancelledReason protocol.CancelReason
	CompletedComment string

	// GamePlayers is keyed by handle and preserves join order via Order.
	GamePlayers map[string]*GamePlayer
	Order       []string

	// Instance is the rule adapter's live game, set by the START
	// transition and nil before it (spec §4.D, §6.4).
	Instance rules.Instance
}

// PlayableStates are the game-player states that count toward viability
// (spec §4.E, Game player quit sub-transition).
var PlayableStates = map[protocol.Participation]bool{
	protocol.ParticipationWaiting:  true,
	protocol.ParticipationJoined:   true,
	protocol.ParticipationPlaying:  true,
	protocol.ParticipationFinished: true,
}

// Players returns the game's players in the order they joined.
func (g *Game) Players() []*GamePlayer {
	out := make([]*GamePlayer, 0, len(g.Order))
	for _, handle := range g.Order {
		if gp, ok := g.GamePlayers[handle]; ok {
			out = append(out, gp)
		}
	}
	return out
}

// AddPlayer appends a new game-player, preserving join order.
func (g *Game) AddPlayer(gp *GamePlayer) {
	if g.GamePlayers == nil {
		g.GamePlayers = make(map[string]*GamePlayer)
	}
	g.GamePlayers[gp.Handle] = gp
	g.Order = append(g.Order, gp.Handle)
}

// RemovePlayer deletes a game-player entirely (used for the Advertised-state
// quit path, where the entry is dropped rather than marked Quit).
func (g *Game) RemovePlayer(handle string) {
	delete(g.GamePlayers, handle)
	for i, h := range g.Order {
		if h == handle {
			g.Order = append(g.Order[:i], g.Order[i+1:]...)
			break
		}
	}
}

// IsInvited reports whether handle appears in the game's invite list.
func (g *Game) IsInvited(handle string) bool {
	for _, h := range g.InvitedHandles {
		if h == handle {
			return true
		}
	}
	return false
}

// Joinable reports whether caller may JOIN_GAME this game (spec §4.E,
// LIST_AVAILABLE_GAMES / JOIN_GAME).
func (g *Game) Joinable(callerHandle string) bool {
	if g.State != protocol.GameStateAdvertised {
		return false
	}
	if g.Visibility == protocol.VisibilityPublic {
		return true
	}
	return g.IsInvited(callerHandle)
}

// Viable reports whether the game can continue (spec §4.E, Game player
// quit sub-transition). An Advertised game is always viable (Open
// Question 1 in DESIGN.md); otherwise at least 2 game-players must remain
// in a playable state.
func (g *Game) Viable() bool {
	if g.State == protocol.GameStateAdvertised {
		return true
	}
	playable := 0
	for _, gp := range g.GamePlayers {
		if PlayableStates[gp.State] {
			playable++
		}
	}
	return playable >= 2
}

// HumanHandles returns the handle of every Human game-player, in join
// order.
func (g *Game) HumanHandles() []string {
	out := make([]string, 0, len(g.GamePlayers))
	for _, handle := range g.Order {
		gp := g.GamePlayers[handle]
		if gp != nil && gp.Kind == protocol.PlayerKindHuman {
			out = append(out, handle)
		}
	}
	return out
}
