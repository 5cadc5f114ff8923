package protocol

import "encoding/json"

const (
	KindRequestFailed         Kind = "RequestFailed"
	KindRegisteredPlayers     Kind = "RegisteredPlayers"
	KindAvailableGames        Kind = "AvailableGames"
	KindPlayerRegistered      Kind = "PlayerRegistered"
	KindPlayerDisconnected    Kind = "PlayerDisconnected"
	KindPlayerIdle            Kind = "PlayerIdle"
	KindPlayerInactive        Kind = "PlayerInactive"
	KindPlayerMessageReceived Kind = "PlayerMessageReceived"
	KindGameAdvertised        Kind = "GameAdvertised"
	KindGameInvitation        Kind = "GameInvitation"
	KindGameJoined            Kind = "GameJoined"
	KindGameStarted           Kind = "GameStarted"
	KindGameCancelled         Kind = "GameCancelled"
	KindGameCompleted         Kind = "GameCompleted"
	KindGameIdle              Kind = "GameIdle"
	KindGameInactive          Kind = "GameInactive"
	// KindGameObsolete is declared for wire-format completeness (spec §6.2
	// lists it among the event kinds) but is never emitted: the obsolete
	// sweep deletes silently per spec §4.E.
	KindGameObsolete    Kind = "GameObsolete"
	KindGamePlayerChange Kind = "GamePlayerChange"
	KindGameStateChange  Kind = "GameStateChange"
	KindGamePlayerTurn   Kind = "GamePlayerTurn"
	KindServerShutdown   Kind = "ServerShutdown"
)

// PlayerSnapshot is the read-only view of a player returned by
// RegisteredPlayers.
type PlayerSnapshot struct {
	Handle           string     `json:"handle"`
	RegistrationTime Time       `json:"registration_time"`
	LastActiveTime   Time       `json:"last_active_time"`
	Activity         Activity   `json:"activity"`
	Connection       Connection `json:"connection"`
}

// GamePlayerSnapshot is one row of a Game's game_players table.
type GamePlayerSnapshot struct {
	Handle string        `json:"handle"`
	Color  string        `json:"color"`
	Kind   PlayerKind    `json:"kind"`
	State  Participation `json:"state"`
}

// GameSnapshot is the read-only view of a game returned by AvailableGames.
type GameSnapshot struct {
	GameID           string     `json:"game_id"`
	AdvertiserHandle string     `json:"advertiser_handle"`
	Name             string     `json:"name"`
	Mode             Mode       `json:"mode"`
	TargetPlayers    int        `json:"target_player_count"`
	Visibility       Visibility `json:"visibility"`
	AdvertisedTime   Time       `json:"advertised_time"`
}

// RequestFailedContext is the single failure envelope every rejected
// request produces.
type RequestFailedContext struct {
	Reason  Reason `json:"reason"`
	Comment string `json:"comment,omitempty"`
}

type RegisteredPlayersContext struct {
	Players []PlayerSnapshot `json:"players"`
}

type AvailableGamesContext struct {
	Games []GameSnapshot `json:"games"`
}

type PlayerRegisteredContext struct {
	PlayerID string `json:"player_id"`
}

type PlayerDisconnectedContext struct {
	Handle string `json:"handle"`
}

type PlayerIdleContext struct {
	Handle string `json:"handle"`
}

type PlayerInactiveContext struct {
	Handle string `json:"handle"`
}

type PlayerMessageReceivedContext struct {
	SenderHandle     string   `json:"sender_handle"`
	RecipientHandles []string `json:"recipient_handles"`
	Message          string   `json:"message"`
}

type GameAdvertisedContext struct {
	GameID string `json:"game_id"`
}

type GameInvitationContext struct {
	GameID           string `json:"game_id"`
	Name             string `json:"name"`
	AdvertiserHandle string `json:"advertiser_handle"`
}

type GameJoinedContext struct {
	GameID string `json:"game_id"`
}

type GameStartedContext struct {
	GameID string `json:"game_id"`
}

type GameCancelledContext struct {
	Reason  CancelReason `json:"reason"`
	Comment string       `json:"comment,omitempty"`
}

type GameCompletedContext struct {
	Comment string `json:"comment,omitempty"`
}

type GameIdleContext struct {
	GameID string `json:"game_id"`
}

type GameInactiveContext struct {
	GameID string `json:"game_id"`
}

type GamePlayerChangeContext struct {
	Comment string               `json:"comment"`
	Players []GamePlayerSnapshot `json:"players"`
}

// GameStateChangeContext carries the rule adapter's opaque per-player view.
type GameStateChangeContext struct {
	View json.RawMessage `json:"view"`
}

type GamePlayerTurnContext struct {
	Handle     string   `json:"handle"`
	LegalMoves []string `json:"legal_moves"`
}

// Event is the encoded form of a single outbound message, addressed to one
// transport by the dispatcher/TaskQueue before being flushed.
type Event struct {
	Kind                  Kind
	RequestFailed         *RequestFailedContext
	RegisteredPlayers     *RegisteredPlayersContext
	AvailableGames        *AvailableGamesContext
	PlayerRegistered      *PlayerRegisteredContext
	PlayerDisconnected    *PlayerDisconnectedContext
	PlayerIdle            *PlayerIdleContext
	PlayerInactive        *PlayerInactiveContext
	PlayerMessageReceived *PlayerMessageReceivedContext
	GameAdvertised        *GameAdvertisedContext
	GameInvitation        *GameInvitationContext
	GameJoined            *GameJoinedContext
	GameStarted           *GameStartedContext
	GameCancelled         *GameCancelledContext
	GameCompleted         *GameCompletedContext
	GameIdle              *GameIdleContext
	GameInactive          *GameInactiveContext
	GamePlayerChange      *GamePlayerChangeContext
	GameStateChange       *GameStateChangeContext
	GamePlayerTurn        *GamePlayerTurnContext
	// ServerShutdown carries no context.
}
