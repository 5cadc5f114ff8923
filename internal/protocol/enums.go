package protocol

// Mode is a game-mode label chosen by the advertiser; the protocol itself
// treats it as an opaque string forwarded to the rule adapter, but it must
// still be a well-formed, non-empty name (see validateName).
type Mode = string

// Visibility controls who may join a Public or Private game.
type Visibility string

const (
	VisibilityPublic  Visibility = "Public"
	VisibilityPrivate Visibility = "Private"
)

func (v Visibility) valid() bool {
	switch v {
	case VisibilityPublic, VisibilityPrivate:
		return true
	default:
		return false
	}
}

// Activity classifies how recently a player or game has produced activity.
type Activity string

const (
	ActivityActive   Activity = "Active"
	ActivityIdle     Activity = "Idle"
	ActivityInactive Activity = "Inactive"
)

// Connection reflects whether a player's transport is currently live.
type Connection string

const (
	ConnectionConnected    Connection = "Connected"
	ConnectionDisconnected Connection = "Disconnected"
)

// Participation is a player's standing with respect to a game, or their
// overall standing before joining one.
type Participation string

const (
	ParticipationWaiting      Participation = "Waiting"
	ParticipationJoined       Participation = "Joined"
	ParticipationPlaying      Participation = "Playing"
	ParticipationFinished     Participation = "Finished"
	ParticipationQuit         Participation = "Quit"
	ParticipationDisconnected Participation = "Disconnected"
)

// GameState is the top-level lifecycle stage of a Game record.
type GameState string

const (
	GameStateAdvertised GameState = "Advertised"
	GameStatePlaying    GameState = "Playing"
	GameStateCompleted  GameState = "Completed"
	GameStateCancelled  GameState = "Cancelled"
)

// PlayerKind distinguishes a human game-player from a programmatic backfill.
type PlayerKind string

const (
	PlayerKindHuman        PlayerKind = "Human"
	PlayerKindProgrammatic PlayerKind = "Programmatic"
)

// CancelReason is why a game was cancelled.
type CancelReason string

const (
	CancelReasonCancelled CancelReason = "Cancelled"
	CancelReasonNotViable CancelReason = "NotViable"
	CancelReasonInactive  CancelReason = "Inactive"
	CancelReasonShutdown  CancelReason = "Shutdown"
)

// validPlayerCounts enumerates the only legal target_player_count values.
var validPlayerCounts = map[int]bool{2: true, 3: true, 4: true}
