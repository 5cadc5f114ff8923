package protocol

// Kind names a message envelope's request or event type. Dispatch is
// table-driven (see requestDecoders in envelope.go) rather than reflective.
type Kind string

const (
	KindRegisterPlayer      Kind = "RegisterPlayer"
	KindReregisterPlayer    Kind = "ReregisterPlayer"
	KindUnregisterPlayer    Kind = "UnregisterPlayer"
	KindListPlayers         Kind = "ListPlayers"
	KindAdvertiseGame       Kind = "AdvertiseGame"
	KindListAvailableGames  Kind = "ListAvailableGames"
	KindJoinGame            Kind = "JoinGame"
	KindQuitGame            Kind = "QuitGame"
	KindStartGame           Kind = "StartGame"
	KindCancelGame          Kind = "CancelGame"
	KindExecuteMove         Kind = "ExecuteMove"
	KindRetrieveGameState   Kind = "RetrieveGameState"
	KindSendMessage         Kind = "SendMessage"
)

// RegisterPlayerContext carries the handle a client wants to claim.
type RegisterPlayerContext struct {
	Handle string `json:"handle"`
}

func (c RegisterPlayerContext) validate() error { return validateName("handle", c.Handle) }

// AdvertiseGameContext describes a room to create.
type AdvertiseGameContext struct {
	Name           string     `json:"name"`
	Mode           Mode       `json:"mode"`
	Players        int        `json:"players"`
	Visibility     Visibility `json:"visibility"`
	InvitedHandles []string   `json:"invited_handles"`
}

func (c AdvertiseGameContext) validate() error {
	if err := validateName("name", c.Name); err != nil {
		return err
	}
	if err := validateName("mode", c.Mode); err != nil {
		return err
	}
	if err := validatePlayerCount(c.Players); err != nil {
		return err
	}
	if err := validateVisibility(string(c.Visibility)); err != nil {
		return err
	}
	return validateHandleList("invited_handles", c.InvitedHandles, true)
}

// JoinGameContext names the game to join.
type JoinGameContext struct {
	GameID string `json:"game_id"`
}

func (c JoinGameContext) validate() error { return validateName("game_id", c.GameID) }

// ExecuteMoveContext names the move the caller wants to play.
type ExecuteMoveContext struct {
	MoveID string `json:"move_id"`
}

func (c ExecuteMoveContext) validate() error { return validateName("move_id", c.MoveID) }

// SendMessageContext is a chat message fanned out to a recipient set.
type SendMessageContext struct {
	Message          string   `json:"message"`
	RecipientHandles []string `json:"recipient_handles"`
}

func (c SendMessageContext) validate() error {
	if err := validateName("message", c.Message); err != nil {
		return err
	}
	return validateHandleList("recipient_handles", c.RecipientHandles, false)
}

// Request is the decoded, validated form of a client envelope, ready to be
// handed to the session engine. Exactly one context field is populated,
// selected by Kind; kinds with no context (ReregisterPlayer,
// UnregisterPlayer, ListPlayers, ListAvailableGames, QuitGame, StartGame,
// CancelGame, RetrieveGameState) leave every field nil/zero.
type Request struct {
	Kind             Kind
	RegisterPlayer   *RegisterPlayerContext
	AdvertiseGame    *AdvertiseGameContext
	JoinGame         *JoinGameContext
	ExecuteMove      *ExecuteMoveContext
	SendMessage      *SendMessageContext
}
