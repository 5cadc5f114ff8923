package protocol

import "encoding/json"

// wireEnvelope is the literal `{"message": ..., "context": ...}` shape on
// the wire; context is omitted (nil) for kinds that carry none.
type wireEnvelope struct {
	Message Kind            `json:"message"`
	Context json.RawMessage `json:"context,omitempty"`
}

// contextlessRequestKinds carries no context payload.
var contextlessRequestKinds = map[Kind]bool{
	KindReregisterPlayer:   true,
	KindUnregisterPlayer:   true,
	KindListPlayers:        true,
	KindListAvailableGames: true,
	KindQuitGame:           true,
	KindStartGame:          true,
	KindCancelGame:         true,
	KindRetrieveGameState:  true,
}

// requestDecoders maps a request Kind to a function that unmarshals and
// validates its context, filling in the matching Request field. This is the
// dispatch table the design notes call for, in place of reflective lookup.
var requestDecoders = map[Kind]func(raw json.RawMessage, req *Request) error{
	KindRegisterPlayer: func(raw json.RawMessage, req *Request) error {
		var c RegisterPlayerContext
		if err := json.Unmarshal(raw, &c); err != nil {
			return NewRequestError(ReasonInvalidRequest, "malformed RegisterPlayer context")
		}
		if err := c.validate(); err != nil {
			return err
		}
		req.RegisterPlayer = &c
		return nil
	},
	KindAdvertiseGame: func(raw json.RawMessage, req *Request) error {
		var c AdvertiseGameContext
		if err := json.Unmarshal(raw, &c); err != nil {
			return NewRequestError(ReasonInvalidRequest, "malformed AdvertiseGame context")
		}
		if err := c.validate(); err != nil {
			return err
		}
		req.AdvertiseGame = &c
		return nil
	},
	KindJoinGame: func(raw json.RawMessage, req *Request) error {
		var c JoinGameContext
		if err := json.Unmarshal(raw, &c); err != nil {
			return NewRequestError(ReasonInvalidRequest, "malformed JoinGame context")
		}
		if err := c.validate(); err != nil {
			return err
		}
		req.JoinGame = &c
		return nil
	},
	KindExecuteMove: func(raw json.RawMessage, req *Request) error {
		var c ExecuteMoveContext
		if err := json.Unmarshal(raw, &c); err != nil {
			return NewRequestError(ReasonInvalidRequest, "malformed ExecuteMove context")
		}
		if err := c.validate(); err != nil {
			return err
		}
		req.ExecuteMove = &c
		return nil
	},
	KindSendMessage: func(raw json.RawMessage, req *Request) error {
		var c SendMessageContext
		if err := json.Unmarshal(raw, &c); err != nil {
			return NewRequestError(ReasonInvalidRequest, "malformed SendMessage context")
		}
		if err := c.validate(); err != nil {
			return err
		}
		req.SendMessage = &c
		return nil
	},
}

// DecodeRequest decodes and validates a single client->server frame.
func DecodeRequest(data []byte) (*Request, error) {
	var env wireEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, NewRequestError(ReasonInvalidRequest, "malformed envelope")
	}
	if !knownRequestKind(env.Message) {
		return nil, NewRequestError(ReasonInvalidRequest, "unrecognized message kind")
	}

	req := &Request{Kind: env.Message}

	if contextlessRequestKinds[env.Message] {
		if len(env.Context) > 0 && string(env.Context) != "null" {
			return nil, NewRequestError(ReasonInvalidRequest, "message kind does not accept a context")
		}
		return req, nil
	}

	decode, ok := requestDecoders[env.Message]
	if !ok {
		return nil, NewRequestError(ReasonInvalidRequest, "unrecognized message kind")
	}
	if len(env.Context) == 0 || string(env.Context) == "null" {
		return nil, NewRequestError(ReasonInvalidRequest, "message kind requires a context")
	}
	if err := decode(env.Context, req); err != nil {
		return nil, err
	}
	return req, nil
}

func knownRequestKind(k Kind) bool {
	if contextlessRequestKinds[k] {
		return true
	}
	_, ok := requestDecoders[k]
	return ok
}

// EncodeRequest marshals a Request back into its wire envelope. Used by
// tests to verify decode(encode(m)) == m; production clients are out of
// scope, but the dispatcher's own codec must round-trip symmetrically.
func EncodeRequest(req *Request) []byte {
	env := wireEnvelope{Message: req.Kind}
	var ctx interface{}
	switch req.Kind {
	case KindRegisterPlayer:
		ctx = req.RegisterPlayer
	case KindAdvertiseGame:
		ctx = req.AdvertiseGame
	case KindJoinGame:
		ctx = req.JoinGame
	case KindExecuteMove:
		ctx = req.ExecuteMove
	case KindSendMessage:
		ctx = req.SendMessage
	}
	if ctx != nil {
		raw, err := json.Marshal(ctx)
		if err == nil {
			env.Context = raw
		}
	}
	out, _ := json.Marshal(env)
	return out
}

// EncodeEvent marshals an outbound event into its wire envelope. Encoding
// never fails: a nil context is simply omitted.
func EncodeEvent(e *Event) []byte {
	env := wireEnvelope{Message: e.Kind}
	var ctx interface{}
	switch e.Kind {
	case KindRequestFailed:
		ctx = e.RequestFailed
	case KindRegisteredPlayers:
		ctx = e.RegisteredPlayers
	case KindAvailableGames:
		ctx = e.AvailableGames
	case KindPlayerRegistered:
		ctx = e.PlayerRegistered
	case KindPlayerDisconnected:
		ctx = e.PlayerDisconnected
	case KindPlayerIdle:
		ctx = e.PlayerIdle
	case KindPlayerInactive:
		ctx = e.PlayerInactive
	case KindPlayerMessageReceived:
		ctx = e.PlayerMessageReceived
	case KindGameAdvertised:
		ctx = e.GameAdvertised
	case KindGameInvitation:
		ctx = e.GameInvitation
	case KindGameJoined:
		ctx = e.GameJoined
	case KindGameStarted:
		ctx = e.GameStarted
	case KindGameCancelled:
		ctx = e.GameCancelled
	case KindGameCompleted:
		ctx = e.GameCompleted
	case KindGameIdle:
		ctx = e.GameIdle
	case KindGameInactive:
		ctx = e.GameInactive
	case KindGamePlayerChange:
		ctx = e.GamePlayerChange
	case KindGameStateChange:
		ctx = e.GameStateChange
	case KindGamePlayerTurn:
		ctx = e.GamePlayerTurn
	case KindServerShutdown:
		ctx = nil
	}
	if ctx != nil {
		raw, err := json.Marshal(ctx)
		if err == nil && string(raw) != "null" {
			env.Context = raw
		}
	}
	out, _ := json.Marshal(env)
	return out
}
