package sessionengine

import (
	"math/rand"
	"time"

	"github.com/rgrove-dev/parlor/internal/protocol"
	"github.com/rgrove-dev/parlor/internal/rules"
	"github.com/rgrove-dev/parlor/internal/session"
	"github.com/sirupsen/logrus"
)

// Engine is the Event Engine (spec §4.E): a collection of pure transition
// functions sharing a Store, a rule Adapter, and the configured limits.
// Every exported method assumes the caller already holds the single
// critical section — in production that means "is running inside the
// session-engine actor's Receive" (internal/actorkit); tests call it
// directly, single-threaded.
type Engine struct {
	Store   *session.Store
	Adapter rules.Adapter
	Limits  Limits
	Now     func() time.Time
	Rand    *rand.Rand
	Log     *logrus.Entry
}

// NewEngine wires a ready-to-use Engine. now and rng may be nil to use
// real wall-clock time and a process-seeded source; tests inject both.
func NewEngine(store *session.Store, adapter rules.Adapter, limits Limits, now func() time.Time, rng *rand.Rand, log *logrus.Entry) *Engine {
	if now == nil {
		now = time.Now
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Engine{Store: store, Adapter: adapter, Limits: limits, Now: now, Rand: rng, Log: log}
}

type transitionFunc func(e *Engine, q *TaskQueue, transport session.TransportRef, player *session.Player, req *protocol.Request) *protocol.RequestError

var dispatchTable = map[protocol.Kind]transitionFunc{
	protocol.KindReregisterPlayer:    (*Engine).reregisterPlayer,
	protocol.KindUnregisterPlayer:    (*Engine).unregisterPlayer,
	protocol.KindListPlayers:         (*Engine).listPlayers,
	protocol.KindAdvertiseGame:       (*Engine).advertiseGame,
	protocol.KindListAvailableGames:  (*Engine).listAvailableGames,
	protocol.KindJoinGame:            (*Engine).joinGame,
	protocol.KindQuitGame:            (*Engine).quitGame,
	protocol.KindStartGame:           (*Engine).startGame,
	protocol.KindCancelGame:          (*Engine).cancelGameRequest,
	protocol.KindExecuteMove:         (*Engine).executeMove,
	protocol.KindRetrieveGameState:   (*Engine).retrieveGameState,
	protocol.KindSendMessage:         (*Engine).sendMessage,
}

// HandleRequest resolves authorization (spec §4.E: every kind but REGISTER
// needs a player_id that resolves to a live player), runs the matching
// transition, and on failure enqueues a single RequestFailed back to
// transport. playerID is the bearer token carried by the request's
// Authorization header; it is empty for RegisterPlayer.
func (e *Engine) HandleRequest(q *TaskQueue, transport session.TransportRef, playerID string, req *protocol.Request) {
	if req.Kind == protocol.KindRegisterPlayer {
		if err := e.registerPlayer(q, transport, req); err != nil {
			q.Enqueue(transport, failureEvent(err))
		}
		return
	}

	player := e.Store.PlayerByID(playerID)
	if player == nil {
		q.Enqueue(transport, failureEvent(protocol.NewRequestError(protocol.ReasonInvalidPlayer, "unknown player_id")))
		return
	}

	fn, ok := dispatchTable[req.Kind]
	if !ok {
		q.Enqueue(transport, failureEvent(protocol.NewRequestError(protocol.ReasonInvalidRequest, "unrecognized message kind")))
		return
	}

	if err := e.safeInvoke(fn, q, transport, player, req); err != nil {
		q.Enqueue(transport, failureEvent(err))
	}
}

// safeInvoke recovers a panicking transition (e.g. from a misbehaving rule
// adapter) into InternalError, per spec §7's "internal errors ... caught,
// surfaced as RequestFailed(InternalError)".
func (e *Engine) safeInvoke(fn transitionFunc, q *TaskQueue, transport session.TransportRef, player *session.Player, req *protocol.Request) (reqErr *protocol.RequestError) {
	defer func() {
		if r := recover(); r != nil {
			e.Log.WithField("panic", r).Error("session engine transition panicked")
			reqErr = protocol.InternalError()
		}
	}()
	return fn(e, q, transport, player, req)
}

func failureEvent(err *protocol.RequestError) protocol.Event {
	return protocol.Event{
		Kind:          protocol.KindRequestFailed,
		RequestFailed: &protocol.RequestFailedContext{Reason: err.Reason, Comment: err.Comment},
	}
}

// markPlayerActive applies the "Active-marking" common policy (spec
// §4.E): any successful request marks the acting player Active.
func (e *Engine) markPlayerActive(p *session.Player) {
	p.Activity = protocol.ActivityActive
	p.LastActiveTime = e.Now()
}

// markGameActive marks a game Active with a fresh last_active_time.
func (e *Engine) markGameActive(g *session.Game) {
	g.Activity = protocol.ActivityActive
	g.LastActiveTime = e.Now()
}
