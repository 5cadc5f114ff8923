package sessionengine

import (
	"math/rand"
	"testing"
	"time"

	"github.com/rgrove-dev/parlor/internal/protocol"
	"github.com/rgrove-dev/parlor/internal/rules"
	"github.com/rgrove-dev/parlor/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTransport string

func (f fakeTransport) String() string { return string(f) }

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time       { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func defaultLimits() Limits {
	return Limits{
		RegisteredPlayerLimit: 2,
		TotalGameLimit:        10,
		InProgressGameLimit:   10,
		PlayerIdleThresh:      10 * time.Minute,
		PlayerInactiveThresh:  20 * time.Minute,
		GameIdleThresh:        15 * time.Minute,
		GameInactiveThresh:    60 * time.Minute,
		GameRetentionThresh:   2 * time.Hour,
	}
}

func newTestEngine(t *testing.T, limits Limits, adapter rules.Adapter) (*Engine, *fakeClock) {
	t.Helper()
	clock := &fakeClock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	store := session.NewStore(clock.now)
	if adapter == nil {
		adapter = &rules.MockAdapter{MovesToComplete: 4}
	}
	rng := rand.New(rand.NewSource(1))
	return NewEngine(store, adapter, limits, clock.now, rng, nil), clock
}

func register(t *testing.T, e *Engine, transport session.TransportRef, handle string) string {
	t.Helper()
	q := NewTaskQueue()
	e.HandleRequest(q, transport, "", &protocol.Request{
		Kind:           protocol.KindRegisterPlayer,
		RegisterPlayer: &protocol.RegisterPlayerContext{Handle: handle},
	})
	p := e.Store.PlayerByHandle(handle)
	require.NotNil(t, p, "expected %s to register", handle)
	return p.ID
}

// S1 — Registration and duplicate.
func TestS1RegistrationAndDuplicate(t *testing.T) {
	limits := defaultLimits()
	limits.RegisteredPlayerLimit = 2
	e, _ := newTestEngine(t, limits, nil)

	q1 := NewTaskQueue()
	e.HandleRequest(q1, fakeTransport("alpha"), "", &protocol.Request{
		Kind: protocol.KindRegisterPlayer, RegisterPlayer: &protocol.RegisterPlayerContext{Handle: "leela"},
	})
	require.Len(t, q1.sends, 1)
	assert.Equal(t, protocol.KindPlayerRegistered, q1.sends[0].event.Kind)

	q2 := NewTaskQueue()
	e.HandleRequest(q2, fakeTransport("beta"), "", &protocol.Request{
		Kind: protocol.KindRegisterPlayer, RegisterPlayer: &protocol.RegisterPlayerContext{Handle: "leela"},
	})
	require.Len(t, q2.sends, 1)
	assert.Equal(t, protocol.ReasonDuplicateUser, q2.sends[0].event.RequestFailed.Reason)

	q3 := NewTaskQueue()
	e.HandleRequest(q3, fakeTransport("gamma"), "", &protocol.Request{
		Kind: protocol.KindRegisterPlayer, RegisterPlayer: &protocol.RegisterPlayerContext{Handle: "fry"},
	})
	assert.Equal(t, protocol.KindPlayerRegistered, q3.sends[0].event.Kind)

	q4 := NewTaskQueue()
	e.HandleRequest(q4, fakeTransport("delta"), "", &protocol.Request{
		Kind: protocol.KindRegisterPlayer, RegisterPlayer: &protocol.RegisterPlayerContext{Handle: "bender"},
	})
	require.Len(t, q4.sends, 1)
	assert.Equal(t, protocol.ReasonUserLimitReached, q4.sends[0].event.RequestFailed.Reason)
}

// S2 — Public advertise / join / start.
func TestS2PublicAdvertiseJoinStart(t *testing.T) {
	limits := defaultLimits()
	limits.RegisteredPlayerLimit = 10
	e, _ := newTestEngine(t, limits, &rules.MockAdapter{MovesToComplete: 10})

	leelaID := register(t, e, fakeTransport("alpha"), "leela")
	fryID := register(t, e, fakeTransport("gamma"), "fry")

	qAdv := NewTaskQueue()
	e.HandleRequest(qAdv, fakeTransport("alpha"), leelaID, &protocol.Request{
		Kind: protocol.KindAdvertiseGame,
		AdvertiseGame: &protocol.AdvertiseGameContext{
			Name: "G", Mode: "STANDARD", Players: 2, Visibility: protocol.VisibilityPublic,
		},
	})
	require.Len(t, qAdv.sends, 2)
	assert.Equal(t, protocol.KindGameAdvertised, qAdv.sends[0].event.Kind)
	assert.Equal(t, protocol.KindGameJoined, qAdv.sends[1].event.Kind)

	leela := e.Store.PlayerByID(leelaID)
	game := e.Store.GameByID(leela.CurrentGameID)
	require.NotNil(t, game)

	qJoin := NewTaskQueue()
	e.HandleRequest(qJoin, fakeTransport("gamma"), fryID, &protocol.Request{
		Kind:     protocol.KindJoinGame,
		JoinGame: &protocol.JoinGameContext{GameID: game.ID},
	})

	var kinds []protocol.Kind
	for _, ob := range qJoin.sends {
		kinds = append(kinds, ob.event.Kind)
	}
	assert.Contains(t, kinds, protocol.KindGameJoined)
	assert.Contains(t, kinds, protocol.KindGameStarted)
	assert.Contains(t, kinds, protocol.KindGamePlayerChange)
	assert.Equal(t, protocol.GameStatePlaying, game.State)
}

// S3 — Private invitation visibility.
func TestS3PrivateInvitationVisibility(t *testing.T) {
	limits := defaultLimits()
	limits.RegisteredPlayerLimit = 10
	e, _ := newTestEngine(t, limits, nil)

	leelaID := register(t, e, fakeTransport("alpha"), "leela")
	register(t, e, fakeTransport("gamma"), "fry")
	benderID := register(t, e, fakeTransport("delta"), "bender")

	qAdv := NewTaskQueue()
	e.HandleRequest(qAdv, fakeTransport("alpha"), leelaID, &protocol.Request{
		Kind: protocol.KindAdvertiseGame,
		AdvertiseGame: &protocol.AdvertiseGameContext{
			Name: "G", Mode: "STANDARD", Players: 2,
			Visibility: protocol.VisibilityPrivate, InvitedHandles: []string{"fry"},
		},
	})
	var invitationSent bool
	for _, ob := range qAdv.sends {
		if ob.event.Kind == protocol.KindGameInvitation && ob.transport == fakeTransport("gamma") {
			invitationSent = true
		}
	}
	assert.True(t, invitationSent)

	leela := e.Store.PlayerByID(leelaID)
	game := e.Store.GameByID(leela.CurrentGameID)

	qListBender := NewTaskQueue()
	e.HandleRequest(qListBender, fakeTransport("delta"), benderID, &protocol.Request{Kind: protocol.KindListAvailableGames})
	assert.Empty(t, qListBender.sends[0].event.AvailableGames.Games)

	qJoinBender := NewTaskQueue()
	e.HandleRequest(qJoinBender, fakeTransport("delta"), benderID, &protocol.Request{
		Kind: protocol.KindJoinGame, JoinGame: &protocol.JoinGameContext{GameID: game.ID},
	})
	assert.Equal(t, protocol.ReasonInvalidGame, qJoinBender.sends[0].event.RequestFailed.Reason)
}

// S4 — Quit triggers non-viability cancel. Mirrors the literal scenario:
// a 4-seat game with human handles {leela, fry, bender} and one
// programmatic backfill seat, started explicitly so the fourth seat is
// synthesized.
func TestS4QuitCascades(t *testing.T) {
	limits := defaultLimits()
	limits.RegisteredPlayerLimit = 10
	e, _ := newTestEngine(t, limits, &rules.MockAdapter{MovesToComplete: 100})

	leelaID := register(t, e, fakeTransport("l"), "leela")
	fryID := register(t, e, fakeTransport("f"), "fry")
	benderID := register(t, e, fakeTransport("b"), "bender")

	qAdv := NewTaskQueue()
	e.HandleRequest(qAdv, fakeTransport("l"), leelaID, &protocol.Request{
		Kind: protocol.KindAdvertiseGame,
		AdvertiseGame: &protocol.AdvertiseGameContext{
			Name: "G", Mode: "STANDARD", Players: 4, Visibility: protocol.VisibilityPublic,
		},
	})
	leela := e.Store.PlayerByID(leelaID)
	game := e.Store.GameByID(leela.CurrentGameID)

	e.HandleRequest(NewTaskQueue(), fakeTransport("f"), fryID, &protocol.Request{
		Kind: protocol.KindJoinGame, JoinGame: &protocol.JoinGameContext{GameID: game.ID},
	})
	e.HandleRequest(NewTaskQueue(), fakeTransport("b"), benderID, &protocol.Request{
		Kind: protocol.KindJoinGame, JoinGame: &protocol.JoinGameContext{GameID: game.ID},
	})
	require.Equal(t, protocol.GameStateAdvertised, game.State, "only 3 of 4 seats filled, no auto-start yet")

	e.HandleRequest(NewTaskQueue(), fakeTransport("l"), leelaID, &protocol.Request{Kind: protocol.KindStartGame})
	require.Equal(t, protocol.GameStatePlaying, game.State)
	require.Len(t, game.GamePlayers, 4, "backfill synthesized the 4th seat")

	qQuitFry := NewTaskQueue()
	e.HandleRequest(qQuitFry, fakeTransport("f"), fryID, &protocol.Request{Kind: protocol.KindQuitGame})
	assert.Equal(t, protocol.GameStatePlaying, game.State, "leela, bender, and the bot remain playable")

	qQuitBender := NewTaskQueue()
	e.HandleRequest(qQuitBender, fakeTransport("b"), benderID, &protocol.Request{Kind: protocol.KindQuitGame})
	assert.Equal(t, protocol.GameStatePlaying, game.State, "leela and the bot still make 2 playable")

	qCancel := NewTaskQueue()
	e.HandleRequest(qCancel, fakeTransport("l"), leelaID, &protocol.Request{Kind: protocol.KindCancelGame})
	assert.Equal(t, protocol.GameStateCancelled, game.State)
	assert.Equal(t, protocol.CancelReasonCancelled, game.CancelledReason)
}

// S5 — Idle to inactive eviction.
func TestS5IdleToInactiveEviction(t *testing.T) {
	limits := defaultLimits()
	limits.RegisteredPlayerLimit = 10
	limits.PlayerIdleThresh = 10 * time.Minute
	limits.PlayerInactiveThresh = 20 * time.Minute
	e, clock := newTestEngine(t, limits, nil)

	leelaID := register(t, e, fakeTransport("alpha"), "leela")

	clock.advance(10*time.Minute + time.Second)
	qIdle := NewTaskQueue()
	e.SweepIdlePlayers(qIdle)
	leela := e.Store.PlayerByID(leelaID)
	assert.Equal(t, protocol.ActivityIdle, leela.Activity)

	clock.advance(10 * time.Minute)
	qInactive := NewTaskQueue()
	e.SweepIdlePlayers(qInactive)
	assert.Nil(t, e.Store.PlayerByID(leelaID))
	assert.True(t, qInactive.disconnects[fakeTransport("alpha")])
}

func TestIdleSweepIsStrictlyGreaterThan(t *testing.T) {
	limits := defaultLimits()
	limits.RegisteredPlayerLimit = 10
	limits.PlayerIdleThresh = 10 * time.Minute
	limits.PlayerInactiveThresh = 20 * time.Minute
	e, clock := newTestEngine(t, limits, nil)
	register(t, e, fakeTransport("alpha"), "leela")

	clock.advance(10 * time.Minute) // exactly at threshold: not yet idle
	e.SweepIdlePlayers(NewTaskQueue())
	leela := e.Store.PlayerByHandle("leela")
	assert.Equal(t, protocol.ActivityActive, leela.Activity)
}

// S6 — Shutdown.
func TestS6ShutdownSuppressesNotify(t *testing.T) {
	limits := defaultLimits()
	limits.RegisteredPlayerLimit = 10
	e, _ := newTestEngine(t, limits, &rules.MockAdapter{MovesToComplete: 100})

	leelaID := register(t, e, fakeTransport("l"), "leela")
	fryID := register(t, e, fakeTransport("f"), "fry")

	qAdv := NewTaskQueue()
	e.HandleRequest(qAdv, fakeTransport("l"), leelaID, &protocol.Request{
		Kind: protocol.KindAdvertiseGame,
		AdvertiseGame: &protocol.AdvertiseGameContext{
			Name: "G", Mode: "STANDARD", Players: 2, Visibility: protocol.VisibilityPublic,
		},
	})
	leela := e.Store.PlayerByID(leelaID)
	game := e.Store.GameByID(leela.CurrentGameID)
	e.HandleRequest(NewTaskQueue(), fakeTransport("f"), fryID, &protocol.Request{
		Kind: protocol.KindJoinGame, JoinGame: &protocol.JoinGameContext{GameID: game.ID},
	})
	require.Equal(t, protocol.GameStatePlaying, game.State)

	q := NewTaskQueue()
	e.Shutdown(q)

	assert.Equal(t, protocol.GameStateCancelled, game.State)
	assert.Equal(t, protocol.CancelReasonShutdown, game.CancelledReason)
	for _, ob := range q.sends {
		assert.NotEqual(t, protocol.KindGameCancelled, ob.event.Kind, "notify=false must suppress GameCancelled")
	}
}

// Property 8 — REREGISTER is idempotent.
func TestReregisterIsIdempotent(t *testing.T) {
	limits := defaultLimits()
	limits.RegisteredPlayerLimit = 10
	e, _ := newTestEngine(t, limits, nil)
	id := register(t, e, fakeTransport("alpha"), "leela")

	e.HandleRequest(NewTaskQueue(), fakeTransport("alpha"), id, &protocol.Request{Kind: protocol.KindReregisterPlayer})
	after1 := *e.Store.PlayerByID(id)
	e.HandleRequest(NewTaskQueue(), fakeTransport("alpha"), id, &protocol.Request{Kind: protocol.KindReregisterPlayer})
	after2 := *e.Store.PlayerByID(id)

	assert.Equal(t, after1.Handle, after2.Handle)
	assert.Equal(t, after1.Connection, after2.Connection)
	assert.Equal(t, after1.Transport, after2.Transport)
}

// Property 9 — requests failing their precondition leave the store
// bit-identical.
func TestFailedRequestLeavesStoreUnchanged(t *testing.T) {
	limits := defaultLimits()
	limits.RegisteredPlayerLimit = 10
	e, _ := newTestEngine(t, limits, nil)
	id := register(t, e, fakeTransport("alpha"), "leela")

	before := e.Store.PlayerCount()
	q := NewTaskQueue()
	e.HandleRequest(q, fakeTransport("alpha"), id, &protocol.Request{
		Kind: protocol.KindJoinGame, JoinGame: &protocol.JoinGameContext{GameID: "does-not-exist"},
	})
	assert.Equal(t, protocol.ReasonInvalidGame, q.sends[0].event.RequestFailed.Reason)
	assert.Equal(t, before, e.Store.PlayerCount())
	assert.Equal(t, 0, e.Store.GameCount())
}

// Property 10 — a private game with no invited handles admits no one.
func TestPrivateGameWithEmptyInviteListAdmitsNoJoiners(t *testing.T) {
	limits := defaultLimits()
	limits.RegisteredPlayerLimit = 10
	e, _ := newTestEngine(t, limits, nil)
	leelaID := register(t, e, fakeTransport("l"), "leela")
	fryID := register(t, e, fakeTransport("f"), "fry")

	e.HandleRequest(NewTaskQueue(), fakeTransport("l"), leelaID, &protocol.Request{
		Kind: protocol.KindAdvertiseGame,
		AdvertiseGame: &protocol.AdvertiseGameContext{
			Name: "G", Mode: "STANDARD", Players: 2, Visibility: protocol.VisibilityPrivate,
		},
	})
	leela := e.Store.PlayerByID(leelaID)
	game := e.Store.GameByID(leela.CurrentGameID)

	q := NewTaskQueue()
	e.HandleRequest(q, fakeTransport("f"), fryID, &protocol.Request{
		Kind: protocol.KindJoinGame, JoinGame: &protocol.JoinGameContext{GameID: game.ID},
	})
	assert.Equal(t, protocol.ReasonInvalidGame, q.sends[0].event.RequestFailed.Reason)
}

func TestAdvertiserMayNotQuit(t *testing.T) {
	limits := defaultLimits()
	limits.RegisteredPlayerLimit = 10
	e, _ := newTestEngine(t, limits, nil)
	leelaID := register(t, e, fakeTransport("l"), "leela")

	e.HandleRequest(NewTaskQueue(), fakeTransport("l"), leelaID, &protocol.Request{
		Kind: protocol.KindAdvertiseGame,
		AdvertiseGame: &protocol.AdvertiseGameContext{
			Name: "G", Mode: "STANDARD", Players: 2, Visibility: protocol.VisibilityPublic,
		},
	})

	q := NewTaskQueue()
	e.HandleRequest(q, fakeTransport("l"), leelaID, &protocol.Request{Kind: protocol.KindQuitGame})
	assert.Equal(t, protocol.ReasonAdvertiserMayNotQuit, q.sends[0].event.RequestFailed.Reason)
}
