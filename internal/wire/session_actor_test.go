package wire

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/rgrove-dev/parlor/internal/actorkit"
	"github.com/rgrove-dev/parlor/internal/protocol"
	"github.com/rgrove-dev/parlor/internal/rules"
	"github.com/rgrove-dev/parlor/internal/session"
	"github.com/rgrove-dev/parlor/internal/sessionengine"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeConnActor stands in for a connectionActor: it records every sendFrame
// it is handed and whether it was ever asked to close, without touching a
// real socket.
type fakeConnActor struct {
	frames [][]byte
	closed bool
}

func newFakeConnActor() *fakeConnActor {
	return &fakeConnActor{}
}

func (f *fakeConnActor) Receive(ctx actorkit.Context) {
	switch msg := ctx.Message().(type) {
	case sendFrame:
		f.frames = append(f.frames, msg.data)
	case closeConn:
		f.closed = true
	}
}

func newTestSessionPID(t *testing.T, limits sessionengine.Limits) (*actorkit.Engine, *actorkit.PID) {
	t.Helper()
	store := session.NewStore(time.Now)
	engine := sessionengine.NewEngine(store, &rules.BoardGameAdapter{Size: 3, RunLen: 3}, limits, nil, nil, nil)
	eng := actorkit.NewEngine(nil)
	pid := eng.Spawn(actorkit.NewProps(NewSessionActorProducer(engine, noopLogEntry())))
	return eng, pid
}

func defaultLimits() sessionengine.Limits {
	return sessionengine.Limits{
		RegisteredPlayerLimit: 100,
		TotalGameLimit:        100,
		InProgressGameLimit:   100,
		PlayerIdleThresh:      10 * time.Minute,
		PlayerInactiveThresh:  30 * time.Minute,
		GameIdleThresh:        15 * time.Minute,
		GameInactiveThresh:    60 * time.Minute,
		GameRetentionThresh:   120 * time.Minute,
	}
}

func TestSessionActorRoutesRegisterPlayerReplyToItsOwnTransport(t *testing.T) {
	eng, sessionPID := newTestSessionPID(t, defaultLimits())
	conn := newFakeConnActor()
	connPID := eng.Spawn(actorkit.NewProps(func() actorkit.Actor { return conn }))

	eng.Send(sessionPID, requestMsg{
		transport: connPID,
		req: &protocol.Request{
			Kind:           protocol.KindRegisterPlayer,
			RegisterPlayer: &protocol.RegisterPlayerContext{Handle: "fry"},
		},
	}, nil)

	require.Eventually(t, func() bool { return len(conn.frames) == 1 }, time.Second, time.Millisecond)
	kind, _ := decodeFrameKind(t, conn.frames[0])
	assert.Equal(t, protocol.KindPlayerRegistered, kind)
}

func TestSessionActorRejectsUnknownPlayerID(t *testing.T) {
	eng, sessionPID := newTestSessionPID(t, defaultLimits())
	conn := newFakeConnActor()
	connPID := eng.Spawn(actorkit.NewProps(func() actorkit.Actor { return conn }))

	eng.Send(sessionPID, requestMsg{
		transport: connPID,
		playerID:  "no-such-player",
		req:       &protocol.Request{Kind: protocol.KindListPlayers},
	}, nil)

	require.Eventually(t, func() bool { return len(conn.frames) == 1 }, time.Second, time.Millisecond)
	kind, rawCtx := decodeFrameKind(t, conn.frames[0])
	require.Equal(t, protocol.KindRequestFailed, kind)
	var failed protocol.RequestFailedContext
	require.NoError(t, json.Unmarshal(rawCtx, &failed))
	assert.Equal(t, protocol.ReasonInvalidPlayer, failed.Reason)
}

func TestGamesQueryAskReturnsSnapshot(t *testing.T) {
	eng, sessionPID := newTestSessionPID(t, defaultLimits())
	reply, err := eng.Ask(sessionPID, GamesQuery{}, time.Second)
	require.NoError(t, err)
	games, ok := reply.([]protocol.GameSnapshot)
	require.True(t, ok)
	assert.Empty(t, games)
}

// decodeFrameKind unpacks just the envelope's message kind and raw context,
// without protocol needing to expose a client-side event decoder it has no
// other use for.
func decodeFrameKind(t *testing.T, data []byte) (protocol.Kind, json.RawMessage) {
	t.Helper()
	var env struct {
		Message protocol.Kind   `json:"message"`
		Context json.RawMessage `json:"context"`
	}
	require.NoError(t, json.Unmarshal(data, &env))
	return env.Message, env.Context
}

// noopLogEntry gives tests a nil logrus.Entry; SessionActor never
// dereferences it.
func noopLogEntry() *logrus.Entry { return nil }
