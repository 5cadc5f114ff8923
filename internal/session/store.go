package session

import (
	"time"

	"github.com/google/uuid"
	"github.com/rgrove-dev/parlor/internal/protocol"
)

// Store is the Entity Store (spec §4.C): the three maps that index every
// live Player and Game. All callers must already be inside the session
// engine's single critical section — Store takes no lock of its own,
// matching the design notes' "constructed object the dispatcher and
// scheduler share" rather than a package-level global.
type Store struct {
	games          map[string]*Game
	players        map[string]*Player
	handleToPlayer map[string]string

	now func() time.Time
}

// NewStore returns an empty Store. now defaults to time.Now; tests inject
// a fake clock to exercise the sweeps deterministically.
func NewStore(now func() time.Time) *Store {
	if now == nil {
		now = time.Now
	}
	return &Store{
		games:          make(map[string]*Game),
		players:        make(map[string]*Player),
		handleToPlayer: make(map[string]string),
		now:            now,
	}
}

// ErrDuplicateHandle mirrors protocol.ReasonDuplicateUser; kept as a plain
// sentinel so callers in sessionengine translate it into the typed
// RequestError themselves.
type ErrDuplicateHandle struct{ Handle string }

func (e *ErrDuplicateHandle) Error() string { return "handle in use: " + e.Handle }

// CreatePlayer mints a fresh player_id and inserts the record (spec §4.C
// create_player). Fails if handle is already registered.
func (s *Store) CreatePlayer(handle string, transport TransportRef) (*Player, error) {
	if _, exists := s.handleToPlayer[handle]; exists {
		return nil, &ErrDuplicateHandle{Handle: handle}
	}
	now := s.now()
	p := &Player{
		ID:               uuid.NewString(),
		Handle:           handle,
		Transport:        transport,
		RegistrationTime: now,
		LastActiveTime:   now,
		Activity:         protocol.ActivityActive,
		Connection:       protocol.ConnectionConnected,
		Participation:    protocol.ParticipationWaiting,
	}
	s.players[p.ID] = p
	s.handleToPlayer[handle] = p.ID
	return p, nil
}

// DeletePlayer removes a player entirely.
func (s *Store) DeletePlayer(id string) {
	p, ok := s.players[id]
	if !ok {
		return
	}
	delete(s.handleToPlayer, p.Handle)
	delete(s.players, id)
}

// PlayerByID returns nil on miss.
func (s *Store) PlayerByID(id string) *Player { return s.players[id] }

// PlayerByHandle returns nil on miss.
func (s *Store) PlayerByHandle(handle string) *Player {
	id, ok := s.handleToPlayer[handle]
	if !ok {
		return nil
	}
	return s.players[id]
}

// PlayerByTransport performs the linear scan spec §4.B explicitly permits
// ("the set is small and this happens only on disconnect").
func (s *Store) PlayerByTransport(transport TransportRef) *Player {
	for _, p := range s.players {
		if p.Transport == transport {
			return p
		}
	}
	return nil
}

// AllPlayers returns every live player in unspecified order.
func (s *Store) AllPlayers() []*Player {
	out := make([]*Player, 0, len(s.players))
	for _, p := range s.players {
		out = append(out, p)
	}
	return out
}

// PlayerCount is the registered_player_count of spec §4.E limits.
func (s *Store) PlayerCount() int { return len(s.players) }

// CreateGame mints a fresh game_id and inserts the record.
func (s *Store) CreateGame(g *Game) {
	g.ID = uuid.NewString()
	now := s.now()
	g.AdvertisedTime = now
	g.LastActiveTime = now
	g.State = protocol.GameStateAdvertised
	g.Activity = protocol.ActivityActive
	if g.GamePlayers == nil {
		g.GamePlayers = make(map[string]*GamePlayer)
	}
	s.games[g.ID] = g
}

// DeleteGame removes a game entirely (obsolete sweep).
func (s *Store) DeleteGame(id string) { delete(s.games, id) }

// GameByID returns nil on miss.
func (s *Store) GameByID(id string) *Game { return s.games[id] }

// AllGames returns every game in unspecified order.
func (s *Store) AllGames() []*Game {
	out := make([]*Game, 0, len(s.games))
	for _, g := range s.games {
		out = append(out, g)
	}
	return out
}

// GameCount is the total_game_count of spec §4.E limits.
func (s *Store) GameCount() int { return len(s.games) }

// InProgressGameCount counts games in {Advertised, Playing}, the
// in_progress_game_count of spec §4.E/§8 property 5.
func (s *Store) InProgressGameCount() int {
	n := 0
	for _, g := range s.games {
		if g.State == protocol.GameStateAdvertised || g.State == protocol.GameStatePlaying {
			n++
		}
	}
	return n
}

// Now returns the store's clock, used by sessionengine so a single fake
// clock drives both state timestamps and sweep comparisons in tests.
func (s *Store) Now() time.Time { return s.now() }
