package session

import "github.com/rgrove-dev/parlor/internal/protocol"

// BindTransport associates transport with player, rebinding if one was
// already present (REREGISTER's "idempotent rebind", DESIGN.md Open
// Question 3). No implicit close of any prior transport is performed
// here; that is the dispatcher's concern if it chooses to act on it.
func (s *Store) BindTransport(player *Player, transport TransportRef) {
	player.Transport = transport
	player.Connection = protocol.ConnectionConnected
}

// UnbindTransport clears a player's live connection, e.g. on disconnect or
// unregister.
func (s *Store) UnbindTransport(player *Player) {
	player.Transport = nil
	player.Connection = protocol.ConnectionDisconnected
}

// TransportByPlayerID resolves a player's current transport, or nil.
func (s *Store) TransportByPlayerID(id string) TransportRef {
	p := s.PlayerByID(id)
	if p == nil {
		return nil
	}
	return p.Transport
}

// TransportByHandle resolves a handle's current transport, or nil if the
// handle is unknown or currently disconnected.
func (s *Store) TransportByHandle(handle string) TransportRef {
	p := s.PlayerByHandle(handle)
	if p == nil {
		return nil
	}
	return p.Transport
}
