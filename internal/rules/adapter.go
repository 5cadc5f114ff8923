// Package rules defines the Game Rule Adapter boundary (spec §4.D, §6.4):
// the narrow interface the session engine uses to start a game, render a
// per-player view, enumerate legal moves, and apply moves. It is
// deliberately small so alternate engines — including the deterministic
// MockAdapter in mock.go — can be plugged in without touching
// the session engine.
package rules

import "encoding/json"

// Seat is one participant handed to Start, in join order.
type Seat struct {
	Handle string
	Color  string
}

// MoveResult is what execute_move reports back (spec §4.D).
type MoveResult struct {
	Completed bool
	Comment   string
	// NextTurnHandle is empty when Completed is true or no further turn
	// is designated yet.
	NextTurnHandle string
	NextTurnMoves  []string
}

// Instance is a single running game, held inside the Game record (spec
// §6.4: "stateful per game ... held inside the Game record"). Every
// method is called synchronously under the session engine's single
// critical section and must not block.
type Instance interface {
	// PlayerView renders handle's current view of the board as an opaque,
	// already-serializable JSON value (spec §4.D player_view).
	PlayerView(handle string) (json.RawMessage, error)

	// LegalMoves lists the move ids handle may currently submit. Empty
	// when it is not handle's turn.
	LegalMoves(handle string) []string

	// IsMovePending reports whether handle currently has a move to make.
	IsMovePending(handle string) bool

	// IsLegal is the predicate form of LegalMoves (spec §4.D "or a
	// predicate is_legal").
	IsLegal(handle, moveID string) bool

	// ExecuteMove applies handle's moveID. The caller has already checked
	// IsMovePending and IsLegal; an adapter may still return an error for
	// an unexpected internal failure, which the engine reports as
	// InternalError without mutating game state.
	ExecuteMove(handle, moveID string) (MoveResult, error)

	// FirstTurn names the game-player designated to move first and their
	// legal moves, used by START_GAME to emit the initial GamePlayerTurn.
	FirstTurn() (handle string, moves []string)
}

// Adapter constructs a fresh Instance for a newly started game (spec §4.D
// start(target_player_count, seat_assignments)).
type Adapter interface {
	Start(seats []Seat) (Instance, error)
}
