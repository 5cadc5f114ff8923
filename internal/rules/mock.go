package rules

import "encoding/json"

// MockAdapter is the deterministic rule engine the design notes call for
// (spec §9, "mock it with deterministic move sequences in the test
// suite"): every seat has exactly one legal move, "advance", and the game
// completes after a fixed number of total moves with no winner recorded.
// Session-engine tests use it so game-completion fan-out can be exercised
// without depending on BoardGameAdapter's win geometry.
type MockAdapter struct {
	// MovesToComplete is how many ExecuteMove calls finish the game. Zero
	// means 1.
	MovesToComplete int
}

func (a *MockAdapter) Start(seats []Seat) (Instance, error) {
	total := a.MovesToComplete
	if total == 0 {
		total = 1
	}
	return &mockInstance{seats: append([]Seat(nil), seats...), remaining: total}, nil
}

type mockInstance struct {
	seats     []Seat
	turn      int
	remaining int
	over      bool
}

func (m *mockInstance) currentHandle() string {
	if m.over || len(m.seats) == 0 {
		return ""
	}
	return m.seats[m.turn%len(m.seats)].Handle
}

func (m *mockInstance) PlayerView(handle string) (json.RawMessage, error) {
	return json.Marshal(map[string]interface{}{"turn": m.currentHandle(), "remaining": m.remaining})
}

func (m *mockInstance) LegalMoves(handle string) []string {
	if m.over || m.currentHandle() != handle {
		return nil
	}
	return []string{"advance"}
}

func (m *mockInstance) IsMovePending(handle string) bool {
	return !m.over && m.currentHandle() == handle
}

func (m *mockInstance) IsLegal(handle, moveID string) bool {
	return m.IsMovePending(handle) && moveID == "advance"
}

func (m *mockInstance) ExecuteMove(handle, moveID string) (MoveResult, error) {
	m.remaining--
	if m.remaining <= 0 {
		m.over = true
		return MoveResult{Completed: true, Comment: "mock game complete"}, nil
	}
	m.turn++
	next := m.currentHandle()
	return MoveResult{NextTurnHandle: next, NextTurnMoves: m.LegalMoves(next)}, nil
}

func (m *mockInstance) FirstTurn() (string, []string) {
	handle := m.currentHandle()
	return handle, m.LegalMoves(handle)
}
