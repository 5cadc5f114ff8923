package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoardGameHorizontalWin(t *testing.T) {
	a := &BoardGameAdapter{Size: 4, RunLen: 3}
	inst, err := a.Start([]Seat{{Handle: "leela"}, {Handle: "fry"}})
	require.NoError(t, err)

	moves := []struct {
		handle string
		move   string
	}{
		{"leela", "0,0"}, {"fry", "1,0"},
		{"leela", "0,1"}, {"fry", "1,1"},
		{"leela", "0,2"}, // leela connects 3 across row 0
	}

	var last MoveResult
	for _, m := range moves {
		require.True(t, inst.IsMovePending(m.handle))
		require.True(t, inst.IsLegal(m.handle, m.move))
		last, err = inst.ExecuteMove(m.handle, m.move)
		require.NoError(t, err)
	}

	assert.True(t, last.Completed)
	assert.Contains(t, last.Comment, "leela")
}

func TestBoardGameIllegalMoveWrongTurn(t *testing.T) {
	a := &BoardGameAdapter{Size: 3, RunLen: 3}
	inst, err := a.Start([]Seat{{Handle: "leela"}, {Handle: "fry"}})
	require.NoError(t, err)

	assert.False(t, inst.IsLegal("fry", "0,0"))
	assert.True(t, inst.IsLegal("leela", "0,0"))
}

func TestBoardGameDrawWhenBoardFills(t *testing.T) {
	// A 3x3 board filled in a pattern that avoids any 3-in-a-row.
	a := &BoardGameAdapter{Size: 3, RunLen: 3}
	inst, err := a.Start([]Seat{{Handle: "leela"}, {Handle: "fry"}})
	require.NoError(t, err)

	order := []string{"0,0", "0,1", "0,2", "1,1", "1,0", "1,2", "2,1", "2,0", "2,2"}
	handles := []string{"leela", "fry"}
	var last MoveResult
	for i, move := range order {
		handle := handles[i%2]
		last, err = inst.ExecuteMove(handle, move)
		require.NoError(t, err)
	}
	assert.True(t, last.Completed)
}

func TestBoardGameFirstTurn(t *testing.T) {
	a := NewBoardGameAdapter()
	inst, err := a.Start([]Seat{{Handle: "leela"}, {Handle: "fry"}, {Handle: "bender"}})
	require.NoError(t, err)

	handle, moves := inst.FirstTurn()
	assert.Equal(t, "leela", handle)
	assert.NotEmpty(t, moves)
}
