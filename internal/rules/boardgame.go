package rules

import (
	"encoding/json"
	"fmt"
)

// BoardGameAdapter is the reference rule engine: a square grid where seats
// take turns placing their mark, and the first to line up run-in-a-row
// marks (orthogonally or diagonally) wins. It is grounded on the
// line-scan win check used by tibfox-okinoko-in_a_row's connect-style
// contract (checkPatternGrid): walk outward from the just-placed cell in
// four directions, counting same-mark runs.
type BoardGameAdapter struct {
	Size   int // grid is Size x Size
	RunLen int // marks in a row required to win
}

// NewBoardGameAdapter returns the default 6x6, 4-in-a-row adapter used in
// production; tests construct smaller boards directly via the struct
// literal for faster deterministic play.
func NewBoardGameAdapter() *BoardGameAdapter {
	return &BoardGameAdapter{Size: 6, RunLen: 4}
}

func (a *BoardGameAdapter) Start(seats []Seat) (Instance, error) {
	if len(seats) < 2 {
		return nil, fmt.Errorf("boardgame: at least 2 seats required, got %d", len(seats))
	}
	size, run := a.Size, a.RunLen
	if size == 0 {
		size = 6
	}
	if run == 0 {
		run = 4
	}
	grid := make([][]string, size)
	for i := range grid {
		grid[i] = make([]string, size)
	}
	return &boardGame{
		size:   size,
		runLen: run,
		seats:  append([]Seat(nil), seats...),
		grid:   grid,
		turn:   0,
	}, nil
}

type boardGame struct {
	size, runLen int
	seats        []Seat
	grid         [][]string
	turn         int
	winner       string
	draw         bool
	over         bool
}

type boardView struct {
	Size  int        `json:"size"`
	Grid  [][]string `json:"grid"`
	Turn  string     `json:"turn"`
	Over  bool       `json:"over"`
	Winner string    `json:"winner,omitempty"`
	Draw  bool       `json:"draw,omitempty"`
}

func (g *boardGame) PlayerView(handle string) (json.RawMessage, error) {
	view := boardView{
		Size:   g.size,
		Grid:   g.grid,
		Turn:   g.currentHandle(),
		Over:   g.over,
		Winner: g.winner,
		Draw:   g.draw,
	}
	return json.Marshal(view)
}

func (g *boardGame) currentHandle() string {
	if g.over || len(g.seats) == 0 {
		return ""
	}
	return g.seats[g.turn%len(g.seats)].Handle
}

func (g *boardGame) LegalMoves(handle string) []string {
	if g.over || g.currentHandle() != handle {
		return nil
	}
	moves := make([]string, 0, g.size*g.size)
	for r := 0; r < g.size; r++ {
		for c := 0; c < g.size; c++ {
			if g.grid[r][c] == "" {
				moves = append(moves, cellMoveID(r, c))
			}
		}
	}
	return moves
}

func (g *boardGame) IsMovePending(handle string) bool {
	return !g.over && g.currentHandle() == handle
}

func (g *boardGame) IsLegal(handle, moveID string) bool {
	if !g.IsMovePending(handle) {
		return false
	}
	r, c, ok := parseCellMoveID(moveID)
	if !ok || r < 0 || r >= g.size || c < 0 || c >= g.size {
		return false
	}
	return g.grid[r][c] == ""
}

func (g *boardGame) ExecuteMove(handle, moveID string) (MoveResult, error) {
	if !g.IsLegal(handle, moveID) {
		return MoveResult{}, fmt.Errorf("boardgame: illegal move %q for %q", moveID, handle)
	}
	r, c, _ := parseCellMoveID(moveID)
	mark := g.seatMark(handle)
	g.grid[r][c] = mark

	if g.checkWin(r, c, mark) {
		g.over = true
		g.winner = handle
		return MoveResult{Completed: true, Comment: fmt.Sprintf("%s connected %d", handle, g.runLen)}, nil
	}
	if g.boardFull() {
		g.over = true
		g.draw = true
		return MoveResult{Completed: true, Comment: "draw: board full"}, nil
	}

	g.turn++
	next := g.currentHandle()
	return MoveResult{
		Completed:      false,
		NextTurnHandle: next,
		NextTurnMoves:  g.LegalMoves(next),
	}, nil
}

func (g *boardGame) FirstTurn() (string, []string) {
	handle := g.currentHandle()
	return handle, g.LegalMoves(handle)
}

func (g *boardGame) seatMark(handle string) string {
	for i, s := range g.seats {
		if s.Handle == handle {
			return markForSeat(i)
		}
	}
	return "?"
}

func markForSeat(i int) string {
	marks := []string{"X", "O", "#", "+"}
	if i < len(marks) {
		return marks[i]
	}
	return fmt.Sprintf("%d", i)
}

func (g *boardGame) boardFull() bool {
	for r := 0; r < g.size; r++ {
		for c := 0; c < g.size; c++ {
			if g.grid[r][c] == "" {
				return false
			}
		}
	}
	return true
}

// checkWin walks outward from (row, col) in the four line directions,
// counting contiguous same-mark runs in both senses of each axis.
func (g *boardGame) checkWin(row, col int, mark string) bool {
	dirs := [][2]int{{1, 0}, {0, 1}, {1, 1}, {1, -1}}
	for _, d := range dirs {
		count := 1
		for _, sign := range [2]int{1, -1} {
			r, c := row+d[0]*sign, col+d[1]*sign
			for r >= 0 && r < g.size && c >= 0 && c < g.size && g.grid[r][c] == mark {
				count++
				r += d[0] * sign
				c += d[1] * sign
			}
		}
		if count >= g.runLen {
			return true
		}
	}
	return false
}

func cellMoveID(r, c int) string { return fmt.Sprintf("%d,%d", r, c) }

func parseCellMoveID(moveID string) (r, c int, ok bool) {
	n, err := fmt.Sscanf(moveID, "%d,%d", &r, &c)
	return r, c, err == nil && n == 2
}
