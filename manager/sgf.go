package manager

import (
	"fmt"
	"strings"

	"github.com/gamesolver/core/board"
	"github.com/gamesolver/core/gsgame"
)

// sgfCoord renders an action's grid position as an SGF-style two-letter
// coordinate pair (column, then row, a-indexed from the board's top-left).
// PassAction renders as "tt", SGF's conventional empty-move coordinate.
func sgfCoord(id int32, boardSize int) string {
	if id == board.PassAction {
		return "tt"
	}
	col := int(id) % boardSize
	row := int(id) / boardSize
	return string([]byte{byte('a' + col), byte('a' + row)})
}

// sgfTag is the single-letter SGF property for the player who made the
// move: B for Player1, W for Player2.
func sgfTag(p board.Player) string {
	if p == board.Player2 {
		return "W"
	}
	return "B"
}

// jobSGF serialises env's full move history into the SGF string a job
// request's sgf field carries (spec.md §6), matching the original's
// getSolverJobSgf: a root node carrying board size and komi followed by one
// node per move from the search root down to the dispatched leaf.
func jobSGF(env gsgame.Environment, boardSize int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "(;FF[4]CA[UTF-8]SZ[%d]KM[0]", boardSize)
	for _, a := range env.History() {
		fmt.Fprintf(&b, ";%s[%s]", sgfTag(a.Player), sgfCoord(a.ID, boardSize))
	}
	b.WriteString(")")
	return b.String()
}
