package manager

import (
	"testing"

	"github.com/gamesolver/core/board"
	"github.com/gamesolver/core/gsgame"
	"github.com/stretchr/testify/require"
)

func TestSgfCoordPassAndGrid(t *testing.T) {
	require.Equal(t, "tt", sgfCoord(board.PassAction, 7))
	require.Equal(t, "aa", sgfCoord(0, 7))
	require.Equal(t, "bb", sgfCoord(8, 7))
}

func TestSgfTagByPlayer(t *testing.T) {
	require.Equal(t, "B", sgfTag(board.Player1))
	require.Equal(t, "W", sgfTag(board.Player2))
}

// sgfFakeEnv implements only the slice of gsgame.Environment jobSGF actually
// reads (History); every other method is unreachable from this test.
type sgfFakeEnv struct {
	hist []board.Action
}

func (e sgfFakeEnv) LegalActions() []board.Action          { return nil }
func (e sgfFakeEnv) Turn() board.Player                    { return board.PlayerNone }
func (e sgfFakeEnv) Terminal() (bool, board.Player)        { return false, board.PlayerNone }
func (e sgfFakeEnv) Features() []float32                   { return nil }
func (e sgfFakeEnv) History() []board.Action               { return e.hist }
func (e sgfFakeEnv) Stones(p board.Player) board.Bitboard   { return board.Bitboard{} }
func (e sgfFakeEnv) HashKey() board.HashKey                 { return 0 }
func (e sgfFakeEnv) Act(a board.Action) gsgame.Environment {
	return sgfFakeEnv{hist: append(append([]board.Action{}, e.hist...), a)}
}
func (e sgfFakeEnv) MoveNumber() int           { return len(e.hist) }
func (e sgfFakeEnv) Clone() gsgame.Environment { return e }

func TestJobSGFRendersMoveHistory(t *testing.T) {
	env := sgfFakeEnv{hist: []board.Action{
		{ID: 0, Player: board.Player1},
		{ID: 8, Player: board.Player2},
	}}
	got := jobSGF(env, 7)
	require.Equal(t, "(;FF[4]CA[UTF-8]SZ[7]KM[0];B[aa];W[bb])", got)
}
