package workerpool

import (
	"github.com/gamesolver/core/board"
	"github.com/gamesolver/core/gsgame"
	"github.com/gamesolver/core/rzone"
)

// fakeEnv is a trivial, already-terminal environment: enough to drive
// solver.Solver's RunIteration through resolveTerminal once and no further,
// without depending on a real Go/Hex rule engine (spec.md §1, out of scope).
type fakeEnv struct {
	size int
}

func (e fakeEnv) LegalActions() []board.Action         { return nil }
func (e fakeEnv) Turn() board.Player                   { return board.Player1 }
func (e fakeEnv) Terminal() (bool, board.Player)       { return true, board.PlayerNone }
func (e fakeEnv) Features() []float32                  { return nil }
func (e fakeEnv) History() []board.Action              { return nil }
func (e fakeEnv) Stones(p board.Player) board.Bitboard { return board.New(e.size) }
func (e fakeEnv) HashKey() board.HashKey               { return 0 }
func (e fakeEnv) Act(a board.Action) gsgame.Environment { return e }
func (e fakeEnv) MoveNumber() int                      { return 0 }
func (e fakeEnv) Clone() gsgame.Environment            { return e }

type fakeRZoneHandler struct{}

func (fakeRZoneHandler) WinnerRZone(env gsgame.Environment) board.Bitboard { return board.Bitboard{} }
func (fakeRZoneHandler) DilateForWinningParent(env gsgame.Environment, childRZone board.Bitboard, winAction board.Action) board.Bitboard {
	return childRZone
}
func (fakeRZoneHandler) IsRelevantMove(env gsgame.Environment, rz board.Bitboard, action board.Action) bool {
	return false
}
func (fakeRZoneHandler) CloseLoserRZone(env gsgame.Environment, unionRZone board.Bitboard, loser board.Player) board.Bitboard {
	return unionRZone
}
func (fakeRZoneHandler) ExtractZonePattern(env gsgame.Environment, rzoneBB board.Bitboard) rzone.ZonePattern {
	return rzone.ZonePattern{RZone: rzoneBB}
}
func (fakeRZoneHandler) IsRZonePatternMatch(env gsgame.Environment, candidate rzone.ZonePattern) bool {
	return false
}

type fakeKnowledgeHandler struct{}

func (fakeKnowledgeHandler) Winner(env gsgame.Environment) board.Player { return board.PlayerNone }
func (fakeKnowledgeHandler) HashKeySequence(env gsgame.Environment) []board.HashKey {
	return nil
}
func (fakeKnowledgeHandler) FindLoopMove(env gsgame.Environment, ancestorHashes []board.HashKey) (board.Action, int, bool) {
	return board.Action{}, 0, false
}
func (fakeKnowledgeHandler) AncestorPositions(env gsgame.Environment) []gsgame.Environment {
	return nil
}

type fakeInferencer struct{}

func (fakeInferencer) Infer(features []float32) ([]float32, float32) { return nil, 0 }

// closingInferencer additionally implements io.Closer, for Pool.Shutdown's
// aggregate-close-errors path.
type closingInferencer struct {
	err error
}

func (c closingInferencer) Infer(features []float32) ([]float32, float32) { return nil, 0 }
func (c closingInferencer) Close() error                                  { return c.err }
