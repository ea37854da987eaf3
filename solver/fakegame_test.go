package solver

import (
	"github.com/gamesolver/core/board"
	"github.com/gamesolver/core/gsgame"
	"github.com/gamesolver/core/rzone"
)

// fakeEnv is a minimal synthetic game used only by this package's tests: N
// numbered positions, alternating turns, normal play (a side with no legal
// action loses). It exists purely to drive the solver plumbing end to end
// without depending on a real Go/Hex rule engine, which is out of scope
// (spec.md §1).
type fakeEnv struct {
	turn   board.Player
	hist   []board.Action
	stones rzone.Pair
	size   int
}

func newFakeEnv(size int) fakeEnv {
	return fakeEnv{
		turn:   board.Player1,
		size:   size,
		stones: rzone.Pair{P1: board.New(size), P2: board.New(size)},
	}
}

func (e fakeEnv) LegalActions() []board.Action {
	taken := e.stones.P1.Or(e.stones.P2)
	var out []board.Action
	for i := 0; i < e.size; i++ {
		if !taken.Test(i) {
			out = append(out, board.Action{ID: int32(i), Player: e.turn})
		}
	}
	return out
}

func (e fakeEnv) Turn() board.Player { return e.turn }

func (e fakeEnv) Terminal() (bool, board.Player) {
	if len(e.hist) == 0 {
		return false, board.PlayerNone
	}
	if len(e.LegalActions()) == 0 {
		return true, e.hist[len(e.hist)-1].Player
	}
	return false, board.PlayerNone
}

func (e fakeEnv) Features() []float32 { return nil }

func (e fakeEnv) History() []board.Action { return e.hist }

func (e fakeEnv) Stones(p board.Player) board.Bitboard { return e.stones.Get(p) }

func (e fakeEnv) HashKey() board.HashKey {
	var k board.HashKey
	for i, a := range e.hist {
		if a.IsPass() {
			continue
		}
		k ^= board.MoveHashKey(i, int(a.ID), a.Player)
	}
	return k
}

func (e fakeEnv) Act(a board.Action) gsgame.Environment {
	ns := e.stones
	if !a.IsPass() {
		bb := ns.Get(a.Player).Clone().Set(int(a.ID))
		if a.Player == board.Player1 {
			ns.P1 = bb
		} else {
			ns.P2 = bb
		}
	}
	hist := append(append([]board.Action{}, e.hist...), a)
	return fakeEnv{turn: a.Player.Opponent(), hist: hist, stones: ns, size: e.size}
}

func (e fakeEnv) MoveNumber() int { return len(e.hist) }

func (e fakeEnv) Clone() gsgame.Environment { return e }

// fakeRZoneHandler is deliberately trivial: a fixed one-bit R-zone, stones
// restricted to it for pattern extraction, and a conservative "nothing else
// is relevant" sibling-pruning rule, giving the propagation tests full
// control over which siblings get pruned.
type fakeRZoneHandler struct{}

func (fakeRZoneHandler) WinnerRZone(env gsgame.Environment) board.Bitboard {
	e := env.(fakeEnv)
	return board.New(e.size).Set(0)
}

func (fakeRZoneHandler) DilateForWinningParent(env gsgame.Environment, childRZone board.Bitboard, winAction board.Action) board.Bitboard {
	return childRZone.Clone()
}

func (fakeRZoneHandler) IsRelevantMove(env gsgame.Environment, rz board.Bitboard, action board.Action) bool {
	return false
}

func (fakeRZoneHandler) CloseLoserRZone(env gsgame.Environment, unionRZone board.Bitboard, loser board.Player) board.Bitboard {
	return unionRZone.Clone()
}

func (fakeRZoneHandler) ExtractZonePattern(env gsgame.Environment, rzoneBB board.Bitboard) rzone.ZonePattern {
	e := env.(fakeEnv)
	return rzone.ZonePattern{
		RZone: rzoneBB.Clone(),
		StonesByPlayer: rzone.Pair{
			P1: e.stones.P1.And(rzoneBB),
			P2: e.stones.P2.And(rzoneBB),
		},
	}
}

func (h fakeRZoneHandler) IsRZonePatternMatch(env gsgame.Environment, candidate rzone.ZonePattern) bool {
	return h.ExtractZonePattern(env, candidate.RZone).Equal(candidate)
}

// fakeKnowledgeHandler never reports a repetition; loopyKnowledgeHandler
// below overrides that for the GHI-specific tests.
type fakeKnowledgeHandler struct{}

func (fakeKnowledgeHandler) Winner(env gsgame.Environment) board.Player { return board.PlayerNone }

func (fakeKnowledgeHandler) HashKeySequence(env gsgame.Environment) []board.HashKey {
	e := env.(fakeEnv)
	seq := make([]board.HashKey, 0, len(e.hist))
	var acc board.HashKey
	for i, a := range e.hist {
		if a.IsPass() {
			continue
		}
		acc ^= board.MoveHashKey(i, int(a.ID), a.Player)
		seq = append(seq, acc)
	}
	return seq
}

func (fakeKnowledgeHandler) FindLoopMove(env gsgame.Environment, ancestorHashes []board.HashKey) (board.Action, int, bool) {
	return board.Action{}, 0, false
}

func (fakeKnowledgeHandler) AncestorPositions(env gsgame.Environment) []gsgame.Environment { return nil }

// loopyKnowledgeHandler always reports a repetition at matchDepth, for tests
// exercising runGHI's marking logic.
type loopyKnowledgeHandler struct {
	matchDepth int
}

func (h loopyKnowledgeHandler) Winner(env gsgame.Environment) board.Player { return board.PlayerNone }

func (h loopyKnowledgeHandler) HashKeySequence(env gsgame.Environment) []board.HashKey {
	return fakeKnowledgeHandler{}.HashKeySequence(env)
}

func (h loopyKnowledgeHandler) FindLoopMove(env gsgame.Environment, ancestorHashes []board.HashKey) (board.Action, int, bool) {
	return board.Action{}, h.matchDepth, true
}

func (h loopyKnowledgeHandler) AncestorPositions(env gsgame.Environment) []gsgame.Environment {
	return nil
}

// fakeInferencer returns a uniform policy and a constant value, enough to
// drive Tree.Expand without a real network.
type fakeInferencer struct{ size int }

func (f fakeInferencer) Infer(features []float32) ([]float32, float32) {
	p := make([]float32, f.size)
	for i := range p {
		p[i] = 1
	}
	return p, 0.5
}
