package solver

import (
	"github.com/gamesolver/core/board"
	"github.com/gamesolver/core/gsgame"
	"github.com/gamesolver/core/mctscore"
)

// propagateFrom runs the solver-status propagation walk of spec.md §4.4
// starting at a node that just received a concrete Win/Loss status (either
// from a fresh terminal/TT resolution or from the tail of a previous
// propagateFrom call continuing upward past a Win).
func (s *Solver) propagateFrom(leaf mctscore.Naughty) {
	cur := leaf
	for {
		n := s.tree.Node(cur)
		parentIdx := n.Parent()
		if !parentIdx.Valid() {
			return
		}
		p := s.tree.Node(parentIdx)
		parentEnv := s.envAt(parentIdx)

		switch n.SolverStatus {
		case gsgame.Win:
			p.SolverStatus = gsgame.Loss
			childRZone, _ := s.nodeRZone(cur)
			childEnv := s.envAt(cur)
			parentRZone := s.rzoneH.DilateForWinningParent(childEnv, childRZone, n.Action)
			pattern := s.rzoneH.ExtractZonePattern(parentEnv, parentRZone)
			p.RZoneDataIndex = s.tree.PushRZone(pattern)
			s.storeTT(parentIdx, parentEnv, pattern)
			return

		case gsgame.Loss:
			s.pruneSiblings(cur, parentIdx, parentEnv)

			allLoss := true
			var unionRZone board.Bitboard
			haveUnion := false
			var loser board.Player
			for _, c := range p.Children() {
				cn := s.tree.Node(c)
				if cn.SolverStatus != gsgame.Loss {
					allLoss = false
					break
				}
				loser = cn.Action.Player
				if z, ok := s.nodeRZone(c); ok {
					if !haveUnion {
						unionRZone = z.Clone()
						haveUnion = true
					} else {
						unionRZone = unionRZone.Or(z)
					}
				}
			}
			if !allLoss {
				return
			}
			p.SolverStatus = gsgame.Win
			parentRZone := s.rzoneH.CloseLoserRZone(parentEnv, unionRZone, loser)
			pattern := s.rzoneH.ExtractZonePattern(parentEnv, parentRZone)
			p.RZoneDataIndex = s.tree.PushRZone(pattern)
			s.storeTT(parentIdx, parentEnv, pattern)
			s.runGHI(parentIdx, parentEnv)

			cur = parentIdx
			continue

		default:
			return
		}
	}
}

// pruneSiblings marks every not-yet-solved sibling of lossChild whose move
// lies outside lossChild's R-zone (and is not otherwise game-relevant) as
// Loss by delegation, per spec.md §4.4 "Sibling pruning".
func (s *Solver) pruneSiblings(lossChild, parentIdx mctscore.Naughty, parentEnv gsgame.Environment) {
	rz, ok := s.nodeRZone(lossChild)
	if !ok {
		return
	}
	p := s.tree.Node(parentIdx)
	for _, sib := range p.Children() {
		if sib == lossChild {
			continue
		}
		sn := s.tree.Node(sib)
		if sn.IsSolved() {
			continue
		}
		if !sn.Action.IsPass() && rz.Test(int(sn.Action.ID)) {
			continue
		}
		if s.rzoneH.IsRelevantMove(parentEnv, rz, sn.Action) {
			continue
		}
		sn.SolverStatus = gsgame.Loss
		sn.EqualLossNode = lossChild
	}
}
