package solver

import (
	"github.com/gamesolver/core/board"
	"github.com/gamesolver/core/ghi"
	"github.com/gamesolver/core/gsgame"
	"github.com/gamesolver/core/mctscore"
)

// IntegrateJobResult folds a completed worker job back into the tree along
// path (spec.md §4.7 "Job-result integration"). It is the manager-side
// counterpart to RunIteration's local expand/backup: the manager dispatched
// path's leaf as a job via LeafHook instead of evaluating it locally, and
// this is where that job's eventual answer rejoins the search. Reversing
// any virtual loss added at dispatch is the caller's responsibility, since
// only the caller knows how much it added.
//
// It returns false when the result must be discarded because some node
// along path was independently solved in the meantime (spec.md §4.7 "a
// result arriving for an already-solved node is dropped").
func (s *Solver) IntegrateJobResult(path []mctscore.Naughty, status gsgame.SolverStatus, rzoneBits board.Bitboard, ghiData ghi.Data, softFailureValue float32) bool {
	for _, idx := range path {
		if s.tree.Node(idx).IsSolved() {
			return false
		}
	}

	leaf := path[len(path)-1]
	n := s.tree.Node(leaf)

	if status == gsgame.Unknown {
		s.tree.Backup(path, softFailureValue)
		return true
	}

	favorable := (n.Action.Player != s.conf.SolvedPlayer && status == gsgame.Loss) ||
		(n.Action.Player == s.conf.SolvedPlayer && status == gsgame.Win)
	backupValue := s.conf.VMax
	if favorable {
		backupValue = 0
	}
	s.tree.Backup(path, backupValue)

	n.SolverStatus = status
	if status != gsgame.Win && status != gsgame.Loss {
		return true
	}

	leafEnv := s.envAt(leaf)
	pattern := s.rzoneH.ExtractZonePattern(leafEnv, rzoneBits)
	n.RZoneDataIndex = s.tree.PushRZone(pattern)
	s.storeTT(leaf, leafEnv, pattern)
	s.applyGHIResult(path, ghiData)
	s.propagateFrom(leaf)
	return true
}

// applyGHIResult wires a worker-reported GHI payload onto path, matching the
// original's updateGHIData: the leaf carries the GHIData entry itself, every
// node on path is marked ghi, and the suffix of path at or after the loop's
// entry point is marked in_loop.
func (s *Solver) applyGHIResult(path []mctscore.Naughty, data ghi.Data) {
	if data.IsEmpty() {
		return
	}
	leaf := path[len(path)-1]
	n := s.tree.Node(leaf)
	n.GHIDataIndex = s.tree.PushGHI(data)

	start := len(path) + data.MinLoopOffsetBeforeRoot
	if start < 0 {
		start = 0
	}
	for i, idx := range path {
		an := s.tree.Node(idx)
		an.GHI = true
		if i >= start {
			an.InLoop = true
		}
	}
}
