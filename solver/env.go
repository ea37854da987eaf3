package solver

import (
	"github.com/gamesolver/core/board"
	"github.com/gamesolver/core/gsgame"
	"github.com/gamesolver/core/mctscore"
)

// pathToRoot returns the arena indices from the root down to idx inclusive,
// reconstructed by walking parent pointers (spec.md §9 "arena + index": all
// cross-references are indices, so rebuilding a path is a simple walk).
func (s *Solver) pathToRoot(idx mctscore.Naughty) []mctscore.Naughty {
	var rev []mctscore.Naughty
	for cur := idx; cur.Valid(); cur = s.tree.Node(cur).Parent() {
		rev = append(rev, cur)
	}
	path := make([]mctscore.Naughty, len(rev))
	for i, v := range rev {
		path[len(rev)-1-i] = v
	}
	return path
}

// envAt replays the actions from the root down to idx against rootEnv,
// reconstructing the Environment at that node. The root node's own Action is
// a placeholder and is not replayed.
func (s *Solver) envAt(idx mctscore.Naughty) gsgame.Environment {
	path := s.pathToRoot(idx)
	env := s.rootEnv
	for _, n := range path[1:] {
		env = env.Act(s.tree.Node(n).Action)
	}
	return env
}

// depthOf returns the ply count of idx relative to the tree root.
func (s *Solver) depthOf(idx mctscore.Naughty) int {
	d := 0
	for cur := s.tree.Node(idx).Parent(); cur.Valid(); cur = s.tree.Node(cur).Parent() {
		d++
	}
	return d
}

// nodeRZone resolves the R-zone bitboard backing idx's proof, following an
// EqualLossNode chain when idx's own status was delegated rather than
// directly proved (spec.md §4.4 "Sibling pruning": "no new R-zone is
// stored -- the proof is delegated").
func (s *Solver) nodeRZone(idx mctscore.Naughty) (board.Bitboard, bool) {
	for idx.Valid() {
		n := s.tree.Node(idx)
		if n.RZoneDataIndex >= 0 {
			return s.tree.RZone(n.RZoneDataIndex).RZone, true
		}
		idx = n.EqualLossNode
	}
	return board.Bitboard{}, false
}
