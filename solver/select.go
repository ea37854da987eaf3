package solver

import (
	"github.com/gamesolver/core/gsgame"
	"github.com/gamesolver/core/mctscore"
)

// selectPath walks from the root to a leaf, applying spec.md §4.3's rules:
// a TT hit on the position about to be descended into is adopted
// immediately and selection restarts from the root; a node with no
// selectable child is marked virtual-solved (manager mode) and selection
// restarts, or (worker mode, which has no virtual-solved placeholder) marked
// Draw and returned as the leaf directly. It returns the final path
// (root..leaf inclusive) and the leaf's reconstructed Environment.
func (s *Solver) selectPath(managerMode bool) ([]mctscore.Naughty, gsgame.Environment) {
	for {
		path := []mctscore.Naughty{s.tree.Root()}
		cur := s.tree.Root()
		env := s.rootEnv
		restart := false

		for {
			n := s.tree.Node(cur)
			if !n.HasChildren {
				return path, env
			}
			child, ok := s.tree.SelectChild(cur, managerMode)
			if !ok {
				if managerMode {
					n.IsVirtualSolved = true
					restart = true
					break
				}
				// Worker mode has no virtual-solved placeholder to fall back
				// on: every child is already decided (Draw/Loss) yet none
				// are forced to Win, as with an all-Draw or Draw+Loss mix of
				// children (spec.md §4.4's propagation only consumes Win and
				// Loss). Without a Win child to mark this node Loss and
				// without a Win/Loss on every child to propagate, this node
				// stays Unknown forever under the exact same selection path,
				// so mark it Draw and stop here rather than restarting from
				// the root indefinitely (spec.md §3's SolverStatus lattice
				// already allows Draw at a node; §4.4 simply never produces
				// one above a terminal leaf, which this closes).
				n.SolverStatus = gsgame.Draw
				return path, env
			}
			childEnv := env.Act(s.tree.Node(child).Action)
			if pattern, found := s.lookupTT(child, childEnv); found {
				s.adoptTTMatch(child, pattern)
				restart = true
				break
			}
			path = append(path, child)
			cur = child
			env = childEnv
		}
		if !restart {
			return path, env
		}
	}
}
