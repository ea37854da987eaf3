package mctscore

import (
	"math/rand"

	"github.com/chewxy/math32"
	"github.com/gamesolver/core/board"
)

// SelectChild picks the child of parent with the highest normalised PUCT
// score, per spec.md §4.3: "select a child by the normalised PUCT score,
// skipping children whose solver_status != Unknown ... and, in the manager,
// also skipping is_virtual_solved children". ok is false when no selectable
// child exists (every child solved, or virtual-solved under managerMode).
func (t *Tree) SelectChild(parent Naughty, managerMode bool) (child Naughty, ok bool) {
	p := t.Node(parent)
	var parentVisits uint32
	for _, c := range p.children {
		cn := t.Node(c)
		if cn.SolverStatus != 0 { // solved children don't contribute to PUCT's visit normalisation either
			continue
		}
		parentVisits += cn.Visits
	}

	lo, hi := t.valueRange()
	spread := hi - lo
	if spread <= 0 {
		spread = 1
	}

	numerator := math32.Sqrt(float32(parentVisits) + 1)
	best := NilNode
	bestScore := math32.Inf(-1)
	for _, c := range p.children {
		cn := t.Node(c)
		if cn.SolverStatus != 0 {
			continue
		}
		if managerMode && cn.IsVirtualSolved {
			continue
		}
		q := (cn.mean() - lo) / spread
		puct := t.PUCT * cn.Psa * numerator / (1 + float32(cn.Visits))
		score := q + puct
		if score > bestScore {
			bestScore = score
			best = c
		}
	}
	if best == NilNode {
		return NilNode, false
	}
	return best, true
}

// ManagerBroadenedSelect implements the manager's extra broadening rule
// (spec.md §4.3): "at nodes whose move is the opponent of the solved player
// ... selects uniformly at random from the top-K children by PUCT when the
// visit count >= K". It falls back to SelectChild otherwise.
func ManagerBroadenedSelect(t *Tree, parent Naughty, solvedPlayer board.Player, topK int, r *rand.Rand) (Naughty, bool) {
	p := t.Node(parent)
	if len(p.children) == 0 {
		return NilNode, false
	}
	// The "move" at a node is the action of the node itself; the player to
	// move AT parent is the opponent of whoever played into parent when
	// parent is not the root, but spec.md frames this as "the solved
	// player is to move" at parent, so we gate broadening on parent's own
	// action's player being the opponent of solvedPlayer.
	if p.Action.Player != board.PlayerNone && p.Action.Player.Opponent() != solvedPlayer {
		return t.SelectChild(parent, true)
	}
	candidates := rankedCandidates(t, parent)
	if len(candidates) == 0 {
		return NilNode, false
	}
	k := topK
	if k > len(candidates) {
		k = len(candidates)
	}
	var eligibleVisits uint32
	for _, c := range candidates[:k] {
		eligibleVisits += t.Node(c).Visits
	}
	if eligibleVisits < uint32(topK) {
		return t.SelectChild(parent, true)
	}
	return candidates[r.Intn(k)], true
}

// rankedCandidates returns selectable (unsolved, non-virtual-solved)
// children sorted best-PUCT-first.
func rankedCandidates(t *Tree, parent Naughty) []Naughty {
	p := t.Node(parent)
	lo, hi := t.valueRange()
	spread := hi - lo
	if spread <= 0 {
		spread = 1
	}
	var parentVisits uint32
	for _, c := range p.children {
		if t.Node(c).SolverStatus == 0 {
			parentVisits += t.Node(c).Visits
		}
	}
	numerator := math32.Sqrt(float32(parentVisits) + 1)

	type scored struct {
		idx   Naughty
		score float32
	}
	var list []scored
	for _, c := range p.children {
		cn := t.Node(c)
		if cn.SolverStatus != 0 || cn.IsVirtualSolved {
			continue
		}
		q := (cn.mean() - lo) / spread
		puct := t.PUCT * cn.Psa * numerator / (1 + float32(cn.Visits))
		list = append(list, scored{c, q + puct})
	}
	// insertion sort: candidate lists are small (board action spaces)
	for i := 1; i < len(list); i++ {
		for j := i; j > 0 && list[j].score > list[j-1].score; j-- {
			list[j], list[j-1] = list[j-1], list[j]
		}
	}
	out := make([]Naughty, len(list))
	for i, s := range list {
		out[i] = s.idx
	}
	return out
}
