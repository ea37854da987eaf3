package mctscore

import (
	"github.com/gamesolver/core/board"
	"github.com/gamesolver/core/gsgame"
)

// Node is an MCTS node extended with solver bookkeeping, per spec.md §3
// "MCTS node". Field names follow a plain AlphaZero node shape (move,
// visits, qsa, psa, hasChildren) with the solver extension appended.
type Node struct {
	Action      board.Action
	Psa         float32 // P(s,a): policy prior
	PsaLogit    float32 // pre-softmax policy logit
	Qsa         float32 // mean backed-up value
	Visits      uint32
	VirtualLoss uint32
	HasChildren bool

	// Solver extension (spec.md §3).
	SolverStatus    gsgame.SolverStatus
	IsVirtualSolved bool
	GHI             bool
	InLoop          bool
	RZoneDataIndex  int32
	GHIDataIndex    int32
	TTStartLookupID int32
	MatchTTNode     Naughty
	EqualLossNode   Naughty

	id       Naughty
	parent   Naughty
	children []Naughty
}

func newNode(id, parent Naughty, a board.Action, psa float32) Node {
	return Node{
		Action:          a,
		Psa:             psa,
		Visits:          0,
		id:              id,
		parent:          parent,
		MatchTTNode:     NilNode,
		EqualLossNode:   NilNode,
		RZoneDataIndex:  -1,
		GHIDataIndex:    -1,
		TTStartLookupID: 0,
	}
}

// ID returns this node's arena index.
func (n *Node) ID() Naughty { return n.id }

// Parent returns the parent's arena index, or NilNode at the root.
func (n *Node) Parent() Naughty { return n.parent }

// Children returns the child indices, ordered as they were expanded.
func (n *Node) Children() []Naughty { return n.children }

// IsSolved reports whether a proof is attached: invariant spec.md §3 "A
// node's solver_status != Unknown iff a proof is attached (either via an
// rzone_data_index or via an equal_loss_node)".
func (n *Node) IsSolved() bool { return n.SolverStatus != gsgame.Unknown }

// mean is the PUCT-relevant Q(s,a): 0 until first visit, else Qsa.
func (n *Node) mean() float32 {
	if n.Visits == 0 {
		return 0
	}
	return n.Qsa
}

// accumulate folds a new backed-up value into the running mean, matching the
// teacher's Node.accumulate.
func (n *Node) accumulate(v float32) {
	n.Qsa = (float32(n.Visits)*n.Qsa + v) / float32(n.Visits+1)
	n.Visits++
}

// reset clears a node back to its zero, used when the arena slot is freed
// and reused.
func (n *Node) reset() {
	id := n.id
	*n = Node{id: id, parent: NilNode, MatchTTNode: NilNode, EqualLossNode: NilNode, RZoneDataIndex: -1, GHIDataIndex: -1}
}
