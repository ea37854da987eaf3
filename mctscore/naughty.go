// Package mctscore implements the MCTS tree store and search loop extended
// with solver-status propagation, R-zone bookkeeping and GHI indices
// (spec.md §2 "MCTS tree store", "Solver node", §4.2-§4.4): a single-game
// AlphaZero-style search generalised into the solver core's AND/OR-extended
// search.
//
// Per spec.md §9 "Shared-pointer cycles", the tree owns a contiguous node
// arena and all cross-references (parent/child, match-tt-node,
// equal-loss-node) are int32 indices into it rather than pointers, and per
// spec.md §5 "Tree structures are single-owner" there is no per-node
// locking: exactly one goroutine drives a given Tree.
package mctscore

// Naughty is an index into a Tree's node arena.
type Naughty int32

// NilNode is the "no node" sentinel, stored in optional index fields such as
// MatchTTNode and EqualLossNode.
const NilNode Naughty = -1

func (n Naughty) Valid() bool { return n >= 0 }
