package mctscore

import "github.com/chewxy/math32"

// ProofCost rescales a raw leaf value into the "proof-cost scalar" backed up
// toward the root, per spec.md §4.2: "clamp(v + log10(|A|) * (number of
// non-solved-player turns between leaf and root), 0, VMAX)".
func ProofCost(v float32, actionSpace int, nonSolvedPlayerTurns int, vmax float32) float32 {
	cost := v + math32.Log10(float32(actionSpace))*float32(nonSolvedPlayerTurns)
	if cost < 0 {
		return 0
	}
	if cost > vmax {
		return vmax
	}
	return cost
}

// Backup walks every node on path accumulating the same (already proof-cost
// rescaled) value into each node's mean and records it in the tree-wide
// value map for PUCT normalisation (spec.md §4.2).
func (t *Tree) Backup(path []Naughty, value float32) {
	for _, idx := range path {
		n := t.Node(idx)
		n.accumulate(value)
		t.recordValue(n.Qsa)
	}
}
