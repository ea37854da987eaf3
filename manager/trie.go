package manager

// trieNode is one edge-labelled node of the recent-selection-path trie.
// count is how many of the currently-tracked recent selections pass through
// this node.
type trieNode struct {
	count    int
	children map[int32]*trieNode
}

func newTrieNode() *trieNode {
	return &trieNode{children: make(map[int32]*trieNode)}
}

// RecentSelectionPath tracks the action-ID sequence of the last N selection
// paths in a trie and can summarise which prefixes were walked at least M
// times: the "critical positions" a manager broadcasts to its peers (spec.md
// §4.7 "broadcastCriticalPositions"), grounded on Manager::RecentSelectionPath.
type RecentSelectionPath struct {
	n, m    int
	root    *trieNode
	history [][]int32
}

// NewRecentSelectionPath builds a tracker retaining the last n selections,
// flagging any prefix walked by at least m of them.
func NewRecentSelectionPath(n, m int) *RecentSelectionPath {
	return &RecentSelectionPath{n: n, m: m, root: newTrieNode()}
}

// Add records one selection's action-ID sequence, evicting the oldest
// tracked selection once more than n have accumulated.
func (r *RecentSelectionPath) Add(actions []int32) {
	cp := make([]int32, len(actions))
	copy(cp, actions)
	r.history = append(r.history, cp)
	r.walkCount(cp, 1)
	if len(r.history) > r.n {
		oldest := r.history[0]
		r.history = r.history[1:]
		r.walkCount(oldest, -1)
	}
}

func (r *RecentSelectionPath) walkCount(actions []int32, delta int) {
	cur := r.root
	cur.count += delta
	for _, a := range actions {
		child, ok := cur.children[a]
		if !ok {
			if delta < 0 {
				return
			}
			child = newTrieNode()
			cur.children[a] = child
		}
		child.count += delta
		cur = child
	}
}

// Summarize returns every non-empty prefix currently walked by at least m of
// the tracked recent selections.
func (r *RecentSelectionPath) Summarize() [][]int32 {
	var out [][]int32
	var walk func(node *trieNode, prefix []int32)
	walk = func(node *trieNode, prefix []int32) {
		if len(prefix) > 0 && node.count >= r.m {
			cp := make([]int32, len(prefix))
			copy(cp, prefix)
			out = append(out, cp)
		}
		for a, child := range node.children {
			walk(child, append(prefix, a))
		}
	}
	walk(r.root, nil)
	return out
}
