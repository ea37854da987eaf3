package mctscore

import (
	"sort"

	"github.com/gamesolver/core/board"
	"github.com/gamesolver/core/ghi"
	"github.com/gamesolver/core/rzone"
)

// Config configures PUCT and tree-wide limits.
type Config struct {
	PUCT     float32
	MaxDepth int
}

func DefaultConfig() Config {
	return Config{PUCT: 1.0, MaxDepth: 400}
}

// Tree is the arena-backed node pool (grown on demand, freed slots reused)
// plus the append-only R-zone and GHI
// side stores (spec.md §3 "Tree side stores"). It is single-owner: exactly
// one goroutine mutates a given Tree (spec.md §5).
type Tree struct {
	Config

	nodes    []Node
	freelist []Naughty

	rzoneStore []rzone.ZonePattern
	ghiStore   []ghi.Data

	root Naughty

	// valueMap is an ordered multiset of backed-up means across the whole
	// tree, used to normalise PUCT scores the way spec.md §4.2 describes
	// ("a tree-wide ordered value map (a multiset keyed by mean) is
	// maintained for PUCT normalisation"). No third-party ordered multiset
	// exists in the retrieved pack, so this is a justified stdlib
	// container (sorted slice, log-n insert via sort.Search) — see
	// DESIGN.md.
	valueMap []float32

	ttSize int32 // monotonic counter advanced only by BumpTTSize; TTStartLookupID is set from rzone.TT.Size, not from this
}

// New creates an empty tree, ready to have a root installed via NewRoot.
func New(conf Config) *Tree {
	return &Tree{
		Config: conf,
		root:   NilNode,
	}
}

// Reset clears the tree back to empty, reusing the node arena's backing
// array, and satisfying the idempotence property (spec.md §8): calling
// Reset twice yields the same empty state.
func (t *Tree) Reset() {
	t.nodes = t.nodes[:0]
	t.freelist = t.freelist[:0]
	t.rzoneStore = t.rzoneStore[:0]
	t.ghiStore = t.ghiStore[:0]
	t.valueMap = t.valueMap[:0]
	t.root = NilNode
	t.ttSize = 0
}

// Root returns the current root index.
func (t *Tree) Root() Naughty { return t.root }

// Len returns the number of arena slots currently in use (including freed
// slots awaiting reuse), reported as a job response's node count (spec.md
// §6).
func (t *Tree) Len() int { return len(t.nodes) }

// Node returns a pointer to the node at idx. Pointers are only valid until
// the next alloc() triggers a slice growth; callers within this package
// always re-fetch via Node() after any alloc.
func (t *Tree) Node(idx Naughty) *Node { return &t.nodes[idx] }

// NewRoot installs a fresh root node with the given action (PassAction for
// the true game root).
func (t *Tree) NewRoot(a board.Action) Naughty {
	t.root = t.alloc(NilNode, a, 0)
	return t.root
}

// alloc pulls from the freelist or grows the arena.
func (t *Tree) alloc(parent Naughty, a board.Action, psa float32) Naughty {
	if l := len(t.freelist); l > 0 {
		idx := t.freelist[l-1]
		t.freelist = t.freelist[:l-1]
		t.nodes[idx] = newNode(idx, parent, a, psa)
		return idx
	}
	idx := Naughty(len(t.nodes))
	t.nodes = append(t.nodes, newNode(idx, parent, a, psa))
	return idx
}

// AddChild appends child as a new node under parent with the given action
// and policy prior, returning its index.
func (t *Tree) AddChild(parent Naughty, a board.Action, psa float32) Naughty {
	idx := t.alloc(parent, a, psa)
	p := t.Node(parent)
	p.children = append(p.children, idx)
	p.HasChildren = true
	return idx
}

// Free recursively returns node and its subtree to the freelist.
func (t *Tree) Free(idx Naughty) {
	n := t.Node(idx)
	children := n.children
	n.children = nil
	for _, c := range children {
		t.Free(c)
	}
	t.nodes[idx].reset()
	t.freelist = append(t.freelist, idx)
}

// PushRZone appends a ZonePattern to the side store and returns its index.
func (t *Tree) PushRZone(z rzone.ZonePattern) int32 {
	t.rzoneStore = append(t.rzoneStore, z)
	return int32(len(t.rzoneStore) - 1)
}

// RZone returns the stored ZonePattern at idx.
func (t *Tree) RZone(idx int32) rzone.ZonePattern { return t.rzoneStore[idx] }

// PushGHI appends a GHI Data entry and returns its index.
func (t *Tree) PushGHI(d ghi.Data) int32 {
	t.ghiStore = append(t.ghiStore, d)
	return int32(len(t.ghiStore) - 1)
}

// GHI returns the stored GHI Data at idx.
func (t *Tree) GHI(idx int32) ghi.Data { return t.ghiStore[idx] }

// TTSize returns the tree's own monotonic counter. The solver's
// tt_start_lookup_id filtering reads rzone.TT.Size instead.
func (t *Tree) TTSize() int32 { return t.ttSize }

// BumpTTSize advances the tree's monotonic counter by one; R-TT stores do
// not call it.
func (t *Tree) BumpTTSize() int32 {
	t.ttSize++
	return t.ttSize
}

// recordValue inserts v into the ordered value map in sorted position.
func (t *Tree) recordValue(v float32) {
	i := sort.Search(len(t.valueMap), func(i int) bool { return t.valueMap[i] >= v })
	t.valueMap = append(t.valueMap, 0)
	copy(t.valueMap[i+1:], t.valueMap[i:])
	t.valueMap[i] = v
}

// valueRange returns (min, max) of the value map, used to normalise PUCT Q
// terms into [0,1]; both are 0 on an empty map.
func (t *Tree) valueRange() (float32, float32) {
	if len(t.valueMap) == 0 {
		return 0, 0
	}
	return t.valueMap[0], t.valueMap[len(t.valueMap)-1]
}
