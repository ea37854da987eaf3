package rzone

import (
	"github.com/gamesolver/core/board"
	"github.com/gamesolver/core/oatable"
)

// StoredPattern is one TT entry: the zone pattern itself plus the bookkeeping
// spec.md §4.6 requires for matching (side to move, ko constraint) and for
// the timestamp-filtered lookup. Ref is an opaque handle to the solved node
// that produced the proof (mctscore.Naughty in practice); it is generic so
// this package has no dependency on the tree package, avoiding an import
// cycle (mctscore already depends on rzone for ZonePattern).
type StoredPattern[Ref any] struct {
	Pattern    ZonePattern
	Turn       board.Player
	KoPosition int
	Timestamp  int32
	NodeRef    Ref
}

// ttEntry is what lives behind one open-address slot: a monotonic
// "newest write touched me" marker plus a newest-first deque of patterns
// that hashed to this exact accumulated key (spec.md §4.6: "Storage:
// XOR-accumulate the key sequence; at every accumulated prefix, insert the
// pattern under that key ... Each entry additionally carries a monotonic
// tt_max_id").
type ttEntry[Ref any] struct {
	ttMaxID  int32
	patterns []StoredPattern[Ref] // newest first
}

// TT is the R-zone transposition table, grounded on the original
// worker/base/rzone_tt_handler.{h,cpp} RZoneTT/RZoneTTHandler. One TT
// instance backs either the block strategy or the grid strategy (spec.md
// §4.6: "mutually exclusive" in config), selected by the caller; the data
// structure itself is identical either way — only the key-sequence
// extraction differs, which callers supply.
type TT[Ref any] struct {
	table *oatable.Table[ttEntry[Ref]]
	size  int32 // monotonic counter, independent of the open-address table's own Count
}

// NewTT allocates a TT with 1<<bits capacity.
func NewTT[Ref any](bits int) *TT[Ref] {
	return &TT[Ref]{table: oatable.New[ttEntry[Ref]](bits)}
}

// Clear empties the table and resets the monotonic size counter.
func (t *TT[Ref]) Clear() {
	t.table.Clear()
	t.size = 0
}

// Size returns the monotonic store counter (spec.md's tt_size: "a lookup ...
// can be pruned when the entry's tt_max_id <= tt_start_lookup_id"), not the
// occupied-slot count.
func (t *TT[Ref]) Size() int32 { return t.size }

// touch ensures an entry exists at key and bumps its tt_max_id to the
// table's current size, matching storeBlockTT's per-prefix loop.
func (t *TT[Ref]) touch(key uint64) {
	idx, ok := t.table.Lookup(key)
	if !ok {
		idx = t.table.Store(key, ttEntry[Ref]{})
	}
	t.table.At(idx).ttMaxID = t.size
}

// storeTTPattern advances size, then prepends pattern to the deque at key
// (creating the entry if needed) with its timestamp and the entry's tt_max_id
// both set to the new size, so the store is visible to any lookup whose
// start ID was recorded before it. Grounded on RZoneTT::storeTTPattern.
func (t *TT[Ref]) storeTTPattern(key uint64, pattern StoredPattern[Ref]) {
	t.size++
	pattern.Timestamp = t.size
	idx, ok := t.table.Lookup(key)
	if !ok {
		idx = t.table.Store(key, ttEntry[Ref]{})
	}
	e := t.table.At(idx)
	e.ttMaxID = t.size
	e.patterns = append([]StoredPattern[Ref]{pattern}, e.patterns...)
}

// StoreSequence XOR-accumulates keySeq prefix by prefix, touching every
// intermediate entry, then appends pattern under the full-sequence key.
// Grounded on RZoneTTHandler::storeBlockTT (and the intended storeGridTT).
func (t *TT[Ref]) StoreSequence(keySeq []board.HashKey, pattern StoredPattern[Ref]) {
	var acc uint64
	for _, k := range keySeq {
		acc ^= uint64(k)
		t.touch(acc)
	}
	t.storeTTPattern(acc, pattern)
}

// Lookup performs the recursive XOR-descent search described in spec.md
// §4.6, faithfully reproducing the original's backtracking shape
// (lookupBlockTTRecursive / lookupGridTTRecursive): at each depth it tries
// XOR-ing in one more not-yet-tried element of keySeq[startDepth:], checks
// whether the resulting accumulated key has a live entry (pruned via
// tt_max_id <= startID), and within a live entry scans patterns newest-first
// stopping at the first whose timestamp has already been seen
// (pattern.Timestamp <= startID). match reports whether a candidate
// satisfies the game-specific equality (RZoneHandler.IsRZonePatternMatch).
func (t *TT[Ref]) Lookup(keySeq []board.HashKey, startDepth int, startID int32, match func(StoredPattern[Ref]) bool) (StoredPattern[Ref], bool) {
	var acc uint64
	for i := 0; i < startDepth && i < len(keySeq); i++ {
		acc ^= uint64(keySeq[i])
	}
	return t.lookupRecursive(startDepth, acc, keySeq, startID, match)
}

func (t *TT[Ref]) lookupRecursive(depth int, acc uint64, keySeq []board.HashKey, startID int32, match func(StoredPattern[Ref]) bool) (StoredPattern[Ref], bool) {
	if idx, ok := t.table.Lookup(acc); ok {
		e := t.table.At(idx)
		// Pruned when nothing has touched this entry since the last failed
		// lookup from this node (spec.md §4.6: "pruned when the entry's
		// tt_max_id <= tt_start_lookup_id").
		if e.ttMaxID > startID {
			for _, p := range e.patterns {
				// Patterns are newest-first and stamped with the size after
				// their store, so one stamped at or below startID was
				// already present at the last failed lookup.
				if p.Timestamp <= startID {
					break
				}
				if match(p) {
					return p, true
				}
			}
		}
	} else if acc != 0 {
		return StoredPattern[Ref]{}, false
	}

	for i := depth; i < len(keySeq); i++ {
		acc ^= uint64(keySeq[i])
		if p, ok := t.lookupRecursive(depth+1, acc, keySeq, startID, match); ok {
			return p, true
		}
		acc ^= uint64(keySeq[i])
	}
	return StoredPattern[Ref]{}, false
}
