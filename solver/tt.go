package solver

import (
	"github.com/gamesolver/core/board"
	"github.com/gamesolver/core/gsgame"
	"github.com/gamesolver/core/mctscore"
	"github.com/gamesolver/core/metrics"
	"github.com/gamesolver/core/rzone"
)

// activeTT returns the configured TT (block or grid; spec.md §4.6 says the
// two are mutually exclusive) and the recursion start depth the original
// uses for each (block-TT's recursive descent begins at 1, "since it is
// the first block hashkey"; grid-TT's begins at 0), or nil if R-zone TT
// lookup/store is disabled entirely.
func (s *Solver) activeTT() (tt *rzone.TT[mctscore.Naughty], startDepth int) {
	switch {
	case s.conf.UseBlockTT:
		return s.blockTT, 1
	case s.conf.UseGridTT:
		return s.gridTT, 0
	default:
		return nil, 0
	}
}

// keySequence extracts the key sequence a TT store/lookup hashes over.
// HashKeySequence serves double duty here and for GHI ancestor scanning
// (see DESIGN.md): it is the per-game extraction of "the sequence of keys
// characterising env", block-per-block for block-TT or grid-per-grid for
// grid-TT depending on which table is active. For grid-TT the per-grid
// sequence HashKeySequence returns is further reordered by the reconstructed
// heat-map order (spec.md §4.6 "Grid-TT": hot grids probed first), since the
// knowledge handler only knows grid hashes, not which grids have run hot
// across stored R-zones.
func (s *Solver) keySequence(env gsgame.Environment) []board.HashKey {
	seq := s.know.HashKeySequence(env)
	if s.conf.UseGridTT {
		seq = reorderByHeatMap(seq, s.heatMap)
	}
	return seq
}

// reorderByHeatMap permutes full (one hash key per grid, in board-index
// order) so the heat map's reconstructed hot-grid order comes first,
// followed by every grid the order hasn't covered, in its original order.
// Before the first reconstruction (or with no heat map at all) the order is
// empty and full is returned unchanged.
func reorderByHeatMap(full []board.HashKey, heatMap *rzone.GridHeatMap) []board.HashKey {
	if heatMap == nil {
		return full
	}
	order := heatMap.Order()
	if len(order) == 0 {
		return full
	}
	out := make([]board.HashKey, 0, len(full))
	seen := make([]bool, len(full))
	for _, pos := range order {
		if int(pos) < len(full) {
			out = append(out, full[pos])
			seen[pos] = true
		}
	}
	for i, k := range full {
		if !seen[i] {
			out = append(out, k)
		}
	}
	return out
}

// lookupTT probes the active TT for a pattern matching childEnv at
// childIdx's tt_start_lookup_id filter, advancing the filter on a miss
// (spec.md §4.6 "Lookup").
func (s *Solver) lookupTT(childIdx mctscore.Naughty, childEnv gsgame.Environment) (rzone.StoredPattern[mctscore.Naughty], bool) {
	if !s.conf.UseRZone {
		return rzone.StoredPattern[mctscore.Naughty]{}, false
	}
	tt, startDepth := s.activeTT()
	if tt == nil {
		return rzone.StoredPattern[mctscore.Naughty]{}, false
	}
	tableLabel := "block"
	if s.conf.UseGridTT {
		tableLabel = "grid"
	}
	metrics.TTLookups.WithLabelValues(tableLabel).Inc()

	n := s.tree.Node(childIdx)
	seq := s.keySequence(childEnv)
	match := func(p rzone.StoredPattern[mctscore.Naughty]) bool {
		if !s.rzoneH.IsRZonePatternMatch(childEnv, p.Pattern) {
			return false
		}
		matched := s.tree.Node(p.NodeRef)
		if matched.GHIDataIndex >= 0 && !s.isValidReuse(s.tree.GHI(matched.GHIDataIndex), childIdx) {
			metrics.GHIRejections.Inc()
			return false
		}
		return true
	}
	p, ok := tt.Lookup(seq, startDepth, n.TTStartLookupID, match)
	if !ok {
		n.TTStartLookupID = tt.Size()
		return rzone.StoredPattern[mctscore.Naughty]{}, false
	}
	metrics.TTHits.WithLabelValues(tableLabel).Inc()
	return p, true
}

// adoptTTMatch wires a TT hit into the tree: the hitting node's status and
// R-zone are adopted from the matched node, match_tt_node is recorded, and
// propagation fires from this synthetic leaf (spec.md §4.6 "On a hit ...
// propagation then fires from this synthetic leaf").
func (s *Solver) adoptTTMatch(childIdx mctscore.Naughty, pattern rzone.StoredPattern[mctscore.Naughty]) {
	matched := s.tree.Node(pattern.NodeRef)
	cn := s.tree.Node(childIdx)
	cn.SolverStatus = matched.SolverStatus
	cn.MatchTTNode = pattern.NodeRef
	cn.RZoneDataIndex = s.tree.PushRZone(pattern.Pattern)
	if cn.SolverStatus == gsgame.Win || cn.SolverStatus == gsgame.Loss {
		s.propagateFrom(childIdx)
	}
}

// storeTT inserts nodeIdx's freshly computed pattern into the active TT,
// skipping the store when the node is in_loop (spec.md §4.6 "Storage is
// skipped when the node in_loop").
func (s *Solver) storeTT(nodeIdx mctscore.Naughty, env gsgame.Environment, pattern rzone.ZonePattern) {
	if !s.conf.UseRZone {
		return
	}
	n := s.tree.Node(nodeIdx)
	if n.InLoop {
		return
	}
	tt, _ := s.activeTT()
	if tt == nil {
		return
	}
	seq := s.keySequence(env)
	tt.StoreSequence(seq, rzone.StoredPattern[mctscore.Naughty]{
		Pattern: pattern,
		Turn:    env.Turn(),
		NodeRef: nodeIdx,
	})
	if s.conf.UseGridTT && s.heatMap != nil {
		s.heatMap.AddRZone(pattern.RZone)
	}
}
