package rzone

import (
	"sort"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/gamesolver/core/board"
)

// kReconstructionCount and kReconstructionThreshold mirror the original's
// constants (GridHeatMap, worker/base/rzone_tt_handler.{h,cpp}): the order
// is rebuilt every 100 insertions, truncated to the smallest grid-count
// prefix covering 80% of all observations.
const (
	kReconstructionCount     = 100
	kReconstructionThreshold = 0.8
)

// GridHeatMap tracks how often each board grid has appeared in a stored
// R-zone, and periodically reconstructs a "hot grid" order used as the
// grid-TT key sequence (spec.md §4.6 "Grid-TT (heat-map based)"). Grid-TT's
// store/lookup path is commented out in the original source (spec.md §9
// Open Questions); this type implements the surrounding API exactly as
// present there, since it is unambiguous and fully specified.
type GridHeatMap struct {
	size         int
	counts       []int32
	total        int64
	patternCount int

	order    []int32
	selected *roaring.Bitmap
}

// NewGridHeatMap allocates a heat map over a board of the given size.
func NewGridHeatMap(size int) *GridHeatMap {
	return &GridHeatMap{
		size:     size,
		counts:   make([]int32, size),
		selected: roaring.New(),
	}
}

// AddRZone records one more stored R-zone's membership, bumping every grid
// it contains, and reconstructs the order every kReconstructionCount
// insertions (matching reconstructGridTT's periodic-rebuild driver).
func (h *GridHeatMap) AddRZone(rz board.Bitboard) {
	for i := 0; i < h.size; i++ {
		if rz.Test(i) {
			h.counts[i]++
			h.total++
		}
	}
	h.patternCount++
	if h.patternCount%kReconstructionCount == 0 {
		h.ReconstructOrder()
	}
}

// ReconstructOrder sorts grids by observation count descending and keeps
// the smallest prefix whose cumulative count covers
// kReconstructionThreshold of the total, matching the original's
// sort-then-truncate reconstruction.
func (h *GridHeatMap) ReconstructOrder() {
	type gridCount struct {
		pos   int32
		count int32
	}
	ranked := make([]gridCount, h.size)
	for i := 0; i < h.size; i++ {
		ranked[i] = gridCount{int32(i), h.counts[i]}
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].count > ranked[j].count })

	h.order = h.order[:0]
	h.selected = roaring.New()
	if h.total == 0 {
		return
	}
	var cumulative int64
	target := float64(h.total) * kReconstructionThreshold
	for _, g := range ranked {
		if g.count == 0 {
			break
		}
		h.order = append(h.order, g.pos)
		h.selected.Add(uint32(g.pos))
		cumulative += int64(g.count)
		if float64(cumulative) >= target {
			break
		}
	}
}

// Order returns the currently reconstructed hot-grid order, highest count
// first.
func (h *GridHeatMap) Order() []int32 { return h.order }

// Selected reports whether pos is part of the current reconstructed order.
func (h *GridHeatMap) Selected(pos int) bool { return h.selected.Contains(uint32(pos)) }
