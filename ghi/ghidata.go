// Package ghi implements Graph-History-Interaction bookkeeping: detecting
// simulations whose solved result depends on a repetition cycle, per
// spec.md §4.5, grounded on the original's GHIData (referenced from
// worker/base/solver_job.h) and gs_knowledge_handler.
package ghi

import "github.com/gamesolver/core/rzone"

// Data records, for a solved sub-tree, the zone patterns whose correctness
// depends on not repeating any ancestor, plus how many plies above the
// sub-tree's root the longest dependency reaches.
type Data struct {
	// MinLoopOffsetBeforeRoot is <= 0; a negative offset means the matching
	// ancestor lies above the current subtree's root.
	MinLoopOffsetBeforeRoot int
	Patterns                []rzone.ZonePattern
}

// Reset clears Data to its zero value, matching the original's reset().
func (d *Data) Reset() {
	d.MinLoopOffsetBeforeRoot = 0
	d.Patterns = d.Patterns[:0]
}

// IsEmpty reports whether this node carries no GHI dependency.
func (d *Data) IsEmpty() bool {
	return d.MinLoopOffsetBeforeRoot == 0 && len(d.Patterns) == 0
}

// Merge folds other's patterns and tightens MinLoopOffsetBeforeRoot to the
// lowest (furthest-reaching) of the two, used when aggregating GHI data from
// multiple solved descendants up to the root of a solved subtree (spec.md
// §4.5: "GHI data is collected at the root of a solved subtree by walking
// its solved descendants and aggregating all such zone patterns").
func (d *Data) Merge(other Data) {
	if other.MinLoopOffsetBeforeRoot < d.MinLoopOffsetBeforeRoot {
		d.MinLoopOffsetBeforeRoot = other.MinLoopOffsetBeforeRoot
	}
	d.Patterns = append(d.Patterns, other.Patterns...)
}

// IsValidSimulation reports whether reusing a solved subtree whose GHI data
// is d is sound given the zone patterns of the current ancestors (the path
// leading into the node being considered for reuse). It returns false
// if any in-loop descendant's zone pattern matches a current ancestor
// (spec.md §4.5, invariant I5).
func IsValidSimulation(d Data, ancestorPatterns []rzone.ZonePattern) bool {
	for _, p := range d.Patterns {
		for _, ancestor := range ancestorPatterns {
			if p.Equal(ancestor) {
				return false
			}
		}
	}
	return true
}
