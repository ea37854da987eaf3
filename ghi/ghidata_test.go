package ghi

import (
	"testing"

	"github.com/gamesolver/core/board"
	"github.com/gamesolver/core/rzone"
	"github.com/stretchr/testify/require"
)

func TestIsEmptyZeroValue(t *testing.T) {
	var d Data
	require.True(t, d.IsEmpty())
}

func TestResetClearsToZeroValue(t *testing.T) {
	d := Data{
		MinLoopOffsetBeforeRoot: -3,
		Patterns:                []rzone.ZonePattern{{RZone: board.New(7).Set(0)}},
	}
	d.Reset()
	require.True(t, d.IsEmpty())
}

func TestMergeTightensToFurthestReachingOffset(t *testing.T) {
	d := Data{MinLoopOffsetBeforeRoot: -1}
	d.Merge(Data{MinLoopOffsetBeforeRoot: -4})
	require.Equal(t, -4, d.MinLoopOffsetBeforeRoot)

	// merging a less-reaching offset does not loosen it back up
	d.Merge(Data{MinLoopOffsetBeforeRoot: -2})
	require.Equal(t, -4, d.MinLoopOffsetBeforeRoot)
}

func TestMergeAppendsPatterns(t *testing.T) {
	d := Data{Patterns: []rzone.ZonePattern{{RZone: board.New(7).Set(0)}}}
	d.Merge(Data{Patterns: []rzone.ZonePattern{{RZone: board.New(7).Set(1)}}})
	require.Len(t, d.Patterns, 2)
}

func TestIsValidSimulationRejectsMatchingAncestor(t *testing.T) {
	pattern := rzone.ZonePattern{RZone: board.New(7).Set(2)}
	d := Data{Patterns: []rzone.ZonePattern{pattern}}

	require.False(t, IsValidSimulation(d, []rzone.ZonePattern{pattern}))
}

func TestIsValidSimulationAcceptsDisjointAncestors(t *testing.T) {
	d := Data{Patterns: []rzone.ZonePattern{{RZone: board.New(7).Set(2)}}}
	ancestors := []rzone.ZonePattern{{RZone: board.New(7).Set(5)}}

	require.True(t, IsValidSimulation(d, ancestors))
}

func TestIsValidSimulationEmptyDataAlwaysValid(t *testing.T) {
	require.True(t, IsValidSimulation(Data{}, []rzone.ZonePattern{{RZone: board.New(7).Set(0)}}))
}
