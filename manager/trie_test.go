package manager

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func containsSeq(out [][]int32, seq []int32) bool {
	for _, o := range out {
		if len(o) != len(seq) {
			continue
		}
		match := true
		for i := range o {
			if o[i] != seq[i] {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}

func TestRecentSelectionPathSummarizeCriticalPrefix(t *testing.T) {
	r := NewRecentSelectionPath(10, 3)
	for i := 0; i < 3; i++ {
		r.Add([]int32{1, 2, 3})
	}
	r.Add([]int32{1, 9})

	out := r.Summarize()
	require.True(t, containsSeq(out, []int32{1}))
	require.True(t, containsSeq(out, []int32{1, 2}))
	require.True(t, containsSeq(out, []int32{1, 2, 3}))
	require.False(t, containsSeq(out, []int32{1, 9}))
}

func TestRecentSelectionPathEvictsOldest(t *testing.T) {
	r := NewRecentSelectionPath(2, 2)
	r.Add([]int32{5})
	r.Add([]int32{5})
	require.True(t, containsSeq(r.Summarize(), []int32{5}))

	// A third Add evicts the first, dropping the count for {5} back below m.
	r.Add([]int32{6})
	require.False(t, containsSeq(r.Summarize(), []int32{5}))
}
