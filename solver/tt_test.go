package solver

import (
	"testing"

	"github.com/gamesolver/core/board"
	"github.com/gamesolver/core/ghi"
	"github.com/gamesolver/core/gsgame"
	"github.com/gamesolver/core/rzone"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestStoreThenLookupTTRoundTrip(t *testing.T) {
	conf := DefaultConfig()
	conf.SolvedPlayer = board.Player1
	root := newFakeEnv(8)
	s := New(conf, root, fakeRZoneHandler{}, fakeKnowledgeHandler{}, fakeInferencer{}, zap.NewNop())

	rootIdx := s.tree.Root()
	a := board.Action{ID: 0, Player: board.Player1}
	nodeIdx := s.tree.AddChild(rootIdx, a, 1.0)
	env := root.Act(a)

	pattern := s.rzoneH.ExtractZonePattern(env, s.rzoneH.WinnerRZone(env))
	s.tree.Node(nodeIdx).SolverStatus = gsgame.Win
	s.tree.Node(nodeIdx).RZoneDataIndex = s.tree.PushRZone(pattern)
	s.storeTT(nodeIdx, env, pattern)

	otherIdx := s.tree.AddChild(rootIdx, board.Action{ID: 1, Player: board.Player1}, 0.5)

	got, ok := s.lookupTT(otherIdx, env)
	require.True(t, ok)
	require.Equal(t, nodeIdx, got.NodeRef)

	s.adoptTTMatch(otherIdx, got)
	require.Equal(t, gsgame.Win, s.tree.Node(otherIdx).SolverStatus)
	require.Equal(t, nodeIdx, s.tree.Node(otherIdx).MatchTTNode)
	// The synthetic leaf's Win propagates upward exactly like a freshly
	// resolved one (spec.md §4.6 "propagation then fires from this
	// synthetic leaf").
	require.Equal(t, gsgame.Loss, s.tree.Node(rootIdx).SolverStatus)
}

func TestLookupTTMissesOnDifferentPosition(t *testing.T) {
	conf := DefaultConfig()
	root := newFakeEnv(8)
	s := New(conf, root, fakeRZoneHandler{}, fakeKnowledgeHandler{}, fakeInferencer{}, zap.NewNop())

	rootIdx := s.tree.Root()
	a := board.Action{ID: 0, Player: board.Player1}
	nodeIdx := s.tree.AddChild(rootIdx, a, 1.0)
	env := root.Act(a)
	pattern := s.rzoneH.ExtractZonePattern(env, s.rzoneH.WinnerRZone(env))
	s.storeTT(nodeIdx, env, pattern)

	otherAction := board.Action{ID: 4, Player: board.Player1}
	otherIdx := s.tree.AddChild(rootIdx, otherAction, 0.5)
	otherEnv := root.Act(otherAction)

	_, ok := s.lookupTT(otherIdx, otherEnv)
	require.False(t, ok)
}

func TestIsValidReuseRejectsMatchingAncestor(t *testing.T) {
	conf := DefaultConfig()
	root := newFakeEnv(8)
	s := New(conf, root, fakeRZoneHandler{}, fakeKnowledgeHandler{}, fakeInferencer{}, zap.NewNop())

	rootIdx := s.tree.Root()
	pattern := rzone.ZonePattern{RZone: board.New(8).Set(2)}
	s.tree.Node(rootIdx).RZoneDataIndex = s.tree.PushRZone(pattern)

	childIdx := s.tree.AddChild(rootIdx, board.Action{ID: 3, Player: board.Player1}, 1.0)

	require.False(t, s.isValidReuse(ghi.Data{Patterns: []rzone.ZonePattern{pattern}}, childIdx))

	other := rzone.ZonePattern{RZone: board.New(8).Set(5)}
	require.True(t, s.isValidReuse(ghi.Data{Patterns: []rzone.ZonePattern{other}}, childIdx))
}
