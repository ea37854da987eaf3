package solver

import (
	"testing"

	"github.com/gamesolver/core/board"
	"github.com/gamesolver/core/ghi"
	"github.com/gamesolver/core/gsgame"
	"github.com/gamesolver/core/mctscore"
	"github.com/gamesolver/core/rzone"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRunExpandsAndTerminatesWithinBudget(t *testing.T) {
	conf := DefaultConfig()
	conf.SolvedPlayer = board.Player1
	conf.UseGHICheck = false
	root := newFakeEnv(4)
	s := New(conf, root, fakeRZoneHandler{}, fakeKnowledgeHandler{}, fakeInferencer{size: 4}, zap.NewNop())

	iterations := s.Run(50)

	require.LessOrEqual(t, iterations, 50)
	require.Greater(t, s.NodeCount(), 1)
}

func TestResetClearsTreeAndTT(t *testing.T) {
	conf := DefaultConfig()
	root := newFakeEnv(4)
	s := New(conf, root, fakeRZoneHandler{}, fakeKnowledgeHandler{}, fakeInferencer{size: 4}, zap.NewNop())
	s.Run(20)
	require.Greater(t, s.NodeCount(), 1)

	other := newFakeEnv(4)
	s.Reset(other)
	require.Equal(t, 1, s.NodeCount())
	require.Equal(t, gsgame.Unknown, s.RootStatus())
}

func TestIntegrateJobResultPropagatesWinAndGHI(t *testing.T) {
	conf := DefaultConfig()
	conf.SolvedPlayer = board.Player1
	root := newFakeEnv(8)
	s := New(conf, root, fakeRZoneHandler{}, fakeKnowledgeHandler{}, fakeInferencer{}, zap.NewNop())

	rootIdx := s.tree.Root()
	a := board.Action{ID: 0, Player: board.Player1}
	leafIdx := s.tree.AddChild(rootIdx, a, 1.0)
	path := []mctscore.Naughty{rootIdx, leafIdx}

	rz := board.New(8).Set(0)
	data := ghi.Data{
		MinLoopOffsetBeforeRoot: -1,
		Patterns:                []rzone.ZonePattern{{RZone: board.New(8).Set(3)}},
	}

	ok := s.IntegrateJobResult(path, gsgame.Win, rz, data, 0.1)
	require.True(t, ok)

	leafNode := s.tree.Node(leafIdx)
	require.Equal(t, gsgame.Win, leafNode.SolverStatus)
	require.True(t, leafNode.GHI)
	require.True(t, leafNode.InLoop)
	require.GreaterOrEqual(t, leafNode.GHIDataIndex, int32(0))

	rootNode := s.tree.Node(rootIdx)
	require.True(t, rootNode.GHI)
	require.Equal(t, gsgame.Loss, rootNode.SolverStatus)

	// A result arriving for a path that was independently solved in the
	// meantime is dropped (spec.md §4.7).
	ok2 := s.IntegrateJobResult(path, gsgame.Win, rz, ghi.Data{}, 0.1)
	require.False(t, ok2)
}

func TestIntegrateJobResultUnknownBacksUpSoftFailure(t *testing.T) {
	conf := DefaultConfig()
	conf.SolvedPlayer = board.Player1
	root := newFakeEnv(8)
	s := New(conf, root, fakeRZoneHandler{}, fakeKnowledgeHandler{}, fakeInferencer{}, zap.NewNop())

	rootIdx := s.tree.Root()
	a := board.Action{ID: 0, Player: board.Player1}
	leafIdx := s.tree.AddChild(rootIdx, a, 1.0)
	path := []mctscore.Naughty{rootIdx, leafIdx}

	ok := s.IntegrateJobResult(path, gsgame.Unknown, board.Bitboard{}, ghi.Data{}, 0.3)
	require.True(t, ok)
	require.Equal(t, gsgame.Unknown, s.tree.Node(leafIdx).SolverStatus)
	require.Equal(t, uint32(1), s.tree.Node(leafIdx).Visits)
}
