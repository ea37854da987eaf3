package solver

import (
	"testing"

	"github.com/gamesolver/core/board"
	"github.com/gamesolver/core/gsgame"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestResolveTerminalWinPropagatesParentLoss(t *testing.T) {
	conf := DefaultConfig()
	conf.SolvedPlayer = board.Player1
	root := newFakeEnv(8)
	s := New(conf, root, fakeRZoneHandler{}, fakeKnowledgeHandler{}, fakeInferencer{}, zap.NewNop())

	rootIdx := s.tree.Root()
	leafAction := board.Action{ID: 0, Player: board.Player1}
	leafIdx := s.tree.AddChild(rootIdx, leafAction, 1.0)
	leafEnv := root.Act(leafAction)

	s.resolveTerminal(leafIdx, leafEnv, board.Player1)

	require.Equal(t, gsgame.Win, s.tree.Node(leafIdx).SolverStatus)
	require.GreaterOrEqual(t, s.tree.Node(leafIdx).RZoneDataIndex, int32(0))
	require.Equal(t, gsgame.Loss, s.tree.Node(rootIdx).SolverStatus)
	require.GreaterOrEqual(t, s.tree.Node(rootIdx).RZoneDataIndex, int32(0))
}

func TestResolveTerminalDraw(t *testing.T) {
	conf := DefaultConfig()
	root := newFakeEnv(8)
	s := New(conf, root, fakeRZoneHandler{}, fakeKnowledgeHandler{}, fakeInferencer{}, zap.NewNop())

	rootIdx := s.tree.Root()
	leafAction := board.Action{ID: 0, Player: board.Player1}
	leafIdx := s.tree.AddChild(rootIdx, leafAction, 1.0)
	leafEnv := root.Act(leafAction)

	s.resolveTerminal(leafIdx, leafEnv, board.PlayerNone)

	require.Equal(t, gsgame.Draw, s.tree.Node(leafIdx).SolverStatus)
	require.Equal(t, int32(-1), s.tree.Node(leafIdx).RZoneDataIndex)
	require.Equal(t, gsgame.Unknown, s.tree.Node(rootIdx).SolverStatus)
}

func TestPropagateAllChildrenLossSetsParentWinWithSiblingPruning(t *testing.T) {
	conf := DefaultConfig()
	conf.SolvedPlayer = board.Player1
	root := newFakeEnv(8)
	s := New(conf, root, fakeRZoneHandler{}, fakeKnowledgeHandler{}, fakeInferencer{}, zap.NewNop())

	rootIdx := s.tree.Root()
	pAction := board.Action{ID: 7, Player: board.Player2}
	pIdx := s.tree.AddChild(rootIdx, pAction, 1.0)
	pEnv := root.Act(pAction)

	m1Action := board.Action{ID: 0, Player: board.Player1}
	m1Idx := s.tree.AddChild(pIdx, m1Action, 0.6)
	m1Env := pEnv.Act(m1Action)

	m2Idx := s.tree.AddChild(pIdx, board.Action{ID: 1, Player: board.Player1}, 0.4)

	s.resolveTerminal(m1Idx, m1Env, board.Player2)

	require.Equal(t, gsgame.Loss, s.tree.Node(m1Idx).SolverStatus)
	require.Equal(t, gsgame.Loss, s.tree.Node(m2Idx).SolverStatus)
	require.Equal(t, m1Idx, s.tree.Node(m2Idx).EqualLossNode)
	require.Equal(t, gsgame.Win, s.tree.Node(pIdx).SolverStatus)
	require.Equal(t, gsgame.Loss, s.tree.Node(rootIdx).SolverStatus)
}
