package board

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKeysAreDeterministicAcrossCalls(t *testing.T) {
	// Re-running Init (as a fresh process would) must reproduce identical
	// keys, since spec.md requires multiple processes to agree (seed 0).
	a := PlayerHashKey(12, Player1)
	Init()
	b := PlayerHashKey(12, Player1)
	require.Equal(t, a, b)
}

func TestDistinctPositionsOrPlayersDiffer(t *testing.T) {
	require.NotEqual(t, PlayerHashKey(1, Player1), PlayerHashKey(2, Player1))
	require.NotEqual(t, PlayerHashKey(1, Player1), PlayerHashKey(1, Player2))
}

func TestTurnHashKeyStable(t *testing.T) {
	require.Equal(t, TurnHashKey(), TurnHashKey())
}

func TestMoveHashKeyVariesByMoveNumber(t *testing.T) {
	require.NotEqual(t, MoveHashKey(1, 3, Player1), MoveHashKey(2, 3, Player1))
}
