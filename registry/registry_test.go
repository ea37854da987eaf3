package registry

import (
	"testing"

	"github.com/gamesolver/core/gsgame"
	"github.com/stretchr/testify/require"
)

func resetGames() {
	games = make(map[string]Game)
}

func TestRegisterAndLookup(t *testing.T) {
	resetGames()
	g := Game{NewRoot: func(int) gsgame.Environment { return nil }}
	Register("hex", g)

	got, ok := Lookup("hex")
	require.True(t, ok)
	require.NotNil(t, got.NewRoot)

	_, ok = Lookup("killallgo")
	require.False(t, ok)
}

func TestRegisterDuplicatePanics(t *testing.T) {
	resetGames()
	Register("hex", Game{})
	require.Panics(t, func() { Register("hex", Game{}) })
}

func TestNames(t *testing.T) {
	resetGames()
	Register("hex", Game{})
	Register("killallgo", Game{})
	require.ElementsMatch(t, []string{"hex", "killallgo"}, Names())
}
