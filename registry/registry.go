// Package registry lets a concrete game implementation register itself with
// cmd/solve without this module depending on any concrete rule engine
// (spec.md §1 "game rules are external to this module"). The shape mirrors
// database/sql's driver registry: a game package calls Register from an
// init() func, and the composition root looks it up by name at startup.
package registry

import "github.com/gamesolver/core/gsgame"

// Game bundles everything the composition root needs from one concrete game
// implementation: a fresh root Environment, its RZoneHandler/
// KnowledgeHandler, and an SGF parser able to reconstruct the Environment a
// dispatched job's SGF string describes (spec.md §6's job request payload).
type Game struct {
	NewRoot          func(boardSize int) gsgame.Environment
	RZoneHandler     gsgame.RZoneHandler
	KnowledgeHandler gsgame.KnowledgeHandler
	ParseSGF         func(sgf string, boardSize int) (gsgame.Environment, error)
}

var games = make(map[string]Game)

// Register associates name (e.g. "killallgo", "hex") with g. It panics on a
// duplicate name, matching database/sql.Register's behaviour for the same
// programmer error.
func Register(name string, g Game) {
	if _, exists := games[name]; exists {
		panic("registry: Register called twice for game " + name)
	}
	games[name] = g
}

// Lookup returns the Game registered under name, if any.
func Lookup(name string) (Game, bool) {
	g, ok := games[name]
	return g, ok
}

// Names returns every currently registered game name.
func Names() []string {
	out := make([]string, 0, len(games))
	for name := range games {
		out = append(out, name)
	}
	return out
}
