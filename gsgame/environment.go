package gsgame

import "github.com/gamesolver/core/board"

// Environment is the narrow capability set the solver needs from a board
// position, deliberately kept immutable-after-Act the way spec.md §3
// describes, and independent of any particular game's rule engine. Concrete
// implementations (7x7 Killall-Go, Hex) are external to this module.
type Environment interface {
	// LegalActions returns every legal action from the current position.
	LegalActions() []board.Action

	// Turn returns the player to move.
	Turn() board.Player

	// Terminal reports whether the game has ended and, if so, the winner
	// (PlayerNone for a draw).
	Terminal() (ended bool, winner board.Player)

	// Features returns the tensor fed to the neural network.
	Features() []float32

	// History returns the action sequence that produced this position.
	History() []board.Action

	// Stones returns the current stone/block bitboard for p.
	Stones(p board.Player) board.Bitboard

	// HashKey returns the position-level Zobrist hash (including side to
	// move), used for GHI cycle detection and TT keys.
	HashKey() board.HashKey

	// Act returns the Environment resulting from playing a, without
	// mutating the receiver.
	Act(a board.Action) Environment

	// MoveNumber returns the ply count reaching this position.
	MoveNumber() int

	// Clone returns an independent copy.
	Clone() Environment
}
