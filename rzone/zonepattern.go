// Package rzone implements the Relevance-Zone data model and the R-zone
// transposition table described in spec.md §3, §4.6, grounded on the
// original worker/base/rzone_tt_pattern.h and rzone_tt_handler.{h,cpp}.
package rzone

import "github.com/gamesolver/core/board"

// Pair holds one value per player, the way the original's
// env::GamePair<T> does for stones_by_player.
type Pair struct {
	P1, P2 board.Bitboard
}

// Get returns the bitboard belonging to p (PlayerNone returns a zero value).
func (pr Pair) Get(p board.Player) board.Bitboard {
	switch p {
	case board.Player1:
		return pr.P1
	case board.Player2:
		return pr.P2
	default:
		return board.Bitboard{}
	}
}

// ZonePattern is the pattern restricted to an R-zone: the zone itself plus
// each player's stones inside it. Equality is bitwise equality of all three
// fields (spec.md §3).
type ZonePattern struct {
	RZone         board.Bitboard
	StonesByPlayer Pair
}

// Equal implements the equality spec.md §3 defines for ZonePattern.
func (z ZonePattern) Equal(other ZonePattern) bool {
	return z.RZone.Equal(other.RZone) &&
		z.StonesByPlayer.P1.Equal(other.StonesByPlayer.P1) &&
		z.StonesByPlayer.P2.Equal(other.StonesByPlayer.P2)
}
