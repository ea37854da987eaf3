package gsgame

import (
	"github.com/gamesolver/core/board"
	"github.com/gamesolver/core/rzone"
)

// RZoneHandler computes relevance zones and zone patterns for one game,
// grounded on the original worker/base/rzone_handler.h and its
// worker/{killallgo,hex}/*_rzone_handler.{h,cpp} implementations. Only the
// interface lives in this module (spec.md §1: game rules are external).
type RZoneHandler interface {
	// WinnerRZone computes the R-zone for a freshly solved Win leaf, from
	// the environment alone (e.g. a Benson-alive region in Go).
	WinnerRZone(env Environment) board.Bitboard

	// DilateForWinningParent computes a parent's R-zone when a child
	// resolved Win: the child's R-zone dilated by the stones/liberties
	// implicated by the winning move (spec.md §4.4 case "c.solver_status =
	// Win").
	DilateForWinningParent(env Environment, childRZone board.Bitboard, winAction board.Action) board.Bitboard

	// IsRelevantMove reports whether action is "relevant" in the
	// game-specific sense used by sibling pruning (spec.md §4.4 case
	// "Sibling pruning"), even when it lies outside rzone.
	IsRelevantMove(env Environment, rzone board.Bitboard, action board.Action) bool

	// CloseLoserRZone expands the union of all children's R-zones to a
	// legal zone by iteratively closing under the game's liberty /
	// non-suicidal constraints until a fixed point (spec.md §4.4 case
	// "c.solver_status = Loss" -> "p.solver_status := Win").
	CloseLoserRZone(env Environment, unionRZone board.Bitboard, loser board.Player) board.Bitboard

	// ExtractZonePattern restricts env's position to rzoneBB, returning the
	// comparable ZonePattern stored in the R-zone side table.
	ExtractZonePattern(env Environment, rzoneBB board.Bitboard) rzone.ZonePattern

	// IsRZonePatternMatch implements the game-specific equality used by
	// block-TT/grid-TT lookup: equal R-zone, equal stones inside it, equal
	// side-to-move, and (for Killall-Go) a satisfied ko-position
	// constraint (spec.md §4.6).
	IsRZonePatternMatch(env Environment, candidate rzone.ZonePattern) bool
}
