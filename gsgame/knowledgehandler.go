package gsgame

import "github.com/gamesolver/core/board"

// KnowledgeHandler covers the per-game knowledge spec.md §3 lists: winner
// detection, hash-key sequence extraction, GHI detection, and ancestor
// position extraction. Grounded on the original gs_knowledge_handler (paired
// with rzone_handler per game in worker/{killallgo,hex}).
type KnowledgeHandler interface {
	// Winner reports the winner of a terminal environment; behaviour for a
	// non-terminal environment is undefined (callers check Environment's
	// own Terminal() first).
	Winner(env Environment) board.Player

	// HashKeySequence returns the sequence of position hashes along env's
	// history, used both for building the R-TT key sequence (spec.md §4.6)
	// and for GHI repetition scanning (spec.md §4.5).
	HashKeySequence(env Environment) []board.HashKey

	// FindLoopMove scans the legal non-suicidal moves from env and returns
	// the move (if any) whose resulting position hash occurs in
	// ancestorHashes, choosing the match that is highest-up (the longest
	// loop). ok is false when no move creates a repetition.
	FindLoopMove(env Environment, ancestorHashes []board.HashKey) (move board.Action, matchDepth int, ok bool)

	// AncestorPositions returns the environments on the path from the root
	// down to env, used to extract ancestor zone patterns for GHI reuse
	// validation (spec.md §4.5, §8 invariant I5).
	AncestorPositions(env Environment) []Environment
}
