package solver

import (
	"github.com/gamesolver/core/ghi"
	"github.com/gamesolver/core/gsgame"
	"github.com/gamesolver/core/mctscore"
	"github.com/gamesolver/core/rzone"
)

// runGHI implements spec.md §4.5: at the moment nodeIdx becomes solved via
// the "all children Loss" case, scan for a repetition against the ancestor
// chain and, if found, mark the dependency chain ghi/in_loop and attach a
// GHIData entry.
func (s *Solver) runGHI(nodeIdx mctscore.Naughty, env gsgame.Environment) {
	if !s.conf.UseGHICheck {
		return
	}
	ancestorHashes := s.know.HashKeySequence(env)
	_, matchDepth, found := s.know.FindLoopMove(env, ancestorHashes)
	if !found {
		return
	}

	n := s.tree.Node(nodeIdx)
	n.GHI = true
	currentDepth := s.depthOf(nodeIdx)

	var data ghi.Data
	data.MinLoopOffsetBeforeRoot = matchDepth - currentDepth
	if n.RZoneDataIndex >= 0 {
		data.Patterns = append(data.Patterns, s.tree.RZone(n.RZoneDataIndex))
	}

	for idx := s.tree.Node(nodeIdx).Parent(); idx.Valid(); idx = s.tree.Node(idx).Parent() {
		an := s.tree.Node(idx)
		an.GHI = true
		if s.depthOf(idx) <= matchDepth {
			break
		}
		an.InLoop = true
	}
	n.InLoop = true
	n.GHIDataIndex = s.tree.PushGHI(data)
}

// isValidReuse checks spec.md §4.5/§8 invariant I5 before adopting a TT
// match that carries GHI data: the candidate's dependency patterns must not
// match any pattern along the current ancestor chain.
func (s *Solver) isValidReuse(candidateGHI ghi.Data, currentNode mctscore.Naughty) bool {
	var ancestorPatterns []rzone.ZonePattern
	for idx := currentNode; idx.Valid(); idx = s.tree.Node(idx).Parent() {
		an := s.tree.Node(idx)
		if an.RZoneDataIndex >= 0 {
			ancestorPatterns = append(ancestorPatterns, s.tree.RZone(an.RZoneDataIndex))
		}
	}
	return ghi.IsValidSimulation(candidateGHI, ancestorPatterns)
}
