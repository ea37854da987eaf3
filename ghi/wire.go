package ghi

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gamesolver/core/board"
	"github.com/gamesolver/core/rzone"
)

// String renders Data in the job-response GHI wire format (spec.md §6):
// "P1-P2-...;K" where each Pi is "rzone:stones1:stones2" in hex and K is the
// minimum-loop-offset integer; an empty Data renders as the empty string.
// Grounded on the original GHIData::toString (referenced from
// original_source/game_solver/trainer/gs_mcts.h).
func (d Data) String() string {
	if d.IsEmpty() {
		return ""
	}
	parts := make([]string, len(d.Patterns))
	for i, p := range d.Patterns {
		parts[i] = fmt.Sprintf("%s:%s:%s", p.RZone.Hex(), p.StonesByPlayer.P1.Hex(), p.StonesByPlayer.P2.Hex())
	}
	return strings.Join(parts, "-") + ";" + strconv.Itoa(d.MinLoopOffsetBeforeRoot)
}

// ParseString is the inverse of String, used by jobhandler.ParseJobResult to
// decode a job response's quoted GHI field. size is the board size used to
// decode each hex bitboard (board.Bitboard.FromHex needs a bit width).
// Grounded on the original GHIData::parseFromString.
func ParseString(s string, size int) (Data, error) {
	if s == "" {
		return Data{}, nil
	}
	semi := strings.LastIndex(s, ";")
	if semi < 0 {
		return Data{}, fmt.Errorf("ghi string %q missing ';K' suffix", s)
	}
	patternsPart, offsetPart := s[:semi], s[semi+1:]
	offset, err := strconv.Atoi(offsetPart)
	if err != nil {
		return Data{}, fmt.Errorf("ghi string %q: bad loop offset: %w", s, err)
	}

	var d Data
	d.MinLoopOffsetBeforeRoot = offset
	if patternsPart == "" {
		return d, nil
	}
	for _, raw := range strings.Split(patternsPart, "-") {
		fields := strings.Split(raw, ":")
		if len(fields) != 3 {
			return Data{}, fmt.Errorf("ghi pattern %q: expected rzone:stones1:stones2", raw)
		}
		rz, err := board.FromHex(size, fields[0])
		if err != nil {
			return Data{}, fmt.Errorf("ghi pattern %q: %w", raw, err)
		}
		s1, err := board.FromHex(size, fields[1])
		if err != nil {
			return Data{}, fmt.Errorf("ghi pattern %q: %w", raw, err)
		}
		s2, err := board.FromHex(size, fields[2])
		if err != nil {
			return Data{}, fmt.Errorf("ghi pattern %q: %w", raw, err)
		}
		d.Patterns = append(d.Patterns, rzone.ZonePattern{
			RZone:          rz,
			StonesByPlayer: rzone.Pair{P1: s1, P2: s2},
		})
	}
	return d, nil
}
