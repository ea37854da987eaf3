// Package manager implements the solving manager: the MCTS driver that owns
// the tree but dispatches some leaves to worker processes across a broker
// rather than evaluating every leaf locally (spec.md §2 "Manager", §4.7).
// Grounded on original_source/game_solver/manager/manager.{h,cpp}, composed
// the way solver.Solver's own composition-over-inheritance shape asks
// (spec.md §9): the manager installs a solver.Solver.LeafHook rather than
// subclassing a base solver.
package manager

import (
	"time"

	"github.com/gamesolver/core/solver"
)

// Config narrows spec.md §6's manager-specific options (the remainder of
// spec.md §6 not already covered by solver.Config) plus the underlying
// solver.Config the manager's own Solver is built from.
type Config struct {
	Solver solver.Config

	TopKSelection      int
	PCNValueThreshold  float32
	UseVirtualSolved   bool
	SendAndPlayerJob   bool
	CriticalPositionsN int
	CriticalPositionsM int

	BoardSize int

	IdleSolverPollInterval time.Duration
}

// Default mirrors config.Default's manager-facing values.
func Default() Config {
	return Config{
		Solver:                 solver.DefaultConfig(),
		TopKSelection:          4,
		PCNValueThreshold:      10.0,
		UseVirtualSolved:       true,
		SendAndPlayerJob:       true,
		CriticalPositionsN:     1000,
		CriticalPositionsM:     50,
		BoardSize:              7,
		IdleSolverPollInterval: 50 * time.Millisecond,
	}
}
