// Package solver implements the solver core: MCTS expand/backup fused with
// AND/OR solver-status propagation, R-zone bookkeeping, R-TT lookup/store
// and GHI collection (spec.md §2 "Solver core", §4.2-§4.6). It composes
// mctscore.Tree with the per-game gsgame capabilities, the way spec.md §9
// "Deep virtual inheritance" asks: a plain value holding search state,
// driven by a small set of hooks, rather than a class hierarchy. Grounded on
// original_source/game_solver/worker/base/solver_job.{h,cpp}.
package solver

import (
	"github.com/gamesolver/core/board"
	"github.com/gamesolver/core/ghi"
	"github.com/gamesolver/core/gsgame"
	"github.com/gamesolver/core/mctscore"
	"github.com/gamesolver/core/rzone"
	"go.uber.org/zap"
)

// Config narrows spec.md §6's recognised options to the ones the solver core
// itself consumes; the manager and broker layers carry their own slices of
// the same configuration surface.
type Config struct {
	SolvedPlayer board.Player
	UseRZone     bool
	UseBlockTT   bool
	UseGridTT    bool
	BlockTTBits  int
	GridTTBits   int
	UseGHICheck  bool
	VMax         float32
	MCTS         mctscore.Config
}

// DefaultConfig returns sensible defaults for the solver-core-only slice of
// spec.md §6's configuration surface.
func DefaultConfig() Config {
	return Config{
		UseRZone:    true,
		UseBlockTT:  true,
		BlockTTBits: 20,
		GridTTBits:  20,
		UseGHICheck: true,
		VMax:        1.0,
		MCTS:        mctscore.DefaultConfig(),
	}
}

// Solver drives one Tree against one game's RZoneHandler/KnowledgeHandler
// and a black-box Inferencer, starting from a root Environment (spec.md §3,
// §4). A Solver is single-owner, matching spec.md §5 ("tree structures are
// single-owner").
type Solver struct {
	conf    Config
	tree    *mctscore.Tree
	rootEnv gsgame.Environment
	rzoneH  gsgame.RZoneHandler
	know    gsgame.KnowledgeHandler
	infer   mctscore.Inferencer
	log     *zap.Logger

	blockTT *rzone.TT[mctscore.Naughty]
	gridTT  *rzone.TT[mctscore.Naughty]
	heatMap *rzone.GridHeatMap

	// LeafHook, if set, is consulted after a freshly expanded leaf's raw NN
	// value is known and before RunIteration's own backup runs. It replaces
	// the original's virtual-method override point (Manager overriding
	// BaseSolver::afterNNEvaluation, spec.md §9 "Deep virtual inheritance"
	// -> composition): the manager installs a hook that decides whether to
	// dispatch the leaf as a job instead of backing it up locally. A true
	// return means the hook took full responsibility for path (e.g.
	// dispatched a job whose result will later flow back through
	// IntegrateJobResult) and RunIteration must not also back it up.
	LeafHook func(path []mctscore.Naughty, leafEnv gsgame.Environment, value float32) (handled bool)
}

// New constructs a Solver ready to run iterations from rootEnv.
func New(conf Config, rootEnv gsgame.Environment, rzoneH gsgame.RZoneHandler, know gsgame.KnowledgeHandler, infer mctscore.Inferencer, log *zap.Logger) *Solver {
	s := &Solver{
		conf:    conf,
		tree:    mctscore.New(conf.MCTS),
		rootEnv: rootEnv,
		rzoneH:  rzoneH,
		know:    know,
		infer:   infer,
		log:     log,
	}
	if conf.UseBlockTT {
		s.blockTT = rzone.NewTT[mctscore.Naughty](conf.BlockTTBits)
	}
	if conf.UseGridTT {
		s.gridTT = rzone.NewTT[mctscore.Naughty](conf.GridTTBits)
		s.heatMap = rzone.NewGridHeatMap(rootEnv.Stones(board.Player1).Size())
	}
	s.tree.NewRoot(board.Action{ID: board.PassAction, Player: board.PlayerNone})
	return s
}

// Tree exposes the underlying tree store, e.g. for a job handler reading
// the final solver status and R-zone off the root.
func (s *Solver) Tree() *mctscore.Tree { return s.tree }

// Reset clears the tree and TT state back to empty, matching spec.md §8's
// idempotence property.
func (s *Solver) Reset(rootEnv gsgame.Environment) {
	s.tree.Reset()
	s.rootEnv = rootEnv
	if s.blockTT != nil {
		s.blockTT.Clear()
	}
	if s.gridTT != nil {
		s.gridTT.Clear()
		s.heatMap = rzone.NewGridHeatMap(rootEnv.Stones(board.Player1).Size())
	}
	s.tree.NewRoot(board.Action{ID: board.PassAction, Player: board.PlayerNone})
}

// RootStatus returns the solver status currently attached to the tree root.
func (s *Solver) RootStatus() gsgame.SolverStatus {
	return s.tree.Node(s.tree.Root()).SolverStatus
}

// RootRZone returns the ZonePattern attached to the root, if any.
func (s *Solver) RootRZone() (rzone.ZonePattern, bool) {
	n := s.tree.Node(s.tree.Root())
	if n.RZoneDataIndex < 0 {
		return rzone.ZonePattern{}, false
	}
	return s.tree.RZone(n.RZoneDataIndex), true
}

// NodeCount returns the number of arena slots currently used, the "nodes"
// field of a job response payload (spec.md §6).
func (s *Solver) NodeCount() int { return s.tree.Len() }

// Run executes iterations until the root is solved or maxIterations is
// reached (whichever first), returning the number of iterations actually
// run. This is the worker's standalone driving loop (spec.md §4.7 "the
// manager runs the same core MCTS"; a worker is the same loop without the
// manager's virtual-solved/broadening extensions).
func (s *Solver) Run(maxIterations int) int {
	i := 0
	for ; i < maxIterations; i++ {
		if s.RootStatus() != gsgame.Unknown {
			break
		}
		s.RunIteration(false)
	}
	return i
}

// RunIteration executes one selection -> expansion -> backup ->
// propagation cycle (spec.md §4.2). managerMode enables the manager's
// virtual-solved-skipping selection variant; a plain worker passes false.
func (s *Solver) RunIteration(managerMode bool) {
	path, leafEnv := s.selectPath(managerMode)
	leaf := path[len(path)-1]
	n := s.tree.Node(leaf)

	if ended, winner := leafEnv.Terminal(); ended {
		s.resolveTerminal(leaf, leafEnv, winner)
		return
	}

	if n.HasChildren {
		// Every child was solved/virtual-solved and selection could not
		// move further in this restart; nothing to expand.
		return
	}

	value, ok := s.tree.Expand(leaf, leafEnv, s.infer)
	if !ok {
		return
	}
	if s.LeafHook != nil && s.LeafHook(path, leafEnv, value) {
		return
	}
	cost := mctscore.ProofCost(value, len(leafEnv.LegalActions()), nonSolvedPlayerTurns(path, s.tree, s.conf.SolvedPlayer), s.conf.VMax)
	s.tree.Backup(path, cost)
}

// nonSolvedPlayerTurns counts, along path, how many nodes' own action was
// made by the player who is NOT the solved player (spec.md §4.2's backup
// rescaling term).
func nonSolvedPlayerTurns(path []mctscore.Naughty, t *mctscore.Tree, solved board.Player) int {
	count := 0
	for _, idx := range path {
		a := t.Node(idx).Action
		if a.Player != board.PlayerNone && a.Player != solved {
			count++
		}
	}
	return count
}

// resolveTerminal handles a selection path that reached a genuinely
// terminal environment (no NN evaluation needed): the leaf's status is the
// concrete game outcome viewed from the perspective of the player whose
// move led into it (spec.md §3 SolverStatus convention).
func (s *Solver) resolveTerminal(leaf mctscore.Naughty, env gsgame.Environment, winner board.Player) {
	n := s.tree.Node(leaf)
	mover := n.Action.Player
	var status gsgame.SolverStatus
	switch {
	case winner == board.PlayerNone:
		status = gsgame.Draw
	case winner == mover:
		status = gsgame.Win
	default:
		status = gsgame.Loss
	}
	n.SolverStatus = status
	if status == gsgame.Win || status == gsgame.Loss {
		// Both labels are grounded in the same underlying terminal fact (spec.md
		// §2 "Benson-alive White" scenario: the region that decides the game is
		// the same region regardless of which side's move the node's label is
		// framed from), so both get a ZonePattern via the winner's own R-zone
		// rule (spec.md §4.4 "a leaf L receives a concrete result s with R-zone
		// bitboard Z" applies to both Win and Loss, not Win alone).
		rz := s.rzoneH.WinnerRZone(env)
		pattern := s.rzoneH.ExtractZonePattern(env, rz)
		n.RZoneDataIndex = s.tree.PushRZone(pattern)
		s.storeTT(leaf, env, pattern)
		s.propagateFrom(leaf)
	}
}

// CollectGHI aggregates the GHI data of every solved descendant of root
// into one Data value, the form reported in a job response's GHI string
// (spec.md §4.5 "GHI data is collected at the root of a solved subtree").
func (s *Solver) CollectGHI(root mctscore.Naughty) ghi.Data {
	var out ghi.Data
	var walk func(mctscore.Naughty)
	walk = func(idx mctscore.Naughty) {
		n := s.tree.Node(idx)
		if n.GHIDataIndex >= 0 {
			out.Merge(s.tree.GHI(n.GHIDataIndex))
		}
		for _, c := range n.Children() {
			walk(c)
		}
	}
	walk(root)
	return out
}
