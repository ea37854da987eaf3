package manager

import (
	"fmt"
	"sync"

	"github.com/gamesolver/core/gsgame"
	"github.com/gamesolver/core/jobhandler"
	"github.com/gamesolver/core/mctscore"
	"github.com/gamesolver/core/solver"
	"go.uber.org/zap"
)

// Manager drives one solver.Solver while dispatching some of its leaves as
// jobs to worker processes instead of evaluating them locally, per spec.md
// §4.7 "manager/worker split". It composes a jobhandler.Handler (itself the
// broker.Adapter's Delegate) and installs solver.Solver.LeafHook rather than
// subclassing, per spec.md §9's composition-over-inheritance redesign.
type Manager struct {
	conf    Config
	solver  *solver.Solver
	handler *jobhandler.Handler[mctscore.Naughty]
	results *jobhandler.ResultDeque
	log     *zap.SugaredLogger

	recent *RecentSelectionPath

	mu      sync.Mutex
	pending map[uint64][]mctscore.Naughty // broker job ID -> path dispatched for it
}

// New builds a Manager around rootEnv, wiring a fresh solver.Solver driven
// through handler (a jobhandler.Handler the caller constructed and bound to
// a broker.Adapter per jobhandler.New's two-phase construction, since the
// Handler/Adapter pair refer to each other).
func New(conf Config, rootEnv gsgame.Environment, rzoneH gsgame.RZoneHandler, know gsgame.KnowledgeHandler, infer mctscore.Inferencer, handler *jobhandler.Handler[mctscore.Naughty], log *zap.SugaredLogger) *Manager {
	m := &Manager{
		conf:    conf,
		solver:  solver.New(conf.Solver, rootEnv, rzoneH, know, infer, log.Desugar()),
		handler: handler,
		results: jobhandler.NewResultDeque(),
		log:     log,
		recent:  NewRecentSelectionPath(conf.CriticalPositionsN, conf.CriticalPositionsM),
		pending: make(map[uint64][]mctscore.Naughty),
	}
	m.solver.LeafHook = m.onLeafExpanded
	return m
}

// Solver exposes the underlying solver, e.g. for reading RootStatus/RootRZone.
func (m *Manager) Solver() *solver.Solver { return m.solver }

// Handler exposes the jobhandler.Handler, so the caller can wire it as the
// broker.Adapter's Delegate before calling Connect.
func (m *Manager) Handler() *jobhandler.Handler[mctscore.Naughty] { return m.handler }

// RunIteration runs one manager-mode MCTS iteration (selection skips
// virtual-solved children; onLeafExpanded may divert a freshly expanded leaf
// to a worker instead of a local backup).
func (m *Manager) RunIteration() {
	m.solver.RunIteration(true)
}

// DrainJobResults pops and integrates every job result currently queued,
// returning how many were integrated (spec.md §4.7's result-handling loop,
// grounded on Manager::handleSolverJobResults).
func (m *Manager) DrainJobResults() int {
	n := 0
	for {
		job, ok := m.results.Pop()
		if !ok {
			return n
		}
		m.integrateResult(job)
		n++
	}
}

// DrainCommands pops and handles every solver-control command the broker
// forwarded outside the job protocol (spec.md §4.7's "load_model"/"quit"),
// invoking onCommand for each; onCommand decides how "load_model <path>" and
// "quit" are actually carried out, since those actions are outside this
// package's scope (model loading, process lifecycle).
func (m *Manager) DrainCommands(onCommand func(command string)) {
	for {
		cmd, ok := m.handler.Commands.Pop()
		if !ok {
			return
		}
		onCommand(cmd)
	}
}

// onLeafExpanded is the solver.Solver.LeafHook installed by New: it decides
// whether a freshly expanded leaf's raw proof-cost value looks cheap enough
// (below PCNValueThreshold) to hand to a worker for full resolution instead
// of a local backup, matching Manager::afterNNEvaluation's virtual-solved
// branch. SendAndPlayerJob, when set, restricts dispatch to leaves whose own
// move belongs to the solved player (the original's
// manager_send_and_player_job gate). It also requires the handler to report
// spare capacity before dispatching (spec.md §4.7 "skips dispatch when the
// handler reports no idle solvers"); when none are free it waits rather than
// dropping the leaf, mirroring the original's hasIdleSolvers() spin loop.
func (m *Manager) onLeafExpanded(path []mctscore.Naughty, leafEnv gsgame.Environment, value float32) bool {
	if !m.conf.UseVirtualSolved {
		return false
	}
	leaf := path[len(path)-1]
	n := m.solver.Tree().Node(leaf)
	if n.IsVirtualSolved {
		return false
	}
	if value >= m.conf.PCNValueThreshold {
		return false
	}
	if m.conf.SendAndPlayerJob && n.Action.Player != m.conf.Solver.SolvedPlayer {
		return false
	}
	if !m.handler.HasIdleSolvers() {
		m.handler.WaitForIdleSolver(m.conf.IdleSolverPollInterval)
	}

	n.IsVirtualSolved = true
	n.VirtualLoss++

	job := jobhandler.SolverJob{SGF: jobSGF(leafEnv, m.conf.BoardSize), PCNValue: value}
	jobID, ok := m.handler.AddJob(m.results, leaf, job)
	if !ok {
		n.IsVirtualSolved = false
		n.VirtualLoss--
		return false
	}

	cp := make([]mctscore.Naughty, len(path))
	copy(cp, path)
	m.mu.Lock()
	m.pending[jobID] = cp
	m.mu.Unlock()

	m.recent.Add(actionIDs(m.solver.Tree(), path))
	return true
}

// integrateResult matches a completed job back to the path it was
// dispatched for, reverses its virtual loss, and folds the result into the
// tree via solver.Solver.IntegrateJobResult (spec.md §4.7).
func (m *Manager) integrateResult(job jobhandler.SolverJob) {
	m.mu.Lock()
	path, ok := m.pending[job.JobID]
	if ok {
		delete(m.pending, job.JobID)
	}
	m.mu.Unlock()
	if !ok {
		m.log.Warnw("job result for unknown dispatch", "job_id", job.JobID)
		return
	}

	leaf := path[len(path)-1]
	n := m.solver.Tree().Node(leaf)
	if n.VirtualLoss > 0 {
		n.VirtualLoss--
	}
	n.IsVirtualSolved = false

	if !m.solver.IntegrateJobResult(path, job.Status, job.RZone, job.GHI, m.conf.PCNValueThreshold) {
		m.log.Debugw("job result discarded: path already solved", "job_id", job.JobID)
	}
}

// BroadcastCriticalPositions returns the action-ID prefixes currently
// walked by at least CriticalPositionsM of the last CriticalPositionsN
// selections, each rendered as "critical <sequence>" for the caller to send
// as a broker notify message (spec.md §4.7 "broadcastCriticalPositions").
// Sending is left to the caller since it is a plain broker.Adapter call
// outside the Job request/response protocol this package otherwise models.
func (m *Manager) BroadcastCriticalPositions() []string {
	prefixes := m.recent.Summarize()
	out := make([]string, 0, len(prefixes))
	for _, p := range prefixes {
		out = append(out, fmt.Sprintf("critical %v", p))
	}
	return out
}

// actionIDs renders path's node actions (skipping the root's placeholder
// pass action) as the plain ID sequence RecentSelectionPath tracks.
func actionIDs(t *mctscore.Tree, path []mctscore.Naughty) []int32 {
	ids := make([]int32, 0, len(path))
	for _, idx := range path {
		a := t.Node(idx).Action
		if a.IsPass() {
			continue
		}
		ids = append(ids, a.ID)
	}
	return ids
}
