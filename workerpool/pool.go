// Package workerpool implements the worker side of spec.md §5's
// "Scheduling model": a fixed-size pool of solver.Solver instances, each
// paired with its own Inferencer, solving dispatched SolverJobs to
// completion or an iteration cap. A buffered channel is used as a free-slot
// semaphore, handing out a whole solver.Solver instance per slot rather than
// a single inference handle.
package workerpool

import (
	"io"

	"github.com/gamesolver/core/gsgame"
	"github.com/gamesolver/core/jobhandler"
	"github.com/gamesolver/core/mctscore"
	"github.com/gamesolver/core/metrics"
	"github.com/gamesolver/core/solver"
	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"
)

// EnvFactory builds the root Environment a job's SGF string describes, the
// per-game responsibility this module does not own (spec.md §1 "game rules
// are external to this module").
type EnvFactory func(sgf string) (gsgame.Environment, error)

// worker pairs one solver.Solver-building configuration with its own
// Inferencer; workers never share a tree, matching spec.md §5's "tree
// structures are single-owner".
type worker struct {
	conf   solver.Config
	rzoneH gsgame.RZoneHandler
	know   gsgame.KnowledgeHandler
	infer  mctscore.Inferencer
	log    *zap.Logger
}

// Pool runs up to size jobs concurrently, one worker per job, using a
// buffered channel of free worker slots as a semaphore.
type Pool struct {
	slots      chan *worker
	maxIterCap int
	log        *zap.SugaredLogger
}

// New builds a Pool of size workers sharing infer; a batching Inferencer
// backing a real neural network is expected to be safe for concurrent use
// across workers (its internal batching/scheduling cadence is outside this
// module's scope, per spec.md §1).
func New(size int, conf solver.Config, rzoneH gsgame.RZoneHandler, know gsgame.KnowledgeHandler, infer mctscore.Inferencer, maxIterCap int, log *zap.SugaredLogger) *Pool {
	p := &Pool{slots: make(chan *worker, size), maxIterCap: maxIterCap, log: log}
	for i := 0; i < size; i++ {
		p.slots <- &worker{conf: conf, rzoneH: rzoneH, know: know, infer: infer, log: log.Desugar()}
	}
	metrics.IdleWorkerSlots.Set(float64(size))
	return p
}

// Solve blocks until a free worker slot exists, then runs job's SGF to a
// solved root status or maxIterCap iterations (whichever comes first),
// filling in job's Status/RZone/Nodes/GHI result fields (spec.md §6's
// response payload).
func (p *Pool) Solve(job jobhandler.SolverJob, makeEnv EnvFactory) jobhandler.SolverJob {
	w := <-p.slots
	metrics.IdleWorkerSlots.Set(float64(len(p.slots)))
	defer func() {
		p.slots <- w
		metrics.IdleWorkerSlots.Set(float64(len(p.slots)))
	}()

	env, err := makeEnv(job.SGF)
	if err != nil {
		p.log.Warnw("bad job sgf, reporting unknown", "job_id", job.JobID, "sgf", job.SGF, "error", err)
		return job
	}

	s := solver.New(w.conf, env, w.rzoneH, w.know, w.infer, w.log)
	s.Run(p.maxIterCap)

	job.Status = s.RootStatus()
	job.Nodes = s.NodeCount()
	if rz, ok := s.RootRZone(); ok {
		job.RZone = rz.RZone
	}
	job.GHI = s.CollectGHI(s.Tree().Root())
	return job
}

// HasIdleSlot reports whether at least one worker is currently free, the
// worker-side mirror of jobhandler.Handler.HasIdleSolvers.
func (p *Pool) HasIdleSlot() bool {
	return len(p.slots) > 0
}

// Size returns the pool's total worker capacity.
func (p *Pool) Size() int {
	return cap(p.slots)
}

// Shutdown waits for every in-flight job to return its worker to the slot
// pool, then closes each worker's Inferencer where it implements io.Closer,
// aggregating any close errors the way the teacher's Agent.Close aggregates
// per-inferer close errors rather than stopping at the first one.
func (p *Pool) Shutdown() error {
	size := cap(p.slots)
	workers := make([]*worker, 0, size)
	for i := 0; i < size; i++ {
		workers = append(workers, <-p.slots)
	}
	metrics.IdleWorkerSlots.Set(0)

	var errs error
	for _, w := range workers {
		if closer, ok := w.infer.(io.Closer); ok {
			if err := closer.Close(); err != nil {
				errs = multierror.Append(errs, err)
			}
		}
	}
	return errs
}
