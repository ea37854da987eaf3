package jobhandler

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/gamesolver/core/broker"
	"github.com/gamesolver/core/metrics"
	"go.uber.org/zap"
)

// jobPackage mirrors the original's JobPackage: the broker-side Job plus the
// tree leaf it was dispatched for and the owner queue its eventual result
// belongs to (spec.md §3 "JobPackage").
type jobPackage[Leaf comparable] struct {
	job       *broker.Job
	leaf      Leaf
	solverJob SolverJob
	owner     *ResultDeque
}

// Handler bridges a manager's dispatched leaves to the broker.Adapter,
// implementing broker.Delegate (spec.md §2 "Job handler", §4.8). Leaf is
// the manager's node-reference type (e.g. mctscore.Naughty); jobhandler has
// no dependency on the tree package itself, matching rzone.StoredPattern's
// generic-Ref pattern to avoid an import cycle.
type Handler[Leaf comparable] struct {
	adapter   *broker.Adapter
	boardSize int
	log       *zap.SugaredLogger

	Commands *CommandDeque

	mu         sync.Mutex
	byID       map[broker.JobID]*jobPackage[Leaf]
	byLeaf     map[Leaf]*jobPackage[Leaf]
	numSolvers int
	numLoading int
}

// New constructs a Handler parameterised on the manager's node-reference
// type (mctscore.Naughty in practice). adapter may be nil at construction
// time (see SetAdapter): a Handler is meant to be passed as a
// broker.Adapter's Delegate, and Go offers no way to build the two
// referring to each other in one step, so construction is two-phase:
// build the Handler, build the Adapter with it as Delegate, then call
// SetAdapter. Callers connect the adapter separately (Handler does not own
// the network lifecycle beyond acting as its Delegate), matching the
// original's JobHandler composing rather than owning BrokerAdapter's
// connection setup.
func New[Leaf comparable](adapter *broker.Adapter, boardSize int, log *zap.SugaredLogger) *Handler[Leaf] {
	return &Handler[Leaf]{
		adapter:   adapter,
		boardSize: boardSize,
		log:       log,
		Commands:  NewCommandDeque(),
		byID:      make(map[broker.JobID]*jobPackage[Leaf]),
		byLeaf:    make(map[Leaf]*jobPackage[Leaf]),
	}
}

// SetAdapter completes two-phase construction when New was called with a
// nil adapter (see New's doc comment).
func (h *Handler[Leaf]) SetAdapter(adapter *broker.Adapter) {
	h.adapter = adapter
}

// NumJobs returns the number of outstanding dispatched jobs.
func (h *Handler[Leaf]) NumJobs() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.byID)
}

// HasIdleSolvers reports whether the worker pool has spare capacity, per
// spec.md §4.7's "the handler reports no idle solvers" gate.
func (h *Handler[Leaf]) HasIdleSolvers() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.numLoading < h.numSolvers
}

// AddJob dispatches solverJob for leaf, sending "solve \"<sgf> <pcn>\""
// (spec.md §4.8's job handler AddJob). It returns the broker-assigned job ID
// and ok=false if the broker rejected the request (spec.md §7 "Job
// malformed" maps to a false here too, mirrored from the original's
// assert(false) TODO turned into a regular error path).
func (h *Handler[Leaf]) AddJob(owner *ResultDeque, leaf Leaf, solverJob SolverJob) (jobID uint64, ok bool) {
	command := fmt.Sprintf("solve %q", solverJob.JobString(false))
	job := h.adapter.RequestJob(command, "", broker.JobConfirmed, 0)
	if job.ID == broker.NullJobID {
		h.log.Warnw("broker rejected job request", "command", command)
		return 0, false
	}
	solverJob.JobID = uint64(job.ID)
	pkg := &jobPackage[Leaf]{job: job, leaf: leaf, solverJob: solverJob, owner: owner}

	h.mu.Lock()
	h.byID[job.ID] = pkg
	h.byLeaf[leaf] = pkg
	metrics.JobQueueDepth.Set(float64(len(h.byID)))
	h.mu.Unlock()
	return solverJob.JobID, true
}

// RemoveJob terminates the broker-side job for leaf without waiting for
// confirmation (spec.md §4.8's removeJob, §5 cancellation semantics).
func (h *Handler[Leaf]) RemoveJob(owner *ResultDeque, leaf Leaf) bool {
	h.mu.Lock()
	pkg, ok := h.byLeaf[leaf]
	if ok {
		delete(h.byLeaf, leaf)
		delete(h.byID, pkg.job.ID)
		metrics.JobQueueDepth.Set(float64(len(h.byID)))
	}
	h.mu.Unlock()
	if !ok {
		return false
	}
	h.adapter.TerminateJob(pkg.job)
	return true
}

// RemoveJobs terminates every job belonging to owner, used when a manager
// leaves the search (spec.md §3 JobPackage lifecycle: "removed ... when the
// owner leaves the search").
func (h *Handler[Leaf]) RemoveJobs(owner *ResultDeque) {
	h.mu.Lock()
	var removed []*jobPackage[Leaf]
	for id, pkg := range h.byID {
		if pkg.owner == owner {
			removed = append(removed, pkg)
			delete(h.byID, id)
			delete(h.byLeaf, pkg.leaf)
		}
	}
	metrics.JobQueueDepth.Set(float64(len(h.byID)))
	h.mu.Unlock()
	for _, pkg := range removed {
		h.adapter.TerminateJob(pkg.job)
	}
}

// WaitForIdleSolver blocks until the pool reports spare capacity, polling on
// a fixed interval (spec.md §4.7's "50-ms sleep loop") implemented as a
// zero-growth constant backoff so the retry policy is expressed the same way
// the rest of this port expresses retry/backoff concerns.
func (h *Handler[Leaf]) WaitForIdleSolver(interval time.Duration) {
	b := backoff.WithMaxRetries(backoff.NewConstantBackOff(interval), ^uint64(0))
	backoff.Retry(func() error {
		if h.HasIdleSolvers() {
			return nil
		}
		return errIdleSolverWait
	}, b)
}

var errIdleSolverWait = fmt.Errorf("waiting for an idle solver")

// OnJobCompleted implements broker.Delegate: it parses the response payload
// into the package's SolverJob and pushes it to the owner's result queue,
// per spec.md §7 "Result malformed -> setJobResult returns false -> handler
// nacks the response so the broker may reassign".
func (h *Handler[Leaf]) OnJobCompleted(job *broker.Job) bool {
	var id broker.JobID
	h.mu.Lock()
	var pkg *jobPackage[Leaf]
	for jid, p := range h.byID {
		if p.job == job {
			id, pkg = jid, p
			break
		}
	}
	h.mu.Unlock()
	if pkg == nil {
		h.log.Warnw("job completion for unknown package", "job_id", job.ID)
		return true // do not ask the broker to redo a job we no longer track
	}

	if job.State == broker.JobTerminated {
		if job.Output != "terminate" {
			h.log.Infow("job terminated", "job_id", job.ID, "reason", job.Output)
		}
		h.mu.Lock()
		delete(h.byID, id)
		delete(h.byLeaf, pkg.leaf)
		metrics.JobQueueDepth.Set(float64(len(h.byID)))
		h.mu.Unlock()
		return true
	}

	if job.Code != 0 {
		h.log.Warnw("job returned non-zero code", "job_id", job.ID, "code", job.Code)
		return false
	}
	if err := pkg.solverJob.ParseJobResult(job.Output, h.boardSize); err != nil {
		h.log.Warnw("malformed job result", "job_id", job.ID, "error", err)
		return false
	}

	h.mu.Lock()
	delete(h.byID, id)
	delete(h.byLeaf, pkg.leaf)
	metrics.JobQueueDepth.Set(float64(len(h.byID)))
	h.mu.Unlock()

	pkg.owner.Push(pkg.solverJob)
	return true
}

// OnJobConfirmed implements broker.Delegate: an accepted request counts
// toward in-flight load until the final notify-state reconciles it.
func (h *Handler[Leaf]) OnJobConfirmed(job *broker.Job, accepted bool) {
	if !accepted {
		return
	}
	h.mu.Lock()
	h.numLoading++
	h.mu.Unlock()
}

// OnStateChanged implements broker.Delegate: "notify state" reports the
// pool's authoritative loading/capacity counts.
func (h *Handler[Leaf]) OnStateChanged(state string, loading, capacity int, details string) {
	h.mu.Lock()
	h.numLoading = loading
	h.numSolvers = capacity
	h.mu.Unlock()
}

// OnNetworkError implements broker.Delegate: spec.md §7 "Network errors ...
// single escalation to onNetworkError -> process exits", no reconnect.
func (h *Handler[Leaf]) OnNetworkError(err error) {
	h.log.Errorw("broker network error, exiting", "error", err)
	h.mu.Lock()
	h.numSolvers, h.numLoading = 0, 0
	h.mu.Unlock()
	os.Exit(1)
}

// HandleExtendedMessage implements broker.Delegate: lines of the form
// "solver <command>" are forwarded to Commands for the manager's control
// loop (spec.md §4.7's "load_model"/"quit" handling), matching the
// original's JobHandler::handleExtendedMessage.
func (h *Handler[Leaf]) HandleExtendedMessage(message, sender string) bool {
	if strings.HasPrefix(message, "solver ") {
		h.log.Debugw("solver command", "message", message, "sender", sender)
		h.Commands.Push(strings.TrimPrefix(message, "solver "))
		return true
	}
	return false
}
