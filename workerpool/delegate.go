package workerpool

import (
	"fmt"
	"os"
	"strings"

	"github.com/gamesolver/core/broker"
	"github.com/gamesolver/core/jobhandler"
	"go.uber.org/zap"
)

// Delegate adapts a Pool to broker.Delegate for the worker side of the
// protocol (spec.md §4.8): a worker has no outstanding requests of its own,
// so job assignments arrive as "solve <job-id> <sgf> [<pcn>]" extended
// messages rather than through the request/response/confirm regex table,
// and replies are sent back as raw "response <id> <code> {<output>}" lines
// via broker.Adapter.Respond, the protocol's symmetric half a plain
// requester adapter never exercises.
type Delegate struct {
	pool      *Pool
	makeEnv   EnvFactory
	boardSize int
	adapter   *broker.Adapter
	log       *zap.SugaredLogger
}

// NewDelegate builds a worker-side Delegate dispatching solved jobs to pool
// and replying over adapter. adapter may be nil at construction (see
// SetAdapter): like jobhandler.Handler, a Delegate and the broker.Adapter it
// is passed to refer to each other, so construction is two-phase.
func NewDelegate(pool *Pool, makeEnv EnvFactory, boardSize int, adapter *broker.Adapter, log *zap.SugaredLogger) *Delegate {
	return &Delegate{pool: pool, makeEnv: makeEnv, boardSize: boardSize, adapter: adapter, log: log}
}

// SetAdapter completes two-phase construction when NewDelegate was called
// with a nil adapter.
func (d *Delegate) SetAdapter(adapter *broker.Adapter) {
	d.adapter = adapter
}

// OnJobCompleted is unused on the worker side: a worker never issues
// RequestJob itself, so the adapter never calls this for it.
func (d *Delegate) OnJobCompleted(job *broker.Job) bool { return true }

// OnJobConfirmed is unused on the worker side, for the same reason.
func (d *Delegate) OnJobConfirmed(job *broker.Job, accepted bool) {}

// OnStateChanged is a no-op: a worker reports its own capacity via "notify
// state", it does not consume one.
func (d *Delegate) OnStateChanged(state string, loading, capacity int, details string) {}

// OnNetworkError matches spec.md §7 "Network errors ... process exits".
func (d *Delegate) OnNetworkError(err error) {
	d.log.Errorw("broker network error, exiting", "error", err)
	os.Exit(1)
}

// HandleExtendedMessage recognises "solve <job-id> <sgf> [<pcn>]" and
// dispatches it to the pool asynchronously so the read loop is never
// blocked by a long-running solve (spec.md §5 "one dedicated I/O thread per
// connection" must stay responsive to notify/terminate traffic).
func (d *Delegate) HandleExtendedMessage(message, sender string) bool {
	if !strings.HasPrefix(message, "solve ") {
		return false
	}
	var job jobhandler.SolverJob
	if !job.SetJob(strings.TrimPrefix(message, "solve "), d.boardSize) {
		d.log.Warnw("malformed solve assignment", "message", message, "sender", sender)
		return false
	}
	go d.solve(job)
	return true
}

func (d *Delegate) solve(job jobhandler.SolverJob) {
	result := d.pool.Solve(job, d.makeEnv)
	d.adapter.Respond(fmt.Sprintf("response %d 0 {%s}", result.JobID, result.JobResultString(false)))
}
