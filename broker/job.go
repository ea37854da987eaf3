// Package broker implements the line-oriented broker adapter described in
// spec.md §4.8, §5, §6: a single long-lived TCP connection to a central
// broker process, speaking a newline-terminated ASCII protocol. Grounded on
// original_source/game_solver/manager/broker_adapter.{h,cpp}
// (chat::BrokerAdapter). Per spec.md §9's "I/O thread ownership by a
// lazy-initialised static" redesign note, the adapter here owns its
// connection and goroutines explicitly rather than through a shared static
// io_context.
package broker

import (
	"fmt"
	"math"
	"sync"
)

// JobID identifies one broker-side job. NullJobID marks an id not yet
// assigned (a request still Unconfirmed) or a rejected request.
type JobID uint64

const NullJobID JobID = math.MaxUint64

// JobState is the linear chain spec.md §4.8 describes, with Terminated
// reachable as a side-exit from any state.
type JobState int

const (
	JobUnconfirmed JobState = iota
	JobConfirmed
	JobAssigned
	JobCompleted
	JobTerminated
)

func (s JobState) String() string {
	switch s {
	case JobUnconfirmed:
		return "unconfirmed"
	case JobConfirmed:
		return "confirmed"
	case JobAssigned:
		return "assigned"
	case JobCompleted:
		return "completed"
	case JobTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// Job is one outstanding broker request. After RequestJob creates it, its
// fields are mutated only by the adapter's read loop; callers observe a snapshot
// via Adapter.WaitJobUntil's return value rather than reading fields
// directly while a job may still be in flight.
type Job struct {
	ID      JobID
	State   JobState
	Command string
	Code    int
	Output  string
}

// String renders a Job the way the original's Job::toString does, varying
// format by state (spec.md §6 persisted-state conventions carried into
// logging).
func (j *Job) String() string {
	switch j.State {
	case JobUnconfirmed:
		return fmt.Sprintf("? {%s}", j.Command)
	case JobConfirmed:
		if j.ID == NullJobID {
			return fmt.Sprintf("X {%s}", j.Command)
		}
		return fmt.Sprintf("%d {%s}", j.ID, j.Command)
	case JobAssigned:
		return fmt.Sprintf("%d {%s} at %s", j.ID, j.Command, j.Output)
	case JobCompleted:
		return fmt.Sprintf("%d {%s} %d {%s}", j.ID, j.Command, j.Code, j.Output)
	default:
		return fmt.Sprintf("%d:%d {%s} %d {%s}", j.ID, j.State, j.Command, j.Code, j.Output)
	}
}

// jobWaiter is a per-notifyAllWaits broadcast point; spec.md §5 "the
// condition variable wait_cv wakes any number of waiters on every state
// change" is implemented with a sync.Cond shared by every waiter.
type jobWaiter struct {
	mu   sync.Mutex
	cond *sync.Cond
}

func newJobWaiter() *jobWaiter {
	w := &jobWaiter{}
	w.cond = sync.NewCond(&w.mu)
	return w
}

func (w *jobWaiter) broadcast() {
	w.mu.Lock()
	w.cond.Broadcast()
	w.mu.Unlock()
}
