package broker

import (
	"bufio"
	"fmt"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Delegate receives the adapter's protocol callbacks, replacing the
// original's virtual-method overrides (spec.md §9 "Deep virtual
// inheritance"): JobHandler composed the adapter by subclassing it; here it
// composes by implementing this interface and passing itself to New.
type Delegate interface {
	// OnJobCompleted is called once a response/terminate confirmation has
	// updated job's Code/Output/State; it returns whether to ack
	// (consumed=true) or nack (reschedule=false) the response.
	OnJobCompleted(job *Job) bool
	// OnJobConfirmed fires when a request is accepted or rejected.
	OnJobConfirmed(job *Job, accepted bool)
	// OnStateChanged fires on a "notify state" broker message.
	OnStateChanged(state string, loading, capacity int, details string)
	// OnNetworkError fires once, on any unrecoverable network error; the
	// original exits the process here (spec.md §7 "Network errors ...
	// process exits").
	OnNetworkError(err error)
	// HandleExtendedMessage handles any message that matched none of the
	// built-in regexes; it returns whether the message was consumed.
	HandleExtendedMessage(message, sender string) bool
}

// Adapter is a single long-lived line-oriented TCP connection to a broker
// process (spec.md §4.8, §5 "one dedicated I/O thread per connection").
type Adapter struct {
	name   string
	broker string
	delegate Delegate
	log    *zap.SugaredLogger

	conn   net.Conn
	writeC chan string
	stopC  chan struct{}
	wg     sync.WaitGroup

	mu          sync.Mutex
	unconfirmed []*Job
	accepted    map[JobID]*Job

	waiter *jobWaiter
}

// New constructs an Adapter; call Connect to open the connection.
func New(name, brokerName string, delegate Delegate, log *zap.SugaredLogger) *Adapter {
	return &Adapter{
		name:     name,
		broker:   brokerName,
		delegate:   delegate,
		log:      log,
		accepted: make(map[JobID]*Job),
		waiter:   newJobWaiter(),
	}
}

// Connect dials addr, performs the protocol-0 handshake, and starts the
// read/write goroutines (spec.md §4.8 "handshake: protocol 0, name
// <adapter-name>").
func (a *Adapter) Connect(addr string, handshakeWait time.Duration) error {
	conn, err := net.DialTimeout("tcp", addr, handshakeWait)
	if err != nil {
		return errors.Wrapf(err, "broker connect %s", addr)
	}
	a.conn = conn
	a.writeC = make(chan string, 256)
	a.stopC = make(chan struct{})

	a.wg.Add(2)
	go a.writeLoop()
	go a.readLoop()

	a.outputAsync("protocol 0", false)
	a.outputAsync("name "+a.name, false)
	return nil
}

// Disconnect closes the connection and waits for both goroutines to exit,
// returning the socket close error (if any) so callers building an aggregate
// shutdown error (workerpool.Pool.Shutdown) have something to collect.
func (a *Adapter) Disconnect() error {
	if a.conn == nil {
		return nil
	}
	close(a.stopC)
	err := a.conn.Close()
	a.wg.Wait()
	return err
}

// RequestJob sends "request {command}[ with options]" and, when state is
// past JobUnconfirmed, blocks until the job reaches state or timeout
// elapses, per spec.md §4.8's "job creation" request and the original's
// requestJob/waitJobUntil.
func (a *Adapter) RequestJob(command, options string, state JobState, timeout time.Duration) *Job {
	job := &Job{ID: NullJobID, State: JobUnconfirmed, Command: command}
	a.mu.Lock()
	a.unconfirmed = append(a.unconfirmed, job)
	a.mu.Unlock()

	a.outputAsync(stringifyRequest(command, options), true)
	if state > job.State {
		return a.WaitJobUntil(job, state, timeout)
	}
	return job
}

// Respond sends a raw broker-addressed line without going through the
// request/response bookkeeping RequestJob uses, for a worker process
// replying to a job it received via HandleExtendedMessage (spec.md §4.8's
// protocol is symmetric: any connected process may address the broker).
func (a *Adapter) Respond(line string) {
	a.outputAsync(line, true)
}

// TerminateJob sends "terminate <id>" (spec.md §4.8 "explicit
// cancellation") without waiting for confirmation, matching
// spec.md §5's cancellation semantics ("does NOT wait for confirmation").
func (a *Adapter) TerminateJob(job *Job) {
	a.outputAsync(fmt.Sprintf("terminate %d", job.ID), true)
}

// WaitJobUntil blocks until job.State >= state or timeout elapses (0 means
// wait indefinitely), returning job regardless of outcome for the caller to
// inspect its final state.
func (a *Adapter) WaitJobUntil(job *Job, state JobState, timeout time.Duration) *Job {
	a.waiter.mu.Lock()
	defer a.waiter.mu.Unlock()

	if timeout <= 0 {
		for job.State < state {
			a.waiter.cond.Wait()
		}
		return job
	}
	deadline := time.Now().Add(timeout)
	for job.State < state && time.Now().Before(deadline) {
		waitUntil(a.waiter.cond, deadline)
	}
	return job
}

// waitUntil wakes the waiting goroutine at deadline even if no broadcast
// arrives, by spawning a one-shot timer that broadcasts; sync.Cond has no
// native timeout primitive.
func waitUntil(cond *sync.Cond, deadline time.Time) {
	timer := time.AfterFunc(time.Until(deadline), cond.Broadcast)
	defer timer.Stop()
	cond.Wait()
}

// outputAsync queues command (optionally addressed "<broker> << <command>")
// for the write goroutine (spec.md §5 "outbound writes are queued").
func (a *Adapter) outputAsync(command string, toBroker bool) {
	line := command
	if toBroker {
		line = a.broker + " << " + command
	}
	select {
	case a.writeC <- line + "\n":
	case <-a.stopC:
	}
}

func (a *Adapter) writeLoop() {
	defer a.wg.Done()
	for {
		select {
		case line := <-a.writeC:
			if _, err := a.conn.Write([]byte(line)); err != nil {
				a.delegate.OnNetworkError(fmt.Errorf("broker write: %w", err))
				return
			}
		case <-a.stopC:
			return
		}
	}
}

func (a *Adapter) readLoop() {
	defer a.wg.Done()
	scanner := bufio.NewScanner(a.conn)
	for scanner.Scan() {
		a.handleInput(scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		select {
		case <-a.stopC:
		default:
			a.delegate.OnNetworkError(fmt.Errorf("broker read: %w", err))
		}
	}
}

// handleInput dispatches one inbound line per spec.md §4.8's regex table,
// grounded directly on BrokerAdapter::handleInput.
func (a *Adapter) handleInput(input string) {
	m := reMessageFrom.FindStringSubmatch(input)
	if m == nil {
		a.log.Debugw("broker: unrecognised line", "line", input)
		return
	}
	sender, message := m[1], m[2]
	if sender != a.broker {
		a.delegate.HandleExtendedMessage(message, sender)
		return
	}

	switch {
	case reConfirmRequest.MatchString(message):
		a.handleConfirmRequest(reConfirmRequest.FindStringSubmatch(message))
	case reResponse.MatchString(message):
		a.handleResponse(reResponse.FindStringSubmatch(message))
	case reNotifyState.MatchString(message):
		a.handleNotifyState(reNotifyState.FindStringSubmatch(message))
	case reNotifyAssign.MatchString(message):
		a.handleNotifyAssign(reNotifyAssign.FindStringSubmatch(message))
	case reNotifyCapacity.MatchString(message):
		// capacity notifications are observational only in this port; no
		// delegate hook is wired (nothing in spec.md's manager/worker logic
		// reads raw capacity outside "notify state").
		a.log.Debugw("broker: capacity notify", "message", message)
	case reConfirmTerminate.MatchString(message):
		a.handleConfirmTerminate(reConfirmTerminate.FindStringSubmatch(message))
	case reConfirmProtocol.MatchString(message):
		a.handleConfirmProtocol(reConfirmProtocol.FindStringSubmatch(message))
	default:
		a.delegate.HandleExtendedMessage(message, sender)
	}
}

func (a *Adapter) handleConfirmRequest(m []string) {
	accepted := m[1] == "accept"
	command := m[4]

	a.mu.Lock()
	var job *Job
	var idx = -1
	for i, j := range a.unconfirmed {
		if command != "" {
			if j.Command == command && j.ID == NullJobID {
				idx = i
				break
			}
		} else if id, err := strconv.ParseUint(m[2], 10, 64); err == nil && accepted && j.ID == JobID(id) {
			idx = i
			break
		}
	}
	if idx >= 0 {
		job = a.unconfirmed[idx]
		a.unconfirmed = append(a.unconfirmed[:idx], a.unconfirmed[idx+1:]...)
	}
	a.mu.Unlock()
	if job == nil {
		return
	}

	if accepted {
		id, _ := strconv.ParseUint(m[2], 10, 64)
		job.ID = JobID(id)
		a.mu.Lock()
		a.accepted[job.ID] = job
		a.mu.Unlock()
	} else {
		job.ID = NullJobID
	}
	job.State = JobConfirmed
	a.delegate.OnJobConfirmed(job, accepted)
	a.waiter.broadcast()
}

func (a *Adapter) handleResponse(m []string) {
	id, err := strconv.ParseUint(m[1], 10, 64)
	if err != nil {
		return
	}
	codeStr, output := m[2], m[3]

	a.mu.Lock()
	job, ok := a.accepted[JobID(id)]
	if ok {
		delete(a.accepted, JobID(id))
	}
	a.mu.Unlock()
	if !ok {
		return
	}

	if code, err := strconv.Atoi(codeStr); err == nil {
		job.Code = code
		job.Output = output
		job.State = JobCompleted
	} else {
		job.Code = -1
		job.Output = codeStr
		job.State = JobTerminated
	}

	accept := a.delegate.OnJobCompleted(job)
	if !accept {
		job.State = JobUnconfirmed
		a.mu.Lock()
		a.unconfirmed = append(a.unconfirmed, job)
		a.mu.Unlock()
	}
	verb := "accept"
	if !accept {
		verb = "reject"
	}
	a.outputAsync(fmt.Sprintf("%s response %d", verb, id), true)
	a.waiter.broadcast()
}

func (a *Adapter) handleNotifyState(m []string) {
	state := m[1]
	var loading, capacity int
	if m[2] != "" {
		loading, _ = strconv.Atoi(m[2])
		capacity, _ = strconv.Atoi(m[3])
	}
	a.delegate.OnStateChanged(state, loading, capacity, m[4])
}

func (a *Adapter) handleNotifyAssign(m []string) {
	id, err := strconv.ParseUint(m[1], 10, 64)
	if err != nil {
		return
	}
	worker := m[2]

	a.mu.Lock()
	job, ok := a.accepted[JobID(id)]
	a.mu.Unlock()
	if !ok {
		return
	}
	job.Output = worker
	job.State = JobAssigned
	a.waiter.broadcast()
}

func (a *Adapter) handleConfirmTerminate(m []string) {
	accepted := m[1] != "reject"
	if !accepted {
		return
	}
	id, err := strconv.ParseUint(m[2], 10, 64)
	if err != nil {
		return
	}

	a.mu.Lock()
	job, ok := a.accepted[JobID(id)]
	if ok {
		delete(a.accepted, JobID(id))
	}
	a.mu.Unlock()
	if !ok {
		return
	}
	job.Code = -1
	job.Output = "terminate"
	job.State = JobTerminated
	a.delegate.OnJobCompleted(job)
	a.waiter.broadcast()
}

func (a *Adapter) handleConfirmProtocol(m []string) {
	accepted := m[1] == "accept"
	if !accepted {
		a.delegate.OnNetworkError(fmt.Errorf("broker protocol handshake rejected: %s", m[2]))
		return
	}
	for _, item := range []string{"state", "capacity", "assign"} {
		a.outputAsync("subscribe "+item, false)
	}
	a.waiter.broadcast()
}
