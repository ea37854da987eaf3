// Package jobhandler bridges the manager's MCTS to the broker layer: it
// defines the SolverJob wire payload (spec.md §6) and the addJob/removeJob
// bookkeeping that dispatches a leaf to a worker and routes its eventual
// result back to the owner that dispatched it (spec.md §2 "Job handler",
// §4.8). Grounded on
// original_source/game_solver/{worker/base/solver_job.{h,cpp},manager/job_handler.{h,cpp}}.
package jobhandler

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gamesolver/core/board"
	"github.com/gamesolver/core/ghi"
	"github.com/gamesolver/core/gsgame"
	"github.com/pkg/errors"
)

// defaultSGF is the SGF SolverJob.Reset seeds when uninitialized, matching
// the original SolverJob::reset (spec.md's SUPPLEMENTED FEATURES list).
func defaultSGF(boardSize int) string {
	return fmt.Sprintf("(;FF[4]CA[UTF-8]SZ[%d]KM[0])", boardSize)
}

// SolverJob is the unit of work dispatched to a worker and the result it
// eventually reports, matching the original's SolverJob struct exactly:
// job fields (SGF, PCNValue) plus result fields (Status, RZone, Nodes, GHI).
type SolverJob struct {
	JobID uint64

	SGF      string
	PCNValue float32

	Status gsgame.SolverStatus
	RZone  board.Bitboard
	Nodes  int
	GHI    ghi.Data
}

// Reset clears j back to its zero job, seeding SGF with the default empty
// board of the given size.
func (j *SolverJob) Reset(boardSize int) {
	*j = SolverJob{SGF: defaultSGF(boardSize)}
}

// SetJob parses "job_id sgf [pcn_value]" (spec.md §6's request payload
// shape, minus the leading "solve" keyword which the transport layer
// strips), matching the original's SolverJob::setJob. It returns false on
// any malformed input (spec.md §7 "Job malformed").
func (j *SolverJob) SetJob(jobString string, boardSize int) bool {
	args := strings.Fields(jobString)
	if len(args) < 2 {
		return false
	}
	id, err := strconv.ParseUint(args[0], 10, 64)
	if err != nil {
		return false
	}
	j.Reset(boardSize)
	j.JobID = id
	j.SGF = args[1]
	if len(args) >= 3 {
		v, err := strconv.ParseFloat(args[2], 32)
		if err != nil {
			return false
		}
		j.PCNValue = float32(v)
	}
	return true
}

// ParseJobResult parses "<status> <rzone> <nodes> \"<ghi>\"" (spec.md §6's
// response payload), matching the original's SolverJob::setJobResult. The
// original indexes args[2]/args[3] behind only an args.size() >= 2 check (a
// latent out-of-bounds read, spec.md §9 Open Questions); this port resolves
// the ambiguity by requiring exactly 4 tokens and returning an error
// otherwise, per DESIGN.md's recorded hardening decision.
func (j *SolverJob) ParseJobResult(resultString string, boardSize int) error {
	args := strings.SplitN(resultString, " ", 4)
	if len(args) != 4 {
		return errors.Errorf("job result %q: expected 4 fields, got %d", resultString, len(args))
	}
	code, err := strconv.Atoi(args[0])
	if err != nil {
		return errors.Wrapf(err, "job result %q: bad status", resultString)
	}
	status, ok := gsgame.StatusFromWireCode(code)
	if !ok {
		return errors.Errorf("job result %q: unknown status code %d", resultString, code)
	}
	rz, err := board.FromHex(board.MaxBitboardSize, args[1])
	if err != nil {
		return errors.Wrapf(err, "job result %q: bad rzone", resultString)
	}
	nodes, err := strconv.Atoi(args[2])
	if err != nil {
		return errors.Wrapf(err, "job result %q: bad node count", resultString)
	}
	quoted := args[3]
	if len(quoted) < 2 || quoted[0] != '"' || quoted[len(quoted)-1] != '"' {
		return errors.Errorf("job result %q: ghi field not quoted", resultString)
	}
	ghiData, err := ghi.ParseString(quoted[1:len(quoted)-1], boardSize)
	if err != nil {
		return errors.Wrapf(err, "job result %q", resultString)
	}

	j.Status = status
	j.RZone = rz
	j.Nodes = nodes
	j.GHI = ghiData
	return nil
}

// JobString renders the request payload, the inverse of SetJob (spec.md §8
// "round-trip" property).
func (j *SolverJob) JobString(withJobID bool) string {
	var b strings.Builder
	if withJobID {
		fmt.Fprintf(&b, "%d ", j.JobID)
	}
	fmt.Fprintf(&b, "%s %v", j.SGF, j.PCNValue)
	return b.String()
}

// JobResultString renders the response payload, the inverse of
// ParseJobResult.
func (j *SolverJob) JobResultString(withJobID bool) string {
	var b strings.Builder
	if withJobID {
		fmt.Fprintf(&b, "%d ", j.JobID)
	}
	fmt.Fprintf(&b, "%d %s %d \"%s\"", j.Status.WireCode(), j.RZone.Hex(), j.Nodes, j.GHI.String())
	return b.String()
}
