// Package metrics exposes the solver's operational counters through
// github.com/prometheus/client_golang, grounded on the
// promauto.NewCounter/NewGauge package-level-var idiom seen in the pack's
// fork-choice module (other_examples), adapted from per-chain-event
// counters to per-search counters: node counts, R-zone TT hit/miss rates,
// job queue depth, and GHI-driven reuse rejections.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// NodesExpanded counts every Tree.Expand call across every solver
	// instance in the process (spec.md §4.2 "Expansion").
	NodesExpanded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gamesolver_nodes_expanded_total",
		Help: "Total number of MCTS leaves expanded across all solver instances.",
	})

	// TTLookups and TTHits track the R-zone transposition table's hit rate
	// (spec.md §4.6 "Lookup").
	TTLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gamesolver_tt_lookups_total",
		Help: "Total R-zone TT lookups, partitioned by table kind.",
	}, []string{"table"})
	TTHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gamesolver_tt_hits_total",
		Help: "Total R-zone TT lookups that found a matching stored pattern.",
	}, []string{"table"})

	// GHIRejections counts TT matches discarded because IsValidSimulation
	// failed (spec.md §4.5, §8 invariant I5).
	GHIRejections = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gamesolver_ghi_rejections_total",
		Help: "Total TT matches rejected by the GHI reuse-validity check.",
	})

	// JobQueueDepth reports a manager's count of outstanding dispatched jobs
	// (spec.md §4.8's job handler bookkeeping).
	JobQueueDepth = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "gamesolver_job_queue_depth",
		Help: "Current number of jobs dispatched but not yet completed.",
	})

	// IdleWorkerSlots reports a worker pool's currently free capacity
	// (spec.md §5 "Scheduling model").
	IdleWorkerSlots = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "gamesolver_idle_worker_slots",
		Help: "Current number of worker pool slots with no job assigned.",
	})
)
