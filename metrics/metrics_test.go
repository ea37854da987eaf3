package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestCountersIncrement(t *testing.T) {
	before := testutil.ToFloat64(NodesExpanded)
	NodesExpanded.Inc()
	require.Equal(t, before+1, testutil.ToFloat64(NodesExpanded))
}

func TestTTLookupsAndHitsByTable(t *testing.T) {
	before := testutil.ToFloat64(TTLookups.WithLabelValues("block"))
	TTLookups.WithLabelValues("block").Inc()
	require.Equal(t, before+1, testutil.ToFloat64(TTLookups.WithLabelValues("block")))

	beforeHits := testutil.ToFloat64(TTHits.WithLabelValues("grid"))
	TTHits.WithLabelValues("grid").Inc()
	require.Equal(t, beforeHits+1, testutil.ToFloat64(TTHits.WithLabelValues("grid")))
}

func TestGauges(t *testing.T) {
	JobQueueDepth.Set(3)
	require.Equal(t, float64(3), testutil.ToFloat64(JobQueueDepth))

	IdleWorkerSlots.Set(2)
	require.Equal(t, float64(2), testutil.ToFloat64(IdleWorkerSlots))
}
