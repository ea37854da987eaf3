package mctscore

import (
	"sort"

	"github.com/gamesolver/core/gsgame"
	"github.com/gamesolver/core/metrics"
)

// Inferencer is the neural-network black box (spec.md §1 "Deliberately out
// of scope"): given features, it returns a policy over the action space and
// a scalar value. The batching/scheduling machinery around a real network is
// external; this interface is all the solver core depends on, matching the
// teacher's mcts.Inferencer.
type Inferencer interface {
	Infer(features []float32) (policy []float32, value float32)
}

// Expand creates children under leaf from env's legal actions, ordered by
// policy, and returns the raw leaf value (spec.md §4.2 step 3 "Expansion").
// It is a no-op (returning ok=false) if leaf already has children.
func (t *Tree) Expand(leaf Naughty, env gsgame.Environment, infer Inferencer) (value float32, ok bool) {
	n := t.Node(leaf)
	if n.HasChildren {
		return 0, false
	}
	metrics.NodesExpanded.Inc()

	policy, value := infer.Infer(env.Features())
	actions := env.LegalActions()
	if len(actions) == 0 {
		return value, true
	}

	type scored struct {
		idx   int
		score float32
	}
	ranked := make([]scored, len(actions))
	var sum float32
	for i, a := range actions {
		p := float32(0)
		if int(a.ID) >= 0 && int(a.ID) < len(policy) {
			p = policy[a.ID]
		}
		ranked[i] = scored{i, p}
		sum += p
	}
	if sum <= 0 {
		for i := range ranked {
			ranked[i].score = 1 / float32(len(ranked))
		}
	} else {
		for i := range ranked {
			ranked[i].score /= sum
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })

	for _, r := range ranked {
		t.AddChild(leaf, actions[r.idx], r.score)
	}
	return value, true
}
