package mcts

import (
	"context"
	"math"
	"math/rand"
	"sync/atomic"

	"xionghan/internal/game"
)

// createChildren evaluates pos, builds one child per legal move with its
// prior from the policy vector, and atomically publishes them (§4.1).
// Returns (rawEval, true) on success; (0, false) if a different goroutine
// won the race to expand this node, or if the evaluator failed.
func createChildren(ctx context.Context, node *UCTNode, pos game.Position, evaluator game.Evaluator, nodeCounter *atomic.Int64) (float64, bool) {
	if !node.tryBeginExpand() {
		node.waitExpanded()
		return 0, false
	}

	res, err := evaluator.Evaluate(ctx, pos)
	if err != nil {
		// Leave the node unexpanded so a later descent can retry; per
		// spec.md §7 this descent simply returns Invalid.
		node.state.Store(stateUnexpanded)
		return 0, false
	}

	legal := pos.LegalMoves()
	children := make([]*UCTNode, 0, len(legal))
	var priorSum float32
	for _, m := range legal {
		p, ok := res.Policy[m]
		if !ok || p <= 0 {
			p = 1e-6
		}
		priorSum += p
		children = append(children, newNode(m, p, node))
	}
	if priorSum > 0 {
		for _, c := range children {
			c.prior = c.prior / priorSum
		}
	}

	nodeCounter.Add(int64(len(children)))
	node.finishExpand(children, float64(res.Value))
	return float64(res.Value), true
}

// evalInPlace evaluates pos without expanding node — used once the global
// node counter has reached MAX_TREE_SIZE (§4.1 eval_state, §9 P6).
func evalInPlace(ctx context.Context, pos game.Position, evaluator game.Evaluator) (float64, bool) {
	res, err := evaluator.Evaluate(ctx, pos)
	if err != nil {
		return 0, false
	}
	return float64(res.Value), true
}

// dirichletNoise mixes Dirichlet(alpha) exploration noise into the root's
// child priors (§4.1): p' = (1-eps)*p + eps*eta. Applied exactly once,
// before workers start.
func dirichletNoise(root *UCTNode, eps, alpha float64, rng *rand.Rand) {
	children := root.Children()
	if len(children) == 0 {
		return
	}
	eta := sampleDirichlet(len(children), alpha, rng)
	for i, c := range children {
		c.prior = float32((1-eps)*float64(c.prior) + eps*eta[i])
	}
}

// sampleDirichlet draws a symmetric Dirichlet(alpha) vector of length n via
// independent Gamma(alpha,1) draws normalised to sum 1.
func sampleDirichlet(n int, alpha float64, rng *rand.Rand) []float64 {
	out := make([]float64, n)
	var sum float64
	for i := range out {
		g := sampleGamma(alpha, rng)
		out[i] = g
		sum += g
	}
	if sum <= 0 {
		for i := range out {
			out[i] = 1.0 / float64(n)
		}
		return out
	}
	for i := range out {
		out[i] /= sum
	}
	return out
}

// sampleGamma draws from Gamma(shape, 1) via Marsaglia-Tsang for shape>=1,
// boosting sub-1 shapes by the standard u^(1/shape) trick.
func sampleGamma(shape float64, rng *rand.Rand) float64 {
	if shape < 1 {
		u := rng.Float64()
		return sampleGamma(shape+1, rng) * math.Pow(u, 1/shape)
	}
	d := shape - 1.0/3.0
	c := 1.0 / math.Sqrt(9*d)
	for {
		var x, v float64
		for {
			x = rng.NormFloat64()
			v = 1 + c*x
			if v > 0 {
				break
			}
		}
		v = v * v * v
		u := rng.Float64()
		if u < 1-0.0331*x*x*x*x {
			return d * v
		}
		if math.Log(u) < 0.5*x*x+d*(1-v+math.Log(v)) {
			return d * v
		}
	}
}

// randomizeFirstProportionally promotes one child to first place with
// probability proportional to its visit count — used only for early-game
// move diversification (§4.1, driven by cfg_random_cnt).
func randomizeFirstProportionally(children []*UCTNode, rng *rand.Rand) []*UCTNode {
	if len(children) < 2 {
		return children
	}
	var total int64
	for _, c := range children {
		total += c.Visits()
	}
	if total == 0 {
		return children
	}
	pick := rng.Int63n(total)
	var running int64
	idx := 0
	for i, c := range children {
		running += c.Visits()
		if pick < running {
			idx = i
			break
		}
	}
	if idx == 0 {
		return children
	}
	out := make([]*UCTNode, len(children))
	copy(out, children)
	out[0], out[idx] = out[idx], out[0]
	return out
}
