package mcts

import (
	"math"
	"runtime"
	"sort"
	"sync/atomic"

	"xionghan/internal/game"
)

// evalScale is the fixed-point scale used to accumulate eval_sum in an
// atomic.Uint64. MCTS eval deltas are always in [0,1], so a plain Add
// suffices (no CAS loop needed) — grounded on
// IlikeChooros-go-mcts/pkg/mcts/node.go's sumOutcomes accumulator.
const evalScale = 1 << 24

const (
	stateUnexpanded uint32 = iota
	stateExpanding
	stateExpanded
)

// UCTNode is one node of the shared search tree. All hot fields are
// updated with atomic operations so that many goroutines can descend the
// tree concurrently (spec.md §5).
type UCTNode struct {
	move   game.Move
	prior  float32
	parent *UCTNode

	// initEval is the raw, own-perspective evaluation captured at creation
	// time (m_init_eval in original_source/UCTNode.h). It seeds the
	// first-play-urgency baseline for this node's own children before this
	// node has accumulated any backed-up visits of its own.
	initEval float64

	state       atomic.Uint32
	children    []*UCTNode // written once by the CAS winner; read-only after Expanded()
	visits      atomic.Int64
	evalSum     atomic.Uint64 // fixed-point, own side-to-move perspective
	virtualLoss atomic.Int32
}

func newNode(move game.Move, prior float32, parent *UCTNode) *UCTNode {
	return &UCTNode{move: move, prior: prior, parent: parent}
}

func (n *UCTNode) Move() game.Move { return n.move }
func (n *UCTNode) Prior() float32  { return n.prior }

func (n *UCTNode) Visits() int64      { return n.visits.Load() }
func (n *UCTNode) VirtualLoss() int32 { return n.virtualLoss.Load() }

func (n *UCTNode) Expanded() bool { return n.state.Load() == stateExpanded }

func (n *UCTNode) Children() []*UCTNode {
	if !n.Expanded() {
		return nil
	}
	return n.children
}

// evalSumFloat returns the accumulated eval_sum as a float64, in this
// node's own side-to-move perspective.
func (n *UCTNode) evalSumFloat() float64 {
	return float64(n.evalSum.Load()) / evalScale
}

// Q returns eval_sum/visits in this node's own side-to-move perspective,
// or 0 if unvisited.
func (n *UCTNode) Q() float64 {
	v := n.visits.Load()
	if v == 0 {
		return 0
	}
	return n.evalSumFloat() / float64(v)
}

// update records one completed, valid descent through this node. eval must
// already be expressed in this node's own side-to-move perspective (I3).
func (n *UCTNode) update(eval float64) {
	if eval < 0 {
		eval = 0
	} else if eval > 1 {
		eval = 1
	}
	n.visits.Add(1)
	n.evalSum.Add(uint64(eval * evalScale))
}

func (n *UCTNode) addVirtualLoss(count int32)  { n.virtualLoss.Add(count) }
func (n *UCTNode) undoVirtualLoss(count int32) { n.virtualLoss.Add(-count) }

// tryBeginExpand attempts to become the sole expander of this node (I2,
// P7). The loser must waitExpanded and then use the winner's children.
func (n *UCTNode) tryBeginExpand() bool {
	return n.state.CompareAndSwap(stateUnexpanded, stateExpanding)
}

func (n *UCTNode) waitExpanded() {
	for n.state.Load() == stateExpanding {
		runtime.Gosched()
	}
}

// finishExpand publishes children and the node's own initEval, then flips
// the CAS flag to stateExpanded — the single atomic release spec.md §5
// requires (readers observing Expanded()==true must see the full slice).
func (n *UCTNode) finishExpand(children []*UCTNode, rawEval float64) {
	n.children = children
	n.initEval = rawEval
	n.state.Store(stateExpanded)
}

// fpuBase is the first-play-urgency baseline (in this node's own
// perspective) used for its unvisited children.
func (n *UCTNode) fpuBase() float64 {
	if n.visits.Load() == 0 {
		return n.initEval
	}
	return n.Q()
}

// mergeFrom folds another node's (possibly stale) statistics into this one,
// used by the transposition table's best-effort sync (§4.3). Racy by
// design; a small amount of double-counted drift is acceptable (§9).
func (n *UCTNode) mergeFrom(other *UCTNode) {
	v := other.visits.Load()
	if v == 0 {
		return
	}
	n.visits.Add(v)
	n.evalSum.Add(other.evalSum.Load())
}

// selectChild implements uct_select_child (§4.1): maximise
// Q(child) [from the parent's own perspective, i.e. 1-child.Q()] +
// c_puct * prior(child) * sqrt(parent_visits) / (1 + child_visits + child_virtual_loss).
// Ties broken by insertion (child slice) order.
func (n *UCTNode) selectChild(cfg Config) *UCTNode {
	children := n.children
	if len(children) == 0 {
		return nil
	}
	parentVisits := float64(n.visits.Load())
	sqrtParent := math.Sqrt(math.Max(parentVisits, 1))
	reduction := cfg.FPUReduction
	if n.parent == nil {
		reduction = cfg.RootFPUReduction
	}
	fpu := n.fpuBase() - reduction
	if fpu < 0 {
		fpu = 0
	}

	var best *UCTNode
	bestScore := math.Inf(-1)
	for _, c := range children {
		visits := c.visits.Load()
		vloss := int64(c.virtualLoss.Load())
		denom := float64(visits + vloss)

		var q float64
		if denom > 0 {
			// c.evalSum is in c's own perspective; flip to n's perspective.
			// Each in-flight virtual loss counts as a loss for n's side.
			q = (float64(visits) - c.evalSumFloat()) / denom
		} else {
			q = fpu
		}

		u := cfg.CPuct * float64(c.prior) * sqrtParent / (1 + denom)
		score := q + u
		if score > bestScore {
			bestScore = score
			best = c
		}
	}
	return best
}

// sortedChildren orders children primarily by visits descending,
// secondarily by Q (from this node's own perspective, i.e. 1-child.Q())
// descending — used for both display and root move selection (§4.5).
func (n *UCTNode) sortedChildren() []*UCTNode {
	children := n.Children()
	out := make([]*UCTNode, len(children))
	copy(out, children)
	sort.SliceStable(out, func(i, j int) bool {
		vi, vj := out[i].Visits(), out[j].Visits()
		if vi != vj {
			return vi > vj
		}
		return (1 - out[i].Q()) > (1 - out[j].Q())
	})
	return out
}
