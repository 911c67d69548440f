package mcts

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"xionghan/internal/game"
)

// errRootExpandFailed is returned by Think/Ponder when the evaluator could
// not produce a result for the root position (and the context wasn't
// itself the reason — ctx.Err() is returned instead when it was).
var errRootExpandFailed = errors.New("mcts: evaluator failed to expand the root position")

// terminalEval maps a terminal Status to an evaluation in [0,1], expressed
// in the perspective of the side to move at the terminal position (§3).
func terminalEval(status game.Status) float64 {
	switch status {
	case game.Checkmate:
		return 0
	case game.Stalemate, game.DrawByRule:
		return 0.5
	default:
		return 0.5
	}
}

// UCTSearch drives one root-to-leaves search over a shared tree, dispatching
// NumThreads concurrent descent workers (spec.md §2, §5).
type UCTSearch struct {
	cfg       Config
	evaluator game.Evaluator
	tt        *transpositionTable
	reporter  *Reporter

	root    *UCTNode
	rootPos game.Position

	nodes    atomic.Int64
	playouts atomic.Int64
	running  atomic.Bool

	rngMu sync.Mutex
	rng   *rand.Rand
}

// NewSearch builds a fresh search tree rooted at pos. seed parameterises the
// root's Dirichlet-noise draw and the proportional-randomization draw; the
// caller supplies it (rather than this package calling time.Now/math/rand's
// global source) so that runs are reproducible given the same seed.
func NewSearch(cfg Config, evaluator game.Evaluator, pos game.Position, seed int64) *UCTSearch {
	return &UCTSearch{
		cfg:       cfg,
		evaluator: evaluator,
		tt:        newTranspositionTable(),
		reporter:  newReporter(cfg.Quiet),
		root:      newNode(game.MoveNone, 1.0, nil),
		rootPos:   pos,
		rng:       rand.New(rand.NewSource(seed)),
	}
}

// Think runs the search until ctx is cancelled/expires or MaxPlayouts is
// reached, then returns the best move (§4.4, §4.5).
func (s *UCTSearch) Think(ctx context.Context) (game.Move, error) {
	if err := s.ensureRootExpanded(ctx); err != nil {
		return game.MoveNone, err
	}
	s.run(ctx)
	return s.bestMove(), nil
}

// Ponder behaves like Think but also stops as soon as inputPending reports
// true, mirroring a GTP engine's ability to answer "stop" mid-search.
func (s *UCTSearch) Ponder(ctx context.Context, inputPending func() bool) (game.Move, error) {
	if err := s.ensureRootExpanded(ctx); err != nil {
		return game.MoveNone, err
	}
	pollCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	if inputPending != nil {
		go func() {
			ticker := time.NewTicker(20 * time.Millisecond)
			defer ticker.Stop()
			for {
				select {
				case <-pollCtx.Done():
					return
				case <-ticker.C:
					if inputPending() {
						cancel()
						return
					}
				}
			}
		}()
	}
	s.run(pollCtx)
	return s.bestMove(), nil
}

// Stop halts a running search started on another goroutine; in-flight
// descents observe it via the context passed to Think/Ponder, so Stop is
// only needed when the caller wants to end the search early without
// cancelling its own context (e.g. a GTP "stop" command).
func (s *UCTSearch) Stop() { s.running.Store(false) }

func (s *UCTSearch) ensureRootExpanded(ctx context.Context) error {
	if s.root.Expanded() {
		return nil
	}
	_, ok := createChildren(ctx, s.root, s.rootPos, s.evaluator, &s.nodes)
	if !ok {
		if !s.root.Expanded() {
			if err := ctx.Err(); err != nil {
				return err
			}
			return errRootExpandFailed
		}
		return nil
	}
	// Unlike every other node, the root has no parent to back a visit up
	// into, so its own expansion-time eval is not recorded as a visit
	// here (P1: root visits = Σ child.visits, with no separate self-visit)
	// — it only seeds finishExpand's initEval for the root's own
	// first-play-urgency baseline, already set by createChildren above.
	if s.cfg.Noise {
		s.rngMu.Lock()
		dirichletNoise(s.root, s.cfg.DirichletEpsilon, s.cfg.DirichletAlpha, s.rng)
		s.rngMu.Unlock()
	}
	return nil
}

func (s *UCTSearch) run(ctx context.Context) {
	s.running.Store(true)
	defer s.running.Store(false)

	threads := s.cfg.NumThreads
	if threads < 1 {
		threads = 1
	}

	reportCtx, cancelReport := context.WithCancel(ctx)
	defer cancelReport()
	if !s.cfg.Quiet {
		go s.reportLoop(reportCtx)
	}

	budget := int64(s.cfg.MaxPlayouts)
	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < threads; i++ {
		g.Go(func() error {
			for {
				select {
				case <-gctx.Done():
					return nil
				default:
				}
				if !s.running.Load() {
					return nil
				}
				// With a budget, a playout is reserved before the descent and
				// handed back if the descent yields no valid result, so that
				// concurrent workers cannot together overshoot MaxPlayouts.
				if budget > 0 && s.playouts.Add(1) > budget {
					s.playouts.Add(-1)
					return nil
				}
				pos := s.rootPos.Duplicate()
				result := s.playSimulation(gctx, s.root, pos)
				if budget > 0 && !result.Valid {
					s.playouts.Add(-1)
				} else if budget <= 0 && result.Valid {
					s.playouts.Add(1)
				}
			}
		})
	}
	_ = g.Wait()
}

// playSimulation descends from node (positioned at pos) to a leaf, expands
// it if needed, and backs the evaluation up the path it descended. The
// returned SearchResult.Eval, when Valid, is expressed in node's OWN
// side-to-move perspective — exactly the value node.update was just called
// with — so the caller one level up can fold it in with a single flip
// (I3, §4.2).
func (s *UCTSearch) playSimulation(ctx context.Context, node *UCTNode, pos game.Position) SearchResult {
	hash := pos.Key()
	s.tt.sync(hash, node)

	status := pos.Status()
	if status.Terminal() {
		raw := terminalEval(status)
		node.update(raw)
		s.tt.update(hash, node)
		return SearchResult{Valid: true, Eval: raw}
	}

	if !node.Expanded() {
		if s.cfg.MaxTreeSize > 0 && s.nodes.Load() >= int64(s.cfg.MaxTreeSize) {
			raw, ok := evalInPlace(ctx, pos, s.evaluator)
			if !ok {
				return SearchResult{Valid: false}
			}
			node.update(raw)
			s.tt.update(hash, node)
			return SearchResult{Valid: true, Eval: raw}
		}
		rawEval, ok := createChildren(ctx, node, pos, s.evaluator, &s.nodes)
		if ok {
			node.update(rawEval)
			s.tt.update(hash, node)
			return SearchResult{Valid: true, Eval: rawEval}
		}
		if !node.Expanded() {
			return SearchResult{Valid: false}
		}
		// lost the expand race; fall through using the winner's children
	}

	child := node.selectChild(s.cfg)
	if child == nil {
		return SearchResult{Valid: false}
	}
	child.addVirtualLoss(s.cfg.VirtualLossCount)
	childPos, ok := pos.DoMove(child.Move())
	if !ok {
		child.undoVirtualLoss(s.cfg.VirtualLossCount)
		return SearchResult{Valid: false}
	}
	result := s.playSimulation(ctx, child, childPos)
	child.undoVirtualLoss(s.cfg.VirtualLossCount)
	if !result.Valid {
		return result
	}
	raw := 1 - result.Eval
	node.update(raw)
	s.tt.update(hash, node)
	return SearchResult{Valid: true, Eval: raw}
}

func (s *UCTSearch) reportLoop(ctx context.Context) {
	ticker := time.NewTicker(s.effectiveReportInterval())
	defer ticker.Stop()
	start := time.Now()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.reporter.report(s.root, s.playouts.Load(), s.nodes.Load(), time.Since(start))
		}
	}
}

func (s *UCTSearch) effectiveReportInterval() time.Duration {
	if s.cfg.ReportInterval <= 0 {
		return 2500 * time.Millisecond
	}
	return s.cfg.ReportInterval
}

// bestMove picks the root's best child per §4.5: highest visit count,
// randomized proportionally to visits whenever cfg.RandomCnt > 0, with a
// zero-visits fallback to the highest-prior child.
func (s *UCTSearch) bestMove() game.Move {
	children := s.root.sortedChildren()
	if len(children) == 0 {
		return game.MoveNone
	}
	if children[0].Visits() == 0 {
		best := children[0]
		for _, c := range children[1:] {
			if c.Prior() > best.Prior() {
				best = c
			}
		}
		return best.Move()
	}
	if s.cfg.RandomCnt > 0 {
		s.rngMu.Lock()
		children = randomizeFirstProportionally(children, s.rng)
		s.rngMu.Unlock()
	}
	return children[0].Move()
}

// ShouldResign implements the resignation predicate (§4.5): resign once the
// root's best move's own win probability (from the side to move) falls
// below cfg_resignpct, the tree has enough samples to trust, and the game
// has run long enough that resigning isn't premature.
func (s *UCTSearch) ShouldResign(plyPlayed int) bool {
	children := s.root.sortedChildren()
	if len(children) == 0 {
		return false
	}
	if s.root.Visits() < 500 || plyPlayed < s.cfg.MinResignMoves {
		return false
	}
	best := children[0]
	bestQ := 1 - best.Q()
	return bestQ*100 < float64(s.cfg.ResignPct)
}

// PV extracts the principal variation starting at the root: the best child
// at each level, stopping once a node has no children (§4.5).
func (s *UCTSearch) PV() []game.Move {
	var moves []game.Move
	node := s.root
	for {
		children := node.sortedChildren()
		if len(children) == 0 {
			return moves
		}
		best := children[0]
		moves = append(moves, best.Move())
		node = best
	}
}

// Nodes and Playouts report live search statistics to callers (e.g. for a
// selfplay benchmark's throughput measurement).
func (s *UCTSearch) Nodes() int64    { return s.nodes.Load() }
func (s *UCTSearch) Playouts() int64 { return s.playouts.Load() }
func (s *UCTSearch) Root() *UCTNode  { return s.root }
