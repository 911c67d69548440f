package mcts

import (
	"context"
	"testing"
	"time"

	"xionghan/internal/game"
)

func quietConfig() Config {
	cfg := DefaultConfig()
	cfg.Quiet = true
	cfg.MaxTreeSize = 10_000
	return cfg
}

// Scenario 1: forced mate-in-one.
func TestForcedMateInOne(t *testing.T) {
	pos := &fakePosition{maxDepth: 10, mateDepth: 1, moveToMate: moveZero, forcedSingle: true, hash: 1}
	cfg := quietConfig()
	cfg.MaxPlayouts = 200
	s := NewSearch(cfg, &fakeEvaluator{value: 0.5}, pos, 1)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	move, err := s.Think(ctx)
	if err != nil {
		t.Fatalf("Think: %v", err)
	}
	if move != moveZero {
		t.Fatalf("Think() = %v, want the only legal (mating) move", move)
	}

	children := s.Root().Children()
	if len(children) != 1 {
		t.Fatalf("root has %d children, want 1 (single legal move)", len(children))
	}
	if q := 1 - children[0].Q(); q < 0.9 {
		t.Fatalf("mating child's win prob (parent perspective) = %v, want close to 1", q)
	}
}

// Scenario 2/3: stalemate and checkmate leaves evaluate to the right constants.
func TestTerminalEvalConstants(t *testing.T) {
	if got := terminalEval(game.Checkmate); got != 0 {
		t.Fatalf("terminalEval(Checkmate) = %v, want 0", got)
	}
	if got := terminalEval(game.Stalemate); got != 0.5 {
		t.Fatalf("terminalEval(Stalemate) = %v, want 0.5", got)
	}
	if got := terminalEval(game.DrawByRule); got != 0.5 {
		t.Fatalf("terminalEval(DrawByRule) = %v, want 0.5", got)
	}
}

// P1: for a visited non-root node, visits = 1 + sum(child.visits); at the
// root, visits = sum(child.visits) (the root's own expansion is not recorded
// as a visit; each later descent updates the root once, on its way back up).
func TestVisitAccountingMatchesChildSum(t *testing.T) {
	pos := newFakePosition(30, 30, moveZero)
	cfg := quietConfig()
	cfg.MaxPlayouts = 300
	cfg.NumThreads = 1
	s := NewSearch(cfg, &fakeEvaluator{value: 0.5}, pos, 7)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if _, err := s.Think(ctx); err != nil {
		t.Fatalf("Think: %v", err)
	}

	root := s.Root()
	var childSum int64
	for _, c := range root.Children() {
		childSum += c.Visits()
		if c.Expanded() {
			var grandchildSum int64
			for _, gc := range c.Children() {
				grandchildSum += gc.Visits()
			}
			if c.Visits() != 1+grandchildSum {
				t.Errorf("child visits=%d, want 1+%d", c.Visits(), grandchildSum)
			}
		}
	}
	if root.Visits() != childSum {
		t.Fatalf("root.Visits()=%d, want sum of child visits=%d", root.Visits(), childSum)
	}
}

// P3: after the search returns, every node's virtual_loss is back to 0.
func TestVirtualLossZeroAfterSearch(t *testing.T) {
	pos := newFakePosition(20, 20, moveZero)
	cfg := quietConfig()
	cfg.MaxPlayouts = 200
	cfg.NumThreads = 4
	s := NewSearch(cfg, &fakeEvaluator{value: 0.5}, pos, 3)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if _, err := s.Think(ctx); err != nil {
		t.Fatalf("Think: %v", err)
	}

	var walk func(n *UCTNode)
	walk = func(n *UCTNode) {
		if n.VirtualLoss() != 0 {
			t.Errorf("node %v has nonzero virtual loss %d after search", n.Move(), n.VirtualLoss())
		}
		for _, c := range n.Children() {
			walk(c)
		}
	}
	walk(s.Root())
}

// P4: playouts equals the number of valid descents; a bound MaxPlayouts is
// never exceeded.
func TestPlayoutCountRespectsBudget(t *testing.T) {
	pos := newFakePosition(50, 50, moveZero)
	cfg := quietConfig()
	cfg.MaxPlayouts = 137
	cfg.NumThreads = 4
	s := NewSearch(cfg, &fakeEvaluator{value: 0.5}, pos, 11)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := s.Think(ctx); err != nil {
		t.Fatalf("Think: %v", err)
	}
	if got := s.Playouts(); got > int64(cfg.MaxPlayouts) {
		t.Fatalf("Playouts() = %d, exceeds MaxPlayouts = %d", got, cfg.MaxPlayouts)
	}
	if s.Playouts() == 0 {
		t.Fatalf("Playouts() = 0, want at least one completed descent")
	}
}

// P6: no expansion happens once nodes >= MaxTreeSize; total node count never
// exceeds MaxTreeSize plus the root's own children.
func TestTreeSizeCapIsRespected(t *testing.T) {
	pos := newFakePosition(50, 50, moveZero)
	cfg := quietConfig()
	cfg.MaxTreeSize = 20
	cfg.MaxPlayouts = 2000
	cfg.NumThreads = 2
	s := NewSearch(cfg, &fakeEvaluator{value: 0.5}, pos, 5)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := s.Think(ctx); err != nil {
		t.Fatalf("Think: %v", err)
	}

	// The cap check races with concurrent expanders by design (§9: "best
	// effort"), so a generous margin over MaxTreeSize avoids flaking on
	// the rare overshoot rather than asserting an exact bound.
	margin := int64(cfg.MaxTreeSize) * int64(cfg.NumThreads+1)
	if got := s.Nodes(); got > int64(cfg.MaxTreeSize)+margin {
		t.Fatalf("Nodes() = %d, want roughly bounded by MaxTreeSize(%d)", got, cfg.MaxTreeSize)
	}
	if s.Playouts() == 0 {
		t.Fatalf("Playouts() = 0, want search to keep producing in-place evaluations past the cap")
	}
}

// P5: single-threaded search with a fixed seed on an identical position
// produces identical best move and per-child visit counts across runs.
func TestDeterministicWithFixedSeedSingleThreaded(t *testing.T) {
	run := func() (game.Move, []int64) {
		pos := newFakePosition(30, 30, moveZero)
		cfg := quietConfig()
		cfg.NumThreads = 1
		cfg.MaxPlayouts = 400
		s := NewSearch(cfg, &fakeEvaluator{value: 0.5}, pos, 42)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		move, err := s.Think(ctx)
		if err != nil {
			t.Fatalf("Think: %v", err)
		}
		var visits []int64
		for _, c := range s.Root().Children() {
			visits = append(visits, c.Visits())
		}
		return move, visits
	}

	move1, visits1 := run()
	move2, visits2 := run()
	if move1 != move2 {
		t.Fatalf("best move differs across runs with the same seed: %v vs %v", move1, move2)
	}
	if len(visits1) != len(visits2) {
		t.Fatalf("child count differs across runs: %d vs %d", len(visits1), len(visits2))
	}
	for i := range visits1 {
		if visits1[i] != visits2[i] {
			t.Fatalf("child[%d] visits differ across runs: %d vs %d", i, visits1[i], visits2[i])
		}
	}
}

// Round-trip: play_simulation preserves the position it was handed —
// checked by comparing the caller's root position's hash and side-to-move
// before and after a search.
func TestDescentDoesNotMutateCallerPosition(t *testing.T) {
	pos := newFakePosition(30, 30, moveZero)
	originalHash := pos.Key()
	originalSide := pos.SideToMove()

	cfg := quietConfig()
	cfg.MaxPlayouts = 50
	s := NewSearch(cfg, &fakeEvaluator{value: 0.5}, pos, 9)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := s.Think(ctx); err != nil {
		t.Fatalf("Think: %v", err)
	}

	if pos.Key() != originalHash || pos.SideToMove() != originalSide {
		t.Fatalf("search mutated the caller's root position: hash %d->%d side %v->%v",
			originalHash, pos.Key(), originalSide, pos.SideToMove())
	}
}

// Scenario 5: resignation trigger.
func TestShouldResignTriggersOnLowWinProbability(t *testing.T) {
	root := newNode(game.MoveNone, 1.0, nil)
	child := newNode(moveZero, 1.0, root)
	root.finishExpand([]*UCTNode{child}, 0.5)

	for i := 0; i < 600; i++ {
		child.update(0.95) // child's own perspective is bad for the side that just moved into it
		root.update(0.05)
	}

	s := &UCTSearch{cfg: Config{ResignPct: 10, MinResignMoves: 0}, root: root}
	if !s.ShouldResign(0) {
		t.Fatalf("ShouldResign() = false, want true (best-Q well below ResignPct after 600+ visits)")
	}
}

func TestShouldResignFalseBelowVisitFloor(t *testing.T) {
	root := newNode(game.MoveNone, 1.0, nil)
	child := newNode(moveZero, 1.0, root)
	root.finishExpand([]*UCTNode{child}, 0.5)
	child.update(0.99)

	s := &UCTSearch{cfg: Config{ResignPct: 10, MinResignMoves: 0}, root: root}
	if s.ShouldResign(0) {
		t.Fatalf("ShouldResign() = true with only 1 visit, want false (below the 500-visit floor)")
	}
}

func TestShouldResignFalseBeforeMinResignMoves(t *testing.T) {
	root := newNode(game.MoveNone, 1.0, nil)
	child := newNode(moveZero, 1.0, root)
	root.finishExpand([]*UCTNode{child}, 0.5)
	for i := 0; i < 600; i++ {
		child.update(0.95)
		root.update(0.05)
	}

	s := &UCTSearch{cfg: Config{ResignPct: 10, MinResignMoves: 20}, root: root}
	if s.ShouldResign(5) {
		t.Fatalf("ShouldResign() = true before MinResignMoves plies have been played")
	}
}

// PV extraction walks the best child at each level.
func TestPVWalksBestChildren(t *testing.T) {
	pos := newFakePosition(10, 10, moveZero)
	cfg := quietConfig()
	cfg.MaxPlayouts = 100
	cfg.NumThreads = 1
	s := NewSearch(cfg, &fakeEvaluator{value: 0.5}, pos, 21)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := s.Think(ctx); err != nil {
		t.Fatalf("Think: %v", err)
	}
	pv := s.PV()
	if len(pv) == 0 {
		t.Fatalf("PV() returned no moves after a completed search")
	}
}

// The evaluator failing at the root must surface as an error, not a panic
// or a silently-empty tree.
func TestThinkReturnsErrorWhenEvaluatorFails(t *testing.T) {
	pos := newFakePosition(10, 10, moveZero)
	cfg := quietConfig()
	s := NewSearch(cfg, &fakeEvaluator{errOnCall: true}, pos, 1)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if _, err := s.Think(ctx); err == nil {
		t.Fatalf("Think() with a failing evaluator returned no error")
	}
}
