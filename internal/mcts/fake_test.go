package mcts

import (
	"context"
	"errors"

	"xionghan/internal/game"
)

// fakePosition is a tiny deterministic game used to exercise UCTSearch
// without depending on the real xiangqi rules engine or ONNX: each ply
// chooses one of two moves (0 or 1); a position is checkmate once depth
// reaches mateDepth and the last move taken was moveToMate, stalemate if
// depth reaches mateDepth via the other move, and otherwise ongoing up to
// maxDepth (declared a draw past that, so every test game terminates).
type fakePosition struct {
	depth        int
	maxDepth     int
	mateDepth    int
	moveToMate   game.Move
	hash         uint64
	lastMove     game.Move
	forcedSingle bool // LegalMoves returns only moveToMate, for forced-mate-in-one tests
}

var moveZero = game.Move{From: 0, To: 0}
var moveOne = game.Move{From: 0, To: 1}

func newFakePosition(maxDepth, mateDepth int, moveToMate game.Move) *fakePosition {
	return &fakePosition{maxDepth: maxDepth, mateDepth: mateDepth, moveToMate: moveToMate, hash: 1}
}

func (p *fakePosition) SideToMove() game.Side {
	if p.depth%2 == 0 {
		return game.SideA
	}
	return game.SideB
}

func (p *fakePosition) Key() uint64 { return p.hash }

func (p *fakePosition) Status() game.Status {
	if p.depth >= p.mateDepth && p.lastMove == p.moveToMate {
		return game.Checkmate
	}
	if p.depth >= p.mateDepth {
		return game.Stalemate
	}
	if p.depth >= p.maxDepth {
		return game.DrawByRule
	}
	return game.Ongoing
}

func (p *fakePosition) LegalMoves() []game.Move {
	if p.Status().Terminal() {
		return nil
	}
	if p.forcedSingle {
		return []game.Move{p.moveToMate}
	}
	return []game.Move{moveZero, moveOne}
}

func (p *fakePosition) DoMove(m game.Move) (game.Position, bool) {
	if p.Status().Terminal() {
		return nil, false
	}
	if m != moveZero && m != moveOne {
		return nil, false
	}
	return &fakePosition{
		depth:        p.depth + 1,
		maxDepth:     p.maxDepth,
		mateDepth:    p.mateDepth,
		moveToMate:   p.moveToMate,
		hash:         p.hash*31 + uint64(m.From+1)*7 + uint64(m.To+1),
		lastMove:     m,
		forcedSingle: p.forcedSingle,
	}, true
}

func (p *fakePosition) Duplicate() game.Position {
	cp := *p
	return &cp
}

// fakeEvaluator returns a fixed value and a uniform policy over whatever
// legal moves the position reports; errOnCall, if set, makes every call
// fail (used to exercise the "evaluator failed" path).
type fakeEvaluator struct {
	value     float32
	errOnCall bool
}

func (e *fakeEvaluator) Evaluate(ctx context.Context, pos game.Position) (game.EvalResult, error) {
	if e.errOnCall {
		return game.EvalResult{}, errors.New("fake evaluator failure")
	}
	moves := pos.LegalMoves()
	policy := make(map[game.Move]float32, len(moves))
	for _, m := range moves {
		policy[m] = 1.0 / float32(len(moves))
	}
	return game.EvalResult{Value: e.value, Policy: policy}, nil
}
