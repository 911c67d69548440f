package eval

import (
	"context"
	"fmt"
	"math"

	"xionghan/internal/game"
	"xionghan/internal/xionghan"
)

// squashScale converts a centipawn-ish material/positional score into a
// win-probability logit; 400 matches the traditional chess convention that
// a one-pawn advantage corresponds to roughly a 60% win rate.
const squashScale = 400.0

// captureWeight and checkWeight bias the move prior the way the old
// alpha-beta search's capture-first move ordering did: a capture is worth
// 3x a quiet move, a check 2x, stacking for a capture that also checks.
const (
	captureWeight = 3.0
	checkWeight   = 2.0
)

// Heuristic is a game.Evaluator with no neural network behind it: material
// and positional scoring, plus a capture/check-biased move prior. It exists
// so the engine and its tests can run with UseNN=false, and grounds its
// scoring directly in engine/eval.go's
// evaluateMaterialPositional/evaluateKingSafety and its capture-first move
// ordering.
type Heuristic struct{}

func NewHeuristic() *Heuristic { return &Heuristic{} }

func (h *Heuristic) Evaluate(_ context.Context, pos game.Position) (game.EvalResult, error) {
	adapted, ok := pos.(*xionghan.AdaptedPosition)
	if !ok {
		return game.EvalResult{}, fmt.Errorf("eval: Heuristic requires *xionghan.AdaptedPosition, got %T", pos)
	}
	p := adapted.Position()

	redScore := xionghan.EvaluateMaterialPositional(p) + xionghan.EvaluateKingSafety(p) + xionghan.EvaluateMobility(p)
	sideScore := redScore
	if p.SideToMove == xionghan.Black {
		sideScore = -redScore
	}
	value := 1 / (1 + math.Exp(-float64(sideScore)/squashScale))

	legal := pos.LegalMoves()
	policy := make(map[game.Move]float32, len(legal))
	if len(legal) > 0 {
		weights := make([]float32, len(legal))
		var total float32
		for i, m := range legal {
			w := float32(1)
			if p.Board.Squares[m.To] != 0 {
				w *= captureWeight
			}
			if next, ok := p.ApplyMove(xionghan.Move{From: m.From, To: m.To}); ok && next.IsInCheck(next.SideToMove) {
				w *= checkWeight
			}
			weights[i] = w
			total += w
		}
		for i, m := range legal {
			policy[m] = weights[i] / total
		}
	}
	return game.EvalResult{Value: float32(value), Policy: policy}, nil
}
