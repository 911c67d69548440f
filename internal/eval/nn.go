package eval

import (
	"context"
	"fmt"

	"xionghan/internal/game"
	"xionghan/internal/xionghan"
)

// NN is a game.Evaluator backed by the two-stage from/to policy network and
// value head served by nnRuntime. Evaluate issues one stage-0 inference to
// score from-squares, then one stage-1 inference per distinct from-square
// among the position's legal moves to score their to-squares — the same
// grouping the old alpha-beta move-orderer used (engine/search.go's
// alphaBetaRoot).
type NN struct {
	rt *nnRuntime
}

// NewNN loads the model at modelPath using the onnxruntime shared library
// at libPath, trying TensorRT, then CUDA, then DirectML, then CPU.
func NewNN(modelPath, libPath string) (*NN, error) {
	rt, err := newNNRuntime(modelPath, libPath)
	if err != nil {
		return nil, err
	}
	return &NN{rt: rt}, nil
}

func (n *NN) Close() { n.rt.Close() }

func (n *NN) Evaluate(ctx context.Context, pos game.Position) (game.EvalResult, error) {
	adapted, ok := pos.(*xionghan.AdaptedPosition)
	if !ok {
		return game.EvalResult{}, fmt.Errorf("eval: NN requires *xionghan.AdaptedPosition, got %T", pos)
	}
	p := adapted.Position()

	legal := pos.LegalMoves()
	if len(legal) == 0 {
		return game.EvalResult{}, fmt.Errorf("eval: no legal moves to evaluate")
	}

	stage0, err := n.rt.evaluateStage(p, 0, -1)
	if err != nil {
		return game.EvalResult{}, err
	}

	fromGroups := make(map[int][]game.Move)
	for _, m := range legal {
		fromGroups[m.From] = append(fromGroups[m.From], m)
	}

	policy := make(map[game.Move]float32, len(legal))
	for from, moves := range fromGroups {
		select {
		case <-ctx.Done():
			return game.EvalResult{}, ctx.Err()
		default:
		}

		fromProb := stage0.policy[from]
		stage1, err := n.rt.evaluateStage(p, 1, from)
		if err != nil {
			for _, m := range moves {
				policy[m] = fromProb * 0.001
			}
			continue
		}
		for _, m := range moves {
			policy[m] = fromProb * stage1.policy[m.To]
		}
	}

	return game.EvalResult{Value: stage0.ownWinProb, Policy: policy}, nil
}
