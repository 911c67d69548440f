// Package engine is the composition root: it wires a game.Position rules
// engine to a game.Evaluator (heuristic or neural network, optionally
// cached) and drives mcts.UCTSearch to pick a move, replacing the old
// alpha-beta search this package used to hold.
package engine

import (
	"context"
	"sync/atomic"

	"xionghan/internal/eval"
	"xionghan/internal/game"
	"xionghan/internal/mcts"
)

// Config configures one Engine: the MCTS tunables plus which Evaluator to
// build.
type Config struct {
	MCTS mcts.Config

	UseNN     bool
	ModelPath string
	LibPath   string
}

// DefaultConfig returns a heuristic-only (no neural network) configuration
// suitable for running without a model file present.
func DefaultConfig() Config {
	return Config{MCTS: mcts.DefaultConfig()}
}

type Engine struct {
	cfg       Config
	evaluator game.Evaluator
	seed      atomic.Int64
}

func NewEngine(cfg Config) (*Engine, error) {
	var evaluator game.Evaluator = eval.NewHeuristic()
	if cfg.UseNN {
		nn, err := eval.NewNN(cfg.ModelPath, cfg.LibPath)
		if err != nil {
			return nil, err
		}
		evaluator = eval.NewCache(nn)
	}
	return &Engine{cfg: cfg, evaluator: evaluator}, nil
}

// Analysis is what Think reports back about the search it just ran.
type Analysis struct {
	Move     game.Move
	PV       []game.Move
	Nodes    int64
	Playouts int64
	Resign   bool
}

// Think runs one MCTS search from pos until ctx is done (or MaxPlayouts is
// reached) and returns the chosen move plus search statistics. plyPlayed is
// how many plies the game has run so far, used by the resignation
// predicate (Config.MCTS.MinResignMoves). maxPlayoutsOverride, if positive,
// replaces Config.MCTS.MaxPlayouts for this call only (a caller-supplied
// simulation budget, e.g. a single HTTP request's requested strength).
func (e *Engine) Think(ctx context.Context, pos game.Position, plyPlayed int, maxPlayoutsOverride int) (Analysis, error) {
	seed := e.seed.Add(1)
	cfg := e.cfg.MCTS
	if maxPlayoutsOverride > 0 {
		cfg.MaxPlayouts = maxPlayoutsOverride
	}
	if plyPlayed >= cfg.RandomCnt {
		cfg.RandomCnt = 0
	}
	search := mcts.NewSearch(cfg, e.evaluator, pos, seed)
	move, err := search.Think(ctx)
	if err != nil {
		return Analysis{}, err
	}
	return Analysis{
		Move:     move,
		PV:       search.PV(),
		Nodes:    search.Nodes(),
		Playouts: search.Playouts(),
		Resign:   search.ShouldResign(plyPlayed),
	}, nil
}
