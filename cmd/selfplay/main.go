// selfplay drives the MCTS engine against itself and reports search
// throughput per move — a benchmark, not a training-record generator
// (SPEC_FULL.md [MODULE] cmd's Non-goal: no self-play data export).
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"xionghan/internal/engine"
	"xionghan/internal/xionghan"
)

func main() {
	modelPath := flag.String("model", "xionghan.onnx", "path to ONNX model file")
	libPath := flag.String("lib", "onnxruntime.dll", "path to onnxruntime.dll")
	useNN := flag.Bool("nn", true, "use the neural network evaluator instead of the heuristic")
	threads := flag.Int("threads", 4, "number of concurrent MCTS descent workers")
	moveTime := flag.Duration("move-time", 2*time.Second, "thinking time budget per move")
	maxMoves := flag.Int("maxmoves", 200, "max plies to play before stopping the game")
	games := flag.Int("games", 1, "number of self-play games to run")
	flag.Parse()

	cfg := engine.DefaultConfig()
	cfg.MCTS.NumThreads = *threads
	cfg.UseNN = *useNN
	cfg.ModelPath = *modelPath
	cfg.LibPath = *libPath

	e, err := engine.NewEngine(cfg)
	if err != nil {
		log.Fatalf("engine: init failed: %v", err)
	}

	var totalNodes, totalPlayouts int64
	var totalMoves int
	start := time.Now()

	for g := 0; g < *games; g++ {
		log.Printf("=== game %d/%d ===", g+1, *games)
		pos := xionghan.NewAdaptedPosition(xionghan.NewInitialPosition())

		for ply := 0; ply < *maxMoves; ply++ {
			if pos.Status().Terminal() {
				log.Printf("game %d: over after %d plies (%s)", g+1, ply, pos.Status())
				break
			}

			ctx, cancel := context.WithTimeout(context.Background(), *moveTime)
			analysis, err := e.Think(ctx, pos, ply, 0)
			cancel()
			if err != nil {
				log.Printf("game %d: think failed at ply %d: %v", g+1, ply, err)
				break
			}

			totalNodes += analysis.Nodes
			totalPlayouts += analysis.Playouts
			totalMoves++

			nps := float64(analysis.Playouts) / moveTime.Seconds()
			fmt.Printf("ply %3d  move=%s  nodes=%d  playouts=%d  n/s=%.0f\n",
				ply, analysis.Move.String(), analysis.Nodes, analysis.Playouts, nps)

			if analysis.Resign {
				log.Printf("game %d: resigning at ply %d", g+1, ply)
				break
			}

			next, ok := pos.DoMove(analysis.Move)
			if !ok {
				log.Fatalf("engine returned illegal move %v", analysis.Move)
			}
			pos = next.(*xionghan.AdaptedPosition)
		}
	}

	elapsed := time.Since(start)
	log.Printf("selfplay finished: %d moves, %d nodes, %d playouts, %.0f playouts/s overall",
		totalMoves, totalNodes, totalPlayouts, float64(totalPlayouts)/elapsed.Seconds())
}
