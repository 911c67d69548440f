package mcts

import "time"

// Config holds every tunable knob named in spec.md §4 and the
// original_source parameter set (UCTSearch.h / GTP.cpp). Field names mirror
// cfg_* from the original where a direct analogue exists.
type Config struct {
	// CPuct scales the exploration term in selectChild (§4.1).
	CPuct float64

	// FPUReduction and RootFPUReduction subtract from a node's own
	// fpuBase() to produce the first-play-urgency value offered to its
	// unvisited children; the root uses a separate (usually larger)
	// reduction to encourage exploring more root moves (original_source
	// RootFpuReductionMax).
	FPUReduction     float64
	RootFPUReduction float64

	// NumThreads is the number of concurrent descent workers (§5).
	NumThreads int

	// MaxPlayouts bounds the number of completed simulations; 0 means
	// unbounded (governed by the caller's context deadline instead, §4.4).
	MaxPlayouts int

	// MaxTreeSize bounds total node count; new expansions beyond this are
	// served as in-place evaluations rather than being added to the tree
	// (advisory/best-effort, §9 P6).
	MaxTreeSize int

	// VirtualLossCount is how many virtual losses a descending worker adds
	// to each node it passes through, and removes on its way back (§5 P3).
	// Default 3, per original_source/UCTSearch.cpp's VIRTUAL_LOSS_COUNT.
	VirtualLossCount int32

	// DirichletEpsilon/DirichletAlpha parameterise the root exploration
	// noise mixed in once before workers start (§4.1).
	Noise            bool
	DirichletEpsilon float64
	DirichletAlpha   float64

	// RandomCnt is the number of plies (from the game start) during which
	// the best move is instead drawn proportionally to visit count.
	// UCTSearch has no ply count of its own and draws proportionally
	// whenever RandomCnt > 0; engine.Think clears it once the game has
	// reached RandomCnt plies.
	RandomCnt int

	// ResignPct and MinResignMoves gate the resignation predicate (§4.5):
	// resign once best_Q*100 < ResignPct and the game has lasted at least
	// MinResignMoves plies and root visits exceed a minimum sample size.
	ResignPct      int
	MinResignMoves int

	// Quiet suppresses periodic analysis-line reporting.
	Quiet bool

	// ReportInterval is how often (wall-clock) a running search emits an
	// analysis line; original_source/UCTSearch.cpp uses roughly 2.5s.
	ReportInterval time.Duration
}

// DefaultConfig mirrors original_source/UCTSearch.cpp's UCTSearch::m_*
// defaults and GTP.cpp's DefaultParams, adapted to this module's field
// names.
func DefaultConfig() Config {
	return Config{
		CPuct:            0.8,
		FPUReduction:     0.25,
		RootFPUReduction: 1.0,
		NumThreads:       4,
		MaxPlayouts:      0,
		MaxTreeSize:      6_000_000,
		VirtualLossCount: 3,
		Noise:            false,
		DirichletEpsilon: 0.25,
		DirichletAlpha:   0.3,
		RandomCnt:        0,
		ResignPct:        1,
		MinResignMoves:   0,
		Quiet:            false,
		ReportInterval:   2500 * time.Millisecond,
	}
}
