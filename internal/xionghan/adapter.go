package xionghan

import "xionghan/internal/game"

// noProgressLimit is the number of consecutive plies without a capture
// that trigger a draw-by-rule, following the same threshold the original
// engine used for its own repetition/idle-move safeguard (original_source
// Position.h m_movesSinceCapture handling).
const noProgressLimit = 120

// repetitionLimit is how many times a hash must recur in the current game's
// history before the game is called a draw by repetition.
const repetitionLimit = 3

// AdaptedPosition implements game.Position over a *Position, adding the
// history and no-progress bookkeeping the rules engine itself does not
// keep, so that Status can decide DrawByRule without a ply parameter being
// threaded through every call (SPEC_FULL.md Open Question 2).
type AdaptedPosition struct {
	pos        *Position
	history    []uint64
	noProgress int
}

// NewAdaptedPosition wraps pos as a fresh game start with empty history.
func NewAdaptedPosition(pos *Position) *AdaptedPosition {
	pos.EnsureHash()
	return &AdaptedPosition{pos: pos, history: []uint64{pos.Hash}}
}

func toGameSide(s Side) game.Side {
	switch s {
	case Red:
		return game.SideA
	case Black:
		return game.SideB
	default:
		return game.SideNone
	}
}

func toGameMove(m Move) game.Move {
	return game.Move{From: m.From, To: m.To}
}

func toEngineMove(m game.Move) Move {
	return Move{From: m.From, To: m.To}
}

// Position exposes the underlying concrete xiangqi position, for
// domain-specific collaborators (internal/eval's heuristic evaluator) that
// need more than the opaque game.Position contract offers.
func (a *AdaptedPosition) Position() *Position { return a.pos }

func (a *AdaptedPosition) SideToMove() game.Side { return toGameSide(a.pos.SideToMove) }

func (a *AdaptedPosition) Key() uint64 { return a.pos.EnsureHash() }

// Status determines Checkmate/Stalemate/DrawByRule/Ongoing. GenerateLegalMoves
// is called with isAI=false: the MCTS core wants only the rules-legal move
// set, not the alpha-beta heuristic pruning applied on the old search path
// (SPEC_FULL.md [MODULE] xionghan).
func (a *AdaptedPosition) Status() game.Status {
	if !a.pos.KingExists(a.pos.SideToMove) {
		return game.Checkmate
	}
	legal := a.pos.GenerateLegalMoves(false)
	if len(legal) == 0 {
		if a.pos.IsInCheck(a.pos.SideToMove) {
			return game.Checkmate
		}
		return game.Stalemate
	}
	if a.noProgress >= noProgressLimit {
		return game.DrawByRule
	}
	if a.repetitions() >= repetitionLimit {
		return game.DrawByRule
	}
	return game.Ongoing
}

func (a *AdaptedPosition) repetitions() int {
	count := 0
	h := a.pos.Hash
	for _, prev := range a.history {
		if prev == h {
			count++
		}
	}
	return count
}

func (a *AdaptedPosition) LegalMoves() []game.Move {
	legal := a.pos.GenerateLegalMoves(false)
	out := make([]game.Move, len(legal))
	for i, m := range legal {
		out[i] = toGameMove(m)
	}
	return out
}

func (a *AdaptedPosition) DoMove(m game.Move) (game.Position, bool) {
	captured := a.pos.Board.Squares[m.To]
	np, ok := a.pos.ApplyMove(toEngineMove(m))
	if !ok {
		return nil, false
	}
	next := &AdaptedPosition{pos: np}
	next.history = append(append([]uint64{}, a.history...), np.Hash)
	if captured != 0 {
		next.noProgress = 0
	} else {
		next.noProgress = a.noProgress + 1
	}
	return next, true
}

func (a *AdaptedPosition) Duplicate() game.Position {
	posCopy := *a.pos
	histCopy := append([]uint64{}, a.history...)
	return &AdaptedPosition{pos: &posCopy, history: histCopy, noProgress: a.noProgress}
}
