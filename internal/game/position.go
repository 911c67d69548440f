package game

// Position is the opaque rules-engine collaborator the MCTS core descends
// over. Implementations own their own history/ply bookkeeping so that
// Status can answer draw-by-rule questions without the caller having to
// thread a ply counter through every call (see DESIGN.md's resolution of
// spec.md's un-passed ply parameter).
type Position interface {
	SideToMove() Side

	// Key is the position's Zobrist (or equivalent) hash, used as the
	// transposition-table key.
	Key() uint64

	// Status reports whether the game has ended at this position.
	Status() Status

	// LegalMoves returns every legal move for the side to move. The MCTS
	// core creates exactly one child per element of this slice (I5).
	LegalMoves() []Move

	// DoMove returns the position reached by playing m, and false if m is
	// not legal here. The receiver is left unmodified — this module keeps
	// the rules engine's own functional/immutable style (struct-copy
	// rather than mutate+undo); see SPEC_FULL.md Open Question 3.
	DoMove(m Move) (Position, bool)

	// Duplicate returns an owned clone sharing whatever history state is
	// needed for draw detection, for use by a worker's own descent.
	Duplicate() Position
}
