package search

import (
	"github.com/hailam/chessig/internal/board"
	"github.com/hailam/chessig/internal/store"
)

// Bound records which side of the search window a stored score is
// known to be exact, or just a bound on.
type Bound uint8

const (
	Exact Bound = iota
	LowerBound
	UpperBound
)

type ttEntry struct {
	BestMove board.Move
	Depth    int
	Eval     int
	Bound    Bound
}

// approxTTEntrySize estimates bytes per stored entry, used only to turn
// a megabyte budget into an entry-count capacity for the backing store.
const approxTTEntrySize = 24

// TranspositionTable caches alpha-beta results by Zobrist hash. It is
// backed by a capacity-bounded store.Store, so once full it sheds
// entries at random rather than growing without bound.
type TranspositionTable struct {
	entries *store.Store[uint64, ttEntry]
}

// NewTranspositionTable returns a table sized to hold roughly sizeMB
// megabytes of entries.
func NewTranspositionTable(sizeMB int) *TranspositionTable {
	capacity := (sizeMB * 1024 * 1024) / approxTTEntrySize
	if capacity < 1024 {
		capacity = 1024
	}
	return &TranspositionTable{
		entries: store.New[uint64, ttEntry](capacity, 0xC0FFEE),
	}
}

// Store records a search result for hash at the given depth. If an
// entry already exists for hash with strictly greater depth, the new
// (shallower) result is discarded instead of overwriting it.
func (tt *TranspositionTable) Store(hash uint64, depth, plySearched, eval int, bound Bound, best board.Move) {
	if existing, ok := tt.entries.Get(hash); ok && existing.Depth > depth {
		return
	}
	tt.entries.Set(hash, ttEntry{
		BestMove: best,
		Depth:    depth,
		Eval:     correctMateEvalStore(eval, plySearched),
		Bound:    bound,
	})
}

// LookupEval returns a usable score for hash if the table holds an entry
// searched to at least depth whose bound is conclusive at the given
// alpha/beta window.
func (tt *TranspositionTable) LookupEval(hash uint64, depth, plyFromRoot, alpha, beta int) (int, bool) {
	entry, ok := tt.entries.Get(hash)
	if !ok || entry.Depth < depth {
		return 0, false
	}
	e := correctMateEvalRetrieve(entry.Eval, plyFromRoot)
	switch entry.Bound {
	case Exact:
		return e, true
	case UpperBound:
		if e <= alpha {
			return e, true
		}
	case LowerBound:
		if e >= beta {
			return e, true
		}
	}
	return 0, false
}

// GetStoredMove returns the best move recorded for hash, if any.
func (tt *TranspositionTable) GetStoredMove(hash uint64) (board.Move, bool) {
	entry, ok := tt.entries.Get(hash)
	if !ok {
		return board.NoMove, false
	}
	return entry.BestMove, true
}

// Usage returns the fraction (0 to 1) of the table's capacity in use.
func (tt *TranspositionTable) Usage() float64 {
	return float64(tt.entries.Len()) / float64(tt.entries.Capacity())
}

// Clear empties the table.
func (tt *TranspositionTable) Clear() {
	tt.entries.Clear()
}

// correctMateEvalStore and correctMateEvalRetrieve adjust a mate score
// between "plies to mate from here" and "plies to mate from the
// position this entry is keyed on". isMateEval only flags scores near
// +ImmediateMateScore (the side to move delivering mate), so a losing
// side's score near -ImmediateMateScore is stored and retrieved
// unmodified rather than distance-corrected.
func correctMateEvalStore(eval, plySearched int) int {
	if isMateEval(eval) {
		sign := signOf(eval)
		return (eval*sign + plySearched) * sign
	}
	return eval
}

func correctMateEvalRetrieve(eval, plyFromRoot int) int {
	if isMateEval(eval) {
		sign := signOf(eval)
		return (eval*sign - plyFromRoot) * sign
	}
	return eval
}

func signOf(x int) int {
	if x < 0 {
		return -1
	}
	return 1
}
