package search

import (
	"github.com/hailam/chessig/internal/board"
	"github.com/hailam/chessig/internal/store"
)

// historyCapacity bounds the number of distinct moves the history
// table tracks, sized to comfortably cover every move played across a
// search while keeping per-entry map overhead modest.
const historyCapacity = 1 << 20

// HistoryHeuristic scores moves (captures as well as quiet moves) by how
// often they have raised alpha, weighted by the depth they were searched
// at. It is keyed only
// on the move itself (from/to/promotion), not on the side to move or
// the piece.
type HistoryHeuristic struct {
	scores *store.Store[board.Move, int]
}

// NewHistoryHeuristic returns an empty history table.
func NewHistoryHeuristic() *HistoryHeuristic {
	return &HistoryHeuristic{scores: store.New[board.Move, int](historyCapacity, 0x51157)}
}

// Update bumps mv's score by depth*depth: the deeper a move is searched
// before raising alpha, the more it is trusted in future orderings.
func (h *HistoryHeuristic) Update(mv board.Move, depth int) {
	current, _ := h.scores.Get(mv)
	h.scores.Set(mv, current+depth*depth)
}

// Score returns mv's accumulated history score, or 0 if never recorded.
func (h *HistoryHeuristic) Score(mv board.Move) int {
	v, _ := h.scores.Get(mv)
	return v
}

// Clear resets the table, used at the start of each new game.
func (h *HistoryHeuristic) Clear() {
	h.scores.Clear()
}
