package search

import (
	"sort"

	"github.com/hailam/chessig/internal/board"
	"github.com/hailam/chessig/internal/eval"
)

// Move-ordering priority weights. TT move and killers get large fixed
// bonuses on top of the history and MVV-LVA scores; history scores are
// not capped, so a heavily updated move can outrank a killer.
const (
	ttMoveScore  = 9999999
	killerScore  = 99999
	mvvLvaWeight = 10
)

// OrderMoves scores and sorts ml in place, highest priority first.
// Quiescence search passes a captures-only list (the caller generates
// it that way); killers and history are still consulted for those
// calls too, since there is no separate quiescence-specific ordering.
func OrderMoves(pos *board.Position, ml *board.MoveList, tt *TranspositionTable, killers *KillerMoves, history *HistoryHeuristic, ply int) {
	ttMove, hasTTMove := tt.GetStoredMove(pos.Hash)

	moves := ml.Slice()
	scored := make([]scoredMove, len(moves))
	for i, m := range moves {
		scored[i] = scoredMove{move: m, priority: movePriority(pos, m, ttMove, hasTTMove, killers, history, ply)}
	}

	sort.Slice(scored, func(i, j int) bool {
		return scored[i].priority > scored[j].priority
	})

	for i, sm := range scored {
		ml.Set(i, sm.move)
	}
}

type scoredMove struct {
	move     board.Move
	priority int
}

func movePriority(pos *board.Position, m board.Move, ttMove board.Move, hasTTMove bool, killers *KillerMoves, history *HistoryHeuristic, ply int) int {
	score := 0
	if hasTTMove && m == ttMove {
		score += ttMoveScore
	}
	if killers.Is(ply, m) {
		score += killerScore
	}
	score += history.Score(m)
	score += mvvLva(pos, m)
	return score
}

// mvvLva scores captures by victim value * 10 - attacker value (most
// valuable victim, least valuable attacker first); quiet moves score 0.
func mvvLva(pos *board.Position, m board.Move) int {
	victim := captureValue(pos, m)
	if victim == 0 {
		return 0
	}
	attacker := eval.PieceValue(pos.PieceAt(m.From()).Type())
	return victim*mvvLvaWeight - attacker
}

// captureValue returns the value of the piece captured by m, or 0 if m
// is not a capture (the destination square is unoccupied, as is the
// case for an en passant capture).
func captureValue(pos *board.Position, m board.Move) int {
	captured := pos.PieceAt(m.To())
	if captured == board.NoPiece {
		return 0
	}
	return eval.PieceValue(captured.Type())
}
