package search

import "github.com/hailam/chessig/internal/board"

// KillerMoves remembers, per ply, the two quiet moves that most
// recently produced a beta cutoff. Move ordering tries them before
// falling back to history/MVV-LVA.
type KillerMoves struct {
	killers [MaxPly][2]board.Move
}

// NewKillerMoves returns an empty killer table.
func NewKillerMoves() *KillerMoves {
	return &KillerMoves{}
}

// Add records mv as a killer at ply. If mv is already the primary
// killer at this ply, the table is left unchanged (it would otherwise
// shift the same move into both slots).
func (k *KillerMoves) Add(ply int, mv board.Move) {
	if ply < 0 || ply >= MaxPly {
		return
	}
	if k.killers[ply][0] == mv {
		return
	}
	k.killers[ply][1] = k.killers[ply][0]
	k.killers[ply][0] = mv
}

// Is reports whether mv is one of the two killers recorded at ply.
func (k *KillerMoves) Is(ply int, mv board.Move) bool {
	if ply < 0 || ply >= MaxPly {
		return false
	}
	return k.killers[ply][0] == mv || k.killers[ply][1] == mv
}

// Clear resets the table, used at the start of each new game.
func (k *KillerMoves) Clear() {
	*k = KillerMoves{}
}
