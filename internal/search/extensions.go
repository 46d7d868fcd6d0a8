package search

import "github.com/hailam/chessig/internal/board"

// calculateExtensions returns how many extra plies to search beyond the
// normal depth reduction for the move just played at pos, given
// numExtensions already accumulated on this line. Only a check
// extension is implemented; the whole line is hard-capped at
// MaxExtensions, with no partial extension when the cap would be
// exceeded.
func calculateExtensions(pos *board.Position, numExtensions int) int {
	extensions := 0
	if pos.InCheck() {
		extensions++
	}
	if extensions+numExtensions > MaxExtensions {
		extensions = 0
	}
	return extensions
}
