package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hailam/chessig/internal/board"
)

func TestOrderMovesIsAPermutationOfTheInput(t *testing.T) {
	pos := board.NewPosition()
	moves := pos.GenerateLegalMoves()

	before := make(map[board.Move]int)
	for i := 0; i < moves.Len(); i++ {
		before[moves.Get(i)]++
	}

	tt := NewTranspositionTable(1)
	killers := NewKillerMoves()
	history := NewHistoryHeuristic()
	OrderMoves(pos, moves, tt, killers, history, 0)

	after := make(map[board.Move]int)
	for i := 0; i < moves.Len(); i++ {
		after[moves.Get(i)]++
	}

	assert.Equal(t, before, after, "ordering must only permute the move list, never add or drop moves")
}

func TestOrderMovesRanksTTMoveFirst(t *testing.T) {
	pos := board.NewPosition()
	moves := pos.GenerateLegalMoves()
	require.Greater(t, moves.Len(), 1)

	// Pick a move that is not first in generation order as the stored
	// best move, to make sure ranking actually moved it forward.
	ttMove := moves.Get(moves.Len() - 1)

	tt := NewTranspositionTable(1)
	tt.Store(pos.Hash, 1, 0, 0, Exact, ttMove)

	OrderMoves(pos, moves, tt, NewKillerMoves(), NewHistoryHeuristic(), 0)

	assert.Equal(t, ttMove, moves.Get(0), "the stored best move must sort to the front")
}

func TestMvvLvaScoresCapturesAboveQuietMoves(t *testing.T) {
	pos, err := board.ParseFEN("4k3/8/8/3p4/4P3/8/8/4K3 w - - 0 1")
	require.NoError(t, err)

	capture := board.NewMove(board.E4, board.D5)
	quiet := board.NewMove(board.E4, board.E5)

	assert.Greater(t, mvvLva(pos, capture), mvvLva(pos, quiet))
}
