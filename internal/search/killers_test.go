package search

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hailam/chessig/internal/board"
)

func TestKillerAddTwiceLeavesSecondaryUnchanged(t *testing.T) {
	k := NewKillerMoves()
	mv := board.NewMove(board.E2, board.E4)

	k.Add(3, mv)
	before := k.killers[3][1]
	k.Add(3, mv)

	assert.Equal(t, before, k.killers[3][1], "adding the same primary killer again must not disturb the secondary slot")
}

func TestKillerAddShiftsPrimaryToSecondary(t *testing.T) {
	k := NewKillerMoves()
	first := board.NewMove(board.E2, board.E4)
	second := board.NewMove(board.D2, board.D4)

	k.Add(1, first)
	k.Add(1, second)

	assert.True(t, k.Is(1, first))
	assert.True(t, k.Is(1, second))
	assert.Equal(t, second, k.killers[1][0])
	assert.Equal(t, first, k.killers[1][1])
}

func TestKillerOutOfRangePlyIsNoOp(t *testing.T) {
	k := NewKillerMoves()
	mv := board.NewMove(board.E2, board.E4)

	k.Add(-1, mv)
	k.Add(MaxPly, mv)

	assert.False(t, k.Is(-1, mv))
	assert.False(t, k.Is(MaxPly, mv))
}
