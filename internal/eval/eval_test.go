package eval

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hailam/chessig/internal/board"
)

func TestEvaluateStartingPositionIsZero(t *testing.T) {
	pos := board.NewPosition()
	got := NewClassic().Evaluate(pos)
	assert.Equal(t, 0, got, "the symmetric starting position must evaluate to exactly 0")
}

func TestEvaluateFavorsExtraQueen(t *testing.T) {
	pos, err := board.ParseFEN("4k3/8/8/8/8/8/8/3QK3 w - - 0 1")
	assert.NoError(t, err)

	got := NewClassic().Evaluate(pos)
	assert.Greater(t, got, QueenValue, "a lone extra queen must swing the eval well past its raw value")
}

func TestEvaluateIsSymmetricUnderColorFlip(t *testing.T) {
	white, err := board.ParseFEN("4k3/8/8/8/8/8/8/3QK3 w - - 0 1")
	assert.NoError(t, err)
	black, err := board.ParseFEN("3qk3/8/8/8/8/8/8/4K3 b - - 0 1")
	assert.NoError(t, err)

	evaluator := NewClassic()
	assert.Equal(t, evaluator.Evaluate(white), evaluator.Evaluate(black),
		"evaluation is always from the perspective of the side to move")
}

func TestEndgameWeightBounds(t *testing.T) {
	assert.Equal(t, 1.0, endgameWeight(0), "no non-pawn material means fully in the endgame")
	assert.Equal(t, 0.0, endgameWeight(EndgameMaterialStart), "material at the threshold means fully out of the endgame")
	assert.Equal(t, 0.0, endgameWeight(EndgameMaterialStart*2), "weight must not go negative past the threshold")

	mid := endgameWeight(EndgameMaterialStart / 2)
	assert.GreaterOrEqual(t, mid, 0.0)
	assert.LessOrEqual(t, mid, 1.0)
}

func TestPieceValueOrdering(t *testing.T) {
	assert.Greater(t, PieceValue(board.Queen), PieceValue(board.Rook))
	assert.Greater(t, PieceValue(board.Rook), PieceValue(board.Bishop))
	assert.Greater(t, PieceValue(board.Bishop), PieceValue(board.Knight))
	assert.Greater(t, PieceValue(board.Knight), PieceValue(board.Pawn))
	assert.Equal(t, 0, PieceValue(board.King))
}
