package book

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRootCountsGames(t *testing.T) {
	games := [][]string{
		{"e2e4", "e7e5", "g1f3"},
		{"e2e4", "c7c5"},
		{"d2d4", "d7d5"},
	}
	b := New(games, 1)

	assert.Equal(t, 3, b.start.Count)
	require.Len(t, b.start.Children, 2)
}

func TestApplyMoveFollowsTree(t *testing.T) {
	games := [][]string{
		{"e2e4", "e7e5"},
		{"e2e4", "c7c5"},
	}
	b := New(games, 1)

	ok := b.ApplyMove("e2e4")
	require.True(t, ok)
	assert.Equal(t, 2, b.current.Count)
	require.Len(t, b.current.Children, 2)

	ok = b.ApplyMove("g8f6")
	assert.False(t, ok, "a move absent from every recorded game must not be found")
}

func TestNextMoveOnlyReturnsKnownContinuations(t *testing.T) {
	games := [][]string{
		{"e2e4", "e7e5"},
		{"e2e4", "e7e5"},
		{"e2e4", "c7c5"},
	}
	b := New(games, 7)

	for i := 0; i < 50; i++ {
		mv, ok := b.NextMove()
		require.True(t, ok)
		assert.Contains(t, []string{"e2e4"}, mv)
	}
}

func TestNextMoveDisabledReturnsFalse(t *testing.T) {
	b := New([][]string{{"e2e4"}}, 1)
	b.SetEnabled(false)

	_, ok := b.NextMove()
	assert.False(t, ok)
}

func TestResetReturnsToRoot(t *testing.T) {
	games := [][]string{{"e2e4", "e7e5"}}
	b := New(games, 1)

	require.True(t, b.ApplyMove("e2e4"))
	b.Reset()
	assert.Same(t, b.start, b.current)
}

func TestNextMoveEmptyBookReturnsFalse(t *testing.T) {
	b := New(nil, 1)
	_, ok := b.NextMove()
	assert.False(t, ok)
}
