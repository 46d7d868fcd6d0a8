package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreGetSet(t *testing.T) {
	s := New[int, string](4, 1)

	_, ok := s.Get(1)
	assert.False(t, ok)

	s.Set(1, "one")
	v, ok := s.Get(1)
	require.True(t, ok)
	assert.Equal(t, "one", v)
	assert.Equal(t, 1, s.Len())
}

func TestStoreOverwriteDoesNotEvict(t *testing.T) {
	s := New[int, int](2, 1)
	s.Set(1, 10)
	s.Set(2, 20)
	s.Set(1, 99)

	assert.Equal(t, 2, s.Len())
	v, ok := s.Get(1)
	require.True(t, ok)
	assert.Equal(t, 99, v)
	inserts, evictions := s.Stats()
	assert.Equal(t, 2, inserts)
	assert.Equal(t, 0, evictions)
}

func TestStoreEvictsAtCapacity(t *testing.T) {
	s := New[int, int](2, 42)
	s.Set(1, 1)
	s.Set(2, 2)
	s.Set(3, 3)

	assert.Equal(t, 2, s.Len(), "store must never exceed its capacity")
	_, _, evictions := statsTriple(s)
	assert.Equal(t, 1, evictions)
}

func statsTriple(s *Store[int, int]) (int, int, int) {
	inserts, evictions := s.Stats()
	return s.Len(), inserts, evictions
}

func TestStoreGetOrInsert(t *testing.T) {
	s := New[string, int](4, 7)
	calls := 0
	v := s.GetOrInsert("a", func() int { calls++; return 5 })
	assert.Equal(t, 5, v)
	assert.Equal(t, 1, calls)

	v2 := s.GetOrInsert("a", func() int { calls++; return 9 })
	assert.Equal(t, 5, v2)
	assert.Equal(t, 1, calls, "default func must not run when key already present")
}

func TestStoreClear(t *testing.T) {
	s := New[int, int](2, 1)
	s.Set(1, 1)
	s.Set(2, 2)
	s.Clear()

	assert.Equal(t, 0, s.Len())
	_, ok := s.Get(1)
	assert.False(t, ok)
}
