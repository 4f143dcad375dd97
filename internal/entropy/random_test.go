package entropy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeededSourcesReproduce(t *testing.T) {
	a, b := New(42), New(42)
	for i := 0; i < 50; i++ {
		assert.Equal(t, a.Intn(1000), b.Intn(1000))
	}
	assert.Equal(t, a.Float(), b.Float())
}

func TestIntnBounds(t *testing.T) {
	s := New(7)
	for i := 0; i < 200; i++ {
		n := s.Intn(3)
		require.GreaterOrEqual(t, n, 0)
		require.Less(t, n, 3)
	}
}

func TestPickCoversAllItems(t *testing.T) {
	items := []string{"a", "b", "c"}
	seen := map[string]bool{}
	s := New(11)
	for i := 0; i < 100; i++ {
		pick := s.Pick(items)
		require.Contains(t, items, pick)
		seen[pick] = true
	}
	assert.Len(t, seen, 3)
}

func TestSampleReturnsDistinctElements(t *testing.T) {
	items := []string{"a", "b", "c", "d", "e"}
	s := New(5)
	for i := 0; i < 50; i++ {
		got := s.Sample(items, 2)
		require.Len(t, got, 2)
		require.NotEqual(t, got[0], got[1])
		require.Contains(t, items, got[0])
		require.Contains(t, items, got[1])
	}

	// Oversized n returns everything, shuffled.
	all := s.Sample(items, 10)
	assert.ElementsMatch(t, items, all)
	// The input slice is never mutated.
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, items)
}
